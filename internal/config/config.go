// Package config loads editor settings from a TOML file with
// INKSTONE_* environment overrides and optional live reload.
//
// Settings resolve in layers: built-in defaults, then the file, then
// the environment. A missing file is not an error; the defaults apply.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidValue indicates a setting holds a value outside its
	// allowed range.
	ErrInvalidValue = errors.New("invalid setting value")
)

// Settings holds every editor setting.
type Settings struct {
	// TabWidth is the tab stop distance in cells. At least 1.
	TabWidth int `toml:"tab_width"`

	// WrapWidth is the soft-wrap width in cells. Zero disables
	// wrapping.
	WrapWidth int `toml:"wrap_width"`

	// LineEnding overrides terminator detection: "lf", "crlf", or ""
	// to keep whatever the loaded file uses.
	LineEnding string `toml:"line_ending"`

	// MaxUndo caps the undo history. Zero keeps it unbounded.
	MaxUndo int `toml:"max_undo"`

	// Theme is the path of a YAML style palette, empty for the
	// built-in one.
	Theme string `toml:"theme"`

	// Overwrite starts the editor in overwrite mode.
	Overwrite bool `toml:"overwrite"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		TabWidth:  4,
		WrapWidth: 0,
		MaxUndo:   1000,
	}
}

// Load resolves settings from the TOML file at path, then the
// environment. A missing file leaves the defaults in place.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return s, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else if err := toml.Unmarshal(data, &s); err != nil {
		return s, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	if err := s.applyEnv(); err != nil {
		return s, err
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks every setting against its allowed range.
func (s *Settings) Validate() error {
	if s.TabWidth < 1 {
		return fmt.Errorf("%w: tab_width %d, must be at least 1", ErrInvalidValue, s.TabWidth)
	}
	if s.WrapWidth < 0 {
		return fmt.Errorf("%w: wrap_width %d, must not be negative", ErrInvalidValue, s.WrapWidth)
	}
	if s.MaxUndo < 0 {
		return fmt.Errorf("%w: max_undo %d, must not be negative", ErrInvalidValue, s.MaxUndo)
	}
	switch s.LineEnding {
	case "", "lf", "crlf":
	default:
		return fmt.Errorf("%w: line_ending %q, must be \"lf\", \"crlf\", or empty", ErrInvalidValue, s.LineEnding)
	}
	return nil
}

// Terminator returns the terminator text the LineEnding setting names.
// ok is false when the setting is empty and detection should decide.
func (s *Settings) Terminator() (text string, ok bool) {
	switch s.LineEnding {
	case "lf":
		return "\n", true
	case "crlf":
		return "\r\n", true
	default:
		return "", false
	}
}

// Environment variables overriding file settings.
const (
	envTabWidth   = "INKSTONE_TAB_WIDTH"
	envWrapWidth  = "INKSTONE_WRAP_WIDTH"
	envLineEnding = "INKSTONE_LINE_ENDING"
	envMaxUndo    = "INKSTONE_MAX_UNDO"
	envTheme      = "INKSTONE_THEME"
	envOverwrite  = "INKSTONE_OVERWRITE"
)

func (s *Settings) applyEnv() error {
	if err := envInt(envTabWidth, &s.TabWidth); err != nil {
		return err
	}
	if err := envInt(envWrapWidth, &s.WrapWidth); err != nil {
		return err
	}
	if err := envInt(envMaxUndo, &s.MaxUndo); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(envLineEnding); ok {
		s.LineEnding = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv(envTheme); ok {
		s.Theme = v
	}
	if err := envBool(envOverwrite, &s.Overwrite); err != nil {
		return err
	}
	return nil
}

func envInt(name string, dst *int) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%w: %s=%q, must be an integer", ErrInvalidValue, name, v)
	}
	*dst = n
	return nil
}

func envBool(name string, dst *bool) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "on", "1":
		*dst = true
	case "false", "no", "off", "0":
		*dst = false
	default:
		return fmt.Errorf("%w: %s=%q, must be a boolean", ErrInvalidValue, name, v)
	}
	return nil
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string

	// Message describes the parse error.
	Message string

	// Err is the underlying error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

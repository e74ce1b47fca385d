// Package theme loads named text styles from YAML palettes. Style
// ranges on a document carry names; a theme resolves them to colors
// and attributes at render time.
package theme

import (
	"errors"
	"fmt"
	"os"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Errors returned by theme operations.
var (
	// ErrBadColor indicates a color value that is not #RRGGBB hex.
	ErrBadColor = errors.New("bad color")
)

// Color is an RGB value, or the terminal default when unset.
type Color struct {
	R, G, B uint8
	valid   bool
}

// RGB returns a set color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, valid: true}
}

// IsDefault reports whether the color is the terminal default.
func (c Color) IsDefault() bool { return !c.valid }

// Hex returns the #RRGGBB form, or "" for the terminal default.
func (c Color) Hex() string {
	if !c.valid {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Style is the visual treatment of a named range.
type Style struct {
	Foreground Color
	Background Color
	Bold       bool
	Italic     bool
	Underline  bool
}

// Merge layers other over s: other's set colors win, attributes
// combine.
func (s Style) Merge(other Style) Style {
	out := s
	if !other.Foreground.IsDefault() {
		out.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		out.Background = other.Background
	}
	out.Bold = out.Bold || other.Bold
	out.Italic = out.Italic || other.Italic
	out.Underline = out.Underline || other.Underline
	return out
}

// Theme maps style names to styles.
type Theme struct {
	name   string
	styles map[string]Style
}

// Name returns the theme's name.
func (t *Theme) Name() string { return t.name }

// Default returns the built-in palette. Every name a loaded theme
// omits falls back to these entries.
func Default() *Theme {
	return &Theme{
		name: "inkstone",
		styles: map[string]Style{
			"default":   {Foreground: RGB(0xd8, 0xde, 0xe9), Background: RGB(0x23, 0x27, 0x30)},
			"selection": {Background: RGB(0x3b, 0x42, 0x52)},
			"fold":      {Foreground: RGB(0x7b, 0x88, 0xa1), Italic: true},
			"status":    {Foreground: RGB(0x8f, 0xbc, 0xbb), Bold: true},
			"comment":   {Foreground: RGB(0x61, 0x6e, 0x88), Italic: true},
			"keyword":   {Foreground: RGB(0x81, 0xa1, 0xc1), Bold: true},
			"string":    {Foreground: RGB(0xa3, 0xbe, 0x8c)},
		},
	}
}

type themeSpec struct {
	Name   string               `yaml:"name"`
	Styles map[string]styleSpec `yaml:"styles"`
}

type styleSpec struct {
	FG        string `yaml:"fg"`
	BG        string `yaml:"bg"`
	Bold      bool   `yaml:"bold"`
	Italic    bool   `yaml:"italic"`
	Underline bool   `yaml:"underline"`
}

// Load reads a YAML palette. Entries layer over the built-in palette,
// so a theme file only has to name the styles it changes.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML palette.
func Parse(data []byte) (*Theme, error) {
	var spec themeSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing theme: %w", err)
	}
	t := Default()
	if spec.Name != "" {
		t.name = spec.Name
	}
	for name, ss := range spec.Styles {
		fg, err := parseColor(name, "fg", ss.FG)
		if err != nil {
			return nil, err
		}
		bg, err := parseColor(name, "bg", ss.BG)
		if err != nil {
			return nil, err
		}
		t.styles[name] = Style{
			Foreground: fg,
			Background: bg,
			Bold:       ss.Bold,
			Italic:     ss.Italic,
			Underline:  ss.Underline,
		}
	}
	return t, nil
}

func parseColor(style, field, hex string) (Color, error) {
	if hex == "" {
		return Color{}, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("%w: style %q %s value %q", ErrBadColor, style, field, hex)
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b), nil
}

// Style resolves name, falling back to the "default" entry.
func (t *Theme) Style(name string) Style {
	if s, ok := t.styles[name]; ok {
		return s
	}
	return t.styles["default"]
}

// Lookup resolves name without a fallback.
func (t *Theme) Lookup(name string) (Style, bool) {
	s, ok := t.styles[name]
	return s, ok
}

// Names lists the defined style names in sorted order.
func (t *Theme) Names() []string {
	out := make([]string, 0, len(t.styles))
	for name := range t.styles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

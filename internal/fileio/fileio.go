// Package fileio moves documents across the filesystem boundary. Load
// decodes UTF-8 and BOM-marked UTF-16 into a document; Save re-encodes
// and replaces the target atomically through a temp file. Decoding
// failures come back as errors, never panics.
package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dshills/inkstone/internal/engine/document"
)

// Errors returned by file operations.
var (
	// ErrInvalidEncoding indicates bytes that do not decode in the
	// detected encoding.
	ErrInvalidEncoding = errors.New("invalid encoding")
)

// Encoding identifies how a file's bytes map to text.
type Encoding uint8

const (
	// UTF8 is plain UTF-8 without a byte order mark.
	UTF8 Encoding = iota

	// UTF8BOM is UTF-8 with a leading byte order mark.
	UTF8BOM

	// UTF16LE is little-endian UTF-16 with a byte order mark.
	UTF16LE

	// UTF16BE is big-endian UTF-16 with a byte order mark.
	UTF16BE
)

// String returns the encoding's conventional name.
func (e Encoding) String() string {
	switch e {
	case UTF8BOM:
		return "utf-8 bom"
	case UTF16LE:
		return "utf-16le"
	case UTF16BE:
		return "utf-16be"
	default:
		return "utf-8"
	}
}

var (
	bomUTF8    = []byte{0xef, 0xbb, 0xbf}
	bomUTF16LE = []byte{0xff, 0xfe}
	bomUTF16BE = []byte{0xfe, 0xff}
)

// DetectEncoding reads data's byte order mark and returns the encoding
// with the payload after the mark. Unmarked data is UTF8.
func DetectEncoding(data []byte) (Encoding, []byte) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return UTF8BOM, data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE):
		return UTF16LE, data[len(bomUTF16LE):]
	case bytes.HasPrefix(data, bomUTF16BE):
		return UTF16BE, data[len(bomUTF16BE):]
	default:
		return UTF8, data
	}
}

// Load reads and decodes the file at path into a document. The
// returned encoding is what Save needs to write the file back the way
// it was found. The document's default line ending comes from the
// decoded content.
func Load(path string, opts ...document.Option) (*document.Document, Encoding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, UTF8, fmt.Errorf("reading %s: %w", path, err)
	}
	enc, payload := DetectEncoding(data)
	text, err := decode(enc, payload)
	if err != nil {
		return nil, enc, fmt.Errorf("%s: %w", path, err)
	}
	return document.FromString(text, opts...), enc, nil
}

func decode(enc Encoding, payload []byte) (string, error) {
	switch enc {
	case UTF16LE, UTF16BE:
		if len(payload)%2 != 0 {
			return "", fmt.Errorf("%w: odd utf-16 byte count %d", ErrInvalidEncoding, len(payload))
		}
		endian := unicode.LittleEndian
		if enc == UTF16BE {
			endian = unicode.BigEndian
		}
		out, err := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder().Bytes(payload)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
		}
		return string(out), nil
	default:
		if !utf8.Valid(payload) {
			return "", fmt.Errorf("%w: not valid utf-8", ErrInvalidEncoding)
		}
		return string(payload), nil
	}
}

// Save writes doc to path in enc, streaming the content and replacing
// the target atomically. An existing file keeps its permissions.
func Save(path string, doc *document.Document, enc Encoding) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".inkstone-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := encodeTo(tmp, doc, enc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func encodeTo(f *os.File, doc *document.Document, enc Encoding) error {
	var w io.Writer = f
	switch enc {
	case UTF8BOM:
		if _, err := f.Write(bomUTF8); err != nil {
			return err
		}
	case UTF16LE:
		if _, err := f.Write(bomUTF16LE); err != nil {
			return err
		}
		w = transform.NewWriter(f, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder())
	case UTF16BE:
		if _, err := f.Write(bomUTF16BE); err != nil {
			return err
		}
		w = transform.NewWriter(f, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder())
	}
	if _, err := io.Copy(w, doc.Reader()); err != nil {
		return err
	}
	if tw, ok := w.(*transform.Writer); ok {
		return tw.Close()
	}
	return nil
}

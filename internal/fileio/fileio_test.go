package fileio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/inkstone/internal/engine/document"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	return path
}

func TestLoadUTF8(t *testing.T) {
	path := writeFile(t, []byte("héllo\nwörld"))
	doc, enc, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if enc != UTF8 {
		t.Errorf("encoding = %v, want UTF8", enc)
	}
	if got := doc.Text(); got != "héllo\nwörld" {
		t.Errorf("Text = %q, want %q", got, "héllo\nwörld")
	}
}

func TestLoadBOMVariants(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		enc  Encoding
		text string
	}{
		{"utf-8 bom", []byte{0xef, 0xbb, 0xbf, 'a', 'b', 'c'}, UTF8BOM, "abc"},
		{"utf-16le", []byte{0xff, 0xfe, 0x68, 0x00, 0xe9, 0x00, 0x0a, 0x00}, UTF16LE, "hé\n"},
		{"utf-16be", []byte{0xfe, 0xff, 0x00, 0x68, 0x00, 0xe9, 0x00, 0x0a}, UTF16BE, "hé\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, enc, err := Load(writeFile(t, tt.data))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if enc != tt.enc {
				t.Errorf("encoding = %v, want %v", enc, tt.enc)
			}
			if got := doc.Text(); got != tt.text {
				t.Errorf("Text = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"bad utf-8", []byte{'a', 0xff, 'a'}},
		{"odd utf-16", []byte{0xff, 0xfe, 0x68}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(writeFile(t, tt.data))
			if !errors.Is(err, ErrInvalidEncoding) {
				t.Errorf("Load error = %v, want ErrInvalidEncoding", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestSaveEncodesUTF16LE(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	doc := document.FromString("hé\n")
	if err := Save(path, doc, UTF16LE); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	want := []byte{0xff, 0xfe, 0x68, 0x00, 0xe9, 0x00, 0x0a, 0x00}
	if !bytes.Equal(data, want) {
		t.Errorf("saved bytes = % x, want % x", data, want)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	const content = "line one\nline twö\n"
	for _, enc := range []Encoding{UTF8, UTF8BOM, UTF16LE, UTF16BE} {
		t.Run(enc.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "doc.txt")
			if err := Save(path, document.FromString(content), enc); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			doc, gotEnc, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if gotEnc != enc {
				t.Errorf("encoding = %v, want %v", gotEnc, enc)
			}
			if got := doc.Text(); got != content {
				t.Errorf("Text = %q, want %q", got, content)
			}
		})
	}
}

func TestSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatalf("seeding file: %v", err)
	}
	if err := Save(path, document.FromString("new"), UTF8); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "new" {
		t.Errorf("content = %q, want %q", data, "new")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("listing dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries after save, want 1", len(entries))
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Errorf("mode = %v, want 0600", got)
	}
}

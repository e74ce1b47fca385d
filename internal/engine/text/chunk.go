package text

import "unicode/utf8"

// Chunk size constants control the granularity of storage.
const (
	// minChunkSize is the preferred lower bound when splicing.
	minChunkSize = 128

	// maxChunkSize is the maximum bytes per chunk before splitting.
	maxChunkSize = 256
)

// chunk is a small immutable span of UTF-8 text with its rune count
// cached, so tree descents never rescan content.
type chunk struct {
	s     string
	runes int64
}

func newChunk(s string) chunk {
	return chunk{s: s, runes: int64(utf8.RuneCountInString(s))}
}

// Summary implements sumtree.Item.
func (c chunk) Summary() metric {
	return metric{Runes: c.runes, Bytes: int64(len(c.s))}
}

// metric measures text in runes and bytes.
type metric struct {
	Runes int64
	Bytes int64
}

// Add implements sumtree.Summary.
func (m metric) Add(o metric) metric {
	return metric{Runes: m.Runes + o.Runes, Bytes: m.Bytes + o.Bytes}
}

// chunkify splits s at rune boundaries into chunks of at most
// maxChunkSize bytes. Empty input yields no chunks.
func chunkify(s string) []chunk {
	if s == "" {
		return nil
	}
	out := make([]chunk, 0, len(s)/maxChunkSize+1)
	for len(s) > maxChunkSize {
		cut := maxChunkSize
		for !utf8.RuneStart(s[cut]) {
			cut--
		}
		out = append(out, newChunk(s[:cut]))
		s = s[cut:]
	}
	return append(out, newChunk(s))
}

// byteOfRune returns the byte index of the col-th rune of s; col equal to
// the rune count yields len(s).
func byteOfRune(s string, col int64) int {
	if col <= 0 {
		return 0
	}
	var n int64
	for i := range s {
		if n == col {
			return i
		}
		n++
	}
	return len(s)
}

// Package text stores document content as UTF-8 chunks held in a summary
// tree and addressed by rune offsets, so position arithmetic matches what
// callers count: codepoints, never bytes.
package text

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dshills/inkstone/internal/engine/sumtree"
)

// Buffer is mutable rune-addressed text storage. It is not safe for
// concurrent use; its owner serializes access. Out-of-range offsets are
// programming errors and panic.
type Buffer struct {
	tree *sumtree.Tree[chunk, metric]
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{tree: sumtree.New[chunk, metric]()}
}

// FromString builds a buffer over s in O(n).
func FromString(s string) *Buffer {
	return &Buffer{tree: sumtree.Build[chunk, metric](chunkify(s))}
}

// Len returns the length in runes.
func (b *Buffer) Len() int64 {
	return b.tree.Sum().Runes
}

// ByteLen returns the length in UTF-8 bytes.
func (b *Buffer) ByteLen() int64 {
	return b.tree.Sum().Bytes
}

// String materializes the whole buffer.
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.Grow(int(b.tree.Sum().Bytes))
	for it := b.tree.First(); it.Valid(); it = it.Next() {
		sb.WriteString(it.Payload().s)
	}
	return sb.String()
}

// findChunk locates the chunk whose span contains at, returning its
// iterator and the metric before it. at == Len() addresses the end of
// the final chunk; the iterator is invalid only for an empty buffer.
func (b *Buffer) findChunk(at int64) (sumtree.Iterator[chunk, metric], metric) {
	it, prefix := b.tree.Find(func(pre metric, c chunk) sumtree.Direction {
		switch {
		case at < pre.Runes:
			return sumtree.Left
		case at < pre.Runes+c.runes:
			return sumtree.Stop
		default:
			return sumtree.Right
		}
	})
	if !it.Valid() {
		it = b.tree.Last()
		if it.Valid() {
			prefix = it.PrefixSum()
		}
	}
	return it, prefix
}

// Insert places s at rune offset at.
func (b *Buffer) Insert(at int64, s string) {
	if at < 0 || at > b.Len() {
		panic(fmt.Sprintf("text: insert offset %d out of range", at))
	}
	if s == "" {
		return
	}
	it, prefix := b.findChunk(at)
	if !it.Valid() {
		for _, p := range chunkify(s) {
			b.tree.PushBack(p)
		}
		return
	}
	c := it.Payload()
	cut := byteOfRune(c.s, at-prefix.Runes)
	if len(c.s)+len(s) <= maxChunkSize {
		ns := c.s[:cut] + s + c.s[cut:]
		it.Update(func(p *chunk) { *p = newChunk(ns) })
		return
	}
	next := b.tree.Erase(it)
	for _, p := range chunkify(c.s[:cut] + s + c.s[cut:]) {
		b.tree.InsertBefore(next, p)
	}
}

// Delete removes the runes in [begin, end).
func (b *Buffer) Delete(begin, end int64) {
	if begin < 0 || end > b.Len() || begin > end {
		panic(fmt.Sprintf("text: delete range [%d, %d) invalid", begin, end))
	}
	if begin == end {
		return
	}
	first, fp := b.findChunk(begin)
	last, lp := b.findChunk(end)
	fc, lc := first.Payload(), last.Payload()
	keep := fc.s[:byteOfRune(fc.s, begin-fp.Runes)] +
		lc.s[byteOfRune(lc.s, end-lp.Runes):]

	next := last.Next()
	b.tree.EraseRange(first, next)
	for _, p := range chunkify(keep) {
		b.tree.InsertBefore(next, p)
	}
}

// Slice returns the runes in [begin, end) as a string.
func (b *Buffer) Slice(begin, end int64) string {
	if begin < 0 || end > b.Len() || begin > end {
		panic(fmt.Sprintf("text: slice range [%d, %d) invalid", begin, end))
	}
	if begin == end {
		return ""
	}
	var sb strings.Builder
	it, prefix := b.findChunk(begin)
	col := begin - prefix.Runes
	remaining := end - begin
	for remaining > 0 {
		c := it.Payload()
		take := c.runes - col
		if take > remaining {
			take = remaining
		}
		lo := byteOfRune(c.s, col)
		hi := byteOfRune(c.s, col+take)
		sb.WriteString(c.s[lo:hi])
		remaining -= take
		col = 0
		it = it.Next()
	}
	return sb.String()
}

// RuneAt returns the rune at offset at.
func (b *Buffer) RuneAt(at int64) rune {
	if at < 0 || at >= b.Len() {
		panic(fmt.Sprintf("text: rune offset %d out of range", at))
	}
	it, prefix := b.findChunk(at)
	c := it.Payload()
	r, _ := utf8.DecodeRuneInString(c.s[byteOfRune(c.s, at-prefix.Runes):])
	return r
}

// Reader streams the buffer's UTF-8 bytes. The buffer must not be edited
// while the reader is in use.
func (b *Buffer) Reader() io.Reader {
	return &reader{it: b.tree.First()}
}

type reader struct {
	it  sumtree.Iterator[chunk, metric]
	off int
}

func (r *reader) Read(p []byte) (int, error) {
	var n int
	for n < len(p) {
		if !r.it.Valid() {
			if n == 0 {
				return 0, io.EOF
			}
			return n, nil
		}
		s := r.it.Payload().s
		c := copy(p[n:], s[r.off:])
		n += c
		r.off += c
		if r.off == len(s) {
			r.it = r.it.Next()
			r.off = 0
		}
	}
	return n, nil
}

// Package fixup re-bases positions across document edits.
//
// An edit is summarized as an ordered list of splices. Holders of
// positions captured before the edit (carets, fold boundaries, wrap
// segments) replay the list to learn where those positions live now.
package fixup

import "fmt"

// Fixup describes one splice: at Pos, Removed characters were replaced by
// Added characters. Pos is in the evolving document space, assuming every
// earlier entry of its record has been applied.
type Fixup struct {
	Pos     int64
	Removed int64
	Added   int64
}

// Record is the ordered splice list of one edit. Entries are appended in
// evolving-position order, so their Pos values never decrease.
type Record struct {
	fixups []Fixup
}

// Append adds one splice to the record.
func (r *Record) Append(f Fixup) {
	r.fixups = append(r.fixups, f)
}

// Len returns the number of splices.
func (r *Record) Len() int {
	return len(r.fixups)
}

// At returns the i-th splice.
func (r *Record) At(i int) Fixup {
	return r.fixups[i]
}

// Delta returns the net size change of the whole record.
func (r *Record) Delta() int64 {
	var d int64
	for _, f := range r.fixups {
		d += f.Added - f.Removed
	}
	return d
}

// Context replays one record over a stream of pre-edit positions. Queries
// must be non-decreasing; each Context makes one cheap pass over the
// record no matter how many positions it maps. Decreasing queries are a
// programming error and panic. Multiple Contexts over the same Record are
// independent, so separate monotone passes agree with a single pass.
type Context struct {
	rec   *Record
	idx   int
	delta int64
	last  int64
}

// NewContext returns a fresh cursor over rec.
func NewContext(rec *Record) *Context {
	return &Context{rec: rec, last: -1 << 62}
}

// Apply maps a pre-edit position into post-edit space. A position exactly
// at a pure insertion stays before the inserted text; positions inside a
// removed span collapse to the end of the replacement.
func (c *Context) Apply(pos int64) int64 {
	return c.apply(pos, false)
}

// ApplyAfter is Apply, except a position exactly at a pure insertion
// lands after the inserted text.
func (c *Context) ApplyAfter(pos int64) int64 {
	return c.apply(pos, true)
}

func (c *Context) apply(pos int64, after bool) int64 {
	if pos < c.last {
		panic(fmt.Sprintf("fixup: position %d after %d, queries must not decrease", pos, c.last))
	}
	c.last = pos
	for c.idx < len(c.rec.fixups) {
		f := c.rec.fixups[c.idx]
		cur := pos + c.delta
		switch {
		case cur < f.Pos:
			return cur
		case cur == f.Pos && f.Removed == 0 && !after:
			return cur
		case cur < f.Pos+f.Removed:
			return f.Pos + f.Added
		default:
			c.delta += f.Added - f.Removed
			c.idx++
		}
	}
	return pos + c.delta
}

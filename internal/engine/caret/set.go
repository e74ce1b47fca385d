// Package caret manages the selections of one view: an ordered set of
// non-overlapping carets that merge on contact, survive edits by
// re-basing through fixup records, and collapse back to a single caret
// on reset.
package caret

import (
	"sort"

	"github.com/dshills/inkstone/internal/engine/fixup"
)

// Set is an ordered collection of non-overlapping selections, sorted by
// start position. An initialized Set always holds at least one
// selection; observing an empty Set is a programming error and panics.
type Set struct {
	sels []Selection
}

// NewSet returns a set holding one bare caret at offset 0.
func NewSet() *Set {
	return &Set{sels: []Selection{At(0)}}
}

// NewSetFrom returns a normalized set over the given selections. With no
// arguments it equals NewSet().
func NewSetFrom(sels ...Selection) *Set {
	if len(sels) == 0 {
		return NewSet()
	}
	st := &Set{}
	for _, s := range sels {
		st.Add(s)
	}
	return st
}

// Reset collapses the set to a single bare caret at offset 0.
func (st *Set) Reset() {
	st.sels = append(st.sels[:0], At(0))
}

// Len returns the number of selections.
func (st *Set) Len() int {
	st.mustNotBeEmpty()
	return len(st.sels)
}

// At returns the i-th selection in position order.
func (st *Set) At(i int) Selection {
	st.mustNotBeEmpty()
	return st.sels[i]
}

// All returns the selections in position order. The slice is a copy.
func (st *Set) All() []Selection {
	st.mustNotBeEmpty()
	out := make([]Selection, len(st.sels))
	copy(out, st.sels)
	return out
}

// Primary returns the first selection.
func (st *Set) Primary() Selection {
	st.mustNotBeEmpty()
	return st.sels[0]
}

// Add inserts sel in position order, merging it with every selection it
// touches. It returns the index sel ended up at and whether any merge
// happened.
func (st *Set) Add(sel Selection) (int, bool) {
	i := sort.Search(len(st.sels), func(i int) bool {
		s := st.sels[i]
		if s.Start() != sel.Start() {
			return s.Start() > sel.Start()
		}
		return s.End() >= sel.End()
	})
	merged := false
	for i > 0 && intersects(st.sels[i-1], sel) {
		sel = merge(st.sels[i-1], sel)
		st.sels = append(st.sels[:i-1], st.sels[i:]...)
		merged = true
		i--
	}
	for i < len(st.sels) && intersects(st.sels[i], sel) {
		sel = merge(st.sels[i], sel)
		st.sels = append(st.sels[:i], st.sels[i+1:]...)
		merged = true
	}
	st.sels = append(st.sels, Selection{})
	copy(st.sels[i+1:], st.sels[i:])
	st.sels[i] = sel
	return i, merged
}

// Map replaces every selection with fn's result and renormalizes. Used
// for movement, where each caret moves independently and may land on a
// neighbor.
func (st *Set) Map(fn func(Selection) Selection) {
	st.mustNotBeEmpty()
	old := st.sels
	st.sels = make([]Selection, 0, len(old))
	for _, s := range old {
		next := fn(s)
		st.sels = append(st.sels, next)
	}
	st.normalize()
}

// Fixup re-bases every selection through the edit described by rec and
// renormalizes. Selections whose span was deleted collapse to carets at
// the splice point and merge.
func (st *Set) Fixup(rec *fixup.Record) {
	st.mustNotBeEmpty()
	ctx := fixup.NewContext(rec)
	for i := range st.sels {
		s := st.sels[i]
		lo := ctx.Apply(s.Start())
		hi := ctx.Apply(s.End())
		if s.Backward() {
			st.sels[i].Anchor, st.sels[i].Head = hi, lo
		} else {
			st.sels[i].Anchor, st.sels[i].Head = lo, hi
		}
		st.sels[i].GoalColumn = -1
	}
	st.normalize()
}

// normalize sorts by (start, end) and merges selections that touch.
func (st *Set) normalize() {
	sort.SliceStable(st.sels, func(i, j int) bool {
		a, b := st.sels[i], st.sels[j]
		if a.Start() != b.Start() {
			return a.Start() < b.Start()
		}
		return a.End() < b.End()
	})
	out := st.sels[:1]
	for _, s := range st.sels[1:] {
		if last := &out[len(out)-1]; intersects(*last, s) {
			*last = merge(*last, s)
		} else {
			out = append(out, s)
		}
	}
	st.sels = out
}

func (st *Set) mustNotBeEmpty() {
	if len(st.sels) == 0 {
		panic("caret: set is empty")
	}
}

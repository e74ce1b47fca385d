package view

import (
	"fmt"

	"github.com/dshills/inkstone/internal/engine/fixup"
	"github.com/dshills/inkstone/internal/engine/sumtree"
)

// segment is the character span between two consecutive soft breaks.
// Segment k ends at the k-th break; the text after the last break has
// no node.
type segment struct {
	Chars int64
}

type segTally struct {
	Chars  int64
	Breaks int64
}

func (s segment) Summary() segTally { return segTally{Chars: s.Chars, Breaks: 1} }

func (t segTally) Add(o segTally) segTally {
	return segTally{Chars: t.Chars + o.Chars, Breaks: t.Breaks + o.Breaks}
}

// softBreaks indexes wrap-induced breaks by character offset.
type softBreaks struct {
	tree *sumtree.Tree[segment, segTally]
}

func newSoftBreaks() *softBreaks {
	return &softBreaks{tree: sumtree.New[segment, segTally]()}
}

// set replaces every break. Offsets must be strictly increasing and
// positive; a break at offset zero would start the text mid-row.
func (sb *softBreaks) set(offsets []int64) {
	segs := make([]segment, 0, len(offsets))
	last := int64(0)
	for _, o := range offsets {
		if o <= last {
			panic(fmt.Sprintf("view: soft break offset %d not after %d", o, last))
		}
		segs = append(segs, segment{Chars: o - last})
		last = o
	}
	sb.tree = sumtree.Build[segment, segTally](segs)
}

func (sb *softBreaks) count() int64 {
	return sb.tree.Sum().Breaks
}

// atOrBefore returns how many breaks sit at offsets <= pos. A caret at
// the break offset itself renders on the lower row.
func (sb *softBreaks) atOrBefore(pos int64) int64 {
	_, pre := sb.tree.Find(func(pre segTally, s segment) sumtree.Direction {
		switch {
		case pos < pre.Chars:
			return sumtree.Left
		case pos < pre.Chars+s.Chars:
			return sumtree.Stop
		default:
			return sumtree.Right
		}
	})
	return pre.Breaks
}

// fixupPositions re-bases every break through rec. Breaks that land on
// the same offset merge; breaks pushed outside (0, limit) drop.
func (sb *softBreaks) fixupPositions(rec *fixup.Record, limit int64) {
	if rec == nil || rec.Len() == 0 || sb.tree.Len() == 0 {
		return
	}
	ctx := fixup.NewContext(rec)
	out := make([]int64, 0, sb.tree.Len())
	sum := int64(0)
	for it := sb.tree.First(); it.Valid(); it = it.Next() {
		sum += it.Payload().Chars
		o := ctx.Apply(sum)
		if o <= 0 || o >= limit {
			continue
		}
		if n := len(out); n > 0 && out[n-1] == o {
			continue
		}
		out = append(out, o)
	}
	sb.set(out)
}

// offsets lists every break in ascending order.
func (sb *softBreaks) offsets() []int64 {
	out := make([]int64, 0, sb.tree.Len())
	sum := int64(0)
	for it := sb.tree.First(); it.Valid(); it = it.Next() {
		sum += it.Payload().Chars
		out = append(out, sum)
	}
	return out
}

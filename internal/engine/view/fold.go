package view

import (
	"github.com/dshills/inkstone/internal/engine/fixup"
	"github.com/dshills/inkstone/internal/engine/sumtree"
)

// FoldRegion is one hidden span in absolute coordinates. Begin doubles
// as the region's handle for removal.
type FoldRegion struct {
	Begin int64
	End   int64
}

// region stores one fold relative to its predecessor. Gap counts the
// visible characters since the previous region's end, Span the hidden
// ones; GapLines and SpanLines count the breaks inside each piece.
type region struct {
	Gap       int64
	Span      int64
	GapLines  int64
	SpanLines int64
}

type foldTally struct {
	Chars       int64
	Lines       int64
	Hidden      int64
	HiddenLines int64
	Regions     int64
}

func (r region) Summary() foldTally {
	return foldTally{
		Chars:       r.Gap + r.Span,
		Lines:       r.GapLines + r.SpanLines,
		Hidden:      r.Span,
		HiddenLines: r.SpanLines,
		Regions:     1,
	}
}

func (t foldTally) Add(o foldTally) foldTally {
	return foldTally{
		Chars:       t.Chars + o.Chars,
		Lines:       t.Lines + o.Lines,
		Hidden:      t.Hidden + o.Hidden,
		HiddenLines: t.HiddenLines + o.HiddenLines,
		Regions:     t.Regions + o.Regions,
	}
}

// folds indexes hidden spans ordered by position. Regions never
// overlap; two regions may touch.
type folds struct {
	tree *sumtree.Tree[region, foldTally]
}

func newFolds() *folds {
	return &folds{tree: sumtree.New[region, foldTally]()}
}

func (f *folds) count() int64 {
	return f.tree.Sum().Regions
}

func (f *folds) hiddenLines() int64 {
	return f.tree.Sum().HiddenLines
}

func (f *folds) hiddenChars() int64 {
	return f.tree.Sum().Hidden
}

// overlapping returns the first region whose end lies beyond pos,
// together with the tally of everything before it.
func (f *folds) overlapping(pos int64) (sumtree.Iterator[region, foldTally], foldTally) {
	return f.tree.Find(func(pre foldTally, r region) sumtree.Direction {
		switch {
		case pos < pre.Chars:
			return sumtree.Left
		case pos < pre.Chars+r.Gap+r.Span:
			return sumtree.Stop
		default:
			return sumtree.Right
		}
	})
}

// add inserts [begin, end) and evicts every region it properly
// overlaps. Regions merely touching the new bounds survive. lineOf
// reports the logical line of a position.
func (f *folds) add(begin, end int64, lineOf func(int64) int64) {
	first, pre := f.overlapping(begin)
	prevEnd := pre.Chars
	prevLines := pre.Lines
	// Walk the evicted run before mutating; relative gaps would go
	// stale under piecewise erasure.
	absEnd := pre.Chars
	absLines := pre.Lines
	cursor := first
	for cursor.Valid() {
		r := cursor.Payload()
		if absEnd+r.Gap >= end {
			break
		}
		absEnd += r.Gap + r.Span
		absLines += r.GapLines + r.SpanLines
		cursor = cursor.Next()
	}
	var nextBegin, nextLine int64
	hasNext := cursor.Valid()
	if hasNext {
		r := cursor.Payload()
		nextBegin = absEnd + r.Gap
		nextLine = absLines + r.GapLines
	}
	f.tree.EraseRange(first, cursor)
	beginLine := lineOf(begin)
	endLine := lineOf(end)
	f.tree.InsertBefore(cursor, region{
		Gap:       begin - prevEnd,
		Span:      end - begin,
		GapLines:  beginLine - prevLines,
		SpanLines: endLine - beginLine,
	})
	if hasNext {
		cursor.Update(func(r *region) {
			r.Gap = nextBegin - end
			r.GapLines = nextLine - endLine
		})
	}
}

// remove drops the region starting exactly at begin, folding its span
// back into the successor's gap. It reports whether a region matched.
func (f *folds) remove(begin int64) bool {
	it, pre := f.overlapping(begin)
	if !it.Valid() {
		return false
	}
	r := it.Payload()
	if pre.Chars+r.Gap != begin {
		return false
	}
	next := it.Next()
	f.tree.Erase(it)
	if next.Valid() {
		next.Update(func(n *region) {
			n.Gap += r.Gap + r.Span
			n.GapLines += r.GapLines + r.SpanLines
		})
	}
	return true
}

// regions lists every fold in absolute coordinates.
func (f *folds) regions() []FoldRegion {
	out := make([]FoldRegion, 0, f.tree.Len())
	end := int64(0)
	for it := f.tree.First(); it.Valid(); it = it.Next() {
		r := it.Payload()
		begin := end + r.Gap
		end = begin + r.Span
		out = append(out, FoldRegion{Begin: begin, End: end})
	}
	return out
}

// containing returns the region covering pos, if any.
func (f *folds) containing(pos int64) (FoldRegion, bool) {
	it, pre := f.overlapping(pos)
	if !it.Valid() {
		return FoldRegion{}, false
	}
	r := it.Payload()
	begin := pre.Chars + r.Gap
	if pos < begin {
		return FoldRegion{}, false
	}
	return FoldRegion{Begin: begin, End: begin + r.Span}, true
}

// foldedPos maps a logical position to the folded coordinate space,
// where every hidden span has zero width. Positions inside a region
// land on the region's collapse point.
func (f *folds) foldedPos(pos int64) int64 {
	it, pre := f.overlapping(pos)
	if !it.Valid() {
		return pos - pre.Hidden
	}
	begin := pre.Chars + it.Payload().Gap
	if pos < begin {
		return pos - pre.Hidden
	}
	return begin - pre.Hidden
}

// unfoldedPos maps a folded coordinate back to a logical position. The
// collapse point of a region maps to its begin, so a round trip from
// inside a hidden span lands on the span's start.
func (f *folds) unfoldedPos(folded int64) int64 {
	it, pre := f.tree.Find(func(pre foldTally, r region) sumtree.Direction {
		visible := pre.Chars - pre.Hidden
		switch {
		case folded < visible:
			return sumtree.Left
		case folded <= visible+r.Gap:
			return sumtree.Stop
		default:
			return sumtree.Right
		}
	})
	if !it.Valid() {
		return folded + pre.Hidden
	}
	r := it.Payload()
	if folded < pre.Chars-pre.Hidden+r.Gap {
		return folded + pre.Hidden
	}
	// The collapse point of adjacent regions coincides; resolve to the
	// first region of the chain.
	for r.Gap == 0 {
		prev := it.Prev()
		if !prev.Valid() {
			break
		}
		it = prev
		r = it.Payload()
	}
	p := it.PrefixSum()
	return p.Chars + r.Gap
}

// foldedLine maps a logical line to its visual row before wrapping.
// Every line whose leading break is hidden joins the row above it.
func (f *folds) foldedLine(line int64) int64 {
	it, pre := f.tree.Find(func(pre foldTally, r region) sumtree.Direction {
		switch {
		case line < pre.Lines:
			return sumtree.Left
		case line <= pre.Lines+r.GapLines+r.SpanLines:
			return sumtree.Stop
		default:
			return sumtree.Right
		}
	})
	if !it.Valid() {
		return line - pre.HiddenLines
	}
	beginLine := pre.Lines + it.Payload().GapLines
	if line < beginLine {
		return line - pre.HiddenLines
	}
	return beginLine - pre.HiddenLines
}

// unfoldedLine maps a visual row back to the first logical line shown
// on it.
func (f *folds) unfoldedLine(folded int64) int64 {
	it, pre := f.tree.Find(func(pre foldTally, r region) sumtree.Direction {
		visible := pre.Lines - pre.HiddenLines
		switch {
		case folded < visible:
			return sumtree.Left
		case folded <= visible+r.GapLines:
			return sumtree.Stop
		default:
			return sumtree.Right
		}
	})
	if !it.Valid() {
		return folded + pre.HiddenLines
	}
	// Several regions may share the row; the first one carries the
	// row's opening line.
	for it.Payload().GapLines == 0 && folded == it.PrefixSum().Lines-it.PrefixSum().HiddenLines {
		prev := it.Prev()
		if !prev.Valid() {
			break
		}
		it = prev
	}
	return folded + it.PrefixSum().HiddenLines
}

// fixupPositions re-bases every region through the fixup record. A
// boundary inside a removed span collapses to the splice point; a
// region emptied that way is dropped. Line counts go stale here and
// stay stale until the next recount.
func (f *folds) fixupPositions(rec *fixup.Record) {
	if rec == nil || rec.Len() == 0 || f.tree.Len() == 0 {
		return
	}
	ctx := fixup.NewContext(rec)
	regs := make([]region, 0, f.tree.Len())
	var oldEnd, oldLines, newPrevEnd, prevLines int64
	for it := f.tree.First(); it.Valid(); it = it.Next() {
		r := it.Payload()
		begin := oldEnd + r.Gap
		beginLine := oldLines + r.GapLines
		oldEnd = begin + r.Span
		oldLines = beginLine + r.SpanLines
		nb := ctx.ApplyAfter(begin)
		ne := ctx.Apply(oldEnd)
		if ne <= nb {
			continue
		}
		regs = append(regs, region{
			Gap:       nb - newPrevEnd,
			Span:      ne - nb,
			GapLines:  beginLine - prevLines,
			SpanLines: oldLines - beginLine,
		})
		newPrevEnd = ne
		prevLines = oldLines
	}
	f.tree = sumtree.Build[region, foldTally](regs)
}

// recount refreshes every region's line fields from current content.
func (f *folds) recount(lineOf func(int64) int64) {
	end := int64(0)
	prevLines := int64(0)
	for it := f.tree.First(); it.Valid(); it = it.Next() {
		r := it.Payload()
		begin := end + r.Gap
		end = begin + r.Span
		beginLine := lineOf(begin)
		endLine := lineOf(end)
		it.Update(func(n *region) {
			n.GapLines = beginLine - prevLines
			n.SpanLines = endLine - beginLine
		})
		prevLines = endLine
	}
}

package view

import (
	"fmt"

	"github.com/dshills/inkstone/internal/engine/caret"
	"github.com/dshills/inkstone/internal/engine/document"
	"github.com/dshills/inkstone/internal/engine/wrap"
	"github.com/dshills/inkstone/internal/event"
)

// View is one presentation of a document: a caret set plus the soft
// breaks and fold regions that shape its visual coordinates. Several
// views may share a document; each reacts to the document's bus on its
// own.
type View struct {
	doc    *document.Document
	carets *caret.Set
	soft   *softBreaks
	folds  *folds
	dirty  bool
	modSub *event.Subscription
	visSub *event.Subscription
}

// New attaches a fresh view to doc with a single caret at the origin.
func New(doc *document.Document) *View {
	v := &View{
		doc:    doc,
		carets: caret.NewSet(),
		soft:   newSoftBreaks(),
		folds:  newFolds(),
	}
	v.modSub = doc.Bus().Subscribe(document.TopicModified, func(ev event.Envelope) {
		m, ok := ev.Payload.(document.Modified)
		if !ok {
			return
		}
		v.carets.Fixup(m.Fixups)
		v.folds.fixupPositions(m.Fixups)
		v.soft.fixupPositions(m.Fixups, doc.NumChars())
		v.dirty = true
	})
	v.visSub = doc.Bus().Subscribe(document.TopicVisual, func(event.Envelope) {
		v.dirty = true
	})
	return v
}

// Close detaches the view from its document's bus.
func (v *View) Close() {
	v.modSub.Cancel()
	v.visSub.Cancel()
}

// Document returns the underlying document.
func (v *View) Document() *document.Document { return v.doc }

// Carets returns the view's caret set.
func (v *View) Carets() *caret.Set { return v.carets }

// SetCarets replaces the view's caret set, typically with the set a
// finished modifier session returned.
func (v *View) SetCarets(set *caret.Set) {
	if set == nil {
		panic("view: nil caret set")
	}
	v.carets = set
}

// Dirty reports whether visual state needs a refresh: fold line spans
// await Recount and soft breaks await a Reflow or SetSoftBreaks.
func (v *View) Dirty() bool { return v.dirty }

// Recount refreshes every fold region's line span from the document's
// line index and clears the dirty flag.
func (v *View) Recount() {
	v.folds.recount(v.lineAt)
	v.dirty = false
}

func (v *View) ensureCount() {
	if v.dirty {
		v.Recount()
	}
}

func (v *View) lineAt(pos int64) int64 {
	line, _ := v.doc.PositionToLineColumn(pos)
	return line
}

func (v *View) checkPos(pos int64) {
	if pos < 0 || pos > v.doc.NumChars() {
		panic(fmt.Sprintf("view: position %d out of range", pos))
	}
}

// SetSoftBreaks replaces all wrap-induced breaks. Offsets must be
// strictly increasing and lie inside the document.
func (v *View) SetSoftBreaks(offsets []int64) {
	n := v.doc.NumChars()
	for _, o := range offsets {
		if o >= n {
			panic(fmt.Sprintf("view: soft break offset %d out of range", o))
		}
	}
	v.soft.set(offsets)
}

// SoftBreakCount returns the number of soft breaks.
func (v *View) SoftBreakCount() int64 { return v.soft.count() }

// SoftBreaks lists every soft break offset in ascending order.
func (v *View) SoftBreaks() []int64 { return v.soft.offsets() }

// SoftBreaksAtOrBefore returns how many soft breaks sit at or before
// pos.
func (v *View) SoftBreaksAtOrBefore(pos int64) int64 {
	v.checkPos(pos)
	return v.soft.atOrBefore(pos)
}

// Reflow recomputes soft breaks for the given width in cells, skipping
// break points that land inside folded spans. Width zero or less turns
// wrapping off.
func (v *View) Reflow(width int) {
	var offsets []int64
	if width > 0 {
		tw := v.doc.TabWidth()
		lines := v.doc.NumLines()
		for l := int64(0); l < lines; l++ {
			start, end := v.doc.LineSpan(l)
			if start == end {
				continue
			}
			for _, b := range wrap.Breaks(v.doc.Substring(start, end), width, tw) {
				pos := start + b
				if _, hidden := v.folds.containing(pos); hidden {
					continue
				}
				offsets = append(offsets, pos)
			}
		}
	}
	v.soft.set(offsets)
}

// AddFoldRegion hides [begin, end). Regions the new range properly
// overlaps are evicted; regions merely touching its bounds survive.
func (v *View) AddFoldRegion(begin, end int64) {
	if begin < 0 || end > v.doc.NumChars() || begin >= end {
		panic(fmt.Sprintf("view: fold region [%d, %d) invalid", begin, end))
	}
	v.folds.add(begin, end, v.lineAt)
	v.dirty = true
}

// RemoveFoldRegion reveals the region whose begin matches and reports
// whether one did.
func (v *View) RemoveFoldRegion(begin int64) bool {
	if !v.folds.remove(begin) {
		return false
	}
	v.dirty = true
	return true
}

// FoldRegions lists every fold in absolute coordinates.
func (v *View) FoldRegions() []FoldRegion { return v.folds.regions() }

// FoldCount returns the number of fold regions.
func (v *View) FoldCount() int64 { return v.folds.count() }

// FoldContaining returns the fold covering pos, if any.
func (v *View) FoldContaining(pos int64) (FoldRegion, bool) {
	v.checkPos(pos)
	return v.folds.containing(pos)
}

// UnfoldedToFoldedPos maps a logical position to the folded coordinate
// space. Positions inside a hidden span collapse to the span's start.
func (v *View) UnfoldedToFoldedPos(pos int64) int64 {
	v.checkPos(pos)
	return v.folds.foldedPos(pos)
}

// FoldedToUnfoldedPos maps a folded coordinate back to the logical
// position it shows.
func (v *View) FoldedToUnfoldedPos(folded int64) int64 {
	if max := v.doc.NumChars() - v.folds.hiddenChars(); folded < 0 || folded > max {
		panic(fmt.Sprintf("view: folded position %d out of range", folded))
	}
	return v.folds.unfoldedPos(folded)
}

// UnfoldedToFoldedLine maps a logical line to its visual row before
// wrapping. Lines whose leading break is hidden join the row above.
func (v *View) UnfoldedToFoldedLine(line int64) int64 {
	if line < 0 || line >= v.doc.NumLines() {
		panic(fmt.Sprintf("view: line %d out of range", line))
	}
	v.ensureCount()
	return v.folds.foldedLine(line)
}

// FoldedToUnfoldedLine maps a visual row back to the first logical
// line it shows.
func (v *View) FoldedToUnfoldedLine(folded int64) int64 {
	v.ensureCount()
	if max := v.doc.NumLines() - v.folds.hiddenLines(); folded < 0 || folded >= max {
		panic(fmt.Sprintf("view: folded line %d out of range", folded))
	}
	return v.folds.unfoldedLine(folded)
}

// VisualLine returns the visual row of pos: its folded line plus every
// soft break at or before it.
func (v *View) VisualLine(pos int64) int64 {
	v.checkPos(pos)
	v.ensureCount()
	line, _ := v.doc.PositionToLineColumn(pos)
	return v.folds.foldedLine(line) + v.soft.atOrBefore(pos)
}

// VisualLineCount returns the total number of visual rows.
func (v *View) VisualLineCount() int64 {
	v.ensureCount()
	return v.doc.NumLines() - v.folds.hiddenLines() + v.soft.count()
}

// MoveLeft steps every caret one position left, treating a CRLF pair
// and a fold region each as a single step. Without extend a non-empty
// selection collapses to its start.
func (v *View) MoveLeft(extend bool) {
	v.carets.Map(func(s caret.Selection) caret.Selection {
		if !extend && !s.IsEmpty() {
			return caret.At(s.Start())
		}
		pos := s.Head
		if pos > 0 {
			pos--
			if fr, ok := v.folds.containing(pos); ok {
				pos = fr.Begin
			} else if pos > 0 && v.doc.Substring(pos-1, pos+1) == "\r\n" {
				pos--
			}
		}
		return v.retarget(s, pos, extend)
	})
}

// MoveRight steps every caret one position right. Without extend a
// non-empty selection collapses to its end.
func (v *View) MoveRight(extend bool) {
	n := v.doc.NumChars()
	v.carets.Map(func(s caret.Selection) caret.Selection {
		if !extend && !s.IsEmpty() {
			return caret.At(s.End())
		}
		pos := s.Head
		if pos < n {
			if fr, ok := v.folds.containing(pos); ok {
				pos = fr.End
			} else if pos+2 <= n && v.doc.Substring(pos, pos+2) == "\r\n" {
				pos += 2
			} else {
				pos++
			}
		}
		return v.retarget(s, pos, extend)
	})
}

// MoveUp moves every caret one visual row up, keeping its goal column.
func (v *View) MoveUp(extend bool) { v.moveVertical(-1, extend) }

// MoveDown moves every caret one visual row down, keeping its goal
// column.
func (v *View) MoveDown(extend bool) { v.moveVertical(1, extend) }

func (v *View) moveVertical(delta int64, extend bool) {
	v.ensureCount()
	rows := v.doc.NumLines() - v.folds.hiddenLines()
	tw := v.doc.TabWidth()
	v.carets.Map(func(s caret.Selection) caret.Selection {
		line, _ := v.doc.PositionToLineColumn(s.Head)
		goal := s.GoalColumn
		if goal < 0 {
			start, end := v.doc.LineSpan(line)
			head := s.Head
			if head > end {
				head = end
			}
			goal = wrap.Cells(v.doc.Substring(start, head), tw)
		}
		row := v.folds.foldedLine(line) + delta
		if row < 0 {
			row = 0
		}
		if row >= rows {
			row = rows - 1
		}
		target := v.folds.unfoldedLine(row)
		start, end := v.doc.LineSpan(target)
		pos := start + wrap.OffsetForCell(v.doc.Substring(start, end), goal, tw)
		if fr, ok := v.folds.containing(pos); ok {
			pos = fr.Begin
		}
		out := v.retarget(s, pos, extend)
		out.GoalColumn = goal
		return out
	})
}

// MoveLineStart sends every caret to its line's first character.
func (v *View) MoveLineStart(extend bool) {
	v.carets.Map(func(s caret.Selection) caret.Selection {
		line, _ := v.doc.PositionToLineColumn(s.Head)
		start, _ := v.doc.LineSpan(line)
		return v.retarget(s, start, extend)
	})
}

// MoveLineEnd sends every caret past its line's last character, before
// the terminator.
func (v *View) MoveLineEnd(extend bool) {
	v.carets.Map(func(s caret.Selection) caret.Selection {
		line, _ := v.doc.PositionToLineColumn(s.Head)
		_, end := v.doc.LineSpan(line)
		return v.retarget(s, end, extend)
	})
}

// MoveDocStart sends every caret to the document's first position.
func (v *View) MoveDocStart(extend bool) {
	v.carets.Map(func(s caret.Selection) caret.Selection {
		return v.retarget(s, 0, extend)
	})
}

// MoveDocEnd sends every caret past the document's last character.
func (v *View) MoveDocEnd(extend bool) {
	n := v.doc.NumChars()
	v.carets.Map(func(s caret.Selection) caret.Selection {
		return v.retarget(s, n, extend)
	})
}

func (v *View) retarget(s caret.Selection, pos int64, extend bool) caret.Selection {
	if extend {
		return caret.Span(s.Anchor, pos)
	}
	return caret.At(pos)
}

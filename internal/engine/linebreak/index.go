// Package linebreak maintains a balanced index over a document's line
// structure. Text is modeled as runs of non-break characters separated by
// CR, LF, or CRLF terminators; the index answers offset/line conversions
// in O(log n) and is spliced incrementally as the document changes.
//
// The index never sees document content, only the shape of edits. Its
// owner keeps it in lockstep with character storage.
package linebreak

import (
	"fmt"

	"github.com/dshills/inkstone/internal/engine/sumtree"
)

// Index is the line-break index. At least one run always exists: the
// final run, which carries BreakNone. Offsets and line numbers are
// 0-based; out-of-range arguments are programming errors and panic.
type Index struct {
	tree *sumtree.Tree[Run, Tally]
}

// New returns an index describing an empty document: one empty final run.
func New() *Index {
	x := &Index{tree: sumtree.New[Run, Tally]()}
	x.tree.PushBack(Run{})
	return x
}

// FromString builds an index for text in O(n).
func FromString(text string) *Index {
	return &Index{tree: sumtree.Build[Run, Tally](scanRuns(text))}
}

// CharCount returns the total character count, terminators included.
func (x *Index) CharCount() int64 {
	return x.tree.Sum().Chars
}

// LineCount returns the number of lines, always at least 1.
func (x *Index) LineCount() int64 {
	return x.tree.Sum().Breaks + 1
}

// findRun locates the run whose span contains offset, returning its
// iterator and the tally of everything before it. offset == CharCount()
// addresses the end of the final run.
func (x *Index) findRun(offset int64) (sumtree.Iterator[Run, Tally], Tally) {
	it, prefix := x.tree.Find(func(pre Tally, r Run) sumtree.Direction {
		switch {
		case offset < pre.Chars:
			return sumtree.Left
		case offset < pre.Chars+r.Len():
			return sumtree.Stop
		default:
			return sumtree.Right
		}
	})
	if !it.Valid() {
		it = x.tree.Last()
		prefix = it.PrefixSum()
	}
	return it, prefix
}

// PositionToLineColumn converts a character offset to a 0-based line and
// column. Offsets inside a terminator clamp to the line's content width.
func (x *Index) PositionToLineColumn(offset int64) (line, col int64) {
	if offset < 0 || offset > x.CharCount() {
		panic(fmt.Sprintf("linebreak: offset %d out of range", offset))
	}
	it, prefix := x.findRun(offset)
	col = offset - prefix.Chars
	if c := it.Payload().Chars; col > c {
		col = c
	}
	return prefix.Breaks, col
}

// LineToPosition returns the character offset of the start of line.
// line == LineCount() is allowed and yields CharCount(), so the result
// brackets any line's span from both sides.
func (x *Index) LineToPosition(line int64) int64 {
	lines := x.LineCount()
	if line < 0 || line > lines {
		panic(fmt.Sprintf("linebreak: line %d out of range", line))
	}
	if line == lines {
		return x.CharCount()
	}
	it, prefix := x.tree.Find(func(pre Tally, r Run) sumtree.Direction {
		switch {
		case line < pre.Breaks:
			return sumtree.Left
		case line == pre.Breaks:
			return sumtree.Stop
		default:
			return sumtree.Right
		}
	})
	if !it.Valid() {
		return x.CharCount()
	}
	return prefix.Chars
}

// LineSpan returns the span of line's content, terminator excluded.
func (x *Index) LineSpan(line int64) (start, end int64) {
	lines := x.LineCount()
	if line < 0 || line >= lines {
		panic(fmt.Sprintf("linebreak: line %d out of range", line))
	}
	start = x.LineToPosition(line)
	it, _ := x.findRun(start)
	return start, start + it.Payload().Chars
}

// Insert splices text's line structure in at offset and returns the
// change in break count.
func (x *Index) Insert(offset int64, text string) int64 {
	if offset < 0 || offset > x.CharCount() {
		panic(fmt.Sprintf("linebreak: insert offset %d out of range", offset))
	}
	if text == "" {
		return 0
	}
	before := x.tree.Sum().Breaks

	ins := scanRuns(text)
	it, prefix := x.findRun(offset)
	r := it.Payload()
	col := offset - prefix.Chars

	// Break-free text landing inside a run only widens it.
	if len(ins) == 1 && col <= r.Chars {
		it.Update(func(p *Run) { p.Chars += ins[0].Chars })
		return 0
	}

	var window []Run
	if col <= r.Chars {
		// Split the run's content around the insertion point.
		window = append(window, Run{col + ins[0].Chars, ins[0].Break})
		window = append(window, ins[1:len(ins)-1]...)
		window = append(window, Run{ins[len(ins)-1].Chars + (r.Chars - col), r.Break})
	} else {
		// The insertion point sits between the CR and LF of a CRLF
		// terminator; the two halves become terminators of their own.
		window = append(window, Run{r.Chars, BreakCR})
		window = append(window, ins[:len(ins)-1]...)
		window = append(window, Run{ins[len(ins)-1].Chars, BreakLF})
	}

	first := it
	if col == 0 {
		// Text starting with LF may complete the previous run's CR.
		if prev := it.Prev(); prev.Valid() {
			first = prev
			window = append([]Run{prev.Payload()}, window...)
		}
	}
	x.splice(first, it, window)
	return x.tree.Sum().Breaks - before
}

// Erase removes the line structure of [begin, end) and returns the change
// in break count (zero or negative except for CRLF splits).
func (x *Index) Erase(begin, end int64) int64 {
	if begin < 0 || end > x.CharCount() || begin > end {
		panic(fmt.Sprintf("linebreak: erase range [%d, %d) invalid", begin, end))
	}
	if begin == end {
		return 0
	}
	before := x.tree.Sum().Breaks

	firstIt, firstPrefix := x.findRun(begin)
	lastIt, lastPrefix := x.findRun(end)
	colB := begin - firstPrefix.Chars
	colE := end - lastPrefix.Chars
	f, l := firstIt.Payload(), lastIt.Payload()

	var window []Run
	surviving := colB
	if colB > f.Chars {
		// Deletion starts between CR and LF: the CR stays a full break.
		window = append(window, Run{f.Chars, BreakCR})
		surviving = 0
	}
	switch {
	case colE <= l.Chars:
		window = append(window, Run{surviving + (l.Chars - colE), l.Break})
	default:
		// Deletion ends between CR and LF: the LF remains.
		window = append(window, Run{surviving, BreakLF})
	}

	first := firstIt
	if colB == 0 {
		// Removing leading content can expose a CR+LF adjacency.
		if prev := firstIt.Prev(); prev.Valid() {
			first = prev
			window = append([]Run{prev.Payload()}, window...)
		}
	}
	x.splice(first, lastIt, window)
	return x.tree.Sum().Breaks - before
}

// splice replaces the runs [first, last] with window, normalized.
func (x *Index) splice(first, last sumtree.Iterator[Run, Tally], window []Run) {
	window = normalizeRuns(window)
	next := last.Next()
	x.tree.EraseRange(first, next)
	for _, w := range window {
		x.tree.InsertBefore(next, w)
	}
}

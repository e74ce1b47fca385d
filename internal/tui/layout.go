package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/inkstone/internal/engine/view"
	"github.com/dshills/inkstone/internal/theme"
)

// foldMarker stands in for a hidden region.
const foldMarker = '…'

// cell is one drawn cluster. Terminators and the end-of-document
// sentinel carry zero width so a caret can land on them without using
// screen space.
type cell struct {
	runes []rune
	width int
	style theme.Style
	pos   int64
}

// row is one visual line of cells.
type row struct {
	cells []cell
}

// layout converts the view's folded text, soft breaks, and styles into
// visual rows. Row boundaries agree with the view's visual line
// numbering: hidden regions collapse to one marker, terminators end
// rows, soft breaks start them.
func layout(v *view.View, th *theme.Theme) []row {
	d := v.Document()
	base := th.Style("default")
	selStyle := th.Style("selection")
	foldStyle := base.Merge(th.Style("fold"))
	tabWidth := d.TabWidth()
	text := d.Text()
	regions := v.FoldRegions()
	soft := v.SoftBreaks()
	sels := v.Carets().All()
	ranges := d.StyleRanges()

	// Bare secondary carets paint their cell like a selection; the
	// primary caret is the hardware cursor.
	heads := make(map[int64]bool)
	for _, s := range sels[1:] {
		if s.IsEmpty() {
			heads[s.Head] = true
		}
	}

	styleAt := func(pos int64) theme.Style {
		st := base
		for _, r := range ranges {
			if pos >= r.Start && pos < r.End {
				st = st.Merge(th.Style(r.Style))
			}
		}
		for _, s := range sels {
			if !s.IsEmpty() && pos >= s.Start() && pos < s.End() {
				st = st.Merge(selStyle)
				break
			}
		}
		if heads[pos] {
			st = st.Merge(selStyle)
		}
		return st
	}

	var rows []row
	cur := row{}
	col := int64(0) // cells on the current visual row
	pos := int64(0) // document rune offset
	ri, si := 0, 0
	inFold := false

	state := -1
	for len(text) > 0 {
		var cluster string
		var bound int
		cluster, text, bound, state = uniseg.StepString(text, state)
		n := int64(utf8.RuneCountInString(cluster))

		if ri < len(regions) && pos >= regions[ri].Begin {
			if !inFold {
				cur.cells = append(cur.cells, cell{
					runes: []rune{foldMarker},
					width: 1,
					style: foldStyle,
					pos:   regions[ri].Begin,
				})
				col++
				inFold = true
			}
			pos += n
			for si < len(soft) && soft[si] < pos {
				si++
			}
			if pos >= regions[ri].End {
				ri++
				inFold = false
			}
			continue
		}

		if si < len(soft) && pos == soft[si] {
			rows = append(rows, cur)
			cur = row{}
			col = 0
			si++
		}

		switch cluster {
		case "\n", "\r", "\r\n":
			cur.cells = append(cur.cells, cell{pos: pos})
			rows = append(rows, cur)
			cur = row{}
			col = 0
			pos += n
			continue
		}

		w := clusterWidth(cluster, bound>>uniseg.ShiftWidth, col, tabWidth)
		cur.cells = append(cur.cells, cell{
			runes: []rune(cluster),
			width: int(w),
			style: styleAt(pos),
			pos:   pos,
		})
		col += w
		pos += n
	}
	cur.cells = append(cur.cells, cell{pos: pos})
	rows = append(rows, cur)
	return rows
}

// clusterWidth measures one grapheme at the given column. Tabs advance
// to the next stop.
func clusterWidth(cluster string, width int, col int64, tabWidth int) int64 {
	if cluster == "\t" {
		tw := int64(tabWidth)
		if tw <= 0 {
			tw = 1
		}
		return tw - col%tw
	}
	return int64(width)
}

// caretCell returns the screen column of pos within r, or the row's
// width when pos lies past its cells.
func caretCell(r row, pos int64) int {
	x := 0
	for _, c := range r.cells {
		if c.pos == pos {
			return x
		}
		x += c.width
	}
	return x
}

// findFrom returns the rune offset of needle in text at or after the
// rune offset from, or -1.
func findFrom(text, needle string, from int64) int64 {
	if needle == "" {
		return -1
	}
	off := 0
	for i := int64(0); i < from; i++ {
		if off >= len(text) {
			return -1
		}
		_, n := utf8.DecodeRuneInString(text[off:])
		off += n
	}
	i := strings.Index(text[off:], needle)
	if i < 0 {
		return -1
	}
	return from + int64(utf8.RuneCountInString(text[off:off+i]))
}

// Package wrap measures text in terminal cells and computes soft break
// offsets for line wrapping. Measurement is grapheme-aware: a cluster
// occupies the width of its visible form, tabs advance to the next tab
// stop, and zero-width clusters attach to their base.
package wrap

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

func clusterCells(cluster string, width int, col int64, tabWidth int) int64 {
	if cluster == "\t" {
		tw := int64(tabWidth)
		if tw <= 0 {
			tw = 1
		}
		return tw - col%tw
	}
	return int64(width)
}

// Cells returns the display width of s starting at column zero.
func Cells(s string, tabWidth int) int64 {
	col := int64(0)
	state := -1
	for len(s) > 0 {
		var cluster string
		var bound int
		cluster, s, bound, state = uniseg.StepString(s, state)
		col += clusterCells(cluster, bound>>uniseg.ShiftWidth, col, tabWidth)
	}
	return col
}

// OffsetForCell returns the rune offset of the grapheme whose cells
// cover the given column, or the rune length of s when the column lies
// beyond the text.
func OffsetForCell(s string, cell int64, tabWidth int) int64 {
	col := int64(0)
	off := int64(0)
	state := -1
	for len(s) > 0 {
		var cluster string
		var bound int
		cluster, s, bound, state = uniseg.StepString(s, state)
		w := clusterCells(cluster, bound>>uniseg.ShiftWidth, col, tabWidth)
		if w > 0 && col+w > cell {
			return off
		}
		col += w
		off += int64(utf8.RuneCountInString(cluster))
	}
	return off
}

// piece is one grapheme already placed on the current row.
type piece struct {
	off   int64
	cells int64
}

// Breaks returns strictly increasing rune offsets at which s wraps to
// stay within width cells. Rows prefer to end at Unicode line-break
// opportunities; a fragment too wide for a whole row breaks at the
// overflowing grapheme. A non-positive width disables wrapping.
func Breaks(s string, width, tabWidth int) []int64 {
	if width <= 0 || s == "" {
		return nil
	}
	max := int64(width)
	var breaks []int64
	var row []piece
	col := int64(0)
	pend := -1 // index into row of the first piece past the latest break opportunity
	off := int64(0)
	state := -1
	for len(s) > 0 {
		var cluster string
		var bound int
		cluster, s, bound, state = uniseg.StepString(s, state)
		cells := clusterCells(cluster, bound>>uniseg.ShiftWidth, col, tabWidth)
		if col+cells > max && col > 0 {
			if pend >= 1 {
				bp := off
				if pend < len(row) {
					bp = row[pend].off
				}
				breaks = append(breaks, bp)
				// Carry the broken-off tail to the new row. Tab stops
				// always offer a break opportunity, so the tail holds
				// no tabs and its cells carry over unchanged.
				tail := append([]piece(nil), row[pend:]...)
				row = tail
				col = 0
				for i := range row {
					col += row[i].cells
				}
			} else {
				breaks = append(breaks, off)
				row = row[:0]
				col = 0
			}
			pend = -1
			cells = clusterCells(cluster, bound>>uniseg.ShiftWidth, col, tabWidth)
			if col+cells > max && col > 0 {
				breaks = append(breaks, off)
				row = row[:0]
				col = 0
				cells = clusterCells(cluster, bound>>uniseg.ShiftWidth, 0, tabWidth)
			}
		}
		row = append(row, piece{off: off, cells: cells})
		col += cells
		off += int64(utf8.RuneCountInString(cluster))
		if bound&uniseg.MaskLine != uniseg.LineDontBreak {
			pend = len(row)
		}
	}
	return breaks
}

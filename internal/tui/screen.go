package tui

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/inkstone/internal/engine/linebreak"
	"github.com/dshills/inkstone/internal/theme"
)

// render lays out the document and paints one frame: text rows above a
// one-line status bar, with the window scrolled to keep the primary
// caret visible.
func (e *Editor) render() {
	w, h := e.screen.Size()
	if w < 1 || h < 2 {
		return
	}
	textH := int64(h - 1)

	wrapW := e.wrapWidth
	if wrapW <= 0 || wrapW > w {
		wrapW = w
	}
	if e.view.Dirty() || wrapW != e.wrappedFor {
		e.view.Reflow(wrapW)
		e.view.Recount()
		e.wrappedFor = wrapW
	}

	rows := layout(e.view, e.theme)
	head := e.view.Carets().Primary().Head
	caretRow := e.view.VisualLine(head)

	if caretRow < e.top {
		e.top = caretRow
	}
	if caretRow >= e.top+textH {
		e.top = caretRow - textH + 1
	}
	if max := int64(len(rows)) - textH; e.top > max {
		e.top = max
	}
	if e.top < 0 {
		e.top = 0
	}

	base := toTcell(e.theme.Style("default"))
	for y := int64(0); y < textH; y++ {
		e.clearRow(int(y), w, base)
		if ri := e.top + y; ri < int64(len(rows)) {
			e.paintRow(int(y), rows[ri], w)
		}
	}
	e.paintStatus(h-1, w)

	if caretRow >= e.top && caretRow < e.top+textH && caretRow < int64(len(rows)) {
		e.screen.ShowCursor(caretCell(rows[caretRow], head), int(caretRow-e.top))
	} else {
		e.screen.HideCursor()
	}
	e.screen.Show()
}

func (e *Editor) clearRow(y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		e.screen.SetContent(x, y, ' ', nil, style)
	}
}

func (e *Editor) paintRow(y int, r row, w int) {
	x := 0
	for _, c := range r.cells {
		if x >= w {
			return
		}
		if c.width == 0 || len(c.runes) == 0 {
			continue
		}
		if c.runes[0] == '\t' {
			st := toTcell(c.style)
			for i := 0; i < c.width && x+i < w; i++ {
				e.screen.SetContent(x+i, y, ' ', nil, st)
			}
		} else {
			e.screen.SetContent(x, y, c.runes[0], c.runes[1:], toTcell(c.style))
		}
		x += c.width
	}
}

func (e *Editor) paintStatus(y, w int) {
	st := toTcell(e.theme.Style("status"))
	e.clearRow(y, w, st)

	left := e.notice
	if left == "" {
		name := "[scratch]"
		if e.path != "" {
			name = filepath.Base(e.path)
		}
		left = name
		if e.modified {
			left += " +"
		}
	}

	head := e.view.Carets().Primary().Head
	line, col := e.doc.PositionToLineColumn(head)
	right := fmt.Sprintf("%d:%d", line+1, col+1)
	if n := e.view.Carets().Len(); n > 1 {
		right = fmt.Sprintf("%d carets  %s", n, right)
	}
	if n := e.view.FoldCount(); n > 0 {
		right = fmt.Sprintf("%d folds  %s", n, right)
	}
	right += "  " + e.enc.String() + "  " + endingName(e.doc.Ending())
	if e.overwrite {
		right += "  OVR"
	}

	drawString(e.screen, 1, y, left, st, w-1)
	if x := w - uniseg.StringWidth(right) - 1; x > uniseg.StringWidth(left)+2 {
		drawString(e.screen, x, y, right, st, w-x)
	}
}

func drawString(s tcell.Screen, x, y int, text string, style tcell.Style, max int) {
	state := -1
	for len(text) > 0 && max > 0 {
		var cluster string
		var bound int
		cluster, text, bound, state = uniseg.StepString(text, state)
		w := bound >> uniseg.ShiftWidth
		if w > max {
			return
		}
		if w > 0 {
			runes := []rune(cluster)
			s.SetContent(x, y, runes[0], runes[1:], style)
		}
		x += w
		max -= w
	}
}

// toTcell converts a theme style to a tcell style.
func toTcell(st theme.Style) tcell.Style {
	out := tcell.StyleDefault
	if !st.Foreground.IsDefault() {
		out = out.Foreground(tcell.NewRGBColor(int32(st.Foreground.R), int32(st.Foreground.G), int32(st.Foreground.B)))
	}
	if !st.Background.IsDefault() {
		out = out.Background(tcell.NewRGBColor(int32(st.Background.R), int32(st.Background.G), int32(st.Background.B)))
	}
	if st.Bold {
		out = out.Bold(true)
	}
	if st.Italic {
		out = out.Italic(true)
	}
	if st.Underline {
		out = out.Underline(true)
	}
	return out
}

func endingName(b linebreak.Break) string {
	switch b {
	case linebreak.BreakCRLF:
		return "crlf"
	case linebreak.BreakCR:
		return "cr"
	default:
		return "lf"
	}
}

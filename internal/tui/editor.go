// Package tui is a terminal front end for the engine: one document,
// one view, direct key dispatch. It renders soft-wrapped, foldable
// text with themed styles and drives every editing operation the
// engine exposes.
//
// # Key bindings
//
//	arrows, Home, End     move the carets; Shift extends
//	Ctrl+Home, Ctrl+End   document start and end
//	PgUp, PgDn            move by a window
//	typing, Enter, Tab    insert at every caret
//	Insert                toggle overwrite
//	Backspace, Delete     remove backward and forward
//	Ctrl+Z, Ctrl+Y        undo, redo
//	Ctrl+A                select all
//	Ctrl+D                add a caret at the next match of the selection
//	Ctrl+F                fold the selection or current line; unfold inside a fold
//	Escape                collapse to the primary caret
//	Ctrl+S                save
//	Ctrl+Q                quit, twice when unsaved
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inkstone/internal/config"
	"github.com/dshills/inkstone/internal/engine/caret"
	"github.com/dshills/inkstone/internal/engine/document"
	"github.com/dshills/inkstone/internal/engine/linebreak"
	"github.com/dshills/inkstone/internal/engine/view"
	"github.com/dshills/inkstone/internal/event"
	"github.com/dshills/inkstone/internal/fileio"
	"github.com/dshills/inkstone/internal/theme"
)

const inputSource = "keyboard"

// ConfigEvent carries reloaded settings into the event loop. Post it
// with Screen.PostEvent from the watcher goroutine.
type ConfigEvent struct {
	tcell.EventTime
	Settings config.Settings
	Err      error
}

// ThemeEvent carries a reloaded theme into the event loop.
type ThemeEvent struct {
	tcell.EventTime
	Theme *theme.Theme
}

// Editor owns one document's interactive session: a view for layout
// state, the screen it paints on, and the file it saves to.
type Editor struct {
	screen tcell.Screen
	doc    *document.Document
	view   *view.View
	theme  *theme.Theme
	path   string
	enc    fileio.Encoding

	wrapWidth  int // 0 wraps at the window width
	wrappedFor int
	top        int64
	overwrite  bool
	modified   bool
	quitAsked  bool
	quit       bool
	notice     string
}

// New builds an editor over doc on an initialized screen. path and enc
// name where and how Save writes; an empty path disables saving.
func New(screen tcell.Screen, doc *document.Document, th *theme.Theme, cfg config.Settings, path string, enc fileio.Encoding) *Editor {
	e := &Editor{
		screen:    screen,
		doc:       doc,
		view:      view.New(doc),
		theme:     th,
		path:      path,
		enc:       enc,
		wrapWidth: cfg.WrapWidth,
		overwrite: cfg.Overwrite,
	}
	doc.Bus().Subscribe(document.TopicModified, func(event.Envelope) {
		e.modified = true
	})
	return e
}

// View returns the editor's view.
func (e *Editor) View() *view.View { return e.view }

// Run renders and handles events until quit. The caller owns the
// screen's lifecycle.
func (e *Editor) Run() error {
	for !e.quit {
		e.render()
		switch ev := e.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			return nil
		case *tcell.EventResize:
			e.screen.Sync()
		case *tcell.EventKey:
			e.handleKey(ev)
		case *ConfigEvent:
			e.applyConfig(ev)
		case *ThemeEvent:
			e.theme = ev.Theme
			e.notice = "theme reloaded"
		}
	}
	return nil
}

func (e *Editor) handleKey(ev *tcell.EventKey) {
	e.notice = ""
	if ev.Key() != tcell.KeyCtrlQ {
		e.quitAsked = false
	}
	shift := ev.Modifiers()&tcell.ModShift != 0
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0

	switch ev.Key() {
	case tcell.KeyRune:
		e.insert(string(ev.Rune()))
	case tcell.KeyEnter:
		e.insert("\n")
	case tcell.KeyTab:
		e.insert("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.backspace()
	case tcell.KeyDelete:
		e.deleteForward()
	case tcell.KeyLeft:
		e.view.MoveLeft(shift)
	case tcell.KeyRight:
		e.view.MoveRight(shift)
	case tcell.KeyUp:
		e.view.MoveUp(shift)
	case tcell.KeyDown:
		e.view.MoveDown(shift)
	case tcell.KeyHome:
		if ctrl {
			e.view.MoveDocStart(shift)
		} else {
			e.view.MoveLineStart(shift)
		}
	case tcell.KeyEnd:
		if ctrl {
			e.view.MoveDocEnd(shift)
		} else {
			e.view.MoveLineEnd(shift)
		}
	case tcell.KeyPgUp:
		e.page(-1, shift)
	case tcell.KeyPgDn:
		e.page(1, shift)
	case tcell.KeyInsert:
		e.overwrite = !e.overwrite
	case tcell.KeyEscape:
		p := e.view.Carets().Primary()
		e.view.SetCarets(caret.NewSetFrom(caret.At(p.Head)))
	case tcell.KeyCtrlA:
		e.view.SetCarets(caret.NewSetFrom(caret.Span(0, e.doc.NumChars())))
	case tcell.KeyCtrlD:
		e.addNextMatch()
	case tcell.KeyCtrlF:
		e.toggleFold()
	case tcell.KeyCtrlZ:
		e.undo()
	case tcell.KeyCtrlY:
		e.redo()
	case tcell.KeyCtrlS:
		e.save()
	case tcell.KeyCtrlQ:
		if e.modified && !e.quitAsked {
			e.quitAsked = true
			e.notice = "unsaved changes, Ctrl+Q again to quit"
			return
		}
		e.quit = true
	}
}

// insert types text at every caret in one session.
func (e *Editor) insert(text string) {
	m := e.doc.NewModifier()
	for _, s := range e.view.Carets().All() {
		if e.overwrite && s.IsEmpty() {
			m.OnTextOverwrite(s, text)
		} else {
			m.OnText(s, text)
		}
	}
	e.view.SetCarets(m.FinishEdit(inputSource))
}

func (e *Editor) backspace() {
	m := e.doc.NewModifier()
	for _, s := range e.view.Carets().All() {
		m.OnBackspace(s)
	}
	e.view.SetCarets(m.FinishEdit(inputSource))
}

func (e *Editor) deleteForward() {
	m := e.doc.NewModifier()
	for _, s := range e.view.Carets().All() {
		m.OnDelete(s)
	}
	e.view.SetCarets(m.FinishEdit(inputSource))
}

func (e *Editor) undo() {
	if !e.doc.CanUndo() {
		e.notice = "nothing to undo"
		return
	}
	e.view.SetCarets(e.doc.Undo(inputSource))
}

func (e *Editor) redo() {
	if !e.doc.CanRedo() {
		e.notice = "nothing to redo"
		return
	}
	e.view.SetCarets(e.doc.Redo(inputSource))
}

func (e *Editor) save() {
	if e.path == "" {
		e.notice = "no file name"
		return
	}
	if err := fileio.Save(e.path, e.doc, e.enc); err != nil {
		e.notice = err.Error()
		return
	}
	e.modified = false
	e.notice = "saved " + e.path
}

// page moves the carets one window of visual rows.
func (e *Editor) page(dir int, extend bool) {
	_, h := e.screen.Size()
	step := h - 2
	if step < 1 {
		step = 1
	}
	for i := 0; i < step; i++ {
		if dir < 0 {
			e.view.MoveUp(extend)
		} else {
			e.view.MoveDown(extend)
		}
	}
}

// toggleFold unfolds the fold containing the primary caret, or folds
// the primary selection, or the caret's line.
func (e *Editor) toggleFold() {
	p := e.view.Carets().Primary()
	if fr, ok := e.view.FoldContaining(p.Head); ok {
		e.view.RemoveFoldRegion(fr.Begin)
		return
	}
	begin, end := p.Start(), p.End()
	if begin == end {
		line, _ := e.doc.PositionToLineColumn(p.Head)
		begin, end = e.doc.LineSpan(line)
	}
	if begin >= end {
		e.notice = "nothing to fold"
		return
	}
	e.view.AddFoldRegion(begin, end)
	// Carets inside the new fold sit on hidden text; park them on it.
	sels := e.view.Carets().All()
	for i, s := range sels {
		if s.Head > begin && s.Head < end {
			sels[i] = caret.At(begin)
		}
	}
	e.view.SetCarets(caret.NewSetFrom(sels...))
}

// addNextMatch extends the caret set with the next occurrence of the
// primary selection's text.
func (e *Editor) addNextMatch() {
	sels := e.view.Carets().All()
	p := sels[0]
	if p.IsEmpty() {
		e.notice = "select text to match first"
		return
	}
	needle := e.doc.Substring(p.Start(), p.End())
	last := sels[len(sels)-1]
	pos := findFrom(e.doc.Text(), needle, last.End())
	if pos < 0 {
		e.notice = "no more matches"
		return
	}
	span := caret.Span(pos, pos+(p.End()-p.Start()))
	e.view.SetCarets(caret.NewSetFrom(append(sels, span)...))
}

func (e *Editor) applyConfig(ev *ConfigEvent) {
	if ev.Err != nil {
		e.notice = fmt.Sprintf("config: %v", ev.Err)
		return
	}
	s := ev.Settings
	e.doc.SetTabWidth(s.TabWidth)
	e.wrapWidth = s.WrapWidth
	e.overwrite = s.Overwrite
	if term, ok := s.Terminator(); ok {
		e.doc.SetEnding(linebreak.DetectEnding(term))
	}
	e.notice = "configuration reloaded"
}

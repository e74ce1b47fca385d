package document

import (
	"fmt"

	"github.com/dshills/inkstone/internal/engine/caret"
	"github.com/dshills/inkstone/internal/engine/fixup"
	"github.com/dshills/inkstone/internal/engine/history"
)

// Modifier is an editing session bound to one document. Operations
// arrive one per caret in increasing position order; each is re-based
// over the edits already applied in the same session, applied, and
// recorded. FinishEdit commits them as one undo unit.
//
// A session is single-use. Calling any method after finishing, or
// feeding selections out of order, panics.
type Modifier struct {
	doc    *Document
	rec    *history.Record
	fixups *fixup.Record
	ctx    *fixup.Context
	out    []caret.Selection
	stats  Stats

	lastStart  int64 // pre-fixup start of the previous operation
	lastReplay int64 // stored position of the previous verbatim replay
	lastSplice int64 // first evolving position after the previous splice
	done       bool
}

// NewModifier opens an editing session. At most one session may be open
// per document; a second panics.
func (d *Document) NewModifier() *Modifier {
	if d.inSession {
		panic("document: modifier session already open")
	}
	d.inSession = true
	fx := &fixup.Record{}
	return &Modifier{
		doc:        d,
		rec:        &history.Record{},
		fixups:     fx,
		ctx:        fixup.NewContext(fx),
		lastStart:  -1,
		lastReplay: -1,
	}
}

// Replace substitutes text for sel's span, inserted verbatim. The caret
// lands after the inserted text.
func (m *Modifier) Replace(sel caret.Selection, text string) {
	m.checkOpen()
	m.checkOrder(sel)
	lo, hi := m.rebase(sel)
	m.splice(lo, hi-lo, text, !sel.IsEmpty(), sel.Backward(), false, false)
}

// OnText inserts typed text at sel, replacing its span when nonempty.
// Line breaks in text are rewritten to the document's default ending.
func (m *Modifier) OnText(sel caret.Selection, text string) {
	m.checkOpen()
	m.checkOrder(sel)
	lo, hi := m.rebase(sel)
	m.splice(lo, hi-lo, m.doc.normalizeBreaks(text), !sel.IsEmpty(), sel.Backward(), false, false)
}

// OnBackspace removes sel's span, or the character before a bare caret.
// A CRLF pair directly before the caret goes as one unit. At the
// document start the caret is kept unchanged.
func (m *Modifier) OnBackspace(sel caret.Selection) {
	m.checkOpen()
	m.checkOrder(sel)
	lo, hi := m.rebase(sel)
	if !sel.IsEmpty() {
		m.splice(lo, hi-lo, "", true, sel.Backward(), false, false)
		return
	}
	if lo == 0 {
		m.out = append(m.out, caret.At(lo))
		return
	}
	begin := lo - 1
	// The pair must sit entirely after the previous splice; a unit
	// never reaches behind it.
	if lo-2 >= m.lastSplice && m.doc.Substring(lo-2, lo) == "\r\n" {
		begin = lo - 2
	}
	m.splice(begin, lo-begin, "", false, false, false, false)
}

// OnDelete removes sel's span, or the character after a bare caret. A
// CRLF pair starting at the caret goes as one unit. At the document end
// the caret is kept unchanged.
func (m *Modifier) OnDelete(sel caret.Selection) {
	m.checkOpen()
	m.checkOrder(sel)
	lo, hi := m.rebase(sel)
	if !sel.IsEmpty() {
		m.splice(lo, hi-lo, "", true, sel.Backward(), false, false)
		return
	}
	n := m.doc.NumChars()
	if lo == n {
		m.out = append(m.out, caret.At(lo))
		return
	}
	end := lo + 1
	if end < n && m.doc.Substring(lo, end+1) == "\r\n" {
		end++
	}
	m.splice(lo, end-lo, "", false, false, false, false)
}

// OnTextOverwrite inserts typed text at sel, consuming as many
// following characters as text's non-break length without crossing the
// caret's line end. A nonempty selection is replaced instead.
func (m *Modifier) OnTextOverwrite(sel caret.Selection, text string) {
	m.checkOpen()
	m.checkOrder(sel)
	lo, hi := m.rebase(sel)
	norm := m.doc.normalizeBreaks(text)
	if !sel.IsEmpty() {
		m.splice(lo, hi-lo, norm, true, sel.Backward(), false, false)
		return
	}
	over := nonBreakLen(norm)
	line, _ := m.doc.lines.PositionToLineColumn(lo)
	_, lineEnd := m.doc.lines.LineSpan(line)
	if room := lineEnd - lo; room < over {
		over = room
	}
	if over < 0 {
		over = 0
	}
	m.splice(lo, over, norm, false, false, false, false)
}

// Replay applies one stored modification. With refix the position is
// re-based over the replays already applied this session, as undo
// needs; redo replays verbatim.
func (m *Modifier) Replay(mod history.Modification, refix bool) {
	m.checkOpen()
	pos := mod.Pos
	if refix {
		pos = m.ctx.ApplyAfter(pos)
	} else {
		if pos < m.lastReplay {
			panic(fmt.Sprintf("document: replay position %d after %d, must not decrease", pos, m.lastReplay))
		}
		m.lastReplay = pos
	}
	m.splice(pos, mod.RemovedLen(), mod.Added, mod.SelBefore, mod.FrontBefore, mod.SelAfter, mod.FrontAfter)
}

// FinishEdit commits the session to history and returns the resulting
// carets. With at least one modification it publishes TopicModified.
func (m *Modifier) FinishEdit(source string) *caret.Set {
	return m.finish(source, true)
}

// FinishEditNoHistory is FinishEdit without the history record. Undo
// and redo replay through it, since they move the history cursor
// themselves.
func (m *Modifier) FinishEditNoHistory(source string) *caret.Set {
	return m.finish(source, false)
}

func (m *Modifier) finish(source string, record bool) *caret.Set {
	m.checkOpen()
	m.done = true
	m.doc.inSession = false

	var set *caret.Set
	if len(m.out) == 0 {
		set = caret.NewSet()
	} else {
		set = caret.NewSetFrom(m.out...)
	}
	if m.rec.Len() == 0 {
		return set
	}
	if record {
		m.doc.hist.Append(m.rec)
	}
	m.doc.refixStyles(m.fixups)
	m.doc.bus.Publish(TopicModified, Modified{Fixups: m.fixups, Stats: m.stats}, source)
	return set
}

// splice applies one modification at an evolving-space position,
// capturing removed text and recording the fixup entry.
func (m *Modifier) splice(pos, removedLen int64, added string, selBefore, frontBefore, selAfter, frontAfter bool) {
	if removedLen == 0 && added == "" {
		m.out = append(m.out, caret.At(pos))
		return
	}
	var removed string
	if removedLen > 0 {
		removed = m.doc.Substring(pos, pos+removedLen)
		m.stats.add(m.doc.DeleteText(pos, pos+removedLen))
	}
	if added != "" {
		m.stats.add(m.doc.InsertText(pos, added))
	}
	mod := history.Modification{
		Pos:         pos,
		Removed:     removed,
		Added:       added,
		SelBefore:   selBefore,
		FrontBefore: frontBefore,
		SelAfter:    selAfter,
		FrontAfter:  frontAfter,
	}
	m.rec.Append(mod)
	m.fixups.Append(fixup.Fixup{Pos: pos, Removed: removedLen, Added: mod.AddedLen()})
	m.out = append(m.out, selectionAfter(pos, mod.AddedLen(), selAfter, frontAfter))
	m.lastSplice = pos + mod.AddedLen()
}

func (m *Modifier) rebase(sel caret.Selection) (lo, hi int64) {
	lo = m.ctx.ApplyAfter(sel.Start())
	if sel.IsEmpty() {
		return lo, lo
	}
	return lo, m.ctx.ApplyAfter(sel.End())
}

func (m *Modifier) checkOpen() {
	if m.done {
		panic("document: session already finished")
	}
}

func (m *Modifier) checkOrder(sel caret.Selection) {
	if sel.Start() <= m.lastStart {
		panic(fmt.Sprintf("document: selection at %d not after previous at %d", sel.Start(), m.lastStart))
	}
	m.lastStart = sel.Start()
}

// selectionAfter derives the caret left behind by a splice from the
// modification's after flags.
func selectionAfter(pos, added int64, sel, front bool) caret.Selection {
	switch {
	case sel && front:
		return caret.Span(pos+added, pos)
	case sel:
		return caret.Span(pos, pos+added)
	case front:
		return caret.At(pos)
	default:
		return caret.At(pos + added)
	}
}

func nonBreakLen(s string) int64 {
	var n int64
	for _, r := range s {
		if r != '\r' && r != '\n' {
			n++
		}
	}
	return n
}

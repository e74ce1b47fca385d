// Package script runs Lua programs against a document.
//
// A script sees a single global named doc. Queries read the document,
// which stays unchanged while the script runs; edits queue and commit
// together after the script returns, as one history record. Positions
// count characters from zero. Edits must start at strictly increasing
// positions and must not reach past the end of the document. A
// failing script commits nothing.
//
// # Script API
//
//	doc.text()                    full document text
//	doc.sub(begin, end)           text of [begin, end)
//	doc.len()                     character count
//	doc.lines()                   line count
//	doc.line(l)                   text of line l, terminator excluded
//	doc.line_span(l)              begin and end of line l
//	doc.find(needle [, from])     position of needle at or after from, or nil
//	doc.insert(pos, text)         queue an insertion
//	doc.delete(begin, end)        queue a removal
//	doc.replace(begin, end, text) queue a replacement
//
// The base, table, string and math libraries are open. io, os, debug
// and package are not, so scripts cannot reach the process or the
// filesystem.
package script

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkstone/internal/engine/caret"
	"github.com/dshills/inkstone/internal/engine/document"
)

// HistorySource labels script commits in modification events.
const HistorySource = "script"

var (
	// ErrBadRange reports an edit or query range that is inverted,
	// negative, or past the end of the document.
	ErrBadRange = errors.New("script: bad range")

	// ErrOutOfOrder reports an edit that does not start strictly after
	// the previous edit.
	ErrOutOfOrder = errors.New("script: edits out of order")
)

// Run executes source against doc. It returns the carets left behind
// by the committed edits, or nil when the script edited nothing.
func Run(doc *document.Document, source string) (*caret.Set, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibraries(L)

	s := &session{doc: doc, lastStart: -1}
	L.SetGlobal("doc", s.table(L))

	if err := L.DoString(source); err != nil {
		if s.err != nil && strings.Contains(err.Error(), s.err.Error()) {
			return nil, s.err
		}
		return nil, fmt.Errorf("script: %w", err)
	}
	return s.commit(), nil
}

// RunFile executes the Lua file at path against doc.
func RunFile(doc *document.Document, path string) (*caret.Set, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return Run(doc, string(src))
}

// openSafeLibraries loads the base, table, string and math libraries.
// io, os, debug and package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// op is one queued edit addressed in pre-commit coordinates.
type op struct {
	begin, end int64
	text       string
}

// session exposes one document to one script run.
type session struct {
	doc       *document.Document
	ops       []op
	lastStart int64
	err       error
}

func (s *session) table(L *lua.LState) *lua.LTable {
	t := L.NewTable()
	for name, fn := range map[string]lua.LGFunction{
		"text":      s.text,
		"sub":       s.sub,
		"len":       s.length,
		"lines":     s.lines,
		"line":      s.line,
		"line_span": s.lineSpan,
		"find":      s.find,
		"insert":    s.insert,
		"delete":    s.remove,
		"replace":   s.replace,
	} {
		t.RawSetString(name, L.NewFunction(fn))
	}
	return t
}

// commit applies the queued edits through one modifier session.
func (s *session) commit() *caret.Set {
	if len(s.ops) == 0 {
		return nil
	}
	m := s.doc.NewModifier()
	for _, o := range s.ops {
		m.OnText(caret.Span(o.begin, o.end), o.text)
	}
	return m.FinishEdit(HistorySource)
}

// fail records err for Run and raises it as a Lua error. It does not
// return.
func (s *session) fail(L *lua.LState, err error) {
	s.err = err
	L.RaiseError("%s", err.Error())
}

func (s *session) checkRange(L *lua.LState, begin, end int64) {
	if begin < 0 || end < begin || end > s.doc.NumChars() {
		s.fail(L, fmt.Errorf("%w: [%d, %d) in %d characters", ErrBadRange, begin, end, s.doc.NumChars()))
	}
}

func (s *session) checkLine(L *lua.LState) int64 {
	l := L.CheckInt64(1)
	if l < 0 || l >= s.doc.NumLines() {
		s.fail(L, fmt.Errorf("%w: line %d of %d", ErrBadRange, l, s.doc.NumLines()))
	}
	return l
}

// queue validates one edit and appends it. Each edit must start
// strictly after the previous one; an empty insertion queues nothing
// and consumes no position.
func (s *session) queue(L *lua.LState, begin, end int64, text string) {
	s.checkRange(L, begin, end)
	if begin == end && text == "" {
		return
	}
	if begin <= s.lastStart {
		s.fail(L, fmt.Errorf("%w: %d after %d", ErrOutOfOrder, begin, s.lastStart))
	}
	s.lastStart = begin
	s.ops = append(s.ops, op{begin: begin, end: end, text: text})
}

func (s *session) text(L *lua.LState) int {
	L.Push(lua.LString(s.doc.Text()))
	return 1
}

func (s *session) sub(L *lua.LState) int {
	begin, end := L.CheckInt64(1), L.CheckInt64(2)
	s.checkRange(L, begin, end)
	L.Push(lua.LString(s.doc.Substring(begin, end)))
	return 1
}

func (s *session) length(L *lua.LState) int {
	L.Push(lua.LNumber(s.doc.NumChars()))
	return 1
}

func (s *session) lines(L *lua.LState) int {
	L.Push(lua.LNumber(s.doc.NumLines()))
	return 1
}

func (s *session) line(L *lua.LState) int {
	L.Push(lua.LString(s.doc.LineText(s.checkLine(L))))
	return 1
}

func (s *session) lineSpan(L *lua.LState) int {
	begin, end := s.doc.LineSpan(s.checkLine(L))
	L.Push(lua.LNumber(begin))
	L.Push(lua.LNumber(end))
	return 2
}

func (s *session) find(L *lua.LState) int {
	needle := L.CheckString(1)
	from := L.OptInt64(2, 0)
	if needle == "" || from < 0 || from > s.doc.NumChars() {
		L.Push(lua.LNil)
		return 1
	}
	text := s.doc.Text()
	off := 0
	for i := int64(0); i < from; i++ {
		_, n := utf8.DecodeRuneInString(text[off:])
		off += n
	}
	i := strings.Index(text[off:], needle)
	if i < 0 {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(from + int64(utf8.RuneCountInString(text[off:off+i]))))
	return 1
}

func (s *session) insert(L *lua.LState) int {
	pos := L.CheckInt64(1)
	s.queue(L, pos, pos, L.CheckString(2))
	return 0
}

func (s *session) remove(L *lua.LState) int {
	s.queue(L, L.CheckInt64(1), L.CheckInt64(2), "")
	return 0
}

func (s *session) replace(L *lua.LState) int {
	begin, end := L.CheckInt64(1), L.CheckInt64(2)
	s.queue(L, begin, end, L.CheckString(3))
	return 0
}

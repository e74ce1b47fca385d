package document

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dshills/inkstone/internal/engine/caret"
	"github.com/dshills/inkstone/internal/engine/fixup"
	"github.com/dshills/inkstone/internal/engine/history"
	"github.com/dshills/inkstone/internal/engine/linebreak"
	"github.com/dshills/inkstone/internal/engine/text"
	"github.com/dshills/inkstone/internal/event"
)

// Topics published on a document's bus.
const (
	// TopicModified fires after a session commit changed content. The
	// payload is a Modified value.
	TopicModified = event.Topic("document.modified")

	// TopicVisual fires after a change that affects rendering but not
	// content, such as tab width or style ranges. The payload is nil.
	TopicVisual = event.Topic("document.visual")
)

// Modified is the payload of TopicModified.
type Modified struct {
	// Fixups re-bases positions captured before the commit.
	Fixups *fixup.Record

	// Stats aggregates the commit's modifications.
	Stats Stats
}

// Stats summarizes the structural effect of one or more edits.
type Stats struct {
	// Chars counts characters inserted plus characters removed.
	Chars int64

	// Lines is the signed change in line count.
	Lines int64
}

func (s *Stats) add(o Stats) {
	s.Chars += o.Chars
	s.Lines += o.Lines
}

// StyleRange attaches a named style to the span [Start, End). Ranges may
// nest and overlap; they shift with edits and are dropped when their
// span is deleted.
type StyleRange struct {
	Start int64
	End   int64
	Style string
}

// Document is an editable text with its line index, history, style
// metadata, and notification bus. Not safe for concurrent use.
type Document struct {
	id    string
	text  *text.Buffer
	lines *linebreak.Index
	hist  *history.History
	bus   *event.Bus

	ending   linebreak.Break
	tabWidth int
	styles   []StyleRange

	inSession bool
}

// Option configures a Document at construction.
type Option func(*Document)

// WithEnding overrides the detected default line ending. BreakNone is
// ignored.
func WithEnding(b linebreak.Break) Option {
	return func(d *Document) {
		if b != linebreak.BreakNone {
			d.ending = b
		}
	}
}

// WithTabWidth sets the tab width. Values < 1 are ignored.
func WithTabWidth(w int) Option {
	return func(d *Document) {
		if w > 0 {
			d.tabWidth = w
		}
	}
}

// WithHistoryLimit caps the undo history.
func WithHistoryLimit(n int) Option {
	return func(d *Document) {
		d.hist = history.New(n)
	}
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		id:       uuid.NewString(),
		text:     text.New(),
		lines:    linebreak.New(),
		hist:     history.New(0),
		bus:      event.NewBus(),
		ending:   linebreak.BreakLF,
		tabWidth: 4,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FromString creates a document holding s. The default line ending is
// detected from s; WithEnding overrides it.
func FromString(s string, opts ...Option) *Document {
	d := New()
	d.text = text.FromString(s)
	d.lines = linebreak.FromString(s)
	d.ending = linebreak.DetectEnding(s)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ID returns the document's unique identifier.
func (d *Document) ID() string {
	return d.id
}

// Bus returns the bus document notifications are published on.
func (d *Document) Bus() *event.Bus {
	return d.bus
}

// Ending returns the default line ending applied to inserted breaks.
func (d *Document) Ending() linebreak.Break {
	return d.ending
}

// SetEnding changes the default line ending. BreakNone is ignored.
// Existing content is not rewritten.
func (d *Document) SetEnding(b linebreak.Break) {
	if b != linebreak.BreakNone {
		d.ending = b
	}
}

// TabWidth returns the tab width in cells.
func (d *Document) TabWidth() int {
	return d.tabWidth
}

// SetTabWidth changes the tab width and notifies views. Values < 1 are
// ignored.
func (d *Document) SetTabWidth(w int) {
	if w <= 0 || w == d.tabWidth {
		return
	}
	d.tabWidth = w
	d.bus.Publish(TopicVisual, nil, "document")
}

// StyleRanges returns the current style metadata.
func (d *Document) StyleRanges() []StyleRange {
	out := make([]StyleRange, len(d.styles))
	copy(out, d.styles)
	return out
}

// SetStyleRanges replaces the style metadata and notifies views.
func (d *Document) SetStyleRanges(ranges []StyleRange) {
	d.styles = make([]StyleRange, len(ranges))
	copy(d.styles, ranges)
	d.bus.Publish(TopicVisual, nil, "document")
}

// NumChars returns the document length in characters.
func (d *Document) NumChars() int64 {
	return d.lines.CharCount()
}

// NumLines returns the line count, always at least 1.
func (d *Document) NumLines() int64 {
	return d.lines.LineCount()
}

// Text returns the whole content.
func (d *Document) Text() string {
	return d.text.String()
}

// Substring returns the content of [begin, end).
func (d *Document) Substring(begin, end int64) string {
	return d.text.Slice(begin, end)
}

// RuneAt returns the character at offset.
func (d *Document) RuneAt(offset int64) rune {
	return d.text.RuneAt(offset)
}

// Reader streams the content from the start.
func (d *Document) Reader() io.Reader {
	return d.text.Reader()
}

// PositionToLineColumn converts a character offset to a 0-based line
// and column.
func (d *Document) PositionToLineColumn(offset int64) (line, col int64) {
	return d.lines.PositionToLineColumn(offset)
}

// LineToPosition returns the character offset of the start of line.
func (d *Document) LineToPosition(line int64) int64 {
	return d.lines.LineToPosition(line)
}

// LineSpan returns the span of line's content, terminator excluded.
func (d *Document) LineSpan(line int64) (start, end int64) {
	return d.lines.LineSpan(line)
}

// LineText returns line's content without its terminator.
func (d *Document) LineText(line int64) string {
	start, end := d.lines.LineSpan(line)
	return d.text.Slice(start, end)
}

// InsertText splices s in at offset, updating storage and line index
// together. It records no history and publishes nothing; interactive
// editing goes through a Modifier.
func (d *Document) InsertText(offset int64, s string) Stats {
	if offset < 0 || offset > d.NumChars() {
		panic(fmt.Sprintf("document: insert offset %d out of range", offset))
	}
	if s == "" {
		return Stats{}
	}
	d.text.Insert(offset, s)
	breaks := d.lines.Insert(offset, s)
	return Stats{Chars: int64(utf8.RuneCountInString(s)), Lines: breaks}
}

// DeleteText removes [begin, end), updating storage and line index
// together. It records no history and publishes nothing.
func (d *Document) DeleteText(begin, end int64) Stats {
	if begin < 0 || end > d.NumChars() || begin > end {
		panic(fmt.Sprintf("document: delete range [%d, %d) invalid", begin, end))
	}
	if begin == end {
		return Stats{}
	}
	d.text.Delete(begin, end)
	breaks := d.lines.Erase(begin, end)
	return Stats{Chars: end - begin, Lines: breaks}
}

// CanUndo reports whether Undo has a record to replay.
func (d *Document) CanUndo() bool {
	return d.hist.CanUndo()
}

// CanRedo reports whether Redo has a record to replay.
func (d *Document) CanRedo() bool {
	return d.hist.CanRedo()
}

// UndoCount returns the number of undoable records.
func (d *Document) UndoCount() int {
	return d.hist.UndoCount()
}

// RedoCount returns the number of redoable records.
func (d *Document) RedoCount() int {
	return d.hist.RedoCount()
}

// Undo reverts the newest record and returns the carets captured before
// that edit. Calling it when CanUndo is false panics.
func (d *Document) Undo(source string) *caret.Set {
	if !d.hist.CanUndo() {
		panic("document: undo unavailable")
	}
	inv := d.hist.StepBack().Inverted()
	m := d.NewModifier()
	for i := 0; i < inv.Len(); i++ {
		m.Replay(inv.At(i), true)
	}
	return m.FinishEditNoHistory(source)
}

// Redo reapplies the next record and returns the carets captured after
// that edit. Calling it when CanRedo is false panics.
func (d *Document) Redo(source string) *caret.Set {
	if !d.hist.CanRedo() {
		panic("document: redo unavailable")
	}
	rec := d.hist.StepForward()
	m := d.NewModifier()
	for i := 0; i < rec.Len(); i++ {
		m.Replay(rec.At(i), false)
	}
	return m.FinishEditNoHistory(source)
}

// normalizeBreaks rewrites line breaks in s to the document's default
// ending.
func (d *Document) normalizeBreaks(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if d.ending != linebreak.BreakLF {
		s = strings.ReplaceAll(s, "\n", d.ending.String())
	}
	return s
}

// refixStyles re-bases style metadata over a committed edit. Ranges may
// overlap, so each gets a fresh pass over the record.
func (d *Document) refixStyles(fx *fixup.Record) {
	if len(d.styles) == 0 || fx.Len() == 0 {
		return
	}
	out := d.styles[:0]
	for _, r := range d.styles {
		ctx := fixup.NewContext(fx)
		start := ctx.ApplyAfter(r.Start)
		end := ctx.Apply(r.End)
		if end > start {
			out = append(out, StyleRange{Start: start, End: end, Style: r.Style})
		}
	}
	d.styles = out
}

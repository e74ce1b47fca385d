package engine

import (
	"github.com/dshills/inkstone/internal/engine/caret"
	"github.com/dshills/inkstone/internal/engine/document"
	"github.com/dshills/inkstone/internal/engine/fixup"
	"github.com/dshills/inkstone/internal/engine/linebreak"
	"github.com/dshills/inkstone/internal/engine/view"
)

// Re-export commonly used types for convenience.
type (
	// Document is an editable text with its line index, history, style
	// metadata, and notification bus.
	Document = document.Document

	// Modifier is an open edit session on a Document.
	Modifier = document.Modifier

	// Option configures a Document at construction.
	Option = document.Option

	// Modified is the payload published after a session commit.
	Modified = document.Modified

	// Stats summarizes the net effect of a committed session.
	Stats = document.Stats

	// StyleRange binds a named style to a character range.
	StyleRange = document.StyleRange

	// Selection is one caret with an anchor and a head.
	Selection = caret.Selection

	// Affinity resolves caret rendering on a soft wrap.
	Affinity = caret.Affinity

	// Set is an ordered collection of selections that merges overlaps.
	Set = caret.Set

	// Fixup rebases one contiguous replacement.
	Fixup = fixup.Fixup

	// FixupRecord lists the fixups of one committed session in order.
	FixupRecord = fixup.Record

	// View presents a Document with soft breaks and folds applied.
	View = view.View

	// FoldRegion is a collapsed character range in a View.
	FoldRegion = view.FoldRegion

	// Break identifies a line terminator kind.
	Break = linebreak.Break
)

// Re-export constants.
const (
	BreakNone = linebreak.BreakNone
	BreakLF   = linebreak.BreakLF
	BreakCR   = linebreak.BreakCR
	BreakCRLF = linebreak.BreakCRLF

	AffinityDownstream = caret.AffinityDownstream
	AffinityUpstream   = caret.AffinityUpstream

	TopicModified = document.TopicModified
	TopicVisual   = document.TopicVisual
)

// New creates an empty document.
func New(opts ...Option) *Document { return document.New(opts...) }

// FromString creates a document holding s.
func FromString(s string, opts ...Option) *Document {
	return document.FromString(s, opts...)
}

// WithEnding overrides the detected default line ending.
func WithEnding(b Break) Option { return document.WithEnding(b) }

// WithTabWidth sets the tab width.
func WithTabWidth(w int) Option { return document.WithTabWidth(w) }

// WithHistoryLimit caps the undo history.
func WithHistoryLimit(n int) Option { return document.WithHistoryLimit(n) }

// NewView formats doc with no soft breaks and no folds.
func NewView(doc *Document) *View { return view.New(doc) }

// At returns a bare caret at the given offset.
func At(offset int64) Selection { return caret.At(offset) }

// Span returns a selection anchored at anchor with its head at head.
func Span(anchor, head int64) Selection { return caret.Span(anchor, head) }

// NewSetFrom builds a set holding sels, sorted and merged.
func NewSetFrom(sels ...Selection) *Set { return caret.NewSetFrom(sels...) }

// DetectEnding returns the dominant line terminator of text.
func DetectEnding(text string) Break { return linebreak.DetectEnding(text) }

package history

import "time"

// History is the linear undo history of one document. The cursor sits
// between the undone prefix and the redoable tail; Append drops the
// tail. History is not safe for concurrent use.
type History struct {
	records []*Record
	current int

	maxEntries int
}

// New creates an empty history keeping at most maxEntries records.
// Values <= 0 select the default of 1000.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &History{maxEntries: maxEntries}
}

// Append commits rec as the newest record, truncating any redo tail and
// evicting the oldest records past the entry limit.
func (h *History) Append(rec *Record) {
	rec.stamp = time.Now()
	h.records = append(h.records[:h.current], rec)
	h.current = len(h.records)

	if excess := len(h.records) - h.maxEntries; excess > 0 {
		h.records = h.records[excess:]
		h.current -= excess
	}
}

// CanUndo reports whether a record is available to step back over.
func (h *History) CanUndo() bool {
	return h.current > 0
}

// CanRedo reports whether a record is available to step forward over.
func (h *History) CanRedo() bool {
	return h.current < len(h.records)
}

// UndoCount returns the number of records behind the cursor.
func (h *History) UndoCount() int {
	return h.current
}

// RedoCount returns the number of records ahead of the cursor.
func (h *History) RedoCount() int {
	return len(h.records) - h.current
}

// StepBack moves the cursor back one record and returns it. The caller
// replays the record's inverse. Panics when CanUndo is false.
func (h *History) StepBack() *Record {
	if h.current == 0 {
		panic("history: nothing to undo")
	}
	h.current--
	return h.records[h.current]
}

// StepForward moves the cursor forward one record and returns it. The
// caller replays the record verbatim. Panics when CanRedo is false.
func (h *History) StepForward() *Record {
	if h.current == len(h.records) {
		panic("history: nothing to redo")
	}
	rec := h.records[h.current]
	h.current++
	return rec
}

// PeekUndo returns the record StepBack would yield without moving the
// cursor.
func (h *History) PeekUndo() (*Record, bool) {
	if h.current == 0 {
		return nil, false
	}
	return h.records[h.current-1], true
}

// PeekRedo returns the record StepForward would yield without moving
// the cursor.
func (h *History) PeekRedo() (*Record, bool) {
	if h.current == len(h.records) {
		return nil, false
	}
	return h.records[h.current], true
}

// Clear removes all records.
func (h *History) Clear() {
	h.records = nil
	h.current = 0
}

// MaxEntries returns the record limit.
func (h *History) MaxEntries() int {
	return h.maxEntries
}

// SetMaxEntries changes the record limit, evicting oldest records as
// needed. Values <= 0 select the default of 1000.
func (h *History) SetMaxEntries(limit int) {
	if limit <= 0 {
		limit = 1000
	}
	h.maxEntries = limit
	if excess := len(h.records) - limit; excess > 0 {
		h.records = h.records[excess:]
		h.current -= excess
		if h.current < 0 {
			h.current = 0
		}
	}
}

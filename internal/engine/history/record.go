package history

import (
	"time"
	"unicode/utf8"

	"github.com/dshills/inkstone/internal/engine/fixup"
)

// Modification is one splice of an editing session: at Pos, Removed was
// replaced by Added. Pos counts characters and assumes every earlier
// modification of the same record has already been applied.
//
// The four flags capture the owning caret's shape around the splice.
// SelBefore and SelAfter report whether the caret had a nonempty
// selection; FrontBefore and FrontAfter report whether the caret sat at
// the selection's front. Inverting a record swaps the before and after
// pairs, so replaying an inverted record restores the pre-edit carets.
type Modification struct {
	Pos     int64
	Removed string
	Added   string

	SelBefore   bool
	FrontBefore bool
	SelAfter    bool
	FrontAfter  bool
}

// RemovedLen returns the character count of the removed text.
func (m Modification) RemovedLen() int64 {
	return int64(utf8.RuneCountInString(m.Removed))
}

// AddedLen returns the character count of the added text.
func (m Modification) AddedLen() int64 {
	return int64(utf8.RuneCountInString(m.Added))
}

// Inverted returns the modification that undoes m at the same position.
func (m Modification) Inverted() Modification {
	return Modification{
		Pos:         m.Pos,
		Removed:     m.Added,
		Added:       m.Removed,
		SelBefore:   m.SelAfter,
		FrontBefore: m.FrontAfter,
		SelAfter:    m.SelBefore,
		FrontAfter:  m.FrontBefore,
	}
}

// Record is one undo unit: the modifications of one editing session in
// application order, with strictly increasing Pos values.
type Record struct {
	mods  []Modification
	stamp time.Time
}

// Append adds one modification to the record.
func (r *Record) Append(m Modification) {
	r.mods = append(r.mods, m)
}

// Len returns the number of modifications.
func (r *Record) Len() int {
	return len(r.mods)
}

// At returns the i-th modification.
func (r *Record) At(i int) Modification {
	return r.mods[i]
}

// Time returns when the record was committed to a History.
func (r *Record) Time() time.Time {
	return r.stamp
}

// Fixups returns the record's splices as a fixup record, for re-basing
// positions captured before the record was applied.
func (r *Record) Fixups() *fixup.Record {
	rec := &fixup.Record{}
	for _, m := range r.mods {
		rec.Append(fixup.Fixup{Pos: m.Pos, Removed: m.RemovedLen(), Added: m.AddedLen()})
	}
	return rec
}

// Inverted returns the record that undoes r. Modification order and
// positions are preserved; replaying the result in order, re-basing each
// position through the fixups accumulated during the replay, restores
// the pre-edit document.
func (r *Record) Inverted() *Record {
	inv := &Record{mods: make([]Modification, len(r.mods))}
	for i, m := range r.mods {
		inv.mods[i] = m.Inverted()
	}
	return inv
}

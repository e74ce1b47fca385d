package history

import (
	"testing"
)

func record(poss ...int64) *Record {
	r := &Record{}
	for _, p := range poss {
		r.Append(Modification{Pos: p, Added: "x"})
	}
	return r
}

func TestModificationLengths(t *testing.T) {
	m := Modification{Pos: 3, Removed: "héllo", Added: "ok"}
	if got := m.RemovedLen(); got != 5 {
		t.Errorf("RemovedLen() = %d, want 5", got)
	}
	if got := m.AddedLen(); got != 2 {
		t.Errorf("AddedLen() = %d, want 2", got)
	}
}

func TestModificationInverted(t *testing.T) {
	m := Modification{
		Pos:         7,
		Removed:     "old",
		Added:       "new",
		SelBefore:   true,
		FrontBefore: false,
		SelAfter:    false,
		FrontAfter:  true,
	}
	inv := m.Inverted()
	if inv.Pos != 7 || inv.Removed != "new" || inv.Added != "old" {
		t.Errorf("Inverted() = %+v", inv)
	}
	if !inv.SelAfter || inv.FrontAfter || inv.SelBefore || !inv.FrontBefore {
		t.Errorf("Inverted() flags = %+v", inv)
	}
	back := inv.Inverted()
	if back != m {
		t.Errorf("double inversion = %+v, want %+v", back, m)
	}
}

func TestRecordFixups(t *testing.T) {
	r := &Record{}
	r.Append(Modification{Pos: 2, Removed: "ab", Added: "xyz"})
	r.Append(Modification{Pos: 9, Added: "q"})
	fx := r.Fixups()
	if fx.Len() != 2 {
		t.Fatalf("Fixups().Len() = %d, want 2", fx.Len())
	}
	if f := fx.At(0); f.Pos != 2 || f.Removed != 2 || f.Added != 3 {
		t.Errorf("fixup 0 = %+v", f)
	}
	if f := fx.At(1); f.Pos != 9 || f.Removed != 0 || f.Added != 1 {
		t.Errorf("fixup 1 = %+v", f)
	}
	if got := fx.Delta(); got != 2 {
		t.Errorf("Delta() = %d, want 2", got)
	}
}

func TestRecordInverted(t *testing.T) {
	r := &Record{}
	r.Append(Modification{Pos: 1, Removed: "a", Added: "bb"})
	r.Append(Modification{Pos: 5, Removed: "c", Added: ""})
	inv := r.Inverted()
	if inv.Len() != 2 {
		t.Fatalf("Inverted().Len() = %d, want 2", inv.Len())
	}
	if m := inv.At(0); m.Pos != 1 || m.Removed != "bb" || m.Added != "a" {
		t.Errorf("inverted 0 = %+v", m)
	}
	if m := inv.At(1); m.Pos != 5 || m.Removed != "" || m.Added != "c" {
		t.Errorf("inverted 1 = %+v", m)
	}
}

func TestStepBackForward(t *testing.T) {
	h := New(0)
	r1, r2 := record(0), record(1)
	h.Append(r1)
	h.Append(r2)

	if !h.CanUndo() || h.CanRedo() {
		t.Fatalf("after appends: CanUndo=%v CanRedo=%v", h.CanUndo(), h.CanRedo())
	}
	if got := h.StepBack(); got != r2 {
		t.Error("first StepBack is not the newest record")
	}
	if got := h.StepBack(); got != r1 {
		t.Error("second StepBack is not the oldest record")
	}
	if h.CanUndo() {
		t.Error("CanUndo after stepping to the start")
	}
	if got := h.StepForward(); got != r1 {
		t.Error("StepForward did not replay in order")
	}
	if got := h.StepForward(); got != r2 {
		t.Error("second StepForward is not the newest record")
	}
	if h.CanRedo() {
		t.Error("CanRedo at the end of history")
	}
}

func TestAppendTruncatesRedoTail(t *testing.T) {
	h := New(0)
	h.Append(record(0))
	h.Append(record(1))
	h.StepBack()
	h.Append(record(2))

	if h.CanRedo() {
		t.Error("redo tail survived an append")
	}
	if got := h.UndoCount(); got != 2 {
		t.Errorf("UndoCount() = %d, want 2", got)
	}
	if got := h.StepBack(); got.At(0).Pos != 2 {
		t.Errorf("newest record Pos = %d, want 2", got.At(0).Pos)
	}
}

func TestMaxEntriesEvictsOldest(t *testing.T) {
	h := New(2)
	h.Append(record(0))
	h.Append(record(1))
	h.Append(record(2))

	if got := h.UndoCount(); got != 2 {
		t.Fatalf("UndoCount() = %d, want 2", got)
	}
	if got := h.StepBack(); got.At(0).Pos != 2 {
		t.Errorf("newest Pos = %d, want 2", got.At(0).Pos)
	}
	if got := h.StepBack(); got.At(0).Pos != 1 {
		t.Errorf("oldest Pos = %d, want 1", got.At(0).Pos)
	}
}

func TestPeek(t *testing.T) {
	h := New(0)
	if _, ok := h.PeekUndo(); ok {
		t.Error("PeekUndo on empty history")
	}
	r := record(0)
	h.Append(r)
	if got, ok := h.PeekUndo(); !ok || got != r {
		t.Error("PeekUndo did not return the appended record")
	}
	if h.UndoCount() != 1 {
		t.Error("PeekUndo moved the cursor")
	}
	h.StepBack()
	if got, ok := h.PeekRedo(); !ok || got != r {
		t.Error("PeekRedo did not return the undone record")
	}
}

func TestClear(t *testing.T) {
	h := New(0)
	h.Append(record(0))
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("history not empty after Clear")
	}
}

func TestStepBackPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("StepBack on empty history did not panic")
		}
	}()
	New(0).StepBack()
}

func TestStepForwardPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("StepForward at history end did not panic")
		}
	}()
	h := New(0)
	h.Append(record(0))
	h.StepForward()
}

func TestRecordStampedOnAppend(t *testing.T) {
	h := New(0)
	r := record(0)
	if !r.Time().IsZero() {
		t.Fatal("record stamped before append")
	}
	h.Append(r)
	if r.Time().IsZero() {
		t.Error("record not stamped on append")
	}
}

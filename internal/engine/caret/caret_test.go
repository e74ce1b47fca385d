package caret

import (
	"testing"

	"github.com/dshills/inkstone/internal/engine/fixup"
)

func sel(anchor, head int64) Selection { return Span(anchor, head) }

func sameSelections(t *testing.T, st *Set, want []Selection) {
	t.Helper()
	if st.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d (%v)", st.Len(), len(want), st.All())
	}
	for i, w := range want {
		got := st.At(i)
		if got.Anchor != w.Anchor || got.Head != w.Head {
			t.Errorf("At(%d) = (%d,%d), want (%d,%d)", i, got.Anchor, got.Head, w.Anchor, w.Head)
		}
	}
}

func TestConstructors(t *testing.T) {
	c := At(5)
	if c.Anchor != 5 || c.Head != 5 || !c.IsEmpty() || c.Backward() {
		t.Errorf("At(5) = %+v", c)
	}
	if c.GoalColumn != -1 {
		t.Errorf("At(5).GoalColumn = %d, want -1", c.GoalColumn)
	}
	s := Span(7, 3)
	if s.Start() != 3 || s.End() != 7 || !s.Backward() || s.Len() != 4 {
		t.Errorf("Span(7,3) = %+v", s)
	}
	if s.IsEmpty() {
		t.Error("Span(7,3).IsEmpty() = true")
	}
}

func TestNewSet(t *testing.T) {
	st := NewSet()
	sameSelections(t, st, []Selection{At(0)})
	if !st.Primary().IsEmpty() {
		t.Error("initial caret is not empty")
	}
}

func TestCaretDissolvesIntoSpan(t *testing.T) {
	tests := []struct {
		name  string
		first Selection
		then  Selection
		want  Selection
	}{
		{"caret at span end", Span(0, 2), At(2), Span(0, 2)},
		{"caret at span start", Span(0, 2), At(0), Span(0, 2)},
		{"caret inside span", Span(0, 4), At(2), Span(0, 4)},
		{"span over caret", At(2), Span(0, 2), Span(0, 2)},
		{"span keeps orientation", At(2), Span(4, 1), Span(4, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &Set{}
			st.Add(tt.first)
			_, merged := st.Add(tt.then)
			if !merged {
				t.Fatal("Add did not merge")
			}
			sameSelections(t, st, []Selection{tt.want})
		})
	}
}

func TestCaretOutsideSpanStays(t *testing.T) {
	st := &Set{}
	st.Add(Span(1, 3))
	_, merged := st.Add(At(4))
	if merged {
		t.Error("caret past span end merged")
	}
	sameSelections(t, st, []Selection{Span(1, 3), At(4)})
}

func TestSpanOverlapMerge(t *testing.T) {
	tests := []struct {
		name  string
		first Selection
		then  Selection
		want  Selection
	}{
		{"both forward", Span(0, 4), Span(2, 6), Span(0, 6)},
		{"incoming head on end", Span(4, 0), Span(2, 6), Span(0, 6)},
		{"incoming head on start", Span(0, 4), Span(6, 0), Span(6, 0)},
		{"existing head orients", Span(4, 0), Span(5, 2), Span(5, 0)},
		{"no head on boundary", Span(0, 4), Span(6, 2), Span(0, 6)},
		{"identical spans", Span(0, 3), Span(0, 3), Span(0, 3)},
		{"contained span", Span(0, 8), Span(2, 5), Span(0, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &Set{}
			st.Add(tt.first)
			_, merged := st.Add(tt.then)
			if !merged {
				t.Fatal("Add did not merge")
			}
			sameSelections(t, st, []Selection{tt.want})
		})
	}
}

func TestTouchingSpansMerge(t *testing.T) {
	st := &Set{}
	st.Add(Span(0, 2))
	_, merged := st.Add(Span(2, 4))
	if !merged {
		t.Error("touching spans did not merge")
	}
	sameSelections(t, st, []Selection{Span(0, 4)})
}

func TestDuplicateCaretsMerge(t *testing.T) {
	st := &Set{}
	st.Add(At(3))
	_, merged := st.Add(At(3))
	if !merged {
		t.Error("equal carets did not merge")
	}
	sameSelections(t, st, []Selection{At(3)})
}

func TestAddCascade(t *testing.T) {
	st := &Set{}
	st.Add(Span(0, 2))
	st.Add(Span(3, 5))
	st.Add(Span(6, 8))
	st.Add(At(9))
	i, merged := st.Add(Span(1, 9))
	if !merged || i != 0 {
		t.Errorf("Add = (%d, %v), want (0, true)", i, merged)
	}
	sameSelections(t, st, []Selection{Span(0, 9)})
}

func TestAddIndex(t *testing.T) {
	st := &Set{}
	st.Add(At(0))
	st.Add(At(10))
	i, merged := st.Add(At(5))
	if i != 1 || merged {
		t.Errorf("Add = (%d, %v), want (1, false)", i, merged)
	}
}

func TestReset(t *testing.T) {
	st := NewSetFrom(Span(2, 7), At(9))
	st.Reset()
	sameSelections(t, st, []Selection{At(0)})
}

func TestMapMergesLandings(t *testing.T) {
	st := NewSetFrom(At(2), At(4))
	st.Map(func(s Selection) Selection {
		next := s.Head + 2
		if next > 4 {
			next = 4
		}
		return At(next)
	})
	sameSelections(t, st, []Selection{At(4)})
}

func TestMapKeepsOrder(t *testing.T) {
	st := NewSetFrom(At(2), At(8))
	st.Map(func(s Selection) Selection {
		if s.Head == 2 {
			return At(9)
		}
		return At(1)
	})
	sameSelections(t, st, []Selection{At(1), At(9)})
}

func TestFixupInsert(t *testing.T) {
	rec := &fixup.Record{}
	rec.Append(fixup.Fixup{Pos: 1, Removed: 0, Added: 3})
	st := NewSetFrom(At(0), At(1), Span(2, 5))
	st.Fixup(rec)
	sameSelections(t, st, []Selection{At(0), At(1), Span(5, 8)})
}

func TestFixupCollapsesDeletedSpan(t *testing.T) {
	rec := &fixup.Record{}
	rec.Append(fixup.Fixup{Pos: 2, Removed: 4, Added: 1})
	st := NewSetFrom(Span(3, 5), At(7))
	st.Fixup(rec)
	sameSelections(t, st, []Selection{At(3), At(4)})
}

func TestFixupMergesCollapsed(t *testing.T) {
	rec := &fixup.Record{}
	rec.Append(fixup.Fixup{Pos: 0, Removed: 10, Added: 0})
	st := NewSetFrom(Span(1, 3), Span(5, 9))
	st.Fixup(rec)
	sameSelections(t, st, []Selection{At(0)})
}

func TestFixupKeepsOrientation(t *testing.T) {
	rec := &fixup.Record{}
	rec.Append(fixup.Fixup{Pos: 0, Removed: 0, Added: 2})
	st := NewSetFrom(Span(6, 3))
	st.Fixup(rec)
	got := st.Primary()
	if got.Anchor != 8 || got.Head != 5 {
		t.Errorf("after fixup = (%d,%d), want (8,5)", got.Anchor, got.Head)
	}
	if !got.Backward() {
		t.Error("orientation lost")
	}
}

func TestFixupResetsGoalColumn(t *testing.T) {
	s := At(4)
	s.GoalColumn = 9
	st := NewSetFrom(s)
	rec := &fixup.Record{}
	rec.Append(fixup.Fixup{Pos: 0, Removed: 0, Added: 1})
	st.Fixup(rec)
	if got := st.Primary().GoalColumn; got != -1 {
		t.Errorf("GoalColumn = %d, want -1", got)
	}
}

func TestEmptySetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Len on empty set did not panic")
		}
	}()
	var st Set
	st.Len()
}

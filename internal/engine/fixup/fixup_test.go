package fixup

import "testing"

func record(fs ...Fixup) *Record {
	r := &Record{}
	for _, f := range fs {
		r.Append(f)
	}
	return r
}

func TestApplySingleInsert(t *testing.T) {
	// "abcdef" -> "abXYcdef": insert 2 chars at 2.
	rec := record(Fixup{Pos: 2, Removed: 0, Added: 2})
	tests := []struct {
		pos  int64
		want int64
	}{
		{0, 0},
		{1, 1},
		{2, 2}, // at the insertion point: stays before the new text
		{3, 5},
		{6, 8},
	}
	c := NewContext(rec)
	for _, tt := range tests {
		if got := c.Apply(tt.pos); got != tt.want {
			t.Errorf("Apply(%d) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestApplyAfterInsert(t *testing.T) {
	rec := record(Fixup{Pos: 2, Removed: 0, Added: 2})
	c := NewContext(rec)
	if got := c.ApplyAfter(2); got != 4 {
		t.Errorf("ApplyAfter(2) = %d, want 4", got)
	}
	if got := c.ApplyAfter(3); got != 5 {
		t.Errorf("ApplyAfter(3) = %d, want 5", got)
	}
}

func TestApplySingleDelete(t *testing.T) {
	// "abcdef" -> "af": remove [1, 5).
	rec := record(Fixup{Pos: 1, Removed: 4, Added: 0})
	tests := []struct {
		pos  int64
		want int64
	}{
		{0, 0},
		{1, 1}, // start of the removed span collapses to the splice point
		{3, 1},
		{4, 1},
		{5, 1},
		{6, 2},
	}
	c := NewContext(rec)
	for _, tt := range tests {
		if got := c.Apply(tt.pos); got != tt.want {
			t.Errorf("Apply(%d) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestApplyReplaceCollapsesToEnd(t *testing.T) {
	// Replace [2, 4) with 3 chars.
	rec := record(Fixup{Pos: 2, Removed: 2, Added: 3})
	tests := []struct {
		pos  int64
		want int64
	}{
		{1, 1},
		{2, 5}, // inside the replaced span: end of the new text
		{3, 5},
		{4, 5},
		{5, 6},
	}
	c := NewContext(rec)
	for _, tt := range tests {
		if got := c.Apply(tt.pos); got != tt.want {
			t.Errorf("Apply(%d) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestApplyMultipleSplices(t *testing.T) {
	// Three single-char insertions at pre-edit positions 2, 5, 9 of
	// "abcdefghij". Each entry's Pos assumes the earlier ones applied.
	rec := record(
		Fixup{Pos: 2, Removed: 0, Added: 1},
		Fixup{Pos: 6, Removed: 0, Added: 1},
		Fixup{Pos: 11, Removed: 0, Added: 1},
	)
	tests := []struct {
		pos  int64
		want int64
	}{
		{0, 0},
		{2, 2},
		{3, 4},
		{5, 6},
		{6, 8},
		{9, 11},
		{10, 13},
	}
	c := NewContext(rec)
	for _, tt := range tests {
		if got := c.Apply(tt.pos); got != tt.want {
			t.Errorf("Apply(%d) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestApplyMixedSplices(t *testing.T) {
	// Delete [1, 4), then insert 2 chars at evolving position 3.
	rec := record(
		Fixup{Pos: 1, Removed: 3, Added: 0},
		Fixup{Pos: 3, Removed: 0, Added: 2},
	)
	tests := []struct {
		pos  int64
		want int64
	}{
		{0, 0},
		{2, 1},
		{4, 1},
		{5, 2},
		{6, 3}, // exactly at the insertion: stays
		{7, 6},
	}
	c := NewContext(rec)
	for _, tt := range tests {
		if got := c.Apply(tt.pos); got != tt.want {
			t.Errorf("Apply(%d) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

// Fresh contexts over one record must agree with a shared context: the
// internal cursor is an optimization, never a semantic.
func TestIndependentPassesAgree(t *testing.T) {
	rec := record(
		Fixup{Pos: 3, Removed: 2, Added: 5},
		Fixup{Pos: 10, Removed: 4, Added: 0},
		Fixup{Pos: 12, Removed: 0, Added: 7},
	)
	shared := NewContext(rec)
	for pos := int64(0); pos <= 30; pos++ {
		fresh := NewContext(rec)
		a, b := shared.Apply(pos), fresh.Apply(pos)
		if a != b {
			t.Errorf("Apply(%d): shared pass %d, fresh pass %d", pos, a, b)
		}
	}
}

func TestRepeatedPositionAllowed(t *testing.T) {
	rec := record(Fixup{Pos: 2, Removed: 0, Added: 3})
	c := NewContext(rec)
	if a, b := c.Apply(5), c.Apply(5); a != b {
		t.Errorf("repeated Apply(5) disagreed: %d then %d", a, b)
	}
}

func TestDecreasingPositionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("decreasing query should panic")
		}
	}()
	c := NewContext(record(Fixup{Pos: 2, Removed: 0, Added: 1}))
	c.Apply(5)
	c.Apply(4)
}

func TestDelta(t *testing.T) {
	rec := record(
		Fixup{Pos: 0, Removed: 3, Added: 1},
		Fixup{Pos: 4, Removed: 0, Added: 6},
	)
	if got := rec.Delta(); got != 4 {
		t.Errorf("Delta() = %d, want 4", got)
	}
}

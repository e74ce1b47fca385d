package engine

import "testing"

func TestSessionRoundTrip(t *testing.T) {
	doc := FromString("foo bar foo")
	m := doc.NewModifier()
	m.OnText(Span(0, 3), "qux")
	m.OnText(Span(8, 11), "qux")
	set := m.FinishEdit("test")

	if got, want := doc.Text(), "qux bar qux"; got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
	if got := set.Len(); got != 2 {
		t.Fatalf("set.Len() = %d, want 2", got)
	}
	if got := set.At(0).Head; got != 3 {
		t.Errorf("caret 0 at %d, want 3", got)
	}
	if got := set.At(1).Head; got != 11 {
		t.Errorf("caret 1 at %d, want 11", got)
	}
	if got := doc.UndoCount(); got != 1 {
		t.Errorf("UndoCount() = %d, want 1", got)
	}

	doc.Undo("test")
	if got, want := doc.Text(), "foo bar foo"; got != want {
		t.Errorf("after undo Text() = %q, want %q", got, want)
	}
	if !doc.CanRedo() {
		t.Error("CanRedo() = false, want true")
	}
}

func TestViewFoldMapping(t *testing.T) {
	doc := FromString("alpha beta gamma\nend")
	v := NewView(doc)
	defer v.Close()

	v.AddFoldRegion(6, 16)
	if got, want := v.VisualLineCount(), int64(2); got != want {
		t.Fatalf("VisualLineCount() = %d, want %d", got, want)
	}
	if got := v.VisualLine(8); got != 0 {
		t.Errorf("VisualLine(8) = %d, want 0", got)
	}
	if got := v.VisualLine(17); got != 1 {
		t.Errorf("VisualLine(17) = %d, want 1", got)
	}
	fr, ok := v.FoldContaining(8)
	if !ok || fr.Begin != 6 || fr.End != 16 {
		t.Fatalf("FoldContaining(8) = %+v, %v", fr, ok)
	}
	if !v.RemoveFoldRegion(6) {
		t.Fatal("RemoveFoldRegion(6) = false, want true")
	}

	// Swallowing the terminator joins the second line onto the first
	// visual row.
	v.AddFoldRegion(6, 17)
	if got, want := v.VisualLineCount(), int64(1); got != want {
		t.Errorf("VisualLineCount() = %d, want %d", got, want)
	}
	if got := v.VisualLine(17); got != 0 {
		t.Errorf("VisualLine(17) = %d, want 0", got)
	}
}

func TestViewReflowAcrossLines(t *testing.T) {
	doc := FromString("aaaa bbbb\ncc")
	v := NewView(doc)
	defer v.Close()

	v.Reflow(5)
	if got := v.SoftBreakCount(); got != 1 {
		t.Fatalf("SoftBreakCount() = %d, want 1", got)
	}
	if got := v.SoftBreaks()[0]; got != 5 {
		t.Errorf("soft break at %d, want 5", got)
	}
	if got, want := v.VisualLineCount(), int64(3); got != want {
		t.Errorf("VisualLineCount() = %d, want %d", got, want)
	}
	if got := v.VisualLine(5); got != 1 {
		t.Errorf("VisualLine(5) = %d, want 1", got)
	}

	v.Reflow(0)
	if got := v.SoftBreakCount(); got != 0 {
		t.Errorf("after Reflow(0) SoftBreakCount() = %d, want 0", got)
	}
}

func TestViewCaretsFollowEdits(t *testing.T) {
	doc := FromString("hello world")
	v := NewView(doc)
	defer v.Close()
	v.SetCarets(NewSetFrom(At(11)))

	m := doc.NewModifier()
	m.OnText(At(0), ">> ")
	m.FinishEdit("test")

	if got, want := doc.Text(), ">> hello world"; got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
	if got := v.Carets().Primary().Head; got != 14 {
		t.Errorf("caret after insert at %d, want 14", got)
	}
}

func TestConstructionOptions(t *testing.T) {
	if got := DetectEnding("a\r\nb\r\n"); got != BreakCRLF {
		t.Errorf("DetectEnding = %v, want BreakCRLF", got)
	}
	doc := New(WithEnding(BreakCRLF), WithTabWidth(8), WithHistoryLimit(10))
	if got := doc.Ending(); got != BreakCRLF {
		t.Errorf("Ending() = %v, want BreakCRLF", got)
	}
	if got := doc.TabWidth(); got != 8 {
		t.Errorf("TabWidth() = %d, want 8", got)
	}
}

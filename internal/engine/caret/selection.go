package caret

// Affinity places a caret whose offset sits exactly on a zero-width
// visual boundary such as a soft wrap: upstream keeps it at the end of
// the earlier segment, downstream at the start of the later one.
type Affinity uint8

const (
	// AffinityDownstream renders the caret at the start of the later
	// visual segment. This is the default.
	AffinityDownstream Affinity = iota

	// AffinityUpstream renders the caret at the end of the earlier
	// visual segment.
	AffinityUpstream
)

// Selection is one caret: Anchor is the fixed end, Head the moving end.
// Anchor == Head is a bare caret. Offsets count characters from the
// document start.
type Selection struct {
	Anchor int64
	Head   int64

	// GoalColumn preserves the visual column across vertical movement;
	// negative means unset.
	GoalColumn int64

	// Affinity resolves rendering when Head sits on a soft wrap.
	Affinity Affinity
}

// At returns a bare caret at the given offset.
func At(offset int64) Selection {
	return Selection{Anchor: offset, Head: offset, GoalColumn: -1}
}

// Span returns a selection from anchor to head.
func Span(anchor, head int64) Selection {
	return Selection{Anchor: anchor, Head: head, GoalColumn: -1}
}

// Start returns the lower end.
func (s Selection) Start() int64 {
	if s.Head < s.Anchor {
		return s.Head
	}
	return s.Anchor
}

// End returns the upper end.
func (s Selection) End() int64 {
	if s.Head > s.Anchor {
		return s.Head
	}
	return s.Anchor
}

// IsEmpty reports whether the selection is a bare caret.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Backward reports whether the caret sits at the selection's front.
func (s Selection) Backward() bool {
	return s.Head < s.Anchor
}

// Len returns the selected character count.
func (s Selection) Len() int64 {
	return s.End() - s.Start()
}

// intersects reports whether two selections must merge: their spans
// overlap or touch at a boundary. Covers bare carets too, which touch
// only what contains or borders their offset.
func intersects(a, b Selection) bool {
	return a.Start() <= b.End() && b.Start() <= a.End()
}

// merge combines two intersecting selections. A bare caret dissolves into
// the other selection. Overlapping spans merge into their union, oriented
// by whichever head sits on a union boundary; the incoming selection b
// wins when both do.
func merge(a, b Selection) Selection {
	switch {
	case a.IsEmpty():
		return b
	case b.IsEmpty():
		return a
	}
	start, end := a.Start(), a.End()
	if s := b.Start(); s < start {
		start = s
	}
	if e := b.End(); e > end {
		end = e
	}
	backward := false
	if a.Head == start {
		backward = true
	}
	if a.Head == end {
		backward = false
	}
	if b.Head == start {
		backward = true
	}
	if b.Head == end {
		backward = false
	}
	if backward {
		return Selection{Anchor: end, Head: start, GoalColumn: -1, Affinity: b.Affinity}
	}
	return Selection{Anchor: start, Head: end, GoalColumn: -1, Affinity: b.Affinity}
}

package sumtree

// Summary is a measure combined across a sequence. Add must be associative
// and must treat the zero value of S as its identity.
type Summary[S any] interface {
	Add(S) S
}

// Item yields the summary of one payload.
type Item[S any] interface {
	Summary() S
}

// Direction steers Find's descent.
type Direction int8

const (
	// Left continues into payloads before the candidate.
	Left Direction = -1

	// Stop selects the candidate.
	Stop Direction = 0

	// Right continues into payloads after the candidate.
	Right Direction = 1
)

// Tree is an ordered sequence of payloads with O(log n) positional edits
// and monoidal summary queries over any prefix.
type Tree[P Item[S], S Summary[S]] struct {
	root *node[P, S]
}

// New returns an empty tree.
func New[P Item[S], S Summary[S]]() *Tree[P, S] {
	return &Tree[P, S]{}
}

// Build constructs a balanced tree over items in O(n).
func Build[P Item[S], S Summary[S]](items []P) *Tree[P, S] {
	return &Tree[P, S]{root: buildRange[P, S](items)}
}

func buildRange[P Item[S], S Summary[S]](items []P) *node[P, S] {
	if len(items) == 0 {
		return nil
	}
	m := len(items) / 2
	n := &node[P, S]{payload: items[m]}
	n.left = buildRange[P, S](items[:m])
	n.right = buildRange[P, S](items[m+1:])
	if n.left != nil {
		n.left.parent = n
	}
	if n.right != nil {
		n.right.parent = n
	}
	n.recompute()
	return n
}

// Len returns the number of payloads.
func (t *Tree[P, S]) Len() int {
	return size(t.root)
}

// Sum returns the aggregate over the whole sequence.
func (t *Tree[P, S]) Sum() S {
	return subSum(t.root)
}

// First addresses the first payload, or End() for an empty tree.
func (t *Tree[P, S]) First() Iterator[P, S] {
	if t.root == nil {
		return Iterator[P, S]{tree: t}
	}
	return Iterator[P, S]{t, leftmost(t.root)}
}

// Last addresses the last payload, or End() for an empty tree.
func (t *Tree[P, S]) Last() Iterator[P, S] {
	if t.root == nil {
		return Iterator[P, S]{tree: t}
	}
	return Iterator[P, S]{t, rightmost(t.root)}
}

// End is the past-the-end position. It is not valid but may be passed to
// InsertBefore (append), EraseRange, and SplitBefore.
func (t *Tree[P, S]) End() Iterator[P, S] {
	return Iterator[P, S]{tree: t}
}

// At addresses the i-th payload (0-based), or End() when out of range.
func (t *Tree[P, S]) At(i int) Iterator[P, S] {
	if i < 0 || i >= size(t.root) {
		return Iterator[P, S]{tree: t}
	}
	n := t.root
	for {
		lc := size(n.left)
		switch {
		case i < lc:
			n = n.left
		case i == lc:
			return Iterator[P, S]{t, n}
		default:
			i -= lc + 1
			n = n.right
		}
	}
}

// Rank returns how many payloads precede it; End() ranks as Len().
func (t *Tree[P, S]) Rank(it Iterator[P, S]) int {
	it.mustBelong(t)
	if it.n == nil {
		return t.Len()
	}
	r := size(it.n.left)
	for n := it.n; n.parent != nil; n = n.parent {
		if n.parent.right == n {
			r += size(n.parent.left) + 1
		}
	}
	return r
}

// Find descends from the root under caller control. At each candidate, fn
// receives the combined summary of everything before the candidate and the
// candidate payload, and steers Left, Right, or Stop. On Stop, Find returns
// the candidate and its prefix summary. If the descent falls off the tree,
// Find returns End() and the prefix accumulated so far.
func (t *Tree[P, S]) Find(fn func(prefix S, payload P) Direction) (Iterator[P, S], S) {
	var prefix S
	n := t.root
	for n != nil {
		before := prefix
		if n.left != nil {
			before = prefix.Add(n.left.sum)
		}
		switch fn(before, n.payload) {
		case Left:
			n = n.left
		case Stop:
			return Iterator[P, S]{t, n}, before
		default:
			prefix = before.Add(n.payload.Summary())
			n = n.right
		}
	}
	return Iterator[P, S]{tree: t}, prefix
}

// InsertBefore places payload immediately before it and returns the new
// payload's iterator. Inserting before End() appends.
func (t *Tree[P, S]) InsertBefore(it Iterator[P, S], payload P) Iterator[P, S] {
	it.mustBelong(t)
	return Iterator[P, S]{t, t.insertNodeBefore(it.n, payload)}
}

// PushBack appends payload and returns its iterator.
func (t *Tree[P, S]) PushBack(payload P) Iterator[P, S] {
	return Iterator[P, S]{t, t.insertNodeBefore(nil, payload)}
}

func (t *Tree[P, S]) insertNodeBefore(at *node[P, S], payload P) *node[P, S] {
	nn := &node[P, S]{payload: payload, height: 1, count: 1}
	nn.sum = payload.Summary()
	switch {
	case t.root == nil:
		t.root = nn
		return nn
	case at == nil:
		r := rightmost(t.root)
		r.right = nn
		nn.parent = r
	case at.left == nil:
		at.left = nn
		nn.parent = at
	default:
		pr := rightmost(at.left)
		pr.right = nn
		nn.parent = pr
	}
	t.rebalanceUp(nn.parent)
	return nn
}

// Erase removes the payload at it and returns its successor's iterator.
// Only iterators addressing the erased payload become invalid.
func (t *Tree[P, S]) Erase(it Iterator[P, S]) Iterator[P, S] {
	it.mustBelong(t)
	if it.n == nil {
		panic("sumtree: Erase on invalid iterator")
	}
	return Iterator[P, S]{t, t.eraseNode(it.n)}
}

// EraseRange removes the payloads in [first, last).
func (t *Tree[P, S]) EraseRange(first, last Iterator[P, S]) {
	first.mustBelong(t)
	last.mustBelong(t)
	if first.n == last.n {
		return
	}
	if t.Rank(first) > t.Rank(last) {
		panic("sumtree: reversed erase range")
	}
	suffix := t.SplitBefore(first)
	if last.n == nil {
		return
	}
	_, keep := suffix.splitAt(last.n)
	t.root = join2(t.root, keep)
}

// SplitBefore detaches every payload from it onward into a new tree,
// leaving the payloads before it in the receiver. Iterators keep pointing
// at their payloads, now under the owning tree.
func (t *Tree[P, S]) SplitBefore(it Iterator[P, S]) *Tree[P, S] {
	it.mustBelong(t)
	nt := New[P, S]()
	if it.n == nil {
		return nt
	}
	l, r := t.splitAt(it.n)
	t.root = l
	nt.root = r
	return nt
}

// Join appends every payload of other, leaving other empty.
func (t *Tree[P, S]) Join(other *Tree[P, S]) {
	if other == nil || other == t || other.root == nil {
		return
	}
	t.root = join2(t.root, other.root)
	other.root = nil
}

// splitAt partitions the node graph into (before n, n onward). The
// receiver's root is left stale; callers reassign it.
func (t *Tree[P, S]) splitAt(n *node[P, S]) (*node[P, S], *node[P, S]) {
	l := detachChild(n.left)
	r := detachChild(n.right)
	p := n.parent
	n.parent, n.left, n.right = nil, nil, nil
	r = join3(nil, n, r)
	cur := n
	for p != nil {
		gp := p.parent
		fromLeft := p.left == cur
		var other *node[P, S]
		if fromLeft {
			other = detachChild(p.right)
		} else {
			other = detachChild(p.left)
		}
		p.parent, p.left, p.right = nil, nil, nil
		if fromLeft {
			r = join3(r, p, other)
		} else {
			l = join3(other, p, l)
		}
		cur = p
		p = gp
	}
	return l, r
}

func (t *Tree[P, S]) eraseNode(n *node[P, S]) *node[P, S] {
	next := successor(n)
	var fixFrom *node[P, S]
	switch {
	case n.left == nil:
		fixFrom = n.parent
		t.transplant(n, n.right)
	case n.right == nil:
		fixFrom = n.parent
		t.transplant(n, n.left)
	default:
		// Splice the successor into n's place so iterators to it survive.
		s := next
		if s.parent == n {
			fixFrom = s
		} else {
			fixFrom = s.parent
			t.transplant(s, s.right)
			s.right = n.right
			s.right.parent = s
		}
		t.transplant(n, s)
		s.left = n.left
		s.left.parent = s
	}
	n.parent, n.left, n.right = nil, nil, nil
	t.rebalanceUp(fixFrom)
	return next
}

func (t *Tree[P, S]) transplant(old, repl *node[P, S]) {
	switch {
	case old.parent == nil:
		t.root = repl
	case old.parent.left == old:
		old.parent.left = repl
	default:
		old.parent.right = repl
	}
	if repl != nil {
		repl.parent = old.parent
	}
}

// rebalanceUp re-synthesizes metadata from n to the root, restoring the
// height invariant along the way.
func (t *Tree[P, S]) rebalanceUp(n *node[P, S]) {
	for n != nil {
		n.recompute()
		nb := balanceNode(n)
		par := nb.parent
		switch {
		case par == nil:
			t.root = nb
		case par.left == n:
			par.left = nb
		case par.right == n:
			par.right = nb
		}
		n = par
	}
}

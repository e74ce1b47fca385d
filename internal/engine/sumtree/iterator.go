package sumtree

// Iterator addresses one payload of a Tree. The zero Iterator and End()
// are invalid. Erasing a payload invalidates iterators addressing it;
// every other iterator stays usable across structural edits.
type Iterator[P Item[S], S Summary[S]] struct {
	tree *Tree[P, S]
	n    *node[P, S]
}

// Valid reports whether the iterator addresses a payload.
func (it Iterator[P, S]) Valid() bool {
	return it.n != nil
}

// Payload returns the addressed payload.
func (it Iterator[P, S]) Payload() P {
	if it.n == nil {
		panic("sumtree: Payload on invalid iterator")
	}
	return it.n.payload
}

// Update mutates the payload in place and re-synthesizes summaries on the
// path to the root.
func (it Iterator[P, S]) Update(fn func(*P)) {
	if it.n == nil {
		panic("sumtree: Update on invalid iterator")
	}
	fn(&it.n.payload)
	resummarizeUp(it.n)
}

// Next steps toward the end of the sequence; stepping past the last
// payload yields End().
func (it Iterator[P, S]) Next() Iterator[P, S] {
	if it.n == nil {
		panic("sumtree: Next on invalid iterator")
	}
	return Iterator[P, S]{it.tree, successor(it.n)}
}

// Prev steps toward the start; from End() it yields the last payload.
// Stepping before the first payload yields End().
func (it Iterator[P, S]) Prev() Iterator[P, S] {
	if it.n == nil {
		if it.tree == nil || it.tree.root == nil {
			return it
		}
		return Iterator[P, S]{it.tree, rightmost(it.tree.root)}
	}
	return Iterator[P, S]{it.tree, predecessor(it.n)}
}

// PrefixSum returns the combined summary of every payload before this one.
// On End() it returns the whole tree's sum.
func (it Iterator[P, S]) PrefixSum() S {
	if it.n == nil {
		if it.tree == nil {
			var zero S
			return zero
		}
		return it.tree.Sum()
	}
	pre := subSum(it.n.left)
	for n := it.n; n.parent != nil; n = n.parent {
		if n.parent.right == n {
			s := subSum(n.parent.left)
			s = s.Add(n.parent.payload.Summary())
			pre = s.Add(pre)
		}
	}
	return pre
}

func (it Iterator[P, S]) mustBelong(t *Tree[P, S]) {
	if it.tree != t {
		panic("sumtree: iterator belongs to another tree")
	}
}

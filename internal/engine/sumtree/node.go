package sumtree

// node links both ways so iterators can walk the sequence and edits can
// re-synthesize summaries upward without a search from the root.
type node[P Item[S], S Summary[S]] struct {
	parent *node[P, S]
	left   *node[P, S]
	right  *node[P, S]

	// height is the AVL height of the subtree rooted here (leaf == 1).
	height int

	// count is the number of payloads in this subtree.
	count int

	// sum aggregates left subtree, payload, right subtree, in order.
	sum S

	payload P
}

func height[P Item[S], S Summary[S]](n *node[P, S]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func size[P Item[S], S Summary[S]](n *node[P, S]) int {
	if n == nil {
		return 0
	}
	return n.count
}

func subSum[P Item[S], S Summary[S]](n *node[P, S]) S {
	if n == nil {
		var zero S
		return zero
	}
	return n.sum
}

// recompute refreshes height, count, and sum from the children.
func (n *node[P, S]) recompute() {
	hl, hr := height(n.left), height(n.right)
	if hl > hr {
		n.height = hl + 1
	} else {
		n.height = hr + 1
	}
	n.count = size(n.left) + size(n.right) + 1
	s := subSum(n.left)
	s = s.Add(n.payload.Summary())
	n.sum = s.Add(subSum(n.right))
}

func leftmost[P Item[S], S Summary[S]](n *node[P, S]) *node[P, S] {
	for n.left != nil {
		n = n.left
	}
	return n
}

func rightmost[P Item[S], S Summary[S]](n *node[P, S]) *node[P, S] {
	for n.right != nil {
		n = n.right
	}
	return n
}

func successor[P Item[S], S Summary[S]](n *node[P, S]) *node[P, S] {
	if n.right != nil {
		return leftmost(n.right)
	}
	for n.parent != nil && n.parent.right == n {
		n = n.parent
	}
	return n.parent
}

func predecessor[P Item[S], S Summary[S]](n *node[P, S]) *node[P, S] {
	if n.left != nil {
		return rightmost(n.left)
	}
	for n.parent != nil && n.parent.left == n {
		n = n.parent
	}
	return n.parent
}

// rotL rotates n's right child above it. The new subtree root keeps n's
// old parent pointer; the caller fixes that parent's downlink.
func rotL[P Item[S], S Summary[S]](n *node[P, S]) *node[P, S] {
	p := n.parent
	y := n.right
	n.right = y.left
	if y.left != nil {
		y.left.parent = n
	}
	y.left = n
	n.parent = y
	y.parent = p
	n.recompute()
	y.recompute()
	return y
}

func rotR[P Item[S], S Summary[S]](n *node[P, S]) *node[P, S] {
	p := n.parent
	y := n.left
	n.left = y.right
	if y.right != nil {
		y.right.parent = n
	}
	y.right = n
	n.parent = y
	y.parent = p
	n.recompute()
	y.recompute()
	return y
}

// balanceNode restores the AVL invariant at n, assuming both subtrees are
// already balanced and n's metadata is current. Returns the subtree root;
// the caller fixes the parent's downlink when it changed.
func balanceNode[P Item[S], S Summary[S]](n *node[P, S]) *node[P, S] {
	switch {
	case height(n.left)-height(n.right) > 1:
		if height(n.left.left) < height(n.left.right) {
			n.left = rotL(n.left)
		}
		return rotR(n)
	case height(n.right)-height(n.left) > 1:
		if height(n.right.right) < height(n.right.left) {
			n.right = rotR(n.right)
		}
		return rotL(n)
	}
	return n
}

// resummarizeUp refreshes metadata from n to the root after a payload
// mutation. Heights cannot change, so no rotations are needed.
func resummarizeUp[P Item[S], S Summary[S]](n *node[P, S]) {
	for n != nil {
		n.recompute()
		n = n.parent
	}
}

func detachChild[P Item[S], S Summary[S]](n *node[P, S]) *node[P, S] {
	if n != nil {
		n.parent = nil
	}
	return n
}

// join3 concatenates l ++ mid ++ r into one balanced subtree. All three
// must be detached; mid is a single node whose links are clear.
func join3[P Item[S], S Summary[S]](l, mid, r *node[P, S]) *node[P, S] {
	switch {
	case height(l) > height(r)+1:
		sub := join3(detachChild(l.right), mid, r)
		l.right = sub
		sub.parent = l
		l.recompute()
		return balanceNode(l)
	case height(r) > height(l)+1:
		sub := join3(l, mid, detachChild(r.left))
		r.left = sub
		sub.parent = r
		r.recompute()
		return balanceNode(r)
	default:
		mid.left, mid.right = l, r
		if l != nil {
			l.parent = mid
		}
		if r != nil {
			r.parent = mid
		}
		mid.recompute()
		return mid
	}
}

// join2 concatenates two detached subtrees with no middle node.
func join2[P Item[S], S Summary[S]](l, r *node[P, S]) *node[P, S] {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	rest, m := detachMax(l)
	return join3(rest, m, r)
}

// detachMax unlinks the rightmost node, rebalances what remains, and
// returns (remaining root, detached node).
func detachMax[P Item[S], S Summary[S]](root *node[P, S]) (*node[P, S], *node[P, S]) {
	m := rightmost(root)
	l := m.left
	p := m.parent
	if l != nil {
		l.parent = p
	}
	m.parent, m.left, m.right = nil, nil, nil
	if p == nil {
		return l, m
	}
	p.right = l
	for {
		p.recompute()
		nb := balanceNode(p)
		par := nb.parent
		if par == nil {
			return nb, m
		}
		if par.left == p {
			par.left = nb
		} else {
			par.right = nb
		}
		p = par
	}
}

package mathup

// varset is a persistent AVL tree of variable ids. Every update copies the
// path it touches, so a node's free and bound sets can share structure with
// the sets of its children.
type varset struct {
	key uint64

	left   *varset
	right  *varset
	height int
	size   int
}

func (n *varset) copyNode() *varset {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}

func (n *varset) insert(k uint64) *varset {
	tree, _ := n.insertOK(k)
	return tree
}

// boolean indicates an actual insertion happened
func (n *varset) insertOK(k uint64) (*varset, bool) {
	if n == nil {
		return &varset{key: k, height: 1, size: 1}, true
	}
	switch {
	case k < n.key:
		left, inserted := n.left.insertOK(k)
		if !inserted {
			return n, false
		}
		newn := n.copyNode()
		newn.left = left
		return newn.rebalance(), true
	case k > n.key:
		right, inserted := n.right.insertOK(k)
		if !inserted {
			return n, false
		}
		newn := n.copyNode()
		newn.right = right
		return newn.rebalance(), true
	}
	return n, false
}

func (n *varset) remove(k uint64) *varset {
	tree, _ := n.removeOK(k)
	return tree
}

func (n *varset) removeOK(k uint64) (*varset, bool) {
	if n == nil {
		return nil, false
	}
	switch {
	case k < n.key:
		left, removed := n.left.removeOK(k)
		if !removed {
			return n, false
		}
		newn := n.copyNode()
		newn.left = left
		return newn.rebalance(), true
	case k > n.key:
		right, removed := n.right.removeOK(k)
		if !removed {
			return n, false
		}
		newn := n.copyNode()
		newn.right = right
		return newn.rebalance(), true
	}
	if n.left == nil {
		return n.right, true
	}
	if n.right == nil {
		return n.left, true
	}
	succ := n.right.min()
	right, _ := n.right.removeOK(succ)
	newn := n.copyNode()
	newn.key = succ
	newn.right = right
	return newn.rebalance(), true
}

func (n *varset) min() uint64 {
	for n.left != nil {
		n = n.left
	}
	return n.key
}

func (n *varset) getHeight() int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *varset) len() int {
	if n == nil {
		return 0
	}
	return n.size
}

// n is a fresh copy. Its children may be shared with other trees, so any
// child that takes part in a rotation is copied before it is modified.
func (n *varset) rebalance() *varset {
	inbalance := n.right.getHeight() - n.left.getHeight()
	if inbalance < 2 && inbalance > -2 {
		n.reset()
		return n
	}
	if inbalance == -2 { // left is higher
		child := n.left.copyNode()
		if child.left.getHeight() >= child.right.getHeight() {
			n.left = child.right
			child.right = n
			n.reset()
			child.reset()
			return child
		}
		grandchild := child.right.copyNode()
		child.right = grandchild.left
		grandchild.left = child
		n.left = grandchild.right
		grandchild.right = n
		n.reset()
		child.reset()
		grandchild.reset()
		return grandchild
	}
	// inbalance == 2, right is higher
	child := n.right.copyNode()
	if child.right.getHeight() >= child.left.getHeight() {
		n.right = child.left
		child.left = n
		n.reset()
		child.reset()
		return child
	}
	grandchild := child.left.copyNode()
	child.left = grandchild.right
	grandchild.right = child
	n.right = grandchild.left
	grandchild.left = n
	n.reset()
	child.reset()
	grandchild.reset()
	return grandchild
}

func (n *varset) reset() {
	n.height = max(n.left.getHeight(), n.right.getHeight()) + 1
	n.size = n.left.len() + n.right.len() + 1
}

func (n *varset) contains(k uint64) bool {
	for n != nil {
		switch {
		case k < n.key:
			n = n.left
		case k > n.key:
			n = n.right
		default:
			return true
		}
	}
	return false
}

func (n *varset) union(o *varset) *varset {
	if n.len() < o.len() {
		n, o = o, n
	}
	o.each(func(k uint64) bool {
		n = n.insert(k)
		return true
	})
	return n
}

// each visits the ids in ascending order until f returns false.
func (n *varset) each(f func(uint64) bool) bool {
	if n == nil {
		return true
	}
	if !n.left.each(f) {
		return false
	}
	if !f(n.key) {
		return false
	}
	return n.right.each(f)
}

func (n *varset) slice() []uint64 {
	out := make([]uint64, 0, n.len())
	n.each(func(k uint64) bool {
		out = append(out, k)
		return true
	})
	return out
}

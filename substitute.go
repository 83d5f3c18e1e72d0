package mathup

// Substitute returns n with every free occurrence of the variable old
// replaced by t. Subtrees without a free occurrence are shared with n.
// Replacing under a quantifier whose variable is free in t would capture
// it; that is reported as ErrMalformedTerm rather than silently renamed.
func Substitute(n, old, t *Node) (*Node, error) {
	if old == nil || old.kind != KindVariable {
		return nil, malformed("substitute", "%s is not a variable", old)
	}
	if t == nil {
		return nil, malformed("substitute", "missing replacement for %s", old)
	}
	return substitute(n, old.id, t)
}

func substitute(n *Node, id uint64, t *Node) (*Node, error) {
	if !n.free.contains(id) {
		return n, nil
	}
	switch n.kind {
	case KindVariable:
		return t, nil
	case KindFunction, KindProperty:
		children := make([]*Node, len(n.children))
		for i, c := range n.children {
			s, err := substitute(c, id, t)
			if err != nil {
				return nil, err
			}
			children[i] = s
		}
		return Construct(n.kind, Args{Name: n.name, Children: children})
	case KindAll, KindExist, KindUniquelyExist:
		if t.free.contains(n.bound.id) {
			return nil, malformed("substitute", "%s would be captured by %s", t, n.bound)
		}
		s, err := substitute(n.statement, id, t)
		if err != nil {
			return nil, err
		}
		return Construct(n.kind, Args{Bound: n.bound, Statement: s})
	case KindNot:
		s, err := substitute(n.left, id, t)
		if err != nil {
			return nil, err
		}
		return Construct(KindNot, Args{Body: s})
	case KindAnd, KindOr, KindIff, KindImply:
		l, err := substitute(n.left, id, t)
		if err != nil {
			return nil, err
		}
		r, err := substitute(n.right, id, t)
		if err != nil {
			return nil, err
		}
		if n.kind == KindImply {
			return Construct(n.kind, Args{Assumption: l, Conclusion: r})
		}
		return Construct(n.kind, Args{Left: l, Right: r})
	}
	return n, nil
}

// Interchangeable reports whether a and b are the same tree except at
// positions where one holds x and the other holds y. Binders must match
// exactly, and below a binder whose variable occurs free in x or y no
// swapping is allowed, since the swap would change what the binder captures.
func Interchangeable(a, b, x, y *Node) bool {
	if Equal(a, b) {
		return true
	}
	if (Equal(a, x) && Equal(b, y)) || (Equal(a, y) && Equal(b, x)) {
		return true
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindFunction, KindProperty:
		if a.name != b.name || len(a.children) != len(b.children) {
			return false
		}
		for i := range a.children {
			if !Interchangeable(a.children[i], b.children[i], x, y) {
				return false
			}
		}
		return true
	case KindAll, KindExist, KindUniquelyExist:
		if a.bound.id != b.bound.id {
			return false
		}
		if x.free.contains(a.bound.id) || y.free.contains(a.bound.id) {
			return Equal(a.statement, b.statement)
		}
		return Interchangeable(a.statement, b.statement, x, y)
	case KindNot:
		return Interchangeable(a.left, b.left, x, y)
	case KindAnd, KindOr, KindIff, KindImply:
		return Interchangeable(a.left, b.left, x, y) && Interchangeable(a.right, b.right, x, y)
	}
	return false
}

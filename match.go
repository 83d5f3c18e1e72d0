package mathup

// Bindings maps pattern variable ids to the terms they were matched to.
type Bindings map[uint64]*Node

// Match matches pattern against target, letting only the variables in
// vars stand for arbitrary terms. Everything else must agree exactly, and
// a variable seen twice must be bound to equal terms both times.
func Match(pattern, target *Node, vars []*Node) (Bindings, bool) {
	open := make(map[uint64]struct{}, len(vars))
	for _, v := range vars {
		open[v.id] = struct{}{}
	}
	b := Bindings{}
	if !b.unify(pattern, target, open) {
		return nil, false
	}
	return b, true
}

func (b Bindings) walk(v *Node) (*Node, bool) {
	t, ok := b[v.id]
	return t, ok
}

func (b Bindings) unify(p, t *Node, open map[uint64]struct{}) bool {
	if p.kind == KindVariable {
		if _, ok := open[p.id]; !ok {
			return t.kind == KindVariable && t.id == p.id
		}
		if bound, ok := b.walk(p); ok {
			return Equal(bound, t)
		}
		if IsSentence(t) {
			return false
		}
		b[p.id] = t
		return true
	}
	if p.kind != t.kind {
		return false
	}
	switch p.kind {
	case KindFunction, KindProperty:
		if p.name != t.name || len(p.children) != len(t.children) {
			return false
		}
		for i := range p.children {
			if !b.unify(p.children[i], t.children[i], open) {
				return false
			}
		}
		return true
	case KindAll, KindExist, KindUniquelyExist:
		return p.bound.id == t.bound.id && b.unify(p.statement, t.statement, open)
	case KindNot:
		return b.unify(p.left, t.left, open)
	case KindAnd, KindOr, KindIff, KindImply:
		return b.unify(p.left, t.left, open) && b.unify(p.right, t.right, open)
	}
	return true
}

// Instantiate replaces the free occurrences of every bound variable in n
// simultaneously, so terms that mention pattern variables are not rewritten
// a second time.
func (b Bindings) Instantiate(n *Node) (*Node, error) {
	if len(b) == 0 {
		return n, nil
	}
	touched := false
	n.free.each(func(id uint64) bool {
		_, touched = b[id]
		return !touched
	})
	if !touched {
		return n, nil
	}
	switch n.kind {
	case KindVariable:
		return b[n.id], nil
	case KindFunction, KindProperty:
		children := make([]*Node, len(n.children))
		for i, c := range n.children {
			s, err := b.Instantiate(c)
			if err != nil {
				return nil, err
			}
			children[i] = s
		}
		return Construct(n.kind, Args{Name: n.name, Children: children})
	case KindAll, KindExist, KindUniquelyExist:
		inner := b
		if _, shadowed := b[n.bound.id]; shadowed {
			inner = make(Bindings, len(b))
			for id, t := range b {
				if id != n.bound.id {
					inner[id] = t
				}
			}
		}
		for id, t := range inner {
			if n.statement.free.contains(id) && t.free.contains(n.bound.id) {
				return nil, malformed("instantiate", "%s would be captured by %s", t, n.bound)
			}
		}
		s, err := inner.Instantiate(n.statement)
		if err != nil {
			return nil, err
		}
		return Construct(n.kind, Args{Bound: n.bound, Statement: s})
	case KindNot:
		s, err := b.Instantiate(n.left)
		if err != nil {
			return nil, err
		}
		return Construct(KindNot, Args{Body: s})
	case KindAnd, KindOr, KindIff, KindImply:
		l, err := b.Instantiate(n.left)
		if err != nil {
			return nil, err
		}
		r, err := b.Instantiate(n.right)
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

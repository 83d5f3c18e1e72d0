package mathup

func requireKind(rule, what string, n *Node, kinds ...Kind) error {
	if n == nil {
		return Errorf(rule, "shape", ErrRuleMismatch, "missing %s", what)
	}
	for _, k := range kinds {
		if n.kind == k {
			return nil
		}
	}
	return Errorf(rule, "shape", ErrRuleMismatch, "%s %s must be %v", what, n, kinds)
}

func requireTerm(rule, what string, n *Node) error {
	if n == nil || IsSentence(n) {
		return Errorf(rule, "shape", ErrRuleMismatch, "%s %s must be a term", what, n)
	}
	return nil
}

func requireEqual(rule string, target, derived *Node) error {
	if !Equal(target, derived) {
		return Errorf(rule, "compare", ErrHashMismatch, "derived %s but target is %s", derived, target)
	}
	return nil
}

func (s *Session) requireTarget(rule string, target *Node) error {
	if target == nil || !IsSentence(target) {
		return Errorf(rule, "shape", ErrRuleMismatch, "target %s is not a sentence", target)
	}
	return nil
}

// requireUnusedName rejects names that were ever defined in this session,
// or that the engine reserves. Names stay taken after their block closes:
// a definition that leaked out through a discharged implication must not
// be contradicted by a second definition.
func (s *Session) requireUnusedName(rule, name string) error {
	if name == "" {
		return Errorf(rule, "define", ErrRuleMismatch, "empty name")
	}
	if name == EqualName || name == InName {
		return Errorf(rule, "define", ErrNameCollision, "%q is primitive", name)
	}
	if depth, taken := s.symbols[name]; taken {
		return Errorf(rule, "define", ErrNameCollision, "%q was already defined at depth %d", name, depth)
	}
	return nil
}

// Axiom accepts target without derivation. Outside any block the target
// must be closed; inside one its free variables must be held fixed by an
// open block or a Let.
func (s *Session) Axiom(target *Node) (*Node, error) {
	rule := RuleAxiom.String()
	return s.run(rule, func() (*Node, error) {
		if err := s.requireTarget(rule, target); err != nil {
			return nil, err
		}
		if v, ok := s.unscoped(target); ok {
			return nil, Errorf(rule, "scope", ErrRuleMismatch, "%s is free in %s but no open block binds it", v, target)
		}
		return s.accept(target), nil
	})
}

// Deduce re-accepts the last accepted formula under the caller's node,
// typically the implication a block just discharged.
func (s *Session) Deduce(target *Node) (*Node, error) {
	rule := RuleDeduce.String()
	return s.run(rule, func() (*Node, error) {
		if err := s.requireTarget(rule, target); err != nil {
			return nil, err
		}
		if s.last == nil {
			return nil, Errorf(rule, "last", ErrRuleMismatch, "nothing has been accepted yet")
		}
		if err := requireEqual(rule, target, s.last); err != nil {
			return nil, err
		}
		return s.accept(target), nil
	})
}

// DefineProperty introduces the predicate name through a closed definition
// All(x1, ..., All(xn, name(x1, ..., xn) <-> Q)).
func (s *Session) DefineProperty(target *Node, name string) (*Node, error) {
	rule := RuleDefineProperty.String()
	return s.run(rule, func() (*Node, error) {
		if err := s.requireTarget(rule, target); err != nil {
			return nil, err
		}
		if err := s.requireUnusedName(rule, name); err != nil {
			return nil, err
		}
		cursor := target
		for cursor.kind == KindAll {
			cursor = cursor.statement
		}
		if err := requireKind(rule, "definition", cursor, KindIff); err != nil {
			return nil, err
		}
		head := cursor.left
		if head.kind != KindProperty || head.name != name {
			return nil, Errorf(rule, "shape", ErrRuleMismatch, "left side %s must be the property %s", head, name)
		}
		seen := map[uint64]struct{}{}
		for _, c := range head.children {
			if c.kind != KindVariable {
				return nil, Errorf(rule, "shape", ErrRuleMismatch, "argument %s of %s is not a variable", c, name)
			}
			if _, dup := seen[c.id]; dup {
				return nil, Errorf(rule, "shape", ErrRuleMismatch, "argument %s of %s is repeated", c, name)
			}
			seen[c.id] = struct{}{}
		}
		if mentions(cursor.right, name) {
			return nil, Errorf(rule, "shape", ErrRuleMismatch, "definition of %s is circular", name)
		}
		if target.free.len() > 0 {
			return nil, Errorf(rule, "scope", ErrRuleMismatch, "definition %s is not closed", target)
		}
		s.symbols[name] = s.Depth()
		return s.accept(target), nil
	})
}

// DefineFunction turns a proved All*([A ->] UniquelyExist(y, P)) into the
// definition All*([A ->] P[y := name(x1, ..., xn)]).
func (s *Session) DefineFunction(target *Node, name string, reason Ref) (*Node, error) {
	rule := RuleDefineFunction.String()
	return s.run(rule, func() (*Node, error) {
		if err := s.requireTarget(rule, target); err != nil {
			return nil, err
		}
		if err := s.requireUnusedName(rule, name); err != nil {
			return nil, err
		}
		r, err := s.cite(rule, reason)
		if err != nil {
			return nil, err
		}
		if r.free.len() > 0 {
			return nil, Errorf(rule, "scope", ErrRuleMismatch, "%s is not closed", r)
		}
		var params []*Node
		cursor := r
		for cursor.kind == KindAll {
			params = append(params, cursor.bound)
			cursor = cursor.statement
		}
		var assumption *Node
		if cursor.kind == KindImply {
			assumption = cursor.left
			cursor = cursor.right
		}
		if err := requireKind(rule, "reason", cursor, KindUniquelyExist); err != nil {
			return nil, err
		}
		term, err := Construct(KindFunction, Args{Name: name, Children: params})
		if err != nil {
			return nil, err
		}
		definition, err := Substitute(cursor.statement, cursor.bound, term)
		if err != nil {
			return nil, err
		}
		if assumption != nil {
			if definition, err = Construct(KindImply, Args{Assumption: assumption, Conclusion: definition}); err != nil {
				return nil, err
			}
		}
		for i := len(params) - 1; i >= 0; i-- {
			if definition, err = Construct(KindAll, Args{Bound: params[i], Statement: definition}); err != nil {
				return nil, err
			}
		}
		if err := requireEqual(rule, target, definition); err != nil {
			return nil, err
		}
		s.symbols[name] = s.Depth()
		return s.accept(target), nil
	})
}

// Found proves Exist(x, P) from a proof of P[x := term].
func (s *Session) Found(target, term *Node, reason Ref) (*Node, error) {
	rule := RuleFound.String()
	return s.run(rule, func() (*Node, error) {
		r, err := s.cite(rule, reason)
		if err != nil {
			return nil, err
		}
		if err := requireTerm(rule, "witness", term); err != nil {
			return nil, err
		}
		if err := requireKind(rule, "target", target, KindExist); err != nil {
			return nil, err
		}
		instance, err := Substitute(target.statement, target.bound, term)
		if err != nil {
			return nil, err
		}
		if err := requireEqual(rule, r, instance); err != nil {
			return nil, err
		}
		return s.accept(target), nil
	})
}

// Let names a witness of a proved existential. The variable must be fresh;
// afterwards it is held fixed at the current depth and remembers the
// existential it witnesses.
func (s *Session) Let(target, variable *Node, reason Ref) (*Node, error) {
	rule := RuleLet.String()
	return s.run(rule, func() (*Node, error) {
		r, err := s.cite(rule, reason)
		if err != nil {
			return nil, err
		}
		if err := requireKind(rule, "reason", r, KindExist, KindUniquelyExist); err != nil {
			return nil, err
		}
		if err := requireKind(rule, "witness", variable, KindVariable); err != nil {
			return nil, err
		}
		if !s.IsFresh(variable) {
			return nil, Errorf(rule, "fresh", ErrFreshnessViolation, "%s is not fresh", variable)
		}
		instance, err := Substitute(r.statement, r.bound, variable)
		if err != nil {
			return nil, err
		}
		if err := requireEqual(rule, target, instance); err != nil {
			return nil, err
		}
		delete(s.fresh, variable.id)
		s.top().bound[variable.id] = struct{}{}
		s.definedBy[variable.id] = r
		return s.accept(target), nil
	})
}

// ClaimUnique proves UniquelyExist(x, P) from a proof of a == b, where a
// and b are two distinct Let witnesses of the same Exist(x, P).
func (s *Session) ClaimUnique(target *Node, reason Ref) (*Node, error) {
	rule := RuleClaimUnique.String()
	return s.run(rule, func() (*Node, error) {
		r, err := s.cite(rule, reason)
		if err != nil {
			return nil, err
		}
		a, b, err := equality(rule, r)
		if err != nil {
			return nil, err
		}
		if a.kind != KindVariable || b.kind != KindVariable || a.id == b.id {
			return nil, Errorf(rule, "witness", ErrRuleMismatch, "%s must relate two distinct witnesses", r)
		}
		da, db := s.definedBy[a.id], s.definedBy[b.id]
		if da == nil || db == nil || !Equal(da, db) {
			return nil, Errorf(rule, "witness", ErrRuleMismatch, "%s and %s do not witness the same existential", a, b)
		}
		if !s.boundLocally(a.id) || !s.boundLocally(b.id) {
			return nil, Errorf(rule, "scope", ErrRuleMismatch, "%s and %s are no longer in scope", a, b)
		}
		if err := requireKind(rule, "target", target, KindUniquelyExist); err != nil {
			return nil, err
		}
		exist, err := Construct(KindExist, Args{Bound: target.bound, Statement: target.statement})
		if err != nil {
			return nil, err
		}
		if err := requireEqual(rule, da, exist); err != nil {
			return nil, err
		}
		return s.accept(target), nil
	})
}

// ByUnique proves l == r from UniquelyExist(x, P), P[x := l] and P[x := r].
func (s *Session) ByUnique(target *Node, reason, left, right Ref) (*Node, error) {
	rule := RuleByUnique.String()
	return s.run(rule, func() (*Node, error) {
		r, err := s.cite(rule, reason)
		if err != nil {
			return nil, err
		}
		lp, err := s.cite(rule, left)
		if err != nil {
			return nil, err
		}
		rp, err := s.cite(rule, right)
		if err != nil {
			return nil, err
		}
		if err := requireKind(rule, "reason", r, KindUniquelyExist); err != nil {
			return nil, err
		}
		l, rt, err := equality(rule, target)
		if err != nil {
			return nil, err
		}
		for _, side := range []struct{ term, proved *Node }{{l, lp}, {rt, rp}} {
			instance, err := Substitute(r.statement, r.bound, side.term)
			if err != nil {
				return nil, err
			}
			if err := requireEqual(rule, side.proved, instance); err != nil {
				return nil, err
			}
		}
		return s.accept(target), nil
	})
}

// Put instantiates a proved All(x, P) at term.
func (s *Session) Put(target, term *Node, reason Ref) (*Node, error) {
	rule := RulePut.String()
	return s.run(rule, func() (*Node, error) {
		r, err := s.cite(rule, reason)
		if err != nil {
			return nil, err
		}
		if err := requireKind(rule, "reason", r, KindAll); err != nil {
			return nil, err
		}
		if err := requireTerm(rule, "replacement", term); err != nil {
			return nil, err
		}
		instance, err := Substitute(r.statement, r.bound, term)
		if err != nil {
			return nil, err
		}
		if err := requireEqual(rule, target, instance); err != nil {
			return nil, err
		}
		return s.accept(target), nil
	})
}

// Generalize proves All(x, P) from P, provided no open block holds x fixed
// and x was never introduced by a Let. A Let witness stays fixed after its
// block closes, since it can escape through the discharged implication.
func (s *Session) Generalize(target *Node, reason Ref) (*Node, error) {
	rule := RuleGeneralize.String()
	return s.run(rule, func() (*Node, error) {
		r, err := s.cite(rule, reason)
		if err != nil {
			return nil, err
		}
		if err := requireKind(rule, "target", target, KindAll); err != nil {
			return nil, err
		}
		if s.boundLocally(target.bound.id) {
			return nil, Errorf(rule, "bound", ErrFreshnessViolation, "%s is held fixed by an open block", target.bound)
		}
		if _, witness := s.definedBy[target.bound.id]; witness {
			return nil, Errorf(rule, "bound", ErrFreshnessViolation, "%s was introduced by let", target.bound)
		}
		general, err := Construct(KindAll, Args{Bound: target.bound, Statement: r})
		if err != nil {
			return nil, err
		}
		if err := requireEqual(rule, target, general); err != nil {
			return nil, err
		}
		return s.accept(target), nil
	})
}

// Replace proves target from a proved P and a proved a == b when target
// and P differ only by swapping a and b.
func (s *Session) Replace(target *Node, reason, equalityRef Ref) (*Node, error) {
	rule := RuleReplace.String()
	return s.run(rule, func() (*Node, error) {
		r, err := s.cite(rule, reason)
		if err != nil {
			return nil, err
		}
		e, err := s.cite(rule, equalityRef)
		if err != nil {
			return nil, err
		}
		if err := s.requireTarget(rule, target); err != nil {
			return nil, err
		}
		a, b, err := equality(rule, e)
		if err != nil {
			return nil, err
		}
		if !Interchangeable(target, r, a, b) {
			return nil, Errorf(rule, "compare", ErrHashMismatch, "%s is not %s with %s and %s swapped", target, r, a, b)
		}
		return s.accept(target), nil
	})
}

// Dual proves the De Morgan duality of the quantifiers, in either
// orientation:
//
//	~All(x, P) <-> Exist(x, ~P)
//	~Exist(x, P) <-> All(x, ~P)
func (s *Session) Dual(target *Node) (*Node, error) {
	rule := RuleDual.String()
	return s.run(rule, func() (*Node, error) {
		if err := requireKind(rule, "target", target, KindIff); err != nil {
			return nil, err
		}
		negated, flipped := target.left, target.right
		if negated.kind != KindNot {
			negated, flipped = flipped, negated
		}
		if negated.kind != KindNot {
			return nil, Errorf(rule, "shape", ErrRuleMismatch, "neither side of %s is a negation", target)
		}
		q := negated.left
		var want Kind
		switch q.kind {
		case KindAll:
			want = KindExist
		case KindExist:
			want = KindAll
		default:
			return nil, Errorf(rule, "shape", ErrRuleMismatch, "%s does not negate All or Exist", negated)
		}
		if flipped.kind != want || flipped.statement.kind != KindNot {
			return nil, Errorf(rule, "shape", ErrRuleMismatch, "%s is not the dual of %s", flipped, negated)
		}
		if flipped.bound.id != q.bound.id || !Equal(flipped.statement.left, q.statement) {
			return nil, Errorf(rule, "compare", ErrHashMismatch, "%s is not the dual of %s", flipped, negated)
		}
		return s.accept(target), nil
	})
}

// equality splits equal(a, b).
func equality(rule string, n *Node) (*Node, *Node, error) {
	if n == nil || n.kind != KindProperty || n.name != EqualName || len(n.children) != 2 {
		return nil, nil, Errorf(rule, "shape", ErrRuleMismatch, "%s is not an equality", n)
	}
	return n.children[0], n.children[1], nil
}

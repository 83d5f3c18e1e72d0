package mathup

// ClassTemplate builds the class existence statement
//
//	exist! output. all element. in(element, output) <->
//	    exist! i1. ... exist! ik. element = Tuple(i1, ..., ik) & set(i1) & ... & set(ik) & statement
//
// with the conjunction nested to the right.
func ClassTemplate(output, element *Node, inputs []*Node, statement *Node) (*Node, error) {
	body := statement
	for i := len(inputs) - 1; i >= 0; i-- {
		set, err := Construct(KindProperty, Args{Name: SetName, Children: []*Node{inputs[i]}})
		if err != nil {
			return nil, err
		}
		if body, err = Construct(KindAnd, Args{Left: set, Right: body}); err != nil {
			return nil, err
		}
	}
	tuple, err := tupleOf(inputs)
	if err != nil {
		return nil, err
	}
	eq, err := Construct(KindProperty, Args{Name: EqualName, Children: []*Node{element, tuple}})
	if err != nil {
		return nil, err
	}
	if body, err = Construct(KindAnd, Args{Left: eq, Right: body}); err != nil {
		return nil, err
	}
	for i := len(inputs) - 1; i >= 0; i-- {
		if body, err = Construct(KindUniquelyExist, Args{Bound: inputs[i], Statement: body}); err != nil {
			return nil, err
		}
	}
	member, err := Construct(KindProperty, Args{Name: InName, Children: []*Node{element, output}})
	if err != nil {
		return nil, err
	}
	if body, err = Construct(KindIff, Args{Left: member, Right: body}); err != nil {
		return nil, err
	}
	if body, err = Construct(KindAll, Args{Bound: element, Statement: body}); err != nil {
		return nil, err
	}
	return Construct(KindUniquelyExist, Args{Bound: output, Statement: body})
}

func tupleOf(terms []*Node) (*Node, error) {
	switch len(terms) {
	case 0:
		return Construct(KindFunction, Args{Name: EmptyName})
	case 1:
		return terms[0], nil
	}
	rest, err := tupleOf(terms[1:])
	if err != nil {
		return nil, err
	}
	return Construct(KindFunction, Args{Name: OrderedPairName, Children: []*Node{terms[0], rest}})
}

// DefineClass admits an instance of the class existence template. It is
// the one rule whose conclusion is trusted rather than derived, so every
// argument is checked before the template is built.
func (s *Session) DefineClass(target, output, element *Node, inputs []*Node, statement *Node) (*Node, error) {
	rule := RuleDefineClass.String()
	return s.run(rule, func() (*Node, error) {
		if err := s.requireTarget(rule, target); err != nil {
			return nil, err
		}
		if err := s.requireTarget(rule, statement); err != nil {
			return nil, err
		}
		if err := requireKind(rule, "output", output, KindVariable); err != nil {
			return nil, err
		}
		if err := requireKind(rule, "element", element, KindVariable); err != nil {
			return nil, err
		}
		if !s.IsFresh(output) {
			return nil, Errorf(rule, "fresh", ErrFreshnessViolation, "output %s is not fresh", output)
		}
		if statement.free.contains(output.id) {
			return nil, Errorf(rule, "shape", ErrRuleMismatch, "output %s is free in %s", output, statement)
		}
		seen := map[uint64]struct{}{output.id: {}}
		if element.id == output.id {
			return nil, Errorf(rule, "shape", ErrRuleMismatch, "element and output are both %s", element)
		}
		seen[element.id] = struct{}{}
		for _, in := range inputs {
			if err := requireKind(rule, "input", in, KindVariable); err != nil {
				return nil, err
			}
			if _, dup := seen[in.id]; dup {
				return nil, Errorf(rule, "shape", ErrRuleMismatch, "input %s repeats another class variable", in)
			}
			seen[in.id] = struct{}{}
			if !statement.free.contains(in.id) {
				return nil, Errorf(rule, "shape", ErrRuleMismatch, "input %s is not free in %s", in, statement)
			}
		}
		template, err := ClassTemplate(output, element, inputs, statement)
		if err != nil {
			return nil, err
		}
		if err := requireEqual(rule, target, template); err != nil {
			return nil, err
		}
		return s.accept(target), nil
	})
}

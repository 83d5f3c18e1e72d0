package mathup

import "fmt"

// Rule tags an inference rule. Primitive tags form a closed set; derived
// rules are registered at RuleUser and above.
type Rule int

const (
	RuleAxiom Rule = iota + 1
	RuleDeduce
	RuleTautology
	RuleDefineProperty
	RuleDefineFunction
	RuleDefineClass
	RuleDual
	RuleFound
	RuleClaimUnique
	RuleByUnique
	RulePut
	RuleReplace
	RuleGeneralize
	RuleLet

	RuleUser Rule = 100
)

var ruleNames = map[Rule]string{
	RuleAxiom:          "axiom",
	RuleDeduce:         "deduce",
	RuleTautology:      "tautology",
	RuleDefineProperty: "define_property",
	RuleDefineFunction: "define_function",
	RuleDefineClass:    "define_class",
	RuleDual:           "dual",
	RuleFound:          "found",
	RuleClaimUnique:    "claim_unique",
	RuleByUnique:       "by_unique",
	RulePut:            "put",
	RuleReplace:        "replace",
	RuleGeneralize:     "generalize",
	RuleLet:            "let",
}

func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("rule(%d)", int(r))
}

// RuleFunc implements a rule. args are the rule-specific arguments: terms,
// variables, names and citations.
type RuleFunc func(s *Session, target *Node, args ...any) (*Node, error)

type entry struct {
	name string
	fn   RuleFunc
}

// Register adds a derived rule. Derived rules can only reach the session
// through its exported operations, so they extend the rule set without
// being trusted.
func (s *Session) Register(tag Rule, name string, fn RuleFunc) error {
	if tag < RuleUser {
		return Errorf("register", name, ErrRuleMismatch, "tag %d is reserved for primitive rules", int(tag))
	}
	if fn == nil {
		return Errorf("register", name, ErrRuleMismatch, "nil rule function")
	}
	if e, ok := s.rules[tag]; ok {
		return Errorf("register", name, ErrNameCollision, "tag %d is already registered as %s", int(tag), e.name)
	}
	s.rules[tag] = entry{name: name, fn: fn}
	return nil
}

// RuleName is the registered name of tag, empty if unknown.
func (s *Session) RuleName(tag Rule) string {
	return s.rules[tag].name
}

// Apply proves target with rule and saves the result under key.
func (s *Session) Apply(target *Node, key Key, rule Rule, args ...any) (*Node, error) {
	e, n, err := s.dispatch(target, rule, args)
	if err != nil {
		return nil, err
	}
	if _, err := s.save(n, key, e.name); err != nil {
		s.abort(e.name, err)
		return nil, err
	}
	return n, nil
}

// Prove is Apply without saving.
func (s *Session) Prove(target *Node, rule Rule, args ...any) (*Node, error) {
	_, n, err := s.dispatch(target, rule, args)
	return n, err
}

func (s *Session) dispatch(target *Node, rule Rule, args []any) (entry, *Node, error) {
	e, ok := s.rules[rule]
	if !ok {
		err := Errorf(rule.String(), "dispatch", ErrRuleMismatch, "no rule registered for tag %d", int(rule))
		if aerr := s.aborted(rule.String()); aerr != nil {
			return e, nil, aerr
		}
		s.abort(rule.String(), err)
		return e, nil, err
	}
	if err := s.aborted(e.name); err != nil {
		return e, nil, err
	}
	n, err := e.fn(s, target, args...)
	if err != nil {
		// argument checks and derived rules can fail before any primitive runs
		if s.err == nil {
			s.abort(e.name, err)
		}
		return e, nil, err
	}
	return e, n, nil
}

func (s *Session) registerPrimitives() {
	s.rules = map[Rule]entry{}
	add := func(tag Rule, fn RuleFunc) {
		s.rules[tag] = entry{name: tag.String(), fn: fn}
	}
	add(RuleAxiom, func(s *Session, target *Node, args ...any) (*Node, error) {
		if err := arity(RuleAxiom, args, 0); err != nil {
			return nil, err
		}
		return s.Axiom(target)
	})
	add(RuleDeduce, func(s *Session, target *Node, args ...any) (*Node, error) {
		if err := arity(RuleDeduce, args, 0); err != nil {
			return nil, err
		}
		return s.Deduce(target)
	})
	add(RuleTautology, func(s *Session, target *Node, args ...any) (*Node, error) {
		return s.Tautology(target, args...)
	})
	add(RuleDefineProperty, func(s *Session, target *Node, args ...any) (*Node, error) {
		if err := arity(RuleDefineProperty, args, 1); err != nil {
			return nil, err
		}
		name, err := arg[string](RuleDefineProperty, args, 0)
		if err != nil {
			return nil, err
		}
		return s.DefineProperty(target, name)
	})
	add(RuleDefineFunction, func(s *Session, target *Node, args ...any) (*Node, error) {
		if err := arity(RuleDefineFunction, args, 2); err != nil {
			return nil, err
		}
		name, err := arg[string](RuleDefineFunction, args, 0)
		if err != nil {
			return nil, err
		}
		return s.DefineFunction(target, name, args[1])
	})
	add(RuleDefineClass, func(s *Session, target *Node, args ...any) (*Node, error) {
		if err := arity(RuleDefineClass, args, 4); err != nil {
			return nil, err
		}
		output, err := arg[*Node](RuleDefineClass, args, 0)
		if err != nil {
			return nil, err
		}
		element, err := arg[*Node](RuleDefineClass, args, 1)
		if err != nil {
			return nil, err
		}
		inputs, err := arg[[]*Node](RuleDefineClass, args, 2)
		if err != nil {
			return nil, err
		}
		statement, err := arg[*Node](RuleDefineClass, args, 3)
		if err != nil {
			return nil, err
		}
		return s.DefineClass(target, output, element, inputs, statement)
	})
	add(RuleDual, func(s *Session, target *Node, args ...any) (*Node, error) {
		if err := arity(RuleDual, args, 0); err != nil {
			return nil, err
		}
		return s.Dual(target)
	})
	add(RuleFound, func(s *Session, target *Node, args ...any) (*Node, error) {
		if err := arity(RuleFound, args, 2); err != nil {
			return nil, err
		}
		term, err := arg[*Node](RuleFound, args, 0)
		if err != nil {
			return nil, err
		}
		return s.Found(target, term, args[1])
	})
	add(RuleClaimUnique, func(s *Session, target *Node, args ...any) (*Node, error) {
		if err := arity(RuleClaimUnique, args, 1); err != nil {
			return nil, err
		}
		return s.ClaimUnique(target, args[0])
	})
	add(RuleByUnique, func(s *Session, target *Node, args ...any) (*Node, error) {
		if err := arity(RuleByUnique, args, 3); err != nil {
			return nil, err
		}
		return s.ByUnique(target, args[0], args[1], args[2])
	})
	add(RulePut, func(s *Session, target *Node, args ...any) (*Node, error) {
		if err := arity(RulePut, args, 2); err != nil {
			return nil, err
		}
		term, err := arg[*Node](RulePut, args, 0)
		if err != nil {
			return nil, err
		}
		return s.Put(target, term, args[1])
	})
	add(RuleReplace, func(s *Session, target *Node, args ...any) (*Node, error) {
		if err := arity(RuleReplace, args, 2); err != nil {
			return nil, err
		}
		return s.Replace(target, args[0], args[1])
	})
	add(RuleGeneralize, func(s *Session, target *Node, args ...any) (*Node, error) {
		if err := arity(RuleGeneralize, args, 1); err != nil {
			return nil, err
		}
		return s.Generalize(target, args[0])
	})
	add(RuleLet, func(s *Session, target *Node, args ...any) (*Node, error) {
		if err := arity(RuleLet, args, 2); err != nil {
			return nil, err
		}
		variable, err := arg[*Node](RuleLet, args, 0)
		if err != nil {
			return nil, err
		}
		return s.Let(target, variable, args[1])
	})
}

func arity(rule Rule, args []any, n int) error {
	if len(args) != n {
		return Errorf(rule.String(), "args", ErrRuleMismatch, "want %d arguments, got %d", n, len(args))
	}
	return nil
}

func arg[T any](rule Rule, args []any, i int) (T, error) {
	v, ok := args[i].(T)
	if !ok {
		var zero T
		return zero, Errorf(rule.String(), "args", ErrRuleMismatch, "argument %d: want %T, got %T", i, zero, args[i])
	}
	return v, nil
}

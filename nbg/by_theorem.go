package nbg

import "github.com/deosjr/mathup"

// RuleByTheorem is the tag ByTheorem is registered under.
const RuleByTheorem = mathup.RuleUser

// ByTheorem proves target from a theorem All(x1, ..., All(xn, [A ->] C)).
// C is matched against target to find the terms for x1..xn, the theorem is
// instantiated with a chain of Puts, and target is then checked by
// Tautology against the instance and the extra reasons.
//
//	s.Apply(target, key, RuleByTheorem, theorem, reasons...)
func ByTheorem(s *mathup.Session, target *mathup.Node, args ...any) (*mathup.Node, error) {
	rule := "by_theorem"
	if len(args) == 0 {
		return nil, mathup.Errorf(rule, "args", mathup.ErrRuleMismatch, "missing theorem")
	}
	theorem, err := s.Resolve(args[0])
	if err != nil {
		return nil, err
	}
	var vars []*mathup.Node
	cursor := theorem
	for cursor.Kind() == mathup.KindAll {
		vars = append(vars, cursor.Bound())
		cursor = cursor.Statement()
	}
	conclusion := cursor
	if cursor.Kind() == mathup.KindImply {
		conclusion = cursor.Conclusion()
	}
	bindings, ok := mathup.Match(conclusion, target, vars)
	if !ok {
		return nil, mathup.Errorf(rule, "match", mathup.ErrRuleMismatch, "%s is not an instance of %s", target, conclusion)
	}
	instance := theorem
	for _, v := range vars {
		term, ok := bindings[v.ID()]
		if !ok {
			return nil, mathup.Errorf(rule, "match", mathup.ErrRuleMismatch, "%s does not determine %s", target, v)
		}
		next, err := mathup.Substitute(instance.Statement(), v, term)
		if err != nil {
			return nil, err
		}
		if instance, err = s.Prove(next, mathup.RulePut, term, instance); err != nil {
			return nil, err
		}
	}
	reasons := append([]any{instance}, args[1:]...)
	return s.Prove(target, mathup.RuleTautology, reasons...)
}

// Install registers the derived rules of this package on s.
func Install(s *mathup.Session) error {
	return s.Register(RuleByTheorem, "by_theorem", ByTheorem)
}

package nbg

import (
	"fmt"

	"github.com/deosjr/mathup"
)

// Library holds the variables the shipped theorems are stated in. Proofs
// that cite a theorem through Put or ByTheorem have to use the same binder
// identities, so they are allocated once per session.
type Library struct {
	s *mathup.Session

	A, B, C, P, X *mathup.Node
}

type theorem struct {
	name  string
	prove func(l *Library) (*mathup.Node, error)
}

// theorems are proved in order; later ones cite earlier ones by name.
var theorems = []theorem{
	{"set", (*Library).setDefinition},
	{"equality_reflection", (*Library).equalityReflection},
	{"extensionality", (*Library).extensionality},
	{"pairing", (*Library).pairing},
	{"unique_pairing", (*Library).uniquePairing},
	{"pair", (*Library).pairDefinition},
	{"pair_is_set", (*Library).pairIsSet},
	{"self_pair_is_set", (*Library).selfPairIsSet},
}

// Names lists the theorems Load saves, in proof order.
func Names() []string {
	names := make([]string, len(theorems))
	for i, t := range theorems {
		names[i] = t.name
	}
	return names
}

// NewLibrary allocates the theorem variables on s without proving anything.
func NewLibrary(s *mathup.Session) *Library {
	vs := s.Variables(5)
	return &Library{s: s, A: vs[0], B: vs[1], C: vs[2], P: vs[3], X: vs[4]}
}

// Load installs the derived rules and proves the whole library on s. It
// stops at the first step the session rejects.
func Load(s *mathup.Session) (*Library, error) {
	if err := Install(s); err != nil {
		return nil, err
	}
	l := NewLibrary(s)
	for _, t := range theorems {
		n, err := t.prove(l)
		if err != nil {
			return l, fmt.Errorf("%s: %w", t.name, err)
		}
		if _, err := s.Save(n, mathup.Name(t.name)); err != nil {
			return l, fmt.Errorf("%s: %w", t.name, err)
		}
	}
	return l, nil
}

// Pairing is the body of the pairing axiom for a pair p of a and b.
func (l *Library) Pairing(p, a, b *mathup.Node) *mathup.Node {
	x := l.X
	return mathup.And(Set(p), mathup.All(x, mathup.Iff(In(x, p), mathup.Or(mathup.Eq(x, a), mathup.Eq(x, b)))))
}

func (l *Library) setDefinition() (*mathup.Node, error) {
	x, c := l.X, l.C
	return l.s.DefineProperty(mathup.All(x, mathup.Iff(Set(x), mathup.Exist(c, In(x, c)))), mathup.SetName)
}

func (l *Library) equalityReflection() (*mathup.Node, error) {
	a := l.A
	return l.s.Axiom(mathup.All(a, mathup.Eq(a, a)))
}

func (l *Library) extensionality() (*mathup.Node, error) {
	a, b, x := l.A, l.B, l.X
	return l.s.Axiom(mathup.All(a, b, mathup.Iff(
		mathup.Eq(a, b),
		mathup.All(x, mathup.Iff(In(x, a), In(x, b))),
	)))
}

func (l *Library) pairing() (*mathup.Node, error) {
	a, b, p := l.A, l.B, l.P
	return l.s.Axiom(mathup.All(a, b, mathup.Imply(
		mathup.And(Set(a), Set(b)),
		mathup.Exist(p, l.Pairing(p, a, b)),
	)))
}

// uniquePairing shows that the pair of the pairing axiom is unique: two
// witnesses have the same members, so extensionality makes them equal.
func (l *Library) uniquePairing() (*mathup.Node, error) {
	s := l.s
	a, b, p, x := l.A, l.B, l.P, l.X
	ws := s.Variables(2)
	c1, c2 := ws[0], ws[1]
	members := func(c *mathup.Node) *mathup.Node {
		return mathup.Iff(In(x, c), mathup.Or(mathup.Eq(x, a), mathup.Eq(x, b)))
	}

	implication, err := s.Assume(mathup.And(Set(a), Set(b)), func(assumption *mathup.Node) error {
		pairing, err := s.Lookup(mathup.Name("pairing"))
		if err != nil {
			return err
		}
		step, err := s.Put(pairing.Statement(), a, "pairing")
		if err != nil {
			return err
		}
		if step, err = s.Put(step.Statement(), b, step); err != nil {
			return err
		}
		exists, err := s.Tautology(step.Conclusion(), assumption, step)
		if err != nil {
			return err
		}
		var both []*mathup.Node
		for _, c := range []*mathup.Node{c1, c2} {
			witness, err := s.Let(l.Pairing(c, a, b), c, exists)
			if err != nil {
				return err
			}
			all, err := s.Tautology(mathup.All(x, members(c)), witness)
			if err != nil {
				return err
			}
			instance, err := s.Put(members(c), x, all)
			if err != nil {
				return err
			}
			both = append(both, instance)
		}
		sameMembers, err := s.Tautology(mathup.Iff(In(x, c1), In(x, c2)), both[0], both[1])
		if err != nil {
			return err
		}
		general, err := s.Generalize(mathup.All(x, sameMembers), sameMembers)
		if err != nil {
			return err
		}
		ext, err := s.Lookup(mathup.Name("extensionality"))
		if err != nil {
			return err
		}
		step, err = s.Put(mathup.All(b, mathup.Iff(
			mathup.Eq(c1, b),
			mathup.All(x, mathup.Iff(In(x, c1), In(x, b))),
		)), c1, ext)
		if err != nil {
			return err
		}
		if step, err = s.Put(mathup.Iff(mathup.Eq(c1, c2), general), c2, step); err != nil {
			return err
		}
		equal, err := s.Tautology(mathup.Eq(c1, c2), step, general)
		if err != nil {
			return err
		}
		_, err = s.ClaimUnique(mathup.UniquelyExist(p, l.Pairing(p, a, b)), equal)
		return err
	})
	if err != nil {
		return nil, err
	}
	return l.generalize(implication, a, b)
}

func (l *Library) pairDefinition() (*mathup.Node, error) {
	a, b := l.A, l.B
	return l.s.DefineFunction(mathup.All(a, b, mathup.Imply(
		mathup.And(Set(a), Set(b)),
		l.Pairing(Pair(a, b), a, b),
	)), PairName, "unique_pairing")
}

func (l *Library) pairIsSet() (*mathup.Node, error) {
	s := l.s
	a, b := l.A, l.B
	implication, err := s.Assume(mathup.And(Set(a), Set(b)), func(assumption *mathup.Node) error {
		pair, err := s.Lookup(mathup.Name(PairName))
		if err != nil {
			return err
		}
		step, err := s.Put(pair.Statement(), a, PairName)
		if err != nil {
			return err
		}
		if step, err = s.Put(step.Statement(), b, step); err != nil {
			return err
		}
		_, err = s.Tautology(Set(Pair(a, b)), assumption, step)
		return err
	})
	if err != nil {
		return nil, err
	}
	return l.generalize(implication, a, b)
}

func (l *Library) selfPairIsSet() (*mathup.Node, error) {
	s := l.s
	a := l.A
	implication, err := s.Assume(Set(a), func(assumption *mathup.Node) error {
		_, err := s.Prove(Set(Pair(a, a)), RuleByTheorem, "pair_is_set", assumption)
		return err
	})
	if err != nil {
		return nil, err
	}
	return l.generalize(implication, a)
}

// generalize closes n over vars, innermost last.
func (l *Library) generalize(n *mathup.Node, vars ...*mathup.Node) (*mathup.Node, error) {
	var err error
	for i := len(vars) - 1; i >= 0; i-- {
		if n, err = l.s.Generalize(mathup.All(vars[i], n), n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

package mathup

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// DefaultTruthTableLimit is the largest atom count Auto still enumerates.
const DefaultTruthTableLimit = 16

// maxTruthTableAtoms keeps assignments within a uint64.
const maxTruthTableAtoms = 63

// Skeleton is the propositional shape of a sentence. Op is a connective,
// KindTrue, KindFalse, or KindProperty for an opaque atom numbered Atom.
type Skeleton struct {
	Op          Kind
	Atom        int
	Left, Right *Skeleton
}

// Eval evaluates p under assignment, where bit i is the value of atom i.
func (p *Skeleton) Eval(assignment uint64) bool {
	switch p.Op {
	case KindTrue:
		return true
	case KindFalse:
		return false
	case KindNot:
		return !p.Left.Eval(assignment)
	case KindAnd:
		return p.Left.Eval(assignment) && p.Right.Eval(assignment)
	case KindOr:
		return p.Left.Eval(assignment) || p.Right.Eval(assignment)
	case KindImply:
		return !p.Left.Eval(assignment) || p.Right.Eval(assignment)
	case KindIff:
		return p.Left.Eval(assignment) == p.Right.Eval(assignment)
	}
	return assignment&(1<<uint(p.Atom)) != 0
}

// atoms numbers the non-propositional sub-formulas shared by one check.
// Fingerprints index the table; structural equality confirms every hit.
type atoms struct {
	byFingerprint map[Fingerprint][]int
	nodes         []*Node
}

func newAtoms() *atoms {
	return &atoms{byFingerprint: map[Fingerprint][]int{}}
}

func (a *atoms) number(n *Node) int {
	for _, i := range a.byFingerprint[n.fp] {
		if equalTree(a.nodes[i], n) {
			return i
		}
	}
	i := len(a.nodes)
	a.nodes = append(a.nodes, n)
	a.byFingerprint[n.fp] = append(a.byFingerprint[n.fp], i)
	return i
}

func (a *atoms) abstract(n *Node) *Skeleton {
	switch n.kind {
	case KindTrue, KindFalse:
		return &Skeleton{Op: n.kind}
	case KindNot:
		return &Skeleton{Op: KindNot, Left: a.abstract(n.left)}
	case KindAnd, KindOr, KindImply, KindIff:
		return &Skeleton{Op: n.kind, Left: a.abstract(n.left), Right: a.abstract(n.right)}
	}
	return &Skeleton{Op: KindProperty, Atom: a.number(n)}
}

func (a *atoms) len() int { return len(a.nodes) }

// Decider decides propositional entailment over atoms 0..atoms-1.
type Decider interface {
	Entails(premises []*Skeleton, target *Skeleton, atoms int) (bool, error)
}

// TruthTable enumerates every assignment.
type TruthTable struct{}

func (TruthTable) Entails(premises []*Skeleton, target *Skeleton, atoms int) (bool, error) {
	if atoms > maxTruthTableAtoms {
		return false, Errorf("tautology", "truth_table", ErrRuleMismatch, "%d atoms is too many to enumerate", atoms)
	}
	end := uint64(1) << uint(atoms)
next:
	for assignment := uint64(0); assignment < end; assignment++ {
		for _, p := range premises {
			if !p.Eval(assignment) {
				continue next
			}
		}
		if !target.Eval(assignment) {
			return false, nil
		}
	}
	return true, nil
}

// SAT checks that the premises together with the negated target are
// unsatisfiable.
type SAT struct{}

func (SAT) Entails(premises []*Skeleton, target *Skeleton, atoms int) (bool, error) {
	c := logic.NewC()
	vars := make([]z.Lit, atoms)
	for i := range vars {
		vars[i] = c.Lit()
	}
	roots := make([]z.Lit, 0, len(premises)+1)
	for _, p := range premises {
		roots = append(roots, circuit(c, vars, p))
	}
	roots = append(roots, circuit(c, vars, target).Not())
	for _, r := range roots {
		if r == c.F {
			return true, nil
		}
	}
	g := gini.New()
	c.ToCnf(g)
	g.Assume(roots...)
	return g.Solve() == -1, nil
}

func circuit(c *logic.C, vars []z.Lit, p *Skeleton) z.Lit {
	switch p.Op {
	case KindTrue:
		return c.T
	case KindFalse:
		return c.F
	case KindNot:
		return circuit(c, vars, p.Left).Not()
	case KindAnd:
		return c.And(circuit(c, vars, p.Left), circuit(c, vars, p.Right))
	case KindOr:
		return c.Or(circuit(c, vars, p.Left), circuit(c, vars, p.Right))
	case KindImply:
		return c.Or(circuit(c, vars, p.Left).Not(), circuit(c, vars, p.Right))
	case KindIff:
		return c.Xor(circuit(c, vars, p.Left), circuit(c, vars, p.Right)).Not()
	}
	return vars[p.Atom]
}

// Auto enumerates up to Limit atoms and hands larger checks to SAT.
type Auto struct {
	Limit int
}

func (a Auto) Entails(premises []*Skeleton, target *Skeleton, atoms int) (bool, error) {
	if atoms <= a.Limit && atoms <= maxTruthTableAtoms {
		return TruthTable{}.Entails(premises, target, atoms)
	}
	return SAT{}.Entails(premises, target, atoms)
}

// Abstract builds the propositional skeletons of premises and target over
// one shared atom table and returns the number of atoms.
func Abstract(premises []*Node, target *Node) ([]*Skeleton, *Skeleton, int) {
	a := newAtoms()
	ps := make([]*Skeleton, len(premises))
	for i, p := range premises {
		ps[i] = a.abstract(p)
	}
	t := a.abstract(target)
	return ps, t, a.len()
}

// Tautology proves target when it follows from the cited reasons by
// propositional logic alone.
func (s *Session) Tautology(target *Node, reasons ...Ref) (*Node, error) {
	rule := RuleTautology.String()
	return s.run(rule, func() (*Node, error) {
		if err := s.requireTarget(rule, target); err != nil {
			return nil, err
		}
		premises := make([]*Node, len(reasons))
		for i, ref := range reasons {
			r, err := s.cite(rule, ref)
			if err != nil {
				return nil, err
			}
			premises[i] = r
		}
		ps, t, n := Abstract(premises, target)
		s.metrics.observeAtoms(n)
		ok, err := s.decider.Entails(ps, t, n)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, Errorf(rule, "decide", ErrNotEntailed, "%s does not follow from %d reasons", target, len(premises))
		}
		return s.accept(target), nil
	})
}

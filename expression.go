package mathup

import "slices"

// Kind is the syntactic category of a node.
type Kind uint8

const (
	KindVariable Kind = iota
	KindFunction
	KindProperty
	KindAll
	KindExist
	KindUniquelyExist
	KindNot
	KindAnd
	KindOr
	KindImply
	KindIff
	KindTrue
	KindFalse
)

var kindNames = [...]string{
	KindVariable:      "variable",
	KindFunction:      "function",
	KindProperty:      "property",
	KindAll:           "all",
	KindExist:         "exist",
	KindUniquelyExist: "uniquely_exist",
	KindNot:           "not",
	KindAnd:           "and",
	KindOr:            "or",
	KindImply:         "imply",
	KindIff:           "iff",
	KindTrue:          "true",
	KindFalse:         "false",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) quantifier() bool {
	return k == KindAll || k == KindExist || k == KindUniquelyExist
}

func (k Kind) binary() bool {
	return k == KindAnd || k == KindOr || k == KindIff || k == KindImply
}

// Node is an immutable term or formula. The zero value is not usable;
// build nodes with Construct or the builder functions.
type Node struct {
	kind Kind

	id       uint64  // variable
	name     string  // function, property
	children []*Node // function, property

	bound     *Node // quantifiers
	statement *Node

	// not uses left only; imply stores assumption in left and conclusion in right
	left  *Node
	right *Node

	free    *varset
	bounded *varset
	fp      Fingerprint
}

// Args carries the sub-arguments of Construct. Only the fields relevant to
// the requested kind are read.
type Args struct {
	ID         uint64
	Name       string
	Children   []*Node
	Bound      *Node
	Statement  *Node
	Body       *Node
	Left       *Node
	Right      *Node
	Assumption *Node
	Conclusion *Node
}

// Construct builds a node of the given kind, checking that the required
// sub-arguments are present and that quantifiers bind a variable occurring
// free, and not already bound, in their statement.
func Construct(kind Kind, a Args) (*Node, error) {
	n := &Node{kind: kind}
	switch kind {
	case KindVariable:
		n.id = a.ID
		n.free = n.free.insert(a.ID)
	case KindFunction, KindProperty:
		if a.Name == "" {
			return nil, malformed(kind.String(), "missing name")
		}
		for i, c := range a.Children {
			if c == nil {
				return nil, malformed(kind.String(), "%s: argument %d is missing", a.Name, i)
			}
			if IsSentence(c) {
				return nil, malformed(kind.String(), "%s: argument %d is a sentence", a.Name, i)
			}
			n.free = n.free.union(c.free)
			n.bounded = n.bounded.union(c.bounded)
		}
		n.name = a.Name
		n.children = slices.Clone(a.Children)
	case KindAll, KindExist, KindUniquelyExist:
		if a.Bound == nil || a.Bound.kind != KindVariable {
			return nil, malformed(kind.String(), "bound argument must be a variable")
		}
		if err := requireSentence(kind, "statement", a.Statement); err != nil {
			return nil, err
		}
		id := a.Bound.id
		if !a.Statement.free.contains(id) {
			return nil, malformed(kind.String(), "%s does not occur free in %s", a.Bound, a.Statement)
		}
		if a.Statement.bounded.contains(id) {
			return nil, malformed(kind.String(), "%s is already bound in %s", a.Bound, a.Statement)
		}
		n.bound = a.Bound
		n.statement = a.Statement
		n.free = a.Statement.free.remove(id)
		n.bounded = a.Statement.bounded.insert(id)
	case KindNot:
		if err := requireSentence(kind, "body", a.Body); err != nil {
			return nil, err
		}
		n.left = a.Body
		n.free = a.Body.free
		n.bounded = a.Body.bounded
	case KindAnd, KindOr, KindIff, KindImply:
		l, r := a.Left, a.Right
		if kind == KindImply {
			l, r = a.Assumption, a.Conclusion
		}
		if err := requireSentence(kind, "left", l); err != nil {
			return nil, err
		}
		if err := requireSentence(kind, "right", r); err != nil {
			return nil, err
		}
		n.left, n.right = l, r
		n.free = l.free.union(r.free)
		n.bounded = l.bounded.union(r.bounded)
	case KindTrue, KindFalse:
	default:
		return nil, malformed("construct", "unknown kind %d", kind)
	}
	n.fp = fingerprint(n)
	return n, nil
}

func requireSentence(kind Kind, arg string, n *Node) error {
	if n == nil {
		return malformed(kind.String(), "missing %s", arg)
	}
	if !IsSentence(n) {
		return malformed(kind.String(), "%s %s is not a sentence", arg, n)
	}
	return nil
}

// IsSentence reports whether n is a formula rather than a term.
func IsSentence(n *Node) bool {
	return n.kind != KindVariable && n.kind != KindFunction
}

func (n *Node) Kind() Kind { return n.kind }

// ID is the identity of a variable; zero for other kinds.
func (n *Node) ID() uint64 { return n.id }

func (n *Node) Name() string { return n.name }

func (n *Node) Children() []*Node { return slices.Clone(n.children) }

func (n *Node) Bound() *Node { return n.bound }

func (n *Node) Statement() *Node { return n.statement }

func (n *Node) Body() *Node {
	if n.kind != KindNot {
		return nil
	}
	return n.left
}

func (n *Node) Left() *Node {
	if n.kind == KindNot || n.kind == KindImply {
		return nil
	}
	return n.left
}

func (n *Node) Right() *Node {
	if n.kind == KindImply {
		return nil
	}
	return n.right
}

func (n *Node) Assumption() *Node {
	if n.kind != KindImply {
		return nil
	}
	return n.left
}

func (n *Node) Conclusion() *Node {
	if n.kind != KindImply {
		return nil
	}
	return n.right
}

// Free lists the ids of variables occurring unbound, ascending.
func (n *Node) Free() []uint64 { return n.free.slice() }

// Bounded lists the ids of variables bound somewhere inside n, ascending.
func (n *Node) Bounded() []uint64 { return n.bounded.slice() }

func (n *Node) HasFree(v *Node) bool { return n.free.contains(v.id) }

func (n *Node) Fingerprint() Fingerprint { return n.fp }

// Equal is structural equality. Fingerprints only rule out unequal trees
// quickly; a fingerprint match is always confirmed node by node.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.fp != b.fp {
		return false
	}
	return equalTree(a, b)
}

func equalTree(a, b *Node) bool {
	if a == b {
		return true
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindVariable:
		return a.id == b.id
	case KindFunction, KindProperty:
		if a.name != b.name || len(a.children) != len(b.children) {
			return false
		}
		for i := range a.children {
			if !equalTree(a.children[i], b.children[i]) {
				return false
			}
		}
		return true
	case KindAll, KindExist, KindUniquelyExist:
		return a.bound.id == b.bound.id && equalTree(a.statement, b.statement)
	case KindNot:
		return equalTree(a.left, b.left)
	case KindAnd, KindOr, KindIff, KindImply:
		return equalTree(a.left, b.left) && equalTree(a.right, b.right)
	}
	return true
}

// mentions reports whether a function or property called name occurs in n.
func mentions(n *Node, name string) bool {
	switch n.kind {
	case KindFunction, KindProperty:
		if n.name == name {
			return true
		}
		for _, c := range n.children {
			if mentions(c, name) {
				return true
			}
		}
	case KindAll, KindExist, KindUniquelyExist:
		return mentions(n.statement, name)
	case KindNot:
		return mentions(n.left, name)
	case KindAnd, KindOr, KindIff, KindImply:
		return mentions(n.left, name) || mentions(n.right, name)
	}
	return false
}

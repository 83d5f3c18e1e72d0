package mathup

// Symbols the engine itself gives meaning to.
const (
	EqualName       = "equal"
	InName          = "in"
	SetName         = "set"
	OrderedPairName = "ordered_pair"
	EmptyName       = "empty"
)

// The builders below panic with the *Error from Construct when the
// arguments are malformed, the way regexp.MustCompile does. Use Construct
// directly to get the error instead.

func must(n *Node, err error) *Node {
	if err != nil {
		panic(err)
	}
	return n
}

// VariableOf rebuilds a variable with a known identity. It is not
// registered as fresh with any session.
func VariableOf(id uint64) *Node {
	return must(Construct(KindVariable, Args{ID: id}))
}

func Fn(name string, children ...*Node) *Node {
	return must(Construct(KindFunction, Args{Name: name, Children: children}))
}

func Prop(name string, children ...*Node) *Node {
	return must(Construct(KindProperty, Args{Name: name, Children: children}))
}

// All(x, y, body) is All(x, All(y, body)).
func All(args ...*Node) *Node {
	return quantify(KindAll, args)
}

func Exist(args ...*Node) *Node {
	return quantify(KindExist, args)
}

func UniquelyExist(args ...*Node) *Node {
	return quantify(KindUniquelyExist, args)
}

func quantify(kind Kind, args []*Node) *Node {
	if len(args) == 0 {
		panic(malformed(kind.String(), "missing statement"))
	}
	statement := args[len(args)-1]
	for i := len(args) - 2; i >= 0; i-- {
		statement = must(Construct(kind, Args{Bound: args[i], Statement: statement}))
	}
	return statement
}

func Not(body *Node) *Node {
	return must(Construct(KindNot, Args{Body: body}))
}

func And(left, right *Node) *Node {
	return must(Construct(KindAnd, Args{Left: left, Right: right}))
}

func Or(left, right *Node) *Node {
	return must(Construct(KindOr, Args{Left: left, Right: right}))
}

func Iff(left, right *Node) *Node {
	return must(Construct(KindIff, Args{Left: left, Right: right}))
}

func Imply(assumption, conclusion *Node) *Node {
	return must(Construct(KindImply, Args{Assumption: assumption, Conclusion: conclusion}))
}

func True() *Node {
	return must(Construct(KindTrue, Args{}))
}

func False() *Node {
	return must(Construct(KindFalse, Args{}))
}

// Eq is the equality predicate between two terms.
func Eq(a, b *Node) *Node {
	return Prop(EqualName, a, b)
}

func NotEq(a, b *Node) *Node {
	return Not(Eq(a, b))
}

// Tuple encodes terms the way class comprehension expects: no terms is
// empty, one term is itself, more nest ordered pairs to the right.
func Tuple(terms ...*Node) *Node {
	return must(tupleOf(terms))
}

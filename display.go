package mathup

import (
	"fmt"
	"strings"
)

// formatting only; nothing in the engine depends on these strings

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var b strings.Builder
	n.display(&b)
	return b.String()
}

func (n *Node) display(b *strings.Builder) {
	switch n.kind {
	case KindVariable:
		fmt.Fprintf(b, "x%d", n.id)
	case KindFunction, KindProperty:
		b.WriteString(n.name)
		b.WriteByte('(')
		for i, c := range n.children {
			if i > 0 {
				b.WriteString(", ")
			}
			c.display(b)
		}
		b.WriteByte(')')
	case KindAll, KindExist, KindUniquelyExist:
		b.WriteString(quantifierSymbols[n.kind])
		b.WriteByte(' ')
		n.bound.display(b)
		b.WriteString(". ")
		n.statement.display(b)
	case KindNot:
		b.WriteByte('~')
		n.left.display(b)
	case KindAnd, KindOr, KindIff, KindImply:
		b.WriteByte('(')
		n.left.display(b)
		b.WriteString(connectiveSymbols[n.kind])
		n.right.display(b)
		b.WriteByte(')')
	case KindTrue:
		b.WriteByte('T')
	case KindFalse:
		b.WriteByte('F')
	}
}

var quantifierSymbols = map[Kind]string{
	KindAll:           "all",
	KindExist:         "exist",
	KindUniquelyExist: "exist!",
}

var connectiveSymbols = map[Kind]string{
	KindAnd:   " & ",
	KindOr:    " | ",
	KindIff:   " <-> ",
	KindImply: " -> ",
}

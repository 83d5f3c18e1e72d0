// Package nbg is a theorem library for NBG set theory written against the
// mathup engine. It only uses the engine's exported operations, so nothing
// in it is trusted.
package nbg

import "github.com/deosjr/mathup"

const PairName = "pair"

// In is membership, element in class.
func In(element, class *mathup.Node) *mathup.Node {
	return mathup.Prop(mathup.InName, element, class)
}

func Set(x *mathup.Node) *mathup.Node {
	return mathup.Prop(mathup.SetName, x)
}

// Pair is the unordered pair {a, b}.
func Pair(a, b *mathup.Node) *mathup.Node {
	return mathup.Fn(PairName, a, b)
}

package mathup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxiom(t *testing.T) {
	s := newTestSession(t)
	x, y := s.NewVariable(), s.NewVariable()

	_, err := s.Axiom(All(x, p(x)))
	require.NoError(t, err)

	_, err = s.Assume(q(y), func(*Node) error {
		_, err := s.Axiom(p(y))
		return err
	})
	require.NoError(t, err, "y is held by the open block")

	for i, target := range []*Node{p(x), x} {
		s := newTestSession(t)
		if _, err := s.Axiom(target); !errors.Is(err, ErrRuleMismatch) {
			t.Errorf("%d) got %v want rule mismatch", i, err)
		}
	}
}

func TestDeduce(t *testing.T) {
	s := newTestSession(t)
	x := s.NewVariable()
	_, err := s.Deduce(All(x, p(x)))
	require.ErrorIs(t, err, ErrRuleMismatch, "nothing accepted yet")

	s = newTestSession(t)
	_, err = s.Assume(p(x), func(a *Node) error {
		_, err := s.Tautology(Or(p(x), q(x)), a)
		return err
	})
	require.NoError(t, err)
	got, err := s.Deduce(Imply(p(x), Or(p(x), q(x))))
	require.NoError(t, err)
	assert.True(t, s.IsProved(got))

	_, err = s.Deduce(Imply(p(x), q(x)))
	assert.ErrorIs(t, err, ErrHashMismatch)
}

func TestPutGeneralizeInverse(t *testing.T) {
	s := newTestSession(t)
	x, y := s.NewVariable(), s.NewVariable()
	general := All(x, Imply(p(x), Exist(y, Prop("r", x, y))))
	_, err := s.Axiom(general)
	require.NoError(t, err)

	// instantiate at a term, then at the bound variable itself, which
	// generalizes back to general
	c := Fn("c")
	instance, err := s.Put(Imply(p(c), Exist(y, Prop("r", c, y))), c, general)
	require.NoError(t, err)
	assert.True(t, s.IsProved(instance))

	again, err := s.Put(general.Statement(), x, general)
	require.NoError(t, err)
	back, err := s.Generalize(All(x, again), again)
	require.NoError(t, err)
	assert.Equal(t, general.Fingerprint(), back.Fingerprint())
	assert.True(t, Equal(general, back))
}

func TestPutRejects(t *testing.T) {
	x := VariableOf(1)
	for i, tt := range []struct {
		name   string
		target *Node
		term   *Node
		want   error
	}{
		{"formula as term", p(x), p(x), ErrRuleMismatch},
		{"wrong instance", q(Fn("c")), Fn("c"), ErrHashMismatch},
		{"not universal", p(Fn("c")), Fn("c"), ErrRuleMismatch},
	} {
		s := newTestSession(t)
		v := s.NewVariable()
		reason := All(v, p(v))
		if tt.name == "not universal" {
			reason = Exist(v, p(v))
		}
		_, err := s.Axiom(reason)
		require.NoError(t, err)
		if _, err := s.Put(tt.target, tt.term, reason); !errors.Is(err, tt.want) {
			t.Errorf("%d) %s: got %v want %v", i, tt.name, err, tt.want)
		}
	}
}

func TestGeneralizeFreshness(t *testing.T) {
	s := newTestSession(t)
	x := s.NewVariable()
	_, err := s.Assume(p(x), func(a *Node) error {
		_, err := s.Generalize(All(x, p(x)), a)
		return err
	})
	assert.ErrorIs(t, err, ErrFreshnessViolation, "x is fixed by the open assumption")

	s = newTestSession(t)
	x, c := s.NewVariable(), s.NewVariable()
	_, err = s.Axiom(Exist(x, p(x)))
	require.NoError(t, err)
	pc, err := s.Let(p(c), c, Exist(x, p(x)))
	require.NoError(t, err)
	_, err = s.Generalize(All(c, p(c)), pc)
	assert.ErrorIs(t, err, ErrFreshnessViolation, "c was introduced by let")
}

func TestLetWitnessStaysFixedAfterItsBlock(t *testing.T) {
	s := newTestSession(t)
	x, c := s.NewVariable(), s.NewVariable()
	some, none := Exist(x, p(x)), Exist(x, Not(p(x)))
	_, err := s.Axiom(some)
	require.NoError(t, err)
	_, err = s.Axiom(none)
	require.NoError(t, err)

	escaped, err := s.Assume(some, func(a *Node) error {
		_, err := s.Let(p(c), c, a)
		return err
	})
	require.NoError(t, err)
	assert.True(t, Equal(Imply(some, p(c)), escaped))

	// all c. (some -> p(c)) would let any d with ~p(d) prove F
	_, err = s.Generalize(All(c, escaped), escaped)
	assert.ErrorIs(t, err, ErrFreshnessViolation)
	assert.False(t, s.IsProved(All(c, escaped)))
}

func TestFreshnessConsumption(t *testing.T) {
	s := newTestSession(t)
	x, c := s.NewVariable(), s.NewVariable()
	first := Exist(x, p(x))
	second := Exist(x, q(x))
	_, err := s.Axiom(first)
	require.NoError(t, err)
	_, err = s.Axiom(second)
	require.NoError(t, err)

	pc, err := s.Let(p(c), c, first)
	require.NoError(t, err)
	assert.False(t, s.IsFresh(c))
	assert.Same(t, first, s.DefinedBy(c))
	assert.True(t, s.IsProved(pc))

	_, err = s.Let(q(c), c, second)
	assert.ErrorIs(t, err, ErrFreshnessViolation)
}

func TestLetRejects(t *testing.T) {
	s := newTestSession(t)
	x, c := s.NewVariable(), s.NewVariable()
	_, err := s.Axiom(All(x, p(x)))
	require.NoError(t, err)
	_, err = s.Let(p(c), c, All(x, p(x)))
	assert.ErrorIs(t, err, ErrRuleMismatch)

	s = newTestSession(t)
	x, c = s.NewVariable(), s.NewVariable()
	_, err = s.Axiom(Exist(x, p(x)))
	require.NoError(t, err)
	_, err = s.Let(q(c), c, Exist(x, p(x)))
	assert.ErrorIs(t, err, ErrHashMismatch)
}

func TestFound(t *testing.T) {
	s := newTestSession(t)
	x := s.NewVariable()
	c := Fn("c")
	_, err := s.Axiom(p(c))
	require.NoError(t, err)
	got, err := s.Found(Exist(x, p(x)), c, p(c))
	require.NoError(t, err)
	assert.True(t, s.IsProved(got))

	_, err = s.Found(Exist(x, q(x)), c, p(c))
	assert.ErrorIs(t, err, ErrHashMismatch)
}

func TestReplace(t *testing.T) {
	setup := func(t *testing.T) (*Session, *Node, *Node, *Node) {
		s := newTestSession(t)
		a, b := s.NewVariable(), s.NewVariable()
		assumption, err := s.EnterScope(And(Eq(a, b), Prop("r", a, a)))
		require.NoError(t, err)
		eq, err := s.Tautology(Eq(a, b), assumption)
		require.NoError(t, err)
		pa, err := s.Tautology(Prop("r", a, a), assumption)
		require.NoError(t, err)
		_, err = s.Save(eq, Name("eq"))
		require.NoError(t, err)
		return s, a, b, pa
	}

	for i, tt := range []struct {
		target func(a, b *Node) *Node
		ok     bool
	}{
		{func(a, b *Node) *Node { return Prop("r", b, b) }, true},
		{func(a, b *Node) *Node { return Prop("r", a, b) }, true},
		{func(a, b *Node) *Node { return Prop("r", a, a) }, true},
		{func(a, b *Node) *Node { return Prop("r", b, Fn("f", a)) }, false},
		{func(a, b *Node) *Node { return Prop("s", b, b) }, false},
		{func(a, b *Node) *Node { return Prop("r", b, Fn("c")) }, false},
	} {
		s, a, b, pa := setup(t)
		_, err := s.Replace(tt.target(a, b), pa, "eq")
		if tt.ok && err != nil {
			t.Errorf("%d) %v", i, err)
		}
		if !tt.ok && !errors.Is(err, ErrHashMismatch) {
			t.Errorf("%d) got %v want hash mismatch", i, err)
		}
	}

	s, a, _, pa := setup(t)
	_, err := s.Replace(Prop("r", a, a), pa, pa)
	assert.ErrorIs(t, err, ErrRuleMismatch, "second reason must be an equality")

	// a binds one side of the equality, so nothing below it may be swapped
	s, a, b, _ := setup(t)
	general, err := s.Axiom(All(a, Prop("r", a, a)))
	require.NoError(t, err)
	_, err = s.Replace(All(a, Prop("r", a, b)), general, "eq")
	assert.ErrorIs(t, err, ErrHashMismatch)
}

func TestDual(t *testing.T) {
	x, y := VariableOf(1), VariableOf(2)
	px := p(x)
	for i, tt := range []struct {
		target *Node
		ok     bool
	}{
		{Iff(Not(All(x, px)), Exist(x, Not(px))), true},
		{Iff(Not(Exist(x, px)), All(x, Not(px))), true},
		{Iff(Exist(x, Not(px)), Not(All(x, px))), true},
		{Iff(All(x, Not(px)), Not(Exist(x, px))), true},
		{Iff(Not(All(x, px)), All(x, Not(px))), false},
		{Iff(Not(All(x, px)), Exist(x, px)), false},
		{Iff(Not(All(x, px)), Exist(y, Not(p(y)))), false},
		{Iff(Not(All(x, px)), Exist(x, Not(q(x)))), false},
		{Iff(Not(px), Not(px)), false},
		{Imply(Not(All(x, px)), Exist(x, Not(px))), false},
	} {
		s := newTestSession(t)
		_, err := s.Dual(tt.target)
		if (err == nil) != tt.ok {
			t.Errorf("%d) %s: got %v", i, tt.target, err)
		}
	}
}

func TestDefineProperty(t *testing.T) {
	s := newTestSession(t)
	x, y := s.NewVariable(), s.NewVariable()
	subset := All(x, y, Iff(Prop("sub", x, y), All(VariableOf(99), Imply(Prop("in", VariableOf(99), x), Prop("in", VariableOf(99), y)))))
	_, err := s.DefineProperty(subset, "sub")
	require.NoError(t, err)

	_, err = s.DefineProperty(All(x, Iff(Prop("sub", x, x), True())), "sub")
	assert.ErrorIs(t, err, ErrNameCollision)

	for i, tt := range []struct {
		target *Node
		name   string
		want   error
	}{
		{All(x, Iff(Prop("r", x), True())), "other", ErrRuleMismatch},
		{All(x, Iff(Prop("r", x, x), True())), "r", ErrRuleMismatch},
		{All(x, Iff(Prop("r", Fn("f", x)), True())), "r", ErrRuleMismatch},
		{All(x, Iff(Prop("r", x), Not(Prop("r", x)))), "r", ErrRuleMismatch},
		{Iff(Prop("r", x), True()), "r", ErrRuleMismatch},
		{All(x, Iff(Prop("r", x), p(y))), "r", ErrRuleMismatch},
		{All(x, Imply(Prop("r", x), True())), "r", ErrRuleMismatch},
		{All(x, Iff(Prop(EqualName, x, x), True())), EqualName, ErrNameCollision},
		{All(x, Iff(Prop(InName, x, x), True())), InName, ErrNameCollision},
	} {
		s := newTestSession(t)
		if _, err := s.DefineProperty(tt.target, tt.name); !errors.Is(err, tt.want) {
			t.Errorf("%d) got %v want %v", i, err, tt.want)
		}
	}
}

func TestDefinedNamesStayTaken(t *testing.T) {
	s := newTestSession(t)
	x := s.NewVariable()
	_, err := s.Assume(p(x), func(*Node) error {
		_, err := s.DefineProperty(All(VariableOf(50), Iff(Prop("r", VariableOf(50)), True())), "r")
		return err
	})
	require.NoError(t, err)
	_, err = s.DefineProperty(All(x, Iff(Prop("r", x), False())), "r")
	assert.ErrorIs(t, err, ErrNameCollision)
}

func TestDefineFunction(t *testing.T) {
	s := newTestSession(t)
	x, y := s.NewVariable(), s.NewVariable()
	unique := All(x, Imply(p(x), UniquelyExist(y, Prop("r", x, y))))
	_, err := s.Axiom(unique)
	require.NoError(t, err)

	_, err = s.DefineFunction(All(x, Imply(p(x), Prop("r", x, Fn("g", y)))), "g", unique)
	assert.ErrorIs(t, err, ErrHashMismatch)

	s = newTestSession(t)
	_, err = s.Axiom(unique)
	require.NoError(t, err)
	def, err := s.DefineFunction(All(x, Imply(p(x), Prop("r", x, Fn("g", x)))), "g", unique)
	require.NoError(t, err)
	assert.True(t, s.IsProved(def))

	_, err = s.DefineFunction(All(x, Imply(p(x), Prop("r", x, Fn("g", x)))), "g", unique)
	assert.ErrorIs(t, err, ErrNameCollision)

	s = newTestSession(t)
	_, err = s.Axiom(Exist(y, q(y)))
	require.NoError(t, err)
	_, err = s.DefineFunction(q(Fn("k")), "k", Exist(y, q(y)))
	assert.ErrorIs(t, err, ErrRuleMismatch)

	s = newTestSession(t)
	_, err = s.Axiom(UniquelyExist(y, q(y)))
	require.NoError(t, err)
	_, err = s.DefineFunction(q(Fn("k")), "k", UniquelyExist(y, q(y)))
	assert.NoError(t, err, "constants are nullary functions")
}

func TestClaimUniqueChecksTheExistential(t *testing.T) {
	s := newTestSession(t)
	x, c1, c2 := s.NewVariable(), s.NewVariable(), s.NewVariable()
	exists := Exist(x, p(x))
	_, err := s.Axiom(exists)
	require.NoError(t, err)
	_, err = s.Axiom(All(x, VariableOf(77), Imply(And(p(x), p(VariableOf(77))), Eq(x, VariableOf(77)))))
	require.NoError(t, err)
	at := s.Last()

	w1, err := s.Let(p(c1), c1, exists)
	require.NoError(t, err)
	w2, err := s.Let(p(c2), c2, exists)
	require.NoError(t, err)
	step, err := s.Put(All(VariableOf(77), Imply(And(p(c1), p(VariableOf(77))), Eq(c1, VariableOf(77)))), c1, at)
	require.NoError(t, err)
	step, err = s.Put(Imply(And(p(c1), p(c2)), Eq(c1, c2)), c2, step)
	require.NoError(t, err)
	eq, err := s.Tautology(Eq(c1, c2), step, w1, w2)
	require.NoError(t, err)

	_, err = s.ClaimUnique(UniquelyExist(x, q(x)), eq)
	require.ErrorIs(t, err, ErrHashMismatch)
}

func TestClaimUnique(t *testing.T) {
	build := func(t *testing.T) (s *Session, x, c1, c2, eq *Node) {
		s = newTestSession(t)
		x, c1, c2 = s.NewVariable(), s.NewVariable(), s.NewVariable()
		exists := Exist(x, p(x))
		_, err := s.Axiom(exists)
		require.NoError(t, err)
		_, err = s.Let(p(c1), c1, exists)
		require.NoError(t, err)
		_, err = s.Let(p(c2), c2, exists)
		require.NoError(t, err)
		// stands in for a real uniqueness argument
		eq, err = s.Axiom(Eq(c1, c2))
		require.NoError(t, err)
		return s, x, c1, c2, eq
	}

	s, x, _, _, eq := build(t)
	unique, err := s.ClaimUnique(UniquelyExist(x, p(x)), eq)
	require.NoError(t, err)
	assert.True(t, s.IsProved(unique))

	s, x, c1, _, _ := build(t)
	self, err := s.Axiom(Eq(c1, c1))
	require.NoError(t, err)
	_, err = s.ClaimUnique(UniquelyExist(x, p(x)), self)
	assert.ErrorIs(t, err, ErrRuleMismatch, "the witnesses must be distinct")

	s = newTestSession(t)
	x, a, b := s.NewVariable(), s.NewVariable(), s.NewVariable()
	_, err = s.Assume(And(p(a), p(b)), func(*Node) error {
		eq, err := s.Axiom(Eq(a, b))
		if err != nil {
			return err
		}
		_, err = s.ClaimUnique(UniquelyExist(x, p(x)), eq)
		return err
	})
	assert.ErrorIs(t, err, ErrRuleMismatch, "plain variables are not witnesses")
}

func TestByUnique(t *testing.T) {
	s := newTestSession(t)
	x := s.NewVariable()
	l, r := Fn("l"), Fn("r")
	unique, err := s.Axiom(UniquelyExist(x, p(x)))
	require.NoError(t, err)
	pl, err := s.Axiom(p(l))
	require.NoError(t, err)
	pr, err := s.Axiom(p(r))
	require.NoError(t, err)

	got, err := s.ByUnique(Eq(l, r), unique, pl, pr)
	require.NoError(t, err)
	assert.True(t, s.IsProved(got))

	_, err = s.ByUnique(Eq(r, l), unique, pl, pr)
	assert.ErrorIs(t, err, ErrHashMismatch)

	s = newTestSession(t)
	pl, err = s.Axiom(p(l))
	require.NoError(t, err)
	_, err = s.ByUnique(Eq(l, l), pl, pl, pl)
	assert.ErrorIs(t, err, ErrRuleMismatch)
}

func TestPutRefusesCapture(t *testing.T) {
	s := newTestSession(t)
	x, y := s.NewVariable(), s.NewVariable()
	general := All(x, Exist(y, Prop("r", x, y)))
	_, err := s.Axiom(general)
	require.NoError(t, err)
	_, err = s.Put(Exist(y, Prop("r", y, y)), y, general)
	assert.ErrorIs(t, err, ErrMalformedTerm)
}

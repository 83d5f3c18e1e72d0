package nbg

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deosjr/mathup"
)

func newSession(opts ...mathup.Option) *mathup.Session {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mathup.NewSession(append([]mathup.Option{mathup.WithLogger(logger)}, opts...)...)
}

func TestLoad(t *testing.T) {
	for _, d := range []mathup.Decider{mathup.TruthTable{}, mathup.SAT{}, mathup.Auto{Limit: mathup.DefaultTruthTableLimit}} {
		s := newSession(mathup.WithDecider(d))
		_, err := Load(s)
		require.NoError(t, err, "%T", d)
		for _, name := range Names() {
			n, err := s.Lookup(mathup.Name(name))
			require.NoError(t, err)
			assert.True(t, s.IsProved(n), name)
			assert.Empty(t, n.Free(), "%s is closed", name)
		}
		assert.Equal(t, 0, s.Depth())
	}
}

func TestPairIsSet(t *testing.T) {
	s := newSession()
	l, err := Load(s)
	require.NoError(t, err)

	a, b := l.A, l.B
	literal := mathup.All(a, b, mathup.Imply(mathup.And(Set(a), Set(b)), Set(Pair(a, b))))
	got, err := s.Lookup(mathup.Name("pair_is_set"))
	require.NoError(t, err)
	assert.Equal(t, literal.Fingerprint(), got.Fingerprint())
	assert.True(t, mathup.Equal(literal, got))

	// cite it later with other variables
	u, v := s.NewVariable(), s.NewVariable()
	_, err = s.Assume(mathup.And(Set(u), Set(v)), func(assumption *mathup.Node) error {
		step, err := s.Put(mathup.All(b, mathup.Imply(mathup.And(Set(u), Set(b)), Set(Pair(u, b)))), u, "pair_is_set")
		if err != nil {
			return err
		}
		step, err = s.Put(mathup.Imply(mathup.And(Set(u), Set(v)), Set(Pair(u, v))), v, step)
		if err != nil {
			return err
		}
		_, err = s.Tautology(Set(Pair(u, v)), step, assumption)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, s.Err())
}

func TestByTheorem(t *testing.T) {
	s := newSession()
	_, err := Load(s)
	require.NoError(t, err)

	u, v := s.NewVariable(), s.NewVariable()
	_, err = s.Assume(mathup.And(Set(u), Set(v)), func(assumption *mathup.Node) error {
		pair, err := s.Apply(Set(Pair(u, v)), mathup.Name("uv"), RuleByTheorem, "pair_is_set", assumption)
		if err != nil {
			return err
		}
		_, err = s.Apply(Set(Pair(Pair(u, v), u)), mathup.Slot(0), RuleByTheorem, "pair_is_set", pair, assumption)
		return err
	})
	require.NoError(t, err)

	// the conclusion does not match
	_, err = s.Apply(Set(u), mathup.Slot(1), RuleByTheorem, "pair_is_set")
	assert.ErrorIs(t, err, mathup.ErrRuleMismatch)
}

func TestByTheoremNeedsTheAssumption(t *testing.T) {
	s := newSession()
	_, err := Load(s)
	require.NoError(t, err)
	u, v := s.NewVariable(), s.NewVariable()
	_, err = s.Assume(Set(u), func(assumption *mathup.Node) error {
		_, err := s.Prove(Set(Pair(u, v)), RuleByTheorem, "pair_is_set", assumption)
		return err
	})
	assert.ErrorIs(t, err, mathup.ErrNotEntailed)
}

func TestLoadTwiceCollides(t *testing.T) {
	s := newSession()
	_, err := Load(s)
	require.NoError(t, err)
	_, err = Load(s)
	assert.ErrorIs(t, err, mathup.ErrNameCollision)
}

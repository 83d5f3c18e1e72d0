package mathup

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkBalanced(t *testing.T, n *varset) int {
	t.Helper()
	if n == nil {
		return 0
	}
	l, r := checkBalanced(t, n.left), checkBalanced(t, n.right)
	require.LessOrEqual(t, max(l-r, r-l), 1, "unbalanced at %d", n.key)
	require.Equal(t, max(l, r)+1, n.height)
	require.Equal(t, n.left.len()+n.right.len()+1, n.size)
	return n.height
}

func TestVarsetInsertRemove(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var set *varset
	want := map[uint64]struct{}{}
	for i := 0; i < 500; i++ {
		k := uint64(rng.Intn(200))
		if rng.Intn(3) == 0 {
			set = set.remove(k)
			delete(want, k)
		} else {
			set = set.insert(k)
			want[k] = struct{}{}
		}
		checkBalanced(t, set)
	}
	keys := make([]uint64, 0, len(want))
	for k := range want {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	assert.Equal(t, keys, set.slice())
	for k := uint64(0); k < 200; k++ {
		_, ok := want[k]
		assert.Equal(t, ok, set.contains(k), "key %d", k)
	}
}

func TestVarsetPersistence(t *testing.T) {
	var base *varset
	for k := uint64(1); k <= 32; k++ {
		base = base.insert(k)
	}
	before := base.slice()

	grown := base.insert(100)
	shrunk := base.remove(16)
	for k := uint64(1); k <= 10; k++ {
		shrunk = shrunk.remove(k)
	}

	assert.Equal(t, before, base.slice())
	assert.True(t, grown.contains(100))
	assert.False(t, base.contains(100))
	assert.False(t, shrunk.contains(16))
	assert.True(t, base.contains(16))
	assert.Equal(t, 21, shrunk.len())
	checkBalanced(t, base)
	checkBalanced(t, shrunk)
}

func TestVarsetNoopUpdatesShare(t *testing.T) {
	set := (*varset)(nil).insert(1).insert(2).insert(3)
	assert.Same(t, set, set.insert(2))
	assert.Same(t, set, set.remove(9))
}

func TestVarsetUnion(t *testing.T) {
	a := (*varset)(nil).insert(1).insert(3).insert(5)
	b := (*varset)(nil).insert(2).insert(3)
	u := a.union(b)
	assert.Equal(t, []uint64{1, 2, 3, 5}, u.slice())
	assert.Equal(t, []uint64{1, 3, 5}, a.slice())
	assert.Equal(t, []uint64{2, 3}, b.slice())
	assert.Same(t, a, a.union(nil))
}

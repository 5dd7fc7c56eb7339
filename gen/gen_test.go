package gen_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/emswap/core"
	"github.com/katalvlaran/emswap/gen"
)

// TestPowerlawSequenceShape checks bounds, monotonicity, and parity.
func TestPowerlawSequenceShape(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seq, err := gen.PowerlawSequence(1, 20, -2.0, 500, rng)
	require.NoError(t, err)
	require.Len(t, seq, 500)

	var sum int64
	for i, d := range seq {
		require.GreaterOrEqual(t, d, int64(1))
		require.LessOrEqual(t, d, int64(20))
		if i > 0 {
			require.LessOrEqual(t, d, seq[i-1], "sequence must be monotonic")
		}
		sum += d
	}
	require.Zero(t, sum%2, "handshake sum must be even")
}

// TestPowerlawSequenceValidation exercises the sentinel errors.
func TestPowerlawSequenceValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := gen.PowerlawSequence(0, 20, -2.0, 10, rng)
	require.True(t, errors.Is(err, gen.ErrBadParameter))
	_, err = gen.PowerlawSequence(1, 20, 2.0, 10, rng)
	require.True(t, errors.Is(err, gen.ErrBadParameter))
	_, err = gen.PowerlawSequence(1, 20, -2.0, 10, nil)
	require.True(t, errors.Is(err, gen.ErrNeedRand))
}

// TestHavelHakimiRealises checks a hand-checkable graphical sequence.
func TestHavelHakimiRealises(t *testing.T) {
	edges, err := gen.HavelHakimi([]int64{3, 2, 2, 2, 1})
	require.NoError(t, err)

	deg := map[core.Node]int64{}
	for i, e := range edges {
		require.True(t, e.IsCanonical())
		require.False(t, e.IsLoop())
		if i > 0 {
			require.False(t, e.Less(edges[i-1]), "edge list must be sorted")
		}
		deg[e.U]++
		deg[e.V]++
	}
	// The sequence 3,2,2,2,1 is graphical; every degree must be realised.
	require.Equal(t, int64(3), deg[0])
	require.Equal(t, int64(2), deg[1])
	require.Equal(t, int64(2), deg[2])
	require.Equal(t, int64(2), deg[3])
	require.Equal(t, int64(1), deg[4])
}

// TestRandomSwapsDistinctIds verifies the two positions never coincide.
func TestRandomSwapsDistinctIds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	swaps, err := gen.RandomSwaps(50, 2000, rng)
	require.NoError(t, err)
	require.Len(t, swaps, 2000)
	for _, sw := range swaps {
		require.NotEqual(t, sw.A, sw.B)
		require.GreaterOrEqual(t, int64(sw.A), int64(0))
		require.Less(t, int64(sw.A), int64(50))
		require.Less(t, int64(sw.B), int64(50))
	}
}

// TestRandomMultigraphSorted verifies canonical sorted output.
func TestRandomMultigraphSorted(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	edges, err := gen.RandomMultigraph(10, 300, rng)
	require.NoError(t, err)
	require.Len(t, edges, 300)
	for i, e := range edges {
		require.True(t, e.IsCanonical())
		if i > 0 {
			require.False(t, e.Less(edges[i-1]))
		}
	}
}

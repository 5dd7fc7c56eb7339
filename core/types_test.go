package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/emswap/core"
)

// TestNewEdgeCanonicalises verifies endpoint ordering of the constructor.
func TestNewEdgeCanonicalises(t *testing.T) {
	require.Equal(t, core.Edge{U: 1, V: 4}, core.NewEdge(4, 1))
	require.Equal(t, core.Edge{U: 1, V: 4}, core.NewEdge(1, 4))
	require.Equal(t, core.Edge{U: 3, V: 3}, core.NewEdge(3, 3))
	require.True(t, core.NewEdge(7, 2).IsCanonical())
}

// TestEdgeOrdering verifies lexicographic comparison including the sentinel.
func TestEdgeOrdering(t *testing.T) {
	require.True(t, core.NewEdge(1, 2).Less(core.NewEdge(1, 3)))
	require.True(t, core.NewEdge(1, 9).Less(core.NewEdge(2, 0)))
	require.False(t, core.NewEdge(2, 2).Less(core.NewEdge(2, 2)))
	// The invalid sentinel sorts before every canonical edge over
	// non-negative node ids.
	require.True(t, core.InvalidEdge.Less(core.NewEdge(0, 0)))
	require.True(t, core.InvalidEdge.IsInvalid())
	require.False(t, core.NewEdge(0, 0).IsInvalid())
}

// TestSwapEdgesDirections verifies both pairings of the switch.
func TestSwapEdgesDirections(t *testing.T) {
	a, b := core.NewEdge(1, 3), core.NewEdge(2, 4)

	// direction=false keeps the first endpoints together: (1,2) and (3,4).
	e0, e1 := core.SwapEdges(a, b, false)
	require.Equal(t, core.NewEdge(1, 2), e0)
	require.Equal(t, core.NewEdge(3, 4), e1)

	// direction=true crosses them: (1,4) and (3,2) → canonical (2,3).
	e0, e1 = core.SwapEdges(a, b, true)
	require.Equal(t, core.NewEdge(1, 4), e0)
	require.Equal(t, core.NewEdge(2, 3), e1)
}

// TestSwapEdgesLoop verifies that shared endpoints can yield self-loops.
func TestSwapEdgesLoop(t *testing.T) {
	e0, e1 := core.SwapEdges(core.NewEdge(1, 2), core.NewEdge(1, 3), false)
	require.True(t, e0.IsLoop(), "pairing the shared endpoint must loop")
	require.Equal(t, core.NewEdge(2, 3), e1)
}

// TestSwapResultNormalize verifies the deterministic debug ordering.
func TestSwapResultNormalize(t *testing.T) {
	r := core.SwapResult{Edges: [2]core.Edge{core.NewEdge(5, 6), core.NewEdge(1, 2)}}
	r.Normalize()
	require.Equal(t, core.NewEdge(1, 2), r.Edges[0])
	require.Equal(t, core.NewEdge(5, 6), r.Edges[1])
}

package edgeswap_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/emswap/core"
	"github.com/katalvlaran/emswap/edgeswap"
	"github.com/katalvlaran/emswap/gen"
	"github.com/katalvlaran/emswap/stream"
)

// SwapperSuite exercises the TFP engine against the literal scenarios and
// the serial reference.
type SwapperSuite struct {
	suite.Suite
}

func TestSwapperSuite(t *testing.T) {
	suite.Run(t, new(SwapperSuite))
}

// e is shorthand for a canonical edge literal.
func e(u, v core.Node) core.Edge { return core.NewEdge(u, v) }

// smallConfig keeps the literal scenarios single-batch and fully resident.
func smallConfig(threads int) edgeswap.Config {
	cfg := edgeswap.DefaultConfig()
	cfg.NumThreads = threads
	cfg.BatchSizePerThread = 64
	cfg.SorterMem = 1 << 16
	cfg.PQMem = 1 << 16
	cfg.PQPoolMem = 1 << 16

	return cfg
}

// runEngine pushes edges through a fresh Swapper and returns the rewritten
// sequence plus the debug vector.
func (s *SwapperSuite) runEngine(edges []core.Edge, swaps []core.Swap, cfg edgeswap.Config) ([]core.Edge, []core.SwapResult) {
	es := stream.FromEdges(edges)
	sw, err := edgeswap.New(es, cfg)
	require.NoError(s.T(), err)
	require.NoError(s.T(), sw.Run(swaps))

	return es.Edges(), sw.Results()
}

// TestNoConflicts is the first literal scenario: three swaps (the first two
// share position 1), one vetoed by a loop, one by an existing edge.
func (s *SwapperSuite) TestNoConflicts() {
	edges := []core.Edge{e(1, 3), e(2, 4), e(2, 4), e(3, 3), e(3, 6), e(5, 6)}
	swaps := []core.Swap{{A: 0, B: 1, Direction: true}, {A: 1, B: 2, Direction: false}, {A: 3, B: 5, Direction: true}}
	want := []core.Edge{e(1, 4), e(2, 3), e(2, 4), e(3, 3), e(3, 6), e(5, 6)}

	for _, threads := range []int{1, 2, 4} {
		got, results := s.runEngine(edges, swaps, smallConfig(threads))
		require.Equal(s.T(), want, got, "threads=%d", threads)

		require.Len(s.T(), results, 3)
		require.True(s.T(), results[0].Performed)
		require.False(s.T(), results[1].Performed)
		require.True(s.T(), results[1].Loop, "swap 1 pairs the shared vertex 2 with itself")
		require.False(s.T(), results[2].Performed)
		require.True(s.T(), results[2].ConflictDetected[0] || results[2].ConflictDetected[1],
			"swap 2 would duplicate (3,6)")
	}
}

// TestDependencyChain is the second literal scenario: four swaps chained
// through the three parallel (1,2) edges.
func (s *SwapperSuite) TestDependencyChain() {
	edges := []core.Edge{e(1, 2), e(1, 2), e(1, 2), e(1, 9), e(2, 10), e(3, 4), e(5, 6), e(7, 8)}
	swaps := []core.Swap{
		{A: 0, B: 5, Direction: false},
		{A: 1, B: 6, Direction: false},
		{A: 2, B: 7, Direction: false},
		{A: 3, B: 4, Direction: false},
	}
	want := []core.Edge{e(1, 2), e(1, 3), e(1, 5), e(1, 7), e(2, 4), e(2, 6), e(2, 8), e(9, 10)}

	for _, threads := range []int{1, 2, 4} {
		got, results := s.runEngine(edges, swaps, smallConfig(threads))
		require.Equal(s.T(), want, got, "threads=%d", threads)
		// The last swap recreates (1,2) legally: the three original copies
		// were all consumed by the earlier swaps in the chain.
		for i := 0; i < 4; i++ {
			require.True(s.T(), results[i].Performed, "swap %d", i)
		}
	}
}

// TestConflictDetected is the third literal scenario.
func (s *SwapperSuite) TestConflictDetected() {
	edges := []core.Edge{e(1, 2), e(1, 2), e(1, 2), e(1, 3), e(2, 4), e(5, 6)}
	swaps := []core.Swap{{A: 0, B: 5, Direction: true}, {A: 3, B: 4, Direction: false}}
	want := []core.Edge{e(1, 2), e(1, 2), e(1, 3), e(1, 6), e(2, 4), e(2, 5)}

	for _, threads := range []int{1, 2} {
		got, results := s.runEngine(edges, swaps, smallConfig(threads))
		require.Equal(s.T(), want, got, "threads=%d", threads)
		require.True(s.T(), results[0].Performed)
		require.False(s.T(), results[1].Performed, "swap 1 would duplicate (1,2)")
		require.False(s.T(), results[1].Loop)
	}
}

// TestLoopDetected verifies the loop veto and its debug record.
func (s *SwapperSuite) TestLoopDetected() {
	edges := []core.Edge{e(1, 2), e(1, 3)}
	swaps := []core.Swap{{A: 0, B: 1, Direction: false}} // pairs (1,1) with (2,3)

	got, results := s.runEngine(edges, swaps, smallConfig(1))
	require.Equal(s.T(), edges, got, "a vetoed swap must leave the sequence unchanged")
	require.Len(s.T(), results, 1)
	require.False(s.T(), results[0].Performed)
	require.True(s.T(), results[0].Loop)
	require.Equal(s.T(), [2]core.Edge{e(1, 1), e(2, 3)}, results[0].Edges)
}

// TestTinyBatches drives the chain scenario through one-swap batch windows,
// so the existence counts of (1,2) travel from swap 1 to swap 2 through the
// cross-batch queue.
func (s *SwapperSuite) TestTinyBatches() {
	edges := []core.Edge{e(1, 2), e(1, 2), e(1, 2), e(1, 9), e(2, 10), e(3, 4), e(5, 6), e(7, 8)}
	swaps := []core.Swap{
		{A: 0, B: 5, Direction: false},
		{A: 1, B: 6, Direction: false},
		{A: 2, B: 7, Direction: false},
		{A: 3, B: 4, Direction: false},
	}
	want := []core.Edge{e(1, 2), e(1, 3), e(1, 5), e(1, 7), e(2, 4), e(2, 6), e(2, 8), e(9, 10)}

	cfg := smallConfig(2)
	cfg.BatchSizePerThread = 1
	cfg.SorterMem = 1 << 10 // smallest budget the config accepts
	got, _ := s.runEngine(edges, swaps, cfg)
	require.Equal(s.T(), want, got)
}

// TestMultiIteration reloads edge ids between iterations: ids address the
// sequence as rewritten by the previous iteration.
func (s *SwapperSuite) TestMultiIteration() {
	edges := []core.Edge{e(1, 3), e(2, 4), e(2, 4), e(3, 3), e(3, 6), e(5, 6)}
	swaps := []core.Swap{{A: 0, B: 1, Direction: true}, {A: 1, B: 2, Direction: false}, {A: 3, B: 5, Direction: true}}

	cfg := smallConfig(2)
	cfg.SwapsPerIteration = 1
	got, results := s.runEngine(edges, swaps, cfg)

	// The serial reference applied run by run is the oracle.
	ref := edgeswap.NewSerialSwapper(edges)
	for _, sw := range swaps {
		require.NoError(s.T(), ref.Run([]core.Swap{sw}))
	}
	require.Equal(s.T(), ref.Edges(), got)
	require.Equal(s.T(), ref.Results(), results)
}

// TestDeterminism reruns an identical workload and expects byte-identical
// output and debug vector.
func (s *SwapperSuite) TestDeterminism() {
	rng := rand.New(rand.NewSource(11))
	edges, err := gen.RandomMultigraph(30, 400, rng)
	require.NoError(s.T(), err)
	swaps, err := gen.RandomSwaps(400, 600, rng)
	require.NoError(s.T(), err)

	cfg := smallConfig(4)
	cfg.BatchSizePerThread = 16
	first, firstResults := s.runEngine(edges, swaps, cfg)
	second, secondResults := s.runEngine(edges, swaps, cfg)
	require.Equal(s.T(), first, second)
	require.Equal(s.T(), firstResults, secondResults)
}

// TestConfigValidation exercises ErrBadConfig paths.
func (s *SwapperSuite) TestConfigValidation() {
	es := stream.FromEdges([]core.Edge{e(1, 2), e(3, 4)})

	cfg := edgeswap.DefaultConfig()
	cfg.NumThreads = 0
	_, err := edgeswap.New(es, cfg)
	require.True(s.T(), errors.Is(err, edgeswap.ErrBadConfig))

	cfg = edgeswap.DefaultConfig()
	cfg.SorterMem = 16
	_, err = edgeswap.New(es, cfg)
	require.True(s.T(), errors.Is(err, edgeswap.ErrBadConfig))

	cfg = edgeswap.DefaultConfig()
	cfg.AsyncBuffers = 2
	_, err = edgeswap.New(es, cfg)
	require.True(s.T(), errors.Is(err, edgeswap.ErrBadConfig))
}

// TestInputValidation exercises ErrBadSwap and ErrNotCanonical paths.
func (s *SwapperSuite) TestInputValidation() {
	edges := []core.Edge{e(1, 2), e(3, 4)}

	sw, err := edgeswap.New(stream.FromEdges(edges), smallConfig(1))
	require.NoError(s.T(), err)
	err = sw.Run([]core.Swap{{A: 0, B: 7}})
	require.True(s.T(), errors.Is(err, edgeswap.ErrBadSwap), "edge id out of range")

	sw, err = edgeswap.New(stream.FromEdges(edges), smallConfig(1))
	require.NoError(s.T(), err)
	err = sw.Run([]core.Swap{{A: 1, B: 1}})
	require.True(s.T(), errors.Is(err, edgeswap.ErrBadSwap), "swap must pair distinct positions")

	// Unsorted input surfaces during the first scan.
	sw, err = edgeswap.New(stream.FromEdges([]core.Edge{e(3, 4), e(1, 2)}), smallConfig(1))
	require.NoError(s.T(), err)
	err = sw.Run([]core.Swap{{A: 0, B: 1}})
	require.True(s.T(), errors.Is(err, core.ErrNotCanonical))
}

// degreesOf tallies endpoint multiplicities.
func degreesOf(edges []core.Edge) map[core.Node]int {
	deg := make(map[core.Node]int)
	for _, e := range edges {
		deg[e.U]++
		deg[e.V]++
	}

	return deg
}

// TestRandomEquivalence replays random workloads on the engine and the
// serial reference and expects identical sequences and debug vectors, plus
// the degree and edge-count invariants.
func (s *SwapperSuite) TestRandomEquivalence() {
	rng := rand.New(rand.NewSource(20260806))

	cases := 500
	if testing.Short() {
		cases = 60
	}

	for c := 0; c < cases; c++ {
		var (
			n int64
			m int
			k int
		)
		switch {
		case c < cases*4/5: // small, shape-heavy
			n, m, k = 2+rng.Int63n(12), 2+rng.Intn(40), 1+rng.Intn(60)
		case c < cases-2: // medium
			n, m, k = 5+rng.Int63n(60), 100+rng.Intn(1500), 50+rng.Intn(1500)
		default: // the occasional full-size input
			n, m, k = 200, 10_000, 10_000
		}

		var edges []core.Edge
		var err error
		if rng.Intn(2) == 0 {
			edges, err = gen.RandomMultigraph(core.Node(n), m, rng)
		} else {
			var seq []int64
			seq, err = gen.PowerlawSequence(1, 8, -2.0, int(n), rng)
			require.NoError(s.T(), err)
			edges, err = gen.HavelHakimi(seq)
			if err == nil && len(edges) < 2 {
				edges, err = gen.RandomMultigraph(core.Node(n), m, rng)
			}
		}
		require.NoError(s.T(), err)

		swaps, err := gen.RandomSwaps(int64(len(edges)), k, rng)
		require.NoError(s.T(), err)

		cfg := edgeswap.DefaultConfig()
		cfg.NumThreads = []int{1, 2, 4}[rng.Intn(3)]
		cfg.BatchSizePerThread = []int{1, 2, 7, 64, 1 << 12}[rng.Intn(5)]
		cfg.SorterMem = []int64{1 << 10, 1 << 14, 1 << 22}[rng.Intn(3)]
		cfg.PQMem = cfg.SorterMem
		cfg.PQPoolMem = cfg.SorterMem
		per := 0
		if rng.Intn(3) == 0 {
			per = 1 + rng.Intn(len(swaps))
		}
		cfg.SwapsPerIteration = per

		got, results := s.runEngine(edges, swaps, cfg)

		ref := edgeswap.NewSerialSwapper(edges)
		if per == 0 {
			per = len(swaps)
		}
		for start := 0; start < len(swaps); start += per {
			end := start + per
			if end > len(swaps) {
				end = len(swaps)
			}
			require.NoError(s.T(), ref.Run(swaps[start:end]))
		}

		require.Equal(s.T(), ref.Edges(), got, "case %d: sequence diverged (n=%d m=%d k=%d cfg=%+v)", c, n, len(edges), k, cfg)
		require.Equal(s.T(), ref.Results(), results, "case %d: debug vector diverged", c)

		// Structural invariants.
		require.Len(s.T(), got, len(edges), "edge count must be preserved")
		require.Equal(s.T(), degreesOf(edges), degreesOf(got), "degrees must be preserved")
		for i, ge := range got {
			require.True(s.T(), ge.IsCanonical())
			if i > 0 {
				require.False(s.T(), ge.Less(got[i-1]), "output must stay sorted")
			}
		}
	}
}

package edgeswap

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/emswap/core"
)

// SerialSwapper is the fully-internal reference implementation: it applies a
// swap script strictly one swap at a time against an in-memory multiset of
// edges. Slow and memory-hungry, but obviously correct; the engine is
// tested for byte-equality against it on every input small enough for both.
//
// Semantics match the engine exactly, including the rewrite at the end of a
// run: the sequence is re-sorted lexicographically, which is what merging
// the kept edges with the sorted update stream produces.
type SerialSwapper struct {
	edges   []core.Edge
	count   map[core.Edge]int
	results []core.SwapResult
}

// NewSerialSwapper copies the sequence and indexes its edge multiset.
func NewSerialSwapper(edges []core.Edge) *SerialSwapper {
	s := &SerialSwapper{
		edges: append([]core.Edge(nil), edges...),
		count: make(map[core.Edge]int, len(edges)),
	}
	for _, e := range s.edges {
		s.count[e]++
	}

	return s
}

// Run applies one run of swaps. Edge ids index the sequence as it stands on
// entry; the sequence is re-sorted on exit, exactly like the engine's
// update merge.
func (s *SerialSwapper) Run(swaps []core.Swap) error {
	m := core.EdgeID(len(s.edges))

	for i, sw := range swaps {
		if sw.A < 0 || sw.A >= m || sw.B < 0 || sw.B >= m {
			return fmt.Errorf("%w: swap %d references edge %d/%d of %d", ErrBadSwap, i, sw.A, sw.B, m)
		}
		if sw.A == sw.B {
			return fmt.Errorf("%w: swap %d pairs edge %d with itself", ErrBadSwap, i, sw.A)
		}

		a, b := s.edges[sw.A], s.edges[sw.B]
		n0, n1 := core.SwapEdges(a, b, sw.Direction)

		loop := n0.IsLoop() || n1.IsLoop()
		// A candidate colliding with any present edge vetoes the swap;
		// the swap's own sources count as present.
		conflict := [2]bool{s.count[n0] > 0, s.count[n1] > 0}
		perform := !(loop || conflict[0] || conflict[1])

		res := core.SwapResult{Performed: perform, Loop: loop, ConflictDetected: conflict, Edges: [2]core.Edge{n0, n1}}
		res.Normalize()
		s.results = append(s.results, res)

		if !perform {
			continue
		}
		s.remove(a)
		s.remove(b)
		s.count[n0]++
		s.count[n1]++
		s.edges[sw.A] = n0
		s.edges[sw.B] = n1
	}

	sort.Slice(s.edges, func(i, j int) bool { return s.edges[i].Less(s.edges[j]) })

	return nil
}

// remove drops one occurrence of e from the multiset.
func (s *SerialSwapper) remove(e core.Edge) {
	if s.count[e] <= 1 {
		delete(s.count, e)

		return
	}
	s.count[e]--
}

// Edges returns the current sequence.
func (s *SerialSwapper) Edges() []core.Edge { return s.edges }

// Results returns the debug vector accumulated so far, in script order.
func (s *SerialSwapper) Results() []core.SwapResult { return s.results }

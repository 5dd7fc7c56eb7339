package edgeswap

import (
	"fmt"

	"github.com/katalvlaran/emswap/core"
	"github.com/katalvlaran/emswap/extsort"
	"github.com/katalvlaran/emswap/stream"
)

// loadAndUpdateEdges streams the edge sequence once, doing three things in
// the same pass:
//
//  1. apply the previous run's updates (if any): kept edges and the sorted
//     update stream merge into the next sequence, written back in place;
//  2. serve the sorted load requests: the first request per edge position
//     receives the position's edge as its initial configuration, every
//     further request on the same position becomes a successor link from
//     its predecessor;
//  3. build the validity mask for the next run: a position is invalid in
//     the next sequence iff at least one request matched it (its final
//     state will arrive through the update stream).
//
// The pass also verifies the input contract: every edge canonical, the
// sequence lexicographically non-decreasing.
func (s *Swapper) loadAndUpdateEdges(deps []*extsort.Sorter[depChainSuccMsg]) error {
	s.loadRequests.Sort()
	if err := s.loadRequests.Err(); err != nil {
		return err
	}
	loaded := !s.loadRequests.Empty()
	threads := uint64(s.cfg.NumThreads)

	nextValid := stream.NewBoolStream()
	var (
		id   int64
		prev core.Edge
	)

	useEdge := func(e core.Edge) error {
		if !e.IsCanonical() || (id > 0 && e.Less(prev)) {
			return fmt.Errorf("edgeswap: position %d: %w", id, core.ErrNotCanonical)
		}
		prev = e

		matched := false
		if !s.loadRequests.Empty() && s.loadRequests.Peek().eid == id {
			matched = true
			last := s.loadRequests.Peek().ssid
			s.loadRequests.Next()
			s.edgeState.PushSorter(depChainEdgeMsg{ssid: last, edge: e})

			// Chain every further reference of this position to its
			// predecessor; the link is stored with the predecessor's worker.
			for !s.loadRequests.Empty() && s.loadRequests.Peek().eid == id {
				cur := s.loadRequests.Peek().ssid
				s.loadRequests.Next()
				deps[int(last.swap()%threads)].Push(depChainSuccMsg{ssid: last, successor: cur})
				last = cur
			}
		}
		nextValid.Push(!matched)
		id++

		return nil
	}

	if !s.needsWriteback {
		for !s.edges.Empty() {
			if err := useEdge(s.edges.Peek()); err != nil {
				return err
			}
			s.edges.Next()
		}
		s.edges.Rewind()
	} else {
		// Merge the kept edges with the sorted updates of the previous run,
		// writing the next sequence back while scanning it.
		upd := s.updates
		var (
			keptFront core.Edge
			keptHas   bool
		)
		fetchKept := func() {
			keptHas = false
			for !s.edges.Empty() {
				valid := s.validEdges.Take()
				e := s.edges.Peek()
				s.edges.Next()
				if valid {
					keptFront, keptHas = e, true

					return
				}
			}
		}
		fetchKept()

		for keptHas || !upd.Empty() {
			var e core.Edge
			switch {
			case !keptHas:
				e = upd.Peek()
				upd.Next()
			case upd.Empty() || !upd.Peek().Less(keptFront):
				e = keptFront
				fetchKept()
			default:
				e = upd.Peek()
				upd.Next()
			}
			s.edges.Push(e)
			if err := useEdge(e); err != nil {
				return err
			}
		}
		if err := upd.Err(); err != nil {
			return err
		}
		upd.Close()
		s.updates = nil
		s.edges.Consume()
	}

	s.needsWriteback = loaded
	s.validEdges = nextValid
	s.validEdges.Consume()

	if s.numSwapsInRun > 0 {
		s.edgeState.FinishSorterInput()
		if err := s.edgeState.Err(); err != nil {
			return err
		}
		for tid := range deps {
			deps[tid].Sort()
			if err := deps[tid].Err(); err != nil {
				return err
			}
		}
		s.loadRequests.Clear()
	}

	return nil
}

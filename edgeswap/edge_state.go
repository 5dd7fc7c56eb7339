package edgeswap

import (
	"runtime"
	"sync/atomic"

	"github.com/katalvlaran/emswap/core"
)

// edgeSlot holds the source configurations of one swap inside a batch
// window: per side, a primary edge plus an optional run of additional
// candidates living in an edgeArena. Readiness is published through isSet
// with release semantics; consumers spin-yield on it, so a predecessor swap
// finishing on another worker hands its state over without locks.
//
// The extras run is sorted and deduplicated by construction: producers emit
// it through the ordered merge in the conflict phase.
type edgeSlot struct {
	isSet  [2]atomic.Bool
	edge   [2]core.Edge
	extras [2][]core.Edge
}

// reset clears one side for the next batch. Only the position cursors of the
// backing arena are rewound elsewhere; the slice contents stay readable for
// any late consumer of the previous batch.
func (s *edgeSlot) reset(side uint8) {
	s.isSet[side].Store(false)
	s.edge[side] = core.InvalidEdge
	s.extras[side] = nil
}

// wait blocks until the side's configuration has been published.
func (s *edgeSlot) wait(side uint8) {
	for !s.isSet[side].Load() {
		runtime.Gosched()
	}
}

// forEach visits the primary edge and every extra candidate of side.
func (s *edgeSlot) forEach(side uint8, f func(core.Edge)) {
	f(s.edge[side])
	for _, e := range s.extras[side] {
		f(e)
	}
}

// numEdges returns the configuration count of side.
func (s *edgeSlot) numEdges(side uint8) int { return 1 + len(s.extras[side]) }

// edgeArena is a per-worker append-only edge store backing the extras runs
// of edgeSlots. alloc hands out zero-length slices with fixed capacity;
// reset rewinds the cursors without touching memory, so slices handed out
// in the current batch stay valid until the next batch overwrites them.
type edgeArena struct {
	pages    [][]core.Edge
	page     int
	pos      int
	pageSize int
}

// newEdgeArena creates an arena with one page of the given size.
func newEdgeArena(pageSize int) *edgeArena {
	return &edgeArena{pages: [][]core.Edge{make([]core.Edge, pageSize)}, pageSize: pageSize}
}

// alloc reserves room for n edges and returns an empty slice over it.
func (a *edgeArena) alloc(n int) []core.Edge {
	if a.pos+n > len(a.pages[a.page]) {
		a.page++
		a.pos = 0
		if a.page >= len(a.pages) {
			size := a.pageSize
			if n > size {
				size = n
			}
			a.pages = append(a.pages, make([]core.Edge, size))
		} else if len(a.pages[a.page]) < n {
			a.pages[a.page] = make([]core.Edge, n)
		}
	}
	out := a.pages[a.page][a.pos:a.pos:a.pos+n]
	a.pos += n

	return out
}

// reset rewinds the cursors; existing allocations remain readable.
func (a *edgeArena) reset() {
	a.page = 0
	a.pos = 0
}

// sourceSlot holds the two settled source edges of one swap in the perform
// phase. Unlike edgeSlot there is exactly one edge per side: by perform
// time, every chain has collapsed to its final state.
type sourceSlot struct {
	set  [2]atomic.Bool
	edge [2]core.Edge
}

// reset clears both sides for the next batch.
func (s *sourceSlot) reset() {
	s.set[0].Store(false)
	s.set[1].Store(false)
	s.edge[0] = core.InvalidEdge
	s.edge[1] = core.InvalidEdge
}

// store publishes the final edge of one side.
func (s *sourceSlot) store(side uint8, e core.Edge) {
	s.edge[side] = e
	s.set[side].Store(true)
}

// wait blocks until side has been published.
func (s *sourceSlot) wait(side uint8) {
	for !s.set[side].Load() {
		runtime.Gosched()
	}
}

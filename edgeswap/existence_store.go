package edgeswap

import (
	"runtime"
	"sync/atomic"

	"github.com/katalvlaran/emswap/core"
)

// existenceStore collects "edge exists / edge missing" deliveries for the
// swaps of one worker's batch window, indexed by batch-local position. The
// expected delivery count per position is announced up front (from the
// placeholder channel), so a consumer can block until its information is
// complete without any per-message handshake.
//
// Writes may come from any goroutine: each delivery claims a distinct slot
// with a fetch-add and decrements the pending counter last, so a consumer
// that observes pending == 0 also observes every slot write that preceded
// the decrements.
type existenceStore struct {
	counts  []int32
	offsets []int32
	slots   []core.Edge
	filled  []atomic.Int32
	pending []atomic.Int32
}

// newExistenceStore sizes the store for n batch positions.
func newExistenceStore(n int) *existenceStore {
	return &existenceStore{
		counts:  make([]int32, n),
		offsets: make([]int32, n+1),
		filled:  make([]atomic.Int32, n),
		pending: make([]atomic.Int32, n),
	}
}

// startInitialization resets the expected counts for a new batch.
func (s *existenceStore) startInitialization() {
	for i := range s.counts {
		s.counts[i] = 0
	}
}

// addPossibleInfo announces that position pos will receive c deliveries.
func (s *existenceStore) addPossibleInfo(pos, c int) {
	s.counts[pos] = int32(c)
}

// finishInitialization lays out the slot ranges and arms the counters.
func (s *existenceStore) finishInitialization() {
	total := int32(0)
	for i, c := range s.counts {
		s.offsets[i] = total
		total += c
	}
	s.offsets[len(s.counts)] = total
	if int(total) > cap(s.slots) {
		s.slots = make([]core.Edge, total)
	} else {
		s.slots = s.slots[:total]
	}
	for i := range s.counts {
		s.filled[i].Store(0)
		s.pending[i].Store(s.counts[i])
	}
}

// pushExists delivers a present edge to position pos.
func (s *existenceStore) pushExists(pos int, e core.Edge) {
	idx := s.filled[pos].Add(1) - 1
	s.slots[s.offsets[pos]+idx] = e
	s.pending[pos].Add(-1)
}

// pushMissing delivers a "does not exist" outcome to position pos.
func (s *existenceStore) pushMissing(pos int) {
	s.pending[pos].Add(-1)
}

// waitForMissing blocks (cooperative yield) until every announced delivery
// for pos has arrived.
func (s *existenceStore) waitForMissing(pos int) {
	for s.pending[pos].Load() > 0 {
		runtime.Gosched()
	}
}

// countOf returns the number of copies of e delivered as present to pos.
// Multiplicities matter: the existence channel transports the multiset count
// of an edge value as repeated messages, so a swap consuming one of several
// parallel copies still leaves a positive count behind. Meaningful once
// waitForMissing returned; the slot range is a handful of entries, so a
// linear scan answers in effectively constant time.
func (s *existenceStore) countOf(pos int, e core.Edge) int {
	lo := s.offsets[pos]
	hi := lo + s.filled[pos].Load()
	n := 0
	for _, have := range s.slots[lo:hi] {
		if have == e {
			n++
		}
	}

	return n
}

// exists reports whether at least one copy of e reaches pos.
func (s *existenceStore) exists(pos int, e core.Edge) bool { return s.countOf(pos, e) > 0 }

package edgeswap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/emswap/core"
)

// TestExistenceStoreCounts verifies multiset counting and the placeholder
// barrier on a single goroutine.
func TestExistenceStoreCounts(t *testing.T) {
	st := newExistenceStore(4)
	st.startInitialization()
	st.addPossibleInfo(0, 3)
	st.addPossibleInfo(1, 0)
	st.addPossibleInfo(2, 2)
	st.finishInitialization()

	x := core.NewEdge(1, 2)
	st.pushExists(0, x)
	st.pushExists(0, x)
	st.pushMissing(0)
	st.waitForMissing(0)
	require.Equal(t, 2, st.countOf(0, x))
	require.True(t, st.exists(0, x))
	require.False(t, st.exists(0, core.NewEdge(9, 9)))

	st.waitForMissing(1)
	require.False(t, st.exists(1, x))

	st.pushMissing(2)
	st.pushMissing(2)
	st.waitForMissing(2)
	require.Equal(t, 0, st.countOf(2, x))
}

// TestExistenceStoreConcurrentWrites delivers into one position from many
// goroutines, the cross-thread pattern of the perform phase.
func TestExistenceStoreConcurrentWrites(t *testing.T) {
	const writers = 8
	const perWriter = 50

	st := newExistenceStore(2)
	st.startInitialization()
	st.addPossibleInfo(0, writers*perWriter)
	st.finishInitialization()

	x := core.NewEdge(3, 4)
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for k := 0; k < perWriter; k++ {
				if (w+k)%2 == 0 {
					st.pushExists(0, x)
				} else {
					st.pushMissing(0)
				}
			}
		}(w)
	}
	wg.Wait()

	st.waitForMissing(0)
	require.Equal(t, writers*perWriter/2, st.countOf(0, x))
}

// TestExistenceStoreReinitialisation reuses a store across batches.
func TestExistenceStoreReinitialisation(t *testing.T) {
	st := newExistenceStore(2)
	st.startInitialization()
	st.addPossibleInfo(0, 1)
	st.addPossibleInfo(1, 1)
	st.finishInitialization()
	st.pushExists(0, core.NewEdge(1, 1))
	st.pushMissing(1)

	// Second batch: counts reset, slots reused.
	st.startInitialization()
	st.addPossibleInfo(1, 2)
	st.finishInitialization()
	st.pushExists(1, core.NewEdge(2, 2))
	st.pushMissing(1)
	st.waitForMissing(0)
	st.waitForMissing(1)
	require.False(t, st.exists(0, core.NewEdge(1, 1)))
	require.Equal(t, 1, st.countOf(1, core.NewEdge(2, 2)))
}

// TestPackSwapSide round-trips the composite key.
func TestPackSwapSide(t *testing.T) {
	for _, sid := range []uint64{0, 1, 7, 1 << 40} {
		for side := uint8(0); side < 2; side++ {
			ss := packSwapSide(sid, side)
			require.Equal(t, sid, ss.swap())
			require.Equal(t, side, ss.side())
		}
	}
	require.Less(t, packSwapSide(3, 1), packSwapSide(4, 0), "ssid order follows swap order")
}

// TestExistenceRequestOrder pins the comparator: edge ascending, swap id
// descending, candidate before forward.
func TestExistenceRequestOrder(t *testing.T) {
	a := existenceRequestMsg{edge: core.NewEdge(1, 2), sid: 9, source: false}
	b := existenceRequestMsg{edge: core.NewEdge(1, 2), sid: 3, source: false}
	c := existenceRequestMsg{edge: core.NewEdge(1, 2), sid: 3, source: true}
	d := existenceRequestMsg{edge: core.NewEdge(1, 3), sid: 99, source: true}

	require.True(t, existenceRequestLess(a, b), "larger sid first within an edge")
	require.True(t, existenceRequestLess(b, c), "candidate precedes forward at equal sid")
	require.True(t, existenceRequestLess(c, d), "edge order dominates")
	require.False(t, existenceRequestLess(d, a))
}

package edgeswap

import (
	"sort"
	"sync"

	"github.com/katalvlaran/emswap/core"
	"github.com/katalvlaran/emswap/extsort"
)

// conflictMessagesPerSwap estimates how many existence requests one swap
// emits; four is the minimum (two candidates plus two sources), six leaves
// headroom for short chains. It only tunes how often the per-worker request
// buffers finalise a sorted run.
const conflictMessagesPerSwap = 6

// computeConflicts is the conflict phase: batches of swaps evaluated in
// strict ssid order across the workers. Each swap forms the cartesian
// product of its sides' possible configurations, turns every pair into the
// two swapped candidates, emits one existence request per distinct edge, and
// forwards the merged configuration set to the successor of each side:
// directly into the successor's batch slot when it lives in the current
// window, through the cross-batch queue otherwise.
//
// The returned merger streams every existence request sorted by
// (edge asc, sid desc, source).
func (s *Swapper) computeConflicts(deps []*extsort.Sorter[depChainSuccMsg]) (*extsort.Merger[existenceRequestMsg], error) {
	threads := s.cfg.NumThreads
	batch := s.batchSize()

	reqBufCap := int(s.cfg.SorterMem / int64(existenceRequestCodec{}.Size()) / 2)
	runsEvery := reqBufCap / (int(batch) * conflictMessagesPerSwap)
	if runsEvery < 1 {
		runsEvery = 1
	}

	creator := extsort.NewRunsCreator(existenceRequestLess, existenceRequestCodec{}, s.cfg.PQPoolMem)
	requestBufs := make([]*extsort.RunsCreatorBuffer[existenceRequestMsg], threads)
	edgeInfo := make([][]edgeSlot, threads)
	arenas := make([]*edgeArena, threads)
	for tid := 0; tid < threads; tid++ {
		requestBufs[tid] = extsort.NewRunsCreatorBuffer(creator, reqBufCap)
		edgeInfo[tid] = make([]edgeSlot, batch)
		arenas[tid] = newEdgeArena(int(batch))
	}

	loopLimit := s.numSwapsInRun
	if rem := loopLimit % uint64(threads); rem != 0 {
		loopLimit += uint64(threads) - rem
	}

	window := batch * uint64(threads)
	for base, batchNum := uint64(0), 0; base < loopLimit; base, batchNum = base+window, batchNum+1 {
		limit := base + window
		if limit > s.numSwapsInRun {
			limit = s.numSwapsInRun
		}

		// Hydration: drain every configuration below the window bound into
		// the batch slots. The first message per side is the primary edge,
		// the rest lands in the owner's arena.
		s.edgeState.StartBatch(depChainEdgeMsg{ssid: packSwapSide(limit, 0), edge: core.InvalidEdge})
		var extra []core.Edge
		for sid, pos := base, 0; sid < limit; pos++ {
			for tid := 0; tid < threads && sid < limit; tid, sid = tid+1, sid+1 {
				slot := &edgeInfo[tid][pos]
				for side := uint8(0); side < 2; side++ {
					slot.reset(side)
					ss := packSwapSide(sid, side)
					if !s.edgeState.Empty() && s.edgeState.Peek().ssid == ss {
						slot.edge[side] = s.edgeState.Peek().edge
						s.edgeState.Next()
						for !s.edgeState.Empty() && s.edgeState.Peek().ssid == ss {
							extra = append(extra, s.edgeState.Peek().edge)
							s.edgeState.Next()
						}
						if len(extra) > 0 {
							region := arenas[tid].alloc(len(extra))
							region = append(region, extra...)
							slot.extras[side] = region
							extra = extra[:0]
						}
						slot.isSet[side].Store(true)
					}
				}
			}
		}

		var wg sync.WaitGroup
		for tid := 0; tid < threads; tid++ {
			wg.Add(1)
			go func(tid int) {
				defer wg.Done()
				s.conflictWorker(tid, base, limit, loopLimit, batchNum, runsEvery,
					deps[tid], requestBufs[tid], arenas[tid], edgeInfo)
			}(tid)
		}
		wg.Wait()

		s.edgeState.EndBatch()
	}

	for tid := 0; tid < threads; tid++ {
		s.swapDirection[tid].Rewind()
		requestBufs[tid].Flush()
		deps[tid].Rewind()
	}
	s.edgeState.RewindSorter()
	if err := s.edgeState.Err(); err != nil {
		return nil, err
	}

	return creator.Finish()
}

// conflictWorker evaluates the swaps of one worker inside one batch window.
func (s *Swapper) conflictWorker(
	tid int,
	base, limit, loopLimit uint64,
	batchNum, runsEvery int,
	dep *extsort.Sorter[depChainSuccMsg],
	requestBuf *extsort.RunsCreatorBuffer[existenceRequestMsg],
	arena *edgeArena,
	edgeInfo [][]edgeSlot,
) {
	threads := uint64(s.cfg.NumThreads)
	batch := int(s.batchSize())
	myDir := s.swapDirection[tid]
	myInfo := edgeInfo[tid]
	var candidates [2][]core.Edge

	sid := base + uint64(tid)
	for i := 0; i < batch && sid < loopLimit; i, sid = i+1, sid+threads {
		if sid >= s.numSwapsInRun {
			continue
		}

		var successor [2]swapSideID
		direction := myDir.Take()
		slot := &myInfo[i]

		for side := uint8(0); side < 2; side++ {
			ss := packSwapSide(sid, side)
			if !dep.Empty() && dep.Peek().ssid == ss {
				successor[side] = dep.Peek().successor
				dep.Next()
			}
			// The hydrator or the predecessor swap publishes the
			// configuration; block until one of them has.
			slot.wait(side)
		}

		// Cartesian product of the two configuration sets: every pairing
		// contributes one candidate per side.
		candidates[0] = candidates[0][:0]
		candidates[1] = candidates[1][:0]
		slot.forEach(0, func(e1 core.Edge) {
			slot.forEach(1, func(e2 core.Edge) {
				n0, n1 := core.SwapEdges(e1, e2, direction)
				candidates[0] = append(candidates[0], n0)
				candidates[1] = append(candidates[1], n1)
			})
		})

		for side := uint8(0); side < 2; side++ {
			dd := candidates[side]
			if len(dd) > 1 {
				sort.Slice(dd, func(a, b int) bool { return dd[a].Less(dd[b]) })
			}

			var (
				hasInBatch bool
				hasOther   bool
				target     *edgeSlot
				targetSide uint8
				region     []core.Edge
				forwarded  int
			)
			if successor[side] != 0 {
				succSid := successor[side].swap()
				if succSid < limit {
					hasInBatch = true
					targetSide = successor[side].side()
					target = &edgeInfo[succSid%threads][(succSid-base)/threads]
					region = arena.alloc(slot.numEdges(side) + len(dd))
				} else {
					hasOther = true
				}
			}

			forward := func(e core.Edge, source bool) {
				requestBuf.Push(existenceRequestMsg{edge: e, sid: sid, source: source})
				if hasOther {
					s.edgeState.PushPQ(tid, depChainEdgeMsg{ssid: successor[side], edge: e})
				}
				if hasInBatch {
					if forwarded == 0 {
						target.edge[targetSide] = e
					} else {
						region = append(region, e)
					}
					forwarded++
				}
			}

			// Merge the sorted candidate set with the sorted source set:
			// candidates become requests needing an answer, sources are pure
			// forwards, except a source equal to a candidate, which must
			// only travel once, as a candidate.
			di := 0
			slot.forEach(side, func(e core.Edge) {
				last := core.InvalidEdge
				for di < len(dd) && !e.Less(dd[di]) {
					forward(dd[di], false)
					last = dd[di]
					for di < len(dd) && dd[di] == last {
						di++
					}
				}
				if e != last {
					forward(e, true)
				}
			})
			for di < len(dd) {
				forward(dd[di], false)
				last := dd[di]
				for di < len(dd) && dd[di] == last {
					di++
				}
			}

			if hasInBatch {
				if forwarded > 1 {
					target.extras[targetSide] = region
				} else {
					target.extras[targetSide] = nil
				}
				target.isSet[targetSide].Store(true)
			}
		}
	}

	// Cursor-only reset: slices handed to other workers stay readable until
	// the next batch starts.
	arena.reset()

	if batchNum%runsEvery == 0 || limit == s.numSwapsInRun {
		requestBuf.Finish()
	}
}

package edgeswap

import (
	"sync"

	"github.com/katalvlaran/emswap/core"
	"github.com/katalvlaran/emswap/extsort"
)

// performSwaps settles every swap in ssid order, batched like the conflict
// phase. Each swap waits for its two final source edges and for its exact
// existence-message budget, decides perform/veto, forwards the outcome edge
// of each side along the dependency chain, answers the existence chain, and
// emits an edge update for every side whose chain ends here. The sorted
// updates become the next run's merge input.
func (s *Swapper) performSwaps(
	deps []*extsort.Sorter[depChainSuccMsg],
	existSucc []*extsort.Sorter[existenceSuccMsg],
	placeholders []*extsort.Sorter[uint64],
) error {
	threads := s.cfg.NumThreads
	batch := s.batchSize()

	updBufCap := int(s.cfg.SorterMem / int64(edgeCodec{}.Size()) / 2)
	runsEvery := updBufCap / (int(batch) * 2)
	if runsEvery < 1 {
		runsEvery = 1
	}

	creator := extsort.NewRunsCreator(core.EdgeLess, edgeCodec{}, s.cfg.PQPoolMem)
	updateBufs := make([]*extsort.RunsCreatorBuffer[core.Edge], threads)
	sources := make([][]sourceSlot, threads)
	stores := make([]*existenceStore, threads)
	debugBufs := make([][]core.SwapResult, threads)
	tallies := make([]swapTally, threads)
	for tid := 0; tid < threads; tid++ {
		updateBufs[tid] = extsort.NewRunsCreatorBuffer(creator, updBufCap)
		sources[tid] = make([]sourceSlot, batch)
		stores[tid] = newExistenceStore(int(batch))
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

		// Arm the existence stores: one placeholder per future delivery.
		var initWG sync.WaitGroup
		for tid := 0; tid < threads; tid++ {
			initWG.Add(1)
			go func(tid int) {
				defer initWG.Done()
				st := stores[tid]
				ph := placeholders[tid]
				st.startInitialization()
				sid := base + uint64(tid)
				for i := 0; i < int(batch) && sid < s.numSwapsInRun; i, sid = i+1, sid+uint64(threads) {
					c := 0
					for !ph.Empty() && ph.Peek() == sid {
						c++
						ph.Next()
					}
					st.addPossibleInfo(i, c)
				}
				st.finishInitialization()
			}(tid)
		}
		initWG.Wait()

		// Hydration: settled source edges and already-known existence facts
		// below the window bound.
		s.edgeState.StartBatch(depChainEdgeMsg{ssid: packSwapSide(limit, 0), edge: core.InvalidEdge})
		s.existenceInfo.StartBatch(existenceInfoMsg{sid: limit, edge: core.InvalidEdge})
		for sid, pos := base, 0; sid < limit; pos++ {
			for tid := 0; tid < threads && sid < limit; tid, sid = tid+1, sid+1 {
				for !s.existenceInfo.Empty() && s.existenceInfo.Peek().sid == sid {
					msg := s.existenceInfo.Peek()
					s.existenceInfo.Next()
					if msg.edge.IsInvalid() {
						stores[tid].pushMissing(pos)
					} else {
						stores[tid].pushExists(pos, msg.edge)
					}
				}

				slot := &sources[tid][pos]
				slot.reset()
				for side := uint8(0); side < 2; side++ {
					ss := packSwapSide(sid, side)
					if !s.edgeState.Empty() && s.edgeState.Peek().ssid == ss {
						slot.store(side, s.edgeState.Peek().edge)
						s.edgeState.Next()
					}
				}
			}
		}

		var wg sync.WaitGroup
		for tid := 0; tid < threads; tid++ {
			wg.Add(1)
			go func(tid int) {
				defer wg.Done()
				s.performWorker(tid, base, limit, loopLimit, batchNum, runsEvery,
					deps[tid], existSucc[tid], updateBufs[tid], sources, stores,
					&debugBufs[tid], &tallies[tid])
			}(tid)
		}
		wg.Wait()

		s.edgeState.EndBatch()
		s.existenceInfo.EndBatch()

		// Re-interleave the per-worker debug buffers into script order.
		if s.debug {
			for i, sid := 0, base; i < int(batch) && sid < s.numSwapsInRun; i++ {
				for tid := 0; tid < threads && sid < s.numSwapsInRun; tid, sid = tid+1, sid+1 {
					s.results = append(s.results, debugBufs[tid][i])
				}
			}
			for tid := range debugBufs {
				debugBufs[tid] = debugBufs[tid][:0]
			}
		}
	}

	for tid := 0; tid < threads; tid++ {
		updateBufs[tid].Flush()
	}
	if err := s.edgeState.Err(); err != nil {
		return err
	}
	if err := s.existenceInfo.Err(); err != nil {
		return err
	}

	var total swapTally
	for tid := range tallies {
		total.add(tallies[tid])
	}
	s.met.observe(total)

	merger, err := creator.Finish()
	if err != nil {
		return err
	}
	s.updates = merger

	return nil
}

// performWorker settles the swaps of one worker inside one batch window.
func (s *Swapper) performWorker(
	tid int,
	base, limit, loopLimit uint64,
	batchNum, runsEvery int,
	dep *extsort.Sorter[depChainSuccMsg],
	succ *extsort.Sorter[existenceSuccMsg],
	updateBuf *extsort.RunsCreatorBuffer[core.Edge],
	sources [][]sourceSlot,
	stores []*existenceStore,
	debugBuf *[]core.SwapResult,
	tally *swapTally,
) {
	threads := uint64(s.cfg.NumThreads)
	batch := int(s.batchSize())
	myDir := s.swapDirection[tid]
	mySources := sources[tid]
	myStore := stores[tid]

	sid := base + uint64(tid)
	for i := 0; i < batch && sid < loopLimit; i, sid = i+1, sid+threads {
		if sid >= s.numSwapsInRun {
			continue
		}

		direction := myDir.Take()
		slot := &mySources[i]
		slot.wait(0)
		slot.wait(1)
		cur := [2]core.Edge{slot.edge[0], slot.edge[1]}

		n0, n1 := core.SwapEdges(cur[0], cur[1], direction)
		newEdges := [2]core.Edge{n0, n1}

		// Every announced existence message must have landed before the
		// conflict test is meaningful.
		myStore.waitForMissing(i)

		conflict := [2]bool{myStore.exists(i, newEdges[0]), myStore.exists(i, newEdges[1])}
		loop := newEdges[0].IsLoop() || newEdges[1].IsLoop()
		perform := !(conflict[0] || conflict[1] || loop)

		tally.processed++
		if perform {
			tally.performed++
		}
		if loop {
			tally.loops++
		}
		if conflict[0] {
			tally.conflicts++
		}
		if conflict[1] {
			tally.conflicts++
		}

		if s.debug {
			res := core.SwapResult{Performed: perform, Loop: loop, ConflictDetected: conflict, Edges: newEdges}
			res.Normalize()
			*debugBuf = append(*debugBuf, res)
		}

		if !perform {
			newEdges = cur
		}

		// Forward the outcome edge of each side to its chain successor;
		// a side with no successor retires its edge into the update stream.
		var successorFound [2]bool
		for !dep.Empty() && dep.Peek().ssid.swap() == sid {
			msg := dep.Peek()
			dep.Next()
			side := msg.ssid.side()
			successorFound[side] = true

			succSid := msg.successor.swap()
			if succSid < limit {
				sources[succSid%threads][(succSid-base)/threads].store(msg.successor.side(), newEdges[side])
			} else {
				s.edgeState.PushPQ(tid, depChainEdgeMsg{ssid: msg.successor, edge: newEdges[side]})
			}
		}
		for side := 0; side < 2; side++ {
			if !successorFound[side] {
				updateBuf.Push(newEdges[side])
			}
		}

		pushInfo := func(target uint64, e core.Edge) {
			if target < limit {
				pos := int((target - base) / threads)
				if e.IsInvalid() {
					stores[target%threads].pushMissing(pos)
				} else {
					stores[target%threads].pushExists(pos, e)
				}
			} else {
				s.existenceInfo.PushPQ(tid, existenceInfoMsg{sid: target, edge: e})
			}
		}

		// Answer the existence chain with the multiset count this swap
		// leaves behind: the count it received, plus a copy per output side
		// minting the value, minus a copy per source side consuming it (a
		// vetoed swap has newEdges == cur, so its delta vanishes). The count
		// travels as that many edge messages inside the link's fixed budget,
		// padded with invalid ones.
		for !succ.Empty() {
			m := succ.Peek()
			if m.sid > sid {
				break
			}
			succ.Next()

			count := myStore.countOf(i, m.edge)
			for side := 0; side < 2; side++ {
				if newEdges[side] == m.edge {
					count++
				}
				if cur[side] == m.edge {
					count--
				}
			}
			if count < 0 {
				count = 0
			}
			for c := uint64(0); c < m.budget; c++ {
				if c < uint64(count) {
					pushInfo(m.successor, m.edge)
				} else {
					pushInfo(m.successor, core.InvalidEdge)
				}
			}
		}
	}

	if batchNum%runsEvery == 0 || limit == s.numSwapsInRun {
		updateBuf.Finish()
	}
}

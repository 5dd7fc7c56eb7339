package edgeswap

import (
	"github.com/katalvlaran/emswap/core"
	"github.com/katalvlaran/emswap/extsort"
	"github.com/katalvlaran/emswap/stream"
)

// participant is one distinct swap inside a single edge value's request run.
// target records whether the swap asked about the edge as a candidate (it
// needs an answer) rather than as a pure source forward.
type participant struct {
	sid    uint64
	target bool
}

// processExistenceRequests merge-joins the sorted existence requests with the
// edge sequence. For every maximal run of requests on the same edge value it
// counts the value's multiplicity in the sequence, then walks the run from
// the latest requesting swap back to the earliest (the comparator's
// descending-sid order; the first request per swap dominates, so a candidate
// observation wins over a forward at the same swap).
//
// The deliveries set up a count-carrying chain along the run's participants,
// earliest to latest, ending at the last candidate observer:
//
//   - the earliest participant receives the multiplicity as that many
//     existence messages;
//   - every chain link tells its sender to forward the then-current count to
//     the next participant inside a fixed message budget (count of edge
//     messages, padded with invalid ones);
//   - budgets grow by two per candidate observer passed, since a performed
//     swap can mint at most two copies of one value.
//
// One placeholder is emitted per future message, so every receiver waits on
// an exact count. Transporting counts rather than a single bit is what keeps
// parallel copies of an edge honest: a swap that consumes one of three
// (1,2) edges must leave "two remain" behind for later swaps.
func (s *Swapper) processExistenceRequests(
	requests *extsort.Merger[existenceRequestMsg],
	existSucc []*extsort.Sorter[existenceSuccMsg],
	placeholders []*extsort.Sorter[uint64],
) error {
	threads := uint64(s.cfg.NumThreads)

	// Prefetch the edge scan; the join below alternates between bursts of
	// request handling and edge advancing.
	edges := stream.NewAsync[core.Edge](s.edges, s.cfg.AsyncBuffers)

	// Run buffer, reused across values. Its length is the number of distinct
	// swaps touching one edge value, not |S|.
	var run []participant

	for !requests.Empty() {
		current := requests.Peek().edge

		// Advance the sequence past every edge below the requested one,
		// counting the copies of the requested value on the way.
		multiplicity := uint64(0)
		for !edges.Empty() {
			e := edges.Peek()
			if current.Less(e) {
				break
			}
			if e == current {
				multiplicity++
			}
			edges.Next()
		}

		// Collect the run, latest swap first. The comparator delivers the
		// candidate request before the forward at equal (edge, sid).
		run = run[:0]
		for !requests.Empty() && requests.Peek().edge == current {
			req := requests.Peek()
			if len(run) == 0 || run[len(run)-1].sid != req.sid {
				run = append(run, participant{sid: req.sid, target: !req.source})
			}
			requests.Next()
		}

		// Latest candidate observer, as an ascending chain position; links
		// past it serve nobody.
		lastTarget := -1
		for j := range run {
			if run[len(run)-1-j].target {
				lastTarget = j
			}
		}
		if lastTarget < 0 {
			continue // forwards only, no one needs an answer
		}

		// Seed the chain: the earliest participant learns the multiplicity.
		earliest := run[len(run)-1].sid
		for c := uint64(0); c < multiplicity; c++ {
			s.existenceInfo.PushSorter(existenceInfoMsg{sid: earliest, edge: current})
			placeholders[earliest%threads].Push(earliest)
		}

		// Emit the links, earliest to latest, with exact growing budgets.
		targetsBefore := uint64(0)
		for j := 0; j+1 < len(run); j++ {
			from := run[len(run)-1-j]
			to := run[len(run)-2-j]
			if from.target {
				targetsBefore++
			}
			if j+1 > lastTarget {
				break
			}
			budget := multiplicity + 2*targetsBefore
			existSucc[from.sid%threads].Push(existenceSuccMsg{
				sid:       from.sid,
				edge:      current,
				successor: to.sid,
				budget:    budget,
			})
			for c := uint64(0); c < budget; c++ {
				placeholders[to.sid%threads].Push(to.sid)
			}
		}
	}

	edges.Close()
	if err := requests.Err(); err != nil {
		return err
	}
	requests.Close()
	s.edges.Rewind()

	s.existenceInfo.FinishSorterInput()
	if err := s.existenceInfo.Err(); err != nil {
		return err
	}
	for tid := range existSucc {
		existSucc[tid].Sort()
		placeholders[tid].Sort()
		if err := existSucc[tid].Err(); err != nil {
			return err
		}
		if err := placeholders[tid].Err(); err != nil {
			return err
		}
	}

	return nil
}

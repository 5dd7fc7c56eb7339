package edgeswap

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/emswap/core"
	"github.com/katalvlaran/emswap/extsort"
	"github.com/katalvlaran/emswap/stream"
)

// Swapper is the time-forward-processing edge-switching engine. It rewrites
// the edge stream in place, run by run, and records one SwapResult per swap
// when the debug vector is enabled.
//
// A Swapper is single-goroutine at the API surface; internally the conflict
// and perform phases fan out across Config.NumThreads workers.
type Swapper struct {
	edges *stream.EdgeStream
	cfg   Config
	log   logrus.FieldLogger
	met   *Metrics
	debug bool

	results []core.SwapResult

	// state carried across runs
	numSwapsInRun  uint64
	needsWriteback bool
	validEdges     *stream.BoolStream
	updates        *extsort.Merger[core.Edge]
	runSeq         uint64

	// per-run channels
	swapDirection []*stream.BoolStream
	loadRequests  *extsort.Sorter[loadRequest]
	edgeState     *extsort.PQSorterMerger[depChainEdgeMsg]
	existenceInfo *extsort.PQSorterMerger[existenceInfoMsg]
}

// New validates cfg and builds an engine over edges. The stream must hold
// the current edge sequence (consumed, rewound), canonical per edge and
// lexicographically sorted overall.
func New(edges *stream.EdgeStream, cfg Config, opts ...Option) (*Swapper, error) {
	cfg = cfg.normalized()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Swapper{
		edges: edges,
		cfg:   cfg,
		debug: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		s.log = l
	}

	s.validEdges = stream.NewBoolStream()
	s.swapDirection = make([]*stream.BoolStream, cfg.NumThreads)
	for tid := range s.swapDirection {
		s.swapDirection[tid] = stream.NewBoolStream()
	}
	s.loadRequests = extsort.NewSorter(loadRequestLess, loadRequestCodec{}, cfg.SorterMem)
	s.edgeState = extsort.NewPQSorterMerger(depChainEdgeLess, depChainEdgeCodec{}, cfg.SorterMem, cfg.NumThreads)
	s.existenceInfo = extsort.NewPQSorterMerger(existenceInfoLess, existenceInfoCodec{}, cfg.SorterMem, cfg.NumThreads)

	return s, nil
}

// Results returns the debug vector accumulated so far, in script order.
func (s *Swapper) Results() []core.SwapResult { return s.results }

// Run executes the whole swap script against the edge stream, splitting it
// into iterations of Config.SwapsPerIteration swaps. Edge ids of every
// iteration index the sequence as it stands when that iteration starts.
// After the last iteration the pending updates are flushed, so the stream
// holds the final sequence on return.
func (s *Swapper) Run(swaps []core.Swap) error {
	per := s.cfg.SwapsPerIteration
	if per <= 0 {
		per = len(swaps)
	}

	for start := 0; start < len(swaps); start += per {
		end := start + per
		if end > len(swaps) {
			end = len(swaps)
		}
		if err := s.loadSwaps(swaps[start:end]); err != nil {
			return err
		}
		if err := s.processSwaps(); err != nil {
			return err
		}
	}

	// One more pass with no swaps writes the last run's updates back.
	return s.processSwaps()
}

// loadSwaps dispatches one iteration's swaps: a direction bit into the
// owning worker's stream and one load request per side.
func (s *Swapper) loadSwaps(swaps []core.Swap) error {
	m := core.EdgeID(s.edges.Len())
	threads := uint64(s.cfg.NumThreads)

	for i, sw := range swaps {
		if sw.A < 0 || sw.A >= m || sw.B < 0 || sw.B >= m {
			return fmt.Errorf("%w: swap %d references edge %d/%d of %d", ErrBadSwap, i, sw.A, sw.B, m)
		}
		if sw.A == sw.B {
			return fmt.Errorf("%w: swap %d pairs edge %d with itself", ErrBadSwap, i, sw.A)
		}
		sid := uint64(i)
		s.swapDirection[sid%threads].Push(sw.Direction)
		s.loadRequests.Push(loadRequest{eid: int64(sw.A), ssid: packSwapSide(sid, 0)})
		s.loadRequests.Push(loadRequest{eid: int64(sw.B), ssid: packSwapSide(sid, 1)})
	}
	s.numSwapsInRun = uint64(len(swaps))

	return s.loadRequests.Err()
}

// processSwaps executes one run: dependency chains, conflicts, existence,
// perform, and the update handover for the next run. A call with no loaded
// swaps only flushes a pending writeback.
func (s *Swapper) processSwaps() error {
	if s.numSwapsInRun == 0 && !s.needsWriteback {
		return nil
	}
	runLog := s.log.WithFields(logrus.Fields{"run": s.runSeq, "swaps": s.numSwapsInRun})

	threads := s.cfg.NumThreads
	var (
		deps         []*extsort.Sorter[depChainSuccMsg]
		existSucc    []*extsort.Sorter[existenceSuccMsg]
		placeholders []*extsort.Sorter[uint64]
	)
	if s.numSwapsInRun > 0 {
		s.edgeState.Clear()
		s.existenceInfo.Clear()
		deps = make([]*extsort.Sorter[depChainSuccMsg], threads)
		existSucc = make([]*extsort.Sorter[existenceSuccMsg], threads)
		placeholders = make([]*extsort.Sorter[uint64], threads)
		for tid := 0; tid < threads; tid++ {
			deps[tid] = extsort.NewSorter(depChainSuccLess, depChainSuccCodec{}, s.cfg.SorterMem)
			existSucc[tid] = extsort.NewSorter(existenceSuccLess, existenceSuccCodec{}, s.cfg.SorterMem)
			placeholders[tid] = extsort.NewSorter[uint64](func(a, b uint64) bool { return a < b }, extsort.Uint64Codec{}, s.cfg.SorterMem)
		}
	}
	defer func() {
		for tid := range deps {
			deps[tid].Clear()
			existSucc[tid].Clear()
			placeholders[tid].Clear()
		}
	}()

	if err := s.phase(runLog, "load_and_update_edges", func() error {
		return s.loadAndUpdateEdges(deps)
	}); err != nil {
		return err
	}

	if s.numSwapsInRun > 0 {
		for _, d := range s.swapDirection {
			d.Consume()
		}

		var requests *extsort.Merger[existenceRequestMsg]
		if err := s.phase(runLog, "compute_conflicts", func() (err error) {
			requests, err = s.computeConflicts(deps)

			return err
		}); err != nil {
			return err
		}

		if err := s.phase(runLog, "process_existence_requests", func() error {
			return s.processExistenceRequests(requests, existSucc, placeholders)
		}); err != nil {
			return err
		}

		if err := s.phase(runLog, "perform_swaps", func() error {
			return s.performSwaps(deps, existSucc, placeholders)
		}); err != nil {
			return err
		}

		for _, d := range s.swapDirection {
			d.Clear()
		}
		if s.met != nil {
			s.met.Runs.Inc()
		}
	}

	s.numSwapsInRun = 0
	s.loadRequests.Clear()
	s.runSeq++
	runLog.Debug("run complete")

	return nil
}

// batchSize returns the per-worker batch window for the current run: the
// configured size, clamped so a short script does not reserve slot arrays it
// can never fill.
func (s *Swapper) batchSize() uint64 {
	b := uint64(s.cfg.BatchSizePerThread)
	threads := uint64(s.cfg.NumThreads)
	perThread := (s.numSwapsInRun + threads - 1) / threads
	if perThread < b {
		b = perThread
	}
	if b == 0 {
		b = 1
	}

	return b
}

// phase runs fn under timing instrumentation.
func (s *Swapper) phase(log logrus.FieldLogger, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	if s.met != nil {
		s.met.PhaseDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	}
	log.WithFields(logrus.Fields{"phase": name, "duration": elapsed}).Debug("phase done")

	return err
}

package edgeswap

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the engine's Prometheus collectors. Counters are advanced
// once per batch from per-worker tallies, so the hot loops never touch a
// shared collector.
type Metrics struct {
	SwapsProcessed    prometheus.Counter
	SwapsPerformed    prometheus.Counter
	LoopsDetected     prometheus.Counter
	ConflictsDetected prometheus.Counter
	Runs              prometheus.Counter
	PhaseDuration     *prometheus.HistogramVec
}

// newMetrics builds the collectors and registers them on reg when non-nil.
func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SwapsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emswap",
			Subsystem: "engine",
			Name:      "swaps_processed_total",
			Help:      "Swap requests evaluated, performed or not.",
		}),
		SwapsPerformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emswap",
			Subsystem: "engine",
			Name:      "swaps_performed_total",
			Help:      "Swaps that rewired the graph.",
		}),
		LoopsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emswap",
			Subsystem: "engine",
			Name:      "loops_detected_total",
			Help:      "Swaps vetoed because an output edge was a self-loop.",
		}),
		ConflictsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emswap",
			Subsystem: "engine",
			Name:      "conflicts_detected_total",
			Help:      "Swap sides vetoed because the output edge already existed.",
		}),
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emswap",
			Subsystem: "engine",
			Name:      "runs_total",
			Help:      "Completed engine runs.",
		}),
		PhaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "emswap",
			Subsystem: "engine",
			Name:      "phase_duration_seconds",
			Help:      "Wall time per engine phase.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 12),
		}, []string{"phase"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.SwapsProcessed, m.SwapsPerformed, m.LoopsDetected,
			m.ConflictsDetected, m.Runs, m.PhaseDuration,
		)
	}

	return m
}

// swapTally is one worker's counter set for a whole perform phase.
type swapTally struct {
	processed uint64
	performed uint64
	loops     uint64
	conflicts uint64
}

// add folds o into t.
func (t *swapTally) add(o swapTally) {
	t.processed += o.processed
	t.performed += o.performed
	t.loops += o.loops
	t.conflicts += o.conflicts
}

// observe publishes a tally to the collectors.
func (m *Metrics) observe(t swapTally) {
	if m == nil {
		return
	}
	m.SwapsProcessed.Add(float64(t.processed))
	m.SwapsPerformed.Add(float64(t.performed))
	m.LoopsDetected.Add(float64(t.loops))
	m.ConflictsDetected.Add(float64(t.conflicts))
}

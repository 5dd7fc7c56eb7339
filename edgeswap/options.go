package edgeswap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Option configures a Swapper at construction.
type Option func(*Swapper)

// WithLogger routes the engine's per-phase progress logs through l. Without
// it, a logger at Warn level swallows the Debug-level phase chatter.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Swapper) { s.log = l }
}

// WithMetrics registers the engine counters and phase-duration histogram on
// reg. Without it, no metrics are collected.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Swapper) { s.met = newMetrics(reg) }
}

// WithDebugResults toggles the per-swap debug vector (default on). Disable
// it for very long scripts where the vector itself would dominate memory.
func WithDebugResults(enabled bool) Option {
	return func(s *Swapper) { s.debug = enabled }
}

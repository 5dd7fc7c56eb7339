package edgeswap

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine. Callers branch with errors.Is.
var (
	// ErrBadConfig indicates an inconsistent or unusable Config. Surfaced
	// by New before any work starts.
	ErrBadConfig = errors.New("edgeswap: invalid configuration")

	// ErrBadSwap indicates a swap request referencing an edge id outside
	// the sequence, or a swap whose two ids coincide. Surfaced by Run while
	// the swap script is loaded.
	ErrBadSwap = errors.New("edgeswap: invalid swap request")
)

// Default resource budgets. All three memory knobs are independent, per
// structure, never per run.
const (
	// DefaultSorterMem is the resident budget of each external sorter.
	DefaultSorterMem = 64 << 20

	// DefaultPQMem is the default for Config.PQMem.
	DefaultPQMem = 16 << 20

	// DefaultPQPoolMem is the resident pool of the background runs creators
	// before submitted runs spill to disk.
	DefaultPQPoolMem = 16 << 20

	// DefaultBatchSizePerThread is the inner batch window per worker.
	DefaultBatchSizePerThread = 1 << 20

	// DefaultNumThreads is the worker count when the caller does not choose.
	DefaultNumThreads = 4

	// minAsyncBuffers is the smallest legal prefetch ring; the async stream
	// needs a free buffer between producer and consumer at all times.
	minAsyncBuffers = 3
)

// Config carries every engine knob as an immutable value. There is no hidden
// process-global state: two Swappers with different configs coexist freely.
//
//   - NumThreads: workers in the batched parallel phases. Swap sid is
//     handled by worker sid mod NumThreads.
//   - SwapsPerIteration: swaps loaded per run; 0 runs all remaining swaps
//     in a single iteration.
//   - SorterMem: resident bytes per external sorter before it spills.
//   - PQMem: validated (at least 1 KiB) but not consulted by the engine;
//     the cross-batch priority queues hold their records in memory without
//     a budget.
//   - PQPoolMem: resident pool of the background runs creators; beyond it,
//     submitted runs spill to disk.
//   - BatchSizePerThread: swaps per worker per batch window. Determinism of
//     output holds for a fixed value; shrinking it exercises the cross-batch
//     paths.
//   - AsyncBuffers: prefetch ring size for the edge scan, must exceed 2;
//     0 selects the minimum.
type Config struct {
	NumThreads         int
	SwapsPerIteration  int
	SorterMem          int64
	PQMem              int64
	PQPoolMem          int64
	BatchSizePerThread int
	AsyncBuffers       int
}

// DefaultConfig returns production-safe defaults.
func DefaultConfig() Config {
	return Config{
		NumThreads:         DefaultNumThreads,
		SwapsPerIteration:  0,
		SorterMem:          DefaultSorterMem,
		PQMem:              DefaultPQMem,
		PQPoolMem:          DefaultPQPoolMem,
		BatchSizePerThread: DefaultBatchSizePerThread,
		AsyncBuffers:       minAsyncBuffers,
	}
}

// normalized fills the zero knobs that have a meaningful default.
func (c Config) normalized() Config {
	if c.AsyncBuffers == 0 {
		c.AsyncBuffers = minAsyncBuffers
	}
	if c.SorterMem == 0 {
		c.SorterMem = DefaultSorterMem
	}
	if c.PQMem == 0 {
		c.PQMem = DefaultPQMem
	}
	if c.PQPoolMem == 0 {
		c.PQPoolMem = DefaultPQPoolMem
	}
	if c.BatchSizePerThread == 0 {
		c.BatchSizePerThread = DefaultBatchSizePerThread
	}

	return c
}

// validate rejects configurations the engine cannot honour.
func (c Config) validate() error {
	if c.NumThreads < 1 {
		return fmt.Errorf("%w: NumThreads %d < 1", ErrBadConfig, c.NumThreads)
	}
	if c.SwapsPerIteration < 0 {
		return fmt.Errorf("%w: SwapsPerIteration %d < 0", ErrBadConfig, c.SwapsPerIteration)
	}
	if c.SorterMem < 1<<10 {
		return fmt.Errorf("%w: SorterMem %d below one batch", ErrBadConfig, c.SorterMem)
	}
	if c.PQMem < 1<<10 {
		return fmt.Errorf("%w: PQMem %d below one batch", ErrBadConfig, c.PQMem)
	}
	if c.PQPoolMem < 1<<10 {
		return fmt.Errorf("%w: PQPoolMem %d below one batch", ErrBadConfig, c.PQPoolMem)
	}
	if c.BatchSizePerThread < 1 {
		return fmt.Errorf("%w: BatchSizePerThread %d < 1", ErrBadConfig, c.BatchSizePerThread)
	}
	if c.AsyncBuffers <= 2 {
		return fmt.Errorf("%w: AsyncBuffers %d must exceed 2", ErrBadConfig, c.AsyncBuffers)
	}

	return nil
}

// Package edgeswap implements large-scale edge switching (double-edge swaps)
// on an undirected multigraph whose edge sequence does not fit in main
// memory. Given an edge sequence E and a scripted list of swap requests S,
// the engine randomises the graph while preserving every vertex degree,
// touching E only through sequential passes and sort/merge primitives.
//
// # Algorithm
//
// The Swapper is a time-forward-processing engine: instead of random access
// into E, it turns the swap script into a message dataflow over the totally
// ordered set of swap sides. One pass over E injects the initial edge state
// of every chain of swaps touching the same edge position and links
// consecutive swaps on that position (the dependency chain). A batched
// conflict phase propagates every possible edge configuration forward
// through the chains and asks, per candidate edge, whether it already exists
// (the existence chain). A merge-join against E answers those requests, and
// the final perform phase settles each swap in script order: a swap is vetoed
// iff it would create a self-loop or a multi-edge, and its outcome flows to
// every later swap that depends on it. A last merge rewrites E for the next
// run.
//
// Within a run, swaps observe exactly the graph state left by all earlier
// swaps; the engine is byte-equivalent to a serial simulator (see
// SerialSwapper) while processing batches of swaps across worker goroutines.
//
// # Usage
//
//	es := stream.FromEdges(edges)          // lexicographically sorted, U ≤ V
//	sw, err := edgeswap.New(es, edgeswap.DefaultConfig())
//	if err != nil { ... }
//	if err := sw.Run(swaps); err != nil { ... }
//	results := sw.Results()                // one entry per swap, script order
//	shuffled := es.Edges()
//
// A vetoed swap is not an error; it is reported with Performed == false in
// its SwapResult. Errors surface only for invalid configuration, invalid
// input (edge id out of range, E not canonically sorted), or external-memory
// resource failure, all fail-stop; per-swap retry does not exist.
//
// # Resource model
//
// Memory use of the message channels is governed by Config: per-sorter
// budgets plus the batch window size; sorted message runs spill to temporary
// files through package extsort. Some state does scale with the input and is
// held in memory: the edge-validity mask (one bit per edge), the per-worker
// direction streams (one bit per swap of the run), the cross-batch priority
// queues, and, when enabled, the debug vector (one SwapResult per swap).
package edgeswap

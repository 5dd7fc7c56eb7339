// Package emswap is an external-memory edge-switching toolkit for undirected
// multigraphs: it randomises a graph under a fixed degree sequence by
// applying scripted double-edge swaps to an edge list far larger than main
// memory.
//
// 🚀 What is emswap?
//
//	A time-forward-processing engine plus the primitives it stands on:
//		• edgeswap/ — the batched, parallel TFP swap engine, its serial
//		  reference implementation, and the per-swap debug vector
//		• core/     — Edge, Swap, SwapResult types and the swap arithmetic
//		• stream/   — sequential edge/bit containers and async prefetching
//		• extsort/  — memory-bounded sorters, priority queues, runs creators
//		  and the PQ+sorter merger
//		• gen/      — power-law degree sequences, Havel–Hakimi
//		  materialisation, random swap scripts
//		• edgefile/ — persisted edge lists, flat binary and parquet
//
// ✨ Why choose emswap?
//
//   - Sequential-only graph access – the engine touches the edge list in
//     scan/merge passes; message channels spill to disk, while the validity
//     mask, direction bits and debug vector stay in memory
//   - Serial semantics, parallel execution – every swap observes exactly the
//     graph left by its predecessors, verified against a fully-internal
//     reference simulator
//   - Deterministic – fixed configuration and inputs reproduce the output
//     and the debug vector byte for byte
//
// Quick start:
//
//	es := stream.FromEdges(edges)   // canonical, lexicographically sorted
//	sw, _ := edgeswap.New(es, edgeswap.DefaultConfig())
//	_ = sw.Run(swaps)
//	shuffled := es.Edges()
//
// See the package documentation of edgeswap for the algorithm itself.
package emswap

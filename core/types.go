// Package core defines the central Edge, Swap, and SwapResult types shared by
// every emswap package, together with the canonicalisation rules and the swap
// arithmetic all engines agree on.
//
// An Edge is an undirected pair of node ids kept in canonical form U ≤ V;
// self-loops (U == V) are representable. Ordering is lexicographic. The
// sentinel InvalidEdge = (-1, -1) means "absent" and sorts before every
// canonical edge.
//
// This file declares the types, the sentinel, and the core errors.
package core

import "errors"

// Sentinel errors for core edge operations.
var (
	// ErrNotCanonical indicates an edge violating U ≤ V where canonical
	// form was required.
	ErrNotCanonical = errors.New("core: edge not canonical")
)

// Node is a vertex identifier. Persisted edge files store two signed 64-bit
// node ids per edge, so Node is pinned to int64 rather than int.
type Node int64

// EdgeID is a position in an edge sequence. Ids are assigned by streaming the
// sequence once; they are only meaningful for the sequence state they were
// assigned against (rewriting the sequence may move edges).
type EdgeID int64

// invalidNode is the node id used by the InvalidEdge sentinel.
const invalidNode Node = -1

// Edge is an undirected edge in canonical form U ≤ V.
type Edge struct {
	U, V Node
}

// InvalidEdge is the "absent" sentinel. It sorts before every canonical edge.
var InvalidEdge = Edge{invalidNode, invalidNode}

// NewEdge returns the canonical edge over u and v, swapping the endpoints if
// necessary so that U ≤ V holds.
// Complexity: O(1)
func NewEdge(u, v Node) Edge {
	if u > v {
		u, v = v, u
	}

	return Edge{U: u, V: v}
}

// IsLoop reports whether the edge is a self-loop (U == V).
func (e Edge) IsLoop() bool { return e.U == e.V }

// IsInvalid reports whether the edge is the absent sentinel.
func (e Edge) IsInvalid() bool { return e.U == invalidNode && e.V == invalidNode }

// IsCanonical reports whether U ≤ V holds.
func (e Edge) IsCanonical() bool { return e.U <= e.V }

// Less reports whether e precedes o in lexicographic order.
func (e Edge) Less(o Edge) bool {
	if e.U != o.U {
		return e.U < o.U
	}

	return e.V < o.V
}

// EdgeLess is the lexicographic comparator in function form, for sorters and
// mergers that take a func(a, b Edge) bool.
func EdgeLess(a, b Edge) bool { return a.Less(b) }

// Swap is one edge-switching request: the edges at positions A and B trade an
// endpoint. Direction selects which endpoints cross (see SwapEdges). The ids
// index the edge sequence as it stood before any swap of the current run.
type Swap struct {
	A, B      EdgeID
	Direction bool
}

// SwapResult is one debug-vector entry: what a single swap did. Edges holds
// the two candidate output edges (normalised), even when the swap was vetoed.
type SwapResult struct {
	Performed        bool
	Loop             bool
	ConflictDetected [2]bool
	Edges            [2]Edge
}

// Normalize orders the two result edges among themselves, carrying the
// per-side conflict flags along, so that equal swap outcomes compare
// byte-identical regardless of evaluation order.
func (r *SwapResult) Normalize() {
	if r.Edges[1].Less(r.Edges[0]) {
		r.Edges[0], r.Edges[1] = r.Edges[1], r.Edges[0]
		r.ConflictDetected[0], r.ConflictDetected[1] = r.ConflictDetected[1], r.ConflictDetected[0]
	}
}

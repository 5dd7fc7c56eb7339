package core

// SwapEdges computes the two output edges of an edge switch on a and b.
//
// With direction == false the first endpoints pair up:
//
//	(a0, a1), (b0, b1) → (a0, b0), (a1, b1)
//
// with direction == true they cross:
//
//	(a0, a1), (b0, b1) → (a0, b1), (a1, b0)
//
// Both outputs are canonicalised. The inputs must be canonical; the outputs
// always are. Degree counts are preserved by construction: every endpoint of
// a and b appears exactly once among the outputs.
// Complexity: O(1)
func SwapEdges(a, b Edge, direction bool) (Edge, Edge) {
	if direction {
		return NewEdge(a.U, b.V), NewEdge(a.V, b.U)
	}

	return NewEdge(a.U, b.U), NewEdge(a.V, b.V)
}

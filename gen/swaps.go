// SPDX-License-Identifier: MIT
// Package: emswap/gen

package gen

import (
	"math/rand"
	"sort"

	"github.com/katalvlaran/emswap/core"
)

// RandomSwaps draws count uniform swap requests over a sequence of m edges:
// two distinct edge positions and a fair direction coin per request.
// Deterministic for a fixed rng seed.
//
// Complexity: O(count).
func RandomSwaps(m int64, count int, rng *rand.Rand) ([]core.Swap, error) {
	if m < 2 || count < 0 {
		return nil, ErrBadParameter
	}
	if rng == nil {
		return nil, ErrNeedRand
	}

	out := make([]core.Swap, count)
	for i := range out {
		a := core.EdgeID(rng.Int63n(m))
		b := core.EdgeID(rng.Int63n(m - 1))
		if b >= a {
			b++
		}
		out[i] = core.Swap{A: a, B: b, Direction: rng.Intn(2) == 1}
	}

	return out, nil
}

// RandomMultigraph draws m edges uniformly over n vertices, loops and
// parallel edges included, canonical per edge and sorted lexicographically.
// This is the adversarial counterpart of HavelHakimi for engine tests.
//
// Complexity: O(m log m).
func RandomMultigraph(n core.Node, m int, rng *rand.Rand) ([]core.Edge, error) {
	if n < 1 || m < 0 {
		return nil, ErrBadParameter
	}
	if rng == nil {
		return nil, ErrNeedRand
	}

	edges := make([]core.Edge, m)
	for i := range edges {
		edges[i] = core.NewEdge(core.Node(rng.Int63n(int64(n))), core.Node(rng.Int63n(int64(n))))
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Less(edges[j]) })

	return edges, nil
}

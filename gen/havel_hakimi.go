// SPDX-License-Identifier: MIT
// Package: emswap/gen

package gen

import (
	"sort"

	"github.com/katalvlaran/emswap/core"
)

// HavelHakimi materialises an edge list realising degrees as closely as the
// greedy Havel–Hakimi scheme allows: the node with the largest remaining
// degree is wired to the next-largest ones, repeatedly. Node i of the input
// sequence becomes vertex id i.
//
// Non-graphical leftovers are dropped silently; the result is a simple
// graph, returned canonical per edge and sorted lexicographically, ready to
// feed the engine. Deterministic for a given sequence.
//
// Complexity: O(n² log n + m log m): every round re-sorts all n nodes.
func HavelHakimi(degrees []int64) ([]core.Edge, error) {
	if len(degrees) == 0 {
		return nil, ErrBadParameter
	}
	for _, d := range degrees {
		if d < 0 {
			return nil, ErrBadParameter
		}
	}

	type node struct {
		id  core.Node
		deg int64
	}
	nodes := make([]node, len(degrees))
	for i, d := range degrees {
		nodes[i] = node{id: core.Node(i), deg: d}
	}

	var edges []core.Edge
	for {
		sort.Slice(nodes, func(i, j int) bool {
			if nodes[i].deg != nodes[j].deg {
				return nodes[i].deg > nodes[j].deg
			}

			return nodes[i].id < nodes[j].id
		})
		if nodes[0].deg == 0 {
			break
		}

		u := nodes[0]
		nodes[0].deg = 0
		take := int(u.deg)
		if take > len(nodes)-1 {
			take = len(nodes) - 1
		}
		for i := 1; i <= take; i++ {
			if nodes[i].deg == 0 {
				break
			}
			edges = append(edges, core.NewEdge(u.id, nodes[i].id))
			nodes[i].deg--
		}
	}

	sort.Slice(edges, func(i, j int) bool { return edges[i].Less(edges[j]) })

	return edges, nil
}

package edgeswap_test

import (
	"fmt"

	"github.com/katalvlaran/emswap/core"
	"github.com/katalvlaran/emswap/edgeswap"
	"github.com/katalvlaran/emswap/stream"
)

// ExampleSwapper shuffles a small multigraph with three scripted swaps.
func ExampleSwapper() {
	edges := stream.FromEdges([]core.Edge{
		core.NewEdge(1, 3),
		core.NewEdge(2, 4),
		core.NewEdge(2, 4),
		core.NewEdge(3, 3),
		core.NewEdge(3, 6),
		core.NewEdge(5, 6),
	})

	sw, err := edgeswap.New(edges, edgeswap.DefaultConfig())
	if err != nil {
		panic(err)
	}
	if err := sw.Run([]core.Swap{
		{A: 0, B: 1, Direction: true},
		{A: 1, B: 2, Direction: false},
		{A: 3, B: 5, Direction: true},
	}); err != nil {
		panic(err)
	}

	for _, e := range edges.Edges() {
		fmt.Printf("(%d,%d)\n", e.U, e.V)
	}
	for i, r := range sw.Results() {
		fmt.Printf("swap %d performed=%v\n", i, r.Performed)
	}
	// Output:
	// (1,4)
	// (2,3)
	// (2,4)
	// (3,3)
	// (3,6)
	// (5,6)
	// swap 0 performed=true
	// swap 1 performed=false
	// swap 2 performed=false
}

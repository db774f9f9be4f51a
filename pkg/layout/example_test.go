package layout_test

import (
	"fmt"

	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/layout"
)

func ExampleCompute() {
	g := graph.MustNew(1)
	coords := layout.Compute(g, layout.DefaultOptions())
	fmt.Printf("%.0f,%.0f\n", coords[0].X, coords[0].Y)
	// Output: 400,300
}

func ExampleBounds() {
	coords := layout.Coordinates{{X: 10, Y: 40}, {X: 30, Y: 20}}
	lo, hi := layout.Bounds(coords)
	fmt.Println(lo, hi)
	// Output: {10 20} {30 40}
}

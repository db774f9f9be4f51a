package graph6_test

import (
	"fmt"

	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/graph6"
)

func ExampleDecode() {
	g, err := graph6.Decode("Dhc")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Vertices:", g.VertexCount())
	for u, v := range g.Edges() {
		fmt.Printf("%d-%d ", u, v)
	}
	fmt.Println()
	// Output:
	// Vertices: 5
	// 0-1 1-2 2-3 0-4 3-4
}

func ExampleEncode() {
	g := graph.MustNew(2, graph.Edge{U: 0, V: 1})
	fmt.Println(graph6.Encode(g))
	// Output:
	// A_
}

func ExampleDecode_error() {
	_, err := graph6.Decode("D")
	fmt.Println(err)
	// Output:
	// graph6: truncated body: 5 vertices need 2 bytes, have 0 at offset 1
}

package highlight_test

import (
	"fmt"

	"github.com/matzehuels/g6viz/pkg/graph6"
	"github.com/matzehuels/g6viz/pkg/highlight"
)

func ExampleResolve() {
	g, _ := graph6.Decode("Dhc") // C5
	sels, _ := highlight.ParseSelectors("4 (0,1) 3-2")
	set, err := highlight.Resolve(g, sels)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(set)
	// Output: 4 0-1 2-3
}

func ExampleResolve_unknownVertex() {
	g, _ := graph6.Decode("@")
	_, err := highlight.Resolve(g, []highlight.Selector{highlight.Vertex(1)})
	fmt.Println(err)
	// Output: unknown vertex 1 (graph has 1 vertices)
}

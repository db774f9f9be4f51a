// Package graph provides the immutable in-memory model for simple undirected graphs.
//
// Vertices are dense integer indices 0..n-1. Edges are unordered pairs of
// distinct vertices, stored canonically with U < V. A [Graph] never changes
// after [New] returns; every accessor hands out copies or iterators, so layout
// and highlighting can derive their own structures without aliasing it.
//
// # Edge Order
//
// [Graph.Edges] yields edges in graph6 scan order: ascending by the larger
// endpoint, then by the smaller one. This is the order in which the bits of
// a graph6 body are laid out, so [Graph.EdgeIndex] doubles as an edge's bit
// position and as its display label.
//
//	g, _ := graph.New(3, []graph.Edge{{U: 1, V: 2}, {U: 0, V: 1}})
//	for u, v := range g.Edges() {
//	    fmt.Println(u, v) // 0 1, then 1 2
//	}
//
// # Errors
//
// Construction and vertex queries fail with [*InvalidVertexError] for
// out-of-range endpoints or self-loops. The graph6 decoder never triggers it
// for valid input; it guards direct construction in tests and tools.
package graph

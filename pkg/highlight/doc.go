// Package highlight validates user-selected vertices and edges against a
// graph and produces a lookup set for renderers.
//
// Selectors come from three places: programmatic construction with [Vertex]
// and [Edge], textual expressions parsed by [ParseSelectors] (e.g.
// "0 3 1-2 (4,5)"), or a second graph6 string via [FromGraph6] whose edges
// mark a subgraph. [Resolve] checks them in input order and fails on the
// first one that names something the graph does not contain.
package highlight

package highlight

import (
	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/graph6"
)

// Resolve validates selectors against g in input order and returns the
// highlight set. The first vertex selector outside 0..n-1 yields
// [*UnknownVertexError]; the first edge selector that is not an edge of g
// yields [*UnknownEdgeError], including when an endpoint is out of range.
// Duplicate selectors are harmless.
func Resolve(g *graph.Graph, selectors []Selector) (*Set, error) {
	set := NewSet()
	for _, s := range selectors {
		switch s.Kind {
		case KindEdge:
			if !g.HasEdge(s.U, s.V) {
				return nil, &UnknownEdgeError{U: s.U, V: s.V}
			}
			set.addEdge(s.U, s.V)
		default:
			if !g.HasVertex(s.U) {
				return nil, &UnknownVertexError{ID: s.U, N: g.VertexCount()}
			}
			set.addVertex(s.U)
		}
	}
	return set, nil
}

// FromGraph6 converts a graph6-encoded subgraph of g into selectors: one
// per subgraph edge and one per non-isolated subgraph vertex. The subgraph
// shares g's vertex numbering and may not declare more vertices than g.
func FromGraph6(g *graph.Graph, sub string) ([]Selector, error) {
	h, err := graph6.Decode(sub)
	if err != nil {
		return nil, err
	}
	if h.VertexCount() > g.VertexCount() {
		return nil, &UnknownVertexError{ID: h.VertexCount() - 1, N: g.VertexCount()}
	}

	var out []Selector
	for v, d := range h.Degrees() {
		if d > 0 {
			out = append(out, Vertex(v))
		}
	}
	for u, v := range h.Edges() {
		out = append(out, Edge(u, v))
	}
	return out, nil
}

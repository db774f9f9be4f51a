package highlight

import (
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"github.com/matzehuels/g6viz/pkg/graph"
)

// Set is the resolved highlight state of a graph. Vertices iterate in
// ascending order, edges in graph6 scan order.
//
// A nil *Set is valid and empty.
type Set struct {
	vertices *treeset.Set
	edges    *treeset.Set
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{
		vertices: treeset.NewWith(utils.IntComparator),
		edges: treeset.NewWith(func(a, b interface{}) int {
			return graph.CompareEdges(a.(graph.Edge), b.(graph.Edge))
		}),
	}
}

func (s *Set) addVertex(v int) { s.vertices.Add(v) }

func (s *Set) addEdge(u, v int) { s.edges.Add(graph.Edge{U: u, V: v}.Canonical()) }

// HasVertex reports whether vertex v is highlighted.
func (s *Set) HasVertex(v int) bool {
	return s != nil && s.vertices.Contains(v)
}

// HasEdge reports whether edge {u, v} is highlighted. Endpoint order does not matter.
func (s *Set) HasEdge(u, v int) bool {
	return s != nil && s.edges.Contains(graph.Edge{U: u, V: v}.Canonical())
}

// Vertices returns the highlighted vertices in ascending order.
func (s *Set) Vertices() []int {
	if s == nil {
		return nil
	}
	out := make([]int, 0, s.vertices.Size())
	for _, v := range s.vertices.Values() {
		out = append(out, v.(int))
	}
	return out
}

// Edges returns the highlighted edges, canonicalized, in graph6 scan order.
func (s *Set) Edges() []graph.Edge {
	if s == nil {
		return nil
	}
	out := make([]graph.Edge, 0, s.edges.Size())
	for _, e := range s.edges.Values() {
		out = append(out, e.(graph.Edge))
	}
	return out
}

// Selectors returns the set as selectors, vertices first.
func (s *Set) Selectors() []Selector {
	var out []Selector
	for _, v := range s.Vertices() {
		out = append(out, Vertex(v))
	}
	for _, e := range s.Edges() {
		out = append(out, Edge(e.U, e.V))
	}
	return out
}

// Len returns the number of highlighted vertices plus edges.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.vertices.Size() + s.edges.Size()
}

// Empty reports whether nothing is highlighted.
func (s *Set) Empty() bool { return s.Len() == 0 }

// String lists the set in [ParseSelectors] syntax.
func (s *Set) String() string {
	sels := s.Selectors()
	parts := make([]string, len(sels))
	for i, sel := range sels {
		parts[i] = sel.String()
	}
	return strings.Join(parts, " ")
}

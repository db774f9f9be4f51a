package graph

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/matzehuels/g6viz/pkg/errors"
)

// Edge is an unordered pair of distinct vertices. [New] stores every edge
// with U < V regardless of the order it was given in.
type Edge struct {
	U int `json:"u" bson:"u"`
	V int `json:"v" bson:"v"`
}

// Canonical returns e with its endpoints ordered so that U < V.
func (e Edge) Canonical() Edge {
	if e.U > e.V {
		return Edge{U: e.V, V: e.U}
	}
	return e
}

// String formats the edge as "u-v".
func (e Edge) String() string { return fmt.Sprintf("%d-%d", e.U, e.V) }

// compareEdges orders edges by graph6 scan position.
func compareEdges(a, b Edge) int {
	if c := cmp.Compare(a.V, b.V); c != 0 {
		return c
	}
	return cmp.Compare(a.U, b.U)
}

// CompareEdges orders canonical edges by graph6 scan position. It is exported
// for containers that keep edges sorted.
func CompareEdges(a, b Edge) int { return compareEdges(a, b) }

// InvalidVertexError reports an edge endpoint or query outside 0..n-1, or a self-loop.
type InvalidVertexError struct {
	Vertex int    // Offending vertex index
	N      int    // Vertex count of the graph
	Reason string // Optional detail, e.g. "self-loop"
}

// Error implements the error interface.
func (e *InvalidVertexError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid vertex %d: %s", e.Vertex, e.Reason)
	}
	return fmt.Sprintf("invalid vertex %d (graph has %d vertices)", e.Vertex, e.N)
}

// Code returns the error code for this error type.
func (e *InvalidVertexError) Code() errors.Code { return errors.ErrCodeInvalidVertex }

// Graph is an immutable simple undirected graph.
//
// The zero value is the empty graph. Use [New] to construct a non-empty one.
// Graph is safe for concurrent use since nothing mutates it after construction.
type Graph struct {
	n     int
	edges []Edge  // canonical, sorted by compareEdges
	adj   [][]int // sorted neighbour lists
}

// New builds a graph with n vertices and the given edges. Edge endpoints are
// canonicalized and duplicates collapse into one edge. It returns an
// [*InvalidVertexError] for a negative n, an endpoint outside 0..n-1, or a self-loop.
func New(n int, edges []Edge) (*Graph, error) {
	if n < 0 {
		return nil, &InvalidVertexError{Vertex: n, N: n, Reason: "negative vertex count"}
	}

	canon := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.U < 0 || e.U >= n {
			return nil, &InvalidVertexError{Vertex: e.U, N: n}
		}
		if e.V < 0 || e.V >= n {
			return nil, &InvalidVertexError{Vertex: e.V, N: n}
		}
		if e.U == e.V {
			return nil, &InvalidVertexError{Vertex: e.U, N: n, Reason: "self-loop"}
		}
		canon = append(canon, e.Canonical())
	}
	slices.SortFunc(canon, compareEdges)
	canon = slices.Compact(canon)

	adj := make([][]int, n)
	for _, e := range canon {
		adj[e.U] = append(adj[e.U], e.V)
		adj[e.V] = append(adj[e.V], e.U)
	}
	for _, nbrs := range adj {
		slices.Sort(nbrs)
	}

	return &Graph{n: n, edges: canon, adj: adj}, nil
}

// MustNew is like [New] but panics on error. Intended for tests and fixtures.
func MustNew(n int, edges ...Edge) *Graph {
	g, err := New(n, edges)
	if err != nil {
		panic(err)
	}
	return g
}

// VertexCount returns n.
func (g *Graph) VertexCount() int { return g.n }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns a restartable sequence over all edges in graph6 scan order,
// yielding (u, v) with u < v.
func (g *Graph) Edges() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for _, e := range g.edges {
			if !yield(e.U, e.V) {
				return
			}
		}
	}
}

// EdgeList returns a copy of the edges in graph6 scan order.
func (g *Graph) EdgeList() []Edge {
	return slices.Clone(g.edges)
}

// Neighbors returns the sorted neighbours of v. The slice is a copy.
func (g *Graph) Neighbors(v int) ([]int, error) {
	if err := g.check(v); err != nil {
		return nil, err
	}
	return slices.Clone(g.adj[v]), nil
}

// Degree returns the number of neighbours of v.
func (g *Graph) Degree(v int) (int, error) {
	if err := g.check(v); err != nil {
		return 0, err
	}
	return len(g.adj[v]), nil
}

// Degrees returns the degree sequence indexed by vertex.
func (g *Graph) Degrees() []int {
	out := make([]int, g.n)
	for v, nbrs := range g.adj {
		out[v] = len(nbrs)
	}
	return out
}

// HasVertex reports whether v is in 0..n-1.
func (g *Graph) HasVertex(v int) bool { return v >= 0 && v < g.n }

// HasEdge reports whether {u, v} is an edge. Endpoint order does not matter.
func (g *Graph) HasEdge(u, v int) bool {
	if !g.HasVertex(u) || !g.HasVertex(v) || u == v {
		return false
	}
	// Search the shorter list.
	a, b := g.adj[u], v
	if len(g.adj[v]) < len(a) {
		a, b = g.adj[v], u
	}
	_, found := slices.BinarySearch(a, b)
	return found
}

// EdgeIndex returns the graph6 bit position of the pair {u, v}:
// max*(max-1)/2 + min. The pair need not be an edge. It returns -1 when
// u == v.
func EdgeIndex(u, v int) int {
	if u == v {
		return -1
	}
	lo, hi := min(u, v), max(u, v)
	return hi*(hi-1)/2 + lo
}

// String returns a short description such as "graph(n=4, m=3)".
func (g *Graph) String() string {
	return fmt.Sprintf("graph(n=%d, m=%d)", g.n, len(g.edges))
}

func (g *Graph) check(v int) error {
	if !g.HasVertex(v) {
		return &InvalidVertexError{Vertex: v, N: g.n}
	}
	return nil
}

package highlight

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/g6viz/pkg/errors"
)

// Kind distinguishes vertex selectors from edge selectors.
type Kind uint8

// Selector kinds.
const (
	KindVertex Kind = iota + 1
	KindEdge
)

// Selector names one vertex or one edge to highlight. Edge endpoints are
// unordered. Build selectors with [Vertex] and [Edge].
type Selector struct {
	Kind Kind
	U    int // Vertex ID, or the first edge endpoint
	V    int // Second edge endpoint, unused for vertices
}

// Vertex selects vertex id.
func Vertex(id int) Selector { return Selector{Kind: KindVertex, U: id} }

// Edge selects the edge {u, v}.
func Edge(u, v int) Selector { return Selector{Kind: KindEdge, U: u, V: v} }

// IsEdge reports whether s selects an edge.
func (s Selector) IsEdge() bool { return s.Kind == KindEdge }

// String formats s in the syntax accepted by [ParseSelectors].
func (s Selector) String() string {
	if s.IsEdge() {
		return fmt.Sprintf("%d-%d", s.U, s.V)
	}
	return strconv.Itoa(s.U)
}

// MarshalText implements encoding.TextMarshaler.
func (s Selector) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text must hold
// exactly one selector.
func (s *Selector) UnmarshalText(b []byte) error {
	sels, err := ParseSelectors(string(b))
	if err != nil {
		return err
	}
	if len(sels) != 1 {
		return errors.New(errors.ErrCodeInvalidSelector, "expected one selector, got %d", len(sels))
	}
	*s = sels[0]
	return nil
}

// UnknownVertexError reports a vertex selector outside 0..n-1.
type UnknownVertexError struct {
	ID int
	N  int
}

// Error implements the error interface.
func (e *UnknownVertexError) Error() string {
	return fmt.Sprintf("unknown vertex %d (graph has %d vertices)", e.ID, e.N)
}

// Code returns the error code for this error type.
func (e *UnknownVertexError) Code() errors.Code { return errors.ErrCodeUnknownVertex }

// UnknownEdgeError reports an edge selector that is not an edge of the graph.
type UnknownEdgeError struct {
	U, V int
}

// Error implements the error interface.
func (e *UnknownEdgeError) Error() string {
	return fmt.Sprintf("unknown edge %d-%d", e.U, e.V)
}

// Code returns the error code for this error type.
func (e *UnknownEdgeError) Code() errors.Code { return errors.ErrCodeUnknownEdge }

package sink

import (
	"encoding/json"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/g6viz/pkg/errors"
	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/graph6"
	"github.com/matzehuels/g6viz/pkg/highlight"
	"github.com/matzehuels/g6viz/pkg/layout"
	"github.com/matzehuels/g6viz/pkg/style"
)

// Document is the JSON layout document written by [RenderJSON]. Vertex
// positions are canvas pixels, as in the SVG output.
type Document struct {
	Graph6   string        `json:"graph6"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Margin   float64       `json:"margin"`
	Vertices []JSONVertex  `json:"vertices"`
	Edges    []JSONEdge    `json:"edges"`
	Style    *style.Config `json:"style,omitempty"`
}

// JSONVertex is one vertex of a [Document].
type JSONVertex struct {
	ID          int     `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Highlighted bool    `json:"highlighted,omitempty"`
}

// JSONEdge is one edge of a [Document]. Index is the graph6 bit position.
type JSONEdge struct {
	U           int  `json:"u"`
	V           int  `json:"v"`
	Index       int  `json:"index"`
	Highlighted bool `json:"highlighted,omitempty"`
}

// RenderJSON exports the drawing as a pretty-printed [Document], including
// the normalized style. It fails under the same conditions as [RenderSVG].
func RenderJSON(g *graph.Graph, coords layout.Coordinates, hl *highlight.Set, st style.Config) ([]byte, error) {
	f, err := newFrame(g, coords, hl, st)
	if err != nil {
		return nil, err
	}

	doc := Document{
		Graph6:   graph6.Encode(g),
		Width:    int(f.width),
		Height:   int(f.height),
		Margin:   f.style.Margin,
		Vertices: make([]JSONVertex, 0, g.VertexCount()),
		Edges:    make([]JSONEdge, 0, g.EdgeCount()),
		Style:    &f.style,
	}
	for v := range g.VertexCount() {
		p := f.at(v)
		doc.Vertices = append(doc.Vertices, JSONVertex{ID: v, X: p.X, Y: p.Y, Highlighted: hl.HasVertex(v)})
	}
	for u, v := range g.Edges() {
		doc.Edges = append(doc.Edges, JSONEdge{
			U: u, V: v,
			Index:       graph.EdgeIndex(u, v),
			Highlighted: hl.HasEdge(u, v),
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ReadJSON parses a [Document] and returns its graph, vertex positions and
// highlight selectors. The graph6 field and the edge list must agree.
func ReadJSON(data []byte) (*graph.Graph, layout.Coordinates, []highlight.Selector, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse layout document")
	}
	g, err := graph6.Decode(doc.Graph6)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(doc.Vertices) != g.VertexCount() || len(doc.Edges) != g.EdgeCount() {
		return nil, nil, nil, errors.New(errors.ErrCodeInvalidInput,
			"layout document lists %d vertices and %d edges, graph6 has %d and %d",
			len(doc.Vertices), len(doc.Edges), g.VertexCount(), g.EdgeCount())
	}

	coords := make(layout.Coordinates, g.VertexCount())
	var sels []highlight.Selector
	for _, jv := range doc.Vertices {
		if !g.HasVertex(jv.ID) {
			return nil, nil, nil, errors.New(errors.ErrCodeInvalidInput, "layout document has unknown vertex %d", jv.ID)
		}
		coords[jv.ID] = r2.Vec{X: jv.X, Y: jv.Y}
		if jv.Highlighted {
			sels = append(sels, highlight.Vertex(jv.ID))
		}
	}
	for _, je := range doc.Edges {
		if !g.HasEdge(je.U, je.V) {
			return nil, nil, nil, errors.New(errors.ErrCodeInvalidInput, "layout document has unknown edge %d-%d", je.U, je.V)
		}
		if je.Highlighted {
			sels = append(sels, highlight.Edge(je.U, je.V))
		}
	}
	return g, coords, sels, nil
}

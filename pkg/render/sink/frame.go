package sink

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/g6viz/pkg/errors"
	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/highlight"
	"github.com/matzehuels/g6viz/pkg/layout"
	"github.com/matzehuels/g6viz/pkg/style"
)

// frame maps layout coordinates onto the output canvas.
type frame struct {
	g      *graph.Graph
	coords layout.Coordinates
	hl     *highlight.Set
	style  style.Config

	origin r2.Vec // bounding box minimum
	width  float64
	height float64
}

// maxExtent bounds each canvas side in pixels.
const maxExtent = math.MaxInt32

// newFrame validates inputs and computes the canvas size: the bounding box
// extent plus the margin on each side, rounded up to whole pixels and at
// least 1.
func newFrame(g *graph.Graph, coords layout.Coordinates, hl *highlight.Set, st style.Config) (*frame, error) {
	if len(coords) != g.VertexCount() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"got %d coordinates for %d vertices", len(coords), g.VertexCount())
	}
	for v, p := range coords {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "vertex %d has non-finite position", v)
		}
	}
	st, err := st.Normalize()
	if err != nil {
		return nil, err
	}

	lo, hi := layout.Bounds(coords)
	m := 2 * st.Margin
	w := max(1, extent(hi.X-lo.X+m))
	h := max(1, extent(hi.Y-lo.Y+m))
	if w > maxExtent || h > maxExtent {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"canvas %gx%g exceeds %d pixels per side", w, h, maxExtent)
	}
	return &frame{
		g:      g,
		coords: coords,
		hl:     hl,
		style:  st,
		origin: lo,
		width:  w,
		height: h,
	}, nil
}

// extent rounds a canvas side up to whole pixels, ignoring floating-point
// noise from normalization.
func extent(d float64) float64 {
	return math.Ceil(d - 1e-6)
}

// at returns the canvas position of vertex v.
func (f *frame) at(v int) r2.Vec {
	p := f.coords[v]
	m := f.style.Margin
	return r2.Vec{X: p.X - f.origin.X + m, Y: p.Y - f.origin.Y + m}
}

// vertexOrder lists vertices plain first, then highlighted, each ascending.
func (f *frame) vertexOrder() []int {
	n := f.g.VertexCount()
	out := make([]int, 0, n)
	for v := range n {
		if !f.hl.HasVertex(v) {
			out = append(out, v)
		}
	}
	for v := range n {
		if f.hl.HasVertex(v) {
			out = append(out, v)
		}
	}
	return out
}

// edgeOrder lists edges plain first, then highlighted, each in graph6 order.
func (f *frame) edgeOrder() []graph.Edge {
	var plain, lit []graph.Edge
	for u, v := range f.g.Edges() {
		e := graph.Edge{U: u, V: v}
		if f.hl.HasEdge(u, v) {
			lit = append(lit, e)
		} else {
			plain = append(plain, e)
		}
	}
	return append(plain, lit...)
}

func (f *frame) vertexFill(v int) string {
	if f.hl.HasVertex(v) {
		return f.style.HighlightColor
	}
	return f.style.VertexColor
}

func (f *frame) edgeColor(e graph.Edge) string {
	if f.hl.HasEdge(e.U, e.V) {
		return f.style.EdgeHighlight()
	}
	return f.style.EdgeColor
}

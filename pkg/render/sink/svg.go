package sink

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo/float"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/highlight"
	"github.com/matzehuels/g6viz/pkg/layout"
	"github.com/matzehuels/g6viz/pkg/style"
)

const (
	svgoComment      = "<!-- Generated by SVGo (float) -->"
	generatorComment = "<!-- Created with g6viz -->"
	labelFont        = "font-family:sans-serif"

	// svgDecimals is the number of fraction digits written for coordinates.
	svgDecimals = 2
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title string
	ids   bool
}

// WithTitle adds a <title> element to the document.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// WithIDs gives every element an id: "v3" for vertex 3, "e1-4" for edge
// {1,4}, and the same with an "l" prefix for labels.
func WithIDs() SVGOption { return func(r *svgRenderer) { r.ids = true } }

// RenderSVG draws g as a standalone SVG document. The canvas is the
// coordinate bounding box plus st.Margin on every side.
//
// Elements are emitted in layers: optional background, edges, vertices,
// labels. Within the edge and vertex layers, highlighted elements come after
// plain ones so they are drawn on top. Every element appears exactly once.
//
// RenderSVG fails when coords does not hold one finite position per vertex
// or when st is invalid.
func RenderSVG(g *graph.Graph, coords layout.Coordinates, hl *highlight.Set, st style.Config, opts ...SVGOption) ([]byte, error) {
	f, err := newFrame(g, coords, hl, st)
	if err != nil {
		return nil, err
	}
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Decimals = svgDecimals
	canvas.Start(f.width, f.height)
	if r.title != "" {
		canvas.Title(r.title)
	}
	if bg := f.style.BackgroundColor; bg != "" {
		canvas.Rect(0, 0, f.width, f.height, "fill:"+bg)
	}

	edges := f.edgeOrder()
	vertices := f.vertexOrder()

	canvas.Gid("edges")
	for _, e := range edges {
		a, b := f.at(e.U), f.at(e.V)
		canvas.Line(a.X, a.Y, b.X, b.Y, r.attrs(edgeID(e),
			fmt.Sprintf("stroke:%s;stroke-width:%g;stroke-linecap:round", f.edgeColor(e), f.style.EdgeStrokeWidth))...)
	}
	canvas.Gend()

	canvas.Gid("vertices")
	for _, v := range vertices {
		p := f.at(v)
		canvas.Circle(p.X, p.Y, f.style.VertexRadius, r.attrs(vertexID(v),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g", f.vertexFill(v), f.style.VertexBorderColor, f.style.VertexBorderWidth))...)
	}
	canvas.Gend()

	if f.style.ShowVertexLabels || f.style.ShowEdgeLabels {
		text := fmt.Sprintf("fill:%s;font-size:%gpx;%s;text-anchor:middle;dominant-baseline:central",
			f.style.LabelColor, f.style.FontSize, labelFont)
		canvas.Gid("labels")
		if f.style.ShowEdgeLabels {
			for _, e := range edges {
				mid := r2.Scale(0.5, r2.Add(f.at(e.U), f.at(e.V)))
				canvas.Text(mid.X, mid.Y, f.style.Label(graph.EdgeIndex(e.U, e.V)), r.attrs("l"+edgeID(e), text)...)
			}
		}
		if f.style.ShowVertexLabels {
			for _, v := range vertices {
				p := f.at(v)
				canvas.Text(p.X, p.Y, f.style.Label(v), r.attrs("l"+vertexID(v), text)...)
			}
		}
		canvas.Gend()
	}
	canvas.End()

	return bytes.Replace(buf.Bytes(), []byte(svgoComment), []byte(generatorComment), 1), nil
}

// attrs returns svgo attribute arguments: the style, plus an id when enabled.
func (r *svgRenderer) attrs(id, style string) []string {
	if r.ids {
		return []string{fmt.Sprintf(`id="%s"`, id), style}
	}
	return []string{style}
}

func vertexID(v int) string      { return fmt.Sprintf("v%d", v) }
func edgeID(e graph.Edge) string { return fmt.Sprintf("e%d-%d", e.U, e.V) }

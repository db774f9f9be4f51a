package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/highlight"
	"github.com/matzehuels/g6viz/pkg/layout"
	"github.com/matzehuels/g6viz/pkg/style"
)

// pointsPerInch converts pixel sizes to Graphviz inches (inputscale=72).
const pointsPerInch = 72.0

// ToDOT converts the drawing to an undirected Graphviz graph for the neato
// engine. Every node is pinned with pos="x,y!" so Graphviz reproduces the
// computed layout instead of running its own. The y axis is flipped because
// Graphviz points upwards.
//
// ToDOT fails under the same conditions as [RenderSVG].
func ToDOT(g *graph.Graph, coords layout.Coordinates, hl *highlight.Set, st style.Config) (string, error) {
	f, err := newFrame(g, coords, hl, st)
	if err != nil {
		return "", err
	}
	s := f.style
	bg := s.BackgroundColor
	if bg == "" {
		bg = "transparent"
	}
	diameter := 2 * s.VertexRadius / pointsPerInch

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", bg)
	fmt.Fprintf(&buf, "  bb=\"0,0,%g,%g\";\n", f.width, f.height)
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, width=%.4f, penwidth=%g, color=%q, fontsize=%g, fontcolor=%q];\n",
		diameter, s.VertexBorderWidth, s.VertexBorderColor, s.FontSize, s.LabelColor)
	fmt.Fprintf(&buf, "  edge [penwidth=%g];\n", s.EdgeStrokeWidth)
	buf.WriteString("\n")

	for _, v := range f.vertexOrder() {
		p := f.at(v)
		label := ""
		if s.ShowVertexLabels {
			label = s.Label(v)
		}
		fmt.Fprintf(&buf, "  %d [pos=\"%.2f,%.2f!\", fillcolor=%q, label=%q];\n",
			v, p.X, f.height-p.Y, f.vertexFill(v), label)
	}

	buf.WriteString("\n")
	for _, e := range f.edgeOrder() {
		attrs := fmt.Sprintf("color=%q", f.edgeColor(e))
		if s.ShowEdgeLabels {
			attrs += fmt.Sprintf(", label=%q", s.Label(graph.EdgeIndex(e.U, e.V)))
		}
		fmt.Fprintf(&buf, "  %d -- %d [%s];\n", e.U, e.V, attrs)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

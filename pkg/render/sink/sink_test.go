package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"slices"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/g6viz/pkg/errors"
	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/graph6"
	"github.com/matzehuels/g6viz/pkg/highlight"
	"github.com/matzehuels/g6viz/pkg/layout"
	"github.com/matzehuels/g6viz/pkg/style"
)

type fixture struct {
	g      *graph.Graph
	coords layout.Coordinates
}

func decode(t *testing.T, s string) fixture {
	t.Helper()
	g, err := graph6.Decode(s)
	if err != nil {
		t.Fatalf("Decode(%q) error: %v", s, err)
	}
	return fixture{g: g, coords: layout.Compute(g, layout.DefaultOptions())}
}

func resolve(t *testing.T, g *graph.Graph, expr string) *highlight.Set {
	t.Helper()
	sels, err := highlight.ParseSelectors(expr)
	if err != nil {
		t.Fatal(err)
	}
	set, err := highlight.Resolve(g, sels)
	if err != nil {
		t.Fatal(err)
	}
	return set
}

var circleFillRe = regexp.MustCompile(`<circle[^>]*fill:(#[0-9A-F]{6})`)

func TestRenderSVGCounts(t *testing.T) {
	tests := []struct {
		graph6  string
		lines   int
		circles int
	}{
		{"@", 0, 1},
		{"A?", 0, 2},
		{"A_", 1, 2},
		{"Bw", 3, 3},
		{"Dhc", 5, 5},
		{"IheA@GUAo", 15, 10},
	}
	for _, tt := range tests {
		t.Run(tt.graph6, func(t *testing.T) {
			f := decode(t, tt.graph6)
			out, err := RenderSVG(f.g, f.coords, nil, style.Default())
			if err != nil {
				t.Fatalf("RenderSVG error: %v", err)
			}
			s := string(out)
			if got := strings.Count(s, "<line"); got != tt.lines {
				t.Errorf("<line> count = %d, want %d", got, tt.lines)
			}
			if got := strings.Count(s, "<circle"); got != tt.circles {
				t.Errorf("<circle> count = %d, want %d", got, tt.circles)
			}
			if got := strings.Count(s, "<text"); got != tt.circles {
				t.Errorf("<text> count = %d, want %d vertex labels", got, tt.circles)
			}
		})
	}
}

func TestRenderSVGHeader(t *testing.T) {
	f := decode(t, "A_")
	out, err := RenderSVG(f.g, f.coords, nil, style.Default(), WithTitle("two & one"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("<?xml")) {
		t.Errorf("output does not start with an XML declaration: %.40q", out)
	}
	if !bytes.Contains(out, []byte(generatorComment)) {
		t.Error("generator comment missing")
	}
	if !bytes.Contains(out, []byte("<title>two &amp; one</title>")) {
		t.Error("escaped title missing")
	}
}

func TestRenderSVGSingleVertexCanvas(t *testing.T) {
	f := decode(t, "@")
	st := style.Default()
	out, err := RenderSVG(f.g, f.coords, nil, st)
	if err != nil {
		t.Fatal(err)
	}
	want := `width="80.00" height="80.00"`
	if !bytes.Contains(out, []byte(want)) {
		t.Errorf("canvas for one vertex should be %s:\n%s", want, out)
	}

	st.Margin = 0
	out, err = RenderSVG(f.g, f.coords, nil, st)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, []byte(`width="1.00" height="1.00"`)) {
		t.Errorf("zero-extent canvas should be 1x1:\n%s", out)
	}
}

func TestRenderSVGFractionalGeometry(t *testing.T) {
	g, err := graph6.Decode("A_")
	if err != nil {
		t.Fatal(err)
	}
	coords := layout.Coordinates{{X: 10.25, Y: 20.5}, {X: 30.75, Y: 20.5}}
	st := style.Default()
	st.Margin = 4.5
	st.VertexRadius = 2.5
	st.EdgeStrokeWidth = 0.75

	out, err := RenderSVG(g, coords, nil, st)
	if err != nil {
		t.Fatalf("RenderSVG error: %v", err)
	}
	s := string(out)
	for _, want := range []string{
		`width="30.00" height="9.00"`,
		`<line x1="4.50" y1="4.50" x2="25.00" y2="4.50"`,
		`<circle cx="4.50" cy="4.50" r="2.50"`,
		"stroke-width:0.75;",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("SVG missing %q:\n%s", want, s)
		}
	}
}

func TestRenderCanvasTooLarge(t *testing.T) {
	g, err := graph6.Decode("A_")
	if err != nil {
		t.Fatal(err)
	}
	for _, far := range []float64{1e19, 1e300} {
		coords := layout.Coordinates{{}, {X: far, Y: far}}
		if _, err := RenderSVG(g, coords, nil, style.Default()); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("RenderSVG with extent %g: err = %v, want INVALID_INPUT", far, err)
		}
		if _, err := ToDOT(g, coords, nil, style.Default()); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ToDOT with extent %g: err = %v, want INVALID_INPUT", far, err)
		}
	}
}

func TestRenderSVGHighlightOrder(t *testing.T) {
	f := decode(t, "Bw")
	hl := resolve(t, f.g, "0 0-1")
	st := style.Default()
	out, err := RenderSVG(f.g, f.coords, hl, st, WithIDs())
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)

	fills := circleFillRe.FindAllStringSubmatch(s, -1)
	if len(fills) != 3 {
		t.Fatalf("found %d circles, want 3", len(fills))
	}
	if got := fills[2][1]; got != st.HighlightColor {
		t.Errorf("last circle fill = %s, want highlight %s", got, st.HighlightColor)
	}
	for _, m := range fills[:2] {
		if m[1] != st.VertexColor {
			t.Errorf("plain circle fill = %s, want %s", m[1], st.VertexColor)
		}
	}

	// Highlighted edge 0-1 is drawn after the plain edges 0-2 and 1-2.
	e01 := strings.Index(s, `id="e0-1"`)
	e02 := strings.Index(s, `id="e0-2"`)
	e12 := strings.Index(s, `id="e1-2"`)
	if e01 < 0 || e02 < 0 || e12 < 0 {
		t.Fatal("edge ids missing")
	}
	if e01 < e02 || e01 < e12 {
		t.Error("highlighted edge should be drawn last")
	}
	if !strings.Contains(s[e01:], "stroke:"+st.EdgeHighlightColor) {
		t.Error("highlighted edge should use the edge highlight color")
	}

	// Layers: edges, then vertices, then labels.
	if !(strings.Index(s, "<line") < strings.Index(s, "<circle") && strings.Index(s, "<circle") < strings.Index(s, "<text")) {
		t.Error("layers out of order")
	}
}

func TestRenderSVGLabelsAndBackground(t *testing.T) {
	f := decode(t, "A_")
	st := style.Default()
	st.ShowEdgeLabels = true
	st.ZeroIndexedLabels = false
	st.BackgroundColor = "white"

	out, err := RenderSVG(f.g, f.coords, nil, st)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if got := strings.Count(s, "<text"); got != 3 {
		t.Errorf("<text> count = %d, want 3", got)
	}
	for _, label := range []string{">1</text>", ">2</text>"} {
		if !strings.Contains(s, label) {
			t.Errorf("one-indexed label %q missing", label)
		}
	}
	if !strings.Contains(s, "<rect") || !strings.Contains(s, "fill:#FFFFFF") {
		t.Error("background rect missing")
	}

	st.ShowVertexLabels, st.ShowEdgeLabels = false, false
	out, _ = RenderSVG(f.g, f.coords, nil, st)
	if bytes.Contains(out, []byte("<text")) {
		t.Error("labels drawn although disabled")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	f := decode(t, "IheA@GUAo")
	hl := resolve(t, f.g, "0 1 0-1")
	a, err := RenderSVG(f.g, f.coords, hl, style.Default())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := RenderSVG(f.g, layout.Compute(f.g, layout.DefaultOptions()), hl, style.Default())
	if !bytes.Equal(a, b) {
		t.Error("rendering the same input twice produced different output")
	}
}

func TestRenderErrors(t *testing.T) {
	f := decode(t, "Bw")
	bad := style.Default()
	bad.VertexRadius = 0

	tests := []struct {
		name   string
		coords layout.Coordinates
		style  style.Config
		code   errors.Code
	}{
		{"too few coordinates", f.coords[:2], style.Default(), errors.ErrCodeInvalidInput},
		{"too many coordinates", append(slices.Clone(f.coords), r2.Vec{}), style.Default(), errors.ErrCodeInvalidInput},
		{"invalid style", f.coords, bad, errors.ErrCodeInvalidStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RenderSVG(f.g, tt.coords, nil, tt.style); !errors.Is(err, tt.code) {
				t.Errorf("RenderSVG err = %v, want %s", err, tt.code)
			}
			if _, err := RenderJSON(f.g, tt.coords, nil, tt.style); !errors.Is(err, tt.code) {
				t.Errorf("RenderJSON err = %v, want %s", err, tt.code)
			}
			if _, err := ToDOT(f.g, tt.coords, nil, tt.style); !errors.Is(err, tt.code) {
				t.Errorf("ToDOT err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderJSON(t *testing.T) {
	f := decode(t, "Dhc")
	hl := resolve(t, f.g, "2 3-4")
	data, err := RenderJSON(f.g, f.coords, hl, style.Default())
	if err != nil {
		t.Fatalf("RenderJSON error: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("json.Unmarshal error: %v", err)
	}
	if doc.Graph6 != "Dhc" || len(doc.Vertices) != 5 || len(doc.Edges) != 5 {
		t.Errorf("document = %+v", doc)
	}
	if doc.Style == nil || doc.Style.Margin != style.DefaultMargin {
		t.Errorf("style missing from document")
	}
	last := doc.Edges[len(doc.Edges)-1]
	if last.U != 3 || last.V != 4 || last.Index != graph.EdgeIndex(3, 4) || !last.Highlighted {
		t.Errorf("last edge = %+v, want highlighted 3-4", last)
	}

	g, coords, sels, err := ReadJSON(data)
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}
	if graph6.Encode(g) != "Dhc" || len(coords) != 5 {
		t.Errorf("ReadJSON graph = %v, coords = %d", g, len(coords))
	}
	if want := []highlight.Selector{highlight.Vertex(2), highlight.Edge(3, 4)}; !slices.Equal(sels, want) {
		t.Errorf("ReadJSON selectors = %v, want %v", sels, want)
	}

	// Re-rendering the read document reproduces the original SVG.
	set, err := highlight.Resolve(g, sels)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := RenderSVG(f.g, f.coords, hl, style.Default())
	b, _ := RenderSVG(g, coords, set, style.Default())
	if !bytes.Equal(a, b) {
		t.Error("SVG from the JSON document differs from the original")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"bad graph6", `{"graph6": "!"}`},
		{"vertex count mismatch", `{"graph6": "A_", "vertices": [{"id": 0}], "edges": [{"u": 0, "v": 1}]}`},
		{"unknown edge", `{"graph6": "A?", "vertices": [{"id": 0}, {"id": 1}], "edges": [{"u": 0, "v": 1}]}`},
		{"unknown vertex", `{"graph6": "A?", "vertices": [{"id": 0}, {"id": 7}], "edges": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := ReadJSON([]byte(tt.data)); err == nil {
				t.Error("ReadJSON should fail")
			}
		})
	}
}

func TestToDOT(t *testing.T) {
	f := decode(t, "A_")
	hl := resolve(t, f.g, "1")
	dot, err := ToDOT(f.g, f.coords, hl, style.Default())
	if err != nil {
		t.Fatalf("ToDOT error: %v", err)
	}
	for _, want := range []string{
		"graph G {",
		"layout=neato;",
		"inputscale=72;",
		`bgcolor="transparent"`,
		"0 -- 1",
		`fillcolor="#00FF00"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if got := strings.Count(dot, `!"`); got != 2 {
		t.Errorf("pinned positions = %d, want 2", got)
	}
	// Highlighted vertex 1 is listed after vertex 0.
	if strings.Index(dot, "  1 [") < strings.Index(dot, "  0 [") {
		t.Error("highlighted vertex should be listed last")
	}
}

func TestRenderPNG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	f := decode(t, "Bw")
	dot, err := ToDOT(f.g, f.coords, nil, style.Default())
	if err != nil {
		t.Fatal(err)
	}
	png, err := RenderPNG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderPNG error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("output is not a PNG: %.8q", png)
	}
}

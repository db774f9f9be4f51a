package layout

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/g6viz/pkg/graph"
)

func path(n int) *graph.Graph {
	var edges []graph.Edge
	for v := 1; v < n; v++ {
		edges = append(edges, graph.Edge{U: v - 1, V: v})
	}
	return graph.MustNew(n, edges...)
}

func complete(n int) *graph.Graph {
	var edges []graph.Edge
	for v := 1; v < n; v++ {
		for u := range v {
			edges = append(edges, graph.Edge{U: u, V: v})
		}
	}
	return graph.MustNew(n, edges...)
}

func assertValid(t *testing.T, g *graph.Graph, c Coordinates, opts Options) {
	t.Helper()
	if len(c) != g.VertexCount() {
		t.Fatalf("len(coords) = %d, want %d", len(c), g.VertexCount())
	}
	seen := make(map[r2.Vec]int, len(c))
	for v, p := range c {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Fatalf("vertex %d has non-finite position %v", v, p)
		}
		if u, dup := seen[p]; dup {
			t.Fatalf("vertices %d and %d coincide at %v", u, v, p)
		}
		seen[p] = v
	}
	if opts.Grid.Kind != GridNone {
		return
	}
	const eps = 1e-9
	for v, p := range c {
		if p.X < opts.Margin-eps || p.X > opts.Width-opts.Margin+eps ||
			p.Y < opts.Margin-eps || p.Y > opts.Height-opts.Margin+eps {
			t.Errorf("vertex %d at %v outside canvas", v, p)
		}
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		g    *graph.Graph
	}{
		{"single edge", path(2)},
		{"path", path(6)},
		{"triangle", complete(3)},
		{"K5", complete(5)},
		{"edgeless", graph.MustNew(7)},
		{"two components", graph.MustNew(6, graph.Edge{U: 0, V: 1}, graph.Edge{U: 1, V: 2}, graph.Edge{U: 3, V: 4})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Margin = 20
			c := Compute(tt.g, opts)
			assertValid(t, tt.g, c, opts)
		})
	}
}

func TestComputeFillsCanvas(t *testing.T) {
	opts := DefaultOptions()
	c := Compute(path(5), opts)
	lo, hi := Bounds(c)
	// Uniform scaling touches at least one pair of opposite sides.
	fitsX := math.Abs(lo.X) < 1e-6 && math.Abs(hi.X-opts.Width) < 1e-6
	fitsY := math.Abs(lo.Y) < 1e-6 && math.Abs(hi.Y-opts.Height) < 1e-6
	if !fitsX && !fitsY {
		t.Errorf("bounds %v..%v do not span the canvas", lo, hi)
	}
}

func TestComputeTrivial(t *testing.T) {
	opts := DefaultOptions()
	if c := Compute(graph.MustNew(0), opts); len(c) != 0 {
		t.Errorf("empty graph coords = %v, want none", c)
	}
	c := Compute(graph.MustNew(1), opts)
	want := r2.Vec{X: opts.Width / 2, Y: opts.Height / 2}
	if len(c) != 1 || c[0] != want {
		t.Errorf("single vertex coords = %v, want [%v]", c, want)
	}
}

func TestComputeDeterministic(t *testing.T) {
	g := complete(6)
	opts := DefaultOptions()
	a := Compute(g, opts)
	b := Compute(g, opts)
	if !slices.Equal(a, b) {
		t.Errorf("two runs differ:\n%v\n%v", a, b)
	}

	opts.Seed = 42
	c := Compute(g, opts)
	if !slices.Equal(c, Compute(g, opts)) {
		t.Error("seeded runs differ")
	}
}

func TestComputeParallelMatchesSequential(t *testing.T) {
	g := path(parallelThreshold + 10)
	opts := DefaultOptions()
	opts.Iterations = 20

	opts.Workers = 1
	seq := Compute(g, opts)
	opts.Workers = 4
	par := Compute(g, opts)

	if !slices.Equal(seq, par) {
		t.Error("parallel layout differs from sequential layout")
	}
}

func TestComputeSanitizesOptions(t *testing.T) {
	opts := Options{
		Width:      -1,
		Margin:     1e9,
		Iterations: -5,
		Repulsion:  math.NaN(),
		Gravity:    math.Inf(1),
		Grid:       Grid{Kind: "hexagon"},
	}
	g := path(4)
	c := Compute(g, opts)
	assertValid(t, g, c, sanitize(opts))
}

func TestComputeClampsCanvas(t *testing.T) {
	for _, size := range []float64{1e19, 1e300, math.Inf(1)} {
		opts := Options{Width: size, Height: size}
		g := complete(4)
		c := Compute(g, opts)
		clamped := sanitize(opts)
		if clamped.Width != MaxCanvas || clamped.Height != MaxCanvas {
			t.Errorf("size %g sanitized to %gx%g, want %g", size, clamped.Width, clamped.Height, float64(MaxCanvas))
		}
		assertValid(t, g, c, clamped)
	}
}

func TestComputeTinyGridSpacing(t *testing.T) {
	for _, kind := range []GridKind{GridSquare, GridCircle} {
		t.Run(string(kind), func(t *testing.T) {
			opts := Options{Grid: Grid{Kind: kind, Spacing: 1e-300}}
			g := path(3)
			c := Compute(g, opts)
			assertValid(t, g, c, sanitize(opts))
			if got := sanitize(opts).Grid.Spacing; got < 800*MinGridSpacingRatio {
				t.Errorf("spacing sanitized to %g, want at least %g", got, 800*MinGridSpacingRatio)
			}
		})
	}
}

func TestComputeContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ComputeContext(ctx, path(3), DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestEdgesShorterThanNonEdges(t *testing.T) {
	// In a path the endpoints should end up further apart than neighbours.
	c := Compute(path(5), DefaultOptions())
	edge := r2.Norm(r2.Sub(c[0], c[1]))
	ends := r2.Norm(r2.Sub(c[0], c[4]))
	if edge >= ends {
		t.Errorf("edge length %.1f >= end-to-end distance %.1f", edge, ends)
	}
}

func TestPairDirectionAntisymmetric(t *testing.T) {
	s := newSimulation(path(4), DefaultOptions())
	for v := range 4 {
		for u := range 4 {
			if u == v {
				continue
			}
			a, b := s.pairDirection(v, u), s.pairDirection(u, v)
			if a.X != -b.X || a.Y != -b.Y {
				t.Errorf("pairDirection(%d,%d) = %v, pairDirection(%d,%d) = %v", v, u, a, u, v, b)
			}
			if n := r2.Norm(a); math.Abs(n-1) > 1e-12 {
				t.Errorf("|pairDirection(%d,%d)| = %v, want 1", v, u, n)
			}
		}
	}
}

func TestCoincidentStartSeparates(t *testing.T) {
	g := graph.MustNew(3)
	s := newSimulation(g, DefaultOptions())
	for v := range s.pos {
		s.pos[v] = r2.Vec{}
	}
	for it := range 50 {
		s.step(it)
	}
	c := normalize(s.pos, s.opts)
	assertValid(t, g, c, s.opts)
}

func TestBounds(t *testing.T) {
	lo, hi := Bounds(nil)
	if lo != (r2.Vec{}) || hi != (r2.Vec{}) {
		t.Errorf("Bounds(nil) = %v, %v", lo, hi)
	}
	lo, hi = Bounds(Coordinates{{X: 3, Y: -1}, {X: -2, Y: 5}, {X: 0, Y: 0}})
	if lo != (r2.Vec{X: -2, Y: -1}) || hi != (r2.Vec{X: 3, Y: 5}) {
		t.Errorf("Bounds = %v, %v", lo, hi)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults", func(*Options) {}, false},
		{"negative width", func(o *Options) { o.Width = -1 }, true},
		{"margin too large", func(o *Options) { o.Margin = 400 }, true},
		{"too many iterations", func(o *Options) { o.Iterations = MaxIterations + 1 }, true},
		{"negative gravity", func(o *Options) { o.Gravity = -1 }, true},
		{"unknown grid", func(o *Options) { o.Grid.Kind = "hex" }, true},
		{"square grid", func(o *Options) { o.Grid = Grid{Kind: GridSquare, Spacing: 10} }, false},
		{"grid without spacing", func(o *Options) { o.Grid = Grid{Kind: GridCircle} }, true},
		{"grid spacing too small", func(o *Options) { o.Grid = Grid{Kind: GridCircle, Spacing: 1e-300} }, true},
		{"grid spacing at floor", func(o *Options) { o.Grid = Grid{Kind: GridSquare, Spacing: 800 * MinGridSpacingRatio} }, false},
		{"infinite grid spacing", func(o *Options) { o.Grid = Grid{Kind: GridSquare, Spacing: math.Inf(1)} }, true},
		{"canvas too wide", func(o *Options) { o.Width = MaxCanvas + 1 }, true},
		{"canvas too tall", func(o *Options) { o.Height = 1e19 }, true},
		{"nan height", func(o *Options) { o.Height = math.NaN() }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.mutate(&o)
			if err := o.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

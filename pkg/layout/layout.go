package layout

import (
	"context"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/g6viz/pkg/graph"
)

// Coordinates holds one position per vertex, indexed by vertex.
type Coordinates []r2.Vec

const (
	// minDistance stands in for the distance between (near) coincident vertices.
	minDistance = 1e-6

	// jitter is the initial perturbation as a fraction of the ideal edge length.
	jitter = 0.01

	// checkEvery is how often ComputeContext polls for cancellation.
	checkEvery = 16
)

// Compute lays out g according to opts. Zero option fields take their
// defaults. It never fails: invalid options are replaced by defaults field by
// field, and every vertex receives a finite position.
func Compute(g *graph.Graph, opts Options) Coordinates {
	c, _ := ComputeContext(context.Background(), g, opts)
	return c
}

// ComputeContext is [Compute] with cancellation. It returns ctx.Err() if ctx
// is done before the simulation finishes.
func ComputeContext(ctx context.Context, g *graph.Graph, opts Options) (Coordinates, error) {
	opts = sanitize(opts)
	n := g.VertexCount()
	if n == 0 {
		return Coordinates{}, nil
	}
	if n == 1 {
		return Coordinates{r2.Vec{X: opts.Width / 2, Y: opts.Height / 2}}, nil
	}

	s := newSimulation(g, opts)
	for it := range opts.Iterations {
		if it%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		s.step(it)
	}

	coords := normalize(s.pos, opts)
	separate(coords, opts)
	if opts.Grid.Kind != GridNone {
		coords = snap(coords, opts)
	}
	return coords, nil
}

// sanitize applies defaults and reverts any field that would fail validation.
func sanitize(o Options) Options {
	o.SetDefaults()
	d := DefaultOptions()
	if o.Width <= 0 || o.Height <= 0 || math.IsNaN(o.Width) || math.IsNaN(o.Height) {
		o.Width, o.Height = d.Width, d.Height
	}
	o.Width = min(o.Width, MaxCanvas)
	o.Height = min(o.Height, MaxCanvas)
	if o.Margin < 0 || 2*o.Margin >= min(o.Width, o.Height) || math.IsNaN(o.Margin) {
		o.Margin = 0
	}
	if o.Iterations < 0 || o.Iterations > MaxIterations {
		o.Iterations = d.Iterations
	}
	if !positive(o.IdealEdgeLength) {
		o.IdealEdgeLength = d.IdealEdgeLength
	}
	if !positive(o.Repulsion) {
		o.Repulsion = d.Repulsion
	}
	if !positive(o.Stiffness) {
		o.Stiffness = d.Stiffness
	}
	if o.Gravity < 0 || math.IsNaN(o.Gravity) || math.IsInf(o.Gravity, 0) {
		o.Gravity = d.Gravity
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Grid.Kind != GridNone {
		if !positive(o.Grid.Spacing) {
			o.Grid.Spacing = defaultGridSpacing(o.Width, o.Height)
		}
		o.Grid.Spacing = max(o.Grid.Spacing, minGridSpacing(o.Width, o.Height))
	}
	if _, err := ParseGridKind(string(o.Grid.Kind)); err != nil {
		o.Grid = Grid{}
	}
	return o
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}

// =============================================================================
// Simulation
// =============================================================================

type simulation struct {
	g     *graph.Graph
	opts  Options
	adj   [][]int
	pos   []r2.Vec
	force []r2.Vec
	seed  uint64
	temp0 float64
	k     float64
}

func newSimulation(g *graph.Graph, opts Options) *simulation {
	n := g.VertexCount()
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(n)
	}
	s := &simulation{
		g:     g,
		opts:  opts,
		adj:   make([][]int, n),
		pos:   make([]r2.Vec, n),
		force: make([]r2.Vec, n),
		seed:  seed,
		k:     opts.IdealEdgeLength,
	}
	for v := range n {
		s.adj[v], _ = g.Neighbors(v)
	}

	radius := s.k * math.Sqrt(float64(n))
	s.temp0 = radius / 4
	rng := rand.New(rand.NewPCG(seed, uint64(n)))
	for v := range n {
		theta := 2 * math.Pi * float64(v) / float64(n)
		s.pos[v] = r2.Vec{
			X: radius*math.Cos(theta) + (rng.Float64()*2-1)*jitter*s.k,
			Y: radius*math.Sin(theta) + (rng.Float64()*2-1)*jitter*s.k,
		}
	}
	return s
}

// step advances the simulation by one iteration.
func (s *simulation) step(it int) {
	center := centroid(s.pos)
	n := len(s.pos)

	if s.opts.Workers > 1 && n >= parallelThreshold {
		var eg errgroup.Group
		eg.SetLimit(s.opts.Workers)
		chunk := (n + s.opts.Workers - 1) / s.opts.Workers
		for lo := 0; lo < n; lo += chunk {
			hi := min(lo+chunk, n)
			eg.Go(func() error {
				for v := lo; v < hi; v++ {
					s.force[v] = s.netForce(v, center)
				}
				return nil
			})
		}
		_ = eg.Wait()
	} else {
		for v := range n {
			s.force[v] = s.netForce(v, center)
		}
	}

	temp := s.temp0 * (1 - float64(it)/float64(s.opts.Iterations))
	for v, f := range s.force {
		mag := r2.Norm(f)
		if mag == 0 || math.IsNaN(mag) {
			continue
		}
		s.pos[v] = r2.Add(s.pos[v], r2.Scale(min(mag, temp)/mag, f))
	}
}

// netForce sums the forces acting on v in a fixed order.
func (s *simulation) netForce(v int, center r2.Vec) r2.Vec {
	var f r2.Vec
	p := s.pos[v]
	k3 := s.k * s.k * s.k

	for u, q := range s.pos {
		if u == v {
			continue
		}
		d := r2.Sub(p, q)
		dist := r2.Norm(d)
		if dist < minDistance {
			d = r2.Scale(minDistance, s.pairDirection(v, u))
			dist = minDistance
		}
		f = r2.Add(f, r2.Scale(s.opts.Repulsion*k3/(dist*dist*dist), d))
	}

	for _, u := range s.adj[v] {
		d := r2.Sub(s.pos[u], p)
		dist := r2.Norm(d)
		if dist < minDistance {
			continue
		}
		f = r2.Add(f, r2.Scale(s.opts.Stiffness*(dist-s.k)/dist, d))
	}

	return r2.Add(f, r2.Scale(s.opts.Gravity, r2.Sub(center, p)))
}

// pairDirection returns a unit vector for separating coincident vertices v
// and u. It depends only on the pair and the seed, and
// pairDirection(v, u) == -pairDirection(u, v).
func (s *simulation) pairDirection(v, u int) r2.Vec {
	lo, hi, sign := v, u, 1.0
	if lo > hi {
		lo, hi, sign = hi, lo, -1
	}
	h := splitmix64(s.seed ^ uint64(lo)<<32 ^ uint64(hi))
	theta := 2 * math.Pi * float64(h>>11) / (1 << 53)
	return r2.Vec{X: sign * math.Cos(theta), Y: sign * math.Sin(theta)}
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ x>>30) * 0xbf58476d1ce4e5b9
	x = (x ^ x>>27) * 0x94d049bb133111eb
	return x ^ x>>31
}

func centroid(pos []r2.Vec) r2.Vec {
	var c r2.Vec
	for _, p := range pos {
		c = r2.Add(c, p)
	}
	return r2.Scale(1/float64(len(pos)), c)
}

// Bounds returns the component-wise minimum and maximum of c. Both are the
// zero vector when c is empty.
func Bounds(c Coordinates) (lo, hi r2.Vec) {
	if len(c) == 0 {
		return r2.Vec{}, r2.Vec{}
	}
	lo, hi = c[0], c[0]
	for _, p := range c[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return lo, hi
}

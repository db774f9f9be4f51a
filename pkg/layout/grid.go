package layout

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// cell addresses a lattice point. For square grids it is (column, row)
// relative to the canvas center; for circular grids it is (ring, slot).
type cell struct{ a, b int }

// lattice maps between continuous positions and grid cells.
type lattice interface {
	nearest(p r2.Vec) cell
	point(c cell) r2.Vec
	// ring lists the free-slot candidates at search distance r from c.
	ring(c cell, r int) []cell
}

// snap moves every vertex to the nearest free lattice point, processing
// vertices in index order. A vertex whose nearest point is taken spirals
// outwards until it finds a free one, so snapped positions stay distinct.
func snap(coords Coordinates, opts Options) Coordinates {
	center := r2.Vec{X: opts.Width / 2, Y: opts.Height / 2}
	var lat lattice
	switch opts.Grid.Kind {
	case GridSquare:
		lat = squareLattice{origin: center, spacing: opts.Grid.Spacing}
	case GridCircle:
		lat = circleLattice{origin: center, spacing: opts.Grid.Spacing}
	default:
		return coords
	}

	out := make(Coordinates, len(coords))
	taken := make(map[cell]struct{}, len(coords))
	for v, p := range coords {
		c := lat.nearest(p)
		if _, ok := taken[c]; ok {
			c = search(lat, c, p, taken)
		}
		taken[c] = struct{}{}
		out[v] = lat.point(c)
	}
	return out
}

// search scans rings of increasing distance around start and returns the
// free cell closest to p within the first ring that has one.
func search(lat lattice, start cell, p r2.Vec, taken map[cell]struct{}) cell {
	for r := 1; ; r++ {
		var best cell
		bestDist := math.Inf(1)
		for _, c := range lat.ring(start, r) {
			if _, ok := taken[c]; ok {
				continue
			}
			if d := r2.Norm2(r2.Sub(lat.point(c), p)); d < bestDist {
				best, bestDist = c, d
			}
		}
		if !math.IsInf(bestDist, 1) {
			return best
		}
	}
}

// =============================================================================
// Square Grid
// =============================================================================

type squareLattice struct {
	origin  r2.Vec
	spacing float64
}

func (l squareLattice) nearest(p r2.Vec) cell {
	return cell{
		a: int(math.Round((p.X - l.origin.X) / l.spacing)),
		b: int(math.Round((p.Y - l.origin.Y) / l.spacing)),
	}
}

func (l squareLattice) point(c cell) r2.Vec {
	return r2.Vec{X: l.origin.X + float64(c.a)*l.spacing, Y: l.origin.Y + float64(c.b)*l.spacing}
}

func (squareLattice) ring(c cell, r int) []cell {
	out := make([]cell, 0, 8*r)
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if max(abs(dx), abs(dy)) == r {
				out = append(out, cell{c.a + dx, c.b + dy})
			}
		}
	}
	return out
}

// =============================================================================
// Circular Grid
// =============================================================================

// circleLattice places points on concentric rings spaced by spacing. Ring 0
// is the center; ring k carries 6k evenly spaced slots.
type circleLattice struct {
	origin  r2.Vec
	spacing float64
}

func slots(ring int) int {
	if ring == 0 {
		return 1
	}
	return 6 * ring
}

func (l circleLattice) nearest(p r2.Vec) cell {
	d := r2.Sub(p, l.origin)
	ring := int(math.Round(r2.Norm(d) / l.spacing))
	if ring == 0 {
		return cell{}
	}
	m := slots(ring)
	theta := math.Atan2(d.Y, d.X)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	slot := int(math.Round(theta/(2*math.Pi)*float64(m))) % m
	return cell{ring, slot}
}

func (l circleLattice) point(c cell) r2.Vec {
	if c.a == 0 {
		return l.origin
	}
	theta := 2 * math.Pi * float64(c.b) / float64(slots(c.a))
	rad := float64(c.a) * l.spacing
	return r2.Vec{X: l.origin.X + rad*math.Cos(theta), Y: l.origin.Y + rad*math.Sin(theta)}
}

// ring returns every slot on the rings at distance r from c's ring, nearest
// ring first.
func (circleLattice) ring(c cell, r int) []cell {
	var out []cell
	for _, k := range []int{c.a + r, c.a - r} {
		if k < 0 {
			continue
		}
		for s := range slots(k) {
			out = append(out, cell{k, s})
		}
	}
	// Slots on c's own ring are reachable at every distance.
	if c.a > 0 && r <= slots(c.a)/2 {
		m := slots(c.a)
		out = append(out, cell{c.a, mod(c.b+r, m)}, cell{c.a, mod(c.b-r, m)})
	}
	slices.SortFunc(out, func(x, y cell) int {
		return cmp.Or(cmp.Compare(x.a, y.a), cmp.Compare(x.b, y.b))
	})
	return slices.Compact(out)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func mod(a, m int) int {
	return ((a % m) + m) % m
}

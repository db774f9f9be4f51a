package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// normalize scales pos uniformly and centers it so the bounding box fits the
// canvas inside the margin. Aspect ratio is preserved.
func normalize(pos []r2.Vec, opts Options) Coordinates {
	out := make(Coordinates, len(pos))
	lo, hi := Bounds(pos)
	mid := r2.Scale(0.5, r2.Add(lo, hi))
	center := r2.Vec{X: opts.Width / 2, Y: opts.Height / 2}

	availW := opts.Width - 2*opts.Margin
	availH := opts.Height - 2*opts.Margin
	spanX, spanY := hi.X-lo.X, hi.Y-lo.Y

	scale := 1.0
	switch {
	case spanX > 0 && spanY > 0:
		scale = min(availW/spanX, availH/spanY)
	case spanX > 0:
		scale = availW / spanX
	case spanY > 0:
		scale = availH / spanY
	}

	for v, p := range pos {
		out[v] = r2.Add(center, r2.Scale(scale, r2.Sub(p, mid)))
	}
	return out
}

// separate nudges vertices that share an exact position after scaling so
// that no two vertices coincide.
func separate(c Coordinates, opts Options) {
	step := min(opts.Width, opts.Height) * 1e-6
	seen := make(map[r2.Vec]struct{}, len(c))
	for v, p := range c {
		for i := 1; ; i++ {
			if _, dup := seen[p]; !dup {
				break
			}
			theta := float64(v) * math.Phi
			p = r2.Add(c[v], r2.Vec{X: float64(i) * step * math.Cos(theta), Y: float64(i) * step * math.Sin(theta)})
		}
		c[v] = p
		seen[p] = struct{}{}
	}
}

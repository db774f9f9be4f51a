package layout

import (
	"fmt"
	"math"
	"runtime"

	"github.com/matzehuels/g6viz/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default canonical drawing width.
	DefaultWidth = 800.0

	// DefaultHeight is the default canonical drawing height.
	DefaultHeight = 600.0

	// DefaultMargin is the default inset of the normalized bounding box.
	DefaultMargin = 0.0

	// DefaultIterations is the default simulation budget.
	DefaultIterations = 400

	// DefaultIdealEdgeLength is the rest length of every spring, in simulation units.
	DefaultIdealEdgeLength = 1.0

	// DefaultRepulsion scales the Coulomb term.
	DefaultRepulsion = 1.0

	// DefaultStiffness scales the Hooke term.
	DefaultStiffness = 1.0

	// DefaultGravity scales the pull towards the centroid.
	DefaultGravity = 0.05

	// MaxIterations bounds Options.Iterations for untrusted callers.
	MaxIterations = 10000

	// MaxCanvas bounds Options.Width and Options.Height.
	MaxCanvas = 1e6

	// MinGridSpacingRatio is the smallest grid spacing as a fraction of the
	// longer canvas side.
	MinGridSpacingRatio = 1e-6
)

// parallelThreshold is the vertex count from which force accumulation is
// split across workers.
const parallelThreshold = 256

// =============================================================================
// Grid
// =============================================================================

// GridKind selects a post-layout snapping pattern.
type GridKind string

// Grid kinds.
const (
	GridNone   GridKind = ""
	GridSquare GridKind = "square"
	GridCircle GridKind = "circle"
)

// Grid snaps normalized coordinates onto a lattice.
type Grid struct {
	Kind    GridKind `json:"kind,omitempty" toml:"kind" yaml:"kind"`
	Spacing float64  `json:"spacing,omitempty" toml:"spacing" yaml:"spacing"`
}

// ParseGridKind converts a flag value into a GridKind.
func ParseGridKind(s string) (GridKind, error) {
	switch GridKind(s) {
	case GridNone, "none":
		return GridNone, nil
	case GridSquare, GridCircle:
		return GridKind(s), nil
	}
	return GridNone, errors.New(errors.ErrCodeInvalidInput, "invalid grid %q (must be one of: none, square, circle)", s)
}

// =============================================================================
// Options
// =============================================================================

// Options configures [Compute]. Zero fields take their defaults via
// [Options.SetDefaults]; use [DefaultOptions] for a fully populated value.
type Options struct {
	Width           float64 `json:"width,omitempty"`
	Height          float64 `json:"height,omitempty"`
	Margin          float64 `json:"margin,omitempty"`
	Iterations      int     `json:"iterations,omitempty"`
	IdealEdgeLength float64 `json:"ideal_edge_length,omitempty"`
	Repulsion       float64 `json:"repulsion,omitempty"`
	Stiffness       float64 `json:"stiffness,omitempty"`
	Gravity         float64 `json:"gravity,omitempty"`
	Seed            uint64  `json:"seed,omitempty"`
	Grid            Grid    `json:"grid,omitempty"`

	// Workers caps parallel force accumulation. It never changes the result,
	// so it is excluded from serialized options and cache keys.
	Workers int `json:"-"`
}

// DefaultOptions returns options with every field set to its default.
func DefaultOptions() Options {
	var o Options
	o.SetDefaults()
	return o
}

// SetDefaults fills zero-valued fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.IdealEdgeLength == 0 {
		o.IdealEdgeLength = DefaultIdealEdgeLength
	}
	if o.Repulsion == 0 {
		o.Repulsion = DefaultRepulsion
	}
	if o.Stiffness == 0 {
		o.Stiffness = DefaultStiffness
	}
	if o.Gravity == 0 {
		o.Gravity = DefaultGravity
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Grid.Kind != GridNone && o.Grid.Spacing == 0 {
		o.Grid.Spacing = defaultGridSpacing(o.Width, o.Height)
	}
}

// Validate checks that options are usable after defaults have been applied.
func (o Options) Validate() error {
	switch {
	case !(o.Width > 0 && o.Height > 0):
		return invalid("canvas must be positive, got %gx%g", o.Width, o.Height)
	case o.Width > MaxCanvas || o.Height > MaxCanvas:
		return invalid("canvas %gx%g exceeds %g per side", o.Width, o.Height, float64(MaxCanvas))
	case o.Margin < 0 || 2*o.Margin >= min(o.Width, o.Height):
		return invalid("margin %g does not fit a %gx%g canvas", o.Margin, o.Width, o.Height)
	case o.Iterations < 0 || o.Iterations > MaxIterations:
		return invalid("iterations must be in 0..%d, got %d", MaxIterations, o.Iterations)
	case o.IdealEdgeLength <= 0 || o.Repulsion <= 0 || o.Stiffness <= 0:
		return invalid("force constants must be positive")
	case o.Gravity < 0:
		return invalid("gravity must not be negative, got %g", o.Gravity)
	}
	if _, err := ParseGridKind(string(o.Grid.Kind)); err != nil {
		return err
	}
	if o.Grid.Kind != GridNone {
		floor := minGridSpacing(o.Width, o.Height)
		if !(o.Grid.Spacing >= floor) || math.IsInf(o.Grid.Spacing, 0) {
			return invalid("grid spacing must be at least %g for a %gx%g canvas, got %g",
				floor, o.Width, o.Height, o.Grid.Spacing)
		}
	}
	return nil
}

// String summarizes the options for logs.
func (o Options) String() string {
	s := fmt.Sprintf("%gx%g iter=%d seed=%d", o.Width, o.Height, o.Iterations, o.Seed)
	if o.Grid.Kind != GridNone {
		s += fmt.Sprintf(" grid=%s/%g", o.Grid.Kind, o.Grid.Spacing)
	}
	return s
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, "layout: "+format, args...)
}

func defaultGridSpacing(w, h float64) float64 {
	return min(w, h) / 20
}

// minGridSpacing keeps lattice indices within int range for any point on
// the canvas.
func minGridSpacing(w, h float64) float64 {
	return max(w, h) * MinGridSpacingRatio
}

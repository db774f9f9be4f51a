// Package style defines the visual configuration shared by all renderers and
// loads it from TOML, YAML or JSON files.
//
// A [Config] is plain data. Renderers receive it by value and never mutate
// it; [Default] returns the stock look (sky-blue vertices with dark-blue
// borders, black edges, lime highlights).
package style

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/g6viz/pkg/errors"
)

// Default values.
const (
	DefaultMargin             = 40
	DefaultVertexRadius       = 12
	DefaultEdgeStrokeWidth    = 5
	DefaultVertexColor        = "#87CEEB"
	DefaultEdgeColor          = "#000000"
	DefaultHighlightColor     = "#00FF00"
	DefaultFontSize           = 14
	DefaultVertexBorderColor  = "#00008B"
	DefaultVertexBorderWidth  = 3
	DefaultEdgeHighlightColor = "#800000"
	DefaultLabelColor         = "#000000"
)

// MaxSize bounds every size field.
const MaxSize = 10000

// Config controls how a laid-out graph is drawn. Sizes are in pixels.
type Config struct {
	Margin          float64 `json:"margin" toml:"margin" yaml:"margin"`
	VertexRadius    float64 `json:"vertex_radius" toml:"vertex_radius" yaml:"vertex_radius"`
	EdgeStrokeWidth float64 `json:"edge_stroke_width" toml:"edge_stroke_width" yaml:"edge_stroke_width"`
	FontSize        float64 `json:"font_size" toml:"font_size" yaml:"font_size"`

	VertexColor    string `json:"vertex_color" toml:"vertex_color" yaml:"vertex_color"`
	EdgeColor      string `json:"edge_color" toml:"edge_color" yaml:"edge_color"`
	HighlightColor string `json:"highlight_color" toml:"highlight_color" yaml:"highlight_color"`

	VertexBorderColor string  `json:"vertex_border_color" toml:"vertex_border_color" yaml:"vertex_border_color"`
	VertexBorderWidth float64 `json:"vertex_border_width" toml:"vertex_border_width" yaml:"vertex_border_width"`

	// EdgeHighlightColor colors highlighted edges. Empty falls back to HighlightColor.
	EdgeHighlightColor string `json:"edge_highlight_color" toml:"edge_highlight_color" yaml:"edge_highlight_color"`

	// BackgroundColor fills the canvas. Empty means transparent.
	BackgroundColor string `json:"background_color" toml:"background_color" yaml:"background_color"`
	LabelColor      string `json:"label_color" toml:"label_color" yaml:"label_color"`

	ShowVertexLabels  bool `json:"show_vertex_labels" toml:"show_vertex_labels" yaml:"show_vertex_labels"`
	ShowEdgeLabels    bool `json:"show_edge_labels" toml:"show_edge_labels" yaml:"show_edge_labels"`
	ZeroIndexedLabels bool `json:"zero_indexed_labels" toml:"zero_indexed_labels" yaml:"zero_indexed_labels"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Margin:             DefaultMargin,
		VertexRadius:       DefaultVertexRadius,
		EdgeStrokeWidth:    DefaultEdgeStrokeWidth,
		FontSize:           DefaultFontSize,
		VertexColor:        DefaultVertexColor,
		EdgeColor:          DefaultEdgeColor,
		HighlightColor:     DefaultHighlightColor,
		VertexBorderColor:  DefaultVertexBorderColor,
		VertexBorderWidth:  DefaultVertexBorderWidth,
		EdgeHighlightColor: DefaultEdgeHighlightColor,
		LabelColor:         DefaultLabelColor,
		ShowVertexLabels:   true,
		ZeroIndexedLabels:  true,
	}
}

// Validate reports every problem with c in a single INVALID_STYLE error.
func (c Config) Validate() error {
	var errs []string
	size := func(name string, v float64, positive bool) {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			errs = append(errs, fmt.Sprintf("%s must be finite, got %g", name, v))
		case v > MaxSize:
			errs = append(errs, fmt.Sprintf("%s must be at most %g, got %g", name, float64(MaxSize), v))
		case positive && v <= 0:
			errs = append(errs, fmt.Sprintf("%s must be positive, got %g", name, v))
		case v < 0:
			errs = append(errs, fmt.Sprintf("%s must not be negative, got %g", name, v))
		}
	}
	size("margin", c.Margin, false)
	size("vertex_radius", c.VertexRadius, true)
	size("edge_stroke_width", c.EdgeStrokeWidth, false)
	size("font_size", c.FontSize, true)
	size("vertex_border_width", c.VertexBorderWidth, false)

	for _, f := range c.colors() {
		if f.value == "" && f.optional {
			continue
		}
		if _, err := ParseColor(f.value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", f.name, err))
		}
	}

	if len(errs) > 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Normalize validates c and returns a copy with every color in #RRGGBB form.
func (c Config) Normalize() (Config, error) {
	if err := c.Validate(); err != nil {
		return c, err
	}
	for _, f := range c.colors() {
		if *f.ptr != "" {
			*f.ptr, _ = ParseColor(*f.ptr)
		}
	}
	return c, nil
}

// EdgeHighlight returns the color used for highlighted edges.
func (c Config) EdgeHighlight() string {
	if c.EdgeHighlightColor != "" {
		return c.EdgeHighlightColor
	}
	return c.HighlightColor
}

// Label formats the label of vertex or edge index i.
func (c Config) Label(i int) string {
	if !c.ZeroIndexedLabels {
		i++
	}
	return fmt.Sprint(i)
}

type colorField struct {
	name     string
	value    string
	ptr      *string
	optional bool
}

func (c *Config) colors() []colorField {
	return []colorField{
		{"vertex_color", c.VertexColor, &c.VertexColor, false},
		{"edge_color", c.EdgeColor, &c.EdgeColor, false},
		{"highlight_color", c.HighlightColor, &c.HighlightColor, false},
		{"vertex_border_color", c.VertexBorderColor, &c.VertexBorderColor, false},
		{"edge_highlight_color", c.EdgeHighlightColor, &c.EdgeHighlightColor, true},
		{"background_color", c.BackgroundColor, &c.BackgroundColor, true},
		{"label_color", c.LabelColor, &c.LabelColor, false},
	}
}

// Package pipeline runs the g6viz rendering pipeline end to end.
//
// This package implements the decode → layout → resolve → render pipeline
// shared by the CLI, the watch loop and the HTTP service. Centralizing it
// keeps caching, logging and validation identical across entry points.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Decode: parse graph6 text into an immutable graph
//  2. Layout: compute force-directed coordinates (cached)
//  3. Resolve: turn highlight expressions into a validated highlight set
//  4. Render: produce SVG, JSON, DOT or PNG artifacts (cached per format)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Graph6:    "Dhc",
//	    Highlight: "0 1-2",
//	    Formats:   []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/g6viz/pkg/cache"
	"github.com/matzehuels/g6viz/pkg/errors"
	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/highlight"
	"github.com/matzehuels/g6viz/pkg/layout"
	"github.com/matzehuels/g6viz/pkg/style"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
}

// contentTypes maps formats to their MIME types.
var contentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	FormatPNG:  "image/png",
}

// ContentType returns the MIME type of a format, or application/octet-stream.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Graph6 is the graph to draw. A ">>graph6<<" header and surrounding
	// whitespace are accepted.
	Graph6 string `json:"graph6"`

	// Highlight is a selector expression such as "0 1-2 (3,4)".
	Highlight string `json:"highlight,omitempty"`

	// HighlightGraph6 highlights every edge of a graph6 subgraph that shares
	// the graph's vertex numbering. Combined with Highlight when both are set.
	HighlightGraph6 string `json:"highlight_graph6,omitempty"`

	Layout layout.Options `json:"layout"`
	Style  style.Config   `json:"style"`

	Formats []string `json:"formats,omitempty"`
	Title   string   `json:"title,omitempty"`

	// Refresh skips cache reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Progress, when set, is called as each stage starts: "decode",
	// "layout", "highlight", then "render <format>" for every format that
	// is not served from the cache.
	Progress func(stage string) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the decoded graph.
	Graph *graph.Graph

	// Graph6 is the canonical re-encoding of Graph.
	Graph6 string

	// GraphHash is the content hash of the canonical encoding.
	GraphHash string

	// Coords holds one position per vertex in the normalized canvas.
	Coords layout.Coordinates

	// Highlight is the resolved highlight set. It is never nil.
	Highlight *highlight.Set

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Vertices    int
	Edges       int
	Highlighted int
	DecodeTime  time.Duration
	LayoutTime  time.Duration
	ResolveTime time.Duration
	RenderTime  time.Duration
}

// Total returns the summed stage durations.
func (s Stats) Total() time.Duration {
	return s.DecodeTime + s.LayoutTime + s.ResolveTime + s.RenderTime
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether coordinates came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// stage reports a stage start to opts.Progress.
func (o *Options) stage(name string) {
	if o.Progress != nil {
		o.Progress(name)
	}
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, dot, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateGraph6Text(o.Graph6, 0); err != nil {
		return err
	}
	if err := errors.ValidateSelectorText(o.Highlight); err != nil {
		return err
	}
	if o.HighlightGraph6 != "" {
		if err := errors.ValidateGraph6Text(o.HighlightGraph6, 0); err != nil {
			return err
		}
	}

	o.Layout.SetDefaults()
	if err := o.Layout.Validate(); err != nil {
		return err
	}

	if o.Style == (style.Config{}) {
		o.Style = style.Default()
	}
	st, err := o.Style.Normalize()
	if err != nil {
		return err
	}
	o.Style = st

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	l := o.Layout
	return cache.LayoutKeyOpts{
		Width:           l.Width,
		Height:          l.Height,
		Margin:          l.Margin,
		Iterations:      l.Iterations,
		IdealEdgeLength: l.IdealEdgeLength,
		Repulsion:       l.Repulsion,
		Stiffness:       l.Stiffness,
		Gravity:         l.Gravity,
		Seed:            l.Seed,
		Grid:            string(l.Grid.Kind),
		GridSpacing:     l.Grid.Spacing,
	}
}

// ArtifactKeyOpts returns cache key options for rendering one format with
// the resolved highlight set.
func (o *Options) ArtifactKeyOpts(format string, hl *highlight.Set) cache.ArtifactKeyOpts {
	styleData, _ := json.Marshal(o.Style)
	return cache.ArtifactKeyOpts{
		Format:    format,
		Highlight: hl.String(),
		Style:     cache.Hash(styleData),
		Title:     o.Title,
	}
}

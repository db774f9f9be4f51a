package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/highlight"
	"github.com/matzehuels/g6viz/pkg/layout"
	"github.com/matzehuels/g6viz/pkg/render/sink"
)

// RenderFormat generates a single artifact.
func RenderFormat(ctx context.Context, format string, g *graph.Graph, coords layout.Coordinates, hl *highlight.Set, opts Options) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = sink.RenderSVG(g, coords, hl, opts.Style, buildSVGOptions(opts)...)
	case FormatJSON:
		data, err = sink.RenderJSON(g, coords, hl, opts.Style)
	case FormatDOT:
		var dot string
		dot, err = sink.ToDOT(g, coords, hl, opts.Style)
		data = []byte(dot)
	case FormatPNG:
		var dot string
		if dot, err = sink.ToDOT(g, coords, hl, opts.Style); err == nil {
			data, err = sink.RenderPNG(ctx, dot)
		}
	default:
		return nil, ValidateFormat(format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.Title != "" {
		out = append(out, sink.WithTitle(opts.Title))
	}
	return out
}

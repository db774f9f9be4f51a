package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/g6viz/pkg/archive"
	"github.com/matzehuels/g6viz/pkg/layout"
	"github.com/matzehuels/g6viz/pkg/pipeline"
	"github.com/matzehuels/g6viz/pkg/style"
)

// spinnerThreshold is the graph6 length from which the render command shows
// a spinner. Shorter graphs finish before the first frame.
const spinnerThreshold = 512

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string  // output file (single format) or base path (multiple)
	formats     string  // comma-separated output formats
	index       int     // entry of a multi-graph file, 1-based
	highlight   string  // selector expression
	highlightG6 string  // graph6 subgraph to highlight
	styleFile   string  // TOML, YAML or JSON style file
	title       string  // SVG <title>
	width       float64 // layout canvas width
	height      float64 // layout canvas height
	iterations  int     // simulation steps
	seed        uint64  // jitter seed, 0 derives it from the vertex count
	grid        string  // none, square or circle
	gridSpacing float64 // lattice spacing, 0 picks one from the canvas
	labels      bool    // draw vertex labels
	edgeLabels  bool    // draw edge labels
	oneIndexed  bool    // number labels from 1
	background  string  // canvas fill
	noCache     bool    // bypass the layout and artifact cache
	refresh     bool    // recompute and overwrite cached entries
	archive     bool    // record the render in the history database
}

// renderCommand creates the render command for drawing a graph.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		index:      1,
		width:      layout.DefaultWidth,
		height:     layout.DefaultHeight,
		iterations: layout.DefaultIterations,
		labels:     true,
	}

	cmd := &cobra.Command{
		Use:   "render <graph6|file|->",
		Short: "Render a graph6 graph to SVG, JSON, DOT or PNG",
		Example: `  g6viz render 'Dhc' --highlight '0 1-2' -o c5.svg
  g6viz render graphs.g6 --index 3 -f svg,png --grid circle
  geng 6 | g6viz render - -f json -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(args[0], cmd.InOrStdin(), opts.index)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), in, opts, cmd.Flags().Changed)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", `output file (single format), base path (multiple) or "-" for stdout`)
	f.StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output format(s): svg, json, dot, png (comma-separated)")
	f.IntVar(&opts.index, "index", opts.index, "graph to render from a multi-graph file (1-based)")
	f.StringVar(&opts.highlight, "highlight", "", `vertices and edges to highlight, e.g. "0 1-2 (3,4)"`)
	f.StringVar(&opts.highlightG6, "highlight-g6", "", "graph6 subgraph whose edges are highlighted")
	f.StringVar(&opts.styleFile, "style", "", "style file (.toml, .yaml or .json)")
	f.StringVar(&opts.title, "title", "", "SVG title")
	f.Float64Var(&opts.width, "width", opts.width, "layout canvas width")
	f.Float64Var(&opts.height, "height", opts.height, "layout canvas height")
	f.IntVar(&opts.iterations, "iterations", opts.iterations, "layout iterations")
	f.Uint64Var(&opts.seed, "seed", 0, "layout seed (0 derives one from the vertex count)")
	f.StringVar(&opts.grid, "grid", "none", "snap vertices to a grid: none, square, circle")
	f.Float64Var(&opts.gridSpacing, "grid-spacing", 0, "grid spacing (0 picks one from the canvas)")
	f.BoolVar(&opts.labels, "labels", opts.labels, "draw vertex labels")
	f.BoolVar(&opts.edgeLabels, "edge-labels", false, "draw edge labels")
	f.BoolVar(&opts.oneIndexed, "one-indexed", false, "number labels from 1")
	f.StringVar(&opts.background, "background", "", "background color (default transparent)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the layout and artifact cache")
	f.BoolVar(&opts.refresh, "refresh", false, "recompute cached layouts and artifacts")
	f.BoolVar(&opts.archive, "archive", false, "record the render in the history database")

	return cmd
}

// buildOptions turns flags into pipeline options. changed reports whether a
// flag was set explicitly, so style file values survive unset flags.
func buildOptions(text string, opts renderOpts, changed func(string) bool) (pipeline.Options, error) {
	formats, err := pipeline.ParseFormats(opts.formats)
	if err != nil {
		return pipeline.Options{}, err
	}
	if len(formats) == 0 {
		formats = []string{pipeline.FormatSVG}
	}
	grid, err := layout.ParseGridKind(opts.grid)
	if err != nil {
		return pipeline.Options{}, err
	}

	st := style.Default()
	if opts.styleFile != "" {
		if st, err = style.Load(opts.styleFile); err != nil {
			return pipeline.Options{}, err
		}
	}
	if changed("labels") || opts.styleFile == "" {
		st.ShowVertexLabels = opts.labels
	}
	if changed("edge-labels") {
		st.ShowEdgeLabels = opts.edgeLabels
	}
	if changed("one-indexed") {
		st.ZeroIndexedLabels = !opts.oneIndexed
	}
	if changed("background") {
		st.BackgroundColor = opts.background
	}

	return pipeline.Options{
		Graph6:          text,
		Highlight:       opts.highlight,
		HighlightGraph6: opts.highlightG6,
		Layout: layout.Options{
			Width:      opts.width,
			Height:     opts.height,
			Iterations: opts.iterations,
			Seed:       opts.seed,
			Grid:       layout.Grid{Kind: grid, Spacing: opts.gridSpacing},
		},
		Style:   st,
		Formats: formats,
		Title:   opts.title,
		Refresh: opts.refresh,
	}, nil
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, stdout io.Writer, in input, opts renderOpts, changed func(string) bool) error {
	logger := loggerFromContext(ctx)

	popts, err := buildOptions(in.Text, opts, changed)
	if err != nil {
		return err
	}
	if opts.output == "-" && len(popts.Formats) != 1 {
		return fmt.Errorf("writing to stdout needs exactly one format, got %d", len(popts.Formats))
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	var spin *Spinner
	if len(in.Text) > spinnerThreshold || strings.Contains(opts.formats, pipeline.FormatPNG) {
		spin = newSpinner(ctx, "Rendering "+displayName(in))
		popts.Progress = spin.SetStage
		spin.Start()
	}
	res, err := runner.Execute(ctx, popts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	prog.done("rendered",
		"graph", displayName(in),
		"vertices", res.Stats.Vertices,
		"edges", res.Stats.Edges,
		"formats", popts.Formats,
		"layout_cached", res.CacheInfo.LayoutHit)

	if opts.output == "-" {
		_, err := stdout.Write(res.Artifacts[popts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(res.Artifacts, popts.Formats, opts.output, in)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", StyleHighlight.Render(displayName(in)))
	printStats(res.Stats.Vertices, res.Stats.Edges, res.CacheInfo.LayoutHit)
	for _, p := range paths {
		printFile(p)
	}

	if opts.archive {
		if err := recordRender(ctx, res, popts.Formats); err != nil {
			printWarning("history not updated: %v", err)
		}
	}
	return nil
}

// writeArtifacts writes each artifact and returns the paths in format order.
// A single format goes to output verbatim when it has an extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string, in input) ([]string, error) {
	var paths []string
	for _, format := range formats {
		path := basePath(output, in) + "." + format
		if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
			path = output
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// recordRender saves one history record per format.
func recordRender(ctx context.Context, res *pipeline.Result, formats []string) error {
	path, err := historyPath()
	if err != nil {
		return err
	}
	db, err := archive.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()
	for _, format := range formats {
		rec := archive.NewRecord(res.Graph6, format)
		rec.Vertices = res.Stats.Vertices
		rec.Edges = res.Stats.Edges
		rec.Highlight = res.Highlight.String()
		rec.Hash = res.GraphHash
		if err := db.Save(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func isFormatExt(ext string) bool {
	return pipeline.ValidFormats[strings.TrimPrefix(strings.ToLower(ext), ".")]
}

// displayName shortens long literal graph6 input for messages.
func displayName(in input) string {
	const maxLen = 24
	if in.File || len(in.Name) <= maxLen {
		return in.Name
	}
	return in.Name[:maxLen] + "…"
}

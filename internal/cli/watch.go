package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/g6viz/pkg/style"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

// watchCommand creates the watch command that re-renders on file changes.
func (c *CLI) watchCommand() *cobra.Command {
	opts := renderOpts{index: 1, labels: true}
	var formats string

	cmd := &cobra.Command{
		Use:     "watch <file>",
		Short:   "Re-render a graph6 file whenever it or its style file changes",
		Example: `  g6viz watch petersen.g6 --style dark.toml -o petersen.svg`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = formats
			return c.runWatch(cmd.Context(), cmd.OutOrStdout(), args[0], opts, cmd.Flags().Changed)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVarP(&formats, "format", "f", "svg", "output format(s): svg, json, dot, png (comma-separated)")
	f.IntVar(&opts.index, "index", opts.index, "graph to render from a multi-graph file (1-based)")
	f.StringVar(&opts.highlight, "highlight", "", "vertices and edges to highlight")
	f.StringVar(&opts.styleFile, "style", "", "style file to watch alongside the graph")
	f.StringVar(&opts.grid, "grid", "none", "snap vertices to a grid: none, square, circle")
	f.Uint64Var(&opts.seed, "seed", 0, "layout seed (0 derives one from the vertex count)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the layout and artifact cache")

	return cmd
}

// runWatch renders once, then again after every change to path or the style
// file, until ctx is canceled. Render failures are reported and watching
// continues.
func (c *CLI) runWatch(ctx context.Context, stdout io.Writer, path string, opts renderOpts, changed func(string) bool) error {
	logger := loggerFromContext(ctx)

	if info, err := os.Stat(path); err != nil {
		return err
	} else if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	path = filepath.Clean(path)

	trigger := make(chan struct{}, 1)
	poke := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}

	if opts.styleFile != "" {
		loader, err := style.NewLoader(opts.styleFile)
		if err != nil {
			return err
		}
		loader.OnChange(func(style.Config) { poke() })
		loader.OnError(func(err error) { logger.Warn("style reload failed", "file", loader.Path(), "error", err) })
		stop, err := loader.Watch()
		if err != nil {
			return err
		}
		defer stop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	render := func() {
		in, err := readFileInput(path, opts.index)
		if err == nil {
			err = c.runRender(ctx, stdout, in, opts, changed)
		}
		if err != nil {
			printError("%v", err)
		}
	}

	render()
	printInfo("Watching %s (ctrl+c to stop)", StyleHighlight.Render(path))

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) == path && (ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				logger.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
				debounce = time.After(watchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-trigger:
			debounce = time.After(watchDebounce)
		case <-debounce:
			debounce = nil
			render()
		}
	}
}

func readFileInput(path string, index int) (input, error) {
	f, err := os.Open(path)
	if err != nil {
		return input{}, err
	}
	defer f.Close()
	text, err := pickEntry(f, path, index)
	return input{Text: text, Name: path, File: true}, err
}

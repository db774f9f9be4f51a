// Package cli implements the g6viz command-line interface.
//
// This package provides commands for rendering graph6 graphs, inspecting and
// encoding them, watching input files, browsing multi-graph files, serving
// the HTTP API and managing the render cache and history. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Draw a graph to SVG, JSON, DOT or PNG
//   - inspect: Print vertex, edge and degree information
//   - encode: Build graph6 text from an edge list
//   - watch: Re-render whenever the input or style file changes
//   - browse: Pick a graph from a multi-graph file interactively
//   - serve: Run the HTTP service
//   - history: List past renders
//   - cache: Manage the layout and artifact cache
//
// # Logging
//
// Logs go to stderr and never mix with artifacts written to stdout. The
// persistent flags --verbose (-v) and --quiet (-q) select debug or warning
// level, and --log-format switches between text, logfmt and json, which
// suits serve behind a log collector. The configured logger travels through
// context.Context.
//
// # Example
//
//	import "github.com/matzehuels/g6viz/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
)

// logFormats maps --log-format values to formatters.
var logFormats = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"logfmt": log.LogfmtFormatter,
	"json":   log.JSONFormatter,
}

// newLogger returns a text logger writing to w with "HH:MM:SS.cc" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// configureLogger applies the logging flags. Without -v or -q the level the
// CLI was created with is kept.
func configureLogger(l *log.Logger, verbose, quiet bool, format string) error {
	f, ok := logFormats[format]
	if !ok {
		names := make([]string, 0, len(logFormats))
		for name := range logFormats {
			names = append(names, name)
		}
		slices.Sort(names)
		return fmt.Errorf("invalid log format %q (must be one of: %v)", format, names)
	}
	l.SetFormatter(f)
	switch {
	case verbose:
		l.SetLevel(LogDebug)
	case quiet:
		l.SetLevel(LogWarn)
	}
	return nil
}

// progress times one render and logs its outcome with structured fields.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time in milliseconds precision.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger set by the root command, or
// log.Default for commands run without it.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

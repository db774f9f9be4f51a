// Package pkg provides the core libraries for g6viz graph6 visualization.
//
// # Overview
//
// g6viz turns graphs written in the graph6 format into drawings. A graph is
// decoded into an immutable structure, laid out with a force-directed
// simulation, optionally annotated with highlighted vertices and edges, and
// written as SVG, JSON, DOT or PNG. The pkg directory is organized into three
// areas:
//
//  1. Domain logic: [graph], [graph6], [layout], [highlight], [style]
//  2. Output: [render/sink]
//  3. Infrastructure: [pipeline], [cache], [archive], [observability], [errors]
//
// # Architecture
//
// The typical data flow through g6viz:
//
//	graph6 text
//	     ↓
//	[graph6] package (decode into [graph.Graph])
//	     ↓
//	[layout] package (force-directed coordinates, optional grid snapping)
//	     ↓
//	[highlight] package (parse selectors, resolve against the graph)
//	     ↓
//	[render/sink] package (SVG/JSON/DOT/PNG output)
//
// # Quick Start
//
// Decode, lay out and draw a 5-cycle with one highlighted edge:
//
//	import (
//	    "github.com/matzehuels/g6viz/pkg/graph6"
//	    "github.com/matzehuels/g6viz/pkg/highlight"
//	    "github.com/matzehuels/g6viz/pkg/layout"
//	    "github.com/matzehuels/g6viz/pkg/render/sink"
//	    "github.com/matzehuels/g6viz/pkg/style"
//	)
//
//	g, _ := graph6.Decode("Dhc")
//	coords := layout.Compute(g, layout.DefaultOptions())
//	sels, _ := highlight.ParseSelectors("0-2")
//	hl, _ := highlight.Resolve(g, sels)
//	svg, _ := sink.RenderSVG(g, coords, hl, style.Default())
//
// [pipeline.Runner] does the same with caching and per-stage hooks, and is
// what the CLI and the HTTP service use.
//
// # Main Packages
//
// [graph] - Immutable simple undirected graph with canonical edge order.
//
// [graph6] - graph6 decoding and encoding, including multi-graph files.
//
// [layout] - Deterministic spring-electrical layout normalized to a canvas,
// with optional snapping to a square or circular grid.
//
// [highlight] - Selector grammar for vertices and edges and its resolution
// into a sorted highlight set.
//
// [style] - Drawing configuration loaded from TOML, YAML or JSON, with live
// reload for the watch command.
//
// [render/sink] - Output writers. SVG and JSON are pure Go, DOT and PNG go
// through Graphviz.
//
// [pipeline] - Decode → layout → resolve → render with layout and artifact
// caching.
//
// [cache] - File, Redis and null cache backends plus content-addressed keys.
//
// [archive] - Render history in memory, SQLite or MongoDB.
//
// [observability] - Hook interfaces the server implements with Prometheus.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/graph6/...             # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Redis and MongoDB tests run when G6VIZ_TEST_REDIS_URL and
// G6VIZ_TEST_MONGO_URI point at live servers.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/graph
// [graph6]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/graph6
// [layout]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/layout
// [highlight]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/highlight
// [style]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/style
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/cache
// [archive]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/archive
// [observability]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/errors
//
// [graph.Graph]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/graph#Graph
package pkg

// Package render groups the output backends for laid-out graphs.
//
// # Overview
//
// Rendering takes a graph, its canvas coordinates, a resolved highlight set
// and a style, and produces bytes. All writers live in [sink]:
//
//   - SVG via svgo, with vertex and edge IDs on request
//   - JSON layout documents that round-trip through [sink.ReadJSON]
//   - DOT with pinned positions for Graphviz
//   - PNG by running DOT through the embedded Graphviz NEATO engine
//
// A typical call sequence:
//
//	svg, err := sink.RenderSVG(g, coords, hl, style.Default())
//	dot, err := sink.ToDOT(g, coords, hl, style.Default())
//	png, err := sink.RenderPNG(ctx, dot)
//
// [sink]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/render/sink
// [sink.ReadJSON]: https://pkg.go.dev/github.com/matzehuels/g6viz/pkg/render/sink#ReadJSON
package render

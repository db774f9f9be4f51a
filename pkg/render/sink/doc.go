// Package sink turns a laid-out, highlighted graph into output documents.
//
// Every sink takes the same inputs: the [graph.Graph], its
// [layout.Coordinates], an optional [highlight.Set] (nil means nothing is
// highlighted) and a [style.Config]. Coordinates are translated so the
// drawing's bounding box sits Margin pixels inside the canvas.
//
// # Formats
//
//   - [RenderSVG]: standalone SVG drawn with ajstarks/svgo
//   - [RenderJSON]: layout document that [ReadJSON] reads back
//   - [ToDOT]: Graphviz source with pinned neato positions
//   - [RenderPNG]: raster image of a DOT document via go-graphviz
//
// All sinks are deterministic. Edges are drawn before vertices and
// highlighted elements after plain ones, so highlights are never covered.
package sink

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/layout"
)

// GenerateLayout computes coordinates for g. It returns early with the
// context's error when ctx is canceled mid-simulation.
func GenerateLayout(ctx context.Context, g *graph.Graph, opts Options) (layout.Coordinates, error) {
	return layout.ComputeContext(ctx, g, opts.Layout)
}

// MarshalCoords serializes coordinates for the cache. encoding/json keeps
// float64 values exact, so a cached layout renders byte-identically.
func MarshalCoords(c layout.Coordinates) ([]byte, error) {
	return json.Marshal(c)
}

// UnmarshalCoords reads coordinates written by [MarshalCoords] and checks
// that they fit a graph with n vertices.
func UnmarshalCoords(data []byte, n int) (layout.Coordinates, error) {
	var c layout.Coordinates
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if len(c) != n {
		return nil, fmt.Errorf("cached layout has %d positions, want %d", len(c), n)
	}
	return c, nil
}

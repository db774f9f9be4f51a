package pipeline

import (
	"testing"

	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/highlight"
)

func resolveText(t *testing.T, g *graph.Graph, expr string) (*highlight.Set, error) {
	t.Helper()
	sels, err := highlight.ParseSelectors(expr)
	if err != nil {
		t.Fatalf("ParseSelectors(%q): %v", expr, err)
	}
	hl, err := highlight.Resolve(g, sels)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", expr, err)
	}
	return hl, nil
}

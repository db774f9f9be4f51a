package pipeline

import (
	"github.com/matzehuels/g6viz/pkg/cache"
	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/graph6"
	"github.com/matzehuels/g6viz/pkg/highlight"
)

// Decode parses graph6 text and returns the graph together with its
// canonical encoding and the hash used to key cached layouts.
func Decode(text string) (g *graph.Graph, canonical, hash string, err error) {
	g, err = graph6.Decode(text)
	if err != nil {
		return nil, "", "", err
	}
	canonical = graph6.Encode(g)
	return g, canonical, cache.Hash([]byte(canonical)), nil
}

// Selectors collects the selectors named by opts.Highlight and
// opts.HighlightGraph6, in that order.
func Selectors(g *graph.Graph, opts Options) ([]highlight.Selector, error) {
	sels, err := highlight.ParseSelectors(opts.Highlight)
	if err != nil {
		return nil, err
	}
	if opts.HighlightGraph6 != "" {
		sub, err := highlight.FromGraph6(g, opts.HighlightGraph6)
		if err != nil {
			return nil, err
		}
		sels = append(sels, sub...)
	}
	return sels, nil
}

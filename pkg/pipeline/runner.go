package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/g6viz/pkg/cache"
	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/highlight"
	"github.com/matzehuels/g6viz/pkg/layout"
	"github.com/matzehuels/g6viz/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the watch loop and the server all go through it.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete decode → layout → resolve → render pipeline
// with caching. The context is checked between stages.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	hooks := observability.Pipeline()

	result := &Result{}

	// Stage 1: Decode
	opts.stage("decode")
	start := time.Now()
	hooks.OnDecodeStart(ctx, len(opts.Graph6))
	g, canonical, hash, err := Decode(opts.Graph6)
	result.Stats.DecodeTime = time.Since(start)
	if err != nil {
		hooks.OnDecodeComplete(ctx, 0, 0, result.Stats.DecodeTime, err)
		return nil, fmt.Errorf("decode: %w", err)
	}
	hooks.OnDecodeComplete(ctx, g.VertexCount(), g.EdgeCount(), result.Stats.DecodeTime, nil)
	result.Graph = g
	result.Graph6 = canonical
	result.GraphHash = hash
	result.Stats.Vertices = g.VertexCount()
	result.Stats.Edges = g.EdgeCount()

	logger.Debug("decoded graph6",
		"vertices", g.VertexCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.DecodeTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Layout
	opts.stage("layout")
	start = time.Now()
	layoutKey := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())
	coords, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, layoutKey, opts)
	result.Stats.LayoutTime = time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Coords = coords
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"vertices", g.VertexCount(),
		"options", opts.Layout.String(),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Resolve
	opts.stage("highlight")
	start = time.Now()
	hl, nsel, err := resolve(g, opts)
	result.Stats.ResolveTime = time.Since(start)
	hooks.OnResolveComplete(ctx, nsel, result.Stats.ResolveTime, err)
	if err != nil {
		return nil, fmt.Errorf("highlight: %w", err)
	}
	result.Highlight = hl
	result.Stats.Highlighted = hl.Len()

	if !hl.Empty() {
		logger.Debug("resolved highlight", "set", hl.String())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 4: Render
	start = time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, coords, hl, layoutKey, opts)
	result.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// resolve returns the highlight set and the number of selectors it was
// built from.
func resolve(g *graph.Graph, opts Options) (*highlight.Set, int, error) {
	sels, err := Selectors(g, opts)
	if err != nil {
		return nil, 0, err
	}
	hl, err := highlight.Resolve(g, sels)
	return hl, len(sels), err
}

// LayoutWithCacheInfo computes coordinates with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *graph.Graph, key string, opts Options) (layout.Coordinates, bool, error) {
	cacheHooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			coords, err := UnmarshalCoords(data, g.VertexCount())
			if err == nil {
				cacheHooks.OnCacheHit(ctx, "layout")
				return coords, true, nil
			}
			// If deserialization fails, fall through to recompute
			r.Logger.Debug("discarding cached layout", "key", key, "error", err)
		} else if err != nil {
			r.Logger.Warn("layout cache read failed", "error", err)
		}
		cacheHooks.OnCacheMiss(ctx, "layout")
	}

	observability.Pipeline().OnLayoutStart(ctx, g.VertexCount())
	start := time.Now()
	coords, err := GenerateLayout(ctx, g, opts)
	observability.Pipeline().OnLayoutComplete(ctx, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := MarshalCoords(coords); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err == nil {
			cacheHooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return coords, false, nil
}

// RenderWithCacheInfo renders every requested format, reusing cached
// artifacts, and reports whether all of them came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, coords layout.Coordinates, hl *highlight.Set, layoutKey string, opts Options) (map[string][]byte, bool, error) {
	cacheHooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutKey, opts.ArtifactKeyOpts(format, hl))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				cacheHooks.OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			cacheHooks.OnCacheMiss(ctx, "artifact")
		}
		allCached = false

		opts.stage("render " + format)
		data, err := RenderFormat(ctx, format, g, coords, hl, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			cacheHooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, allCached, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

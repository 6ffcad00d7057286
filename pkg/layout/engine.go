// Package layout assigns positions to an evolving node/edge set using a
// layered (hierarchical) algorithm.
//
// The heavy lifting is done by Graphviz dot via goccy/go-graphviz: nodes
// are assigned to horizontal ranks top-to-bottom by graph distance from a
// root, then given x coordinates by dot's crossing-minimization heuristic.
// That within-rank order is provisional - the order package re-sorts it by
// insertion order afterwards.
//
// Given the same node/edge set and insertion sequence, output is
// reproducible: nodes are fed to dot in insertion order and dot has no
// randomized tie-breaking.
package layout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/canopyviz/canopy/pkg/cache"
	"github.com/canopyviz/canopy/pkg/graph"
	"github.com/canopyviz/canopy/pkg/observability"
)

// formatPlain is Graphviz's line-oriented text output, the cheapest format
// to parse positions back out of.
const formatPlain = graphviz.Format("plain")

// cacheKeyType tags cache hook events from this package.
const cacheKeyType = "layout"

// Engine computes layered layouts.
//
// Engine is safe for concurrent use: each Layout call creates its own
// Graphviz instance and the cache backends synchronize themselves.
type Engine struct {
	cache    cache.Cache
	cacheTTL time.Duration
}

// Options configures an Engine.
type Options struct {
	// Cache holds previously computed positions keyed by DOT hash.
	// Nil disables caching.
	Cache cache.Cache
	// CacheTTL bounds the lifetime of cached layouts. Zero means no
	// expiration.
	CacheTTL time.Duration
}

// New creates an Engine.
func New(opts Options) *Engine {
	c := opts.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Engine{cache: c, cacheTTL: opts.CacheTTL}
}

// Layout assigns a position to every node of g, in place.
//
// Positions are top-left anchored pixels: dot's center-anchored,
// bottom-up inch coordinates are translated by half the fixed box size and
// flipped. An empty graph is a no-op.
func (e *Engine) Layout(ctx context.Context, g *graph.Graph) error {
	count := g.NodeCount()
	observability.Layout().OnLayoutStart(ctx, count)
	start := time.Now()

	err := e.layout(ctx, g)
	observability.Layout().OnLayoutComplete(ctx, count, time.Since(start), err)
	return err
}

func (e *Engine) layout(ctx context.Context, g *graph.Graph) error {
	if g.NodeCount() == 0 {
		return nil
	}

	dot, ids := BuildDOT(g)
	key := cache.LayoutKey(dot)

	if positions, ok := e.cached(ctx, key); ok {
		observability.Cache().OnCacheHit(ctx, cacheKeyType)
		return apply(g, positions)
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	out, err := e.run(ctx, dot)
	if err != nil {
		return err
	}
	pg, err := parsePlain(out)
	if err != nil {
		return err
	}

	positions := make(map[string]graph.Position, len(ids))
	for i, id := range ids {
		pn, ok := pg.nodes[fmt.Sprintf("n%d", i)]
		if !ok {
			return fmt.Errorf("node %s missing from layout output", id)
		}
		x, y := pg.toPixels(pn)
		positions[id] = graph.Position{X: x, Y: y}
	}

	e.store(ctx, key, positions)
	return apply(g, positions)
}

// run renders the DOT text to plain format through Graphviz.
func (e *Engine) run(ctx context.Context, dot string) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	gr, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return "", fmt.Errorf("parse DOT: %w", err)
	}
	defer gr.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, gr, formatPlain, &buf); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return buf.String(), nil
}

// apply writes positions into the graph's nodes.
func apply(g *graph.Graph, positions map[string]graph.Position) error {
	for id, pos := range positions {
		n, ok := g.Node(id)
		if !ok {
			return fmt.Errorf("position for unknown node %s", id)
		}
		n.Position = pos
	}
	return nil
}

// cached loads positions from the cache; a corrupt entry is a miss.
func (e *Engine) cached(ctx context.Context, key string) (map[string]graph.Position, bool) {
	data, ok, err := e.cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var positions map[string]graph.Position
	if err := json.Unmarshal(data, &positions); err != nil {
		_ = e.cache.Delete(ctx, key)
		return nil, false
	}
	return positions, true
}

// store writes positions to the cache; failures are ignored since the
// cache is an optimization.
func (e *Engine) store(ctx context.Context, key string, positions map[string]graph.Position) {
	data, err := json.Marshal(positions)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, key, data, e.cacheTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
	}
}

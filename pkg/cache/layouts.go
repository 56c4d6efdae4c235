package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/whtopo/pkg/layout"
	"github.com/matzehuels/whtopo/pkg/observability"
	"github.com/matzehuels/whtopo/pkg/topo"
)

// Layouts memoizes layout.Run on top of a Cache.
type Layouts struct {
	c   Cache
	ttl time.Duration
}

// NewLayouts wraps c. Entries expire after ttl; zero keeps them forever.
func NewLayouts(c Cache, ttl time.Duration) *Layouts {
	if c == nil {
		c = NullCache{}
	}
	return &Layouts{c: c, ttl: ttl}
}

type cachedResult struct {
	Nodes     []topo.Node `json:"nodes"`
	Edges     []topo.Edge `json:"edges"`
	Ranks     int         `json:"ranks"`
	Crossings int         `json:"crossings"`
}

// Run returns the cached result for the inputs, computing and storing it on
// a miss. Backend failures degrade to an uncached run; only layout errors
// are returned.
func (l *Layouts) Run(ctx context.Context, strategy string, cfg layout.Config, nodes []topo.Node, edges []topo.Edge) (layout.Result, bool, error) {
	hooks := observability.Cache()
	key := LayoutKey(strategy, cfg, nodes, edges)

	if data, ok, err := l.c.Get(ctx, key); err == nil && ok {
		var cr cachedResult
		if json.Unmarshal(data, &cr) == nil {
			hooks.OnCacheHit(ctx, strategy)
			return layout.Result{Nodes: cr.Nodes, Edges: cr.Edges, Ranks: cr.Ranks, Crossings: cr.Crossings}, true, nil
		}
	}
	hooks.OnCacheMiss(ctx, strategy)

	res, err := layout.Run(ctx, strategy, cfg, nodes, edges)
	if err != nil {
		return layout.Result{}, false, err
	}

	data, err := json.Marshal(cachedResult{Nodes: res.Nodes, Edges: res.Edges, Ranks: res.Ranks, Crossings: res.Crossings})
	if err == nil && l.c.Set(ctx, key, data, l.ttl) == nil {
		hooks.OnCacheSet(ctx, strategy, len(data))
	}
	return res, false, nil
}

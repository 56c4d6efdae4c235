package layout

import "github.com/matzehuels/whtopo/pkg/topo"

// Direction is the axis along which ranks advance.
type Direction int

const (
	TopToBottom Direction = iota
	LeftToRight
)

// Ranked is the ranked layout pipeline shared by the hierarchical,
// horizontal and smart strategies.
type Ranked struct {
	cfg      RankedConfig
	dir      Direction
	maxIter  int
	weight   func(nodes map[string]topo.Node, e topo.Edge) int
	fallback Layouter
}

// NewHierarchical returns the top-to-bottom ranked strategy.
func NewHierarchical(cfg Config) *Ranked {
	return &Ranked{cfg: cfg.Hierarchical, dir: TopToBottom, maxIter: cfg.MaxIterations}
}

// NewHorizontal returns the left-to-right ranked strategy. Above
// cfg.Horizontal.FlowAbove nodes it delegates to the flow strategy.
func NewHorizontal(cfg Config) *Ranked {
	return &Ranked{cfg: cfg.Horizontal, dir: LeftToRight, maxIter: cfg.MaxIterations, fallback: NewFlow(cfg.Flow)}
}

// NewSmart returns the left-to-right ranked strategy whose ordering is
// weighted by warehouse importance.
func NewSmart(cfg Config) *Ranked {
	w := cfg.Weights
	return &Ranked{
		cfg:     cfg.Smart,
		dir:     LeftToRight,
		maxIter: cfg.MaxIterations,
		weight: func(nodes map[string]topo.Node, e topo.Edge) int {
			if e.Data.Default {
				return w.Default
			}
			if nodes[e.Source].Data.Type == topo.TypeScanner || nodes[e.Target].Data.Type == topo.TypeScanner {
				return w.Scanner
			}
			return 1
		},
	}
}

// Layout implements [Layouter].
func (r *Ranked) Layout(nodes []topo.Node, edges []topo.Edge) Result {
	n := len(nodes)
	if r.fallback != nil && r.cfg.FlowAbove > 0 && n > r.cfg.FlowAbove {
		return r.fallback.Layout(nodes, edges)
	}

	var idx *topo.Index
	if r.weight != nil {
		byID := make(map[string]topo.Node, n)
		for _, nd := range nodes {
			byID[nd.ID] = nd
		}
		idx = topo.NewWeightedIndex(nodes, edges, func(e topo.Edge) int { return r.weight(byID, e) })
	} else {
		idx = topo.NewIndex(nodes, edges)
	}

	layers, crossings := OrderRanks(idx, AssignRanks(idx), max(r.maxIter, 1))

	res := Result{
		Nodes:     place(nodes, r.coordinates(layers, n)),
		Ranks:     len(layers),
		Crossings: crossings,
	}
	if r.cfg.Route {
		res.Edges = route(edges, r.cfg.EdgeOffset, r.cfg.EdgeRadius, r.cfg.StrokeWidth, true)
	} else {
		res.Edges = topo.CloneEdges(edges)
	}
	return res
}

// coordinates spreads every layer along its axis, centered on the widest
// layer, and advances layers by node depth plus rank separation.
func (r *Ranked) coordinates(layers [][]string, n int) map[string]topo.Position {
	w, h := r.cfg.nodeSize(n)
	t := r.cfg.tier(n)

	// along: the axis within a rank; across: the axis between ranks
	along, across := w, h
	if r.dir == LeftToRight {
		along, across = h, w
	}

	span := func(k int) float64 {
		if k == 0 {
			return 0
		}
		return float64(k)*along + float64(k-1)*t.NodeSep
	}
	widest := 0.0
	for _, l := range layers {
		widest = max(widest, span(len(l)))
	}

	out := make(map[string]topo.Position, n)
	for ri, l := range layers {
		a := r.cfg.Margin + float64(ri)*(across+t.RankSep)
		start := r.cfg.Margin + (widest-span(len(l)))/2
		for i, id := range l {
			b := start + float64(i)*(along+t.NodeSep)
			if r.dir == LeftToRight {
				out[id] = topo.Position{X: a, Y: b}
			} else {
				out[id] = topo.Position{X: b, Y: a}
			}
		}
	}
	return out
}

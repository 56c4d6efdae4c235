package layout

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/whtopo/pkg/errors"
	"github.com/matzehuels/whtopo/pkg/observability"
	"github.com/matzehuels/whtopo/pkg/topo"
)

// Strategy names.
const (
	Hierarchical = "hierarchical"
	Horizontal   = "horizontal"
	Smart        = "smart"
	Grid         = "grid"
	Radial       = "radial"
	Flow         = "flow"
)

// Layouter positions nodes. Implementations must not mutate their inputs.
type Layouter interface {
	Layout(nodes []topo.Node, edges []topo.Edge) Result
}

// Result is the output of a layout. Nodes follow input order and Edges are
// fresh copies, possibly carrying routing hints.
type Result struct {
	Nodes []topo.Node
	Edges []topo.Edge

	// Ranks is the number of non-empty ranks (ranked strategies only).
	Ranks int
	// Crossings is the weighted crossing count of the final ordering
	// (ranked strategies only).
	Crossings int
}

var constructors = map[string]func(Config) Layouter{
	Hierarchical: func(c Config) Layouter { return NewHierarchical(c) },
	Horizontal:   func(c Config) Layouter { return NewHorizontal(c) },
	Smart:        func(c Config) Layouter { return NewSmart(c) },
	Grid:         func(c Config) Layouter { return NewGrid(c.Grid) },
	Radial:       func(c Config) Layouter { return NewRadial(c.Radial) },
	Flow:         func(c Config) Layouter { return NewFlow(c.Flow) },
}

// Names returns the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns the strategy registered under name.
func Get(name string, cfg Config) (Layouter, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownLayout, "unknown layout %q (available: %v)", name, Names())
	}
	return ctor(cfg), nil
}

// Run looks up a strategy and applies it, reporting to the registered
// observability hooks.
func Run(ctx context.Context, name string, cfg Config, nodes []topo.Node, edges []topo.Edge) (Result, error) {
	l, err := Get(name, cfg)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, name, len(nodes))
	start := time.Now()
	res := l.Layout(nodes, edges)
	hooks.OnLayoutComplete(ctx, name, len(nodes), time.Since(start), nil)
	return res, nil
}

// place copies nodes in input order with positions looked up by ID.
// Nodes absent from positions keep their current position.
func place(nodes []topo.Node, positions map[string]topo.Position) []topo.Node {
	out := topo.CloneNodes(nodes)
	for i := range out {
		if p, ok := positions[out[i].ID]; ok {
			out[i].Position = p
		}
	}
	return out
}

// route copies edges with a smoothstep routing hint. When force is set the
// stroke width becomes width; otherwise only a zero width is defaulted.
func route(edges []topo.Edge, offset, radius, width float64, force bool) []topo.Edge {
	out := topo.CloneEdges(edges)
	for i := range out {
		out[i].Routing = &topo.Routing{Style: "smoothstep", Offset: offset, BorderRadius: radius}
		if force || out[i].Style.StrokeWidth == 0 {
			out[i].Style.StrokeWidth = width
		}
	}
	return out
}

package layout

import (
	"math"

	"github.com/matzehuels/whtopo/pkg/topo"
)

// GridLayout places nodes on a square grid in input order.
type GridLayout struct{ cfg GridConfig }

// NewGrid returns the grid strategy.
func NewGrid(cfg GridConfig) *GridLayout { return &GridLayout{cfg: cfg} }

// Layout implements [Layouter]. The grid has ceil(sqrt(n)) columns.
func (g *GridLayout) Layout(nodes []topo.Node, edges []topo.Edge) Result {
	out := topo.CloneNodes(nodes)
	cols := int(math.Ceil(math.Sqrt(float64(len(nodes)))))
	for i := range out {
		out[i].Position = topo.Position{
			X: float64(i%cols)*g.cfg.Spacing + g.cfg.Offset,
			Y: float64(i/cols)*g.cfg.Spacing + g.cfg.Offset,
		}
	}
	return Result{Nodes: out, Edges: topo.CloneEdges(edges)}
}

// RadialLayout spaces nodes evenly on a circle, starting at angle 0 and
// proceeding in input order. It is the fallback for clustered topologies.
type RadialLayout struct{ cfg RadialConfig }

// NewRadial returns the radial strategy.
func NewRadial(cfg RadialConfig) *RadialLayout { return &RadialLayout{cfg: cfg} }

// Layout implements [Layouter].
func (r *RadialLayout) Layout(nodes []topo.Node, edges []topo.Edge) Result {
	out := topo.CloneNodes(nodes)
	n := float64(len(out))
	for i := range out {
		angle := 2 * math.Pi * float64(i) / n
		out[i].Position = topo.Position{
			X: r.cfg.CenterX + math.Cos(angle)*r.cfg.Radius,
			Y: r.cfg.CenterY + math.Sin(angle)*r.cfg.Radius,
		}
	}
	return Result{Nodes: out, Edges: topo.CloneEdges(edges)}
}

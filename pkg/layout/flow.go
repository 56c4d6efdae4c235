package layout

import (
	"cmp"
	"regexp"
	"slices"

	"github.com/matzehuels/whtopo/pkg/topo"
)

// FlowLayout traces conveyor chains and lays each chain out as one row.
//
// Entry nodes are nodes without incoming edges, nodes whose code matches
// the feeder pattern, and nodes flagged ptlFeed or ptlFeedControl. From each
// entry (in input order) a chain follows the first unvisited child until it
// runs out. Nodes not reached from any entry start chains of their own, so
// every node is placed exactly once. Longer chains come first.
type FlowLayout struct {
	cfg    FlowConfig
	feeder *regexp.Regexp
}

// NewFlow returns the flow strategy. An invalid feeder pattern disables
// code matching.
func NewFlow(cfg FlowConfig) *FlowLayout {
	f := &FlowLayout{cfg: cfg}
	if cfg.FeederPattern != "" {
		f.feeder, _ = regexp.Compile(cfg.FeederPattern)
	}
	return f
}

// IsEntry reports whether n starts a chain in idx.
func (f *FlowLayout) IsEntry(idx *topo.Index, n topo.Node) bool {
	if idx.InDegree(n.ID) == 0 {
		return true
	}
	if f.feeder != nil && f.feeder.MatchString(n.Data.Code) {
		return true
	}
	return n.Flag(topo.AttrPTLFeed) || n.Flag(topo.AttrPTLFeedControl)
}

// Chains returns the traced chains in placement order.
func (f *FlowLayout) Chains(nodes []topo.Node, edges []topo.Edge) [][]string {
	idx := topo.NewIndex(nodes, edges)
	visited := make(map[string]bool, idx.Len())

	trace := func(start string) []string {
		chain := []string{start}
		visited[start] = true
		for curr := start; ; {
			next := ""
			for _, c := range idx.Children(curr) {
				if !visited[c] {
					next = c
					break
				}
			}
			if next == "" {
				return chain
			}
			chain = append(chain, next)
			visited[next] = true
			curr = next
		}
	}

	var chains [][]string
	for _, id := range idx.IDs() {
		n, _ := idx.Node(id)
		if !visited[id] && f.IsEntry(idx, n) {
			chains = append(chains, trace(id))
		}
	}
	for _, id := range idx.IDs() {
		if !visited[id] {
			chains = append(chains, trace(id))
		}
	}

	slices.SortStableFunc(chains, func(a, b []string) int { return cmp.Compare(len(b), len(a)) })
	return chains
}

// Layout implements [Layouter].
func (f *FlowLayout) Layout(nodes []topo.Node, edges []topo.Edge) Result {
	chains := f.Chains(nodes, edges)
	positions := make(map[string]topo.Position, len(nodes))
	y := f.cfg.StartY
	for _, chain := range chains {
		x := f.cfg.StartX
		for _, id := range chain {
			positions[id] = topo.Position{X: x, Y: y}
			x += f.cfg.NodePitch
		}
		y += f.cfg.RowPitch
	}
	return Result{
		Nodes: place(nodes, positions),
		Edges: route(edges, f.cfg.EdgeOffset, f.cfg.EdgeRadius, f.cfg.StrokeWidth, false),
	}
}

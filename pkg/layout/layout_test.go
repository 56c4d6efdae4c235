package layout

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/matzehuels/whtopo/pkg/errors"
	"github.com/matzehuels/whtopo/pkg/topo"
)

func node(id string, typ topo.NodeType) topo.Node {
	return topo.NewNode(id, typ, id, 0)
}

func edge(src, dst string) topo.Edge {
	return topo.NewEdge(src+"->"+dst, topo.Connection{Source: src, Target: dst})
}

func chain(n int) ([]topo.Node, []topo.Edge) {
	nodes := make([]topo.Node, n)
	var edges []topo.Edge
	for i := range nodes {
		nodes[i] = node(fmt.Sprintf("n%d", i), topo.TypeSimple)
		if i > 0 {
			edges = append(edges, edge(nodes[i-1].ID, nodes[i].ID))
		}
	}
	return nodes, edges
}

func TestRunAllStrategiesEmpty(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			res, err := Run(context.Background(), name, DefaultConfig(), nil, nil)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if len(res.Nodes) != 0 || len(res.Edges) != 0 {
				t.Errorf("got %d nodes, %d edges, want none", len(res.Nodes), len(res.Edges))
			}
		})
	}
}

func TestRunUnknown(t *testing.T) {
	_, err := Run(context.Background(), "force-directed", DefaultConfig(), nil, nil)
	if !errors.Is(err, errors.ErrCodeUnknownLayout) {
		t.Fatalf("err = %v, want UNKNOWN_LAYOUT", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, Grid, DefaultConfig(), nil, nil); err == nil {
		t.Fatal("expected context error")
	}
}

func TestNames(t *testing.T) {
	want := []string{Flow, Grid, Hierarchical, Horizontal, Radial, Smart}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestLayoutsAreDeterministicAndPure(t *testing.T) {
	nodes := []topo.Node{
		node("a", topo.TypeFeed), node("b", topo.TypeScanner), node("c", topo.TypeSimple),
		node("d", topo.TypeEject), node("e", topo.TypeSimple),
	}
	edges := []topo.Edge{edge("a", "b"), edge("b", "c"), edge("b", "d"), edge("a", "e"), edge("e", "d")}
	edges[3].Data.Default = true

	origNodes := topo.CloneNodes(nodes)
	origEdges := topo.CloneEdges(edges)

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			first, err := Run(context.Background(), name, DefaultConfig(), nodes, edges)
			if err != nil {
				t.Fatal(err)
			}
			second, _ := Run(context.Background(), name, DefaultConfig(), nodes, edges)
			if !reflect.DeepEqual(first, second) {
				t.Error("layout is not deterministic")
			}
			if !reflect.DeepEqual(nodes, origNodes) || !reflect.DeepEqual(edges, origEdges) {
				t.Error("layout mutated its input")
			}
			for i, n := range first.Nodes {
				if n.ID != nodes[i].ID {
					t.Errorf("node %d = %s, want input order %s", i, n.ID, nodes[i].ID)
				}
			}
			if len(first.Edges) != len(edges) {
				t.Errorf("got %d edges, want %d", len(first.Edges), len(edges))
			}
		})
	}
}

func TestHierarchicalGeometry(t *testing.T) {
	// a -> b, a -> c: one parent centered over two children.
	nodes := []topo.Node{node("a", topo.TypeSimple), node("b", topo.TypeSimple), node("c", topo.TypeSimple)}
	edges := []topo.Edge{edge("a", "b"), edge("a", "c")}

	res := NewHierarchical(DefaultConfig()).Layout(nodes, edges)
	got := map[string]topo.Position{}
	for _, n := range res.Nodes {
		got[n.ID] = n.Position
	}

	// Small tier: nodesep 50, ranksep 80, node 120x80, margin 10.
	want := map[string]topo.Position{
		"a": {X: 10 + 85, Y: 10},
		"b": {X: 10, Y: 10 + 80 + 80},
		"c": {X: 10 + 120 + 50, Y: 10 + 80 + 80},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("positions = %v, want %v", got, want)
	}
	if res.Ranks != 2 {
		t.Errorf("Ranks = %d, want 2", res.Ranks)
	}
	for _, e := range res.Edges {
		if e.Routing == nil || e.Routing.Style != "smoothstep" || e.Routing.Offset != 20 || e.Routing.BorderRadius != 10 {
			t.Errorf("edge %s routing = %+v", e.ID, e.Routing)
		}
		if e.Style.StrokeWidth != 2 {
			t.Errorf("edge %s stroke width = %v, want 2", e.ID, e.Style.StrokeWidth)
		}
	}
}

func TestHorizontalAdvancesAlongX(t *testing.T) {
	nodes, edges := chain(3)
	res := NewHorizontal(DefaultConfig()).Layout(nodes, edges)
	for i := 1; i < len(res.Nodes); i++ {
		if res.Nodes[i].Position.X <= res.Nodes[i-1].Position.X {
			t.Errorf("node %d not right of its parent: %v", i, res.Nodes[i].Position)
		}
		if res.Nodes[i].Position.Y != res.Nodes[0].Position.Y {
			t.Errorf("single chain should share one row")
		}
	}
	// Small tier: node width 150, ranksep 120.
	if dx := res.Nodes[1].Position.X - res.Nodes[0].Position.X; dx != 270 {
		t.Errorf("rank pitch = %v, want 270", dx)
	}
}

func TestHorizontalDelegatesToFlow(t *testing.T) {
	nodes, edges := chain(81)
	res := NewHorizontal(DefaultConfig()).Layout(nodes, edges)
	if res.Ranks != 0 {
		t.Errorf("Ranks = %d, want flow result", res.Ranks)
	}
	if p := res.Nodes[80].Position; p.X != 50+80*80 || p.Y != 50 {
		t.Errorf("last chain node at %v", p)
	}
	if r := res.Edges[0].Routing; r == nil || r.Offset != 10 || r.BorderRadius != 8 {
		t.Errorf("routing = %+v, want flow hint", r)
	}
}

func TestHorizontalCompactNodes(t *testing.T) {
	nodes, edges := chain(51)
	res := NewHorizontal(DefaultConfig()).Layout(nodes, edges)
	// Medium tier: ranksep 80, compact width 100.
	if dx := res.Nodes[1].Position.X - res.Nodes[0].Position.X; dx != 180 {
		t.Errorf("rank pitch = %v, want 180", dx)
	}
}

func TestSmartLeavesEdgesUnrouted(t *testing.T) {
	nodes := []topo.Node{node("a", topo.TypeSimple), node("b", topo.TypeScanner)}
	edges := []topo.Edge{edge("a", "b")}
	res := NewSmart(DefaultConfig()).Layout(nodes, edges)
	if res.Edges[0].Routing != nil {
		t.Errorf("smart layout should not attach routing")
	}
	// LR, margin 80, node 80, small tier ranksep 280.
	if got := res.Nodes[1].Position; got.X != 80+80+280 || got.Y != 80 {
		t.Errorf("b at %v", got)
	}
}

func TestGridPositions(t *testing.T) {
	nodes, _ := chain(5)
	res := NewGrid(DefaultConfig().Grid).Layout(nodes, nil)
	want := []topo.Position{{X: 100, Y: 100}, {X: 250, Y: 100}, {X: 400, Y: 100}, {X: 100, Y: 250}, {X: 250, Y: 250}}
	for i, n := range res.Nodes {
		if n.Position != want[i] {
			t.Errorf("node %d at %v, want %v", i, n.Position, want[i])
		}
	}
}

func TestRadialPositions(t *testing.T) {
	nodes, _ := chain(4)
	res := NewRadial(DefaultConfig().Radial).Layout(nodes, nil)
	const eps = 1e-9
	want := []topo.Position{{X: 600, Y: 300}, {X: 400, Y: 500}, {X: 200, Y: 300}, {X: 400, Y: 100}}
	for i, n := range res.Nodes {
		if d := n.Position.X - want[i].X; d > eps || d < -eps {
			t.Errorf("node %d x = %v, want %v", i, n.Position.X, want[i].X)
		}
		if d := n.Position.Y - want[i].Y; d > eps || d < -eps {
			t.Errorf("node %d y = %v, want %v", i, n.Position.Y, want[i].Y)
		}
	}
}

func TestTierSelection(t *testing.T) {
	cfg := DefaultConfig().Hierarchical
	tests := []struct {
		n    int
		want Tier
	}{
		{0, Tier{0, 50, 80}},
		{50, Tier{0, 50, 80}},
		{51, Tier{50, 35, 60}},
		{100, Tier{50, 35, 60}},
		{101, Tier{100, 25, 50}},
	}
	for _, tt := range tests {
		if got := cfg.tier(tt.n); got != tt.want {
			t.Errorf("tier(%d) = %+v, want %+v", tt.n, got, tt.want)
		}
	}
}

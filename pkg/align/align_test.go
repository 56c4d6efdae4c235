package align

import (
	"reflect"
	"testing"

	"github.com/matzehuels/whtopo/pkg/topo"
)

func at(id string, x, y float64) topo.Node {
	n := topo.NewNode(id, topo.TypeSimple, id, 0)
	n.Position = topo.Position{X: x, Y: y}
	return n
}

func TestSnap(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name  string
		nodes []topo.Node
		pos   topo.Position
		want  topo.Position
	}{
		{
			name:  "left edge within threshold",
			nodes: []topo.Node{at("o", 100, 500)},
			pos:   topo.Position{X: 105, Y: 0},
			want:  topo.Position{X: 100, Y: 0},
		},
		{
			name:  "outside threshold unchanged",
			nodes: []topo.Node{at("o", 100, 500)},
			pos:   topo.Position{X: 120, Y: 0},
			want:  topo.Position{X: 120, Y: 0},
		},
		{
			name:  "left to other center",
			nodes: []topo.Node{at("o", 0, 500)},
			pos:   topo.Position{X: 30, Y: 0},
			want:  topo.Position{X: 32, Y: 0},
		},
		{
			name:  "right to other center",
			nodes: []topo.Node{at("o", 200, 500)},
			pos:   topo.Position{X: 170, Y: 0},
			want:  topo.Position{X: 168, Y: 0},
		},
		{
			name:  "closest candidate wins",
			nodes: []topo.Node{at("far", 107, 500), at("near", 102, 900)},
			pos:   topo.Position{X: 101, Y: 0},
			want:  topo.Position{X: 102, Y: 0},
		},
		{
			name:  "both axes",
			nodes: []topo.Node{at("o", 100, 200)},
			pos:   topo.Position{X: 96, Y: 207},
			want:  topo.Position{X: 100, Y: 200},
		},
		{
			name:  "textbox ignored",
			nodes: []topo.Node{topo.NewTextbox("t", "note", topo.Position{X: 100, Y: 100})},
			pos:   topo.Position{X: 101, Y: 101},
			want:  topo.Position{X: 101, Y: 101},
		},
		{
			name:  "dragged node ignored",
			nodes: []topo.Node{at("me", 100, 100)},
			pos:   topo.Position{X: 101, Y: 101},
			want:  topo.Position{X: 101, Y: 101},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Snap("me", tt.pos, tt.nodes, opts); got != tt.want {
				t.Errorf("Snap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGuides(t *testing.T) {
	nodes := []topo.Node{at("a", 100, 0), at("b", 100, 300), at("c", 400, 20)}
	got := Guides("me", topo.Position{X: 103, Y: 21}, nodes, DefaultOptions())
	want := Lines{X: []float64{132}, Y: []float64{52}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Guides = %+v, want %+v", got, want)
	}
}

func TestGuidesEmpty(t *testing.T) {
	got := Guides("me", topo.Position{X: 0, Y: 0}, []topo.Node{at("a", 500, 500)}, DefaultOptions())
	if !got.Empty() {
		t.Errorf("Guides = %+v, want none", got)
	}
}

func TestDragSession(t *testing.T) {
	nodes := []topo.Node{at("me", 0, 0), at("o", 100, 100)}
	d := NewDrag(DefaultOptions())

	if _, p := d.Move(topo.Position{X: 103, Y: 0}, nodes); p.X != 103 {
		t.Errorf("idle Move snapped to %v", p)
	}

	d.Begin("me")
	lines, p := d.Move(topo.Position{X: 103, Y: 400}, nodes)
	if p != (topo.Position{X: 100, Y: 400}) {
		t.Errorf("Move = %v, want snapped X", p)
	}
	if len(lines.X) != 1 || !d.Active() || d.ID() != "me" {
		t.Errorf("lines = %+v, active = %v", lines, d.Active())
	}

	d.End()
	if d.Active() || !d.Lines().Empty() {
		t.Error("End should clear the drag and its guides")
	}
}

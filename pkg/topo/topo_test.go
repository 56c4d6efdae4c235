package topo

import (
	"errors"
	"testing"
)

func TestParseNodeType(t *testing.T) {
	tests := []struct {
		in   string
		want NodeType
	}{
		{"SIMPLE", TypeSimple},
		{"Scanner", TypeScanner},
		{"eject", TypeEject},
		{"PTLZONE", TypePTLZone},
		{"ASRS_INFEED", TypeASRSInfeed},
		{"asrs-eject", TypeASRSEject},
		{" feed ", TypeFeed},
		{"conveyor", TypeSimple},
		{"", TypeSimple},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseNodeType(tt.in); got != tt.want {
				t.Errorf("ParseNodeType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNodeApplyDoesNotAlias(t *testing.T) {
	orig := NewNode("1", TypeScanner, "61", 61)
	orig.Data.Attrs["qc"] = "true"

	patched := orig.Apply(NodePatch{
		Code:        Ptr("62"),
		Position:    &Position{X: 5, Y: 6},
		Attrs:       map[string]string{"junction": "true"},
		RemoveAttrs: []string{"qc"},
	})

	if patched.Data.Code != "62" || patched.Position != (Position{X: 5, Y: 6}) {
		t.Errorf("patched = %+v", patched)
	}
	if patched.Attr("junction") != "true" || patched.Attr("qc") != "" {
		t.Errorf("patched attrs = %v", patched.Data.Attrs)
	}
	if orig.Data.Code != "61" || orig.Attr("qc") != "true" || orig.Attr("junction") != "" {
		t.Errorf("original was modified: %+v", orig)
	}
}

func TestEdgeApply(t *testing.T) {
	orig := NewEdge("e1", Connection{Source: "a", Target: "b"})
	patched := orig.Apply(EdgePatch{
		Capacity: Ptr(4),
		Default:  Ptr(true),
		Routing:  &Routing{Style: "smoothstep", Offset: 10},
	})
	if patched.Data.Capacity != 4 || !patched.Data.Default || patched.Routing == nil {
		t.Errorf("patched = %+v", patched)
	}
	if orig.Data.Capacity != DefaultCapacity || orig.Routing != nil {
		t.Errorf("original was modified: %+v", orig)
	}

	cleared := patched.Apply(EdgePatch{ClearRouting: true})
	if cleared.Routing != nil {
		t.Error("ClearRouting did not remove the hint")
	}
	if patched.Routing == nil {
		t.Error("ClearRouting modified the source edge")
	}
}

func TestCloneEdgesDeep(t *testing.T) {
	e := NewEdge("e1", Connection{Source: "a", Target: "b"})
	e.Routing = &Routing{Offset: 1}
	clones := CloneEdges([]Edge{e})
	clones[0].Routing.Offset = 99
	clones[0].Data.Attrs["x"] = "y"
	if e.Routing.Offset != 1 || e.Data.Attrs["x"] != "" {
		t.Error("CloneEdges shares state with its input")
	}
}

func TestLabel(t *testing.T) {
	n := NewNode("1", TypeSimple, "6101", 101)
	if got := n.Label(); got != "6101" {
		t.Errorf("Label() = %q", got)
	}
	n.Data.Attrs = map[string]string{"qc": "true", "junction": "true", "zone": "A"}
	if got, want := n.Label(), "6101\njunction, qc"; got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
	tb := NewTextbox("t", "Dock 3", Position{})
	if got := tb.Label(); got != "Dock 3" {
		t.Errorf("textbox Label() = %q", got)
	}
}

func TestValidConnection(t *testing.T) {
	edges := []Edge{NewEdge("e1", Connection{Source: "A", Target: "B"})}

	tests := []struct {
		name string
		conn Connection
		want error
	}{
		{"self loop", Connection{Source: "A", Target: "A"}, ErrSelfLoop},
		{"duplicate", Connection{Source: "A", Target: "B"}, ErrDuplicateConnection},
		{"reverse direction", Connection{Source: "B", Target: "A"}, nil},
		{"new pair", Connection{Source: "A", Target: "C"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidConnection(edges, tt.conn)
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidConnection() = %v, want %v", err, tt.want)
			}
			if tt.want != nil && !errors.Is(err, ErrInvalidConnection) {
				t.Errorf("error %v does not wrap ErrInvalidConnection", err)
			}
		})
	}
}

func TestValidateEdge(t *testing.T) {
	ok := NewEdge("e1", Connection{Source: "a", Target: "b"})
	if err := ValidateEdge(ok); err != nil {
		t.Fatalf("ValidateEdge(default) = %v", err)
	}

	bad := []Edge{
		ok.Apply(EdgePatch{Distance: Ptr(-1.0)}),
		ok.Apply(EdgePatch{Capacity: Ptr(0)}),
		ok.Apply(EdgePatch{PathType: Ptr(PathType("zigzag"))}),
		{ID: "e2", Source: "a"},
	}
	for i, e := range bad {
		if err := ValidateEdge(e); err == nil {
			t.Errorf("case %d: ValidateEdge(%+v) = nil, want error", i, e)
		}
	}
}

func TestValidateNode(t *testing.T) {
	if err := ValidateNode(NewNode("1", TypeEject, "E1", 1)); err != nil {
		t.Errorf("ValidateNode(valid) = %v", err)
	}
	if err := ValidateNode(NewNode("", TypeEject, "E1", 1)); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("ValidateNode(empty id) = %v, want ErrInvalidNodeID", err)
	}
	n := NewNode("1", NodeType("belt"), "B", 1)
	if err := ValidateNode(n); err == nil {
		t.Error("ValidateNode(unknown type) = nil")
	}
}

func TestCodeInUse(t *testing.T) {
	nodes := []Node{NewNode("1", TypeSimple, "61", 0), NewNode("2", TypeSimple, "62", 0)}
	if !CodeInUse(nodes, "61", "2") {
		t.Error("CodeInUse(61, exclude 2) = false")
	}
	if CodeInUse(nodes, "61", "1") {
		t.Error("CodeInUse(61, exclude 1) = true")
	}
}

func TestValidateGraph(t *testing.T) {
	a := NewNode("a", TypeFeed, "A", 1)
	b := NewNode("b", TypeEject, "B", 2)
	ab := NewEdge("e1", Connection{Source: "a", Target: "b"})
	ba := NewEdge("e2", Connection{Source: "b", Target: "a"})

	if err := ValidateGraph([]Node{a, b}, []Edge{ab, ba}); err != nil {
		t.Fatalf("ValidateGraph(valid) = %v", err)
	}

	tests := []struct {
		name  string
		nodes []Node
		edges []Edge
		want  error
		ref   bool
	}{
		{"duplicate node id", []Node{a, a}, nil, ErrDuplicateNodeID, false},
		{"duplicate edge id", []Node{a, b}, []Edge{ab, NewEdge("e1", Connection{Source: "b", Target: "a"})}, ErrDuplicateEdgeID, false},
		{"unknown source", []Node{b}, []Edge{ab}, ErrUnknownSourceNode, true},
		{"unknown target", []Node{a}, []Edge{ab}, ErrUnknownTargetNode, true},
		{"self loop", []Node{a}, []Edge{NewEdge("e3", Connection{Source: "a", Target: "a"})}, ErrSelfLoop, true},
		{"duplicate connection", []Node{a, b}, []Edge{ab, NewEdge("e4", Connection{Source: "a", Target: "b"})}, ErrDuplicateConnection, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGraph(tt.nodes, tt.edges)
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateGraph() = %v, want %v", err, tt.want)
			}
			if IsReferenceError(err) != tt.ref {
				t.Errorf("IsReferenceError(%v) = %v, want %v", err, !tt.ref, tt.ref)
			}
		})
	}
}

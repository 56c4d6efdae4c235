package store

import (
	"context"
	"fmt"

	"github.com/matzehuels/whtopo/pkg/layout"
	"github.com/matzehuels/whtopo/pkg/topo"
)

// Replace swaps the whole graph for nodes and edges in one commit, as when
// importing into an open session. See [Store.Load] for the cleanup applied.
// The selection is cleared. It returns the number of nodes and edges
// dropped.
func (s *Store) Replace(nodes []topo.Node, edges []topo.Edge) (droppedNodes, droppedEdges int) {
	s.nodes, s.edges, droppedNodes, droppedEdges = s.sanitize(nodes, edges)
	s.sel.clear()
	s.drag.End()
	s.commit(OpReplace)
	return droppedNodes, droppedEdges
}

// Load starts a fresh session on nodes and edges: the loaded graph becomes
// the only history snapshot, so undo never steps back past it, and the
// selection and clipboard are cleared.
//
// Missing IDs are generated, kinds default to custom and node types are
// normalized. Nodes that fail validation or repeat an ID are dropped, and so
// are edges that fail validation, repeat an ID, dangle, loop onto their
// source or repeat a (source, target) pair. It returns the number of nodes
// and edges dropped.
func (s *Store) Load(nodes []topo.Node, edges []topo.Edge) (droppedNodes, droppedEdges int) {
	s.nodes, s.edges, droppedNodes, droppedEdges = s.sanitize(nodes, edges)
	s.sel.clear()
	s.clipboard = Clipboard{}
	s.drag.End()
	s.history = []snapshot{{nodes: topo.CloneNodes(s.nodes), edges: topo.CloneEdges(s.edges)}}
	s.cursor = 0
	s.notify(OpLoad, false)
	return droppedNodes, droppedEdges
}

func (s *Store) sanitize(nodes []topo.Node, edges []topo.Edge) ([]topo.Node, []topo.Edge, int, int) {
	var droppedNodes, droppedEdges int
	drop := func(what, id string, err error) {
		s.logger.Debug("dropping "+what, "id", id, "err", err)
	}

	keptNodes := make([]topo.Node, 0, len(nodes))
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		c := n.Clone()
		if c.ID == "" {
			c.ID = s.newID()
		}
		if c.Kind == "" {
			c.Kind = topo.KindCustom
		}
		c.Data.Type = topo.ParseNodeType(string(c.Data.Type))
		err := topo.ValidateNode(c)
		if err == nil && seen[c.ID] {
			err = fmt.Errorf("%w: %s", ErrDuplicateNodeID, c.ID)
		}
		if err != nil {
			drop("node", c.ID, err)
			droppedNodes++
			continue
		}
		seen[c.ID] = true
		keptNodes = append(keptNodes, c)
	}

	keptEdges := make([]topo.Edge, 0, len(edges))
	edgeIDs := make(map[string]bool, len(edges))
	for _, e := range edges {
		c := e.Clone()
		if c.ID == "" {
			c.ID = s.newID()
		}
		err := topo.ValidateEdge(c)
		switch {
		case err != nil:
		case edgeIDs[c.ID]:
			err = fmt.Errorf("%w: %s", topo.ErrDuplicateEdgeID, c.ID)
		case !seen[c.Source]:
			err = fmt.Errorf("%w: %s", ErrUnknownSourceNode, c.Source)
		case !seen[c.Target]:
			err = fmt.Errorf("%w: %s", ErrUnknownTargetNode, c.Target)
		default:
			err = topo.ValidConnection(keptEdges, topo.Connection{Source: c.Source, Target: c.Target})
		}
		if err != nil {
			drop("edge", c.ID, err)
			droppedEdges++
			continue
		}
		edgeIDs[c.ID] = true
		keptEdges = append(keptEdges, c)
	}
	return keptNodes, keptEdges, droppedNodes, droppedEdges
}

// Reset empties the graph, selection, clipboard and history.
func (s *Store) Reset() {
	s.nodes, s.edges = []topo.Node{}, []topo.Edge{}
	s.sel.clear()
	s.clipboard = Clipboard{}
	s.drag.End()
	s.seedHistory()
	s.notify(OpReset, false)
}

// Drag moves node id to the alignment-snapped version of pos without
// committing, and returns the snapped position. The first call for a node
// starts a drag session; [Store.EndDrag] finishes it. Dragging another node
// while a drag is active ends and commits the active one first.
func (s *Store) Drag(id string, pos topo.Position) (topo.Position, bool) {
	i := s.nodeIndex(id)
	if i < 0 {
		return pos, false
	}
	if s.drag.Active() && s.drag.ID() != id {
		s.EndDrag(s.drag.ID())
	}
	if !s.drag.Active() {
		s.drag.Begin(id)
	}
	_, snapped := s.drag.Move(pos, s.nodes)
	s.nodes[i] = s.nodes[i].Apply(topo.NodePatch{Position: &snapped})
	s.notify(OpDrag, false)
	return snapped, true
}

// EndDrag finishes the drag of node id, clears the guides and commits the
// final position. It reports false when id is not being dragged.
func (s *Store) EndDrag(id string) bool {
	if !s.drag.Active() || s.drag.ID() != id {
		return false
	}
	s.drag.End()
	s.commit(OpMove)
	return true
}

// ApplyLayout runs the named layout strategy over the current graph and
// commits the new positions and edge hints.
func (s *Store) ApplyLayout(ctx context.Context, name string) (layout.Result, error) {
	res, err := layout.Run(ctx, name, s.layoutCfg, s.nodes, s.edges)
	if err != nil {
		return layout.Result{}, s.reject(OpLayout, err)
	}
	s.nodes, s.edges = topo.CloneNodes(res.Nodes), topo.CloneEdges(res.Edges)
	s.logger.Debug("layout applied", "strategy", name, "ranks", res.Ranks, "crossings", res.Crossings)
	s.commit(OpLayout)
	return res, nil
}

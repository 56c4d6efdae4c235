package store

import (
	"slices"

	"github.com/matzehuels/whtopo/pkg/topo"
)

// Selection is a snapshot of what is selected. Node and Edge are the primary
// selection, at most one of which is set. Nodes and Edges are the
// multi-selection in the order items were added.
type Selection struct {
	Node  string
	Edge  string
	Nodes []string
	Edges []string
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return s.Node == "" && s.Edge == "" && len(s.Nodes) == 0 && len(s.Edges) == 0
}

// Effective returns the node and edge IDs bulk operations act on: the
// multi-selection when it is non-empty, else the primary selection.
func (s Selection) Effective() (nodes, edges []string) {
	if len(s.Nodes) > 0 || len(s.Edges) > 0 {
		return s.Nodes, s.Edges
	}
	if s.Node != "" {
		return []string{s.Node}, nil
	}
	if s.Edge != "" {
		return nil, []string{s.Edge}
	}
	return nil, nil
}

type selection struct {
	node, edge   string
	nodes, edges []string
}

func (s *selection) clear() { *s = selection{} }

func (s *selection) selectNode(id string) { s.node, s.edge = id, "" }

func (s *selection) selectEdge(id string) { s.node, s.edge = "", id }

func (s *selection) forgetNode(id string) {
	if s.node == id {
		s.node = ""
	}
	s.nodes = slices.DeleteFunc(s.nodes, func(x string) bool { return x == id })
}

func (s *selection) forgetEdge(id string) {
	if s.edge == id {
		s.edge = ""
	}
	s.edges = slices.DeleteFunc(s.edges, func(x string) bool { return x == id })
}

func (s *selection) snapshot() Selection {
	return Selection{Node: s.node, Edge: s.edge, Nodes: slices.Clone(s.nodes), Edges: slices.Clone(s.edges)}
}

func toggle(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return append(ids, id)
}

// Selection returns the current selection.
func (s *Store) Selection() Selection { return s.sel.snapshot() }

// SelectNode makes id the primary selection and clears any primary edge.
// Unknown IDs clear the primary selection.
func (s *Store) SelectNode(id string) {
	if s.nodeIndex(id) < 0 {
		id = ""
	}
	s.sel.selectNode(id)
	s.notify(OpSelect, false)
}

// SelectEdge makes id the primary selection and clears any primary node.
// Unknown IDs clear the primary selection.
func (s *Store) SelectEdge(id string) {
	if s.edgeIndex(id) < 0 {
		id = ""
	}
	s.sel.selectEdge(id)
	s.notify(OpSelect, false)
}

// ClearSelection clears both the primary and the multi-selection.
func (s *Store) ClearSelection() {
	s.sel.clear()
	s.notify(OpSelect, false)
}

// SetMultiSelection replaces the multi-selection. Unknown and repeated IDs
// are skipped.
func (s *Store) SetMultiSelection(nodeIDs, edgeIDs []string) {
	s.sel.nodes, s.sel.edges = nil, nil
	for _, id := range nodeIDs {
		if s.nodeIndex(id) >= 0 && !slices.Contains(s.sel.nodes, id) {
			s.sel.nodes = append(s.sel.nodes, id)
		}
	}
	for _, id := range edgeIDs {
		if s.edgeIndex(id) >= 0 && !slices.Contains(s.sel.edges, id) {
			s.sel.edges = append(s.sel.edges, id)
		}
	}
	s.notify(OpSelect, false)
}

// ToggleNodeSelected adds or removes a node from the multi-selection.
func (s *Store) ToggleNodeSelected(id string) {
	if s.nodeIndex(id) < 0 {
		return
	}
	s.sel.nodes = toggle(s.sel.nodes, id)
	s.notify(OpSelect, false)
}

// ToggleEdgeSelected adds or removes an edge from the multi-selection.
func (s *Store) ToggleEdgeSelected(id string) {
	if s.edgeIndex(id) < 0 {
		return
	}
	s.sel.edges = toggle(s.sel.edges, id)
	s.notify(OpSelect, false)
}

// DeleteSelected removes the effective selection (see [Selection.Effective])
// in one commit, cascading to incident edges. It reports false when nothing
// was selected.
func (s *Store) DeleteSelected() bool {
	nodeIDs, edgeIDs := s.sel.snapshot().Effective()
	if len(nodeIDs) == 0 && len(edgeIDs) == 0 {
		return false
	}

	drop := make(map[string]bool, len(edgeIDs))
	for _, id := range edgeIDs {
		drop[id] = true
		s.sel.forgetEdge(id)
	}
	s.edges = slices.DeleteFunc(slices.Clone(s.edges), func(e topo.Edge) bool { return drop[e.ID] })

	ids := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		ids[id] = true
	}
	s.removeNodes(ids)
	s.commit(OpDeleteSelected)
	return true
}

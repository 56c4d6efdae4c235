package store

import (
	"fmt"

	"github.com/matzehuels/whtopo/pkg/topo"
)

// AddNode appends node and makes it the primary selection. An empty ID is
// replaced with a fresh one; an empty kind or type defaults to custom and
// simple. A duplicate ID is refused.
func (s *Store) AddNode(node topo.Node) (topo.Node, error) {
	n := node.Clone()
	if n.ID == "" {
		n.ID = s.newID()
	}
	if n.Kind == "" {
		n.Kind = topo.KindCustom
	}
	if n.Data.Type == "" {
		n.Data.Type = topo.TypeSimple
	}
	if s.nodeIndex(n.ID) >= 0 {
		return topo.Node{}, s.reject(OpAddNode, fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID))
	}
	if err := topo.ValidateNode(n); err != nil {
		return topo.Node{}, s.reject(OpAddNode, err)
	}
	if n.Data.Code != "" && topo.CodeInUse(s.nodes, n.Data.Code, n.ID) {
		s.logger.Warn("code already in use", "code", n.Data.Code)
	}

	s.nodes = append(s.nodes, n)
	s.sel.selectNode(n.ID)
	s.commit(OpAddNode)
	return n.Clone(), nil
}

// UpdateNode applies patch to the node with the given ID. The stored node is
// replaced, never modified in place.
func (s *Store) UpdateNode(id string, patch topo.NodePatch) (topo.Node, error) {
	return s.updateNode(OpUpdateNode, id, patch)
}

func (s *Store) updateNode(op, id string, patch topo.NodePatch) (topo.Node, error) {
	i := s.nodeIndex(id)
	if i < 0 {
		return topo.Node{}, s.reject(op, fmt.Errorf("%w: %s", ErrNodeNotFound, id))
	}
	n := s.nodes[i].Apply(patch)
	if err := topo.ValidateNode(n); err != nil {
		return topo.Node{}, s.reject(op, err)
	}
	s.nodes[i] = n
	s.commit(op)
	return n.Clone(), nil
}

// DeleteNode removes the node and every edge incident to it. It reports
// false when the node does not exist.
func (s *Store) DeleteNode(id string) bool {
	if s.nodeIndex(id) < 0 {
		return false
	}
	s.removeNodes(map[string]bool{id: true})
	s.commit(OpDeleteNode)
	return true
}

// removeNodes drops the given nodes, cascades to their edges and prunes the
// selection. It does not commit.
func (s *Store) removeNodes(ids map[string]bool) {
	nodes := s.nodes[:0:0]
	for _, n := range s.nodes {
		if !ids[n.ID] {
			nodes = append(nodes, n)
		}
	}
	edges := s.edges[:0:0]
	for _, e := range s.edges {
		if ids[e.Source] || ids[e.Target] {
			s.sel.forgetEdge(e.ID)
			continue
		}
		edges = append(edges, e)
	}
	s.nodes, s.edges = nodes, edges
	for id := range ids {
		s.sel.forgetNode(id)
	}
}

// DuplicateNode copies the node with a fresh ID, shifted by [PasteOffset]
// and with "_copy" appended to its code. Incident edges are not copied.
// The duplicate becomes the primary selection.
func (s *Store) DuplicateNode(id string) (topo.Node, bool) {
	i := s.nodeIndex(id)
	if i < 0 {
		return topo.Node{}, false
	}
	n := s.nodes[i].Clone()
	n.ID = s.newID()
	n.Position = n.Position.Add(PasteOffset, PasteOffset)
	n.Data.Code += "_copy"

	s.nodes = append(s.nodes, n)
	s.sel.selectNode(n.ID)
	s.commit(OpDuplicateNode)
	return n.Clone(), true
}

// SetText replaces the text of an annotation node.
func (s *Store) SetText(id, text string) error {
	_, err := s.updateNode(OpSetText, id, topo.NodePatch{Attrs: map[string]string{topo.AttrText: text}})
	return err
}

// MoveNode commits a final position for the node.
func (s *Store) MoveNode(id string, pos topo.Position) error {
	i := s.nodeIndex(id)
	if i < 0 {
		return s.reject(OpMove, fmt.Errorf("%w: %s", ErrNodeNotFound, id))
	}
	s.nodes[i] = s.nodes[i].Apply(topo.NodePatch{Position: &pos})
	s.commit(OpMove)
	return nil
}

package store

import "github.com/matzehuels/whtopo/pkg/topo"

// Clipboard is a point-in-time copy of nodes and of exactly those edges
// whose endpoints are both among them.
type Clipboard struct {
	Nodes []topo.Node
	Edges []topo.Edge
}

// Empty reports whether the clipboard holds no nodes.
func (c Clipboard) Empty() bool { return len(c.Nodes) == 0 }

// Clipboard returns a copy of the clipboard.
func (s *Store) Clipboard() Clipboard {
	return Clipboard{Nodes: topo.CloneNodes(s.clipboard.Nodes), Edges: topo.CloneEdges(s.clipboard.Edges)}
}

// CopySelected copies the nodes of the effective selection and the edges
// between them. It reports false, leaving the clipboard untouched, when no
// node is selected.
func (s *Store) CopySelected() bool {
	nodeIDs, _ := s.sel.snapshot().Effective()
	if len(nodeIDs) == 0 {
		return false
	}
	in := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		in[id] = true
	}

	var clip Clipboard
	for _, n := range s.nodes {
		if in[n.ID] {
			clip.Nodes = append(clip.Nodes, n.Clone())
		}
	}
	for _, e := range s.edges {
		if in[e.Source] && in[e.Target] {
			clip.Edges = append(clip.Edges, e.Clone())
		}
	}
	s.clipboard = clip
	s.notify(OpCopy, false)
	return true
}

// Paste inserts the clipboard with fresh IDs, shifted by [PasteOffset].
// Edges are remapped onto the new nodes; an edge whose endpoint does not
// resolve is dropped. Pasted nodes become the multi-selection and the first
// one the primary selection. Returns the new node IDs, or false when the
// clipboard is empty.
func (s *Store) Paste() ([]string, bool) {
	if s.clipboard.Empty() {
		return nil, false
	}

	remap := make(map[string]string, len(s.clipboard.Nodes))
	ids := make([]string, 0, len(s.clipboard.Nodes))
	for _, n := range s.clipboard.Nodes {
		c := n.Clone()
		c.ID = s.newID()
		c.Position = c.Position.Add(PasteOffset, PasteOffset)
		remap[n.ID] = c.ID
		ids = append(ids, c.ID)
		s.nodes = append(s.nodes, c)
	}
	for _, e := range s.clipboard.Edges {
		src, okS := remap[e.Source]
		dst, okT := remap[e.Target]
		if !okS || !okT {
			s.logger.Debug("paste: dropping edge with unresolved endpoint", "edge", e.ID)
			continue
		}
		c := e.Clone()
		c.ID, c.Source, c.Target = s.newID(), src, dst
		s.edges = append(s.edges, c)
	}

	s.sel.clear()
	s.sel.nodes = append([]string(nil), ids...)
	s.sel.selectNode(ids[0])
	s.commit(OpPaste)
	return ids, true
}

package store

import "github.com/matzehuels/whtopo/pkg/topo"

// snapshot is an immutable deep copy of the graph at one point in history.
type snapshot struct {
	nodes []topo.Node
	edges []topo.Edge
}

func (s *Store) seedHistory() {
	s.history = []snapshot{{nodes: []topo.Node{}, edges: []topo.Edge{}}}
	s.cursor = 0
}

// commit snapshots the current graph, discarding any redo chain, and
// notifies subscribers.
func (s *Store) commit(op string) {
	snap := snapshot{nodes: topo.CloneNodes(s.nodes), edges: topo.CloneEdges(s.edges)}
	s.history = append(s.history[:s.cursor+1], snap)
	s.cursor = len(s.history) - 1

	if s.limit > 0 && len(s.history) > s.limit {
		drop := len(s.history) - s.limit
		s.history = append([]snapshot(nil), s.history[drop:]...)
		s.cursor -= drop
	}

	s.hooks.OnCommit(op, len(s.nodes), len(s.edges), len(s.history))
	s.notify(op, true)
}

func (s *Store) restore(i int) {
	s.cursor = i
	s.nodes = topo.CloneNodes(s.history[i].nodes)
	s.edges = topo.CloneEdges(s.history[i].edges)
	s.sel.clear()
	s.drag.End()
}

// Undo restores the previous snapshot and clears the selection.
// It reports false at the oldest snapshot.
func (s *Store) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	s.restore(s.cursor - 1)
	s.notify(OpUndo, false)
	return true
}

// Redo restores the next snapshot and clears the selection.
// It reports false at the newest snapshot.
func (s *Store) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	s.restore(s.cursor + 1)
	s.notify(OpRedo, false)
	return true
}

// CanUndo reports whether an older snapshot exists.
func (s *Store) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether a newer snapshot exists.
func (s *Store) CanRedo() bool { return s.cursor < len(s.history)-1 }

// HistoryLen returns the number of snapshots.
func (s *Store) HistoryLen() int { return len(s.history) }

// Cursor returns the index of the current snapshot.
func (s *Store) Cursor() int { return s.cursor }

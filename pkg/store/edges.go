package store

import (
	"fmt"

	"github.com/matzehuels/whtopo/pkg/topo"
)

// AddEdge connects c.Source to c.Target with the default edge payload.
//
// Self-loops and a second edge with the same (source, target) pair are
// refused with errors wrapping [ErrInvalidConnection]. The reverse direction
// is a different connection and is accepted. Unknown endpoints are refused
// with [ErrUnknownSourceNode] or [ErrUnknownTargetNode]. A refused connection
// leaves the store unchanged.
func (s *Store) AddEdge(c topo.Connection) (topo.Edge, error) {
	if err := topo.ValidConnection(s.edges, c); err != nil {
		return topo.Edge{}, s.reject(OpAddEdge, err)
	}
	if s.nodeIndex(c.Source) < 0 {
		return topo.Edge{}, s.reject(OpAddEdge, fmt.Errorf("%w: %s", ErrUnknownSourceNode, c.Source))
	}
	if s.nodeIndex(c.Target) < 0 {
		return topo.Edge{}, s.reject(OpAddEdge, fmt.Errorf("%w: %s", ErrUnknownTargetNode, c.Target))
	}

	e := topo.NewEdge(s.newID(), c)
	s.edges = append(s.edges, e)
	s.commit(OpAddEdge)
	return e.Clone(), nil
}

// UpdateEdge applies patch to the edge with the given ID.
func (s *Store) UpdateEdge(id string, patch topo.EdgePatch) (topo.Edge, error) {
	i := s.edgeIndex(id)
	if i < 0 {
		return topo.Edge{}, s.reject(OpUpdateEdge, fmt.Errorf("%w: %s", ErrEdgeNotFound, id))
	}
	e := s.edges[i].Apply(patch)
	if err := topo.ValidateEdge(e); err != nil {
		return topo.Edge{}, s.reject(OpUpdateEdge, err)
	}
	s.edges[i] = e
	s.commit(OpUpdateEdge)
	return e.Clone(), nil
}

// DeleteEdge removes the edge. It reports false when it does not exist.
func (s *Store) DeleteEdge(id string) bool {
	i := s.edgeIndex(id)
	if i < 0 {
		return false
	}
	s.edges = append(s.edges[:i:i], s.edges[i+1:]...)
	s.sel.forgetEdge(id)
	s.commit(OpDeleteEdge)
	return true
}

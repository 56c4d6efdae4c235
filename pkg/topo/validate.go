package topo

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateNode checks the struct-level constraints of a node: a non-empty ID,
// a known kind and a known node type.
func ValidateNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if err := validate.Struct(n); err != nil {
		return fmt.Errorf("node %q: %w", n.ID, err)
	}
	return nil
}

// ValidateEdge checks the struct-level constraints of an edge: non-empty ID
// and endpoints, distance >= 0, capacity >= 1 and a known path type.
func ValidateEdge(e Edge) error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("edge %q: %w", e.ID, err)
	}
	return nil
}

// ValidConnection applies the connection gate: self-loops and an existing
// edge with the same (source, target) pair are refused. The check is
// direction-sensitive everywhere it is used (interactive connect, import).
func ValidConnection(edges []Edge, c Connection) error {
	if c.Source == c.Target {
		return ErrSelfLoop
	}
	if HasConnection(edges, c.Source, c.Target) {
		return ErrDuplicateConnection
	}
	return nil
}

// ValidateGraph checks the references of a whole graph: node IDs and edge
// IDs are unique, every edge joins two nodes of the graph, and every edge
// passes the connection gate against the edges listed before it.
func ValidateGraph(nodes []Node, edges []Edge) error {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if ids[n.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
		}
		ids[n.ID] = true
	}
	edgeIDs := make(map[string]bool, len(edges))
	for i, e := range edges {
		if edgeIDs[e.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateEdgeID, e.ID)
		}
		edgeIDs[e.ID] = true
		switch {
		case !ids[e.Source]:
			return fmt.Errorf("edge %q: %w: %s", e.ID, ErrUnknownSourceNode, e.Source)
		case !ids[e.Target]:
			return fmt.Errorf("edge %q: %w: %s", e.ID, ErrUnknownTargetNode, e.Target)
		}
		if err := ValidConnection(edges[:i], Connection{Source: e.Source, Target: e.Target}); err != nil {
			return fmt.Errorf("edge %q: %w", e.ID, err)
		}
	}
	return nil
}

// IsReferenceError reports whether err is a refused connection or an edge
// naming a node that does not exist.
func IsReferenceError(err error) bool {
	return errors.Is(err, ErrInvalidConnection) ||
		errors.Is(err, ErrUnknownSourceNode) ||
		errors.Is(err, ErrUnknownTargetNode)
}

// HasConnection reports whether an edge source->target exists.
func HasConnection(edges []Edge, source, target string) bool {
	for _, e := range edges {
		if e.Source == source && e.Target == target {
			return true
		}
	}
	return false
}

// CodeInUse reports whether another node (other than excludeID) already
// carries code. Codes are advisory, so callers only warn on collision.
func CodeInUse(nodes []Node, code, excludeID string) bool {
	for _, n := range nodes {
		if n.Data.Code == code && n.ID != excludeID {
			return true
		}
	}
	return false
}

package topo

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned when a node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned when a node with the same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdgeID is returned when an edge with the same ID already exists.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrNodeNotFound is returned when an operation names a node that does not exist.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound is returned when an operation names an edge that does not exist.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrUnknownSourceNode is returned when a connection's source does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned when a connection's target does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidConnection is the parent of every refused connection.
	ErrInvalidConnection = errors.New("invalid connection")

	// ErrSelfLoop is returned when a connection's source equals its target.
	ErrSelfLoop = fmt.Errorf("%w: source and target are the same node", ErrInvalidConnection)

	// ErrDuplicateConnection is returned when an edge with the same
	// (source, target) pair already exists. Direction matters: B->A is not a
	// duplicate of A->B.
	ErrDuplicateConnection = fmt.Errorf("%w: connection already exists", ErrInvalidConnection)
)

// Kind distinguishes topology nodes from free-text annotations.
type Kind string

const (
	// KindCustom is a topology node that takes part in export and layout.
	KindCustom Kind = "custom"
	// KindTextbox is an annotation; it is excluded from export and alignment.
	KindTextbox Kind = "textbox"
)

// NodeType is the physical role of a topology node.
type NodeType string

const (
	TypeSimple     NodeType = "simple"
	TypeScanner    NodeType = "scanner"
	TypeEject      NodeType = "eject"
	TypeFeed       NodeType = "feed"
	TypePTLZone    NodeType = "ptlzone"
	TypeSBLZone    NodeType = "sblzone"
	TypeASRSInfeed NodeType = "asrs-infeed"
	TypeASRSEject  NodeType = "asrs-eject"
)

// NodeTypes lists every node type in display order.
var NodeTypes = []NodeType{
	TypeSimple, TypeScanner, TypeEject, TypeFeed,
	TypePTLZone, TypeSBLZone, TypeASRSInfeed, TypeASRSEject,
}

// ValidNodeType reports whether t is one of [NodeTypes].
func ValidNodeType(t NodeType) bool { return slices.Contains(NodeTypes, t) }

// ParseNodeType normalizes s case-insensitively, treating '_' and '-' as the
// same separator. Unrecognized input yields [TypeSimple].
func ParseNodeType(s string) NodeType {
	t := NodeType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if ValidNodeType(t) {
		return t
	}
	return TypeSimple
}

// PathType selects how an edge is drawn between its endpoints.
type PathType string

const (
	PathStraight PathType = "straight"
	PathLShaped  PathType = "lshaped"
)

// Well-known attribute keys.
const (
	AttrText           = "text" // textbox content
	AttrPTLFeed        = "ptlFeed"
	AttrPTLFeedControl = "ptlFeedControl"
	AttrSBLFeed        = "sblFeed"
	AttrJunction       = "junction"
)

// QuickAttributes are the boolean flags operators toggle most often.
var QuickAttributes = []string{
	AttrJunction, AttrPTLFeed, "blockedHU", "emptyHU", "misc", "noEligibleZone",
	"qc", AttrSBLFeed, "packedCHU", "emptyPackedCHU", AttrPTLFeedControl,
}

// Position is a canvas coordinate of a node's top-left corner.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Position) Add(dx, dy float64) Position { return Position{X: p.X + dx, Y: p.Y + dy} }

// NodeData is the warehouse payload of a node.
type NodeData struct {
	Code  string            `json:"code"`
	Type  NodeType          `json:"type" validate:"oneof=simple scanner eject feed ptlzone sblzone asrs-infeed asrs-eject"`
	Cmd   int               `json:"cmd"`
	Attrs map[string]string `json:"attrs"`
}

// Node is a vertex of the topology.
type Node struct {
	ID       string   `json:"id" validate:"required"`
	Kind     Kind     `json:"kind" validate:"oneof=custom textbox"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// IsTextbox reports whether the node is a free-text annotation.
func (n Node) IsTextbox() bool { return n.Kind == KindTextbox }

// Attr returns the attribute value for key, or "" when unset.
func (n Node) Attr(key string) string { return n.Data.Attrs[key] }

// Flag reports whether the boolean attribute key is set to "true".
func (n Node) Flag(key string) bool { return n.Data.Attrs[key] == "true" }

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	n.Data.Attrs = cloneAttrs(n.Data.Attrs)
	return n
}

// Label is the display text of a node: its code, followed on a second line
// by the names of all attributes set to "true" in sorted order.
func (n Node) Label() string {
	if n.IsTextbox() {
		return n.Attr(AttrText)
	}
	var flags []string
	for _, k := range slices.Sorted(maps.Keys(n.Data.Attrs)) {
		if n.Data.Attrs[k] == "true" {
			flags = append(flags, k)
		}
	}
	if len(flags) == 0 {
		return n.Data.Code
	}
	return n.Data.Code + "\n" + strings.Join(flags, ", ")
}

// Style is the stroke used to draw an edge.
type Style struct {
	StrokeColor string  `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth" validate:"gte=0"`
}

// EdgeData is the flow payload of an edge.
type EdgeData struct {
	Distance float64           `json:"distance" validate:"gte=0"`
	Capacity int               `json:"capacity" validate:"gte=1"`
	Default  bool              `json:"default"`
	Attrs    map[string]string `json:"attrs"`
	PathType PathType          `json:"pathType" validate:"oneof=straight lshaped"`
}

// Routing is a presentation hint attached by layouts that prefer bent,
// step-shaped edge paths. It carries no structural meaning.
type Routing struct {
	Style        string  `json:"style"`
	Offset       float64 `json:"offset"`
	BorderRadius float64 `json:"borderRadius"`
}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID      string   `json:"id" validate:"required"`
	Source  string   `json:"source" validate:"required"`
	Target  string   `json:"target" validate:"required"`
	Label   string   `json:"label,omitempty"`
	Style   Style    `json:"style"`
	Data    EdgeData `json:"data"`
	Routing *Routing `json:"routing,omitempty"`
}

// Clone returns a deep copy of the edge.
func (e Edge) Clone() Edge {
	e.Data.Attrs = cloneAttrs(e.Data.Attrs)
	if e.Routing != nil {
		r := *e.Routing
		e.Routing = &r
	}
	return e
}

// Connection is a request to connect two nodes.
type Connection struct {
	Source string
	Target string
	Label  string
}

// Default visual and flow values of a newly connected edge.
const (
	DefaultStrokeColor = "#666666"
	DefaultStrokeWidth = 2.0
	DefaultDistance    = 0.5
	DefaultCapacity    = 1
)

// DefaultEdgeData returns the payload given to a freshly connected edge.
func DefaultEdgeData() EdgeData {
	return EdgeData{
		Distance: DefaultDistance,
		Capacity: DefaultCapacity,
		Attrs:    map[string]string{},
		PathType: PathStraight,
	}
}

// DefaultStyle returns the stroke given to a freshly connected edge.
func DefaultStyle() Style {
	return Style{StrokeColor: DefaultStrokeColor, StrokeWidth: DefaultStrokeWidth}
}

// NewNode returns a custom node with the given identity and an empty
// attribute map, placed at the default drop position.
func NewNode(id string, typ NodeType, code string, cmd int) Node {
	return Node{
		ID:       id,
		Kind:     KindCustom,
		Position: Position{X: 100, Y: 100},
		Data: NodeData{
			Code:  code,
			Type:  typ,
			Cmd:   cmd,
			Attrs: map[string]string{},
		},
	}
}

// NewTextbox returns an annotation node holding text.
func NewTextbox(id, text string, pos Position) Node {
	return Node{
		ID:       id,
		Kind:     KindTextbox,
		Position: pos,
		Data: NodeData{
			Type:  TypeSimple,
			Attrs: map[string]string{AttrText: text},
		},
	}
}

// NewEdge returns an edge from c with default style and payload.
func NewEdge(id string, c Connection) Edge {
	return Edge{
		ID:     id,
		Source: c.Source,
		Target: c.Target,
		Label:  c.Label,
		Style:  DefaultStyle(),
		Data:   DefaultEdgeData(),
	}
}

// CloneNodes returns a deep copy of nodes. A nil input yields an empty slice.
func CloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// CloneEdges returns a deep copy of edges. A nil input yields an empty slice.
func CloneEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = e.Clone()
	}
	return out
}

func cloneAttrs(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return maps.Clone(m)
}

// Package store holds the editable state of one topology editing session.
//
// A [Store] owns the current nodes and edges, the selection, a linear
// undo/redo history, a clipboard and an in-flight drag. Every mutating
// operation takes a deep snapshot of the result (see [Store.Undo]); selection
// changes, drags and undo/redo themselves do not.
//
// Layouts and alignment are delegated to the layout and align packages; the
// store only commits their results.
//
// A Store is not safe for concurrent use. Each editing session owns one.
package store

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/whtopo/pkg/align"
	"github.com/matzehuels/whtopo/pkg/layout"
	"github.com/matzehuels/whtopo/pkg/observability"
	"github.com/matzehuels/whtopo/pkg/topo"
)

// Validation errors returned by the store. They alias the topo sentinels so
// callers may match against either package.
var (
	ErrInvalidConnection   = topo.ErrInvalidConnection
	ErrSelfLoop            = topo.ErrSelfLoop
	ErrDuplicateConnection = topo.ErrDuplicateConnection
	ErrUnknownSourceNode   = topo.ErrUnknownSourceNode
	ErrUnknownTargetNode   = topo.ErrUnknownTargetNode
	ErrNodeNotFound        = topo.ErrNodeNotFound
	ErrEdgeNotFound        = topo.ErrEdgeNotFound
	ErrDuplicateNodeID     = topo.ErrDuplicateNodeID
)

// PasteOffset is how far pasted and duplicated nodes are shifted from the
// originals, on both axes.
const PasteOffset = 50

// Operation names carried by events and commit hooks.
const (
	OpAddNode        = "addNode"
	OpUpdateNode     = "updateNode"
	OpDeleteNode     = "deleteNode"
	OpDuplicateNode  = "duplicateNode"
	OpAddEdge        = "addEdge"
	OpUpdateEdge     = "updateEdge"
	OpDeleteEdge     = "deleteEdge"
	OpDeleteSelected = "deleteSelected"
	OpPaste          = "paste"
	OpReplace        = "replace"
	OpLoad           = "load"
	OpReset          = "reset"
	OpSetText        = "setText"
	OpMove           = "move"
	OpLayout         = "layout"
	OpSelect         = "select"
	OpCopy           = "copy"
	OpUndo           = "undo"
	OpRedo           = "redo"
	OpDrag           = "drag"
)

// Event describes a change observed by subscribers.
type Event struct {
	Op        string
	Committed bool // a history snapshot was taken
}

type subscriber struct {
	id int
	fn func(Event)
}

// Store is the editable graph state.
type Store struct {
	nodes []topo.Node
	edges []topo.Edge

	sel       selection
	clipboard Clipboard
	history   []snapshot
	cursor    int
	drag      *align.Drag

	logger    *log.Logger
	newID     func() string
	layoutCfg layout.Config
	hooks     observability.StoreHooks
	limit     int

	subs   []subscriber
	nextID int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator replaces the random UUID generator for node and edge IDs.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLayoutConfig sets the tunables passed to layout strategies.
func WithLayoutConfig(cfg layout.Config) Option {
	return func(s *Store) { s.layoutCfg = cfg }
}

// WithAlignOptions sets the drag alignment options.
func WithAlignOptions(opts align.Options) Option {
	return func(s *Store) { s.drag = align.NewDrag(opts) }
}

// WithHooks sets the commit hooks.
func WithHooks(h observability.StoreHooks) Option {
	return func(s *Store) {
		if h != nil {
			s.hooks = h
		}
	}
}

// WithHistoryLimit keeps at most n snapshots, dropping the oldest.
// Zero or a negative n keeps every snapshot.
func WithHistoryLimit(n int) Option {
	return func(s *Store) { s.limit = n }
}

// New returns an empty store. Its history holds one empty snapshot, so the
// first mutation can be undone.
func New(opts ...Option) *Store {
	s := &Store{
		nodes:     []topo.Node{},
		edges:     []topo.Edge{},
		drag:      align.NewDrag(align.DefaultOptions()),
		logger:    log.New(io.Discard),
		newID:     uuid.NewString,
		layoutCfg: layout.DefaultConfig(),
		hooks:     observability.NoopStoreHooks{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seedHistory()
	return s
}

// Subscribe registers fn to be called synchronously after every change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(op string, committed bool) {
	ev := Event{Op: op, Committed: committed}
	for _, sub := range s.subs {
		sub.fn(ev)
	}
}

// Nodes returns a deep copy of the nodes in insertion order.
func (s *Store) Nodes() []topo.Node { return topo.CloneNodes(s.nodes) }

// Edges returns a deep copy of the edges in insertion order.
func (s *Store) Edges() []topo.Edge { return topo.CloneEdges(s.edges) }

// Node returns a copy of the node with the given ID.
func (s *Store) Node(id string) (topo.Node, bool) {
	if i := s.nodeIndex(id); i >= 0 {
		return s.nodes[i].Clone(), true
	}
	return topo.Node{}, false
}

// Edge returns a copy of the edge with the given ID.
func (s *Store) Edge(id string) (topo.Edge, bool) {
	if i := s.edgeIndex(id); i >= 0 {
		return s.edges[i].Clone(), true
	}
	return topo.Edge{}, false
}

// AlignmentGuides returns the guides of the in-flight drag, if any.
func (s *Store) AlignmentGuides() align.Lines { return s.drag.Lines() }

func (s *Store) nodeIndex(id string) int {
	for i, n := range s.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) edgeIndex(id string) int {
	for i, e := range s.edges {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) reject(op string, err error) error {
	s.logger.Debug("rejected", "op", op, "err", err)
	s.hooks.OnRejected(op, err)
	return err
}

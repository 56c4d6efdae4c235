package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/whtopo/pkg/errors"
	"github.com/matzehuels/whtopo/pkg/topo"
)

// Import grid geometry.
const (
	gridColumns = 5
	gridOriginX = 100
	gridOriginY = 100
	gridPitchX  = 120
	gridPitchY  = 100
)

type topology struct {
	WhID  int64          `json:"whId"`
	Nodes []topologyNode `json:"nodes"`
	Edges []topologyEdge `json:"edges"`
	Loops []any          `json:"loops"`
}

type topologyNode struct {
	Code  string            `json:"code"`
	Type  string            `json:"type"`
	Cmd   int               `json:"cmd"`
	Attrs map[string]string `json:"attrs"`
}

type topologyEdge struct {
	From     string            `json:"from"`
	To       string            `json:"to"`
	Distance float64           `json:"distance"`
	Attrs    map[string]string `json:"attrs"`
	Default  bool              `json:"default"`
	Capacity int               `json:"capacity"`
}

// Inbound records use pointers so missing fields can be told apart from
// zero values.
type topologyIn struct {
	Nodes []topologyNodeIn `json:"nodes"`
	Edges []topologyEdgeIn `json:"edges"`
}

type topologyNodeIn struct {
	Code  string            `json:"code"`
	Type  string            `json:"type"`
	Cmd   *int              `json:"cmd"`
	Attrs map[string]string `json:"attrs"`
}

type topologyEdgeIn struct {
	From     string            `json:"from"`
	To       string            `json:"to"`
	Distance *float64          `json:"distance"`
	Attrs    map[string]string `json:"attrs"`
	Default  bool              `json:"default"`
	Capacity *int              `json:"capacity"`
}

// WriteTopology encodes the topology nodes of the graph, and the edges
// between them, as topology JSON. Annotation nodes, and any edge touching
// one, are skipped. Edge endpoints are written as node codes.
func WriteTopology(w io.Writer, nodes []topo.Node, edges []topo.Edge, opts Options) error {
	out := topology{
		WhID:  opts.warehouseID(),
		Nodes: []topologyNode{},
		Edges: []topologyEdge{},
		Loops: []any{},
	}

	codes := make(map[string]string, len(nodes))
	for _, n := range nodes {
		if n.Kind != topo.KindCustom {
			continue
		}
		codes[n.ID] = n.Data.Code
		out.Nodes = append(out.Nodes, topologyNode{
			Code:  n.Data.Code,
			Type:  strings.ToUpper(string(n.Data.Type)),
			Cmd:   n.Data.Cmd,
			Attrs: nonNil(n.Data.Attrs),
		})
	}
	for _, e := range edges {
		from, okFrom := codes[e.Source]
		to, okTo := codes[e.Target]
		if !okFrom || !okTo {
			continue
		}
		out.Edges = append(out.Edges, topologyEdge{
			From:     from,
			To:       to,
			Distance: e.Data.Distance,
			Attrs:    nonNil(e.Data.Attrs),
			Default:  e.Data.Default,
			Capacity: e.Data.Capacity,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportTopology writes topology JSON to a file at path.
func ExportTopology(path string, nodes []topo.Node, edges []topo.Edge, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTopology(f, nodes, edges, opts)
}

// ReadTopology decodes topology JSON into editor nodes and edges.
//
// Nodes get fresh IDs and grid positions. A missing code becomes
// "node_<index>", a missing cmd becomes the index, and types are normalized
// with [topo.ParseNodeType]. When two nodes share a code, edges resolve to
// the first. Edges with an unknown code at either end, self-loops and
// repeated (from, to) pairs are dropped. A missing distance defaults to 0.5
// and a negative one is clamped to 0; capacity is at least 1.
func ReadTopology(r io.Reader, opts Options) ([]topo.Node, []topo.Edge, error) {
	var in topologyIn
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode topology")
	}
	nodes, edges := fromTopology(in, opts)
	return nodes, edges, nil
}

// ImportTopology reads topology JSON from a file at path.
func ImportTopology(path string, opts Options) ([]topo.Node, []topo.Edge, error) {
	f, err := open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadTopology(f, opts)
}

func fromTopology(in topologyIn, opts Options) ([]topo.Node, []topo.Edge) {
	newID := opts.newID()
	logger := opts.logger()

	nodes := make([]topo.Node, 0, len(in.Nodes))
	byCode := make(map[string]string, len(in.Nodes))
	for i, tn := range in.Nodes {
		code := tn.Code
		if code == "" {
			code = fmt.Sprintf("node_%d", i)
		}
		cmd := i
		if tn.Cmd != nil {
			cmd = *tn.Cmd
		}
		n := topo.NewNode(newID(), topo.ParseNodeType(tn.Type), code, cmd)
		n.Position = topo.Position{
			X: gridOriginX + float64(i%gridColumns)*gridPitchX,
			Y: gridOriginY + float64(i/gridColumns)*gridPitchY,
		}
		for k, v := range tn.Attrs {
			n.Data.Attrs[k] = v
		}
		if _, dup := byCode[code]; dup {
			logger.Debug("duplicate code, edges resolve to first", "code", code)
		} else {
			byCode[code] = n.ID
		}
		nodes = append(nodes, n)
	}

	edges := make([]topo.Edge, 0, len(in.Edges))
	for _, te := range in.Edges {
		src, okFrom := byCode[te.From]
		dst, okTo := byCode[te.To]
		if !okFrom || !okTo {
			logger.Debug("dropping edge with unknown code", "from", te.From, "to", te.To)
			continue
		}
		c := topo.Connection{Source: src, Target: dst}
		if err := topo.ValidConnection(edges, c); err != nil {
			logger.Debug("dropping edge", "from", te.From, "to", te.To, "err", err)
			continue
		}
		e := topo.NewEdge(newID(), c)
		if te.Distance != nil {
			e.Data.Distance = max(*te.Distance, 0)
		}
		if te.Capacity != nil {
			e.Data.Capacity = max(*te.Capacity, 1)
		}
		e.Data.Default = te.Default
		for k, v := range te.Attrs {
			e.Data.Attrs[k] = v
		}
		edges = append(edges, e)
	}
	return nodes, edges
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

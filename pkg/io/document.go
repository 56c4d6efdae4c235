package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/whtopo/pkg/errors"
	"github.com/matzehuels/whtopo/pkg/topo"
)

// DocumentVersion is the current editor document version.
const DocumentVersion = 1

// Document is the editor's full-fidelity representation of a graph.
type Document struct {
	Version int         `json:"version"`
	Nodes   []topo.Node `json:"nodes"`
	Edges   []topo.Edge `json:"edges"`
}

// NewDocument returns a document holding copies of nodes and edges.
func NewDocument(nodes []topo.Node, edges []topo.Edge) Document {
	return Document{Version: DocumentVersion, Nodes: topo.CloneNodes(nodes), Edges: topo.CloneEdges(edges)}
}

// WriteDocument encodes doc as indented JSON.
func WriteDocument(w io.Writer, doc Document) error {
	if doc.Version == 0 {
		doc.Version = DocumentVersion
	}
	if doc.Nodes == nil {
		doc.Nodes = []topo.Node{}
	}
	if doc.Edges == nil {
		doc.Edges = []topo.Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// SaveDocument writes doc to a file at path.
func SaveDocument(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDocument(f, doc)
}

// ReadDocument decodes an editor document. Missing kinds, types and edge
// payloads are filled with defaults, then every node and edge is validated.
// Malformed JSON yields INVALID_FORMAT; a record that fails validation or a
// repeated node or edge ID yields INVALID_INPUT; a self-loop, a repeated
// (source, target) pair or an edge to a missing node yields
// INVALID_CONNECTION.
func ReadDocument(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	normalize(&doc)
	for _, n := range doc.Nodes {
		if err := topo.ValidateNode(n); err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid node")
		}
	}
	for _, e := range doc.Edges {
		if err := topo.ValidateEdge(e); err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid edge")
		}
	}
	if err := topo.ValidateGraph(doc.Nodes, doc.Edges); err != nil {
		if topo.IsReferenceError(err) {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidConnection, err, "invalid edge")
		}
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid document")
	}
	return doc, nil
}

// LoadDocument reads an editor document from a file at path.
func LoadDocument(path string) (Document, error) {
	f, err := open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return ReadDocument(f)
}

func normalize(doc *Document) {
	if doc.Version == 0 {
		doc.Version = DocumentVersion
	}
	if doc.Nodes == nil {
		doc.Nodes = []topo.Node{}
	}
	if doc.Edges == nil {
		doc.Edges = []topo.Edge{}
	}
	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		if n.Kind == "" {
			n.Kind = topo.KindCustom
		}
		if n.Data.Type == "" {
			n.Data.Type = topo.TypeSimple
		} else {
			n.Data.Type = topo.ParseNodeType(string(n.Data.Type))
		}
		n.Data.Attrs = nonNil(n.Data.Attrs)
	}
	for i := range doc.Edges {
		e := &doc.Edges[i]
		if e.Data.Capacity == 0 {
			e.Data.Capacity = topo.DefaultCapacity
		}
		if e.Data.PathType == "" {
			e.Data.PathType = topo.PathStraight
		}
		if e.Style.StrokeColor == "" {
			e.Style.StrokeColor = topo.DefaultStrokeColor
		}
		if e.Style.StrokeWidth == 0 {
			e.Style.StrokeWidth = topo.DefaultStrokeWidth
		}
		e.Data.Attrs = nonNil(e.Data.Attrs)
	}
}

package io

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/matzehuels/whtopo/pkg/errors"
	"github.com/matzehuels/whtopo/pkg/topo"
)

// Format identifies an input format.
type Format string

const (
	FormatTopology Format = "topology"
	FormatDocument Format = "document"
	FormatDOT      Format = "dot"
)

// DetectFormat guesses the format of data named name. ".dot" and ".gv"
// files are DOT. JSON is a topology when it carries whId or loops, or when
// its nodes have no id; otherwise it is an editor document.
func DetectFormat(name string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".dot", ".gv":
		return FormatDOT, nil
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if bytes.Contains(trimmed, []byte("->")) || dotGraphRe.Match(trimmed) {
			return FormatDOT, nil
		}
		return "", errors.New(errors.ErrCodeInvalidFormat, "unrecognized input format for %s", name)
	}

	var head struct {
		WhID  json.RawMessage   `json:"whId"`
		Loops json.RawMessage   `json:"loops"`
		Nodes []json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(trimmed, &head); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", name)
	}
	if head.WhID != nil || head.Loops != nil {
		return FormatTopology, nil
	}
	if len(head.Nodes) > 0 {
		var first struct {
			ID *string `json:"id"`
		}
		if json.Unmarshal(head.Nodes[0], &first) == nil && first.ID == nil {
			return FormatTopology, nil
		}
	}
	return FormatDocument, nil
}

// Read decodes nodes and edges from r in the given format.
func Read(r io.Reader, format Format, opts Options) ([]topo.Node, []topo.Edge, error) {
	switch format {
	case FormatTopology:
		return ReadTopology(r, opts)
	case FormatDOT:
		return ReadDOT(r, opts)
	case FormatDocument:
		doc, err := ReadDocument(r)
		if err != nil {
			return nil, nil, err
		}
		return doc.Nodes, doc.Edges, nil
	default:
		return nil, nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
}

// Load reads a file in whichever format it holds and reports that format.
func Load(path string, opts Options) ([]topo.Node, []topo.Edge, Format, error) {
	f, err := open(path)
	if err != nil {
		return nil, nil, "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, "", err
	}
	format, err := DetectFormat(path, data)
	if err != nil {
		return nil, nil, "", err
	}
	nodes, edges, err := Read(bytes.NewReader(data), format, opts)
	return nodes, edges, format, err
}

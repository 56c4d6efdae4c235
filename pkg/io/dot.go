package io

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/whtopo/pkg/errors"
	"github.com/matzehuels/whtopo/pkg/layout"
	"github.com/matzehuels/whtopo/pkg/topo"
)

var (
	dotEdgeRe    = regexp.MustCompile(`^"?([\w.\-]+)"?\s*->\s*"?([\w.\-]+)"?\s*(?:\[(.*)\])?`)
	dotNodeRe    = regexp.MustCompile(`^"?([\w.\-]+)"?\s*\[(.*)\]`)
	dotBreakRe   = regexp.MustCompile(`(?i)<br\s*/?>|\\n`)
	dotLeadingRe = regexp.MustCompile(`^\d+`)
	dotGraphRe   = regexp.MustCompile(`^(strict\s+)?(di)?graph\b`)
	dotDefaultRe = regexp.MustCompile(`^(node|edge)\s*\[`)
)

// Shape to node type mapping. Unlisted shapes become simple nodes; a node
// without a shape is drawn as a circle and therefore a scanner.
var dotShapes = map[string]topo.NodeType{
	"diamond":      topo.TypeSimple,
	"square":       topo.TypeSimple,
	"circle":       topo.TypeScanner,
	"doublecircle": topo.TypeScanner,
	"box":          topo.TypeEject,
}

var dotColors = map[string]string{
	"blue":  "#3b82f6",
	"red":   "#ef4444",
	"green": "#22c55e",
}

const dotDefaultShape = "circle"

// ReadDOT parses a graph description best-effort, one statement per line:
//
//	61 [shape=diamond label=<61-204<br/>ptlFeed>]
//	61 -> 70 [label="main" color=blue penwidth=3]
//
// A node label is split on <br/>: the first part is the code and each
// further part is an attribute, either "key:value" or a bare flag set to
// "true". The cmd is the code's leading integer. Edge endpoints that were
// never declared become simple nodes. Self-loops and repeated connections
// are dropped. Unrecognized lines are ignored.
//
// Nodes are positioned by the hierarchical layout. Edges keep the stroke
// given in the description.
func ReadDOT(r io.Reader, opts Options) ([]topo.Node, []topo.Edge, error) {
	var (
		nodes    []topo.Node
		edges    []topo.Edge
		declared = map[string]bool{}
		sawGraph bool
		logger   = opts.logger()
	)

	addNode := func(id string, attrs map[string]string) {
		if declared[id] {
			return
		}
		declared[id] = true
		nodes = append(nodes, dotNode(id, attrs))
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		line = strings.TrimSuffix(line, ";")
		switch {
		case line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#"):
			continue
		case dotGraphRe.MatchString(line):
			sawGraph = true
			continue
		case dotDefaultRe.MatchString(line):
			continue
		}

		if strings.Contains(line, "->") {
			m := dotEdgeRe.FindStringSubmatch(line)
			if m == nil {
				logger.Debug("dot: skipping edge", "line", line)
				continue
			}
			src, dst, attrs := m[1], m[2], parseDOTAttrs(m[3])
			addNode(src, nil)
			addNode(dst, nil)
			c := topo.Connection{Source: src, Target: dst, Label: attrs["label"]}
			if err := topo.ValidConnection(edges, c); err != nil {
				logger.Debug("dot: dropping edge", "from", src, "to", dst, "err", err)
				continue
			}
			edges = append(edges, dotEdge(fmt.Sprintf("edge-%s-%s-%d", src, dst, len(edges)), c, attrs))
			continue
		}

		if m := dotNodeRe.FindStringSubmatch(line); m != nil {
			if declared[m[1]] {
				// declared implicitly by an earlier edge; upgrade it
				for i := range nodes {
					if nodes[i].ID == m[1] {
						nodes[i] = dotNode(m[1], parseDOTAttrs(m[2]))
					}
				}
				continue
			}
			addNode(m[1], parseDOTAttrs(m[2]))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read dot: %w", err)
	}
	if !sawGraph && len(nodes) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidFormat, "no graph statements found")
	}

	if nodes == nil {
		nodes = []topo.Node{}
	}
	if edges == nil {
		edges = []topo.Edge{}
	}
	res := layout.NewHierarchical(opts.layoutConfig()).Layout(nodes, edges)
	return res.Nodes, edges, nil
}

// dotNode builds a node from declared attributes. Nil attrs marks an
// implicit node created by an edge statement.
func dotNode(id string, attrs map[string]string) topo.Node {
	if attrs == nil {
		return topo.NewNode(id, topo.TypeSimple, id, leadingInt(id))
	}

	shape := attrs["shape"]
	if shape == "" {
		shape = dotDefaultShape
	}
	typ, ok := dotShapes[shape]
	if !ok {
		typ = topo.TypeSimple
	}

	label := attrs["label"]
	if label == "" {
		label = id
	}
	parts := dotBreakRe.Split(label, -1)
	code := strings.TrimSpace(parts[0])
	if code == "" {
		code = id
	}

	n := topo.NewNode(id, typ, code, leadingInt(code))
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if k, v, found := strings.Cut(part, ":"); found {
			n.Data.Attrs[strings.TrimSpace(k)] = strings.TrimSpace(v)
		} else {
			n.Data.Attrs[part] = "true"
		}
	}
	return n
}

func dotEdge(id string, c topo.Connection, attrs map[string]string) topo.Edge {
	e := topo.NewEdge(id, c)
	if color := attrs["color"]; color != "" {
		if hex, ok := dotColors[color]; ok {
			e.Style.StrokeColor = hex
		} else if strings.HasPrefix(color, "#") {
			e.Style.StrokeColor = color
		}
	}
	if pw, err := strconv.ParseFloat(attrs["penwidth"], 64); err == nil && pw >= 0 {
		e.Style.StrokeWidth = pw
	}
	return e
}

func leadingInt(s string) int {
	n, err := strconv.Atoi(dotLeadingRe.FindString(s))
	if err != nil {
		return 0
	}
	return n
}

// parseDOTAttrs splits an attribute list into key/value pairs. Values may
// be bare, double-quoted (with backslash escapes) or HTML-like <...> with
// nested angle brackets. Separators are whitespace, commas and semicolons.
func parseDOTAttrs(s string) map[string]string {
	attrs := map[string]string{}
	i := 0
	skip := func() {
		for i < len(s) && strings.ContainsRune(" \t,;", rune(s[i])) {
			i++
		}
	}
	for {
		skip()
		if i >= len(s) {
			return attrs
		}
		start := i
		for i < len(s) && s[i] != '=' && !strings.ContainsRune(" \t,;", rune(s[i])) {
			i++
		}
		key := strings.Trim(s[start:i], `"`)
		skip()
		if i >= len(s) || s[i] != '=' {
			if key != "" {
				attrs[key] = "true"
			}
			continue
		}
		i++ // '='
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		attrs[key] = readDOTValue(s, &i)
	}
}

func readDOTValue(s string, i *int) string {
	if *i >= len(s) {
		return ""
	}
	switch s[*i] {
	case '"':
		var b strings.Builder
		for *i++; *i < len(s); *i++ {
			c := s[*i]
			if c == '\\' && *i+1 < len(s) && s[*i+1] == '"' {
				b.WriteByte('"')
				*i++
				continue
			}
			if c == '"' {
				*i++
				break
			}
			b.WriteByte(c)
		}
		return b.String()
	case '<':
		depth, start := 0, *i+1
		for ; *i < len(s); *i++ {
			switch s[*i] {
			case '<':
				depth++
			case '>':
				depth--
				if depth == 0 {
					v := s[start:*i]
					*i++
					return v
				}
			}
		}
		return s[start:]
	default:
		start := *i
		for *i < len(s) && !strings.ContainsRune(" \t,;", rune(s[*i])) {
			*i++
		}
		return s[start:*i]
	}
}

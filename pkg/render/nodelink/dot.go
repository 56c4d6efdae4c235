package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/whtopo/pkg/topo"
)

// Graphviz measures positions in points and node sizes in inches.
const pointsPerInch = 72

// Options configures diagram generation.
type Options struct {
	// Scale multiplies canvas coordinates. Zero means 1.
	Scale float64

	// NodeSize is the node box edge in canvas units. Zero means 64.
	NodeSize float64

	// Detailed adds cmd and flag attributes to node labels.
	Detailed bool
}

var shapes = map[topo.NodeType]string{
	topo.TypeSimple:     "diamond",
	topo.TypeScanner:    "circle",
	topo.TypeEject:      "box",
	topo.TypeFeed:       "invhouse",
	topo.TypePTLZone:    "hexagon",
	topo.TypeSBLZone:    "octagon",
	topo.TypeASRSInfeed: "cylinder",
	topo.TypeASRSEject:  "cylinder",
}

var fills = map[topo.NodeType]string{
	topo.TypeScanner: "#dcfce7",
	topo.TypeEject:   "#ffedd5",
}

const defaultFill = "#f3f4f6"

// ToDOT converts a positioned topology to Graphviz DOT with pinned node
// positions. Edges whose endpoints are missing are skipped.
func ToDOT(nodes []topo.Node, edges []topo.Edge, opts Options) string {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	size := opts.NodeSize
	if size == 0 {
		size = 64
	}
	inches := strconv.FormatFloat(size*scale/pointsPerInch, 'f', 3, 64)

	var buf bytes.Buffer
	buf.WriteString("digraph topology {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [style=filled, fontsize=10, fixedsize=true, width=%s, height=%s];\n", inches, inches)
	buf.WriteString("  edge [arrowhead=normal, fontsize=9];\n")
	buf.WriteString("\n")

	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
		// Center of the node box; Y inverted for Graphviz.
		x := (n.Position.X + size/2) * scale
		y := -(n.Position.Y + size/2) * scale
		attrs := nodeAttrs(n, opts.Detailed)
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(x), fmtFloat(y)))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if !known[e.Source] || !known[e.Target] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n topo.Node, detailed bool) []string {
	if n.IsTextbox() {
		return []string{
			fmt.Sprintf("label=%q", n.Label()),
			"shape=note", "fixedsize=false", "fillcolor=\"#fef9c3\"",
		}
	}

	label := n.Label()
	if detailed {
		label = fmt.Sprintf("%s\ncmd %d", label, n.Data.Cmd)
	}
	shape, ok := shapes[n.Data.Type]
	if !ok {
		shape = shapes[topo.TypeSimple]
	}
	fill, ok := fills[n.Data.Type]
	if !ok {
		fill = defaultFill
	}
	attrs := []string{fmt.Sprintf("label=%q", label), "shape=" + shape, fmt.Sprintf("fillcolor=%q", fill)}
	if n.Flag(topo.AttrJunction) {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

func edgeAttrs(e topo.Edge) []string {
	color := e.Style.StrokeColor
	if color == "" {
		color = topo.DefaultStrokeColor
	}
	width := e.Style.StrokeWidth
	if width == 0 {
		width = topo.DefaultStrokeWidth
	}
	attrs := []string{fmt.Sprintf("color=%q", color), "penwidth=" + fmtFloat(width)}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if e.Data.Default {
		attrs = append(attrs, "style=bold")
	}
	return attrs
}

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag with one whose size matches
// its viewBox, so the diagram scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

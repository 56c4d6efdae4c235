// Package nodelink renders positioned topologies as node-link diagrams.
//
// # Usage
//
// Convert nodes and edges to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(nodes, edges, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Positions
//
// Node positions are pinned: the DOT uses the neato engine with "x,y!"
// positions, so Graphviz draws the diagram exactly as the layout engine
// placed it instead of computing its own layout. Canvas Y grows downwards
// while Graphviz Y grows upwards, so Y is inverted.
//
// # Shapes
//
// Node types map to shapes the same way the DOT importer reads them back
// (simple as diamond, scanner as circle, eject as box). Annotations are
// drawn as plain text notes. Edge stroke color and width are preserved.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink

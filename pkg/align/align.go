// Package align computes alignment guides and snap positions for a node
// being dragged across the canvas.
//
// Every node is approximated by the same bounding box ([Options]). The
// dragged box is compared against every other non-textbox node along each
// axis, checking five relationships in order and keeping the first that
// falls within the threshold:
//
//  1. center to center
//  2. left to left (top to top)
//  3. right to right (bottom to bottom)
//  4. left to other center (top to other center)
//  5. right to other center (bottom to other center)
//
// [Guides] reports the matched coordinates of the other nodes, for drawing.
// [Snap] moves the dragged position so the closest match lines up exactly.
// The two are independent; [Drag] combines them for an in-flight drag.
package align

import (
	"math"
	"slices"

	"github.com/matzehuels/whtopo/pkg/topo"
)

// Default snapping tolerance and node box, in canvas units.
const (
	DefaultThreshold  = 8
	DefaultNodeWidth  = 64
	DefaultNodeHeight = 64
)

// Options configures alignment.
type Options struct {
	Threshold  float64 `toml:"threshold" validate:"gte=0"`
	NodeWidth  float64 `toml:"node_width" validate:"gt=0"`
	NodeHeight float64 `toml:"node_height" validate:"gt=0"`
}

// DefaultOptions returns the editor's alignment settings.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, NodeWidth: DefaultNodeWidth, NodeHeight: DefaultNodeHeight}
}

// Lines holds guide coordinates: X are vertical lines, Y horizontal ones.
type Lines struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Empty reports whether there are no guides on either axis.
func (l Lines) Empty() bool { return len(l.X) == 0 && len(l.Y) == 0 }

// match is one axis relationship hit: the other node's coordinate that
// became the guide, and where the dragged start coordinate must go to line
// up with it.
type match struct {
	guide float64
	start float64
	diff  float64
}

// matchAxis runs the five relationship checks along one axis. start and
// other are box starts (left or top), size is the box extent.
func matchAxis(start, other, size, threshold float64) (match, bool) {
	half := size / 2
	center, end := start+half, start+size
	oCenter, oEnd := other+half, other+size

	checks := []struct {
		diff, guide, start float64
	}{
		{center - oCenter, oCenter, oCenter - half},
		{start - other, other, other},
		{end - oEnd, oEnd, oEnd - size},
		{start - oCenter, oCenter, oCenter},
		{end - oCenter, oCenter, oCenter - size},
	}
	for _, c := range checks {
		if d := math.Abs(c.diff); d <= threshold {
			return match{guide: c.guide, start: c.start, diff: d}, true
		}
	}
	return match{}, false
}

// others yields the nodes the dragged node is compared against.
func others(dragID string, nodes []topo.Node) []topo.Node {
	out := make([]topo.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.ID != dragID && !n.IsTextbox() {
			out = append(out, n)
		}
	}
	return out
}

// Guides returns the deduplicated guide coordinates for dragging dragID to
// pos, in the order the matching nodes appear.
func Guides(dragID string, pos topo.Position, nodes []topo.Node, opts Options) Lines {
	var lines Lines
	for _, n := range others(dragID, nodes) {
		if m, ok := matchAxis(pos.X, n.Position.X, opts.NodeWidth, opts.Threshold); ok && !slices.Contains(lines.X, m.guide) {
			lines.X = append(lines.X, m.guide)
		}
		if m, ok := matchAxis(pos.Y, n.Position.Y, opts.NodeHeight, opts.Threshold); ok && !slices.Contains(lines.Y, m.guide) {
			lines.Y = append(lines.Y, m.guide)
		}
	}
	return lines
}

// Snap returns pos corrected so that, on each axis, the closest matching
// relationship lines up exactly. Ties go to the earlier node. An axis with
// no match within the threshold is returned unchanged.
func Snap(dragID string, pos topo.Position, nodes []topo.Node, opts Options) topo.Position {
	var bestX, bestY *match
	for _, n := range others(dragID, nodes) {
		if m, ok := matchAxis(pos.X, n.Position.X, opts.NodeWidth, opts.Threshold); ok && (bestX == nil || m.diff < bestX.diff) {
			bestX = &m
		}
		if m, ok := matchAxis(pos.Y, n.Position.Y, opts.NodeHeight, opts.Threshold); ok && (bestY == nil || m.diff < bestY.diff) {
			bestY = &m
		}
	}
	if bestX != nil {
		pos.X = bestX.start
	}
	if bestY != nil {
		pos.Y = bestY.start
	}
	return pos
}

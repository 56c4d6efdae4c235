package align

import "github.com/matzehuels/whtopo/pkg/topo"

// Drag tracks one in-flight drag. Guides are only held while a drag is
// active and are cleared by End whether or not a snap happened.
//
// The zero value is not usable - use NewDrag.
type Drag struct {
	opts   Options
	id     string
	active bool
	lines  Lines
}

// NewDrag returns an idle drag session.
func NewDrag(opts Options) *Drag { return &Drag{opts: opts} }

// Begin starts dragging node id, discarding any previous drag.
func (d *Drag) Begin(id string) {
	d.id, d.active, d.lines = id, true, Lines{}
}

// Move records a tentative position and returns the guides to draw and the
// snapped position. Outside an active drag it returns pos unchanged.
func (d *Drag) Move(pos topo.Position, nodes []topo.Node) (Lines, topo.Position) {
	if !d.active {
		return Lines{}, pos
	}
	d.lines = Guides(d.id, pos, nodes, d.opts)
	return d.lines, Snap(d.id, pos, nodes, d.opts)
}

// End finishes the drag and clears the guides.
func (d *Drag) End() {
	d.id, d.active, d.lines = "", false, Lines{}
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool { return d.active }

// ID returns the dragged node, or "" when idle.
func (d *Drag) ID() string { return d.id }

// Lines returns the guides of the latest move.
func (d *Drag) Lines() Lines { return d.lines }

package topo

// NodePatch is a typed partial update of a node. Nil fields keep the current
// value. Attrs are merged over the existing attributes, then RemoveAttrs are
// deleted. The node ID cannot be patched.
type NodePatch struct {
	Kind        *Kind
	Position    *Position
	Code        *string
	Type        *NodeType
	Cmd         *int
	Attrs       map[string]string
	RemoveAttrs []string
}

// Apply returns a copy of n with p applied. n itself is left untouched.
func (n Node) Apply(p NodePatch) Node {
	out := n.Clone()
	if p.Kind != nil {
		out.Kind = *p.Kind
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.Code != nil {
		out.Data.Code = *p.Code
	}
	if p.Type != nil {
		out.Data.Type = *p.Type
	}
	if p.Cmd != nil {
		out.Data.Cmd = *p.Cmd
	}
	for k, v := range p.Attrs {
		out.Data.Attrs[k] = v
	}
	for _, k := range p.RemoveAttrs {
		delete(out.Data.Attrs, k)
	}
	return out
}

// EdgePatch is a typed partial update of an edge. Endpoints are immutable;
// reconnecting is a delete followed by a new connection.
type EdgePatch struct {
	Label       *string
	Style       *Style
	Distance    *float64
	Capacity    *int
	Default     *bool
	PathType    *PathType
	Attrs       map[string]string
	RemoveAttrs []string

	// Routing replaces the rendering hint; ClearRouting removes it.
	Routing      *Routing
	ClearRouting bool
}

// Apply returns a copy of e with p applied. e itself is left untouched.
func (e Edge) Apply(p EdgePatch) Edge {
	out := e.Clone()
	if p.Label != nil {
		out.Label = *p.Label
	}
	if p.Style != nil {
		out.Style = *p.Style
	}
	if p.Distance != nil {
		out.Data.Distance = *p.Distance
	}
	if p.Capacity != nil {
		out.Data.Capacity = *p.Capacity
	}
	if p.Default != nil {
		out.Data.Default = *p.Default
	}
	if p.PathType != nil {
		out.Data.PathType = *p.PathType
	}
	for k, v := range p.Attrs {
		out.Data.Attrs[k] = v
	}
	for _, k := range p.RemoveAttrs {
		delete(out.Data.Attrs, k)
	}
	switch {
	case p.ClearRouting:
		out.Routing = nil
	case p.Routing != nil:
		r := *p.Routing
		out.Routing = &r
	}
	return out
}

// Ptr returns a pointer to v. It keeps patch literals short:
//
//	topo.NodePatch{Code: topo.Ptr("61-01")}
func Ptr[T any](v T) *T { return &v }

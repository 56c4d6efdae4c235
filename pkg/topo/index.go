package topo

// Index is a read-only adjacency view over a node and edge collection.
// It preserves input order everywhere: IDs() follows the node slice,
// Children and Parents follow the edge slice.
//
// Edges whose source or target is not among the nodes are ignored, as are
// self-loops and repeated (source, target) pairs. Repeats keep the first
// occurrence in order but merge their weight as the maximum.
//
// The zero value is not usable - use NewIndex.
type Index struct {
	ids      []string
	pos      map[string]int
	nodes    []Node
	outgoing map[string][]string // nodeID -> children IDs
	incoming map[string][]string // nodeID -> parent IDs
	weights  map[[2]string]int
}

// NewIndex builds an index over nodes and edges. Every kept edge gets weight 1.
func NewIndex(nodes []Node, edges []Edge) *Index {
	return NewWeightedIndex(nodes, edges, nil)
}

// NewWeightedIndex builds an index and weights each kept edge with weight(e).
// A nil weight function, or a result below 1, yields weight 1.
func NewWeightedIndex(nodes []Node, edges []Edge, weight func(Edge) int) *Index {
	idx := &Index{
		ids:      make([]string, 0, len(nodes)),
		pos:      make(map[string]int, len(nodes)),
		nodes:    nodes,
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		weights:  make(map[[2]string]int),
	}
	for i, n := range nodes {
		if _, dup := idx.pos[n.ID]; dup {
			continue
		}
		idx.pos[n.ID] = i
		idx.ids = append(idx.ids, n.ID)
	}
	for _, e := range edges {
		if e.Source == e.Target || !idx.Has(e.Source) || !idx.Has(e.Target) {
			continue
		}
		w := 1
		if weight != nil {
			if v := weight(e); v > 1 {
				w = v
			}
		}
		key := [2]string{e.Source, e.Target}
		if prev, seen := idx.weights[key]; seen {
			idx.weights[key] = max(prev, w)
			continue
		}
		idx.weights[key] = w
		idx.outgoing[e.Source] = append(idx.outgoing[e.Source], e.Target)
		idx.incoming[e.Target] = append(idx.incoming[e.Target], e.Source)
	}
	return idx
}

// Has reports whether id is an indexed node.
func (x *Index) Has(id string) bool {
	_, ok := x.pos[id]
	return ok
}

// Len returns the number of distinct nodes.
func (x *Index) Len() int { return len(x.ids) }

// IDs returns node IDs in input order. The slice must not be modified.
func (x *Index) IDs() []string { return x.ids }

// Node returns the node with the given ID.
func (x *Index) Node(id string) (Node, bool) {
	i, ok := x.pos[id]
	if !ok {
		return Node{}, false
	}
	return x.nodes[i], true
}

// Children returns the targets of id's outgoing edges in edge order.
// The returned slice should not be modified.
func (x *Index) Children(id string) []string { return x.outgoing[id] }

// Parents returns the sources of id's incoming edges in edge order.
// The returned slice should not be modified.
func (x *Index) Parents(id string) []string { return x.incoming[id] }

// InDegree returns the number of distinct parents of id.
func (x *Index) InDegree(id string) int { return len(x.incoming[id]) }

// Weight returns the weight of edge from->to, or 0 if it is not indexed.
func (x *Index) Weight(from, to string) int { return x.weights[[2]string{from, to}] }

// EdgeCount returns the number of kept edges.
func (x *Index) EdgeCount() int { return len(x.weights) }

// Sources returns nodes with no incoming edges in input order.
func (x *Index) Sources() []string {
	var out []string
	for _, id := range x.ids {
		if len(x.incoming[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

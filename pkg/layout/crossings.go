package layout

import (
	"slices"

	"github.com/matzehuels/whtopo/pkg/topo"
)

// CountCrossings returns the weighted number of edge crossings summed over
// every pair of consecutive layers. Edges that skip a layer are not counted.
func CountCrossings(idx *topo.Index, layers [][]string) int {
	crossings := 0
	for i := 0; i+1 < len(layers); i++ {
		crossings += CountLayerCrossings(idx, layers[i], layers[i+1])
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between two adjacent layers
// using a Fenwick tree (binary indexed tree) in O(E log V).
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// A crossing contributes the product of both edge weights, so heavier edges
// (scanner links, default routes) are untangled first. With unit weights the
// result is the plain crossing count.
//
// Returns 0 if either layer is empty.
func CountLayerCrossings(idx *topo.Index, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := make(map[string]int, len(lower))
	for i, id := range lower {
		lowerPos[id] = i
	}

	type edge struct{ upper, lower, weight int }
	edges := make([]edge, 0, len(upper)*2)
	for i, id := range upper {
		for _, child := range idx.Children(id) {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos, idx.Weight(id, child)})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// weight of edges seen so far with target <= e.lower
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += (total - lessOrEqual) * e.weight

		total += e.weight
		for i := e.lower + 1; i < len(fenwick); i += i & (-i) {
			fenwick[i] += e.weight
		}
	}
	return crossings
}

package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/whtopo/pkg/topo"
)

// OrderRanks orders the nodes within each rank to reduce edge crossings.
//
// Layers start in input order. Each iteration sweeps down (keying every node
// by the weighted median position of its parents in lower ranks) and then
// up (keying by its children in higher ranks). Positions are normalized to
// (index+0.5)/len so layers of different widths compare fairly. Nodes
// without neighbors on the swept side keep their current key, and sorting
// is stable.
//
// Sweeping stops when an iteration leaves every layer unchanged, when no
// crossings remain, or after maxIter iterations. The ordering with the fewest
// crossings seen is returned along with its crossing count.
func OrderRanks(idx *topo.Index, ranks map[string]int, maxIter int) ([][]string, int) {
	layers := groupRanks(idx, ranks)
	if len(layers) == 0 {
		return layers, 0
	}
	layerOf := make(map[string]int, idx.Len())
	for i, l := range layers {
		for _, id := range l {
			layerOf[id] = i
		}
	}
	pos := make(map[string]float64, idx.Len())
	for _, l := range layers {
		setPositions(pos, l)
	}

	best := cloneLayers(layers)
	bestCrossings := CountCrossings(idx, layers)

	for iter := 0; iter < maxIter && bestCrossings > 0; iter++ {
		changed := false
		for i := 1; i < len(layers); i++ {
			if reorder(layers[i], pos, func(id string) []string {
				return filterLayer(idx.Parents(id), layerOf, func(l int) bool { return l < i })
			}, func(nb, id string) int { return idx.Weight(nb, id) }) {
				changed = true
			}
		}
		for i := len(layers) - 2; i >= 0; i-- {
			if reorder(layers[i], pos, func(id string) []string {
				return filterLayer(idx.Children(id), layerOf, func(l int) bool { return l > i })
			}, func(nb, id string) int { return idx.Weight(id, nb) }) {
				changed = true
			}
		}

		if c := CountCrossings(idx, layers); c < bestCrossings {
			best, bestCrossings = cloneLayers(layers), c
		}
		if !changed {
			break
		}
	}
	return best, bestCrossings
}

// reorder sorts layer in place by weighted median key and refreshes pos.
// It reports whether the order changed.
func reorder(layer []string, pos map[string]float64, neighbors func(string) []string, weight func(nb, id string) int) bool {
	if len(layer) < 2 {
		return false
	}
	keys := make(map[string]float64, len(layer))
	for _, id := range layer {
		nbs := neighbors(id)
		if len(nbs) == 0 {
			keys[id] = pos[id]
			continue
		}
		keys[id] = weightedMedian(nbs, pos, func(nb string) int { return weight(nb, id) })
	}

	before := slices.Clone(layer)
	slices.SortStableFunc(layer, func(a, b string) int { return cmp.Compare(keys[a], keys[b]) })
	setPositions(pos, layer)
	return !slices.Equal(before, layer)
}

// weightedMedian returns the position at which half of the total neighbor
// weight is reached. An exact split averages the two middle positions.
func weightedMedian(nbs []string, pos map[string]float64, weight func(string) int) float64 {
	type sample struct {
		p float64
		w int
	}
	samples := make([]sample, len(nbs))
	total := 0
	for i, nb := range nbs {
		w := max(weight(nb), 1)
		samples[i] = sample{pos[nb], w}
		total += w
	}
	slices.SortStableFunc(samples, func(a, b sample) int { return cmp.Compare(a.p, b.p) })

	acc := 0
	for i, s := range samples {
		acc += s.w
		switch {
		case 2*acc == total && i+1 < len(samples):
			return (s.p + samples[i+1].p) / 2
		case 2*acc >= total:
			return s.p
		}
	}
	return samples[len(samples)-1].p
}

func filterLayer(ids []string, layerOf map[string]int, keep func(int) bool) []string {
	var out []string
	for _, id := range ids {
		if keep(layerOf[id]) {
			out = append(out, id)
		}
	}
	return out
}

func setPositions(pos map[string]float64, layer []string) {
	n := float64(len(layer))
	for i, id := range layer {
		pos[id] = (float64(i) + 0.5) / n
	}
}

func cloneLayers(layers [][]string) [][]string {
	out := make([][]string, len(layers))
	for i, l := range layers {
		out[i] = slices.Clone(l)
	}
	return out
}

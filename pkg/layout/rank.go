package layout

import "github.com/matzehuels/whtopo/pkg/topo"

// AssignRanks assigns every indexed node a rank using a longest-path
// traversal (Kahn's algorithm). Sources sit at rank 0 and every child is
// pushed one rank past its deepest finalized parent. Ties follow input order.
//
// # Cycles
//
// When the queue drains while nodes remain, the first unfinished node in
// input order is released as if it were a source. Edges into nodes that
// are already finalized are skipped, so the traversal always terminates and
// every node is ranked exactly once.
//
// Time complexity is O(V + E).
func AssignRanks(idx *topo.Index) map[string]int {
	ids := idx.IDs()
	ranks := make(map[string]int, len(ids))
	inDegree := make(map[string]int, len(ids))
	queued := make(map[string]bool, len(ids))
	done := make(map[string]bool, len(ids))
	queue := make([]string, 0, len(ids))

	for _, id := range ids {
		inDegree[id] = idx.InDegree(id)
		if inDegree[id] == 0 {
			queue = append(queue, id)
			queued[id] = true
		}
	}

	next := 0 // scan cursor for releasing cycle members
	for processed := 0; processed < len(ids); {
		if len(queue) == 0 {
			for queued[ids[next]] {
				next++
			}
			queue = append(queue, ids[next])
			queued[ids[next]] = true
		}
		curr := queue[0]
		queue = queue[1:]
		done[curr] = true
		processed++

		for _, child := range idx.Children(curr) {
			if done[child] {
				continue
			}
			if r := ranks[curr] + 1; r > ranks[child] {
				ranks[child] = r
			}
			inDegree[child]--
			if inDegree[child] <= 0 && !queued[child] {
				queue = append(queue, child)
				queued[child] = true
			}
		}
	}
	return ranks
}

// groupRanks returns one layer per rank, each holding its node IDs in
// input order. Empty ranks are dropped.
func groupRanks(idx *topo.Index, ranks map[string]int) [][]string {
	maxRank := -1
	for _, id := range idx.IDs() {
		maxRank = max(maxRank, ranks[id])
	}
	layers := make([][]string, maxRank+1)
	for _, id := range idx.IDs() {
		r := ranks[id]
		layers[r] = append(layers[r], id)
	}
	out := layers[:0]
	for _, l := range layers {
		if len(l) > 0 {
			out = append(out, l)
		}
	}
	return out
}

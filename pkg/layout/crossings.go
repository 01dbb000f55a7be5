package layout

import "slices"

// CountLayerCrossings counts edge crossings between two adjacent layers
// using a Fenwick tree (binary indexed tree) for O(E log V) performance,
// where E is the number of edges between the layers and V the size of the
// lower layer.
//
// Two edges (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and
// pos(v1) > pos(v2); the total equals the number of inversions in the
// sequence of target positions when edges are enumerated by source
// position. Returns 0 when either layer is empty.
func CountLayerCrossings(upper, lower []int, out [][]int) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := make(map[int]int, len(lower))
	for i, v := range lower {
		lowerPos[v] = i
	}

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, u := range upper {
		for _, v := range out[u] {
			if p, ok := lowerPos[v]; ok {
				edges = append(edges, edge{i, p})
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
		// Count edges seen so far whose target position is <= e.lower;
		// the rest cross this edge.
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

// CountCrossings sums the crossings between every pair of consecutive
// layers for the hierarchy's current orderings.
func CountCrossings(h *Hierarchy, out [][]int) int {
	total := 0
	for i := 0; i+1 < len(h.Layers); i++ {
		total += CountLayerCrossings(h.Layers[i], h.Layers[i+1], out)
	}
	return total
}

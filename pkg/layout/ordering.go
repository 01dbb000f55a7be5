package layout

import (
	"slices"
	"sort"

	"github.com/mhuels/dagview/pkg/ir"
)

const (
	// DefaultMedianPasses is the number of alternating top-down/bottom-up
	// median sweeps. A tunable constant, not an invariant.
	DefaultMedianPasses = 8

	// DefaultTransposeIters bounds the transposition refinement.
	DefaultTransposeIters = 6
)

// Reduce reorders the nodes within each layer to lower edge crossings
// with adjacent layers, leaving rank assignment untouched. It runs the
// median sweeps followed by the transposition refinement.
func (h *Hierarchy) Reduce(g *ir.Graph, medianPasses, transposeIters int) {
	if len(g.Nodes) == 0 || len(h.Layers) < 2 {
		return
	}
	adj := buildAdjacency(g)
	h.medianSweeps(adj, len(g.Nodes), medianPasses)
	h.transpose(adj, transposeIters)
}

// medianSweeps reorders each layer by the median position of each node's
// already-positioned neighbors in the adjacent layer: top-down sweeps use
// predecessors, bottom-up sweeps use successors. A node with no
// positioned neighbors keeps its current position as its sort key, and
// ties preserve prior relative order (stable sort).
func (h *Hierarchy) medianSweeps(adj adjacency, n, passes int) {
	pos := h.positions(n)
	update := func() {
		for _, layer := range h.Layers {
			for i, u := range layer {
				pos[u] = i
			}
		}
	}

	for pass := 0; pass < passes; pass++ {
		// Top-down: order by predecessor medians.
		for li := 1; li < len(h.Layers); li++ {
			h.sortLayerByMedian(h.Layers[li], adj.in, pos)
			update()
		}
		// Bottom-up: order by successor medians.
		for li := len(h.Layers) - 2; li >= 0; li-- {
			h.sortLayerByMedian(h.Layers[li], adj.out, pos)
			update()
		}
	}
}

func (h *Hierarchy) sortLayerByMedian(layer []int, neighbors [][]int, pos []int) {
	if len(layer) <= 1 {
		return
	}
	type keyed struct {
		key  float64
		node int
	}
	arr := make([]keyed, len(layer))
	for i, u := range layer {
		xs := make([]float64, 0, len(neighbors[u]))
		for _, nb := range neighbors[u] {
			xs = append(xs, float64(pos[nb]))
		}
		key := float64(pos[u])
		if len(xs) > 0 {
			slices.Sort(xs)
			m := len(xs)
			if m%2 == 1 {
				key = xs[m/2]
			} else {
				key = 0.5 * (xs[m/2-1] + xs[m/2])
			}
		}
		arr[i] = keyed{key, u}
	}
	sort.SliceStable(arr, func(a, b int) bool { return arr[a].key < arr[b].key })
	for i := range arr {
		layer[i] = arr[i].node
	}
}

// transpose scans every layer for adjacent pairs whose swap strictly
// reduces the crossing count against both the previous and next layer,
// applying improving swaps until a full sweep finds none or the iteration
// bound is reached. The total crossing count is monotone non-increasing
// across the pass.
func (h *Hierarchy) transpose(adj adjacency, iters int) {
	for it := 0; it < iters; it++ {
		improved := false
		for li := range h.Layers {
			layer := h.Layers[li]
			if len(layer) <= 1 {
				continue
			}
			var prev, next []int
			if li > 0 {
				prev = h.Layers[li-1]
			}
			if li+1 < len(h.Layers) {
				next = h.Layers[li+1]
			}
			for i := 0; i+1 < len(layer); i++ {
				before := h.adjacentCrossings(prev, layer, next, adj)
				layer[i], layer[i+1] = layer[i+1], layer[i]
				after := h.adjacentCrossings(prev, layer, next, adj)
				if after < before {
					improved = true
				} else {
					layer[i], layer[i+1] = layer[i+1], layer[i]
				}
			}
		}
		if !improved {
			break
		}
	}
}

func (h *Hierarchy) adjacentCrossings(prev, layer, next []int, adj adjacency) int {
	total := 0
	if len(prev) > 0 {
		total += CountLayerCrossings(prev, layer, adj.out)
	}
	if len(next) > 0 {
		total += CountLayerCrossings(layer, next, adj.out)
	}
	return total
}

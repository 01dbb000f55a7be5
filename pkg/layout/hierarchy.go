package layout

import (
	"strconv"

	"github.com/mhuels/dagview/pkg/ir"
)

// Hierarchy is the layered structure derived from an IR graph: nodes
// grouped by rank and the rank of every node. All indices are positions
// into the source graph's Nodes slice. Ranks are zero-based and
// contiguous.
type Hierarchy struct {
	// Layers holds the node indices of each rank, top to bottom. The
	// order within a layer is the current left-to-right ordering and is
	// what crossing reduction permutes.
	Layers [][]int

	// RankOf maps node index to rank.
	RankOf []int
}

// adjacency is the index-based edge structure shared by the layout
// stages. Built once per layout from the IR edge set.
type adjacency struct {
	out [][]int // node index -> successor indices
	in  [][]int // node index -> predecessor indices
}

func buildAdjacency(g *ir.Graph) adjacency {
	n := len(g.Nodes)
	adj := adjacency{out: make([][]int, n), in: make([][]int, n)}
	idx := g.NodeIndex()
	for _, e := range g.Edges {
		si, sok := idx[e.Source]
		ti, tok := idx[e.Target]
		if !sok || !tok {
			continue // dangling edge; Validate would have caught it
		}
		adj.out[si] = append(adj.out[si], ti)
		adj.in[ti] = append(adj.in[ti], si)
	}
	return adj
}

const unranked = -1 << 31

// BuildHierarchy assigns every node of g to a rank.
//
// When at least one node carries an explicit rank attribute, ranks are
// read directly and normalized so the minimum is 0; nodes without the
// attribute (or with an unparsable value) default to rank 0. Otherwise
// ranks are computed by BFS layering: zero-in-degree nodes start at rank
// 0 and each frontier expansion places newly freed nodes one rank deeper.
//
// Nodes the BFS never reaches - which requires a cycle in the IR edge
// set, something IR construction already rules out but a hand-assembled
// graph could contain - are placed together in a final synthetic rank.
func BuildHierarchy(g *ir.Graph) *Hierarchy {
	n := len(g.Nodes)
	h := &Hierarchy{RankOf: make([]int, n)}
	for i := range h.RankOf {
		h.RankOf[i] = unranked
	}
	if n == 0 {
		return h
	}

	if hasExplicitRanks(g) {
		h.buildFromAttrs(g)
		return h
	}

	adj := buildAdjacency(g)
	h.buildByBFS(adj, n)
	return h
}

func hasExplicitRanks(g *ir.Graph) bool {
	for _, node := range g.Nodes {
		if _, ok := node.Attrs[ir.AttrRank]; ok {
			return true
		}
	}
	return false
}

func (h *Hierarchy) buildFromAttrs(g *ir.Graph) {
	minRank := int(^uint(0) >> 1)
	for i, node := range g.Nodes {
		v, ok := node.Attrs[ir.AttrRank]
		if !ok {
			continue
		}
		r, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		h.RankOf[i] = r
		if r < minRank {
			minRank = r
		}
	}

	maxRank := 0
	for i := range h.RankOf {
		if h.RankOf[i] == unranked {
			continue
		}
		h.RankOf[i] -= minRank
		if h.RankOf[i] > maxRank {
			maxRank = h.RankOf[i]
		}
	}

	h.Layers = make([][]int, maxRank+1)
	for i, r := range h.RankOf {
		if r == unranked {
			// Unranked nodes default to the top layer.
			h.RankOf[i] = 0
			r = 0
		}
		h.Layers[r] = append(h.Layers[r], i)
	}
}

func (h *Hierarchy) buildByBFS(adj adjacency, n int) {
	indeg := make([]int, n)
	for u := 0; u < n; u++ {
		for _, v := range adj.out[u] {
			indeg[v]++
		}
	}

	var frontier []int
	for u := 0; u < n; u++ {
		if indeg[u] == 0 {
			frontier = append(frontier, u)
			h.RankOf[u] = 0
		}
	}

	processed := 0
	rank := 0
	for len(frontier) > 0 {
		var next []int
		h.Layers = append(h.Layers, nil)
		for _, u := range frontier {
			h.Layers[rank] = append(h.Layers[rank], u)
			processed++
			for _, v := range adj.out[u] {
				indeg[v]--
				if indeg[v] == 0 {
					next = append(next, v)
					h.RankOf[v] = rank + 1
				}
			}
		}
		rank++
		frontier = next
	}

	// Anything still unranked is part of a cycle; collect it in one
	// final synthetic rank.
	if processed < n {
		h.Layers = append(h.Layers, nil)
		last := len(h.Layers) - 1
		for u := 0; u < n; u++ {
			if h.RankOf[u] == unranked {
				h.RankOf[u] = last
				h.Layers[last] = append(h.Layers[last], u)
			}
		}
	}
}

// positions returns node index -> position within its layer for the
// current layer orderings.
func (h *Hierarchy) positions(n int) []int {
	pos := make([]int, n)
	for _, layer := range h.Layers {
		for i, u := range layer {
			pos[u] = i
		}
	}
	return pos
}

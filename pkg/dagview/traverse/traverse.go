// Package traverse implements generic traversal algorithms over a
// [dagview.View]: topological ordering via Kahn's algorithm and a
// bottom-up post-order fold. Both operate purely through the view
// contract and never copy or retain the underlying graph.
package traverse

import (
	"errors"

	"github.com/mhuels/dagview/pkg/dagview"
)

// ErrCycleDetected is returned by [TopoOrder] (and therefore by [Fold] and
// the IR builder, which depend on it) when the subgraph reachable from the
// view's roots contains a directed cycle. It indicates a contract violation
// by the caller's view and is not recoverable locally.
var ErrCycleDetected = errors.New("cycle detected in reachable graph")

// TopoOrder returns the handles reachable from v.Roots() ordered so that
// for every discovered edge u->v, u precedes v.
//
// The traversal first discovers the reachable subgraph breadth-first,
// counting in-degrees restricted to discovered nodes (edges from outside
// the reachable set are never seen and therefore not counted). Kahn's
// algorithm then drains a queue seeded with the zero-in-degree nodes.
//
// Tie-breaking among nodes that become ready simultaneously follows the
// discovery queue and is implementation-defined; callers that need
// determinism must sort the result themselves (emitters re-sort by stable
// key or display name).
func TopoOrder(v dagview.View) ([]dagview.Handle, error) {
	indeg := make(map[uint64]int)
	handleOf := make(map[uint64]dagview.Handle)
	var discovered []uint64

	// BFS discovery from roots; in-degree counts only edges whose source
	// was discovered.
	var work []dagview.Handle
	for _, r := range v.Roots() {
		k := r.StableKey()
		if _, seen := handleOf[k]; !seen {
			handleOf[k] = r
			indeg[k] = 0
			discovered = append(discovered, k)
			work = append(work, r)
		}
	}
	for i := 0; i < len(work); i++ {
		cur := work[i]
		for _, e := range v.Children(cur) {
			child := e.Target()
			ck := child.StableKey()
			indeg[ck]++
			if _, seen := handleOf[ck]; !seen {
				handleOf[ck] = child
				discovered = append(discovered, ck)
				work = append(work, child)
			}
		}
	}

	queue := make([]uint64, 0, len(discovered))
	for _, k := range discovered {
		if indeg[k] == 0 {
			queue = append(queue, k)
		}
	}

	order := make([]dagview.Handle, 0, len(discovered))
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		h := handleOf[k]
		order = append(order, h)

		for _, e := range v.Children(h) {
			ck := e.Target().StableKey()
			indeg[ck]--
			if indeg[ck] == 0 {
				queue = append(queue, ck)
			}
		}
	}

	if len(order) != len(discovered) {
		return nil, ErrCycleDetected
	}
	return order, nil
}

// Combiner reduces a node and its children's already-computed results into
// the node's result. Child results arrive in the order Children yields the
// corresponding edges.
type Combiner[R any] func(v dagview.View, node dagview.Handle, childResults []R) (R, error)

// Fold computes a result for every node reachable from v.Roots(),
// guaranteeing each child's result is available before its parent's.
// Results are keyed by stable key.
//
// The fold obtains a topological order and walks it in reverse; a child
// result missing at combine time (which reverse-topological processing
// rules out, but a misbehaving adapter could produce) is replaced by the
// zero value of R rather than failing. Errors from the combiner propagate
// unmodified and abort the fold.
func Fold[R any](v dagview.View, combine Combiner[R]) (map[uint64]R, error) {
	topo, err := TopoOrder(v)
	if err != nil {
		return nil, err
	}

	results := make(map[uint64]R, len(topo))
	for i := len(topo) - 1; i >= 0; i-- {
		node := topo[i]

		edges := v.Children(node)
		childVals := make([]R, len(edges))
		for j, e := range edges {
			childVals[j] = results[e.Target().StableKey()]
		}

		res, err := combine(v, node, childVals)
		if err != nil {
			return nil, err
		}
		results[node.StableKey()] = res
	}
	return results, nil
}

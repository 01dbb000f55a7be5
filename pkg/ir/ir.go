// Package ir provides the renderer-neutral intermediate representation
// produced from a DAG view, and the builder that materializes it.
//
// # Data Model
//
// The IR is a plain value graph: nodes identified by the 64-bit stable key
// of their source handle, directed edges referencing those ids, and
// free-form string attributes on nodes, edges, and the graph itself.
// A small set of canonical attribute keys (see attrs.go) is reserved;
// emitters interpret those and pass everything else through.
//
// The IR holds no back-references into the source DAG - once Build
// returns, the source may be destroyed.
package ir

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrEdgeEndpoint is returned by [Graph.Validate] when an edge references
// an id not present in the node set. This indicates a corrupted or
// hand-assembled graph; graphs produced by Build always validate.
var ErrEdgeEndpoint = errors.New("edge references unknown node id")

// Attrs is the attribute map attached to nodes, edges, and the graph.
// Values are always owned strings; attributors must not hand out views
// into storage they intend to reuse.
type Attrs map[string]string

// Clone returns a copy of the attribute map, or nil for a nil map.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Lookup returns the value for key, or def when the key is absent.
func (a Attrs) Lookup(key, def string) string {
	if v, ok := a[key]; ok {
		return v
	}
	return def
}

// Node is a node in the renderer-neutral IR. ID equals the stable key of
// the source handle; a node is created once per distinct key and never
// mutated after creation except by default backfilling during Build.
type Node struct {
	ID    uint64 `json:"id" bson:"id"`
	Attrs Attrs  `json:"attributes,omitempty" bson:"attributes,omitempty"`
}

// Edge is a directed edge in the IR. Source and Target reference Node IDs.
// Duplicate edges are legal and preserved - the IR performs no
// deduplication.
type Edge struct {
	Source uint64 `json:"source" bson:"source"`
	Target uint64 `json:"target" bson:"target"`
	Attrs  Attrs  `json:"attributes,omitempty" bson:"attributes,omitempty"`
}

// Graph is the top-level IR produced from a DAG view. It is an
// independently owned value type: emitters and the layout engine consume
// it without touching the source DAG.
type Graph struct {
	Nodes       []Node `json:"nodes" bson:"nodes"`
	Edges       []Edge `json:"edges" bson:"edges"`
	GlobalAttrs Attrs  `json:"graphAttributes,omitempty" bson:"graphAttributes,omitempty"`
}

// NodeIndex returns a map from node id to index in g.Nodes.
func (g *Graph) NodeIndex() map[uint64]int {
	m := make(map[uint64]int, len(g.Nodes))
	for i, n := range g.Nodes {
		m[n.ID] = i
	}
	return m
}

// Validate checks that every edge's endpoints appear among the node ids.
// Returns ErrEdgeEndpoint (wrapped with the offending ids) on violation.
func (g *Graph) Validate() error {
	idx := g.NodeIndex()
	for _, e := range g.Edges {
		if _, ok := idx[e.Source]; !ok {
			return fmt.Errorf("edge %d->%d: source: %w", e.Source, e.Target, ErrEdgeEndpoint)
		}
		if _, ok := idx[e.Target]; !ok {
			return fmt.Errorf("edge %d->%d: target: %w", e.Source, e.Target, ErrEdgeEndpoint)
		}
	}
	return nil
}

// SortNodes orders nodes by display name where both have one (named nodes
// before unnamed, id as tiebreaker). Emitters use this for deterministic
// output; the builder itself emits traversal order.
func SortNodes(nodes []Node) {
	slices.SortStableFunc(nodes, func(a, b Node) int {
		an, aok := a.Attrs[AttrName]
		bn, bok := b.Attrs[AttrName]
		switch {
		case aok && bok:
			if c := cmp.Compare(an, bn); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		case aok:
			return -1
		case bok:
			return 1
		default:
			return cmp.Compare(a.ID, b.ID)
		}
	})
}

// SortEdges orders edges by source, target, then style attribute.
func SortEdges(edges []Edge) {
	slices.SortStableFunc(edges, func(a, b Edge) int {
		if c := cmp.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Target, b.Target); c != 0 {
			return c
		}
		return cmp.Compare(a.Attrs.Lookup(AttrStyle, ""), b.Attrs.Lookup(AttrStyle, ""))
	})
}

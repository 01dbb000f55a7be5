package ir

import (
	"fmt"
	"strconv"

	"github.com/mhuels/dagview/pkg/dagview"
	"github.com/mhuels/dagview/pkg/dagview/traverse"
)

// NodeAttributor produces attributes for a node. It may return nil for no
// attributes. It must not mutate the view; it may keep internal state
// (caches) across calls within one build.
type NodeAttributor func(v dagview.View, h dagview.Handle) (Attrs, error)

// EdgeAttributor produces attributes for one outgoing edge of parent.
// The edge value is the one yielded by Children, so attributors can
// type-assert adapter-specific edge types (e.g. [dagview.Labeled]).
type EdgeAttributor func(v dagview.View, parent dagview.Handle, e dagview.Edge) (Attrs, error)

// BuildOption configures a Build call.
type BuildOption func(*builder)

// WithNodeAttributor sets the node attribution policy. The default labels
// nodes by their stringified stable key.
func WithNodeAttributor(fn NodeAttributor) BuildOption {
	return func(b *builder) { b.nodeAttr = fn }
}

// WithEdgeAttributor sets the edge attribution policy. The default
// produces no edge attributes.
func WithEdgeAttributor(fn EdgeAttributor) BuildOption {
	return func(b *builder) { b.edgeAttr = fn }
}

// WithGlobalAttrs sets graph-level attributes (rankdir, graph.label, ...)
// on the built graph.
func WithGlobalAttrs(attrs Attrs) BuildOption {
	return func(b *builder) { b.global = attrs.Clone() }
}

// WithNamer supplies an explicit display-name context. By default each
// Build call owns a fresh Namer; callers that want stable names across
// several builds over the same underlying DAG can share one.
func WithNamer(n *Namer) BuildOption {
	return func(b *builder) { b.namer = n }
}

type builder struct {
	nodeAttr NodeAttributor
	edgeAttr EdgeAttributor
	global   Attrs
	namer    *Namer
}

// Build walks the view in topological order and materializes the IR.
//
// For each node, the node attributor runs exactly once per distinct stable
// key (a node re-discovered during traversal - impossible for a well-formed
// DAG but defensively handled - is not duplicated). A missing display name
// is backfilled from the build's Namer and a missing label from the
// stringified stable key. Edges are then emitted per parent in traversal
// order, per child in Children order, invoking the edge attributor for each.
//
// Adapter guards ([dagview.Guarded]) are held for the duration of one
// node's attribution.
//
// Failure: propagates [traverse.ErrCycleDetected] from the topological
// sort; attributor errors propagate unmodified.
func Build(v dagview.View, opts ...BuildOption) (*Graph, error) {
	b := &builder{
		nodeAttr: DefaultNodeAttributor,
		edgeAttr: func(dagview.View, dagview.Handle, dagview.Edge) (Attrs, error) { return nil, nil },
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.namer == nil {
		b.namer = NewNamer()
	}

	topo, err := traverse.TopoOrder(v)
	if err != nil {
		return nil, err
	}

	graph := &Graph{
		Nodes:       make([]Node, 0, len(topo)),
		GlobalAttrs: b.global,
	}

	seen := make(map[uint64]bool, len(topo))
	for _, h := range topo {
		k := h.StableKey()
		if seen[k] {
			continue
		}
		seen[k] = true

		release := dagview.Guard(v, h)
		attrs, err := b.nodeAttr(v, h)
		release()
		if err != nil {
			return nil, err
		}
		if attrs == nil {
			attrs = Attrs{}
		}
		if _, ok := attrs[AttrName]; !ok {
			attrs[AttrName] = b.namer.Name(k)
		}
		if _, ok := attrs[AttrLabel]; !ok {
			attrs[AttrLabel] = strconv.FormatUint(k, 10)
		}

		graph.Nodes = append(graph.Nodes, Node{ID: k, Attrs: attrs})
	}

	estEdges := 0
	for _, h := range topo {
		estEdges += len(v.Children(h))
	}
	graph.Edges = make([]Edge, 0, estEdges)

	for _, parent := range topo {
		pk := parent.StableKey()
		for _, e := range v.Children(parent) {
			attrs, err := b.edgeAttr(v, parent, e)
			if err != nil {
				return nil, err
			}
			graph.Edges = append(graph.Edges, Edge{
				Source: pk,
				Target: e.Target().StableKey(),
				Attrs:  attrs,
			})
		}
	}

	return graph, nil
}

// DefaultNodeAttributor labels nodes by their stringified stable key.
func DefaultNodeAttributor(_ dagview.View, h dagview.Handle) (Attrs, error) {
	return Attrs{AttrLabel: strconv.FormatUint(h.StableKey(), 10)}, nil
}

// Namer assigns compact sequential display names ("node000", "node001",
// ...) the first time each stable key is seen. It is an explicit per-build
// context owned by the caller - there is no process-global state - and its
// lifecycle is scoped to one Build call unless explicitly shared via
// [WithNamer]. Not safe for concurrent use.
type Namer struct {
	byKey map[uint64]int
	next  int
}

// NewNamer creates an empty naming context.
func NewNamer() *Namer {
	return &Namer{byKey: make(map[uint64]int)}
}

// Name returns the display name for key, assigning the next sequential
// name on first sight.
func (n *Namer) Name(key uint64) string {
	id, ok := n.byKey[key]
	if !ok {
		id = n.next
		n.next++
		n.byKey[key] = id
	}
	return fmt.Sprintf("node%03d", id)
}

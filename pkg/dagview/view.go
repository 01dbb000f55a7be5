package dagview

// Handle is an opaque, cheap identifier for a node in a foreign DAG.
// Identity must be stable for the lifetime of one traversal: two handles
// denote the same logical node if and only if their stable keys are equal.
// Keys are not required to be stable across separate traversals.
type Handle interface {
	// StableKey returns a 64-bit identity usable as a map key for
	// memoization. Adapters may derive it from an arena index, pointer
	// bits, or a content hash - the core only requires equality semantics.
	StableKey() uint64
}

// DebugAddressable is an optional extension of Handle for adapters that can
// report an underlying memory address for diagnostics. The core never calls
// it; it exists for debug tooling and log output.
type DebugAddressable interface {
	Handle
	DebugAddr() uintptr
}

// Edge is a lightweight reference to one outgoing edge of a node.
// It yields exactly one target handle. Adapters may carry extra data
// (labels, weights) on their edge types; the core ignores it.
type Edge interface {
	Target() Handle
}

// Labeled is an optional extension of Edge for adapters whose edges carry
// a display label. Edge attributors may type-assert for it; the traversal
// core does not.
type Labeled interface {
	Edge
	Label() string
}

// View is a read-only, non-owning window onto a foreign DAG.
// Implementations must not require the core to mutate or copy the
// underlying graph, and must return an empty slice (never fail) from
// Children for leaf nodes.
type View interface {
	// Roots returns the traversal entry points. It may be empty (the
	// resulting graph is empty) or contain multiple handles (a forest
	// sharing one result graph).
	Roots() []Handle

	// Children returns the outgoing edges of h, in adapter-defined order.
	// That order is observable: post-order folds gather child results in
	// it, and IR edges are emitted in it.
	Children(h Handle) []Edge
}

// Guarded is an optional extension of View for adapters whose backing
// structure must be pinned or locked while a node is processed. StartGuard
// returns a release func scoped to one node's processing; the traversal
// calls it (when implemented) before reading a node's data and invokes the
// release immediately after. Any locking discipline is entirely the
// adapter's responsibility.
type Guarded interface {
	View
	StartGuard(h Handle) (release func())
}

// Guard acquires the start guard for h if v implements Guarded, returning
// the release func. For plain views it returns a no-op.
func Guard(v View, h Handle) (release func()) {
	if g, ok := v.(Guarded); ok {
		return g.StartGuard(h)
	}
	return func() {}
}

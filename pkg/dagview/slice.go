package dagview

// Key is the simplest possible Handle: the stable key itself.
// It is useful for adapters whose nodes are already identified by small
// integers (arena indices, dense IDs) and for tests.
type Key uint64

// StableKey returns the key value.
func (k Key) StableKey() uint64 { return uint64(k) }

// BasicEdge is a minimal Edge implementation wrapping a target handle.
// Adapters that have no per-edge data can return these from Children.
type BasicEdge struct {
	To Handle
}

// Target returns the edge's target handle.
func (e BasicEdge) Target() Handle { return e.To }

// SliceView is a small in-memory View backed by an adjacency map keyed by
// stable key. It borrows nothing and owns its own storage, making it
// suitable for tests, examples, and graphs decoded from serialized form.
type SliceView struct {
	RootKeys  []uint64
	Adjacency map[uint64][]uint64
}

// Roots returns the declared root handles.
func (v *SliceView) Roots() []Handle {
	out := make([]Handle, len(v.RootKeys))
	for i, k := range v.RootKeys {
		out[i] = Key(k)
	}
	return out
}

// Children returns the outgoing edges of h in adjacency order.
func (v *SliceView) Children(h Handle) []Edge {
	targets := v.Adjacency[h.StableKey()]
	out := make([]Edge, len(targets))
	for i, t := range targets {
		out[i] = BasicEdge{To: Key(t)}
	}
	return out
}

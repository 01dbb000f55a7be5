package expr

import (
	"github.com/mhuels/dagview/pkg/dagview"
)

// Handle identifies one AST node within a View. Keys are assigned once
// at view construction and stay stable for the view's lifetime.
type Handle struct {
	Node Node
	key  uint64
}

// StableKey implements dagview.Handle.
func (h Handle) StableKey() uint64 { return h.key }

// Edge is an outgoing operand edge of an operator node.
type Edge struct {
	to Handle
}

// Target implements dagview.Edge.
func (e Edge) Target() dagview.Handle { return e.to }

// View exposes a parsed expression tree as a read-only DAG view. It is
// non-owning: the AST must outlive the view.
type View struct {
	root Node
	keys map[Node]uint64
}

// NewView builds a view over the expression rooted at root. A nil root
// yields an empty view.
func NewView(root Node) *View {
	v := &View{root: root, keys: make(map[Node]uint64)}
	v.index(root)
	return v
}

func (v *View) index(n Node) {
	if n == nil {
		return
	}
	if _, ok := v.keys[n]; ok {
		return
	}
	v.keys[n] = uint64(len(v.keys) + 1)
	for _, c := range childNodes(n) {
		v.index(c)
	}
}

// Roots implements dagview.View.
func (v *View) Roots() []dagview.Handle {
	if v.root == nil {
		return nil
	}
	return []dagview.Handle{v.handle(v.root)}
}

// Children implements dagview.View. Operands are returned left before
// right; that order is observable in fold results and IR edge order.
func (v *View) Children(h dagview.Handle) []dagview.Edge {
	eh, ok := h.(Handle)
	if !ok || eh.Node == nil {
		return nil
	}
	kids := childNodes(eh.Node)
	if len(kids) == 0 {
		return nil
	}
	out := make([]dagview.Edge, 0, len(kids))
	for _, c := range kids {
		out = append(out, Edge{to: v.handle(c)})
	}
	return out
}

func (v *View) handle(n Node) Handle {
	return Handle{Node: n, key: v.keys[n]}
}

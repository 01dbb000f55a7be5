package expr

import (
	"github.com/mhuels/dagview/pkg/dagview"
	"github.com/mhuels/dagview/pkg/ir"
)

// NodeAttrs is an attribution policy for expression views: operators get
// their operator word as label, a box shape and a fill color per operator
// type; variables get their name and the default ellipse.
func NodeAttrs(_ dagview.View, h dagview.Handle) (ir.Attrs, error) {
	eh, ok := h.(Handle)
	if !ok || eh.Node == nil {
		return nil, nil
	}

	switch n := eh.Node.(type) {
	case *Variable:
		return ir.Attrs{ir.AttrLabel: n.Name, ir.AttrGroup: "variable"}, nil
	case *And:
		return operatorAttrs("AND", "#a7c7e7"), nil
	case *Or:
		return operatorAttrs("OR", "#b8e0b8"), nil
	case *Xor:
		return operatorAttrs("XOR", "#f2d98c"), nil
	case *Not:
		return operatorAttrs("NOT", "#f2b8b8"), nil
	default:
		return nil, nil
	}
}

func operatorAttrs(label, fill string) ir.Attrs {
	return ir.Attrs{
		ir.AttrLabel:     label,
		ir.AttrShape:     "box",
		ir.AttrFillColor: fill,
		ir.AttrGroup:     "operator",
	}
}

// EdgeAttrs labels the operands of binary operators L and R. Unary NOT
// edges stay unlabeled.
func EdgeAttrs(_ dagview.View, parent dagview.Handle, e dagview.Edge) (ir.Attrs, error) {
	ph, ok := parent.(Handle)
	if !ok {
		return nil, nil
	}
	th, ok := e.Target().(Handle)
	if !ok {
		return nil, nil
	}

	var left, right Node
	switch p := ph.Node.(type) {
	case *And:
		left, right = p.Left, p.Right
	case *Or:
		left, right = p.Left, p.Right
	case *Xor:
		left, right = p.Left, p.Right
	default:
		return nil, nil
	}

	switch th.Node {
	case left:
		return ir.Attrs{ir.AttrLabel: "L"}, nil
	case right:
		return ir.Attrs{ir.AttrLabel: "R"}, nil
	}
	return nil, nil
}

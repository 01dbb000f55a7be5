// Package expr parses boolean expressions into an AST and exposes the
// result as a graph view, making it the built-in concrete adapter for
// the conversion and layout pipeline.
//
// # Grammar
//
// Operators in precedence order, highest first:
//
//	NOT  unary, right-associative
//	AND  binary, left-associative
//	OR   binary, left-associative
//	XOR  binary, left-associative
//
// Operands are variables: any run of characters that is not whitespace,
// a parenthesis, or an operator keyword. Parentheses group.
package expr

// Node is one node of a parsed expression tree. The concrete types are
// *Variable, *And, *Or, *Xor and *Not; nodes compare by pointer identity.
type Node interface {
	isNode()
}

// Variable is a reference to a named input.
type Variable struct {
	Name string
}

// And is a binary conjunction.
type And struct {
	Left, Right Node
}

// Or is a binary disjunction.
type Or struct {
	Left, Right Node
}

// Xor is a binary exclusive disjunction.
type Xor struct {
	Left, Right Node
}

// Not negates its operand.
type Not struct {
	Operand Node
}

func (*Variable) isNode() {}
func (*And) isNode()      {}
func (*Or) isNode()       {}
func (*Xor) isNode()      {}
func (*Not) isNode()      {}

// childNodes returns the operands of n in evaluation order.
func childNodes(n Node) []Node {
	switch t := n.(type) {
	case *And:
		return []Node{t.Left, t.Right}
	case *Or:
		return []Node{t.Left, t.Right}
	case *Xor:
		return []Node{t.Left, t.Right}
	case *Not:
		return []Node{t.Operand}
	default:
		return nil
	}
}

package expr

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mhuels/dagview/pkg/ir"
)

// render formats an AST back to a fully parenthesized string for
// structural assertions.
func render(n Node) string {
	switch t := n.(type) {
	case *Variable:
		return t.Name
	case *And:
		return "(" + render(t.Left) + " AND " + render(t.Right) + ")"
	case *Or:
		return "(" + render(t.Left) + " OR " + render(t.Right) + ")"
	case *Xor:
		return "(" + render(t.Left) + " XOR " + render(t.Right) + ")"
	case *Not:
		return "(NOT " + render(t.Operand) + ")"
	default:
		return "?"
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single variable", "x0", "x0"},
		{"and binds tighter than or", "a OR b AND c", "(a OR (b AND c))"},
		{"or binds tighter than xor", "a XOR b OR c", "(a XOR (b OR c))"},
		{"not binds tightest", "NOT a AND b", "((NOT a) AND b)"},
		{"not is right associative", "NOT NOT a", "(NOT (NOT a))"},
		{"and is left associative", "a AND b AND c", "((a AND b) AND c)"},
		{"parens override", "(a OR b) AND c", "((a OR b) AND c)"},
		{"nested", "(x0 AND x1) OR (NOT x2) XOR x3", "(((x0 AND x1) OR (NOT x2)) XOR x3)"},
		{"keyword inside variable name", "ANDREW OR ORDER", "(ANDREW OR ORDER)"},
		{"whitespace tolerant", "  a\tAND\n b ", "(a AND b)"},
		{"parens as boundaries", "NOT(a)AND(b)", "((NOT a) AND b)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if s := render(got); s != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, s, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"dangling operator", "a AND"},
		{"leading operator", "AND a"},
		{"unclosed paren", "(a OR b"},
		{"stray close paren", "a)"},
		{"trailing garbage", "a b AND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.input); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.input)
			}
		})
	}

	if _, err := Parse("   "); !errors.Is(err, ErrEmptyExpression) {
		t.Errorf("blank input: err = %v, want ErrEmptyExpression", err)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formula.txt")
	content := "# header comment\n(x0 AND x1) OR\n\n(NOT x2)\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if s := render(got); s != "((x0 AND x1) OR (NOT x2))" {
		t.Errorf("ParseFile = %s", s)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("missing file: want error")
	}
}

func TestViewShape(t *testing.T) {
	root, err := Parse("(a AND b) OR NOT c")
	if err != nil {
		t.Fatal(err)
	}
	v := NewView(root)

	roots := v.Roots()
	if len(roots) != 1 {
		t.Fatalf("roots = %d, want 1", len(roots))
	}

	// OR root has two children: the AND and the NOT.
	kids := v.Children(roots[0])
	if len(kids) != 2 {
		t.Fatalf("root children = %d, want 2", len(kids))
	}
	andH := kids[0].Target().(Handle)
	notH := kids[1].Target().(Handle)
	if _, ok := andH.Node.(*And); !ok {
		t.Errorf("left child = %T, want *And", andH.Node)
	}
	if _, ok := notH.Node.(*Not); !ok {
		t.Errorf("right child = %T, want *Not", notH.Node)
	}

	// Leaves have no children; keys are stable across calls.
	leaf := v.Children(andH)[0].Target()
	if got := v.Children(leaf); len(got) != 0 {
		t.Errorf("variable children = %d, want 0", len(got))
	}
	again := v.Children(roots[0])[0].Target()
	if again.StableKey() != andH.StableKey() {
		t.Error("handle key changed between calls")
	}
}

func TestNodeAttrs(t *testing.T) {
	root, err := Parse("a AND NOT b")
	if err != nil {
		t.Fatal(err)
	}
	v := NewView(root)

	andH := v.Roots()[0]
	attrs, err := NodeAttrs(v, andH)
	if err != nil {
		t.Fatal(err)
	}
	if attrs[ir.AttrLabel] != "AND" || attrs[ir.AttrShape] != "box" {
		t.Errorf("AND attrs = %v", attrs)
	}

	varH := v.Children(andH)[0].Target()
	attrs, err = NodeAttrs(v, varH)
	if err != nil {
		t.Fatal(err)
	}
	if attrs[ir.AttrLabel] != "a" {
		t.Errorf("variable attrs = %v", attrs)
	}
	if _, ok := attrs[ir.AttrShape]; ok {
		t.Errorf("variable should keep the default shape: %v", attrs)
	}
}

func TestEdgeAttrs(t *testing.T) {
	root, err := Parse("a XOR NOT b")
	if err != nil {
		t.Fatal(err)
	}
	v := NewView(root)
	xorH := v.Roots()[0]
	edges := v.Children(xorH)

	leftAttrs, err := EdgeAttrs(v, xorH, edges[0])
	if err != nil {
		t.Fatal(err)
	}
	rightAttrs, err := EdgeAttrs(v, xorH, edges[1])
	if err != nil {
		t.Fatal(err)
	}
	if leftAttrs[ir.AttrLabel] != "L" || rightAttrs[ir.AttrLabel] != "R" {
		t.Errorf("binary edge labels = %v, %v", leftAttrs, rightAttrs)
	}

	// NOT edges stay unlabeled.
	notH := edges[1].Target()
	notEdges := v.Children(notH)
	attrs, err := EdgeAttrs(v, notH, notEdges[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(attrs) != 0 {
		t.Errorf("NOT edge attrs = %v, want none", attrs)
	}
}

func TestVariables(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "x0", []string{"x0"}},
		{"distinct sorted", "b AND a OR c", []string{"a", "b", "c"}},
		{"repeated deduplicated", "x AND x OR NOT x", []string{"x"}},
		{"deep nesting", "(x0 AND x1) OR (NOT x2) XOR (x3 AND (NOT x4))",
			[]string{"x0", "x1", "x2", "x3", "x4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Variables(root)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Variables = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildFromExpression(t *testing.T) {
	root, err := Parse("a AND b")
	if err != nil {
		t.Fatal(err)
	}
	g, err := ir.Build(NewView(root),
		ir.WithNodeAttributor(NodeAttrs),
		ir.WithEdgeAttributor(EdgeAttrs),
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(g.Nodes) != 3 || len(g.Edges) != 2 {
		t.Fatalf("graph = %d nodes, %d edges, want 3, 2", len(g.Nodes), len(g.Edges))
	}
	labels := map[string]bool{}
	for _, n := range g.Nodes {
		labels[n.Attrs[ir.AttrLabel]] = true
	}
	for _, want := range []string{"AND", "a", "b"} {
		if !labels[want] {
			t.Errorf("missing node label %q in %v", want, labels)
		}
	}
}

// Package dot formats IR graphs as GraphViz DOT digraphs.
//
// The emitter honors the canonical attribute keys where DOT has a
// matching concept (labels, colors, shapes, style hints) and escapes
// attribute values conservatively so the output is always syntactically
// valid. Output is deterministic: attributes are emitted in lexicographic
// order and nodes and edges in graph order.
package dot

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mhuels/dagview/pkg/ir"
)

// Options configures DOT emission.
type Options struct {
	// GraphName is the DOT graph identifier. Defaults to "G".
	GraphName string
}

func (o Options) withDefaults() Options {
	if o.GraphName == "" {
		o.GraphName = "G"
	}
	return o
}

// Emit formats g as a GraphViz DOT digraph.
//
// Node identifiers prefer the canonical id attribute, then a literal
// name attribute, and fall back to the generated form n<id>. Explicit
// identifiers are quoted and escaped; generated ones stay unquoted.
// Nodes without a style attribute default to style=filled. A top-level
// rankdir=TB is emitted unless the graph attributes already carry one.
//
// Returns an error when an edge references a node that is not part of
// the graph.
func Emit(g *ir.Graph, opts Options) (string, error) {
	opts = opts.withDefaults()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", opts.GraphName)

	if _, ok := g.GlobalAttrs[ir.AttrRankDir]; !ok {
		buf.WriteString("  rankdir=TB;\n")
	}
	for _, k := range sortedKeys(g.GlobalAttrs) {
		v := g.GlobalAttrs[k]
		if k == ir.AttrGraphLabel {
			k = "label"
		}
		fmt.Fprintf(&buf, "  %s=\"%s\";\n", k, escape(v))
	}

	names := make(map[uint64]string, len(g.Nodes))
	for _, n := range g.Nodes {
		name := nodeName(n)
		names[n.ID] = name
		writeNode(&buf, n, name)
	}

	for _, e := range g.Edges {
		src, ok := names[e.Source]
		if !ok {
			return "", fmt.Errorf("dot: edge %d->%d: unknown source node", e.Source, e.Target)
		}
		dst, ok := names[e.Target]
		if !ok {
			return "", fmt.Errorf("dot: edge %d->%d: unknown target node", e.Source, e.Target)
		}
		writeEdge(&buf, e, src, dst)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// nodeName resolves the DOT identifier for a node: an explicit id or
// name attribute wins (quoted), otherwise the generated n<id> form is
// used verbatim.
func nodeName(n ir.Node) string {
	if v, ok := n.Attrs[ir.AttrID]; ok {
		return "\"" + escape(v) + "\""
	}
	if v, ok := n.Attrs[ir.AttrName]; ok {
		return "\"" + escape(v) + "\""
	}
	return "n" + strconv.FormatUint(n.ID, 10)
}

func writeNode(buf *bytes.Buffer, n ir.Node, name string) {
	label, ok := n.Attrs[ir.AttrLabel]
	if !ok {
		label = strconv.FormatUint(n.ID, 10)
	}

	local := n.Attrs.Clone()
	if local == nil {
		local = ir.Attrs{}
	}
	if _, ok := local[ir.AttrStyle]; !ok {
		local[ir.AttrStyle] = "filled"
	}

	fmt.Fprintf(buf, "  %s [label = \"%s\"", name, escape(label))
	for _, k := range sortedKeys(local) {
		switch k {
		case ir.AttrLabel:
			continue
		case ir.AttrID:
			// The canonical id is re-emitted as the DOT name attribute.
			fmt.Fprintf(buf, ", name = \"%s\"", escape(local[k]))
			continue
		case ir.AttrName:
			// Skipped so an explicit id and a generated name never
			// produce duplicate name attributes.
			continue
		}
		fmt.Fprintf(buf, ", %s = \"%s\"", k, escape(local[k]))
	}
	buf.WriteString("];\n")
}

func writeEdge(buf *bytes.Buffer, e ir.Edge, src, dst string) {
	fmt.Fprintf(buf, "  %s -> %s", src, dst)
	if len(e.Attrs) > 0 {
		buf.WriteString(" [")
		first := true
		if v, ok := e.Attrs[ir.AttrLabel]; ok {
			fmt.Fprintf(buf, "label = \"%s\"", escape(v))
			first = false
		}
		for _, k := range sortedKeys(e.Attrs) {
			if k == ir.AttrLabel {
				continue
			}
			if !first {
				buf.WriteString(", ")
			}
			first = false
			fmt.Fprintf(buf, "%s = \"%s\"", k, escape(e.Attrs[k]))
		}
		buf.WriteString("]")
	}
	buf.WriteString(";\n")
}

func sortedKeys(m ir.Attrs) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// escape makes s safe inside a quoted DOT attribute value: backslashes,
// quotes and common control characters get escape sequences, remaining
// control bytes hex escapes.
func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&b, `\x%02x`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}

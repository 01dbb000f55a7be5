// Package mermaid formats IR graphs as Mermaid flowchart definitions.
//
// The emitter honors the attribute subset Mermaid can express: labels,
// the graph title, rank direction, simple fill/stroke styling and a few
// node shapes mapped onto Mermaid's bracket syntax.
package mermaid

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/mhuels/dagview/pkg/ir"
)

// Options configures Mermaid emission.
type Options struct {
	// GraphName appears in a leading comment only; Mermaid has no graph
	// identifier syntax. Defaults to "G".
	GraphName string
}

func (o Options) withDefaults() Options {
	if o.GraphName == "" {
		o.GraphName = "G"
	}
	return o
}

// Emit formats g as a Mermaid graph definition. The direction comes
// from the graph-level rankdir attribute, defaulting to TB.
func Emit(g *ir.Graph, opts Options) string {
	opts = opts.withDefaults()

	dir := "TB"
	if v, ok := g.GlobalAttrs[ir.AttrRankDir]; ok {
		dir = v
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%%% Mermaid diagram for: %s\n", opts.GraphName)
	fmt.Fprintf(&buf, "graph %s\n", dir)

	if title, ok := g.GlobalAttrs[ir.AttrGraphLabel]; ok {
		fmt.Fprintf(&buf, "  title %s\n", escape(title))
	}

	for _, n := range g.Nodes {
		writeNode(&buf, n)
	}
	for _, e := range g.Edges {
		src := "n" + strconv.FormatUint(e.Source, 10)
		dst := "n" + strconv.FormatUint(e.Target, 10)
		if label, ok := e.Attrs[ir.AttrLabel]; ok {
			fmt.Fprintf(&buf, "  %s -- \"%s\" --> %s\n", src, escape(label), dst)
		} else {
			fmt.Fprintf(&buf, "  %s --> %s\n", src, dst)
		}
	}

	return buf.String()
}

func writeNode(buf *bytes.Buffer, n ir.Node) {
	label, ok := n.Attrs[ir.AttrLabel]
	if !ok {
		label = strconv.FormatUint(n.ID, 10)
	}

	opening, closing := brackets(n.Attrs[ir.AttrShape])
	name := "n" + strconv.FormatUint(n.ID, 10)
	fmt.Fprintf(buf, "  %s%s\"%s\"%s\n", name, opening, escape(label), closing)

	var parts []string
	if v, ok := n.Attrs[ir.AttrFillColor]; ok {
		parts = append(parts, "fill:"+v)
	}
	if v, ok := n.Attrs[ir.AttrColor]; ok {
		parts = append(parts, "stroke:"+v)
	}
	if v, ok := n.Attrs[ir.AttrPenWidth]; ok {
		parts = append(parts, "stroke-width:"+v)
	}
	if len(parts) > 0 {
		fmt.Fprintf(buf, "  style %s %s\n", name, strings.Join(parts, ","))
	}
}

// brackets maps known shape names onto Mermaid's bracket pairs; shapes
// Mermaid cannot express fall back to the plain box.
func brackets(shape string) (string, string) {
	switch shape {
	case "circle", "ellipse":
		return "(", ")"
	case "round", "stadium":
		return "((", "))"
	case "diamond":
		// Mermaid has no direct diamond node; approximate.
		return "<>", "<>"
	default:
		return "[", "]"
	}
}

// escape makes s safe inside a Mermaid quoted label: backslashes and
// newlines get escape sequences, remaining control bytes hex escapes.
func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
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

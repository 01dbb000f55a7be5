// Package svg emits self-contained SVG documents from IR graphs.
//
// Unlike the dot package, which delegates drawing to Graphviz, this
// emitter consumes the layered layout directly: nodes draw as shapes at
// their refined canvas positions and edges as straight lines clipped to
// the node boundary, with arrowhead markers grouped per stroke style.
package svg

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mhuels/dagview/pkg/ir"
	"github.com/mhuels/dagview/pkg/layout"
)

// Options configures SVG emission.
type Options struct {
	// Title is the caption drawn at the top of the canvas when the graph
	// carries no graph-level label. Defaults to "dagview".
	Title string

	// Layout and Canvas tune the layered layout and the canvas mapping.
	// Zero values select the defaults.
	Layout layout.Options
	Canvas layout.Canvas
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "dagview"
	}
	return o
}

// Emit computes the layout for g and renders it as an SVG document.
// Each render gets a fresh artifact id on the root element so emitted
// documents can be told apart when cached or stored.
func Emit(g *ir.Graph, opts Options) []byte {
	opts = opts.withDefaults()

	h, coords := layout.Compute(g, opts.Layout)
	ref := layout.Refine(h, g, coords, opts.Canvas)

	idx := g.NodeIndex()
	markerFor, markers := buildMarkers(g)

	var buf bytes.Buffer
	buf.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&buf,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\" data-render-id=\"%s\">\n",
		int(math.Ceil(ref.Width)), int(math.Ceil(ref.Height)),
		int(math.Ceil(ref.Width)), int(math.Ceil(ref.Height)),
		uuid.NewString())

	if title, ok := g.GlobalAttrs[ir.AttrGraphLabel]; ok {
		fmt.Fprintf(&buf, "  <text x=\"%v\" y=\"16\" text-anchor=\"middle\">%s</text>\n",
			ref.Width/2, escapeXML(title))
	} else if len(g.GlobalAttrs) == 0 {
		fmt.Fprintf(&buf, "  <text x=\"%v\" y=\"16\" text-anchor=\"middle\">%s</text>\n",
			ref.Width/2, escapeXML(opts.Title))
	}

	buf.WriteString("  <rect width=\"100%\" height=\"100%\" fill=\"#ffffff\" />\n")
	buf.WriteString("  <defs>\n")
	for _, m := range markers {
		fmt.Fprintf(&buf,
			"    <marker id=\"%s\" viewBox=\"0 0 8 6\" markerWidth=\"8\" markerHeight=\"6\" refX=\"8\" refY=\"3\" orient=\"auto\" markerUnits=\"userSpaceOnUse\">\n",
			m.id)
		col := escapeXML(m.stroke)
		fmt.Fprintf(&buf, "      <path d=\"M0 0 L8 3 L0 6 z\" fill=\"%s\" stroke=\"%s\" />\n", col, col)
		buf.WriteString("    </marker>\n")
	}
	buf.WriteString("  </defs>\n")

	// Arrowhead segments draw after the node shapes so arrow tips stay
	// visible at the node boundary.
	arrowSegments := writeEdges(&buf, g, idx, ref, markerFor)
	writeNodes(&buf, g, ref)
	for _, seg := range arrowSegments {
		buf.WriteString(seg)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

type marker struct {
	id     string
	stroke string
}

// buildMarkers assigns one arrowhead marker per distinct edge stroke
// style (color plus pen width).
func buildMarkers(g *ir.Graph) (map[string]string, []marker) {
	idFor := make(map[string]string)
	var markers []marker
	for _, e := range g.Edges {
		stroke := e.Attrs.Lookup(ir.AttrColor, "#000000")
		penw := e.Attrs.Lookup(ir.AttrPenWidth, "1")
		key := stroke + "|" + penw
		if _, ok := idFor[key]; !ok {
			id := fmt.Sprintf("dagview-arrow-%d", len(markers))
			idFor[key] = id
			markers = append(markers, marker{id: id, stroke: stroke})
		}
	}
	return idFor, markers
}

func writeEdges(buf *bytes.Buffer, g *ir.Graph, idx map[uint64]int, ref layout.Refined, markerFor map[string]string) []string {
	var segments []string
	for _, e := range g.Edges {
		si, sok := idx[e.Source]
		ti, tok := idx[e.Target]
		if !sok || !tok {
			continue
		}
		sx, sy := ref.X[si], ref.Y[si]
		tx, ty := ref.X[ti], ref.Y[ti]

		dx := tx - sx
		dy := ty - sy
		length := math.Sqrt(dx*dx + dy*dy)
		if length < 1e-6 {
			continue
		}
		nx := dx / length
		ny := dy / length

		sShape := g.Nodes[si].Attrs.Lookup(ir.AttrShape, "ellipse")
		tShape := g.Nodes[ti].Attrs.Lookup(ir.AttrShape, "ellipse")
		tSource := boundaryOffset(sShape, nx, ny, ref.NodeW, ref.NodeH)
		tTarget := boundaryOffset(tShape, -nx, -ny, ref.NodeW, ref.NodeH)

		x1 := sx + nx*tSource
		y1 := sy + ny*tSource
		x2 := tx - nx*tTarget
		y2 := ty - ny*tTarget

		stroke := e.Attrs.Lookup(ir.AttrColor, "#000000")
		penw := e.Attrs.Lookup(ir.AttrPenWidth, "1")

		dash := ""
		if style, ok := e.Attrs[ir.AttrStyle]; ok {
			if strings.Contains(style, "dotted") {
				dash = " stroke-dasharray=\"2,3\""
			} else if strings.Contains(style, "dashed") {
				dash = " stroke-dasharray=\"6,4\""
			}
		}

		fmt.Fprintf(buf,
			"  <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\" stroke-width=\"%s\"%s />\n",
			x1, y1, x2, y2, escapeXML(stroke), escapeXML(penw), dash)

		if markerRef, ok := markerFor[stroke+"|"+penw]; ok {
			const markerLen = 8.0
			seg := fmt.Sprintf(
				"  <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\" stroke-width=\"%s\"%s marker-end=\"url(#%s)\" />\n",
				x2-nx*markerLen, y2-ny*markerLen, x2, y2,
				escapeXML(stroke), escapeXML(penw), dash, markerRef)
			segments = append(segments, seg)
		}

		if label, ok := e.Attrs[ir.AttrLabel]; ok {
			fmt.Fprintf(buf,
				"  <text x=\"%.1f\" y=\"%.1f\" text-anchor=\"middle\" alignment-baseline=\"middle\" font-size=\"10\">%s</text>\n",
				(x1+x2)/2, (y1+y2)/2, escapeXML(label))
		}
	}
	return segments
}

// boundaryOffset returns the distance from a node center to its shape
// boundary along the unit direction (nx, ny).
func boundaryOffset(shape string, nx, ny, nodeW, nodeH float64) float64 {
	hx := nodeW / 2
	hy := nodeH / 2
	switch shape {
	case "circle":
		r := math.Max(nodeW, nodeH) / 2
		return ellipseOffset(nx, ny, r, r)
	case "ellipse":
		return ellipseOffset(nx, ny, hx, hy)
	default:
		return rectOffset(nx, ny, hx, hy)
	}
}

func rectOffset(nx, ny, hx, hy float64) float64 {
	const eps = 1e-9
	ax := math.Abs(nx)
	ay := math.Abs(ny)
	switch {
	case ax < eps && ay < eps:
		return 0
	case ax < eps:
		return hy / ay
	case ay < eps:
		return hx / ax
	default:
		return math.Min(hx/ax, hy/ay)
	}
}

func ellipseOffset(nx, ny, rx, ry float64) float64 {
	const eps = 1e-12
	denom := math.Sqrt(nx*nx/(rx*rx) + ny*ny/(ry*ry))
	if denom < eps {
		return 0
	}
	return 1 / denom
}

func writeNodes(buf *bytes.Buffer, g *ir.Graph, ref layout.Refined) {
	for i, n := range g.Nodes {
		cx, cy := ref.X[i], ref.Y[i]
		x := cx - ref.NodeW/2
		y := cy - ref.NodeH/2

		fill := n.Attrs.Lookup(ir.AttrFillColor, "#ffffff")
		stroke := n.Attrs.Lookup(ir.AttrColor, "#000000")
		penw := n.Attrs.Lookup(ir.AttrPenWidth, "1")
		fontSize := n.Attrs.Lookup(ir.AttrFontSize, "12")
		fontName := n.Attrs.Lookup(ir.AttrFontName, "sans-serif")

		fmt.Fprintf(buf, "  <g id=\"dagview-%d\">\n", n.ID)

		shape := n.Attrs.Lookup(ir.AttrShape, "ellipse")
		switch shape {
		case "circle":
			r := math.Max(ref.NodeW, ref.NodeH) / 2
			fmt.Fprintf(buf,
				"    <circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%s\" />\n",
				cx, cy, r, escapeXML(fill), escapeXML(stroke), escapeXML(penw))
		case "ellipse":
			fmt.Fprintf(buf,
				"    <ellipse cx=\"%.1f\" cy=\"%.1f\" rx=\"%.1f\" ry=\"%.1f\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%s\" />\n",
				cx, cy, ref.NodeW/2, ref.NodeH/2, escapeXML(fill), escapeXML(stroke), escapeXML(penw))
		case "stadium":
			r := ref.NodeH / 2
			fmt.Fprintf(buf,
				"    <rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" rx=\"%.1f\" ry=\"%.1f\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%s\" />\n",
				x, y, ref.NodeW, ref.NodeH, r, r, escapeXML(fill), escapeXML(stroke), escapeXML(penw))
		case "diamond":
			hx := ref.NodeW / 2
			hy := ref.NodeH / 2
			fmt.Fprintf(buf,
				"    <polygon points=\"%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%s\" />\n",
				cx, cy-hy, cx+hx, cy, cx, cy+hy, cx-hx, cy,
				escapeXML(fill), escapeXML(stroke), escapeXML(penw))
		default:
			// box and any unrecognized shape draw as a rounded rect.
			fmt.Fprintf(buf,
				"    <rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" rx=\"6\" ry=\"6\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%s\" />\n",
				x, y, ref.NodeW, ref.NodeH, escapeXML(fill), escapeXML(stroke), escapeXML(penw))
		}

		label, ok := n.Attrs[ir.AttrLabel]
		if !ok {
			label = n.Attrs.Lookup(ir.AttrName, "n"+strconv.FormatUint(n.ID, 10))
		}
		fmt.Fprintf(buf,
			"    <text x=\"%.1f\" y=\"%.1f\" text-anchor=\"middle\" alignment-baseline=\"middle\" font-family=\"%s\" font-size=\"%s\">%s</text>\n",
			cx, cy, escapeXML(fontName), escapeXML(fontSize), escapeXML(label))
		buf.WriteString("  </g>\n")
	}
}

func escapeXML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

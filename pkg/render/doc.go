// Package render groups the output emitters for graph documents.
//
// # Overview
//
// Each subpackage turns an [ir.Graph] into one output format:
//
//   - [dot]: Graphviz DOT text, plus SVG/PNG rasterization via Graphviz
//   - [jsondoc]: a stable JSON document for programmatic consumers
//   - [mermaid]: Mermaid flowchart text for embedding in Markdown
//   - [svg]: a self-contained SVG drawn from the layered layout
//
// The emitters share no state; each reads the graph and its attributes
// independently. Attribute keys they understand are the canonical ones
// declared in the ir package (label, shape, fillcolor, color, style).
//
//	g, _ := ir.Build(view)
//	text, err := dot.Emit(g, dot.Options{GraphName: "G"})
//	svg := svg.Emit(g, svg.Options{Title: "Circuit"})
//
// [dot]: github.com/mhuels/dagview/pkg/render/dot
// [jsondoc]: github.com/mhuels/dagview/pkg/render/jsondoc
// [mermaid]: github.com/mhuels/dagview/pkg/render/mermaid
// [svg]: github.com/mhuels/dagview/pkg/render/svg
package render

// Package pkg provides the core libraries for dagview graph visualization.
//
// # Overview
//
// Dagview turns an arbitrary read-only DAG into a layered diagram. A caller
// exposes its graph through the small [dagview.View] interface, builds a
// renderer-neutral document from it, computes a Sugiyama-style layout, and
// emits the result in one of several formats.
//
// # Architecture
//
// The typical data flow:
//
//	caller's DAG ([dagview.View])
//	         ↓
//	    [ir] package (build the graph document)
//	         ↓
//	    [layout] package (ranks, ordering, coordinates, refinement)
//	         ↓
//	    [render] emitters (DOT, JSON, Mermaid, SVG, PNG)
//
// # Quick Start
//
// Render a boolean expression as SVG:
//
//	import (
//	    "github.com/mhuels/dagview/pkg/expr"
//	    "github.com/mhuels/dagview/pkg/ir"
//	    "github.com/mhuels/dagview/pkg/render/svg"
//	)
//
//	// 1. Parse the expression into a view
//	tree, _ := expr.Parse("a AND (b OR c)")
//	v := expr.NewView(tree)
//
//	// 2. Build the graph document
//	g, _ := ir.Build(v, ir.WithNodeAttributor(expr.NodeAttrs(v)))
//
//	// 3. Emit SVG
//	out := svg.Emit(g, svg.Options{Title: "Circuit"})
//
// # Main Packages
//
// ## Core Domain Logic
//
// [dagview] - The adapter contract. Foreign graphs implement [dagview.View],
// [dagview.Handle], and [dagview.Edge]; [dagview.SliceView] is a ready-made
// adjacency-map implementation, and [dagview/traverse] provides deterministic
// walks over any view.
//
// [ir] - The renderer-neutral graph document. [ir.Build] snapshots a view
// into nodes, edges, and attribute maps; attributors let callers decorate
// nodes and edges during the build.
//
// [layout] - Layered layout: rank assignment, median crossing reduction with
// transposition, coordinate assignment, and force-directed canvas refinement.
//
// [expr] - The boolean expression demo domain: a parser for AND/OR/XOR/NOT
// expressions, a view over the parse tree, and attribute policies.
//
// ## Rendering
//
// [render/dot] - Graphviz DOT emission and SVG/PNG rasterization.
//
// [render/jsondoc] - Stable JSON document emission.
//
// [render/mermaid] - Mermaid flowchart emission.
//
// [render/svg] - Self-contained SVG drawn from the layered layout.
//
// [style] - TOML style sheets with built-in themes, applied as attributor
// wrappers during the build.
//
// ## Infrastructure
//
// [pipeline] - Complete build → layout → render orchestration used by the
// CLI and the HTTP service. Ensures consistent behavior across entry points.
//
// [cache] - Stage-keyed render cache with file, Redis, and null backends.
//
// [store] - Saved layout persistence with memory and MongoDB backends.
//
// [errors] - Coded errors shared across the module, plus input validation.
//
// [observability] - Pluggable pipeline, cache, and store hooks.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//
// [dagview]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/dagview
// [dagview/traverse]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/dagview/traverse
// [ir]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/ir
// [layout]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/layout
// [expr]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/expr
// [render]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/render
// [render/dot]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/render/dot
// [render/jsondoc]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/render/jsondoc
// [render/mermaid]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/render/mermaid
// [render/svg]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/render/svg
// [style]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/style
// [pipeline]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/cache
// [store]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/store
// [errors]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/errors
// [observability]: https://pkg.go.dev/github.com/mhuels/dagview/pkg/observability
package pkg

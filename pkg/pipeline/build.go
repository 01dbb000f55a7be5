package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/mhuels/dagview/pkg/dagview"
	"github.com/mhuels/dagview/pkg/dagview/traverse"
	"github.com/mhuels/dagview/pkg/errors"
	"github.com/mhuels/dagview/pkg/expr"
	"github.com/mhuels/dagview/pkg/ir"
	"github.com/mhuels/dagview/pkg/observability"
	"github.com/mhuels/dagview/pkg/style"
)

// Build adapts the configured input into the renderer-neutral graph form.
// A pre-built View takes precedence; otherwise the expression (inline or
// from file) is parsed and wrapped in an expression view with the standard
// attribution policy. Style sheet defaults fill any attribute the policy
// leaves unset.
func Build(ctx context.Context, opts Options) (*ir.Graph, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnBuildStart(ctx, opts.Source)

	g, err := build(opts)
	observability.Pipeline().OnBuildComplete(ctx, opts.Source, nodeCount(g), time.Since(start), err)
	return g, err
}

func build(opts Options) (*ir.Graph, error) {
	view := opts.View
	nodeAttr := opts.NodeAttr
	edgeAttr := opts.EdgeAttr

	if view == nil {
		var root expr.Node
		var err error
		if opts.Expression != "" {
			root, err = expr.Parse(opts.Expression)
		} else {
			root, err = expr.ParseFile(opts.ExpressionFile)
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidExpression, "parse expression")
		}
		view = expr.NewView(root)
		if nodeAttr == nil {
			nodeAttr = expr.NodeAttrs
		}
		if edgeAttr == nil {
			edgeAttr = expr.EdgeAttrs
		}
	}

	sheet, err := style.Resolve(opts.Style)
	if err != nil {
		return nil, err
	}

	buildOpts := []ir.BuildOption{
		ir.WithNodeAttributor(sheet.NodeAttributor(nodeAttr)),
		ir.WithEdgeAttributor(sheet.EdgeAttributor(edgeAttr)),
	}
	if global := globalAttrs(sheet, opts); len(global) > 0 {
		buildOpts = append(buildOpts, ir.WithGlobalAttrs(global))
	}

	g, err := ir.Build(view, buildOpts...)
	if err != nil {
		if stderrors.Is(err, traverse.ErrCycleDetected) {
			return nil, errors.Wrap(err, errors.ErrCodeCycleDetected, "build graph")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInvalidGraph, "build graph")
	}
	return g, nil
}

// globalAttrs merges the sheet's graph attributes with the run title.
// An explicit sheet label wins over the title option.
func globalAttrs(sheet *style.Sheet, opts Options) ir.Attrs {
	global := sheet.GlobalAttrs()
	if opts.Title == "" {
		return global
	}
	if global == nil {
		global = ir.Attrs{}
	}
	if _, ok := global[ir.AttrGraphLabel]; !ok {
		global[ir.AttrGraphLabel] = opts.Title
	}
	return global
}

func nodeCount(g *ir.Graph) int {
	if g == nil {
		return 0
	}
	return len(g.Nodes)
}

// BuildView adapts an arbitrary read-only DAG view with an explicit
// attribution policy, bypassing expression parsing.
func BuildView(ctx context.Context, v dagview.View, opts Options) (*ir.Graph, error) {
	opts.View = v
	return Build(ctx, opts)
}

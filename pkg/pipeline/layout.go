package pipeline

import (
	"context"
	"time"

	"github.com/mhuels/dagview/pkg/ir"
	"github.com/mhuels/dagview/pkg/layout"
	"github.com/mhuels/dagview/pkg/observability"
)

// ComputeLayout runs the layered layout on an already built graph and maps
// the result onto a drawing canvas.
func ComputeLayout(ctx context.Context, g *ir.Graph, opts Options) (layout.Refined, error) {
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.GraphName, nodeCount(g))

	h, coords := layout.Compute(g, opts.LayoutOptions())
	refined := layout.Refine(h, g, coords, opts.CanvasOptions())

	observability.Pipeline().OnLayoutComplete(ctx, opts.GraphName, time.Since(start), nil)
	return refined, nil
}

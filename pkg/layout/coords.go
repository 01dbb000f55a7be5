package layout

import "github.com/mhuels/dagview/pkg/ir"

// Options configures coordinate assignment.
type Options struct {
	// NodeDist is the horizontal gap between node centers within a rank.
	NodeDist float64

	// LayerDist is the vertical gap between consecutive ranks.
	LayerDist float64

	// MedianPasses and TransposeIters bound the crossing-reduction
	// heuristics. Zero selects the defaults.
	MedianPasses   int
	TransposeIters int
}

func (o Options) withDefaults() Options {
	if o.NodeDist <= 0 {
		o.NodeDist = 24.0
	}
	if o.LayerDist <= 0 {
		o.LayerDist = 24.0
	}
	if o.MedianPasses <= 0 {
		o.MedianPasses = DefaultMedianPasses
	}
	if o.TransposeIters <= 0 {
		o.TransposeIters = DefaultTransposeIters
	}
	return o
}

// Coords holds the final coordinates of the layout, indexed by node index
// into the source graph's Nodes slice. Units are abstract drawing-canvas
// units; Y grows downward (rank 0 on top). Coordinates are consumed by
// emitters and never stored back into the IR.
type Coords struct {
	X []float64
	Y []float64
}

// Assign places each layer's nodes left-to-right at fixed spacing,
// centers every layer about a common midpoint, and stacks layers
// top-to-bottom.
func Assign(h *Hierarchy, g *ir.Graph, opts Options) Coords {
	opts = opts.withDefaults()
	n := len(g.Nodes)
	c := Coords{X: make([]float64, n), Y: make([]float64, n)}

	y := 0.0
	for _, layer := range h.Layers {
		x := 0.0
		for _, u := range layer {
			c.X[u] = x
			c.Y[u] = y
			x += opts.NodeDist
		}
		if len(layer) > 0 {
			minX := c.X[layer[0]]
			maxX := c.X[layer[len(layer)-1]]
			shift := -(minX + maxX) / 2.0
			for _, u := range layer {
				c.X[u] += shift
			}
		}
		y += opts.LayerDist
	}
	return c
}

// Compute runs the full pipeline: hierarchy assignment, crossing
// reduction, and simple coordinate assignment.
func Compute(g *ir.Graph, opts Options) (*Hierarchy, Coords) {
	opts = opts.withDefaults()
	h := BuildHierarchy(g)
	h.Reduce(g, opts.MedianPasses, opts.TransposeIters)
	return h, Assign(h, g, opts)
}

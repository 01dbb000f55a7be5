package layout

import (
	"math"
	"math/rand"
	"slices"

	"github.com/mhuels/dagview/pkg/ir"
)

// Canvas configures the refinement pass that maps simple layout
// coordinates onto an explicit drawing canvas for vector output.
// The zero value selects the defaults.
type Canvas struct {
	NodeW  float64 // node box width
	NodeH  float64 // node box height
	HGap   float64 // horizontal gap between node boxes
	VGap   float64 // vertical gap between rank rows
	Margin float64 // outer canvas margin

	// TitleInset reserves vertical space at the top of the canvas for a
	// graph title row.
	TitleInset float64

	// RelaxIters bounds the force-directed relaxation; 0 disables it.
	RelaxIters int
}

func (c Canvas) withDefaults() Canvas {
	if c.NodeW <= 0 {
		c.NodeW = 70.0
	}
	if c.NodeH <= 0 {
		c.NodeH = 36.0
	}
	if c.HGap <= 0 {
		c.HGap = 24.0
	}
	if c.VGap <= 0 {
		c.VGap = 28.0 * 1.75
	}
	if c.Margin <= 0 {
		c.Margin = 8.0
	}
	if c.TitleInset <= 0 {
		c.TitleInset = 24.0
	}
	return c
}

// minCenterStep is the smallest allowed distance between node centers
// within a rank, as a multiple of the node dimension.
const minCenterFactor = 4.0 / 3.0

// Refined is the canvas-mapped layout: final node centers, per-rank row
// Y positions, and the (possibly expanded) canvas extent.
type Refined struct {
	Width  float64
	Height float64
	X      []float64
	Y      []float64

	// RowY is the anchored Y coordinate of each rank row.
	RowY []float64

	// NodeW and NodeH are the effective node box dimensions after
	// defaulting, so emitters draw with the same geometry the spacing
	// was computed for.
	NodeW float64
	NodeH float64
}

// Refine maps the simple positions from Assign into a drawing canvas:
// ranks become evenly spaced horizontal rows, nodes keep their
// within-rank order, and a minimum center spacing is enforced - widening
// the canvas when it is too narrow to honor it. When RelaxIters > 0 a
// bounded force-directed relaxation runs before the spacing enforcement,
// freeing only the horizontal coordinate; the vertical is re-anchored to
// the rank row after every iteration.
//
// Refine never fails; degenerate geometry is absorbed by epsilon guards.
func Refine(h *Hierarchy, g *ir.Graph, c Coords, cv Canvas) Refined {
	cv = cv.withDefaults()
	n := len(g.Nodes)
	r := Refined{X: make([]float64, n), Y: make([]float64, n), NodeW: cv.NodeW, NodeH: cv.NodeH}
	if n == 0 {
		r.Width = cv.Margin*2 + cv.NodeW
		r.Height = cv.Margin*2 + cv.TitleInset + cv.NodeH
		return r
	}

	// Initial canvas extent from a near-square grid estimate.
	cols := math.Max(1, math.Floor(math.Sqrt(float64(n))))
	rows := math.Ceil(float64(n) / cols)
	r.Width = cv.Margin*2 + cols*cv.NodeW + (cols-1)*cv.HGap + cv.NodeW
	r.Height = cv.Margin*2 + rows*cv.NodeH + (rows-1)*cv.VGap + cv.TitleInset + cv.NodeH

	halfW := cv.NodeW / 2
	halfH := cv.NodeH / 2
	levels := len(h.Layers)
	if levels == 0 {
		levels = 1
	}

	availableH := math.Max(1, r.Height-2*cv.Margin-cv.TitleInset-2*halfH)

	// Guarantee a minimum vertical step between rank rows, growing the
	// canvas when the grid estimate is too short.
	minVStep := cv.NodeH * minCenterFactor
	if levels > 1 {
		required := minVStep * float64(levels-1)
		if required > availableH {
			r.Height += required - availableH
			availableH = required
		}
	}

	r.RowY = make([]float64, levels)
	top := cv.Margin + cv.TitleInset + halfH
	if levels == 1 {
		r.RowY[0] = top + availableH/2
	} else {
		for i := 0; i < levels; i++ {
			t := float64(i) / float64(levels-1)
			r.RowY[i] = top + t*availableH
		}
	}

	availableW := math.Max(1, r.Width-2*cv.Margin-2*halfW)
	leftCenter := cv.Margin + halfW
	rightCenter := leftCenter + availableW

	// Seed X by scaling the simple positions into the canvas span,
	// preserving within-rank order; Y anchors to the rank row.
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		minX = math.Min(minX, c.X[i])
		maxX = math.Max(maxX, c.X[i])
	}
	span := maxX - minX
	for i := 0; i < n; i++ {
		t := 0.5
		if span > 1e-9 {
			t = (c.X[i] - minX) / span
		}
		r.X[i] = leftCenter + t*availableW
		r.Y[i] = r.RowY[h.RankOf[i]]
	}

	if cv.RelaxIters > 0 {
		relax(&r, h, g, cv, leftCenter, rightCenter)
	}

	// Widen the canvas when the busiest rank cannot honor the minimum
	// center spacing.
	minStep := cv.NodeW * minCenterFactor
	maxPerRank := 0
	for _, layer := range h.Layers {
		if len(layer) > maxPerRank {
			maxPerRank = len(layer)
		}
	}
	if maxPerRank > 1 {
		required := minStep * float64(maxPerRank-1)
		if current := rightCenter - leftCenter; required > current {
			extra := required - current
			r.Width += extra
			availableW += extra
			rightCenter = leftCenter + availableW
		}
	}

	// Final per-rank placement: order by current X, then either center a
	// minimum-step block or spread evenly across the span.
	for ri, layer := range h.Layers {
		if len(layer) == 0 {
			continue
		}
		ordered := slices.Clone(layer)
		slices.SortStableFunc(ordered, func(a, b int) int {
			switch {
			case r.X[a] < r.X[b]:
				return -1
			case r.X[a] > r.X[b]:
				return 1
			default:
				return 0
			}
		})

		m := len(ordered)
		rowSpan := rightCenter - leftCenter
		if m == 1 {
			r.X[ordered[0]] = leftCenter + rowSpan/2
			r.Y[ordered[0]] = r.RowY[ri]
			continue
		}
		step := rowSpan / float64(m-1)
		start := leftCenter
		if rowSpan >= minStep*float64(m-1) {
			step = minStep
			block := step * float64(m-1)
			start = leftCenter + (rowSpan-block)/2
		}
		for i, u := range ordered {
			r.X[u] = start + step*float64(i)
			r.Y[u] = r.RowY[ri]
		}
	}

	return r
}

// relax runs a bounded Fruchterman-Reingold style pass: repulsion between
// every node pair inversely proportional to distance, attraction along
// edges proportional to squared distance, displacement capped by a
// shrinking temperature. Only X is free; Y snaps back to the rank row
// after each iteration. Distances are epsilon-guarded; the pass cannot
// fail.
func relax(r *Refined, h *Hierarchy, g *ir.Graph, cv Canvas, left, right float64) {
	const eps = 1e-9
	n := len(r.X)
	if n < 2 {
		return
	}

	idx := g.NodeIndex()
	area := (right - left) * math.Max(1, r.Height)
	k := math.Sqrt(area / float64(n))
	temp := (right - left) / 10

	// Deterministic jitter so coincident nodes separate.
	rng := rand.New(rand.NewSource(1234567))

	dispX := make([]float64, n)
	for it := 0; it < cv.RelaxIters; it++ {
		for i := range dispX {
			dispX[i] = 0
		}

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := r.X[i] - r.X[j]
				dy := r.Y[i] - r.Y[j]
				d := math.Sqrt(dx*dx + dy*dy)
				if d < eps {
					dx = rng.Float64() - 0.5
					d = eps
				}
				f := k * k / d // repulsion ~ 1/d
				dispX[i] += dx / d * f
				dispX[j] -= dx / d * f
			}
		}

		for _, e := range g.Edges {
			si, sok := idx[e.Source]
			ti, tok := idx[e.Target]
			if !sok || !tok {
				continue
			}
			dx := r.X[si] - r.X[ti]
			dy := r.Y[si] - r.Y[ti]
			d := math.Sqrt(dx*dx + dy*dy)
			if d < eps {
				d = eps
			}
			f := d * d / k // attraction ~ d^2
			dispX[si] -= dx / d * f
			dispX[ti] += dx / d * f
		}

		for i := 0; i < n; i++ {
			dx := dispX[i]
			if math.Abs(dx) > temp {
				dx = math.Copysign(temp, dx)
			}
			r.X[i] = math.Min(right, math.Max(left, r.X[i]+dx))
			// Vertical coordinate is not free: re-anchor to the rank row.
			r.Y[i] = r.RowY[h.RankOf[i]]
		}

		temp *= 0.95
	}
}

package ir

// Canonical attribute keys. Emitters map these to renderer-specific
// attributes (GraphViz attribute names, JSON properties, Mermaid style
// directives, SVG presentation attributes). Any key outside this set is
// passed through untouched for downstream consumers.
const (
	// AttrLabel is the primary human-readable label for a node or edge.
	AttrLabel = "label"

	// AttrTooltip is auxiliary hover text; non-interactive emitters may
	// ignore it.
	AttrTooltip = "tooltip"

	// AttrColor is the stroke/outline color (named color or #RRGGBB).
	AttrColor = "color"

	// AttrFillColor is the interior fill color for node shapes.
	AttrFillColor = "fillcolor"

	// AttrStyle holds free-form style tokens (e.g. "filled", "dashed").
	// Unknown tokens are ignored by emitters.
	AttrStyle = "style"

	// AttrShape is a symbolic shape name (box, ellipse, diamond, ...).
	AttrShape = "shape"

	// AttrPenWidth is the outline thickness.
	AttrPenWidth = "penwidth"

	// AttrFontName is the preferred font family for text.
	AttrFontName = "fontname"

	// AttrFontSize is the preferred font size for text.
	AttrFontSize = "fontsize"

	// AttrWeight is a layout weighting hint for edges.
	AttrWeight = "weight"

	// AttrDir is an edge direction hint (forward, back, both, none).
	AttrDir = "dir"

	// AttrID is an explicit stable identifier for an element; emitters
	// prefer it over generated names where the output format has a notion
	// of element identity.
	AttrID = "id"

	// AttrName is the generated display name assigned by the builder
	// ("node000", "node001", ...). Attributors may supply their own.
	AttrName = "name"

	// AttrWidth and AttrHeight are size suggestions in renderer units.
	AttrWidth  = "width"
	AttrHeight = "height"

	// AttrRank is the shortest-hop distance from the roots, stringified.
	// The layout engine reads it back when present; "-1" marks unreachable.
	AttrRank = "rank"

	// AttrGroup is an arbitrary grouping key for layout or styling.
	AttrGroup = "group"

	// AttrRankDir is the graph-level rank direction hint (TB, LR, ...).
	AttrRankDir = "rankdir"

	// AttrGraphLabel is the graph-level caption/title.
	AttrGraphLabel = "graph.label"
)

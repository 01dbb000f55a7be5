// Package pipeline provides the core rendering pipeline for dagview.
//
// This package implements the complete build → layout → render pipeline that
// can be used by the CLI and the HTTP server. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Adapt a read-only DAG view (or a parsed boolean expression)
//     into the renderer-neutral graph form
//  2. Layout: Compute layered positions for the graph
//  3. Render: Generate output in various formats (DOT, JSON, Mermaid, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Expression: "a AND (b OR c)",
//	    Formats:    []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Build only
//	g, err := runner.Build(ctx, opts)
//
//	// Layout with existing graph
//	refined, err := runner.ComputeLayout(ctx, g, opts)
//
//	// Render with existing graph
//	artifacts, err := runner.Render(ctx, g, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhuels/dagview/pkg/cache"
	"github.com/mhuels/dagview/pkg/dagview"
	"github.com/mhuels/dagview/pkg/errors"
	"github.com/mhuels/dagview/pkg/ir"
	"github.com/mhuels/dagview/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultGraphName is the identifier used for emitted graphs when the
	// caller does not name one.
	DefaultGraphName = "G"

	// DefaultStyle is the default visual style.
	DefaultStyle = "default"
)

// Format constants for output formats. FormatSVG is drawn by the native
// layered layout; FormatSVGGV routes the DOT output through Graphviz
// instead, for comparison or when Graphviz styling is wanted.
const (
	FormatDOT     = "dot"
	FormatJSON    = "json"
	FormatMermaid = "mermaid"
	FormatSVG     = "svg"
	FormatSVGGV   = "svg-gv"
	FormatPNG     = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:     true,
	FormatJSON:    true,
	FormatMermaid: true,
	FormatSVG:     true,
	FormatSVGGV:   true,
	FormatPNG:     true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Build options
	Expression     string `json:"expression,omitempty"`
	ExpressionFile string `json:"expression_file,omitempty"`
	GraphName      string `json:"graph_name,omitempty"`
	Style          string `json:"style,omitempty"`
	Refresh        bool   `json:"refresh,omitempty"`

	// Layout options
	MedianPasses   int     `json:"median_passes,omitempty"`
	TransposeIters int     `json:"transpose_iters,omitempty"`
	NodeDist       float64 `json:"node_dist,omitempty"`
	LayerDist      float64 `json:"layer_dist,omitempty"`
	RelaxIters     int     `json:"relax_iters,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Title   string   `json:"title,omitempty"`

	// Runtime options (not serialized). A non-nil View takes precedence
	// over Expression and ExpressionFile; NodeAttr and EdgeAttr override
	// the attribution policy for the view.
	Logger   *log.Logger       `json:"-"`
	View     dagview.View      `json:"-"`
	Source   string            `json:"-"`
	NodeAttr ir.NodeAttributor `json:"-"`
	EdgeAttr ir.EdgeAttributor `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the built renderer-neutral graph.
	Graph *ir.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains the refined canvas geometry.
	Layout layout.Refined

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int           `json:"node_count"`
	EdgeCount  int           `json:"edge_count"`
	BuildTime  time.Duration `json:"build_time"`
	LayoutTime time.Duration `json:"layout_time"`
	RenderTime time.Duration `json:"render_time"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the built graph came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks required fields for the build stage.
func (o *Options) ValidateForBuild() error {
	if o.View == nil && o.Expression == "" && o.ExpressionFile == "" {
		return errors.New(errors.ErrCodeInvalidInput, "expression, expression file, or view is required")
	}
	if o.GraphName == "" {
		o.GraphName = DefaultGraphName
	}
	if err := errors.ValidateGraphName(o.GraphName); err != nil {
		return err
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Source == "" {
		switch {
		case o.View != nil:
			o.Source = "view"
		case o.Expression != "":
			o.Source = "expression"
		default:
			o.Source = o.ExpressionFile
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender validates and sets defaults for rendering. Layout knobs
// left at zero are resolved inside the layout engine; nothing is forced here
// so that cache keys reflect the caller's explicit choices only.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// LayoutOptions returns the layout engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		NodeDist:       o.NodeDist,
		LayerDist:      o.LayerDist,
		MedianPasses:   o.MedianPasses,
		TransposeIters: o.TransposeIters,
	}
}

// CanvasOptions returns the canvas refinement options.
func (o *Options) CanvasOptions() layout.Canvas {
	return layout.Canvas{RelaxIters: o.RelaxIters}
}

// GraphKeyOpts returns cache key options for the build stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Style: o.Style,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		MedianPasses:   o.MedianPasses,
		TransposeIters: o.TransposeIters,
		NodeDist:       o.NodeDist,
		LayerDist:      o.LayerDist,
		RelaxIters:     o.RelaxIters,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		GraphName: o.GraphName,
		Style:     o.Style,
	}
}

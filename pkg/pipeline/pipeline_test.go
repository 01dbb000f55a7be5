package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/mhuels/dagview/pkg/cache"
	"github.com/mhuels/dagview/pkg/dagview"
	"github.com/mhuels/dagview/pkg/errors"
)

func TestOptionsValidateForBuild(t *testing.T) {
	// Missing input
	opts := Options{}
	if err := opts.ValidateForBuild(); err == nil {
		t.Error("Missing input should fail")
	}

	// Expression input
	opts = Options{Expression: "a AND b"}
	if err := opts.ValidateForBuild(); err != nil {
		t.Errorf("Valid options should pass: %v", err)
	}
	if opts.GraphName != DefaultGraphName {
		t.Errorf("GraphName should default to %q, got %q", DefaultGraphName, opts.GraphName)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style should default to %q, got %q", DefaultStyle, opts.Style)
	}
	if opts.Source != "expression" {
		t.Errorf("Source should default to expression, got %q", opts.Source)
	}

	// Invalid graph name
	opts = Options{Expression: "a", GraphName: "my graph"}
	if err := opts.ValidateForBuild(); err == nil {
		t.Error("Invalid graph name should fail")
	}
}

func TestOptionsValidateForRender(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatalf("Empty formats should default: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}

	opts = Options{Formats: []string{FormatSVGGV, FormatPNG}}
	if err := opts.ValidateForRender(); err != nil {
		t.Errorf("Graphviz formats should pass: %v", err)
	}

	opts = Options{Formats: []string{"svg", "invalid"}}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("Invalid format should fail")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Expression: "a OR b"}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalStyle := opts.Style
	originalFormats := len(opts.Formats)

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Style != originalStyle {
		t.Error("Style changed on second call")
	}
	if len(opts.Formats) != originalFormats {
		t.Error("Formats changed on second call")
	}
}

func TestBuildFromExpression(t *testing.T) {
	ctx := context.Background()

	g, err := Build(ctx, Options{Expression: "a AND (b OR c)"})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(g.Nodes) != 5 {
		t.Errorf("nodes = %d, want 5", len(g.Nodes))
	}
	if len(g.Edges) != 4 {
		t.Errorf("edges = %d, want 4", len(g.Edges))
	}

	// Style defaults are filled where the policy left gaps
	for _, n := range g.Nodes {
		if n.Attrs["shape"] == "" {
			t.Errorf("node %d missing shape from style sheet: %v", n.ID, n.Attrs)
		}
	}
}

func TestBuildInvalidExpression(t *testing.T) {
	ctx := context.Background()

	_, err := Build(ctx, Options{Expression: "a AND"})
	if err == nil {
		t.Fatal("Build should fail for invalid expression")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidExpression {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidExpression)
	}
}

func TestBuildViewCycleCode(t *testing.T) {
	ctx := context.Background()

	view := &dagview.SliceView{
		RootKeys:  []uint64{1},
		Adjacency: map[uint64][]uint64{1: {2}, 2: {1}},
	}

	_, err := BuildView(ctx, view, Options{})
	if err == nil {
		t.Fatal("BuildView should fail for a cyclic view")
	}
	if errors.GetCode(err) != errors.ErrCodeCycleDetected {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeCycleDetected)
	}
}

func TestBuildTitleBecomesGraphLabel(t *testing.T) {
	ctx := context.Background()

	g, err := Build(ctx, Options{Expression: "a XOR b", Title: "Gates"})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if g.GlobalAttrs["graph.label"] != "Gates" {
		t.Errorf("graph label = %q, want Gates", g.GlobalAttrs["graph.label"])
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewNullCache(), nil, nil)
	defer runner.Close()

	result, err := runner.Execute(ctx, Options{
		Expression: "a AND (b OR c)",
		Formats:    []string{FormatDOT, FormatJSON, FormatMermaid, FormatSVG},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if result.Stats.NodeCount != 5 {
		t.Errorf("NodeCount = %d, want 5", result.Stats.NodeCount)
	}
	if result.Stats.EdgeCount != 4 {
		t.Errorf("EdgeCount = %d, want 4", result.Stats.EdgeCount)
	}
	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}
	if result.Layout.Width <= 0 || result.Layout.Height <= 0 {
		t.Errorf("Layout canvas not computed: %+v", result.Layout)
	}

	for _, format := range []string{FormatDOT, FormatJSON, FormatMermaid, FormatSVG} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("missing %s artifact", format)
		}
	}
	if !strings.HasPrefix(string(result.Artifacts[FormatDOT]), "digraph") {
		t.Errorf("dot artifact should start with digraph: %q", result.Artifacts[FormatDOT][:20])
	}
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{Expression: "x AND y", Formats: []string{FormatDOT}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	if first.CacheInfo.BuildHit || first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss everywhere: %+v", first.CacheInfo)
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheInfo.BuildHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit everywhere: %+v", second.CacheInfo)
	}
	if string(first.Artifacts[FormatDOT]) != string(second.Artifacts[FormatDOT]) {
		t.Error("cached artifact should match the rendered one")
	}
}

func TestRunnerRefreshSkipsBuildCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{Expression: "p OR q", Formats: []string{FormatDOT}}
	if _, err := runner.Execute(ctx, opts); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	opts.Refresh = true
	_, hit, err := runner.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatalf("BuildWithCacheInfo error: %v", err)
	}
	if hit {
		t.Error("Refresh should bypass the build cache")
	}
}

func TestRunnerBuildFromView(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	view := &dagview.SliceView{
		RootKeys:  []uint64{1},
		Adjacency: map[uint64][]uint64{1: {2, 3}},
	}

	g, hit, err := runner.BuildWithCacheInfo(ctx, Options{View: view})
	if err != nil {
		t.Fatalf("BuildWithCacheInfo error: %v", err)
	}
	if hit {
		t.Error("views are not cacheable")
	}
	if len(g.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(g.Nodes))
	}
}

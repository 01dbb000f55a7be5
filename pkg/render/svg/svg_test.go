package svg

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/mhuels/dagview/pkg/ir"
)

func testGraph() *ir.Graph {
	return &ir.Graph{
		Nodes: []ir.Node{
			{ID: 1, Attrs: ir.Attrs{ir.AttrLabel: "Alpha", ir.AttrShape: "box"}},
			{ID: 2, Attrs: ir.Attrs{ir.AttrLabel: "Beta"}},
			{ID: 3, Attrs: ir.Attrs{ir.AttrLabel: "Gamma", ir.AttrShape: "diamond"}},
		},
		Edges: []ir.Edge{
			{Source: 1, Target: 2, Attrs: ir.Attrs{ir.AttrLabel: "run"}},
			{Source: 1, Target: 3, Attrs: ir.Attrs{ir.AttrStyle: "dashed"}},
		},
	}
}

func TestEmitDocumentStructure(t *testing.T) {
	out := string(Emit(testGraph(), Options{Title: "Demo"}))

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		">Demo</text>",
		`<rect width="100%" height="100%" fill="#ffffff" />`,
		"<defs>",
		`<marker id="dagview-arrow-0"`,
		`<g id="dagview-1">`,
		`<g id="dagview-2">`,
		`<g id="dagview-3">`,
		">Alpha</text>",
		">Beta</text>",
		">Gamma</text>",
		">run</text>",
		"<polygon points=",
		`stroke-dasharray="6,4"`,
		"marker-end=\"url(#dagview-arrow-0)\"",
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestEmitGraphLabelWinsOverTitle(t *testing.T) {
	g := testGraph()
	g.GlobalAttrs = ir.Attrs{ir.AttrGraphLabel: "Pipeline"}

	out := string(Emit(g, Options{Title: "ignored"}))
	if !strings.Contains(out, ">Pipeline</text>") {
		t.Error("graph label not used as caption")
	}
	if strings.Contains(out, ">ignored</text>") {
		t.Error("fallback title emitted despite graph label")
	}
}

func TestEmitFreshArtifactID(t *testing.T) {
	g := testGraph()
	re := regexp.MustCompile(`data-render-id="([0-9a-f-]{36})"`)

	a := re.FindSubmatch(Emit(g, Options{}))
	b := re.FindSubmatch(Emit(g, Options{}))
	if a == nil || b == nil {
		t.Fatal("render id missing from svg root")
	}
	if string(a[1]) == string(b[1]) {
		t.Errorf("render id %s repeated across renders", a[1])
	}
}

func TestEmitSharedMarkersPerStyle(t *testing.T) {
	g := &ir.Graph{
		Nodes: []ir.Node{
			{ID: 1, Attrs: ir.Attrs{}},
			{ID: 2, Attrs: ir.Attrs{}},
			{ID: 3, Attrs: ir.Attrs{}},
		},
		Edges: []ir.Edge{
			{Source: 1, Target: 2, Attrs: ir.Attrs{}},
			{Source: 1, Target: 3, Attrs: ir.Attrs{}},
			{Source: 2, Target: 3, Attrs: ir.Attrs{ir.AttrColor: "#ff0000"}},
		},
	}

	out := string(Emit(g, Options{}))
	if got := strings.Count(out, "<marker id="); got != 2 {
		t.Errorf("marker defs = %d, want 2 (default style shared)", got)
	}
}

func TestEmitEscapesLabels(t *testing.T) {
	g := &ir.Graph{
		Nodes: []ir.Node{
			{ID: 1, Attrs: ir.Attrs{ir.AttrLabel: `a < b & "c"`}},
		},
	}
	out := string(Emit(g, Options{}))
	if !strings.Contains(out, "a &lt; b &amp; &quot;c&quot;") {
		t.Error("label not XML-escaped")
	}
	if strings.Contains(out, `>a < b`) {
		t.Error("raw label leaked into markup")
	}
}

func TestEmitEmptyGraph(t *testing.T) {
	out := string(Emit(&ir.Graph{}, Options{}))
	if !strings.HasPrefix(out, `<?xml`) || !strings.Contains(out, "</svg>") {
		t.Fatalf("empty graph did not produce a well-formed document:\n%s", out)
	}
}

func TestEmitCanvasMatchesViewBox(t *testing.T) {
	out := string(Emit(testGraph(), Options{}))
	re := regexp.MustCompile(`width="(\d+)" height="(\d+)" viewBox="0 0 (\d+) (\d+)"`)
	m := re.FindStringSubmatch(out)
	if m == nil {
		t.Fatal("svg root missing dimensions")
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	if m[1] != m[3] || m[2] != m[4] {
		t.Errorf("viewBox %sx%s disagrees with size %dx%d", m[3], m[4], w, h)
	}
	if w <= 0 || h <= 0 {
		t.Errorf("degenerate canvas %dx%d", w, h)
	}
}

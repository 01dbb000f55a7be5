package ir

import (
	"errors"
	"strconv"
	"testing"

	"github.com/mhuels/dagview/pkg/dagview"
	"github.com/mhuels/dagview/pkg/dagview/traverse"
)

func diamond() *dagview.SliceView {
	return &dagview.SliceView{
		RootKeys:  []uint64{1},
		Adjacency: map[uint64][]uint64{1: {2, 3}, 2: {4}, 3: {4}},
	}
}

func TestBuildCompleteness(t *testing.T) {
	tests := []struct {
		name      string
		view      *dagview.SliceView
		wantNodes int
		wantEdges int
	}{
		{"Empty", &dagview.SliceView{}, 0, 0},
		{
			"Single",
			&dagview.SliceView{RootKeys: []uint64{7}},
			1, 0,
		},
		{
			"Pair",
			&dagview.SliceView{
				RootKeys:  []uint64{1},
				Adjacency: map[uint64][]uint64{1: {2}},
			},
			2, 1,
		},
		{"Diamond", diamond(), 4, 4},
		{
			"SharedChild",
			&dagview.SliceView{
				RootKeys:  []uint64{1, 2},
				Adjacency: map[uint64][]uint64{1: {3}, 2: {3}},
			},
			3, 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.view)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if len(g.Nodes) != tt.wantNodes {
				t.Errorf("len(Nodes) = %d, want %d", len(g.Nodes), tt.wantNodes)
			}
			if len(g.Edges) != tt.wantEdges {
				t.Errorf("len(Edges) = %d, want %d", len(g.Edges), tt.wantEdges)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestBuildDefaultAttribution(t *testing.T) {
	g, err := Build(diamond())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, n := range g.Nodes {
		if got := n.Attrs[AttrLabel]; got != strconv.FormatUint(n.ID, 10) {
			t.Errorf("node %d label = %q, want stringified key", n.ID, got)
		}
		if n.Attrs[AttrName] == "" {
			t.Errorf("node %d has no display name", n.ID)
		}
	}
}

func TestBuildNamerSequence(t *testing.T) {
	view := &dagview.SliceView{
		RootKeys:  []uint64{100},
		Adjacency: map[uint64][]uint64{100: {200}, 200: {300}},
	}
	g, err := Build(view)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// Names are assigned in topological order.
	want := []string{"node000", "node001", "node002"}
	for i, n := range g.Nodes {
		if n.Attrs[AttrName] != want[i] {
			t.Errorf("node %d name = %q, want %q", i, n.Attrs[AttrName], want[i])
		}
	}
}

func TestBuildSharedNamer(t *testing.T) {
	view := &dagview.SliceView{RootKeys: []uint64{42}}
	namer := NewNamer()

	g1, err := Build(view, WithNamer(namer))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	g2, err := Build(view, WithNamer(namer))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if g1.Nodes[0].Attrs[AttrName] != g2.Nodes[0].Attrs[AttrName] {
		t.Errorf("shared namer gave different names: %q vs %q",
			g1.Nodes[0].Attrs[AttrName], g2.Nodes[0].Attrs[AttrName])
	}
}

func TestBuildCustomAttributors(t *testing.T) {
	nodeAttr := func(_ dagview.View, h dagview.Handle) (Attrs, error) {
		return Attrs{AttrLabel: "n-" + strconv.FormatUint(h.StableKey(), 10), AttrShape: "box"}, nil
	}
	edgeAttr := func(_ dagview.View, parent dagview.Handle, e dagview.Edge) (Attrs, error) {
		return Attrs{AttrStyle: "dashed"}, nil
	}

	g, err := Build(diamond(), WithNodeAttributor(nodeAttr), WithEdgeAttributor(edgeAttr))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, n := range g.Nodes {
		if n.Attrs[AttrShape] != "box" {
			t.Errorf("node %d shape = %q, want box", n.ID, n.Attrs[AttrShape])
		}
		if n.Attrs[AttrLabel] == strconv.FormatUint(n.ID, 10) {
			t.Errorf("node %d label not overridden by attributor", n.ID)
		}
	}
	for _, e := range g.Edges {
		if e.Attrs[AttrStyle] != "dashed" {
			t.Errorf("edge %d->%d style = %q, want dashed", e.Source, e.Target, e.Attrs[AttrStyle])
		}
	}
}

func TestBuildAttributorErrorPropagates(t *testing.T) {
	boom := errors.New("policy failed")
	_, err := Build(diamond(), WithNodeAttributor(
		func(dagview.View, dagview.Handle) (Attrs, error) { return nil, boom },
	))
	if !errors.Is(err, boom) {
		t.Errorf("Build() error = %v, want attributor error", err)
	}
}

func TestBuildCyclePropagates(t *testing.T) {
	view := &dagview.SliceView{
		RootKeys:  []uint64{1},
		Adjacency: map[uint64][]uint64{1: {2}, 2: {1}},
	}
	_, err := Build(view)
	if !errors.Is(err, traverse.ErrCycleDetected) {
		t.Errorf("Build() error = %v, want ErrCycleDetected", err)
	}
}

func TestBuildDuplicateEdgesPreserved(t *testing.T) {
	view := &dagview.SliceView{
		RootKeys:  []uint64{1},
		Adjacency: map[uint64][]uint64{1: {2, 2}},
	}
	g, err := Build(view)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(g.Edges) != 2 {
		t.Errorf("len(Edges) = %d, want 2 (duplicates preserved)", len(g.Edges))
	}
}

type guardedView struct {
	*dagview.SliceView
	acquired int
	released int
}

func (g *guardedView) StartGuard(dagview.Handle) func() {
	g.acquired++
	return func() { g.released++ }
}

func TestBuildGuards(t *testing.T) {
	gv := &guardedView{SliceView: diamond()}
	if _, err := Build(gv); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if gv.acquired != 4 || gv.released != 4 {
		t.Errorf("guards acquired/released = %d/%d, want 4/4", gv.acquired, gv.released)
	}
}

func TestValidateRejectsDanglingEdge(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: 1}},
		Edges: []Edge{{Source: 1, Target: 99}},
	}
	if err := g.Validate(); !errors.Is(err, ErrEdgeEndpoint) {
		t.Errorf("Validate() = %v, want ErrEdgeEndpoint", err)
	}
}

package layout

import (
	"context"
	"testing"

	"github.com/matzehuels/mcviz/pkg/errors"
)

func TestValidateEngine(t *testing.T) {
	for _, e := range []string{"dot", "neato", "fdp", "sfdp", "twopi", "circo", "osage", "patchwork"} {
		if err := ValidateEngine(e); err != nil {
			t.Errorf("ValidateEngine(%q) error = %v", e, err)
		}
	}
	if err := ValidateEngine("gnuplot"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown engine error = %v, want INVALID_INPUT", err)
	}
}

func TestRun(t *testing.T) {
	dot := "digraph { a -> b; b -> c [label=x]; }"
	l, err := Run(context.Background(), dot, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if l.DOT != dot {
		t.Error("Run() should keep the DOT source")
	}
	if l.NodeCount() != 3 || l.EdgeCount() != 2 {
		t.Fatalf("got %d nodes, %d edges", l.NodeCount(), l.EdgeCount())
	}
	if l.Width <= 0 || l.Height <= 0 {
		t.Errorf("canvas = %+v", l.Canvas)
	}
	for _, n := range l.Nodes {
		if n.Center == nil || n.Center.Y < 0 || n.Center.Y > l.Height {
			t.Errorf("node %s center %+v outside the canvas", n.Item.ID, n.Center)
		}
	}
	if e := l.Edges[1]; e.Label != "x" || e.LabelCenter == nil {
		t.Errorf("labelled edge = %+v", e)
	}
}

func TestApply(t *testing.T) {
	dst := &Layout{
		Nodes: []Node{
			{Item: Item{ID: "a"}, Label: "e-", Show: true},
			{Item: Item{ID: "z"}, Label: "orphan"},
		},
		Edges: []Edge{
			{Item: Item{ID: "p1"}, From: "a", To: "b", LineType: "photon"},
			{Item: Item{ID: "p2"}, From: "a", To: "b", LineType: "gluon"},
			{Item: Item{ID: "p3"}, From: "b", To: "a"},
		},
	}
	first := &Spline{Points: []Point{Pt(0, 0), Pt(1, 1)}}
	second := &Spline{Points: []Point{Pt(2, 2), Pt(3, 3)}}
	src := &Layout{
		Canvas: Canvas{Width: 54, Height: 180, Scale: 1},
		Nodes:  []Node{{Item: Item{ID: "a"}, Center: &Point{X: 27, Y: 18}, Width: 54, Height: 36, Label: "a"}},
		Edges: []Edge{
			{From: "a", To: "b", Spline: first, LabelCenter: &Point{X: 1, Y: 1}},
			{From: "a", To: "b", Spline: second},
		},
	}

	Apply(dst, src)

	if dst.Canvas != src.Canvas {
		t.Errorf("canvas = %+v", dst.Canvas)
	}
	a := dst.Nodes[0]
	if a.Center == nil || a.Width != 54 || a.Label != "e-" || !a.Show {
		t.Errorf("node a = %+v", a)
	}
	if dst.Nodes[1].Center != nil {
		t.Error("unmatched node should keep nil geometry")
	}
	if dst.Edges[0].Spline != first || dst.Edges[0].LabelCenter == nil || dst.Edges[0].LineType != "photon" {
		t.Errorf("first parallel edge = %+v", dst.Edges[0])
	}
	if dst.Edges[1].Spline != second || dst.Edges[1].LineType != "gluon" {
		t.Errorf("second parallel edge = %+v", dst.Edges[1])
	}
	if dst.Edges[2].Spline != nil {
		t.Error("reversed pair should not match")
	}
}

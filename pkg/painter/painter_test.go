package painter

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mcviz/pkg/errors"
	"github.com/matzehuels/mcviz/pkg/glyph"
	"github.com/matzehuels/mcviz/pkg/layout"
	"github.com/matzehuels/mcviz/pkg/observability"
)

func quietPainter() *SVGPainter {
	return &SVGPainter{Logger: log.New(io.Discard)}
}

func paint(t *testing.T, p Painter, l *layout.Layout) string {
	t.Helper()
	out, err := p.Paint(context.Background(), l)
	if err != nil {
		t.Fatalf("Paint() error = %v", err)
	}
	return string(out)
}

func count(doc, s string) int { return strings.Count(doc, s) }

func TestPhotonEdge(t *testing.T) {
	l := &layout.Layout{
		Edges: []layout.Edge{{
			Item:     layout.Item{ID: "22"},
			Spline:   spline(layout.Pt(0, 0), layout.Pt(10, 0)),
			Show:     true,
			LineType: "photon",
		}},
	}
	doc := paint(t, quietPainter(), l)

	if n := count(doc, "<path "); n != 1 {
		t.Errorf("found %d drawables, want 1\n%s", n, doc)
	}
	if !strings.Contains(doc, `transform="scale(1.000)"`) {
		t.Errorf("drawable should be scaled by the fallback canvas\n%s", doc)
	}
	if count(doc, "<use ")+count(doc, "<text") != 0 {
		t.Errorf("no glyphs expected\n%s", doc)
	}
	if !strings.Contains(doc, `<defs/>`) {
		t.Errorf("defs should be empty\n%s", doc)
	}
}

func TestNodeWithLabel(t *testing.T) {
	l := &layout.Layout{
		Nodes: []layout.Node{{
			Item:   layout.Item{ID: "v1"},
			Center: pt(5, 5),
			Width:  4,
			Height: 2,
			Show:   true,
			Label:  "e-",
		}},
	}
	doc := paint(t, quietPainter(), l)

	if !strings.Contains(doc, `<ellipse cx="5.000" cy="5.000" rx="2.000" ry="1.000"`) {
		t.Errorf("missing vertex with half dimensions\n%s", doc)
	}
	if n := count(doc, "<ellipse"); n != 1 {
		t.Errorf("found %d vertices, want 1", n)
	}
	if n := count(doc, "<use ") + count(doc, "<text"); n != 1 {
		t.Errorf("found %d glyph elements, want 1\n%s", n, doc)
	}
	if !strings.Contains(doc, `xlink:href="#pdg11"`) {
		t.Errorf("e- should resolve to the electron glyph\n%s", doc)
	}
}

func TestEdgeWithoutSplineIsSkipped(t *testing.T) {
	l := &layout.Layout{
		Edges: []layout.Edge{
			{Show: true, LineType: "photon", Label: "gamma", LabelCenter: pt(1, 1)},
			{Show: true, Spline: &layout.Spline{}, Label: "g", LabelCenter: pt(1, 1)},
		},
	}
	doc := paint(t, quietPainter(), l)
	for _, tag := range []string{"<path", "<use", "<text", "<g "} {
		if strings.Contains(doc, tag) {
			t.Errorf("edge without spline produced %s\n%s", tag, doc)
		}
	}
}

func TestNodeWithoutCenterIsSkipped(t *testing.T) {
	l := &layout.Layout{
		Nodes: []layout.Node{{Show: true, Width: 4, Height: 4, Label: "e-"}},
	}
	doc := paint(t, quietPainter(), l)
	if strings.Contains(doc, "<ellipse") || strings.Contains(doc, "<use") {
		t.Errorf("unplaced node was painted\n%s", doc)
	}
}

func TestScaleAppliedOnce(t *testing.T) {
	l := &layout.Layout{
		Canvas: layout.Canvas{Width: 200, Height: 100},
		Edges: []layout.Edge{{
			Spline: spline(layout.Pt(0, 0), layout.Pt(50, 20)),
			Show:   true,
		}},
		Nodes: []layout.Node{{Center: pt(10, 10), Label: "x"}},
	}
	p := &SVGPainter{Catalog: glyph.Empty{}, Logger: log.New(io.Discard)}
	doc := paint(t, p, l)

	// scale = min(200/50, 100/20) = 4
	for _, want := range []string{
		`viewBox="0 0 800.0 400.0"`,
		`<path d="M0.000,0.000 L50.000,20.000" stroke="black" stroke-width="1.5" fill="none" transform="scale(4.000)"/>`,
		`<text x="28.000" y="56.000" font-size="48.00">x</text>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("missing %s\n%s", want, doc)
		}
	}
	if l.Scale != 0 {
		t.Error("painting must not modify the layout")
	}
}

func TestFinalizedCanvasIsKept(t *testing.T) {
	l := &layout.Layout{
		Canvas: layout.Canvas{Width: 10, Height: 10, Scale: 3},
		Nodes:  []layout.Node{{Center: pt(1, 1), Show: true}},
	}
	doc := paint(t, quietPainter(), l)
	if !strings.Contains(doc, `viewBox="0 0 30.0 30.0"`) || !strings.Contains(doc, `scale(3.000)`) {
		t.Errorf("explicit scale should be used as is\n%s", doc)
	}
}

func TestEdgeLabels(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"e-", `xlink:href="#pdg11"`},
		{"a<b", `>a&lt;b</text>`},
		{"x>", `>x&gt;</text>`},
		{"unknown", `>unknown</text>`},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			l := &layout.Layout{
				Edges: []layout.Edge{{
					Spline:      spline(layout.Pt(0, 0), layout.Pt(10, 10)),
					Label:       tt.label,
					LabelCenter: pt(5, 5),
					Subscripts:  []layout.Subscript{{Text: "1", Position: layout.PosSub}},
				}},
			}
			doc := paint(t, quietPainter(), l)
			if !strings.Contains(doc, tt.want) {
				t.Errorf("missing %s\n%s", tt.want, doc)
			}
			if !strings.Contains(doc, `>1</text>`) {
				t.Errorf("edge subscripts should be painted\n%s", doc)
			}
			if strings.Contains(doc, `transform="scale(1.000)"`) {
				t.Errorf("hidden edge was drawn\n%s", doc)
			}
		})
	}
}

func TestGlyphDefinedOncePerDocument(t *testing.T) {
	var nodes []layout.Node
	for i := range 3 {
		nodes = append(nodes, layout.Node{Center: pt(float64(i), 1), Label: "gamma"})
	}
	doc := paint(t, quietPainter(), &layout.Layout{Nodes: nodes})
	if n := count(doc, `id="pdg22"`); n != 1 {
		t.Errorf("photon glyph defined %d times, want 1", n)
	}
	if n := count(doc, `xlink:href="#pdg22"`); n != 3 {
		t.Errorf("photon glyph used %d times, want 3", n)
	}
}

func TestUnknownLineType(t *testing.T) {
	l := &layout.Layout{
		Edges: []layout.Edge{{
			Item:     layout.Item{ID: "e1"},
			Spline:   spline(layout.Pt(0, 0), layout.Pt(10, 10)),
			Show:     true,
			LineType: "graviton",
		}},
	}

	var buf bytes.Buffer
	p := &SVGPainter{Logger: log.New(&buf)}
	doc := paint(t, p, l)
	if !strings.Contains(doc, `stroke-width="1.5"`) {
		t.Errorf("unknown line type should draw as hadron\n%s", doc)
	}
	if !strings.Contains(buf.String(), "graviton") {
		t.Errorf("expected a warning naming the line type, got %q", buf.String())
	}

	p.Strict = true
	_, err := p.Paint(context.Background(), l)
	if !errors.Is(err, errors.ErrCodeInvalidLineType) {
		t.Fatalf("strict Paint() error = %v, want INVALID_LINE_TYPE", err)
	}
	if !strings.Contains(err.Error(), "e1") {
		t.Errorf("error should name the edge: %v", err)
	}
}

func TestPaintErrors(t *testing.T) {
	straight := spline(layout.Pt(0, 0), layout.Pt(10, 10))
	tests := []struct {
		name string
		l    *layout.Layout
		code errors.Code
	}{
		{"nil layout", nil, errors.ErrCodeInvalidInput},
		{
			"bad edge style",
			&layout.Layout{Edges: []layout.Edge{{Spline: straight, Show: true, Style: map[string]string{"a b": "c"}}}},
			errors.ErrCodeInvalidStyle,
		},
		{
			"bad vertex style",
			&layout.Layout{Nodes: []layout.Node{{Center: pt(1, 1), Show: true, Style: map[string]string{"": "c"}}}},
			errors.ErrCodeInvalidStyle,
		},
		{
			"conflicting transform",
			&layout.Layout{Edges: []layout.Edge{{Spline: straight, Show: true, Style: map[string]string{"transform": "rotate(3)"}}}},
			errors.ErrCodeConflictingTransform,
		},
		{
			"bad subscript position",
			&layout.Layout{Nodes: []layout.Node{{
				Center:     pt(1, 1),
				Label:      "e-",
				Subscripts: []layout.Subscript{{Text: "x", Position: "beside"}},
			}}},
			errors.ErrCodeInvalidAnnotationPosition,
		},
		{
			"degenerate explicit canvas",
			&layout.Layout{
				Canvas: layout.Canvas{Width: 100, Height: 100},
				Nodes:  []layout.Node{{Center: pt(0, 0)}},
			},
			errors.ErrCodeDegenerateGeometry,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := quietPainter().Paint(context.Background(), tt.l)
			if !errors.Is(err, tt.code) {
				t.Errorf("Paint() error = %v, want %s", err, tt.code)
			}
			if out != nil {
				t.Error("failed paint should return no output")
			}
		})
	}
}

func TestPaintCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := quietPainter().Paint(ctx, &layout.Layout{})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Paint() error = %v, want context.Canceled", err)
	}
}

func TestDOTPainter(t *testing.T) {
	got := paint(t, DOTPainter{}, &layout.Layout{DOT: `"1" -- "2";`})
	want := "graph {\n\"1\" -- \"2\";\n}"
	if got != want {
		t.Errorf("Paint() = %q, want %q", got, want)
	}

	full := "digraph G {\n  a -> b;\n}"
	if got := paint(t, DOTPainter{}, &layout.Layout{DOT: full}); got != full {
		t.Errorf("complete graph should pass through, got %q", got)
	}

	if _, err := (DOTPainter{}).Paint(context.Background(), &layout.Layout{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty DOT error = %v, want INVALID_INPUT", err)
	}
}

func TestCompleteGraph(t *testing.T) {
	tests := []struct {
		dot  string
		want bool
	}{
		{"graph { a -- b }", true},
		{"digraph G {\n a -> b }", true},
		{"  strict digraph {}", true},
		{"Graph \"quoted name\" {", true},
		{`a -- b;`, false},
		{`graph [rankdir=LR]; a -- b;`, false},
		{"graphs -- b;", false},
		{"digraph", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := completeGraph(tt.dot); got != tt.want {
			t.Errorf("completeGraph(%q) = %v, want %v", tt.dot, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"svg", "*painter.SVGPainter"},
		{"SVG", "*painter.SVGPainter"},
		{"dot", "painter.DOTPainter"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			p, err := New(tt.format, Options{LabelSize: 8})
			if err != nil {
				t.Fatal(err)
			}
			if got := typeName(p); got != tt.want {
				t.Errorf("New(%q) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}

	if _, err := New("png", Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("New(png) error = %v, want INVALID_FORMAT", err)
	}
}

func typeName(p Painter) string {
	switch p.(type) {
	case *SVGPainter:
		return "*painter.SVGPainter"
	case DOTPainter:
		return "painter.DOTPainter"
	}
	return "unknown"
}

type recordingPaintHooks struct {
	observability.NoopPaintHooks
	started   []string
	completed []error
}

func (h *recordingPaintHooks) OnPaintStart(_ context.Context, format string, _, _ int) {
	h.started = append(h.started, format)
}

func (h *recordingPaintHooks) OnPaintComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	h.completed = append(h.completed, err)
}

func TestPaintHooks(t *testing.T) {
	hooks := &recordingPaintHooks{}
	observability.SetPaintHooks(hooks)
	defer observability.Reset()

	paint(t, quietPainter(), &layout.Layout{})
	_, _ = DOTPainter{}.Paint(context.Background(), &layout.Layout{})

	if len(hooks.started) != 2 || hooks.started[0] != FormatSVG || hooks.started[1] != FormatDOT {
		t.Errorf("started = %v", hooks.started)
	}
	if len(hooks.completed) != 2 || hooks.completed[0] != nil || hooks.completed[1] == nil {
		t.Errorf("completed = %v", hooks.completed)
	}
}

package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mcviz/pkg/cache"
	"github.com/matzehuels/mcviz/pkg/errors"
	"github.com/matzehuels/mcviz/pkg/layout"
)

const photonJSON = `{
  "width": 100, "height": 50, "scale": 2, "dot": "a -- b;",
  "edges": [{"item": {"id": "p1"}, "line_type": "photon", "show": true,
             "spline": {"points": [{"x": 0, "y": 0}, {"x": 10, "y": 5}]}}]
}`

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	return NewRunner(c, nil, log.New(io.Discard))
}

func readInput(t *testing.T, s string) Input {
	t.Helper()
	in, err := ReadInput([]byte(s))
	if err != nil {
		t.Fatalf("ReadInput() error = %v", err)
	}
	return in
}

func TestReadInput(t *testing.T) {
	in := readInput(t, "\n  "+photonJSON)
	if in.Layout == nil || in.DOT != "" {
		t.Fatalf("JSON input not detected: %+v", in)
	}
	if in.Layout.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", in.Layout.EdgeCount())
	}

	in = readInput(t, "digraph { a -> b }")
	if in.Layout != nil || in.DOT != "digraph { a -> b }" {
		t.Errorf("DOT input not detected: %+v", in)
	}

	if _, err := ReadInput([]byte(" \n")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty input error = %v, want INVALID_INPUT", err)
	}
	if _, err := ReadInput([]byte("{")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("malformed JSON error = %v, want INVALID_INPUT", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options: %v", err)
	}
	if o.Format != "svg" || o.Engine != layout.DefaultEngine || o.LabelSize != 12 {
		t.Errorf("defaults = %+v", o)
	}

	o = Options{Format: "DOT"}
	if err := o.ValidateAndSetDefaults(); err != nil || o.Format != "dot" {
		t.Errorf("format should be normalized, got %q (%v)", o.Format, err)
	}

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"format", Options{Format: "png"}, errors.ErrCodeInvalidFormat},
		{"engine", Options{Engine: "nope"}, errors.ErrCodeInvalidInput},
		{"label size", Options{LabelSize: -1}, errors.ErrCodeInvalidInput},
		{"width only", Options{Width: 10}, errors.ErrCodeInvalidInput},
		{"negative size", Options{Width: -1, Height: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecuteLayoutInput(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	in := readInput(t, photonJSON)

	res, err := r.Execute(ctx, in, Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	doc := string(res.Artifact)
	if !strings.Contains(doc, `viewBox="0 0 200.0 100.0"`) {
		t.Errorf("explicit canvas should be kept\n%s", doc)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.PaintHit {
		t.Errorf("first run should miss: %+v", res.CacheInfo)
	}
	if res.Stats.EdgeCount != 1 || res.LayoutHash == "" {
		t.Errorf("result = %+v", res.Stats)
	}

	again, err := r.Execute(ctx, in, Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !again.CacheInfo.PaintHit {
		t.Error("second run should hit the artifact cache")
	}
	if string(again.Artifact) != doc {
		t.Error("cached artifact differs")
	}

	refreshed, err := r.Execute(ctx, in, Options{Refresh: true})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if refreshed.CacheInfo.PaintHit {
		t.Error("refresh should bypass the cache")
	}

	dot, err := r.Execute(ctx, in, Options{Format: "dot"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if dot.CacheInfo.PaintHit || string(dot.Artifact) != "graph {\na -- b;\n}" {
		t.Errorf("dot artifact = %q (hit %v)", dot.Artifact, dot.CacheInfo.PaintHit)
	}
}

func TestExecuteCanvasOverride(t *testing.T) {
	r := newTestRunner(t)
	in := readInput(t, photonJSON)

	res, err := r.Execute(context.Background(), in, Options{Width: 40, Height: 40})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	// content box 10x5 from the origin, scale min(40/10, 40/5) = 4
	if !strings.Contains(string(res.Artifact), `viewBox="0 0 160.0 160.0"`) {
		t.Errorf("override not applied\n%s", res.Artifact)
	}
	if in.Layout.Width != 100 || in.Layout.Scale != 2 {
		t.Error("input layout must not be modified")
	}
}

func TestExecutePlacesUnplacedLayout(t *testing.T) {
	r := newTestRunner(t)
	in := readInput(t, `{
  "dot": "digraph { a -> b }",
  "nodes": [{"item": {"id": "a"}, "show": true}, {"item": {"id": "b"}, "label": "e-"}],
  "edges": [{"item": {"id": "p1"}, "from": "a", "to": "b", "show": true, "line_type": "photon"}]
}`)

	res, err := r.Execute(context.Background(), in, Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Layout.Placed() || res.Layout.Edges[0].Spline == nil {
		t.Fatalf("layout was not placed: %+v", res.Layout)
	}
	if res.Layout.Edges[0].LineType != "photon" || res.Layout.Nodes[1].Label != "e-" {
		t.Error("placement should keep line types and labels")
	}
	if in.Layout.Placed() {
		t.Error("input layout must not be modified")
	}
	if !strings.Contains(string(res.Artifact), `<use `) {
		t.Errorf("label glyph missing\n%s", res.Artifact)
	}
}

func TestExecutePaintError(t *testing.T) {
	r := newTestRunner(t)
	in := readInput(t, `{"width": 1, "height": 1}`)
	_, err := r.Execute(context.Background(), in, Options{Format: "dot"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestPaint(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	l := &layout.Layout{DOT: "a -- b;"}
	out, hit, err := r.PaintWithCacheInfo(context.Background(), l, Options{Format: "dot"})
	if err != nil {
		t.Fatalf("PaintWithCacheInfo() error = %v", err)
	}
	if hit {
		t.Error("null cache never hits")
	}
	if string(out) != "graph {\na -- b;\n}" {
		t.Errorf("Paint() = %q", out)
	}
}

func TestLayoutUnknownEngine(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, err := r.Layout(context.Background(), "graph { a -- b }", Options{Engine: "nope"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

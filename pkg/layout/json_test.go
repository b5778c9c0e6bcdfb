package layout

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/mcviz/pkg/errors"
)

const sampleJSON = `{
  "width": 400, "height": 300,
  "nodes": [{"item": {"id": "v1"}, "center": {"x": 5, "y": 5}, "show": true,
             "label": "e-", "subscripts": [{"text": "1", "position": "sub"}]}],
  "edges": [{"item": {"id": "p1", "pdgid": 22}, "line_type": "photon",
             "spline": {"points": [{"x": 0, "y": 0}, {"x": 10, "y": 0}]},
             "style": {"stroke": "red"}}]
}`

func TestReadJSON(t *testing.T) {
	l, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if l.Width != 400 || l.Height != 300 || l.Scale != 0 {
		t.Errorf("canvas = %+v", l.Canvas)
	}
	if l.Canvas.Finalized() {
		t.Error("missing scale should leave the canvas unfinalized")
	}
	n := l.Nodes[0]
	if n.Center == nil || n.Label != "e-" || n.Subscripts[0].Position != PosSub {
		t.Errorf("node = %+v", n)
	}
	e := l.Edges[0]
	if e.Item.PDGID != 22 || e.LineType != "photon" || e.Style["stroke"] != "red" {
		t.Errorf("edge = %+v", e)
	}
	if e.Show {
		t.Error("show defaults to false")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"malformed", `{"width": `, errors.ErrCodeInvalidInput},
		{"unknown field", `{"colour": "red"}`, errors.ErrCodeInvalidInput},
		{"short spline", `{"edges": [{"spline": {"points": [{"x": 1, "y": 1}]}}]}`, errors.ErrCodeInvalidInput},
		{"edge subscript", `{"edges": [{"subscripts": [{"text": "x", "position": "left"}]}]}`, errors.ErrCodeInvalidAnnotationPosition},
		{"node subscript", `{"nodes": [{"subscripts": [{"text": "x", "position": ""}]}]}`, errors.ErrCodeInvalidAnnotationPosition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	want, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatal(err)
	}
	want.DOT = "graph { v1 }"

	var buf bytes.Buffer
	if err := WriteJSON(want, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch\ngot  %+v\nwant %+v", got, want)
	}
}

func TestImportExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	l := &Layout{Canvas: Canvas{Width: 10, Height: 20, Scale: 1}}
	if err := ExportJSON(l, path); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if got.Canvas != l.Canvas {
		t.Errorf("canvas = %+v, want %+v", got.Canvas, l.Canvas)
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportJSON() of a missing file should fail")
	}
}

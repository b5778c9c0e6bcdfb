package svg

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/mcviz/pkg/errors"
	"github.com/matzehuels/mcviz/pkg/glyph"
	"github.com/matzehuels/mcviz/pkg/layout"
)

const testCatalog = `
[[glyph]]
pdgid = 11
names = ["e-"]
xmin = 0.0
xmax = 1.0
ymin = -1.0
ymax = 0.0
body = '<path d="M0,0"/>'
`

func testDocument(t *testing.T, canvas layout.Canvas) *Document {
	t.Helper()
	cat, err := glyph.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatal(err)
	}
	d, err := New(canvas, cat)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func mustContain(t *testing.T, doc, want string) {
	t.Helper()
	if !strings.Contains(doc, want) {
		t.Errorf("document missing %s\n%s", want, doc)
	}
}

func TestNewValidatesCanvas(t *testing.T) {
	tests := []struct {
		name   string
		canvas layout.Canvas
	}{
		{"zero scale", layout.Canvas{Width: 100, Height: 100}},
		{"negative scale", layout.Canvas{Width: 100, Height: 100, Scale: -1}},
		{"nan width", layout.Canvas{Width: math.NaN(), Height: 100, Scale: 1}},
		{"infinite height", layout.Canvas{Width: 100, Height: math.Inf(1), Scale: 1}},
		{"negative width", layout.Canvas{Width: -1, Height: 100, Scale: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.canvas, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("New() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestDocumentStructure(t *testing.T) {
	d := testDocument(t, layout.Canvas{Width: 200, Height: 100, Scale: 0.5})
	if err := d.AddGlyph("e-", layout.Pt(10, 10), 12, nil); err != nil {
		t.Fatal(err)
	}
	if err := d.AddObject(NewElement("path", Attr{"d", "M0,0 L10,0"})); err != nil {
		t.Fatal(err)
	}
	doc := d.String()

	if !strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("document should start with an XML declaration:\n%s", doc)
	}
	mustContain(t, doc, `<svg version="1.1" viewBox="0 0 100.0 50.0" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">`)
	mustContain(t, doc, `<rect id="background" x="0" y="0" width="100.0" height="50.0" style="fill:white;"/>`)

	bg := strings.Index(doc, `<rect id="background"`)
	defs := strings.Index(doc, `<defs>`)
	use := strings.Index(doc, `<use `)
	path := strings.Index(doc, `<path d="M0,0 L10,0"`)
	if !(bg < defs && defs < use && use < path) {
		t.Errorf("unexpected element order bg=%d defs=%d use=%d path=%d", bg, defs, use, path)
	}
	if !strings.HasSuffix(doc, "</svg>\n") {
		t.Errorf("document should end with the root element")
	}
}

func TestEmptyDocument(t *testing.T) {
	d, err := New(layout.Canvas{Width: 100, Height: 100, Scale: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	doc := d.String()
	mustContain(t, doc, `<defs/>`)
	if d.ObjectCount() != 0 || d.DefCount() != 0 {
		t.Errorf("empty document has %d objects, %d defs", d.ObjectCount(), d.DefCount())
	}

	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != doc {
		t.Error("WriteTo and String disagree")
	}
}

func TestAddGlyphPlacement(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		want  string
	}{
		{"unit scale", 1, `<use x="0.500" y="2.500" transform="scale(10.000)" xlink:href="#pdg11"/>`},
		{"double scale", 2, `<use x="0.500" y="2.500" transform="scale(20.000)" xlink:href="#pdg11"/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDocument(t, layout.Canvas{Width: 100, Height: 100, Scale: tt.scale})
			if err := d.AddGlyph("e-", layout.Pt(10, 20), 10, nil); err != nil {
				t.Fatal(err)
			}
			doc := d.String()
			mustContain(t, doc, tt.want)
			mustContain(t, doc, `<defs><g id="pdg11" transform="scale(1)"><path d="M0,0"/></g></defs>`)
		})
	}
}

func TestAddGlyphSubscripts(t *testing.T) {
	d := testDocument(t, layout.Canvas{Width: 100, Height: 100, Scale: 1})
	subs := []layout.Subscript{{Text: "L", Position: layout.PosSub}}
	if err := d.AddGlyph("11", layout.Pt(10, 20), 10, subs); err != nil {
		t.Fatal(err)
	}
	// anchor (5,25), dims (10,0)
	mustContain(t, d.String(), `<text x="15.000" y="26.000" font-size="3.00">L</text>`)
	if d.ObjectCount() != 2 {
		t.Errorf("ObjectCount() = %d, want 2", d.ObjectCount())
	}
}

func TestGlyphDefinedOnce(t *testing.T) {
	d := testDocument(t, layout.Canvas{Width: 100, Height: 100, Scale: 1})
	for i, key := range []string{"e-", "11", "e-"} {
		if err := d.AddGlyph(key, layout.Pt(float64(i), 0), 10, nil); err != nil {
			t.Fatal(err)
		}
		if d.DefCount() != 1 {
			t.Fatalf("after %d glyphs DefCount() = %d, want 1", i+1, d.DefCount())
		}
	}
	doc := d.String()
	if n := strings.Count(doc, `id="pdg11"`); n != 1 {
		t.Errorf("definition emitted %d times, want 1", n)
	}
	if n := strings.Count(doc, `xlink:href="#pdg11"`); n != 3 {
		t.Errorf("glyph used %d times, want 3", n)
	}
}

func TestAddGlyphFallsBackToText(t *testing.T) {
	d := testDocument(t, layout.Canvas{Width: 100, Height: 100, Scale: 1})
	if err := d.AddGlyph("mu-", layout.Pt(10, 20), 12, nil); err != nil {
		t.Fatal(err)
	}
	if d.DefCount() != 0 {
		t.Errorf("DefCount() = %d, want 0", d.DefCount())
	}
	// w = 3*12*0.5 = 18
	mustContain(t, d.String(), `<text x="1.000" y="24.000" font-size="12.00">mu-</text>`)
}

func TestAddTextGlyph(t *testing.T) {
	d := testDocument(t, layout.Canvas{Width: 100, Height: 100, Scale: 1})
	subs := []layout.Subscript{
		{Text: "a", Position: layout.PosSub},
		{Text: "b", Position: layout.PosSuper},
		{Text: "c", Position: layout.PosUnder},
		{Text: "d", Position: layout.PosOver},
	}
	if err := d.AddTextGlyph("<q>", layout.Pt(10, 20), 12, subs); err != nil {
		t.Fatal(err)
	}
	doc := d.String()
	// w = 18, anchor (10,20), dims (9,4)
	mustContain(t, doc, `<text x="1.000" y="24.000" font-size="12.00">&lt;q&gt;</text>`)
	mustContain(t, doc, `<text x="19.000" y="25.200" font-size="3.60">a</text>`)
	mustContain(t, doc, `<text x="19.000" y="18.800" font-size="3.60">b</text>`)
	mustContain(t, doc, `<text x="5.500" y="28.800" font-size="3.60">c</text>`)
	mustContain(t, doc, `<text x="5.500" y="15.200" font-size="3.60">d</text>`)
	if d.ObjectCount() != 5 {
		t.Errorf("ObjectCount() = %d, want 5", d.ObjectCount())
	}
}

func TestTextGlyphScaled(t *testing.T) {
	d := testDocument(t, layout.Canvas{Width: 100, Height: 100, Scale: 2})
	if err := d.AddTextGlyph("ab", layout.Pt(10, 20), 6, nil); err != nil {
		t.Fatal(err)
	}
	// f = 12, center (20,40), w = 12
	mustContain(t, d.String(), `<text x="14.000" y="44.000" font-size="12.00">ab</text>`)
}

func TestAddSubscriptsPlacement(t *testing.T) {
	const f = 10.0
	dims := layout.Pt(4, 2)
	tests := []struct {
		pos  layout.SubscriptPosition
		want string
	}{
		{layout.PosSub, `<text x="4.000" y="3.000" font-size="3.00">s</text>`},
		{layout.PosSuper, `<text x="4.000" y="-1.000" font-size="3.00">s</text>`},
		{layout.PosUnder, `<text x="-2.000" y="6.000" font-size="3.00">s</text>`},
		{layout.PosOver, `<text x="-2.000" y="-4.000" font-size="3.00">s</text>`},
	}
	for _, tt := range tests {
		t.Run(string(tt.pos), func(t *testing.T) {
			d := testDocument(t, layout.Canvas{Width: 100, Height: 100, Scale: 3})
			err := d.AddSubscripts([]layout.Subscript{{Text: "s", Position: tt.pos}}, layout.Pt(0, 0), dims, f)
			if err != nil {
				t.Fatal(err)
			}
			mustContain(t, d.String(), tt.want)
		})
	}
}

func TestInvalidSubscriptLeavesDocumentUnchanged(t *testing.T) {
	bad := []layout.Subscript{
		{Text: "ok", Position: layout.PosSub},
		{Text: "x", Position: "left"},
	}
	tests := []struct {
		name string
		add  func(d *Document) error
	}{
		{"glyph", func(d *Document) error { return d.AddGlyph("e-", layout.Pt(1, 1), 10, bad) }},
		{"text", func(d *Document) error { return d.AddTextGlyph("x", layout.Pt(1, 1), 10, bad) }},
		{"subscripts", func(d *Document) error {
			return d.AddSubscripts(bad, layout.Pt(1, 1), layout.Pt(1, 1), 10)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDocument(t, layout.Canvas{Width: 100, Height: 100, Scale: 1})
			before := d.String()
			err := tt.add(d)
			if !errors.Is(err, errors.ErrCodeInvalidAnnotationPosition) {
				t.Fatalf("error = %v, want INVALID_ANNOTATION_POSITION", err)
			}
			if d.String() != before {
				t.Error("document changed after a failed add")
			}
			if d.DefCount() != 0 {
				t.Error("glyph definition added despite the error")
			}
		})
	}
}

func TestInvalidFontSize(t *testing.T) {
	d := testDocument(t, layout.Canvas{Width: 100, Height: 100, Scale: 1})
	for _, fs := range []float64{0, -1, math.NaN()} {
		if err := d.AddGlyph("e-", layout.Pt(0, 0), fs, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("AddGlyph(fontSize=%v) error = %v, want INVALID_INPUT", fs, err)
		}
	}
}

func TestAddObject(t *testing.T) {
	d := testDocument(t, layout.Canvas{Width: 100, Height: 100, Scale: 2.5})
	el := NewElement("path", Attr{"d", "M0,0 L10,0"})
	if err := d.AddObject(el); err != nil {
		t.Fatal(err)
	}
	mustContain(t, d.String(), `<path d="M0,0 L10,0" transform="scale(2.500)"/>`)
	if d.ObjectCount() != 1 {
		t.Errorf("ObjectCount() = %d, want 1", d.ObjectCount())
	}
}

func TestAddObjectConflictingTransform(t *testing.T) {
	d := testDocument(t, layout.Canvas{Width: 100, Height: 100, Scale: 2})
	before := d.String()

	el := NewElement("path", Attr{"d", "M0,0"}, Attr{"transform", "rotate(45)"})
	err := d.AddObject(el)
	if !errors.Is(err, errors.ErrCodeConflictingTransform) {
		t.Fatalf("AddObject() error = %v, want CONFLICTING_TRANSFORM", err)
	}
	if d.String() != before || d.ObjectCount() != 0 {
		t.Error("document changed after a rejected object")
	}
	if v, _ := el.Attr("transform"); v != "rotate(45)" {
		t.Errorf("rejected element was modified: transform=%q", v)
	}

	if err := d.AddObject(nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("AddObject(nil) error = %v, want INVALID_INPUT", err)
	}
}

package svg

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/matzehuels/mcviz/pkg/errors"
	"github.com/matzehuels/mcviz/pkg/glyph"
	"github.com/matzehuels/mcviz/pkg/layout"
)

const (
	xmlDecl = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	nsSVG   = "http://www.w3.org/2000/svg"
	nsXLink = "http://www.w3.org/1999/xlink"
)

// Text layout heuristics. No font metrics are available, so a label is
// assumed to be half an em wide per character with its baseline a third of
// an em below the center.
const (
	charWidth      = 0.5
	baselineOffset = 1.0 / 3.0
	subscriptSize  = 0.3
)

// Document assembles one SVG image. It owns the canvas, the shared defs
// section and the drawn content, and is the only place where the canvas
// scale is applied.
//
// A Document belongs to a single painting pass and is not safe for
// concurrent use.
type Document struct {
	canvas  layout.Canvas
	catalog glyph.Catalog

	background *Element
	defs       *Element
	defined    map[string]struct{}
	content    []Node
}

// New creates a document for a finalized canvas and adds the background.
// A nil catalog renders every glyph as text.
func New(canvas layout.Canvas, catalog glyph.Catalog) (*Document, error) {
	if err := canvas.Validate(); err != nil {
		return nil, err
	}
	if catalog == nil {
		catalog = glyph.Empty{}
	}
	d := &Document{
		canvas:  canvas,
		catalog: catalog,
		defs:    NewElement("defs"),
		defined: make(map[string]struct{}),
	}
	d.addBackground()
	return d, nil
}

func (d *Document) addBackground() {
	d.background = NewElement("rect",
		Attr{"id", "background"},
		Attr{"x", "0"},
		Attr{"y", "0"},
		Attr{"width", box(d.canvas.Width * d.canvas.Scale)},
		Attr{"height", box(d.canvas.Height * d.canvas.Scale)},
		Attr{"style", "fill:white;"},
	)
}

// Canvas returns the canvas the document was created with.
func (d *Document) Canvas() layout.Canvas { return d.canvas }

// AddGlyph places the glyph for key centered on center. fontSize and center
// are in layout units. When the catalog has no glyph for key the key itself
// is rendered as a text label.
func (d *Document) AddGlyph(key string, center layout.Point, fontSize float64, subs []layout.Subscript) error {
	g, ok := d.catalog.Resolve(key)
	if !ok {
		return d.AddTextGlyph(key, center, fontSize, subs)
	}
	if err := validatePlacement(center, fontSize); err != nil {
		return err
	}
	if err := validateSubscripts(subs); err != nil {
		return err
	}

	f := fontSize * d.canvas.Scale
	c := center.Mul(d.canvas.Scale)

	if _, seen := d.defined[g.DefID]; !seen {
		d.defs.Append(Raw(g.Markup))
		d.defined[g.DefID] = struct{}{}
	}

	ds := g.DefaultScale
	x := c.X - 0.5*(g.XMin+g.XMax)*f*ds
	y := c.Y - 0.5*(g.YMin+g.YMax)*f*ds

	d.content = append(d.content, NewElement("use",
		Attr{"x", coord(x / f)},
		Attr{"y", coord(y / f)},
		Attr{"transform", "scale(" + coord(f) + ")"},
		Attr{"xlink:href", "#" + g.DefID},
	))

	d.appendSubscripts(subs, layout.Pt(x, y), layout.Pt(g.XMax*ds*f, g.YMax*ds*f), f)
	return nil
}

// AddTextGlyph places label as text centered on center. fontSize and center
// are in layout units.
func (d *Document) AddTextGlyph(label string, center layout.Point, fontSize float64, subs []layout.Subscript) error {
	if err := validatePlacement(center, fontSize); err != nil {
		return err
	}
	if err := validateSubscripts(subs); err != nil {
		return err
	}

	f := fontSize * d.canvas.Scale
	c := center.Mul(d.canvas.Scale)
	w := float64(len(label)) * f * charWidth

	d.content = append(d.content, textElement(label, c.X-w/2, c.Y+f*baselineOffset, f))
	d.appendSubscripts(subs, c, layout.Pt(w/2, f*baselineOffset), f)
	return nil
}

// AddSubscripts places annotations around an anchor. All arguments are in
// screen units; no canvas scaling is applied. Offsets from the anchor are
// (+dx, +dy+0.1f) for sub, (+dx, -0.1f) for super, (-dx/2, +dy+0.4f) for
// under and (-dx/2, -0.4f) for over, with text at 0.3f.
//
// Every position is checked before anything is added, so on error the
// document is unchanged.
func (d *Document) AddSubscripts(subs []layout.Subscript, anchor, dims layout.Point, fontSize float64) error {
	if err := validateSubscripts(subs); err != nil {
		return err
	}
	d.appendSubscripts(subs, anchor, dims, fontSize)
	return nil
}

func (d *Document) appendSubscripts(subs []layout.Subscript, anchor, dims layout.Point, f float64) {
	for _, s := range subs {
		p := anchor.Add(subscriptOffset(s.Position, dims, f))
		d.content = append(d.content, textElement(s.Text, p.X, p.Y, f*subscriptSize))
	}
}

func subscriptOffset(pos layout.SubscriptPosition, dims layout.Point, f float64) layout.Point {
	switch pos {
	case layout.PosSub:
		return layout.Pt(dims.X, dims.Y+0.1*f)
	case layout.PosSuper:
		return layout.Pt(dims.X, -0.1*f)
	case layout.PosUnder:
		return layout.Pt(-dims.X/2, dims.Y+0.4*f)
	case layout.PosOver:
		return layout.Pt(-dims.X/2, -0.4*f)
	}
	panic(fmt.Sprintf("svg: unchecked subscript position %q", pos))
}

func validateSubscripts(subs []layout.Subscript) error {
	for _, s := range subs {
		if !s.Position.Valid() {
			return errors.New(errors.ErrCodeInvalidAnnotationPosition,
				"subscript %q has unknown position %q", s.Text, s.Position)
		}
	}
	return nil
}

func validatePlacement(center layout.Point, fontSize float64) error {
	if err := errors.ValidateFinite("center x", center.X); err != nil {
		return err
	}
	if err := errors.ValidateFinite("center y", center.Y); err != nil {
		return err
	}
	if err := errors.ValidateFinite("font size", fontSize); err != nil {
		return err
	}
	if fontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %v", fontSize)
	}
	return nil
}

// AddObject appends a drawable built in layout units and scales it to the
// canvas. The element must not carry a transform of its own; in that case
// ErrCodeConflictingTransform is returned and nothing is added.
func (d *Document) AddObject(el *Element) error {
	if el == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil element")
	}
	if t, ok := el.Attr("transform"); ok {
		return errors.New(errors.ErrCodeConflictingTransform,
			"<%s> already has transform %q", el.Tag, t)
	}
	el.SetAttr("transform", "scale("+coord(d.canvas.Scale)+")")
	d.content = append(d.content, el)
	return nil
}

// DefCount returns the number of glyph definitions in defs.
func (d *Document) DefCount() int { return len(d.defined) }

// ObjectCount returns the number of drawn elements, glyph uses and text
// elements included.
func (d *Document) ObjectCount() int { return len(d.content) }

func (d *Document) root() *Element {
	w := d.canvas.Width * d.canvas.Scale
	h := d.canvas.Height * d.canvas.Scale
	root := NewElement("svg",
		Attr{"version", "1.1"},
		Attr{"viewBox", fmt.Sprintf("0 0 %s %s", box(w), box(h))},
		Attr{"xmlns", nsSVG},
		Attr{"xmlns:xlink", nsXLink},
	)
	root.Append(d.background, d.defs)
	root.Append(d.content...)
	return root
}

// Bytes serializes the document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlDecl)
	d.root().writeTo(&buf)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// String serializes the document.
func (d *Document) String() string { return string(d.Bytes()) }

// WriteTo implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Bytes())
	return int64(n), err
}

func textElement(s string, x, y, size float64) *Element {
	return NewElement("text",
		Attr{"x", coord(x)},
		Attr{"y", coord(y)},
		Attr{"font-size", strconv.FormatFloat(size, 'f', 2, 64)},
	).Append(Text(s))
}

// coord formats coordinates and transform factors.
func coord(v float64) string {
	if math.Abs(v) < 5e-4 {
		v = 0 // no "-0.000"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// box formats canvas dimensions.
func box(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

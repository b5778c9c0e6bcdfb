package painter

import (
	"math"

	"github.com/matzehuels/mcviz/pkg/errors"
	"github.com/matzehuels/mcviz/pkg/layout"
)

// Fallback canvas used when the layout carries no size.
const (
	FallbackSize  = 100.0
	FallbackScale = 1.0
)

// ResolveCanvas derives a finalized canvas for l.
//
// Without a canvas width the result is always 100x100 at scale 1, whatever
// the content. Otherwise the scale fits the content bounding box into the
// requested size without distortion: min(W/wx, H/wy).
//
// The bounding box covers every spline's box and every placed node center,
// and always contains the origin.
func ResolveCanvas(l *layout.Layout) (layout.Canvas, error) {
	if l == nil {
		return layout.Canvas{}, errors.New(errors.ErrCodeInvalidInput, "nil layout")
	}

	var xmin, xmax, ymin, ymax float64
	expand := func(x, y float64) {
		xmin, xmax = math.Min(xmin, x), math.Max(xmax, x)
		ymin, ymax = math.Min(ymin, y), math.Max(ymax, y)
	}
	for _, e := range l.Edges {
		if e.Spline == nil {
			continue
		}
		x0, x1, y0, y1 := e.Spline.BoundingBox()
		expand(x0, y0)
		expand(x1, y0)
		expand(x0, y1)
		expand(x1, y1)
	}
	for _, n := range l.Nodes {
		if n.Center != nil {
			expand(n.Center.X, n.Center.Y)
		}
	}

	w, h := l.Width, l.Height
	if w == 0 {
		return layout.Canvas{Width: FallbackSize, Height: FallbackSize, Scale: FallbackScale}, nil
	}
	if err := errors.ValidateFinite("canvas width", w); err != nil {
		return layout.Canvas{}, err
	}
	if err := errors.ValidateFinite("canvas height", h); err != nil {
		return layout.Canvas{}, err
	}
	if w < 0 || h <= 0 {
		return layout.Canvas{}, errors.New(errors.ErrCodeInvalidInput,
			"canvas size %vx%v: width and height must both be positive", w, h)
	}

	wx, wy := xmax-xmin, ymax-ymin
	if math.IsNaN(wx) || math.IsNaN(wy) || math.IsInf(wx, 0) || math.IsInf(wy, 0) {
		return layout.Canvas{}, errors.New(errors.ErrCodeInvalidInput, "content bounding box is not finite")
	}
	if wx == 0 || wy == 0 {
		return layout.Canvas{}, errors.New(errors.ErrCodeDegenerateGeometry,
			"content extent %vx%v cannot be scaled to %vx%v", wx, wy, w, h)
	}
	return layout.Canvas{Width: w, Height: h, Scale: math.Min(w/wx, h/wy)}, nil
}

package shapes

import (
	"maps"
	"slices"

	"github.com/matzehuels/mcviz/pkg/errors"
	"github.com/matzehuels/mcviz/pkg/layout"
	"github.com/matzehuels/mcviz/pkg/svg"
)

// Default stroke colours.
const (
	DefaultStroke     = "black"
	FinalPhotonStroke = "#cc3333"
)

var (
	photonWave = wave{Amplitude: 1.5, Wavelength: 6, HalfPeriods: true}
	gluonWave  = wave{Amplitude: 2, Along: 1.6, Wavelength: 4}
)

const (
	multigluonGap = 1.5
	arrowLength   = 3.0
	arrowHalf     = 1.5
)

// IdentityLine draws a thin line following the spline.
func IdentityLine(s layout.Spline, style map[string]string) (*svg.Element, error) {
	return curvePath(s, style, lineDefaults("0.5"))
}

// HadronLine draws a thick line following the spline.
func HadronLine(s layout.Spline, style map[string]string) (*svg.Element, error) {
	return curvePath(s, style, lineDefaults("1.5"))
}

// BosonLine draws a dashed line following the spline.
func BosonLine(s layout.Spline, style map[string]string) (*svg.Element, error) {
	return curvePath(s, style, append(lineDefaults("0.5"), svg.Attr{Name: "stroke-dasharray", Value: "4,2"}))
}

// FermionLine draws a line with an arrowhead halfway along it, pointing
// from the first control point to the last.
func FermionLine(s layout.Spline, style map[string]string) (*svg.Element, error) {
	if err := checkSpline(s); err != nil {
		return nil, err
	}
	g := svg.NewElement("g")
	g.Append(svg.NewElement("path", svg.Attr{Name: "d", Value: splineData(s)}))

	p := newPolyline(flatten(s))
	if p.length() > 0 {
		mid, tan := p.at(p.length() / 2)
		tip := mid.Add(tan.Mul(arrowLength / 2))
		base := mid.Sub(tan.Mul(arrowLength / 2))
		n := normal(tan).Mul(arrowHalf)
		fill := DefaultStroke
		if c, ok := style["stroke"]; ok {
			fill = c
		}
		g.Append(svg.NewElement("path",
			svg.Attr{Name: "d", Value: polylineData([]layout.Point{tip, base.Add(n), base.Sub(n)}) + " Z"},
			svg.Attr{Name: "fill", Value: fill},
		))
	}
	return styled(g, lineDefaults("0.5"), style)
}

// PhotonLine draws a sine wave along the spline.
func PhotonLine(s layout.Spline, style map[string]string) (*svg.Element, error) {
	return wavePath(s, photonWave, style, lineDefaults("0.5"))
}

// FinalPhotonLine draws a photon that leaves the event, in its own colour.
func FinalPhotonLine(s layout.Spline, style map[string]string) (*svg.Element, error) {
	defaults := lineDefaults("0.5")
	defaults[0].Value = FinalPhotonStroke
	return wavePath(s, photonWave, style, defaults)
}

// GluonLine draws a curly line along the spline.
func GluonLine(s layout.Spline, style map[string]string) (*svg.Element, error) {
	return wavePath(s, gluonWave, style, lineDefaults("0.5"))
}

// MultigluonLine draws two parallel curly lines, used for contracted gluon
// bundles.
func MultigluonLine(s layout.Spline, style map[string]string) (*svg.Element, error) {
	if err := checkSpline(s); err != nil {
		return nil, err
	}
	p := newPolyline(flatten(s))
	g := svg.NewElement("g")
	for _, d := range []float64{-multigluonGap, multigluonGap} {
		q := p
		if p.length() > 0 {
			q = p.offset(d)
		}
		g.Append(svg.NewElement("path", svg.Attr{Name: "d", Value: polylineData(gluonWave.trace(q))}))
	}
	return styled(g, lineDefaults("0.5"), style)
}

// Vertex draws an ellipse with radii rx and ry around center.
func Vertex(center layout.Point, rx, ry float64, style map[string]string) (*svg.Element, error) {
	for _, v := range []float64{center.X, center.Y, rx, ry} {
		if err := errors.ValidateFinite("vertex geometry", v); err != nil {
			return nil, err
		}
	}
	if rx < 0 || ry < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "vertex radii must not be negative, got %v,%v", rx, ry)
	}
	el := svg.NewElement("ellipse",
		svg.Attr{Name: "cx", Value: num(center.X)},
		svg.Attr{Name: "cy", Value: num(center.Y)},
		svg.Attr{Name: "rx", Value: num(rx)},
		svg.Attr{Name: "ry", Value: num(ry)},
	)
	return styled(el, []svg.Attr{
		{Name: "fill", Value: DefaultStroke},
		{Name: "stroke", Value: "none"},
	}, style)
}

func lineDefaults(width string) []svg.Attr {
	return []svg.Attr{
		{Name: "stroke", Value: DefaultStroke},
		{Name: "stroke-width", Value: width},
		{Name: "fill", Value: "none"},
	}
}

func curvePath(s layout.Spline, style map[string]string, defaults []svg.Attr) (*svg.Element, error) {
	if err := checkSpline(s); err != nil {
		return nil, err
	}
	el := svg.NewElement("path", svg.Attr{Name: "d", Value: splineData(s)})
	return styled(el, defaults, style)
}

func wavePath(s layout.Spline, w wave, style map[string]string, defaults []svg.Attr) (*svg.Element, error) {
	if err := checkSpline(s); err != nil {
		return nil, err
	}
	pts := w.trace(newPolyline(flatten(s)))
	el := svg.NewElement("path", svg.Attr{Name: "d", Value: polylineData(pts)})
	return styled(el, defaults, style)
}

// styled applies defaults, then the caller's style in key order.
func styled(el *svg.Element, defaults []svg.Attr, style map[string]string) (*svg.Element, error) {
	if err := errors.ValidateStyle(style); err != nil {
		return nil, err
	}
	for _, a := range defaults {
		el.SetAttr(a.Name, a.Value)
	}
	for _, k := range slices.Sorted(maps.Keys(style)) {
		el.SetAttr(k, style[k])
	}
	return el, nil
}

func checkSpline(s layout.Spline) error {
	if len(s.Points) < 2 {
		return errors.New(errors.ErrCodeInvalidInput, "spline needs at least 2 points, got %d", len(s.Points))
	}
	for _, p := range s.Points {
		if err := errors.ValidateFinite("spline x", p.X); err != nil {
			return err
		}
		if err := errors.ValidateFinite("spline y", p.Y); err != nil {
			return err
		}
	}
	return nil
}

package shapes

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/mcviz/pkg/layout"
)

// bezierSteps is the number of chords per cubic segment when flattening.
const bezierSteps = 16

// flatten approximates the spline by a polyline.
func flatten(s layout.Spline) []layout.Point {
	if !s.IsBezier() {
		return s.Points
	}
	pts := make([]layout.Point, 0, (len(s.Points)-1)/3*bezierSteps+1)
	pts = append(pts, s.Points[0])
	for i := 0; i+3 < len(s.Points); i += 3 {
		p0, p1, p2, p3 := s.Points[i], s.Points[i+1], s.Points[i+2], s.Points[i+3]
		for k := 1; k <= bezierSteps; k++ {
			pts = append(pts, cubic(p0, p1, p2, p3, float64(k)/bezierSteps))
		}
	}
	return pts
}

func cubic(p0, p1, p2, p3 layout.Point, t float64) layout.Point {
	u := 1 - t
	return p0.Mul(u * u * u).
		Add(p1.Mul(3 * u * u * t)).
		Add(p2.Mul(3 * u * t * t)).
		Add(p3.Mul(t * t * t))
}

// polyline is a flattened curve parametrized by arc length.
type polyline struct {
	pts []layout.Point
	cum []float64 // cum[i] is the length from pts[0] to pts[i]
}

func newPolyline(pts []layout.Point) polyline {
	var p polyline
	for _, pt := range pts {
		if n := len(p.pts); n > 0 && p.pts[n-1] == pt {
			continue
		}
		d := 0.0
		if n := len(p.pts); n > 0 {
			d = p.cum[n-1] + pt.Sub(p.pts[n-1]).Len()
		}
		p.pts = append(p.pts, pt)
		p.cum = append(p.cum, d)
	}
	return p
}

func (p polyline) length() float64 {
	if len(p.cum) == 0 {
		return 0
	}
	return p.cum[len(p.cum)-1]
}

// at returns the position and unit tangent at arc length d. The polyline
// must have a positive length.
func (p polyline) at(d float64) (pos, tan layout.Point) {
	i := sort.SearchFloat64s(p.cum, d)
	i = min(max(i, 1), len(p.pts)-1)
	a, b := p.pts[i-1], p.pts[i]
	seg := b.Sub(a)
	l := p.cum[i] - p.cum[i-1]
	t := (d - p.cum[i-1]) / l
	return a.Add(seg.Mul(t)), seg.Mul(1 / l)
}

// offset shifts every point of p sideways by dist along its normal.
func (p polyline) offset(dist float64) polyline {
	out := make([]layout.Point, len(p.pts))
	for i, pt := range p.pts {
		_, tan := p.at(p.cum[i])
		out[i] = pt.Add(normal(tan).Mul(dist))
	}
	return newPolyline(out)
}

func normal(tan layout.Point) layout.Point { return layout.Pt(-tan.Y, tan.X) }

// wave describes a periodic displacement along a curve. Amplitude moves
// points along the normal with sin; Along moves them along the tangent with
// cos, which turns the wave into loops once it exceeds the wavelength over
// 2π.
type wave struct {
	Amplitude  float64
	Along      float64
	Wavelength float64
	// HalfPeriods snaps the wavelength so the curve ends on a node of the
	// sine; otherwise full periods are used.
	HalfPeriods bool
}

const samplesPerPeriod = 24

func (w wave) trace(p polyline) []layout.Point {
	length := p.length()
	if length == 0 || w.Wavelength <= 0 {
		return p.pts
	}

	unit := w.Wavelength
	if w.HalfPeriods {
		unit /= 2
	}
	periods := math.Max(1, math.Round(length/unit))
	lambda := length / periods
	if w.HalfPeriods {
		lambda *= 2
	}

	n := int(math.Ceil(length / lambda * samplesPerPeriod))
	out := make([]layout.Point, 0, n+1)
	for k := 0; k <= n; k++ {
		d := length * float64(k) / float64(n)
		pos, tan := p.at(d)
		phi := 2 * math.Pi * d / lambda
		pt := pos.
			Add(normal(tan).Mul(w.Amplitude * math.Sin(phi))).
			Add(tan.Mul(w.Along * (math.Cos(phi) - 1)))
		out = append(out, pt)
	}
	return out
}

// splineData returns SVG path data following the spline exactly: cubic
// segments for Bézier chains, straight segments otherwise.
func splineData(s layout.Spline) string {
	if !s.IsBezier() {
		return polylineData(s.Points)
	}
	var b strings.Builder
	writePoint(&b, 'M', s.Points[0])
	for i := 1; i < len(s.Points); i += 3 {
		writePoint(&b, 'C', s.Points[i])
		writePoint(&b, ' ', s.Points[i+1])
		writePoint(&b, ' ', s.Points[i+2])
	}
	return b.String()
}

func polylineData(pts []layout.Point) string {
	var b strings.Builder
	for i, p := range pts {
		cmd := byte('L')
		if i == 0 {
			cmd = 'M'
		}
		writePoint(&b, cmd, p)
	}
	return b.String()
}

func writePoint(b *strings.Builder, cmd byte, p layout.Point) {
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	if cmd != ' ' {
		b.WriteByte(cmd)
	}
	b.WriteString(num(p.X))
	b.WriteByte(',')
	b.WriteString(num(p.Y))
}

func num(v float64) string {
	if math.Abs(v) < 5e-4 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

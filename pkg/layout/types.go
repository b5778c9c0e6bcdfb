package layout

import (
	"math"

	"github.com/matzehuels/mcviz/pkg/errors"
)

// =============================================================================
// Geometry
// =============================================================================

// Point is a position in layout coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Len returns the euclidean length of p.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Spline is the curve geometry of an edge: an ordered sequence of control
// points. Graphviz emits cubic Bézier chains with 3n+1 points; any other
// count of at least two points is treated as a polyline.
type Spline struct {
	Points []Point `json:"points"`
}

// BoundingBox returns the axis-aligned bounding box of the control points as
// (xmin, xmax, ymin, ymax). An empty spline has a zero box.
func (s Spline) BoundingBox() (xmin, xmax, ymin, ymax float64) {
	if len(s.Points) == 0 {
		return 0, 0, 0, 0
	}
	xmin, xmax = s.Points[0].X, s.Points[0].X
	ymin, ymax = s.Points[0].Y, s.Points[0].Y
	for _, p := range s.Points[1:] {
		xmin = math.Min(xmin, p.X)
		xmax = math.Max(xmax, p.X)
		ymin = math.Min(ymin, p.Y)
		ymax = math.Max(ymax, p.Y)
	}
	return xmin, xmax, ymin, ymax
}

// IsBezier reports whether the control points form a cubic Bézier chain.
func (s Spline) IsBezier() bool {
	return len(s.Points) >= 4 && (len(s.Points)-1)%3 == 0
}

// Canvas is the output coordinate space. Scale is the uniform multiplier
// applied to every coordinate and glyph size at emission time.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale,omitempty"`
}

// Finalized reports whether the canvas carries both a size and a scale.
func (c Canvas) Finalized() bool {
	return c.Width > 0 && c.Height > 0 && c.Scale > 0
}

// Validate checks that the canvas can be used to build a document.
func (c Canvas) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{{"width", c.Width}, {"height", c.Height}, {"scale", c.Scale}} {
		if err := errors.ValidateFinite("canvas "+v.name, v.val); err != nil {
			return err
		}
	}
	if c.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas scale must be positive, got %v", c.Scale)
	}
	if c.Width < 0 || c.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size must not be negative, got %vx%v", c.Width, c.Height)
	}
	return nil
}

// =============================================================================
// Subscripts
// =============================================================================

// SubscriptPosition tags where an annotation sits relative to its glyph.
type SubscriptPosition string

// Supported annotation positions.
const (
	PosSub   SubscriptPosition = "sub"
	PosSuper SubscriptPosition = "super"
	PosUnder SubscriptPosition = "under"
	PosOver  SubscriptPosition = "over"
)

// Valid reports whether p is one of the supported positions.
func (p SubscriptPosition) Valid() bool {
	switch p {
	case PosSub, PosSuper, PosUnder, PosOver:
		return true
	}
	return false
}

// Subscript is a text annotation attached to a glyph or text label.
type Subscript struct {
	Text     string            `json:"text"`
	Position SubscriptPosition `json:"position"`
}

// =============================================================================
// Graph elements
// =============================================================================

// Item identifies the physics item a node or edge represents.
type Item struct {
	ID    string `json:"id"`
	PDGID int    `json:"pdgid,omitempty"`
}

// Node is a laid-out vertex. A nil Center means the layout has not placed it.
type Node struct {
	Item       Item              `json:"item"`
	Center     *Point            `json:"center,omitempty"`
	Width      float64           `json:"width,omitempty"`
	Height     float64           `json:"height,omitempty"`
	Show       bool              `json:"show,omitempty"`
	Label      string            `json:"label,omitempty"`
	Subscripts []Subscript       `json:"subscripts,omitempty"`
	Style      map[string]string `json:"style,omitempty"`
}

// Edge is a laid-out connection. A nil Spline means nothing can be painted.
type Edge struct {
	Item        Item              `json:"item"`
	From        string            `json:"from,omitempty"`
	To          string            `json:"to,omitempty"`
	Spline      *Spline           `json:"spline,omitempty"`
	Show        bool              `json:"show,omitempty"`
	LineType    string            `json:"line_type,omitempty"`
	Label       string            `json:"label,omitempty"`
	LabelCenter *Point            `json:"label_center,omitempty"`
	Subscripts  []Subscript       `json:"subscripts,omitempty"`
	Style       map[string]string `json:"style,omitempty"`
}

// Layout is a laid-out event graph as handed to a painter. Painters treat it
// as a read-only snapshot; slice order is the graph's insertion order.
type Layout struct {
	Canvas
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	// DOT is the graph description the layout was computed from, if any.
	DOT string `json:"dot,omitempty"`
}

// Placed reports whether any node or edge carries geometry.
func (l *Layout) Placed() bool {
	for _, n := range l.Nodes {
		if n.Center != nil {
			return true
		}
	}
	for _, e := range l.Edges {
		if e.Spline != nil {
			return true
		}
	}
	return false
}

// NodeCount returns the number of nodes.
func (l *Layout) NodeCount() int { return len(l.Nodes) }

// EdgeCount returns the number of edges.
func (l *Layout) EdgeCount() int { return len(l.Edges) }

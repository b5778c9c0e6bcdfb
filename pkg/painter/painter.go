package painter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mcviz/pkg/errors"
	"github.com/matzehuels/mcviz/pkg/glyph"
	"github.com/matzehuels/mcviz/pkg/layout"
	"github.com/matzehuels/mcviz/pkg/observability"
	"github.com/matzehuels/mcviz/pkg/shapes"
	"github.com/matzehuels/mcviz/pkg/svg"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatDOT = "dot"
)

// DefaultLabelSize is the font size of glyphs and labels in layout units.
const DefaultLabelSize = 12.0

// Painter turns a laid-out graph into an output artifact. Painters never
// modify the layout.
type Painter interface {
	Paint(ctx context.Context, l *layout.Layout) ([]byte, error)
}

// Options configures painters created by [New].
type Options struct {
	// Catalog supplies particle glyphs. Nil means the embedded catalog.
	Catalog glyph.Catalog
	// LabelSize is the label font size in layout units. Zero means
	// DefaultLabelSize.
	LabelSize float64
	// Strict rejects unknown line types instead of drawing them as hadrons.
	Strict bool
	// Logger receives warnings. Nil means the logger from the context.
	Logger *log.Logger
}

// New returns the painter for format ("svg" or "dot", case-insensitive).
func New(format string, opts Options) (Painter, error) {
	if err := errors.ValidateFormat(format); err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case FormatDOT:
		return DOTPainter{}, nil
	default:
		return &SVGPainter{
			Catalog:   opts.Catalog,
			LabelSize: opts.LabelSize,
			Strict:    opts.Strict,
			Logger:    opts.Logger,
		}, nil
	}
}

// ContentType returns the media type of artifacts in format.
func ContentType(format string) string {
	if strings.EqualFold(format, FormatDOT) {
		return "text/vnd.graphviz; charset=utf-8"
	}
	return "image/svg+xml"
}

// SVGPainter paints layouts as SVG documents.
type SVGPainter struct {
	Catalog   glyph.Catalog
	LabelSize float64
	Strict    bool
	Logger    *log.Logger
}

// Paint implements Painter. Edges are painted before nodes, each in layout
// order. Edges without a spline and nodes without a center are skipped.
func (p *SVGPainter) Paint(ctx context.Context, l *layout.Layout) ([]byte, error) {
	return instrument(ctx, FormatSVG, l, func() ([]byte, error) { return p.paint(ctx, l) })
}

func (p *SVGPainter) paint(ctx context.Context, l *layout.Layout) ([]byte, error) {
	if l == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil layout")
	}
	logger := p.Logger
	if logger == nil {
		logger = log.FromContext(ctx)
	}

	canvas := l.Canvas
	if canvas.Scale == 0 || canvas.Width == 0 {
		c, err := ResolveCanvas(l)
		if err != nil {
			return nil, err
		}
		logger.Debug("resolved canvas", "width", c.Width, "height", c.Height, "scale", c.Scale)
		canvas = c
	}

	catalog := p.Catalog
	if catalog == nil {
		catalog = glyph.Default()
	}
	doc, err := svg.New(canvas, catalog)
	if err != nil {
		return nil, err
	}

	for i := range l.Edges {
		if err := p.paintEdge(doc, &l.Edges[i], logger); err != nil {
			return nil, fmt.Errorf("edge %s: %w", l.Edges[i].Item.ID, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i := range l.Nodes {
		if err := p.paintNode(doc, &l.Nodes[i]); err != nil {
			return nil, fmt.Errorf("node %s: %w", l.Nodes[i].Item.ID, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("painted svg", "objects", doc.ObjectCount(), "glyphs", doc.DefCount())
	return doc.Bytes(), nil
}

func (p *SVGPainter) paintEdge(doc *svg.Document, e *layout.Edge, logger *log.Logger) error {
	if e.Spline == nil || len(e.Spline.Points) == 0 {
		return nil
	}

	if e.Show {
		lt, ok := shapes.ParseLineType(e.LineType)
		if !ok {
			if p.Strict {
				return errors.New(errors.ErrCodeInvalidLineType, "unknown line type %q", e.LineType)
			}
			logger.Warn("unknown line type, drawing as hadron", "edge", e.Item.ID, "line_type", e.LineType)
		}
		el, err := shapes.Draw(lt, *e.Spline, e.Style)
		if err != nil {
			return err
		}
		if err := doc.AddObject(el); err != nil {
			return err
		}
	}

	if e.Label != "" && e.LabelCenter != nil {
		if strings.ContainsAny(e.Label, "<>") {
			return doc.AddTextGlyph(e.Label, *e.LabelCenter, p.labelSize(), e.Subscripts)
		}
		return doc.AddGlyph(e.Label, *e.LabelCenter, p.labelSize(), e.Subscripts)
	}
	return nil
}

func (p *SVGPainter) paintNode(doc *svg.Document, n *layout.Node) error {
	if n.Center == nil {
		return nil
	}
	if n.Show {
		el, err := shapes.Vertex(*n.Center, n.Width/2, n.Height/2, n.Style)
		if err != nil {
			return err
		}
		if err := doc.AddObject(el); err != nil {
			return err
		}
	}
	if n.Label != "" {
		return doc.AddGlyph(n.Label, *n.Center, p.labelSize(), n.Subscripts)
	}
	return nil
}

func (p *SVGPainter) labelSize() float64 {
	if p.LabelSize > 0 {
		return p.LabelSize
	}
	return DefaultLabelSize
}

// DOTPainter writes the graph description the layout was computed from.
// Statement lists are wrapped in "graph {...}"; complete graphs pass through.
type DOTPainter struct{}

// Paint implements Painter.
func (DOTPainter) Paint(ctx context.Context, l *layout.Layout) ([]byte, error) {
	return instrument(ctx, FormatDOT, l, func() ([]byte, error) {
		if l == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "nil layout")
		}
		if strings.TrimSpace(l.DOT) == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "layout has no DOT description")
		}
		if completeGraph(l.DOT) {
			return []byte(l.DOT), nil
		}
		return fmt.Appendf(nil, "graph {\n%s\n}", l.DOT), nil
	})
}

// completeGraph reports whether dot starts with a graph header such as
// "strict digraph G {". A leading "graph [...]" attribute statement does not
// count.
func completeGraph(dot string) bool {
	s := strings.ToLower(strings.TrimSpace(dot))
	s = strings.TrimSpace(strings.TrimPrefix(s, "strict"))
	switch {
	case strings.HasPrefix(s, "digraph"):
		s = s[len("digraph"):]
	case strings.HasPrefix(s, "graph"):
		s = s[len("graph"):]
	default:
		return false
	}
	head, _, found := strings.Cut(s, "{")
	return found && !strings.ContainsAny(head, "[;=")
}

func instrument(ctx context.Context, format string, l *layout.Layout, paint func() ([]byte, error)) ([]byte, error) {
	var nodes, edges int
	if l != nil {
		nodes, edges = l.NodeCount(), l.EdgeCount()
	}
	start := time.Now()
	observability.Paint().OnPaintStart(ctx, format, nodes, edges)
	data, err := paint()
	observability.Paint().OnPaintComplete(ctx, format, len(data), time.Since(start), err)
	return data, err
}

var (
	_ Painter = (*SVGPainter)(nil)
	_ Painter = DOTPainter{}
)

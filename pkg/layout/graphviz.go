package layout

import (
	"bytes"
	"context"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mcviz/pkg/errors"
	"github.com/matzehuels/mcviz/pkg/observability"
)

// DefaultEngine is the Graphviz layout engine used when none is given.
const DefaultEngine = "dot"

// formatPlain is the Graphviz output format carrying positions only.
const formatPlain graphviz.Format = "plain"

// engines lists the layout engines Graphviz ships in-process.
var engines = map[string]graphviz.Layout{
	"dot":       graphviz.DOT,
	"neato":     graphviz.NEATO,
	"fdp":       graphviz.FDP,
	"sfdp":      graphviz.SFDP,
	"twopi":     graphviz.TWOPI,
	"circo":     graphviz.CIRCO,
	"osage":     graphviz.OSAGE,
	"patchwork": graphviz.PATCHWORK,
}

// ValidateEngine checks that engine names a supported Graphviz layout.
func ValidateEngine(engine string) error {
	if _, ok := engines[engine]; !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown layout engine: %s", engine)
	}
	return nil
}

// RunPlain lays out a DOT graph with Graphviz and returns the "plain" output.
// An empty engine selects [DefaultEngine].
func RunPlain(ctx context.Context, dot, engine string) ([]byte, error) {
	if engine == "" {
		engine = DefaultEngine
	}
	if err := ValidateEngine(engine); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, engine, len(dot))
	out, err := runPlain(ctx, dot, engines[engine])
	observability.Layout().OnLayoutComplete(ctx, engine, time.Since(start), err)
	return out, err
}

func runPlain(ctx context.Context, dot string, engine graphviz.Layout) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	gv.SetLayout(engine)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, formatPlain, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "render plain")
	}
	if len(bytes.TrimSpace(buf.Bytes())) == 0 {
		return nil, errors.New(errors.ErrCodeLayoutFailed, "no output from graphviz; there may be too many constraints on the graph")
	}
	return buf.Bytes(), nil
}

// Run lays out a DOT graph and returns the resulting Layout. The DOT source
// is kept in the layout so DOT painters can pass it through.
func Run(ctx context.Context, dot, engine string) (*Layout, error) {
	plain, err := RunPlain(ctx, dot, engine)
	if err != nil {
		return nil, err
	}
	l, err := ParsePlain(bytes.NewReader(plain))
	if err != nil {
		return nil, err
	}
	l.DOT = dot
	return l, nil
}

// Apply copies positions computed by a layout engine into dst.
//
// Nodes are matched by item ID. Edges are matched by (From, To) in order of
// appearance, so the k-th edge between two nodes in dst receives the k-th
// spline Graphviz reported for that pair. Labels, styles, subscripts and
// visibility of dst are preserved; only canvas size, centers, sizes, splines
// and label centers are taken from src. Elements of dst without a match keep
// their nil geometry and are skipped by painters.
func Apply(dst, src *Layout) {
	dst.Canvas = src.Canvas

	nodes := make(map[string]Node, len(src.Nodes))
	for _, n := range src.Nodes {
		nodes[n.Item.ID] = n
	}
	for i := range dst.Nodes {
		n, ok := nodes[dst.Nodes[i].Item.ID]
		if !ok {
			continue
		}
		dst.Nodes[i].Center = n.Center
		dst.Nodes[i].Width = n.Width
		dst.Nodes[i].Height = n.Height
	}

	type pair struct{ from, to string }
	edges := make(map[pair][]Edge)
	for _, e := range src.Edges {
		k := pair{e.From, e.To}
		edges[k] = append(edges[k], e)
	}
	for i := range dst.Edges {
		k := pair{dst.Edges[i].From, dst.Edges[i].To}
		queue := edges[k]
		if len(queue) == 0 {
			continue
		}
		dst.Edges[i].Spline = queue[0].Spline
		dst.Edges[i].LabelCenter = queue[0].LabelCenter
		edges[k] = queue[1:]
	}
}

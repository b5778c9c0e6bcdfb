package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/mcviz/pkg/errors"
)

// ReadJSON decodes a JSON layout from r.
//
// The input is a JSON object with canvas fields and "nodes"/"edges" arrays:
//
//	{
//	  "width": 400, "height": 300,
//	  "nodes": [{"item": {"id": "v1"}, "center": {"x": 5, "y": 5}, "show": true}],
//	  "edges": [{"item": {"id": "p1", "pdgid": 22}, "line_type": "photon",
//	             "spline": {"points": [{"x": 0, "y": 0}, {"x": 10, "y": 0}]}}]
//	}
//
// Omitted centers and splines mean the element has not been placed yet. A
// missing scale leaves the canvas unfinalized; painters resolve it.
//
// ReadJSON returns an error if the JSON is malformed, a spline has fewer than
// two points, or a subscript position is unknown. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Layout, error) {
	var l Layout
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout")
	}
	if err := l.check(); err != nil {
		return nil, err
	}
	return &l, nil
}

// ImportJSON reads a layout from a JSON file at path.
// This is a convenience wrapper around [ReadJSON] for file-based input.
func ImportJSON(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes l as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(l *Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a layout to a JSON file at path.
func ExportJSON(l *Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(l, f)
}

func (l *Layout) check() error {
	for i, e := range l.Edges {
		if e.Spline != nil && len(e.Spline.Points) < 2 {
			return errors.New(errors.ErrCodeInvalidInput, "edge %d (%s): spline needs at least 2 points, got %d", i, e.Item.ID, len(e.Spline.Points))
		}
		if err := checkSubscripts(e.Subscripts); err != nil {
			return fmt.Errorf("edge %d (%s): %w", i, e.Item.ID, err)
		}
	}
	for i, n := range l.Nodes {
		if err := checkSubscripts(n.Subscripts); err != nil {
			return fmt.Errorf("node %d (%s): %w", i, n.Item.ID, err)
		}
	}
	return nil
}

func checkSubscripts(subs []Subscript) error {
	for _, s := range subs {
		if !s.Position.Valid() {
			return errors.New(errors.ErrCodeInvalidAnnotationPosition, "unknown subscript position %q", s.Position)
		}
	}
	return nil
}

package layout

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/mcviz/pkg/errors"
)

// PointsPerInch converts Graphviz inch coordinates to layout points.
const PointsPerInch = 72.0

// ParsePlain converts Graphviz "plain" output into a Layout.
//
// The format is line oriented:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 .. xn yn [label xl yl] style color
//	stop
//
// Positions are converted to points and flipped so that y grows downwards,
// matching SVG. Nodes and edges keep the order Graphviz reports them in.
// The "\N" label placeholder is replaced by the node name. Edges carry their
// endpoints in From and To, and get the ID "tail->head#k" where k counts
// earlier edges between the same pair.
func ParsePlain(r io.Reader) (*Layout, error) {
	var (
		l       Layout
		height  float64
		sawHead bool
	)
	edgeSeq := make(map[string]int)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields, err := splitPlain(sc.Text())
		if err != nil {
			return nil, plainErr(line, err)
		}
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return nil, plainErr(line, fmt.Errorf("graph needs 3 values, got %d", len(fields)-1))
			}
			v, err := floats(fields[1:4])
			if err != nil {
				return nil, plainErr(line, err)
			}
			l.Scale = v[0]
			l.Width = v[1] * PointsPerInch
			l.Height = v[2] * PointsPerInch
			height = l.Height
			sawHead = true

		case "node":
			if !sawHead {
				return nil, plainErr(line, fmt.Errorf("node before graph line"))
			}
			if len(fields) < 7 {
				return nil, plainErr(line, fmt.Errorf("node needs at least 6 values, got %d", len(fields)-1))
			}
			v, err := floats(fields[2:6])
			if err != nil {
				return nil, plainErr(line, err)
			}
			name := fields[1]
			center := Pt(v[0]*PointsPerInch, height-v[1]*PointsPerInch)
			label := fields[6]
			if label == `\N` {
				label = name
			}
			n := Node{
				Item:   Item{ID: name},
				Center: &center,
				Width:  v[2] * PointsPerInch,
				Height: v[3] * PointsPerInch,
				Show:   true,
				Label:  label,
			}
			if len(fields) > 7 && fields[7] == "invis" {
				n.Show = false
			}
			l.Nodes = append(l.Nodes, n)

		case "edge":
			if !sawHead {
				return nil, plainErr(line, fmt.Errorf("edge before graph line"))
			}
			e, err := parsePlainEdge(fields, height)
			if err != nil {
				return nil, plainErr(line, err)
			}
			key := e.From + "->" + e.To
			e.Item.ID = fmt.Sprintf("%s#%d", key, edgeSeq[key])
			edgeSeq[key]++
			l.Edges = append(l.Edges, e)

		case "stop":
			return &l, nil

		default:
			return nil, plainErr(line, fmt.Errorf("unknown statement %q", fields[0]))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "read plain output")
	}
	if !sawHead {
		return nil, errors.New(errors.ErrCodeLayoutFailed, "plain output has no graph line")
	}
	return &l, nil
}

func parsePlainEdge(fields []string, height float64) (Edge, error) {
	if len(fields) < 4 {
		return Edge{}, fmt.Errorf("edge needs at least 3 values, got %d", len(fields)-1)
	}
	n, err := strconv.Atoi(fields[3])
	if err != nil || n < 2 {
		return Edge{}, fmt.Errorf("invalid point count %q", fields[3])
	}
	end := 4 + 2*n
	if len(fields) < end {
		return Edge{}, fmt.Errorf("edge declares %d points but has %d values", n, len(fields)-4)
	}
	v, err := floats(fields[4:end])
	if err != nil {
		return Edge{}, err
	}

	sp := &Spline{Points: make([]Point, n)}
	for i := range n {
		sp.Points[i] = Pt(v[2*i]*PointsPerInch, height-v[2*i+1]*PointsPerInch)
	}
	e := Edge{From: fields[1], To: fields[2], Spline: sp, Show: true}

	// What follows is either "style color" or "label xl yl style color".
	rest := fields[end:]
	if len(rest) >= 5 {
		lv, err := floats(rest[1:3])
		if err != nil {
			return Edge{}, err
		}
		e.Label = rest[0]
		c := Pt(lv[0]*PointsPerInch, height-lv[1]*PointsPerInch)
		e.LabelCenter = &c
		rest = rest[3:]
	}
	if len(rest) > 0 && rest[0] == "invis" {
		e.Show = false
	}
	return e, nil
}

// splitPlain tokenizes one line of plain output. Tokens are separated by
// blanks; double-quoted tokens may contain blanks and backslash escapes, and
// HTML-like labels run from '<' to the matching '>'.
func splitPlain(s string) ([]string, error) {
	var out []string
	i := 0
	for i < len(s) {
		switch c := s[i]; {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '"':
			var b strings.Builder
			i++
			closed := false
			for i < len(s) {
				if s[i] == '\\' && i+1 < len(s) {
					if s[i+1] != '"' && s[i+1] != '\\' {
						b.WriteByte('\\')
					}
					b.WriteByte(s[i+1])
					i += 2
					continue
				}
				if s[i] == '"' {
					closed = true
					i++
					break
				}
				b.WriteByte(s[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated quoted string")
			}
			out = append(out, b.String())
		case c == '<':
			depth, start := 0, i
			for i < len(s) {
				if s[i] == '<' {
					depth++
				} else if s[i] == '>' {
					depth--
					if depth == 0 {
						i++
						break
					}
				}
				i++
			}
			if depth != 0 {
				return nil, fmt.Errorf("unterminated HTML label")
			}
			out = append(out, s[start:i])
		default:
			start := i
			for i < len(s) && s[i] != ' ' && s[i] != '\t' && s[i] != '\r' {
				i++
			}
			out = append(out, s[start:i])
		}
	}
	return out, nil
}

func floats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		out[i] = v
	}
	return out, nil
}

func plainErr(line int, err error) error {
	return errors.Wrap(errors.ErrCodeLayoutFailed, err, "plain output line %d", line)
}

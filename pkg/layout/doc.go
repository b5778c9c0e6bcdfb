// Package layout holds the laid-out event graph consumed by painters.
//
// # Overview
//
// A [Layout] is the output of an external layout stage: node centers and
// sizes, edge splines, label positions, and per-element style attributes.
// Painters read it; nothing in this module mutates it once built.
//
// # Sources
//
// Layouts come from two places:
//
//   - JSON documents, via [ReadJSON] and [ImportJSON]
//   - DOT text laid out in-process by Graphviz, via [Run], which renders the
//     "plain" output format and converts it with [ParsePlain]
//
// A JSON layout that carries its DOT source but no geometry can be completed
// with [Apply], which copies positions from a Graphviz run while keeping the
// labels, styles and line types of the original.
//
// Graphviz reports positions in inches; [ParsePlain] converts them to points
// (72 per inch) so label sizes are in the same unit as coordinates.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process layout.
package layout

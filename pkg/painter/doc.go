// Package painter renders laid-out event graphs.
//
// An [SVGPainter] walks the edges and then the nodes of a [layout.Layout] in
// their stored order. Each visible edge is drawn with the shape for its line
// type, each visible node as a vertex ellipse, and labels are placed as
// particle glyphs with text as the fallback. When the layout has no
// finalized canvas, [ResolveCanvas] derives one first.
//
// A [DOTPainter] instead returns the graph description the layout was
// computed from.
//
// Finished artifacts go to a [Sink] through [Deliver]: "-" selects standard
// output, any other name a file.
package painter

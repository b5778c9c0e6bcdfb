// Package shapes draws the particle lines and vertices of an event graph.
//
// Every function returns a single [svg.Element] in layout coordinates with no
// transform attribute; scaling is left to [svg.Document.AddObject]. Default
// presentation attributes are applied first and then overridden by the
// caller's style map, in sorted key order.
//
// Splines with 3n+1 control points are cubic Bézier chains, as produced by
// Graphviz. Any other count of at least two points is a polyline.
//
// Edges are dispatched through [Draw] by [LineType]:
//
//	identity      thin line
//	hadron        thick line (also the fallback)
//	boson         dashed line
//	fermion       line with a midpoint arrow
//	photon        sine wave
//	final_photon  sine wave, highlighted
//	gluon         curly line
//	multigluon    two parallel curly lines
package shapes

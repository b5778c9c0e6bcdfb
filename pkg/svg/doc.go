// Package svg builds the vector documents mcviz emits.
//
// The package has two layers. [Element], [Raw] and [Text] form a minimal XML
// tree with ordered attributes and deterministic serialization. [Document]
// sits on top and assembles a complete image: a background rectangle, a defs
// section holding each glyph definition once, and the drawn content in the
// order it was added.
//
// # Coordinates
//
// Callers pass positions and font sizes in layout units. The Document
// multiplies everything by the canvas scale exactly once: glyph and text
// placements are scaled directly, and drawables handed to [Document.AddObject]
// receive a scale transform. [Document.AddSubscripts] is the exception; it
// works in screen units because it is also used internally after scaling.
//
// # Output
//
//	<?xml version="1.0" encoding="UTF-8"?>
//	<svg version="1.1" viewBox="0 0 W H" xmlns=... xmlns:xlink=...>
//	  <rect id="background" .../>
//	  <defs>...</defs>
//	  ...drawn content...
//	</svg>
//
// Coordinates are written with three decimals, font sizes with two and the
// canvas size with one.
package svg

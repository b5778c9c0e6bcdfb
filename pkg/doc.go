// Package pkg holds the libraries behind mcviz, which paints laid-out
// particle-physics event graphs as SVG documents decorated with particle
// glyphs, or passes them through as DOT.
//
// # Overview
//
//  1. [layout] - the laid-out graph model, its JSON form, and Graphviz
//  2. [glyph] - the particle glyph catalog
//  3. [svg] - the XML builder and the document assembler
//  4. [shapes] - particle line and vertex drawing
//  5. [painter] - canvas resolution, painters and output sinks
//  6. [pipeline] - layout → paint orchestration with caching
//  7. [cache], [config], [server], [errors], [observability], [buildinfo]
//
// # Data flow
//
//	DOT graph ──[layout]──▶ Layout ◀── layout JSON
//	                          │
//	                    [painter] + [glyph]
//	                          │
//	                   [svg] Document
//	                          │
//	                 SVG or DOT bytes ──▶ sink
package pkg

// Package glyph resolves particle identifiers to pre-built vector glyphs.
//
// # Overview
//
// A [Glyph] carries raw SVG markup for one particle symbol together with its
// bounding box and default scale. Documents place glyphs by their bounding
// box and reference the markup through <use> elements.
//
// Lookups go through the [Catalog] interface. When no glyph exists for an
// identifier, callers render the identifier as a text label instead; a
// missing glyph is never an error.
//
// # Catalogs
//
//   - [Default]: the catalog embedded in the binary, parsed once per process
//   - [LoadFile] / [Parse]: user catalogs in the same TOML format
//   - [Layered]: several catalogs, first match wins
//   - [Resolver]: memoizing wrapper that reports lookups to observability hooks
//
// Catalogs are immutable after construction and safe to share across
// painting passes. Which glyphs were already emitted is tracked per document,
// not here.
package glyph

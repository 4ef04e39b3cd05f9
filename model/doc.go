// Package model provides the plain value types shared by every layer of
// pageview: geometry, page boxes, text layout and the error taxonomy.
//
// Nothing in this package talks to a document backend. Backends produce
// these values and the rendering, search and coordinate packages consume
// them, so the core never reaches into a backend's internals.
//
// # Geometry
//
// Document space has its origin at the top-left of the page and y grows
// downward. The primitives are:
//
//   - [Rect] - floating point rectangle with union, intersection and outward rounding
//   - [IRect] - integer pixel rectangle, used for tiles
//   - [Point] - 2D point
//   - [Matrix] - 2D affine transformation; [Rotate] is exact for quarter turns
//
// # Page boxes
//
// A page may define up to five named regions, selected with [Box]:
//
//	box, ok := model.ParseBox("trim")  // TrimBox, true
//	box = model.BoxFromIndex(42)       // out of range: CropBox
//
// # Text layout
//
// [TextPage] mirrors the block, line, span and character hierarchy that
// text extractors produce. Only [TextChar] carries a bounding box.
//
// # Errors
//
// Failures are reported with distinct types so callers can react to each
// with [errors.As]:
//
//   - [ParseError] - the document could not be parsed
//   - [PasswordError] - a credential is required or was rejected
//   - [LoadError] - one page failed to load
//   - [RenderError] - one tile failed to render
//   - [ExtractError] - text extraction failed for one page
package model

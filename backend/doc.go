// Package backend defines the boundary between pageview and the library
// that actually parses documents, rasterizes page content and extracts
// text layout.
//
// A backend supplies an [Opener]. Opening a [Source] yields a [Handle]
// that loads [Page] values on demand. Pages answer geometric questions
// (named boxes, rotation), paint themselves into a caller-allocated
// [Raster] and report their text layout as a [model.TextPage].
//
// Two backends ship with the module: memdoc, a pure-Go in-memory
// implementation used by tests and examples, and mupdf, a cgo binding
// built with the "mupdf" tag.
package backend

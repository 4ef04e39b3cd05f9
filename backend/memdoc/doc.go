// Package memdoc is a pure-Go document backend that keeps pages in
// memory.
//
// Documents are built programmatically or parsed from a small YAML
// description. Text is laid out as fixed-pitch characters and painted as
// solid ink boxes with anti-aliased edges; image regions are painted as
// gray rectangles. This is enough to exercise tiling, rotation, color
// conversion and search without a native rasterizer.
//
//	doc := memdoc.New().
//		AddPage(memdoc.NewPage(612, 792).AddBlock(72, 72, 12, "Hello, world"))
//	h, err := doc.Open(backend.Source{}, "")
//
// Every page and the document itself support fault injection (load,
// render and text failures, a password) and keep counters of loads and
// closes, which makes memdoc the backend of choice for tests.
package memdoc

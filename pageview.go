// Package pageview renders tiles of paginated documents into pixel
// buffers and searches their text, on top of a document backend that
// does the parsing and glyph rasterization.
//
// Basic usage:
//
//	doc, err := pageview.Open(mupdf.Opener{}, backend.FromFile("report.pdf"))
//	if err != nil {
//	    // handle error
//	}
//	defer doc.Close()
//
//	tile, err := doc.Render(0, pageview.RenderRequest{
//	    ZoomPermille: 1500,
//	    Width:        512,
//	    Height:       512,
//	})
//
// With the fluent page API:
//
//	img, err := doc.Page(2).Zoom(2000).Gray().SkipImages().Render()
//	hits, err := doc.Page(2).Find("quarterly results")
//
// A Document is not safe for concurrent use unless opened WithLocking.
// Independent documents share no state.
package pageview

import (
	"github.com/tsawler/pageview/backend"
	"github.com/tsawler/pageview/render"
)

// RenderRequest describes one tile: zoom in parts per thousand, tile
// offset and size in device pixels, extra quarter turns, color mode and
// whether to skip embedded images.
type RenderRequest = render.Request

// OpenFile opens the document at path with opener.
//
// Example:
//
//	doc, err := pageview.OpenFile(mupdf.Opener{}, "document.pdf")
func OpenFile(opener backend.Opener, path string, opts ...Option) (*Document, error) {
	return Open(opener, backend.FromFile(path), opts...)
}

// OpenBytes opens an in-memory document with opener.
func OpenBytes(opener backend.Opener, data []byte, opts ...Option) (*Document, error) {
	return Open(opener, backend.FromBytes(data), opts...)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	doc := pageview.Must(pageview.OpenFile(mupdf.Opener{}, "document.pdf"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// Package mupdf is a document backend built on the MuPDF library.
//
// The native binding is compiled only with the mupdf build tag and cgo
// enabled:
//
//	go build -tags mupdf
//
// It requires the MuPDF development libraries. Without the tag, Opener
// returns ErrNotEnabled.
//
// # Coordinates
//
// PDF user space has its y axis pointing up. Boxes, text and rendering
// are converted into document space by flipping about the top of the
// page's MediaBox, so that y grows downward from the top edge of the
// page. The page's /Rotate entry is reported separately and is not
// applied to boxes or text.
package mupdf

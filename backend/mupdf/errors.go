package mupdf

import "errors"

var (
	// ErrNotEnabled is returned when the package was built without the
	// mupdf tag or without cgo.
	ErrNotEnabled = errors.New("mupdf: not available (build with -tags mupdf)")

	// ErrContextCreate is returned when MuPDF cannot allocate a context.
	ErrContextCreate = errors.New("mupdf: failed to create context")
)

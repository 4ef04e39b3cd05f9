//go:build !mupdf || !cgo

package mupdf

import (
	"github.com/tsawler/pageview/backend"
	"github.com/tsawler/pageview/model"
)

// Opener opens documents with MuPDF (stub).
type Opener struct{}

var _ backend.Opener = Opener{}

// Open returns a *model.ParseError wrapping ErrNotEnabled.
func (Opener) Open(src backend.Source, password string) (backend.Handle, error) {
	return nil, &model.ParseError{Source: src.Name(), Err: ErrNotEnabled}
}

// IsAvailable returns whether MuPDF is available
func IsAvailable() bool {
	return false
}

package model

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by the typed errors below.
var (
	// ErrPageRange is returned for page indices outside [0, PageCount).
	ErrPageRange = errors.New("page index out of range")

	// ErrClosed is returned by operations on a closed document.
	ErrClosed = errors.New("document is closed")

	// ErrInvalidRequest is returned for render requests with a
	// non-positive zoom or tile size.
	ErrInvalidRequest = errors.New("invalid render request")

	// ErrNeedsPassword is wrapped by PasswordError when no credential was
	// supplied for an encrypted document.
	ErrNeedsPassword = errors.New("password required")

	// ErrBadPassword is wrapped by PasswordError when the credential was
	// rejected.
	ErrBadPassword = errors.New("password rejected")
)

// ParseError reports a malformed or unreadable document.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parse document: %v", e.Err)
	}
	return fmt.Sprintf("parse document %q: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PasswordError reports that a credential is required or was rejected.
// It is kept distinct from ParseError so a host can prompt again.
type PasswordError struct {
	Source string
	Err    error
}

func (e *PasswordError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("open document: %v", e.Err)
	}
	return fmt.Sprintf("open document %q: %v", e.Source, e.Err)
}

func (e *PasswordError) Unwrap() error { return e.Err }

// LoadError reports that a specific page could not be loaded.
type LoadError struct {
	Page int
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load page %d: %v", e.Page, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RenderError reports a failed rasterization of one tile. Render
// failures are never cached and the call may be retried.
type RenderError struct {
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render page %d: %v", e.Page, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ExtractError reports a failed text-layout extraction.
type ExtractError struct {
	Page int
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract text from page %d: %v", e.Page, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

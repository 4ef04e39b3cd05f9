package backend

import (
	"fmt"
	"os"

	"github.com/tsawler/pageview/model"
)

// Source identifies the document bytes handed to a backend. Exactly one
// of Path or Data is normally set; backends prefer Data when both are.
type Source struct {
	Path string
	Data []byte
}

// FromFile returns a Source that reads from a file path.
func FromFile(path string) Source {
	return Source{Path: path}
}

// FromBytes returns a Source over an in-memory document.
func FromBytes(data []byte) Source {
	return Source{Data: data}
}

// Name returns a short label for log messages and errors.
func (s Source) Name() string {
	if s.Path != "" {
		return s.Path
	}
	if s.Data != nil {
		return fmt.Sprintf("<%d bytes>", len(s.Data))
	}
	return "<empty>"
}

// ReadAll returns the document bytes, reading Path if Data is unset.
func (s Source) ReadAll() ([]byte, error) {
	if s.Data != nil {
		return s.Data, nil
	}
	if s.Path == "" {
		return nil, fmt.Errorf("empty source")
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	return data, nil
}

// Opener parses documents.
type Opener interface {
	// Open parses src. An empty password means no credential. Failures
	// are reported as *model.ParseError or *model.PasswordError.
	Open(src Source, password string) (Handle, error)
}

// Handle is an open document.
type Handle interface {
	// PageCount returns the number of pages.
	PageCount() int

	// LoadPage loads the page at a zero-based index. The caller owns the
	// returned page and must Close it.
	LoadPage(index int) (Page, error)

	// Close releases the document and any rasterizer-side caches.
	Close() error
}

// OutlineReader is implemented by handles that expose a table of
// contents.
type OutlineReader interface {
	Outline() ([]model.OutlineItem, error)
}

// Page is a loaded page.
type Page interface {
	// Box returns the named page box. The second result is false if the
	// page does not define that box.
	Box(name model.Box) (model.Rect, bool)

	// Bounds returns the intrinsic full-page box, used whenever the
	// selected box is absent.
	Bounds() model.Rect

	// Rotation returns the intrinsic page rotation in degrees.
	Rotation() int

	// Rasterize paints the page content, mapped through req.Transform,
	// into dst. dst arrives with its background already filled.
	Rasterize(req RasterRequest, dst *Raster) error

	// TextLayout extracts the hierarchical text layout in document space.
	TextLayout() (*model.TextPage, error)

	// Close releases the page.
	Close() error
}

// RasterRequest describes one rasterization.
type RasterRequest struct {
	// Transform maps document space to device space.
	Transform model.Matrix

	// Mode selects the sample layout of the destination raster.
	Mode model.ColorMode

	// SkipImages disables painting of embedded raster images.
	SkipImages bool
}

// Raster is a block of samples covering the device rectangle starting
// at (X, Y). Gray rasters carry two samples per pixel (luminance, alpha);
// color rasters carry four (B, G, R, A).
type Raster struct {
	X, Y          int
	Width, Height int
	N             int
	Stride        int
	Samples       []byte
}

// Channels returns the number of samples per pixel for a color mode.
func Channels(mode model.ColorMode) int {
	if mode == model.Gray {
		return 2
	}
	return 4
}

// NewRaster allocates a raster for the device rectangle r.
func NewRaster(r model.IRect, mode model.ColorMode) *Raster {
	n := Channels(mode)
	w, h := r.Width(), r.Height()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Raster{
		X:       r.X0,
		Y:       r.Y0,
		Width:   w,
		Height:  h,
		N:       n,
		Stride:  w * n,
		Samples: make([]byte, w*h*n),
	}
}

// Bounds returns the device rectangle covered by the raster.
func (r *Raster) Bounds() model.IRect {
	return model.IRect{X0: r.X, Y0: r.Y, X1: r.X + r.Width, Y1: r.Y + r.Height}
}

// Fill sets every sample to v.
func (r *Raster) Fill(v byte) {
	for i := range r.Samples {
		r.Samples[i] = v
	}
}

// Clip shrinks the raster to at most w by h pixels, keeping its origin.
// Backends call it when the content they can produce is smaller than
// the requested rectangle.
func (r *Raster) Clip(w, h int) {
	if w >= r.Width && h >= r.Height {
		return
	}
	if w > r.Width {
		w = r.Width
	}
	if h > r.Height {
		h = r.Height
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	stride := w * r.N
	out := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		copy(out[y*stride:(y+1)*stride], r.Samples[y*r.Stride:y*r.Stride+stride])
	}
	r.Width, r.Height, r.Stride, r.Samples = w, h, stride, out
}

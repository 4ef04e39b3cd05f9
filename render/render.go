package render

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/tsawler/pageview/backend"
	"github.com/tsawler/pageview/model"
)

// Request describes one tile.
type Request struct {
	ZoomPermille int // zoom in parts per thousand, 1000 is 100%
	Left, Top    int // tile offset from the scaled page's top-left corner
	Width        int // tile width in device pixels
	Height       int // tile height in device pixels
	Rotation     int // extra quarter turns requested by the caller
	Mode         model.ColorMode
	SkipImages   bool
}

// Validate checks the request for values that can never render.
func (r Request) Validate() error {
	if r.ZoomPermille <= 0 {
		return fmt.Errorf("%w: zoom %d", model.ErrInvalidRequest, r.ZoomPermille)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: tile size %dx%d", model.ErrInvalidRequest, r.Width, r.Height)
	}
	return nil
}

// Pipeline renders tiles of pages using a fixed box preference.
type Pipeline struct {
	Box model.Box
	Log logrus.FieldLogger
}

// NewPipeline creates a pipeline for the given box. A nil logger
// discards output.
func NewPipeline(box model.Box, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Pipeline{Box: box, Log: log}
}

// Transform computes the page-to-device mapping of page for req.
func (p *Pipeline) Transform(page backend.Page, req Request) Transform {
	return ComputeTransform(SelectBox(page, p.Box), page.Rotation(), req.ZoomPermille, req.Rotation)
}

// Render rasterizes one tile of page. index is used for errors and log
// fields only. Any failure is returned as *model.RenderError and no
// buffer is produced.
func (p *Pipeline) Render(index int, page backend.Page, req Request) (*PixelBuffer, error) {
	if err := req.Validate(); err != nil {
		return nil, &model.RenderError{Page: index, Err: err}
	}

	t := p.Transform(page, req)
	tile := t.TileRect(req.Left, req.Top, req.Width, req.Height)

	raster := backend.NewRaster(tile, req.Mode)
	raster.Fill(Background(req.Mode))

	rr := backend.RasterRequest{
		Transform:  t.Matrix,
		Mode:       req.Mode,
		SkipImages: req.SkipImages,
	}
	if err := page.Rasterize(rr, raster); err != nil {
		return nil, &model.RenderError{Page: index, Err: err}
	}

	buf, err := convertRaster(raster, req.Mode)
	if err != nil {
		return nil, &model.RenderError{Page: index, Err: err}
	}

	p.Log.WithFields(logrus.Fields{
		"page":     index,
		"zoom":     req.ZoomPermille,
		"rotation": t.Rotation,
		"mode":     req.Mode.String(),
	}).Debugf("got image %dx%d, asked for %dx%d", buf.Width, buf.Height, req.Width, req.Height)

	return buf, nil
}

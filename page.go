package pageview

import (
	"github.com/tsawler/pageview/model"
	"github.com/tsawler/pageview/render"
	"github.com/tsawler/pageview/text"
)

// PageRenderer provides a fluent interface for rendering and searching
// one page. Each configuration method returns a new PageRenderer, so a
// partially configured value can be reused as a template.
type PageRenderer struct {
	doc   *Document
	index int
	req   render.Request

	// tile grid, from the document options
	tileWidth, tileHeight int
}

// Page returns a PageRenderer for the page at index, starting from the
// document's default zoom, color mode and image setting. Without Tile
// the whole page is rendered.
//
// Example:
//
//	img, err := doc.Page(0).Zoom(2000).Gray().Render()
func (d *Document) Page(index int) *PageRenderer {
	return &PageRenderer{
		doc:   d,
		index: index,
		req: render.Request{
			ZoomPermille: d.options.zoomPermille,
			Mode:         d.options.mode,
			SkipImages:   d.options.skipImages,
		},
		tileWidth:  d.options.tileWidth,
		tileHeight: d.options.tileHeight,
	}
}

// clone creates a copy of the PageRenderer.
func (p *PageRenderer) clone() *PageRenderer {
	c := *p
	return &c
}

// ============================================================================
// Configuration Methods (return new PageRenderer instance)
// ============================================================================

// Zoom sets the zoom in parts per thousand; 1000 renders one device
// pixel per document unit.
func (p *PageRenderer) Zoom(permille int) *PageRenderer {
	c := p.clone()
	c.req.ZoomPermille = permille
	return c
}

// DPI sets the zoom so that one inch of 72 document units covers dpi
// pixels.
func (p *PageRenderer) DPI(dpi int) *PageRenderer {
	return p.Zoom(dpi * 1000 / 72)
}

// Tile restricts rendering to a width by height tile offset by (left,
// top) from the scaled page's top-left corner.
func (p *PageRenderer) Tile(left, top, width, height int) *PageRenderer {
	c := p.clone()
	c.req.Left, c.req.Top = left, top
	c.req.Width, c.req.Height = width, height
	return c
}

// TileAt selects the tile at column col and row row of the configured
// tile grid. Without a configured grid it selects the whole page.
func (p *PageRenderer) TileAt(col, row int) *PageRenderer {
	if p.tileWidth <= 0 || p.tileHeight <= 0 {
		return p.Tile(0, 0, 0, 0)
	}
	return p.Tile(col*p.tileWidth, row*p.tileHeight, p.tileWidth, p.tileHeight)
}

// Rotate adds quarter turns on top of the page's own rotation. Each
// quarter turn rotates counter-clockwise.
func (p *PageRenderer) Rotate(quarters int) *PageRenderer {
	c := p.clone()
	c.req.Rotation = quarters
	return c
}

// Gray renders one intensity byte per pixel.
func (p *PageRenderer) Gray() *PageRenderer {
	c := p.clone()
	c.req.Mode = model.Gray
	return c
}

// Color renders four bytes per pixel in BGRA order.
func (p *PageRenderer) Color() *PageRenderer {
	c := p.clone()
	c.req.Mode = model.Color
	return c
}

// SkipImages leaves embedded images out of the rendering.
func (p *PageRenderer) SkipImages() *PageRenderer {
	c := p.clone()
	c.req.SkipImages = true
	return c
}

// Request returns the render request the PageRenderer would issue for
// an explicit tile. A zero tile size stands for the whole page.
func (p *PageRenderer) Request() RenderRequest {
	return p.req
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Size returns the size in device pixels of the whole page at the
// current zoom and rotation.
func (p *PageRenderer) Size() (width, height int, err error) {
	t, err := p.doc.transform(p.index, p.req)
	if err != nil {
		return 0, 0, err
	}
	width, height = t.Size()
	return width, height, nil
}

// TileGrid returns the number of columns and rows of the configured tile
// grid needed to cover the page. Without a configured grid the page is
// one tile.
func (p *PageRenderer) TileGrid() (cols, rows int, err error) {
	w, h, err := p.Size()
	if err != nil {
		return 0, 0, err
	}
	if p.tileWidth <= 0 || p.tileHeight <= 0 {
		return 1, 1, nil
	}
	cols = (w + p.tileWidth - 1) / p.tileWidth
	rows = (h + p.tileHeight - 1) / p.tileHeight
	return cols, rows, nil
}

// Render rasterizes the configured tile, or the whole page when no tile
// size was set.
func (p *PageRenderer) Render() (*render.PixelBuffer, error) {
	req := p.req
	if req.Width == 0 && req.Height == 0 {
		w, h, err := p.Size()
		if err != nil {
			return nil, err
		}
		req.Left, req.Top, req.Width, req.Height = 0, 0, w, h
	}
	return p.doc.Render(p.index, req)
}

// Thumbnail renders the page and scales it down to fit within maxWidth
// by maxHeight.
func (p *PageRenderer) Thumbnail(maxWidth, maxHeight int) (*render.PixelBuffer, error) {
	buf, err := p.Render()
	if err != nil {
		return nil, err
	}
	return render.Thumbnail(buf, maxWidth, maxHeight), nil
}

// Find searches the page for query.
func (p *PageRenderer) Find(query string) ([]text.Hit, error) {
	return p.doc.Find(query, p.index)
}

// Text returns the plain text of the page.
func (p *PageRenderer) Text() (string, error) {
	return p.doc.Text(p.index)
}

// PageSize returns the size of the page's active box in document units.
func (p *PageRenderer) PageSize() (width, height float64, err error) {
	return p.doc.PageSize(p.index)
}

package memdoc

import (
	"image"
	"image/draw"
	"math"

	"github.com/tsawler/pageview/backend"
	"github.com/tsawler/pageview/model"
	"golang.org/x/image/vector"
)

// Ink shades painted by the rasterizer, as 8-bit luminance.
const (
	TextInk  = 0
	ImageInk = 160
)

// paint draws the page's images and text into dst.
func paint(p *Page, req backend.RasterRequest, dst *backend.Raster) error {
	if dst.Width == 0 || dst.Height == 0 {
		return nil
	}

	if !req.SkipImages && len(p.Images) > 0 {
		mask := coverage(dst, req.Transform, p.Images)
		composite(dst, mask, ImageInk)
	}

	var boxes []model.Rect
	for _, b := range p.Text.Blocks {
		for _, l := range b.Lines {
			for _, s := range l.Spans {
				for _, c := range s.Chars {
					if c.Rune == ' ' || c.BBox.IsEmpty() {
						continue
					}
					boxes = append(boxes, c.BBox)
				}
			}
		}
	}
	if len(boxes) > 0 {
		mask := coverage(dst, req.Transform, boxes)
		composite(dst, mask, TextInk)
	}

	clipToPage(p, req.Transform, dst)
	return nil
}

// coverage rasterizes the union of rects, mapped by m, into an alpha
// mask aligned with dst.
func coverage(dst *backend.Raster, m model.Matrix, rects []model.Rect) *image.Alpha {
	z := vector.NewRasterizer(dst.Width, dst.Height)
	z.DrawOp = draw.Src
	ox, oy := float64(dst.X), float64(dst.Y)

	for _, r := range rects {
		d := m.TransformRect(r)
		x0, y0 := float32(d.X0-ox), float32(d.Y0-oy)
		x1, y1 := float32(d.X1-ox), float32(d.Y1-oy)
		z.MoveTo(x0, y0)
		z.LineTo(x1, y0)
		z.LineTo(x1, y1)
		z.LineTo(x0, y1)
		z.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, dst.Width, dst.Height))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// composite blends an opaque ink of the given luminance through mask
// onto dst.
func composite(dst *backend.Raster, mask *image.Alpha, ink byte) {
	for y := 0; y < dst.Height; y++ {
		row := dst.Samples[y*dst.Stride:]
		cov := mask.Pix[y*mask.Stride:]
		for x := 0; x < dst.Width; x++ {
			a := int(cov[x])
			if a == 0 {
				continue
			}
			if dst.N == 2 {
				blendGray(row[2*x:2*x+2], ink, a)
				continue
			}
			px := row[4*x : 4*x+4]
			for i := 0; i < 3; i++ {
				px[i] = byte((int(ink)*a + int(px[i])*(255-a)) / 255)
			}
			px[3] = byte(a + int(px[3])*(255-a)/255)
		}
	}
}

// blendGray composites ink with coverage a over a (luminance, alpha)
// pair. Luminance is kept unpremultiplied.
func blendGray(px []byte, ink byte, a int) {
	da := int(px[1])
	outA := a + da*(255-a)/255
	if outA == 0 {
		return
	}
	lum := (int(ink)*a + int(px[0])*da*(255-a)/255) / outA
	px[0] = byte(lum)
	px[1] = byte(outA)
}

// clipToPage trims the raster's right and bottom edges to the page's
// MediaBox in device space, the way a rasterizer clamps tiles that hang
// off the page.
func clipToPage(p *Page, m model.Matrix, dst *backend.Raster) {
	page := m.TransformRect(p.MediaBox)
	w := int(math.Ceil(page.X1)) - dst.X
	h := int(math.Ceil(page.Y1)) - dst.Y
	dst.Clip(w, h)
}

package render

import (
	"image"

	"golang.org/x/image/draw"
)

// Scale resamples the buffer to exactly width by height pixels.
func Scale(b *PixelBuffer, width, height int) *PixelBuffer {
	if width <= 0 || height <= 0 {
		return NewPixelBuffer(0, 0, b.Format)
	}
	if width == b.Width && height == b.Height {
		out := NewPixelBuffer(width, height, b.Format)
		copy(out.Pix, b.Pix)
		return out
	}

	src := b.Image()
	rect := image.Rect(0, 0, width, height)
	if b.Format == FormatGray {
		dst := image.NewGray(rect)
		draw.CatmullRom.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)
		return &PixelBuffer{Width: width, Height: height, Stride: dst.Stride, Format: FormatGray, Pix: dst.Pix}
	}
	dst := image.NewNRGBA(rect)
	draw.CatmullRom.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)
	return FromImage(dst, FormatBGRA)
}

// Thumbnail scales the buffer down to fit within maxWidth by maxHeight
// while keeping its aspect ratio. Buffers that already fit are copied.
func Thumbnail(b *PixelBuffer, maxWidth, maxHeight int) *PixelBuffer {
	w, h := FitWithin(b.Width, b.Height, maxWidth, maxHeight)
	return Scale(b, w, h)
}

// FitWithin returns the largest size with the aspect ratio of w by h
// that fits within maxW by maxH, never enlarging.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if w <= maxW && h <= maxH {
		return w, h
	}
	// Compare w/maxW with h/maxH without floating point.
	if w*maxH >= h*maxW {
		nh := h * maxW / w
		if nh < 1 {
			nh = 1
		}
		return maxW, nh
	}
	nw := w * maxH / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxH
}

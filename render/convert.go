package render

import (
	"fmt"

	"github.com/tsawler/pageview/backend"
	"github.com/tsawler/pageview/model"
)

// Background returns the sample value a raster is cleared to before
// painting: 0 for gray rasters (no ink, no coverage) and 0xff for color
// rasters (opaque white).
func Background(mode model.ColorMode) byte {
	if mode == model.Gray {
		return 0
	}
	return 0xff
}

// CompositeGray blends one gray sample with the given coverage onto a
// white background.
func CompositeGray(luminance, alpha byte) byte {
	return byte(255 - ((255-int(luminance))*int(alpha))/255)
}

// convertRaster produces the output buffer for a painted raster.
func convertRaster(r *backend.Raster, mode model.ColorMode) (*PixelBuffer, error) {
	want := backend.Channels(mode)
	if r.N != want {
		return nil, fmt.Errorf("raster has %d channels, expected %d", r.N, want)
	}
	if r.Height > 0 && (r.Stride < r.Width*r.N || len(r.Samples) < r.Stride*(r.Height-1)+r.Width*r.N) {
		return nil, fmt.Errorf("raster samples too short for %dx%d", r.Width, r.Height)
	}

	if mode == model.Gray {
		return grayFromRaster(r), nil
	}
	return colorFromRaster(r), nil
}

// grayFromRaster composites luminance+alpha pairs into one intensity
// byte per pixel.
func grayFromRaster(r *backend.Raster) *PixelBuffer {
	buf := NewPixelBuffer(r.Width, r.Height, FormatGray)
	for y := 0; y < r.Height; y++ {
		src := r.Samples[y*r.Stride:]
		dst := buf.Pix[y*buf.Stride:]
		for x := 0; x < r.Width; x++ {
			dst[x] = CompositeGray(src[2*x], src[2*x+1])
		}
	}
	return buf
}

// colorFromRaster copies BGRA samples unchanged.
func colorFromRaster(r *backend.Raster) *PixelBuffer {
	buf := NewPixelBuffer(r.Width, r.Height, FormatBGRA)
	row := r.Width * 4
	for y := 0; y < r.Height; y++ {
		copy(buf.Pix[y*buf.Stride:y*buf.Stride+row], r.Samples[y*r.Stride:y*r.Stride+row])
	}
	return buf
}

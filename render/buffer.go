package render

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format describes the sample layout of a PixelBuffer.
type Format int

const (
	// FormatBGRA stores 4 bytes per pixel: blue, green, red, alpha.
	FormatBGRA Format = iota
	// FormatGray stores 1 intensity byte per pixel, 0 black, 255 white.
	FormatGray
)

// BytesPerPixel returns the number of bytes one pixel occupies.
func (f Format) BytesPerPixel() int {
	if f == FormatGray {
		return 1
	}
	return 4
}

func (f Format) String() string {
	if f == FormatGray {
		return "gray"
	}
	return "bgra"
}

// PixelBuffer is a rendered tile. Width and Height are the dimensions
// actually produced, which may be smaller than requested near page
// edges.
type PixelBuffer struct {
	Width  int
	Height int
	Stride int
	Format Format
	Pix    []byte
}

// NewPixelBuffer allocates a zeroed buffer.
func NewPixelBuffer(width, height int, format Format) *PixelBuffer {
	stride := width * format.BytesPerPixel()
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Stride: stride,
		Format: format,
		Pix:    make([]byte, stride*height),
	}
}

// Image returns the buffer as an image.Image. Gray buffers share their
// pixels with the returned *image.Gray; color buffers are converted to
// a new *image.NRGBA.
func (b *PixelBuffer) Image() image.Image {
	rect := image.Rect(0, 0, b.Width, b.Height)
	if b.Format == FormatGray {
		return &image.Gray{Pix: b.Pix, Stride: b.Stride, Rect: rect}
	}

	img := image.NewNRGBA(rect)
	for y := 0; y < b.Height; y++ {
		src := b.Pix[y*b.Stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < b.Width; x++ {
			i := 4 * x
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
	return img
}

// FromImage converts an image into a buffer of the given format.
func FromImage(img image.Image, format Format) *PixelBuffer {
	bounds := img.Bounds()
	buf := NewPixelBuffer(bounds.Dx(), bounds.Dy(), format)
	for y := 0; y < buf.Height; y++ {
		row := buf.Pix[y*buf.Stride:]
		for x := 0; x < buf.Width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if format == FormatGray {
				// Rec. 601 luma, matching color.GrayModel.
				row[x] = byte((19595*r + 38470*g + 7471*b + 1<<15) >> 24)
				continue
			}
			i := 4 * x
			if a != 0 && a != 0xffff {
				r, g, b = r*0xffff/a, g*0xffff/a, b*0xffff/a
			}
			row[i+0] = byte(b >> 8)
			row[i+1] = byte(g >> 8)
			row[i+2] = byte(r >> 8)
			row[i+3] = byte(a >> 8)
		}
	}
	return buf
}

// Encoding names an image file format.
type Encoding int

const (
	PNG Encoding = iota
	JPEG
	TIFF
	BMP
)

func (e Encoding) String() string {
	switch e {
	case JPEG:
		return "jpeg"
	case TIFF:
		return "tiff"
	case BMP:
		return "bmp"
	default:
		return "png"
	}
}

// ParseEncoding converts a format name or file extension ("png",
// ".tif", "JPG") to an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.TrimPrefix(strings.ToLower(name), ".") {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	}
	return PNG, fmt.Errorf("unsupported image encoding %q", name)
}

// Encode writes the buffer to w in the given encoding.
func (b *PixelBuffer) Encode(w io.Writer, enc Encoding) error {
	img := b.Image()
	var err error
	switch enc {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image encoding %d", enc)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", enc, err)
	}
	return nil
}

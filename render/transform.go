package render

import (
	"math"

	"github.com/tsawler/pageview/backend"
	"github.com/tsawler/pageview/model"
)

// Transform is the page-to-device mapping for one render call.
type Transform struct {
	Box      model.Rect   // selected page box in document space
	Zoom     float64      // device pixels per document unit
	Rotation int          // combined rotation, one of 0, 90, 180, 270
	Matrix   model.Matrix // document space to device space
	PageRect model.Rect   // Box mapped into device space
}

// SelectBox returns the named box of page, falling back to the page's
// full-page bounds when the box is absent or empty.
func SelectBox(page backend.Page, name model.Box) model.Rect {
	if r, ok := page.Box(name); ok && !r.IsEmpty() {
		return r.Normalize()
	}
	return page.Bounds().Normalize()
}

// CombineRotation adds a caller's quarter turns to a page's intrinsic
// rotation. Each requested quarter turn rotates by -90 degrees.
func CombineRotation(pageRotation, quarters int) int {
	return model.NormalizeRotation(pageRotation + quarters*-90)
}

// ComputeTransform builds the page-to-device matrix for box at the
// given zoom (in parts per thousand) and rotation.
func ComputeTransform(box model.Rect, pageRotation, zoomPermille, quarters int) Transform {
	zoom := float64(zoomPermille) / 1000
	rot := CombineRotation(pageRotation, quarters)

	ctm := model.Translate(-box.X0, -box.Y0).
		Multiply(model.Scale(zoom, zoom))
	if rot != 0 {
		ctm = ctm.Multiply(model.Rotate(float64(rot)))
	}

	return Transform{
		Box:      box,
		Zoom:     zoom,
		Rotation: rot,
		Matrix:   ctm,
		PageRect: ctm.TransformRect(box),
	}
}

// Size returns the dimensions of the whole scaled page in device pixels.
func (t Transform) Size() (width, height int) {
	return int(math.Ceil(t.PageRect.Width())), int(math.Ceil(t.PageRect.Height()))
}

// TileRect returns the device rectangle of a width by height tile whose
// top-left corner is offset by (left, top) from the scaled page's own
// top-left corner.
func (t Transform) TileRect(left, top, width, height int) model.IRect {
	x0 := int(math.Floor(t.PageRect.X0)) + left
	y0 := int(math.Floor(t.PageRect.Y0)) + top
	return model.IRect{X0: x0, Y0: y0, X1: x0 + width, Y1: y0 + height}
}

package coords

import (
	"math"

	"github.com/tsawler/pageview/model"
)

// Geometry describes the page a rectangle belongs to.
type Geometry struct {
	Box      model.Rect // selected page box
	Rotation int        // intrinsic page rotation in degrees
}

// rotate returns the pure rotation by the page rotation, the same
// rotation the renderer applies in y-down document space.
func (g Geometry) rotate() model.Matrix {
	return model.Rotate(float64(model.NormalizeRotation(g.Rotation)))
}

// PageSize returns the width and height of the box as displayed: the
// dimensions swap for pages rotated by 90 or 270 degrees.
func PageSize(g Geometry) (width, height float64) {
	width = math.Abs(g.Box.X1 - g.Box.X0)
	height = math.Abs(g.Box.Y1 - g.Box.Y0)
	if model.NormalizeRotation(g.Rotation)%180 == 90 {
		return height, width
	}
	return width, height
}

// PageToView re-expresses r relative to the top-left corner of the
// rotated box. Both r and the box are rotated by the page rotation
// first, so the result lands where the renderer draws r on an unzoomed
// page.
func PageToView(g Geometry, r model.Rect) model.Rect {
	m := g.rotate()
	rr := m.TransformRect(r.Normalize())
	box := m.TransformRect(g.Box.Normalize())

	return model.Rect{
		X0: rr.X0 - box.X0,
		Y0: rr.Y0 - box.Y0,
		X1: rr.X1 - box.X0,
		Y1: rr.Y1 - box.Y0,
	}
}

// ViewToPage is the inverse of PageToView for quarter-turn rotations.
func ViewToPage(g Geometry, v model.Rect) model.Rect {
	m := g.rotate()
	box := m.TransformRect(g.Box.Normalize())
	v = v.Normalize()

	rotated := model.Rect{
		X0: v.X0 + box.X0,
		Y0: v.Y0 + box.Y0,
		X1: v.X1 + box.X0,
		Y1: v.Y1 + box.Y0,
	}
	back := model.Rotate(float64(-model.NormalizeRotation(g.Rotation)))
	return back.TransformRect(rotated)
}

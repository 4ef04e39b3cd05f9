package model

import "math"

// Point represents a 2D point in document or device space.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle given by two corners. In document
// space y grows downward, so (X0, Y0) is the top-left corner.
//
// A rectangle with X1 <= X0 or Y1 <= Y0 is empty. Empty rectangles are
// the identity element for Union.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// EmptyRect is the canonical empty rectangle.
var EmptyRect = Rect{}

// NewRect creates a rectangle from its origin and size.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X0: x, Y0: y, X1: x + width, Y1: y + height}
}

// RectFromPoints returns the smallest rectangle containing both points.
func RectFromPoints(p1, p2 Point) Rect {
	return Rect{
		X0: math.Min(p1.X, p2.X),
		Y0: math.Min(p1.Y, p2.Y),
		X1: math.Max(p1.X, p2.X),
		Y1: math.Max(p1.Y, p2.Y),
	}
}

// Width returns the horizontal extent of the rectangle
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the rectangle
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// IsEmpty returns true if the rectangle encloses no area
func (r Rect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Normalize returns the rectangle with its corners ordered so that
// X0 <= X1 and Y0 <= Y1.
func (r Rect) Normalize() Rect {
	return RectFromPoints(Point{r.X0, r.Y0}, Point{r.X1, r.Y1})
}

// Union returns the smallest rectangle containing both rectangles.
// Empty operands are ignored.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rect{
		X0: math.Min(r.X0, other.X0),
		Y0: math.Min(r.Y0, other.Y0),
		X1: math.Max(r.X1, other.X1),
		Y1: math.Max(r.Y1, other.Y1),
	}
}

// Intersect returns the overlapping area of two rectangles, or
// EmptyRect when they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	out := Rect{
		X0: math.Max(r.X0, other.X0),
		Y0: math.Max(r.Y0, other.Y0),
		X1: math.Min(r.X1, other.X1),
		Y1: math.Min(r.Y1, other.Y1),
	}
	if out.IsEmpty() {
		return EmptyRect
	}
	return out
}

// Contains checks if a point is inside the rectangle
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X0 && p.X <= r.X1 && p.Y >= r.Y0 && p.Y <= r.Y1
}

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X0: r.X0 + dx, Y0: r.Y0 + dy, X1: r.X1 + dx, Y1: r.Y1 + dy}
}

// RoundOut returns the smallest integer rectangle covering r. The
// top-left corner is floored and the bottom-right corner is ceiled.
func (r Rect) RoundOut() IRect {
	if r.IsEmpty() {
		return IRect{}
	}
	return IRect{
		X0: int(math.Floor(r.X0)),
		Y0: int(math.Floor(r.Y0)),
		X1: int(math.Ceil(r.X1)),
		Y1: int(math.Ceil(r.Y1)),
	}
}

// IRect is a rectangle on the integer pixel grid.
type IRect struct {
	X0, Y0, X1, Y1 int
}

// Width returns the number of pixel columns
func (r IRect) Width() int {
	return r.X1 - r.X0
}

// Height returns the number of pixel rows
func (r IRect) Height() int {
	return r.Y1 - r.Y0
}

// IsEmpty returns true if the rectangle covers no pixels
func (r IRect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Rect converts the integer rectangle to floating point.
func (r IRect) Rect() Rect {
	return Rect{X0: float64(r.X0), Y0: float64(r.Y0), X1: float64(r.X1), Y1: float64(r.Y1)}
}

// Matrix represents a 2D affine transformation [a b c d e f], mapping
// (x, y) to (a*x + c*y + e, b*x + d*y + f).
type Matrix [6]float64

// Identity returns an identity matrix
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Transform applies the matrix transformation to a point
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// TransformRect transforms the four corners of r and returns their
// bounding rectangle. Empty rectangles stay empty.
func (m Matrix) TransformRect(r Rect) Rect {
	if r.IsEmpty() {
		return r
	}
	p1 := m.Transform(Point{r.X0, r.Y0})
	p2 := m.Transform(Point{r.X1, r.Y0})
	p3 := m.Transform(Point{r.X0, r.Y1})
	p4 := m.Transform(Point{r.X1, r.Y1})
	return Rect{
		X0: math.Min(math.Min(p1.X, p2.X), math.Min(p3.X, p4.X)),
		Y0: math.Min(math.Min(p1.Y, p2.Y), math.Min(p3.Y, p4.Y)),
		X1: math.Max(math.Max(p1.X, p2.X), math.Max(p3.X, p4.X)),
		Y1: math.Max(math.Max(p1.Y, p2.Y), math.Max(p3.Y, p4.Y)),
	}
}

// Multiply returns the matrix that applies m first and then other.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Invert returns the inverse matrix. The second result is false when
// the matrix is singular.
func (m Matrix) Invert() (Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return Matrix{}, false
	}
	a := m[3] / det
	b := -m[1] / det
	c := -m[2] / det
	d := m[0] / det
	return Matrix{a, b, c, d, -m[4]*a - m[5]*c, -m[4]*b - m[5]*d}, true
}

// Translate creates a translation matrix
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale creates a scaling matrix
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Rotate creates a rotation matrix for an angle given in degrees.
// Quarter turns produce exact matrices so that page boxes rotated by
// multiples of 90 keep integral coordinates.
func Rotate(degrees float64) Matrix {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	var sin, cos float64
	switch d {
	case 0:
		sin, cos = 0, 1
	case 90:
		sin, cos = 1, 0
	case 180:
		sin, cos = 0, -1
	case 270:
		sin, cos = -1, 0
	default:
		rad := d * math.Pi / 180
		sin, cos = math.Sin(rad), math.Cos(rad)
	}
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// IsIdentity returns true if the matrix is an identity matrix
func (m Matrix) IsIdentity() bool {
	return m[0] == 1 && m[1] == 0 && m[2] == 0 && m[3] == 1 && m[4] == 0 && m[5] == 0
}

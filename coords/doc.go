// Package coords converts rectangles between a page's native box space
// and the box-relative view convention used by presentation layers.
//
// Every function is pure. A [Geometry] carries the selected page box
// and the page's intrinsic rotation; callers resolve the box (falling
// back to the page's full-page box) before calling in.
package coords

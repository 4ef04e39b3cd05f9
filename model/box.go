package model

import (
	"strconv"
	"strings"
)

// Box names one of the page-region rectangles a document may define.
type Box int

// Page boxes, in the order hosts refer to them by index.
const (
	ArtBox Box = iota
	BleedBox
	CropBox
	MediaBox
	TrimBox
)

var boxNames = [...]string{"ArtBox", "BleedBox", "CropBox", "MediaBox", "TrimBox"}

// DefaultBox is used whenever a box preference is missing or invalid.
const DefaultBox = CropBox

// String returns the dictionary key of the box, e.g. "CropBox".
func (b Box) String() string {
	if !b.Valid() {
		return "Box(" + strconv.Itoa(int(b)) + ")"
	}
	return boxNames[b]
}

// Valid reports whether b is one of the known boxes.
func (b Box) Valid() bool {
	return b >= ArtBox && b <= TrimBox
}

// BoxFromIndex converts a host-supplied index to a Box. Out-of-range
// indices select CropBox.
func BoxFromIndex(i int) Box {
	b := Box(i)
	if !b.Valid() {
		return DefaultBox
	}
	return b
}

// ParseBox converts a box name to a Box. Matching ignores case and an
// optional "Box" suffix, so "crop", "cropbox" and "CropBox" are all
// accepted. The second result is false for unknown names, in which
// case CropBox is returned.
func ParseBox(name string) (Box, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, "box")
	for i, s := range boxNames {
		if strings.TrimSuffix(strings.ToLower(s), "box") == n {
			return Box(i), true
		}
	}
	return DefaultBox, false
}

// ColorMode selects the pixel format produced by rendering.
type ColorMode int

const (
	// Color renders 4 bytes per pixel in BGRA order on a white background.
	Color ColorMode = iota
	// Gray renders a single intensity channel on a white background.
	Gray
)

func (c ColorMode) String() string {
	if c == Gray {
		return "gray"
	}
	return "color"
}

// NormalizeRotation maps any angle in degrees onto {0, 90, 180, 270}.
// Negative angles wrap around and angles between quarter turns are
// snapped down to the previous quarter turn.
func NormalizeRotation(degrees int) int {
	r := degrees % 360
	if r < 0 {
		r += 360
	}
	return r - r%90
}

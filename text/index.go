package text

import (
	"strings"

	"github.com/tsawler/pageview/model"
)

// Slot is one addressable position in an Index.
type Slot struct {
	Rune     rune
	BBox     model.Rect
	Boundary bool // synthetic line or block separator
}

// boundary is the slot appended after each line.
var boundary = Slot{Rune: ' ', Boundary: true}

// Index is a flat, zero-based sequence of character slots built from a
// page's text layout. It is immutable once built.
type Index struct {
	slots []Slot
}

type buildConfig struct {
	blockBoundaries bool
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithBlockBoundaries appends an extra boundary slot after the last line
// of every block, in addition to the one after every line.
func WithBlockBoundaries() BuildOption {
	return func(c *buildConfig) {
		c.blockBoundaries = true
	}
}

// Build flattens page into an Index. A nil page yields an empty index.
func Build(page *model.TextPage, opts ...BuildOption) *Index {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if page == nil {
		return &Index{}
	}

	size := page.CharCount() + page.LineCount()
	if cfg.blockBoundaries {
		size += len(page.Blocks)
	}
	slots := make([]Slot, 0, size)

	for _, block := range page.Blocks {
		for _, line := range block.Lines {
			for _, span := range line.Spans {
				for _, ch := range span.Chars {
					slots = append(slots, Slot{Rune: ch.Rune, BBox: ch.BBox})
				}
			}
			slots = append(slots, boundary)
		}
		if cfg.blockBoundaries {
			slots = append(slots, boundary)
		}
	}
	return &Index{slots: slots}
}

// Len returns the number of slots.
func (ix *Index) Len() int {
	return len(ix.slots)
}

// At returns the slot at i. The second result is false when i is out of
// range.
func (ix *Index) At(i int) (Slot, bool) {
	if i < 0 || i >= len(ix.slots) {
		return Slot{}, false
	}
	return ix.slots[i], true
}

// Bounds returns the union of the boxes of slots [start, start+n).
// Boundary slots contribute nothing.
func (ix *Index) Bounds(start, n int) model.Rect {
	r := model.EmptyRect
	for i := start; i < start+n && i < len(ix.slots); i++ {
		if i < 0 || ix.slots[i].Boundary {
			continue
		}
		r = r.Union(ix.slots[i].BBox)
	}
	return r
}

// String returns the indexed characters with boundaries rendered as
// spaces.
func (ix *Index) String() string {
	var sb strings.Builder
	sb.Grow(len(ix.slots))
	for _, s := range ix.slots {
		sb.WriteRune(s.Rune)
	}
	return sb.String()
}

package text

import (
	"unicode"

	"github.com/tsawler/pageview/model"
)

// Hit is one search match.
type Hit struct {
	Page   int        // zero-based page index, set by the caller of FindAll
	Start  int        // offset of the first matched slot
	Length int        // number of slots consumed
	BBox   model.Rect // union of the matched characters' boxes
}

// isSpace reports whether a slot compares equal to a query space.
// Boundaries carry a space rune, so they qualify.
func isSpace(s Slot) bool {
	return s.Rune == ' '
}

// MatchAt compares query with the index starting at start and returns
// the number of slots consumed, or 0 if the query does not match there.
//
// A space in the query matches one or more consecutive spaces or
// boundaries. Every other rune is compared after simple lower-casing.
// Positions past the end of the index never match.
func MatchAt(ix *Index, query string, start int) int {
	if start < 0 {
		return 0
	}
	n := start
	for _, c := range query {
		if n >= len(ix.slots) {
			return 0
		}
		if c == ' ' && isSpace(ix.slots[n]) {
			for n < len(ix.slots) && isSpace(ix.slots[n]) {
				n++
			}
			continue
		}
		if unicode.ToLower(c) != unicode.ToLower(ix.slots[n].Rune) {
			return 0
		}
		n++
	}
	return n - start
}

// FindAll reports a hit for every offset at which query matches and the
// matched characters have a non-empty combined box. Hits are returned in
// offset order and may overlap.
func FindAll(ix *Index, query string) []Hit {
	var hits []Hit
	for pos := 0; pos < len(ix.slots); pos++ {
		n := MatchAt(ix, query, pos)
		if n == 0 {
			continue
		}
		bbox := ix.Bounds(pos, n)
		if bbox.IsEmpty() {
			continue
		}
		hits = append(hits, Hit{Start: pos, Length: n, BBox: bbox})
	}
	return hits
}

// Count returns the number of hits FindAll would report.
func Count(ix *Index, query string) int {
	return len(FindAll(ix, query))
}

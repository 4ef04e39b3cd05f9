// Package text flattens a page's hierarchical text layout into a linear
// index of characters and searches it.
//
// # Index
//
// [Build] walks blocks, lines, spans and characters in order and appends
// one [Slot] per character. After the last span of every line it appends
// a boundary slot: a space with an empty bounding box. Boundaries let a
// single space in a query match across line breaks.
//
//	ix := text.Build(layout)
//	ix.Len()    // characters plus one boundary per line
//	ix.At(0)    // first slot
//
// # Search
//
// [MatchAt] compares a query with the index at one offset. Comparison is
// case-insensitive using simple lower-casing, and a space in the query
// consumes a whole run of spaces and boundaries in the index. [FindAll]
// tries every offset and reports each match with the union of the
// matched characters' boxes. Overlapping matches are all reported.
//
// # Plain text
//
// [PlainText] renders a layout as a string with a newline after every
// line and an extra newline after every block.
package text

package model

// TextPage is the hierarchical text layout of one page as produced by
// a text-layout extractor: blocks contain lines, lines contain spans
// and spans contain characters. Only characters carry geometry.
type TextPage struct {
	Blocks []TextBlock
}

// TextBlock is a group of lines, typically a paragraph or column cell.
type TextBlock struct {
	Lines []TextLine
}

// TextLine is a sequence of spans sharing a baseline.
type TextLine struct {
	Spans []TextSpan
}

// TextSpan is a run of characters with uniform style.
type TextSpan struct {
	Chars []TextChar
}

// TextChar is a single code point with its bounding box in document
// space.
type TextChar struct {
	Rune rune
	BBox Rect
}

// CharCount returns the number of characters across all spans.
func (p *TextPage) CharCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, b := range p.Blocks {
		for _, l := range b.Lines {
			for _, s := range l.Spans {
				n += len(s.Chars)
			}
		}
	}
	return n
}

// LineCount returns the number of lines across all blocks.
func (p *TextPage) LineCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, b := range p.Blocks {
		n += len(b.Lines)
	}
	return n
}

// IsEmpty returns true if the page has no characters.
func (p *TextPage) IsEmpty() bool {
	return p.CharCount() == 0
}

// Transform returns a copy of the page with every character box mapped
// through m.
func (p *TextPage) Transform(m Matrix) *TextPage {
	if p == nil {
		return nil
	}
	out := &TextPage{Blocks: make([]TextBlock, len(p.Blocks))}
	for bi, b := range p.Blocks {
		lines := make([]TextLine, len(b.Lines))
		for li, l := range b.Lines {
			spans := make([]TextSpan, len(l.Spans))
			for si, s := range l.Spans {
				chars := make([]TextChar, len(s.Chars))
				for ci, c := range s.Chars {
					chars[ci] = TextChar{Rune: c.Rune, BBox: m.TransformRect(c.BBox)}
				}
				spans[si] = TextSpan{Chars: chars}
			}
			lines[li] = TextLine{Spans: spans}
		}
		out.Blocks[bi] = TextBlock{Lines: lines}
	}
	return out
}

// OutlineItem is one entry of a document's table of contents.
type OutlineItem struct {
	Title    string
	Page     int // zero-based, -1 when the entry has no page target
	Children []OutlineItem
}

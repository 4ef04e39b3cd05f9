package ocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/pageview/model"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"
)

// hOCR classes that start a new text line.
var lineClasses = map[string]bool{
	"ocr_line":      true,
	"ocr_caption":   true,
	"ocr_header":    true,
	"ocr_textfloat": true,
}

// hOCR classes that group lines into a block. The innermost one wins.
var blockClasses = map[string]bool{
	"ocr_carea": true,
	"ocr_par":   true,
}

// ParseHOCR converts hOCR markup into a text layout. Paragraphs (or
// content areas without paragraphs) become blocks, lines become lines
// and each word becomes a span. A space character is inserted between
// consecutive words of a line, boxed by the gap between them.
//
// Character boxes come from ocrx_cinfo elements when Tesseract emits
// them; otherwise the word box is divided evenly among its characters.
// Markup without any words yields an empty page and ErrNoText.
func ParseHOCR(data []byte) (*model.TextPage, error) {
	decoded, err := decode(data)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	p := &hocrParser{blockIndex: make(map[*html.Node]int)}
	p.walk(doc, nil)

	page := &model.TextPage{Blocks: p.blocks}
	if page.IsEmpty() {
		return page, ErrNoText
	}
	return page, nil
}

// decode converts hOCR to UTF-8 using the declared charset, looked up
// by its WHATWG label.
func decode(data []byte) ([]byte, error) {
	label := declaredCharset(data)
	if label == "" {
		return data, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, label)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return data, nil
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", label, err)
	}
	return decoded, nil
}

func declaredCharset(data []byte) string {
	i := bytes.Index(bytes.ToLower(data), []byte("charset="))
	if i < 0 {
		return ""
	}
	rest := bytes.TrimLeft(data[i+len("charset="):], "\"'")
	end := bytes.IndexAny(rest, "\"'; >/")
	if end < 0 {
		end = len(rest)
	}
	return strings.ToLower(string(rest[:end]))
}

type hocrParser struct {
	blocks     []model.TextBlock
	blockIndex map[*html.Node]int
}

// walk descends the tree remembering the innermost block element.
func (p *hocrParser) walk(n *html.Node, block *html.Node) {
	if n.Type == html.ElementNode {
		classes := classList(n)
		switch {
		case hasAny(classes, lineClasses):
			p.addLine(block, n)
			return
		case hasAny(classes, blockClasses):
			block = n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, block)
	}
}

func (p *hocrParser) addLine(block, n *html.Node) {
	var words []model.TextSpan
	collectWords(n, &words)
	if len(words) == 0 {
		return
	}

	line := model.TextLine{}
	for i, w := range words {
		if i > 0 {
			line.Spans = append(line.Spans, gapSpan(words[i-1], w))
		}
		line.Spans = append(line.Spans, w)
	}

	idx, ok := p.blockIndex[block]
	if !ok || block == nil {
		idx = len(p.blocks)
		p.blocks = append(p.blocks, model.TextBlock{})
		if block != nil {
			p.blockIndex[block] = idx
		}
	}
	p.blocks[idx].Lines = append(p.blocks[idx].Lines, line)
}

// collectWords appends one span per ocrx_word below n.
func collectWords(n *html.Node, out *[]model.TextSpan) {
	if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
		if span, ok := wordSpan(n); ok {
			*out = append(*out, span)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectWords(c, out)
	}
}

func wordSpan(n *html.Node) (model.TextSpan, bool) {
	var cinfo []model.TextChar
	var findChars func(*html.Node)
	findChars = func(c *html.Node) {
		if c.Type == html.ElementNode && hasClass(c, "ocrx_cinfo") {
			r, _ := utf8.DecodeRuneInString(textContent(c))
			box, ok := titleBox(c, "x_bboxes")
			if r != utf8.RuneError && ok {
				cinfo = append(cinfo, model.TextChar{Rune: r, BBox: box})
			}
			return
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			findChars(k)
		}
	}
	findChars(n)
	if len(cinfo) > 0 {
		return model.TextSpan{Chars: cinfo}, true
	}

	word := strings.TrimSpace(textContent(n))
	box, ok := titleBox(n, "bbox")
	if word == "" || !ok {
		return model.TextSpan{}, false
	}
	return model.TextSpan{Chars: splitBox(word, box)}, true
}

// splitBox divides box evenly among the runes of word.
func splitBox(word string, box model.Rect) []model.TextChar {
	n := utf8.RuneCountInString(word)
	step := box.Width() / float64(n)
	chars := make([]model.TextChar, 0, n)
	i := 0
	for _, r := range word {
		x0 := box.X0 + float64(i)*step
		chars = append(chars, model.TextChar{Rune: r, BBox: model.Rect{X0: x0, Y0: box.Y0, X1: x0 + step, Y1: box.Y1}})
		i++
	}
	return chars
}

// gapSpan returns a one-space span covering the horizontal gap between
// two words.
func gapSpan(prev, next model.TextSpan) model.TextSpan {
	a := spanBox(prev)
	b := spanBox(next)
	gap := model.Rect{
		X0: a.X1,
		Y0: min(a.Y0, b.Y0),
		X1: b.X0,
		Y1: max(a.Y1, b.Y1),
	}
	if gap.IsEmpty() {
		gap = model.EmptyRect
	}
	return model.TextSpan{Chars: []model.TextChar{{Rune: ' ', BBox: gap}}}
}

func spanBox(s model.TextSpan) model.Rect {
	r := model.EmptyRect
	for _, c := range s.Chars {
		r = r.Union(c.BBox)
	}
	return r
}

// titleBox reads a four-number property such as "bbox 1 2 3 4" from the
// element's title attribute.
func titleBox(n *html.Node, key string) (model.Rect, bool) {
	vals := parseTitle(attr(n, "title"))[key]
	if len(vals) < 4 {
		return model.Rect{}, false
	}
	var f [4]float64
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(vals[i], 64)
		if err != nil {
			return model.Rect{}, false
		}
		f[i] = v
	}
	return model.Rect{X0: f[0], Y0: f[1], X1: f[2], Y1: f[3]}.Normalize(), true
}

// parseTitle breaks down an hOCR title attribute into its properties.
// Example input: "bbox 100 200 300 400; x_wconf 95"
func parseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func classList(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classList(n) {
		if c == class {
			return true
		}
	}
	return false
}

func hasAny(classes []string, set map[string]bool) bool {
	for _, c := range classes {
		if set[c] {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)
	return sb.String()
}

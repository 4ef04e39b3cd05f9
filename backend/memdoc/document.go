package memdoc

import (
	"errors"
	"fmt"

	"github.com/tsawler/pageview/backend"
	"github.com/tsawler/pageview/model"
)

// ErrAlreadyClosed is returned when a page or handle is closed twice.
var ErrAlreadyClosed = errors.New("already closed")

// Advance is the horizontal advance of one character as a fraction of
// the font size.
const Advance = 0.6

// Page is the description of one in-memory page.
type Page struct {
	MediaBox model.Rect
	Boxes    map[model.Box]model.Rect
	Rotate   int
	Text     model.TextPage
	Images   []model.Rect

	// Fault injection.
	LoadErr   error
	RenderErr error
	TextErr   error
}

// NewPage creates a page whose MediaBox is width by height at the origin.
func NewPage(width, height float64) *Page {
	return &Page{
		MediaBox: model.Rect{X1: width, Y1: height},
		Boxes:    make(map[model.Box]model.Rect),
	}
}

// WithBox sets a named box.
func (p *Page) WithBox(name model.Box, r model.Rect) *Page {
	if name == model.MediaBox {
		p.MediaBox = r
		return p
	}
	if p.Boxes == nil {
		p.Boxes = make(map[model.Box]model.Rect)
	}
	p.Boxes[name] = r
	return p
}

// WithRotation sets the intrinsic rotation in degrees.
func (p *Page) WithRotation(degrees int) *Page {
	p.Rotate = degrees
	return p
}

// AddBlock appends a text block whose lines start at (x, y) and advance
// downward by size. Each line becomes one span of fixed-pitch characters.
func (p *Page) AddBlock(x, y, size float64, lines ...string) *Page {
	block := model.TextBlock{}
	for i, line := range lines {
		top := y + float64(i)*size
		block.Lines = append(block.Lines, LayoutLine(x, top, size, line))
	}
	p.Text.Blocks = append(p.Text.Blocks, block)
	return p
}

// AddImage marks r as covered by an embedded image.
func (p *Page) AddImage(r model.Rect) *Page {
	p.Images = append(p.Images, r)
	return p
}

// LayoutLine lays s out as a single-span line of fixed-pitch characters
// with their top-left corner at (x, y).
func LayoutLine(x, y, size float64, s string) model.TextLine {
	adv := size * Advance
	var chars []model.TextChar
	for _, r := range s {
		chars = append(chars, model.TextChar{Rune: r, BBox: model.NewRect(x, y, adv, size)})
		x += adv
	}
	return model.TextLine{Spans: []model.TextSpan{{Chars: chars}}}
}

// Counters records backend activity for assertions in tests.
type Counters struct {
	Opens        int
	Loads        map[int]int
	PageCloses   int
	HandleCloses int
}

// Document is an in-memory document. It implements backend.Opener.
type Document struct {
	Pages    []*Page
	Password string
	Contents []model.OutlineItem
	ParseErr error

	counters Counters
}

var _ backend.Opener = (*Document)(nil)

// New creates an empty document.
func New() *Document {
	return &Document{counters: Counters{Loads: make(map[int]int)}}
}

// AddPage appends a page.
func (d *Document) AddPage(p *Page) *Document {
	d.Pages = append(d.Pages, p)
	return d
}

// WithPassword requires password to open the document.
func (d *Document) WithPassword(password string) *Document {
	d.Password = password
	return d
}

// WithOutline sets the table of contents.
func (d *Document) WithOutline(items ...model.OutlineItem) *Document {
	d.Contents = items
	return d
}

// Counters returns a snapshot of the activity counters.
func (d *Document) Counters() Counters {
	c := d.counters
	c.Loads = make(map[int]int, len(d.counters.Loads))
	for k, v := range d.counters.Loads {
		c.Loads[k] = v
	}
	return c
}

// Open returns a handle over the document. src is used only to label
// errors.
func (d *Document) Open(src backend.Source, password string) (backend.Handle, error) {
	if d.ParseErr != nil {
		return nil, &model.ParseError{Source: src.Name(), Err: d.ParseErr}
	}
	if d.Password != "" {
		if password == "" {
			return nil, &model.PasswordError{Source: src.Name(), Err: model.ErrNeedsPassword}
		}
		if password != d.Password {
			return nil, &model.PasswordError{Source: src.Name(), Err: model.ErrBadPassword}
		}
	}
	if d.counters.Loads == nil {
		d.counters.Loads = make(map[int]int)
	}
	d.counters.Opens++
	return &handle{doc: d}, nil
}

type handle struct {
	doc    *Document
	closed bool
}

var _ backend.OutlineReader = (*handle)(nil)

func (h *handle) PageCount() int {
	return len(h.doc.Pages)
}

func (h *handle) LoadPage(index int) (backend.Page, error) {
	if h.closed {
		return nil, model.ErrClosed
	}
	if index < 0 || index >= len(h.doc.Pages) {
		return nil, fmt.Errorf("%w: %d", model.ErrPageRange, index)
	}
	h.doc.counters.Loads[index]++
	p := h.doc.Pages[index]
	if p.LoadErr != nil {
		return nil, p.LoadErr
	}
	return &loadedPage{doc: h.doc, desc: p}, nil
}

func (h *handle) Outline() ([]model.OutlineItem, error) {
	return h.doc.Contents, nil
}

func (h *handle) Close() error {
	if h.closed {
		return ErrAlreadyClosed
	}
	h.closed = true
	h.doc.counters.HandleCloses++
	return nil
}

// loadedPage is a backend.Page over a page description.
type loadedPage struct {
	doc    *Document
	desc   *Page
	closed bool
}

func (p *loadedPage) Box(name model.Box) (model.Rect, bool) {
	if name == model.MediaBox {
		return p.desc.MediaBox, true
	}
	r, ok := p.desc.Boxes[name]
	return r, ok
}

func (p *loadedPage) Bounds() model.Rect {
	return p.desc.MediaBox
}

func (p *loadedPage) Rotation() int {
	return p.desc.Rotate
}

func (p *loadedPage) TextLayout() (*model.TextPage, error) {
	if p.closed {
		return nil, ErrAlreadyClosed
	}
	if p.desc.TextErr != nil {
		return nil, p.desc.TextErr
	}
	return p.desc.Text.Transform(model.Identity()), nil
}

func (p *loadedPage) Rasterize(req backend.RasterRequest, dst *backend.Raster) error {
	if p.closed {
		return ErrAlreadyClosed
	}
	if p.desc.RenderErr != nil {
		return p.desc.RenderErr
	}
	return paint(p.desc, req, dst)
}

func (p *loadedPage) Close() error {
	if p.closed {
		return ErrAlreadyClosed
	}
	p.closed = true
	p.doc.counters.PageCloses++
	return nil
}

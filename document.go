package pageview

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tsawler/pageview/backend"
	"github.com/tsawler/pageview/coords"
	"github.com/tsawler/pageview/model"
	"github.com/tsawler/pageview/pagecache"
	"github.com/tsawler/pageview/render"
	"github.com/tsawler/pageview/text"
	"golang.org/x/text/unicode/norm"
)

// Document is an open document. It owns the backend handle and a
// bounded cache of loaded pages.
type Document struct {
	mu sync.Mutex

	source    string
	handle    backend.Handle
	pageCount int
	cache     *pagecache.Cache
	pipeline  *render.Pipeline
	options   Options
	log       logrus.FieldLogger

	// recognizer created from config and owned by the document
	ownedRecognizer interface{ Close() error }

	closed bool
}

// Open parses src with opener. Parse and password failures are returned
// as *model.ParseError and *model.PasswordError and no Document is
// created.
func Open(opener backend.Opener, src backend.Source, opts ...Option) (*Document, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	h, err := opener.Open(src, o.password)
	if err != nil {
		var pe *model.ParseError
		var pwe *model.PasswordError
		if !errors.As(err, &pe) && !errors.As(err, &pwe) {
			err = &model.ParseError{Source: src.Name(), Err: err}
		}
		o.log.WithFields(logrus.Fields{"source": src.Name()}).WithError(err).Warn("open failed")
		return nil, err
	}

	d := &Document{
		source:    src.Name(),
		handle:    h,
		pageCount: h.PageCount(),
		options:   o,
		log:       o.log.WithFields(logrus.Fields{"source": src.Name()}),
	}
	d.cache = pagecache.New(
		pagecache.LoaderFunc(h.LoadPage),
		pagecache.WithBound(o.residentPages),
		pagecache.WithLogger(d.log),
	)
	d.pipeline = render.NewPipeline(o.box, d.log)

	if o.recognizer == nil && o.ocrFromConfig {
		d.setupRecognizer()
	}

	d.log.WithFields(logrus.Fields{
		"pages": d.pageCount,
		"box":   o.box.String(),
	}).Debug("document opened")
	return d, nil
}

// lock acquires the document mutex when locking is enabled and returns
// the matching unlock.
func (d *Document) lock() func() {
	if !d.options.locking {
		return func() {}
	}
	d.mu.Lock()
	return d.mu.Unlock
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.pageCount
}

// Box returns the active page box.
func (d *Document) Box() model.Box {
	defer d.lock()()
	return d.options.box
}

// SetBox changes the active page box. Invalid boxes select CropBox.
func (d *Document) SetBox(b model.Box) {
	defer d.lock()()
	if !b.Valid() {
		b = model.DefaultBox
	}
	d.options.box = b
	d.pipeline.Box = b
}

// page returns the loaded page at index. The caller must hold the lock.
func (d *Document) page(index int) (backend.Page, error) {
	if d.closed {
		return nil, &model.LoadError{Page: index, Err: model.ErrClosed}
	}
	if index < 0 || index >= d.pageCount {
		return nil, &model.LoadError{
			Page: index,
			Err:  fmt.Errorf("%w: %d not in [0, %d)", model.ErrPageRange, index, d.pageCount),
		}
	}
	return d.cache.Get(index)
}

func (d *Document) geometry(page backend.Page) coords.Geometry {
	return coords.Geometry{
		Box:      render.SelectBox(page, d.options.box),
		Rotation: page.Rotation(),
	}
}

// PageSize returns the size of the active box of the page at index in
// document units, with width and height swapped for pages rotated by a
// quarter turn.
func (d *Document) PageSize(index int) (width, height float64, err error) {
	defer d.lock()()
	page, err := d.page(index)
	if err != nil {
		return 0, 0, err
	}
	width, height = coords.PageSize(d.geometry(page))
	return width, height, nil
}

// PageToView converts r from document space into the top-left based
// view space of the page's rotated active box.
func (d *Document) PageToView(index int, r model.Rect) (model.Rect, error) {
	defer d.lock()()
	page, err := d.page(index)
	if err != nil {
		return model.Rect{}, err
	}
	return coords.PageToView(d.geometry(page), r), nil
}

// ViewToPage is the inverse of PageToView.
func (d *Document) ViewToPage(index int, r model.Rect) (model.Rect, error) {
	defer d.lock()()
	page, err := d.page(index)
	if err != nil {
		return model.Rect{}, err
	}
	return coords.ViewToPage(d.geometry(page), r), nil
}

// Render rasterizes one tile of the page at index. Load failures are
// returned as *model.LoadError and everything else as
// *model.RenderError. The returned buffer may be smaller than requested
// where the tile hangs off the page.
func (d *Document) Render(index int, req RenderRequest) (*render.PixelBuffer, error) {
	defer d.lock()()
	page, err := d.page(index)
	if err != nil {
		return nil, err
	}
	return d.pipeline.Render(index, page, req)
}

// transform returns the device mapping of the page at index for req.
func (d *Document) transform(index int, req RenderRequest) (render.Transform, error) {
	defer d.lock()()
	page, err := d.page(index)
	if err != nil {
		return render.Transform{}, err
	}
	return d.pipeline.Transform(page, req), nil
}

// TextPage returns the text layout of the page at index in document
// space. Extraction failures are returned as *model.ExtractError.
func (d *Document) TextPage(index int) (*model.TextPage, error) {
	defer d.lock()()
	return d.textLayout(index)
}

// textLayout extracts the layout of a page, falling back to text
// recognition for pages without native text. The caller must hold the
// lock.
func (d *Document) textLayout(index int) (*model.TextPage, error) {
	page, err := d.page(index)
	if err != nil {
		return nil, err
	}

	tp, err := page.TextLayout()
	if err != nil {
		return nil, &model.ExtractError{Page: index, Err: err}
	}
	if tp == nil {
		tp = &model.TextPage{}
	}
	if !tp.IsEmpty() || d.options.recognizer == nil {
		return tp, nil
	}
	return d.recognize(index, page)
}

// Text returns the plain text of the page at index: each line followed
// by a newline and each block by one more.
func (d *Document) Text(index int) (string, error) {
	defer d.lock()()
	tp, err := d.textLayout(index)
	if err != nil {
		return "", err
	}
	return text.PlainText(tp), nil
}

// Find searches the page at index for query. Spaces in the query match
// any run of whitespace or line breaks and letters match without regard
// to case. Hit boxes are in document space, rounded outward to whole
// units.
//
// A page whose text cannot be extracted yields no hits and no error;
// load failures are returned.
func (d *Document) Find(query string, index int) ([]text.Hit, error) {
	defer d.lock()()
	return d.find(norm.NFC.String(query), index)
}

func (d *Document) find(query string, index int) ([]text.Hit, error) {
	tp, err := d.textLayout(index)
	if err != nil {
		var xe *model.ExtractError
		if errors.As(err, &xe) {
			d.log.WithFields(logrus.Fields{"page": index}).WithError(err).Warn("text extraction failed")
			return nil, nil
		}
		return nil, err
	}
	if query == "" {
		return nil, nil
	}

	hits := text.FindAll(text.Build(tp), query)
	for i := range hits {
		hits[i].Page = index
		hits[i].BBox = hits[i].BBox.RoundOut().Rect()
	}

	d.log.WithFields(logrus.Fields{
		"page":  index,
		"query": query,
		"hits":  len(hits),
	}).Debug("search complete")
	return hits, nil
}

// FindAll searches every page in order. Pages that fail to load are
// logged and skipped.
func (d *Document) FindAll(query string) ([]text.Hit, error) {
	defer d.lock()()
	if d.closed {
		return nil, model.ErrClosed
	}
	query = norm.NFC.String(query)

	var all []text.Hit
	for i := 0; i < d.pageCount; i++ {
		hits, err := d.find(query, i)
		if err != nil {
			d.log.WithFields(logrus.Fields{"page": i}).WithError(err).Warn("skipping page")
			continue
		}
		all = append(all, hits...)
	}
	return all, nil
}

// Outline returns the document's table of contents, or nil if the
// backend does not provide one.
func (d *Document) Outline() ([]model.OutlineItem, error) {
	defer d.lock()()
	if d.closed {
		return nil, model.ErrClosed
	}
	or, ok := d.handle.(backend.OutlineReader)
	if !ok {
		return nil, nil
	}
	return or.Outline()
}

// Stats returns page cache statistics.
func (d *Document) Stats() pagecache.Stats {
	defer d.lock()()
	return d.cache.Stats()
}

// Close releases every loaded page and then the document. Calls after
// the first return model.ErrClosed.
func (d *Document) Close() error {
	defer d.lock()()
	if d.closed {
		return model.ErrClosed
	}
	d.closed = true

	var errs []error
	if err := d.cache.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := d.handle.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close document: %w", err))
	}
	if d.ownedRecognizer != nil {
		if err := d.ownedRecognizer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close recognizer: %w", err))
		}
	}

	d.log.Debug("document closed")
	return errors.Join(errs...)
}

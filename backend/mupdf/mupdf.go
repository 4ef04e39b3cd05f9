//go:build mupdf && cgo

package mupdf

/*
#cgo LDFLAGS: -lmupdf -lmupdf-third -lm

#include <stdlib.h>
#include <string.h>
#include <mupdf/fitz.h>
#include <mupdf/pdf.h>

#define PV_ERRLEN 256

static void pv_set_error(fz_context *ctx, char *err) {
	strncpy(err, fz_caught_message(ctx), PV_ERRLEN - 1);
	err[PV_ERRLEN - 1] = '\0';
}

static fz_context *pv_new_context(void) {
	fz_context *ctx = fz_new_context(NULL, NULL, FZ_STORE_DEFAULT);
	if (!ctx)
		return NULL;
	fz_try(ctx)
		fz_register_document_handlers(ctx);
	fz_catch(ctx) {
		fz_drop_context(ctx);
		return NULL;
	}
	return ctx;
}

static fz_document *pv_open_file(fz_context *ctx, const char *path, char *err) {
	fz_document *doc = NULL;
	fz_try(ctx)
		doc = fz_open_document(ctx, path);
	fz_catch(ctx) {
		pv_set_error(ctx, err);
		return NULL;
	}
	return doc;
}

static fz_document *pv_open_memory(fz_context *ctx, const unsigned char *data, size_t len, char *err) {
	fz_document *doc = NULL;
	fz_buffer *buf = NULL;
	fz_stream *stm = NULL;
	fz_var(buf);
	fz_var(stm);
	fz_try(ctx) {
		buf = fz_new_buffer_from_copied_data(ctx, data, len);
		stm = fz_open_buffer(ctx, buf);
		doc = fz_open_document_with_stream(ctx, "application/pdf", stm);
	}
	fz_always(ctx) {
		fz_drop_stream(ctx, stm);
		fz_drop_buffer(ctx, buf);
	}
	fz_catch(ctx) {
		pv_set_error(ctx, err);
		return NULL;
	}
	return doc;
}

static int pv_count_pages(fz_context *ctx, fz_document *doc) {
	int n = -1;
	fz_try(ctx)
		n = fz_count_pages(ctx, doc);
	fz_catch(ctx)
		return -1;
	return n;
}

static fz_page *pv_load_page(fz_context *ctx, fz_document *doc, int number, char *err) {
	fz_page *page = NULL;
	fz_try(ctx)
		page = fz_load_page(ctx, doc, number);
	fz_catch(ctx) {
		pv_set_error(ctx, err);
		return NULL;
	}
	return page;
}

// pv_lookup finds key in the page dictionary, walking up the page tree
// when inherit is set.
static pdf_obj *pv_lookup(fz_context *ctx, pdf_obj *node, const char *key, int inherit) {
	int depth;
	for (depth = 0; node && depth < 64; depth++) {
		pdf_obj *v = pdf_dict_gets(ctx, node, key);
		if (v || !inherit)
			return v;
		node = pdf_dict_get(ctx, node, PDF_NAME(Parent));
	}
	return NULL;
}

typedef struct {
	int is_pdf;
	int rotate;
	fz_rect bounds;
	fz_rect mediabox;
	fz_matrix ctm;
} pv_page_info;

static int pv_get_page_info(fz_context *ctx, fz_page *page, pv_page_info *info, char *err) {
	memset(info, 0, sizeof(*info));
	info->ctm = fz_identity;
	fz_try(ctx) {
		pdf_page *pp = pdf_page_from_fz_page(ctx, page);
		info->bounds = fz_bound_page(ctx, page);
		if (pp) {
			fz_rect ignored;
			pdf_obj *mb = pv_lookup(ctx, pp->obj, "MediaBox", 1);
			pdf_obj *rot = pv_lookup(ctx, pp->obj, "Rotate", 1);
			info->is_pdf = 1;
			info->mediabox = pdf_to_rect(ctx, mb);
			if (pdf_is_int(ctx, rot))
				info->rotate = pdf_to_int(ctx, rot);
			pdf_page_transform(ctx, pp, &ignored, &info->ctm);
		}
	}
	fz_catch(ctx) {
		pv_set_error(ctx, err);
		return -1;
	}
	return 0;
}

static int pv_page_box(fz_context *ctx, fz_page *page, const char *name, int inherit, fz_rect *out) {
	int found = 0;
	fz_try(ctx) {
		pdf_page *pp = pdf_page_from_fz_page(ctx, page);
		if (pp) {
			pdf_obj *v = pv_lookup(ctx, pp->obj, name, inherit);
			if (pdf_is_array(ctx, v)) {
				*out = pdf_to_rect(ctx, v);
				found = 1;
			}
		}
	}
	fz_catch(ctx)
		return 0;
	return found;
}

static int pv_render(fz_context *ctx, fz_page *page, fz_matrix ctm,
		int x, int y, int w, int h, int n, int stride,
		unsigned char *samples, int skip_images, char *err) {
	fz_pixmap *pix = NULL;
	fz_device *dev = NULL;
	fz_var(pix);
	fz_var(dev);
	fz_try(ctx) {
		fz_colorspace *cs = n == 2 ? fz_device_gray(ctx) : fz_device_bgr(ctx);
		pix = fz_new_pixmap_with_data(ctx, cs, w, h, NULL, 1, stride, samples);
		pix->x = x;
		pix->y = y;
		dev = fz_new_draw_device(ctx, fz_identity, pix);
		if (skip_images)
			fz_enable_device_hints(ctx, dev, FZ_IGNORE_IMAGE);
		fz_run_page(ctx, page, dev, ctm, NULL);
		fz_close_device(ctx, dev);
	}
	fz_always(ctx) {
		fz_drop_device(ctx, dev);
		fz_drop_pixmap(ctx, pix);
	}
	fz_catch(ctx) {
		pv_set_error(ctx, err);
		return -1;
	}
	return 0;
}

static fz_stext_page *pv_stext(fz_context *ctx, fz_page *page, char *err) {
	fz_stext_page *text = NULL;
	fz_try(ctx)
		text = fz_new_stext_page_from_page(ctx, page, NULL);
	fz_catch(ctx) {
		pv_set_error(ctx, err);
		return NULL;
	}
	return text;
}

static fz_stext_line *pv_block_lines(fz_stext_block *block) {
	if (block->type != FZ_STEXT_BLOCK_TEXT)
		return NULL;
	return block->u.t.first_line;
}

static fz_outline *pv_load_outline(fz_context *ctx, fz_document *doc, char *err) {
	fz_outline *outline = NULL;
	fz_try(ctx)
		outline = fz_load_outline(ctx, doc);
	fz_catch(ctx) {
		pv_set_error(ctx, err);
		return NULL;
	}
	return outline;
}

static int pv_outline_page(fz_context *ctx, fz_document *doc, fz_outline *o) {
	int n = -1;
	fz_try(ctx)
		n = fz_page_number_from_location(ctx, doc, o->page);
	fz_catch(ctx)
		return -1;
	return n;
}

static int pv_needs_password(fz_context *ctx, fz_document *doc) {
	int r = 0;
	fz_try(ctx)
		r = fz_needs_password(ctx, doc);
	fz_catch(ctx)
		return 0;
	return r;
}

static int pv_authenticate(fz_context *ctx, fz_document *doc, const char *password) {
	int r = 0;
	fz_try(ctx)
		r = fz_authenticate_password(ctx, doc, password);
	fz_catch(ctx)
		return 0;
	return r;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/tsawler/pageview/backend"
	"github.com/tsawler/pageview/model"
)

// Opener opens documents with MuPDF. Each handle owns its own MuPDF
// context.
type Opener struct{}

var _ backend.Opener = Opener{}

func errorText(buf []C.char) error {
	msg := C.GoString(&buf[0])
	if msg == "" {
		msg = "unknown error"
	}
	return errors.New(msg)
}

// Open parses src and authenticates password if the document is
// encrypted.
func (Opener) Open(src backend.Source, password string) (backend.Handle, error) {
	ctx := C.pv_new_context()
	if ctx == nil {
		return nil, &model.ParseError{Source: src.Name(), Err: ErrContextCreate}
	}

	errbuf := make([]C.char, C.PV_ERRLEN)
	var doc *C.fz_document
	switch {
	case src.Data != nil:
		if len(src.Data) == 0 {
			C.fz_drop_context(ctx)
			return nil, &model.ParseError{Source: src.Name(), Err: fmt.Errorf("empty document")}
		}
		doc = C.pv_open_memory(ctx, (*C.uchar)(unsafe.Pointer(&src.Data[0])), C.size_t(len(src.Data)), &errbuf[0])
	case src.Path != "":
		cpath := C.CString(src.Path)
		doc = C.pv_open_file(ctx, cpath, &errbuf[0])
		C.free(unsafe.Pointer(cpath))
	default:
		C.fz_drop_context(ctx)
		return nil, &model.ParseError{Source: src.Name(), Err: fmt.Errorf("empty source")}
	}
	if doc == nil {
		C.fz_drop_context(ctx)
		return nil, &model.ParseError{Source: src.Name(), Err: errorText(errbuf)}
	}

	h := &handle{ctx: ctx, doc: doc}
	if C.pv_needs_password(ctx, doc) != 0 {
		if password == "" {
			h.Close()
			return nil, &model.PasswordError{Source: src.Name(), Err: model.ErrNeedsPassword}
		}
		cpw := C.CString(password)
		ok := C.pv_authenticate(ctx, doc, cpw)
		C.free(unsafe.Pointer(cpw))
		if ok == 0 {
			h.Close()
			return nil, &model.PasswordError{Source: src.Name(), Err: model.ErrBadPassword}
		}
	}

	n := int(C.pv_count_pages(ctx, doc))
	if n < 0 {
		h.Close()
		return nil, &model.ParseError{Source: src.Name(), Err: fmt.Errorf("cannot count pages")}
	}
	h.pages = n
	return h, nil
}

// IsAvailable returns whether MuPDF is available
func IsAvailable() bool {
	return true
}

type handle struct {
	ctx    *C.fz_context
	doc    *C.fz_document
	pages  int
	closed bool
}

var _ backend.OutlineReader = (*handle)(nil)

func (h *handle) PageCount() int {
	return h.pages
}

func (h *handle) LoadPage(index int) (backend.Page, error) {
	if h.closed {
		return nil, model.ErrClosed
	}
	if index < 0 || index >= h.pages {
		return nil, fmt.Errorf("%w: %d", model.ErrPageRange, index)
	}

	errbuf := make([]C.char, C.PV_ERRLEN)
	fp := C.pv_load_page(h.ctx, h.doc, C.int(index), &errbuf[0])
	if fp == nil {
		return nil, errorText(errbuf)
	}

	var info C.pv_page_info
	if C.pv_get_page_info(h.ctx, fp, &info, &errbuf[0]) != 0 {
		C.fz_drop_page(h.ctx, fp)
		return nil, errorText(errbuf)
	}

	p := &page{h: h, page: fp, toDocument: model.Identity()}
	p.bounds = goRect(info.bounds)
	if info.is_pdf != 0 {
		p.isPDF = true
		p.mediaBox = goRect(info.mediabox).Normalize()
		p.rotation = int(info.rotate)
		p.bounds = boxToDocument(p.mediaBox, p.mediaBox)
		if m, ok := pageToDocument(goMatrix(info.ctm), p.mediaBox); ok {
			p.toDocument = m
		}
	}
	return p, nil
}

func (h *handle) Outline() ([]model.OutlineItem, error) {
	if h.closed {
		return nil, model.ErrClosed
	}
	errbuf := make([]C.char, C.PV_ERRLEN)
	root := C.pv_load_outline(h.ctx, h.doc, &errbuf[0])
	if root == nil {
		if errbuf[0] != 0 {
			return nil, errorText(errbuf)
		}
		return nil, nil
	}
	defer C.fz_drop_outline(h.ctx, root)
	return h.convertOutline(root), nil
}

func (h *handle) convertOutline(o *C.fz_outline) []model.OutlineItem {
	var items []model.OutlineItem
	for ; o != nil; o = o.next {
		item := model.OutlineItem{
			Page: int(C.pv_outline_page(h.ctx, h.doc, o)),
		}
		if o.title != nil {
			item.Title = C.GoString(o.title)
		}
		if o.down != nil {
			item.Children = h.convertOutline(o.down)
		}
		items = append(items, item)
	}
	return items
}

func (h *handle) Close() error {
	if h.closed {
		return model.ErrClosed
	}
	h.closed = true
	C.fz_drop_document(h.ctx, h.doc)
	C.fz_drop_context(h.ctx)
	h.doc, h.ctx = nil, nil
	return nil
}

type page struct {
	h    *handle
	page *C.fz_page

	isPDF      bool
	mediaBox   model.Rect // user space
	bounds     model.Rect // document space
	rotation   int
	toDocument model.Matrix // MuPDF page space to document space
}

func (p *page) Box(name model.Box) (model.Rect, bool) {
	if !p.isPDF || p.page == nil {
		return model.Rect{}, false
	}
	key := name.String()
	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))

	inherit := C.int(0)
	if inheritable(key) {
		inherit = 1
	}
	var r C.fz_rect
	if C.pv_page_box(p.h.ctx, p.page, ckey, inherit, &r) == 0 {
		return model.Rect{}, false
	}
	return boxToDocument(goRect(r), p.mediaBox), true
}

func (p *page) Bounds() model.Rect {
	return p.bounds
}

func (p *page) Rotation() int {
	return p.rotation
}

func (p *page) Rasterize(req backend.RasterRequest, dst *backend.Raster) error {
	if p.page == nil {
		return model.ErrClosed
	}
	if dst.Width == 0 || dst.Height == 0 {
		return nil
	}
	if dst.N != backend.Channels(req.Mode) {
		return fmt.Errorf("raster has %d channels for %s output", dst.N, req.Mode)
	}

	skip := C.int(0)
	if req.SkipImages {
		skip = 1
	}
	errbuf := make([]C.char, C.PV_ERRLEN)
	ctm := cMatrix(runTransform(p.toDocument, req.Transform))
	rc := C.pv_render(p.h.ctx, p.page, ctm,
		C.int(dst.X), C.int(dst.Y), C.int(dst.Width), C.int(dst.Height),
		C.int(dst.N), C.int(dst.Stride),
		(*C.uchar)(unsafe.Pointer(&dst.Samples[0])), skip, &errbuf[0])
	if rc != 0 {
		return errorText(errbuf)
	}
	return nil
}

// TextLayout extracts structured text. MuPDF lines carry no spans, so
// each line becomes a single span.
func (p *page) TextLayout() (*model.TextPage, error) {
	if p.page == nil {
		return nil, model.ErrClosed
	}
	errbuf := make([]C.char, C.PV_ERRLEN)
	st := C.pv_stext(p.h.ctx, p.page, &errbuf[0])
	if st == nil {
		return nil, errorText(errbuf)
	}
	defer C.fz_drop_stext_page(p.h.ctx, st)

	tp := &model.TextPage{}
	for b := st.first_block; b != nil; b = b.next {
		first := C.pv_block_lines(b)
		if first == nil {
			continue
		}
		var block model.TextBlock
		for l := first; l != nil; l = l.next {
			var span model.TextSpan
			for ch := l.first_char; ch != nil; ch = ch.next {
				r := goRect(C.fz_rect_from_quad(ch.quad))
				span.Chars = append(span.Chars, model.TextChar{
					Rune: rune(ch.c),
					BBox: p.toDocument.TransformRect(r),
				})
			}
			block.Lines = append(block.Lines, model.TextLine{Spans: []model.TextSpan{span}})
		}
		tp.Blocks = append(tp.Blocks, block)
	}
	return tp, nil
}

func (p *page) Close() error {
	if p.page == nil {
		return model.ErrClosed
	}
	if p.h.closed {
		// dropped together with the document
		p.page = nil
		return nil
	}
	C.fz_drop_page(p.h.ctx, p.page)
	p.page = nil
	return nil
}

func goRect(r C.fz_rect) model.Rect {
	return model.Rect{X0: float64(r.x0), Y0: float64(r.y0), X1: float64(r.x1), Y1: float64(r.y1)}
}

func goMatrix(m C.fz_matrix) model.Matrix {
	return model.Matrix{float64(m.a), float64(m.b), float64(m.c), float64(m.d), float64(m.e), float64(m.f)}
}

func cMatrix(m model.Matrix) C.fz_matrix {
	return C.fz_matrix{
		a: C.float(m[0]), b: C.float(m[1]),
		c: C.float(m[2]), d: C.float(m[3]),
		e: C.float(m[4]), f: C.float(m[5]),
	}
}

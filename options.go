package pageview

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/tsawler/pageview/config"
	"github.com/tsawler/pageview/model"
	"github.com/tsawler/pageview/pagecache"
)

// DefaultRecognitionDPI is the resolution pages are rendered at before
// being handed to a TextRecognizer.
const DefaultRecognitionDPI = 300

// Options holds the configuration of an open Document.
type Options struct {
	// Document
	box           model.Box
	password      string
	residentPages int

	// Runtime
	log     logrus.FieldLogger
	locking bool

	// OCR fallback
	recognizer     TextRecognizer
	recognitionDPI int
	ocrFromConfig  bool
	ocrLanguage    string

	// Defaults for Page()
	zoomPermille int
	mode         model.ColorMode
	skipImages   bool
	tileWidth    int
	tileHeight   int
}

// Option configures a Document at open time.
type Option func(*Options)

// defaultOptions returns the default document options.
func defaultOptions() Options {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return Options{
		box:            model.DefaultBox,
		residentPages:  pagecache.DefaultBound,
		log:            l,
		recognitionDPI: DefaultRecognitionDPI,
		zoomPermille:   1000,
		mode:           model.Color,
	}
}

// WithBox selects the page box used for rendering, sizing and
// coordinate mapping. Invalid boxes select CropBox.
func WithBox(b model.Box) Option {
	return func(o *Options) {
		if !b.Valid() {
			b = model.DefaultBox
		}
		o.box = b
	}
}

// WithBoxIndex selects the page box by its index in the order ArtBox,
// BleedBox, CropBox, MediaBox, TrimBox. Out-of-range indices select
// CropBox.
func WithBoxIndex(i int) Option {
	return WithBox(model.BoxFromIndex(i))
}

// WithPassword supplies the credential for encrypted documents.
func WithPassword(password string) Option {
	return func(o *Options) {
		o.password = password
	}
}

// WithResidentPages bounds the number of pages kept loaded. Values below
// 1 select the default of 16.
func WithResidentPages(n int) Option {
	return func(o *Options) {
		if n < 1 {
			n = pagecache.DefaultBound
		}
		o.residentPages = n
	}
}

// WithLogger sets the logger. A nil logger keeps logging disabled.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithLocking guards the whole Document with one mutex held for the
// duration of each call, so it can be shared between goroutines.
func WithLocking() Option {
	return func(o *Options) {
		o.locking = true
	}
}

// WithTextFallback recognizes the text of pages whose native text layout
// is empty. The page is rendered in gray and handed to r as a PNG.
func WithTextFallback(r TextRecognizer) Option {
	return func(o *Options) {
		o.recognizer = r
	}
}

// WithRecognitionDPI sets the resolution used for the text fallback.
// Values below 1 select DefaultRecognitionDPI.
func WithRecognitionDPI(dpi int) Option {
	return func(o *Options) {
		if dpi < 1 {
			dpi = DefaultRecognitionDPI
		}
		o.recognitionDPI = dpi
	}
}

// WithConfig applies a loaded configuration. When OCR is enabled and no
// recognizer was supplied, Open creates a tesseract client for the
// configured language; builds without OCR support log a warning and
// continue without the fallback.
func WithConfig(cfg *config.Config) Option {
	return func(o *Options) {
		if cfg == nil {
			return
		}
		o.box = cfg.PageBox()
		if cfg.ResidentPages > 0 {
			o.residentPages = cfg.ResidentPages
		}
		if l := cfg.Logger(); l != nil {
			o.log = l
		}
		if cfg.Render.ZoomPermille > 0 {
			o.zoomPermille = cfg.Render.ZoomPermille
		}
		o.mode = cfg.ColorMode()
		o.skipImages = cfg.Render.SkipImages
		o.tileWidth = cfg.Render.TileWidth
		o.tileHeight = cfg.Render.TileHeight
		if cfg.OCR.DPI > 0 {
			o.recognitionDPI = cfg.OCR.DPI
		}
		o.ocrFromConfig = cfg.OCR.Enabled
		o.ocrLanguage = cfg.OCR.Language
	}
}

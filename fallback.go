package pageview

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tsawler/pageview/backend"
	"github.com/tsawler/pageview/model"
	"github.com/tsawler/pageview/ocr"
	"github.com/tsawler/pageview/render"
)

// TextRecognizer turns an image of a page into a text layout whose
// boxes are in image pixels. *ocr.Client implements it.
type TextRecognizer interface {
	RecognizeLayout(image []byte) (*model.TextPage, error)
}

var _ TextRecognizer = (*ocr.Client)(nil)

// setupRecognizer creates the tesseract client requested by a config.
func (d *Document) setupRecognizer() {
	client, err := ocr.New()
	if err != nil {
		d.log.WithError(err).Warn("OCR requested but unavailable, continuing without text fallback")
		return
	}
	if d.options.ocrLanguage != "" {
		if err := client.SetLanguage(d.options.ocrLanguage); err != nil {
			d.log.WithError(err).Warn("failed to set OCR language")
		}
	}
	d.options.recognizer = client
	d.ownedRecognizer = client
}

// recognize renders the page in gray at the recognition resolution,
// runs the recognizer and maps its boxes back into document space.
func (d *Document) recognize(index int, page backend.Page) (*model.TextPage, error) {
	zoom := d.options.recognitionDPI * 1000 / 72
	t := d.pipeline.Transform(page, render.Request{ZoomPermille: zoom})
	w, h := t.Size()

	buf, err := d.pipeline.Render(index, page, render.Request{
		ZoomPermille: zoom,
		Width:        w,
		Height:       h,
		Mode:         model.Gray,
	})
	if err != nil {
		return nil, &model.ExtractError{Page: index, Err: err}
	}

	var img bytes.Buffer
	if err := buf.Encode(&img, render.PNG); err != nil {
		return nil, &model.ExtractError{Page: index, Err: err}
	}

	tp, err := d.options.recognizer.RecognizeLayout(img.Bytes())
	if errors.Is(err, ocr.ErrNoText) {
		return &model.TextPage{}, nil
	}
	if err != nil {
		return nil, &model.ExtractError{Page: index, Err: fmt.Errorf("text recognition: %w", err)}
	}
	if tp == nil {
		return &model.TextPage{}, nil
	}

	inv, ok := t.Matrix.Invert()
	if !ok {
		return nil, &model.ExtractError{Page: index, Err: fmt.Errorf("degenerate page transform")}
	}
	tile := t.TileRect(0, 0, w, h)
	toDocument := model.Translate(float64(tile.X0), float64(tile.Y0)).Multiply(inv)

	d.log.WithFields(logrus.Fields{
		"page":  index,
		"dpi":   d.options.recognitionDPI,
		"chars": tp.CharCount(),
	}).Info("recognized page text")
	return tp.Transform(toDocument), nil
}

// Package ocr recognizes text layout in rendered page images.
//
// It is used as a fallback for pages whose native text layout is empty,
// typically scanned pages. Recognition wraps the Tesseract engine via
// gosseract and requires the "ocr" build tag:
//
//	go build -tags ocr
//
// Tesseract must be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Without the tag every Client method returns [ErrOCRNotEnabled]. The
// hOCR parser, [ParseHOCR], is always available and converts
// Tesseract's hOCR output into a [model.TextPage] in image pixel
// coordinates.
package ocr

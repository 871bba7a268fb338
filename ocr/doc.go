// Package ocr recognizes words on page rasters that carry no text layer,
// such as scanned documents.
//
// Recognition wraps the Tesseract engine via gosseract and is only compiled
// in with the "ocr" build tag:
//
//	go build -tags ocr ./...
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Without the tag, New returns ErrOCRNotEnabled and callers fall back to
// showing the page without pacing tokens.
package ocr

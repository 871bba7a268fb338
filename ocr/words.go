package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/tsawler/zenread/model"
)

// PageSegMode controls how Tesseract analyzes the page layout.
type PageSegMode int

// Page segmentation modes, matching Tesseract's numbering.
const (
	PSMAuto         PageSegMode = 3
	PSMSingleColumn PageSegMode = 4
	PSMSingleBlock  PageSegMode = 6
	PSMSparseText   PageSegMode = 11
)

// Word is one recognized word with its box in raster pixels.
type Word struct {
	Text       string
	Box        model.BBox
	Confidence float64 // 0..1
}

// Fragments converts recognized words to text fragments in page space.
// page maps page space to the raster the words were found on. Words are
// returned one per fragment, with a glyph height equal to the box height.
func Fragments(words []Word, page model.Matrix) ([]model.Fragment, error) {
	inv, ok := page.Inverse()
	if !ok {
		return nil, fmt.Errorf("page transform is not invertible")
	}
	scale := page.HorizontalScale()
	if scale == 0 {
		return nil, fmt.Errorf("page transform has no horizontal scale")
	}

	frags := make([]model.Fragment, 0, len(words))
	for _, w := range words {
		if w.Text == "" || w.Box.IsEmpty() {
			continue
		}
		h := w.Box.Height
		device := model.Matrix{h, 0, 0, -h, w.Box.Left(), w.Box.Bottom()}
		frags = append(frags, model.Fragment{
			Text:      w.Text,
			Transform: device.Multiply(inv),
			Width:     w.Box.Width / scale,
		})
	}
	return frags, nil
}

// encodePNG prepares an image for Tesseract.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

package pdfrender

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"
	"golang.org/x/image/draw"

	"github.com/tsawler/zenread/model"
	"github.com/tsawler/zenread/ocr"
)

// renderScan draws the largest image of a page without text over the whole
// raster and, when OCR is enabled, recognizes its words. A page with no
// usable image stays blank.
func (d *Document) renderScan(ctx context.Context, p *pages.Page, dst *image.RGBA, transform model.Matrix) ([]model.Fragment, error) {
	imgs, err := d.rd.ExtractPageImages(p)
	if err != nil {
		d.log.Warn("failed to extract page images", slog.Any("error", err))
		return nil, nil
	}

	src := largestImage(imgs, d.log)
	if src == nil {
		return nil, nil
	}
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	if !d.opts.OCR {
		return nil, nil
	}
	if err := cancelled(ctx); err != nil {
		return nil, err
	}
	return d.recognize(dst, transform)
}

// largestImage decodes the image with the most pixels. Images that fail to
// decode are skipped.
func largestImage(imgs []reader.PageImage, log *slog.Logger) image.Image {
	var (
		best image.Image
		area int
	)
	for i := range imgs {
		pi := &imgs[i]
		if pi.Width*pi.Height <= area {
			continue
		}
		data, err := pi.ToPNG()
		if err != nil {
			log.Debug("skipping image", slog.String("name", pi.Name), slog.Any("error", err))
			continue
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			log.Debug("skipping image", slog.String("name", pi.Name), slog.Any("error", err))
			continue
		}
		best, area = img, pi.Width*pi.Height
	}
	return best
}

// recognize runs OCR over the drawn raster. OCR failures leave the page
// without words rather than failing the render.
func (d *Document) recognize(raster *image.RGBA, transform model.Matrix) ([]model.Fragment, error) {
	client, err := ocr.New()
	if err != nil {
		d.log.Debug("OCR unavailable", slog.Any("error", err))
		return nil, nil
	}
	defer client.Close()

	if d.opts.OCRLanguage != "" {
		if err := client.SetLanguage(d.opts.OCRLanguage); err != nil {
			return nil, fmt.Errorf("failed to set OCR language: %w", err)
		}
	}
	if err := client.SetPageSegMode(ocr.PSMAuto); err != nil {
		d.log.Debug("failed to set page segmentation mode", slog.Any("error", err))
	}

	words, err := client.RecognizeWords(raster)
	if err != nil {
		d.log.Warn("OCR failed", slog.Any("error", err))
		return nil, nil
	}
	return ocr.Fragments(words, transform)
}

package pdfrender

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sync"

	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/text"

	"github.com/tsawler/zenread/format"
	"github.com/tsawler/zenread/logging"
	"github.com/tsawler/zenread/model"
	"github.com/tsawler/zenread/render"
)

// ErrUnsupportedFormat is returned when a file is not a PDF.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// maxRasterPixels bounds a single page raster.
const maxRasterPixels = 64 << 20

// Options configures the renderer.
type Options struct {
	// Background fills the page before text is drawn. Nil means white.
	Background color.Color

	// Ink is the text color. Nil means black.
	Ink color.Color

	// OCR enables word recognition on pages without text. It has no effect
	// unless the binary is built with the "ocr" tag.
	OCR bool

	// OCRLanguage is the Tesseract language, e.g. "eng" or "eng+deu".
	OCRLanguage string
}

// Renderer opens PDF documents.
type Renderer struct {
	opts Options
	log  *slog.Logger
}

// New creates a renderer.
func New(opts Options) *Renderer {
	if opts.Background == nil {
		opts.Background = color.White
	}
	if opts.Ink == nil {
		opts.Ink = color.Black
	}
	return &Renderer{opts: opts, log: logging.For("pdfrender")}
}

// Open opens the PDF at path.
func (r *Renderer) Open(ctx context.Context, path string) (render.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := format.DetectFile(path)
	if err != nil {
		return nil, err
	}
	if !f.Paginated() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}

	rd, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	count, err := rd.PageCount()
	if err != nil {
		rd.Close()
		return nil, fmt.Errorf("failed to read page tree: %w", err)
	}

	r.log.Debug("opened PDF", slog.String("path", path), slog.Int("pages", count))
	return &Document{
		rd:    rd,
		count: count,
		opts:  r.opts,
		log:   r.log,
	}, nil
}

// Document is an open PDF.
type Document struct {
	mu    sync.Mutex
	rd    *reader.Reader
	count int
	opts  Options
	log   *slog.Logger

	boxes  map[int]model.BBox
	closed bool
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.count
}

// PageSize returns the media box size of a 1-based page.
func (d *Document) PageSize(ctx context.Context, n int) (model.Size, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.check(ctx, n); err != nil {
		return model.Size{}, err
	}
	box, err := d.mediaBox(n)
	if err != nil {
		return model.Size{}, err
	}
	return model.Size{Width: box.Width, Height: box.Height}, nil
}

// check validates a 1-based page request. The caller holds d.mu.
func (d *Document) check(ctx context.Context, n int) error {
	if err := cancelled(ctx); err != nil {
		return err
	}
	if d.closed {
		return errors.New("document is closed")
	}
	if n < 1 || n > d.count {
		return fmt.Errorf("page %d out of range [1, %d]", n, d.count)
	}
	return nil
}

// load returns a 1-based page. The caller holds d.mu.
func (d *Document) load(n int) (*pages.Page, error) {
	p, err := d.rd.GetPage(n - 1)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %d: %w", n, err)
	}
	return p, nil
}

// mediaBox returns the normalized media box of a 1-based page, reading it
// from the file only the first time. The caller holds d.mu.
func (d *Document) mediaBox(n int) (model.BBox, error) {
	if box, ok := d.boxes[n]; ok {
		return box, nil
	}
	p, err := d.load(n)
	if err != nil {
		return model.BBox{}, err
	}
	mb, err := p.MediaBox()
	if err != nil {
		return model.BBox{}, fmt.Errorf("failed to read media box: %w", err)
	}
	box, err := normalizeBox(mb)
	if err != nil {
		return model.BBox{}, err
	}
	if d.boxes == nil {
		d.boxes = make(map[int]model.BBox)
	}
	d.boxes[n] = box
	return box, nil
}

// cancelled reports a done ctx as a superseded render.
func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", render.ErrCancelled, err)
	}
	return nil
}

// normalizeBox turns a [llx lly urx ury] rectangle into a box.
func normalizeBox(mb []float64) (model.BBox, error) {
	if len(mb) != 4 {
		return model.BBox{}, fmt.Errorf("invalid media box %v", mb)
	}
	x0, x1 := math.Min(mb[0], mb[2]), math.Max(mb[0], mb[2])
	y0, y1 := math.Min(mb[1], mb[3]), math.Max(mb[1], mb[3])
	box := model.NewBBox(x0, y0, x1-x0, y1-y0)
	if box.IsEmpty() {
		return model.BBox{}, fmt.Errorf("empty media box %v", mb)
	}
	return box, nil
}

// RenderPage draws a page at req.Scale and returns its text runs.
func (d *Document) RenderPage(ctx context.Context, req model.PageRenderRequest) (*render.Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.check(ctx, req.PageNumber); err != nil {
		return nil, err
	}
	box, err := d.mediaBox(req.PageNumber)
	if err != nil {
		return nil, err
	}
	p, err := d.load(req.PageNumber)
	if err != nil {
		return nil, err
	}
	if req.Scale <= 0 || math.IsNaN(req.Scale) || math.IsInf(req.Scale, 0) {
		return nil, fmt.Errorf("invalid scale %v", req.Scale)
	}

	w := int(math.Floor(box.Width * req.Scale))
	h := int(math.Floor(box.Height * req.Scale))
	if w < 1 || h < 1 || w*h > maxRasterPixels {
		return nil, fmt.Errorf("raster size %dx%d out of range", w, h)
	}

	runs, err := d.rd.ExtractTextFragments(p)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	transform := model.Viewport(box, req.Scale)
	raster := newRaster(w, h, d.opts.Background)
	frags := fragments(runs)

	if len(frags) == 0 {
		frags, err = d.renderScan(ctx, p, raster, transform)
		if err != nil {
			return nil, err
		}
	} else if err := drawRuns(ctx, raster, transform, runs, d.opts.Ink); err != nil {
		return nil, err
	}

	d.log.Debug("rendered page",
		slog.Int("page", req.PageNumber),
		slog.Float64("scale", req.Scale),
		slog.Int("fragments", len(frags)))

	return &render.Page{
		Raster:    raster,
		Transform: transform,
		Fragments: frags,
	}, nil
}

// Close releases the underlying file. Renders still waiting for the lock
// fail once it is released.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.rd.Close()
}

// fragments converts tabula runs to page-space fragments. Runs are
// horizontal with their origin on the baseline.
func fragments(runs []text.TextFragment) []model.Fragment {
	out := make([]model.Fragment, 0, len(runs))
	for _, r := range runs {
		size := r.FontSize
		if size <= 0 {
			size = r.Height
		}
		if size <= 0 || r.Text == "" {
			continue
		}
		out = append(out, model.Fragment{
			Text:      r.Text,
			Transform: model.Matrix{size, 0, 0, size, r.X, r.Y},
			Width:     r.Width,
		})
	}
	return out
}

func newRaster(w, h int, bg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c := color.RGBAModel.Convert(bg).(color.RGBA)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

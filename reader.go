package zenread

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/tsawler/zenread/library"
	"github.com/tsawler/zenread/model"
	"github.com/tsawler/zenread/overlay"
	"github.com/tsawler/zenread/pdfrender"
	"github.com/tsawler/zenread/render"
	"github.com/tsawler/zenread/session"
)

// Reader configures a reading session for one document. Each configuration
// method returns a new Reader, so a base configuration can be shared and
// extended safely.
type Reader struct {
	// Source
	path string

	// Configuration
	options ReadOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Reader with a deep copy of options.
func (r *Reader) clone() *Reader {
	return &Reader{
		path:    r.path,
		options: r.options.clone(),
		err:     r.err,
	}
}

// with returns a modified copy unless an error is already recorded.
func (r *Reader) with(fn func(*Reader)) *Reader {
	n := r.clone()
	if n.err == nil {
		fn(n)
	}
	return n
}

// ID sets the document identifier used for progress and the remembered
// page. It defaults to the path.
func (r *Reader) ID(id string) *Reader {
	return r.with(func(n *Reader) { n.options.id = id })
}

// Speed sets the initial pacer speed in words per minute. Values outside
// the supported range are clamped.
func (r *Reader) Speed(wpm int) *Reader {
	return r.with(func(n *Reader) { n.options.speed = wpm })
}

// Pacing starts the session with the pacer running.
func (r *Reader) Pacing() *Reader {
	return r.with(func(n *Reader) { n.options.pacing = true })
}

// Zoom sets the initial user zoom. It is clamped to the supported range.
func (r *Reader) Zoom(z float64) *Reader {
	return r.with(func(n *Reader) {
		if z <= 0 || math.IsNaN(z) || math.IsInf(z, 0) {
			n.err = fmt.Errorf("invalid zoom %v", z)
			return
		}
		n.options.zoom = z
	})
}

// Quality overrides the raster oversampling multiplier.
func (r *Reader) Quality(q float64) *Reader {
	return r.with(func(n *Reader) {
		if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
			n.err = fmt.Errorf("invalid quality %v", q)
			return
		}
		n.options.quality = q
	})
}

// Viewport sets the area the page is fitted to, in CSS pixels, with the
// device pixel ratio.
func (r *Reader) Viewport(width, height, pixelRatio float64) *Reader {
	return r.with(func(n *Reader) {
		n.options.viewport.Size = model.Size{Width: width, Height: height}
		n.options.viewport.PixelRatio = pixelRatio
	})
}

// Compact selects touch-first layout and timings.
func (r *Reader) Compact() *Reader {
	return r.with(func(n *Reader) { n.options.viewport.Compact = true })
}

// Controls marks viewport regions that keep the chrome visible while the
// pointer rests on them.
func (r *Reader) Controls(regions ...model.BBox) *Reader {
	return r.with(func(n *Reader) {
		n.options.controls = append(n.options.controls, regions...)
	})
}

// Highlight sets the highlight mode ("glow", "underline" or "highlight")
// and, if not empty, its color as "#rgb" or "#rrggbb".
func (r *Reader) Highlight(mode, color string) *Reader {
	return r.with(func(n *Reader) {
		m, err := overlay.ParseMode(mode)
		if err != nil {
			n.err = err
			return
		}
		n.options.style.Mode = m
		if strings.TrimSpace(color) == "" {
			return
		}
		c, err := overlay.ParseColor(color)
		if err != nil {
			n.err = err
			return
		}
		n.options.style = n.options.style.WithColor(c)
	})
}

// OCR recognizes words on pages that have no text, using the given
// Tesseract language such as "eng". It requires a build with the "ocr" tag.
func (r *Reader) OCR(language string) *Reader {
	return r.with(func(n *Reader) {
		n.options.ocr = true
		n.options.ocrLanguage = language
	})
}

// Renderer replaces the PDF renderer.
func (r *Reader) Renderer(rd render.Renderer) *Reader {
	return r.with(func(n *Reader) { n.options.renderer = rd })
}

// Library records progress, reading time and the last page in store.
func (r *Reader) Library(store *library.Store) *Reader {
	return r.with(func(n *Reader) {
		if store == nil {
			n.options.listener, n.options.pages = nil, nil
			return
		}
		n.options.listener = store
		n.options.pages = store
	})
}

// Listener receives progress and reading time without persisting the last
// page.
func (r *Reader) Listener(l session.Listener) *Reader {
	return r.with(func(n *Reader) { n.options.listener = l })
}

// Style returns the configured highlight style.
func (r *Reader) Style() overlay.Style {
	return r.options.style
}

// Err returns the first configuration error, if any.
func (r *Reader) Err() error {
	return r.err
}

// Start opens the document. Load failures are reported as
// *render.LoadError.
func (r *Reader) Start(ctx context.Context) (*Session, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.path == "" {
		return nil, fmt.Errorf("no document specified")
	}

	o := r.options
	rd := o.renderer
	if rd == nil {
		rd = pdfrender.New(pdfrender.Options{OCR: o.ocr, OCRLanguage: o.ocrLanguage})
	}

	cfg := session.Config{
		DocumentID: o.id,
		Locator:    r.path,
		Renderer:   rd,
		Viewport:   o.viewport,
		Speed:      o.speed,
		Zoom:       o.zoom,
		Quality:    o.quality,
		Pacing:     o.pacing,
		Controls:   o.controls,
		Listener:   o.listener,
		Pages:      o.pages,
	}

	s, err := session.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Session{Surface: s, style: o.style}, nil
}

// Session is an open reading session with its highlight style.
type Session struct {
	*session.Surface
	style overlay.Style
}

// Style returns the highlight style.
func (s *Session) Style() overlay.Style {
	return s.style
}

// SetStyle changes the highlight style.
func (s *Session) SetStyle(st overlay.Style) {
	s.style = st
}

// Picture returns the page raster of f with the highlight drawn over it, or
// nil while nothing has been rendered.
func (s *Session) Picture(f session.Frame) *image.RGBA {
	if f.Render.Raster == nil {
		return nil
	}
	return overlay.Compose(f.Render.Raster, f.Highlight, s.style)
}

// DisplayPicture is Picture resampled from the oversampled raster to the
// page's on-screen size in CSS pixels.
func (s *Session) DisplayPicture(f session.Frame) *image.RGBA {
	pic := s.Picture(f)
	if pic == nil {
		return nil
	}
	l := f.Render.Layout
	if l.DisplayWidth == pic.Bounds().Dx() && l.DisplayHeight == pic.Bounds().Dy() {
		return pic
	}
	return overlay.Downscale(pic, l.DisplayWidth, l.DisplayHeight)
}

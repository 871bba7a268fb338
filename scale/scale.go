// Package scale computes how large a page is rasterized and displayed.
//
// The fit scale makes the page fill the viewport under the current layout
// rules. The user's zoom multiplies it, and the raster is oversampled by the
// device pixel ratio times a quality factor so the bitmap stays sharp when it
// is shown at its smaller display size:
//
//	r := scale.Resolve(scale.Input{
//	    Page:     model.Size{Width: 612, Height: 792},
//	    Viewport: model.Size{Width: 1280, Height: 800},
//	    PixelRatio: 2,
//	    UserZoom: 1.2,
//	})
//	// render at r.RasterScale, display at r.DisplayWidth x r.DisplayHeight
//
// Resolve is a pure function and is cheap enough to call on every layout
// change.
package scale

import (
	"math"

	"github.com/tsawler/zenread/model"
)

const (
	// CompactMargin is the viewport fraction used on compact layouts, which
	// scroll vertically and so use the full width.
	CompactMargin = 1.0

	// PointerMargin is the viewport fraction used on pointer-driven layouts.
	PointerMargin = 0.95

	// CompactQuality is the oversampling multiplier on compact layouts.
	CompactQuality = 1.2

	// PointerQuality is the oversampling multiplier on pointer layouts.
	PointerQuality = 1.5
)

// Input is everything the resolver depends on.
type Input struct {
	// Page is the page's intrinsic size at scale 1.
	Page model.Size

	// Viewport is the visible area in CSS pixels.
	Viewport model.Size

	// PixelRatio is the device pixel ratio. Values <= 0 count as 1.
	PixelRatio float64

	// Compact selects touch-first layout rules.
	Compact bool

	// UserZoom multiplies the fit scale.
	UserZoom float64

	// Quality overrides the oversampling multiplier when > 0. It is never
	// allowed below 1.
	Quality float64
}

// Result is the resolved scale for one page.
type Result struct {
	// FitScale fills the viewport before zoom is applied.
	FitScale float64

	// EffectiveScale is FitScale * UserZoom, in CSS pixels per page unit.
	EffectiveScale float64

	// Oversample is PixelRatio * quality.
	Oversample float64

	// RasterScale is the scale handed to the renderer.
	RasterScale float64

	// RasterWidth and RasterHeight are the bitmap size in device pixels.
	RasterWidth, RasterHeight int

	// DisplayWidth and DisplayHeight are the on-screen size in CSS pixels.
	DisplayWidth, DisplayHeight int
}

// Resolve computes the scales for in. Degenerate sizes are treated as 1 so
// the result is always finite and positive.
func Resolve(in Input) Result {
	pageW, pageH := positive(in.Page.Width), positive(in.Page.Height)
	viewW, viewH := positive(in.Viewport.Width), positive(in.Viewport.Height)

	margin := PointerMargin
	if in.Compact {
		margin = CompactMargin
	}

	scaleW := viewW * margin / pageW
	scaleH := viewH * margin / pageH

	fit := math.Min(scaleW, scaleH)
	if in.Compact && viewH > viewW {
		// portrait phones fit by width and scroll
		fit = scaleW
	}

	zoom := in.UserZoom
	if zoom <= 0 {
		zoom = 1
	}

	oversample := positive(in.PixelRatio) * quality(in)
	effective := fit * zoom
	raster := effective * oversample

	rw := int(math.Floor(pageW * raster))
	rh := int(math.Floor(pageH * raster))

	return Result{
		FitScale:       fit,
		EffectiveScale: effective,
		Oversample:     oversample,
		RasterScale:    raster,
		RasterWidth:    rw,
		RasterHeight:   rh,
		DisplayWidth:   int(math.Floor(float64(rw) / oversample)),
		DisplayHeight:  int(math.Floor(float64(rh) / oversample)),
	}
}

func quality(in Input) float64 {
	q := PointerQuality
	if in.Compact {
		q = CompactQuality
	}
	if in.Quality > 0 {
		q = in.Quality
	}
	return math.Max(q, 1)
}

func positive(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	return v
}

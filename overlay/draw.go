package overlay

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/tsawler/zenread/model"
	"github.com/tsawler/zenread/pacer"
)

const (
	shadowLayers = 5

	// highlightAlpha is the box alpha used by the Highlight mode.
	highlightAlpha = 80
)

// Draw paints h onto dst in raster pixel coordinates. A nil highlight, or
// one entirely outside dst, draws nothing.
func Draw(dst draw.Image, h *pacer.Highlight, s Style) {
	if h == nil || !visible(dst.Bounds(), h, s) {
		return
	}

	switch s.Mode {
	case Underline:
		drawUnderline(dst, h.Underline, s)
	case Highlight:
		box := s.Box
		box.A = highlightAlpha
		RoundedRect(dst, h.Glow, pacer.GlowRadius, box)
	default:
		RoundedRect(dst, h.Glow, pacer.GlowRadius, s.Box)
		drawUnderline(dst, h.Underline, s)
	}
}

func drawUnderline(dst draw.Image, r model.BBox, s Style) {
	if s.ShadowBlur > 0 && s.Shadow.A > 0 {
		layer := s.Shadow
		layer.A = uint8(math.Max(1, float64(s.Shadow.A)/shadowLayers))
		for i := shadowLayers; i >= 1; i-- {
			spread := s.ShadowBlur * float64(i) / (2 * shadowLayers)
			RoundedRect(dst, r.Expand(spread, spread), pacer.UnderlineRadius+spread, layer)
		}
	}
	RoundedRect(dst, r, pacer.UnderlineRadius, s.Line)
}

// visible reports whether any part of h, shadow included, falls inside
// bounds.
func visible(bounds image.Rectangle, h *pacer.Highlight, s Style) bool {
	if h == nil {
		return false
	}
	area := model.NewBBox(float64(bounds.Min.X), float64(bounds.Min.Y), float64(bounds.Dx()), float64(bounds.Dy()))
	return h.Bounds().Expand(s.ShadowBlur, s.ShadowBlur).Intersects(area)
}

// Compose returns a copy of src with h drawn over it. src is not modified.
func Compose(src *image.RGBA, h *pacer.Highlight, s Style) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	Draw(dst, h, s)
	return dst
}

// RoundedRect fills a rounded rectangle with c using source-over blending.
// Parts outside dst are clipped.
func RoundedRect(dst draw.Image, r model.BBox, radius float64, c color.Color) {
	if r.IsEmpty() {
		return
	}

	bounds := image.Rect(
		int(math.Floor(r.Left())),
		int(math.Floor(r.Top())),
		int(math.Ceil(r.Right())),
		int(math.Ceil(r.Bottom())),
	)
	if bounds.Intersect(dst.Bounds()).Empty() {
		return
	}

	w, h := bounds.Dx(), bounds.Dy()
	z := vector.NewRasterizer(w, h)
	roundedPath(z, r.X-float64(bounds.Min.X), r.Y-float64(bounds.Min.Y), r.Width, r.Height, radius)

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	draw.DrawMask(dst, bounds, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

// roundedPath adds a closed rounded rectangle to z. The radius is limited to
// half the shorter side.
func roundedPath(z *vector.Rasterizer, x, y, w, h, radius float64) {
	radius = math.Max(0, math.Min(radius, math.Min(w, h)/2))

	f := func(v float64) float32 { return float32(v) }
	right, bottom := x+w, y+h

	z.MoveTo(f(x+radius), f(y))
	z.LineTo(f(right-radius), f(y))
	z.QuadTo(f(right), f(y), f(right), f(y+radius))
	z.LineTo(f(right), f(bottom-radius))
	z.QuadTo(f(right), f(bottom), f(right-radius), f(bottom))
	z.LineTo(f(x+radius), f(bottom))
	z.QuadTo(f(x), f(bottom), f(x), f(bottom-radius))
	z.LineTo(f(x), f(y+radius))
	z.QuadTo(f(x), f(y), f(x+radius), f(y))
	z.ClosePath()
}

// Downscale resamples src to width x height with Catmull-Rom filtering. It
// is used to bring an oversampled raster back to its display size.
func Downscale(src image.Image, width, height int) *image.RGBA {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

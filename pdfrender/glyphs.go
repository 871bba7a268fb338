package pdfrender

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/tsawler/tabula/text"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/zenread/model"
)

// minShrink bounds how far a run is condensed to fit its reported advance.
const minShrink = 0.5

// checkEvery is how many runs are drawn between context checks.
const checkEvery = 64

type face int

const (
	faceRegular face = iota
	faceBold
	faceItalic
	faceBoldItalic
	faceMono
)

var (
	fontsOnce sync.Once
	fonts     [5]*truetype.Font
	fontsErr  error
)

func loadFonts() ([5]*truetype.Font, error) {
	fontsOnce.Do(func() {
		for i, data := range [][]byte{
			goregular.TTF,
			gobold.TTF,
			goitalic.TTF,
			gobolditalic.TTF,
			gomono.TTF,
		} {
			f, err := truetype.Parse(data)
			if err != nil {
				fontsErr = fmt.Errorf("failed to parse built-in font: %w", err)
				return
			}
			fonts[i] = f
		}
	})
	return fonts, fontsErr
}

// faceFor picks a Go font for a PDF base font name such as
// "Helvetica-BoldOblique" or "ABCDEF+TimesNewRoman,Italic".
func faceFor(name string) face {
	n := strings.ToLower(name)
	if strings.Contains(n, "courier") || strings.Contains(n, "mono") {
		return faceMono
	}
	bold := strings.Contains(n, "bold") || strings.Contains(n, "black") || strings.Contains(n, "heavy")
	italic := strings.Contains(n, "italic") || strings.Contains(n, "oblique")
	switch {
	case bold && italic:
		return faceBoldItalic
	case bold:
		return faceBold
	case italic:
		return faceItalic
	}
	return faceRegular
}

// advance measures s at one pixel per em.
func advance(f *truetype.Font, s string) float64 {
	upem := f.FUnitsPerEm()
	if upem == 0 {
		return 0
	}
	var total fixed.Int26_6
	prev := truetype.Index(0)
	for i, r := range s {
		idx := f.Index(r)
		if i > 0 {
			total += f.Kern(fixed.Int26_6(upem), prev, idx)
		}
		total += f.HMetric(fixed.Int26_6(upem), idx).AdvanceWidth
		prev = idx
	}
	return float64(total) / float64(upem)
}

// fitSize returns the pixel size to draw s at so that it spans no more than
// width pixels. Sizes are never condensed below minShrink.
func fitSize(f *truetype.Font, s string, size, width float64) float64 {
	if width <= 0 {
		return size
	}
	natural := advance(f, s) * size
	if natural <= width || natural == 0 {
		return size
	}
	ratio := width / natural
	if ratio < minShrink {
		ratio = minShrink
	}
	return size * ratio
}

// drawRuns typesets the runs onto dst. transform maps page space to dst.
func drawRuns(ctx context.Context, dst *image.RGBA, transform model.Matrix, runs []text.TextFragment, ink color.Color) error {
	set, err := loadFonts()
	if err != nil {
		return err
	}

	scale := transform.HorizontalScale()
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetClip(dst.Bounds())
	c.SetDst(dst)
	c.SetSrc(image.NewUniform(ink))
	c.SetHinting(font.HintingNone)

	for i, r := range runs {
		if i%checkEvery == 0 {
			if err := cancelled(ctx); err != nil {
				return err
			}
		}

		s := strings.TrimRight(r.Text, " \t\r\n")
		size := r.FontSize
		if size <= 0 {
			size = r.Height
		}
		if strings.TrimSpace(s) == "" || size <= 0 {
			continue
		}

		f := set[faceFor(r.FontName)]
		px := fitSize(f, s, size*scale, advanceFor(r, s)*scale)

		o := transform.Transform(model.Point{X: r.X, Y: r.Y})
		c.SetFont(f)
		c.SetFontSize(px)
		if _, err := c.DrawString(s, fixed.Point26_6{
			X: fixed.Int26_6(o.X * 64),
			Y: fixed.Int26_6(o.Y * 64),
		}); err != nil {
			return fmt.Errorf("failed to draw text: %w", err)
		}
	}
	return nil
}

// advanceFor returns the reported advance of the visible part of a run.
// Trailing whitespace is trimmed before drawing, so its share of the
// advance is removed in proportion to its rune count.
func advanceFor(r text.TextFragment, visible string) float64 {
	total := len([]rune(r.Text))
	if total == 0 {
		return 0
	}
	return r.Width * float64(len([]rune(visible))) / float64(total)
}

package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/zenread/model"
	"github.com/tsawler/zenread/pacer"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 255, 255, 255, 255
	}
	return img
}

func TestRoundedRectFillsInterior(t *testing.T) {
	img := blank(100, 60)
	c := color.NRGBA{R: 255, G: 107, B: 0, A: 255}

	RoundedRect(img, model.NewBBox(10, 10, 40, 20), 8, c)

	assert.Equal(t, color.RGBA{R: 255, G: 107, B: 0, A: 255}, img.RGBAAt(30, 20))
	// the corner is cut by the radius
	assert.Equal(t, white, img.RGBAAt(10, 10))
	// outside the box
	assert.Equal(t, white, img.RGBAAt(60, 20))
}

func TestRoundedRectClipsToDestination(t *testing.T) {
	img := blank(20, 20)
	c := color.NRGBA{A: 255}

	assert.NotPanics(t, func() {
		RoundedRect(img, model.NewBBox(-10, -10, 25, 25), 4, c)
		RoundedRect(img, model.NewBBox(15, 15, 30, 30), 4, c)
		RoundedRect(img, model.NewBBox(100, 100, 5, 5), 4, c)
		RoundedRect(img, model.NewBBox(5, 5, 0, 5), 4, c)
	})
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(19, 19))
	assert.Equal(t, white, img.RGBAAt(5, 17))
}

func TestDrawNilHighlight(t *testing.T) {
	img := blank(10, 10)
	Draw(img, nil, DefaultStyle())
	assert.Equal(t, blank(10, 10).Pix, img.Pix)
}

func TestDrawModes(t *testing.T) {
	h := pacer.HighlightFor(model.WordToken{Text: "word", X: 20, Y: 20, Width: 60, Height: 20})

	tests := []struct {
		mode      Mode
		boxTinted bool
		underline bool
	}{
		{Glow, true, true},
		{Underline, false, true},
		{Highlight, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			img := blank(120, 80)
			s := DefaultStyle()
			s.Mode = tt.mode
			Draw(img, &h, s)

			box := img.RGBAAt(50, 30)
			assert.Equal(t, tt.boxTinted, box != white, "box pixel %v", box)

			line := img.RGBAAt(50, 43)
			if tt.underline {
				assert.Equal(t, color.RGBA{R: 255, G: 107, B: 0, A: 255}, line)
			} else {
				assert.Equal(t, white, line)
			}
		})
	}
}

func TestComposeLeavesSourceIntact(t *testing.T) {
	src := blank(120, 80)
	h := pacer.HighlightFor(model.WordToken{X: 20, Y: 20, Width: 60, Height: 20})

	out := Compose(src, &h, DefaultStyle())

	require.Equal(t, src.Bounds(), out.Bounds())
	assert.Equal(t, blank(120, 80).Pix, src.Pix)
	assert.NotEqual(t, src.Pix, out.Pix)
}

func TestDownscale(t *testing.T) {
	out := Downscale(blank(300, 150), 100, 50)
	assert.Equal(t, image.Rect(0, 0, 100, 50), out.Bounds())
	px := out.RGBAAt(50, 25)
	assert.GreaterOrEqual(t, px.R, uint8(250))
	assert.GreaterOrEqual(t, px.A, uint8(250))

	assert.Equal(t, image.Rect(0, 0, 1, 1), Downscale(blank(3, 3), 0, -1).Bounds())
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#ff6b00", color.NRGBA{R: 255, G: 107, B: 0, A: 255}, false},
		{"FF6B00", color.NRGBA{R: 255, G: 107, B: 0, A: 255}, false},
		{"#f60", color.NRGBA{R: 255, G: 102, B: 0, A: 255}, false},
		{"#12345", color.NRGBA{}, true},
		{"#zzzzzz", color.NRGBA{}, true},
		{"", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{Glow, Underline, Highlight} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Glow, got)

	_, err = ParseMode("sparkle")
	assert.Error(t, err)
}

func TestWithColor(t *testing.T) {
	s := DefaultStyle().WithColor(color.NRGBA{R: 0, G: 128, B: 255, A: 255})

	assert.Equal(t, color.NRGBA{R: 0, G: 128, B: 255, A: 255}, s.Line)
	assert.Equal(t, uint8(31), s.Box.A)
	assert.Equal(t, uint8(102), s.Shadow.A)
	assert.Equal(t, uint8(128), s.Box.G)
}

func TestDrawSkipsHighlightOutsideRaster(t *testing.T) {
	s := DefaultStyle()
	word := model.WordToken{Text: "far", X: 500, Y: 500, Width: 30, Height: 10}
	h := pacer.HighlightFor(word)

	assert.False(t, visible(image.Rect(0, 0, 100, 100), &h, s))
	assert.False(t, visible(image.Rect(0, 0, 100, 100), nil, s))

	img := blank(100, 100)
	Draw(img, &h, s)
	assert.Equal(t, blank(100, 100).Pix, img.Pix)

	// Only the shadow reaches into the raster.
	near := pacer.HighlightFor(model.WordToken{Text: "edge", X: 10, Y: 104, Width: 30, Height: 10})
	assert.True(t, visible(image.Rect(0, 0, 100, 100), &near, s))

	inside := pacer.HighlightFor(model.WordToken{Text: "in", X: 10, Y: 10, Width: 30, Height: 10})
	assert.True(t, visible(image.Rect(0, 0, 100, 100), &inside, s))
}

package pacer

import "github.com/tsawler/zenread/model"

const (
	// GlowPadding is the horizontal padding of the glow box on each side.
	GlowPadding = 4.0

	// GlowRadius is the corner radius of the glow box.
	GlowRadius = 8.0

	// UnderlineGap is the space between the word box and its underline.
	UnderlineGap = 2.0

	// UnderlineHeight is the thickness of the underline.
	UnderlineHeight = 4.0

	// UnderlineRadius is the corner radius of the underline.
	UnderlineRadius = 2.0
)

// Highlight is the overlay geometry for the word under the cursor, in
// raster pixel space.
type Highlight struct {
	Index     int
	Word      model.WordToken
	Glow      model.BBox
	Underline model.BBox
}

// HighlightFor computes the glow and underline boxes for a word.
func HighlightFor(w model.WordToken) Highlight {
	return Highlight{
		Word: w,
		Glow: w.BBox().Expand(GlowPadding, 0),
		Underline: model.BBox{
			X:      w.X,
			Y:      w.Y + w.Height + UnderlineGap,
			Width:  w.Width,
			Height: UnderlineHeight,
		},
	}
}

// Bounds is the union of the glow and underline boxes.
func (h Highlight) Bounds() model.BBox {
	return h.Glow.Union(h.Underline)
}

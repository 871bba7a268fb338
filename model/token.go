package model

// Fragment is one positioned run of text as reported by a document
// renderer. It may hold several words.
type Fragment struct {
	// Text is the raw string, whitespace included.
	Text string

	// Transform maps glyph space to page space. The origin is the baseline
	// start; the vertical scale is the font size.
	Transform Matrix

	// Width is the advance of the whole run in page units.
	Width float64
}

// WordToken is a single word with its box in raster pixel space.
// Tokens are never mutated; a render replaces the whole slice.
type WordToken struct {
	Text   string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// BBox returns the token's bounding box.
func (t WordToken) BBox() BBox {
	return BBox{X: t.X, Y: t.Y, Width: t.Width, Height: t.Height}
}

// PageRenderRequest asks a renderer for one page at a raster scale.
// A newer request supersedes any older one from the same viewer.
type PageRenderRequest struct {
	PageNumber int // 1-based
	Scale      float64
}

package model

import "math"

// Point is a position in raster pixel space (origin top-left, Y down) or,
// for page-space values, PDF user space.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance to other.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// IsEmpty reports whether either dimension is not positive.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// BBox is an axis-aligned rectangle in raster space. Y is the top edge.
type BBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from its top-left corner and size.
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// Left returns the left edge.
func (b BBox) Left() float64 { return b.X }

// Right returns the right edge.
func (b BBox) Right() float64 { return b.X + b.Width }

// Top returns the top edge.
func (b BBox) Top() float64 { return b.Y }

// Bottom returns the bottom edge.
func (b BBox) Bottom() float64 { return b.Y + b.Height }

// Contains reports whether p lies inside the box, edges included.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Top() && p.Y <= b.Bottom()
}

// Intersects reports whether two boxes overlap or touch.
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right() < other.Left() ||
		b.Left() > other.Right() ||
		b.Bottom() < other.Top() ||
		b.Top() > other.Bottom())
}

// Union returns the smallest box containing both boxes.
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Top(), other.Top())
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())
	return BBox{X: x, Y: y, Width: right - x, Height: bottom - y}
}

// Expand grows the box by dx on the left and right and dy on the top and
// bottom. Negative values shrink it.
func (b BBox) Expand(dx, dy float64) BBox {
	return BBox{
		X:      b.X - dx,
		Y:      b.Y - dy,
		Width:  b.Width + 2*dx,
		Height: b.Height + 2*dy,
	}
}

// IsEmpty returns true if the box has no area.
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Matrix is a 2D affine transform [a b c d e f]:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix [6]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Transform applies the matrix to p.
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Multiply returns the transform that applies m first and then other.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Inverse returns the inverse transform. A singular matrix yields the
// identity and false.
func (m Matrix) Inverse() (Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return Identity(), false
	}
	return Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, true
}

// HorizontalScale is the length of the transformed unit X vector.
func (m Matrix) HorizontalScale() float64 {
	return math.Hypot(m[0], m[1])
}

// VerticalScale is the length of the transformed unit Y vector. For a text
// transform this is the glyph height in target units.
func (m Matrix) VerticalScale() float64 {
	return math.Hypot(m[2], m[3])
}

// Origin returns the translation component.
func (m Matrix) Origin() Point {
	return Point{X: m[4], Y: m[5]}
}

// Translate creates a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale creates a scaling matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Viewport returns the mapping from PDF user space (origin bottom-left,
// Y up) of a page with the given media box to raster pixels at scale.
func Viewport(mediaBox BBox, scale float64) Matrix {
	return Translate(-mediaBox.Left(), -(mediaBox.Y + mediaBox.Height)).Multiply(Scale(scale, -scale))
}

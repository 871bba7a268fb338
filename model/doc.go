// Package model defines the value types shared across zenread: raster-space
// geometry, the positioned text fragments a renderer reports, the word tokens
// the pacer walks over, and render requests.
//
// # Coordinate spaces
//
// Page space is PDF user space: points, origin bottom-left, Y up.
// Raster space is the rendered bitmap: pixels, origin top-left, Y down.
// [Viewport] builds the matrix between the two for a page at a given scale:
//
//	vp := model.Viewport(model.NewBBox(0, 0, 612, 792), 2.0)
//	p := vp.Transform(model.Point{X: 72, Y: 720}) // {144, 144}
//
// Matrices compose left to right: a.Multiply(b) applies a first, then b.
package model

// Package overlay draws the pacer highlight onto page rasters.
//
// Shapes are rounded rectangles rasterized with golang.org/x/image/vector
// into a small alpha mask covering only the shape, then composited over the
// destination. Drawing a highlight therefore touches a few hundred pixels,
// not the whole page, and is cheap enough to run every frame.
//
// Three styles are supported: Glow (soft box plus an underline with a
// shadow, the default), Underline and Highlight (a stronger box with no
// underline).
package overlay

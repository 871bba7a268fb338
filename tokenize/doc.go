// Package tokenize turns the positioned text fragments of one rendered page
// into an ordered list of word tokens with raster-space boxes.
//
// A fragment is a run of text placed by a single show-text operation. It can
// hold several words, a partial word, or trailing spaces. Tokenize splits each
// run on whitespace and shares the run's advance width among the pieces in
// proportion to their character counts:
//
//	tokens := tokenize.Tokenize(page.Transform, page.Fragments)
//
// The proportional split is an approximation. Real glyph advances differ
// ("iiii" is narrower than "WWWW"), so token boxes drift inside long runs of
// mixed-width glyphs. The pacer only needs a box that sits on the word, and
// this keeps the tokenizer independent of font metrics.
//
// # Reading order
//
// Tokens are sorted line-major: two tokens whose vertical distance exceeds
// half the first token's height are ordered top to bottom, otherwise left to
// right. See [Less].
package tokenize

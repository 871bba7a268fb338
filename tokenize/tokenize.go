package tokenize

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/zenread/model"
)

// Tokenize builds the reading-ordered word tokens for one page.
//
// page maps page space to raster pixels. Each fragment's transform is
// applied first, then page. Fragments that are empty after trimming are
// ignored. The result is deterministic for identical input.
func Tokenize(page model.Matrix, fragments []model.Fragment) []model.WordToken {
	pageScale := page.HorizontalScale()
	tokens := make([]model.WordToken, 0, len(fragments)*2)

	for _, frag := range fragments {
		if strings.TrimSpace(frag.Text) == "" {
			continue
		}
		tokens = appendFragment(tokens, frag, page, pageScale)
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		return Less(tokens[i], tokens[j])
	})
	return tokens
}

// appendFragment emits one token per word of frag.
func appendFragment(dst []model.WordToken, frag model.Fragment, page model.Matrix, pageScale float64) []model.WordToken {
	tx := frag.Transform.Multiply(page)
	height := tx.VerticalScale()
	origin := tx.Origin()
	top := origin.Y - height
	cursor := origin.X

	total := utf8.RuneCountInString(frag.Text)
	width := frag.Width * pageScale

	for _, piece := range Split(frag.Text) {
		pieceWidth := float64(utf8.RuneCountInString(piece)) / float64(total) * width
		if !isBlank(piece) {
			dst = append(dst, model.WordToken{
				Text:   norm.NFC.String(piece),
				X:      cursor,
				Y:      top,
				Width:  pieceWidth,
				Height: height,
			})
		}
		cursor += pieceWidth
	}
	return dst
}

// Less reports whether a comes before b in reading order. Tokens more than
// half of a's height apart vertically are ordered by Y; closer tokens are
// treated as one line and ordered by X.
func Less(a, b model.WordToken) bool {
	if math.Abs(a.Y-b.Y) > a.Height/2 {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// Split cuts s into alternating runs of whitespace and non-whitespace,
// keeping both. Concatenating the result gives back s.
func Split(s string) []string {
	var pieces []string
	start := 0
	inSpace := false

	for i, r := range s {
		space := unicode.IsSpace(r)
		if i == 0 {
			inSpace = space
			continue
		}
		if space != inSpace {
			pieces = append(pieces, s[start:i])
			start = i
			inSpace = space
		}
	}
	if start < len(s) {
		pieces = append(pieces, s[start:])
	}
	return pieces
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

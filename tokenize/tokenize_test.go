package tokenize

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/zenread/model"
)

// letterPage is a US-letter-ish page rendered at 2x.
var letterPage = model.Viewport(model.NewBBox(0, 0, 600, 800), 2)

// makeFragment creates a fragment at a baseline position in page space.
func makeFragment(text string, x, y, fontSize, width float64) model.Fragment {
	return model.Fragment{
		Text:      text,
		Transform: model.Matrix{fontSize, 0, 0, fontSize, x, y},
		Width:     width,
	}
}

func TestTokenizeSingleFragment(t *testing.T) {
	tokens := Tokenize(letterPage, []model.Fragment{
		makeFragment("Hello world", 100, 700, 10, 55),
	})

	require.Len(t, tokens, 2)

	assert.Equal(t, "Hello", tokens[0].Text)
	assert.InDelta(t, 200, tokens[0].X, 1e-9)
	assert.InDelta(t, 180, tokens[0].Y, 1e-9)
	assert.InDelta(t, 50, tokens[0].Width, 1e-9)
	assert.InDelta(t, 20, tokens[0].Height, 1e-9)

	// the separating space still consumes its share of the advance
	assert.Equal(t, "world", tokens[1].Text)
	assert.InDelta(t, 260, tokens[1].X, 1e-9)
	assert.InDelta(t, 50, tokens[1].Width, 1e-9)
}

func TestTokenizeSkipsBlankFragments(t *testing.T) {
	tokens := Tokenize(letterPage, []model.Fragment{
		makeFragment("   ", 10, 700, 10, 15),
		makeFragment("", 10, 680, 10, 0),
		makeFragment("\t\n", 10, 660, 10, 10),
	})
	assert.Empty(t, tokens)
}

func TestTokenizeRunOfWhitespace(t *testing.T) {
	tokens := Tokenize(model.Identity(), []model.Fragment{
		makeFragment("  a   bc ", 0, 100, 10, 90),
	})

	require.Len(t, tokens, 2)
	// 9 runes over 90 units: 10 per rune
	assert.InDelta(t, 20, tokens[0].X, 1e-9)
	assert.InDelta(t, 10, tokens[0].Width, 1e-9)
	assert.InDelta(t, 60, tokens[1].X, 1e-9)
	assert.InDelta(t, 20, tokens[1].Width, 1e-9)
}

// TestTokenizeWidthIsProportionalNotMeasured pins the approximation: the
// advance is shared by character count, so a run of narrow glyphs gets the
// same box as a run of wide ones.
func TestTokenizeWidthIsProportionalNotMeasured(t *testing.T) {
	tokens := Tokenize(model.Identity(), []model.Fragment{
		makeFragment("iiii WWWW", 0, 100, 10, 90),
	})

	require.Len(t, tokens, 2)
	assert.Equal(t, tokens[0].Width, tokens[1].Width)
	assert.InDelta(t, 40, tokens[0].Width, 1e-9)
}

func TestTokenizeNormalizesText(t *testing.T) {
	tokens := Tokenize(model.Identity(), []model.Fragment{
		makeFragment("cafe\u0301 au", 0, 100, 10, 80),
	})

	require.Len(t, tokens, 2)
	assert.Equal(t, "caf\u00e9", tokens[0].Text)
	// allotment uses the raw five runes of "café"
	assert.InDelta(t, 50, tokens[0].Width, 1e-9)
}

func TestTokenizeReadingOrder(t *testing.T) {
	// given out of order: second line first, then the first line right to left
	tokens := Tokenize(letterPage, []model.Fragment{
		makeFragment("third", 100, 680, 10, 25),
		makeFragment("second", 200, 700, 10, 30),
		makeFragment("first", 100, 701, 10, 25),
	})

	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	assert.Equal(t, []string{"first", "second", "third"}, texts)
}

func TestTokenizeDeterministic(t *testing.T) {
	frags := []model.Fragment{
		makeFragment("a b c", 10, 700, 10, 25),
		makeFragment("d e", 10, 680, 10, 15),
		makeFragment("f", 60, 700, 10, 5),
	}
	first := Tokenize(letterPage, frags)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Tokenize(letterPage, frags))
	}
}

func TestTokenizeOrderInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const fontSize = 12.0

	var frags []model.Fragment
	for line := 0; line < 12; line++ {
		y := 760 - float64(line)*fontSize*1.4
		x := 40.0
		for word := 0; word < 6; word++ {
			text := strings.Repeat("w", 1+rng.Intn(8))
			width := float64(len(text)) * fontSize * 0.5
			// small baseline jitter, well under half a line
			jitter := (rng.Float64() - 0.5) * fontSize * 0.3
			frags = append(frags, makeFragment(text, x, y+jitter, fontSize, width))
			x += width + fontSize*0.4
		}
	}
	rng.Shuffle(len(frags), func(i, j int) { frags[i], frags[j] = frags[j], frags[i] })

	tokens := Tokenize(letterPage, frags)
	require.Len(t, tokens, len(frags))

	for i := 0; i < len(tokens); i++ {
		for j := i + 1; j < len(tokens); j++ {
			a, b := tokens[i], tokens[j]
			if math.Abs(a.Y-b.Y) > a.Height/2 {
				assert.Less(t, a.Y, b.Y, "token %d %+v should be above token %d %+v", i, a, j, b)
			} else {
				assert.Less(t, a.X, b.X, "token %d %+v should be left of token %d %+v", i, a, j, b)
			}
		}
	}
}

func TestLess(t *testing.T) {
	base := model.WordToken{X: 100, Y: 100, Height: 20}

	tests := []struct {
		name  string
		other model.WordToken
		want  bool
	}{
		{"same line to the right", model.WordToken{X: 150, Y: 105, Height: 20}, true},
		{"same line to the left", model.WordToken{X: 50, Y: 95, Height: 20}, false},
		{"exactly half a line is the same line", model.WordToken{X: 50, Y: 110, Height: 20}, false},
		{"next line to the left", model.WordToken{X: 10, Y: 125, Height: 20}, true},
		{"previous line to the right", model.WordToken{X: 300, Y: 70, Height: 20}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Less(base, tt.other))
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"word", []string{"word"}},
		{"two words", []string{"two", " ", "words"}},
		{"  lead", []string{"  ", "lead"}},
		{"trail \t", []string{"trail", " \t"}},
		{"a b", []string{"a", " ", "b"}},
	}

	for _, tt := range tests {
		got := Split(tt.in)
		assert.Equal(t, tt.want, got, "Split(%q)", tt.in)
		assert.Equal(t, tt.in, strings.Join(got, ""))
	}
}

package overlay

import (
	"fmt"
	"image/color"
	"strings"
)

// Mode selects which shapes are drawn.
type Mode int

const (
	Glow Mode = iota
	Underline
	Highlight
)

// String returns a string representation of the mode
func (m Mode) String() string {
	switch m {
	case Glow:
		return "glow"
	case Underline:
		return "underline"
	case Highlight:
		return "highlight"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name as produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "glow", "":
		return Glow, nil
	case "underline":
		return Underline, nil
	case "highlight":
		return Highlight, nil
	}
	return Glow, fmt.Errorf("unknown highlight style %q", s)
}

// Style controls the look of the highlight.
type Style struct {
	Mode Mode

	// Box fills the glow box around the word.
	Box color.NRGBA

	// Line fills the underline.
	Line color.NRGBA

	// Shadow is the color of the underline shadow. ShadowBlur is its
	// spread in pixels; zero disables it.
	Shadow     color.NRGBA
	ShadowBlur float64
}

// DefaultStyle is a warm orange glow with an underline.
func DefaultStyle() Style {
	return Style{
		Mode:       Glow,
		Box:        color.NRGBA{R: 255, G: 120, B: 0, A: 31},
		Line:       color.NRGBA{R: 255, G: 107, B: 0, A: 255},
		Shadow:     color.NRGBA{R: 255, G: 107, B: 0, A: 102},
		ShadowBlur: 10,
	}
}

// WithColor returns a copy of s using c for the underline and shadow, and
// a translucent c for the box.
func (s Style) WithColor(c color.NRGBA) Style {
	s.Line = c
	s.Shadow = color.NRGBA{R: c.R, G: c.G, B: c.B, A: s.Shadow.A}
	s.Box = color.NRGBA{R: c.R, G: c.G, B: c.B, A: s.Box.A}
	return s
}

// ParseColor parses "#rgb" or "#rrggbb".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	c := color.NRGBA{A: 255}
	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%2x%2x%2x", &c.R, &c.G, &c.B)
	case 3:
		_, err = fmt.Sscanf(s, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("bad length")
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

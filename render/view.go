package render

import "github.com/tsawler/zenread/model"

const (
	// MinZoom and MaxZoom bound the user zoom multiplier.
	MinZoom = 0.3
	MaxZoom = 3.0

	// ZoomStep is the increment used by zoom in/out commands.
	ZoomStep = 0.1
)

// ViewState is the navigation state of an open document.
type ViewState struct {
	CurrentPage int
	PageCount   int
	UserZoom    float64

	// FitScale is derived from the last committed render.
	FitScale float64
}

// EffectiveScale is the display scale in CSS pixels per page unit.
func (v ViewState) EffectiveScale() float64 {
	return v.FitScale * v.UserZoom
}

// HasNextPage reports whether a page follows the current one.
func (v ViewState) HasNextPage() bool {
	return v.CurrentPage < v.PageCount
}

// Progress returns the reading progress as a rounded percentage.
func (v ViewState) Progress() int {
	if v.PageCount <= 0 {
		return 0
	}
	return int(float64(v.CurrentPage)/float64(v.PageCount)*100 + 0.5)
}

// ClampPage limits p to [1, count]. With an unknown count the page is 1.
func ClampPage(p, count int) int {
	if count < 1 || p < 1 {
		return 1
	}
	if p > count {
		return count
	}
	return p
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	if z < MinZoom || z != z {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Viewport describes the visible area the page is fitted to.
type Viewport struct {
	Size       model.Size
	PixelRatio float64
	Compact    bool
}

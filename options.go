package zenread

import (
	"github.com/tsawler/zenread/model"
	"github.com/tsawler/zenread/overlay"
	"github.com/tsawler/zenread/render"
	"github.com/tsawler/zenread/session"
)

// ReadOptions holds configuration for a reading session.
type ReadOptions struct {
	// Identity
	id string

	// Pacer
	speed  int  // words per minute, 0 keeps the engine default
	pacing bool // start with the pacer running

	// View
	zoom     float64
	quality  float64
	viewport render.Viewport
	controls []model.BBox

	// Presentation
	style overlay.Style

	// Text recognition on scanned pages
	ocr         bool
	ocrLanguage string

	// Collaborators
	renderer render.Renderer
	listener session.Listener
	pages    session.PageStore
}

// defaultOptions returns the default reading options.
func defaultOptions() ReadOptions {
	return ReadOptions{
		speed:  0,
		pacing: false,
		zoom:   1,
		viewport: render.Viewport{
			Size:       model.Size{Width: 1280, Height: 800},
			PixelRatio: 1,
		},
		style: overlay.DefaultStyle(),
	}
}

// clone creates a deep copy of ReadOptions.
func (o ReadOptions) clone() ReadOptions {
	newOpts := o

	// Deep copy controls slice
	if o.controls != nil {
		newOpts.controls = make([]model.BBox, len(o.controls))
		copy(newOpts.controls, o.controls)
	}

	return newOpts
}

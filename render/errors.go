package render

import (
	"context"
	"errors"
	"fmt"
)

// ErrCancelled is returned by a Document when a render is abandoned because a
// newer one superseded it. It is never surfaced to the user.
var ErrCancelled = errors.New("render cancelled")

// LoadError reports that a document could not be opened. It is fatal to the
// reading surface.
type LoadError struct {
	Locator string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Locator, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RenderError reports that a single page failed to render.
type RenderError struct {
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render page %d: %v", e.Page, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// IsCancelled reports whether err means the render was abandoned rather than
// failed.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

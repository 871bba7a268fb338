package render

import (
	"context"
	"image"

	"github.com/tsawler/zenread/model"
)

// Renderer opens documents.
type Renderer interface {
	// Open opens the document at locator. Malformed or unreachable input
	// is an error.
	Open(ctx context.Context, locator string) (Document, error)
}

// Document is an open document that can render its pages.
//
// RenderPage should honour ctx cancellation as well as it can. A render that
// cannot stop early may still return; its result is ignored.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// PageSize returns the intrinsic size of a 1-based page at scale 1.
	PageSize(ctx context.Context, page int) (model.Size, error)

	// RenderPage rasterizes a page and reports its text fragments.
	RenderPage(ctx context.Context, req model.PageRenderRequest) (*Page, error)

	// Close releases the document.
	Close() error
}

// Page is the output of one render.
type Page struct {
	// Raster is the page bitmap at the requested scale.
	Raster *image.RGBA

	// Transform maps page space to raster pixels.
	Transform model.Matrix

	// Fragments are the positioned text runs of the page in page space.
	Fragments []model.Fragment
}

// Open opens locator with r and wraps any failure in a *LoadError.
func Open(ctx context.Context, r Renderer, locator string) (Document, error) {
	doc, err := r.Open(ctx, locator)
	if err != nil {
		return nil, &LoadError{Locator: locator, Err: err}
	}
	return doc, nil
}

// Package render owns the view state of an open document and keeps a
// rendered page in sync with it.
//
// A [Controller] re-renders whenever the page, the zoom, or the viewport
// changes. Each render runs on its own goroutine and cancels the one before
// it. Results come back over a channel and are only applied from the
// goroutine that owns the controller, inside [Controller.Frame],
// [Controller.Poll] or [Controller.Await]:
//
//	c := render.NewController(ctx, doc, render.Options{
//	    OnCommit: engine.SetTokens,
//	})
//	defer c.Close()
//
//	for each frame {
//	    c.Frame(now)
//	    snap := c.Snapshot()
//	    draw(snap.Raster)
//	}
//
// A result is applied only if it belongs to the most recent request, so a
// slow render of an old page can never replace a newer one.
//
// # States
//
//	Idle -> Rendering -> Ready | Cancelled | Failed
//
// Failed renders surface a [*RenderError] in the snapshot and are not
// retried; navigating away and back renders again. Cancelled renders are
// expected and never reported.
//
// # Collaborators
//
// The document engine is reached through [Renderer] and [Document]. The pdfrender
// package provides the PDF implementation.
package render

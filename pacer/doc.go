// Package pacer advances a highlighted word cursor at a steady reading speed.
//
// An Engine is stepped once per display frame with a monotonic timestamp in
// milliseconds. Elapsed time accumulates until it covers one word interval
// (60000 / words-per-minute); a frame that covers several intervals skips
// several words at once and keeps the remainder, so irregular frame timing
// never drifts the long-run rate:
//
//	e := pacer.NewEngine(pager)
//	e.SetTokens(tokens)
//	e.SetEnabled(true)
//	e.SetPaused(false)
//	for now := range frames {
//	    f := e.Step(now)
//	    if f.Highlight != nil {
//	        draw(f.Highlight.Glow, f.Highlight.Underline)
//	    }
//	}
//
// When the cursor reaches the last word of a page the engine asks its Pager
// for the next page and waits briefly (PageTurnCarryMs) before resuming. On
// the last page it parks on the final word and pauses.
//
// An Engine is not safe for concurrent use. It is owned by the frame loop.
package pacer

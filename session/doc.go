// Package session is the reading surface: one open document with its render
// controller, pacing engine and input arbiter wired together.
//
// A Surface is driven by a frame loop owned by the caller. Input events are
// forwarded to Surface.Input between frames and Surface.Frame is called once
// per display refresh:
//
//	s, err := session.Open(ctx, session.Config{
//	    DocumentID: "dune",
//	    Locator:    "dune.pdf",
//	    Renderer:   pdfrender.New(),
//	    Viewport:   vp,
//	    Listener:   store,
//	    Pages:      store,
//	})
//	if err != nil {
//	    // *render.LoadError: show it and return to the library
//	}
//	defer s.Close()
//
//	for now := range ticks {
//	    f := s.Frame(now)
//	    draw(f)
//	    if f.Closed {
//	        break
//	    }
//	}
//
// All state is owned by the goroutine calling Frame. Page renders run in the
// background and are committed inside Frame.
package session

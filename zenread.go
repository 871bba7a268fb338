// Package zenread provides a fluent API for opening a document in a paced
// reading session.
//
// Basic usage:
//
//	s, err := zenread.Open("book.pdf").Start(ctx)
//	if err != nil {
//	    // handle error
//	}
//	defer s.Close()
//	for {
//	    f := s.Frame(time.Now())
//	    img := s.Picture(f)
//	    // present img
//	}
//
// With options:
//
//	s, err := zenread.Open("book.pdf").
//	    Speed(300).
//	    Zoom(1.2).
//	    Pacing().
//	    Library(store).
//	    Start(ctx)
//
// For finer control, the session, render and pacer packages are available
// directly.
package zenread

// Open returns a Reader for the document at path. Nothing is read until
// Start.
//
// Example:
//
//	s, err := zenread.Open("book.pdf").Start(ctx)
func Open(path string) *Reader {
	return &Reader{
		path:    path,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	s := zenread.Must(zenread.Open("book.pdf").Start(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

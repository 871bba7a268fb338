// Package logging holds the *slog.Logger shared by the zenread packages.
//
// Nothing is logged until a logger is installed:
//
//	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
//
// Packages obtain a component-scoped logger with For:
//
//	log := logging.For("render")
//	log.Debug("render started", slog.Int("page", 3))
package logging

import (
	"log/slog"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

// SetLogger installs sl as the package logger. A nil logger restores the
// default, which discards everything.
//
// SetLogger is safe for concurrent use.
func SetLogger(sl *slog.Logger) {
	if sl == nil {
		sl = slog.New(slog.DiscardHandler)
	}
	current.Store(sl)
}

// Logger returns the installed logger, or a discarding logger if none was set.
func Logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	l := slog.New(slog.DiscardHandler)
	current.CompareAndSwap(nil, l)
	return current.Load()
}

// For returns the package logger tagged with a component attribute.
func For(component string) *slog.Logger {
	return Logger().With(slog.String("component", component))
}

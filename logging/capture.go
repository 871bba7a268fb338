package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Record is one captured log line.
type Record struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// CaptureHandler is an slog.Handler that keeps records in memory. It is meant
// for tests that assert on what a component logged:
//
//	h := logging.NewCaptureHandler(slog.LevelDebug)
//	logging.SetLogger(slog.New(h))
//	defer logging.SetLogger(nil)
//	...
//	if h.Contains("render failed") { ... }
type CaptureHandler struct {
	level slog.Leveler
	store *captureStore
	attrs []slog.Attr
	group string
}

type captureStore struct {
	mu      sync.Mutex
	records []Record
}

// NewCaptureHandler returns a handler capturing records at or above level.
func NewCaptureHandler(level slog.Leveler) *CaptureHandler {
	if level == nil {
		level = slog.LevelDebug
	}
	return &CaptureHandler{level: level, store: &captureStore{}}
}

// Enabled implements slog.Handler.
func (h *CaptureHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	rec := Record{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   make(map[string]string, len(h.attrs)+r.NumAttrs()),
	}
	for _, a := range h.attrs {
		rec.Attrs[h.key(a.Key)] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[h.key(a.Key)] = a.Value.String()
		return true
	})

	h.store.mu.Lock()
	h.store.records = append(h.store.records, rec)
	h.store.mu.Unlock()
	return nil
}

func (h *CaptureHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

// WithAttrs implements slog.Handler.
func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

// WithGroup implements slog.Handler.
func (h *CaptureHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.key(name)
	return &next
}

// Records returns a copy of everything captured so far.
func (h *CaptureHandler) Records() []Record {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return append([]Record(nil), h.store.records...)
}

// Contains reports whether any captured message contains s.
func (h *CaptureHandler) Contains(s string) bool {
	for _, r := range h.Records() {
		if strings.Contains(r.Message, s) {
			return true
		}
	}
	return false
}

// Reset drops all captured records.
func (h *CaptureHandler) Reset() {
	h.store.mu.Lock()
	h.store.records = nil
	h.store.mu.Unlock()
}

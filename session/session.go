package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tsawler/zenread/input"
	"github.com/tsawler/zenread/logging"
	"github.com/tsawler/zenread/model"
	"github.com/tsawler/zenread/pacer"
	"github.com/tsawler/zenread/render"
)

// ErrEmptyDocument is reported when a document has no pages.
var ErrEmptyDocument = errors.New("document has no pages")

// Listener receives reading notifications. Calls are made on the frame
// goroutine and must return quickly.
type Listener interface {
	// OnProgress reports the rounded percentage of the document reached.
	OnProgress(id string, percent int)

	// OnReadingTime reports whole minutes of reading.
	OnReadingTime(minutes int)
}

// PageStore remembers the last page viewed per document.
type PageStore interface {
	LastPage(id string) int
	SetLastPage(id string, page int)
}

// Config describes the document to open and the collaborators to use.
type Config struct {
	DocumentID string
	Locator    string
	Renderer   render.Renderer
	Viewport   render.Viewport

	// Listener and Pages are optional.
	Listener Listener
	Pages    PageStore

	// Speed is the initial pacer speed in words per minute. Zero keeps the
	// engine default.
	Speed int

	// Zoom is the initial user zoom. Zero means 1.
	Zoom float64

	// Quality overrides the raster oversampling multiplier.
	Quality float64

	// Pacing starts the pacer enabled and running.
	Pacing bool

	// Controls are viewport regions that keep the chrome visible.
	Controls []model.BBox

	// IdleTimeout overrides the chrome auto-hide delay.
	IdleTimeout time.Duration
}

// Frame is what the presentation layer draws after one tick.
type Frame struct {
	Render     render.Snapshot
	Pacer      pacer.State
	Highlight  *pacer.Highlight
	Visibility input.Visibility

	// ScrollResets increments whenever the page changes; the shell scrolls
	// back to the top when it sees a new value.
	ScrollResets uint64

	Fullscreen bool
	Closed     bool
}

// Surface is an open reading session.
type Surface struct {
	id       string
	doc      render.Document
	listener Listener
	pages    PageStore
	log      *slog.Logger

	controller *render.Controller
	engine     *pacer.Engine
	arbiter    *input.Arbiter

	epoch       time.Time
	started     bool
	minuteStart time.Time

	highlight    *pacer.Highlight
	scrollResets uint64
	fullscreen   bool
	closeWanted  bool
	closed       bool
}

// Open loads the document and prepares the surface. The first render starts
// on the first Frame. Failure to open the document is a *render.LoadError.
func Open(ctx context.Context, cfg Config) (*Surface, error) {
	if cfg.Renderer == nil {
		return nil, &render.LoadError{Locator: cfg.Locator, Err: errors.New("no renderer configured")}
	}

	doc, err := render.Open(ctx, cfg.Renderer, cfg.Locator)
	if err != nil {
		return nil, err
	}
	if doc.PageCount() < 1 {
		doc.Close()
		return nil, &render.LoadError{Locator: cfg.Locator, Err: ErrEmptyDocument}
	}

	s := &Surface{
		id:       cfg.DocumentID,
		doc:      doc,
		listener: cfg.Listener,
		pages:    cfg.Pages,
		log:      logging.For("session"),
	}
	if s.id == "" {
		s.id = cfg.Locator
	}

	s.engine = pacer.NewEngine(s)
	if cfg.Speed != 0 {
		s.engine.SetSpeed(cfg.Speed)
	}
	if cfg.Pacing {
		s.engine.SetEnabled(true)
		s.engine.SetPaused(false)
	}

	s.controller = render.NewController(ctx, doc, render.Options{
		Quality:  cfg.Quality,
		OnCommit: s.engine.SetTokens,
	})
	s.controller.SetViewport(time.Time{}, cfg.Viewport)
	if cfg.Zoom != 0 {
		s.controller.SetZoom(cfg.Zoom)
	}
	if s.pages != nil {
		s.controller.SetPage(s.pages.LastPage(s.id))
	}

	s.arbiter = input.NewArbiter(s, input.Options{
		Compact:     cfg.Viewport.Compact,
		IdleTimeout: cfg.IdleTimeout,
		Controls:    cfg.Controls,
	})

	view := s.controller.View()
	s.log.Info("document opened",
		slog.String("id", s.id),
		slog.String("locator", cfg.Locator),
		slog.Int("pages", view.PageCount),
		slog.Int("page", view.CurrentPage))
	s.reportProgress()

	return s, nil
}

// ID returns the document identifier.
func (s *Surface) ID() string {
	return s.id
}

// Input returns the arbiter that input events should be sent to.
func (s *Surface) Input() *input.Arbiter {
	return s.arbiter
}

// View returns the current view state.
func (s *Surface) View() render.ViewState {
	return s.controller.View()
}

// Pacer returns the pacing state.
func (s *Surface) Pacer() pacer.State {
	return s.engine.Snapshot()
}

// SetViewport reports a new window size or density.
func (s *Surface) SetViewport(now time.Time, vp render.Viewport) {
	s.controller.SetViewport(now, vp)
}

// SetSpeed sets the pacer speed.
func (s *Surface) SetSpeed(wpm int) {
	s.engine.SetSpeed(wpm)
}

// SetPacing turns the pacer on or off and starts or pauses it to match.
func (s *Surface) SetPacing(on bool) {
	s.engine.SetEnabled(on)
	s.engine.SetPaused(!on)
}

// GoToPage jumps to page p, clamped to the document. The pacer holds no
// words until the new page commits, so it cannot walk a page that is not yet
// on screen.
func (s *Surface) GoToPage(p int) {
	s.engine.Reset()
	if s.controller.SetPage(p) {
		s.engine.SetTokens(nil)
		s.pageChanged()
	}
}

// Frame advances the surface by one display refresh.
func (s *Surface) Frame(now time.Time) Frame {
	if s.closed {
		return s.snapshot()
	}
	if !s.started {
		s.started = true
		s.epoch = now
		s.minuteStart = now
	}

	s.arbiter.Tick(now)
	s.controller.Frame(now)

	step := s.engine.Step(float64(now.Sub(s.epoch)) / float64(time.Millisecond))
	s.highlight = step.Highlight
	if step.Finished {
		s.log.Info("reached end of document", slog.String("id", s.id))
	}

	if now.Sub(s.minuteStart) >= time.Minute {
		s.minuteStart = now
		if s.listener != nil {
			s.listener.OnReadingTime(1)
		}
	}

	s.arbiter.BeginTick()
	return s.snapshot()
}

// Await blocks until the pending render has been committed or ctx is done.
// It is meant for headless use; a frame loop never needs it.
func (s *Surface) Await(ctx context.Context) error {
	return s.controller.Await(ctx)
}

// Snapshot returns the current frame without advancing time.
func (s *Surface) Snapshot() Frame {
	return s.snapshot()
}

func (s *Surface) snapshot() Frame {
	return Frame{
		Render:       s.controller.Snapshot(),
		Pacer:        s.engine.Snapshot(),
		Highlight:    s.highlight,
		Visibility:   s.arbiter.Visibility(),
		ScrollResets: s.scrollResets,
		Fullscreen:   s.fullscreen,
		Closed:       s.closeWanted || s.closed,
	}
}

// Close cancels any render in flight and releases the document. It is safe
// to call more than once.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.controller.Close()

	var errs []error
	if err := s.doc.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close document: %w", err))
	}
	if f, ok := s.pages.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("failed to save last page: %w", err))
		}
	}

	s.log.Info("document closed", slog.String("id", s.id))
	return errors.Join(errs...)
}

// Dispatch applies a command from the input arbiter.
func (s *Surface) Dispatch(cmd input.Command) {
	switch cmd {
	case input.PrevPage:
		s.GoToPage(s.controller.View().CurrentPage - 1)
	case input.NextPage:
		s.GoToPage(s.controller.View().CurrentPage + 1)
	case input.TogglePause:
		s.engine.TogglePause()
	case input.Close:
		s.closeWanted = true
	case input.ZoomIn:
		s.controller.ZoomBy(render.ZoomStep)
	case input.ZoomOut:
		s.controller.ZoomBy(-render.ZoomStep)
	case input.ZoomReset:
		s.controller.ResetZoom()
	case input.ToggleFullscreen:
		s.fullscreen = !s.fullscreen
	case input.TogglePacer:
		s.engine.ToggleEnabled()
	case input.SpeedUp:
		s.engine.AdjustSpeed(pacer.SpeedStep)
	case input.SpeedDown:
		s.engine.AdjustSpeed(-pacer.SpeedStep)
	case input.ResetCursor:
		s.engine.Reset()
	}
}

// Zoom returns the user zoom.
func (s *Surface) Zoom() float64 {
	return s.controller.View().UserZoom
}

// SetZoom sets the user zoom.
func (s *Surface) SetZoom(z float64) {
	s.controller.SetZoom(z)
}

// HasNextPage reports whether a page follows the current one.
func (s *Surface) HasNextPage() bool {
	return s.controller.View().HasNextPage()
}

// NextPage turns forward one page on behalf of the pacer.
func (s *Surface) NextPage() {
	s.GoToPage(s.controller.View().CurrentPage + 1)
}

func (s *Surface) pageChanged() {
	s.scrollResets++
	page := s.controller.View().CurrentPage
	if s.pages != nil {
		s.pages.SetLastPage(s.id, page)
	}
	s.log.Debug("page changed", slog.String("id", s.id), slog.Int("page", page))
	s.reportProgress()
}

func (s *Surface) reportProgress() {
	if s.listener != nil {
		s.listener.OnProgress(s.id, s.controller.View().Progress())
	}
}

package render

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/tsawler/zenread/internal/deadline"
	"github.com/tsawler/zenread/logging"
	"github.com/tsawler/zenread/model"
	"github.com/tsawler/zenread/scale"
	"github.com/tsawler/zenread/tokenize"
)

// DefaultResizeDebounce coalesces bursts of viewport changes.
const DefaultResizeDebounce = 50 * time.Millisecond

// Status is the render state machine position.
type Status int

const (
	Idle Status = iota
	Rendering
	Ready
	Cancelled
	Failed
)

// String returns a string representation of the status
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	case Ready:
		return "ready"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options configures a Controller.
type Options struct {
	// Quality overrides the oversampling multiplier (see scale.Input).
	Quality float64

	// ResizeDebounce delays renders after viewport changes. Zero means
	// DefaultResizeDebounce.
	ResizeDebounce time.Duration

	// OnCommit runs on the owning goroutine after a render is applied,
	// with the new token list. The pacer resets itself here.
	OnCommit func(tokens []model.WordToken)
}

// Snapshot is a read-only view of the controller for presentation layers.
// Raster and Tokens are shared with the controller and must not be modified.
type Snapshot struct {
	View       ViewState
	Status     Status
	Err        error
	Raster     *image.RGBA
	Layout     scale.Result
	Tokens     []model.WordToken
	Page       int // page shown by Raster
	Generation uint64
}

type result struct {
	gen    uint64
	req    model.PageRenderRequest
	layout scale.Result
	page   *Page
	tokens []model.WordToken
	err    error
}

// Controller keeps a rendered page in sync with the view state.
// Its methods must be called from a single goroutine.
type Controller struct {
	doc  Document
	opts Options
	log  *slog.Logger

	base     context.Context
	stopBase context.CancelFunc

	view     ViewState
	viewport Viewport
	status   Status
	err      error

	dirty  bool
	resize deadline.Timer

	gen     uint64
	cancel  context.CancelFunc
	results chan result
	done    chan struct{}
	closed  bool

	raster    *image.RGBA
	layout    scale.Result
	tokens    []model.WordToken
	shownPage int
	committed uint64
}

// NewController creates a controller for doc, positioned on page 1 at zoom
// 1. The first render starts on the first Frame.
func NewController(ctx context.Context, doc Document, opts Options) *Controller {
	if opts.ResizeDebounce <= 0 {
		opts.ResizeDebounce = DefaultResizeDebounce
	}
	base, stop := context.WithCancel(ctx)
	return &Controller{
		doc:      doc,
		opts:     opts,
		log:      logging.For("render"),
		base:     base,
		stopBase: stop,
		view: ViewState{
			CurrentPage: 1,
			PageCount:   doc.PageCount(),
			UserZoom:    1,
		},
		dirty:   true,
		results: make(chan result, 4),
		done:    make(chan struct{}),
	}
}

// View returns the current view state.
func (c *Controller) View() ViewState {
	return c.view
}

// Status returns the state machine position.
func (c *Controller) Status() Status {
	return c.status
}

// Tokens returns the tokens of the committed page. The slice is shared and
// must not be modified.
func (c *Controller) Tokens() []model.WordToken {
	return c.tokens
}

// Snapshot returns the presentation view of the controller.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		View:       c.view,
		Status:     c.status,
		Err:        c.err,
		Raster:     c.raster,
		Layout:     c.layout,
		Tokens:     c.tokens,
		Page:       c.shownPage,
		Generation: c.committed,
	}
}

// SetPage moves to page p, clamped to the document. It reports whether the
// page changed.
func (c *Controller) SetPage(p int) bool {
	p = ClampPage(p, c.view.PageCount)
	if p == c.view.CurrentPage {
		return false
	}
	c.view.CurrentPage = p
	c.dirty = true
	return true
}

// NextPage moves forward one page if possible.
func (c *Controller) NextPage() bool {
	return c.SetPage(c.view.CurrentPage + 1)
}

// PrevPage moves back one page if possible.
func (c *Controller) PrevPage() bool {
	return c.SetPage(c.view.CurrentPage - 1)
}

// SetZoom sets the user zoom, clamped to [MinZoom, MaxZoom]. It reports
// whether the zoom changed.
func (c *Controller) SetZoom(z float64) bool {
	z = ClampZoom(z)
	if z == c.view.UserZoom {
		return false
	}
	c.view.UserZoom = z
	c.dirty = true
	return true
}

// ZoomBy adds delta to the user zoom.
func (c *Controller) ZoomBy(delta float64) bool {
	return c.SetZoom(c.view.UserZoom + delta)
}

// ResetZoom restores zoom 1.
func (c *Controller) ResetZoom() bool {
	return c.SetZoom(1)
}

// SetViewport records a new viewport. Before the first render it applies
// immediately; afterwards the render is debounced.
func (c *Controller) SetViewport(now time.Time, vp Viewport) {
	if vp == c.viewport {
		return
	}
	c.viewport = vp
	if c.gen == 0 {
		c.dirty = true
		return
	}
	c.resize.Reset(now, c.opts.ResizeDebounce)
}

// Frame advances the controller by one tick: it fires the resize debounce,
// starts a render if anything changed, and applies finished renders.
func (c *Controller) Frame(now time.Time) {
	if c.closed {
		return
	}
	if c.resize.Fire(now) {
		c.dirty = true
	}
	if c.dirty {
		c.start()
	}
	c.Poll()
}

// Poll applies any finished renders without blocking.
func (c *Controller) Poll() {
	for {
		select {
		case r := <-c.results:
			c.apply(r)
		default:
			return
		}
	}
}

// Await blocks until the latest render has been applied or ctx is done.
// Pending changes are started first.
func (c *Controller) Await(ctx context.Context) error {
	if c.closed {
		return nil
	}
	if c.dirty {
		c.start()
	}
	for c.status == Rendering {
		select {
		case r := <-c.results:
			c.apply(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close cancels any in-flight render. It is safe to call more than once.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	c.stopBase()
	close(c.done)
	c.resize.Stop()
}

// start supersedes any in-flight render with one for the current state.
func (c *Controller) start() {
	c.dirty = false
	c.resize.Stop()
	if c.cancel != nil {
		c.cancel()
	}

	c.gen++
	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel
	c.status = Rendering

	j := job{
		gen:  c.gen,
		page: c.view.CurrentPage,
		input: scale.Input{
			Viewport:   c.viewport.Size,
			PixelRatio: c.viewport.PixelRatio,
			Compact:    c.viewport.Compact,
			UserZoom:   c.view.UserZoom,
			Quality:    c.opts.Quality,
		},
	}
	c.log.Debug("render started",
		slog.Int("page", j.page),
		slog.Uint64("gen", j.gen),
		slog.Float64("zoom", c.view.UserZoom))

	go c.run(ctx, j)
}

type job struct {
	gen   uint64
	page  int
	input scale.Input
}

// run executes on a worker goroutine and touches no controller state
// except the results channel.
func (c *Controller) run(ctx context.Context, j job) {
	r := result{gen: j.gen, req: model.PageRenderRequest{PageNumber: j.page}}

	size, err := c.doc.PageSize(ctx, j.page)
	if err != nil {
		r.err = err
		c.deliver(r)
		return
	}
	j.input.Page = size
	r.layout = scale.Resolve(j.input)
	r.req.Scale = r.layout.RasterScale

	if err := ctx.Err(); err != nil {
		r.err = err
		c.deliver(r)
		return
	}

	page, err := c.doc.RenderPage(ctx, r.req)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		r.err = err
		c.deliver(r)
		return
	}

	r.page = page
	r.tokens = tokenize.Tokenize(page.Transform, page.Fragments)
	c.deliver(r)
}

func (c *Controller) deliver(r result) {
	select {
	case c.results <- r:
	case <-c.done:
	}
}

// apply commits r if it is still the latest request.
func (c *Controller) apply(r result) {
	if r.gen != c.gen {
		c.log.Debug("discarding superseded render",
			slog.Int("page", r.req.PageNumber),
			slog.Uint64("gen", r.gen),
			slog.Uint64("latest", c.gen))
		return
	}

	if r.err != nil {
		if IsCancelled(r.err) {
			c.status = Cancelled
			return
		}
		c.status = Failed
		c.err = &RenderError{Page: r.req.PageNumber, Err: r.err}
		c.log.Warn("render failed",
			slog.Int("page", r.req.PageNumber),
			slog.String("error", r.err.Error()))
		return
	}

	c.status = Ready
	c.err = nil
	c.raster = r.page.Raster
	c.layout = r.layout
	c.tokens = r.tokens
	c.shownPage = r.req.PageNumber
	c.committed = r.gen
	c.view.FitScale = r.layout.FitScale

	c.log.Debug("render committed",
		slog.Int("page", r.req.PageNumber),
		slog.Uint64("gen", r.gen),
		slog.Int("tokens", len(r.tokens)))

	if c.opts.OnCommit != nil {
		c.opts.OnCommit(r.tokens)
	}
}

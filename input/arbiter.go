package input

import (
	"math"
	"time"

	"github.com/tsawler/zenread/internal/deadline"
	"github.com/tsawler/zenread/model"
	"github.com/tsawler/zenread/render"
)

const (
	// CompactIdleTimeout hides the chrome on touch-first layouts.
	CompactIdleTimeout = 5 * time.Second

	// PointerIdleTimeout hides the chrome on pointer layouts.
	PointerIdleTimeout = 2 * time.Second

	// SwipeDistance is the horizontal travel a swipe must exceed.
	SwipeDistance = 70.0

	// SwipeTolerance is the vertical travel a swipe must stay under.
	SwipeTolerance = 100.0
)

// Target receives the arbiter's output.
type Target interface {
	// Dispatch applies a discrete command.
	Dispatch(cmd Command)

	// Zoom returns the current user zoom.
	Zoom() float64

	// SetZoom sets the user zoom. Values are already clamped.
	SetZoom(z float64)
}

// Visibility is the chrome visibility state.
type Visibility struct {
	Visible        bool
	LastActivityAt time.Time
}

// Options configures an Arbiter.
type Options struct {
	// Compact selects touch-first timing.
	Compact bool

	// IdleTimeout overrides the inactivity timeout when > 0.
	IdleTimeout time.Duration

	// Controls are regions, in viewport coordinates, over which the chrome
	// is never hidden.
	Controls []model.BBox
}

// Arbiter normalizes input events for a Target.
// It is not safe for concurrent use.
type Arbiter struct {
	target  Target
	opts    Options
	timeout time.Duration

	vis         Visibility
	idle        deadline.Timer
	overControl bool

	sent map[Command]bool

	swipeStart *model.Point
	pinchDist  float64
	pinchZoom  float64
	pinching   bool
}

// NewArbiter creates an arbiter with the chrome visible.
func NewArbiter(target Target, opts Options) *Arbiter {
	timeout := opts.IdleTimeout
	if timeout <= 0 {
		timeout = PointerIdleTimeout
		if opts.Compact {
			timeout = CompactIdleTimeout
		}
	}
	return &Arbiter{
		target:  target,
		opts:    opts,
		timeout: timeout,
		vis:     Visibility{Visible: true},
		sent:    make(map[Command]bool),
	}
}

// SetControls replaces the persistent control regions.
func (a *Arbiter) SetControls(regions []model.BBox) {
	a.opts.Controls = regions
}

// IdleTimeout returns the effective inactivity timeout.
func (a *Arbiter) IdleTimeout() time.Duration {
	return a.timeout
}

// Visibility returns the chrome visibility.
func (a *Arbiter) Visibility() Visibility {
	return a.vis
}

// BeginTick starts a new dedup window.
func (a *Arbiter) BeginTick() {
	clear(a.sent)
}

// Tick fires the inactivity timer and returns the resulting visibility.
func (a *Arbiter) Tick(now time.Time) Visibility {
	if a.idle.Fire(now) && !a.overControl {
		a.vis.Visible = false
	}
	return a.vis
}

// Command delivers cmd to the target unless it was already delivered in
// this tick. It reports whether the command was applied.
func (a *Arbiter) Command(cmd Command) bool {
	if a.sent[cmd] {
		return false
	}
	a.sent[cmd] = true
	a.target.Dispatch(cmd)
	return true
}

// Key handles a key press.
func (a *Arbiter) Key(k Key) bool {
	cmd, ok := CommandForKey(k)
	if !ok {
		return false
	}
	return a.Command(cmd)
}

// PointerMove records pointer movement at p.
func (a *Arbiter) PointerMove(now time.Time, p model.Point) {
	a.activity(now, p)
}

func (a *Arbiter) activity(now time.Time, p model.Point) {
	a.vis.Visible = true
	a.vis.LastActivityAt = now
	a.overControl = a.inControls(p)
	a.idle.Reset(now, a.timeout)
}

func (a *Arbiter) inControls(p model.Point) bool {
	for _, r := range a.opts.Controls {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

// TouchStart handles the touches currently down after a new finger landed.
// One touch starts a swipe, two start a pinch.
func (a *Arbiter) TouchStart(now time.Time, touches []model.Point) {
	if len(touches) == 0 {
		return
	}
	a.activity(now, touches[0])

	switch len(touches) {
	case 1:
		start := touches[0]
		a.swipeStart = &start
	case 2:
		a.pinchDist = touches[0].Distance(touches[1])
		a.pinchZoom = a.target.Zoom()
		a.pinching = a.pinchDist > 0
	}
}

// TouchMove handles movement of the touches currently down.
func (a *Arbiter) TouchMove(now time.Time, touches []model.Point) {
	if len(touches) != 2 || !a.pinching {
		return
	}
	dist := touches[0].Distance(touches[1])
	a.target.SetZoom(PinchZoom(a.pinchZoom, a.pinchDist, dist))
}

// TouchEnd handles a finger lifting at p with remaining touches still
// down. A lone finger lifting may complete a swipe.
func (a *Arbiter) TouchEnd(now time.Time, p model.Point, remaining int) {
	if remaining == 0 && a.swipeStart != nil {
		if cmd, ok := Swipe(*a.swipeStart, p); ok {
			a.Command(cmd)
		}
	}
	a.swipeStart = nil
	a.pinching = false
}

// Swipe classifies the travel from start to end. A horizontal swipe to the
// right goes back a page, to the left forward.
func Swipe(start, end model.Point) (Command, bool) {
	dx := end.X - start.X
	dy := math.Abs(end.Y - start.Y)
	if math.Abs(dx) <= SwipeDistance || dy >= SwipeTolerance {
		return 0, false
	}
	if dx > 0 {
		return PrevPage, true
	}
	return NextPage, true
}

// PinchZoom scales startZoom by the ratio of finger distances, clamped to
// the zoom range.
func PinchZoom(startZoom, startDist, dist float64) float64 {
	if startDist <= 0 {
		return render.ClampZoom(startZoom)
	}
	return render.ClampZoom(startZoom * dist / startDist)
}

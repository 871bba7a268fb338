package pacer

import (
	"math"

	"github.com/tsawler/zenread/model"
)

const (
	// MinSpeed and MaxSpeed bound the reading speed in words per minute.
	MinSpeed = 50
	MaxSpeed = 2000

	// DefaultSpeed is the speed of a new engine.
	DefaultSpeed = 250

	// SpeedStep is the increment used by speed up/down commands.
	SpeedStep = 25

	// PageTurnCarryMs is the accumulator value after a page turn. The
	// negative carry holds the cursor on the first word of the new page
	// for a moment.
	PageTurnCarryMs = -500.0
)

// State is the pacing state. Other layers only ever see copies.
type State struct {
	Enabled       bool
	Paused        bool
	SpeedWPM      int
	Cursor        int
	AccumulatedMs float64
}

// Threshold returns the word interval in milliseconds.
func (s State) Threshold() float64 {
	return 60000 / float64(s.SpeedWPM)
}

// Pager lets the engine turn pages.
type Pager interface {
	HasNextPage() bool
	NextPage()
}

// Frame is the result of one Step.
type Frame struct {
	// Highlight is nil when nothing should be drawn.
	Highlight *Highlight

	// Advanced reports that the cursor moved during this step.
	Advanced bool

	// PageTurned reports that the pager was asked for the next page.
	PageTurned bool

	// Finished reports that the last word of the document was reached and
	// the engine paused itself.
	Finished bool
}

// Engine is the frame-driven pacing state machine.
type Engine struct {
	state  State
	tokens []model.WordToken
	pager  Pager

	last    float64
	started bool
}

// NewEngine creates a disabled, paused engine at DefaultSpeed. pager may be
// nil, in which case every page is the last one.
func NewEngine(pager Pager) *Engine {
	return &Engine{
		pager: pager,
		state: State{
			Paused:   true,
			SpeedWPM: DefaultSpeed,
		},
	}
}

// Snapshot returns a copy of the state.
func (e *Engine) Snapshot() State {
	return e.state
}

// Tokens returns the token list the engine is pacing over.
func (e *Engine) Tokens() []model.WordToken {
	return e.tokens
}

// SetTokens replaces the token list and resets the cursor and accumulator.
func (e *Engine) SetTokens(tokens []model.WordToken) {
	e.tokens = tokens
	e.Reset()
}

// Reset moves the cursor to the first word and clears the accumulator
// without touching Enabled or Paused.
func (e *Engine) Reset() {
	e.state.Cursor = 0
	e.state.AccumulatedMs = 0
}

// TogglePause flips the paused flag.
func (e *Engine) TogglePause() {
	e.state.Paused = !e.state.Paused
}

// SetPaused sets the paused flag.
func (e *Engine) SetPaused(paused bool) {
	e.state.Paused = paused
}

// SetEnabled turns pacing on or off.
func (e *Engine) SetEnabled(enabled bool) {
	e.state.Enabled = enabled
}

// ToggleEnabled flips the enabled flag.
func (e *Engine) ToggleEnabled() {
	e.state.Enabled = !e.state.Enabled
}

// SetSpeed sets the speed, clamped to [MinSpeed, MaxSpeed].
func (e *Engine) SetSpeed(wpm int) {
	e.state.SpeedWPM = ClampSpeed(wpm)
}

// AdjustSpeed adds delta to the speed.
func (e *Engine) AdjustSpeed(delta int) {
	e.SetSpeed(e.state.SpeedWPM + delta)
}

// ClampSpeed limits wpm to [MinSpeed, MaxSpeed].
func ClampSpeed(wpm int) int {
	if wpm < MinSpeed {
		return MinSpeed
	}
	if wpm > MaxSpeed {
		return MaxSpeed
	}
	return wpm
}

// Step advances the engine to nowMs. It must be called on every frame,
// whether or not pacing is active, so the frame clock stays current.
func (e *Engine) Step(nowMs float64) Frame {
	dt := 0.0
	if e.started {
		dt = nowMs - e.last
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	e.last = nowMs
	e.started = true

	s := &e.state
	if !s.Enabled || s.Paused || len(e.tokens) == 0 {
		return Frame{}
	}

	var f Frame
	s.AccumulatedMs += dt
	threshold := s.Threshold()

	if s.AccumulatedMs >= threshold {
		skip := int(math.Floor(s.AccumulatedMs / threshold))
		s.AccumulatedMs = math.Mod(s.AccumulatedMs, threshold)
		next := s.Cursor + skip
		last := len(e.tokens) - 1

		switch {
		case next < last:
			s.Cursor = next
		case e.pager != nil && e.pager.HasNextPage():
			e.pager.NextPage()
			s.Cursor = 0
			s.AccumulatedMs = PageTurnCarryMs
			f.PageTurned = true
		default:
			s.Cursor = last
			s.Paused = true
			f.Finished = true
		}
		f.Advanced = true
	}

	if s.Cursor >= 0 && s.Cursor < len(e.tokens) {
		h := HighlightFor(e.tokens[s.Cursor])
		h.Index = s.Cursor
		f.Highlight = &h
	}
	return f
}

// Package deadline provides one-shot deadline timers that are polled from a
// frame loop instead of firing on their own goroutine. A stopped or
// abandoned Timer holds no resources.
package deadline

import "time"

// Timer is a one-shot deadline. The zero value is disarmed.
type Timer struct {
	at    time.Time
	armed bool
}

// Reset arms the timer to expire d after now, replacing any earlier deadline.
func (t *Timer) Reset(now time.Time, d time.Duration) {
	t.at = now.Add(d)
	t.armed = true
}

// Stop disarms the timer.
func (t *Timer) Stop() {
	t.armed = false
}

// Armed reports whether the timer is waiting to fire.
func (t *Timer) Armed() bool {
	return t.armed
}

// Fire reports true exactly once, on the first poll at or after the
// deadline, and disarms the timer.
func (t *Timer) Fire(now time.Time) bool {
	if !t.armed || now.Before(t.at) {
		return false
	}
	t.armed = false
	return true
}

// Remaining returns the time left before the deadline, or 0 if the timer is
// disarmed or already due.
func (t *Timer) Remaining(now time.Time) time.Duration {
	if !t.armed {
		return 0
	}
	if d := t.at.Sub(now); d > 0 {
		return d
	}
	return 0
}

// internal/game/timer.go
//
// Mode countdown.
// The timer never runs on its own goroutine: callers pass the current time
// in, so tests drive it with a fake clock and the HTTP layer with time.Now.
package game

import (
	"fmt"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
func SystemClock() Clock { return systemClock{} }

// Timer counts a budget down while running.
type Timer struct {
	budget   time.Duration
	started  time.Time
	pausedAt time.Time
	paused   time.Duration
	running  bool
	frozen   bool
}

// NewTimer returns a stopped timer with budget. A budget <= 0 never expires.
func NewTimer(budget time.Duration) *Timer {
	return &Timer{budget: budget}
}

// Start (re)starts the countdown from the full budget.
func (t *Timer) Start(now time.Time) {
	t.started = now
	t.paused = 0
	t.running = true
	t.frozen = false
}

// Pause freezes the countdown.
func (t *Timer) Pause(now time.Time) {
	if !t.running || t.frozen {
		return
	}
	t.frozen = true
	t.pausedAt = now
}

// Resume continues a paused countdown.
func (t *Timer) Resume(now time.Time) {
	if !t.running || !t.frozen {
		return
	}
	t.paused += now.Sub(t.pausedAt)
	t.frozen = false
}

// Stop halts the timer; Remaining keeps reporting the value at the stop.
func (t *Timer) Stop(now time.Time) {
	if !t.running {
		return
	}
	if !t.frozen {
		t.Pause(now)
	}
	t.running = false
}

// Untimed reports whether the timer has no budget.
func (t *Timer) Untimed() bool { return t.budget <= 0 }

// Elapsed is active (unpaused) time since Start.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	if t.started.IsZero() {
		return 0
	}
	end := now
	if t.frozen || !t.running {
		end = t.pausedAt
	}
	e := end.Sub(t.started) - t.paused
	if e < 0 {
		return 0
	}
	return e
}

// Remaining is budget minus elapsed, floored at zero.
func (t *Timer) Remaining(now time.Time) time.Duration {
	if t.Untimed() {
		return 0
	}
	r := t.budget - t.Elapsed(now)
	if r < 0 {
		return 0
	}
	return r
}

// Expired reports whether a timed, running countdown has reached zero.
func (t *Timer) Expired(now time.Time) bool {
	return !t.Untimed() && t.running && t.Remaining(now) <= 0
}

func (t *Timer) Running() bool { return t.running && !t.frozen }

// FormatRemaining renders d as m:ss, rounding partial seconds up.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

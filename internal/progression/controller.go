// internal/progression/controller.go
//
// Run progression across the configured modes.
// Responsibilities:
//   - Sequence modes 1..N and apply the pass threshold at each mode end.
//   - Own the cumulative run total.
//   - Pick the locked-category set for each turn and announce mode twists.
//
// Notes:
//   - Passing adds the mode score and advances; failing restarts the whole
//     run from mode 1 with a zero total, not just the failed mode.
package progression

import (
	"github.com/robalobadob/cursed-dice/internal/events"
	"github.com/robalobadob/cursed-dice/internal/scoring"
)

// Source supplies uniform integers in [0, n).
type Source interface {
	IntN(n int) int
}

// Publisher is the slice of the event bus progression needs.
type Publisher interface {
	Publish(topic events.Topic, payload any)
}

// Result is the outcome of CompleteMode.
type Result struct {
	Passed bool
	// NextMode is the 1-based index of the mode to play next, nil when the
	// run is complete.
	NextMode    *int
	RunComplete bool
}

// Controller tracks where a run is.
type Controller struct {
	modes      []ModeConfig
	threshold  int
	idx        int
	cumulative int
	complete   bool
	src        Source
	pub        Publisher
}

// NewController builds a controller at mode 1. An empty file falls back to DefaultModes.
func NewController(f File, src Source, pub Publisher) *Controller {
	if len(f.Modes) == 0 {
		f = DefaultModes()
	}
	if f.PassThreshold <= 0 {
		f.PassThreshold = DefaultPassThreshold
	}
	return &Controller{
		modes:     append([]ModeConfig(nil), f.Modes...),
		threshold: f.PassThreshold,
		src:       src,
		pub:       pub,
	}
}

// Current returns the mode being played.
func (c *Controller) Current() ModeConfig { return c.modes[c.idx] }

// ModeIndex is the 1-based index of the current mode.
func (c *Controller) ModeIndex() int { return c.idx + 1 }

func (c *Controller) Cumulative() int { return c.cumulative }

func (c *Controller) Threshold() int { return c.threshold }

func (c *Controller) ModeCount() int { return len(c.modes) }

// ModesCleared counts modes passed in the current run.
func (c *Controller) ModesCleared() int {
	if c.complete {
		return len(c.modes)
	}
	return c.idx
}

func (c *Controller) RunComplete() bool { return c.complete }

// CompleteMode applies the pass gate to score.
func (c *Controller) CompleteMode(score int) Result {
	if c.complete {
		return Result{Passed: false, RunComplete: true}
	}
	if score < c.threshold {
		c.Reset()
		first := 1
		return Result{Passed: false, NextMode: &first}
	}
	c.cumulative += score
	if c.idx+1 >= len(c.modes) {
		c.complete = true
		return Result{Passed: true, RunComplete: true}
	}
	c.idx++
	next := c.idx + 1
	return Result{Passed: true, NextMode: &next}
}

// Reset returns to mode 1 with a zero total.
func (c *Controller) Reset() {
	c.idx = 0
	c.cumulative = 0
	c.complete = false
}

// StartMode announces the current mode's gauntlet flag.
func (c *Controller) StartMode() {
	c.publish(events.ModeGauntlet, c.Current().Gauntlet())
}

// LockCount is how many of unfilled categories the current mode locks.
// At least one category always stays open.
func (c *Controller) LockCount(unfilled int) int {
	if unfilled <= 1 {
		return 0
	}
	m := c.Current()
	n := m.LockedCategories
	if m.LockAllButOne {
		n = unfilled - 1
	}
	if n > unfilled-1 {
		n = unfilled - 1
	}
	if n < 0 {
		n = 0
	}
	return n
}

// BeginTurn picks the categories locked for this turn and publishes
// mode:lockedCategories. The result is in definition order.
func (c *Controller) BeginTurn(unfilled []scoring.CategoryID) []scoring.CategoryID {
	n := c.LockCount(len(unfilled))
	locked := c.pick(unfilled, n)

	names := make([]string, len(locked))
	for i, id := range locked {
		names[i] = string(id)
	}
	c.publish(events.ModeLockedCategories, events.LockedCategoriesPayload{Categories: names})
	return locked
}

// pick chooses n of ids with a partial Fisher-Yates shuffle and returns them
// in their original order.
func (c *Controller) pick(ids []scoring.CategoryID, n int) []scoring.CategoryID {
	if n <= 0 || c.src == nil {
		return nil
	}
	perm := make([]int, len(ids))
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + c.src.IntN(len(perm)-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	chosen := make(map[int]bool, n)
	for _, p := range perm[:n] {
		chosen[p] = true
	}
	out := make([]scoring.CategoryID, 0, n)
	for i, id := range ids {
		if chosen[i] {
			out = append(out, id)
		}
	}
	return out
}

func (c *Controller) publish(topic events.Topic, payload any) {
	if c.pub != nil {
		c.pub.Publish(topic, payload)
	}
}

// internal/dice/dice.go
//
// Dice state for the current hand.
// Responsibilities:
//   - Hold face values, lock flags and the reroll counter.
//   - Roll unlocked dice (all dice on the initial roll of a hand).
//   - Track the cursed die, which is always treated as locked.
//   - Manage the optional sixth die granted by the Sixth Die blessing.
//
// Notes:
//   - Values before the first roll of a hand are 0.
//   - The sixth die is rolled once when added, cannot be locked and is not
//     rerolled; it is discarded by Reset.
//   - Mutations publish dice:rolled, dice:locked, dice:lock-refused and
//     dice:cursed. Reset lifts the curse without an event.
package dice

import (
	"errors"

	"github.com/robalobadob/cursed-dice/internal/events"
)

const (
	Sides         = 6
	StandardCount = 5
	MaxCount      = 6
	MaxRerolls    = 3
	NoCurse       = -1
)

// Lock refusal reasons carried by dice:lock-refused.
const (
	RefusedCursed     = "cursed"
	RefusedOutOfRange = "out-of-range"
	RefusedExtraDie   = "extra-die"
	RefusedNotRolled  = "not-rolled"
	RefusedPolicy     = "policy"
)

// ErrBadHand is returned by SetValues for a hand of the wrong size or faces.
var ErrBadHand = errors.New("dice: hand must be 5 faces in 1..6")

// Publisher is the slice of the event bus the dice need.
type Publisher interface {
	Publish(topic events.Topic, payload any)
}

// LockPolicy may veto a lock toggle. Returning false refuses the toggle.
type LockPolicy func(index int) bool

// Dice is the hand being played.
type Dice struct {
	values      []int
	locked      []bool
	rerollsLeft int
	cursed      int
	lastCursed  int
	rolled      bool
	src         Source
	pub         Publisher
	policy      LockPolicy
}

// New returns a reset hand. src defaults to NewSource(); pub may be nil.
func New(src Source, pub Publisher) *Dice {
	if src == nil {
		src = NewSource()
	}
	d := &Dice{src: src, pub: pub, cursed: NoCurse, lastCursed: NoCurse}
	d.Reset()
	return d
}

// Reset prepares a fresh hand: 5 unrolled dice, no locks, no curse, 3 rerolls.
func (d *Dice) Reset() {
	d.values = make([]int, StandardCount)
	d.locked = make([]bool, StandardCount)
	d.rerollsLeft = MaxRerolls
	if d.cursed != NoCurse {
		d.lastCursed = d.cursed
	}
	d.cursed = NoCurse
	d.rolled = false
}

// Roll draws new faces. On the initial roll every die is drawn and no reroll
// is spent; otherwise unlocked, non-cursed main dice are drawn and one reroll
// is consumed. It reports false, changing nothing, when no rerolls remain.
func (d *Dice) Roll(initial bool) bool {
	if !initial && d.rerollsLeft <= 0 {
		return false
	}
	for i := range d.values {
		if initial || !d.IsLocked(i) {
			d.values[i] = d.src.IntN(Sides) + 1
		}
	}
	if initial {
		d.rolled = true
	} else {
		d.rerollsLeft--
	}
	d.publish(events.DiceRolled, events.DiceRolledPayload{
		Values:         d.Values(),
		IsInitial:      initial,
		SixthDieActive: d.HasExtraDie(),
	})
	return true
}

// CanToggle reports whether ToggleLock(i) would succeed.
func (d *Dice) CanToggle(i int) bool {
	return d.refusal(i) == ""
}

func (d *Dice) refusal(i int) string {
	switch {
	case i < 0 || i >= len(d.values):
		return RefusedOutOfRange
	case i >= StandardCount:
		return RefusedExtraDie
	case i == d.cursed:
		return RefusedCursed
	case !d.rolled:
		return RefusedNotRolled
	case d.policy != nil && !d.policy(i):
		return RefusedPolicy
	}
	return ""
}

// ToggleLock flips the player lock on die i.
func (d *Dice) ToggleLock(i int) bool {
	if reason := d.refusal(i); reason != "" {
		d.publish(events.DiceLockRefused, events.LockRefusedPayload{Index: i, Reason: reason})
		return false
	}
	d.locked[i] = !d.locked[i]
	d.publish(events.DiceLocked, events.DiceLockedPayload{Index: i, Locked: d.locked[i]})
	return true
}

// SetLockPolicy installs (or clears, with nil) a veto over lock toggles.
func (d *Dice) SetLockPolicy(p LockPolicy) { d.policy = p }

// SetCursedDie curses die i. With two or more main dice the previous cursed
// index is refused so the curse always moves.
func (d *Dice) SetCursedDie(i int) bool {
	if i < 0 || i >= StandardCount {
		return false
	}
	prev := d.previousCurse()
	if i == prev {
		return false
	}
	d.setCurse(i)
	return true
}

// CurseRandom moves the curse to a uniformly chosen index other than the
// previous one and returns it.
func (d *Dice) CurseRandom() int {
	prev := d.previousCurse()
	var i int
	if prev == NoCurse {
		i = d.src.IntN(StandardCount)
	} else {
		i = d.src.IntN(StandardCount - 1)
		if i >= prev {
			i++
		}
	}
	d.setCurse(i)
	return i
}

func (d *Dice) setCurse(i int) {
	d.cursed = i
	d.publish(events.DiceCursed, events.DiceCursedPayload{Index: i})
}

func (d *Dice) previousCurse() int {
	if d.cursed != NoCurse {
		return d.cursed
	}
	return d.lastCursed
}

// ClearCurse removes the curse and forgets its history.
func (d *Dice) ClearCurse() {
	was := d.cursed
	d.cursed = NoCurse
	d.lastCursed = NoCurse
	if was != NoCurse {
		d.publish(events.DiceCursed, events.DiceCursedPayload{Index: NoCurse})
	}
}

// CursedIndex returns the cursed die or NoCurse.
func (d *Dice) CursedIndex() int { return d.cursed }

// AddDie appends a freshly rolled sixth die. It reports false if one is
// already present.
func (d *Dice) AddDie() bool {
	if len(d.values) >= MaxCount {
		return false
	}
	d.values = append(d.values, d.src.IntN(Sides)+1)
	d.locked = append(d.locked, true)
	d.publish(events.DiceRolled, events.DiceRolledPayload{
		Values:         d.Values(),
		SixthDieActive: true,
	})
	return true
}

// RemoveExtraDie drops the sixth die if present.
func (d *Dice) RemoveExtraDie() {
	if len(d.values) > StandardCount {
		d.values = d.values[:StandardCount]
		d.locked = d.locked[:StandardCount]
	}
}

func (d *Dice) HasExtraDie() bool { return len(d.values) > StandardCount }

// SetValues replaces the five main faces wholesale and marks the hand rolled.
func (d *Dice) SetValues(values []int) error {
	if len(values) != StandardCount {
		return ErrBadHand
	}
	for _, v := range values {
		if v < 1 || v > Sides {
			return ErrBadHand
		}
	}
	copy(d.values, values)
	d.rolled = true
	return nil
}

// AddRerolls grants n extra rerolls for this hand.
func (d *Dice) AddRerolls(n int) {
	if n > 0 {
		d.rerollsLeft += n
	}
}

func (d *Dice) RerollsLeft() int { return d.rerollsLeft }

// HasRolled reports whether the hand has had its initial roll.
func (d *Dice) HasRolled() bool { return d.rolled }

// IsLocked reports whether die i is held, counting the curse and the sixth die.
func (d *Dice) IsLocked(i int) bool {
	if i < 0 || i >= len(d.values) {
		return false
	}
	return d.locked[i] || i == d.cursed
}

// Values returns a copy of the faces.
func (d *Dice) Values() []int {
	out := make([]int, len(d.values))
	copy(out, d.values)
	return out
}

// MainValues returns a copy of the first five faces.
func (d *Dice) MainValues() []int {
	out := make([]int, StandardCount)
	copy(out, d.values)
	return out
}

// Locked returns a copy of the effective lock flags.
func (d *Dice) Locked() []bool {
	out := make([]bool, len(d.locked))
	for i := range out {
		out[i] = d.IsLocked(i)
	}
	return out
}

func (d *Dice) publish(topic events.Topic, payload any) {
	if d.pub != nil {
		d.pub.Publish(topic, payload)
	}
}

// internal/scorecard/scorecard.go
//
// Scorecard for one mode attempt.
// Responsibilities:
//   - Track which categories are filled and with what score.
//   - Compute upper subtotal, upper bonus and grand total on every query.
//   - Gate the special (expansion) section behind EnableSpecialSection.
//   - Publish score:updated after each mutation when a publisher is attached.
//
// Notes:
//   - Score returns -1 (and mutates nothing) for filled, unknown or
//     not-yet-enabled categories. Scoring 0 still fills the category.
//   - Unscore exists for undo only; nothing else clears a category. It
//     publishes nothing.
package scorecard

import (
	"github.com/robalobadob/cursed-dice/internal/events"
	"github.com/robalobadob/cursed-dice/internal/scoring"
)

const (
	UpperBonusThreshold = 63
	UpperBonusPoints    = 35
)

// Publisher is the slice of the event bus the scorecard needs.
type Publisher interface {
	Publish(topic events.Topic, payload any)
}

// Category is a read-only view of one scorecard row.
type Category struct {
	ID      scoring.CategoryID `json:"id"`
	Section scoring.Section    `json:"section"`
	Score   *int               `json:"score"`
}

// Filled reports whether the category has been scored.
func (c Category) Filled() bool { return c.Score != nil }

type row struct {
	def    scoring.Definition
	score  int
	filled bool
}

// Scorecard holds every category in definition order.
type Scorecard struct {
	rows    []row
	index   map[scoring.CategoryID]int
	special bool
	pub     Publisher
}

// New builds an empty scorecard. pub may be nil.
func New(pub Publisher) *Scorecard {
	defs := scoring.Definitions()
	sc := &Scorecard{
		rows:  make([]row, len(defs)),
		index: make(map[scoring.CategoryID]int, len(defs)),
		pub:   pub,
	}
	for i, d := range defs {
		sc.rows[i] = row{def: d}
		sc.index[d.ID] = i
	}
	return sc
}

func (sc *Scorecard) active(id scoring.CategoryID) (*row, bool) {
	i, ok := sc.index[id]
	if !ok {
		return nil, false
	}
	r := &sc.rows[i]
	if r.def.Section == scoring.SectionSpecial && !sc.special {
		return nil, false
	}
	return r, true
}

// Score fills id with the value of dice and returns the points, or -1.
func (sc *Scorecard) Score(id scoring.CategoryID, dice []int) int {
	r, ok := sc.active(id)
	if !ok || r.filled || !scoring.ValidHand(dice) {
		return -1
	}
	r.score = r.def.Score(dice)
	r.filled = true
	sc.publish(id, r.score)
	return r.score
}

// Unscore resets a filled category. It reports whether anything changed.
func (sc *Scorecard) Unscore(id scoring.CategoryID) bool {
	r, ok := sc.active(id)
	if !ok || !r.filled {
		return false
	}
	r.score, r.filled = 0, false
	return true
}

func (sc *Scorecard) publish(id scoring.CategoryID, score int) {
	if sc.pub == nil {
		return
	}
	sc.pub.Publish(events.ScoreUpdated, events.ScoreUpdatedPayload{
		CategoryID: string(id),
		Score:      score,
		Total:      sc.Total(),
	})
}

// CalculatePotential previews what id would score. It returns -1 when id
// cannot be scored.
func (sc *Scorecard) CalculatePotential(id scoring.CategoryID, dice []int) int {
	r, ok := sc.active(id)
	if !ok || r.filled || !scoring.ValidHand(dice) {
		return -1
	}
	return r.def.Score(dice)
}

// IsFilled reports whether id has been scored.
func (sc *Scorecard) IsFilled(id scoring.CategoryID) bool {
	r, ok := sc.active(id)
	return ok && r.filled
}

// Has reports whether id is currently on the card.
func (sc *Scorecard) Has(id scoring.CategoryID) bool {
	_, ok := sc.active(id)
	return ok
}

func (sc *Scorecard) UpperSubtotal() int {
	total := 0
	for _, r := range sc.rows {
		if r.filled && r.def.Section == scoring.SectionUpper {
			total += r.score
		}
	}
	return total
}

// UpperBonus is 35 once the upper subtotal reaches 63.
func (sc *Scorecard) UpperBonus() int {
	if sc.UpperSubtotal() >= UpperBonusThreshold {
		return UpperBonusPoints
	}
	return 0
}

// Total is the sum of filled categories plus the upper bonus.
func (sc *Scorecard) Total() int {
	total := 0
	for _, r := range sc.rows {
		if r.filled {
			total += r.score
		}
	}
	return total + sc.UpperBonus()
}

// FilledCount counts filled categories on the card.
func (sc *Scorecard) FilledCount() int {
	n := 0
	for _, r := range sc.rows {
		if r.filled {
			n++
		}
	}
	return n
}

// IsComplete reports whether every active category is filled.
func (sc *Scorecard) IsComplete() bool {
	for _, r := range sc.rows {
		if r.def.Section == scoring.SectionSpecial && !sc.special {
			continue
		}
		if !r.filled {
			return false
		}
	}
	return true
}

// Category returns a copy of one row.
func (sc *Scorecard) Category(id scoring.CategoryID) (Category, bool) {
	r, ok := sc.active(id)
	if !ok {
		return Category{}, false
	}
	return view(*r), true
}

// Categories returns copies of every active row in definition order.
func (sc *Scorecard) Categories() []Category {
	out := make([]Category, 0, len(sc.rows))
	for _, r := range sc.rows {
		if r.def.Section == scoring.SectionSpecial && !sc.special {
			continue
		}
		out = append(out, view(r))
	}
	return out
}

// Unfilled lists the ids of active rows that still need a score.
func (sc *Scorecard) Unfilled() []scoring.CategoryID {
	var out []scoring.CategoryID
	for _, r := range sc.rows {
		if r.def.Section == scoring.SectionSpecial && !sc.special {
			continue
		}
		if !r.filled {
			out = append(out, r.def.ID)
		}
	}
	return out
}

// EnableSpecialSection adds allOdd, allEven, allHigh and twoPair to the card.
// Already filled categories are untouched.
func (sc *Scorecard) EnableSpecialSection() { sc.special = true }

func (sc *Scorecard) IsSpecialSectionEnabled() bool { return sc.special }

func view(r row) Category {
	c := Category{ID: r.def.ID, Section: r.def.Section}
	if r.filled {
		s := r.score
		c.Score = &s
	}
	return c
}

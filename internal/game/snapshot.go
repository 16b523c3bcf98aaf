package game

import (
	"github.com/robalobadob/cursed-dice/internal/blessing"
	"github.com/robalobadob/cursed-dice/internal/scoring"
)

// Snapshot is the read model of a Session for presentation layers.
type Snapshot struct {
	ID               string         `json:"id"`
	State            string         `json:"state"`
	Mode             ModeView       `json:"mode"`
	Turn             int            `json:"turn"`
	Dice             DiceView       `json:"dice"`
	Categories       []CategoryView `json:"categories"`
	UpperSubtotal    int            `json:"upperSubtotal"`
	UpperBonus       int            `json:"upperBonus"`
	Total            int            `json:"total"`
	Cumulative       int            `json:"cumulative"`
	ModesCleared     int            `json:"modesCleared"`
	TimeRemainingMs  int64          `json:"timeRemainingMs"`
	TimeFormatted    string         `json:"timeFormatted"`
	Untimed          bool           `json:"untimed,omitempty"`
	Blessing         *BlessingView  `json:"blessing,omitempty"`
	OfferedBlessings []blessing.ID  `json:"offeredBlessings,omitempty"`
	Unlocked         []blessing.ID  `json:"unlockedBlessings"`
	Outcome          Outcome        `json:"outcome,omitempty"`
}

type ModeView struct {
	Index         int    `json:"index"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	CursedDice    bool   `json:"cursedDice"`
	Gauntlet      bool   `json:"gauntlet"`
	PassThreshold int    `json:"passThreshold"`
	TimeLimitMs   int64  `json:"timeLimitMs"`
}

type DiceView struct {
	Values      []int  `json:"values"`
	Locked      []bool `json:"locked"`
	RerollsLeft int    `json:"rerollsLeft"`
	CursedIndex int    `json:"cursedIndex"`
	Rolled      bool   `json:"rolled"`
	SixthDie    bool   `json:"sixthDie,omitempty"`
}

// CategoryView is one scorecard row. Potential is set while the row can be
// scored with the current hand.
type CategoryView struct {
	ID        scoring.CategoryID `json:"id"`
	Section   scoring.Section    `json:"section"`
	Score     *int               `json:"score"`
	Potential *int               `json:"potential,omitempty"`
	Locked    bool               `json:"locked,omitempty"`
}

type BlessingView struct {
	ID     blessing.ID `json:"id"`
	CanUse bool        `json:"canUse"`
	State  any         `json:"state"`
}

// Snapshot captures the session at the clock's current time.
func (s *Session) Snapshot() Snapshot {
	mode := s.prog.Current()
	remaining := s.TimeRemaining()
	values := s.dice.Values()

	snap := Snapshot{
		ID:    s.id,
		State: s.machine.Current().String(),
		Mode: ModeView{
			Index:         mode.Index,
			Name:          mode.Name,
			Description:   mode.Description,
			CursedDice:    mode.CursedDice,
			Gauntlet:      mode.Gauntlet(),
			PassThreshold: s.prog.Threshold(),
			TimeLimitMs:   mode.TimeLimit.Milliseconds(),
		},
		Turn: s.turn,
		Dice: DiceView{
			Values:      values,
			Locked:      s.dice.Locked(),
			RerollsLeft: s.dice.RerollsLeft(),
			CursedIndex: s.dice.CursedIndex(),
			Rolled:      s.dice.HasRolled(),
			SixthDie:    s.dice.HasExtraDie(),
		},
		UpperSubtotal:    s.card.UpperSubtotal(),
		UpperBonus:       s.card.UpperBonus(),
		Total:            s.card.Total(),
		Cumulative:       s.prog.Cumulative(),
		ModesCleared:     s.prog.ModesCleared(),
		TimeRemainingMs:  remaining.Milliseconds(),
		TimeFormatted:    FormatRemaining(remaining),
		Untimed:          s.timer.Untimed(),
		OfferedBlessings: s.OfferedBlessings(),
		Unlocked:         s.UnlockedBlessings(),
		Outcome:          s.outcome,
	}
	for _, c := range s.card.Categories() {
		row := CategoryView{ID: c.ID, Section: c.Section, Score: c.Score, Locked: s.locked[c.ID]}
		if !c.Filled() && !row.Locked && s.dice.HasRolled() {
			if p := s.card.CalculatePotential(c.ID, values); p >= 0 {
				row.Potential = &p
			}
		}
		snap.Categories = append(snap.Categories, row)
	}

	if s.active != nil {
		snap.Blessing = &BlessingView{
			ID:     s.active.ID(),
			CanUse: s.active.CanUse(),
			State:  s.active.State(),
		}
	}
	return snap
}

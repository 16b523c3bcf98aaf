package blessing

import "github.com/robalobadob/cursed-dice/internal/events"

// SanctuaryState is the read model of Sanctuary.
type SanctuaryState struct {
	BankedDice []int `json:"bankedDice,omitempty"`
	CanBank    bool  `json:"canBank"`
	CanRestore bool  `json:"canRestore"`
}

// Sanctuary banks one hand per mode and restores it later.
// Lifecycle per mode: idle -> banked -> armed (after one roll or score) -> spent.
type Sanctuary struct {
	base
	banked  []int
	used    bool
	actions int
}

func NewSanctuary(bus Bus) *Sanctuary {
	s := &Sanctuary{base: base{id: IDSanctuary, bus: bus}}
	s.subscribe(events.DiceRolled, s.onAction)
	s.subscribe(events.ScoreUpdated, s.onAction)
	return s
}

func (s *Sanctuary) onAction(events.Event) {
	if s.banked != nil {
		s.actions++
	}
}

func (s *Sanctuary) OnModeStart() {
	s.banked = nil
	s.used = false
	s.actions = 0
}

func (s *Sanctuary) OnModeEnd() {}
func (s *Sanctuary) OnNewHand() {}

func (s *Sanctuary) canBank() bool {
	return !s.destroyed && !s.used && s.banked == nil
}

func (s *Sanctuary) canRestore() bool {
	return !s.destroyed && s.banked != nil && s.actions >= 1
}

// CanUse is true while either verb is available.
func (s *Sanctuary) CanUse() bool { return s.canBank() || s.canRestore() }

// Bank stores a copy of values. Only one bank per mode.
func (s *Sanctuary) Bank(values []int) bool {
	if !s.canBank() || len(values) == 0 {
		return false
	}
	s.banked = append([]int(nil), values...)
	s.actions = 0
	s.publish("banked", s.BankedDice())
	return true
}

// Restore returns the banked hand and spends the blessing for this mode.
// It returns nil until at least one roll or score has happened since banking.
func (s *Sanctuary) Restore() []int {
	if !s.canRestore() {
		return nil
	}
	out := s.banked
	s.banked = nil
	s.used = true
	s.publish("restored", append([]int(nil), out...))
	return out
}

// BankedDice returns a copy of the banked hand, or nil.
func (s *Sanctuary) BankedDice() []int {
	if s.banked == nil {
		return nil
	}
	return append([]int(nil), s.banked...)
}

func (s *Sanctuary) State() any {
	return SanctuaryState{
		BankedDice: s.BankedDice(),
		CanBank:    s.canBank(),
		CanRestore: s.canRestore(),
	}
}

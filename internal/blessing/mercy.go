package blessing

import "github.com/robalobadob/cursed-dice/internal/events"

// MercyState is the read model of Mercy.
type MercyState struct {
	Used     bool `json:"used"`
	Refusals int  `json:"refusals"`
}

// Mercy grants one extra reroll per mode. It also counts refused lock
// attempts so the client can nudge the player towards it.
type Mercy struct {
	base
	used     bool
	refusals int
}

func NewMercy(bus Bus) *Mercy {
	m := &Mercy{base: base{id: IDMercy, bus: bus}}
	m.subscribe(events.DiceLockRefused, func(events.Event) { m.refusals++ })
	return m
}

func (m *Mercy) OnModeStart() {
	m.used = false
	m.refusals = 0
}

func (m *Mercy) OnModeEnd() {}
func (m *Mercy) OnNewHand() {}

func (m *Mercy) CanUse() bool { return !m.destroyed && !m.used }

// Use spends Mercy for this mode. The caller applies the extra reroll.
func (m *Mercy) Use() bool {
	if !m.CanUse() {
		return false
	}
	m.used = true
	m.publish("used", nil)
	return true
}

func (m *Mercy) State() any {
	return MercyState{Used: m.used, Refusals: m.refusals}
}

package blessing

import "github.com/robalobadob/cursed-dice/internal/events"

// ExpansionEnabled is published at the start of every mode while Expansion is active.
var ExpansionEnabled = events.BlessingTopic(string(IDExpansion), "enabled")

// ExpansionState is the read model of Expansion.
type ExpansionState struct {
	Enabled bool `json:"enabled"`
}

// Expansion is passive: it unlocks the four special categories each mode.
type Expansion struct {
	base
	enabled bool
}

func NewExpansion(bus Bus) *Expansion {
	return &Expansion{base: base{id: IDExpansion, bus: bus}}
}

func (e *Expansion) OnModeStart() {
	if e.destroyed {
		return
	}
	e.enabled = true
	e.publish("enabled", nil)
}

func (e *Expansion) OnModeEnd() {}
func (e *Expansion) OnNewHand() {}

// CanUse is always false; Expansion has no verb.
func (e *Expansion) CanUse() bool { return false }

func (e *Expansion) State() any { return ExpansionState{Enabled: e.enabled} }

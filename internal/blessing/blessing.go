// internal/blessing/blessing.go
//
// Blessings are run-scoped power-ups chosen between modes.
// Responsibilities:
//   - Define the Blessing lifecycle contract used by the session.
//   - Provide the shared bus plumbing (subscriptions, blessing:<id>:<verb> topics).
//
// Notes:
//   - Verbs report failure with false/nil, never with a panic.
//   - A destroyed blessing keeps answering queries but refuses every verb.
package blessing

import (
	"github.com/robalobadob/cursed-dice/internal/events"
)

// ID is the stable registry key of a blessing.
type ID string

const (
	IDSanctuary ID = "sanctuary"
	IDMercy     ID = "mercy"
	IDSixthDie  ID = "sixth-die"
	IDExpansion ID = "expansion"
)

// Blessing is the lifecycle every blessing implements.
type Blessing interface {
	ID() ID
	// OnModeStart resets per-mode state at the start of each mode attempt.
	OnModeStart()
	OnModeEnd()
	// OnNewHand runs before the initial roll of every hand.
	OnNewHand()
	// CanUse reports whether the blessing's active verb is currently available.
	CanUse() bool
	// State returns a copy of the blessing's variant state.
	State() any
	// Destroy releases bus subscriptions. It is idempotent.
	Destroy()
}

// Bus is the slice of the event bus blessings depend on.
type Bus interface {
	Subscribe(topic events.Topic, fn events.Handler) int
	Unsubscribe(handle int)
	Publish(topic events.Topic, payload any)
}

// Deps are handed to every factory.
type Deps struct {
	Bus Bus
	// SixthDieCharges overrides the per-mode charge count; 0 keeps the default.
	SixthDieCharges int
}

type base struct {
	id        ID
	bus       Bus
	subs      []int
	destroyed bool
}

func (b *base) ID() ID { return b.id }

func (b *base) subscribe(topic events.Topic, fn events.Handler) {
	if b.bus == nil {
		return
	}
	if h := b.bus.Subscribe(topic, fn); h != 0 {
		b.subs = append(b.subs, h)
	}
}

func (b *base) publish(verb string, data any) {
	if b.bus == nil {
		return
	}
	b.bus.Publish(events.BlessingTopic(string(b.id), verb), events.BlessingPayload{
		Blessing: string(b.id),
		Verb:     verb,
		Data:     data,
	})
}

func (b *base) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	if b.bus != nil {
		for _, h := range b.subs {
			b.bus.Unsubscribe(h)
		}
	}
	b.subs = nil
}

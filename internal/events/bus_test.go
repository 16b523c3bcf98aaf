package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversInRegistrationOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(DiceRolled, func(Event) { got = append(got, "first") })
	bus.SubscribeAll(func(Event) { got = append(got, "wildcard") })
	bus.Subscribe(DiceRolled, func(Event) { got = append(got, "third") })
	bus.Subscribe(ScoreUpdated, func(Event) { got = append(got, "other topic") })

	bus.Publish(DiceRolled, DiceRolledPayload{Values: []int{1, 2, 3, 4, 5}})

	assert.Equal(t, []string{"first", "wildcard", "third"}, got)
}

func TestBusPayloadReachesHandler(t *testing.T) {
	bus := NewBus()
	var seen ScoreUpdatedPayload
	bus.Subscribe(ScoreUpdated, func(e Event) {
		seen = e.Payload.(ScoreUpdatedPayload)
	})

	bus.Publish(ScoreUpdated, ScoreUpdatedPayload{CategoryID: "chance", Score: 22, Total: 22})

	assert.Equal(t, "chance", seen.CategoryID)
	assert.Equal(t, 22, seen.Total)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	h := bus.Subscribe(TimerTick, func(Event) { calls++ })
	require.NotZero(t, h)

	bus.Publish(TimerTick, nil)
	bus.Unsubscribe(h)
	bus.Publish(TimerTick, nil)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.Len())
}

func TestBusNestedPublishIsDeliveredImmediately(t *testing.T) {
	bus := NewBus()
	var order []Topic

	bus.Subscribe(DiceRolled, func(Event) {
		order = append(order, DiceRolled)
		bus.Publish(ScoreUpdated, nil)
		order = append(order, "after-nested")
	})
	bus.Subscribe(ScoreUpdated, func(Event) { order = append(order, ScoreUpdated) })

	bus.Publish(DiceRolled, nil)

	assert.Equal(t, []Topic{DiceRolled, ScoreUpdated, "after-nested"}, order)
}

func TestBusSubscribeDuringDeliveryAffectsLaterEventsOnly(t *testing.T) {
	bus := NewBus()
	late := 0
	bus.Subscribe(DiceLocked, func(Event) {
		bus.Subscribe(DiceLocked, func(Event) { late++ })
	})

	bus.Publish(DiceLocked, nil)
	assert.Equal(t, 0, late)

	bus.Publish(DiceLocked, nil)
	assert.Equal(t, 1, late)
}

func TestBusRejectsNilHandlers(t *testing.T) {
	bus := NewBus()
	assert.Zero(t, bus.Subscribe(DiceRolled, nil))
	assert.Zero(t, bus.SubscribeAll(nil))
	assert.Zero(t, bus.Subscribe("", func(Event) {}))
}

func TestBlessingTopic(t *testing.T) {
	assert.Equal(t, Topic("blessing:sanctuary:banked"), BlessingTopic("sanctuary", "banked"))
}

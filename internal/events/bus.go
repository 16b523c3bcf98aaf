// internal/events/bus.go
//
// Synchronous publish/subscribe channel shared by every rules component.
// Dice, scorecard, blessings and progression never hold references to each
// other; they publish typed payloads on a Bus and react to topics they
// subscribe to.
//
// Delivery rules:
//   - Publish runs every matching handler before it returns.
//   - Handlers run in subscription order, wildcard and topic handlers interleaved.
//   - A handler that publishes delivers its event immediately (nested), no queue.
//   - The handler list is snapshotted per Publish, so (un)subscribing from a
//     handler only affects later events.
//
// A Bus is not safe for concurrent use; the owner serialises access.

package events

// Handler reacts to a published event.
type Handler func(Event)

// Event is one published message.
type Event struct {
	Topic   Topic `json:"topic"`
	Payload any   `json:"payload,omitempty"`
}

type subscription struct {
	handle int
	topic  Topic // empty matches every topic
	fn     Handler
}

// Bus is an in-process, synchronous event channel.
type Bus struct {
	subs []subscription
	next int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{next: 1}
}

// Subscribe registers fn for a single topic and returns a handle for Unsubscribe.
func (b *Bus) Subscribe(topic Topic, fn Handler) int {
	if fn == nil || topic == "" {
		return 0
	}
	return b.add(topic, fn)
}

// SubscribeAll registers fn for every topic.
func (b *Bus) SubscribeAll(fn Handler) int {
	if fn == nil {
		return 0
	}
	return b.add("", fn)
}

func (b *Bus) add(topic Topic, fn Handler) int {
	h := b.next
	b.next++
	b.subs = append(b.subs, subscription{handle: h, topic: topic, fn: fn})
	return h
}

// Unsubscribe removes the handler registered under handle. Unknown handles are ignored.
func (b *Bus) Unsubscribe(handle int) {
	for i, s := range b.subs {
		if s.handle == handle {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers payload to every handler subscribed to topic.
func (b *Bus) Publish(topic Topic, payload any) {
	if len(b.subs) == 0 {
		return
	}
	snapshot := make([]subscription, len(b.subs))
	copy(snapshot, b.subs)
	ev := Event{Topic: topic, Payload: payload}
	for _, s := range snapshot {
		if s.topic == "" || s.topic == topic {
			s.fn(ev)
		}
	}
}

// Len reports how many handlers are registered.
func (b *Bus) Len() int { return len(b.subs) }

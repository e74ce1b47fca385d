package event

import (
	"time"

	"github.com/google/uuid"
)

// Metadata is the standard information attached to every envelope.
type Metadata struct {
	// ID uniquely identifies this event instance.
	ID string

	// Timestamp records when the event was published.
	Timestamp time.Time

	// Source names the actor that caused the event, such as "keyboard"
	// or "script". Handlers can use it to ignore their own echoes.
	Source string
}

// Envelope is one delivered event.
type Envelope struct {
	Topic    Topic
	Payload  any
	Metadata Metadata
}

// Handler receives envelopes. Handlers run synchronously on the
// publisher's goroutine and must not publish to the same bus reentrantly
// for the same topic.
type Handler func(Envelope)

// Subscription is a handle on one registered handler.
type Subscription struct {
	bus       *Bus
	topic     Topic
	handler   Handler
	cancelled bool
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() Topic {
	return s.topic
}

// Cancel permanently stops delivery to this subscription.
func (s *Subscription) Cancel() {
	if s.cancelled {
		return
	}
	s.cancelled = true
	s.bus.remove(s)
}

// Bus delivers envelopes to subscribers synchronously, in subscription
// order. The zero value is not usable; call NewBus. A Bus is not safe
// for concurrent use.
type Bus struct {
	subs []*Subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for t and every topic beneath it.
func (b *Bus) Subscribe(t Topic, fn Handler) *Subscription {
	sub := &Subscription{bus: b, topic: t, handler: fn}
	b.subs = append(b.subs, sub)
	return sub
}

// Publish delivers payload to every matching subscriber before
// returning.
func (b *Bus) Publish(t Topic, payload any, source string) {
	env := Envelope{
		Topic:   t,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
	// Snapshot so handlers may subscribe or cancel during delivery.
	subs := make([]*Subscription, len(b.subs))
	copy(subs, b.subs)
	for _, sub := range subs {
		if sub.cancelled || !sub.topic.Covers(t) {
			continue
		}
		sub.handler(env)
	}
}

// SubscriberCount returns the number of live subscriptions.
func (b *Bus) SubscriberCount() int {
	return len(b.subs)
}

func (b *Bus) remove(sub *Subscription) {
	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Package events is the in-process broadcast used to tell independent views
// that the cart or a selection session changed.
package events

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type Topic string

const (
	CartChanged      Topic = "cart.changed"
	CartCountChanged Topic = "cart.count_changed"
	SessionChanged   Topic = "session.changed"
)

// Event is one broadcast notification
type Event struct {
	Topic Topic          `json:"topic"`
	Data  map[string]any `json:"data,omitempty"`
	At    time.Time      `json:"at"`
}

const subscriberBuffer = 32

// Bus fans events out to every subscriber without blocking the publisher
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Publish delivers e to every subscriber with room in its buffer; others miss it
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			log.WithFields(log.Fields{
				"topic":      e.Topic,
				"subscriber": id,
			}).Warn("Event subscriber is full, dropping event")
		}
	}
}

// Subscribe returns a channel of events and a cancel func that closes it
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
}

// Subscribers reports how many subscriptions are open
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

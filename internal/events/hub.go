// Package events carries entity change notifications from the domain
// services to live subscribers (the /ws/events feed).
package events

import (
	"sync"
	"time"
)

// Event describes one committed entity mutation.
type Event struct {
	Action string    `json:"action"` // created, updated, deleted
	Entity string    `json:"entity"` // user, house, tenant, rental
	ID     int       `json:"id"`
	At     time.Time `json:"at"`
}

const subscriberBuffer = 16

// Hub fans events out to subscribers. Publishing never blocks: a
// subscriber that falls behind misses events rather than stalling the
// write path.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Publish delivers e to every current subscriber.
func (h *Hub) Publish(e Event) {
	if h == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel function
// must be called to release it.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

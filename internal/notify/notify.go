// Package notify fans an accepted-order event out to every attached
// subscriber. Delivery is best-effort: a subscriber whose buffer is full
// (or who has disconnected) is dropped without blocking the others.
package notify

import (
	"sync"

	"github.com/realm-exchange/orderbook/internal/model"
)

// Event is published once per accepted order, from the book's actor
// goroutine, right after the book has committed the match and before
// the submitting caller is released.
type Event struct {
	Type     string         `json:"type"`
	Symbol   string         `json:"symbol"`
	Order    model.Order    `json:"order"`
	Trades   []model.Trade  `json:"trades"`
	Snapshot model.Snapshot `json:"snapshot"`
}

// Subscription is a single subscriber's inbound event channel.
type Subscription struct {
	ch chan Event
}

// Events exposes the subscription's channel for a range loop.
func (s *Subscription) Events() <-chan Event { return s.ch }

// Notifier is a concurrency-safe fan-out hub of Events.
type Notifier struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// New builds an empty Notifier.
func New() *Notifier {
	return &Notifier{subs: make(map[*Subscription]struct{})}
}

// Subscribe attaches a new subscriber with the given buffer size and
// returns it. Call Unsubscribe when the caller detaches.
func (n *Notifier) Subscribe(buffer int) *Subscription {
	sub := &Subscription{ch: make(chan Event, buffer)}
	n.mu.Lock()
	n.subs[sub] = struct{}{}
	n.mu.Unlock()
	return sub
}

// Unsubscribe detaches sub and closes its channel. Calling it for a
// subscription that is already detached (including one Publish has
// dropped) does nothing.
func (n *Notifier) Unsubscribe(sub *Subscription) {
	n.mu.Lock()
	if _, ok := n.subs[sub]; ok {
		delete(n.subs, sub)
		close(sub.ch)
	}
	n.mu.Unlock()
}

// Publish delivers event to every current subscriber. A subscriber whose
// buffer is full is dropped (detached, with its channel closed) rather
// than blocking the publisher; events already buffered for it can still
// be read.
func (n *Notifier) Publish(event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for sub := range n.subs {
		select {
		case sub.ch <- event:
		default:
			delete(n.subs, sub)
			close(sub.ch)
		}
	}
}

// Count reports the current subscriber count, for diagnostics.
func (n *Notifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}

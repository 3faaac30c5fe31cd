package event

import (
	"log"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
)

// Handler is a function that handles an event.
type Handler func(Event)

// subscription represents a registered event handler.
type subscription struct {
	id        string
	eventType string
	handler   Handler
}

// Bus is a simple synchronous pub-sub event bus.
// Every dom node that receives listeners owns one, in the role an
// EventTarget plays in a browser.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string][]subscription // eventType -> subscriptions
	live          map[string]struct{}       // ids that have not been unsubscribed
	nextID        atomic.Uint64
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subscriptions: make(map[string][]subscription),
		live:          make(map[string]struct{}),
	}
}

// Subscribe registers a handler for a specific event type.
// Returns a subscription ID that can be used to unsubscribe.
func (b *Bus) Subscribe(eventType string, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.generateID()
	b.subscriptions[eventType] = append(b.subscriptions[eventType], subscription{
		id:        id,
		eventType: eventType,
		handler:   handler,
	})
	b.live[id] = struct{}{}
	return id
}

// Unsubscribe removes a subscription by ID.
// Returns true if the subscription was found and removed.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscriptions {
		for i, sub := range subs {
			if sub.id == id {
				// Copy rather than re-slice so a Publish holding the old
				// slice keeps a consistent snapshot.
				next := make([]subscription, 0, len(subs)-1)
				next = append(next, subs[:i]...)
				next = append(next, subs[i+1:]...)
				b.subscriptions[eventType] = next
				delete(b.live, id)
				return true
			}
		}
	}
	return false
}

// Publish dispatches an event to all handlers registered for its type, in
// registration order. A handler that is unsubscribed while the event is
// being dispatched (including by an earlier handler of the same event) is
// not invoked. If a handler panics, the panic is logged, recovered, and
// publishing continues to remaining handlers.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.subscriptions[event.EventType()]
	b.mu.RUnlock()

	for _, sub := range subs {
		if !b.isLive(sub.id) {
			continue
		}
		b.safeCall(sub.handler, event)
	}
}

func (b *Bus) isLive(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.live[id]
	return ok
}

// safeCall invokes a handler and recovers from any panics.
func (b *Bus) safeCall(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: event handler panicked for event %s: %v\n%s",
				event.EventType(), r, debug.Stack())
		}
	}()
	handler(event)
}

// generateID creates a unique subscription ID.
func (b *Bus) generateID() string {
	return "sub-" + strconv.FormatUint(b.nextID.Add(1), 10)
}

// Clear removes all subscriptions.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = make(map[string][]subscription)
	b.live = make(map[string]struct{})
}

// SubscriptionCount returns the total number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.live)
}

// HasSubscribers reports whether any handler is registered for eventType.
func (b *Bus) HasSubscribers(eventType string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions[eventType]) > 0
}

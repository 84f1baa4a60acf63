// Package broadcast is a process-wide publish/subscribe channel for API
// failure events. It decouples the HTTP client, which has no idea what is
// currently on screen, from whatever surface wants to display errors.
package broadcast

import "sync"

// Event is a user-visible API failure notification.
type Event struct {
	Message   string
	ErrorCode string
}

// Handler receives published events.
type Handler func(Event)

// Broadcaster delivers each published event once to every subscriber active
// at publish time. No ordering is guaranteed across subscribers.
type Broadcaster struct {
	lock   sync.RWMutex
	nextID int
	subs   map[int]Handler
}

func New() *Broadcaster {
	return &Broadcaster{subs: make(map[int]Handler)}
}

// Subscribe registers a handler and returns its unsubscribe function.
// Unsubscribing twice is harmless.
func (b *Broadcaster) Subscribe(h Handler) func() {
	b.lock.Lock()
	defer b.lock.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = h

	return func() {
		b.lock.Lock()
		defer b.lock.Unlock()
		delete(b.subs, id)
	}
}

// Publish delivers the event to every current subscriber. Handlers run on
// the publisher's goroutine; keep them short.
func (b *Broadcaster) Publish(e Event) {
	b.lock.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.lock.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

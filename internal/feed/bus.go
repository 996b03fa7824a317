package feed

import "sync"

// Bus is an in-process publisher used by the demo variant and tests. The
// persisted variant publishes through the websocket hub instead; both sides
// see the same Event values.
type Bus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a callback invoked for every published event.
// Callbacks run synchronously on the publisher's goroutine.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()
}

// Publish delivers an event to every subscriber, the originator included.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := make([]func(Event), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}

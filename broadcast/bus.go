// Package broadcast implements the cross-instance refresh mechanism: a
// store that commits a mutation publishes on its resource's bus, and every
// other live store for that resource re-reads the shared cache.
package broadcast

import "sync"

// Bus is a process-wide publish/subscribe channel carrying a monotonically
// increasing refresh trigger. It outlives any single subscriber.
type Bus struct {
	mu      sync.Mutex
	trigger uint64
	nextID  uint64
	subs    map[uint64]func(uint64)
	order   []uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]func(uint64))}
}

// Subscribe registers fn to be invoked with the new trigger value on every
// Publish. The returned function deregisters fn; callers must invoke it on
// teardown so listeners do not leak. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(fn func(trigger uint64)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.order = append(b.order, id)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish increments the trigger and synchronously invokes every registered
// listener, in registration order, with the new value. Listeners are copied
// before notification so a listener may unsubscribe or publish reentrantly.
// Listeners must be idempotent: the instance whose mutation caused the
// publish hears it too.
func (b *Bus) Publish() uint64 {
	b.mu.Lock()
	b.trigger++
	trigger := b.trigger

	live := make([]func(uint64), 0, len(b.subs))
	kept := b.order[:0]
	for _, id := range b.order {
		if fn, ok := b.subs[id]; ok {
			live = append(live, fn)
			kept = append(kept, id)
		}
	}
	b.order = kept
	b.mu.Unlock()

	for _, fn := range live {
		fn(trigger)
	}
	return trigger
}

// Trigger returns the current trigger value.
func (b *Bus) Trigger() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trigger
}

// Subscribers returns the number of live listeners.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

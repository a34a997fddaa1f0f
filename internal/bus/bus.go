// Package bus is the process-wide "data changed" notification hub.
//
// Events carry no payload: subscribers re-read whatever collection they care
// about, so redundant publishes are harmless.
package bus

import "sync"

type subscriber struct {
	id int64
	fn func()
}

// Bus fans a payload-less event out to every subscriber, synchronously and
// in subscription order, on the publishing goroutine.
type Bus struct {
	mu     sync.RWMutex
	nextID int64
	subs   []subscriber
}

func New() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is a no-op.
func (b *Bus) Subscribe(fn func()) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish notifies every subscriber registered at the time of the call.
// Listeners may subscribe or unsubscribe from inside their callback.
func (b *Bus) Publish() {
	b.mu.RLock()
	snapshot := make([]subscriber, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.RUnlock()

	for _, s := range snapshot {
		s.fn()
	}
}

// Len returns the number of live subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

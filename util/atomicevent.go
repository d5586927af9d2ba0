package util

import (
	"maps"
	"sync"
)

// AtomicEvent keeps only the most recent value sent and signals its
// arrival on a channel with capacity one. Send never blocks.
type AtomicEvent[T any] struct {
	mu     sync.Mutex
	value  T
	notify chan struct{}
}

func NewAtomicEvent[T any]() *AtomicEvent[T] {
	return &AtomicEvent[T]{
		notify: make(chan struct{}, 1),
	}
}

// Send replaces the stored value and raises the notification unless one
// is already pending.
func (ae *AtomicEvent[T]) Send(event T) {
	ae.mu.Lock()
	defer ae.mu.Unlock()

	ae.value = event
	select {
	case ae.notify <- struct{}{}:
	default:
	}
}

// Channel returns the notification channel for use in select statements.
func (ae *AtomicEvent[T]) Channel() <-chan struct{} {
	return ae.notify
}

func (ae *AtomicEvent[T]) Value() T {
	ae.mu.Lock()
	defer ae.mu.Unlock()
	return ae.value
}

// HasPending reports whether a notification waits to be received.
func (ae *AtomicEvent[T]) HasPending() bool {
	return len(ae.notify) > 0
}

// AtomicMapEvent is a string keyed store of the latest values, e.g. the
// runtime parameters of the animation loop. Besides the full snapshot
// it remembers which keys changed since the last ConsumeValues.
type AtomicMapEvent[T any] struct {
	mu      sync.Mutex
	value   map[string]T
	changed map[string]T
	notify  chan struct{}
}

func NewAtomicMapEvent[T any]() *AtomicMapEvent[T] {
	return &AtomicMapEvent[T]{
		notify:  make(chan struct{}, 1),
		value:   make(map[string]T),
		changed: make(map[string]T),
	}
}

// Send stores value under key. It is non-blocking.
func (ae *AtomicMapEvent[T]) Send(key string, value T) {
	ae.mu.Lock()
	defer ae.mu.Unlock()

	ae.value[key] = value
	ae.changed[key] = value
	ae.signal()
}

// SendAll stores all entries of values with a single notification.
func (ae *AtomicMapEvent[T]) SendAll(values map[string]T) {
	if len(values) == 0 {
		return
	}
	ae.mu.Lock()
	defer ae.mu.Unlock()

	maps.Copy(ae.value, values)
	maps.Copy(ae.changed, values)
	ae.signal()
}

// Update replaces the value under key with fn applied to the current
// value and whether it existed.
func (ae *AtomicMapEvent[T]) Update(key string, fn func(old T, ok bool) T) T {
	ae.mu.Lock()
	defer ae.mu.Unlock()

	old, ok := ae.value[key]
	value := fn(old, ok)
	ae.value[key] = value
	ae.changed[key] = value
	ae.signal()
	return value
}

func (ae *AtomicMapEvent[T]) signal() {
	select {
	case ae.notify <- struct{}{}:
	default:
	}
}

func (ae *AtomicMapEvent[T]) Channel() <-chan struct{} {
	return ae.notify
}

// Value returns a copy of all stored values.
func (ae *AtomicMapEvent[T]) Value() map[string]T {
	ae.mu.Lock()
	defer ae.mu.Unlock()
	return maps.Clone(ae.value)
}

// ConsumeValues returns the entries changed since the previous call and
// drops a pending notification.
func (ae *AtomicMapEvent[T]) ConsumeValues() map[string]T {
	ae.mu.Lock()
	defer ae.mu.Unlock()

	ret := ae.changed
	ae.changed = make(map[string]T)
	select {
	case <-ae.notify:
	default:
	}
	return ret
}

func (ae *AtomicMapEvent[T]) HasPending() bool {
	return len(ae.notify) > 0
}

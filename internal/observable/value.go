// Package observable provides a single-slot value that notifies its
// subscribers synchronously whenever a new value is published.
package observable

import (
	"context"
	"sync"
)

// Value holds the most recently published value of type T
type Value[T any] struct {
	mu      sync.RWMutex
	current T
	nextID  uint64
	subs    map[uint64]func(T)
	order   []uint64
	publish sync.Mutex
}

// New creates a value holding initial
func New[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[uint64]func(T)),
	}
}

// Get returns the latest published value
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set publishes val and notifies subscribers in subscription order before
// returning. Concurrent Set calls are serialised so every subscriber sees
// the same sequence of values. Subscribers must not call Set or Subscribe.
func (v *Value[T]) Set(val T) {
	v.publish.Lock()
	defer v.publish.Unlock()

	v.mu.Lock()
	v.current = val
	fns := v.snapshot()
	v.mu.Unlock()

	for _, fn := range fns {
		fn(val)
	}
}

// Subscribe registers fn and calls it once with the current value.
// The returned cancel function is safe to call more than once.
func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	v.publish.Lock()
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	v.order = append(v.order, id)
	current := v.current
	v.mu.Unlock()

	fn(current)
	v.publish.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { v.unsubscribe(id) })
	}
}

// Changes delivers published values on a channel until ctx is done.
// A slow reader only ever sees the newest pending value.
func (v *Value[T]) Changes(ctx context.Context) <-chan T {
	out := make(chan T, 1)
	cancel := v.Subscribe(func(val T) {
		for {
			select {
			case out <- val:
				return
			default:
			}
			// Drop the stale value so the newest one fits
			select {
			case <-out:
			default:
			}
		}
	})

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return out
}

// Subscribers returns the number of active subscribers
func (v *Value[T]) Subscribers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subs)
}

func (v *Value[T]) snapshot() []func(T) {
	fns := make([]func(T), 0, len(v.order))
	for _, id := range v.order {
		fns = append(fns, v.subs[id])
	}
	return fns
}

func (v *Value[T]) unsubscribe(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.subs, id)
	for i, o := range v.order {
		if o == id {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
}

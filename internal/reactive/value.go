// Package reactive provides a last-value-cached publish/subscribe cell.
//
// A Value holds a current snapshot that can be read synchronously, while
// subscribers receive asynchronous change notifications. Late subscribers
// immediately receive the current value. Slow subscribers are never blocked
// on: delivery coalesces to the latest value, preserving emission order.
package reactive

import (
	"sync"

	"github.com/google/uuid"
)

type Value[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[uuid.UUID]chan T
}

// New creates a Value holding the given initial snapshot.
func New[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[uuid.UUID]chan T),
	}
}

// Get returns the current snapshot.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the snapshot and fans it out to every subscriber.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = next
	for _, ch := range v.subs {
		send(ch, next)
	}
}

// Update applies fn to the current snapshot under the lock and publishes
// the result. It returns the new snapshot. Holders use this to serialize
// their read-modify-write state transitions.
func (v *Value[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = fn(v.current)
	for _, ch := range v.subs {
		send(ch, v.current)
	}
	return v.current
}

// Subscribe registers a new subscriber. The current snapshot is already
// queued on the returned subscription's channel.
func (v *Value[T]) Subscribe() *Subscription[T] {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := uuid.New()
	ch := make(chan T, 1)
	ch <- v.current
	v.subs[id] = ch

	return &Subscription[T]{
		ch: ch,
		cancel: func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			if sub, ok := v.subs[id]; ok {
				delete(v.subs, id)
				close(sub)
			}
		},
	}
}

// SubscriberCount returns the number of active subscriptions.
func (v *Value[T]) SubscriberCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// send delivers next without blocking: if the subscriber has not consumed
// the previous snapshot yet, it is replaced by the newer one.
func send[T any](ch chan T, next T) {
	for {
		select {
		case ch <- next:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Subscription is one subscriber's handle on a Value. Cancel must be called
// when the owning screen detaches.
type Subscription[T any] struct {
	ch     chan T
	once   sync.Once
	cancel func()
}

// Updates returns the notification channel. It is closed by Cancel.
func (s *Subscription[T]) Updates() <-chan T {
	return s.ch
}

// Cancel tears the subscription down. Safe to call more than once.
func (s *Subscription[T]) Cancel() {
	s.once.Do(s.cancel)
}

package store

import (
	"sync"
	"time"

	"spendtrack/internal/reactive"

	"github.com/google/uuid"
)

// Snapshot is one emission of a live query: the result set at a point in
// time, or the error that prevented computing it. A failed refresh does not
// tear the watch down; the next mutation retries.
type Snapshot[T any] struct {
	Value T
	Err   error
}

// Watch is a live query handle. It re-executes its query after every store
// mutation and caches the latest snapshot. Emissions are strictly in
// mutation order; a consumer that falls behind only sees the newest one.
type Watch[T any] struct {
	id    uuid.UUID
	store *Store
	fetch func() (T, error)
	value *reactive.Value[Snapshot[T]]
	sub   *reactive.Subscription[Snapshot[T]]

	mu   sync.Mutex
	once sync.Once
}

func newWatch[T any](s *Store, name string, fetch func() (T, error)) *Watch[T] {
	w := &Watch[T]{
		id:    uuid.New(),
		store: s,
		fetch: fetch,
	}

	initial, err := fetch()
	if err != nil {
		s.log.Warn().Err(err).Str("watch", name).Msg("initial watch query failed")
	}
	w.value = reactive.New(Snapshot[T]{Value: initial, Err: err})
	w.sub = w.value.Subscribe()

	s.register(w.id, w, name)
	return w
}

// Current returns the latest snapshot without blocking.
func (w *Watch[T]) Current() Snapshot[T] {
	return w.value.Get()
}

// Updates returns the emission channel. The snapshot current at subscribe
// time is already queued. The channel is closed by Close.
func (w *Watch[T]) Updates() <-chan Snapshot[T] {
	return w.sub.Updates()
}

// Close unregisters the watch from the store and releases its channel.
// Safe to call more than once.
func (w *Watch[T]) Close() {
	w.once.Do(func() {
		w.store.unregister(w.id)
		w.sub.Cancel()
	})
}

// refresh re-executes the query and publishes the result. Serialized per
// watch so emissions stay in mutation order.
func (w *Watch[T]) refresh() {
	w.mu.Lock()
	defer w.mu.Unlock()

	started := time.Now()
	v, err := w.fetch()
	w.store.metrics.observeRefresh(time.Since(started), err)
	if err != nil {
		w.store.log.Warn().Err(err).Msg("watch refresh failed")
	}
	w.value.Set(Snapshot[T]{Value: v, Err: err})
}

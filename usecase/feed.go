package usecase

import (
	"context"
	"sync"
)

// SubscribeFunc attaches a live subscription for an owner and returns the
// teardown function. The callback receives the full ordered result set on
// attach and after every remote mutation.
type SubscribeFunc[T any] func(ctx context.Context, ownerID string, callback func([]T)) (func(), error)

// Feed is the per-entity live view backing a client's list screen. It holds
// the latest subscribed list plus coarse loading/error flags. Mutations do
// not splice this list; the subscription round-trip reconciles it, so the
// view may briefly show stale data after a write.
//
// States: idle (no owner) -> loading (subscribed, nothing delivered yet) ->
// ready. Every delivery re-enters ready; a subscription failure keeps the
// stale data and records the error instead of clearing the view.
type Feed[T any] struct {
	subscribe SubscribeFunc[T]

	mu          sync.RWMutex
	data        []T
	loading     bool
	err         string
	unsubscribe func()
}

func NewFeed[T any](subscribe SubscribeFunc[T]) *Feed[T] {
	return &Feed[T]{subscribe: subscribe}
}

// SetOwner switches the feed to a new owner, detaching any previous
// subscription. An empty owner id clears the data and leaves the feed idle,
// which is how sign-out empties every open view.
func (f *Feed[T]) SetOwner(ctx context.Context, ownerID string) {
	f.mu.Lock()
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
	f.data = nil
	f.err = ""

	if ownerID == "" {
		f.loading = false
		f.mu.Unlock()
		return
	}

	f.loading = true
	f.mu.Unlock()

	unsubscribe, err := f.subscribe(ctx, ownerID, func(items []T) {
		f.mu.Lock()
		f.data = items
		f.loading = false
		f.mu.Unlock()
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.loading = false
		f.err = err.Error()
		return
	}
	f.unsubscribe = unsubscribe
}

// Close detaches the subscription without clearing the last-known data.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
}

// Snapshot returns the current list and flags.
func (f *Feed[T]) Snapshot() (data []T, loading bool, errMsg string) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.data, f.loading, f.err
}

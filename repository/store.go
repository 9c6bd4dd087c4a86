package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Collection names. Every collection is queried by an owner-id equality
// filter only; composite indexes are deliberately avoided and ordering is
// applied client-side (see sortByUpdatedAtDesc).
const (
	MemosCollection         = "memos"
	TemplatesCollection     = "templates"
	CategoriesCollection    = "categories"
	NotificationsCollection = "notifications"
	UsersCollection         = "users"
	SessionsCollection      = "sessions"
)

// ErrNotFound is returned by mutating operations that matched no document.
var ErrNotFound = errors.New("document not found")

const opTimeout = 10 * time.Second

func opContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, opTimeout)
}

// storeErr wraps a transport error with a generic descriptive message.
// Callers treat any store failure as non-retryable at this layer.
func storeErr(op string, err error) error {
	return fmt.Errorf("store: %s: %w", op, err)
}

// sortByUpdatedAtDesc orders a result set by updated_at descending in the
// client. The server returns owner-filtered sets unordered, which keeps the
// deployment free of composite indexes at the cost of O(n log n) per fetch.
func sortByUpdatedAtDesc[T any](items []T, updatedAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return updatedAt(items[i]).After(updatedAt(items[j]))
	})
}

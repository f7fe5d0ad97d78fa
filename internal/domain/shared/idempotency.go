package shared

import (
	"context"
	"time"
)

// ReplayStore remembers keys (webhook signatures, event IDs) for a bounded
// time so the same delivery is processed at most once.
type ReplayStore interface {
	// MarkSeen records key with a TTL.
	// Returns true if the key was newly recorded, false if it was already seen
	MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Forget drops key so a later MarkSeen records it again
	Forget(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

package driven

import (
	"context"
	"time"
)

// TokenStore is the key-value store persisting session credentials across
// restarts. Keys are opaque to implementations.
type TokenStore interface {
	// Get returns ("", nil) when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// Set stores or replaces the value for key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// TokenPurger is implemented by stores that keep tokens without their own
// expiry and need stale entries removed periodically.
type TokenPurger interface {
	// PurgeOlderThan removes tokens not written since cutoff.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

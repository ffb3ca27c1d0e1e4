package domain

import "context"

// KVStore is a durable string-keyed, string-valued store with no expiry of
// its own. Freshness is enforced by the cache layer on top of it.
type KVStore interface {
	// Get returns the stored value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}

package fetch

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Getter is the uncached fetch operation
type Getter interface {
	Fetch(ctx context.Context, url string, maxAttempts int) ([]byte, error)
}

// Cache is the freshness-checked store consulted before the network
type Cache interface {
	Get(ctx context.Context, key string, maxAge time.Duration) ([]byte, bool)
	Set(ctx context.Context, key string, value any) error
}

// Cached serves fresh cache entries and fills the cache on a miss
type Cached struct {
	log     zerolog.Logger
	fetcher Getter
	cache   Cache
}

func NewCached(log zerolog.Logger, fetcher Getter, cache Cache) *Cached {
	return &Cached{
		log:     log.With().Str("module", "fetch").Logger(),
		fetcher: fetcher,
		cache:   cache,
	}
}

// FetchCached returns the cached payload for key when it is no older than
// maxAge, otherwise fetches url and stores the result under key.
// Nothing is cached when the fetch fails.
func (c *Cached) FetchCached(ctx context.Context, url, key string, maxAge time.Duration) ([]byte, error) {
	if data, ok := c.cache.Get(ctx, key, maxAge); ok {
		c.log.Trace().Str("key", key).Msg("cache hit")
		return data, nil
	}

	data, err := c.fetcher.Fetch(ctx, url, 0)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, data); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("could not cache response")
	}

	return data, nil
}

// Fetch passes through to the uncached fetcher
func (c *Cached) Fetch(ctx context.Context, url string, maxAttempts int) ([]byte, error) {
	return c.fetcher.Fetch(ctx, url, maxAttempts)
}

package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/shinkrolist/internal/domain"
)

// entry is the stored representation of a cached value
type entry struct {
	// Time is the write time in unix milliseconds
	Time int64           `json:"time"`
	Data json.RawMessage `json:"data"`
}

// Store is a time-bounded cache on top of a durable key/value backend.
// Freshness is decided at read time; stale or unreadable entries are evicted.
type Store struct {
	log     zerolog.Logger
	backend domain.KVStore
	now     func() time.Time
}

type Option func(*Store)

// WithClock replaces the wall clock used for writes and expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(log zerolog.Logger, backend domain.KVStore, opts ...Option) *Store {
	s := &Store{
		log:     log.With().Str("module", "cache").Logger(),
		backend: backend,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached payload when it is no older than maxAge.
// A miss is never an error.
func (s *Store) Get(ctx context.Context, key string, maxAge time.Duration) ([]byte, bool) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil || e.Data == nil {
		s.log.Debug().Err(errors.Wrapf(domain.ErrCacheCorrupt, "key %s", key)).Msg("evicting entry")
		s.evict(ctx, key)
		return nil, false
	}

	age := s.now().Sub(time.UnixMilli(e.Time))
	if age > maxAge {
		s.log.Trace().Str("key", key).Dur("age", age).Msg("expired")
		s.evict(ctx, key)
		return nil, false
	}

	return e.Data, true
}

// Set stores value with the current time, replacing any previous entry.
// []byte and json.RawMessage values are stored as-is and must hold JSON.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	var data json.RawMessage
	switch v := value.(type) {
	case json.RawMessage:
		data = v
	case []byte:
		data = v
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return errors.Wrapf(err, "could not encode value for %s", key)
		}
		data = b
	}

	if !json.Valid(data) {
		return errors.Errorf("value for %s is not valid json", key)
	}

	b, err := json.Marshal(entry{Time: s.now().UnixMilli(), Data: data})
	if err != nil {
		return errors.Wrapf(err, "could not encode entry for %s", key)
	}

	if err := s.backend.Set(ctx, key, string(b)); err != nil {
		return errors.Wrapf(err, "could not store %s", key)
	}

	return nil
}

func (s *Store) evict(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("could not evict entry")
	}
}

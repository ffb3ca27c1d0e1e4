package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/varoOP/shinkrolist/internal/domain"
	"github.com/varoOP/shinkrolist/internal/store"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type failingKV struct {
	domain.KVStore
	getErr error
}

func (f failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, f.getErr
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	kv := store.NewMemoryKV()
	s := NewStore(zerolog.Nop(), kv, WithClock(clk.now))

	if err := s.Set(ctx, "cache_trending", []int{1, 2, 3}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	tests := []struct {
		name    string
		advance time.Duration
		maxAge  time.Duration
		wantHit bool
	}{
		{name: "fresh", advance: 0, maxAge: 30 * time.Minute, wantHit: true},
		{name: "at max age", advance: 30 * time.Minute, maxAge: 30 * time.Minute, wantHit: true},
		{name: "one ms past max age", advance: time.Millisecond, maxAge: 30 * time.Minute, wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk.advance(tt.advance)
			got, ok := s.Get(ctx, "cache_trending", tt.maxAge)
			if ok != tt.wantHit {
				t.Fatalf("Get() hit = %v, want %v", ok, tt.wantHit)
			}
			if ok && string(got) != "[1,2,3]" {
				t.Errorf("Get() = %s, want [1,2,3]", got)
			}
		})
	}

	if kv.Len() != 0 {
		t.Errorf("expired entry not evicted, backend has %d keys", kv.Len())
	}
}

func TestStoreLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := NewStore(zerolog.Nop(), store.NewMemoryKV())

	s.Set(ctx, "cache_genres_list", map[string]string{"v": "old"})
	s.Set(ctx, "cache_genres_list", map[string]string{"v": "new"})

	got, ok := s.Get(ctx, "cache_genres_list", time.Hour)
	if !ok || string(got) != `{"v":"new"}` {
		t.Errorf("Get() = %s, %v; want new value", got, ok)
	}
}

func TestStoreRawJSON(t *testing.T) {
	ctx := context.Background()
	s := NewStore(zerolog.Nop(), store.NewMemoryKV())

	if err := s.Set(ctx, "k", []byte(`{"data":[{"mal_id":5114}]}`)); err != nil {
		t.Fatalf("Set(raw) error = %v", err)
	}
	got, ok := s.Get(ctx, "k", time.Minute)
	if !ok || string(got) != `{"data":[{"mal_id":5114}]}` {
		t.Errorf("Get() = %s, %v", got, ok)
	}

	if err := s.Set(ctx, "bad", []byte("not json")); err == nil {
		t.Error("Set(invalid raw) expected error")
	}
}

func TestStoreCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()

	for name, raw := range map[string]string{
		"not json":     "{{{",
		"missing data": `{"time":1}`,
	} {
		t.Run(name, func(t *testing.T) {
			kv := store.NewMemoryKV()
			kv.Set(ctx, "cache_popular", raw)
			s := NewStore(zerolog.Nop(), kv)

			if _, ok := s.Get(ctx, "cache_popular", time.Hour); ok {
				t.Fatal("Get() hit on corrupt entry")
			}
			if _, ok, _ := kv.Get(ctx, "cache_popular"); ok {
				t.Error("corrupt entry not evicted")
			}
		})
	}
}

func TestStoreBackendErrorIsMiss(t *testing.T) {
	s := NewStore(zerolog.Nop(), failingKV{getErr: errors.New("disk gone")})
	if _, ok := s.Get(context.Background(), "cache_popular", time.Hour); ok {
		t.Error("Get() hit with failing backend")
	}
}

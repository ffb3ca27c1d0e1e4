package store

import (
	"context"
	"testing"

	"github.com/varoOP/shinkrolist/internal/domain"
)

type clearableKV interface {
	domain.KVStore
	Clear(ctx context.Context) (int64, error)
}

func TestKVStores(t *testing.T) {
	stores := map[string]func(t *testing.T) clearableKV{
		"memory": func(t *testing.T) clearableKV { return NewMemoryKV() },
		"bolt": func(t *testing.T) clearableKV {
			kv, err := NewBoltKV(t.TempDir())
			if err != nil {
				t.Fatalf("NewBoltKV() error = %v", err)
			}
			t.Cleanup(func() { kv.Close() })
			return kv
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := open(t)

			if _, ok, err := kv.Get(ctx, "cache_genres_list"); ok || err != nil {
				t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
			}

			if err := kv.Set(ctx, "cache_genres_list", "first"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := kv.Set(ctx, "cache_genres_list", "second"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			v, ok, err := kv.Get(ctx, "cache_genres_list")
			if err != nil || !ok || v != "second" {
				t.Fatalf("Get() = %q, %v, %v; want second", v, ok, err)
			}

			if err := kv.Delete(ctx, "cache_genres_list"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if err := kv.Delete(ctx, "never-set"); err != nil {
				t.Fatalf("Delete(missing) error = %v", err)
			}
			if _, ok, _ := kv.Get(ctx, "cache_genres_list"); ok {
				t.Error("key still present after Delete")
			}

			kv.Set(ctx, "a", "1")
			kv.Set(ctx, "b", "2")
			n, err := kv.Clear(ctx)
			if err != nil || n != 2 {
				t.Errorf("Clear() = %d, %v; want 2", n, err)
			}
			if _, ok, _ := kv.Get(ctx, "a"); ok {
				t.Error("key still present after Clear")
			}
		})
	}
}

func TestBoltKVPersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	kv, err := NewBoltKV(dir)
	if err != nil {
		t.Fatalf("NewBoltKV() error = %v", err)
	}
	if err := kv.Set(ctx, "cache_trending", `{"time":1,"data":{}}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	kv.Close()

	kv, err = NewBoltKV(dir)
	if err != nil {
		t.Fatalf("reopen NewBoltKV() error = %v", err)
	}
	defer kv.Close()

	v, ok, err := kv.Get(ctx, "cache_trending")
	if err != nil || !ok || v != `{"time":1,"data":{}}` {
		t.Errorf("Get() after reopen = %q, %v, %v", v, ok, err)
	}
}

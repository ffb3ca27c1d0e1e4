package database

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/varoOP/shinkrolist/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	db, err := NewDB(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	db, err = NewDB(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen NewDB() error = %v", err)
	}
	defer db.Close()

	var version int
	if err := db.handler.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("user_version: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("user_version = %d, want %d", version, len(migrations))
	}
}

func TestKVRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepo(zerolog.Nop(), openTestDB(t))

	if _, ok, err := repo.Get(ctx, "cache_popular"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
	}

	if err := repo.Set(ctx, "cache_popular", `{"time":1,"data":[]}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set(ctx, "cache_popular", `{"time":2,"data":[]}`); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, ok, err := repo.Get(ctx, "cache_popular")
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if got != `{"time":2,"data":[]}` {
		t.Errorf("Get() = %q, want last write", got)
	}

	if err := repo.Delete(ctx, "cache_popular"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, "cache_popular"); err != nil {
		t.Fatalf("Delete(missing) error = %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "cache_popular"); ok {
		t.Error("expected key to be gone after Delete")
	}

	repo.Set(ctx, "a", "1")
	repo.Set(ctx, "b", "2")
	n, err := repo.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
}

func TestFavoritesRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewFavoritesRepo(zerolog.Nop(), openTestDB(t))

	base := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	steins := domain.Favorite{MalID: 9253, Title: "Steins;Gate", Image: "https://img/9253.jpg", URL: "https://myanimelist.net/anime/9253"}
	fma := domain.Favorite{MalID: 5114, Title: "Fullmetal Alchemist: Brotherhood", Image: "https://img/5114.jpg", URL: "https://myanimelist.net/anime/5114"}

	t.Run("create and list newest first", func(t *testing.T) {
		for _, f := range []domain.Favorite{steins, fma} {
			created, err := repo.Create(ctx, "yuki", f)
			if err != nil {
				t.Fatalf("Create(%d) error = %v", f.MalID, err)
			}
			if !created {
				t.Errorf("Create(%d) created = false", f.MalID)
			}
		}

		got, err := repo.List(ctx, "yuki")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("List() len = %d, want 2", len(got))
		}
		if got[0].MalID != 5114 || got[1].MalID != 9253 {
			t.Errorf("List() order = [%d %d], want [5114 9253]", got[0].MalID, got[1].MalID)
		}
		if !got[0].CreatedAt.After(got[1].CreatedAt) {
			t.Errorf("CreatedAt not descending: %v, %v", got[0].CreatedAt, got[1].CreatedAt)
		}
	})

	t.Run("duplicate create keeps one record", func(t *testing.T) {
		created, err := repo.Create(ctx, "yuki", fma)
		if err != nil {
			t.Fatalf("Create(duplicate) error = %v", err)
		}
		if created {
			t.Error("Create(duplicate) created = true")
		}

		got, _ := repo.List(ctx, "yuki")
		if len(got) != 2 {
			t.Errorf("List() len = %d after duplicate, want 2", len(got))
		}
	})

	t.Run("owners are isolated", func(t *testing.T) {
		if _, err := repo.Create(ctx, "mika", fma); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		got, _ := repo.List(ctx, "mika")
		if len(got) != 1 || got[0].MalID != 5114 {
			t.Errorf("List(mika) = %+v", got)
		}
	})

	t.Run("delete missing is a no-op", func(t *testing.T) {
		if err := repo.Delete(ctx, "yuki", 1); err != nil {
			t.Fatalf("Delete(missing) error = %v", err)
		}
		if err := repo.Delete(ctx, "yuki", 5114); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		got, _ := repo.List(ctx, "yuki")
		if len(got) != 1 || got[0].MalID != 9253 {
			t.Errorf("List() after delete = %+v", got)
		}
	})
}

package favorites

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/varoOP/shinkrolist/internal/database"
	"github.com/varoOP/shinkrolist/internal/domain"
)

var fma = domain.Favorite{
	MalID: 5114,
	Title: "Fullmetal Alchemist: Brotherhood",
	Image: "https://cdn.myanimelist.net/images/anime/1223/96541.jpg",
	URL:   "https://myanimelist.net/anime/5114",
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()

	db, err := database.NewDB(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	session := NewSession()
	store := NewLocalStore(database.NewFavoritesRepo(zerolog.Nop(), db), session)

	if _, err := store.List(ctx); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("List() without session error = %v", err)
	}
	if err := store.Create(ctx, fma); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("Create() without session error = %v", err)
	}

	session.Init(domain.User{ID: "u1", Username: "yuki"})

	if err := store.Create(ctx, domain.Favorite{MalID: 1}); !errors.Is(err, domain.ErrMissingFields) {
		t.Errorf("Create(incomplete) error = %v, want ErrMissingFields", err)
	}

	for i := 0; i < 2; i++ {
		if err := store.Create(ctx, fma); err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].MalID != 5114 {
		t.Errorf("List() = %+v, want single 5114", list)
	}

	if err := store.Delete(ctx, 5114); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, 5114); err != nil {
		t.Fatalf("Delete(missing) error = %v", err)
	}
	if list, _ := store.List(ctx); len(list) != 0 {
		t.Errorf("List() after delete = %+v", list)
	}
}

func newMyListServer(t *testing.T) *httptest.Server {
	const cookie = "connect.sid=s%3Aabc"
	var items []map[string]any

	mux := http.NewServeMux()
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Cookie") != cookie {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"ok":false,"message":"Not logged in"}`))
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("GET /me", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true,"user":{"id":"66f0","username":"yuki","email":"yuki@example.com"}}`))
	}))
	mux.HandleFunc("GET /api/my-list", authed(func(w http.ResponseWriter, r *http.Request) {
		out := make([]map[string]any, 0, len(items))
		for i := len(items) - 1; i >= 0; i-- {
			out = append(out, items[i])
		}
		b, _ := json.Marshal(map[string]any{"ok": true, "items": out})
		w.Write(b)
	}))
	mux.HandleFunc("POST /api/my-list", authed(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var fav domain.Favorite
		json.Unmarshal(body, &fav)
		if !fav.Valid() {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Missing fields"}`))
			return
		}
		if fav.MalID == 500 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"Server error"}`))
			return
		}
		for _, it := range items {
			if it["malId"] == float64(fav.MalID) {
				w.Write([]byte(`{"ok":true,"already":true}`))
				return
			}
		}
		items = append(items, map[string]any{"malId": float64(fav.MalID), "title": fav.Title, "image": fav.Image, "url": fav.URL, "createdAt": "2026-10-15T12:00:00Z"})
		w.Write([]byte(`{"ok":true}`))
	}))
	mux.HandleFunc("DELETE /api/my-list/{malId}", authed(func(w http.ResponseWriter, r *http.Request) {
		for i, it := range items {
			if r.PathValue("malId") == jsonNumber(it["malId"]) {
				items = append(items[:i], items[i+1:]...)
				break
			}
		}
		w.Write([]byte(`{"ok":true}`))
	}))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func jsonNumber(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestRemoteStore(t *testing.T) {
	ctx := context.Background()
	server := newMyListServer(t)

	t.Run("unauthenticated", func(t *testing.T) {
		store := NewRemoteStore(zerolog.Nop(), server.URL, "", nil)
		if _, err := store.Me(ctx); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("Me() error = %v", err)
		}
		if _, err := store.List(ctx); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("List() error = %v", err)
		}
	})

	store := NewRemoteStore(zerolog.Nop(), server.URL+"/", "connect.sid=s%3Aabc", server.Client())

	t.Run("me", func(t *testing.T) {
		user, err := store.Me(ctx)
		if err != nil {
			t.Fatalf("Me() error = %v", err)
		}
		if user.ID != "66f0" || user.Username != "yuki" {
			t.Errorf("Me() = %+v", user)
		}
	})

	t.Run("create list delete", func(t *testing.T) {
		steins := domain.Favorite{MalID: 9253, Title: "Steins;Gate", Image: "https://img/9253.jpg", URL: "https://myanimelist.net/anime/9253"}
		for _, f := range []domain.Favorite{fma, steins, fma} {
			if err := store.Create(ctx, f); err != nil {
				t.Fatalf("Create(%d) error = %v", f.MalID, err)
			}
		}

		list, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 2 || list[0].MalID != 9253 || list[1].MalID != 5114 {
			t.Fatalf("List() = %+v", list)
		}
		if list[0].CreatedAt.IsZero() {
			t.Error("CreatedAt not decoded")
		}

		if err := store.Delete(ctx, 5114); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := store.Delete(ctx, 5114); err != nil {
			t.Fatalf("Delete(missing) error = %v", err)
		}
		list, _ = store.List(ctx)
		if len(list) != 1 || list[0].MalID != 9253 {
			t.Errorf("List() after delete = %+v", list)
		}
	})

	t.Run("server error carries message", func(t *testing.T) {
		err := store.Create(ctx, domain.Favorite{MalID: 500, Title: "x", Image: "x", URL: "x"})
		var remote *domain.RemoteError
		if !errors.As(err, &remote) {
			t.Fatalf("Create() error = %v, want RemoteError", err)
		}
		if remote.StatusCode != 500 || remote.Body != "Server error" {
			t.Errorf("RemoteError = %+v", remote)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		if err := store.Create(ctx, domain.Favorite{MalID: 1}); !errors.Is(err, domain.ErrMissingFields) {
			t.Errorf("Create() error = %v", err)
		}
	})
}

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/varoOP/shinkrolist/internal/domain"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(newViper(nil))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Cache.Backend != domain.CacheBackendSQLite {
		t.Errorf("Cache.Backend = %q, want sqlite", cfg.Cache.Backend)
	}
	if cfg.Favorites.Backend != domain.FavoritesBackendLocal {
		t.Errorf("Favorites.Backend = %q, want local", cfg.Favorites.Backend)
	}
	if cfg.Catalog.BaseURL != DefaultBaseURL {
		t.Errorf("Catalog.BaseURL = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.MaxAttempts != 4 {
		t.Errorf("Catalog.MaxAttempts = %d, want 4", cfg.Catalog.MaxAttempts)
	}
	if cfg.Catalog.BackoffBase != 800*time.Millisecond {
		t.Errorf("Catalog.BackoffBase = %v, want 800ms", cfg.Catalog.BackoffBase)
	}
	if cfg.Catalog.MaxWait != 0 {
		t.Errorf("Catalog.MaxWait = %v, want 0", cfg.Catalog.MaxWait)
	}
	if cfg.Search.Debounce != 350*time.Millisecond || cfg.Search.MinLength != 2 {
		t.Errorf("Search = %+v", cfg.Search)
	}
}

func TestLoadFromValidation(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
	}{
		{
			name:    "unknown cache backend",
			values:  map[string]any{"cache.backend": "redis"},
			wantErr: "invalid cache.backend",
		},
		{
			name:    "unknown favorites backend",
			values:  map[string]any{"favorites.backend": "mongo"},
			wantErr: "invalid favorites.backend",
		},
		{
			name:    "remote favorites without url",
			values:  map[string]any{"favorites.backend": "remote"},
			wantErr: "favorites.base_url is required",
		},
		{
			name:    "zero attempts",
			values:  map[string]any{"catalog.max_attempts": 0},
			wantErr: "catalog.max_attempts",
		},
		{
			name:    "negative rate",
			values:  map[string]any{"catalog.requests_per_second": -1},
			wantErr: "requests_per_second",
		},
		{
			name:    "empty base url",
			values:  map[string]any{"catalog.base_url": ""},
			wantErr: "catalog.base_url is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(newViper(tt.values))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromTrimsURLs(t *testing.T) {
	cfg, err := LoadFrom(newViper(map[string]any{
		"catalog.base_url":   "http://localhost:8080/v4/",
		"favorites.backend":  "remote",
		"favorites.base_url": "http://localhost:3000/",
		"user":               "  yuki ",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Catalog.BaseURL != "http://localhost:8080/v4" {
		t.Errorf("Catalog.BaseURL = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Favorites.BaseURL != "http://localhost:3000" {
		t.Errorf("Favorites.BaseURL = %q", cfg.Favorites.BaseURL)
	}
	if cfg.User != "yuki" {
		t.Errorf("User = %q", cfg.User)
	}
}

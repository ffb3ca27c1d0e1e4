package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/varoOP/shinkrolist/internal/domain"
)

// Defaults mirror the public Jikan limits and the web app's original behavior
const (
	DefaultBaseURL           = "https://api.jikan.moe/v4"
	DefaultMaxAttempts       = 4
	DefaultBackoffBase       = 800 * time.Millisecond
	DefaultRequestsPerSecond = 3
	DefaultTimeout           = 30 * time.Second
	DefaultDebounce          = 350 * time.Millisecond
	DefaultMinSearchLength   = 2
)

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", ".")
	v.SetDefault("cache.backend", string(domain.CacheBackendSQLite))
	v.SetDefault("catalog.base_url", DefaultBaseURL)
	v.SetDefault("catalog.max_attempts", DefaultMaxAttempts)
	v.SetDefault("catalog.backoff_base", DefaultBackoffBase)
	v.SetDefault("catalog.max_wait", time.Duration(0))
	v.SetDefault("catalog.requests_per_second", DefaultRequestsPerSecond)
	v.SetDefault("catalog.timeout", DefaultTimeout)
	v.SetDefault("search.debounce", DefaultDebounce)
	v.SetDefault("search.min_length", DefaultMinSearchLength)
	v.SetDefault("favorites.backend", string(domain.FavoritesBackendLocal))
}

// Load loads configuration from multiple sources:
// 1. Config file (config.yaml, optional)
// 2. Environment variables (SHINKROLIST_*)
// 3. Command line flags bound by the cli
func Load() (*domain.Config, error) {
	SetDefaults(viper.GetViper())
	return LoadFrom(viper.GetViper())
}

// LoadFrom builds and validates a config from v
func LoadFrom(v *viper.Viper) (*domain.Config, error) {
	cfg := &domain.Config{}

	cfg.LogLevel = v.GetString("log_level")
	cfg.DataDir = v.GetString("data_dir")
	cfg.User = strings.TrimSpace(v.GetString("user"))

	// Cache backend (default: "sqlite")
	backend := v.GetString("cache.backend")
	if backend == "" {
		cfg.Cache.Backend = domain.CacheBackendSQLite
	} else {
		cfg.Cache.Backend = domain.CacheBackend(backend)
		if cfg.Cache.Backend != domain.CacheBackendSQLite &&
			cfg.Cache.Backend != domain.CacheBackendBolt &&
			cfg.Cache.Backend != domain.CacheBackendMemory {
			return nil, fmt.Errorf("invalid cache.backend: %s (must be 'sqlite', 'bolt' or 'memory')", backend)
		}
	}

	cfg.Catalog.BaseURL = strings.TrimRight(v.GetString("catalog.base_url"), "/")
	cfg.Catalog.MaxAttempts = v.GetInt("catalog.max_attempts")
	cfg.Catalog.BackoffBase = v.GetDuration("catalog.backoff_base")
	cfg.Catalog.MaxWait = v.GetDuration("catalog.max_wait")
	cfg.Catalog.RequestsPerSecond = v.GetFloat64("catalog.requests_per_second")
	cfg.Catalog.Timeout = v.GetDuration("catalog.timeout")

	cfg.Search.Debounce = v.GetDuration("search.debounce")
	cfg.Search.MinLength = v.GetInt("search.min_length")

	// Favorites backend (default: "local")
	favBackend := v.GetString("favorites.backend")
	if favBackend == "" {
		cfg.Favorites.Backend = domain.FavoritesBackendLocal
	} else {
		cfg.Favorites.Backend = domain.FavoritesBackend(favBackend)
		if cfg.Favorites.Backend != domain.FavoritesBackendLocal &&
			cfg.Favorites.Backend != domain.FavoritesBackendRemote {
			return nil, fmt.Errorf("invalid favorites.backend: %s (must be 'local' or 'remote')", favBackend)
		}
	}
	cfg.Favorites.BaseURL = strings.TrimRight(v.GetString("favorites.base_url"), "/")
	cfg.Favorites.SessionCookie = v.GetString("favorites.session_cookie")

	// Validate required fields
	if cfg.Catalog.BaseURL == "" {
		return nil, fmt.Errorf("catalog.base_url is required (set via config.yaml or SHINKROLIST_CATALOG_BASE_URL environment variable)")
	}
	if cfg.Catalog.MaxAttempts < 1 {
		return nil, fmt.Errorf("catalog.max_attempts must be at least 1, got %d", cfg.Catalog.MaxAttempts)
	}
	if cfg.Catalog.BackoffBase < 0 || cfg.Catalog.MaxWait < 0 {
		return nil, fmt.Errorf("catalog.backoff_base and catalog.max_wait must not be negative")
	}
	if cfg.Catalog.RequestsPerSecond < 0 {
		return nil, fmt.Errorf("catalog.requests_per_second must not be negative, got %v", cfg.Catalog.RequestsPerSecond)
	}
	if cfg.Search.MinLength < 1 {
		cfg.Search.MinLength = DefaultMinSearchLength
	}
	if cfg.Favorites.Backend == domain.FavoritesBackendRemote && cfg.Favorites.BaseURL == "" {
		return nil, fmt.Errorf("favorites.base_url is required when favorites.backend is 'remote'")
	}

	return cfg, nil
}

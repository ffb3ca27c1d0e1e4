package domain

import "time"

// CacheBackend selects the durable key/value store behind the catalog cache
type CacheBackend string

const (
	// CacheBackendSQLite - kv_cache table in the shinkrolist database (default)
	CacheBackendSQLite CacheBackend = "sqlite"
	// CacheBackendBolt - single bucket in a bbolt file next to the database
	CacheBackendBolt CacheBackend = "bolt"
	// CacheBackendMemory - process memory only, nothing survives a restart
	CacheBackendMemory CacheBackend = "memory"
)

// FavoritesBackend selects where My List lives
type FavoritesBackend string

const (
	// FavoritesBackendLocal - favorites table in the shinkrolist database (default)
	FavoritesBackendLocal FavoritesBackend = "local"
	// FavoritesBackendRemote - the /api/my-list HTTP API of a running web app
	FavoritesBackendRemote FavoritesBackend = "remote"
)

type Config struct {
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
	User     string `mapstructure:"user"`

	Cache     CacheConfig     `mapstructure:"cache"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Search    SearchConfig    `mapstructure:"search"`
	Favorites FavoritesConfig `mapstructure:"favorites"`
}

type CacheConfig struct {
	Backend CacheBackend `mapstructure:"backend"`
}

type CatalogConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
	// MaxWait bounds the total time spent waiting on rate limits, 0 means unbounded
	MaxWait           time.Duration `mapstructure:"max_wait"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

type SearchConfig struct {
	Debounce  time.Duration `mapstructure:"debounce"`
	MinLength int           `mapstructure:"min_length"`
}

type FavoritesConfig struct {
	Backend       FavoritesBackend `mapstructure:"backend"`
	BaseURL       string           `mapstructure:"base_url"`
	SessionCookie string           `mapstructure:"session_cookie"`
}

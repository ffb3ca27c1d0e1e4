package database

const schema = `
-- Durable key/value space backing the catalog cache.
-- Values are opaque strings, freshness is checked by the cache layer.
CREATE TABLE kv_cache (
	cache_key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

-- Local My List
CREATE TABLE favorites (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id TEXT NOT NULL,
	mal_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	image TEXT NOT NULL,
	url TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	UNIQUE (owner_id, mal_id)
);

CREATE INDEX idx_favorites_owner ON favorites(owner_id);
`

// migrations contains incremental schema changes
// Each migration is applied in order based on the current user_version
// migrations[0] is empty because version 0 uses the base schema
var migrations = []string{
	"",
}

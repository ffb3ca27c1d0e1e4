package database

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/shinkrolist/internal/domain"
)

// KVRepo implements domain.KVStore on the kv_cache table
type KVRepo struct {
	log zerolog.Logger
	db  *DB
}

// NewKVRepo creates a new key/value repository
func NewKVRepo(log zerolog.Logger, db *DB) *KVRepo {
	return &KVRepo{
		log: log.With().Str("repo", "kv").Logger(),
		db:  db,
	}
}

var _ domain.KVStore = (*KVRepo)(nil)

// Get returns the value stored under key
func (r *KVRepo) Get(ctx context.Context, key string) (string, bool, error) {
	queryBuilder := r.db.squirrel.
		Select("value").
		From("kv_cache").
		Where(sq.Eq{"cache_key": key})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return "", false, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Get")

	var value string
	if err := r.db.handler.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "error executing query")
	}

	return value, true, nil
}

// Set inserts or replaces the value stored under key
func (r *KVRepo) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	queryBuilder := r.db.squirrel.
		Replace("kv_cache").
		Columns("cache_key", "value", "updated_at").
		Values(key, value, now)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Str("key", key).Msg("Set")

	if _, err := r.db.handler.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// Delete removes key, missing keys are ignored
func (r *KVRepo) Delete(ctx context.Context, key string) error {
	queryBuilder := r.db.squirrel.
		Delete("kv_cache").
		Where(sq.Eq{"cache_key": key})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building delete query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Delete")

	if _, err := r.db.handler.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "error executing delete query")
	}

	return nil
}

// Clear removes every cached value and returns how many were dropped
func (r *KVRepo) Clear(ctx context.Context) (int64, error) {
	query, args, err := r.db.squirrel.Delete("kv_cache").ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "error building delete query")
	}

	res, err := r.db.handler.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "error executing delete query")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "error reading affected rows")
	}
	return n, nil
}

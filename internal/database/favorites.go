package database

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/shinkrolist/internal/domain"
)

// FavoritesRepo implements domain.FavoritesRepo on the favorites table
type FavoritesRepo struct {
	log zerolog.Logger
	db  *DB
	now func() time.Time
}

// NewFavoritesRepo creates a new favorites repository
func NewFavoritesRepo(log zerolog.Logger, db *DB) *FavoritesRepo {
	return &FavoritesRepo{
		log: log.With().Str("repo", "favorites").Logger(),
		db:  db,
		now: time.Now,
	}
}

var _ domain.FavoritesRepo = (*FavoritesRepo)(nil)

// List returns the owner's favorites, most recently added first
func (r *FavoritesRepo) List(ctx context.Context, ownerID string) ([]domain.FavoriteRecord, error) {
	queryBuilder := r.db.squirrel.
		Select("mal_id", "title", "image", "url", "created_at").
		From("favorites").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("id DESC")

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("List")

	rows, err := r.db.handler.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	records := []domain.FavoriteRecord{}
	for rows.Next() {
		rec := domain.FavoriteRecord{OwnerID: ownerID}
		var createdAt string
		if err := rows.Scan(&rec.MalID, &rec.Title, &rec.Image, &rec.URL, &createdAt); err != nil {
			return nil, errors.Wrap(err, "error scanning row")
		}

		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = t
		} else {
			r.log.Warn().Err(err).Int("mal_id", rec.MalID).Msg("unparseable created_at")
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rows")
	}

	return records, nil
}

// Create adds a favorite for the owner. A second create for the same
// (owner, malId) keeps the first record and reports created=false.
func (r *FavoritesRepo) Create(ctx context.Context, ownerID string, fav domain.Favorite) (bool, error) {
	queryBuilder := r.db.squirrel.
		Insert("favorites").
		Columns("owner_id", "mal_id", "title", "image", "url", "created_at").
		Values(ownerID, fav.MalID, fav.Title, fav.Image, fav.URL, r.now().UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT (owner_id, mal_id) DO NOTHING")

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return false, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Create")

	res, err := r.db.handler.ExecContext(ctx, query, args...)
	if err != nil {
		return false, errors.Wrap(err, "error executing query")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "error reading affected rows")
	}

	return n > 0, nil
}

// Delete removes the owner's favorite, a missing record is not an error
func (r *FavoritesRepo) Delete(ctx context.Context, ownerID string, malID int) error {
	queryBuilder := r.db.squirrel.
		Delete("favorites").
		Where(sq.Eq{"owner_id": ownerID, "mal_id": malID})

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

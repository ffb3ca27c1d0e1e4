package favorites

import (
	"context"

	"github.com/pkg/errors"
	"github.com/varoOP/shinkrolist/internal/domain"
)

// LocalStore keeps My List in the local database, owned by the session user
type LocalStore struct {
	repo    domain.FavoritesRepo
	session *Session
}

var _ domain.FavoritesStore = (*LocalStore)(nil)

func NewLocalStore(repo domain.FavoritesRepo, session *Session) *LocalStore {
	return &LocalStore{repo: repo, session: session}
}

func (s *LocalStore) List(ctx context.Context) ([]domain.FavoriteRecord, error) {
	user, ok := s.session.User()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	records, err := s.repo.List(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favorites")
	}
	return records, nil
}

func (s *LocalStore) Create(ctx context.Context, fav domain.Favorite) error {
	user, ok := s.session.User()
	if !ok {
		return domain.ErrUnauthenticated
	}
	if !fav.Valid() {
		return domain.ErrMissingFields
	}

	if _, err := s.repo.Create(ctx, user.ID, fav); err != nil {
		return errors.Wrapf(err, "failed to add %d", fav.MalID)
	}
	return nil
}

func (s *LocalStore) Delete(ctx context.Context, malID int) error {
	user, ok := s.session.User()
	if !ok {
		return domain.ErrUnauthenticated
	}

	if err := s.repo.Delete(ctx, user.ID, malID); err != nil {
		return errors.Wrapf(err, "failed to remove %d", malID)
	}
	return nil
}

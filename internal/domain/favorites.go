package domain

import (
	"context"
	"time"
)

// User is the authenticated identity handed over by the session layer
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Favorite is the payload needed to add an item to My List
type Favorite struct {
	MalID int    `json:"malId"`
	Title string `json:"title"`
	Image string `json:"image"`
	URL   string `json:"url"`
}

// Valid reports whether all required fields are set
func (f Favorite) Valid() bool {
	return f.MalID != 0 && f.Title != "" && f.Image != "" && f.URL != ""
}

// FavoriteRecord is a stored My List entry. At most one record exists per
// (OwnerID, MalID).
type FavoriteRecord struct {
	OwnerID   string    `json:"-" yaml:"-"`
	MalID     int       `json:"malId" yaml:"malid"`
	Title     string    `json:"title" yaml:"title"`
	Image     string    `json:"image" yaml:"image"`
	URL       string    `json:"url" yaml:"url"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// FavoritesStore is the authoritative My List backend for the current session.
// All methods return ErrUnauthenticated when no valid session is present.
type FavoritesStore interface {
	// List returns the favorites ordered most recent first
	List(ctx context.Context) ([]FavoriteRecord, error)

	// Create adds a favorite; creating a duplicate succeeds without a second record
	Create(ctx context.Context, fav Favorite) error

	// Delete removes a favorite; deleting a missing one succeeds
	Delete(ctx context.Context, malID int) error
}

// FavoritesRepo persists favorite records per owner
type FavoritesRepo interface {
	List(ctx context.Context, ownerID string) ([]FavoriteRecord, error)
	Create(ctx context.Context, ownerID string, fav Favorite) (bool, error)
	Delete(ctx context.Context, ownerID string, malID int) error
}

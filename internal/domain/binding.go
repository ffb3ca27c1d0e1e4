package domain

// SurfaceKind identifies one of the rendered surfaces that can show an item
type SurfaceKind string

const (
	SurfaceCard   SurfaceKind = "card"
	SurfaceHero   SurfaceKind = "hero"
	SurfaceSearch SurfaceKind = "search"
	SurfaceGenre  SurfaceKind = "genre"
)

// Binding is a rendered element that displays the liked state of one item.
// Several bindings may exist for the same MalID across surfaces.
type Binding interface {
	MalID() int
	Kind() SurfaceKind

	// Liked is the state currently displayed
	Liked() bool
	SetLiked(liked bool)

	// Favorite returns the My List payload carried by the element
	Favorite() Favorite
}

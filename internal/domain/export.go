package domain

import "context"

// ExportFormat is the file format of a My List export
type ExportFormat string

const (
	ExportYAML ExportFormat = "yaml"
	ExportJSON ExportFormat = "json"
)

// MyList is the document written by an export
type MyList struct {
	User  string           `json:"user,omitempty" yaml:"user,omitempty"`
	Items []FavoriteRecord `json:"items" yaml:"items"`
}

// MyListRepository reads and writes My List export files
type MyListRepository interface {
	Get(ctx context.Context, path string) (*MyList, error)
	Store(ctx context.Context, path string, list *MyList) error
}

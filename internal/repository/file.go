package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/varoOP/shinkrolist/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileRepository implements domain.MyListRepository using yaml or json files
type FileRepository struct {
	log zerolog.Logger
}

// NewFileRepository creates a new file-based repository
func NewFileRepository(log zerolog.Logger) *FileRepository {
	return &FileRepository{
		log: log.With().Str("module", "repository").Logger(),
	}
}

var _ domain.MyListRepository = (*FileRepository)(nil)

// FormatOf picks the export format from a file extension, defaulting to yaml
func FormatOf(path string) domain.ExportFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return domain.ExportJSON
	}
	return domain.ExportYAML
}

// Get reads an exported list
func (r *FileRepository) Get(ctx context.Context, path string) (*domain.MyList, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file does not exist: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	list := &domain.MyList{}
	switch FormatOf(path) {
	case domain.ExportJSON:
		err = json.Unmarshal(b, list)
	default:
		err = yaml.Unmarshal(b, list)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}

	return list, nil
}

// Store writes list to path in the format its extension names
func (r *FileRepository) Store(ctx context.Context, path string, list *domain.MyList) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, FormatOf(path), list); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	r.log.Debug().Str("path", path).Int("count", len(list.Items)).Msg("stored my list")
	return nil
}

// Encode writes list to w. Yaml entries are separated by a blank line.
func Encode(w io.Writer, format domain.ExportFormat, list *domain.MyList) error {
	switch format {
	case domain.ExportJSON:
		b, err := json.MarshalIndent(list, "", "   ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = w.Write(append(b, '\n'))
		return err

	case domain.ExportYAML:
		b, err := yaml.Marshal(list)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}

		lines := strings.Split(string(b), "\n")
		malidFound := false
		for i, line := range lines {
			if strings.Contains(line, "- malid:") {
				if malidFound {
					lines[i-1] += "\n"
				} else {
					malidFound = true
				}
			}
		}

		_, err = io.WriteString(w, strings.Join(lines, "\n"))
		return err
	}

	return fmt.Errorf("unknown export format: %s", format)
}

package jikan

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/shinkrolist/internal/domain"
)

// Cache keys and freshness windows for the catalog queries
const (
	KeyPopular    = "cache_popular"
	KeyTrending   = "cache_trending"
	KeyTopRated   = "cache_toprated"
	KeyGenresList = "cache_genres_list"

	TTLPopular    = time.Hour
	TTLTrending   = 30 * time.Minute
	TTLTopRated   = time.Hour
	TTLGenresList = 24 * time.Hour
	TTLGenre      = 15 * time.Minute

	PopularLimit = 15
)

// GenreKey is the cache key of one genre's browse results
func GenreKey(genreID int) string {
	return fmt.Sprintf("cache_genre_%d", genreID)
}

// Fetcher is the fetch surface the catalog needs
type Fetcher interface {
	Fetch(ctx context.Context, url string, maxAttempts int) ([]byte, error)
	FetchCached(ctx context.Context, url, key string, maxAge time.Duration) ([]byte, error)
}

type Service interface {
	Popular(ctx context.Context) ([]domain.CatalogItem, error)
	Trending(ctx context.Context) ([]domain.CatalogItem, error)
	TopRated(ctx context.Context) ([]domain.CatalogItem, error)
	Genres(ctx context.Context) ([]domain.Genre, error)
	GenreAnime(ctx context.Context, genreID int) ([]domain.CatalogItem, error)
	Search(ctx context.Context, query string) ([]domain.CatalogItem, error)
}

type service struct {
	log     zerolog.Logger
	baseURL string
	fetcher Fetcher
}

type AnimeResponse struct {
	Data []struct {
		MalID  int    `json:"mal_id"`
		URL    string `json:"url"`
		Images struct {
			JPG struct {
				ImageURL      string `json:"image_url"`
				LargeImageURL string `json:"large_image_url"`
			} `json:"jpg"`
		} `json:"images"`
		Title        string `json:"title"`
		TitleEnglish string `json:"title_english"`
		Type         string `json:"type"`
		Synopsis     string `json:"synopsis"`
		Year         int    `json:"year"`
		Aired        struct {
			Prop struct {
				From struct {
					Year int `json:"year"`
				} `json:"from"`
			} `json:"prop"`
		} `json:"aired"`
	} `json:"data"`
}

type GenresResponse struct {
	Data []struct {
		MalID int    `json:"mal_id"`
		Name  string `json:"name"`
		Count int    `json:"count"`
	} `json:"data"`
}

func NewService(log zerolog.Logger, baseURL string, fetcher Fetcher) Service {
	return &service{
		log:     log.With().Str("module", "jikan").Logger(),
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
	}
}

func (s *service) Popular(ctx context.Context) ([]domain.CatalogItem, error) {
	items, err := s.cachedAnime(ctx, "top/anime?filter=bypopularity", KeyPopular, TTLPopular)
	if err != nil {
		return nil, err
	}
	if len(items) > PopularLimit {
		items = items[:PopularLimit]
	}
	return items, nil
}

func (s *service) Trending(ctx context.Context) ([]domain.CatalogItem, error) {
	return s.cachedAnime(ctx, "seasons/now?limit=10", KeyTrending, TTLTrending)
}

func (s *service) TopRated(ctx context.Context) ([]domain.CatalogItem, error) {
	return s.cachedAnime(ctx, "top/anime?limit=5", KeyTopRated, TTLTopRated)
}

// Genres returns the anime genres sorted by name
func (s *service) Genres(ctx context.Context) ([]domain.Genre, error) {
	body, err := s.fetcher.FetchCached(ctx, s.baseURL+"/genres/anime", KeyGenresList, TTLGenresList)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch genres")
	}

	var resp GenresResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode genres")
	}

	genres := make([]domain.Genre, 0, len(resp.Data))
	for _, g := range resp.Data {
		genres = append(genres, domain.Genre{MalID: g.MalID, Name: g.Name, Count: g.Count})
	}

	sort.SliceStable(genres, func(i, j int) bool {
		return strings.ToLower(genres[i].Name) < strings.ToLower(genres[j].Name)
	})

	return genres, nil
}

func (s *service) GenreAnime(ctx context.Context, genreID int) ([]domain.CatalogItem, error) {
	path := fmt.Sprintf("anime?genres=%d&sfw=true&order_by=score&sort=desc&limit=24", genreID)
	return s.cachedAnime(ctx, path, GenreKey(genreID), TTLGenre)
}

// Search queries the catalog by title. Results are never cached.
func (s *service) Search(ctx context.Context, query string) ([]domain.CatalogItem, error) {
	u := fmt.Sprintf("%s/anime?q=%s&sfw=true", s.baseURL, url.QueryEscape(query))

	body, err := s.fetcher.Fetch(ctx, u, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "search failed for %q", query)
	}

	return decodeAnime(body)
}

func (s *service) cachedAnime(ctx context.Context, path, key string, maxAge time.Duration) ([]domain.CatalogItem, error) {
	body, err := s.fetcher.FetchCached(ctx, s.baseURL+"/"+path, key, maxAge)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", key)
	}

	items, err := decodeAnime(body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", key)
	}

	s.log.Debug().Str("key", key).Int("items", len(items)).Msg("catalog loaded")

	return items, nil
}

func decodeAnime(body []byte) ([]domain.CatalogItem, error) {
	var resp AnimeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	items := make([]domain.CatalogItem, 0, len(resp.Data))
	for _, a := range resp.Data {
		year := a.Year
		if year == 0 {
			year = a.Aired.Prop.From.Year
		}

		items = append(items, domain.CatalogItem{
			MalID:        a.MalID,
			Title:        a.Title,
			TitleEnglish: a.TitleEnglish,
			Image:        a.Images.JPG.ImageURL,
			LargeImage:   a.Images.JPG.LargeImageURL,
			URL:          a.URL,
			Synopsis:     a.Synopsis,
			Year:         year,
			Type:         a.Type,
		})
	}

	return items, nil
}

// Heroes picks the hero slides: the most popular, the top trending and the
// third top-rated title. Missing picks are skipped.
func Heroes(popular, trending, topRated []domain.CatalogItem) []domain.CatalogItem {
	var heroes []domain.CatalogItem
	if len(popular) > 0 {
		heroes = append(heroes, popular[0])
	}
	if len(trending) > 0 {
		heroes = append(heroes, trending[0])
	}
	if len(topRated) > 2 {
		heroes = append(heroes, topRated[2])
	}
	return heroes
}

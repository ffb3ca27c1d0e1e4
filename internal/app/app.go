package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/varoOP/shinkrolist/internal/cache"
	"github.com/varoOP/shinkrolist/internal/config"
	"github.com/varoOP/shinkrolist/internal/database"
	"github.com/varoOP/shinkrolist/internal/domain"
	"github.com/varoOP/shinkrolist/internal/favorites"
	"github.com/varoOP/shinkrolist/internal/fetch"
	"github.com/varoOP/shinkrolist/internal/jikan"
	"github.com/varoOP/shinkrolist/internal/logger"
	"github.com/varoOP/shinkrolist/internal/notification"
	"github.com/varoOP/shinkrolist/internal/render"
	"github.com/varoOP/shinkrolist/internal/repository"
	"github.com/varoOP/shinkrolist/internal/search"
	"github.com/varoOP/shinkrolist/internal/store"
	"golang.org/x/sync/errgroup"
)

// cacheClearer is implemented by every cache backend
type cacheClearer interface {
	domain.KVStore
	Clear(ctx context.Context) (int64, error)
}

// App represents the main application with all dependencies initialized
type App struct {
	log    zerolog.Logger
	config *domain.Config

	db         *database.DB
	kv         cacheClearer
	closers    []io.Closer
	catalog    jikan.Service
	page       *render.Page
	sync       *favorites.Synchronizer
	favStore   domain.FavoritesStore
	remote     *favorites.RemoteStore
	listRepo   domain.MyListRepository
	debouncer  *search.Debouncer
	lastSearch search.Result
	searchMu   sync.Mutex
}

type Option func(*options)

type options struct {
	httpClient *http.Client
	sleep      func(ctx context.Context, d time.Duration) error
}

// WithHTTPClient sets the client used for catalog and favorites requests
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithRetrySleep replaces the wait between rate limited catalog attempts
func WithRetrySleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) {
		o.sleep = sleep
	}
}

// NewApp loads configuration and creates an application that prints user
// notifications to out
func NewApp(out io.Writer) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return New(logger.NewLoggerWithLevel(cfg.LogLevel), cfg, out)
}

// New creates an application from an already loaded configuration
func New(log zerolog.Logger, cfg *domain.Config, out io.Writer, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{
		log:      log.With().Str("module", "app").Logger(),
		config:   cfg,
		page:     render.NewPage("shinkrolist"),
		listRepo: repository.NewFileRepository(log),
	}

	needDB := cfg.Cache.Backend == domain.CacheBackendSQLite || cfg.Favorites.Backend == domain.FavoritesBackendLocal
	if needDB {
		db, err := database.NewDB(cfg.DataDir, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.db = db
		a.closers = append(a.closers, db)
	}

	switch cfg.Cache.Backend {
	case domain.CacheBackendBolt:
		kv, err := store.NewBoltKV(cfg.DataDir)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to open bolt cache: %w", err)
		}
		a.kv = kv
		a.closers = append(a.closers, kv)
	case domain.CacheBackendMemory:
		a.kv = store.NewMemoryKV()
	default:
		a.kv = database.NewKVRepo(log, a.db)
	}

	var fetchOpts []fetch.Option
	if o.httpClient != nil {
		fetchOpts = append(fetchOpts, fetch.WithHTTPClient(o.httpClient))
	}
	if o.sleep != nil {
		fetchOpts = append(fetchOpts, fetch.WithSleep(o.sleep))
	}

	fetcher := fetch.NewFetcher(log, cfg.Catalog, fetchOpts...)
	cached := fetch.NewCached(log, fetcher, cache.NewStore(log, a.kv))
	a.catalog = jikan.NewService(log, cfg.Catalog.BaseURL, cached)

	session := favorites.NewSession()
	switch cfg.Favorites.Backend {
	case domain.FavoritesBackendRemote:
		a.remote = favorites.NewRemoteStore(log, cfg.Favorites.BaseURL, cfg.Favorites.SessionCookie, o.httpClient)
		a.favStore = a.remote
	default:
		a.favStore = favorites.NewLocalStore(database.NewFavoritesRepo(log, a.db), session)
	}

	a.sync = favorites.NewSynchronizer(log, session, favorites.NewRegistry(), a.favStore, notification.NewService(log, out))
	a.debouncer = search.NewDebouncer(log, cfg.Search, a.catalog.Search, a.applySearch)

	return a, nil
}

// Close releases the database and cache handles
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// Login starts a session. Locally the configured user is the session user;
// with a remote store the user is whoever owns the session cookie. No user
// means the app stays logged out.
func (a *App) Login(ctx context.Context) error {
	var user domain.User

	if a.remote != nil {
		if a.config.Favorites.SessionCookie == "" {
			return nil
		}
		u, err := a.remote.Me(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				a.log.Warn().Msg("session cookie is not logged in")
				return nil
			}
			return fmt.Errorf("failed to load session user: %w", err)
		}
		user = u
	} else {
		if a.config.User == "" {
			return nil
		}
		user = domain.User{ID: a.config.User, Username: a.config.User}
	}

	if err := a.sync.Login(ctx, user); err != nil {
		return fmt.Errorf("failed to load my list: %w", err)
	}
	return nil
}

// Logout ends the session
func (a *App) Logout() {
	a.sync.Logout()
}

// Authenticated reports whether a user is logged in
func (a *App) Authenticated() bool {
	return a.sync.Session().Authenticated()
}

// HomeResult reports which home sections failed to load
type HomeResult struct {
	Errors map[string]error
	Heroes int
}

// Home loads the popular, trending and top-rated sections concurrently and
// renders them with the hero slides. A failing section is shown as an error
// and does not affect the others.
func (a *App) Home(ctx context.Context) *HomeResult {
	loaders := map[string]func(context.Context) ([]domain.CatalogItem, error){
		render.SectionPopular:  a.catalog.Popular,
		render.SectionTrending: a.catalog.Trending,
		render.SectionTopRated: a.catalog.TopRated,
	}

	var (
		mu      sync.Mutex
		results = make(map[string][]domain.CatalogItem)
		res     = &HomeResult{Errors: make(map[string]error)}
	)

	var g errgroup.Group
	for section, load := range loaders {
		g.Go(func() error {
			items, err := load(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.log.Error().Err(err).Str("section", section).Msg("section failed to load")
				res.Errors[section] = err
				return nil
			}
			results[section] = items
			return nil
		})
	}
	g.Wait()

	for _, section := range []string{render.SectionPopular, render.SectionTrending, render.SectionTopRated} {
		if _, failed := res.Errors[section]; failed {
			a.page.SetSectionError(section, render.SectionFailed)
			a.sync.Track(section, nil)
			continue
		}
		a.sync.Track(section, a.page.SetCards(section, results[section]))
	}

	heroes := jikan.Heroes(results[render.SectionPopular], results[render.SectionTrending], results[render.SectionTopRated])
	a.sync.Track(render.SectionHero, a.page.SetHeroes(heroes))
	res.Heroes = len(heroes)

	return res
}

// Search feeds query through the debouncer and waits for it to settle
func (a *App) Search(ctx context.Context, query string) search.Result {
	a.debouncer.Input(ctx, query)
	a.debouncer.Wait()

	a.searchMu.Lock()
	defer a.searchMu.Unlock()
	return a.lastSearch
}

func (a *App) applySearch(res search.Result) {
	switch {
	case res.Hidden:
		a.page.HideSearch()
		a.sync.Track(render.SectionSearch, nil)
	case res.Err != nil:
		a.page.SetSearchError()
		a.sync.Track(render.SectionSearch, nil)
	default:
		a.sync.Track(render.SectionSearch, a.page.SetSearch(res.Items))
	}

	a.searchMu.Lock()
	a.lastSearch = res
	a.searchMu.Unlock()
}

// Genres loads the genre list into the picker
func (a *App) Genres(ctx context.Context) ([]domain.Genre, error) {
	genres, err := a.catalog.Genres(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load genres: %w", err)
	}
	a.page.SetGenres(genres)
	return genres, nil
}

// Genre opens the genre browser for genreID
func (a *App) Genre(ctx context.Context, genreID int) ([]domain.CatalogItem, error) {
	name := fmt.Sprintf("Genre %d", genreID)
	if genres, err := a.catalog.Genres(ctx); err == nil {
		for _, g := range genres {
			if g.MalID == genreID {
				name = g.Name
				break
			}
		}
	} else {
		a.log.Warn().Err(err).Msg("could not resolve genre name")
	}

	items, err := a.catalog.GenreAnime(ctx, genreID)
	if err != nil {
		a.page.SetGenreError(name)
		a.sync.Track(render.SectionGenre, nil)
		return nil, fmt.Errorf("failed to load genre %d: %w", genreID, err)
	}

	a.sync.Track(render.SectionGenre, a.page.SetGenre(name, items))
	return items, nil
}

// SurfaceState is how one rendered surface shows an item
type SurfaceState struct {
	Kind  domain.SurfaceKind
	Liked bool
	Label string
}

// Toggle flips the liked state of malID through the binding rendered in
// section, or the first rendered binding when section is empty
func (a *App) Toggle(ctx context.Context, malID int, section string) ([]SurfaceState, error) {
	var target domain.Binding
	candidates := a.sync.Registry().Bindings(malID)
	if section != "" {
		candidates = nil
		for _, b := range a.sync.Registry().Section(section) {
			if b.MalID() == malID {
				candidates = append(candidates, b)
			}
		}
	}
	if len(candidates) > 0 {
		target = candidates[0]
	}
	if target == nil {
		if section == "" {
			return nil, fmt.Errorf("item %d is not shown on the page", malID)
		}
		return nil, fmt.Errorf("item %d is not shown in %s", malID, section)
	}

	_, err := a.sync.Toggle(ctx, target)
	return a.States(malID), err
}

// States returns the state of every rendered surface showing malID
func (a *App) States(malID int) []SurfaceState {
	var out []SurfaceState
	for _, b := range a.sync.Registry().Bindings(malID) {
		liked := b.Liked()
		out = append(out, SurfaceState{
			Kind:  b.Kind(),
			Liked: liked,
			Label: render.HeartAttrs(b.Kind(), liked).Label,
		})
	}
	return out
}

// MyList returns the session user's list, most recent first
func (a *App) MyList(ctx context.Context) (*domain.MyList, error) {
	user, ok := a.sync.Session().User()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	records, err := a.favStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load my list: %w", err)
	}

	return &domain.MyList{User: user.Username, Items: records}, nil
}

// ExportMyList writes the list to w, or to path when it is set
func (a *App) ExportMyList(ctx context.Context, w io.Writer, format domain.ExportFormat, path string) (int, error) {
	list, err := a.MyList(ctx)
	if err != nil {
		return 0, err
	}

	if path != "" {
		return len(list.Items), a.listRepo.Store(ctx, path, list)
	}
	return len(list.Items), repository.Encode(w, format, list)
}

// ImportMyList adds every entry of an exported list to the session user's
// list. Entries already present are kept as they are.
func (a *App) ImportMyList(ctx context.Context, path string) (int, error) {
	if !a.Authenticated() {
		return 0, domain.ErrUnauthenticated
	}

	list, err := a.listRepo.Get(ctx, path)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, rec := range list.Items {
		fav := domain.Favorite{MalID: rec.MalID, Title: rec.Title, Image: rec.Image, URL: rec.URL}
		if err := a.favStore.Create(ctx, fav); err != nil {
			return n, fmt.Errorf("failed to import %d: %w", rec.MalID, err)
		}
		n++
	}

	if err := a.sync.Resync(ctx); err != nil {
		a.log.Warn().Err(err).Msg("resync after import failed")
	}

	return n, nil
}

// ClearCache drops every cached catalog response
func (a *App) ClearCache(ctx context.Context) (int64, error) {
	n, err := a.kv.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	a.log.Info().Int64("entries", n).Msg("cache cleared")
	return n, nil
}

// RenderPage writes the current page as HTML
func (a *App) RenderPage(w io.Writer) error {
	return a.page.Render(w)
}

package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/varoOP/shinkrolist/internal/domain"
)

const (
	DefaultDelay     = 350 * time.Millisecond
	DefaultMinLength = 2
)

// SearchFunc runs one catalog search
type SearchFunc func(ctx context.Context, query string) ([]domain.CatalogItem, error)

// Result is what the results panel should show. Hidden results carry no
// items and mean the panel is closed.
type Result struct {
	Generation uint64
	Query      string
	Items      []domain.CatalogItem
	Err        error
	Hidden     bool
}

type Option func(*Debouncer)

// WithAfterFunc replaces time.AfterFunc. The returned func stops the timer
// and reports whether it was stopped before firing.
func WithAfterFunc(after func(d time.Duration, f func()) func() bool) Option {
	return func(d *Debouncer) {
		d.afterFunc = after
	}
}

// Debouncer runs a search once input has been quiet for the delay. Every
// input starts a new generation and only a result of the latest generation
// is handed to apply.
type Debouncer struct {
	log       zerolog.Logger
	delay     time.Duration
	minLength int
	search    SearchFunc
	apply     func(Result)
	afterFunc func(d time.Duration, f func()) func() bool

	mu         sync.Mutex
	generation uint64
	stop       func() bool
	inflight   sync.WaitGroup
}

// NewDebouncer creates a debouncer. apply is called with the debouncer's
// lock held and must not call back into it.
func NewDebouncer(log zerolog.Logger, cfg domain.SearchConfig, search SearchFunc, apply func(Result), opts ...Option) *Debouncer {
	d := &Debouncer{
		log:       log.With().Str("module", "search").Logger(),
		delay:     cfg.Debounce,
		minLength: cfg.MinLength,
		search:    search,
		apply:     apply,
		afterFunc: func(delay time.Duration, f func()) func() bool {
			return time.AfterFunc(delay, f).Stop
		},
	}
	if d.delay <= 0 {
		d.delay = DefaultDelay
	}
	if d.minLength <= 0 {
		d.minLength = DefaultMinLength
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Input records the latest query text and returns its generation
func (d *Debouncer) Input(ctx context.Context, query string) uint64 {
	q := strings.TrimSpace(query)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	gen := d.generation

	if d.stop != nil && d.stop() {
		d.inflight.Done()
	}
	d.stop = nil

	if utf8.RuneCountInString(q) < d.minLength {
		d.apply(Result{Generation: gen, Query: q, Hidden: true})
		return gen
	}

	d.inflight.Add(1)
	d.stop = d.afterFunc(d.delay, func() {
		defer d.inflight.Done()
		d.run(ctx, gen, q)
	})

	return gen
}

// Generation returns the latest generation
func (d *Debouncer) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

// Wait blocks until every scheduled search has finished or been cancelled
func (d *Debouncer) Wait() {
	d.inflight.Wait()
}

func (d *Debouncer) run(ctx context.Context, gen uint64, q string) {
	d.log.Debug().Str("query", q).Uint64("generation", gen).Msg("searching")

	items, err := d.search(ctx, q)

	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.generation {
		d.log.Debug().Str("query", q).Uint64("generation", gen).Uint64("latest", d.generation).Msg("discarding stale result")
		return
	}

	if err != nil {
		d.log.Error().Err(err).Str("query", q).Msg("search failed")
	}

	d.apply(Result{Generation: gen, Query: q, Items: items, Err: err})
}

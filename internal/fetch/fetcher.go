package fetch

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/shinkrolist/internal/domain"
	"golang.org/x/time/rate"
)

const (
	DefaultMaxAttempts = 4
	DefaultBackoffBase = 800 * time.Millisecond
	DefaultTimeout     = 30 * time.Second

	// MaxRetryAfter caps the server's Retry-After hint
	MaxRetryAfter = 24 * time.Hour
)

// Fetcher performs GET requests against a rate-limited JSON API, waiting
// and retrying whenever the server answers 429.
type Fetcher struct {
	log    zerolog.Logger
	client *http.Client

	maxAttempts int
	backoffBase time.Duration
	maxWait     time.Duration
	limiter     *rate.Limiter

	sleep func(ctx context.Context, d time.Duration) error
}

type Option func(*Fetcher)

func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithSleep replaces the wait between rate limited attempts
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(f *Fetcher) {
		f.sleep = sleep
	}
}

func NewFetcher(log zerolog.Logger, cfg domain.CatalogConfig, opts ...Option) *Fetcher {
	f := &Fetcher{
		log:         log.With().Str("module", "fetch").Logger(),
		maxAttempts: cfg.MaxAttempts,
		backoffBase: cfg.BackoffBase,
		maxWait:     cfg.MaxWait,
		sleep:       sleepContext,
	}

	if f.maxAttempts <= 0 {
		f.maxAttempts = DefaultMaxAttempts
	}
	if f.backoffBase <= 0 {
		f.backoffBase = DefaultBackoffBase
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	f.client = &http.Client{Timeout: timeout}

	if cfg.RequestsPerSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch returns the JSON body of url. maxAttempts <= 0 uses the configured
// default. Only 429 responses are retried; any other failure is returned
// as soon as it happens.
func (f *Fetcher) Fetch(ctx context.Context, url string, maxAttempts int) ([]byte, error) {
	if maxAttempts <= 0 {
		maxAttempts = f.maxAttempts
	}

	var waited time.Duration

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return nil, errors.Wrap(err, "rate limiter")
			}
		}

		body, retryAfter, err := f.do(ctx, url)
		if err == nil {
			return body, nil
		}
		if !errors.Is(err, domain.ErrRateLimited) {
			return nil, err
		}

		if attempt == maxAttempts {
			break
		}

		wait := f.backoffBase * time.Duration(attempt)
		if retryAfter >= 0 {
			wait = retryAfter
		}

		if f.maxWait > 0 && waited+wait > f.maxWait {
			f.log.Debug().Str("url", url).Dur("waited", waited).Dur("next_wait", wait).Msg("rate limit wait budget spent")
			return nil, errors.Wrapf(domain.ErrRetryExhausted, "429 Too Many Requests for %s", url)
		}

		f.log.Debug().Err(err).Str("url", url).Int("attempt", attempt).Int("max_attempts", maxAttempts).Dur("wait", wait).Msg("rate limited, retrying")

		if err := f.sleep(ctx, wait); err != nil {
			return nil, err
		}
		waited += wait
	}

	f.log.Warn().Str("url", url).Int("attempts", maxAttempts).Msg("giving up after repeated 429")

	return nil, errors.Wrapf(domain.ErrRetryExhausted, "429 Too Many Requests for %s", url)
}

// do performs a single attempt. For a 429 it returns ErrRateLimited and the
// Retry-After delay, or -1 when the header is absent or not a number.
func (f *Fetcher) do(ctx context.Context, url string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, -1, errors.Wrapf(err, "could not build request for %s", url)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, -1, errors.Wrapf(err, "request failed for %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), errors.Wrapf(domain.ErrRateLimited, "429 for %s", url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, -1, errors.Wrapf(err, "could not read response from %s", url)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, -1, &domain.RemoteError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        url,
			Body:       string(body),
		}
	}

	if !json.Valid(body) {
		return nil, -1, errors.Errorf("invalid json from %s", url)
	}

	return body, -1, nil
}

func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return -1
	}

	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs < 0 || math.IsInf(secs, 0) || math.IsNaN(secs) {
		return -1
	}

	if secs >= MaxRetryAfter.Seconds() {
		return MaxRetryAfter
	}

	return time.Duration(secs * float64(time.Second))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

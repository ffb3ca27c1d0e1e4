package favorites

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/shinkrolist/internal/domain"
)

// RemoteStore talks to the /api/my-list endpoints of a running web app.
// The session cookie is sent verbatim as the Cookie header.
type RemoteStore struct {
	log     zerolog.Logger
	baseURL string
	cookie  string
	client  *http.Client
}

var _ domain.FavoritesStore = (*RemoteStore)(nil)

type listResponse struct {
	OK    bool `json:"ok"`
	Items []struct {
		MalID     int       `json:"malId"`
		Title     string    `json:"title"`
		Image     string    `json:"image"`
		URL       string    `json:"url"`
		CreatedAt time.Time `json:"createdAt"`
	} `json:"items"`
}

type meResponse struct {
	OK   bool `json:"ok"`
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func NewRemoteStore(log zerolog.Logger, baseURL, cookie string, client *http.Client) *RemoteStore {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RemoteStore{
		log:     log.With().Str("module", "favorites").Str("store", "remote").Logger(),
		baseURL: strings.TrimRight(baseURL, "/"),
		cookie:  cookie,
		client:  client,
	}
}

// Me returns the user behind the session cookie
func (s *RemoteStore) Me(ctx context.Context) (domain.User, error) {
	var resp meResponse
	if err := s.do(ctx, http.MethodGet, "/me", nil, &resp); err != nil {
		return domain.User{}, err
	}
	if !resp.OK {
		return domain.User{}, domain.ErrUnauthenticated
	}

	return domain.User{
		ID:       resp.User.ID,
		Username: resp.User.Username,
		Email:    resp.User.Email,
	}, nil
}

func (s *RemoteStore) List(ctx context.Context) ([]domain.FavoriteRecord, error) {
	var resp listResponse
	if err := s.do(ctx, http.MethodGet, "/api/my-list", nil, &resp); err != nil {
		return nil, err
	}

	records := make([]domain.FavoriteRecord, 0, len(resp.Items))
	for _, it := range resp.Items {
		records = append(records, domain.FavoriteRecord{
			MalID:     it.MalID,
			Title:     it.Title,
			Image:     it.Image,
			URL:       it.URL,
			CreatedAt: it.CreatedAt,
		})
	}
	return records, nil
}

func (s *RemoteStore) Create(ctx context.Context, fav domain.Favorite) error {
	if !fav.Valid() {
		return domain.ErrMissingFields
	}
	return s.do(ctx, http.MethodPost, "/api/my-list", fav, nil)
}

func (s *RemoteStore) Delete(ctx context.Context, malID int) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/api/my-list/%d", malID), nil, nil)
}

func (s *RemoteStore) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "could not encode request")
		}
		body = bytes.NewReader(b)
	}

	u := s.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return errors.Wrapf(err, "could not build request for %s", u)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.cookie != "" {
		req.Header.Set("Cookie", s.cookie)
	}

	s.log.Trace().Str("method", method).Str("url", u).Msg("request")

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, u)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "could not read response from %s", u)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return domain.ErrUnauthenticated
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg messageResponse
		detail := string(raw)
		if json.Unmarshal(raw, &msg) == nil && msg.Message != "" {
			detail = msg.Message
		}
		if resp.StatusCode == http.StatusBadRequest && msg.Message == "Missing fields" {
			return domain.ErrMissingFields
		}
		return &domain.RemoteError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        u,
			Body:       detail,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "could not decode response from %s", u)
	}
	return nil
}

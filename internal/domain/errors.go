package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for catalog and favorites operations
var (
	// ErrRateLimited indicates the catalog source answered 429
	ErrRateLimited = errors.New("rate limited")

	// ErrRetryExhausted indicates every attempt was rate limited
	ErrRetryExhausted = errors.New("gave up after repeated rate limiting")

	// ErrCacheCorrupt indicates a stored cache entry could not be decoded
	ErrCacheCorrupt = errors.New("cache entry is corrupt")

	// ErrUnauthenticated indicates a favorites operation without a valid session
	ErrUnauthenticated = errors.New("not logged in")

	// ErrMissingFields indicates a favorite without malId, title, image or url
	ErrMissingFields = errors.New("missing fields")

	// ErrTogglePending indicates a toggle for the same item is still in flight
	ErrTogglePending = errors.New("toggle already in progress")
)

// RemoteError is a non-success, non-429 response from a remote API
type RemoteError struct {
	StatusCode int
	Status     string
	URL        string
	Body       string
}

func (e *RemoteError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d", e.StatusCode)
	} else if !strings.HasPrefix(status, fmt.Sprintf("%d", e.StatusCode)) {
		status = fmt.Sprintf("%d %s", e.StatusCode, status)
	}

	msg := fmt.Sprintf("%s for %s", status, e.URL)
	if e.Body != "" {
		msg += "\n" + e.Body
	}
	return msg
}

// ToggleError is returned when an optimistic toggle was rolled back
type ToggleError struct {
	MalID int
	// Liked is the state the toggle tried to reach
	Liked bool
	Err   error
}

func (e *ToggleError) Error() string {
	action := "remove"
	if e.Liked {
		action = "add"
	}
	return fmt.Sprintf("could not %s %d: %v", action, e.MalID, e.Err)
}

func (e *ToggleError) Unwrap() error {
	return e.Err
}

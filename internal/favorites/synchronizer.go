package favorites

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/shinkrolist/internal/domain"
)

const (
	MsgLoginRequired = "You must log in first to use My List."
	MsgUpdateFailed  = "Could not update My List."
)

// Synchronizer keeps the liked state of every rendered binding consistent
// with the favorites store. Toggles are applied optimistically and rolled
// back when the store rejects them.
type Synchronizer struct {
	log      zerolog.Logger
	session  *Session
	registry *Registry
	store    domain.FavoritesStore
	notifier domain.Notifier

	mu      sync.Mutex
	pending map[int]struct{}
	// resyncs is bumped by every resync, commit and logout. A resync only
	// applies its list while it still holds the latest value.
	resyncs uint64
}

func NewSynchronizer(log zerolog.Logger, session *Session, registry *Registry, store domain.FavoritesStore, notifier domain.Notifier) *Synchronizer {
	return &Synchronizer{
		log:      log.With().Str("module", "favorites").Logger(),
		session:  session,
		registry: registry,
		store:    store,
		notifier: notifier,
		pending:  make(map[int]struct{}),
	}
}

func (s *Synchronizer) Session() *Session {
	return s.session
}

func (s *Synchronizer) Registry() *Registry {
	return s.registry
}

// Login starts a session for user and loads their list
func (s *Synchronizer) Login(ctx context.Context, user domain.User) error {
	s.session.Init(user)
	s.log.Debug().Str("user", user.Username).Msg("logged in")
	return s.Resync(ctx)
}

// Logout ends the session and shows every binding as not liked
func (s *Synchronizer) Logout() {
	s.mu.Lock()
	s.resyncs++
	s.session.Clear()
	s.mu.Unlock()

	s.registry.Each(func(b domain.Binding) {
		b.SetLiked(false)
	})
}

// Resync replaces the liked set with the store's list and projects it onto
// every binding except those with a toggle in flight. On failure nothing
// changes.
func (s *Synchronizer) Resync(ctx context.Context) error {
	user, ok := s.session.User()
	if !ok {
		return nil
	}

	s.mu.Lock()
	s.resyncs++
	gen := s.resyncs
	s.mu.Unlock()

	records, err := s.store.List(ctx)
	if err != nil {
		return errors.Wrap(err, "could not load my list")
	}

	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.MalID)
	}

	s.mu.Lock()
	if gen != s.resyncs || !s.sameUser(user) {
		s.mu.Unlock()
		s.log.Debug().Uint64("generation", gen).Msg("stale resync discarded")
		return nil
	}
	s.session.Replace(ids)
	s.mu.Unlock()

	s.project(s.registry.Each)

	s.log.Debug().Int("liked", len(ids)).Msg("resynced")

	return nil
}

// Track registers a freshly rendered section and shows the current liked
// state on its bindings
func (s *Synchronizer) Track(section string, bindings []domain.Binding) {
	s.registry.Replace(section, bindings)
	s.project(func(fn func(domain.Binding)) {
		for _, b := range bindings {
			fn(b)
		}
	})
}

// Toggle flips the liked state of the item behind b. It returns the state
// shown once the toggle settles.
func (s *Synchronizer) Toggle(ctx context.Context, b domain.Binding) (bool, error) {
	malID := b.MalID()
	user, ok := s.session.User()
	if !ok {
		s.notifier.AuthRequired(ctx, MsgLoginRequired)
		return b.Liked(), domain.ErrUnauthenticated
	}

	if !s.begin(malID) {
		s.log.Debug().Int("mal_id", malID).Msg("toggle ignored, already pending")
		return b.Liked(), domain.ErrTogglePending
	}

	prev := b.Liked()
	want := !prev
	b.SetLiked(want)

	var err error
	if want {
		err = s.store.Create(ctx, b.Favorite())
	} else {
		err = s.store.Delete(ctx, malID)
	}

	if err != nil {
		// After a logout or user switch the old state no longer applies
		shown := prev
		s.mu.Lock()
		if !s.sameUser(user) {
			shown = s.session.Liked(malID)
		}
		b.SetLiked(shown)
		delete(s.pending, malID)
		s.mu.Unlock()

		s.log.Error().Err(err).Int("mal_id", malID).Bool("liked", want).Msg("toggle rolled back")

		if errors.Is(err, domain.ErrUnauthenticated) {
			s.notifier.AuthRequired(ctx, MsgLoginRequired)
		} else {
			s.notifier.Error(ctx, MsgUpdateFailed)
		}

		return shown, &domain.ToggleError{MalID: malID, Liked: want, Err: err}
	}

	// The session may have ended while the store call was in flight
	s.mu.Lock()
	if s.sameUser(user) {
		s.session.Set(malID, want)
		s.resyncs++
	}
	delete(s.pending, malID)
	s.mu.Unlock()

	for _, other := range s.registry.Bindings(malID) {
		other.SetLiked(s.session.Liked(malID))
	}

	if err := s.Resync(ctx); err != nil {
		s.log.Warn().Err(err).Msg("resync after toggle failed")
	}

	return s.session.Liked(malID), nil
}

// Pending reports whether a toggle for malID is in flight
func (s *Synchronizer) Pending(malID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[malID]
	return ok
}

func (s *Synchronizer) begin(malID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[malID]; ok {
		return false
	}
	s.pending[malID] = struct{}{}
	return true
}

func (s *Synchronizer) sameUser(user domain.User) bool {
	current, ok := s.session.User()
	return ok && current.ID == user.ID
}

func (s *Synchronizer) project(each func(func(domain.Binding))) {
	each(func(b domain.Binding) {
		id := b.MalID()
		if s.Pending(id) {
			return
		}
		b.SetLiked(s.session.Liked(id))
	})
}

package favorites

import (
	"sort"
	"sync"

	"github.com/varoOP/shinkrolist/internal/domain"
)

// Session holds the authenticated user and the set of liked item ids
type Session struct {
	mu    sync.RWMutex
	user  *domain.User
	liked map[int]struct{}
}

func NewSession() *Session {
	return &Session{liked: make(map[int]struct{})}
}

// Init starts a session for user with an empty liked set
func (s *Session) Init(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.liked = make(map[int]struct{})
}

// Clear ends the session
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.liked = make(map[int]struct{})
}

func (s *Session) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) Liked(malID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.liked[malID]
	return ok
}

// Replace swaps the liked set wholesale
func (s *Session) Replace(ids []int) {
	liked := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		liked[id] = struct{}{}
	}

	s.mu.Lock()
	s.liked = liked
	s.mu.Unlock()
}

func (s *Session) Set(malID int, liked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if liked {
		s.liked[malID] = struct{}{}
	} else {
		delete(s.liked, malID)
	}
}

// IDs returns the liked ids in ascending order
func (s *Session) IDs() []int {
	s.mu.RLock()
	ids := make([]int, 0, len(s.liked))
	for id := range s.liked {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Ints(ids)
	return ids
}

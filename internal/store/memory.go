package store

import (
	"context"
	"sync"

	"github.com/varoOP/shinkrolist/internal/domain"
)

// MemoryKV implements domain.KVStore in process memory
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ domain.KVStore = (*MemoryKV)(nil)

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (s *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryKV) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
	return nil
}

func (s *MemoryKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Clear drops every value and returns how many were dropped
func (s *MemoryKV) Clear(_ context.Context) (int64, error) {
	s.mu.Lock()
	n := int64(len(s.data))
	s.data = make(map[string]string)
	s.mu.Unlock()
	return n, nil
}

// Len returns the number of stored keys
func (s *MemoryKV) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

package cache

import (
	"sync"

	"github.com/mkravets/sdeconv/internal/montecarlo"
)

// Entry is one persisted realization batch with its parameter record.
type Entry struct {
	Meta  Meta
	Batch *montecarlo.Batch
}

// Store is the injectable persistence backend. Loading an absent key is
// not an error: ok=false signals "compute".
type Store interface {
	Load(key string) (e *Entry, ok bool, err error)
	Save(key string, e *Entry) error
}

// MemStore is a map-backed Store for tests and throwaway runs.
type MemStore struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]*Entry)}
}

func (s *MemStore) Load(key string) (*Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return &Entry{Meta: e.Meta, Batch: e.Batch.Clone()}, true, nil
}

func (s *MemStore) Save(key string, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &Entry{Meta: e.Meta, Batch: e.Batch.Clone()}
	return nil
}

// Len reports the number of stored entries.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

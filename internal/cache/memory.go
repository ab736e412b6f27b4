package cache

import (
	"sync"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-optchain/internal/types"
)

// MemoryStore keeps datasets in process memory for the lifetime of the store.
type MemoryStore struct {
	mu       sync.RWMutex
	datasets map[Key]types.Dataset
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		datasets: make(map[Key]types.Dataset),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(key Key) (optional.Option[types.Dataset], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dataset, ok := s.datasets[key]
	if !ok {
		return optional.None[types.Dataset](), nil
	}

	return optional.Some(dataset), nil
}

// Put implements Store.
func (s *MemoryStore) Put(key Key, dataset types.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.datasets[key] = dataset

	return nil
}

// Len returns the number of memoized keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.datasets)
}

package di

import "sync"

// MetadataStore keeps values attached to (object, key) pairs. The container
// uses it to cache [Lazy] property values per owning instance.
type MetadataStore interface {
	Get(owner any, key string) (any, bool)
	Set(owner any, key string, value any)
}

type metadataKey struct {
	owner any
	key   string
}

// MemoryMetadataStore is an in-memory MetadataStore. Owners must be
// comparable; the container always passes struct pointers. Entries live
// until Forget is called for their owner.
type MemoryMetadataStore struct {
	mu     sync.RWMutex
	values map[metadataKey]any
}

// NewMemoryMetadataStore creates an empty store.
func NewMemoryMetadataStore() *MemoryMetadataStore {
	return &MemoryMetadataStore{values: make(map[metadataKey]any)}
}

func (s *MemoryMetadataStore) Get(owner any, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[metadataKey{owner, key}]
	return v, ok
}

func (s *MemoryMetadataStore) Set(owner any, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[metadataKey{owner, key}] = value
}

// Forget drops every entry of owner.
func (s *MemoryMetadataStore) Forget(owner any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.values {
		if k.owner == owner {
			delete(s.values, k)
		}
	}
}

// Len returns the number of stored entries.
func (s *MemoryMetadataStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

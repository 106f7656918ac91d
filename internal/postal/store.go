package postal

import (
	"context"
	"sync"

	"github.com/Veraticus/pinpoint/internal/model"
)

// Store caches PIN lookups. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, pin string) (model.PostalReference, bool)
	Set(ctx context.Context, pin string, ref model.PostalReference)
}

// MemoryStore is an unbounded in-process cache. Entries live for the
// lifetime of the process; the last writer wins on a concurrent miss.
type MemoryStore struct {
	entries map[string]model.PostalReference
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-process cache.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]model.PostalReference)}
}

// Get returns the cached reference for pin.
func (s *MemoryStore) Get(_ context.Context, pin string) (model.PostalReference, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, ok := s.entries[pin]
	return ref, ok
}

// Set stores ref for pin.
func (s *MemoryStore) Set(_ context.Context, pin string, ref model.PostalReference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[pin] = ref
}

// Len returns the number of cached PINs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

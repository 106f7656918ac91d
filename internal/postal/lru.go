package postal

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Veraticus/pinpoint/internal/model"
)

// LRUStore bounds the cache to a fixed number of PINs, evicting the least
// recently used entry when full.
type LRUStore struct {
	cache *lru.Cache[string, model.PostalReference]
}

// NewLRUStore creates a bounded cache holding at most size PINs.
func NewLRUStore(size int) (*LRUStore, error) {
	if size <= 0 {
		return nil, fmt.Errorf("lru cache size must be positive, got %d", size)
	}
	cache, err := lru.New[string, model.PostalReference](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &LRUStore{cache: cache}, nil
}

// Get returns the cached reference for pin.
func (s *LRUStore) Get(_ context.Context, pin string) (model.PostalReference, bool) {
	return s.cache.Get(pin)
}

// Set stores ref for pin.
func (s *LRUStore) Set(_ context.Context, pin string, ref model.PostalReference) {
	s.cache.Add(pin, ref)
}

// Len returns the number of cached PINs.
func (s *LRUStore) Len() int {
	return s.cache.Len()
}

package infra

import (
	"sync"

	"github.com/eliteGoblin/edutubed/internal/domain"
)

// MemoryStore is an in-memory SettingsStore and CategoryCache. Used when the
// encrypted database cannot be opened, and by tests; state is lost on exit.
type MemoryStore struct {
	mu        sync.Mutex
	values    map[string]string
	cache     map[string]domain.CachedCategory
	listeners []func(key string)
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
		cache:  make(map[string]domain.CachedCategory),
	}
}

// Get returns the stored value for key, or domain.ErrNotFound.
func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

// Set stores a value and notifies change listeners.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	listeners := make([]func(string), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(key)
	}
	return nil
}

// OnChange registers a listener invoked after every successful Set.
func (s *MemoryStore) OnChange(fn func(key string)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// GetCategory returns the cached entry for an item id.
func (s *MemoryStore) GetCategory(itemID string) (*domain.CachedCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// PutCategory stores or replaces a cache entry.
func (s *MemoryStore) PutCategory(entry domain.CachedCategory) error {
	s.mu.Lock()
	s.cache[entry.ItemID] = entry
	s.mu.Unlock()
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

var _ domain.SettingsStore = (*MemoryStore)(nil)
var _ domain.CategoryCache = (*MemoryStore)(nil)

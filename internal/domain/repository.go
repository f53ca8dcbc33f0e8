package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a key has no value.
var ErrNotFound = errors.New("not found")

// SettingsStore is key-value settings persistence with change notification.
// Values are JSON-encoded by callers. Writes are best-effort: callers log
// failures and continue with in-memory state rather than aborting.
type SettingsStore interface {
	// Get returns the stored value for key, or ErrNotFound.
	Get(key string) (string, error)

	// Set stores a value and notifies change listeners.
	Set(key, value string) error

	// OnChange registers a listener invoked after every successful Set.
	OnChange(fn func(key string))

	// Close releases resources (e.g., database connection).
	Close() error
}

// CategoryCache persists oracle lookups keyed by item id.
// Entries older than the caller's freshness window are treated as absent.
type CategoryCache interface {
	// GetCategory returns the cached entry, or nil when absent.
	GetCategory(itemID string) (*CachedCategory, error)

	// PutCategory stores or replaces an entry.
	PutCategory(entry CachedCategory) error
}

// CategoryLookup resolves a coarse category code for an item id.
// ok=false means "no data" for any reason (disabled, quota exhausted,
// network or parse failure); lookups never surface errors to classification.
type CategoryLookup interface {
	Enabled() bool
	Lookup(ctx context.Context, itemID string) (category string, ok bool)
}

// Slot is one page position that can carry classification markers.
// A slot may be re-rendered with a different item in place (layout reuse);
// the scan loop detects the id change and discards the stale markers.
type Slot interface {
	// Raw returns the current snapshot of the slot's content.
	Raw() RawItem

	// ProcessedID returns the item id the slot was last classified as,
	// or "" when unprocessed.
	ProcessedID() string

	// Hidden reports whether the hidden marker is set.
	Hidden() bool

	// Mark records both markers: seen-with-id and hidden.
	Mark(itemID string, hidden bool)

	// ClearMarks removes both markers, restoring original visibility.
	ClearMarks()
}

// Page enumerates the currently rendered slots. The host page's DOM is an
// external collaborator; implementations mirror whatever the shim reports.
type Page interface {
	Slots() []Slot
}

// KeyProvider manages the storage encryption key.
type KeyProvider interface {
	GetKey() ([]byte, error)
	StoreKey(key []byte) error
	KeyExists() bool
}

// Clock abstracts time for quota resets and cache freshness in tests.
type Clock func() time.Time

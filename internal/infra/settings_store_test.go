package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/edutubed/internal/domain"
)

func newTestStore(t *testing.T) *EncryptedStore {
	t.Helper()
	key, err := GenerateKey()
	require.NoError(t, err)
	store, err := NewEncryptedStore(t.TempDir(), key)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEncryptedStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("config", `{"enabled":true}`))
	val, err := store.Get("config")
	require.NoError(t, err)
	assert.Equal(t, `{"enabled":true}`, val)

	// Overwrite replaces.
	require.NoError(t, store.Set("config", `{"enabled":false}`))
	val, err = store.Get("config")
	require.NoError(t, err)
	assert.Equal(t, `{"enabled":false}`, val)
}

func TestEncryptedStore_GetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get("nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestEncryptedStore_OnChange(t *testing.T) {
	store := newTestStore(t)

	var changed []string
	store.OnChange(func(key string) { changed = append(changed, key) })

	require.NoError(t, store.Set("a", "1"))
	require.NoError(t, store.Set("b", "2"))
	assert.Equal(t, []string{"a", "b"}, changed)
}

func TestEncryptedStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	key, err := GenerateKey()
	require.NoError(t, err)

	store, err := NewEncryptedStore(dir, key)
	require.NoError(t, err)
	require.NoError(t, store.Set("lists", "persisted"))
	require.NoError(t, store.Close())

	reopened, err := NewEncryptedStore(dir, key)
	require.NoError(t, err)
	defer reopened.Close()

	val, err := reopened.Get("lists")
	require.NoError(t, err)
	assert.Equal(t, "persisted", val)
}

func TestEncryptedStore_CategoryCache(t *testing.T) {
	store := newTestStore(t)

	fetched := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.PutCategory(domain.CachedCategory{
		ItemID:    "vid1",
		Category:  "27",
		Title:     "Lecture",
		ChannelID: "UCx",
		FetchedAt: fetched,
	}))

	entry, err := store.GetCategory("vid1")
	require.NoError(t, err)
	assert.Equal(t, "27", entry.Category)
	assert.Equal(t, "UCx", entry.ChannelID)
	assert.True(t, entry.FetchedAt.Equal(fetched))

	_, err = store.GetCategory("missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestEncryptedStore_PruneCategories(t *testing.T) {
	store := newTestStore(t)

	old := time.Now().Add(-10 * 24 * time.Hour)
	fresh := time.Now()
	require.NoError(t, store.PutCategory(domain.CachedCategory{ItemID: "old", Category: "10", FetchedAt: old}))
	require.NoError(t, store.PutCategory(domain.CachedCategory{ItemID: "fresh", Category: "27", FetchedAt: fresh}))

	removed, err := store.PruneCategories(time.Now().Add(-7 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = store.GetCategory("old")
	assert.Error(t, err)
	_, err = store.GetCategory("fresh")
	assert.NoError(t, err)
}

func TestMemoryStore_Basics(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get("missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, store.Set("k", "v"))
	val, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	var notified string
	store.OnChange(func(key string) { notified = key })
	require.NoError(t, store.Set("k2", "v2"))
	assert.Equal(t, "k2", notified)
}

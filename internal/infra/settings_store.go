// Package infra implements infrastructure concerns (storage, keys, process).
package infra

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	// Ensure sqlcipher driver is registered.
	_ "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/eliteGoblin/edutubed/internal/domain"
)

const (
	settingsDBName = "settings.db"
)

// EncryptedStore implements domain.SettingsStore and domain.CategoryCache
// using a SQLCipher encrypted SQLite database. List contents and watch
// history derived data never touch disk in the clear.
type EncryptedStore struct {
	db     *sql.DB
	dbPath string

	mu        sync.Mutex
	listeners []func(key string)
}

// NewEncryptedStore opens (or creates) the encrypted settings database.
// The key is used as the SQLCipher passphrase via PRAGMA key.
func NewEncryptedStore(dataDir string, key []byte) (*EncryptedStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, settingsDBName)
	keyHex := hex.EncodeToString(key)

	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096", dbPath, keyHex)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open encrypted database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to encrypted database: %w", err)
	}

	s := &EncryptedStore{db: db, dbPath: dbPath}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *EncryptedStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS category_cache (
		item_id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		title TEXT DEFAULT '',
		channel_id TEXT DEFAULT '',
		fetched_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// --- domain.SettingsStore implementation ---

// Get returns the stored value for key.
func (s *EncryptedStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", domain.ErrNotFound
	}
	return value, err
}

// Set stores a value and notifies change listeners.
func (s *EncryptedStore) Set(key, value string) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(`INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, ?)`,
		key, value, now)
	if err != nil {
		return err
	}
	s.notify(key)
	return nil
}

// OnChange registers a listener invoked after every successful Set.
func (s *EncryptedStore) OnChange(fn func(key string)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *EncryptedStore) notify(key string) {
	s.mu.Lock()
	listeners := make([]func(string), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(key)
	}
}

// --- domain.CategoryCache implementation ---

// GetCategory returns the cached entry for an item id.
func (s *EncryptedStore) GetCategory(itemID string) (*domain.CachedCategory, error) {
	var entry domain.CachedCategory
	var fetched int64
	err := s.db.QueryRow(
		`SELECT item_id, category, title, channel_id, fetched_at FROM category_cache WHERE item_id = ?`,
		itemID).Scan(&entry.ItemID, &entry.Category, &entry.Title, &entry.ChannelID, &fetched)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	entry.FetchedAt = time.Unix(fetched, 0)
	return &entry, nil
}

// PutCategory stores or replaces a cache entry.
func (s *EncryptedStore) PutCategory(entry domain.CachedCategory) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO category_cache (item_id, category, title, channel_id, fetched_at) VALUES (?, ?, ?, ?, ?)`,
		entry.ItemID, entry.Category, entry.Title, entry.ChannelID, entry.FetchedAt.Unix())
	return err
}

// PruneCategories deletes entries fetched before the cutoff. Returns the
// number of rows removed.
func (s *EncryptedStore) PruneCategories(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM category_cache WHERE fetched_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetStorePath returns the database file path.
func (s *EncryptedStore) GetStorePath() string {
	return s.dbPath
}

// Close releases the database connection.
func (s *EncryptedStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure EncryptedStore implements both interfaces.
var _ domain.SettingsStore = (*EncryptedStore)(nil)
var _ domain.CategoryCache = (*EncryptedStore)(nil)

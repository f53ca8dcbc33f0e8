// Package liststore holds the user's explicit allow/deny sets and free-text
// keyword lists. Mutations are idempotent, enforce mutual exclusion between
// the two sides of each pair, persist the full state, and fire an
// invalidation hook so processed items are re-classified on the next scan.
package liststore

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/eliteGoblin/edutubed/internal/domain"
)

// SettingsKey is the settings-store key the full list state persists under.
const SettingsKey = "lists"

// State is the JSON-persisted form of the list store.
type State struct {
	WhitelistChannels []string `json:"whitelist_channels"`
	BlacklistChannels []string `json:"blacklist_channels"`
	WhitelistItems    []string `json:"whitelist_items"`
	BlacklistItems    []string `json:"blacklist_items"`
	AllowKeywords     []string `json:"allow_keywords"`
	DenyKeywords      []string `json:"deny_keywords"`
}

// Store is the in-memory list state backed by the settings store.
type Store struct {
	mu sync.Mutex

	whitelistChannels map[string]struct{}
	blacklistChannels map[string]struct{}
	whitelistItems    map[string]struct{}
	blacklistItems    map[string]struct{}
	allowKeywords     map[string]struct{}
	denyKeywords      map[string]struct{}

	settings domain.SettingsStore
	logger   *zap.Logger
	onMutate func()
}

// New creates a store, loading any persisted state. A missing or unreadable
// persisted state degrades to empty lists.
func New(settings domain.SettingsStore, logger *zap.Logger) *Store {
	s := &Store{
		whitelistChannels: make(map[string]struct{}),
		blacklistChannels: make(map[string]struct{}),
		whitelistItems:    make(map[string]struct{}),
		blacklistItems:    make(map[string]struct{}),
		allowKeywords:     make(map[string]struct{}),
		denyKeywords:      make(map[string]struct{}),
		settings:          settings,
		logger:            logger,
	}
	s.load()
	return s
}

// SetOnMutate registers the invalidation hook fired after every mutation.
func (s *Store) SetOnMutate(fn func()) {
	s.mu.Lock()
	s.onMutate = fn
	s.mu.Unlock()
}

func (s *Store) load() {
	if s.settings == nil {
		return
	}
	raw, err := s.settings.Get(SettingsKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("failed to load lists, starting empty", zap.Error(err))
		}
		return
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		s.logger.Warn("corrupt persisted lists, starting empty", zap.Error(err))
		return
	}
	fill := func(dst map[string]struct{}, src []string) {
		for _, v := range src {
			if v != "" {
				dst[v] = struct{}{}
			}
		}
	}
	fill(s.whitelistChannels, st.WhitelistChannels)
	fill(s.blacklistChannels, st.BlacklistChannels)
	fill(s.whitelistItems, st.WhitelistItems)
	fill(s.blacklistItems, st.BlacklistItems)
	fill(s.allowKeywords, st.AllowKeywords)
	fill(s.denyKeywords, st.DenyKeywords)
}

// persist writes the full state. Best-effort: failures are logged, the
// in-memory state stays authoritative for the session.
func (s *Store) persist() {
	if s.settings == nil {
		return
	}
	raw, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		s.logger.Warn("failed to encode lists", zap.Error(err))
		return
	}
	if err := s.settings.Set(SettingsKey, string(raw)); err != nil {
		s.logger.Warn("failed to persist lists", zap.Error(err))
	}
}

func (s *Store) mutated() {
	s.persist()
	if s.onMutate != nil {
		s.onMutate()
	}
}

func (s *Store) pair(list domain.ListName, kind domain.IDKind) (target, opposite map[string]struct{}) {
	switch kind {
	case domain.KindChannel:
		if list == domain.Whitelist {
			return s.whitelistChannels, s.blacklistChannels
		}
		return s.blacklistChannels, s.whitelistChannels
	default:
		if list == domain.Whitelist {
			return s.whitelistItems, s.blacklistItems
		}
		return s.blacklistItems, s.whitelistItems
	}
}

// AddChannel adds a channel id to the given list, removing it from the
// opposite list. Adding an already-present id is a no-op beyond the persist.
func (s *Store) AddChannel(list domain.ListName, id string) {
	s.add(list, domain.KindChannel, id)
}

// RemoveChannel removes a channel id from the given list.
func (s *Store) RemoveChannel(list domain.ListName, id string) {
	s.remove(list, domain.KindChannel, id)
}

// AddItem adds an item id to the given list, removing it from the opposite.
func (s *Store) AddItem(list domain.ListName, id string) {
	s.add(list, domain.KindItem, id)
}

// RemoveItem removes an item id from the given list.
func (s *Store) RemoveItem(list domain.ListName, id string) {
	s.remove(list, domain.KindItem, id)
}

func (s *Store) add(list domain.ListName, kind domain.IDKind, id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	target, opposite := s.pair(list, kind)
	target[id] = struct{}{}
	delete(opposite, id)
	s.mutated()
}

func (s *Store) remove(list domain.ListName, kind domain.IDKind, id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	target, _ := s.pair(list, kind)
	delete(target, id)
	s.mutated()
}

// AddKeyword adds a free-text phrase to the allow or deny keyword list.
func (s *Store) AddKeyword(list domain.ListName, phrase string) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if list == domain.Whitelist {
		s.allowKeywords[phrase] = struct{}{}
		delete(s.denyKeywords, phrase)
	} else {
		s.denyKeywords[phrase] = struct{}{}
		delete(s.allowKeywords, phrase)
	}
	s.mutated()
}

// RemoveKeyword removes a phrase from the allow or deny keyword list.
func (s *Store) RemoveKeyword(list domain.ListName, phrase string) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if list == domain.Whitelist {
		delete(s.allowKeywords, phrase)
	} else {
		delete(s.denyKeywords, phrase)
	}
	s.mutated()
}

// ContainsChannel reports membership of a channel id in the given list.
func (s *Store) ContainsChannel(list domain.ListName, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, _ := s.pair(list, domain.KindChannel)
	_, ok := target[id]
	return ok
}

// ContainsItem reports membership of an item id in the given list.
func (s *Store) ContainsItem(list domain.ListName, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, _ := s.pair(list, domain.KindItem)
	_, ok := target[id]
	return ok
}

// MatchKeyword returns the first user keyword found as a substring of text
// (case-insensitive). Deny keywords are checked before allow keywords.
func (s *Store) MatchKeyword(text string) (domain.ListName, string, bool) {
	lower := strings.ToLower(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, phrase := range sortedKeys(s.denyKeywords) {
		if strings.Contains(lower, phrase) {
			return domain.Blacklist, phrase, true
		}
	}
	for _, phrase := range sortedKeys(s.allowKeywords) {
		if strings.Contains(lower, phrase) {
			return domain.Whitelist, phrase, true
		}
	}
	return "", "", false
}

// Snapshot returns the current state with deterministically ordered slices.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	return State{
		WhitelistChannels: sortedKeys(s.whitelistChannels),
		BlacklistChannels: sortedKeys(s.blacklistChannels),
		WhitelistItems:    sortedKeys(s.whitelistItems),
		BlacklistItems:    sortedKeys(s.blacklistItems),
		AllowKeywords:     sortedKeys(s.allowKeywords),
		DenyKeywords:      sortedKeys(s.denyKeywords),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

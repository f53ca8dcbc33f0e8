// Package stats counts classification outcomes per pipeline layer for the
// settings UI. Counters are monotonic and persisted; reset only by explicit
// user action.
package stats

import (
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/eliteGoblin/edutubed/internal/domain"
)

// SettingsKey is the settings-store key the counters persist under.
const SettingsKey = "stats"

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Shown    uint64                  `json:"shown"`
	Hidden   uint64                  `json:"hidden"`
	Sessions uint64                  `json:"sessions"`
	Layers   map[domain.Layer]uint64 `json:"layers"`
}

// Aggregator accumulates decision counters.
type Aggregator struct {
	mu       sync.Mutex
	shown    uint64
	hidden   uint64
	sessions uint64
	layers   map[domain.Layer]uint64

	settings domain.SettingsStore
	logger   *zap.Logger
}

// New creates an aggregator, loading any persisted counters.
func New(settings domain.SettingsStore, logger *zap.Logger) *Aggregator {
	a := &Aggregator{
		layers:   make(map[domain.Layer]uint64),
		settings: settings,
		logger:   logger,
	}
	a.load()
	return a
}

func (a *Aggregator) load() {
	if a.settings == nil {
		return
	}
	raw, err := a.settings.Get(SettingsKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			a.logger.Warn("failed to load stats, starting at zero", zap.Error(err))
		}
		return
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		a.logger.Warn("corrupt persisted stats, starting at zero", zap.Error(err))
		return
	}
	a.shown = snap.Shown
	a.hidden = snap.Hidden
	a.sessions = snap.Sessions
	for layer, n := range snap.Layers {
		a.layers[layer] = n
	}
}

func (a *Aggregator) persist() {
	if a.settings == nil {
		return
	}
	raw, err := json.Marshal(a.snapshotLocked())
	if err != nil {
		a.logger.Warn("failed to encode stats", zap.Error(err))
		return
	}
	if err := a.settings.Set(SettingsKey, string(raw)); err != nil {
		a.logger.Warn("failed to persist stats", zap.Error(err))
	}
}

// RecordDecision increments the counter for the layer that decided.
func (a *Aggregator) RecordDecision(d domain.Decision) {
	a.mu.Lock()
	a.layers[d.Layer]++
	a.mu.Unlock()
}

// RecordBatch adds one scan's shown/hidden totals and counts the session.
// Persisted once per batch, not per item.
func (a *Aggregator) RecordBatch(shown, hidden int) {
	a.mu.Lock()
	a.shown += uint64(shown)
	a.hidden += uint64(hidden)
	a.sessions++
	a.persist()
	a.mu.Unlock()
}

// Snapshot returns a copy of all counters.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Aggregator) snapshotLocked() Snapshot {
	layers := make(map[domain.Layer]uint64, len(a.layers))
	for k, v := range a.layers {
		layers[k] = v
	}
	return Snapshot{Shown: a.shown, Hidden: a.hidden, Sessions: a.sessions, Layers: layers}
}

// Reset zeroes every counter and persists the cleared state.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	a.shown = 0
	a.hidden = 0
	a.sessions = 0
	a.layers = make(map[domain.Layer]uint64)
	a.persist()
	a.mu.Unlock()
}

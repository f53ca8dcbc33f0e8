// Package regions manages page-region declutter toggles and navigation
// rewrites. Each region maps to a stable CSS marker class the shim applies;
// the daemon only decides which classes are active.
package regions

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/eliteGoblin/edutubed/internal/domain"
)

// SettingsKey is the settings-store key region toggles persist under.
const SettingsKey = "regions"

// Region identifies one page area that can be decluttered.
type Region string

const (
	RegionHeader      Region = "header"
	RegionHome        Region = "home"
	RegionSidebar     Region = "sidebar"
	RegionComments    Region = "comments"
	RegionShorts      Region = "shorts"
	RegionChipbar     Region = "chipbar"
	RegionExplore     Region = "explore"
	RegionDescription Region = "description"
	RegionChannelInfo Region = "channelInfo"
	RegionEngagement  Region = "engagement"
	RegionSuggested   Region = "suggested"
	RegionTitle       Region = "title"
	RegionMerchShelf  Region = "merchShelf"
)

// All lists every known region in stable order.
var All = []Region{
	RegionHeader, RegionHome, RegionSidebar, RegionComments, RegionShorts,
	RegionChipbar, RegionExplore, RegionDescription, RegionChannelInfo,
	RegionEngagement, RegionSuggested, RegionTitle, RegionMerchShelf,
}

// MarkerClass returns the CSS class the shim applies for a hidden region.
func MarkerClass(r Region) string {
	return "declutter-hide-" + string(r)
}

// Toggles holds which regions are hidden, persisted as a region->bool map.
type Toggles struct {
	mu     sync.Mutex
	hidden map[Region]bool

	settings domain.SettingsStore
	logger   *zap.Logger
}

// NewToggles loads persisted region state. Unknown persisted regions are
// kept, so a newer shim's regions survive a daemon downgrade.
func NewToggles(settings domain.SettingsStore, logger *zap.Logger) *Toggles {
	t := &Toggles{
		hidden:   make(map[Region]bool),
		settings: settings,
		logger:   logger,
	}
	t.load()
	return t
}

func (t *Toggles) load() {
	if t.settings == nil {
		return
	}
	raw, err := t.settings.Get(SettingsKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			t.logger.Warn("failed to load region toggles", zap.Error(err))
		}
		return
	}
	var m map[Region]bool
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.logger.Warn("corrupt region toggles, starting clean", zap.Error(err))
		return
	}
	t.hidden = m
}

func (t *Toggles) persistLocked() {
	if t.settings == nil {
		return
	}
	raw, err := json.Marshal(t.hidden)
	if err != nil {
		return
	}
	if err := t.settings.Set(SettingsKey, string(raw)); err != nil {
		t.logger.Warn("failed to persist region toggles", zap.Error(err))
	}
}

// Set marks a region hidden or shown and persists.
func (t *Toggles) Set(r Region, hidden bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if hidden {
		t.hidden[r] = true
	} else {
		delete(t.hidden, r)
	}
	t.persistLocked()
}

// Hidden reports whether a region is currently hidden.
func (t *Toggles) Hidden(r Region) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hidden[r]
}

// ActiveClasses returns the sorted marker classes for all hidden regions.
func (t *Toggles) ActiveClasses() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.hidden))
	for r, on := range t.hidden {
		if on {
			out = append(out, MarkerClass(r))
		}
	}
	sort.Strings(out)
	return out
}

// RewriteShortsURL converts a shorts path to its regular watch equivalent.
// ok=false means the URL is not a shorts URL and must not be touched.
func RewriteShortsURL(raw string) (string, bool) {
	const marker = "/shorts/"
	idx := strings.Index(raw, marker)
	if idx < 0 {
		return "", false
	}
	rest := raw[idx+len(marker):]
	id := rest
	if cut := strings.IndexAny(rest, "?&#/"); cut >= 0 {
		id = rest[:cut]
	}
	if id == "" {
		return "", false
	}
	return raw[:idx] + "/watch?v=" + id, true
}

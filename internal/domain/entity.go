// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "time"

// Layer identifies which pipeline stage produced a decision.
type Layer string

const (
	LayerListWhitelist       Layer = "listWhitelist"
	LayerListBlacklist       Layer = "listBlacklist"
	LayerKeywordStrong       Layer = "keywordStrong"
	LayerKeywordFallback     Layer = "keywordFallback"
	LayerCategory            Layer = "category"
	LayerSensitivityFallback Layer = "sensitivityFallback"
)

// ListName selects the allow or deny side of the list store.
type ListName string

const (
	Whitelist ListName = "whitelist"
	Blacklist ListName = "blacklist"
)

// IDKind distinguishes channel-level from item-level list entries.
type IDKind string

const (
	KindChannel IDKind = "channel"
	KindItem    IDKind = "item"
)

// RawItem is the untyped snapshot of one rendered feed entry as the browser
// shim sees it. Candidate values appear in document order; the extractor
// takes the first that matches. Label attributes are preferred over visible
// text for the title.
type RawItem struct {
	Links        []string `json:"links"`
	TitleLabels  []string `json:"title_labels"`
	TitleTexts   []string `json:"title_texts"`
	DescTexts    []string `json:"desc_texts"`
	ChannelTexts []string `json:"channel_texts"`
}

// Record is the normalized item the scorer and engine operate on.
// All fields may be empty; an empty ItemID means the item is unidentifiable.
type Record struct {
	ItemID      string `json:"item_id"`
	ChannelID   string `json:"channel_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ChannelName string `json:"channel_name"`
}

// HasSignal reports whether the record carries any text worth classifying.
// Records without signal default to "show" rather than being scored.
func (r Record) HasSignal() bool {
	return r.Title != "" || r.Description != "" || r.ChannelName != ""
}

// Decision is the classification outcome for one distinct item id.
// Decisions are memoized per id and discarded when a slot's id changes.
type Decision struct {
	ItemID string `json:"item_id"`
	Hidden bool   `json:"hidden"`
	Layer  Layer  `json:"layer"`
}

// Config is the engine's user-facing configuration.
type Config struct {
	Enabled     bool `json:"enabled"`
	Sensitivity int  `json:"sensitivity"` // 0-100
}

// DefaultConfig returns the configuration used before any settings are read.
func DefaultConfig() Config {
	return Config{Enabled: false, Sensitivity: 50}
}

// ScoreDelta is one entry in a score breakdown, for diagnostics only.
type ScoreDelta struct {
	Reason string `json:"reason"`
	Delta  int    `json:"delta"`
}

// CachedCategory is a persisted oracle lookup result.
type CachedCategory struct {
	ItemID    string
	Category  string
	Title     string
	ChannelID string
	FetchedAt time.Time
}

// Package engine orchestrates the layered classification pipeline: explicit
// lists, user keywords, lexical scoring, category lookup, and the
// sensitivity fallback. One decision per distinct item id, memoized until
// the item's id changes or a list mutation invalidates everything.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/eliteGoblin/edutubed/internal/domain"
	"github.com/eliteGoblin/edutubed/internal/lexicon"
	"github.com/eliteGoblin/edutubed/internal/liststore"
	"github.com/eliteGoblin/edutubed/internal/score"
	"github.com/eliteGoblin/edutubed/internal/stats"
)

// ConfigKey is the settings-store key the engine configuration persists
// under.
const ConfigKey = "config"

// Scorer computes the lexical score for a record.
type Scorer interface {
	Score(rec domain.Record) score.Result
}

// Engine classifies records. Construct with New; collaborators are injected,
// there is no ambient global state.
type Engine struct {
	lex    *lexicon.Lexicon
	lists  *liststore.Store
	scorer Scorer
	oracle domain.CategoryLookup
	stats  *stats.Aggregator

	settings domain.SettingsStore
	logger   *zap.Logger

	mu        sync.Mutex
	cfg       domain.Config
	decisions map[string]domain.Decision
}

// New creates an engine, loading persisted configuration. A nil oracle
// disables the category layer entirely.
func New(
	lex *lexicon.Lexicon,
	lists *liststore.Store,
	scorer Scorer,
	oracle domain.CategoryLookup,
	agg *stats.Aggregator,
	settings domain.SettingsStore,
	logger *zap.Logger,
) *Engine {
	e := &Engine{
		lex:       lex,
		lists:     lists,
		scorer:    scorer,
		oracle:    oracle,
		stats:     agg,
		settings:  settings,
		logger:    logger,
		cfg:       domain.DefaultConfig(),
		decisions: make(map[string]domain.Decision),
	}
	e.loadConfig()
	return e
}

func (e *Engine) loadConfig() {
	if e.settings == nil {
		return
	}
	raw, err := e.settings.Get(ConfigKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			e.logger.Warn("failed to load config, using defaults", zap.Error(err))
		}
		return
	}
	var cfg domain.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		e.logger.Warn("corrupt persisted config, using defaults", zap.Error(err))
		return
	}
	e.cfg = cfg
}

func (e *Engine) persistConfig(cfg domain.Config) {
	if e.settings == nil {
		return
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := e.settings.Set(ConfigKey, string(raw)); err != nil {
		e.logger.Warn("failed to persist config", zap.Error(err))
	}
}

// Config returns the current configuration.
func (e *Engine) Config() domain.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Enabled reports whether filtering is on.
func (e *Engine) Enabled() bool {
	return e.Config().Enabled
}

// SetEnabled toggles filtering and persists the configuration.
func (e *Engine) SetEnabled(on bool) {
	e.mu.Lock()
	e.cfg.Enabled = on
	cfg := e.cfg
	e.mu.Unlock()
	e.persistConfig(cfg)
	e.logger.Info("filter toggled", zap.Bool("enabled", on))
}

// SetSensitivity updates the dial, persists, and invalidates all memoized
// decisions since every cutoff may have moved.
func (e *Engine) SetSensitivity(value int) error {
	if value < 0 || value > 100 {
		return errors.New("sensitivity out of range 0-100")
	}
	e.mu.Lock()
	e.cfg.Sensitivity = value
	cfg := e.cfg
	e.decisions = make(map[string]domain.Decision)
	e.mu.Unlock()
	e.persistConfig(cfg)
	e.logger.Info("sensitivity changed",
		zap.Int("value", value),
		zap.String("band", BandFor(value).String()))
	return nil
}

// Invalidate discards every memoized decision. Called after list and
// keyword mutations.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.decisions = make(map[string]domain.Decision)
	e.mu.Unlock()
}

// Classify runs the pipeline for one record. Per-item failures never
// propagate: every fallible layer degrades to the next one, and the worst
// case is an item shown that should be hidden.
func (e *Engine) Classify(ctx context.Context, rec domain.Record) domain.Decision {
	e.mu.Lock()
	if d, ok := e.decisions[rec.ItemID]; ok && rec.ItemID != "" {
		e.mu.Unlock()
		return d
	}
	sensitivity := e.cfg.Sensitivity
	e.mu.Unlock()

	d := e.classify(ctx, rec, sensitivity)

	if rec.ItemID != "" {
		e.mu.Lock()
		e.decisions[rec.ItemID] = d
		e.mu.Unlock()
	}
	e.stats.RecordDecision(d)
	return d
}

func (e *Engine) classify(ctx context.Context, rec domain.Record, sensitivity int) domain.Decision {
	decide := func(hidden bool, layer domain.Layer) domain.Decision {
		return domain.Decision{ItemID: rec.ItemID, Hidden: hidden, Layer: layer}
	}

	// Layer 1: explicit lists. Item-level gates before channel-level,
	// blacklist before whitelist at each level.
	if rec.ItemID != "" {
		if e.lists.ContainsItem(domain.Blacklist, rec.ItemID) {
			return decide(true, domain.LayerListBlacklist)
		}
		if e.lists.ContainsItem(domain.Whitelist, rec.ItemID) {
			return decide(false, domain.LayerListWhitelist)
		}
	}
	if rec.ChannelID != "" {
		if e.lists.ContainsChannel(domain.Blacklist, rec.ChannelID) {
			return decide(true, domain.LayerListBlacklist)
		}
		if e.lists.ContainsChannel(domain.Whitelist, rec.ChannelID) {
			return decide(false, domain.LayerListWhitelist)
		}
	}

	// Layer 2: user keyword fast path against title and channel text.
	if list, phrase, ok := e.lists.MatchKeyword(rec.Title + " " + rec.ChannelName); ok {
		e.logger.Debug("keyword fast path",
			zap.String("item", rec.ItemID),
			zap.String("phrase", phrase),
			zap.String("list", string(list)))
		return decide(list == domain.Blacklist, domain.LayerKeywordFallback)
	}

	// Insufficient signal never hides: unparseable items fail open.
	if !rec.HasSignal() {
		return decide(false, domain.LayerSensitivityFallback)
	}

	// Layer 3: lexical score against the band's strong cutoffs. The
	// immediate-reject score always lands below the non-edu cutoff.
	res := e.scorer.Score(rec)
	eduCutoff, nonEduCutoff := StrongCutoffs(sensitivity)
	if res.Score >= eduCutoff {
		return decide(false, domain.LayerKeywordStrong)
	}
	if res.Score <= nonEduCutoff {
		return decide(true, domain.LayerKeywordStrong)
	}

	// Layer 4: category oracle, only for mid-band scores and only while
	// quota remains. No data falls through to the final layer.
	oracleOn := e.oracle != nil && e.oracle.Enabled()
	if oracleOn && rec.ItemID != "" {
		if lo, hi := OracleBand(sensitivity); res.Score >= lo && res.Score < hi {
			if d, ok := e.categoryDecision(ctx, rec); ok {
				return d
			}
		}
	}

	// Layer 5: sensitivity fallback threshold.
	threshold := FallbackThreshold(sensitivity)
	if !oracleOn && BandFor(sensitivity) == BandRelaxed && res.Score >= threshold-oracleOffMargin {
		threshold -= oracleOffRelief
	}
	return decide(res.Score < threshold, domain.LayerSensitivityFallback)
}

// categoryDecision consults the oracle and applies the ambiguous-category
// cross-checks. ok=false means no decision could be made at this layer.
func (e *Engine) categoryDecision(ctx context.Context, rec domain.Record) (domain.Decision, bool) {
	cat, ok := e.oracle.Lookup(ctx, rec.ItemID)
	if !ok || cat == "" {
		return domain.Decision{}, false
	}
	decide := func(hidden bool) (domain.Decision, bool) {
		return domain.Decision{ItemID: rec.ItemID, Hidden: hidden, Layer: domain.LayerCategory}, true
	}

	switch classifyCategory(cat) {
	case categoryEducational:
		return decide(false)
	case categoryNonEducational:
		return decide(true)
	}

	// Ambiguous: typically-entertainment codes are hidden outright; the
	// how-to code is accepted only with tutorial phrasing or a trusted
	// channel-name signal.
	if _, ent := entertainmentOverride[cat]; ent {
		return decide(true)
	}
	if cat == howToCategory {
		text := strings.ToLower(rec.Title + " " + rec.Description)
		if e.lex.TutorialPhrasing(text) || e.lex.TrustedChannel(rec.ChannelName) {
			return decide(false)
		}
	}
	return domain.Decision{}, false
}

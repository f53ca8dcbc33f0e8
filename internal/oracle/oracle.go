// Package oracle resolves coarse category codes for item ids via a remote
// metadata endpoint, behind a persistent cache and a strict daily unit
// quota. All failure modes collapse to "no data"; the engine treats that as
// an instruction to fall through to the next pipeline layer.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/eliteGoblin/edutubed/internal/domain"
)

// QuotaKey is the settings-store key daily quota usage persists under.
const QuotaKey = "oracle_quota"

// Config holds the oracle's tunables. Zero values are replaced by the
// documented defaults in New.
type Config struct {
	BaseURL        string
	APIKey         string
	Enabled        bool
	QuotaLimit     int           // daily unit budget
	LookupCost     int           // units per remote lookup
	CacheTTL       time.Duration // freshness window for cached entries
	RequestTimeout time.Duration
	RPS            float64 // remote request pacing
	Burst          int
}

const (
	defaultQuotaLimit = 10000
	defaultLookupCost = 3
	defaultCacheTTL   = 7 * 24 * time.Hour
	defaultTimeout    = 8 * time.Second
	defaultRPS        = 2
	defaultBurst      = 4
)

// quotaState is the JSON-persisted daily usage record. Day is the local
// calendar date the units were spent on; a new day resets usage to zero.
type quotaState struct {
	Day  string `json:"day"`
	Used int    `json:"used"`
}

// QuotaInfo is a point-in-time view of the daily budget.
type QuotaInfo struct {
	Limit     int       `json:"limit"`
	Used      int       `json:"used"`
	Remaining int       `json:"remaining"`
	ResetsAt  time.Time `json:"resets_at"`
}

// Service is the quota-guarded, cached category lookup.
type Service struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter

	cache    domain.CategoryCache
	settings domain.SettingsStore
	logger   *zap.Logger
	now      domain.Clock

	mu    sync.Mutex
	quota quotaState
}

var _ domain.CategoryLookup = (*Service)(nil)

// New creates a service, restoring persisted quota usage. A nil clock uses
// time.Now.
func New(cfg Config, cache domain.CategoryCache, settings domain.SettingsStore, logger *zap.Logger, clock domain.Clock) *Service {
	if cfg.QuotaLimit <= 0 {
		cfg.QuotaLimit = defaultQuotaLimit
	}
	if cfg.LookupCost <= 0 {
		cfg.LookupCost = defaultLookupCost
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if clock == nil {
		clock = time.Now
	}
	s := &Service{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.RequestTimeout},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		cache:    cache,
		settings: settings,
		logger:   logger,
		now:      clock,
	}
	s.loadQuota()
	return s
}

// Enabled reports whether remote lookups are configured and switched on.
// Cached entries are still served when disabled mid-session, but the engine
// checks Enabled before entering the category layer at all.
func (s *Service) Enabled() bool {
	return s.cfg.Enabled && s.cfg.BaseURL != "" && s.cfg.APIKey != ""
}

// Lookup resolves the category for an item id. Cache hits cost no quota.
// Any failure returns ok=false.
func (s *Service) Lookup(ctx context.Context, itemID string) (string, bool) {
	if itemID == "" {
		return "", false
	}
	if cat, ok := s.fromCache(itemID); ok {
		return cat, true
	}
	if !s.Enabled() {
		return "", false
	}
	if !s.spend() {
		s.logger.Debug("category lookup skipped, quota exhausted",
			zap.String("item", itemID))
		return "", false
	}
	cat, title, channelID, err := s.fetch(ctx, itemID)
	if err != nil {
		s.logger.Warn("category lookup failed",
			zap.String("item", itemID), zap.Error(err))
		return "", false
	}
	if err := s.cache.PutCategory(domain.CachedCategory{
		ItemID:    itemID,
		Category:  cat,
		Title:     title,
		ChannelID: channelID,
		FetchedAt: s.now(),
	}); err != nil {
		s.logger.Warn("failed to cache category",
			zap.String("item", itemID), zap.Error(err))
	}
	return cat, true
}

func (s *Service) fromCache(itemID string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	entry, err := s.cache.GetCategory(itemID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("category cache read failed",
				zap.String("item", itemID), zap.Error(err))
		}
		return "", false
	}
	if entry == nil || s.now().Sub(entry.FetchedAt) > s.cfg.CacheTTL {
		return "", false
	}
	return entry.Category, true
}

// spend atomically checks the daily budget and deducts one lookup's units.
// The day rolls over at local midnight.
func (s *Service) spend() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.now().Format("2006-01-02")
	if s.quota.Day != day {
		s.quota = quotaState{Day: day}
	}
	if s.quota.Used+s.cfg.LookupCost > s.cfg.QuotaLimit {
		return false
	}
	s.quota.Used += s.cfg.LookupCost
	s.persistQuotaLocked()
	return true
}

// Quota returns the current day's usage.
func (s *Service) Quota() QuotaInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	day := now.Format("2006-01-02")
	used := s.quota.Used
	if s.quota.Day != day {
		used = 0
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return QuotaInfo{
		Limit:     s.cfg.QuotaLimit,
		Used:      used,
		Remaining: s.cfg.QuotaLimit - used,
		ResetsAt:  midnight,
	}
}

func (s *Service) loadQuota() {
	if s.settings == nil {
		return
	}
	raw, err := s.settings.Get(QuotaKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("failed to load quota state", zap.Error(err))
		}
		return
	}
	var st quotaState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		s.logger.Warn("corrupt quota state, starting fresh", zap.Error(err))
		return
	}
	s.quota = st
}

func (s *Service) persistQuotaLocked() {
	if s.settings == nil {
		return
	}
	raw, err := json.Marshal(s.quota)
	if err != nil {
		return
	}
	if err := s.settings.Set(QuotaKey, string(raw)); err != nil {
		s.logger.Warn("failed to persist quota state", zap.Error(err))
	}
}

// lookupResponse mirrors the subset of the metadata endpoint's payload the
// service reads.
type lookupResponse struct {
	Items []struct {
		Snippet struct {
			CategoryID string `json:"categoryId"`
			Title      string `json:"title"`
			ChannelID  string `json:"channelId"`
		} `json:"snippet"`
	} `json:"items"`
}

func (s *Service) fetch(ctx context.Context, itemID string) (category, title, channelID string, err error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", "", "", err
	}
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("id", itemID)
	q.Set("key", s.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", "", "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", "", "", fmt.Errorf("lookup status %d", resp.StatusCode)
	}
	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", "", fmt.Errorf("decode lookup response: %w", err)
	}
	if len(body.Items) == 0 {
		return "", "", "", errors.New("item not found")
	}
	sn := body.Items[0].Snippet
	if sn.CategoryID == "" {
		return "", "", "", errors.New("response missing category")
	}
	if _, err := strconv.Atoi(sn.CategoryID); err != nil {
		return "", "", "", fmt.Errorf("malformed category %q", sn.CategoryID)
	}
	return sn.CategoryID, sn.Title, sn.ChannelID, nil
}

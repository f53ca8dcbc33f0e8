// Package daemon assembles the object graph and runs the sidecar: the
// encrypted store, classification engine, scan loop, and loopback HTTP API.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/edutubed/internal/control"
	"github.com/eliteGoblin/edutubed/internal/domain"
	"github.com/eliteGoblin/edutubed/internal/engine"
	"github.com/eliteGoblin/edutubed/internal/infra"
	"github.com/eliteGoblin/edutubed/internal/lexicon"
	"github.com/eliteGoblin/edutubed/internal/liststore"
	"github.com/eliteGoblin/edutubed/internal/oracle"
	"github.com/eliteGoblin/edutubed/internal/regions"
	"github.com/eliteGoblin/edutubed/internal/scan"
	"github.com/eliteGoblin/edutubed/internal/score"
	"github.com/eliteGoblin/edutubed/internal/server"
	"github.com/eliteGoblin/edutubed/internal/stats"
)

// Config holds daemon startup options.
type Config struct {
	DataDir    string
	ListenAddr string // loopback only; the shim connects here
	Quiescence time.Duration
	Oracle     oracle.Config
}

// DefaultConfig returns the daemon defaults. ListenAddr binds loopback so
// the API is never reachable off-host.
func DefaultConfig(dataDir string) Config {
	return Config{
		DataDir:    dataDir,
		ListenAddr: "127.0.0.1:8417",
		Quiescence: scan.DefaultQuiescence,
	}
}

// Daemon is the assembled sidecar.
type Daemon struct {
	cfg    Config
	logger *zap.Logger

	store    domain.SettingsStore
	engine   *engine.Engine
	lists    *liststore.Store
	loop     *scan.Loop
	sessions *server.SessionManager
	srv      *http.Server
}

// New builds the full object graph. If the encrypted store cannot be
// opened the daemon degrades to an in-memory store and keeps running;
// settings then last only for the session.
func New(cfg Config, logger *zap.Logger) (*Daemon, error) {
	store, cache := openStore(cfg.DataDir, logger)

	lex := lexicon.Default()
	lists := liststore.New(store, logger)
	agg := stats.New(store, logger)
	toggles := regions.NewToggles(store, logger)

	var svc *oracle.Service
	var lookup domain.CategoryLookup
	var quota control.QuotaReporter
	if cfg.Oracle.BaseURL != "" {
		svc = oracle.New(cfg.Oracle, cache, store, logger, nil)
		lookup = svc
		quota = svc
	}

	eng := engine.New(lex, lists, score.New(lex), lookup, agg, store, logger)

	sessions := server.NewSessionManager(nil)
	loop := scan.New(sessions, eng, agg, logger, cfg.Quiescence)

	// List mutations and sensitivity changes re-run the page.
	lists.SetOnMutate(func() {
		eng.Invalidate()
		loop.InvalidateAll()
	})

	dispatch := control.NewDispatcher(eng, lists, agg, quota, logger, func(enabled bool) {
		if enabled {
			loop.Trigger()
		} else {
			loop.RestoreAll()
		}
	})

	api := server.New(sessions, eng, loop, dispatch, agg, toggles, quota, logger)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		engine:   eng,
		lists:    lists,
		loop:     loop,
		sessions: sessions,
		srv:      srv,
	}, nil
}

// openStore opens the encrypted store, falling back to memory-only when the
// database or key is unusable.
func openStore(dataDir string, logger *zap.Logger) (domain.SettingsStore, domain.CategoryCache) {
	keyProvider := infra.NewFileKeyProvider(dataDir)
	key, err := infra.EnsureKey(keyProvider)
	if err != nil {
		logger.Warn("storage key unavailable, settings will not persist", zap.Error(err))
		mem := infra.NewMemoryStore()
		return mem, mem
	}
	store, err := infra.NewEncryptedStore(dataDir, key)
	if err != nil {
		logger.Warn("encrypted store unavailable, settings will not persist", zap.Error(err))
		mem := infra.NewMemoryStore()
		return mem, mem
	}
	return store, store
}

// Engine exposes the classification engine (for the CLI classify command).
func (d *Daemon) Engine() *engine.Engine { return d.engine }

// Lists exposes the list store.
func (d *Daemon) Lists() *liststore.Store { return d.lists }

// Run serves the HTTP API until ctx is cancelled, then shuts down cleanly.
func (d *Daemon) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", d.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", d.cfg.ListenAddr, err)
	}
	d.logger.Info("daemon started",
		zap.String("addr", d.cfg.ListenAddr),
		zap.String("data_dir", d.cfg.DataDir),
		zap.Bool("enabled", d.engine.Enabled()))

	errCh := make(chan error, 1)
	go func() {
		if err := d.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		d.shutdown()
		return err
	case <-ctx.Done():
		d.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.srv.Shutdown(shutdownCtx); err != nil {
			d.logger.Warn("http shutdown", zap.Error(err))
		}
		d.shutdown()
		return nil
	}
}

func (d *Daemon) shutdown() {
	d.loop.Close()
	if err := d.store.Close(); err != nil {
		d.logger.Warn("store close", zap.Error(err))
	}
}

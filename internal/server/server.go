// Package server exposes the daemon's loopback HTTP API. The browser shim
// posts slot snapshots and page events here and polls decisions back; the
// settings surface drives the control endpoint.
package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/eliteGoblin/edutubed/internal/control"
	"github.com/eliteGoblin/edutubed/internal/domain"
	"github.com/eliteGoblin/edutubed/internal/engine"
	"github.com/eliteGoblin/edutubed/internal/regions"
	"github.com/eliteGoblin/edutubed/internal/stats"
)

const maxBodyBytes = 1 << 20

// Server wires the HTTP routes to the daemon's components.
type Server struct {
	sessions *SessionManager
	engine   *engine.Engine
	loop     Scanner
	dispatch *control.Dispatcher
	stats    *stats.Aggregator
	toggles  *regions.Toggles
	quota    control.QuotaReporter
	logger   *zap.Logger
}

// Scanner schedules classification passes.
type Scanner interface {
	Trigger()
}

// New creates a server. quota may be nil when no oracle is configured.
func New(
	sessions *SessionManager,
	eng *engine.Engine,
	loop Scanner,
	dispatch *control.Dispatcher,
	agg *stats.Aggregator,
	toggles *regions.Toggles,
	quota control.QuotaReporter,
	logger *zap.Logger,
) *Server {
	return &Server{
		sessions: sessions,
		engine:   eng,
		loop:     loop,
		dispatch: dispatch,
		stats:    agg,
		toggles:  toggles,
		quota:    quota,
		logger:   logger,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Delete("/", s.handleRemoveSession)
			r.Put("/items", s.handlePutItems)
			r.Post("/events", s.handleEvent)
			r.Get("/decisions", s.handleDecisions)
		})
		r.Post("/messages", s.handleMessage)
		r.Get("/stats", s.handleStats)
		r.Get("/quota", s.handleQuota)
		r.Get("/regions", s.handleGetRegions)
		r.Put("/regions/{region}", s.handlePutRegion)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"enabled": s.engine.Enabled(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	s.logger.Info("session created", zap.String("session", sess.ID))
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sess.ID})
}

func (s *Server) handleRemoveSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Remove(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

type putItemsRequest struct {
	Slots []struct {
		SlotID string         `json:"slot_id"`
		Item   domain.RawItem `json:"item"`
	} `json:"slots"`
	Removed []string `json:"removed,omitempty"`
}

func (s *Server) handlePutItems(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	var req putItemsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, sl := range req.Slots {
		if sl.SlotID == "" {
			continue
		}
		sess.upsert(sl.SlotID, sl.Item)
	}
	if len(req.Removed) > 0 {
		sess.drop(req.Removed)
	}
	s.loop.Trigger()
	w.WriteHeader(http.StatusAccepted)
}

type eventRequest struct {
	Type string `json:"type"` // "mutation" or "navigation"
	URL  string `json:"url,omitempty"`
}

type eventResponse struct {
	Redirect string `json:"redirect,omitempty"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.sessions.Get(chi.URLParam(r, "sessionID")); !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	var req eventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var resp eventResponse
	switch req.Type {
	case "mutation":
		s.loop.Trigger()
	case "navigation":
		// Shorts navigation is redirected to the regular watch page when
		// the shorts region is decluttered.
		if s.toggles.Hidden(regions.RegionShorts) {
			if target, ok := regions.RewriteShortsURL(req.URL); ok {
				resp.Redirect = target
			}
		}
		s.loop.Trigger()
	default:
		writeError(w, http.StatusBadRequest, "unknown event type")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"enabled":        s.engine.Enabled(),
		"decisions":      sess.decisions(),
		"region_classes": s.toggles.ActiveClasses(),
	})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return
	}
	msg, err := control.Decode(body)
	if err != nil {
		writeJSON(w, http.StatusOK, control.Ack{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.dispatch.Handle(msg))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) handleQuota(w http.ResponseWriter, r *http.Request) {
	if s.quota == nil {
		writeError(w, http.StatusNotFound, "category lookup not configured")
		return
	}
	writeJSON(w, http.StatusOK, s.quota.Quota())
}

func (s *Server) handleGetRegions(w http.ResponseWriter, r *http.Request) {
	state := make(map[regions.Region]bool, len(regions.All))
	for _, reg := range regions.All {
		state[reg] = s.toggles.Hidden(reg)
	}
	writeJSON(w, http.StatusOK, state)
}

type putRegionRequest struct {
	Hidden bool `json:"hidden"`
}

func (s *Server) handlePutRegion(w http.ResponseWriter, r *http.Request) {
	var req putRegionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.toggles.Set(regions.Region(chi.URLParam(r, "region")), req.Hidden)
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"darkmode-scheduler/internal/domain"
	"darkmode-scheduler/internal/logging"
	"darkmode-scheduler/internal/usecase"
)

// Server is a primary adapter that exposes a JSON control API.
// It depends on the use case (primary port).
type Server struct {
	usecase usecase.SchedulerUseCase
	server  *http.Server
}

// NewServer creates the HTTP server bound to addr. When gatherer is non-nil
// its metrics are served on /metrics.
func NewServer(uc usecase.SchedulerUseCase, addr string, gatherer prometheus.Gatherer) *Server {
	srv := &Server{usecase: uc}
	srv.server = &http.Server{
		Addr:              addr,
		Handler:           loggingMiddleware(srv.routes(gatherer)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}

func (s *Server) routes(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/refresh", s.handleRefresh)
	mux.HandleFunc("/api/override", s.handleOverride)
	mux.HandleFunc("/api/theme", s.handleTheme)
	mux.HandleFunc("/api/toggle", s.handleToggle)
	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	respondJSON(w, http.StatusOK, snapshotToView(s.usecase.Snapshot()))
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, snapshotToView(s.usecase.Snapshot()))
	case http.MethodPut:
		var req updatePayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		config := s.usecase.Snapshot().Config
		if req.Enabled != nil {
			config.Enabled = *req.Enabled
		}
		if req.LightStart != nil {
			start, err := domain.ParseTimeOfDay(*req.LightStart)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			config.LightStart = start
		}
		if req.LightEnd != nil {
			end, err := domain.ParseTimeOfDay(*req.LightEnd)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			config.LightEnd = end
		}

		if err := s.usecase.UpdateConfig(config); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, snapshotToView(s.usecase.Snapshot()))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.usecase.Refresh()
	respondJSON(w, http.StatusOK, snapshotToView(s.usecase.Snapshot()))
}

func (s *Server) handleOverride(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.usecase.NotifyManualOverride(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, snapshotToView(s.usecase.Snapshot()))
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req themePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Light == nil {
		http.Error(w, `body must be {"light": true|false}`, http.StatusBadRequest)
		return
	}
	if err := s.usecase.SetTheme(*req.Light); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, snapshotToView(s.usecase.Snapshot()))
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	isLight, err := s.usecase.ToggleTheme()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	view := snapshotToView(s.usecase.Snapshot())
	view["light"] = isLight
	respondJSON(w, http.StatusOK, view)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrThemeUnreadable):
		return http.StatusNotImplemented
	case errors.Is(err, domain.ErrDisposed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func snapshotToView(snap domain.Snapshot) map[string]any {
	cfg := map[string]any{
		"enabled":    snap.Config.Enabled,
		"lightStart": snap.Config.LightStart.String(),
		"lightEnd":   snap.Config.LightEnd.String(),
	}

	override := map[string]any{
		"skipNextTransition": snap.Override.SkipNextTransition,
	}
	if snap.Override.LastManualToggle != nil {
		override["lastManualToggle"] = snap.Override.LastManualToggle.Format(time.RFC3339)
	}

	return map[string]any{
		"config":        cfg,
		"override":      override,
		"shouldBeLight": snap.ShouldBeLight,
		"running":       !snap.Disposed,
	}
}

type updatePayload struct {
	Enabled    *bool   `json:"enabled"`
	LightStart *string `json:"lightStart"`
	LightEnd   *string `json:"lightEnd"`
}

type themePayload struct {
	Light *bool `json:"light"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Errorf("encode JSON: %v", err)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Debugf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// Package api exposes run results over REST and streams them to websocket
// subscribers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/ampyfin/vald/internal/contracts"
	"github.com/ampyfin/vald/internal/strategies"
	"github.com/ampyfin/vald/pkg/logger"
)

// RunTrigger starts an on-demand pipeline run.
type RunTrigger func(ctx context.Context) (*contracts.RunResult, error)

// Server serves the HTTP API. It caches the most recent run in memory so
// reads never touch the pipeline or the database.
type Server struct {
	log      *logger.Logger
	registry *strategies.Registry
	trigger  RunTrigger
	hub      *Hub

	mu     sync.RWMutex
	latest *contracts.RunResult

	httpServer *http.Server
}

// NewServer builds the API server. hub may be nil when broadcasting is
// disabled.
func NewServer(log *logger.Logger, reg *strategies.Registry, trigger RunTrigger, hub *Hub, addr string) *Server {
	s := &Server{
		log:      log,
		registry: reg,
		trigger:  trigger,
		hub:      hub,
	}

	r := mux.NewRouter()
	r.Use(s.loggingMiddleware, s.recoveryMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/results/latest", s.handleLatest).Methods(http.MethodGet)
	r.HandleFunc("/api/strategies", s.handleStrategies).Methods(http.MethodGet)
	r.HandleFunc("/api/run", s.handleRun).Methods(http.MethodPost)
	if hub != nil {
		r.HandleFunc("/ws", hub.HandleWS)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Publish caches a completed run and broadcasts it to websocket clients.
func (s *Server) Publish(result *contracts.RunResult) {
	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.Broadcast(result)
	}
}

// Start serves until ctx is cancelled, then drains with a short grace period.
func (s *Server) Start(ctx context.Context) error {
	if s.hub != nil {
		go s.hub.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("api listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no run available yet"})
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

func (s *Server) handleStrategies(w http.ResponseWriter, _ *http.Request) {
	enabled := make(map[string]bool)
	for _, name := range s.registry.Enabled() {
		enabled[name] = true
	}

	type entry struct {
		Name            string   `json:"name"`
		Enabled         bool     `json:"enabled"`
		RequiredMetrics []string `json:"required_metrics"`
	}
	var out []entry
	for _, name := range s.registry.ListAll() {
		required, _ := s.registry.RequiredMetrics(name)
		out = append(out, entry{Name: name, Enabled: enabled[name], RequiredMetrics: required})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	result, err := s.trigger(r.Context())
	if err != nil {
		s.log.WithError(err).Error("on-demand run failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.Publish(result)
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

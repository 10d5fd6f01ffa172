// Package health exposes liveness and prometheus metrics over HTTP.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Check probes one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

// Server provides /health and /metrics endpoints.
type Server struct {
	server *http.Server

	mu     sync.RWMutex
	checks map[string]Check
}

// NewServer creates a health server listening on port.
func NewServer(port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		checks: make(map[string]Check),
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// RegisterCheck adds a named dependency probe.
func (s *Server) RegisterCheck(name string, check Check) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s.mu.RLock()
	checks := make(map[string]Check, len(s.checks))
	for name, check := range s.checks {
		checks[name] = check
	}
	s.mu.RUnlock()

	status := "healthy"
	details := make(map[string]string, len(checks))
	for name, check := range checks {
		if err := check(ctx); err != nil {
			status = "degraded"
			details[name] = err.Error()
		} else {
			details[name] = "ok"
		}
	}

	response := map[string]any{
		"status": status,
		"checks": details,
	}

	w.Header().Set("Content-Type", "application/json")
	if status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(response)
}

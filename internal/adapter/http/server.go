// Package http exposes the service's operational endpoints plus a small
// API for triggering an analysis run and reading the latest summary.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/junctionworks/traffic-survey-service/internal/adapter/csvfile"
	"github.com/junctionworks/traffic-survey-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SurveyService is the pipeline surface the HTTP layer needs.
type SurveyService interface {
	CheckReadiness(ctx context.Context) error
	LatestSummary() (domain.Summary, bool)
	AnalyzeDate(ctx context.Context, day, month, year int) (domain.Summary, error)
}

// Server exposes health, readiness, metrics, and survey API endpoints.
type Server struct {
	httpServer *http.Server
	svc        SurveyService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with operational and API routes.
func NewServer(addr string, svc SurveyService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/v1/summary", s.handleSummary)
	mux.HandleFunc("POST /api/v1/analyze", s.handleAnalyze)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.svc.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	summary, ok := s.svc.LatestSummary()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no survey analyzed yet",
		})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleAnalyze triggers an analysis run for the date in the DDMMYYYY
// query parameter.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	day, month, year, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	summary, err := s.svc.AnalyzeDate(r.Context(), day, month, year)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, csvfile.ErrInvalidDate):
			status = http.StatusBadRequest
		case errors.Is(err, csvfile.ErrNoMatch):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrNoVehicles):
			status = http.StatusUnprocessableEntity
		}
		if status == http.StatusInternalServerError {
			s.logger.Error("analyze request failed", "error", err)
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// parseDateParam splits a DDMMYYYY token into its parts. Range and
// existence checks happen later in date validation.
func parseDateParam(s string) (day, month, year int, err error) {
	if len(s) != 8 {
		return 0, 0, 0, fmt.Errorf("date must be DDMMYYYY, got %q", s)
	}
	if _, err := fmt.Sscanf(s, "%2d%2d%4d", &day, &month, &year); err != nil {
		return 0, 0, 0, fmt.Errorf("date must be DDMMYYYY, got %q", s)
	}
	return day, month, year, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

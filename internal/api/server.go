// Package api exposes the HTTP interface for the extraction service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jam5991/brandlens/internal/brand"
	"github.com/jam5991/brandlens/internal/config"
	"github.com/jam5991/brandlens/internal/metrics"
)

// Extractor runs one full brand-profile extraction.
type Extractor interface {
	ExtractBrandProfile(ctx context.Context, url string) (brand.BrandProfile, []brand.AttemptRecord, error)
}

// Server wires HTTP handlers to the extraction pipeline.
type Server struct {
	router    chi.Router
	extractor Extractor
	idGen     brand.IDGenerator
	clock     brand.Clock
	logger    *zap.Logger
	cfg       config.Config
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	extractor Extractor,
	idGen brand.IDGenerator,
	clock brand.Clock,
	logger *zap.Logger,
	cfg config.Config,
) *Server {
	s := &Server{
		extractor: extractor,
		idGen:     idGen,
		clock:     clock,
		logger:    logger,
		cfg:       cfg,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware(idGen))
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(timeoutMiddleware(2 * time.Minute))
	if cfg.Auth.Enabled {
		r.Use(apiKeyMiddleware(cfg.Auth.APIKey))
	}

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/extract", s.extract)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type extractRequest struct {
	URL string `json:"url"`
}

type extractResponse struct {
	RequestID   string             `json:"request_id"`
	URL         string             `json:"url"`
	Profile     brand.BrandProfile `json:"profile"`
	Attempts    []attemptDTO       `json:"attempts,omitempty"`
	ExtractedAt time.Time          `json:"extracted_at"`
	DurationMs  int64              `json:"duration_ms"`
}

type attemptDTO struct {
	Stage     string `json:"stage"`
	Provider  string `json:"provider"`
	Attempt   int    `json:"attempt"`
	Outcome   string `json:"outcome"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	target, err := validateTarget(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := s.clock.Now()
	profile, attempts, err := s.extractor.ExtractBrandProfile(r.Context(), target)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			status = http.StatusGatewayTimeout
		case !brand.IsFetchError(err):
			status = http.StatusInternalServerError
		}
		s.logger.Warn("extraction failed",
			zap.String("url", target), zap.Error(err))
		writeError(w, status, err.Error())
		return
	}

	resp := extractResponse{
		RequestID:   requestIDFromContext(r.Context()),
		URL:         target,
		Profile:     profile,
		Attempts:    toAttemptDTOs(attempts),
		ExtractedAt: s.clock.Now(),
		DurationMs:  s.clock.Now().Sub(start).Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func validateTarget(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("url required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.New("url is not parseable")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.New("url must be absolute http or https")
	}
	if u.Host == "" {
		return "", errors.New("url must include a host")
	}
	return u.String(), nil
}

func toAttemptDTOs(records []brand.AttemptRecord) []attemptDTO {
	if len(records) == 0 {
		return nil
	}
	out := make([]attemptDTO, len(records))
	for i, rec := range records {
		out[i] = attemptDTO{
			Stage:     rec.Stage,
			Provider:  rec.Provider,
			Attempt:   rec.Attempt,
			Outcome:   string(rec.Outcome),
			LatencyMs: rec.Latency.Milliseconds(),
			Error:     rec.ErrorReason,
		}
	}
	return out
}

type requestIDKey struct{}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

func requestIDMiddleware(idGen brand.IDGenerator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID, err := idGen.NewID()
			if err != nil {
				writeError(w, http.StatusInternalServerError, "id generation failed")
				return
			}
			ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
			w.Header().Set("X-Request-ID", reqID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			duration := time.Since(start)
			metrics.ObserveHTTPRequest(r.Method, r.URL.Path, ww.status, duration)
			logger.Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Int64("duration_ms", duration.Milliseconds()),
			)
		})
	}
}

func recoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", zap.Any("panic", rec))
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

func apiKeyMiddleware(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				key = r.URL.Query().Get("api_key")
			}
			if key != expected {
				writeError(w, http.StatusForbidden, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

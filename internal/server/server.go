// Package server provides the HTTP REST API for the resume analyzer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/profiles"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
)

const healthMessage = "Resume Analysis API is running"

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       *profiles.Store
	analyzer    *analysis.Analyzer
	metrics     *observability.Metrics
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
	corsOrigin  string
	maxUpload   int64
}

// Options holds the server's collaborators. Config, Store and Analyzer are required.
type Options struct {
	Config      *config.Config
	Store       *profiles.Store
	Analyzer    *analysis.Analyzer
	Metrics     *observability.Metrics
	RateLimiter *ratelimit.Limiter
	Logger      *zap.Logger
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	if opts.Config == nil || opts.Store == nil || opts.Analyzer == nil {
		return nil, errors.New("server: config, store and analyzer are required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RateLimiter == nil {
		opts.RateLimiter = ratelimit.NewLimiter(rateLimitPolicy(opts.Config.RateLimit))
	}

	s := &Server{
		store:       opts.Store,
		analyzer:    opts.Analyzer,
		metrics:     opts.Metrics,
		rateLimiter: opts.RateLimiter,
		logger:      opts.Logger,
		corsOrigin:  opts.Config.Server.CORSOrigin,
		maxUpload:   opts.Config.MaxUploadBytes(),
	}

	// Setup router
	mux := http.NewServeMux()
	s.route(mux, routeHealth, http.HandlerFunc(s.handleHealth))

	// Job profile endpoints
	s.route(mux, routeListProfiles, http.HandlerFunc(s.handleListJobProfiles))
	s.route(mux, routeCreateProfile, http.HandlerFunc(s.handleCreateJobProfile))
	s.route(mux, routeGetProfile, http.HandlerFunc(s.handleGetJobProfile))
	s.route(mux, routeDeleteProfile, http.HandlerFunc(s.handleDeleteJobProfile))

	s.route(mux, routeAnalyze, http.HandlerFunc(s.handleAnalyzeResume))

	s.route(mux, routeMetrics, s.metrics.Handler())

	s.handler = s.withRequestID(s.withLogging(s.withCORS(mux)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Config.Server.Port),
		Handler:      s.handler,
		ReadTimeout:  opts.Config.Server.ReadTimeout,
		WriteTimeout: opts.Config.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// route registers a handler behind the rate limiter for its pattern.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, s.withRateLimit(h))
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	// Stop rate limiter cleanup goroutine
	s.rateLimiter.Stop()

	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "healthy", "message": healthMessage})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failWith maps err to a status and writes it. Server errors are logged and
// not echoed to the client.
func (s *Server) failWith(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.requestLogger(r).Error("request failed", zap.Error(err))
		s.errorResponse(w, status, "An error occurred while processing the request")
		return
	}
	s.errorResponse(w, status, err.Error())
}

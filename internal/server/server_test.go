package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/narrative"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/profiles"
	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
)

const cannedNarrative = `{"resume_description": "A short resume.", "general_thoughts": "Solid.",
	"summary": "Python developer.", "education": [], "recommendations": ["Add a degree"]}`

type testServer struct {
	*Server
	store   *profiles.Store
	metrics *observability.Metrics
}

type testOption func(cfg *config.Config, opts *Options)

func withLimiter(l *ratelimit.Limiter) testOption {
	return func(_ *config.Config, opts *Options) {
		opts.RateLimiter = l
	}
}

func withLogger(l *zap.Logger) testOption {
	return func(_ *config.Config, opts *Options) {
		opts.Logger = l
	}
}

func withMaxUploadMB(mb int) testOption {
	return func(cfg *config.Config, _ *Options) {
		cfg.Server.MaxUploadMB = mb
	}
}

// newTestServer wires a server over an in-memory store and a canned narrative generator.
func newTestServer(t *testing.T, opts ...testOption) *testServer {
	t.Helper()

	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	cfg.RateLimit.Enabled = false

	store := profiles.NewStore(profiles.NewMemoryRepository())
	require.NoError(t, store.Seed(context.Background()))

	scorer, err := scoring.NewScorer(nil, scoring.DefaultWeights)
	require.NoError(t, err)

	metrics := observability.NewMetrics()
	analyzer, err := analysis.New(analysis.Options{
		Scorer:        scorer,
		Profiles:      store,
		Narrator:      narrative.NewNarrator(&narrative.StaticGenerator{Response: cannedNarrative}, narrative.Config{}, nil),
		MaxConcurrent: 2,
		Metrics:       metrics,
	})
	require.NoError(t, err)

	o := Options{Config: cfg, Store: store, Analyzer: analyzer, Metrics: metrics}
	for _, opt := range opts {
		opt(cfg, &o)
	}

	s, err := New(o)
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)

	return &testServer{Server: s, store: store, metrics: metrics}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	msg, _ := resp["error"].(string)
	return msg
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, healthMessage, resp["message"])
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(httptest.NewRequest(http.MethodPut, "/api/job-profiles", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodOptions, "/api/analyze-resume", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = s.do(req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	s.do(httptest.NewRequest(http.MethodGet, "/api/job-profiles/software_engineer", nil))
	s.do(httptest.NewRequest(http.MethodGet, "/api/job-profiles/data_scientist", nil))

	w := s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/job-profiles/{id}",status_code="200"} 2`)
	assert.NotContains(t, body, "software_engineer")
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.Policy{
		Enabled: true,
		Default: ratelimit.Rule{Limit: 1000, Window: time.Minute},
		Routes: map[string]ratelimit.Rule{
			routeCreateProfile: {Limit: 1, Window: time.Hour},
			routeHealth:        {},
		},
	})
	s := newTestServer(t, withLimiter(limiter))

	first := s.do(newJSONRequest(t, http.MethodPost, "/api/job-profiles", map[string]any{"name": "One"}))
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := s.do(newJSONRequest(t, http.MethodPost, "/api/job-profiles", map[string]any{"name": "Two"}))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "3600", second.Header().Get("Retry-After"))
	assert.Contains(t, decodeError(t, second), "Rate limit exceeded")

	list := s.do(httptest.NewRequest(http.MethodGet, "/api/job-profiles", nil))
	assert.Equal(t, http.StatusOK, list.Code)
	assert.Equal(t, "1000", list.Header().Get("X-RateLimit-Limit"))

	for i := 0; i < 5; i++ {
		w := s.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimit_DeleteSharesRouteBudget(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.Policy{
		Enabled: true,
		Default: ratelimit.Rule{Limit: 1000, Window: time.Minute},
		Routes:  map[string]ratelimit.Rule{routeDeleteProfile: {Limit: 2, Window: time.Hour}},
	})
	s := newTestServer(t, withLimiter(limiter))

	for _, id := range []string{"a", "b"} {
		w := s.do(httptest.NewRequest(http.MethodDelete, "/api/job-profiles/"+id, nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	w := s.do(httptest.NewRequest(http.MethodDelete, "/api/job-profiles/c", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Unmatched routes never reach the limiter
	w = s.do(httptest.NewRequest(http.MethodDelete, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimit_Blacklist(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.Policy{
		Enabled: true,
		Default: ratelimit.Rule{Limit: 1000, Window: time.Minute},
		Deny:    ratelimit.ClientSet([]string{"192.0.2.1"}),
	})
	s := newTestServer(t, withLimiter(limiter))

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/job-profiles", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Empty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitPolicy(t *testing.T) {
	assert.False(t, rateLimitPolicy(config.RateLimitConfig{Enabled: false}).Enabled)

	p := rateLimitPolicy(config.RateLimitConfig{
		Enabled:        true,
		DefaultLimit:   500,
		DefaultWindow:  time.Minute,
		AnalyzePerHour: 5,
		Whitelist:      []string{"127.0.0.1"},
		Blacklist:      []string{"10.0.0.9"},
	})

	assert.True(t, p.Enabled)
	assert.Equal(t, ratelimit.Rule{Limit: 500, Window: time.Minute}, p.Default)
	assert.Equal(t, ratelimit.Rule{Limit: 5, Window: time.Hour, Burst: 5}, p.Routes[routeAnalyze])
	assert.Equal(t, 100, p.Routes[routeDeleteProfile].Limit)
	assert.True(t, p.Routes[routeHealth].Unlimited())
	assert.True(t, p.Routes[routeMetrics].Unlimited())
	_, limited := p.Routes[routeGetProfile]
	assert.False(t, limited)
	assert.True(t, p.Allow["127.0.0.1"])
	assert.True(t, p.Deny["10.0.0.9"])

	p = rateLimitPolicy(config.RateLimitConfig{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Second})
	assert.Equal(t, ratelimit.Rule{Limit: 60, Window: time.Hour, Burst: 10}, p.Routes[routeAnalyze])
}

func TestRequestLogIncludesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := newTestServer(t, withLogger(zap.New(core)))

	req := httptest.NewRequest(http.MethodGet, "/api/job-profiles/software_engineer", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	s.do(req)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields[logger.FieldRequestID])
	assert.Equal(t, "/api/job-profiles/{id}", fields["route"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
}

func TestRouteLabel(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	assert.Equal(t, "unmatched", routeLabel(r))

	r.Pattern = "DELETE /api/job-profiles/{id}"
	assert.Equal(t, "/api/job-profiles/{id}", routeLabel(r))

	r.Pattern = "/metrics"
	assert.Equal(t, "/metrics", routeLabel(r))
}

func TestStartStopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	s.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

package server

import (
	"time"

	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
)

// Route patterns. Rate limit rules and metric labels are keyed by them.
const (
	routeHealth        = "GET /api/health"
	routeListProfiles  = "GET /api/job-profiles"
	routeCreateProfile = "POST /api/job-profiles"
	routeGetProfile    = "GET /api/job-profiles/{id}"
	routeDeleteProfile = "DELETE /api/job-profiles/{id}"
	routeAnalyze       = "POST /api/analyze-resume"
	routeMetrics       = "GET /metrics"
)

const defaultAnalyzePerHour = 60

// rateLimitPolicy builds the per-route tiers. Routes without a rule, such as
// the profile reads, use the configured default.
func rateLimitPolicy(cfg config.RateLimitConfig) ratelimit.Policy {
	if !cfg.Enabled {
		return ratelimit.Policy{}
	}

	analyze := cfg.AnalyzePerHour
	if analyze <= 0 {
		analyze = defaultAnalyzePerHour
	}
	writes := ratelimit.Rule{Limit: 100, Window: time.Minute, Burst: 10}

	return ratelimit.Policy{
		Enabled: true,
		Default: ratelimit.Rule{Limit: cfg.DefaultLimit, Window: cfg.DefaultWindow},
		Routes: map[string]ratelimit.Rule{
			routeAnalyze:       {Limit: analyze, Window: time.Hour, Burst: min(10, analyze)},
			routeCreateProfile: writes,
			routeDeleteProfile: writes,
			routeHealth:        {},
			routeMetrics:       {},
		},
		Allow:         ratelimit.ClientSet(cfg.Whitelist),
		Deny:          ratelimit.ClientSet(cfg.Blacklist),
		SweepInterval: 5 * time.Minute,
		IdleTTL:       time.Hour,
	}
}

package ratelimit

import (
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Rule bounds one client's requests on one route. A zero Limit means unlimited.
type Rule struct {
	Limit  int
	Window time.Duration
	Burst  int // defaults to Limit
}

// Unlimited reports whether the rule never rejects.
func (r Rule) Unlimited() bool {
	return r.Limit <= 0
}

func (r Rule) every() rate.Limit {
	window := r.Window
	if window <= 0 {
		window = time.Minute
	}
	return rate.Limit(float64(r.Limit) / window.Seconds())
}

func (r Rule) burst() int {
	if r.Burst > 0 {
		return r.Burst
	}
	return r.Limit
}

// Policy maps route patterns to rules. Routes without an entry use Default.
type Policy struct {
	Enabled bool
	Default Rule
	Routes  map[string]Rule

	// Allow bypasses limiting; Deny rejects every request. Keyed by client address.
	Allow map[string]bool
	Deny  map[string]bool

	// Buckets idle longer than IdleTTL are dropped every SweepInterval.
	SweepInterval time.Duration
	IdleTTL       time.Duration
}

func (p Policy) rule(route string) Rule {
	if r, ok := p.Routes[route]; ok {
		return r
	}
	return p.Default
}

// ClientSet converts a list of client addresses into a lookup set.
func ClientSet(addrs []string) map[string]bool {
	set := make(map[string]bool, len(addrs))
	for _, addr := range addrs {
		if addr = strings.TrimSpace(addr); addr != "" {
			set[addr] = true
		}
	}
	return set
}

// Package ratelimit limits requests per client and route with token buckets.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Decision is the outcome of one Allow call. Limit is zero when the request
// was not subject to a rule.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      time.Time // when the bucket is full again
	RetryAfter time.Duration
}

type bucketKey struct {
	client string
	route  string
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter holds one token bucket per client and route. It is safe for concurrent use.
type Limiter struct {
	policy  Policy
	now     func() time.Time
	mu      sync.Mutex
	buckets map[bucketKey]*bucket

	done     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a Limiter and, for an enabled policy with a sweep
// interval, starts dropping idle buckets in the background. Call Stop to end it.
func NewLimiter(p Policy) *Limiter {
	if p.IdleTTL <= 0 {
		p.IdleTTL = time.Hour
	}
	l := &Limiter{
		policy:  p,
		now:     time.Now,
		buckets: make(map[bucketKey]*bucket),
		done:    make(chan struct{}),
	}
	if p.Enabled && p.SweepInterval > 0 {
		go l.sweepLoop(p.SweepInterval)
	}
	return l
}

// Allow takes a token from the client's bucket for route.
func (l *Limiter) Allow(client, route string) Decision {
	if !l.policy.Enabled || l.policy.Allow[client] {
		return Decision{Allowed: true}
	}
	if l.policy.Deny[client] {
		return Decision{}
	}

	rule := l.policy.rule(route)
	if rule.Unlimited() {
		return Decision{Allowed: true}
	}

	now := l.now()
	lim := l.bucket(bucketKey{client: client, route: route}, rule, now)

	d := Decision{Limit: rule.Limit, Allowed: lim.AllowN(now, 1)}
	tokens := max(lim.TokensAt(now), 0)
	perSecond := float64(lim.Limit())
	d.Remaining = int(tokens)
	d.Reset = now.Add(seconds((float64(lim.Burst()) - tokens) / perSecond))
	if !d.Allowed {
		d.RetryAfter = seconds((1 - tokens) / perSecond)
	}
	return d
}

func (l *Limiter) bucket(key bucketKey, rule Rule, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rule.every(), rule.burst())}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

func (l *Limiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.done:
			return
		}
	}
}

func (l *Limiter) sweep() {
	cutoff := l.now().Add(-l.policy.IdleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop ends the background sweep. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

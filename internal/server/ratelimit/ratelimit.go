// Package ratelimit provides per-client request throttling using token buckets.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// bucket holds the tokens of one client on one endpoint rule.
type bucket struct {
	mu       sync.Mutex
	lim      *rate.Limiter
	lastSeen time.Time
}

func newBucket(capacity int, refillRate float64, now time.Time) *bucket {
	return &bucket{
		lim:      rate.NewLimiter(rate.Limit(refillRate), capacity),
		lastSeen: now,
	}
}

// take consumes one token at now if available. It reports whether the
// token was taken, the whole tokens left and when the bucket will be full
// again.
func (b *bucket) take(now time.Time) (ok bool, remaining int, full time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastSeen = now

	ok = b.lim.AllowN(now, 1)
	tokens := b.lim.TokensAt(now)

	full = now
	if missing := float64(b.lim.Burst()) - tokens; missing > 0 && b.lim.Limit() > 0 {
		full = now.Add(time.Duration(missing / float64(b.lim.Limit()) * float64(time.Second)))
	}
	return ok, max(int(tokens), 0), full
}

// idleSince reports whether the bucket was untouched after cutoff.
func (b *bucket) idleSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSeen.Before(cutoff)
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultIdleTTL is how long an unused bucket is kept
const DefaultIdleTTL = time.Hour

// Limiter manages rate limiting for multiple clients using token buckets.
type Limiter struct {
	config *Config
	now    Clock

	mu      sync.Mutex
	buckets map[string]*bucket

	stopOnce sync.Once
	stop     chan struct{}
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	return NewLimiterWithClock(config, time.Now)
}

// NewLimiterWithClock creates a limiter that reads time from now.
func NewLimiterWithClock(config *Config, now Clock) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = DefaultIdleTTL
	}

	l := &Limiter{
		config:  config,
		now:     now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
// Requests matching the same rule share a bucket, so /reports/a/export and
// /reports/b/export draw from one allowance.
func (l *Limiter) Allow(clientID string, path string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	rule, key := l.rule(path, method)
	if rule.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.bucketFor(clientID+"|"+key, rule, now)
	ok, remaining, full := b.take(now)

	info := Info{
		Allowed:   ok,
		Limit:     rule.Limit,
		Remaining: remaining,
		ResetTime: full,
	}
	if !ok {
		info.RetryAfter = max(full.Sub(now), 0)
	}
	return ok, info
}

// rule resolves the endpoint rule and the bucket key it contributes.
func (l *Limiter) rule(path, method string) (EndpointConfig, string) {
	if matched := MatchEndpoint(path, method, l.config.EndpointConfigs); matched != nil {
		return *matched, method + " " + matched.Path
	}
	return EndpointConfig{
		Limit:  l.config.DefaultLimit,
		Window: l.config.DefaultWindow,
		Burst:  l.config.DefaultLimit,
	}, method + " " + path
}

func (l *Limiter) bucketFor(key string, rule EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}

	capacity := rule.Burst
	if capacity <= 0 {
		capacity = rule.Limit
	}
	var refill float64
	if rule.Window > 0 {
		refill = float64(rule.Limit) / rule.Window.Seconds()
	}

	b := newBucket(capacity, refill, now)
	l.buckets[key] = b
	return b
}

// Len returns the number of live buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Sweep drops buckets idle for longer than the configured TTL.
func (l *Limiter) Sweep() {
	cutoff := l.now().Add(-l.config.IdleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.idleSince(cutoff) {
			delete(l.buckets, key)
		}
	}
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.stop:
			return
		}
	}
}

// Stop stops the cleanup goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

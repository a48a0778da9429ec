// Package ratelimit implements per-client sliding-window admission control.
// The bucket map is the only process-wide mutable state in the service; it is
// owned by a single Limiter constructed at startup and all access goes
// through IsRateLimited under one mutex.
package ratelimit

import (
	"sync"
	"time"

	"safescan/internal/config"
)

// Options configure the sliding window.
type Options struct {
	// Window is the sliding window length.
	Window time.Duration
	// MaxRequests is the per-client budget within one window.
	MaxRequests int
	// CleanupInterval is how often the full map sweep runs.
	CleanupInterval time.Duration
	// MaxClients caps the number of tracked identifiers. When the cap is
	// reached, unseen identifiers are rejected outright so spoofed headers
	// cannot grow the map without bound.
	MaxClients int
}

// NewOptions builds Options from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Window:          cfg.RateLimit.Window,
		MaxRequests:     cfg.RateLimit.MaxRequests,
		CleanupInterval: cfg.RateLimit.CleanupInterval,
		MaxClients:      cfg.RateLimit.MaxClients,
	}
}

// Limiter tracks request timestamps per client identifier.
type Limiter struct {
	opts Options

	mu          sync.Mutex
	buckets     map[string][]time.Time
	lastCleanup time.Time

	// now is the clock; replaceable in tests.
	now func() time.Time
}

// New constructs a Limiter. The limiter has no teardown: buckets expire via
// the sliding window and periodic sweeps.
func New(opts Options) *Limiter {
	return &Limiter{
		opts:    opts,
		buckets: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// IsRateLimited records a request attempt for id and reports whether it must
// be rejected. The sweep, the lookup and the append happen under one lock so
// concurrent requests cannot interleave on the same bucket.
func (l *Limiter) IsRateLimited(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if now.Sub(l.lastCleanup) >= l.opts.CleanupInterval {
		l.cleanup(now)
		l.lastCleanup = now
	}

	bucket, tracked := l.buckets[id]
	if !tracked && len(l.buckets) >= l.opts.MaxClients {
		return true
	}

	bucket = pruneOld(bucket, now.Add(-l.opts.Window))
	bucket = append(bucket, now)
	l.buckets[id] = bucket

	return len(bucket) > l.opts.MaxRequests
}

// cleanup drops expired timestamps for every tracked id and removes ids left
// empty, bounding the sweep to active clients rather than historical ones.
func (l *Limiter) cleanup(now time.Time) {
	cutoff := now.Add(-l.opts.Window)
	for id, bucket := range l.buckets {
		pruned := pruneOld(bucket, cutoff)
		if len(pruned) == 0 {
			delete(l.buckets, id)

			continue
		}
		l.buckets[id] = pruned
	}
}

// pruneOld removes timestamps at or before cutoff. Timestamps are appended in
// order, so a single scan for the first fresh entry suffices.
func pruneOld(bucket []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(bucket) && !bucket[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return bucket
	}

	return append(bucket[:0], bucket[i:]...)
}

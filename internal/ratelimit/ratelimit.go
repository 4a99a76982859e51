// Package ratelimit implements a small in-memory sliding-window rate
// limiter keyed by client identifier (usually IP). It protects the parse
// endpoint, which fronts a metered external API. Single-node by design;
// entries reset on restart, which is acceptable for basic protection.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultWindow is the rate limit window length.
	DefaultWindow = time.Minute

	// DefaultMaxRequests is the request budget per window per identifier.
	DefaultMaxRequests = 10

	// cleanupThreshold triggers expired-entry cleanup when the map grows
	// past this many identifiers.
	cleanupThreshold = 1000
)

type entry struct {
	count     int
	resetTime time.Time
}

// Limiter tracks request counts per identifier over a fixed window.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	window  time.Duration
	max     int
	now     func() time.Time
}

// Result reports a single rate limit decision.
type Result struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// New creates a limiter with the default window and budget.
func New() *Limiter {
	return NewWithConfig(DefaultWindow, DefaultMaxRequests)
}

// NewWithConfig creates a limiter with an explicit window and budget.
func NewWithConfig(window time.Duration, max int) *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		window:  window,
		max:     max,
		now:     time.Now,
	}
}

// Check records a request for identifier and reports whether it is
// within budget.
func (l *Limiter) Check(identifier string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.entries) > cleanupThreshold {
		l.cleanup(now)
	}

	e, ok := l.entries[identifier]
	if !ok || now.After(e.resetTime) {
		l.entries[identifier] = &entry{count: 1, resetTime: now.Add(l.window)}
		return Result{Allowed: true, Remaining: l.max - 1, ResetIn: l.window}
	}

	if e.count >= l.max {
		return Result{Allowed: false, Remaining: 0, ResetIn: e.resetTime.Sub(now)}
	}

	e.count++
	return Result{Allowed: true, Remaining: l.max - e.count, ResetIn: e.resetTime.Sub(now)}
}

func (l *Limiter) cleanup(now time.Time) {
	for id, e := range l.entries {
		if now.After(e.resetTime) {
			delete(l.entries, id)
		}
	}
}

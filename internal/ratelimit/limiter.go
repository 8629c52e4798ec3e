// Package ratelimit implements an in-process sliding-window rate limiter.
//
// The limiter is a best-effort throttle in front of the expensive model call: state
// is process-wide, keyed by caller identity, and not shared across processes or
// restarts. Deployments that need cross-process enforcement can swap in an external
// counter behind the same Consume contract.
package ratelimit

import (
	"sync"
	"time"
)

// Decision is the outcome of one Consume call.
type Decision struct {
	Allowed           bool
	Remaining         int
	RetryAfterSeconds int
}

// Limiter retains, per key, the call timestamps inside the current window.
// Safe for concurrent use.
type Limiter struct {
	mu    sync.Mutex
	calls map[string][]time.Time
	now   func() time.Time
}

// New returns a limiter using the wall clock.
func New() *Limiter {
	return NewWithClock(time.Now)
}

// NewWithClock returns a limiter with an injectable clock for tests.
func NewWithClock(now func() time.Time) *Limiter {
	return &Limiter{calls: make(map[string][]time.Time), now: now}
}

// Consume records one call attempt for key under a sliding window of the given size.
// The call is allowed iff strictly fewer than limit calls are retained inside the
// window; on allow the current timestamp is recorded. On deny nothing is recorded
// and RetryAfterSeconds reports the ceiling, in seconds (minimum 1), of the time
// until the oldest retained call exits the window.
func (l *Limiter) Consume(key string, limit int, window time.Duration) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-window)

	retained := l.calls[key][:0]
	for _, ts := range l.calls[key] {
		if ts.After(cutoff) {
			retained = append(retained, ts)
		}
	}

	if len(retained) >= limit {
		l.calls[key] = retained
		wait := retained[0].Add(window).Sub(now)
		secs := int((wait + time.Second - 1) / time.Second)
		if secs < 1 {
			secs = 1
		}
		return Decision{Allowed: false, Remaining: 0, RetryAfterSeconds: secs}
	}

	retained = append(retained, now)
	l.calls[key] = retained
	return Decision{Allowed: true, Remaining: limit - len(retained)}
}

// Reset drops all retained state. Test helper.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = make(map[string][]time.Time)
}

// Package ratelimit implements the fixed-window attempt counter that guards
// admin password checks.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultMaxAttempts   = 5
	DefaultWindow        = 15 * time.Minute
	DefaultSweepInterval = time.Hour
)

// Decision is the outcome of recording one attempt. ResetAt is only set when
// the attempt was blocked.
type Decision struct {
	Allowed bool
	ResetAt time.Time
}

type entry struct {
	attempts int
	resetAt  time.Time
}

// Limiter counts attempts per identifier inside a fixed window. The first
// attempt opens the window; the window is never extended by later attempts.
type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	entries map[string]entry

	Now func() time.Time
}

func New(max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		window:  window,
		max:     max,
		entries: make(map[string]entry),
		Now:     time.Now,
	}
}

func NewDefault() *Limiter {
	return New(DefaultMaxAttempts, DefaultWindow)
}

func (l *Limiter) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

// Check records an attempt for identifier and reports whether it may proceed.
// A blocked attempt is not counted.
func (l *Limiter) Check(identifier string) Decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identifier]
	if !ok || now.After(e.resetAt) {
		l.entries[identifier] = entry{attempts: 1, resetAt: now.Add(l.window)}
		return Decision{Allowed: true}
	}

	if e.attempts >= l.max {
		return Decision{Allowed: false, ResetAt: e.resetAt}
	}

	e.attempts++
	l.entries[identifier] = e
	return Decision{Allowed: true}
}

// Clear forgets identifier, so its next attempt opens a fresh window.
func (l *Limiter) Clear(identifier string) {
	l.mu.Lock()
	delete(l.entries, identifier)
	l.mu.Unlock()
}

// Attempts returns the live attempt count for identifier, zero when absent or expired.
func (l *Limiter) Attempts(identifier string) int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identifier]
	if !ok || now.After(e.resetAt) {
		return 0
	}
	return e.attempts
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Sweep drops expired entries and returns how many were removed. Expired keys
// are collected under the lock and deleted in a second short critical section,
// rechecking each one in case it was renewed in between.
func (l *Limiter) Sweep() int {
	now := l.now()

	l.mu.Lock()
	expired := make([]string, 0)
	for k, e := range l.entries {
		if now.After(e.resetAt) {
			expired = append(expired, k)
		}
	}
	l.mu.Unlock()

	if len(expired) == 0 {
		return 0
	}

	removed := 0
	l.mu.Lock()
	for _, k := range expired {
		if e, ok := l.entries[k]; ok && now.After(e.resetAt) {
			delete(l.entries, k)
			removed++
		}
	}
	l.mu.Unlock()
	return removed
}

// Run sweeps every interval until ctx is done. onSweep, when set, receives the
// number of entries removed by each pass.
func (l *Limiter) Run(ctx context.Context, every time.Duration, onSweep func(removed int)) {
	if every <= 0 {
		every = DefaultSweepInterval
	}

	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n := l.Sweep()
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}

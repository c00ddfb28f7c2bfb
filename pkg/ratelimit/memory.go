package ratelimit

import (
	"context"
	"sync"
	"time"
)

// record tracks one client's count within the current window.
type record struct {
	count     int
	resetTime time.Time
}

// MemoryLimiter is a fixed window limiter backed by a process-local map.
//
// The map grows with the number of distinct clients seen over the process
// lifetime; an expired entry is only replaced when its client returns. State
// is not shared across instances, so this backend is correct only for a
// single-process deployment.
type MemoryLimiter struct {
	config Config

	mu      sync.Mutex
	records map[string]*record

	// now is swappable for tests
	now func() time.Time
}

// NewMemoryLimiter creates an in-memory fixed window limiter.
func NewMemoryLimiter(config Config) *MemoryLimiter {
	return &MemoryLimiter{
		config:  config.withDefaults(),
		records: make(map[string]*record),
		now:     time.Now,
	}
}

// Allow implements Limiter.
//
// A missing or expired record is replaced with count=1 and a fresh window.
// A full record denies without mutation, so the window is not extended by
// rejected traffic.
func (l *MemoryLimiter) Allow(_ context.Context, clientID string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[clientID]
	if !ok || now.After(rec.resetTime) {
		l.records[clientID] = &record{
			count:     1,
			resetTime: now.Add(l.config.Window),
		}
		return true, nil
	}

	if rec.count >= l.config.MaxRequests {
		return false, nil
	}

	rec.count++
	return true, nil
}

// Window returns the fixed window length.
func (l *MemoryLimiter) Window() time.Duration {
	return l.config.Window
}

// Limit returns the per-window quota.
func (l *MemoryLimiter) Limit() int {
	return l.config.MaxRequests
}

// Size returns the number of tracked clients. Primarily for tests and
// diagnostics.
func (l *MemoryLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

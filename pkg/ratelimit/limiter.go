package ratelimit

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultWindow is the length of the fixed rate limit window.
	DefaultWindow = 60 * time.Second

	// DefaultMaxRequests is the number of requests allowed per client per
	// window.
	DefaultMaxRequests = 10
)

// Config configures a fixed window limiter. Zero values fall back to
// defaults.
type Config struct {
	// Window is the fixed window length. Default: 60 seconds.
	Window time.Duration

	// MaxRequests is the quota per client per window. Default: 10.
	MaxRequests int
}

// withDefaults fills in zero fields.
func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.MaxRequests <= 0 {
		c.MaxRequests = DefaultMaxRequests
	}
	return c
}

// Limiter decides whether a client may perform another request right now.
type Limiter interface {
	// Allow records a request attempt for clientID and reports whether it is
	// within the quota. Backend failures return an error; the caller decides
	// whether to fail open or closed.
	Allow(ctx context.Context, clientID string) (bool, error)

	// Window returns the fixed window length, used for Retry-After hints.
	Window() time.Duration

	// Limit returns the per-window quota.
	Limit() int
}

// ClientID derives the rate limit key for a request.
//
// The first entry of X-Forwarded-For wins, then X-Real-IP. Clients that
// arrive with neither share the literal "unknown" bucket, a deliberate
// coarsening for untraceable traffic.
func ClientID(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	return "unknown"
}

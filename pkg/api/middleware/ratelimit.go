package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/griebenowschalk/my-todo-app/pkg/ratelimit"
	"github.com/griebenowschalk/my-todo-app/pkg/telemetry/metrics"
)

// rateLimitMessage is the body returned to throttled clients.
const rateLimitMessage = "Too many requests, please try again later."

// RateLimitMiddleware enforces a per-client request limit before forwarding
// requests.
//
// This middleware:
//   - Derives the client identity from proxy headers (X-Forwarded-For,
//     X-Real-IP)
//   - Consults the configured limiter backend (memory or Redis)
//   - Sets X-RateLimit-Limit and Retry-After headers on denial
//   - Fails open when the backend errors, so a Redis outage degrades to
//     unthrottled service instead of a hard outage
//
// Example:
//
//	limiter := ratelimit.NewMemoryLimiter(ratelimit.Config{})
//	handler := RateLimitMiddleware(limiter, collector)(next)
func RateLimitMiddleware(limiter ratelimit.Limiter, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			clientID := ratelimit.ClientID(r)

			allowed, err := limiter.Allow(ctx, clientID)
			if err != nil {
				slog.ErrorContext(ctx, "rate limit check failed",
					"error", err,
					"client_id", clientID,
					"request_id", GetRequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				if collector != nil {
					collector.RecordRateLimitDenial()
				}
				slog.WarnContext(ctx, "rate limit exceeded",
					"client_id", clientID,
					"request_id", GetRequestID(ctx),
				)

				retryAfter := int(limiter.Window().Seconds())
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": rateLimitMessage,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

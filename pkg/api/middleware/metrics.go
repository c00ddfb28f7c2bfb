package middleware

import (
	"net/http"
	"time"

	"github.com/griebenowschalk/my-todo-app/pkg/telemetry/metrics"
)

// MetricsMiddleware records request counts and latency for every request.
// The matched route pattern is used as the path label so that /todos/1 and
// /todos/2 land in the same series. Unmatched requests are labeled by their
// raw path, which for a fixed route table is only ever "/" style 404s.
func MetricsMiddleware(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if collector == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			path := r.Pattern
			if path == "" {
				path = r.URL.Path
			}
			collector.RecordRequest(r.Method, path, rw.statusCode, time.Since(start))
		})
	}
}

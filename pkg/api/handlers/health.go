package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/griebenowschalk/my-todo-app/pkg/store"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	store     store.Store
	version   string
	startTime time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(st store.Store, version string) *HealthHandler {
	return &HealthHandler{
		store:     st,
		version:   version,
		startTime: time.Now(),
	}
}

// Health handles GET /health. It reports process liveness only and never
// touches the database.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}

// Ready handles GET /ready. It pings the store so load balancers only route
// traffic once the database is reachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

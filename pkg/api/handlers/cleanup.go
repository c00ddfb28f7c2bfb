package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/griebenowschalk/my-todo-app/pkg/cleanup"
	"github.com/griebenowschalk/my-todo-app/pkg/store"
)

// AdminSecretHeader carries the admin secret on stats requests.
const AdminSecretHeader = "X-Admin-Secret"

// CleanupHandler serves the /admin/cleanup endpoints: triggering a full
// cleanup run and reporting cleanup stats. Both require the shared admin
// secret.
type CleanupHandler struct {
	engine *cleanup.Engine
	store  store.Store
	config cleanup.Config
	secret string
}

// NewCleanupHandler creates the admin cleanup handler.
func NewCleanupHandler(engine *cleanup.Engine, st store.Store, config cleanup.Config, secret string) *CleanupHandler {
	return &CleanupHandler{
		engine: engine,
		store:  st,
		config: config,
		secret: secret,
	}
}

// Trigger handles POST /admin/cleanup. The body must carry the admin secret;
// on success all three cleanup phases run and their per-phase counts are
// returned.
func (h *CleanupHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Secret string `json:"secret"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	if !h.authorized(body.Secret) {
		slog.WarnContext(r.Context(), "cleanup trigger rejected", "remote_addr", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	report, err := h.engine.RunFullCleanup(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "manual cleanup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Cleanup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Cleanup completed successfully",
		"results": report,
	})
}

// Stats handles GET /admin/cleanup. It reports the retention configuration,
// the current todo count, and the last recorded cleanup run. It never deletes
// anything; the destructive action stays behind POST.
func (h *CleanupHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r.Header.Get(AdminSecretHeader)) {
		slog.WarnContext(r.Context(), "cleanup stats rejected", "remote_addr", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	count, err := h.store.Count(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to count todos", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	stats := map[string]any{
		"totalTodos":    count,
		"retentionDays": h.config.RetentionDays,
		"maxTodos":      h.config.MaxTodos,
	}

	resp := map[string]any{
		"message": "Cleanup stats retrieved",
		"stats":   stats,
		"lastRun": nil,
	}
	if lastRun, report, ok := h.engine.LastRun(); ok {
		resp["lastRun"] = lastRun.UTC().Format(time.RFC3339)
		stats["lastResults"] = report
	}

	writeJSON(w, http.StatusOK, resp)
}

// authorized compares the presented secret in constant time.
func (h *CleanupHandler) authorized(secret string) bool {
	if h.secret == "" || secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(h.secret)) == 1
}

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/griebenowschalk/my-todo-app/pkg/moderation"
	"github.com/griebenowschalk/my-todo-app/pkg/store"
	"github.com/griebenowschalk/my-todo-app/pkg/telemetry/metrics"
)

// TodoHandler serves the /todos CRUD surface.
type TodoHandler struct {
	store     store.Store
	validator *moderation.Validator
	filter    *moderation.Filter
	collector *metrics.Collector
}

// NewTodoHandler creates a todo handler. collector may be nil.
func NewTodoHandler(st store.Store, validator *moderation.Validator, filter *moderation.Filter, collector *metrics.Collector) *TodoHandler {
	return &TodoHandler{
		store:     st,
		validator: validator,
		filter:    filter,
		collector: collector,
	}
}

// List handles GET /todos. Returns all todos, newest first.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	todos, err := h.store.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list todos", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch todos")
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

// Create handles POST /todos. The body is validated field by field and all
// validation errors are reported together.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		data = nil // treated as malformed by the validator
	}

	result := h.validator.Validate(data)
	if !result.Valid {
		h.recordRejections(result.Errors)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid input",
			Details: result.Errors,
		})
		return
	}

	title := strings.TrimSpace(data["title"].(string))
	description := ""
	if d, ok := data["description"].(string); ok {
		description = strings.TrimSpace(d)
	}

	todo, err := h.store.Create(r.Context(), title, description)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create todo", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create todo")
		return
	}

	slog.InfoContext(r.Context(), "todo created", "todo_id", todo.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Todo created successfully",
		"todo":    todo,
	})
}

// Get handles GET /todos/{id}.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	todo, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Todo not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to fetch todo", "error", err, "todo_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch todos")
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// Update handles PATCH /todos/{id}. Only the fields present in the body are
// changed; present fields go through the same content checks as creation.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid input",
			Details: []string{"Invalid data format"},
		})
		return
	}

	update, errs := h.buildUpdate(data)
	if len(errs) > 0 {
		h.recordRejections(errs)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid input",
			Details: errs,
		})
		return
	}
	if update.Empty() {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "No fields to update",
		})
		return
	}

	todo, err := h.store.Update(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Todo not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to update todo", "error", err, "todo_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update todo")
		return
	}

	slog.InfoContext(r.Context(), "todo updated", "todo_id", id)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Todo updated successfully",
		"todo":    todo,
	})
}

// Delete handles DELETE /todos/{id}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Todo not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to delete todo", "error", err, "todo_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete todo")
		return
	}

	slog.InfoContext(r.Context(), "todo deleted", "todo_id", id)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Todo deleted successfully",
	})
}

// buildUpdate validates the fields present in a PATCH body and assembles a
// partial update. Fields that are absent stay nil; fields that are present
// must pass the same checks as creation.
func (h *TodoHandler) buildUpdate(data map[string]any) (store.TodoUpdate, []string) {
	var update store.TodoUpdate
	var errs []string

	if raw, present := data["title"]; present {
		title, ok := raw.(string)
		if !ok || strings.TrimSpace(title) == "" {
			errs = append(errs, "Title is required and must be a string")
		} else if verdict := h.filter.Classify(title); !verdict.Valid {
			errs = append(errs, "Title: "+verdict.Reason)
		} else {
			trimmed := strings.TrimSpace(title)
			update.Title = &trimmed
		}
	}

	if raw, present := data["description"]; present {
		switch desc := raw.(type) {
		case string:
			if desc != "" {
				if verdict := h.filter.Classify(desc); !verdict.Valid {
					errs = append(errs, "Description: "+verdict.Reason)
					break
				}
			}
			trimmed := strings.TrimSpace(desc)
			update.Description = &trimmed
		default:
			errs = append(errs, "Description: Invalid text")
		}
	}

	if raw, present := data["completed"]; present {
		completed, ok := raw.(bool)
		if !ok {
			errs = append(errs, "Completed must be a boolean")
		} else {
			update.Completed = &completed
		}
	}

	return update, errs
}

// recordRejections attributes validation failures to the offending field.
func (h *TodoHandler) recordRejections(errs []string) {
	if h.collector == nil {
		return
	}
	for _, e := range errs {
		switch {
		case strings.HasPrefix(e, "Title"):
			h.collector.RecordModerationRejection("title")
		case strings.HasPrefix(e, "Description"):
			h.collector.RecordModerationRejection("description")
		case strings.HasPrefix(e, "Completed"):
			h.collector.RecordModerationRejection("completed")
		default:
			h.collector.RecordModerationRejection("body")
		}
	}
}

// todoID parses the {id} path value, writing a 400 response on failure.
func todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "Invalid todo ID")
		return 0, false
	}
	return id, true
}

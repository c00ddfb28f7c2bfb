package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/griebenowschalk/my-todo-app/pkg/store"
)

func TestHealthHandler(t *testing.T) {
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "todos.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	handler := NewHealthHandler(st, "1.2.3")

	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
	if body["version"] != "1.2.3" {
		t.Errorf("Expected version 1.2.3, got %v", body["version"])
	}

	w = httptest.NewRecorder()
	handler.Ready(w, httptest.NewRequest("GET", "/ready", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["status"] != "ready" {
		t.Errorf("Expected status ready, got %v", body["status"])
	}
}

func TestHealthHandler_ReadyAfterStoreClose(t *testing.T) {
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "todos.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	st.Close()

	handler := NewHealthHandler(st, "test")

	w := httptest.NewRecorder()
	handler.Ready(w, httptest.NewRequest("GET", "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 after close, got %d", w.Code)
	}
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/griebenowschalk/my-todo-app/pkg/moderation"
	"github.com/griebenowschalk/my-todo-app/pkg/store"
)

func newTestMux(t *testing.T) (*http.ServeMux, *store.SQLiteStore) {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "todos.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	filter := moderation.NewFilter()
	handler := NewTodoHandler(st, moderation.NewValidator(filter), filter, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /todos", handler.List)
	mux.HandleFunc("POST /todos", handler.Create)
	mux.HandleFunc("GET /todos/{id}", handler.Get)
	mux.HandleFunc("PATCH /todos/{id}", handler.Update)
	mux.HandleFunc("DELETE /todos/{id}", handler.Delete)

	return mux, st
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestTodoHandler_Create(t *testing.T) {
	mux, _ := newTestMux(t)

	w := doRequest(t, mux, "POST", "/todos", `{"title":"Buy groceries","description":"Milk"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["message"] != "Todo created successfully" {
		t.Errorf("Unexpected message: %v", body["message"])
	}

	todo, ok := body["todo"].(map[string]any)
	if !ok {
		t.Fatalf("Expected todo object, got %v", body["todo"])
	}
	if todo["title"] != "Buy groceries" || todo["description"] != "Milk" {
		t.Errorf("Unexpected todo: %v", todo)
	}
	if todo["completed"] != false {
		t.Errorf("Expected new todo incomplete, got %v", todo["completed"])
	}
	if todo["id"] == nil || todo["createdAt"] == nil || todo["updatedAt"] == nil {
		t.Errorf("Expected id and timestamps, got %v", todo)
	}
}

func TestTodoHandler_CreateInvalid(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct {
		name    string
		body    string
		details []string
	}{
		{
			"malformed json",
			`{"title":`,
			[]string{"Invalid data format"},
		},
		{
			"missing title",
			`{"description":"x"}`,
			[]string{"Title is required and must be a string"},
		},
		{
			"blocked term",
			`{"title":"free viagra"}`,
			[]string{"Title: Contains inappropriate content"},
		},
		{
			"multiple errors",
			`{"title":"spam","completed":"yes"}`,
			[]string{"Title: Contains inappropriate content", "Completed must be a boolean"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, mux, "POST", "/todos", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}

			body := decodeBody(t, w)
			if body["error"] != "Invalid input" {
				t.Errorf("Unexpected error: %v", body["error"])
			}

			details, _ := body["details"].([]any)
			if len(details) != len(tt.details) {
				t.Fatalf("Expected %d details, got %v", len(tt.details), details)
			}
			for i, want := range tt.details {
				if details[i] != want {
					t.Errorf("Expected detail %q, got %q", want, details[i])
				}
			}
		})
	}
}

func TestTodoHandler_List(t *testing.T) {
	mux, st := newTestMux(t)

	st.Create(t.Context(), "first", "")
	st.Create(t.Context(), "second", "")

	w := doRequest(t, mux, "GET", "/todos", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var todos []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &todos); err != nil {
		t.Fatalf("Expected array response: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("Expected 2 todos, got %d", len(todos))
	}
	if todos[0]["title"] != "second" {
		t.Errorf("Expected newest first, got %v", todos[0]["title"])
	}
}

func TestTodoHandler_Get(t *testing.T) {
	mux, st := newTestMux(t)

	todo, _ := st.Create(t.Context(), "fetch me", "")

	w := doRequest(t, mux, "GET", fmt.Sprintf("/todos/%d", todo.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["title"] != "fetch me" {
		t.Errorf("Unexpected todo: %v", body)
	}

	w = doRequest(t, mux, "GET", "/todos/999", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Todo not found" {
		t.Errorf("Unexpected error: %v", body["error"])
	}

	w = doRequest(t, mux, "GET", "/todos/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad id, got %d", w.Code)
	}
}

func TestTodoHandler_Update(t *testing.T) {
	mux, st := newTestMux(t)

	todo, _ := st.Create(t.Context(), "original", "desc")
	path := fmt.Sprintf("/todos/%d", todo.ID)

	w := doRequest(t, mux, "PATCH", path, `{"completed":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["message"] != "Todo updated successfully" {
		t.Errorf("Unexpected message: %v", body["message"])
	}
	updated := body["todo"].(map[string]any)
	if updated["completed"] != true {
		t.Errorf("Expected completed true, got %v", updated["completed"])
	}
	if updated["title"] != "original" {
		t.Errorf("Expected untouched title, got %v", updated["title"])
	}
}

func TestTodoHandler_UpdateNoFields(t *testing.T) {
	mux, st := newTestMux(t)

	todo, _ := st.Create(t.Context(), "original", "")

	w := doRequest(t, mux, "PATCH", fmt.Sprintf("/todos/%d", todo.ID), `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["message"] != "No fields to update" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestTodoHandler_UpdateInvalidFields(t *testing.T) {
	mux, st := newTestMux(t)

	todo, _ := st.Create(t.Context(), "original", "")
	path := fmt.Sprintf("/todos/%d", todo.ID)

	w := doRequest(t, mux, "PATCH", path, `{"title":"spam offer"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	body := decodeBody(t, w)
	details, _ := body["details"].([]any)
	if len(details) != 1 || details[0] != "Title: Contains inappropriate content" {
		t.Errorf("Unexpected details: %v", details)
	}

	w = doRequest(t, mux, "PATCH", path, `{"completed":"yes"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-bool completed, got %d", w.Code)
	}
}

func TestTodoHandler_UpdateNotFound(t *testing.T) {
	mux, _ := newTestMux(t)

	w := doRequest(t, mux, "PATCH", "/todos/999", `{"completed":true}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Todo not found" {
		t.Errorf("Unexpected error: %v", body["error"])
	}
}

func TestTodoHandler_Delete(t *testing.T) {
	mux, st := newTestMux(t)

	todo, _ := st.Create(t.Context(), "doomed", "")
	path := fmt.Sprintf("/todos/%d", todo.ID)

	w := doRequest(t, mux, "DELETE", path, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["message"] != "Todo deleted successfully" {
		t.Errorf("Unexpected message: %v", body["message"])
	}

	w = doRequest(t, mux, "DELETE", path, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", w.Code)
	}
}

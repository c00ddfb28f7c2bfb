package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "todos.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

// insertAt inserts a todo with an explicit creation time, bypassing Create's
// store-assigned timestamps.
func insertAt(t *testing.T, s *SQLiteStore, title, description string, createdAt time.Time) int64 {
	t.Helper()

	result, err := s.db.Exec(`
		INSERT INTO todos (title, description, completed, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?)
	`, title, description, createdAt.UnixMilli(), createdAt.UnixMilli())
	if err != nil {
		t.Fatalf("Failed to insert todo: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to get inserted id: %v", err)
	}
	return id
}

func TestSQLiteStore_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	todo, err := s.Create(ctx, "Buy groceries", "Milk and eggs")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if todo.ID == 0 {
		t.Error("Expected non-zero id")
	}
	if todo.Completed {
		t.Error("Expected new todo to be incomplete")
	}
	if todo.CreatedAt.IsZero() || !todo.CreatedAt.Equal(todo.UpdatedAt) {
		t.Error("Expected matching creation timestamps")
	}

	got, err := s.Get(ctx, todo.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "Buy groceries" || got.Description != "Milk and eggs" {
		t.Errorf("Unexpected todo: %+v", got)
	}
}

func TestSQLiteStore_GetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	insertAt(t, s, "oldest", "", base)
	insertAt(t, s, "middle", "", base.Add(time.Minute))
	insertAt(t, s, "newest", "", base.Add(2*time.Minute))

	todos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(todos) != 3 {
		t.Fatalf("Expected 3 todos, got %d", len(todos))
	}
	if todos[0].Title != "newest" || todos[2].Title != "oldest" {
		t.Errorf("Expected newest-first ordering, got %q, %q, %q",
			todos[0].Title, todos[1].Title, todos[2].Title)
	}
}

func TestSQLiteStore_Update(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	todo, err := s.Create(ctx, "Original", "desc")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newTitle := "Updated"
	completed := true
	updated, err := s.Update(ctx, todo.ID, TodoUpdate{Title: &newTitle, Completed: &completed})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "Updated" {
		t.Errorf("Expected updated title, got %q", updated.Title)
	}
	if !updated.Completed {
		t.Error("Expected completed to be set")
	}
	if updated.Description != "desc" {
		t.Errorf("Expected untouched description, got %q", updated.Description)
	}
	if !updated.CreatedAt.Equal(todo.CreatedAt) {
		t.Error("Expected created_at to be immutable")
	}
	if updated.UpdatedAt.Before(todo.UpdatedAt) {
		t.Error("Expected updated_at to advance")
	}
}

func TestSQLiteStore_UpdateNotFound(t *testing.T) {
	s := newTestStore(t)

	title := "x"
	_, err := s.Update(context.Background(), 999, TodoUpdate{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_DeleteAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	todo, _ := s.Create(ctx, "one", "")
	s.Create(ctx, "two", "")

	if err := s.Delete(ctx, todo.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 todo, got %d", count)
	}

	if err := s.Delete(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting missing row, got %v", err)
	}
}

func TestSQLiteStore_DeleteCreatedBefore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cutoff := time.Now().AddDate(0, 0, -7)
	insertAt(t, s, "ancient", "", cutoff.Add(-48*time.Hour))
	insertAt(t, s, "old", "", cutoff.Add(-time.Minute))
	insertAt(t, s, "recent", "", cutoff.Add(time.Minute))

	deleted, err := s.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		t.Fatalf("DeleteCreatedBefore failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted, got %d", deleted)
	}

	todos, _ := s.List(ctx)
	if len(todos) != 1 || todos[0].Title != "recent" {
		t.Errorf("Expected only the recent todo to survive, got %+v", todos)
	}
}

func TestSQLiteStore_MostRecentIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	id1 := insertAt(t, s, "a", "", base)
	id2 := insertAt(t, s, "b", "", base.Add(time.Minute))
	id3 := insertAt(t, s, "c", "", base.Add(2*time.Minute))

	ids, err := s.MostRecentIDs(ctx, 2)
	if err != nil {
		t.Fatalf("MostRecentIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != id3 || ids[1] != id2 {
		t.Errorf("Expected [%d %d], got %v", id3, id2, ids)
	}

	// Equal timestamps fall back to id order, newest insert first
	id4 := insertAt(t, s, "d", "", base)
	ids, _ = s.MostRecentIDs(ctx, 4)
	if ids[3] != id1 {
		t.Errorf("Expected id %d to lose the tie against %d, got %v", id1, id4, ids)
	}
}

func TestSQLiteStore_DeleteAllExcept(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var keep []int64
	for i := 0; i < 5; i++ {
		todo, _ := s.Create(ctx, "todo", "")
		if i >= 3 {
			keep = append(keep, todo.ID)
		}
	}

	deleted, err := s.DeleteAllExcept(ctx, keep)
	if err != nil {
		t.Fatalf("DeleteAllExcept failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("Expected 3 deleted, got %d", deleted)
	}

	count, _ := s.Count(ctx)
	if count != 2 {
		t.Errorf("Expected 2 remaining, got %d", count)
	}
}

func TestSQLiteStore_DeleteAllExceptEmptyKeep(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Create(ctx, "survivor", "")

	deleted, err := s.DeleteAllExcept(ctx, nil)
	if err != nil {
		t.Fatalf("DeleteAllExcept failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Expected empty keep set to delete nothing, got %d", deleted)
	}
}

func TestSQLiteStore_DeleteMatchingTerms(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Create(ctx, "buy SPAM tins", "")
	s.Create(ctx, "innocent", "watch out for scam calls")
	s.Create(ctx, "spam and scam", "both terms, counted once")
	s.Create(ctx, "clean", "nothing to see")

	deleted, err := s.DeleteMatchingTerms(ctx, []string{"spam", "scam"})
	if err != nil {
		t.Fatalf("DeleteMatchingTerms failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("Expected 3 distinct rows deleted, got %d", deleted)
	}

	todos, _ := s.List(ctx)
	if len(todos) != 1 || todos[0].Title != "clean" {
		t.Errorf("Expected only the clean todo to survive, got %+v", todos)
	}
}

func TestSQLiteStore_DeleteMatchingTermsEscapesWildcards(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Create(ctx, "100% organic", "")
	s.Create(ctx, "100x organic", "")

	deleted, err := s.DeleteMatchingTerms(ctx, []string{"100%"})
	if err != nil {
		t.Fatalf("DeleteMatchingTerms failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected %% to match literally, got %d deleted", deleted)
	}
}

func TestSQLiteStore_CloseIdempotent(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "todos.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a todo with the requested id does not exist.
var ErrNotFound = errors.New("todo not found")

// Todo is a single user-created task record.
//
// CreatedAt is set once on insert and never changes; UpdatedAt is bumped on
// every mutation. Both are assigned by the store, not by callers.
type Todo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TodoUpdate describes a partial update. Nil fields are left untouched.
type TodoUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Empty reports whether the update contains no fields.
func (u TodoUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil
}

// Store is the persistence interface for todos.
//
// The retention methods (DeleteCreatedBefore, MostRecentIDs, DeleteAllExcept,
// DeleteMatchingTerms) exist for the cleanup engine; each maps to a single
// SQL statement so a phase is atomic at the storage layer.
type Store interface {
	// Create inserts a new todo and returns it with store-assigned id and
	// timestamps.
	Create(ctx context.Context, title, description string) (*Todo, error)

	// Get returns the todo with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*Todo, error)

	// List returns all todos, newest first.
	List(ctx context.Context) ([]*Todo, error)

	// Update applies a partial update and returns the updated todo, or
	// ErrNotFound. CreatedAt is never modified.
	Update(ctx context.Context, id int64, update TodoUpdate) (*Todo, error)

	// Delete removes the todo with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// Count returns the total number of todos.
	Count(ctx context.Context) (int64, error)

	// DeleteCreatedBefore deletes every todo created strictly before cutoff
	// and returns the number of rows removed.
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// MostRecentIDs returns up to limit ids ordered by creation time
	// descending. Ties on creation time are broken by higher id first.
	MostRecentIDs(ctx context.Context, limit int) ([]int64, error)

	// DeleteAllExcept deletes every todo whose id is not in keep and returns
	// the number of rows removed. An empty keep set is a no-op.
	DeleteAllExcept(ctx context.Context, keep []int64) (int64, error)

	// DeleteMatchingTerms deletes every todo whose title or description
	// contains any of the given terms, case-insensitively, as a single
	// statement. Returns the number of distinct rows removed.
	DeleteMatchingTerms(ctx context.Context, terms []string) (int64, error)

	// Ping verifies the underlying database is reachable.
	Ping(ctx context.Context) error

	// Close releases database resources.
	Close() error
}

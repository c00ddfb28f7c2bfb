package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store using SQLite for persistence.
type SQLiteStore struct {
	db                 *sql.DB
	dbPath             string
	checkpointInterval time.Duration
	done               chan struct{}
	closeOnce          sync.Once

	// preparedStatements contains pre-compiled SQL statements for the hot paths
	insertStmt    *sql.Stmt
	getStmt       *sql.Stmt
	listStmt      *sql.Stmt
	deleteStmt    *sql.Stmt
	countStmt     *sql.Stmt
	deleteOldStmt *sql.Stmt
	recentIDsStmt *sql.Stmt
}

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5 minutes.
	CheckpointInterval time.Duration

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// NewSQLiteStore creates a new SQLite store with default settings.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteConfig{
		DBPath:             dbPath,
		CheckpointInterval: 5 * time.Minute,
		BusyTimeout:        5 * time.Second,
	})
}

// NewSQLiteStoreWithConfig creates a new SQLite store with custom configuration.
func NewSQLiteStoreWithConfig(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		db:                 db,
		dbPath:             cfg.DBPath,
		checkpointInterval: cfg.CheckpointInterval,
		done:               make(chan struct{}),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	go s.checkpointLoop()

	return s, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		completed INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertStmt, err = s.db.Prepare(`
		INSERT INTO todos (title, description, completed, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}

	s.getStmt, err = s.db.Prepare(`
		SELECT id, title, description, completed, created_at, updated_at
		FROM todos
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.listStmt, err = s.db.Prepare(`
		SELECT id, title, description, completed, created_at, updated_at
		FROM todos
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare list statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`
		DELETE FROM todos
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	s.countStmt, err = s.db.Prepare(`
		SELECT COUNT(*) FROM todos
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare count statement: %w", err)
	}

	s.deleteOldStmt, err = s.db.Prepare(`
		DELETE FROM todos
		WHERE created_at < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete-old statement: %w", err)
	}

	s.recentIDsStmt, err = s.db.Prepare(`
		SELECT id FROM todos
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare recent-ids statement: %w", err)
	}

	return nil
}

// Create inserts a new todo with store-assigned timestamps.
func (s *SQLiteStore) Create(ctx context.Context, title, description string) (*Todo, error) {
	now := time.Now()
	result, err := s.insertStmt.ExecContext(ctx, title, description, now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted id: %w", err)
	}

	return &Todo{
		ID:          id,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Get returns the todo with the given id, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*Todo, error) {
	todo, err := scanTodo(s.getStmt.QueryRowContext(ctx, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load todo: %w", err)
	}
	return todo, nil
}

// List returns all todos, newest first, higher id winning ties.
func (s *SQLiteStore) List(ctx context.Context) ([]*Todo, error) {
	rows, err := s.listStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return todos, nil
}

// Update applies a partial update, bumps updated_at and returns the updated
// todo. created_at is never touched.
func (s *SQLiteStore) Update(ctx context.Context, id int64, update TodoUpdate) (*Todo, error) {
	if update.Empty() {
		return s.Get(ctx, id)
	}

	setClauses := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if update.Title != nil {
		setClauses = append(setClauses, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Completed != nil {
		setClauses = append(setClauses, "completed = ?")
		args = append(args, boolToInt(*update.Completed))
	}
	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, time.Now().UnixMilli())
	args = append(args, id)

	query := "UPDATE todos SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.Get(ctx, id)
}

// Delete removes the todo with the given id, or returns ErrNotFound.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	result, err := s.deleteStmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of todos.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.countStmt.QueryRowContext(ctx).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return count, nil
}

// DeleteCreatedBefore deletes todos created strictly before cutoff.
func (s *SQLiteStore) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.deleteOldStmt.ExecContext(ctx, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old todos: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// MostRecentIDs returns up to limit ids, newest first, higher id winning ties.
func (s *SQLiteStore) MostRecentIDs(ctx context.Context, limit int) ([]int64, error) {
	rows, err := s.recentIDsStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}

// DeleteAllExcept deletes every todo whose id is not in keep.
// An empty keep set is a no-op rather than a delete-everything.
func (s *SQLiteStore) DeleteAllExcept(ctx context.Context, keep []int64) (int64, error) {
	if len(keep) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(keep))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(keep))
	for i, id := range keep {
		args[i] = id
	}

	query := "DELETE FROM todos WHERE id NOT IN (" + placeholders + ")"

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete excess todos: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// DeleteMatchingTerms deletes every todo whose title or description contains
// any of the terms, as a single statement. Rows matching several terms are
// deleted (and counted) once.
func (s *SQLiteStore) DeleteMatchingTerms(ctx context.Context, terms []string) (int64, error) {
	if len(terms) == 0 {
		return 0, nil
	}

	// LIKE is case-insensitive for ASCII in SQLite, which covers the blocklist.
	conditions := make([]string, 0, len(terms))
	args := make([]any, 0, len(terms)*2)
	for _, term := range terms {
		pattern := "%" + escapeLike(term) + "%"
		conditions = append(conditions, `(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	query := "DELETE FROM todos WHERE " + strings.Join(conditions, " OR ")

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete matching todos: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases any resources held by the store.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteStore) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)

		for _, stmt := range []*sql.Stmt{
			s.insertStmt, s.getStmt, s.listStmt, s.deleteStmt,
			s.countStmt, s.deleteOldStmt, s.recentIDsStmt,
		} {
			if stmt != nil {
				stmt.Close()
			}
		}

		if s.db != nil {
			// Run final checkpoint
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// checkpointLoop runs periodic WAL checkpoints.
func (s *SQLiteStore) checkpointLoop() {
	ticker := time.NewTicker(s.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
		case <-s.done:
			return
		}
	}
}

// scanner abstracts *sql.Row and *sql.Rows for scanTodo.
type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (*Todo, error) {
	var (
		todo      Todo
		completed int64
		createdAt int64
		updatedAt int64
	)

	if err := row.Scan(&todo.ID, &todo.Title, &todo.Description, &completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	todo.Completed = completed != 0
	todo.CreatedAt = time.UnixMilli(createdAt)
	todo.UpdatedAt = time.UnixMilli(updatedAt)
	return &todo, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// escapeLike escapes LIKE wildcards in a literal search term.
func escapeLike(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, "%", `\%`)
	term = strings.ReplaceAll(term, "_", `\_`)
	return term
}

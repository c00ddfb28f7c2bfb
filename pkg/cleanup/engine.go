package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/griebenowschalk/my-todo-app/pkg/store"
)

// Config contains configuration for the cleanup engine.
type Config struct {
	// RetentionDays is the number of days to retain todos.
	RetentionDays int

	// MaxTodos is the maximum number of todos to keep.
	MaxTodos int
}

// DefaultConfig returns the default cleanup configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 7,
		MaxTodos:      100,
	}
}

// BlocklistSource supplies the current blocked terms for the content phase.
// *moderation.Filter implements it.
type BlocklistSource interface {
	Blocklist() []string
}

// MetricsRecorder receives cleanup outcomes. A nil recorder disables
// recording.
type MetricsRecorder interface {
	RecordCleanupRun(status string)
	RecordCleanupDeleted(phase string, count int64)
	SetTodosTotal(count int64)
}

// Report aggregates the row counts deleted by one full cleanup run.
// It is produced fresh on every invocation and never persisted.
type Report struct {
	OldTodosDeleted      int64 `json:"oldTodosDeleted"`
	ExcessTodosDeleted   int64 `json:"excessTodosDeleted"`
	InappropriateDeleted int64 `json:"inappropriateDeleted"`
}

// Total returns the sum of all three phase counts.
func (r *Report) Total() int64 {
	return r.OldTodosDeleted + r.ExcessTodosDeleted + r.InappropriateDeleted
}

// Engine runs the cleanup phases against the todo store.
type Engine struct {
	store     store.Store
	blocklist BlocklistSource
	config    *Config
	logger    *slog.Logger
	metrics   MetricsRecorder

	// now is swappable for tests
	now func() time.Time

	// mu protects the last-run record
	mu         sync.Mutex
	lastRun    time.Time
	lastReport *Report
}

// NewEngine creates a cleanup engine. metrics may be nil.
func NewEngine(st store.Store, blocklist BlocklistSource, config *Config, metrics MetricsRecorder) *Engine {
	if config == nil {
		config = DefaultConfig()
	}

	return &Engine{
		store:     st,
		blocklist: blocklist,
		config:    config,
		logger:    slog.Default().With("component", "cleanup.engine"),
		metrics:   metrics,
		now:       time.Now,
	}
}

// RemoveOldTodos deletes every todo created strictly before the retention
// cutoff and returns the count deleted.
func (e *Engine) RemoveOldTodos(ctx context.Context) (int64, error) {
	cutoff := e.now().AddDate(0, 0, -e.config.RetentionDays)

	deleted, err := e.store.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("remove old todos failed: %w", err)
	}

	e.logger.Info("removed old todos",
		"deleted_count", deleted,
		"retention_days", e.config.RetentionDays,
	)

	return deleted, nil
}

// LimitTotalTodos deletes everything outside the MaxTodos most-recently
// created todos and returns the count deleted. At or under the cap it is a
// no-op.
func (e *Engine) LimitTotalTodos(ctx context.Context) (int64, error) {
	count, err := e.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("limit total todos failed: %w", err)
	}

	if count <= int64(e.config.MaxTodos) {
		e.logger.Debug("todo count within limit",
			"current", count,
			"max", e.config.MaxTodos,
		)
		return 0, nil
	}

	keep, err := e.store.MostRecentIDs(ctx, e.config.MaxTodos)
	if err != nil {
		return 0, fmt.Errorf("limit total todos failed: %w", err)
	}

	// Should not happen when count > cap; refuse to delete everything.
	if len(keep) == 0 {
		e.logger.Warn("retained id selection came back empty, skipping capacity eviction")
		return 0, nil
	}

	deleted, err := e.store.DeleteAllExcept(ctx, keep)
	if err != nil {
		return 0, fmt.Errorf("limit total todos failed: %w", err)
	}

	e.logger.Info("limited total todos",
		"deleted_count", deleted,
		"max_todos", e.config.MaxTodos,
	)

	return deleted, nil
}

// RemoveInappropriateTodos deletes every todo whose title or description
// contains a blocked term and returns the count of distinct rows deleted.
//
// The row set matching any term is deleted in one statement, so a todo
// containing several blocked terms is counted once.
func (e *Engine) RemoveInappropriateTodos(ctx context.Context) (int64, error) {
	terms := e.blocklist.Blocklist()

	deleted, err := e.store.DeleteMatchingTerms(ctx, terms)
	if err != nil {
		return 0, fmt.Errorf("remove inappropriate todos failed: %w", err)
	}

	if deleted > 0 {
		e.logger.Info("removed inappropriate todos",
			"deleted_count", deleted,
			"terms", len(terms),
		)
	}

	return deleted, nil
}

// RunFullCleanup executes all three phases concurrently and merges their
// results.
//
// Any phase failure fails the whole call; deletions committed by other
// phases before the failure are not rolled back.
func (e *Engine) RunFullCleanup(ctx context.Context) (*Report, error) {
	e.logger.Info("starting full cleanup")

	var (
		report Report
		wg     sync.WaitGroup
		errs   [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		report.OldTodosDeleted, errs[0] = e.RemoveOldTodos(ctx)
	}()
	go func() {
		defer wg.Done()
		report.ExcessTodosDeleted, errs[1] = e.LimitTotalTodos(ctx)
	}()
	go func() {
		defer wg.Done()
		report.InappropriateDeleted, errs[2] = e.RemoveInappropriateTodos(ctx)
	}()
	wg.Wait()

	if err := errors.Join(errs[0], errs[1], errs[2]); err != nil {
		if e.metrics != nil {
			e.metrics.RecordCleanupRun("error")
		}
		return nil, fmt.Errorf("full cleanup failed: %w", err)
	}

	e.mu.Lock()
	e.lastRun = e.now()
	e.lastReport = &report
	e.mu.Unlock()

	if e.metrics != nil {
		e.metrics.RecordCleanupRun("success")
		e.metrics.RecordCleanupDeleted("old", report.OldTodosDeleted)
		e.metrics.RecordCleanupDeleted("excess", report.ExcessTodosDeleted)
		e.metrics.RecordCleanupDeleted("inappropriate", report.InappropriateDeleted)

		if remaining, err := e.store.Count(ctx); err == nil {
			e.metrics.SetTodosTotal(remaining)
		}
	}

	e.logger.Info("full cleanup completed",
		"old_deleted", report.OldTodosDeleted,
		"excess_deleted", report.ExcessTodosDeleted,
		"inappropriate_deleted", report.InappropriateDeleted,
	)

	return &report, nil
}

// LastRun returns the time and report of the most recent successful full
// cleanup. ok is false when no full cleanup has completed yet.
func (e *Engine) LastRun() (t time.Time, report *Report, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lastReport == nil {
		return time.Time{}, nil, false
	}

	reportCopy := *e.lastReport
	return e.lastRun, &reportCopy, true
}

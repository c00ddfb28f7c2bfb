// Package cleanup reclaims storage by deleting stale, excess, or
// retroactively-inappropriate todos.
//
// The engine runs three independent phases:
//
//   - age-based eviction: todos older than the retention period
//   - capacity-based eviction: todos beyond the configured cap, oldest first
//   - content-based eviction: todos whose title or description contains a
//     blocked term
//
// Each phase is idempotent and individually invocable; a full cleanup runs
// all three concurrently and merges the results into a single report. Phases
// operate on possibly overlapping row sets without cross-phase locking,
// which is safe because deleting an already-deleted row is a no-op at the
// store. There is no cross-phase transaction: deletions committed by one
// phase are not rolled back when another fails.
//
// The scheduler triggers a full cleanup on a cron schedule, mirroring the
// admin endpoint and the one-shot CLI command.
package cleanup

// Package store defines the todo data model and the persistence interface,
// along with a SQLite implementation suitable for single-instance deployments.
//
// The store is the single source of truth for todo state. Components above it
// (validation, rate limiting, cleanup) never cache rows across requests; they
// read and write exclusively through the Store interface.
//
// The SQLite implementation uses a write-ahead log (WAL) for better concurrent
// read performance and prepared statements on the hot paths. SQLite supports a
// single writer, so the connection pool is capped at one open connection.
package store

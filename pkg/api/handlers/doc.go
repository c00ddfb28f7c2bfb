// Package handlers implements the HTTP handlers for the todo API: the /todos
// CRUD surface, the /admin/cleanup endpoints, and health/readiness probes.
//
// Handlers return structs and exact response shapes; transport-level concerns
// (request ids, logging, rate limiting, metrics) live in the middleware
// package.
package handlers

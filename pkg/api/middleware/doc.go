// Package middleware provides the HTTP middleware chain for the todo API:
// panic recovery, request id assignment, structured request logging, metrics
// recording, and the per-client rate limit gate.
//
// The chain is assembled outside-in by the server package:
//
//	recovery -> request id -> logging -> metrics -> mux (rate limit per route)
package middleware

// Package ratelimit gates requests per client using fixed window rate
// limiting: each client gets a quota of N requests within a recurring
// interval, and the quota resets wholesale when the interval elapses.
//
// Two backends implement the Limiter interface:
//
//   - MemoryLimiter keeps counters in a process-local map. Correct only for a
//     single-instance deployment, and entries for idle clients are not evicted
//     until their window is reused.
//   - RedisLimiter keeps counters in Redis with per-key expiry, so multiple
//     service instances share state and stale entries expire on their own.
//
// The limiter is an injected capability, not a package-level singleton, so
// handlers can be tested in isolation and deployments can pick a backend in
// configuration.
package ratelimit

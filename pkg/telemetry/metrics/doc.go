// Package metrics exposes Prometheus metrics for the todo service.
//
// The Collector owns its own registry and records HTTP traffic, rate limit
// denials, moderation rejections, and cleanup outcomes. It is exposed at
// /metrics through the standard promhttp handler.
//
// Recording methods are no-ops when metrics are disabled in configuration,
// so callers never need to guard their calls.
package metrics

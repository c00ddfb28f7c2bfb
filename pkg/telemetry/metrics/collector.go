package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/griebenowschalk/my-todo-app/pkg/config"
)

// Collector manages metric registration and provides a unified interface for
// recording metrics across all components.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestsTotal        *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	rateLimitDenials     prometheus.Counter
	moderationRejections *prometheus.CounterVec
	cleanupRuns          *prometheus.CounterVec
	cleanupDeleted       *prometheus.CounterVec
	todosTotal           prometheus.Gauge
}

// NewCollector creates a metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "todoapp"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern and status code.",
		}, []string{"method", "path", "status"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and path pattern.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "path"}),

		rateLimitDenials: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "ratelimit_denials_total",
			Help:      "Requests rejected by the rate limiter.",
		}),

		moderationRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "moderation_rejections_total",
			Help:      "Submissions rejected by input validation, by offending field.",
		}, []string{"field"}),

		cleanupRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "cleanup_runs_total",
			Help:      "Full cleanup runs by outcome.",
		}, []string{"status"}),

		cleanupDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "cleanup_deleted_total",
			Help:      "Todos deleted by cleanup, by phase.",
		}, []string{"phase"}),

		todosTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "todos_total",
			Help:      "Number of stored todos, refreshed after each cleanup.",
		}),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.rateLimitDenials,
		c.moderationRejections,
		c.cleanupRuns,
		c.cleanupDeleted,
		c.todosTotal,
	)

	return c
}

// RecordRequest records a completed HTTP request. path should be the route
// pattern, not the raw URL, to keep cardinality bounded.
func (c *Collector) RecordRequest(method, path string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRateLimitDenial records a request rejected by the rate limiter.
func (c *Collector) RecordRateLimitDenial() {
	if !c.config.Enabled {
		return
	}
	c.rateLimitDenials.Inc()
}

// RecordModerationRejection records a submission rejected by validation.
// field names the offending field ("title", "description", "completed",
// "body").
func (c *Collector) RecordModerationRejection(field string) {
	if !c.config.Enabled {
		return
	}
	c.moderationRejections.WithLabelValues(field).Inc()
}

// RecordCleanupRun records one full cleanup run ("success" or "error").
func (c *Collector) RecordCleanupRun(status string) {
	if !c.config.Enabled {
		return
	}
	c.cleanupRuns.WithLabelValues(status).Inc()
}

// RecordCleanupDeleted records rows deleted by one cleanup phase.
func (c *Collector) RecordCleanupDeleted(phase string, count int64) {
	if !c.config.Enabled {
		return
	}
	c.cleanupDeleted.WithLabelValues(phase).Add(float64(count))
}

// SetTodosTotal updates the stored-todos gauge.
func (c *Collector) SetTodosTotal(count int64) {
	if !c.config.Enabled {
		return
	}
	c.todosTotal.Set(float64(count))
}

// Registry returns the collector's Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

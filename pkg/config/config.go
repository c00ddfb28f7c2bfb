package config

import "time"

// Config is the root configuration for the todo service.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Moderation ModerationConfig `yaml:"moderation"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Cleanup    CleanupConfig    `yaml:"cleanup"`
	Admin      AdminConfig      `yaml:"admin"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// ListenAddress is the host:port to listen on.
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on a
	// keep-alive connection.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// StorageConfig configures the todo store.
type StorageConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string `yaml:"db_path"`
}

// ModerationConfig configures content filtering.
type ModerationConfig struct {
	// MaxTextLength is the maximum accepted length of a text field.
	MaxTextLength int `yaml:"max_text_length"`

	// BlockedTerms overrides the built-in blocklist when non-empty.
	BlockedTerms []string `yaml:"blocked_terms"`

	// BlocklistPath points at a YAML blocklist file. When set, it takes
	// precedence over BlockedTerms.
	BlocklistPath string `yaml:"blocklist_path"`

	// WatchBlocklist enables hot reload of BlocklistPath.
	WatchBlocklist bool `yaml:"watch_blocklist"`
}

// RateLimitConfig configures the fixed window rate limiter.
type RateLimitConfig struct {
	// Backend selects the counter store: "memory" or "redis".
	Backend string `yaml:"backend"`

	// Window is the fixed window length.
	Window time.Duration `yaml:"window"`

	// MaxRequests is the quota per client per window.
	MaxRequests int `yaml:"max_requests"`

	// Redis configures the redis backend.
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis connection for the rate limiter.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CleanupConfig configures the retention engine and its scheduler.
type CleanupConfig struct {
	// RetentionDays is the age cutoff for the age-based phase.
	RetentionDays int `yaml:"retention_days"`

	// MaxTodos is the cap for the capacity-based phase.
	MaxTodos int `yaml:"max_todos"`

	// Schedule is a standard cron expression for automatic cleanup.
	// Empty disables scheduling.
	Schedule string `yaml:"schedule"`
}

// AdminConfig configures operator-only endpoints.
type AdminConfig struct {
	// Secret authorizes the cleanup trigger.
	Secret string `yaml:"secret"`
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is the output format: json or text.
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

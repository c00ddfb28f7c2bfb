package config

import "time"

// Default values applied to unset fields.
const (
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20 // 1 MiB

	DefaultDBPath = "data/todos.db"

	DefaultMaxTextLength = 500

	DefaultRateLimitBackend = "memory"
	DefaultRateLimitWindow  = 60 * time.Second
	DefaultRateLimitMax     = 10

	DefaultRetentionDays   = 7
	DefaultMaxTodos        = 100
	DefaultCleanupSchedule = "0 3 * * *"

	DefaultAdminSecret = "demo-cleanup-key"

	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsNamespace = "todoapp"
)

// ApplyDefaults fills in default values for unset configuration fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = DefaultDBPath
	}

	if cfg.Moderation.MaxTextLength == 0 {
		cfg.Moderation.MaxTextLength = DefaultMaxTextLength
	}

	if cfg.RateLimit.Backend == "" {
		cfg.RateLimit.Backend = DefaultRateLimitBackend
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = DefaultRateLimitWindow
	}
	if cfg.RateLimit.MaxRequests == 0 {
		cfg.RateLimit.MaxRequests = DefaultRateLimitMax
	}

	if cfg.Cleanup.RetentionDays == 0 {
		cfg.Cleanup.RetentionDays = DefaultRetentionDays
	}
	if cfg.Cleanup.MaxTodos == 0 {
		cfg.Cleanup.MaxTodos = DefaultMaxTodos
	}
	if cfg.Cleanup.Schedule == "" {
		cfg.Cleanup.Schedule = DefaultCleanupSchedule
	}

	if cfg.Admin.Secret == "" {
		cfg.Admin.Secret = DefaultAdminSecret
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Telemetry.Metrics.Enabled = true
	return cfg
}

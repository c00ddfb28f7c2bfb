package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for inconsistencies. It assumes defaults
// have already been applied.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address cannot be empty")
	}
	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 || cfg.Server.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts cannot be negative")
	}

	if cfg.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path cannot be empty")
	}

	if cfg.Moderation.MaxTextLength <= 0 {
		return fmt.Errorf("moderation.max_text_length must be positive, got %d", cfg.Moderation.MaxTextLength)
	}
	if cfg.Moderation.WatchBlocklist && cfg.Moderation.BlocklistPath == "" {
		return fmt.Errorf("moderation.watch_blocklist requires moderation.blocklist_path")
	}

	switch cfg.RateLimit.Backend {
	case "memory":
	case "redis":
		if cfg.RateLimit.Redis.Addr == "" {
			return fmt.Errorf("rate_limit.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("rate_limit.backend must be %q or %q, got %q", "memory", "redis", cfg.RateLimit.Backend)
	}
	if cfg.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", cfg.RateLimit.Window)
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("rate_limit.max_requests must be positive, got %d", cfg.RateLimit.MaxRequests)
	}

	if cfg.Cleanup.RetentionDays <= 0 {
		return fmt.Errorf("cleanup.retention_days must be positive, got %d", cfg.Cleanup.RetentionDays)
	}
	if cfg.Cleanup.MaxTodos <= 0 {
		return fmt.Errorf("cleanup.max_todos must be positive, got %d", cfg.Cleanup.MaxTodos)
	}
	if cfg.Cleanup.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Cleanup.Schedule); err != nil {
			return fmt.Errorf("cleanup.schedule is not a valid cron expression: %w", err)
		}
	}

	if cfg.Admin.Secret == "" {
		return fmt.Errorf("admin.secret cannot be empty")
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug, info, warn, error; got %q", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format must be json or text, got %q", cfg.Telemetry.Logging.Format)
	}

	return nil
}

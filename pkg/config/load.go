package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path,
// applies defaults and validates the result. Environment variables are not
// consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides of the form TODOAPP_SECTION_FIELD
// (e.g. TODOAPP_SERVER_LISTEN_ADDRESS). Environment variables always take
// precedence over file-based configuration.
//
// A missing file is not an error: defaults plus environment variables are
// used instead, so the server can run without any config file at all.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
		ApplyDefaults(cfg)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	setString("TODOAPP_SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	setDuration("TODOAPP_SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	setDuration("TODOAPP_SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	setDuration("TODOAPP_SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	setDuration("TODOAPP_SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	setString("TODOAPP_STORAGE_DB_PATH", &cfg.Storage.DBPath)

	setInt("TODOAPP_MODERATION_MAX_TEXT_LENGTH", &cfg.Moderation.MaxTextLength)
	setString("TODOAPP_MODERATION_BLOCKLIST_PATH", &cfg.Moderation.BlocklistPath)
	setBool("TODOAPP_MODERATION_WATCH_BLOCKLIST", &cfg.Moderation.WatchBlocklist)

	setString("TODOAPP_RATELIMIT_BACKEND", &cfg.RateLimit.Backend)
	setDuration("TODOAPP_RATELIMIT_WINDOW", &cfg.RateLimit.Window)
	setInt("TODOAPP_RATELIMIT_MAX_REQUESTS", &cfg.RateLimit.MaxRequests)
	setString("TODOAPP_RATELIMIT_REDIS_ADDR", &cfg.RateLimit.Redis.Addr)
	setString("TODOAPP_RATELIMIT_REDIS_PASSWORD", &cfg.RateLimit.Redis.Password)
	setInt("TODOAPP_RATELIMIT_REDIS_DB", &cfg.RateLimit.Redis.DB)

	setInt("TODOAPP_CLEANUP_RETENTION_DAYS", &cfg.Cleanup.RetentionDays)
	setInt("TODOAPP_CLEANUP_MAX_TODOS", &cfg.Cleanup.MaxTodos)
	setString("TODOAPP_CLEANUP_SCHEDULE", &cfg.Cleanup.Schedule)

	setString("TODOAPP_ADMIN_SECRET", &cfg.Admin.Secret)

	setString("TODOAPP_LOG_LEVEL", &cfg.Telemetry.Logging.Level)
	setString("TODOAPP_LOG_FORMAT", &cfg.Telemetry.Logging.Format)
	setBool("TODOAPP_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	setString("TODOAPP_METRICS_NAMESPACE", &cfg.Telemetry.Metrics.Namespace)
}

func setString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func setBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			*dst = b
		}
	}
}

func setDuration(key string, dst *time.Duration) {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

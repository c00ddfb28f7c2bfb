package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/griebenowschalk/my-todo-app/pkg/cleanup"
	"github.com/griebenowschalk/my-todo-app/pkg/config"
	"github.com/griebenowschalk/my-todo-app/pkg/moderation"
	"github.com/griebenowschalk/my-todo-app/pkg/ratelimit"
	"github.com/griebenowschalk/my-todo-app/pkg/server"
	"github.com/griebenowschalk/my-todo-app/pkg/store"
	"github.com/griebenowschalk/my-todo-app/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the todo API server",
	Long: `Start the todo API server with the specified configuration.

The server listens on the configured address and serves the todo CRUD API
behind the content filter and rate limiter, with scheduled cleanup running
in the background.

Examples:
  # Start with default config
  todoapp run

  # Start with custom config
  todoapp run --config /etc/todoapp/config.yaml

  # Override listen address
  todoapp run --listen 0.0.0.0:8080

  # Validate config without starting server
  todoapp run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.Get()

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	setupLogging(&cfg.Telemetry.Logging)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Todoapp v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	st, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()
	fmt.Printf("✓ Store opened (%s)\n", cfg.Storage.DBPath)

	// Content filter, optionally fed from a blocklist file with hot reload
	filter := moderation.NewFilterWithConfig(moderation.FilterConfig{
		MaxLength: cfg.Moderation.MaxTextLength,
		Blocklist: cfg.Moderation.BlockedTerms,
	})
	if cfg.Moderation.BlocklistPath != "" {
		terms, err := moderation.LoadBlocklistFile(cfg.Moderation.BlocklistPath)
		if err != nil {
			return fmt.Errorf("failed to load blocklist: %w", err)
		}
		filter.SetBlocklist(terms)

		if cfg.Moderation.WatchBlocklist {
			watcher, err := moderation.NewBlocklistWatcher(filter, cfg.Moderation.BlocklistPath, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to create blocklist watcher: %w", err)
			}
			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("failed to start blocklist watcher: %w", err)
			}
			defer watcher.Stop()
		}
	}
	validator := moderation.NewValidator(filter)
	fmt.Printf("✓ Content filter loaded (%d blocked terms)\n", len(filter.Blocklist()))

	// Rate limiter
	limiter, closeLimiter, err := buildLimiter(&cfg.RateLimit)
	if err != nil {
		return err
	}
	defer closeLimiter()
	fmt.Printf("✓ Rate limiter ready (%s backend)\n", cfg.RateLimit.Backend)

	// Metrics
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	// Cleanup engine and scheduler
	engine := cleanup.NewEngine(st, filter, &cleanup.Config{
		RetentionDays: cfg.Cleanup.RetentionDays,
		MaxTodos:      cfg.Cleanup.MaxTodos,
	}, collector)

	if cfg.Cleanup.Schedule != "" {
		scheduler := cleanup.NewScheduler(engine, cfg.Cleanup.Schedule)
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start cleanup scheduler: %w", err)
		}
		defer scheduler.Stop()
		if next := scheduler.NextRun(); next != nil {
			slog.Info("cleanup scheduler started", "schedule", cfg.Cleanup.Schedule, "next_run", next)
		}
		fmt.Printf("✓ Cleanup scheduled (%s)\n", cfg.Cleanup.Schedule)
	}

	srv := server.NewServer(cfg, server.Deps{
		Store:     st,
		Filter:    filter,
		Validator: validator,
		Limiter:   limiter,
		Engine:    engine,
		Collector: collector,
		Version:   Version,
	})

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	fmt.Println("\nPress Ctrl+C to stop")

	return srv.Start(ctx)
}

// buildLimiter constructs the configured rate limiter backend. The returned
// func releases backend resources.
func buildLimiter(cfg *config.RateLimitConfig) (ratelimit.Limiter, func(), error) {
	limiterConfig := ratelimit.Config{
		Window:      cfg.Window,
		MaxRequests: cfg.MaxRequests,
	}

	switch cfg.Backend {
	case "", "memory":
		return ratelimit.NewMemoryLimiter(limiterConfig), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return ratelimit.NewRedisLimiter(client, limiterConfig), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported rate limit backend: %s", cfg.Backend)
	}
}

// setupLogging installs the default slog logger from config.
func setupLogging(cfg *config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

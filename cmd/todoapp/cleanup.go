package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/griebenowschalk/my-todo-app/pkg/cleanup"
	"github.com/griebenowschalk/my-todo-app/pkg/config"
	"github.com/griebenowschalk/my-todo-app/pkg/moderation"
	"github.com/griebenowschalk/my-todo-app/pkg/store"
)

var cleanupFlags struct {
	timeout time.Duration
	jsonOut bool
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Run a one-shot cleanup against the configured database",
	Long: `Run all three cleanup phases once and print the result.

The phases run concurrently:
  - delete todos older than the retention window
  - delete the oldest todos beyond the configured cap
  - delete todos whose title or description matches a blocked term

Intended for cron or manual maintenance when the server's built-in
scheduler is disabled.

Examples:
  # Run cleanup with default config
  todoapp cleanup

  # Machine-readable output
  todoapp cleanup --json`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().DurationVar(&cleanupFlags.timeout, "timeout", 2*time.Minute, "cleanup deadline")
	cleanupCmd.Flags().BoolVar(&cleanupFlags.jsonOut, "json", false, "print the report as JSON")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.Get()

	setupLogging(&cfg.Telemetry.Logging)

	st, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

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
	}

	engine := cleanup.NewEngine(st, filter, &cleanup.Config{
		RetentionDays: cfg.Cleanup.RetentionDays,
		MaxTodos:      cfg.Cleanup.MaxTodos,
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), cleanupFlags.timeout)
	defer cancel()

	if !cleanupFlags.jsonOut {
		fmt.Printf("Running cleanup against %s...\n", cfg.Storage.DBPath)
	}

	report, err := engine.RunFullCleanup(ctx)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	if cleanupFlags.jsonOut {
		return json.NewEncoder(os.Stdout).Encode(report)
	}

	fmt.Printf("✓ Old todos deleted: %d\n", report.OldTodosDeleted)
	fmt.Printf("✓ Excess todos deleted: %d\n", report.ExcessTodosDeleted)
	fmt.Printf("✓ Inappropriate todos deleted: %d\n", report.InappropriateDeleted)
	fmt.Printf("✓ Cleanup completed (%d total)\n", report.Total())

	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/griebenowschalk/my-todo-app/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file, apply environment overrides, and check it
for errors without starting the server.

Examples:
  # Validate the default config
  todoapp validate

  # Validate a specific file
  todoapp validate --config /etc/todoapp/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	fmt.Println("✓ Configuration valid")
	fmt.Printf("  Listen address:     %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  Database:           %s\n", cfg.Storage.DBPath)
	fmt.Printf("  Rate limit backend: %s\n", cfg.RateLimit.Backend)
	fmt.Printf("  Retention days:     %d\n", cfg.Cleanup.RetentionDays)
	fmt.Printf("  Max todos:          %d\n", cfg.Cleanup.MaxTodos)
	if cfg.Cleanup.Schedule != "" {
		fmt.Printf("  Cleanup schedule:   %s\n", cfg.Cleanup.Schedule)
	} else {
		fmt.Println("  Cleanup schedule:   disabled")
	}

	return nil
}

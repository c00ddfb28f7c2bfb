package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "todoapp",
	Short: "Todoapp - todo service with moderation and retention cleanup",
	Long: `Todoapp is a multi-user todo service with content moderation and
automatic retention cleanup.

It provides:
  - A JSON HTTP API for creating, listing, updating and deleting todos
  - Input validation with a blocklist and structural content checks
  - Per-client fixed window rate limiting (memory or Redis backed)
  - Scheduled cleanup: age-based, capacity-based and content-based eviction
  - An authenticated admin endpoint to trigger cleanup on demand`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

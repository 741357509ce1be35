package cmd

import (
	"fmt"
	"os"

	"github.com/deppfellow/events-api/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "events-api",
		Short: "Events API - CRUD HTTP service for events and their tickets",
		Long: `Events API serves create, read, list, update and delete operations on
events under /events, plus a bulk read of each event's tickets.

Configuration comes from EVENTS_* environment variables (a .env file is
loaded when present). Running without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(emailPreviewCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Observability.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Observability.Logging.Format = logFormat
	}

	if err := cfg.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return cfg, nil
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/events-api/internal/database"
	"github.com/deppfellow/events-api/internal/logger"
	"github.com/spf13/cobra"
)

var migrateTimeout time.Duration

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply the migrations embedded in the binary to the configured database.
Already applied migrations are skipped, so the command is safe to re-run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		log := logger.NewLoggerWithService(cfg.Observability, nil)

		ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
		defer cancel()

		return database.Migrate(ctx, &log, cfg)
	},
}

func init() {
	migrateCmd.Flags().DurationVar(&migrateTimeout, "timeout", time.Minute, "maximum time to wait for migrations")
}

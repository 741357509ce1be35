package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/events-api/internal/database"
	"github.com/deppfellow/events-api/internal/handler"
	"github.com/deppfellow/events-api/internal/logger"
	"github.com/deppfellow/events-api/internal/repository"
	"github.com/deppfellow/events-api/internal/router"
	"github.com/deppfellow/events-api/internal/server"
	"github.com/deppfellow/events-api/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var (
	serverPort     string
	skipMigrations bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server and the background job workers.

The server will:
- Load configuration from EVENTS_* environment variables
- Apply pending database migrations (unless --skip-migrations)
- Connect to PostgreSQL and Redis and start the cancellation email workers
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  events-api serve
  events-api serve --port 9090 --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverPort, "port", "", "server port (overrides EVENTS_SERVER__PORT)")
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply migrations on startup")
}

// buildServices is replaced in tests.
var buildServices = func(srv *server.Server) (*service.Services, error) {
	return service.NewService(srv, repository.NewRepositories(srv))
}

// wireServer mounts the router on srv. When wiring fails it shuts srv down,
// releasing the pool, redis client and job workers server.New started.
func wireServer(srv *server.Server) error {
	services, err := buildServices(srv)
	if err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(ctx); shutdownErr != nil {
			srv.Logger.Error().Err(shutdownErr).Msg("shutdown error")
		}
		return fmt.Errorf("could not create services: %w", err)
	}

	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))
	return nil
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if serverPort != "" {
		cfg.Server.Port = serverPort
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return fmt.Errorf("failed to initialize New Relic: %w", err)
	}

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if !skipMigrations {
		migrateCtx, cancel := context.WithTimeout(parent, time.Minute)
		err := database.Migrate(migrateCtx, &log, cfg)
		cancel()
		if err != nil {
			loggerService.Shutdown()
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	if err := wireServer(srv); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("shutdown error")
		}
		return err

	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}

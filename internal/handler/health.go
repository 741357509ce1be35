package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/deppfellow/events-api/internal/metrics"
	"github.com/deppfellow/events-api/internal/middleware"
	"github.com/deppfellow/events-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	healthCheckTimeout = 5 * time.Second

	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

var errDatabaseNotConfigured = errors.New("database not configured")

// pinger is the part of the database the health check needs.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the service and its dependencies are up.
// The database is required; Redis only degrades the service, since it
// carries cancellation emails and not requests.
type HealthHandler struct {
	Handler
	db    pinger
	redis *redis.Client
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{
		Handler: NewHandler(s),
		redis:   s.Redis,
	}
	if s.DB != nil {
		h.db = s.DB
	}
	return h
}

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Version     string                 `json:"version"`
	Checks      map[string]checkResult `json:"checks"`
}

// CheckHealth answers 200 when healthy or degraded and 503 when unhealthy.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := healthResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Version:     server.Version,
		Checks:      make(map[string]checkResult),
	}

	dbCheck := h.check(c.Request().Context(), &logger, "database", func(ctx context.Context) error {
		if h.db == nil {
			return errDatabaseNotConfigured
		}
		return h.db.Ping(ctx)
	})
	response.Checks["database"] = dbCheck

	if h.redis != nil {
		redisCheck := h.check(c.Request().Context(), &logger, "redis", func(ctx context.Context) error {
			return h.redis.Ping(ctx).Err()
		})
		response.Checks["redis"] = redisCheck

		if redisCheck.Status != statusHealthy {
			response.Status = statusDegraded
		}
	}

	if dbCheck.Status != statusHealthy {
		response.Status = statusUnhealthy
	}

	switch response.Status {
	case statusHealthy:
		metrics.HealthStatus.Set(2)
	case statusDegraded:
		metrics.HealthStatus.Set(1)
	default:
		metrics.HealthStatus.Set(0)
	}

	if response.Status == statusUnhealthy {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthError(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Str("status", response.Status).
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) check(parent context.Context, logger *zerolog.Logger, name string, ping func(ctx context.Context) error) checkResult {
	ctx, cancel := context.WithTimeout(parent, healthCheckTimeout)
	defer cancel()

	checkStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(checkStart)

	metrics.HealthCheckLatency.WithLabelValues(name).Set(elapsed.Seconds())

	if err != nil {
		metrics.HealthCheckStatus.WithLabelValues(name).Set(0)

		logger.Error().
			Err(err).
			Dur("response_time", elapsed).
			Msgf("%s health check failed", name)

		h.recordHealthError(map[string]interface{}{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return checkResult{Status: statusUnhealthy, ResponseTime: elapsed.String(), Error: err.Error()}
	}

	metrics.HealthCheckStatus.WithLabelValues(name).Set(2)

	logger.Debug().
		Dur("response_time", elapsed).
		Msgf("%s health check passed", name)

	return checkResult{Status: statusHealthy, ResponseTime: elapsed.String()}
}

func (h *HealthHandler) recordHealthError(attrs map[string]interface{}) {
	if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
		h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
	}
}

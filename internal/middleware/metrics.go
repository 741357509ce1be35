package middleware

import (
	"errors"
	"time"

	"github.com/deppfellow/events-api/internal/metrics"
	"github.com/labstack/echo/v4"
)

// unmatchedRoute labels requests that hit no registered route.
const unmatchedRoute = "unmatched"

type MetricsMiddleware struct{}

func NewMetricsMiddleware() *MetricsMiddleware {
	return &MetricsMiddleware{}
}

// Record counts every request by route pattern and final status.
func (m *MetricsMiddleware) Record() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = statusOf(err)
			}

			route := c.Path()
			if route == "" || errors.Is(err, echo.ErrNotFound) || errors.Is(err, echo.ErrMethodNotAllowed) {
				route = unmatchedRoute
			}

			metrics.RecordHTTPRequest(c.Request().Method, route, status, time.Since(start))

			return err
		}
	}
}

// Package router builds the echo instance: the middleware chain in order,
// the error handler, and every route group.
package router

import (
	"github.com/deppfellow/events-api/internal/handler"
	"github.com/deppfellow/events-api/internal/middleware"
	"github.com/deppfellow/events-api/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Pre(middlewares.Global.RemoveTrailingSlash())

	// Outermost first. Recover is innermost so a panic still passes through
	// metrics, the request log and tracing as an error.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Metrics.Record(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	registerEventRoutes(router.Group("/events"), h)

	return router
}

// Package middleware holds the echo middlewares shared by every route:
// request ids, the request-scoped logger, New Relic tracing, request logs,
// rate limiting, prometheus metrics and the global error funnel.
package middleware

package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/events-api/internal/config"
	"github.com/deppfellow/events-api/internal/errs"
	"github.com/deppfellow/events-api/internal/metrics"
	"github.com/deppfellow/events-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(out io.Writer, rl config.RateLimitConfig) *server.Server {
	logger := zerolog.New(out)
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server: config.ServerConfig{
				CORSAllowedOrigins: []string{"*"},
				RateLimit:          rl,
			},
		},
		Logger: &logger,
	}
}

func newEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGlobalErrorHandler(t *testing.T) {
	e := newEcho(testServer(io.Discard, config.RateLimitConfig{}))
	e.GET("/bad", func(c echo.Context) error {
		return errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError{{Field: "name", Error: "is required"}}, nil)
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("dial tcp: connection refused")
	})
	e.GET("/teapot", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	t.Run("http error passes through", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/bad")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "BAD_REQUEST", body.Code)
		assert.Equal(t, "Validation failed", body.Message)
		assert.True(t, body.Override)
		assert.Equal(t, []errs.FieldError{{Field: "name", Error: "is required"}}, body.Errors)
	})

	t.Run("unexpected error is a generic 500", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/boom")
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Code)
		assert.Equal(t, "Internal Server Error", body.Message)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("echo error keeps its status", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/teapot")
		require.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "short and stout", decodeError(t, rec).Message)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/nowhere")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Route not found", decodeError(t, rec).Message)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := serve(e, http.MethodPut, "/bad")
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, rec).Code)
	})
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("valid id is propagated", func(t *testing.T) {
		const id = "6f1c2f1e-8f55-4c1b-9d0c-3f8e2a5b7c10"
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, id)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("invalid id is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "not-a-uuid\nInjected: yes")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		got := rec.Header().Get(RequestIDHeader)
		assert.Len(t, got, 36)
		assert.Equal(t, got, rec.Body.String())
	})

	t.Run("missing id is generated", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/")
		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})
}

func TestEnhanceContext(t *testing.T) {
	var buf bytes.Buffer
	s := testServer(&buf, config.RateLimitConfig{})

	e := echo.New()
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())
	e.GET("/things/:id", func(c echo.Context) error {
		logger := GetLogger(c)
		assert.Same(t, logger, LoggerFromContext(c.Request().Context()))
		logger.Info().Msg("inside")
		return c.NoContent(http.StatusNoContent)
	})

	rec := serve(e, http.MethodGet, "/things/42")
	require.Equal(t, http.StatusNoContent, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "inside", line["message"])
	assert.Equal(t, "/things/:id", line["path"])
	assert.Equal(t, http.MethodGet, line["method"])
	assert.Equal(t, rec.Header().Get(RequestIDHeader), line["request_id"])
}

func TestGetLoggerOutsideChainIsNop(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, zerolog.Disabled, GetLogger(c).GetLevel())
}

func TestRateLimit(t *testing.T) {
	t.Run("rejects over burst", func(t *testing.T) {
		s := testServer(io.Discard, config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})
		e := newEcho(s)
		e.Use(NewRateLimitMiddleware(s).Limit())
		e.GET("/limited", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

		before := testutil.ToFloat64(metrics.RateLimitedTotal.WithLabelValues("/limited"))

		assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/limited").Code)

		rec := serve(e, http.MethodGet, "/limited")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "TOO_MANY_REQUESTS", decodeError(t, rec).Code)
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitedTotal.WithLabelValues("/limited")))
	})

	t.Run("status is never limited", func(t *testing.T) {
		s := testServer(io.Discard, config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})
		e := newEcho(s)
		e.Use(NewRateLimitMiddleware(s).Limit())
		e.GET("/status", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

		for range 3 {
			assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/status").Code)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		s := testServer(io.Discard, config.RateLimitConfig{Disabled: true, RequestsPerSecond: 0.001, Burst: 1})
		e := newEcho(s)
		e.Use(NewRateLimitMiddleware(s).Limit())
		e.GET("/open", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

		for range 3 {
			assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/open").Code)
		}
	})
}

func TestMetricsRecordsRoutePatternAndFinalStatus(t *testing.T) {
	e := newEcho(testServer(io.Discard, config.RateLimitConfig{}))
	e.Use(NewMetricsMiddleware().Record())
	e.GET("/items/:id", func(c echo.Context) error {
		if c.Param("id") == "bad" {
			return errs.NewBadRequestError("nope", false, nil, nil, nil)
		}
		return c.NoContent(http.StatusOK)
	})

	ok := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "200")
	bad := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "400")
	unmatched := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
	okBefore, badBefore, unmatchedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(bad), testutil.ToFloat64(unmatched)

	serve(e, http.MethodGet, "/items/1")
	serve(e, http.MethodGet, "/items/2")
	serve(e, http.MethodGet, "/items/bad")
	serve(e, http.MethodGet, "/missing/route")

	assert.Equal(t, okBefore+2, testutil.ToFloat64(ok))
	assert.Equal(t, badBefore+1, testutil.ToFloat64(bad))
	assert.Equal(t, unmatchedBefore+1, testutil.ToFloat64(unmatched))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.HTTPRequestsInFlight))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusOf(echo.ErrNotFound))
	assert.Equal(t, http.StatusTooManyRequests, statusOf(errs.NewTooManyRequestsError("x")))
	assert.Equal(t, http.StatusInternalServerError, statusOf(errors.New("x")))
}

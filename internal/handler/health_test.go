package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/events-api/internal/metrics"
	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func runHealth(t *testing.T, h *HealthHandler) (int, healthResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)
	require.NoError(t, h.CheckHealth(c))

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func newHealthHandler(db pinger, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(testServer()), db: db, redis: rdb}
}

func TestCheckHealthAllUp(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")

	code, body := runHealth(t, newHealthHandler(fakePinger{}, rdb))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Environment)
	assert.Equal(t, "healthy", body.Checks["database"].Status)
	assert.Equal(t, "healthy", body.Checks["redis"].Status)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.HealthStatus))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckHealthRedisDownIsDegraded(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectPing().SetErr(errors.New("connection refused"))

	code, body := runHealth(t, newHealthHandler(fakePinger{}, rdb))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "unhealthy", body.Checks["redis"].Status)
	assert.Equal(t, "connection refused", body.Checks["redis"].Error)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HealthStatus))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.HealthCheckStatus.WithLabelValues("redis")))
}

func TestCheckHealthDatabaseDownIsUnavailable(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")

	code, body := runHealth(t, newHealthHandler(fakePinger{err: errors.New("no route to host")}, rdb))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "no route to host", body.Checks["database"].Error)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.HealthStatus))
}

func TestCheckHealthWithoutDependencies(t *testing.T) {
	code, body := runHealth(t, newHealthHandler(nil, nil))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "database not configured", body.Checks["database"].Error)
	assert.NotContains(t, body.Checks, "redis")
}

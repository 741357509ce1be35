package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/events-api/internal/config"
	"github.com/deppfellow/events-api/internal/middleware"
	"github.com/deppfellow/events-api/internal/model"
	"github.com/deppfellow/events-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() *server.Server {
	logger := zerolog.New(io.Discard)
	return &server.Server{
		Config: &config.Config{Primary: config.Primary{Env: "test"}},
		Logger: &logger,
	}
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(testServer()).GlobalErrorHandler
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNewRequestReturnsFreshValue(t *testing.T) {
	proto := &model.EventIDParam{EventID: "stale"}

	first := newRequest(proto)
	first.EventID = "e1"
	second := newRequest(proto)

	assert.NotSame(t, proto, first)
	assert.NotSame(t, first, second)
	assert.Empty(t, second.EventID)
	assert.Equal(t, "stale", proto.EventID)
}

func TestHandleValidationGate(t *testing.T) {
	h := NewHandler(testServer())
	called := false

	e := newEcho()
	e.POST("/events", Handle(h, func(c echo.Context, req *model.CreateEventPayload) (Envelope[string], error) {
		called = true
		return Envelope[string]{Message: "ok", Data: req.Name}, nil
	}, http.StatusCreated, &model.CreateEventPayload{}))

	rec := do(e, http.MethodPost, "/events", `{"description":"no name"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)

	rec = do(e, http.MethodPost, "/events", `{"name":"Gig","startsAt":"2026-11-07T19:30:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"ok","data":"Gig"}`, rec.Body.String())
	assert.True(t, called)
}

func TestHandleReturnsHandlerError(t *testing.T) {
	h := NewHandler(testServer())
	boom := errors.New("boom")

	e := echo.New()
	var got error
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		got = err
		_ = c.NoContent(http.StatusInternalServerError)
	}
	e.GET("/events/:eventId", Handle(h, func(c echo.Context, req *model.EventIDParam) (Envelope[string], error) {
		return Envelope[string]{}, boom
	}, http.StatusOK, &model.EventIDParam{}))

	rec := do(e, http.MethodGet, "/events/e1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.ErrorIs(t, got, boom)
}

func TestHandleLookup(t *testing.T) {
	h := NewHandler(testServer())

	e := newEcho()
	e.GET("/events/:eventId", HandleLookup(h, func(c echo.Context, req *model.EventIDParam) (Envelope[string], bool, error) {
		if req.EventID != "e1" {
			return Envelope[string]{}, false, nil
		}
		return Envelope[string]{Message: "found", Data: req.EventID}, true, nil
	}, http.StatusOK, &model.EventIDParam{}, "Event not found"))

	t.Run("found", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/events/e1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"found","data":"e1"}`, rec.Body.String())
	})

	t.Run("not found body is exactly the message", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/events/abc", "")
		require.Equal(t, http.StatusNotFound, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, map[string]any{"message": "Event not found"}, body)
	})
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []int{}, nonNil[int](nil))
	assert.Equal(t, []int{1}, nonNil([]int{1}))
}

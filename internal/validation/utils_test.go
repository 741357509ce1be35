package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/events-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	ID    string `param:"id" json:"-" validate:"required,identifier"`
	Title string `json:"title" validate:"required,max=5"`
	Count int    `json:"count" validate:"gte=0"`
}

func (r *sampleRequest) Validate() error {
	return Validator().Struct(r)
}

type customRequest struct {
	Window string `query:"window"`
}

func (r *customRequest) Validate() error {
	if r.Window == "bad" {
		return CustomValidationErrors{{Field: "window", Message: "must be good"}}
	}
	if r.Window == "boom" {
		return errors.New("window exploded")
	}
	return nil
}

func newContext(method, target, body string, params map[string]string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	for name, value := range params {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}
	return c
}

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	return httpErr
}

func TestBindAndValidateSuccess(t *testing.T) {
	c := newContext(http.MethodPatch, "/items/abc", `{"title":"hello","count":2}`, map[string]string{"id": "abc"})

	req := &sampleRequest{}
	require.NoError(t, BindAndValidate(c, req))
	assert.Equal(t, "abc", req.ID)
	assert.Equal(t, "hello", req.Title)
	assert.Equal(t, 2, req.Count)
}

func TestBindAndValidateFieldErrorsUseJSONNames(t *testing.T) {
	c := newContext(http.MethodPatch, "/items/a.b", `{"title":"too long title","count":-1}`, map[string]string{"id": "a.b"})

	httpErr := requireHTTPError(t, BindAndValidate(c, &sampleRequest{}))
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.True(t, httpErr.Override)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "id", Error: "must contain only letters, digits, '-' or '_'"},
		{Field: "title", Error: "must not exceed 5 characters"},
		{Field: "count", Error: "must be greater than or equal to 0"},
	}, httpErr.Errors)
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	c := newContext(http.MethodPatch, "/items/abc", `{"title":`, map[string]string{"id": "abc"})

	httpErr := requireHTTPError(t, BindAndValidate(c, &sampleRequest{}))
	assert.NotEmpty(t, httpErr.Message)
	assert.Nil(t, httpErr.Errors)
}

func TestBindAndValidateTypeMismatch(t *testing.T) {
	c := newContext(http.MethodPatch, "/items/abc", `{"title":"ok","count":"many"}`, map[string]string{"id": "abc"})

	httpErr := requireHTTPError(t, BindAndValidate(c, &sampleRequest{}))
	assert.Contains(t, httpErr.Message, "count")
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	c := newContext(http.MethodGet, "/items?window=bad", "", nil)

	httpErr := requireHTTPError(t, BindAndValidate(c, &customRequest{}))
	assert.Equal(t, []errs.FieldError{{Field: "window", Error: "must be good"}}, httpErr.Errors)
}

func TestBindAndValidatePlainError(t *testing.T) {
	c := newContext(http.MethodGet, "/items?window=boom", "", nil)

	httpErr := requireHTTPError(t, BindAndValidate(c, &customRequest{}))
	assert.Equal(t, "Validation failed: window exploded", httpErr.Message)
	assert.Nil(t, httpErr.Errors)
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("3f1c8e1a-5f51-4b8e-9a51-7d7c3a2b1e90"))
	assert.False(t, IsValidUUID("abc"))
	assert.False(t, IsValidUUID("3f1c8e1a5f514b8e9a517d7c3a2b1e90"))
}

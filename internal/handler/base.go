package handler

import (
	"net/http"
	"reflect"
	"time"

	"github.com/deppfellow/events-api/internal/middleware"
	"github.com/deppfellow/events-api/internal/server"
	"github.com/deppfellow/events-api/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler holds the shared application dependencies.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint that receives a validated request.
// Req is a pointer type so the binder can populate it.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncLookup is a typed endpoint addressing a single resource.
// found=false renders the not-found response instead of Res.
type HandlerFuncLookup[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, bool, error)

// ResponseHandler writes a successful handler result.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error

	// GetOperation names the handler kind in logs.
	GetOperation() string

	AddAttributes(txn *newrelic.Transaction, result interface{})
}

type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is set by EnhanceTracing.
}

// lookupResult carries a single-resource result through the pipeline.
type lookupResult struct {
	value interface{}
	found bool
}

// LookupResponseHandler writes the result with status when found and
// exactly {"message": notFoundMessage} with 404 otherwise.
type LookupResponseHandler struct {
	status          int
	notFoundMessage string
}

func (h LookupResponseHandler) Handle(c echo.Context, result interface{}) error {
	r := result.(lookupResult)
	if !r.found {
		return c.JSON(http.StatusNotFound, MessageResponse{Message: h.notFoundMessage})
	}
	return c.JSON(h.status, r.value)
}

func (h LookupResponseHandler) GetOperation() string {
	return "handler_lookup"
}

func (h LookupResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if r, ok := result.(lookupResult); ok && txn != nil {
		txn.AddAttribute("lookup.found", r.found)
	}
}

// newRequest returns a zero value of the type req points to, so no bound
// state survives between requests sharing a route.
func newRequest[Req validation.Validatable](req Req) Req {
	t := reflect.TypeOf(req)
	if t == nil || t.Kind() != reflect.Pointer {
		return req
	}
	return reflect.New(t.Elem()).Interface().(Req)
}

// handleRequest is the shared pipeline: bind and validate, run the handler,
// write the response. Each phase is logged and timed, and attributed on the
// New Relic transaction when there is one.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(txn, nil)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", c.Request().Method).
		Str("route", route).
		Logger()

	logger.Info().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	logger.Debug().
		Dur("validation_duration", validationDuration).
		Msg("request validation successful")

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle registers a typed handler that answers with JSON and status.
//
//	g.POST("", handler.Handle(h.Handler, h.CreateEvent, http.StatusCreated, &model.CreateEventPayload{}))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleLookup registers a typed single-resource handler. A not-found
// result is answered with 404 and {"message": notFoundMessage}.
func HandleLookup[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFuncLookup[Req, Res],
	status int,
	req Req,
	notFoundMessage string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			res, found, err := handler(c, req)
			if err != nil {
				return nil, err
			}
			return lookupResult{value: res, found: found}, nil
		}, LookupResponseHandler{status: status, notFoundMessage: notFoundMessage})
	}
}

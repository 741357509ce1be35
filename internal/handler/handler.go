// Package handler is the first layer after the router.
//
// Every route runs the same pipeline: bind the request into a fresh value,
// validate it, call the service, and write the JSON envelope. Errors are
// returned to the global error handler, never written here.
package handler

import (
	"github.com/deppfellow/events-api/internal/server"
	"github.com/deppfellow/events-api/internal/service"
)

// Handlers groups all HTTP handlers so the router receives one value.
type Handlers struct {
	Events  *EventHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Events:  NewEventHandler(s, services.Events),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}

package router

import (
	"net/http"

	"github.com/deppfellow/events-api/internal/handler"
	"github.com/deppfellow/events-api/internal/model"
	"github.com/labstack/echo/v4"
)

func registerEventRoutes(g *echo.Group, h *handler.Handlers) {
	events := h.Events

	g.GET("", handler.Handle(events.Handler, events.ListEvents, http.StatusOK, &model.EventsSearchParams{}))
	g.POST("", handler.Handle(events.Handler, events.CreateEvent, http.StatusCreated, &model.CreateEventPayload{}))

	g.GET("/:eventId", handler.HandleLookup(events.Handler, events.GetEvent, http.StatusOK, &model.EventIDParam{}, handler.MsgEventNotFound))
	g.PATCH("/:eventId", handler.HandleLookup(events.Handler, events.UpdateEvent, http.StatusOK, &model.UpdateEventRequest{}, handler.MsgEventNotFound))
	g.DELETE("/:eventId", handler.HandleLookup(events.Handler, events.DeleteEvent, http.StatusOK, &model.EventIDParam{}, handler.MsgEventNotFound))

	g.GET("/:eventId/tickets", handler.Handle(events.Handler, events.GetTickets, http.StatusOK, &model.EventIDParam{}))
}

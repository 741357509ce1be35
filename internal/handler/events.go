package handler

import (
	"context"

	"github.com/deppfellow/events-api/internal/model"
	"github.com/deppfellow/events-api/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	msgEventsRetrieved  = "Events retrieved successfully"
	msgEventCreated     = "Event created successfully"
	msgEventRetrieved   = "Event retrieved successfully"
	msgEventUpdated     = "Event updated successfully"
	msgEventDeleted     = "Event deleted successfully"
	msgTicketsRetrieved = "Tickets retrieved successfully"

	// MsgEventNotFound is the whole body of a 404 on /events/:eventId.
	MsgEventNotFound = "Event not found"
)

// EventService is what the events routes delegate to.
type EventService interface {
	GetEvents(ctx context.Context, params *model.EventsSearchParams) ([]model.Event, error)
	CreateEvent(ctx context.Context, payload *model.CreateEventPayload) (model.Event, error)
	GetEvent(ctx context.Context, id string) (model.Event, bool, error)
	UpdateEvent(ctx context.Context, payload model.UpdateEventPayload, id string) (model.Event, bool, error)
	DeleteEvent(ctx context.Context, id string) (model.Event, bool, error)
	GetTickets(ctx context.Context, id string) ([]model.Ticket, error)
}

type EventHandler struct {
	Handler
	events EventService
}

func NewEventHandler(s *server.Server, events EventService) *EventHandler {
	return &EventHandler{
		Handler: NewHandler(s),
		events:  events,
	}
}

func (h *EventHandler) ListEvents(c echo.Context, params *model.EventsSearchParams) (ListEnvelope[model.Event, *model.EventsSearchParams], error) {
	events, err := h.events.GetEvents(c.Request().Context(), params)
	if err != nil {
		return ListEnvelope[model.Event, *model.EventsSearchParams]{}, err
	}

	return ListEnvelope[model.Event, *model.EventsSearchParams]{
		Message:      msgEventsRetrieved,
		Data:         nonNil(events),
		SearchParams: params,
	}, nil
}

func (h *EventHandler) CreateEvent(c echo.Context, payload *model.CreateEventPayload) (Envelope[model.Event], error) {
	event, err := h.events.CreateEvent(c.Request().Context(), payload)
	if err != nil {
		return Envelope[model.Event]{}, err
	}

	return Envelope[model.Event]{Message: msgEventCreated, Data: event}, nil
}

func (h *EventHandler) GetEvent(c echo.Context, req *model.EventIDParam) (Envelope[model.Event], bool, error) {
	event, found, err := h.events.GetEvent(c.Request().Context(), req.EventID)
	return Envelope[model.Event]{Message: msgEventRetrieved, Data: event}, found, err
}

func (h *EventHandler) UpdateEvent(c echo.Context, req *model.UpdateEventRequest) (Envelope[model.Event], bool, error) {
	event, found, err := h.events.UpdateEvent(c.Request().Context(), req.Payload(), req.EventID)
	return Envelope[model.Event]{Message: msgEventUpdated, Data: event}, found, err
}

// DeleteEvent answers 200 with the deleted event rather than 204.
func (h *EventHandler) DeleteEvent(c echo.Context, req *model.EventIDParam) (Envelope[model.Event], bool, error) {
	event, found, err := h.events.DeleteEvent(c.Request().Context(), req.EventID)
	return Envelope[model.Event]{Message: msgEventDeleted, Data: event}, found, err
}

func (h *EventHandler) GetTickets(c echo.Context, req *model.EventIDParam) (Envelope[[]model.Ticket], error) {
	tickets, err := h.events.GetTickets(c.Request().Context(), req.EventID)
	if err != nil {
		return Envelope[[]model.Ticket]{}, err
	}

	return Envelope[[]model.Ticket]{Message: msgTicketsRetrieved, Data: nonNil(tickets)}, nil
}

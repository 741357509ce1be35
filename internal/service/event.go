package service

import (
	"context"
	"strings"
	"time"

	"github.com/deppfellow/events-api/internal/lib/job"
	"github.com/deppfellow/events-api/internal/model"
	"github.com/rs/zerolog"
)

// notifyTimeout bounds the enqueue that follows a delete.
const notifyTimeout = 5 * time.Second

// EventStore is the persistence the event service needs.
type EventStore interface {
	List(ctx context.Context, f model.EventFilter) ([]model.Event, error)
	Create(ctx context.Context, p model.CreateEventPayload) (model.Event, error)
	GetByID(ctx context.Context, id string) (model.Event, bool, error)
	Update(ctx context.Context, id string, p model.UpdateEventPayload) (model.Event, bool, error)
	// Delete returns the deleted event with the tickets removed alongside it.
	Delete(ctx context.Context, id string) (model.Event, []model.Ticket, bool, error)
}

// TicketStore reads tickets per event.
type TicketStore interface {
	ListByEvent(ctx context.Context, eventID string) ([]model.Ticket, error)
}

// CancellationNotifier schedules emails to holders of a deleted event.
type CancellationNotifier interface {
	EnqueueEventCancelled(ctx context.Context, p job.EventCancelledPayload) error
}

// EventService implements the event operations behind the /events routes.
// Every lookup by id reports found=false instead of an error when the
// event does not exist.
type EventService struct {
	events   EventStore
	tickets  TicketStore
	notifier CancellationNotifier
	logger   *zerolog.Logger
}

// NewEventService builds the service. notifier may be nil to disable
// cancellation emails.
func NewEventService(events EventStore, tickets TicketStore, notifier CancellationNotifier, logger *zerolog.Logger) *EventService {
	return &EventService{
		events:   events,
		tickets:  tickets,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *EventService) GetEvents(ctx context.Context, params *model.EventsSearchParams) ([]model.Event, error) {
	events, err := s.events.List(ctx, params.Filter())
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (s *EventService) CreateEvent(ctx context.Context, payload *model.CreateEventPayload) (model.Event, error) {
	event, err := s.events.Create(ctx, *payload)
	if err != nil {
		return model.Event{}, err
	}

	s.logger.Info().
		Str("event_id", event.ID).
		Msg("event created")

	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (model.Event, bool, error) {
	return s.events.GetByID(ctx, id)
}

func (s *EventService) UpdateEvent(ctx context.Context, payload model.UpdateEventPayload, id string) (model.Event, bool, error) {
	return s.events.Update(ctx, id, payload)
}

// DeleteEvent removes the event and its tickets in one step, then queues a
// cancellation email for every distinct holder of a ticket that was still active.
// A failed enqueue is logged; the delete has already happened.
func (s *EventService) DeleteEvent(ctx context.Context, id string) (model.Event, bool, error) {
	event, tickets, found, err := s.events.Delete(ctx, id)
	if err != nil || !found {
		return model.Event{}, found, err
	}

	s.logger.Info().
		Str("event_id", event.ID).
		Int("tickets", len(tickets)).
		Msg("event deleted")

	s.notifyCancelled(ctx, event, tickets)

	return event, true, nil
}

func (s *EventService) notifyCancelled(ctx context.Context, event model.Event, tickets []model.Ticket) {
	if s.notifier == nil {
		return
	}

	recipients := cancellationRecipients(tickets)
	if len(recipients) == 0 {
		return
	}

	// The event is already gone; a client disconnect must not drop the notifications.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	err := s.notifier.EnqueueEventCancelled(ctx, job.EventCancelledPayload{
		EventID:    event.ID,
		EventName:  event.Name,
		StartsAt:   event.StartsAt,
		Recipients: recipients,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("event_id", event.ID).
			Int("recipients", len(recipients)).
			Msg("failed to enqueue event cancellation notifications")
	}
}

// cancellationRecipients returns one recipient per email address among active tickets.
func cancellationRecipients(tickets []model.Ticket) []job.Recipient {
	seen := make(map[string]bool, len(tickets))
	var recipients []job.Recipient

	for _, t := range tickets {
		if !t.Active() || t.HolderEmail == "" {
			continue
		}
		key := strings.ToLower(t.HolderEmail)
		if seen[key] {
			continue
		}
		seen[key] = true
		recipients = append(recipients, job.Recipient{Email: t.HolderEmail, Name: t.HolderName})
	}
	return recipients
}

// GetTickets lists the event's tickets. An unknown event has no tickets.
func (s *EventService) GetTickets(ctx context.Context, id string) ([]model.Ticket, error) {
	return s.tickets.ListByEvent(ctx, id)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/events-api/internal/metrics"
	"github.com/deppfellow/events-api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, name, description, location, starts_at, ends_at, capacity, created_at, updated_at`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EventRepository reads and writes the events table.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func scanEvent(row pgx.Row) (model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Description,
		&e.Location,
		&e.StartsAt,
		&e.EndsAt,
		&e.Capacity,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// List returns one page of events ordered by start time.
// Name and location filters are case-insensitive substring matches.
func (r *EventRepository) List(ctx context.Context, f model.EventFilter) (events []model.Event, err error) {
	defer func(start time.Time) { metrics.RecordQuery("list_events", start, err) }(time.Now())

	const query = `
SELECT ` + eventColumns + `
FROM events
WHERE ($1::text IS NULL OR name ILIKE $1)
  AND ($2::text IS NULL OR location ILIKE $2)
  AND ($3::timestamptz IS NULL OR starts_at >= $3)
  AND ($4::timestamptz IS NULL OR starts_at <= $4)
ORDER BY starts_at ASC NULLS LAST, id ASC
LIMIT $5 OFFSET $6`

	rows, err := r.pool.Query(ctx, query,
		containsPattern(f.Name),
		containsPattern(f.Location),
		f.StartsAfter,
		f.StartsBefore,
		f.Limit,
		f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events = []model.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// Create inserts a new event with a generated id.
func (r *EventRepository) Create(ctx context.Context, p model.CreateEventPayload) (event model.Event, err error) {
	defer func(start time.Time) { metrics.RecordQuery("create_event", start, err) }(time.Now())

	const stmt = `
INSERT INTO events (id, name, description, location, starts_at, ends_at, capacity)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + eventColumns

	event, err = scanEvent(r.pool.QueryRow(ctx, stmt,
		uuid.NewString(),
		p.Name,
		p.Description,
		p.Location,
		p.StartsAt,
		p.EndsAt,
		p.Capacity,
	))
	if err != nil {
		return model.Event{}, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// GetByID returns found=false when no event has the id.
func (r *EventRepository) GetByID(ctx context.Context, id string) (event model.Event, found bool, err error) {
	defer func(start time.Time) { metrics.RecordQuery("get_event", start, err) }(time.Now())

	const query = `
SELECT ` + eventColumns + `
FROM events
WHERE id = $1`

	event, err = scanEvent(r.pool.QueryRow(ctx, query, id))
	return lookupResult("get event", event, err)
}

// Update applies the non-nil fields of p and bumps updated_at.
// found is false when no event has the id.
func (r *EventRepository) Update(ctx context.Context, id string, p model.UpdateEventPayload) (event model.Event, found bool, err error) {
	defer func(start time.Time) { metrics.RecordQuery("update_event", start, err) }(time.Now())

	const stmt = `
UPDATE events SET
    name        = COALESCE($2, name),
    description = COALESCE($3, description),
    location    = COALESCE($4, location),
    starts_at   = COALESCE($5, starts_at),
    ends_at     = COALESCE($6, ends_at),
    capacity    = COALESCE($7, capacity),
    updated_at  = NOW()
WHERE id = $1
RETURNING ` + eventColumns

	event, err = scanEvent(r.pool.QueryRow(ctx, stmt,
		id,
		p.Name,
		p.Description,
		p.Location,
		p.StartsAt,
		p.EndsAt,
		p.Capacity,
	))
	return lookupResult("update event", event, err)
}

// Delete removes the event and returns the deleted row with the tickets the
// cascade removed. The event row is locked before the tickets are read, so a
// concurrent ticket insert either lands in the result or fails its foreign key.
func (r *EventRepository) Delete(ctx context.Context, id string) (event model.Event, tickets []model.Ticket, found bool, err error) {
	defer func(start time.Time) { metrics.RecordQuery("delete_event", start, err) }(time.Now())

	const (
		lock = `SELECT id FROM events WHERE id = $1 FOR UPDATE`
		stmt = `
DELETE FROM events
WHERE id = $1
RETURNING ` + eventColumns
	)

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var lockedID string
		if err := tx.QueryRow(ctx, lock, id).Scan(&lockedID); err != nil {
			return err
		}

		var err error
		if tickets, err = listTickets(ctx, tx, id); err != nil {
			return err
		}

		event, err = scanEvent(tx.QueryRow(ctx, stmt, id))
		return err
	})

	switch {
	case err == nil:
		return event, tickets, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return model.Event{}, nil, false, nil
	default:
		return model.Event{}, nil, false, fmt.Errorf("delete event: %w", err)
	}
}

// lookupResult turns pgx.ErrNoRows into found=false and wraps other errors with op.
func lookupResult(op string, event model.Event, err error) (model.Event, bool, error) {
	switch {
	case err == nil:
		return event, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return model.Event{}, false, nil
	default:
		return model.Event{}, false, fmt.Errorf("%s: %w", op, err)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns an ILIKE pattern matching s anywhere, or nil for no filter.
func containsPattern(s string) *string {
	if s == "" {
		return nil
	}
	pattern := "%" + likeEscaper.Replace(s) + "%"
	return &pattern
}

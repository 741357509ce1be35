package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/events-api/internal/metrics"
	"github.com/deppfellow/events-api/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TicketRepository reads the tickets table.
type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

// ListByEvent returns the event's tickets in purchase order.
// An unknown event yields an empty list.
func (r *TicketRepository) ListByEvent(ctx context.Context, eventID string) (tickets []model.Ticket, err error) {
	defer func(start time.Time) { metrics.RecordQuery("list_tickets", start, err) }(time.Now())

	return listTickets(ctx, r.pool, eventID)
}

func listTickets(ctx context.Context, q querier, eventID string) ([]model.Ticket, error) {
	// price travels as text so the decimal keeps its exact scale.
	const query = `
SELECT id, event_id, holder_name, holder_email, seat, price::text, status, created_at
FROM tickets
WHERE event_id = $1
ORDER BY created_at ASC, id ASC`

	rows, err := q.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := []model.Ticket{}
	for rows.Next() {
		var (
			t     model.Ticket
			price string
		)
		if err := rows.Scan(&t.ID, &t.EventID, &t.HolderName, &t.HolderEmail, &t.Seat, &price, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		if t.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse ticket %s price %q: %w", t.ID, price, err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return tickets, nil
}

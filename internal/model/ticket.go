package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	TicketStatusReserved  TicketStatus = "reserved"
	TicketStatusPaid      TicketStatus = "paid"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// Ticket belongs to exactly one event and is only ever read in bulk per event.
type Ticket struct {
	ID          string          `json:"id"`
	EventID     string          `json:"eventId"`
	HolderName  string          `json:"holderName"`
	HolderEmail string          `json:"holderEmail"`
	Seat        *string         `json:"seat"`
	Price       decimal.Decimal `json:"price"`
	Status      TicketStatus    `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Active reports whether the ticket still entitles its holder to attend.
func (t Ticket) Active() bool {
	return t.Status != TicketStatusCancelled
}

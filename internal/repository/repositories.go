package repository

import (
	"github.com/deppfellow/events-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Events  *EventRepository
	Tickets *TicketRepository
}

// NewRepositories builds every repository on the server's database pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Events:  NewEventRepository(s.DB.Pool),
		Tickets: NewTicketRepository(s.DB.Pool),
	}
}

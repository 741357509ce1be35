package service

import (
	"github.com/deppfellow/events-api/internal/lib/job"
	"github.com/deppfellow/events-api/internal/repository"
	"github.com/deppfellow/events-api/internal/server"
)

type Services struct {
	Events *EventService
	Job    *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var notifier CancellationNotifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Events: NewEventService(repos.Events, repos.Tickets, notifier, s.Logger),
		Job:    s.Job,
	}, nil
}

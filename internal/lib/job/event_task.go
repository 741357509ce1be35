package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskEventCancelled is the job type name stored in Redis.
	TaskEventCancelled = "event:cancelled"
)

// Recipient is a ticket holder to notify.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// EventCancelledPayload is the JSON payload of the event:cancelled task.
// It is a snapshot: the event row is already gone when the task runs.
type EventCancelledPayload struct {
	EventID    string      `json:"event_id"`
	EventName  string      `json:"event_name"`
	StartsAt   *time.Time  `json:"starts_at,omitempty"`
	Recipients []Recipient `json:"recipients"`
}

// NewEventCancelledTask builds the task: up to 3 retries on the default
// queue, each run limited to 30 seconds.
func NewEventCancelledTask(p EventCancelledPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskEventCancelled,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}

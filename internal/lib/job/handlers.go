package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deppfellow/events-api/internal/config"
	"github.com/deppfellow/events-api/internal/lib/email"
	"github.com/deppfellow/events-api/internal/metrics"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// CancellationMailer sends the cancellation email to one holder.
type CancellationMailer interface {
	SendEventCancelledEmail(e email.EventCancelledEmail) error
}

// InitHandlers wires the dependencies the task handlers need.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.mailer = email.NewClient(cfg, logger)
}

// handleEventCancelledTask emails every recipient of the payload.
//
// All recipients are attempted; if any send fails the joined error is
// returned so asynq retries the task.
func (j *JobService) handleEventCancelledTask(ctx context.Context, t *asynq.Task) (err error) {
	defer func() { metrics.JobsProcessedTotal.WithLabelValues(TaskEventCancelled, metrics.Result(err)).Inc() }()

	var p EventCancelledPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Retrying cannot fix a malformed payload.
		return fmt.Errorf("failed to unmarshal event cancelled payload: %v: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskEventCancelled).
		Str("event_id", p.EventID).
		Logger()

	log.Info().Int("recipients", len(p.Recipients)).Msg("Processing event cancelled task")

	var failures []error
	for _, r := range p.Recipients {
		if ctx.Err() != nil {
			failures = append(failures, ctx.Err())
			break
		}

		sendErr := j.mailer.SendEventCancelledEmail(email.EventCancelledEmail{
			To:         r.Email,
			HolderName: r.Name,
			EventID:    p.EventID,
			EventName:  p.EventName,
			StartsAt:   p.StartsAt,
		})
		if sendErr != nil {
			log.Error().Err(sendErr).Str("to", r.Email).Msg("Failed to send event cancelled email")
			failures = append(failures, fmt.Errorf("%s: %w", r.Email, sendErr))
		}
	}

	if len(failures) > 0 {
		return errors.Join(failures...)
	}

	log.Info().Msg("Successfully sent event cancelled emails")
	return nil
}

// Package model holds the event and ticket types shared by the repository,
// service and handler layers, together with the request payloads and the
// validation rules each request must pass before it reaches the service.
package model

import (
	"time"

	"github.com/deppfellow/events-api/internal/validation"
)

// Event is a scheduled event. ID is an opaque identifier assigned on create.
type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Capacity    *int       `json:"capacity"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// EventIDParam is the validated :eventId route parameter.
type EventIDParam struct {
	EventID string `param:"eventId" json:"-" validate:"required,max=128,identifier"`
}

func (p *EventIDParam) Validate() error {
	return validation.Validator().Struct(p)
}

// CreateEventPayload is the POST /events body.
type CreateEventPayload struct {
	Name        string     `json:"name" validate:"required,min=1,max=255,text"`
	Description string     `json:"description" validate:"max=2000,text"`
	Location    string     `json:"location" validate:"max=255,text"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Capacity    *int       `json:"capacity" validate:"omitempty,min=1,max=2147483647"`
}

func (p *CreateEventPayload) Validate() error {
	if err := validation.Validator().Struct(p); err != nil {
		return err
	}
	if p.StartsAt != nil && p.EndsAt != nil && !p.EndsAt.After(*p.StartsAt) {
		return validation.CustomValidationErrors{
			{Field: "endsAt", Message: "must be after startsAt"},
		}
	}
	return nil
}

// UpdateEventPayload holds the fields of a partial update. Nil means unchanged.
type UpdateEventPayload struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=255,text"`
	Description *string    `json:"description" validate:"omitempty,max=2000,text"`
	Location    *string    `json:"location" validate:"omitempty,max=255,text"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Capacity    *int       `json:"capacity" validate:"omitempty,min=1,max=2147483647"`
}

// UpdateEventRequest is PATCH /events/:eventId: the route id plus the JSON body.
//
// EventID is bound from the path only; the json:"-" tag keeps a body field
// from overriding it.
type UpdateEventRequest struct {
	EventID string `param:"eventId" json:"-" validate:"required,max=128,identifier"`
	UpdateEventPayload
}

func (r *UpdateEventRequest) Validate() error {
	if err := validation.Validator().Struct(r); err != nil {
		return err
	}
	// Ordering against the stored value is enforced by the events_ends_at_check constraint.
	if r.StartsAt != nil && r.EndsAt != nil && !r.EndsAt.After(*r.StartsAt) {
		return validation.CustomValidationErrors{
			{Field: "endsAt", Message: "must be after startsAt"},
		}
	}
	return nil
}

// Payload returns the body part of the request.
func (r *UpdateEventRequest) Payload() UpdateEventPayload {
	return r.UpdateEventPayload
}

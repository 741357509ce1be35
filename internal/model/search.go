package model

import (
	"time"

	"github.com/deppfellow/events-api/internal/validation"
)

// DefaultEventsLimit is the page size used when the client sends no limit.
const DefaultEventsLimit = 20

// EventsSearchParams is the validated query string of GET /events.
//
// The exported fields are echoed back to the client as searchParams, so
// keys the client did not send are omitted while an explicit limit or
// offset is echoed as sent. The time window is parsed once
// during Validate and kept on the value.
type EventsSearchParams struct {
	Name         string `query:"name" json:"name,omitempty" validate:"max=255,text"`
	Location     string `query:"location" json:"location,omitempty" validate:"max=255,text"`
	StartsAfter  string `query:"startsAfter" json:"startsAfter,omitempty" validate:"text"`
	StartsBefore string `query:"startsBefore" json:"startsBefore,omitempty" validate:"text"`
	Limit        *int   `query:"limit" json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Offset       *int   `query:"offset" json:"offset,omitempty" validate:"omitempty,gte=0"`

	startsAfter  *time.Time
	startsBefore *time.Time
}

func (p *EventsSearchParams) Validate() error {
	if err := validation.Validator().Struct(p); err != nil {
		return err
	}

	var problems validation.CustomValidationErrors

	after, ok := parseTimestamp(p.StartsAfter)
	if !ok {
		problems = append(problems, validation.CustomValidationError{Field: "startsAfter", Message: "must be an RFC3339 timestamp"})
	}
	before, ok := parseTimestamp(p.StartsBefore)
	if !ok {
		problems = append(problems, validation.CustomValidationError{Field: "startsBefore", Message: "must be an RFC3339 timestamp"})
	}
	if after != nil && before != nil && before.Before(*after) {
		problems = append(problems, validation.CustomValidationError{Field: "startsBefore", Message: "must not be before startsAfter"})
	}
	if len(problems) > 0 {
		return problems
	}

	p.startsAfter, p.startsBefore = after, before
	return nil
}

// EventFilter is the storage-level form of the search params.
type EventFilter struct {
	Name         string
	Location     string
	StartsAfter  *time.Time
	StartsBefore *time.Time
	Limit        int
	Offset       int
}

// Filter converts validated params into an EventFilter with defaults applied.
func (p EventsSearchParams) Filter() EventFilter {
	limit, offset := DefaultEventsLimit, 0
	if p.Limit != nil {
		limit = *p.Limit
	}
	if p.Offset != nil {
		offset = *p.Offset
	}
	return EventFilter{
		Name:         p.Name,
		Location:     p.Location,
		StartsAfter:  p.startsAfter,
		StartsBefore: p.startsBefore,
		Limit:        limit,
		Offset:       offset,
	}
}

// parseTimestamp returns (nil, true) for an empty value.
func parseTimestamp(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, false
	}
	return &t, true
}

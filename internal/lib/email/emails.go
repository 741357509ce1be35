package email

import (
	"fmt"
	"time"
)

// EventCancelledEmail carries what the cancellation template needs.
type EventCancelledEmail struct {
	To         string
	HolderName string
	EventID    string
	EventName  string
	StartsAt   *time.Time
}

func (e EventCancelledEmail) templateData() map[string]string {
	name := e.HolderName
	if name == "" {
		name = "there"
	}
	data := map[string]string{
		"HolderName": name,
		"EventID":    e.EventID,
		"EventName":  e.EventName,
	}
	if e.StartsAt != nil {
		data["StartsAt"] = e.StartsAt.UTC().Format("Monday, January 2, 2006 at 15:04 MST")
	}
	return data
}

// SendEventCancelledEmail tells a ticket holder their event will not take place.
func (c *Client) SendEventCancelledEmail(e EventCancelledEmail) error {
	return c.SendEmail(
		e.To,
		fmt.Sprintf("Cancelled: %s", e.EventName),
		TemplateEventCancelled,
		e.templateData(),
	)
}

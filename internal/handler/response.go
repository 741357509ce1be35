package handler

// MessageResponse is a body carrying only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// Envelope is the success body of every resource route.
type Envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// ListEnvelope is an Envelope over a list that also echoes the search params.
type ListEnvelope[T any, P any] struct {
	Message      string `json:"message"`
	Data         []T    `json:"data"`
	SearchParams P      `json:"searchParams"`
}

// nonNil keeps empty lists rendering as [] instead of null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

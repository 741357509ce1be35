// Package service contains the event operations the HTTP layer delegates to.
//
// It sits between the handler and repository layers and owns the side
// effects of a change, such as queueing cancellation emails after a delete.
package service

// Package errs defines the error shapes returned to API clients.
//
// HTTPError is the single JSON error body of the service: validation
// failures, unknown routes, rate limiting and unexpected failures all
// render through it so every error response carries a message.
package errs

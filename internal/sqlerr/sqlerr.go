// Package sqlerr specifically handles database driver errors.
//
// It parses SQLSTATE codes from the pgx driver and converts them into
// user-friendly HTTP errors (e.g. a CHECK violation on events becomes a
// 400 with "The Ends At value does not meet required conditions").
package sqlerr

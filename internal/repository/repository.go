// Package repository holds the PostgreSQL queries for events and tickets.
//
// Lookups by id return found=false instead of pgx.ErrNoRows, so callers
// never inspect driver errors to detect a missing row.
package repository

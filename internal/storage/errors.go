package storage

import "errors"

// Storage errors shared by all implementations.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a row whose key already
	// exists. Panel rows are never updated in place; a refresh window
	// supersedes them by deleting the tail and re-inserting.
	ErrDuplicateKey = errors.New("duplicate key: rows are superseded by refresh, not updated")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

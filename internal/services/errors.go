package services

import "errors"

// Shared service-level error kinds. Every multi-step operation translates
// underlying store errors into exactly one of these families before
// returning; raw database errors never reach the handlers.
var (
	// ErrValidation covers missing or malformed input.
	ErrValidation = errors.New("validation error")

	// ErrTransactionFailure covers a store operation aborting mid-sequence.
	// All partial writes are rolled back before it is returned.
	ErrTransactionFailure = errors.New("transaction failure")
)

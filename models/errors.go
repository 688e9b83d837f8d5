package models

import "errors"

// Domain error taxonomy. Handlers map these onto HTTP status codes with
// errors.Is; repositories and services wrap them with context via %w.
var (
	// ErrValidation covers missing or malformed required fields.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers lookups of unknown formulas, items or orders.
	ErrNotFound = errors.New("not found")

	// ErrInvalidFormula is returned when a formula's ingredient list is
	// empty or its total ratio is not positive.
	ErrInvalidFormula = errors.New("invalid formula")

	// ErrInsufficientStock is returned when a ledger adjustment would
	// drive an item's quantity negative. The whole batch is aborted.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidProgress is returned when manufactured/rejected counts
	// are negative or exceed the ordered quantity.
	ErrInvalidProgress = errors.New("invalid progress")

	// ErrConflict signals a write race (duplicate order id, concurrent
	// progress update). Callers retry; it is not surfaced to users.
	ErrConflict = errors.New("conflict")
)

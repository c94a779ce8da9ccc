package plans

import "errors"

var (
	// ErrNotFound is returned when a referenced plan, gathering, comment, user or game does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvariant marks a stored record that breaks the data model, e.g. a plan without an owner.
	ErrInvariant = errors.New("invariant violation")

	ErrValidation    = errors.New("invalid input")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrGatheringFull = errors.New("gathering is full")
	ErrGatheringPast = errors.New("gathering is in the past")
)

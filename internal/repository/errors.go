package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateReference is returned when a transaction reference collides
	// with an existing ledger entry.
	ErrDuplicateReference = errors.New("duplicate transaction reference")
)

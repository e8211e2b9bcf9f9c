package domain

import "errors"

var (
	// ErrNotFound is returned when a lookup or row-targeting write matches no row.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("already exists")
)

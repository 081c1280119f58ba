package domain

import "errors"

// Common errors
var (
	// ErrNotFound is returned when an entity is not found in the database.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when an insert hits a unique constraint.
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrDayFull is returned by slot reservation when every candidate minute
	// of a (platform, day) bucket is already occupied.
	ErrDayFull = errors.New("day fully booked")

	// ErrInvalidMetadata is returned when a campaign's metadata blob cannot
	// be decoded at all.
	ErrInvalidMetadata = errors.New("invalid campaign metadata")
)

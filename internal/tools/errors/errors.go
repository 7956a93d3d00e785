package errors

import "errors"

var (
	ErrNotFound = errors.New("tool not found")

	ErrInvalidID = errors.New("invalid tool ID format")

	ErrHasActiveBookings = errors.New("tool has active bookings")
)

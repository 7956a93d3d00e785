package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrToolNotFound = errors.New("tool not found")

	ErrDateConflict = errors.New("requested dates conflict with an existing booking")

	ErrInvalidDateRange = errors.New("end date must not be before start date")

	ErrNotCancellable = errors.New("booking cannot be cancelled in its current status")
)

package errors

import "errors"

var (
	ErrNotFound = errors.New("feedback not found")

	ErrInvalidID = errors.New("invalid feedback ID format")

	ErrToolNotFound = errors.New("tool not found")
)

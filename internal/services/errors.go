package services

import "errors"

var (
	// ErrInvalidDateKey is returned for a date key that is not a real
	// calendar date (e.g. "2025-02-29" or month 13).
	ErrInvalidDateKey = errors.New("invalid date key")

	// ErrInvalidTimestamp is returned for a non-positive epoch-millisecond
	// creation timestamp.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrInvalidMonth is returned for a malformed "YYYY-MM" month filter.
	ErrInvalidMonth = errors.New("invalid month filter")

	// ErrNotFound is returned when a journal id does not exist under the owner.
	ErrNotFound = errors.New("journal not found")
)

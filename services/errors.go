package services

import (
	"errors"
	"fmt"
)

// Engine rejection and lookup errors. Controllers map these onto HTTP
// statuses; none of them is retried inside the engine.
var (
	ErrClosedDay         = errors.New("restaurant closed on this day")
	ErrOutsideHours      = errors.New("time not inside a serving period")
	ErrCapacityExceeded  = errors.New("no capacity available for this period")
	ErrNoTableAvailable  = errors.New("no table available for this party")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflicting state")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError rejects malformed input before it reaches the engine.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

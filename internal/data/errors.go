package data

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrCapacityImmutable = errors.New("slot capacity cannot change after creation")
	ErrReservationLimit  = errors.New("monthly reservation limit reached for this professional's plan")
)

// LimitError carries the numbers behind a plan limit rejection.
type LimitError struct {
	Err      error
	Current  int
	Limit    int
	PlanName string
}

func (e *LimitError) Error() string { return e.Err.Error() }
func (e *LimitError) Unwrap() error { return e.Err }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
}

package persistence

import (
	"errors"

	"github.com/example/class-scheduler/internal/scheduler"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrConflict is returned when a session collides with an existing booking.
	ErrConflict = errors.New("persistence: conflicting session")
)

// ConflictError names the booking a rejected session collided with.
type ConflictError struct {
	Conflict scheduler.Conflict
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return "persistence: session conflicts with " + e.Conflict.With.Format() + " (" + string(e.Conflict.Type) + ")"
}

// Is allows errors.Is(err, ErrConflict).
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

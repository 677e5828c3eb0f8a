package application

import "errors"

var (
	// ErrConflict is returned when a booking collides with an existing session.
	ErrConflict = errors.New("application: slot already booked")
	// ErrNotFound is returned when no booking occupies the requested slot.
	ErrNotFound = errors.New("application: no class booked for slot")
	// ErrNoSessions is returned when a listing has nothing to show.
	ErrNoSessions = errors.New("application: no scheduled sessions")
)

package scheduler

import "strings"

// ConflictType describes why two sessions cannot both be scheduled.
type ConflictType string

const (
	// ConflictTypeRoom indicates a room is double-booked.
	ConflictTypeRoom ConflictType = "room"
	// ConflictTypeClass indicates a class would meet in two rooms at once.
	ConflictTypeClass ConflictType = "class"
)

// Conflict details the existing session a candidate collides with.
type Conflict struct {
	With Session
	Type ConflictType
}

// Conflicts reports whether a and b cannot both be booked. Sessions on
// different days, or whose intervals only touch, never conflict. Overlapping
// sessions conflict when they share a room, or when the same class would be
// in two different rooms. The relation is symmetric.
func Conflicts(a, b Session) bool {
	_, ok := conflictType(a, b)
	return ok
}

func conflictType(a, b Session) (ConflictType, bool) {
	if !a.Overlaps(b.Slot) {
		return "", false
	}
	if strings.EqualFold(a.Room, b.Room) {
		return ConflictTypeRoom, true
	}
	if strings.EqualFold(a.ClassName, b.ClassName) {
		return ConflictTypeClass, true
	}
	return "", false
}

// DetectConflict returns the first existing session the candidate
// conflicts with.
func DetectConflict(existing []Session, candidate Session) (Conflict, bool) {
	for _, session := range existing {
		if kind, ok := conflictType(session, candidate); ok {
			return Conflict{With: session, Type: kind}, true
		}
	}
	return Conflict{}, false
}

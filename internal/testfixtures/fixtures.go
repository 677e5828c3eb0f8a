package testfixtures

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/class-scheduler/internal/scheduler"
)

var sessionCounter uint64

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// SessionOption configures a generated session.
type SessionOption func(*scheduler.Session)

// NewSession returns a valid Monday 09:00-10:00 lecture in a unique room for
// a unique class, with optional overrides.
func NewSession(opts ...SessionOption) scheduler.Session {
	idx := atomic.AddUint64(&sessionCounter, 1)
	session := scheduler.Session{
		Slot: scheduler.Slot{
			Day:   scheduler.Monday,
			Start: scheduler.OpeningTime,
			End:   scheduler.OpeningTime.Add(time.Hour),
			Room:  fmt.Sprintf("R%03d", idx),
		},
		ClassName:   fmt.Sprintf("C%03d", idx),
		Description: scheduler.DescriptionLecture,
	}
	for _, opt := range opts {
		opt(&session)
	}
	return session
}

// WithDay overrides the session day.
func WithDay(day scheduler.Day) SessionOption {
	return func(s *scheduler.Session) {
		s.Day = day
	}
}

// WithHours places the session at [startHour:00, endHour:00).
func WithHours(startHour, endHour int) SessionOption {
	return func(s *scheduler.Session) {
		s.Start = scheduler.At(startHour, 0)
		s.End = scheduler.At(endHour, 0)
	}
}

// WithRoom overrides the room.
func WithRoom(room string) SessionOption {
	return func(s *scheduler.Session) {
		s.Room = room
	}
}

// WithClass overrides the class name.
func WithClass(className string) SessionOption {
	return func(s *scheduler.Session) {
		s.ClassName = className
	}
}

// WithDescription overrides the description.
func WithDescription(description string) SessionOption {
	return func(s *scheduler.Session) {
		s.Description = description
	}
}

// MustParseSession parses a six-field session string or fails the test.
func MustParseSession(tb testing.TB, value string) scheduler.Session {
	tb.Helper()
	session, err := scheduler.Parse(value)
	if err != nil {
		tb.Fatalf("failed to parse session %q: %v", value, err)
	}
	return session
}

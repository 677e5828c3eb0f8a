package scheduler

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time with minute resolution, stored as minutes
// since midnight.
type TimeOfDay int

const (
	// OpeningTime is the earliest start accepted for a session.
	OpeningTime TimeOfDay = 9 * 60
	// ClosingTime is the latest end accepted for a session.
	ClosingTime TimeOfDay = 18 * 60
)

const clockLayout = "15:04"

// ParseTimeOfDay parses a zero-padded HH:MM value.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	if len(value) != len(clockLayout) {
		return 0, fmt.Errorf("time %q must use HH:MM", value)
	}
	parsed, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, fmt.Errorf("time %q must use HH:MM", value)
	}
	return TimeOfDay(parsed.Hour()*60 + parsed.Minute()), nil
}

// At builds a TimeOfDay from an hour and minute.
func At(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// String formats the time as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Add returns the time shifted by d, truncated to the minute.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d/time.Minute)
}

// Sub returns the duration between u and t.
func (t TimeOfDay) Sub(u TimeOfDay) time.Duration {
	return time.Duration(t-u) * time.Minute
}

package persistence

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/example/class-scheduler/internal/scheduler"
)

const formattedSeparator = ", "

// ScheduleStore is the process-wide in-memory schedule. Every method runs
// under a single mutex, so readers never observe a partially applied
// mutation and at most one operation touches the schedule at a time.
// Sessions are kept ordered by day and start time.
type ScheduleStore struct {
	mu       sync.Mutex
	sessions []scheduler.Session
}

// NewScheduleStore returns an empty schedule.
func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{}
}

// Add books the session unless it conflicts with an existing one, in which
// case a *ConflictError is returned and the schedule is unchanged.
func (s *ScheduleStore) Add(session scheduler.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conflict, ok := scheduler.DetectConflict(s.sessions, session); ok {
		return &ConflictError{Conflict: conflict}
	}

	s.sessions = append(s.sessions, session)
	s.sortLocked()
	return nil
}

// Remove frees the first booking occupying slot and returns it.
func (s *ScheduleStore) Remove(slot scheduler.Slot) (scheduler.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, session := range s.sessions {
		if session.SameSlot(slot) {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			return session, nil
		}
	}
	return scheduler.Session{}, ErrNotFound
}

// Sessions returns a copy of the schedule in order.
func (s *ScheduleStore) Sessions() []scheduler.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]scheduler.Session(nil), s.sessions...)
}

// Len reports the number of booked sessions.
func (s *ScheduleStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// AllFormatted renders every session, comma-space joined.
func (s *ScheduleStore) AllFormatted() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return joinFormatted(s.sessions, func(scheduler.Session) bool { return true })
}

// FormattedFor renders the sessions of one class. The class name must match
// exactly, unlike conflict detection which ignores case.
func (s *ScheduleStore) FormattedFor(className string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return joinFormatted(s.sessions, func(session scheduler.Session) bool {
		return session.ClassName == className
	})
}

// GroupByDay partitions copies of the sessions by bookable day. Every
// bookable day is present, with an empty slice when nothing is scheduled.
func (s *ScheduleStore) GroupByDay() map[scheduler.Day][]scheduler.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.groupByDayLocked()
}

// Optimize shifts in-scope sessions to their earliest conflict-free start.
// The lock is held for the whole run; the per-day work happens on copies and
// the schedule is replaced only once every day has finished.
func (s *ScheduleStore) Optimize(ctx context.Context, scope scheduler.Scope) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shifted, moved, err := scheduler.ShiftEarliest(ctx, s.groupByDayLocked(), scope)
	if err != nil {
		return 0, err
	}

	days := make([]scheduler.Day, 0, len(shifted))
	for day := range shifted {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	rebuilt := make([]scheduler.Session, 0, len(s.sessions))
	for _, day := range days {
		rebuilt = append(rebuilt, shifted[day]...)
	}
	s.sessions = rebuilt
	s.sortLocked()
	return moved, nil
}

func (s *ScheduleStore) groupByDayLocked() map[scheduler.Day][]scheduler.Session {
	days := scheduler.BookableDays()
	grouped := make(map[scheduler.Day][]scheduler.Session, len(days))
	for _, day := range days {
		grouped[day] = []scheduler.Session{}
	}
	for _, session := range s.sessions {
		grouped[session.Day] = append(grouped[session.Day], session)
	}
	return grouped
}

func (s *ScheduleStore) sortLocked() {
	sort.SliceStable(s.sessions, func(i, j int) bool {
		if s.sessions[i].Day != s.sessions[j].Day {
			return s.sessions[i].Day < s.sessions[j].Day
		}
		return s.sessions[i].Start < s.sessions[j].Start
	})
}

func joinFormatted(sessions []scheduler.Session, keep func(scheduler.Session) bool) string {
	parts := make([]string, 0, len(sessions))
	for _, session := range sessions {
		if keep(session) {
			parts = append(parts, session.Format())
		}
	}
	return strings.Join(parts, formattedSeparator)
}

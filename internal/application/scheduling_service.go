package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/class-scheduler/internal/persistence"
	"github.com/example/class-scheduler/internal/scheduler"
)

// SessionStore captures the schedule operations needed by the service.
type SessionStore interface {
	Add(session scheduler.Session) error
	Remove(slot scheduler.Slot) (scheduler.Session, error)
	AllFormatted() string
	FormattedFor(className string) string
	Optimize(ctx context.Context, scope scheduler.Scope) (int, error)
}

// CommandJournal records applied and rejected schedule commands.
type CommandJournal interface {
	Record(ctx context.Context, entry persistence.JournalEntry) error
}

// SchedulingService books, frees, lists and rearranges sessions on the
// shared schedule.
type SchedulingService struct {
	store       SessionStore
	journal     CommandJournal
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSchedulingService wires dependencies for schedule operations. The
// journal is optional.
func NewSchedulingService(store SessionStore, journal CommandJournal, idGenerator func() string, now func() time.Time) *SchedulingService {
	return NewSchedulingServiceWithLogger(store, journal, idGenerator, now, nil)
}

// NewSchedulingServiceWithLogger constructs the service with a specified logger.
func NewSchedulingServiceWithLogger(store SessionStore, journal CommandJournal, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SchedulingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SchedulingService{
		store:       store,
		journal:     journal,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *SchedulingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SchedulingService", operation, attrs...)
}

// Book adds the session unless it conflicts with an existing booking.
func (s *SchedulingService) Book(ctx context.Context, session scheduler.Session) (err error) {
	if s == nil || s.store == nil {
		return fmt.Errorf("SchedulingService is not configured")
	}

	logger := s.loggerWith(ctx, "Book", "session", session.Format())
	defer func() {
		s.recordOutcome(ctx, logger, "ADD", session.Format(), err)
		if err != nil {
			logger.WarnContext(ctx, "session rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "session booked")
	}()

	if err = session.Validate(); err != nil {
		return err
	}

	if err = s.store.Add(session); err != nil {
		return mapStoreError(err)
	}
	return nil
}

// Cancel frees the slot and returns the booking that occupied it.
func (s *SchedulingService) Cancel(ctx context.Context, slot scheduler.Slot) (removed scheduler.Session, err error) {
	if s == nil || s.store == nil {
		return scheduler.Session{}, fmt.Errorf("SchedulingService is not configured")
	}

	logger := s.loggerWith(ctx, "Cancel", "slot", slot.String())
	defer func() {
		s.recordOutcome(ctx, logger, "REMOVE", slot.String(), err)
		if err != nil {
			logger.WarnContext(ctx, "slot not freed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "slot freed", "class_name", removed.ClassName)
	}()

	removed, err = s.store.Remove(slot)
	if err != nil {
		return scheduler.Session{}, mapStoreError(err)
	}
	return removed, nil
}

// Display renders the sessions selected by scope in schedule order.
// Class scopes match the class name exactly.
func (s *SchedulingService) Display(ctx context.Context, scope scheduler.Scope) (string, error) {
	if s == nil || s.store == nil {
		return "", fmt.Errorf("SchedulingService is not configured")
	}

	var formatted string
	if scope.IsAll() {
		formatted = s.store.AllFormatted()
	} else {
		formatted = s.store.FormattedFor(scope.ClassName())
	}
	if formatted == "" {
		s.loggerWith(ctx, "Display", "scope", scope.String()).DebugContext(ctx, "nothing to display")
		return "", ErrNoSessions
	}
	return formatted, nil
}

// ShiftEarly moves in-scope sessions to their earliest conflict-free start.
// Class scopes match case-insensitively. It returns how many sessions moved.
func (s *SchedulingService) ShiftEarly(ctx context.Context, scope scheduler.Scope) (moved int, err error) {
	if s == nil || s.store == nil {
		return 0, fmt.Errorf("SchedulingService is not configured")
	}

	logger := s.loggerWith(ctx, "ShiftEarly", "scope", scope.String())
	start := time.Now()
	defer func() {
		s.recordOutcome(ctx, logger, "EARLY_LECTURES", scope.String(), err)
		if err != nil {
			logger.ErrorContext(ctx, "failed to shift sessions", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "sessions shifted", "moved", moved, "duration", time.Since(start))
	}()

	return s.store.Optimize(ctx, scope)
}

// Stop journals a termination request.
func (s *SchedulingService) Stop(ctx context.Context) {
	if s == nil {
		return
	}
	logger := s.loggerWith(ctx, "Stop")
	s.recordOutcome(ctx, logger, "STOP", "", nil)
	logger.InfoContext(ctx, "termination requested")
}

func (s *SchedulingService) recordOutcome(ctx context.Context, logger *slog.Logger, command, arguments string, err error) {
	if s.journal == nil {
		return
	}
	outcome := persistence.OutcomeApplied
	if err != nil {
		outcome = persistence.OutcomeRejected
	}
	entry := persistence.JournalEntry{
		ID:         s.idGenerator(),
		Command:    command,
		Arguments:  arguments,
		Outcome:    outcome,
		RecordedAt: s.now(),
	}
	if jErr := s.journal.Record(ctx, entry); jErr != nil {
		logger.ErrorContext(ctx, "failed to journal command", "command", command, "error", jErr)
	}
}

func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	}
	return err
}

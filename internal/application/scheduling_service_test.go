package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/class-scheduler/internal/persistence"
	"github.com/example/class-scheduler/internal/scheduler"
)

type sessionStoreStub struct {
	added     []scheduler.Session
	addErr    error
	removed   scheduler.Session
	removeErr error
	all       string
	byClass   map[string]string
	moved     int
	optErr    error
	scope     scheduler.Scope
}

func (s *sessionStoreStub) Add(session scheduler.Session) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.added = append(s.added, session)
	return nil
}

func (s *sessionStoreStub) Remove(slot scheduler.Slot) (scheduler.Session, error) {
	if s.removeErr != nil {
		return scheduler.Session{}, s.removeErr
	}
	return s.removed, nil
}

func (s *sessionStoreStub) AllFormatted() string {
	return s.all
}

func (s *sessionStoreStub) FormattedFor(className string) string {
	return s.byClass[className]
}

func (s *sessionStoreStub) Optimize(ctx context.Context, scope scheduler.Scope) (int, error) {
	s.scope = scope
	if s.optErr != nil {
		return 0, s.optErr
	}
	return s.moved, nil
}

type journalStub struct {
	entries []persistence.JournalEntry
	err     error
}

func (j *journalStub) Record(ctx context.Context, entry persistence.JournalEntry) error {
	if j.err != nil {
		return j.err
	}
	j.entries = append(j.entries, entry)
	return nil
}

var fixedNow = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func newTestService(store SessionStore, journal CommandJournal) *SchedulingService {
	return NewSchedulingService(store, journal, func() string { return "entry-1" }, func() time.Time { return fixedNow })
}

func mustSession(t *testing.T, value string) scheduler.Session {
	t.Helper()
	session, err := scheduler.Parse(value)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", value, err)
	}
	return session
}

func TestSchedulingService_Book(t *testing.T) {
	t.Parallel()

	t.Run("stores valid session and journals it", func(t *testing.T) {
		t.Parallel()
		store := &sessionStoreStub{}
		journal := &journalStub{}
		svc := newTestService(store, journal)

		session := mustSession(t, "MONDAY 09:00 10:00 R1 CS101 LECTURE")
		if err := svc.Book(context.Background(), session); err != nil {
			t.Fatalf("Book returned error: %v", err)
		}
		if len(store.added) != 1 || !store.added[0].Equal(session) {
			t.Fatalf("expected session to reach the store, got %v", store.added)
		}
		if len(journal.entries) != 1 {
			t.Fatalf("expected one journal entry, got %d", len(journal.entries))
		}
		entry := journal.entries[0]
		if entry.ID != "entry-1" || entry.Command != "ADD" || entry.Outcome != persistence.OutcomeApplied || !entry.RecordedAt.Equal(fixedNow) {
			t.Fatalf("unexpected journal entry %+v", entry)
		}
		if entry.Arguments != session.Format() {
			t.Fatalf("expected arguments %q, got %q", session.Format(), entry.Arguments)
		}
	})

	t.Run("rejects invalid session before touching store", func(t *testing.T) {
		t.Parallel()
		store := &sessionStoreStub{}
		journal := &journalStub{}
		svc := newTestService(store, journal)

		session := mustSession(t, "MONDAY 09:00 10:00 R1 CS101 LECTURE")
		session.Day = scheduler.Saturday
		err := svc.Book(context.Background(), session)
		if !errors.Is(err, scheduler.ErrMalformedInput) {
			t.Fatalf("expected malformed input, got %v", err)
		}
		if len(store.added) != 0 {
			t.Fatalf("store must not be called for invalid sessions")
		}
		if len(journal.entries) != 1 || journal.entries[0].Outcome != persistence.OutcomeRejected {
			t.Fatalf("expected rejected journal entry, got %+v", journal.entries)
		}
	})

	t.Run("maps store conflict", func(t *testing.T) {
		t.Parallel()
		store := &sessionStoreStub{addErr: &persistence.ConflictError{}}
		svc := newTestService(store, nil)

		err := svc.Book(context.Background(), mustSession(t, "MONDAY 09:00 10:00 R1 CS101 LECTURE"))
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if ErrorKind(err) != "conflict" {
			t.Fatalf("expected conflict error kind, got %q", ErrorKind(err))
		}
	})

	t.Run("journal failure does not fail booking", func(t *testing.T) {
		t.Parallel()
		store := &sessionStoreStub{}
		svc := newTestService(store, &journalStub{err: errors.New("disk full")})

		if err := svc.Book(context.Background(), mustSession(t, "MONDAY 09:00 10:00 R1 CS101 LECTURE")); err != nil {
			t.Fatalf("expected booking to succeed, got %v", err)
		}
	})
}

func TestSchedulingService_Cancel(t *testing.T) {
	t.Parallel()

	slot, err := scheduler.ParseSlot("MONDAY 09:00 10:00 R1")
	if err != nil {
		t.Fatalf("ParseSlot: %v", err)
	}

	t.Run("returns removed session", func(t *testing.T) {
		t.Parallel()
		booked := mustSession(t, "MONDAY 09:00 10:00 R1 CS101 LECTURE")
		journal := &journalStub{}
		svc := newTestService(&sessionStoreStub{removed: booked}, journal)

		removed, err := svc.Cancel(context.Background(), slot)
		if err != nil {
			t.Fatalf("Cancel returned error: %v", err)
		}
		if !removed.Equal(booked) {
			t.Fatalf("expected %v, got %v", booked, removed)
		}
		if journal.entries[0].Command != "REMOVE" || journal.entries[0].Arguments != slot.String() {
			t.Fatalf("unexpected journal entry %+v", journal.entries[0])
		}
	})

	t.Run("maps not found", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(&sessionStoreStub{removeErr: persistence.ErrNotFound}, nil)

		_, err := svc.Cancel(context.Background(), slot)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSchedulingService_Display(t *testing.T) {
	t.Parallel()

	store := &sessionStoreStub{
		all:     "MONDAY 09:00 10:00 R1 CS101 LECTURE",
		byClass: map[string]string{"CS101": "MONDAY 09:00 10:00 R1 CS101 LECTURE"},
	}
	svc := newTestService(store, nil)

	tests := []struct {
		name    string
		scope   scheduler.Scope
		want    string
		wantErr error
	}{
		{name: "all", scope: scheduler.AllSessions(), want: store.all},
		{name: "class", scope: scheduler.ClassScope("CS101"), want: store.byClass["CS101"]},
		{name: "unknown class", scope: scheduler.ClassScope("CS999"), wantErr: ErrNoSessions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Display(context.Background(), tt.scope)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}

	empty := newTestService(&sessionStoreStub{}, nil)
	if _, err := empty.Display(context.Background(), scheduler.AllSessions()); !errors.Is(err, ErrNoSessions) {
		t.Fatalf("expected ErrNoSessions on empty schedule, got %v", err)
	}
}

func TestSchedulingService_ShiftEarly(t *testing.T) {
	t.Parallel()

	store := &sessionStoreStub{moved: 3}
	journal := &journalStub{}
	svc := newTestService(store, journal)

	moved, err := svc.ShiftEarly(context.Background(), scheduler.ClassScope("CS101"))
	if err != nil {
		t.Fatalf("ShiftEarly returned error: %v", err)
	}
	if moved != 3 {
		t.Fatalf("expected 3 sessions moved, got %d", moved)
	}
	if store.scope.ClassName() != "CS101" {
		t.Fatalf("expected scope to reach the store, got %v", store.scope)
	}
	if journal.entries[0].Command != "EARLY_LECTURES" || journal.entries[0].Arguments != "CS101" {
		t.Fatalf("unexpected journal entry %+v", journal.entries[0])
	}

	failing := newTestService(&sessionStoreStub{optErr: context.Canceled}, nil)
	if _, err := failing.ShiftEarly(context.Background(), scheduler.AllSessions()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation to propagate, got %v", err)
	}
}

func TestSchedulingService_Stop(t *testing.T) {
	t.Parallel()

	journal := &journalStub{}
	newTestService(&sessionStoreStub{}, journal).Stop(context.Background())
	if len(journal.entries) != 1 || journal.entries[0].Command != "STOP" {
		t.Fatalf("expected STOP to be journaled, got %+v", journal.entries)
	}
}

func TestSchedulingService_RequiresStore(t *testing.T) {
	t.Parallel()

	svc := NewSchedulingService(nil, nil, nil, nil)
	if err := svc.Book(context.Background(), scheduler.Session{}); err == nil {
		t.Fatalf("expected error from unconfigured service")
	}
}

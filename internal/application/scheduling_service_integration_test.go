package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/example/class-scheduler/internal/application"
	"github.com/example/class-scheduler/internal/persistence"
	"github.com/example/class-scheduler/internal/scheduler"
	"github.com/example/class-scheduler/internal/testfixtures"
)

func TestSchedulingServiceAgainstScheduleStore(t *testing.T) {
	t.Parallel()

	fixture := testfixtures.NewServiceFactory().NewSchedulingFixture()
	ctx := context.Background()

	first := testfixtures.MustParseSession(t, "TUESDAY 11:00 12:00 R1 CS101 LECTURE")
	if err := fixture.Service.Book(ctx, first); err != nil {
		t.Fatalf("Book(first): %v", err)
	}

	clash := testfixtures.MustParseSession(t, "TUESDAY 11:30 12:30 r1 MA201 TUTORIAL")
	var conflict *persistence.ConflictError
	if err := fixture.Service.Book(ctx, clash); !errors.Is(err, application.ErrConflict) || !errors.As(err, &conflict) {
		t.Fatalf("expected room conflict, got %v", err)
	}
	if conflict.Conflict.Type != scheduler.ConflictTypeRoom {
		t.Fatalf("expected room conflict type, got %q", conflict.Conflict.Type)
	}

	moved, err := fixture.Service.ShiftEarly(ctx, scheduler.AllSessions())
	if err != nil || moved != 1 {
		t.Fatalf("expected one session moved, got %d, %v", moved, err)
	}
	listing, err := fixture.Service.Display(ctx, scheduler.ClassScope("CS101"))
	if err != nil {
		t.Fatalf("Display: %v", err)
	}
	if listing != "TUESDAY 09:00 10:00 R1 CS101 LECTURE" {
		t.Fatalf("unexpected listing %q", listing)
	}

	entries := fixture.Journal.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 journal entries, got %d", len(entries))
	}
	if entries[0].ID != "journal-1" || entries[1].Outcome != persistence.OutcomeRejected {
		t.Fatalf("unexpected journal entries %+v", entries)
	}
}

func TestSchedulingServiceJournalsToSQLite(t *testing.T) {
	t.Parallel()

	clock := testfixtures.NewClock(time.Time{})
	factory := testfixtures.NewServiceFactory(
		testfixtures.WithClock(clock),
		testfixtures.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	journal := testfixtures.NewSQLiteJournal(t)
	service, store := factory.NewSchedulingService(journal)
	ctx := context.Background()

	session := testfixtures.NewSession(
		testfixtures.WithDay(scheduler.Wednesday),
		testfixtures.WithHours(13, 14),
		testfixtures.WithRoom("LAB1"),
		testfixtures.WithClass("PH110"),
		testfixtures.WithDescription(scheduler.DescriptionLab),
	)
	if err := service.Book(ctx, session); err != nil {
		t.Fatalf("Book: %v", err)
	}

	clock.Advance(time.Minute)
	removed, err := service.Cancel(ctx, session.Slot)
	if err != nil || removed.ClassName != "PH110" {
		t.Fatalf("Cancel: %v, %v", removed, err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected an empty schedule, got %d sessions", store.Len())
	}

	clock.Advance(time.Minute)
	if _, err := service.Cancel(ctx, session.Slot); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	entries, err := journal.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []struct {
		id        string
		command   string
		arguments string
		outcome   string
		at        time.Time
	}{
		{"journal-3", "REMOVE", "WEDNESDAY 13:00 14:00 LAB1", persistence.OutcomeRejected, testfixtures.ReferenceTime().Add(2 * time.Minute)},
		{"journal-2", "REMOVE", "WEDNESDAY 13:00 14:00 LAB1", persistence.OutcomeApplied, testfixtures.ReferenceTime().Add(time.Minute)},
		{"journal-1", "ADD", "WEDNESDAY 13:00 14:00 LAB1 PH110 LAB", persistence.OutcomeApplied, testfixtures.ReferenceTime()},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d journal entries, got %+v", len(want), entries)
	}
	for i, w := range want {
		got := entries[i]
		if got.ID != w.id || got.Command != w.command || got.Arguments != w.arguments || got.Outcome != w.outcome {
			t.Fatalf("entry %d: unexpected %+v", i, got)
		}
		if !got.RecordedAt.Equal(w.at) {
			t.Fatalf("entry %d: expected recorded at %v, got %v", i, w.at, got.RecordedAt)
		}
	}
}

func TestSchedulingServiceSurvivesJournalFailure(t *testing.T) {
	t.Parallel()

	fixture := testfixtures.NewServiceFactory().NewSchedulingFixture()
	fixture.Journal.Err = errors.New("disk full")

	session := testfixtures.NewSession()
	if err := fixture.Service.Book(context.Background(), session); err != nil {
		t.Fatalf("booking should not depend on the journal: %v", err)
	}
	if fixture.Store.Len() != 1 {
		t.Fatalf("expected the session to be stored")
	}
	if len(fixture.Journal.Entries()) != 0 {
		t.Fatalf("failed journal should hold no entries")
	}
}

package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/class-scheduler/internal/persistence"
	"github.com/example/class-scheduler/internal/scheduler"
	"github.com/example/class-scheduler/internal/testfixtures"
)

func TestScheduleStore_OptimizeAcrossDays(t *testing.T) {
	t.Parallel()

	anchor := testfixtures.NewSession(testfixtures.WithRoom("LAB1"), testfixtures.WithClass("PH110"))
	sameClass := testfixtures.NewSession(
		testfixtures.WithHours(11, 12),
		testfixtures.WithRoom("LAB2"),
		testfixtures.WithClass("ph110"),
		testfixtures.WithDescription(scheduler.DescriptionTutorial),
	)
	otherDay := testfixtures.NewSession(testfixtures.WithDay(scheduler.Thursday), testfixtures.WithHours(14, 16))
	untouched := testfixtures.NewSession(testfixtures.WithDay(scheduler.Friday))

	store := persistence.NewScheduleStore()
	for _, session := range []scheduler.Session{untouched, otherDay, sameClass, anchor} {
		if err := store.Add(session); err != nil {
			t.Fatalf("Add(%s) failed: %v", session.Format(), err)
		}
	}

	moved, err := store.Optimize(context.Background(), scheduler.AllSessions())
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if moved != 2 {
		t.Fatalf("expected two moved sessions, got %d", moved)
	}

	sessions := store.Sessions()
	if len(sessions) != 4 {
		t.Fatalf("expected four sessions, got %v", sessions)
	}
	want := []scheduler.Session{
		anchor,
		sameClass.WithTimes(scheduler.At(10, 0), scheduler.At(11, 0)),
		otherDay.WithTimes(scheduler.OpeningTime, scheduler.At(11, 0)),
		untouched,
	}
	for i := range want {
		if sessions[i].Format() != want[i].Format() {
			t.Fatalf("session %d: expected %q, got %q", i, want[i].Format(), sessions[i].Format())
		}
	}
}

func TestScheduleStore_ClassConflictIgnoresCase(t *testing.T) {
	t.Parallel()

	store := persistence.NewScheduleStore()
	first := testfixtures.NewSession(testfixtures.WithClass("CS101"))
	if err := store.Add(first); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	clash := testfixtures.NewSession(testfixtures.WithClass("cs101"), testfixtures.WithDescription(scheduler.DescriptionLab))
	var conflict *persistence.ConflictError
	if err := store.Add(clash); !errors.Is(err, persistence.ErrConflict) || !errors.As(err, &conflict) {
		t.Fatalf("expected class conflict, got %v", err)
	}
	if conflict.Conflict.Type != scheduler.ConflictTypeClass {
		t.Fatalf("expected class conflict type, got %q", conflict.Conflict.Type)
	}
	if store.Len() != 1 {
		t.Fatalf("rejected session must not be stored")
	}
}

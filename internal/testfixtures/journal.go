package testfixtures

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/example/class-scheduler/internal/persistence"
	"github.com/example/class-scheduler/internal/persistence/sqlite"
)

// RecordingJournal keeps journal entries in memory. Setting Err makes every
// Record call fail.
type RecordingJournal struct {
	mu      sync.Mutex
	entries []persistence.JournalEntry
	Err     error
}

// Record stores the entry unless Err is set.
func (j *RecordingJournal) Record(_ context.Context, entry persistence.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return j.Err
	}
	j.entries = append(j.entries, entry)
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *RecordingJournal) Recent(_ context.Context, limit int) ([]persistence.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]persistence.JournalEntry, 0, limit)
	for i := len(j.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.entries[i])
	}
	return out, nil
}

// Entries returns the recorded entries in insertion order.
func (j *RecordingJournal) Entries() []persistence.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]persistence.JournalEntry(nil), j.entries...)
}

// NewSQLiteJournal opens a journal in a temporary database file that is
// closed when the test ends.
func NewSQLiteJournal(tb testing.TB) *sqlite.Journal {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "journal.db")
	journal, err := sqlite.OpenJournal(context.Background(), sqlite.DefaultConfig(path))
	if err != nil {
		tb.Fatalf("failed to open sqlite journal: %v", err)
	}
	tb.Cleanup(func() {
		_ = journal.Close()
	})
	return journal
}

package persistence

import "context"

// JournalRepository stores the command audit trail.
type JournalRepository interface {
	Record(ctx context.Context, entry JournalEntry) error
	Recent(ctx context.Context, limit int) ([]JournalEntry, error)
}

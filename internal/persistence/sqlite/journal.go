package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/class-scheduler/internal/persistence"
)

// Journal is the SQLite-backed command audit trail. It is written after
// each schedule command and only ever read back for inspection.
type Journal struct {
	pool *ConnectionPool
}

var _ persistence.JournalRepository = (*Journal)(nil)

// OpenJournal opens the database and brings its schema up to date.
func OpenJournal(ctx context.Context, cfg Config) (*Journal, error) {
	pool, err := OpenPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	journal := &Journal{pool: pool}
	if _, err := journal.Migrate(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return journal, nil
}

// Migrate applies pending schema migrations and returns how many ran.
func (j *Journal) Migrate(ctx context.Context) (int, error) {
	return applyMigrations(ctx, j.pool, journalMigrations)
}

// SchemaVersions lists the applied migration versions in order.
func (j *Journal) SchemaVersions(ctx context.Context) ([]string, error) {
	return appliedVersions(ctx, j.pool.DB())
}

// Close releases the database.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.pool.Close()
}

// Record appends an entry.
func (j *Journal) Record(ctx context.Context, entry persistence.JournalEntry) error {
	return j.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO command_journal (id, command, arguments, outcome, recorded_at) VALUES (?, ?, ?, ?, ?)`,
			entry.ID, entry.Command, entry.Arguments, entry.Outcome, entry.RecordedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("failed to insert journal entry: %w", err)
		}
		return nil
	})
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]persistence.JournalEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := j.pool.DB().QueryContext(ctx,
		`SELECT id, command, arguments, outcome, recorded_at FROM command_journal ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	entries := make([]persistence.JournalEntry, 0, limit)
	for rows.Next() {
		var (
			entry      persistence.JournalEntry
			recordedAt string
		)
		if err := rows.Scan(&entry.ID, &entry.Command, &entry.Arguments, &entry.Outcome, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entry.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid recorded_at %q: %w", recordedAt, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal: %w", err)
	}
	return entries, nil
}

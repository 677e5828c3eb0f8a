package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// migration is one versioned schema change. Versions are applied in slice
// order and recorded in schema_migrations so each runs once.
type migration struct {
	Version     string
	Description string
	Statements  []string
}

var journalMigrations = []migration{
	{
		Version:     "001",
		Description: "create command journal",
		Statements: []string{`
CREATE TABLE IF NOT EXISTS command_journal (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	command     TEXT NOT NULL,
	arguments   TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	recorded_at TEXT NOT NULL
)`},
	},
	{
		Version:     "002",
		Description: "index journal by command",
		Statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_command_journal_command ON command_journal (command, seq)`,
		},
	},
}

const versionTableSchema = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version           TEXT PRIMARY KEY,
	description       TEXT NOT NULL,
	applied_at        TEXT NOT NULL,
	execution_time_ms INTEGER NOT NULL
)`

// MigrationError identifies the migration that failed.
type MigrationError struct {
	Version   string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %s failed during %s: %v", e.Version, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *MigrationError) Unwrap() error {
	return e.Err
}

func applyMigrations(ctx context.Context, pool *ConnectionPool, migrations []migration) (int, error) {
	if _, err := pool.DB().ExecContext(ctx, versionTableSchema); err != nil {
		return 0, &MigrationError{Operation: "create schema_migrations", Err: err}
	}

	applied, err := appliedVersions(ctx, pool.DB())
	if err != nil {
		return 0, err
	}
	done := make(map[string]struct{}, len(applied))
	for _, v := range applied {
		done[v] = struct{}{}
	}

	count := 0
	for _, m := range migrations {
		if _, ok := done[m.Version]; ok {
			continue
		}
		if len(m.Statements) == 0 {
			return count, &MigrationError{Version: m.Version, Operation: "parse", Err: errors.New("no SQL statements")}
		}

		start := time.Now()
		err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			for i, stmt := range m.Statements {
				if _, err := tx.ExecContext(ctx, strings.TrimSpace(stmt)); err != nil {
					return &MigrationError{Version: m.Version, Operation: fmt.Sprintf("statement %d", i+1), Err: err}
				}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, description, applied_at, execution_time_ms) VALUES (?, ?, ?, ?)`,
				m.Version, m.Description, time.Now().UTC().Format(time.RFC3339), time.Since(start).Milliseconds(),
			)
			if err != nil {
				return &MigrationError{Version: m.Version, Operation: "record", Err: err}
			}
			return nil
		})
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations ORDER BY version ASC`)
	if err != nil {
		return nil, &MigrationError{Operation: "list applied versions", Err: err}
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, &MigrationError{Operation: "scan applied version", Err: err}
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &MigrationError{Operation: "list applied versions", Err: err}
	}
	return versions, nil
}

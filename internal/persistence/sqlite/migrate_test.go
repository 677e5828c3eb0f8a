package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func TestJournal_MigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	journal := newTestJournal(t)

	versions, err := journal.SchemaVersions(ctx)
	if err != nil {
		t.Fatalf("SchemaVersions failed: %v", err)
	}
	if !slices.Equal(versions, []string{"001", "002"}) {
		t.Fatalf("unexpected applied versions %v", versions)
	}

	ran, err := journal.Migrate(ctx)
	if err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}
	if ran != 0 {
		t.Fatalf("expected no pending migrations, %d ran", ran)
	}
}

func TestApplyMigrations_RollsBackFailedVersion(t *testing.T) {
	ctx := context.Background()
	pool, err := OpenPool(ctx, DefaultConfig(filepath.Join(t.TempDir(), "migrate.db")))
	if err != nil {
		t.Fatalf("OpenPool failed: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	migrations := []migration{
		{Version: "001", Description: "ok", Statements: []string{`CREATE TABLE a (id INTEGER)`}},
		{Version: "002", Description: "broken", Statements: []string{`CREATE TABLE b (id INTEGER)`, `CREATE TABLE nonsense (`}},
	}

	ran, err := applyMigrations(ctx, pool, migrations)
	var mErr *MigrationError
	if !errors.As(err, &mErr) || mErr.Version != "002" {
		t.Fatalf("expected MigrationError for 002, got %v", err)
	}
	if ran != 1 {
		t.Fatalf("expected one migration applied before failure, got %d", ran)
	}

	versions, err := appliedVersions(ctx, pool.DB())
	if err != nil {
		t.Fatalf("appliedVersions failed: %v", err)
	}
	if !slices.Equal(versions, []string{"001"}) {
		t.Fatalf("failed migration must not be recorded, got %v", versions)
	}
	var name string
	if err := pool.DB().QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE name = 'b'`).Scan(&name); err == nil {
		t.Fatalf("table from failed migration should have been rolled back")
	}

	if _, err := applyMigrations(ctx, pool, []migration{{Version: "003"}}); err == nil {
		t.Fatalf("expected error for migration without statements")
	}
}

// Package journal records every mutating gvt command in a SQLite database so
// that a command interrupted between staging and pointer update can be
// detected and resolved on the next run.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// FileName is the journal database file inside the repository root.
const FileName = "journal.db"

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Open opens (creating if needed) the journal in root and migrates it.
func Open(ctx context.Context, root string) (*sql.DB, error) {
	dbPath := filepath.Join(root, FileName)
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// One command at a time touches the journal.
	db.SetMaxOpenConns(1)

	if err := verifyWALMode(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// migrate applies schema migrations based on user_version.
func migrate(ctx context.Context, db *sql.DB) error {
	version, err := GetUserVersion(ctx, db)
	if err != nil {
		return err
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS entries (
		  id             TEXT PRIMARY KEY,
		  op             TEXT NOT NULL,
		  file           TEXT,
		  source_version INTEGER NOT NULL,
		  target_version INTEGER NOT NULL,
		  stage_dir      TEXT NOT NULL,
		  content_hash   TEXT,
		  state          TEXT NOT NULL,
		  detail         TEXT,
		  created_at     INTEGER NOT NULL,
		  finished_at    INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_entries_pending
		ON entries(created_at)
		WHERE state = 'pending';

		CREATE INDEX IF NOT EXISTS idx_entries_created
		ON entries(created_at DESC);
		`
		if _, err := db.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(ctx, db, 1); err != nil {
			return err
		}
	}

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(ctx context.Context, db *sql.DB) error {
	var journalMode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(ctx context.Context, db *sql.DB, version int) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

package journal

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// State is the lifecycle state of a journal entry.
type State string

const (
	StatePending   State = "pending"
	StateDone      State = "done"
	StateAborted   State = "aborted"
	StateRecovered State = "recovered"
)

// Entry is one mutating command.
type Entry struct {
	ID            string `json:"id"`
	Op            string `json:"op"`
	File          string `json:"file,omitempty"`
	SourceVersion int    `json:"source_version"`
	TargetVersion int    `json:"target_version"`
	StageDir      string `json:"stage_dir"`
	ContentHash   string `json:"content_hash,omitempty"`
	State         State  `json:"state"`
	Detail        string `json:"detail,omitempty"`
	CreatedAt     int64  `json:"created_at"`
	FinishedAt    *int64 `json:"finished_at,omitempty"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID generates a new ULID for an entry. IDs from one process sort in
// creation order, even within the same millisecond.
func NewID() (string, error) {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Begin inserts a pending entry. e.ID must be set; CreatedAt defaults to now.
func Begin(ctx context.Context, db *sql.DB, e *Entry) error {
	if e.ID == "" {
		return fmt.Errorf("journal entry id is required")
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	e.State = StatePending

	query := `
		INSERT INTO entries (
			id, op, file, source_version, target_version, stage_dir,
			content_hash, state, detail, created_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, NULL)
	`
	_, err := db.ExecContext(ctx, query,
		e.ID, e.Op, toNullString(e.File), e.SourceVersion, e.TargetVersion, e.StageDir,
		toNullString(e.ContentHash), string(e.State), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	return nil
}

// Complete marks an entry done.
func Complete(ctx context.Context, db *sql.DB, id string) error {
	return finish(ctx, db, id, StateDone, "")
}

// Abort marks an entry aborted with a reason.
func Abort(ctx context.Context, db *sql.DB, id, reason string) error {
	return finish(ctx, db, id, StateAborted, reason)
}

// MarkRecovered marks an entry resolved by the recovery pass.
func MarkRecovered(ctx context.Context, db *sql.DB, id, detail string) error {
	return finish(ctx, db, id, StateRecovered, detail)
}

func finish(ctx context.Context, db *sql.DB, id string, state State, detail string) error {
	query := `
		UPDATE entries
		SET state = ?, detail = ?, finished_at = ?
		WHERE id = ? AND state = 'pending'
	`
	result, err := db.ExecContext(ctx, query, string(state), toNullString(detail), time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("journal %s: %w", state, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("journal %s: %w", state, err)
	}
	if n == 0 {
		return fmt.Errorf("journal entry %s is not pending", id)
	}
	return nil
}

// Pending returns pending entries, oldest first.
func Pending(ctx context.Context, db *sql.DB) ([]Entry, error) {
	return query(ctx, db, `
		SELECT id, op, file, source_version, target_version, stage_dir,
			content_hash, state, detail, created_at, finished_at
		FROM entries
		WHERE state = 'pending'
		ORDER BY created_at ASC, id ASC
	`)
}

// Recent returns up to limit entries, newest first.
func Recent(ctx context.Context, db *sql.DB, limit int) ([]Entry, error) {
	return query(ctx, db, `
		SELECT id, op, file, source_version, target_version, stage_dir,
			content_hash, state, detail, created_at, finished_at
		FROM entries
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
}

func query(ctx context.Context, db *sql.DB, q string, args ...any) ([]Entry, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("journal query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                  Entry
			file, hash, detail sql.NullString
			state              string
			finishedAt         sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Op, &file, &e.SourceVersion, &e.TargetVersion, &e.StageDir,
			&hash, &state, &detail, &e.CreatedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		e.File = file.String
		e.ContentHash = hash.String
		e.Detail = detail.String
		e.State = State(state)
		if finishedAt.Valid {
			v := finishedAt.Int64
			e.FinishedAt = &v
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// toNullString maps "" to NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

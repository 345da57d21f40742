//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package staging owns import sessions and the raw rows each session loads
// into staging_devices. A session's rows are only visible to normalization
// of that session, so concurrent imports do not overwrite each other.
package staging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
	"github.com/pgEdge/pgedge-inventory/internal/db"
	"github.com/pgEdge/pgedge-inventory/internal/ingest"
	"github.com/pgEdge/pgedge-inventory/internal/logging"
)

// Session states.
const (
	StatusStaged     = "staged"
	StatusNormalized = "normalized"
	StatusFailed     = "failed"
)

// ErrNoSession is returned when no session matches.
var ErrNoSession = errors.New("import session not found")

// Session is one import batch.
type Session struct {
	ID           uuid.UUID
	Source       string
	Status       string
	StagedRows   int
	SkippedRows  int
	DeviceRows   *int
	Error        *string
	CreatedAt    time.Time
	NormalizedAt *time.Time
}

// NewSession returns a fresh session for the named source.
func NewSession(source string) *Session {
	return &Session{
		ID:        uuid.New(),
		Source:    source,
		Status:    StatusStaged,
		CreatedAt: time.Now().UTC(),
	}
}

// Stage records the session and bulk-loads its records with COPY, all in one
// transaction. Rows left behind by this session or by sessions that already
// finished are removed first; rows of other staged sessions are kept.
func Stage(ctx context.Context, conn db.DB, s *Session, res *ingest.Result) error {
	log := logging.WithSession(s.ID.String())

	s.StagedRows = len(res.Records)
	s.SkippedRows = res.Skipped

	err := pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
            INSERT INTO import_sessions (session_id, source, status, staged_rows, skipped_rows, created_at)
            VALUES ($1, $2, $3, $4, $5, $6)
            ON CONFLICT (session_id) DO UPDATE
            SET source = EXCLUDED.source, status = EXCLUDED.status,
                staged_rows = EXCLUDED.staged_rows, skipped_rows = EXCLUDED.skipped_rows,
                device_rows = NULL, error = NULL, normalized_at = NULL
        `, s.ID, s.Source, StatusStaged, s.StagedRows, s.SkippedRows, s.CreatedAt); err != nil {
			return fmt.Errorf("failed to record session: %w", err)
		}

		pruned, err := tx.Exec(ctx, `
            DELETE FROM staging_devices
            WHERE session_id = $1
               OR session_id IN (SELECT session_id FROM import_sessions WHERE status <> $2)
        `, s.ID, StatusStaged)
		if err != nil {
			return fmt.Errorf("failed to prune staging rows: %w", err)
		}

		copied, err := tx.CopyFrom(ctx,
			pgx.Identifier{catalog.StagingTable},
			copyColumns(),
			pgx.CopyFromSlice(len(res.Records), func(i int) ([]any, error) {
				return copyRow(s.ID, res.Records[i]), nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to copy staging rows: %w", err)
		}

		log.Debug().
			Int64("pruned", pruned.RowsAffected()).
			Int64("copied", copied).
			Msg("Loaded staging rows")
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("source", s.Source).
		Int("rows", s.StagedRows).
		Int("skipped", s.SkippedRows).
		Msg("Staged import")
	return nil
}

func copyColumns() []string {
	return append([]string{"session_id", "line_no"}, catalog.StagingColumns()...)
}

func copyRow(id uuid.UUID, rec ingest.Record) []any {
	row := make([]any, 0, len(rec.Values)+2)
	row = append(row, id, rec.Line)
	for _, v := range rec.Values {
		row = append(row, v)
	}
	return row
}

const selectSession = `
    SELECT session_id, source, status, staged_rows, skipped_rows,
           device_rows, error, created_at, normalized_at
    FROM import_sessions`

func scanSession(row pgx.Row) (*Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.Source, &s.Status, &s.StagedRows, &s.SkippedRows,
		&s.DeviceRows, &s.Error, &s.CreatedAt, &s.NormalizedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get loads a session by ID.
func Get(ctx context.Context, conn db.DB, id uuid.UUID) (*Session, error) {
	return scanSession(conn.QueryRow(ctx, selectSession+" WHERE session_id = $1", id))
}

// LatestStaged returns the most recent session still waiting for
// normalization.
func LatestStaged(ctx context.Context, conn db.DB) (*Session, error) {
	return scanSession(conn.QueryRow(ctx,
		selectSession+" WHERE status = $1 ORDER BY created_at DESC LIMIT 1", StatusStaged))
}

// List returns the most recent sessions, newest first.
func List(ctx context.Context, conn db.DB, limit int) ([]*Session, error) {
	rows, err := conn.Query(ctx, selectSession+" ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// MarkNormalized records a successful normalization of the session.
func MarkNormalized(ctx context.Context, conn db.DB, id uuid.UUID, devices int64) error {
	_, err := conn.Exec(ctx, `
        UPDATE import_sessions
        SET status = $2, device_rows = $3, error = NULL, normalized_at = now()
        WHERE session_id = $1
    `, id, StatusNormalized, devices)
	if err != nil {
		return fmt.Errorf("failed to mark session normalized: %w", err)
	}
	return nil
}

// MarkFailed records a failed normalization of the session.
func MarkFailed(ctx context.Context, conn db.DB, id uuid.UUID, cause error) error {
	_, err := conn.Exec(ctx, `
        UPDATE import_sessions SET status = $2, error = $3 WHERE session_id = $1
    `, id, StatusFailed, cause.Error())
	if err != nil {
		return fmt.Errorf("failed to mark session failed: %w", err)
	}
	return nil
}

// RowCount returns the number of staging rows held by a session.
func RowCount(ctx context.Context, conn db.DB, id uuid.UUID) (int64, error) {
	var n int64
	err := conn.QueryRow(ctx, `SELECT count(*) FROM staging_devices WHERE session_id = $1`, id).Scan(&n)
	return n, err
}

//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	// Pure Go SQLite driver, registered as "sqlite"
	_ "modernc.org/sqlite"

	"github.com/pgEdge/pgedge-inventory/internal/logging"
	"github.com/pgEdge/pgedge-inventory/internal/query"
)

// WriteSQLite writes rs into table of the SQLite database at path,
// replacing any table of that name. Every column is TEXT and NULLs are
// kept.
func WriteSQLite(ctx context.Context, path, table string, rs *query.RowSet) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range sqliteTableSQL(table, rs.Columns) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create %s: %w", table, err)
		}
	}

	insert, err := tx.PrepareContext(ctx, sqliteInsertSQL(table, rs.Columns))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insert.Close()

	args := make([]any, len(rs.Columns))
	for _, row := range rs.Rows {
		for j, v := range row {
			if v == nil {
				args[j] = nil
			} else {
				args[j] = *v
			}
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	logging.Info().
		Str("path", path).
		Str("table", table).
		Int("rows", len(rs.Rows)).
		Msg("Wrote SQLite snapshot")
	return nil
}

// SQLite accepts the same double-quoted identifiers as PostgreSQL.
func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func sqliteTableSQL(table string, cols []string) []string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quote(c) + " TEXT"
	}
	return []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s", quote(table)),
		fmt.Sprintf("CREATE TABLE %s (%s)", quote(table), strings.Join(defs, ", ")),
	}
}

func sqliteInsertSQL(table string, cols []string) string {
	quoted := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quote(c)
		params[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(table), strings.Join(quoted, ", "), strings.Join(params, ", "))
}

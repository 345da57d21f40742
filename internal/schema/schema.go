//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
	"github.com/pgEdge/pgedge-inventory/internal/db"
	"github.com/pgEdge/pgedge-inventory/internal/logging"
)

// CreateSchema creates every inventory table and the flat view in one
// transaction. It is safe to run against an existing schema.
func CreateSchema(ctx context.Context, conn db.DB) error {
	return pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		for _, stmt := range CreateStatements() {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}
		}
		logging.Debug().
			Int("dimensions", len(catalog.DimensionTables())).
			Msg("Created inventory schema")
		return nil
	})
}

// DropSchema drops the inventory view and tables.
func DropSchema(ctx context.Context, conn db.DB) error {
	for _, stmt := range DropStatements() {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}
	return nil
}

// EnsureView redefines device_flat so it matches the current catalog.
func EnsureView(ctx context.Context, conn db.DB) error {
	if _, err := conn.Exec(ctx, ViewSQL()); err != nil {
		return fmt.Errorf("failed to create %s view: %w", catalog.FlatView, err)
	}
	return nil
}

// Exists reports whether the inventory tables have been created.
func Exists(ctx context.Context, conn db.DB) (bool, error) {
	var exists bool
	err := conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_schema = current_schema() AND table_name = $1
        )
    `, catalog.DeviceTable).Scan(&exists)
	return exists, err
}

// Package db provides database connection management for pgedge-inventory.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx, so pipeline code
// can run against a pool or inside a caller's transaction.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// InventoryLockKey is the advisory lock taken by every operation that
// rewrites normalized tables.
const InventoryLockKey int64 = 0x696e76656e746f72

// LockInventory takes the transaction-scoped inventory lock. It blocks until
// any other clear or normalize holding it has committed or rolled back.
func LockInventory(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", InventoryLockKey)
	return err
}

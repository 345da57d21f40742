//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package normalize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pgEdge/pgedge-inventory/internal/staging"
)

var errInjected = errors.New("injected failure")

// stubTx fails the first Exec whose SQL contains failOn. Session lookups
// report a staged session.
type stubTx struct {
	pgx.Tx
	failOn     string
	committed  bool
	rolledBack bool
}

func (tx *stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx.failOn != "" && strings.Contains(sql, tx.failOn) {
		return pgconn.CommandTag{}, errInjected
	}
	return pgconn.NewCommandTag("INSERT 0 0"), nil
}

func (tx *stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return stagedRow{}
}

func (tx *stubTx) Commit(ctx context.Context) error {
	tx.committed = true
	return nil
}

func (tx *stubTx) Rollback(ctx context.Context) error {
	tx.rolledBack = true
	return nil
}

type stagedRow struct{}

func (stagedRow) Scan(dest ...any) error {
	*(dest[2].(*string)) = staging.StatusStaged
	return nil
}

// stubConn hands out one stubTx and records statements run outside it.
type stubConn struct {
	tx    *stubTx
	execs []string
}

func (c *stubConn) Begin(ctx context.Context) (pgx.Tx, error) {
	return c.tx, nil
}

func (c *stubConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.execs = append(c.execs, sql)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (c *stubConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (c *stubConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return stagedRow{}
}

func TestRunWrapsFailures(t *testing.T) {
	tests := []struct {
		name   string
		failOn string
	}{
		{"lock", "pg_advisory_xact_lock"},
		{"truncate", "TRUNCATE"},
		{"step", "INSERT INTO"},
		{"view", "VIEW"},
		{"metadata", "inventory_metadata"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &stubConn{tx: &stubTx{failOn: tt.failOn}}

			res, err := New(conn).Run(context.Background(), uuid.New())
			if res != nil {
				t.Errorf("Run() result = %+v, want nil", res)
			}
			if !errors.Is(err, ErrNormalizeFailed) {
				t.Errorf("Run() error = %v, want ErrNormalizeFailed", err)
			}
			if !errors.Is(err, errInjected) {
				t.Errorf("Run() error = %v, want the underlying cause", err)
			}
			if conn.tx.committed || !conn.tx.rolledBack {
				t.Errorf("committed = %v, rolledBack = %v; want rollback only",
					conn.tx.committed, conn.tx.rolledBack)
			}

			marked := false
			for _, sql := range conn.execs {
				if strings.Contains(sql, "import_sessions") {
					marked = true
				}
			}
			if !marked {
				t.Error("failed session was not recorded")
			}
		})
	}
}

func TestRunSucceedsAgainstStub(t *testing.T) {
	conn := &stubConn{tx: &stubTx{}}

	res, err := New(conn).Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !conn.tx.committed {
		t.Error("transaction was not committed")
	}
	if len(res.Counts) != len(BuildPlan()) {
		t.Errorf("Counts has %d tables, want %d", len(res.Counts), len(BuildPlan()))
	}
	if len(conn.execs) != 0 {
		t.Errorf("unexpected statements outside the transaction: %v", conn.execs)
	}
}

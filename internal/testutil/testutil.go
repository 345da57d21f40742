//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package testutil provides utilities for integration testing.
package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const (
	// DefaultTestConnString is the default connection string for tests.
	// Override with PGEDGE_TEST_CONN in the environment or a .env file.
	DefaultTestConnString = "postgres://postgres@localhost:5432/postgres"

	// TestDBPrefix is the prefix for test databases.
	TestDBPrefix = "inventory_test_"

	// ConnEnv names the variable holding the base connection string.
	ConnEnv = "PGEDGE_TEST_CONN"
)

var loadEnv sync.Once

// BaseConnString returns the connection string tests start from. A .env
// file in the working directory or the repository root is read once;
// variables already set in the environment win.
func BaseConnString() string {
	loadEnv.Do(func() {
		for _, f := range []string{".env", "../../.env"} {
			if _, err := os.Stat(f); err == nil {
				_ = godotenv.Load(f)
			}
		}
	})
	if connStr := os.Getenv(ConnEnv); connStr != "" {
		return connStr
	}
	return DefaultTestConnString
}

// PostgresAvailable checks if PostgreSQL is available for testing.
// Returns the connection string if available, empty string otherwise.
func PostgresAvailable() string {
	connStr := BaseConnString()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return ""
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return ""
	}

	return connStr
}

// SkipIfNoPostgres skips the test if PostgreSQL is not available.
func SkipIfNoPostgres(t *testing.T) string {
	connStr := PostgresAvailable()
	if connStr == "" {
		t.Skip("PostgreSQL not available, skipping integration test")
	}
	return connStr
}

// CreateTestDB creates a uniquely named database and returns its name and
// connection string.
func CreateTestDB(t *testing.T, baseConnStr, name string) (string, string) {
	t.Helper()

	randomBytes := make([]byte, 6)
	if _, err := rand.Read(randomBytes); err != nil {
		t.Fatalf("Failed to generate random database name: %v", err)
	}
	dbName := TestDBPrefix + name + "_" + hex.EncodeToString(randomBytes)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, baseConnStr)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	config, err := pgx.ParseConfig(baseConnStr)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}

	// ConnString() does not reflect a changed Database, so build it here
	var connStr string
	if config.Password != "" {
		connStr = fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
			config.User, config.Password, config.Host, config.Port, dbName)
	} else {
		connStr = fmt.Sprintf("postgres://%s@%s:%d/%s",
			config.User, config.Host, config.Port, dbName)
	}
	return dbName, connStr
}

// DropTestDB drops the test database.
func DropTestDB(t *testing.T, baseConnStr, dbName string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, baseConnStr)
	if err != nil {
		t.Logf("Warning: Failed to connect to drop test database: %v", err)
		return
	}
	defer pool.Close()

	_, _ = pool.Exec(ctx, `
        SELECT pg_terminate_backend(pid)
        FROM pg_stat_activity
        WHERE datname = $1 AND pid <> pg_backend_pid()
    `, dbName)

	if _, err := pool.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		t.Logf("Warning: Failed to drop test database: %v", err)
	}
}

// NewTestDB creates a fresh database for the test and returns a pool
// connected to it. The pool is closed when the test ends. The database is
// only dropped if the test passed; on failure it remains for diagnostics.
func NewTestDB(t *testing.T, name string) *pgxpool.Pool {
	t.Helper()

	base := SkipIfNoPostgres(t)
	dbName, connStr := CreateTestDB(t, base, name)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		DropTestDB(t, base, dbName)
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if t.Failed() {
			t.Logf("Test failed - keeping database %s for diagnostics", dbName)
			return
		}
		DropTestDB(t, base, dbName)
	})
	return pool
}

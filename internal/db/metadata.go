//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-inventory/internal/logging"
	"github.com/pgEdge/pgedge-inventory/pkg/version"
)

const metadataTable = "inventory_metadata"

// Metadata keys.
const (
	KeySchemaVersion  = "schema_version"
	KeyVersion        = "version"
	KeyInitializedAt  = "initialized_at"
	KeyLastSession    = "last_session"
	KeyLastNormalized = "last_normalized_at"
	KeyLastDevices    = "last_device_count"
)

// createMetadataTableSQL creates the metadata table if it doesn't exist.
const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS inventory_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// ErrNotInitialized is returned when the metadata table or key is missing.
var ErrNotInitialized = errors.New("database has not been initialized; run 'pgedge-inventory init' first")

// SaveInitMetadata records the schema version and initialization time.
func SaveInitMetadata(ctx context.Context, conn DB, schemaVersion string) error {
	return SaveMetadata(ctx, conn, map[string]string{
		KeySchemaVersion: schemaVersion,
		KeyVersion:       version.Short(),
		KeyInitializedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// SaveMetadata upserts the given key/value pairs.
func SaveMetadata(ctx context.Context, conn DB, values map[string]string) error {
	if _, err := conn.Exec(ctx, createMetadataTableSQL); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	for key, value := range values {
		_, err := conn.Exec(ctx, `
            INSERT INTO inventory_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, key, value)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Int("keys", len(values)).
		Msg("Saved metadata")

	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, conn DB, key string) (string, error) {
	exists, err := MetadataExists(ctx, conn)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrNotInitialized
	}

	var value string
	err = conn.QueryRow(ctx, `
        SELECT value FROM inventory_metadata WHERE key = $1
    `, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotInitialized
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, conn DB) (map[string]string, error) {
	rows, err := conn.Query(ctx, `SELECT key, value FROM inventory_metadata ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, conn DB) error {
	_, err := conn.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, conn DB) (bool, error) {
	var exists bool
	err := conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_schema = current_schema() AND table_name = $1
        )
    `, metadataTable).Scan(&exists)
	return exists, err
}

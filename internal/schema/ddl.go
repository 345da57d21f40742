//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package schema builds and applies the inventory database schema: the
// session-scoped staging table, the dimension tables, the device fact
// table and the device_flat view.
package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
)

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

const createSessionTableSQL = `
-- Import sessions own their staging rows
CREATE TABLE IF NOT EXISTS import_sessions (
    session_id    UUID PRIMARY KEY,
    source        TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL CHECK (status IN ('staged', 'normalized', 'failed')),
    staged_rows   INTEGER NOT NULL DEFAULT 0,
    skipped_rows  INTEGER NOT NULL DEFAULT 0,
    device_rows   INTEGER,
    error         TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    normalized_at TIMESTAMPTZ
)`

// StagingTableSQL returns the CREATE TABLE statement for staging rows. Every
// CSV column is a NOT NULL text column defaulting to the empty string.
func StagingTableSQL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS staging_devices (\n")
	b.WriteString("    session_id UUID NOT NULL REFERENCES import_sessions (session_id) ON DELETE CASCADE,\n")
	b.WriteString("    line_no    INTEGER NOT NULL")
	for _, c := range catalog.StagingColumns() {
		fmt.Fprintf(&b, ",\n    %s TEXT NOT NULL DEFAULT ''", ident(c))
	}
	b.WriteString("\n)")
	return b.String()
}

// DimensionTableSQL returns the CREATE TABLE statement for a simple dimension.
func DimensionTableSQL(d catalog.Dimension) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    %s INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    %s TEXT NOT NULL UNIQUE CHECK (%s <> '')
)`, ident(d.Table), ident(d.ID), ident(d.Label), ident(d.Label))
}

// SiteTableSQL returns the CREATE TABLE statement for sites.
func SiteTableSQL() string {
	parent := catalog.MustDimension(catalog.Site.Parent)
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", ident(catalog.Site.Table))
	fmt.Fprintf(&b, "    %s INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,\n", ident(catalog.Site.ID))
	fmt.Fprintf(&b, "    %s TEXT NOT NULL UNIQUE CHECK (%s <> ''),\n", ident(catalog.Site.Label), ident(catalog.Site.Label))
	for _, a := range catalog.Site.Attributes {
		fmt.Fprintf(&b, "    %s TEXT,\n", ident(a.Column))
	}
	fmt.Fprintf(&b, "    %s INTEGER NOT NULL REFERENCES %s (%s)\n)",
		ident(parent.ID), ident(parent.Table), ident(parent.ID))
	return b.String()
}

// RoomTableSQL returns the CREATE TABLE statement for rooms.
func RoomTableSQL() string {
	var b strings.Builder
	keys := []string{ident(catalog.Site.ID)}
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", ident(catalog.Room.Table))
	fmt.Fprintf(&b, "    %s INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,\n", ident(catalog.Room.ID))
	fmt.Fprintf(&b, "    %s INTEGER NOT NULL REFERENCES %s (%s),\n",
		ident(catalog.Site.ID), ident(catalog.Site.Table), ident(catalog.Site.ID))
	for _, a := range catalog.Room.Keys {
		fmt.Fprintf(&b, "    %s TEXT NOT NULL DEFAULT '',\n", ident(a.Column))
		keys = append(keys, ident(a.Column))
	}
	fmt.Fprintf(&b, "    UNIQUE (%s)\n)", strings.Join(keys, ", "))
	return b.String()
}

// ModelTableSQL returns the CREATE TABLE statement for models. The full
// reference tuple is unique with NULLs treated as equal, so a model with a
// missing manufacturer is still stored once.
func ModelTableSQL() string {
	var b strings.Builder
	keys := []string{ident(catalog.Model.Label)}
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", ident(catalog.Model.Table))
	fmt.Fprintf(&b, "    %s INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,\n", ident(catalog.Model.ID))
	fmt.Fprintf(&b, "    %s TEXT NOT NULL CHECK (%s <> ''),\n", ident(catalog.Model.Label), ident(catalog.Model.Label))
	for _, ref := range catalog.Model.Refs {
		d := catalog.MustDimension(ref)
		fmt.Fprintf(&b, "    %s INTEGER REFERENCES %s (%s),\n", ident(d.ID), ident(d.Table), ident(d.ID))
		keys = append(keys, ident(d.ID))
	}
	fmt.Fprintf(&b, "    UNIQUE NULLS NOT DISTINCT (%s)\n)", strings.Join(keys, ", "))
	return b.String()
}

// DeviceTableSQL returns the CREATE TABLE statement for the fact table.
func DeviceTableSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", ident(catalog.DeviceTable))
	fmt.Fprintf(&b, "    %s BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,\n", ident(catalog.DeviceID))
	b.WriteString("    session_id UUID NOT NULL,\n")
	b.WriteString("    line_no INTEGER NOT NULL")
	for _, a := range catalog.DeviceScalars {
		fmt.Fprintf(&b, ",\n    %s TEXT", ident(a.Column))
	}
	for _, fk := range deviceReferences() {
		fmt.Fprintf(&b, ",\n    %s INTEGER REFERENCES %s (%s)", ident(fk.column), ident(fk.table), ident(fk.id))
	}
	b.WriteString("\n)")
	return b.String()
}

type reference struct {
	column string
	table  string
	id     string
}

func deviceReferences() []reference {
	var refs []reference
	for _, d := range catalog.Dimensions {
		if d.DeviceFK != "" {
			refs = append(refs, reference{d.DeviceFK, d.Table, d.ID})
		}
	}
	return append(refs,
		reference{catalog.Site.DeviceFK, catalog.Site.Table, catalog.Site.ID},
		reference{catalog.Room.DeviceFK, catalog.Room.Table, catalog.Room.ID},
		reference{catalog.Model.DeviceFK, catalog.Model.Table, catalog.Model.ID},
	)
}

// CreateStatements returns every statement init runs, in dependency order.
func CreateStatements() []string {
	stmts := []string{
		createSessionTableSQL,
		StagingTableSQL(),
		"CREATE INDEX IF NOT EXISTS staging_devices_session_idx ON staging_devices (session_id, line_no)",
	}
	for _, d := range catalog.Dimensions {
		stmts = append(stmts, DimensionTableSQL(d))
	}
	stmts = append(stmts, SiteTableSQL(), RoomTableSQL(), ModelTableSQL(), DeviceTableSQL())
	stmts = append(stmts, ViewSQL())
	return stmts
}

// NormalizedTables returns the device table followed by every dimension
// table, children before parents.
func NormalizedTables() []string {
	tables := catalog.DimensionTables()
	slices.Reverse(tables)
	return append([]string{catalog.DeviceTable}, tables...)
}

// TruncateNormalizedSQL empties the fact and dimension tables and resets
// their identities. Staging is left alone.
func TruncateNormalizedSQL() string {
	return truncateSQL(NormalizedTables())
}

// TruncateAllSQL empties every inventory table, staging and sessions
// included, in one statement.
func TruncateAllSQL() string {
	tables := append(NormalizedTables(), catalog.StagingTable, catalog.SessionTable)
	return truncateSQL(tables)
}

func truncateSQL(tables []string) string {
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = ident(t)
	}
	return fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
}

// DropStatements returns the statements that remove the schema.
func DropStatements() []string {
	stmts := []string{DropViewSQL()}
	for _, t := range NormalizedTables() {
		stmts = append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", ident(t)))
	}
	return append(stmts,
		fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", ident(catalog.StagingTable)),
		fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", ident(catalog.SessionTable)),
	)
}

//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pgEdge/pgedge-inventory/internal/query"
)

func str(s string) *string { return &s }

func sampleRows() *query.RowSet {
	return &query.RowSet{
		Columns: []string{"SITE", "MODEL", "SERIALNUMBER"},
		Rows: [][]*string{
			{str("BER"), str("ThinkPad X1"), str("SN1")},
			{str("MNC"), nil, str("SN;2")},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows(), ';'); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	want := "SITE;MODEL;SERIALNUMBER\nBER;ThinkPad X1;SN1\nMNC;;\"SN;2\"\n"
	if buf.String() != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var got []map[string]*string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 objects, got %d", len(got))
	}
	if got[1]["MODEL"] != nil {
		t.Errorf("Expected null MODEL, got %v", *got[1]["MODEL"])
	}
	if *got[0]["SITE"] != "BER" {
		t.Errorf("Expected SITE BER, got %s", *got[0]["SITE"])
	}
}

func TestWriteCountsJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCountsJSON(&buf, nil); err != nil {
		t.Fatalf("WriteCountsJSON failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("Expected empty array, got %s", buf.String())
	}
}

func TestWriteCountsCSV(t *testing.T) {
	var buf bytes.Buffer
	counts := []query.GroupCount{{Site: "BER", Count: 3}, {Site: "", Count: 1}}
	if err := WriteCountsCSV(&buf, counts, ';'); err != nil {
		t.Fatalf("WriteCountsCSV failed: %v", err)
	}
	want := "SITE;COUNT\nBER;3\n;1\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, sampleRows(), "SITE", "SERIALNUMBER"); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "SITE") || !strings.Contains(lines[0], "SERIALNUMBER") {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if strings.Contains(buf.String(), "ThinkPad") {
		t.Error("Unselected column was written")
	}
}

func TestWriteCountsTable(t *testing.T) {
	var buf bytes.Buffer
	counts := []query.GroupCount{{Site: "BER", Count: 3}, {Site: "", Count: 2}}
	if err := WriteCountsTable(&buf, counts); err != nil {
		t.Fatalf("WriteCountsTable failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "(none)") {
		t.Errorf("Expected placeholder for missing site:\n%s", out)
	}
	if !strings.Contains(out, "TOTAL") || !strings.Contains(out, "5") {
		t.Errorf("Expected total of 5:\n%s", out)
	}
}

func TestSQLiteStatements(t *testing.T) {
	stmts := sqliteTableSQL("device_flat", []string{"SITE", "MODEL"})
	if stmts[0] != `DROP TABLE IF EXISTS "device_flat"` {
		t.Errorf("Unexpected drop: %s", stmts[0])
	}
	if stmts[1] != `CREATE TABLE "device_flat" ("SITE" TEXT, "MODEL" TEXT)` {
		t.Errorf("Unexpected create: %s", stmts[1])
	}

	insert := sqliteInsertSQL("device_flat", []string{"SITE", "MODEL"})
	if insert != `INSERT INTO "device_flat" ("SITE", "MODEL") VALUES (?, ?)` {
		t.Errorf("Unexpected insert: %s", insert)
	}
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.db")
	ctx := context.Background()

	if err := WriteSQLite(ctx, path, "device_flat", sampleRows()); err != nil {
		t.Fatalf("WriteSQLite failed: %v", err)
	}
	// a second write replaces the table
	if err := WriteSQLite(ctx, path, "device_flat", sampleRows()); err != nil {
		t.Fatalf("Second WriteSQLite failed: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open snapshot: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT count(*) FROM device_flat`).Scan(&n); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 rows, got %d", n)
	}

	var model sql.NullString
	err = db.QueryRow(`SELECT "MODEL" FROM device_flat WHERE "SITE" = 'MNC'`).Scan(&model)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if model.Valid {
		t.Errorf("Expected NULL MODEL, got %s", model.String)
	}
}

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
	"strings"
	"testing"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
)

func TestBuildPlanOrder(t *testing.T) {
	plan := BuildPlan()

	if len(plan) != len(catalog.Dimensions)+4 {
		t.Fatalf("Expected %d steps, got %d", len(catalog.Dimensions)+4, len(plan))
	}

	pos := make(map[string]int)
	for i, s := range plan {
		if _, dup := pos[s.Table]; dup {
			t.Errorf("Table %s populated twice", s.Table)
		}
		pos[s.Table] = i
	}

	// parents before children
	order := [][2]string{
		{"regions", "sites"},
		{"sites", "rooms"},
		{"manufacturers", "models"},
		{"partnumbers", "models"},
		{"models", "devices"},
		{"rooms", "devices"},
		{"ci_statuses", "devices"},
	}
	for _, o := range order {
		if pos[o[0]] >= pos[o[1]] {
			t.Errorf("Expected %s before %s", o[0], o[1])
		}
	}
	if plan[len(plan)-1].Table != catalog.DeviceTable {
		t.Errorf("Expected devices last, got %s", plan[len(plan)-1].Table)
	}
}

func TestPlanIsSessionScoped(t *testing.T) {
	for _, s := range BuildPlan() {
		if !strings.Contains(s.SQL, "s.session_id = $1") {
			t.Errorf("Step %s is not scoped to the session:\n%s", s.Name, s.SQL)
		}
		if strings.Contains(s.SQL, "$2") {
			t.Errorf("Step %s uses an unexpected parameter", s.Name)
		}
	}
}

func TestDimensionSQL(t *testing.T) {
	sql := dimensionSQL(catalog.MustDimension("CIStatus"))

	tests := []string{
		`INSERT INTO "ci_statuses" ("ci_status")`,
		`SELECT DISTINCT "s"."ci_status"`,
		`"s"."ci_status" <> ''`,
		"ON CONFLICT DO NOTHING",
	}
	for _, want := range tests {
		if !strings.Contains(sql, want) {
			t.Errorf("Expected %q in:\n%s", want, sql)
		}
	}
}

func TestSiteSQL(t *testing.T) {
	sql := siteSQL()

	tests := []string{
		`INSERT INTO "sites" ("site", "company", "sitegroup", "region_id")`,
		`SELECT DISTINCT ON ("s"."site")`,
		`NULLIF("s"."company", '')`,
		`JOIN "regions" ON "regions"."region" = "s"."region"`,
		`ORDER BY "s"."site", ("s"."company" = ''), ("s"."sitegroup" = ''), s.line_no`,
	}
	for _, want := range tests {
		if !strings.Contains(sql, want) {
			t.Errorf("Expected %q in:\n%s", want, sql)
		}
	}
	if strings.Contains(sql, "LEFT JOIN") {
		t.Error("A site must not be created without its region")
	}
}

func TestRoomSQL(t *testing.T) {
	sql := roomSQL()

	tests := []string{
		`INSERT INTO "rooms" ("site_id", "room", "ci_room", "floor")`,
		`JOIN "sites" ON "sites"."site" = "s"."site"`,
		`("s"."room" <> '' OR "s"."ci_room" <> '')`,
	}
	for _, want := range tests {
		if !strings.Contains(sql, want) {
			t.Errorf("Expected %q in:\n%s", want, sql)
		}
	}
}

func TestModelSQL(t *testing.T) {
	sql := modelSQL()

	tests := []string{
		`INSERT INTO "models" ("model", "manu_id", "tier1_id", "tier2_id", "tier3_id", "partnumber_id")`,
		`LEFT JOIN "manufacturers" ON "manufacturers"."manufacturername" = "s"."manufacturername"`,
		`LEFT JOIN "partnumbers" ON "partnumbers"."partnumber" = "s"."partnumber"`,
		`"s"."model" <> ''`,
	}
	for _, want := range tests {
		if !strings.Contains(sql, want) {
			t.Errorf("Expected %q in:\n%s", want, sql)
		}
	}
}

func TestDeviceSQL(t *testing.T) {
	sql := deviceSQL()

	tests := []string{
		`NULLIF("s"."serialnumber", '')`,
		`NULLIF("s"."physicalposition", '')`,
		`LEFT JOIN "ci_statuses" ON "ci_statuses"."ci_status" = "s"."ci_status"`,
		`LEFT JOIN "sites" ON "sites"."site" = "s"."site"`,
		`"rooms"."site_id" = "sites"."site_id" AND "rooms"."room" = "s"."room" AND "rooms"."ci_room" = "s"."ci_room" AND "rooms"."floor" = "s"."floor"`,
		`"models"."manu_id" IS NOT DISTINCT FROM "manufacturers"."manu_id"`,
		`"models"."partnumber_id" IS NOT DISTINCT FROM "partnumbers"."partnumber_id"`,
		`("s"."model" <> '' OR "s"."serialnumber" <> '')`,
		"ORDER BY s.line_no",
	}
	for _, want := range tests {
		if !strings.Contains(sql, want) {
			t.Errorf("Expected %q in:\n%s", want, sql)
		}
	}

	if strings.Count(sql, "JOIN") != strings.Count(sql, "LEFT JOIN") {
		t.Error("Device resolution must only use left joins")
	}
	for _, fk := range catalog.DeviceForeignKeys() {
		if !strings.Contains(sql, `"`+fk+`"`) {
			t.Errorf("Device insert missing foreign key %s", fk)
		}
	}
	for _, table := range catalog.DimensionTables() {
		if table == "regions" {
			continue
		}
		if n := strings.Count(sql, `LEFT JOIN "`+table+`" `); n != 1 {
			t.Errorf("Expected %s joined once, got %d", table, n)
		}
	}
}

func TestNewNormalizerPlan(t *testing.T) {
	n := New(nil)
	if len(n.Plan()) != len(BuildPlan()) {
		t.Errorf("Expected plan of %d steps, got %d", len(BuildPlan()), len(n.Plan()))
	}
}

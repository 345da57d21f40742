//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package reports_test

import (
	"reflect"
	"slices"
	"testing"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
	"github.com/pgEdge/pgedge-inventory/internal/query"
	"github.com/pgEdge/pgedge-inventory/internal/reports"
	// Import report packages to trigger their init() functions
	_ "github.com/pgEdge/pgedge-inventory/internal/reports/dach"
)

func TestGet(t *testing.T) {
	r, err := reports.Get("dach-deployed")
	if err != nil {
		t.Fatalf("Failed to get report: %v", err)
	}
	if r.Name() != "dach-deployed" {
		t.Errorf("Report name mismatch: got '%s'", r.Name())
	}
	if r.Description() == "" {
		t.Error("Report description should not be empty")
	}
}

func TestGetInvalidReport(t *testing.T) {
	_, err := reports.Get("nonexistent")
	if err == nil {
		t.Error("Expected error for nonexistent report")
	}
}

func TestList(t *testing.T) {
	names := reports.List()
	if !slices.Contains(names, "dach-deployed") {
		t.Errorf("Expected dach-deployed in %v", names)
	}
	if !slices.IsSorted(names) {
		t.Errorf("Expected sorted names, got %v", names)
	}
	if len(reports.All()) != len(names) {
		t.Errorf("All and List disagree: %d vs %d", len(reports.All()), len(names))
	}
}

func TestDACHDeployedPredicates(t *testing.T) {
	r, err := reports.Get("dach-deployed")
	if err != nil {
		t.Fatalf("Failed to get report: %v", err)
	}

	s := reports.Settings{
		AllowedSites: catalog.DACHSites,
		Status:       catalog.DeployedStatus,
		Tiers:        catalog.ReportTiers,
	}
	want := []query.Predicate{
		query.MembershipFilter{Column: "SITE", Values: catalog.DACHSites},
		query.EqualityFilter{Column: "CI_STATUS", Value: "Deployed"},
		query.MembershipFilter{Column: "TIER3", Values: catalog.ReportTiers},
	}
	if got := r.Predicates(s); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %#v, got %#v", want, got)
	}

	sql, args := query.RowsSQL(r.Predicates(s)...)
	if len(args) != 3 {
		t.Errorf("Expected 3 args, got %d in %s", len(args), sql)
	}
}

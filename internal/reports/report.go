//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package reports defines canned reports: named, fixed predicate sets over
// the flat view that run as a row listing or as per-site counts.
package reports

import "github.com/pgEdge/pgedge-inventory/internal/query"

// Settings carries the configurable values reports are built from.
type Settings struct {
	// AllowedSites is the site allow-list used for region restriction.
	AllowedSites []string

	// Status is the CI_STATUS value reports select.
	Status string

	// Tiers are the TIER3 values reports select.
	Tiers []string
}

// Report defines the interface every canned report implements.
type Report interface {
	// Name returns the report name used on the command line.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Predicates returns the report's filter.
	Predicates(s Settings) []query.Predicate
}

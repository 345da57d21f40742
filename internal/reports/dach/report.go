//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package dach provides the deployed-clients report for DACH sites.
package dach

import (
	"github.com/pgEdge/pgedge-inventory/internal/catalog"
	"github.com/pgEdge/pgedge-inventory/internal/query"
	"github.com/pgEdge/pgedge-inventory/internal/reports"
)

// Name is the registered report name.
const Name = "dach-deployed"

func init() {
	reports.Register(&Report{})
}

// Report selects deployed client devices at allowed sites.
type Report struct{}

// Name returns the report name.
func (r *Report) Name() string {
	return Name
}

// Description returns the report description.
func (r *Report) Description() string {
	return "Deployed client devices (computers, notebooks, thin clients, workstations) at DACH sites"
}

// Predicates restricts to the allowed sites, the configured status and the
// configured client tiers.
func (r *Report) Predicates(s reports.Settings) []query.Predicate {
	return []query.Predicate{
		query.MembershipFilter{Column: catalog.SiteColumn, Values: s.AllowedSites},
		query.EqualityFilter{Column: catalog.StatusColumn, Value: s.Status},
		query.MembershipFilter{Column: catalog.TierColumn, Values: s.Tiers},
	}
}

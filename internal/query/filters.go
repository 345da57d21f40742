//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package query

import (
	"strings"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
)

// Filters is the interactive filter set. Empty strings leave a dimension
// unconstrained.
type Filters struct {
	// RegionRestriction limits rows to the allowed site codes.
	RegionRestriction bool

	// Category is an exact CI_STATUS value.
	Category string

	// Tier is an exact TIER3 value.
	Tier string

	// FreeText is searched in PL_NAME, SHORTDESCRIPTION, MODEL and
	// SERIALNUMBER.
	FreeText string
}

// Predicates compiles the filters against the given site allow-list.
func (f Filters) Predicates(allowedSites []string) []Predicate {
	var preds []Predicate
	if f.RegionRestriction {
		preds = append(preds, MembershipFilter{Column: catalog.SiteColumn, Values: allowedSites})
	}
	if f.Category != "" {
		preds = append(preds, EqualityFilter{Column: catalog.StatusColumn, Value: f.Category})
	}
	if f.Tier != "" {
		preds = append(preds, EqualityFilter{Column: catalog.TierColumn, Value: f.Tier})
	}
	if term := strings.TrimSpace(f.FreeText); term != "" {
		preds = append(preds, SubstringFilter{Columns: catalog.SearchColumns, Term: term})
	}
	return preds
}

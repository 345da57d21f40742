//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package catalog holds the static description of the inventory export:
// the CSV header contract, how each column maps onto staging, dimension
// and device tables, and the fixed value sets used by filters and reports.
//
// Everything downstream (DDL, normalization plan, flat view, queries) is
// derived from the data in this package rather than written out per table.
package catalog

import "strings"

// Columns lists the expected CSV header names in file order. The flat view
// reproduces exactly this shape.
var Columns = []string{
	"PL_NAME",
	"REGION",
	"COMPANY",
	"SITEGROUP",
	"SITE",
	"ROOM",
	"PHYSICALPOSITION",
	"SHORTDESCRIPTION",
	"DEPARTMENT",
	"OWNED_BY",
	"USED_BY",
	"SUPPORTED_BY",
	"PL_COST_CENTER",
	"PL_STATUS",
	"RELATION",
	"DESTINATION_CLASSID",
	"TIER1",
	"TIER2",
	"TIER3",
	"MODEL",
	"MANUFACTURERNAME",
	"CI_NAME",
	"SERIALNUMBER",
	"CI_ID",
	"BUDGETCODE",
	"CI_ROOM",
	"FLOOR",
	"PARTNUMBER",
	"SUPPLIERNAME",
	"CI_STATUS",
	"PURCHASE_DATE",
	"RECEIVED_DATE",
	"INSTALLATION_DATE",
	"AVAILABLE_DATE",
	"RETURN_DATE",
	"DISPOSAL_DATE",
	"MARK_AS_DELETED",
	"CREATE_DATE",
	"MODIFIED_DATE",
	"ROLE",
	"CHILDNAME",
	"CONFBASICNUMBER",
	"BUILDNUMBER",
	"TYPE",
	"ADDITIONAL_INFORMATION",
	"DEPOT",
	"SUPPORTED",
}

var columnIndex = func() map[string]int {
	idx := make(map[string]int, len(Columns))
	for i, c := range Columns {
		idx[c] = i
	}
	return idx
}()

// ColumnIndex returns the position of a CSV column in Columns, matching
// the name case-insensitively after trimming.
func ColumnIndex(name string) (int, bool) {
	i, ok := columnIndex[strings.ToUpper(strings.TrimSpace(name))]
	return i, ok
}

// StagingColumn returns the staging table column that holds a CSV column.
func StagingColumn(csvColumn string) string {
	return strings.ToLower(csvColumn)
}

// StagingColumns returns the staging column names in CSV order.
func StagingColumns() []string {
	cols := make([]string, len(Columns))
	for i, c := range Columns {
		cols[i] = StagingColumn(c)
	}
	return cols
}

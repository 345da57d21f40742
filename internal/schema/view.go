//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package schema

import (
	"fmt"
	"strings"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
)

// ViewSQL returns the CREATE OR REPLACE VIEW statement for device_flat. The
// view selects one column per CSV header, in header order, aliased to the
// header name. Every dimension is LEFT JOINed so unresolved keys surface as
// NULL instead of dropping the device.
func ViewSQL() string {
	placements, err := catalog.Placements()
	if err != nil {
		panic(fmt.Sprintf("schema: invalid catalog: %v", err))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE OR REPLACE VIEW %s AS\nSELECT\n", ident(catalog.FlatView))
	for i, col := range catalog.Columns {
		p := placements[col]
		sep := ","
		if i == len(catalog.Columns)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    %s.%s AS %s%s\n", ident(p.Table), ident(p.Column), ident(col), sep)
	}
	fmt.Fprintf(&b, "FROM %s", ident(catalog.DeviceTable))
	for _, j := range viewJoins() {
		fmt.Fprintf(&b, "\nLEFT JOIN %s ON %s.%s = %s.%s",
			ident(j.table), ident(j.table), ident(j.id), ident(j.from), ident(j.fromColumn))
	}
	return b.String()
}

type join struct {
	table      string
	id         string
	from       string
	fromColumn string
}

// viewJoins walks the reference graph from devices outwards. Each table is
// reached by exactly one path, so table names double as aliases.
func viewJoins() []join {
	var joins []join
	for _, d := range catalog.Dimensions {
		if d.DeviceFK != "" {
			joins = append(joins, join{d.Table, d.ID, catalog.DeviceTable, d.DeviceFK})
		}
	}

	region := catalog.MustDimension(catalog.Site.Parent)
	joins = append(joins,
		join{catalog.Site.Table, catalog.Site.ID, catalog.DeviceTable, catalog.Site.DeviceFK},
		join{region.Table, region.ID, catalog.Site.Table, region.ID},
		join{catalog.Room.Table, catalog.Room.ID, catalog.DeviceTable, catalog.Room.DeviceFK},
		join{catalog.Model.Table, catalog.Model.ID, catalog.DeviceTable, catalog.Model.DeviceFK},
	)
	for _, ref := range catalog.Model.Refs {
		d := catalog.MustDimension(ref)
		joins = append(joins, join{d.Table, d.ID, catalog.Model.Table, d.ID})
	}
	return joins
}

// DropViewSQL drops device_flat.
func DropViewSQL() string {
	return fmt.Sprintf("DROP VIEW IF EXISTS %s", ident(catalog.FlatView))
}

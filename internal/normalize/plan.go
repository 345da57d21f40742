//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package normalize

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
)

// Step is one statement of the normalization plan. Every step takes the
// session ID as $1.
type Step struct {
	// Name identifies the step in logs and errors.
	Name string

	// Table is the table the step inserts into.
	Table string

	SQL string
}

// BuildPlan derives the ordered insert statements from the catalog: simple
// dimensions, then sites, rooms, models and finally devices.
func BuildPlan() []Step {
	steps := make([]Step, 0, len(catalog.Dimensions)+4)
	for _, d := range catalog.Dimensions {
		steps = append(steps, Step{Name: d.Name, Table: d.Table, SQL: dimensionSQL(d)})
	}
	return append(steps,
		Step{Name: "Site", Table: catalog.Site.Table, SQL: siteSQL()},
		Step{Name: "Room", Table: catalog.Room.Table, SQL: roomSQL()},
		Step{Name: "Model", Table: catalog.Model.Table, SQL: modelSQL()},
		Step{Name: "Device", Table: catalog.DeviceTable, SQL: deviceSQL()},
	)
}

func ident(parts ...string) string {
	return pgx.Identifier(parts).Sanitize()
}

// src names a staging column of a CSV column through the "s" alias.
func src(csvColumn string) string {
	return ident("s", catalog.StagingColumn(csvColumn))
}

const fromStaging = "FROM staging_devices s"

func dimensionSQL(d catalog.Dimension) string {
	return fmt.Sprintf(`INSERT INTO %s (%s)
SELECT DISTINCT %s
%s
WHERE s.session_id = $1 AND %s <> ''
ON CONFLICT DO NOTHING`,
		ident(d.Table), ident(d.Label), src(d.Source), fromStaging, src(d.Source))
}

// siteSQL keeps one row per site code. Rows carrying a company and site
// group win over rows that leave them empty, then the earliest line wins.
// Sites whose region is empty or unknown are not created.
func siteSQL() string {
	region := catalog.MustDimension(catalog.Site.Parent)
	s := catalog.Site

	cols := []string{ident(s.Label)}
	vals := []string{src(s.Source)}
	order := []string{src(s.Source)}
	for _, a := range s.Attributes {
		cols = append(cols, ident(a.Column))
		vals = append(vals, fmt.Sprintf("NULLIF(%s, '')", src(a.Source)))
		order = append(order, fmt.Sprintf("(%s = '')", src(a.Source)))
	}
	cols = append(cols, ident(region.ID))
	vals = append(vals, ident(region.Table, region.ID))
	order = append(order, "s.line_no")

	return fmt.Sprintf(`INSERT INTO %s (%s)
SELECT DISTINCT ON (%s) %s
%s
JOIN %s ON %s = %s
WHERE s.session_id = $1 AND %s <> ''
ORDER BY %s
ON CONFLICT DO NOTHING`,
		ident(s.Table), strings.Join(cols, ", "),
		src(s.Source), strings.Join(vals, ", "),
		fromStaging,
		ident(region.Table), ident(region.Table, region.Label), src(region.Source),
		src(s.Source),
		strings.Join(order, ", "))
}

// roomSQL creates one room per site and (room, ci_room, floor) tuple. A
// row needs a known site and at least one of the required columns.
func roomSQL() string {
	r := catalog.Room
	site := catalog.Site

	cols := []string{ident(site.ID)}
	vals := []string{ident(site.Table, site.ID)}
	for _, k := range r.Keys {
		cols = append(cols, ident(k.Column))
		vals = append(vals, src(k.Source))
	}

	return fmt.Sprintf(`INSERT INTO %s (%s)
SELECT DISTINCT %s
%s
JOIN %s ON %s = %s
WHERE s.session_id = $1 AND (%s)
ON CONFLICT DO NOTHING`,
		ident(r.Table), strings.Join(cols, ", "),
		strings.Join(vals, ", "),
		fromStaging,
		ident(site.Table), ident(site.Table, site.Label), src(site.Source),
		requiredRoomSQL())
}

func requiredRoomSQL() string {
	conds := make([]string, len(catalog.Room.Required))
	for i, c := range catalog.Room.Required {
		conds[i] = src(c) + " <> ''"
	}
	return strings.Join(conds, " OR ")
}

// modelSQL creates one model per distinct label and reference tuple.
// References that are empty or unknown stay NULL.
func modelSQL() string {
	m := catalog.Model

	cols := []string{ident(m.Label)}
	vals := []string{src(m.Source)}
	for _, ref := range m.Refs {
		d := catalog.MustDimension(ref)
		cols = append(cols, ident(d.ID))
		vals = append(vals, ident(d.Table, d.ID))
	}

	return fmt.Sprintf(`INSERT INTO %s (%s)
SELECT DISTINCT %s
%s
%s
WHERE s.session_id = $1 AND %s <> ''
ON CONFLICT DO NOTHING`,
		ident(m.Table), strings.Join(cols, ", "),
		strings.Join(vals, ", "),
		fromStaging,
		strings.Join(modelRefJoins(), "\n"),
		src(m.Source))
}

func modelRefJoins() []string {
	joins := make([]string, len(catalog.Model.Refs))
	for i, ref := range catalog.Model.Refs {
		joins[i] = labelJoin(catalog.MustDimension(ref))
	}
	return joins
}

func labelJoin(d catalog.Dimension) string {
	return fmt.Sprintf("LEFT JOIN %s ON %s = %s",
		ident(d.Table), ident(d.Table, d.Label), src(d.Source))
}

// deviceSQL inserts one device per staging row that names a model or a
// serial number. Every reference is resolved with a left join, so a value
// that matches nothing leaves the key NULL instead of dropping the row.
func deviceSQL() string {
	cols := []string{"session_id", "line_no"}
	vals := []string{"s.session_id", "s.line_no"}
	for _, a := range catalog.DeviceScalars {
		cols = append(cols, ident(a.Column))
		vals = append(vals, fmt.Sprintf("NULLIF(%s, '')", src(a.Source)))
	}

	var joins []string
	for _, d := range catalog.Dimensions {
		if d.DeviceFK == "" {
			continue
		}
		cols = append(cols, ident(d.DeviceFK))
		vals = append(vals, ident(d.Table, d.ID))
		joins = append(joins, labelJoin(d))
	}

	site, room, model := catalog.Site, catalog.Room, catalog.Model
	cols = append(cols, ident(site.DeviceFK), ident(room.DeviceFK), ident(model.DeviceFK))
	vals = append(vals,
		ident(site.Table, site.ID),
		ident(room.Table, room.ID),
		ident(model.Table, model.ID))

	joins = append(joins, fmt.Sprintf("LEFT JOIN %s ON %s = %s",
		ident(site.Table), ident(site.Table, site.Label), src(site.Source)))

	roomConds := []string{fmt.Sprintf("%s = %s", ident(room.Table, site.ID), ident(site.Table, site.ID))}
	for _, k := range room.Keys {
		roomConds = append(roomConds, fmt.Sprintf("%s = %s", ident(room.Table, k.Column), src(k.Source)))
	}
	joins = append(joins, fmt.Sprintf("LEFT JOIN %s ON %s",
		ident(room.Table), strings.Join(roomConds, " AND ")))

	joins = append(joins, modelRefJoins()...)
	modelConds := []string{fmt.Sprintf("%s = %s", ident(model.Table, model.Label), src(model.Source))}
	for _, ref := range model.Refs {
		d := catalog.MustDimension(ref)
		modelConds = append(modelConds, fmt.Sprintf("%s IS NOT DISTINCT FROM %s",
			ident(model.Table, d.ID), ident(d.Table, d.ID)))
	}
	joins = append(joins, fmt.Sprintf("LEFT JOIN %s ON %s",
		ident(model.Table), strings.Join(modelConds, " AND ")))

	identity := make([]string, len(catalog.IdentityColumns))
	for i, c := range catalog.IdentityColumns {
		identity[i] = src(c) + " <> ''"
	}

	return fmt.Sprintf(`INSERT INTO %s (%s)
SELECT %s
%s
%s
WHERE s.session_id = $1 AND (%s)
ORDER BY s.line_no`,
		ident(catalog.DeviceTable), strings.Join(cols, ", "),
		strings.Join(vals, ", "),
		fromStaging,
		strings.Join(joins, "\n"),
		strings.Join(identity, " OR "))
}

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
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
	"github.com/pgEdge/pgedge-inventory/internal/db"
	"github.com/pgEdge/pgedge-inventory/internal/logging"
)

// RowSet is a listing of flat view rows. A nil cell is a NULL.
type RowSet struct {
	Columns []string
	Rows    [][]*string
}

// Strings returns row i with NULLs as empty strings.
func (r *RowSet) Strings(i int) []string {
	out := make([]string, len(r.Rows[i]))
	for j, v := range r.Rows[i] {
		if v != nil {
			out[j] = *v
		}
	}
	return out
}

// Value returns the named column of row i, "" for NULL or an unknown column.
func (r *RowSet) Value(i int, col string) string {
	j := slices.Index(r.Columns, col)
	if j < 0 || r.Rows[i][j] == nil {
		return ""
	}
	return *r.Rows[i][j]
}

// GroupCount is the device count of one site. Site is "" for devices
// without a resolved site.
type GroupCount struct {
	Site  string `json:"site"`
	Count int64  `json:"count"`
}

// FilterOptions lists the values present in the data for each filter.
type FilterOptions struct {
	Categories   []string `json:"categories"`
	Tiers        []string `json:"tiers"`
	AllowedSites []string `json:"allowed_sites"`
}

// Querier runs read queries against the flat view.
type Querier struct {
	conn         db.DB
	allowedSites []string
}

// New creates a Querier using the given site allow-list for region
// restriction.
func New(conn db.DB, allowedSites []string) *Querier {
	return &Querier{conn: conn, allowedSites: slices.Clone(allowedSites)}
}

// AllowedSites returns the site allow-list.
func (q *Querier) AllowedSites() []string {
	return slices.Clone(q.allowedSites)
}

// Rows lists devices matching the filters, ordered by site, PL name and
// serial number.
func (q *Querier) Rows(ctx context.Context, f Filters) (*RowSet, error) {
	return q.RowsWhere(ctx, f.Predicates(q.allowedSites)...)
}

// Counts returns per-site device counts for the filters.
func (q *Querier) Counts(ctx context.Context, f Filters) ([]GroupCount, error) {
	return q.CountsWhere(ctx, f.Predicates(q.allowedSites)...)
}

// RowsSQL renders the row listing for preds.
func RowsSQL(preds ...Predicate) (string, []any) {
	cols := make([]string, len(catalog.Columns))
	for i, c := range catalog.Columns {
		cols[i] = column(c)
	}
	order := make([]string, len(catalog.RowOrder))
	for i, c := range catalog.RowOrder {
		order[i] = column(c)
	}

	args := &Args{}
	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		strings.Join(cols, ", "), column(catalog.FlatView), Where(args, preds...),
		strings.Join(order, ", "))
	return sql, args.Values()
}

// CountsSQL renders the per-site count for preds.
func CountsSQL(preds ...Predicate) (string, []any) {
	site := column(catalog.SiteColumn)
	args := &Args{}
	sql := fmt.Sprintf("SELECT %s, count(*) FROM %s%s GROUP BY %s ORDER BY %s",
		site, column(catalog.FlatView), Where(args, preds...), site, site)
	return sql, args.Values()
}

// RowsWhere lists devices matching every predicate.
func (q *Querier) RowsWhere(ctx context.Context, preds ...Predicate) (*RowSet, error) {
	start := time.Now()
	sql, args := RowsSQL(preds...)

	rows, err := q.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	values, err := pgx.CollectRows(rows, scanFlatRow)
	if err != nil {
		return nil, fmt.Errorf("failed to read devices: %w", err)
	}

	logging.Debug().
		Int("predicates", len(preds)).
		Int("rows", len(values)).
		Dur("duration", time.Since(start)).
		Msg("Listed devices")

	return &RowSet{Columns: slices.Clone(catalog.Columns), Rows: values}, nil
}

func scanFlatRow(row pgx.CollectableRow) ([]*string, error) {
	vals := make([]*string, len(catalog.Columns))
	dest := make([]any, len(vals))
	for i := range vals {
		dest[i] = &vals[i]
	}
	return vals, row.Scan(dest...)
}

// CountsWhere returns per-site device counts for rows matching every
// predicate.
func (q *Querier) CountsWhere(ctx context.Context, preds ...Predicate) ([]GroupCount, error) {
	sql, args := CountsSQL(preds...)

	rows, err := q.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count devices: %w", err)
	}
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (GroupCount, error) {
		var site *string
		var gc GroupCount
		if err := row.Scan(&site, &gc.Count); err != nil {
			return gc, err
		}
		if site != nil {
			gc.Site = *site
		}
		return gc, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read device counts: %w", err)
	}
	return counts, nil
}

// Options lists the distinct non-empty CI_STATUS and TIER3 values and the
// allowed sites that occur in the data.
func (q *Querier) Options(ctx context.Context) (*FilterOptions, error) {
	categories, err := q.distinct(ctx, catalog.StatusColumn)
	if err != nil {
		return nil, err
	}
	tiers, err := q.distinct(ctx, catalog.TierColumn)
	if err != nil {
		return nil, err
	}
	sites, err := q.distinct(ctx, catalog.SiteColumn,
		MembershipFilter{Column: catalog.SiteColumn, Values: q.allowedSites})
	if err != nil {
		return nil, err
	}
	return &FilterOptions{Categories: categories, Tiers: tiers, AllowedSites: sites}, nil
}

// DistinctSQL renders the distinct non-empty values of col under preds.
func DistinctSQL(col string, preds ...Predicate) (string, []any) {
	c := column(col)
	args := &Args{}
	where := Where(args, preds...)
	if where == "" {
		where = " WHERE "
	} else {
		where += " AND "
	}
	sql := fmt.Sprintf("SELECT DISTINCT %s FROM %s%s%s <> '' ORDER BY %s",
		c, column(catalog.FlatView), where, c, c)
	return sql, args.Values()
}

func (q *Querier) distinct(ctx context.Context, col string, preds ...Predicate) ([]string, error) {
	sql, args := DistinctSQL(col, preds...)
	rows, err := q.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s values: %w", col, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s values: %w", col, err)
	}
	return values, nil
}

//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package export writes query results as delimited text, JSON, aligned
// tables or a SQLite snapshot.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pgEdge/pgedge-inventory/internal/query"
)

// WriteCSV writes a header and every row of rs. NULL cells are written as
// empty fields.
func WriteCSV(w io.Writer, rs *query.RowSet, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	if err := cw.Write(rs.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range rs.Rows {
		if err := cw.Write(rs.Strings(i)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes rs as an array of objects keyed by column name. NULL
// cells are JSON nulls.
func WriteJSON(w io.Writer, rs *query.RowSet) error {
	out := make([]map[string]*string, len(rs.Rows))
	for i, row := range rs.Rows {
		obj := make(map[string]*string, len(rs.Columns))
		for j, c := range rs.Columns {
			obj[c] = row[j]
		}
		out[i] = obj
	}
	return encodeJSON(w, out)
}

// WriteCountsJSON writes per-site counts as a JSON array.
func WriteCountsJSON(w io.Writer, counts []query.GroupCount) error {
	if counts == nil {
		counts = []query.GroupCount{}
	}
	return encodeJSON(w, counts)
}

// WriteValueJSON writes any value as indented JSON.
func WriteValueJSON(w io.Writer, v any) error {
	return encodeJSON(w, v)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteCountsCSV writes per-site counts with a SITE,COUNT header.
func WriteCountsCSV(w io.Writer, counts []query.GroupCount, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	if err := cw.Write([]string{"SITE", "COUNT"}); err != nil {
		return err
	}
	for _, c := range counts {
		if err := cw.Write([]string{c.Site, fmt.Sprint(c.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable writes the given columns of rs as an aligned text table. All
// columns are written when cols is empty.
func WriteTable(w io.Writer, rs *query.RowSet, cols ...string) error {
	if len(cols) == 0 {
		cols = rs.Columns
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	for i := range rs.Rows {
		vals := make([]string, len(cols))
		for j, c := range cols {
			vals[j] = rs.Value(i, c)
		}
		fmt.Fprintln(tw, strings.Join(vals, "\t"))
	}
	return tw.Flush()
}

// WriteCountsTable writes per-site counts as an aligned text table with a
// closing total.
func WriteCountsTable(w io.Writer, counts []query.GroupCount) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SITE\tDEVICES\t")
	var total int64
	for _, c := range counts {
		site := c.Site
		if site == "" {
			site = "(none)"
		}
		fmt.Fprintf(tw, "%s\t%d\t\n", site, c.Count)
		total += c.Count
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t\n", total)
	return tw.Flush()
}

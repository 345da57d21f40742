//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package query reads the device_flat view through typed predicates that
// render to parameterized SQL.
package query

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Args collects positional parameters while predicates render.
type Args struct {
	values []any
}

// Add appends a parameter and returns its placeholder.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// Values returns the collected parameters in placeholder order.
func (a *Args) Values() []any {
	return a.values
}

// Predicate is one condition over flat view columns. Values only reach the
// query as parameters; column names are quoted identifiers.
type Predicate interface {
	SQL(args *Args) string
}

func column(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// MembershipFilter matches rows whose column is one of Values. An empty
// Values list matches nothing.
type MembershipFilter struct {
	Column string
	Values []string
}

// SQL implements Predicate.
func (f MembershipFilter) SQL(args *Args) string {
	values := f.Values
	if values == nil {
		values = []string{}
	}
	return column(f.Column) + " = ANY(" + args.Add(values) + ")"
}

// EqualityFilter matches rows whose column equals Value exactly.
type EqualityFilter struct {
	Column string
	Value  string
}

// SQL implements Predicate.
func (f EqualityFilter) SQL(args *Args) string {
	return column(f.Column) + " = " + args.Add(f.Value)
}

// SubstringFilter matches rows where any of Columns contains Term,
// ignoring case. LIKE wildcards in Term match literally.
type SubstringFilter struct {
	Columns []string
	Term    string
}

// SQL implements Predicate.
func (f SubstringFilter) SQL(args *Args) string {
	p := args.Add("%" + EscapeLike(f.Term) + "%")
	conds := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		conds[i] = column(c) + " ILIKE " + p + ` ESCAPE '\'`
	}
	return "(" + strings.Join(conds, " OR ") + ")"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE metacharacters in s.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Where renders the conjunction of preds as a WHERE clause, or "" when
// there are none.
func Where(args *Args, preds ...Predicate) string {
	conds := make([]string, 0, len(preds))
	for _, p := range preds {
		if p == nil {
			continue
		}
		conds = append(conds, p.SQL(args))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package catalog

import "fmt"

// Placement is the normalized table and column a CSV column is stored in.
type Placement struct {
	Table  string
	Column string
}

// Placements maps every CSV column to its normalized home. It returns an
// error if a column is placed twice or not at all.
func Placements() (map[string]Placement, error) {
	out := make(map[string]Placement, len(Columns))
	add := func(source string, p Placement) error {
		if _, dup := out[source]; dup {
			return fmt.Errorf("column %s placed more than once", source)
		}
		if _, known := columnIndex[source]; !known {
			return fmt.Errorf("column %s is not a CSV column", source)
		}
		out[source] = p
		return nil
	}

	for _, d := range Dimensions {
		if err := add(d.Source, Placement{d.Table, d.Label}); err != nil {
			return nil, err
		}
	}
	if err := add(Site.Source, Placement{Site.Table, Site.Label}); err != nil {
		return nil, err
	}
	for _, a := range Site.Attributes {
		if err := add(a.Source, Placement{Site.Table, a.Column}); err != nil {
			return nil, err
		}
	}
	for _, a := range Room.Keys {
		if err := add(a.Source, Placement{Room.Table, a.Column}); err != nil {
			return nil, err
		}
	}
	if err := add(Model.Source, Placement{Model.Table, Model.Label}); err != nil {
		return nil, err
	}
	for _, a := range DeviceScalars {
		if err := add(a.Source, Placement{DeviceTable, a.Column}); err != nil {
			return nil, err
		}
	}

	for _, c := range Columns {
		if _, ok := out[c]; !ok {
			return nil, fmt.Errorf("column %s has no placement", c)
		}
	}
	return out, nil
}

//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package catalog

// Dimension describes a lookup table filled from the distinct non-empty
// values of a single CSV column.
type Dimension struct {
	// Name identifies the dimension in logs and composite references.
	Name string

	// Table is the dimension table name.
	Table string

	// ID is the surrogate key column.
	ID string

	// Label is the unique text column.
	Label string

	// Source is the CSV column the labels come from.
	Source string

	// DeviceFK is the devices column referencing this dimension. Empty when
	// the dimension is only reached through a composite (Region via Site,
	// Manufacturer and tiers via Model).
	DeviceFK string
}

// Attribute maps a CSV column onto a column of a composite table.
type Attribute struct {
	Column string
	Source string
}

// SiteSpec describes the Site dimension, which requires its Region.
type SiteSpec struct {
	Table      string
	ID         string
	Label      string
	Source     string
	Parent     string
	Attributes []Attribute
	DeviceFK   string
}

// RoomSpec describes the Room dimension, keyed by its site plus the
// (room, ci_room, floor) tuple. A room is only created when at least one
// of the Required columns is non-empty.
type RoomSpec struct {
	Table    string
	ID       string
	Keys     []Attribute
	Required []string
	DeviceFK string
}

// ModelSpec describes the Model dimension. Refs name the simple dimensions
// a model points at; each is stored under that dimension's ID column.
// PartNumber is one of the refs, which makes Model to PartNumber one-to-one
// from the model side.
type ModelSpec struct {
	Table    string
	ID       string
	Label    string
	Source   string
	Refs     []string
	DeviceFK string
}

// Dimensions lists the simple dimensions in population order.
var Dimensions = []Dimension{
	{Name: "Region", Table: "regions", ID: "region_id", Label: "region", Source: "REGION"},
	{Name: "Manufacturer", Table: "manufacturers", ID: "manu_id", Label: "manufacturername", Source: "MANUFACTURERNAME"},
	{Name: "Tier1", Table: "tier1s", ID: "tier1_id", Label: "tier1", Source: "TIER1"},
	{Name: "Tier2", Table: "tier2s", ID: "tier2_id", Label: "tier2", Source: "TIER2"},
	{Name: "Tier3", Table: "tier3s", ID: "tier3_id", Label: "tier3", Source: "TIER3"},
	{Name: "PartNumber", Table: "partnumbers", ID: "partnumber_id", Label: "partnumber", Source: "PARTNUMBER"},
	{Name: "CostCenter", Table: "cost_centers", ID: "cc_id", Label: "pl_cost_center", Source: "PL_COST_CENTER", DeviceFK: "costcenter_id"},
	{Name: "Supplier", Table: "suppliers", ID: "supplier_id", Label: "suppliername", Source: "SUPPLIERNAME", DeviceFK: "supplier_id"},
	{Name: "Department", Table: "departments", ID: "department_id", Label: "department", Source: "DEPARTMENT", DeviceFK: "department_id"},
	{Name: "PLName", Table: "pl_names", ID: "pl_name_id", Label: "pl_name", Source: "PL_NAME", DeviceFK: "pl_name_id"},
	{Name: "OwnedBy", Table: "owned_bys", ID: "owner_id", Label: "owned_by", Source: "OWNED_BY", DeviceFK: "owner_id"},
	{Name: "UsedBy", Table: "used_bys", ID: "user_id", Label: "used_by", Source: "USED_BY", DeviceFK: "user_id"},
	{Name: "SupportedBy", Table: "supported_bys", ID: "supporter_id", Label: "supported_by", Source: "SUPPORTED_BY", DeviceFK: "supporter_id"},
	{Name: "Relation", Table: "relations", ID: "relation_id", Label: "relation", Source: "RELATION", DeviceFK: "relation_id"},
	{Name: "Type", Table: "types", ID: "type_id", Label: "type", Source: "TYPE", DeviceFK: "type_id"},
	{Name: "Depot", Table: "depots", ID: "depot_id", Label: "depot", Source: "DEPOT", DeviceFK: "depot_id"},
	{Name: "PLStatus", Table: "pl_statuses", ID: "pl_status_id", Label: "pl_status", Source: "PL_STATUS", DeviceFK: "pl_status_id"},
	{Name: "CIStatus", Table: "ci_statuses", ID: "ci_status_id", Label: "ci_status", Source: "CI_STATUS", DeviceFK: "ci_status_id"},
}

// Site is the Site dimension.
var Site = SiteSpec{
	Table:  "sites",
	ID:     "site_id",
	Label:  "site",
	Source: "SITE",
	Parent: "Region",
	Attributes: []Attribute{
		{Column: "company", Source: "COMPANY"},
		{Column: "sitegroup", Source: "SITEGROUP"},
	},
	DeviceFK: "site_id",
}

// Room is the Room dimension.
var Room = RoomSpec{
	Table: "rooms",
	ID:    "room_id",
	Keys: []Attribute{
		{Column: "room", Source: "ROOM"},
		{Column: "ci_room", Source: "CI_ROOM"},
		{Column: "floor", Source: "FLOOR"},
	},
	Required: []string{"ROOM", "CI_ROOM"},
	DeviceFK: "room_id",
}

// Model is the Model dimension.
var Model = ModelSpec{
	Table:    "models",
	ID:       "model_id",
	Label:    "model",
	Source:   "MODEL",
	Refs:     []string{"Manufacturer", "Tier1", "Tier2", "Tier3", "PartNumber"},
	DeviceFK: "model_id",
}

// DimensionByName returns the simple dimension with the given name.
func DimensionByName(name string) (Dimension, bool) {
	for _, d := range Dimensions {
		if d.Name == name {
			return d, true
		}
	}
	return Dimension{}, false
}

// MustDimension is DimensionByName for names fixed in this package.
func MustDimension(name string) Dimension {
	d, ok := DimensionByName(name)
	if !ok {
		panic("catalog: unknown dimension " + name)
	}
	return d
}

// DimensionTables returns every dimension table, composites included, in
// dependency order (parents first).
func DimensionTables() []string {
	tables := make([]string, 0, len(Dimensions)+3)
	for _, d := range Dimensions {
		tables = append(tables, d.Table)
	}
	return append(tables, Site.Table, Room.Table, Model.Table)
}

//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package catalog

const (
	// DeviceTable is the fact table.
	DeviceTable = "devices"

	// DeviceID is the fact table surrogate key.
	DeviceID = "device_id"

	// StagingTable holds raw CSV rows per import session.
	StagingTable = "staging_devices"

	// SessionTable records import sessions.
	SessionTable = "import_sessions"

	// FlatView is the denormalized read view.
	FlatView = "device_flat"
)

// DeviceScalars lists the device attributes copied straight from staging.
// Empty values are stored as NULL. Dates stay text because the export
// carries free-form values.
var DeviceScalars = []Attribute{
	{Column: "serialnumber", Source: "SERIALNUMBER"},
	{Column: "shortdescription", Source: "SHORTDESCRIPTION"},
	{Column: "physicalposition", Source: "PHYSICALPOSITION"},
	{Column: "destination_classid", Source: "DESTINATION_CLASSID"},
	{Column: "ci_name", Source: "CI_NAME"},
	{Column: "ci_id", Source: "CI_ID"},
	{Column: "budgetcode", Source: "BUDGETCODE"},
	{Column: "purchase_date", Source: "PURCHASE_DATE"},
	{Column: "received_date", Source: "RECEIVED_DATE"},
	{Column: "installation_date", Source: "INSTALLATION_DATE"},
	{Column: "available_date", Source: "AVAILABLE_DATE"},
	{Column: "return_date", Source: "RETURN_DATE"},
	{Column: "disposal_date", Source: "DISPOSAL_DATE"},
	{Column: "mark_as_deleted", Source: "MARK_AS_DELETED"},
	{Column: "create_date", Source: "CREATE_DATE"},
	{Column: "modified_date", Source: "MODIFIED_DATE"},
	{Column: "role", Source: "ROLE"},
	{Column: "childname", Source: "CHILDNAME"},
	{Column: "confbasicnumber", Source: "CONFBASICNUMBER"},
	{Column: "buildnumber", Source: "BUILDNUMBER"},
	{Column: "additional_information", Source: "ADDITIONAL_INFORMATION"},
	{Column: "supported", Source: "SUPPORTED"},
}

// IdentityColumns are the CSV columns of which at least one must be
// non-empty for a staging row to become a device.
var IdentityColumns = []string{"MODEL", "SERIALNUMBER"}

// DeviceForeignKeys returns every devices column that references a
// dimension, simple ones first, then site, room and model.
func DeviceForeignKeys() []string {
	var fks []string
	for _, d := range Dimensions {
		if d.DeviceFK != "" {
			fks = append(fks, d.DeviceFK)
		}
	}
	return append(fks, Site.DeviceFK, Room.DeviceFK, Model.DeviceFK)
}

//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package catalog

// Flat view columns the query layer filters and groups on.
const (
	SiteColumn     = "SITE"
	StatusColumn   = "CI_STATUS"
	TierColumn     = "TIER3"
	PLNameColumn   = "PL_NAME"
	SerialColumn   = "SERIALNUMBER"
	DeployedStatus = "Deployed"
)

// SearchColumns are matched by free-text search.
var SearchColumns = []string{"PL_NAME", "SHORTDESCRIPTION", "MODEL", "SERIALNUMBER"}

// RowOrder is the ordering of row listings.
var RowOrder = []string{SiteColumn, PLNameColumn, SerialColumn}

// ReportTiers are the TIER3 values included in the deployed-clients report.
var ReportTiers = []string{
	"Computer",
	"Notebook",
	"Notebook-Special",
	"ThinClient",
	"Workstation",
	"Workstation-Mobile",
}

// DACHSites is the default allow-list of site codes for region restriction.
var DACHSites = []string{
	"ARW", "ALS", "ARB", "BYR", "BRL", "BR2", "BEH", "BER", "BLF", "BRB", "BRM",
	"BRN", "DMM", "DAM", "DED", "DLN", "DPH", "DRT", "DRS", "DUS", "EDM", "ETR",
	"ETF", "ESC", "ES2", "ESP", "ERB", "FR2", "FR4", "FRK", "FRD", "FRT", "GEL",
	"GCH", "GC2", "GTH", "GRN", "GDN", "HNV", "HN2", "HN3", "HN4", "HLD", "HCO",
	"IGS", "KRL", "KSM", "KVL", "KOB", "ELS", "KSC", "KRS", "KRZ", "LNG", "LN2",
	"LN3", "LSN", "LBR", "LMF", "LVK", "LAT", "LHR", "MGD", "MNN", "MNH", "MH2",
	"MND", "MGG", "MNC", "MN2", "NKR", "NEU", "NDR", "NRN", "NR2", "NRB", "OBR",
	"PAS", "PEN", "PEI", "PFL", "PFN", "RAD", "RIZ", "RVS", "RGN", "RG2", "SBR",
	"SCB", "SCM", "SCN", "SCF", "SCW", "SC2", "SEL", "SNN", "SMM", "SND", "STY",
	"STT", "THY", "THN", "TRS", "UEB", "UNT", "VNN", "VN2", "VLK", "WGN", "WRD",
	"WTZ", "WTT", "WTN", "WLF", "WUE", "ZEU", "ZUG",
}

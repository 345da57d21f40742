//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
)

// GeneratorConfig holds configuration for sample generation.
type GeneratorConfig struct {
	// Rows is the number of data rows to write.
	Rows int

	// Seed makes output reproducible. Zero picks a random seed.
	Seed uint64

	// BlankProbability is the chance that an optional cell is left empty.
	BlankProbability float64

	// Delimiter separates fields. Zero means ';'.
	Delimiter rune

	// AllowedSites are the site codes most rows are placed at.
	AllowedSites []string
}

// hardware is a consistent model description.
type hardware struct {
	model        string
	manufacturer string
	tier1        string
	tier2        string
	tier3        string
	partnumber   string
}

var hardwareCatalog = []hardware{
	{"ThinkPad X1 Carbon Gen 11", "Lenovo", "Hardware", "Client", "Notebook", "21HM0065GE"},
	{"ThinkPad T14s Gen 4", "Lenovo", "Hardware", "Client", "Notebook", "21F6004BGE"},
	{"Latitude 7440", "Dell", "Hardware", "Client", "Notebook", "N024L744014EMEA"},
	{"Precision 7680", "Dell", "Hardware", "Client", "Workstation-Mobile", "N005P7680EMEA"},
	{"Precision 3660 Tower", "Dell", "Hardware", "Client", "Workstation", "N013P3660MTEMEA"},
	{"OptiPlex 7010 SFF", "Dell", "Hardware", "Client", "Computer", "N010O7010SFFEMEA"},
	{"EliteDesk 800 G9", "HP", "Hardware", "Client", "Computer", "6B2L3EA"},
	{"t640 Thin Client", "HP", "Hardware", "Client", "ThinClient", "6TV42EA"},
	{"Toughbook 40", "Panasonic", "Hardware", "Client", "Notebook-Special", "FZ-40A1KAKE4"},
	{"ProLiant DL380 Gen11", "HPE", "Hardware", "Server", "Rack Server", "P52534-B21"},
	{"Catalyst 9300-48P", "Cisco", "Hardware", "Network", "Switch", "C9300-48P-E"},
	{"LaserJet Enterprise M611dn", "HP", "Hardware", "Peripheral", "Printer", "7PS84A"},
	{"U2723QE", "Dell", "Hardware", "Peripheral", "Monitor", "DELL-U2723QE"},
}

var (
	statuses      = []string{catalog.DeployedStatus, "In Stock", "In Repair", "Retired", "Disposed"}
	statusWeights = []int{60, 15, 5, 12, 8}

	otherSites = map[string][]string{
		"EMEA": {"LON", "PAR", "MAD", "MIL", "AMS", "WAW"},
		"AMER": {"NYC", "CHI", "TOR", "SAO"},
		"APAC": {"SGP", "TYO", "SYD", "BLR"},
	}

	departments = []string{"Finance", "Engineering", "Logistics", "Human Resources", "Sales", "IT Operations"}
	suppliers   = []string{"Bechtle AG", "Cancom SE", "Computacenter", "SVA GmbH"}
	relations   = []string{"Owned", "Leased", "Rented"}
	types       = []string{"Hardware Asset", "Configuration Item"}
	depots      = []string{"Central Depot", "Regional Depot North", "Regional Depot South"}
	roles       = []string{"Primary", "Spare", "Loaner"}
	plStatuses  = []string{"Active", "Inactive", "Planned"}
	supportOrgs = []string{"Service Desk", "Field Services", "Datacenter Ops"}
)

type siteInfo struct {
	region    string
	company   string
	sitegroup string
}

// Generator writes synthetic inventory exports.
type Generator struct {
	cfg   GeneratorConfig
	faker *Faker
	sites map[string]siteInfo
	codes []string
	start time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	f := NewFaker()
	if cfg.Seed != 0 {
		f = NewFakerWithSeed(cfg.Seed)
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ';'
	}
	if len(cfg.AllowedSites) == 0 {
		cfg.AllowedSites = catalog.DACHSites
	}
	return &Generator{
		cfg:   cfg,
		faker: f,
		sites: make(map[string]siteInfo),
		start: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Generate writes the header and cfg.Rows data rows to w.
func (g *Generator) Generate(ctx context.Context, w io.Writer, target string) (int, error) {
	cw := csv.NewWriter(w)
	cw.Comma = g.cfg.Delimiter

	if err := cw.Write(catalog.Columns); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	progress := NewProgressReporter(target, int64(g.cfg.Rows), max(int64(g.cfg.Rows)/10, 1000))
	for i := 0; i < g.cfg.Rows; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := cw.Write(g.Row()); err != nil {
			return i, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
		progress.Update(1)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return g.cfg.Rows, err
	}
	progress.Done()
	return g.cfg.Rows, nil
}

// Row returns one synthetic row aligned with catalog.Columns.
func (g *Generator) Row() []string {
	f := g.faker
	blank := g.cfg.BlankProbability
	row := make([]string, len(catalog.Columns))
	set := func(col, v string) {
		i, _ := catalog.ColumnIndex(col)
		row[i] = v
	}
	opt := func(col, v string) {
		set(col, f.Blank(v, blank))
	}

	code := g.siteCode()
	site := g.site(code)
	hw := Choose(f, hardwareCatalog)
	status := ChooseWeighted(f, statuses, statusWeights)
	owner := f.Name()
	serial := strings.ToUpper(f.Letters(3)) + f.Digits(7)

	set("SITE", code)
	set("REGION", site.region)
	opt("COMPANY", site.company)
	opt("SITEGROUP", site.sitegroup)
	set("SERIALNUMBER", serial)
	opt("MODEL", hw.model)
	opt("MANUFACTURERNAME", hw.manufacturer)
	opt("TIER1", hw.tier1)
	opt("TIER2", hw.tier2)
	opt("TIER3", hw.tier3)
	opt("PARTNUMBER", hw.partnumber)
	set("CI_STATUS", status)
	opt("PL_NAME", fmt.Sprintf("%s-%s", code, serial[len(serial)-5:]))
	opt("CI_NAME", fmt.Sprintf("%s%s", strings.ToLower(code), f.Digits(5)))
	opt("CI_ID", "CI"+f.Digits(9))
	opt("SHORTDESCRIPTION", fmt.Sprintf("%s %s for %s", hw.manufacturer, hw.model, owner))
	opt("ROOM", fmt.Sprintf("%s.%02d", Choose(f, []string{"A", "B", "C"}), f.Int(1, 40)))
	opt("CI_ROOM", fmt.Sprintf("R%03d", f.Int(1, 300)))
	opt("FLOOR", fmt.Sprint(f.Int(0, 8)))
	opt("PHYSICALPOSITION", fmt.Sprintf("Desk %d", f.Int(1, 120)))
	opt("DEPARTMENT", Choose(f, departments))
	opt("OWNED_BY", owner)
	opt("USED_BY", owner)
	opt("SUPPORTED_BY", Choose(f, supportOrgs))
	opt("PL_COST_CENTER", "CC"+f.Digits(5))
	opt("PL_STATUS", Choose(f, plStatuses))
	opt("RELATION", Choose(f, relations))
	opt("DESTINATION_CLASSID", "CLS"+f.Digits(4))
	opt("BUDGETCODE", "B-"+f.Digits(6))
	opt("SUPPLIERNAME", Choose(f, suppliers))
	opt("ROLE", Choose(f, roles))
	opt("CHILDNAME", "")
	opt("CONFBASICNUMBER", f.Digits(8))
	opt("BUILDNUMBER", fmt.Sprintf("%d.%d.%d", f.Int(10, 24), f.Int(0, 9), f.Int(0, 9999)))
	opt("TYPE", Choose(f, types))
	opt("ADDITIONAL_INFORMATION", f.Sentence(6))
	opt("DEPOT", Choose(f, depots))
	opt("SUPPORTED", Choose(f, []string{"Yes", "No"}))
	opt("MARK_AS_DELETED", Choose(f, []string{"0", "1"}))

	g.dates(set, opt, status)
	return row
}

// dates fills the lifecycle dates in order; disposal and return dates are
// only set for devices that left service.
func (g *Generator) dates(set, opt func(col, v string), status string) {
	f := g.faker
	day := func(t time.Time) string { return t.Format("2006-01-02") }

	purchase := f.DateRange(g.start, g.start.AddDate(6, 0, 0))
	received := purchase.AddDate(0, 0, f.Int(1, 30))
	installed := received.AddDate(0, 0, f.Int(1, 60))

	set("CREATE_DATE", day(purchase))
	opt("PURCHASE_DATE", day(purchase))
	opt("RECEIVED_DATE", day(received))
	opt("INSTALLATION_DATE", day(installed))
	opt("AVAILABLE_DATE", day(installed.AddDate(0, 0, 1)))
	opt("MODIFIED_DATE", day(installed.AddDate(0, f.Int(0, 24), 0)))

	if status == "Retired" || status == "Disposed" {
		ret := installed.AddDate(f.Int(2, 5), 0, 0)
		opt("RETURN_DATE", day(ret))
		if status == "Disposed" {
			opt("DISPOSAL_DATE", day(ret.AddDate(0, 0, f.Int(10, 90))))
		}
	}
}

// siteCode picks an allowed site most of the time.
func (g *Generator) siteCode() string {
	if g.faker.Float64(0, 1) < 0.75 {
		return Choose(g.faker, g.cfg.AllowedSites)
	}
	region := Choose(g.faker, []string{"EMEA", "AMER", "APAC"})
	return Choose(g.faker, otherSites[region])
}

// site returns stable attributes for a site code.
func (g *Generator) site(code string) siteInfo {
	if s, ok := g.sites[code]; ok {
		return s
	}
	s := siteInfo{region: "DACH", sitegroup: "Central Europe"}
	for region, codes := range otherSites {
		for _, c := range codes {
			if c == code {
				s.region = region
				s.sitegroup = region + " Sites"
			}
		}
	}
	s.company = g.faker.Company()
	g.sites[code] = s
	return s
}

//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
	"github.com/pgEdge/pgedge-inventory/internal/export"
	"github.com/pgEdge/pgedge-inventory/internal/query"
)

// filterFlags holds the interactive filter flags shared by rows, counts
// and export.
type filterFlags struct {
	dach   bool
	status string
	tier   string
	search string
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.dach, "dach", false, "restrict to the allowed sites")
	fs.StringVar(&f.status, "status", "", "exact CI_STATUS value")
	fs.StringVar(&f.tier, "tier", "", "exact TIER3 value")
	fs.StringVar(&f.search, "search", "",
		"case-insensitive text matched against PL_NAME, SHORTDESCRIPTION, MODEL and SERIALNUMBER")
}

func (f *filterFlags) filters() query.Filters {
	return query.Filters{
		RegionRestriction: f.dach,
		Category:          f.status,
		Tier:              f.tier,
		FreeText:          f.search,
	}
}

// tableColumns are shown by the table format; csv and json carry every
// column.
var tableColumns = []string{
	catalog.SiteColumn, "PL_NAME", "MODEL", "SERIALNUMBER",
	catalog.StatusColumn, catalog.TierColumn,
}

var (
	rowsFilters   filterFlags
	countsFilters filterFlags
	exportFilters filterFlags

	outputFormat string
	reportCounts bool

	exportFormat string
	exportOutput string
	exportReport string
	exportTable  string
)

var rowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "List devices from the flat view",
	Long: `List devices from device_flat ordered by SITE, PL_NAME and
SERIALNUMBER. All filters combine with AND.

Example:
  pgedge-inventory rows --dach --status Deployed --search think`,
	Args: cobra.NoArgs,
	RunE: runRows,
}

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Count devices per site",
	Args:  cobra.NoArgs,
	RunE:  runCounts,
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the values available to the filters",
	Args:  cobra.NoArgs,
	RunE:  runOptions,
}

var reportCmd = &cobra.Command{
	Use:   "report NAME",
	Short: "Run a canned report",
	Long: `Run a canned report by name. Use 'pgedge-inventory reports' to list
the available reports.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export devices as CSV or a SQLite snapshot",
	Long: `Export filtered devices, or the rows of a canned report, as CSV or as
a table in a SQLite database file.

Example:
  pgedge-inventory export --dach --output dach.csv
  pgedge-inventory export --report dach-deployed --format sqlite --output inventory.db`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rowsFilters.register(rowsCmd.Flags())
	countsFilters.register(countsCmd.Flags())
	exportFilters.register(exportCmd.Flags())

	for _, c := range []*cobra.Command{rowsCmd, countsCmd, optionsCmd, reportCmd} {
		c.Flags().StringVar(&outputFormat, "format", "",
			"output format: table, csv or json")
	}
	reportCmd.Flags().BoolVar(&reportCounts, "counts", false,
		"print per-site counts instead of rows")

	exportCmd.Flags().StringVar(&exportFormat, "format", "",
		"export format: csv or sqlite")
	exportCmd.Flags().StringVar(&exportOutput, "output", "",
		"output file (- for stdout, csv only)")
	exportCmd.Flags().StringVar(&exportReport, "report", "",
		"export the rows of a canned report instead of filtered devices")
	exportCmd.Flags().StringVar(&exportTable, "table", catalog.FlatView,
		"table name for sqlite exports")
}

func prepareQuery() error {
	if outputFormat != "" {
		cfg.Query.Format = outputFormat
	}
	return cfg.ValidateQuery()
}

func runRows(cmd *cobra.Command, args []string) error {
	if err := prepareQuery(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, pool, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	rs, err := p.QueryRows(ctx, rowsFilters.filters())
	if err != nil {
		return err
	}
	return writeRows(cmd.OutOrStdout(), rs, cfg.Query.Format)
}

func runCounts(cmd *cobra.Command, args []string) error {
	if err := prepareQuery(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, pool, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	counts, err := p.QueryCounts(ctx, countsFilters.filters())
	if err != nil {
		return err
	}
	return writeCounts(cmd.OutOrStdout(), counts, cfg.Query.Format)
}

func runOptions(cmd *cobra.Command, args []string) error {
	if err := prepareQuery(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, pool, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	opts, err := p.ListFilterOptions(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Query.Format == "json" {
		return export.WriteValueJSON(out, opts)
	}
	for _, sec := range []struct {
		title  string
		values []string
	}{
		{"CI_STATUS", opts.Categories},
		{"TIER3", opts.Tiers},
		{"Allowed sites present", opts.AllowedSites},
	} {
		fmt.Fprintf(out, "%s:\n", sec.title)
		for _, v := range sec.values {
			fmt.Fprintf(out, "  %s\n", v)
		}
	}
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := prepareQuery(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, pool, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if reportCounts {
		counts, err := p.ReportCounts(ctx, args[0])
		if err != nil {
			return err
		}
		return writeCounts(cmd.OutOrStdout(), counts, cfg.Query.Format)
	}

	rs, err := p.ReportRows(ctx, args[0])
	if err != nil {
		return err
	}
	return writeRows(cmd.OutOrStdout(), rs, cfg.Query.Format)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "" {
		cfg.Export.Format = exportFormat
	}
	if exportOutput != "" {
		cfg.Export.Output = exportOutput
	}
	if err := cfg.ValidateExport(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, pool, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	var rs *query.RowSet
	if exportReport != "" {
		rs, err = p.ReportRows(ctx, exportReport)
	} else {
		rs, err = p.QueryRows(ctx, exportFilters.filters())
	}
	if err != nil {
		return err
	}

	if cfg.Export.Format == "sqlite" {
		if err := export.WriteSQLite(ctx, cfg.Export.Output, exportTable, rs); err != nil {
			return err
		}
		cmd.Printf("Exported %d rows to %s\n", len(rs.Rows), cfg.Export.Output)
		return nil
	}

	w, closeFn, err := openOutput(cmd, cfg.Export.Output)
	if err != nil {
		return err
	}
	if err := export.WriteCSV(w, rs, cfg.DelimiterRune()); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func writeRows(w io.Writer, rs *query.RowSet, format string) error {
	switch format {
	case "csv":
		return export.WriteCSV(w, rs, cfg.DelimiterRune())
	case "json":
		return export.WriteJSON(w, rs)
	default:
		if err := export.WriteTable(w, rs, tableColumns...); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\n%d rows\n", len(rs.Rows))
		return err
	}
}

func writeCounts(w io.Writer, counts []query.GroupCount, format string) error {
	switch format {
	case "csv":
		return export.WriteCountsCSV(w, counts, cfg.DelimiterRune())
	case "json":
		return export.WriteCountsJSON(w, counts)
	default:
		return export.WriteCountsTable(w, counts)
	}
}

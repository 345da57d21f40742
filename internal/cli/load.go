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
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-inventory/internal/logging"
	"github.com/pgEdge/pgedge-inventory/internal/staging"
)

var (
	importStageOnly bool
	importDelimiter string
	importEncoding  string

	normalizeSession string

	sessionsLimit int
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty every inventory table",
	Long: `Remove all staged, normalized and session data in one transaction.
The schema itself is kept.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Stage an inventory export and normalize it",
	Long: `Parse a delimited inventory export (use - for stdin), stage its rows
as a new import session and normalize the session. With --stage-only
the session is left staged for a later 'normalize'.

Example:
  pgedge-inventory import devices.csv
  pgedge-inventory import --encoding windows-1252 legacy.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize a staged import session",
	Long: `Rebuild the dimension and device tables from a staged session. The
newest staged session is used unless --session is given.`,
	Args: cobra.NoArgs,
	RunE: runNormalize,
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent import sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessions,
}

func init() {
	importCmd.Flags().BoolVar(&importStageOnly, "stage-only", false,
		"stage the file without normalizing it")
	importCmd.Flags().StringVar(&importDelimiter, "delimiter", "",
		"field delimiter (default ;)")
	importCmd.Flags().StringVar(&importEncoding, "encoding", "",
		"source encoding without BOM: utf-8, windows-1252, iso-8859-1")

	normalizeCmd.Flags().StringVar(&normalizeSession, "session", "",
		"session ID to normalize (default: newest staged session)")

	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 20,
		"maximum number of sessions to list")
}

func runClear(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, pool, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	return p.Clear(ctx)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importStageOnly {
		cfg.Import.StageOnly = true
	}
	if importDelimiter != "" {
		cfg.Import.Delimiter = importDelimiter
	}
	if importEncoding != "" {
		cfg.Import.Encoding = importEncoding
	}
	if err := cfg.ValidateImport(); err != nil {
		return err
	}

	source := args[0]
	var in io.Reader = cmd.InOrStdin()
	if source != "-" {
		f, err := os.Open(source)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, pool, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	defer p.Stats().PrintSummary()

	s, err := p.ImportCSV(ctx, in, source)
	if err != nil {
		return err
	}
	cmd.Printf("Staged %d rows (%d blank rows skipped) as session %s\n",
		s.StagedRows, s.SkippedRows, s.ID)

	if cfg.Import.StageOnly {
		return nil
	}

	res, err := p.Normalize(ctx, s)
	if err != nil {
		return err
	}
	cmd.Printf("Normalized %d devices in %s\n", res.Devices, res.Duration.Round(time.Millisecond))
	return nil
}

func runNormalize(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var session *staging.Session
	if normalizeSession != "" {
		id, err := uuid.Parse(normalizeSession)
		if err != nil {
			return fmt.Errorf("invalid session ID: %w", err)
		}
		session = &staging.Session{ID: id}
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, pool, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	res, err := p.Normalize(ctx, session)
	if err != nil {
		return err
	}

	logging.Debug().Interface("counts", res.Counts).Msg("Rows inserted per table")
	cmd.Printf("Normalized session %s: %d devices in %s\n",
		res.SessionID, res.Devices, res.Duration.Round(time.Millisecond))
	return nil
}

func runSessions(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, pool, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	sessions, err := p.Sessions(ctx, sessionsLimit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tSTATUS\tSTAGED\tDEVICES\tCREATED\tSOURCE")
	for _, s := range sessions {
		devices := "-"
		if s.DeviceRows != nil {
			devices = fmt.Sprint(*s.DeviceRows)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			s.ID, s.Status, s.StagedRows, devices,
			s.CreatedAt.Local().Format(time.DateTime), s.Source)
	}
	return tw.Flush()
}

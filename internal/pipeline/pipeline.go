//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline exposes the inventory operations: clear, import,
// normalize, row and count queries, filter options and canned reports.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
	"github.com/pgEdge/pgedge-inventory/internal/db"
	"github.com/pgEdge/pgedge-inventory/internal/ingest"
	"github.com/pgEdge/pgedge-inventory/internal/logging"
	"github.com/pgEdge/pgedge-inventory/internal/normalize"
	"github.com/pgEdge/pgedge-inventory/internal/query"
	"github.com/pgEdge/pgedge-inventory/internal/reports"
	"github.com/pgEdge/pgedge-inventory/internal/schema"
	"github.com/pgEdge/pgedge-inventory/internal/staging"
	"github.com/pgEdge/pgedge-inventory/pkg/version"

	// Register the built-in reports
	_ "github.com/pgEdge/pgedge-inventory/internal/reports/dach"
)

// Config holds pipeline settings.
type Config struct {
	// Ingest controls CSV parsing.
	Ingest ingest.Options

	// AllowedSites is the region restriction allow-list.
	AllowedSites []string

	// ReportStatus is the CI_STATUS canned reports select.
	ReportStatus string

	// ReportTiers are the TIER3 values canned reports select.
	ReportTiers []string
}

// DefaultConfig returns the settings for the standard export and the DACH
// allow-list.
func DefaultConfig() Config {
	return Config{
		Ingest:       ingest.DefaultOptions(),
		AllowedSites: slices.Clone(catalog.DACHSites),
		ReportStatus: catalog.DeployedStatus,
		ReportTiers:  slices.Clone(catalog.ReportTiers),
	}
}

// Pipeline runs inventory operations against one database.
type Pipeline struct {
	conn       db.DB
	cfg        Config
	normalizer *normalize.Normalizer
	querier    *query.Querier
	stats      *Stats
}

// New creates a Pipeline.
func New(conn db.DB, cfg Config) *Pipeline {
	return &Pipeline{
		conn:       conn,
		cfg:        cfg,
		normalizer: normalize.New(conn),
		querier:    query.New(conn, cfg.AllowedSites),
		stats:      NewStats(),
	}
}

// Stats returns the pipeline's operation statistics.
func (p *Pipeline) Stats() *Stats {
	return p.stats
}

// Init creates the schema, dropping an existing one first when requested.
func (p *Pipeline) Init(ctx context.Context, dropExisting bool) (err error) {
	start := time.Now()
	defer func() { p.stats.Observe("init", start, 0, err) }()

	if dropExisting {
		logging.Info().Msg("Dropping existing inventory schema")
		if err := schema.DropSchema(ctx, p.conn); err != nil {
			return err
		}
		if err := db.DropMetadata(ctx, p.conn); err != nil {
			return fmt.Errorf("failed to drop metadata: %w", err)
		}
	}
	if err := schema.CreateSchema(ctx, p.conn); err != nil {
		return err
	}
	return db.SaveInitMetadata(ctx, p.conn, version.SchemaVersion)
}

// Clear empties every inventory table, staging and sessions included, in
// one transaction. It waits for a running normalization to finish.
func (p *Pipeline) Clear(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { p.stats.Observe("clear", start, 0, err) }()

	if err := p.requireSchema(ctx); err != nil {
		return err
	}

	err = pgx.BeginFunc(ctx, p.conn, func(tx pgx.Tx) error {
		if err := db.LockInventory(ctx, tx); err != nil {
			return fmt.Errorf("failed to lock inventory: %w", err)
		}
		if _, err := tx.Exec(ctx, schema.TruncateAllSQL()); err != nil {
			return fmt.Errorf("failed to clear inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.Info().Msg("Cleared inventory tables")
	return nil
}

// ImportCSV parses r and stages its rows as a new import session. Nothing
// is written when parsing fails.
func (p *Pipeline) ImportCSV(ctx context.Context, r io.Reader, source string) (s *staging.Session, err error) {
	start := time.Now()
	defer func() {
		var rows int64
		if s != nil {
			rows = int64(s.StagedRows)
		}
		p.stats.Observe("import", start, rows, err)
	}()

	if err := p.requireSchema(ctx); err != nil {
		return nil, err
	}

	res, err := ingest.Read(r, p.cfg.Ingest)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	if len(res.Missing) > 0 {
		logging.Warn().
			Str("source", source).
			Strs("missing", res.Missing).
			Msg("Input lacks expected columns; their values will be empty")
	}

	s = staging.NewSession(source)
	if err := staging.Stage(ctx, p.conn, s, res); err != nil {
		return nil, err
	}
	return s, nil
}

// Normalize rebuilds the normalized tables from a staged session, or from
// the newest staged session when s is nil.
func (p *Pipeline) Normalize(ctx context.Context, s *staging.Session) (res *normalize.Result, err error) {
	start := time.Now()
	defer func() {
		var rows int64
		if res != nil {
			rows = res.Devices
		}
		p.stats.Observe("normalize", start, rows, err)
	}()

	if err := p.requireSchema(ctx); err != nil {
		return nil, err
	}

	if s == nil {
		s, err = staging.LatestStaged(ctx, p.conn)
		if errors.Is(err, staging.ErrNoSession) {
			return nil, fmt.Errorf("nothing to normalize: %w", err)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find staged session: %w", err)
		}
	}
	return p.normalizer.Run(ctx, s.ID)
}

// requireSchema returns db.ErrNotInitialized when init has not created the
// inventory tables.
func (p *Pipeline) requireSchema(ctx context.Context) error {
	ok, err := schema.Exists(ctx, p.conn)
	if err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}
	if !ok {
		return db.ErrNotInitialized
	}
	return nil
}

// Load imports r and normalizes the resulting session.
func (p *Pipeline) Load(ctx context.Context, r io.Reader, source string) (*normalize.Result, error) {
	s, err := p.ImportCSV(ctx, r, source)
	if err != nil {
		return nil, err
	}
	return p.Normalize(ctx, s)
}

// QueryRows lists the devices matching f.
func (p *Pipeline) QueryRows(ctx context.Context, f query.Filters) (rs *query.RowSet, err error) {
	start := time.Now()
	defer func() {
		var rows int64
		if rs != nil {
			rows = int64(len(rs.Rows))
		}
		p.stats.Observe("rows", start, rows, err)
	}()
	return p.querier.Rows(ctx, f)
}

// QueryCounts returns per-site device counts matching f.
func (p *Pipeline) QueryCounts(ctx context.Context, f query.Filters) (counts []query.GroupCount, err error) {
	start := time.Now()
	defer func() { p.stats.Observe("counts", start, int64(len(counts)), err) }()
	return p.querier.Counts(ctx, f)
}

// ListFilterOptions returns the filter values present in the data.
func (p *Pipeline) ListFilterOptions(ctx context.Context) (opts *query.FilterOptions, err error) {
	start := time.Now()
	defer func() { p.stats.Observe("options", start, 0, err) }()
	return p.querier.Options(ctx)
}

// ReportSettings returns the settings canned reports are built from.
func (p *Pipeline) ReportSettings() reports.Settings {
	return reports.Settings{
		AllowedSites: slices.Clone(p.cfg.AllowedSites),
		Status:       p.cfg.ReportStatus,
		Tiers:        slices.Clone(p.cfg.ReportTiers),
	}
}

// ReportRows runs a canned report as a row listing.
func (p *Pipeline) ReportRows(ctx context.Context, name string) (rs *query.RowSet, err error) {
	start := time.Now()
	defer func() {
		var rows int64
		if rs != nil {
			rows = int64(len(rs.Rows))
		}
		p.stats.Observe("report", start, rows, err)
	}()

	r, err := reports.Get(name)
	if err != nil {
		return nil, err
	}
	return p.querier.RowsWhere(ctx, r.Predicates(p.ReportSettings())...)
}

// ReportCounts runs a canned report as per-site counts.
func (p *Pipeline) ReportCounts(ctx context.Context, name string) (counts []query.GroupCount, err error) {
	start := time.Now()
	defer func() { p.stats.Observe("report_counts", start, int64(len(counts)), err) }()

	r, err := reports.Get(name)
	if err != nil {
		return nil, err
	}
	return p.querier.CountsWhere(ctx, r.Predicates(p.ReportSettings())...)
}

// Sessions returns the most recent import sessions.
func (p *Pipeline) Sessions(ctx context.Context, limit int) ([]*staging.Session, error) {
	return staging.List(ctx, p.conn, limit)
}

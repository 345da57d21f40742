package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-inventory/internal/db"
	"github.com/pgEdge/pgedge-inventory/internal/logging"
	"github.com/pgEdge/pgedge-inventory/pkg/version"
)

var initDropExisting bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the inventory schema",
	Long: `Create the staging, session, dimension and device tables and the
device_flat view. Running init against an existing schema is safe;
use --drop-existing to start over.

Example:
  pgedge-inventory init --connection "postgres://..."`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing schema before initialization")
}

func runInit(cmd *cobra.Command, args []string) error {
	if initDropExisting {
		cfg.Init.DropExisting = true
	}

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

	existing, err := db.GetMetadataValue(ctx, pool, db.KeySchemaVersion)
	switch {
	case err == nil && existing != version.SchemaVersion && !cfg.Init.DropExisting:
		logging.Warn().
			Str("existing", existing).
			Str("current", version.SchemaVersion).
			Msg("Schema version differs; consider --drop-existing")
	case err != nil && !errors.Is(err, db.ErrNotInitialized):
		return err
	}

	logging.Info().Msg("Creating schema")
	if err := p.Init(ctx, cfg.Init.DropExisting); err != nil {
		return err
	}

	logging.Info().
		Str("schema_version", version.SchemaVersion).
		Msg("Database initialization complete")
	return nil
}

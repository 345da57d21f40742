//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-inventory.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-inventory/internal/config"
	"github.com/pgEdge/pgedge-inventory/internal/db"
	"github.com/pgEdge/pgedge-inventory/internal/ingest"
	"github.com/pgEdge/pgedge-inventory/internal/logging"
	"github.com/pgEdge/pgedge-inventory/internal/pipeline"
	"github.com/pgEdge/pgedge-inventory/internal/reports"
	"github.com/pgEdge/pgedge-inventory/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-inventory",
		Short: "Load IT device inventory exports into a normalized PostgreSQL schema",
		Long: `pgedge-inventory loads semicolon-delimited device inventory exports
into PostgreSQL. Each import is staged as a session, normalized into
dimension tables and a device table in one transaction, and read back
through the device_flat view, which reproduces the export layout.

Devices can be listed, counted per site and filtered by region, CI
status, tier and free text. Canned reports and CSV or SQLite exports
are available for downstream use.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-inventory.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(rowsCmd)
	rootCmd.AddCommand(countsCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(generateCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// pipelineConfig maps the loaded configuration onto pipeline settings.
func pipelineConfig() pipeline.Config {
	return pipeline.Config{
		Ingest: ingest.Options{
			Delimiter: cfg.DelimiterRune(),
			Encoding:  cfg.Import.Encoding,
		},
		AllowedSites: cfg.Query.AllowedSites,
		ReportStatus: cfg.Query.ReportStatus,
		ReportTiers:  cfg.Query.ReportTiers,
	}
}

// openPipeline connects to the database. The caller closes the returned
// pool.
func openPipeline(ctx context.Context) (*pipeline.Pipeline, *pgxpool.Pool, error) {
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pipeline.New(pool, pipelineConfig()), pool, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List available canned reports",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available reports:")
		cmd.Println()
		for _, r := range reports.All() {
			cmd.Printf("  %-16s - %s\n", r.Name(), r.Description())
		}
		cmd.Println()
		cmd.Println("Use 'pgedge-inventory report <name>' to run one.")
	},
}

//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-inventory.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"github.com/spf13/viper"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
)

// Config holds all configuration for pgedge-inventory.
type Config struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Init holds configuration for the init subcommand.
	Init InitConfig `mapstructure:"init"`

	// Import holds configuration for CSV ingestion.
	Import ImportConfig `mapstructure:"import"`

	// Query holds filter and report settings.
	Query QueryConfig `mapstructure:"query"`

	// Export holds configuration for the export subcommand.
	Export ExportConfig `mapstructure:"export"`

	// Generate holds configuration for sample data generation.
	Generate GenerateConfig `mapstructure:"generate"`
}

// InitConfig holds configuration for database initialization.
type InitConfig struct {
	// DropExisting drops existing schema before initialization.
	DropExisting bool `mapstructure:"drop_existing"`
}

// ImportConfig holds configuration for CSV ingestion.
type ImportConfig struct {
	// Delimiter is the single-character field separator.
	Delimiter string `mapstructure:"delimiter"`

	// Encoding is the source encoding used when the file has no byte order
	// mark: utf-8, windows-1252 or iso-8859-1.
	Encoding string `mapstructure:"encoding"`

	// StageOnly stops after staging without normalizing.
	StageOnly bool `mapstructure:"stage_only"`
}

// QueryConfig holds filter and report settings.
type QueryConfig struct {
	// AllowedSites is the site allow-list used by region restriction.
	AllowedSites []string `mapstructure:"allowed_sites"`

	// ReportStatus is the CI_STATUS fixed by canned reports.
	ReportStatus string `mapstructure:"report_status"`

	// ReportTiers are the TIER3 values included in canned reports.
	ReportTiers []string `mapstructure:"report_tiers"`

	// Format is the output format: table, csv or json.
	Format string `mapstructure:"format"`
}

// ExportConfig holds configuration for exports.
type ExportConfig struct {
	// Format is csv or sqlite.
	Format string `mapstructure:"format"`

	// Output is the destination path. "-" writes CSV to stdout.
	Output string `mapstructure:"output"`
}

// GenerateConfig holds configuration for sample CSV generation.
type GenerateConfig struct {
	// Rows is the number of data rows to generate.
	Rows int `mapstructure:"rows"`

	// Seed makes output reproducible; 0 picks a random seed.
	Seed uint64 `mapstructure:"seed"`

	// BlankProbability is the chance an optional cell is left empty.
	BlankProbability float64 `mapstructure:"blank_probability"`

	// Output is the destination path. "-" writes to stdout.
	Output string `mapstructure:"output"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Import: ImportConfig{
			Delimiter: ";",
			Encoding:  "utf-8",
		},
		Query: QueryConfig{
			AllowedSites: slices.Clone(catalog.DACHSites),
			ReportStatus: catalog.DeployedStatus,
			ReportTiers:  slices.Clone(catalog.ReportTiers),
			Format:       "table",
		},
		Export: ExportConfig{
			Format: "csv",
			Output: "-",
		},
		Generate: GenerateConfig{
			Rows:             1000,
			BlankProbability: 0.1,
			Output:           "-",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-inventory.yaml
// 3. ~/.config/pgedge-inventory/pgedge-inventory.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-inventory")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-inventory"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	// Lists from the file replace the defaults rather than merging into them.
	if v.IsSet("query.allowed_sites") {
		cfg.Query.AllowedSites = v.GetStringSlice("query.allowed_sites")
	}
	if v.IsSet("query.report_tiers") {
		cfg.Query.ReportTiers = v.GetStringSlice("query.report_tiers")
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// DelimiterRune returns the import delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Import.Delimiter)
	return r
}

// ValidateImport checks configuration required for importing.
func (c *Config) ValidateImport() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if utf8.RuneCountInString(c.Import.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got '%s'", c.Import.Delimiter)
	}
	switch c.DelimiterRune() {
	case '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("invalid delimiter '%s'", c.Import.Delimiter)
	}
	switch c.Import.Encoding {
	case "utf-8", "windows-1252", "iso-8859-1":
	default:
		return fmt.Errorf("encoding must be 'utf-8', 'windows-1252' or 'iso-8859-1'")
	}
	return nil
}

// ValidateQuery checks configuration required for queries and reports.
func (c *Config) ValidateQuery() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.Query.AllowedSites) == 0 {
		return fmt.Errorf("allowed_sites must not be empty")
	}
	if len(c.Query.ReportTiers) == 0 {
		return fmt.Errorf("report_tiers must not be empty")
	}
	switch c.Query.Format {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("format must be 'table', 'csv' or 'json'")
	}
	return nil
}

// ValidateExport checks configuration required for exports.
func (c *Config) ValidateExport() error {
	if err := c.Validate(); err != nil {
		return err
	}
	switch c.Export.Format {
	case "csv":
	case "sqlite":
		if c.Export.Output == "" || c.Export.Output == "-" {
			return fmt.Errorf("sqlite export requires an output file")
		}
	default:
		return fmt.Errorf("export format must be 'csv' or 'sqlite'")
	}
	return nil
}

// ValidateGenerate checks configuration for sample generation. No
// connection is needed.
func (c *Config) ValidateGenerate() error {
	if c.Generate.Rows < 1 {
		return fmt.Errorf("rows must be at least 1")
	}
	if c.Generate.BlankProbability < 0 || c.Generate.BlankProbability > 1 {
		return fmt.Errorf("blank_probability must be between 0 and 1")
	}
	return nil
}

//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracklab/athletics-dwh/internal/db"
	"github.com/tracklab/athletics-dwh/internal/logging"
	"github.com/tracklab/athletics-dwh/internal/schema"
	"github.com/tracklab/athletics-dwh/internal/staging"
)

var (
	extractResultsFile      string
	extractCitiesFile       string
	extractTemperaturesFile string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Load raw CSV source files into the staging layer",
	Long: `Bulk-load the three raw source files (world athletics results, world
cities, city temperatures) into staging.* via the COPY protocol. Staging
is truncated first; rows are loaded as-is with no cleaning.

Example:
  athletics-dwh extract --results data/raw/world_athletics.csv`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractResultsFile, "results", "",
		"world athletics results CSV (semicolon delimited)")
	extractCmd.Flags().StringVar(&extractCitiesFile, "cities", "",
		"world cities CSV")
	extractCmd.Flags().StringVar(&extractTemperaturesFile, "temperatures", "",
		"city temperatures CSV (Fahrenheit readings)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if extractResultsFile != "" {
		cfg.Extract.ResultsFile = extractResultsFile
	}
	if extractCitiesFile != "" {
		cfg.Extract.CitiesFile = extractCitiesFile
	}
	if extractTemperaturesFile != "" {
		cfg.Extract.TemperaturesFile = extractTemperaturesFile
	}
	if err := cfg.ValidateExtract(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := db.CheckSchemaVersion(ctx, pool); err != nil {
		return err
	}

	if err := schema.TruncateStaging(ctx, pool); err != nil {
		return fmt.Errorf("failed to truncate staging: %w", err)
	}

	extractor := staging.NewExtractor(pool)

	results, err := extractor.ExtractResults(ctx, cfg.Extract.ResultsFile)
	if err != nil {
		return fmt.Errorf("failed to extract results: %w", err)
	}
	cities, err := extractor.ExtractCities(ctx, cfg.Extract.CitiesFile)
	if err != nil {
		return fmt.Errorf("failed to extract cities: %w", err)
	}
	temps, err := extractor.ExtractTemperatures(ctx, cfg.Extract.TemperaturesFile)
	if err != nil {
		return fmt.Errorf("failed to extract temperatures: %w", err)
	}

	logging.Info().
		Int64("results", results).
		Int64("cities", cities).
		Int64("temperatures", temps).
		Msg("Extraction complete")

	return nil
}

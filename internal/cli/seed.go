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
	seedAthletes     int
	seedPerformances int
	seedRandomSeed   uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate synthetic raw source rows into the staging layer",
	Long: `Generate synthetic athletes, results, cities and temperature readings
directly into staging.*, for testing and demos without the real CSV
files. A fixed --random-seed makes the generated data reproducible.

Example:
  athletics-dwh seed --athletes 2000 --performances 50000`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedAthletes, "athletes", 0,
		"number of distinct athletes to generate")
	seedCmd.Flags().IntVar(&seedPerformances, "performances", 0,
		"number of raw result rows to generate")
	seedCmd.Flags().Uint64Var(&seedRandomSeed, "random-seed", 0,
		"random seed for reproducible generation (0 = time-based)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if seedAthletes > 0 {
		cfg.Seed.Athletes = seedAthletes
	}
	if seedPerformances > 0 {
		cfg.Seed.Performances = seedPerformances
	}
	if seedRandomSeed > 0 {
		cfg.Seed.RandomSeed = seedRandomSeed
	}
	if err := cfg.ValidateSeed(); err != nil {
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

	logging.Info().
		Int("athletes", cfg.Seed.Athletes).
		Int("performances", cfg.Seed.Performances).
		Msg("Generating synthetic source data")

	seeder := staging.NewSeeder(pool, cfg.Seed.RandomSeed)
	if err := seeder.Seed(ctx, cfg.Seed.Athletes, cfg.Seed.Performances); err != nil {
		return fmt.Errorf("failed to seed staging: %w", err)
	}

	counts, err := staging.RowCounts(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to count staging rows: %w", err)
	}
	for table, count := range counts {
		logging.Info().
			Str("table", table).
			Int64("rows", count).
			Msg("Staging table seeded")
	}

	return nil
}

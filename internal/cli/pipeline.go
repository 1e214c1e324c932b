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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/tracklab/athletics-dwh/internal/db"
	"github.com/tracklab/athletics-dwh/internal/logging"
	"github.com/tracklab/athletics-dwh/internal/reconcile"
	"github.com/tracklab/athletics-dwh/internal/validate"
	"github.com/tracklab/athletics-dwh/internal/warehouse"
)

var (
	buildWorkers   int
	buildBatchSize int
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Rebuild the reconciled layer from staging",
	Long: `Transform staging rows into cleaned, deduplicated reconciled entities:
athletes, events, venues, weather and performances, each with surrogate
keys and data-quality scores. The reconciled layer is truncated and
rebuilt from scratch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(func(ctx context.Context, pool *pgxpool.Pool) error {
			return runReconcile(ctx, pool)
		})
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the dwh star schema from the reconciled layer",
	Long: `Load the dimension tables and compute the fact table with all derived
measures (performance score, altitude adjustment, temperature impact,
venue advantage, environmental bonus). The dwh layer is truncated and
regenerated; fact measures are computed by a bounded worker pool.

Example:
  athletics-dwh build --workers 8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(func(ctx context.Context, pool *pgxpool.Pool) error {
			return runBuild(ctx, pool)
		})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run post-load integrity and value-range checks",
	Long: `Check referential integrity and value ranges across the star schema:
orphaned fact foreign keys, non-positive or implausible result values,
out-of-band performance scores and weather-grain consistency. Checks
report PASS/FAIL counts; a failed check exits non-zero but never
modifies data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(func(ctx context.Context, pool *pgxpool.Pool) error {
			return runValidate(ctx, pool)
		})
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Full rebuild: reconcile, build, then validate",
	Long: `Run the whole pipeline downstream of staging in order: reconcile the
staging rows, rebuild the star schema, and validate the result. Staging
must already be populated by extract or seed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(func(ctx context.Context, pool *pgxpool.Pool) error {
			if err := runReconcile(ctx, pool); err != nil {
				return err
			}
			if err := runBuild(ctx, pool); err != nil {
				return err
			}
			return runValidate(ctx, pool)
		})
	},
}

func init() {
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 0,
		"number of concurrent fact transform workers")
	buildCmd.Flags().IntVar(&buildBatchSize, "batch-size", 0,
		"fact rows per bulk insert")
	runCmd.Flags().IntVar(&buildWorkers, "workers", 0,
		"number of concurrent fact transform workers")
	runCmd.Flags().IntVar(&buildBatchSize, "batch-size", 0,
		"fact rows per bulk insert")
}

// withPool handles the connect/check/close boilerplate shared by the
// pipeline commands.
func withPool(fn func(context.Context, *pgxpool.Pool) error) error {
	if err := cfg.Validate(); err != nil {
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
	return fn(ctx, pool)
}

func runReconcile(ctx context.Context, pool *pgxpool.Pool) error {
	logging.Info().Msg("Rebuilding reconciled layer")

	stats, err := reconcile.NewReconciler(pool).Run(ctx)
	if err != nil {
		return fmt.Errorf("reconcile failed: %w", err)
	}

	logging.Info().
		Int64("athletes", stats.Athletes).
		Int64("events", stats.Events).
		Int64("venues", stats.Venues).
		Int64("weather", stats.Weather).
		Int64("performances", stats.Performances).
		Int64("dropped_invalid_mark", stats.DroppedInvalidMark).
		Int64("dropped_multi_event", stats.DroppedMultiEvent).
		Int64("dropped_unresolved", stats.DroppedUnresolved).
		Int64("dropped_duplicates", stats.DroppedDuplicates).
		Msg("Reconciled layer complete")

	return nil
}

func runBuild(ctx context.Context, pool *pgxpool.Pool) error {
	if buildWorkers > 0 {
		cfg.Build.Workers = buildWorkers
	}
	if buildBatchSize > 0 {
		cfg.Build.BatchSize = buildBatchSize
	}
	if err := cfg.ValidateBuild(); err != nil {
		return err
	}

	batchID, err := db.NextBatchID(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to allocate batch id: %w", err)
	}

	logging.Info().
		Int64("batch_id", batchID).
		Int("workers", cfg.Build.Workers).
		Msg("Rebuilding star schema")

	builder := warehouse.NewFactBuilder(pool, warehouse.FactBuilderConfig{
		Workers:   cfg.Build.Workers,
		BatchSize: cfg.Build.BatchSize,
	})
	if _, err := builder.Run(ctx, batchID); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}

func runValidate(ctx context.Context, pool *pgxpool.Pool) error {
	report, err := validate.NewValidator(pool).Run(ctx)
	if err != nil {
		return fmt.Errorf("validation failed to run: %w", err)
	}
	if !report.Passed() {
		return fmt.Errorf("validation failed: %d of %d checks reported violations",
			report.Failures(), len(report.Checks))
	}
	return nil
}

//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// End-to-end pipeline test: seed staging, reconcile, build the star
// schema, validate and run the query library.
// Run with: go test -tags=integration ./internal/warehouse/...
// Requires PostgreSQL to be available.
// Set ATHLETICS_TEST_CONN environment variable to override connection string.

package warehouse_test

import (
	"context"
	"testing"

	"github.com/tracklab/athletics-dwh/internal/analytics"
	"github.com/tracklab/athletics-dwh/internal/db"
	"github.com/tracklab/athletics-dwh/internal/reconcile"
	"github.com/tracklab/athletics-dwh/internal/schema"
	"github.com/tracklab/athletics-dwh/internal/staging"
	"github.com/tracklab/athletics-dwh/internal/testutil"
	"github.com/tracklab/athletics-dwh/internal/validate"
	"github.com/tracklab/athletics-dwh/internal/warehouse"
)

func TestPipelineIntegration(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)

	testConnStr := testutil.CreateTestDB(t, baseConnStr)
	dbName := testutil.GetDBNameFromConnStr(testConnStr)

	pool := testutil.ConnectTestDB(t, testConnStr)
	t.Cleanup(func() {
		pool.Close()
		testutil.DropTestDB(t, baseConnStr, dbName)
	})

	ctx := context.Background()

	t.Run("Init", func(t *testing.T) {
		if err := schema.CreateAll(ctx, pool); err != nil {
			t.Fatalf("CreateAll failed: %v", err)
		}
		if err := db.SaveInitMetadata(ctx, pool); err != nil {
			t.Fatalf("SaveInitMetadata failed: %v", err)
		}
		// Re-running must be a no-op, not an error
		if err := schema.CreateAll(ctx, pool); err != nil {
			t.Fatalf("CreateAll is not idempotent: %v", err)
		}
	})

	t.Run("Seed", func(t *testing.T) {
		seeder := staging.NewSeeder(pool, 42)
		if err := seeder.Seed(ctx, 200, 5000); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}

		counts, err := staging.RowCounts(ctx, pool)
		if err != nil {
			t.Fatalf("RowCounts failed: %v", err)
		}
		if counts["raw_results"] == 0 {
			t.Fatal("no raw results seeded")
		}
	})

	var stats *reconcile.Stats
	t.Run("Reconcile", func(t *testing.T) {
		var err error
		stats, err = reconcile.NewReconciler(pool).Run(ctx)
		if err != nil {
			t.Fatalf("Reconcile failed: %v", err)
		}
		if stats.Performances == 0 {
			t.Fatal("no performances reconciled")
		}
		if stats.Athletes == 0 || stats.Events == 0 || stats.Venues == 0 {
			t.Fatalf("missing reconciled entities: %+v", stats)
		}
	})

	t.Run("Build", func(t *testing.T) {
		batchID, err := db.NextBatchID(ctx, pool)
		if err != nil {
			t.Fatalf("NextBatchID failed: %v", err)
		}

		builder := warehouse.NewFactBuilder(pool, warehouse.FactBuilderConfig{
			Workers:   2,
			BatchSize: 500,
		})
		result, err := builder.Run(ctx, batchID)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if result.Facts == 0 {
			t.Fatal("no facts loaded")
		}
		if result.Facts+result.Dropped < stats.Performances {
			t.Errorf("facts (%d) + dropped (%d) below reconciled performances (%d)",
				result.Facts, result.Dropped, stats.Performances)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		report, err := validate.NewValidator(pool).Run(ctx)
		if err != nil {
			t.Fatalf("Validate failed to run: %v", err)
		}
		// FK and grain checks must hold on a fresh build; the value-band
		// checks report on the data, which is synthetic here.
		for _, check := range report.Checks {
			switch check.Name {
			case "fact_athlete_fk", "fact_event_fk", "fact_venue_fk",
				"fact_date_fk", "fact_weather_fk",
				"weather_grain", "quality_range", "result_positive":
				if !check.Passed() {
					t.Errorf("check %s failed with %d violations",
						check.Name, check.Violations)
				}
			}
		}
	})

	t.Run("Analyze", func(t *testing.T) {
		results := analytics.NewRunner(pool).RunAll(ctx)
		for _, r := range results {
			if r.Error != nil {
				t.Errorf("query %s failed: %v", r.QueryName, r.Error)
			}
		}

		// The season pivot filters on dim_date.season labels; every season
		// must be represented in the loaded facts or a pivot column would
		// be NULL across the board.
		seasons := map[string]bool{}
		rows, err := pool.Query(ctx, `
            SELECT DISTINCT d.season
            FROM dwh.fact_performance f
            JOIN dwh.dim_date d ON f.date_key = d.date_key
            WHERE d.year > 1900
        `)
		if err != nil {
			t.Fatalf("season query failed: %v", err)
		}
		defer rows.Close()
		for rows.Next() {
			var s string
			if err := rows.Scan(&s); err != nil {
				t.Fatalf("season scan failed: %v", err)
			}
			seasons[s] = true
		}
		for _, want := range []string{"Winter", "Spring", "Summer", "Fall"} {
			if !seasons[want] {
				t.Errorf("no facts in season %s", want)
			}
		}
	})
}

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
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/tracklab/athletics-dwh/internal/analytics"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the OLAP query library against the star schema",
	Long: `Execute the analytical query library (roll-ups, drill-downs, pivots,
window-function rankings) against the dwh layer and print row counts
and timings per query. Useful as a smoke test of the loaded warehouse
and as a reference for ad hoc analysis.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(func(ctx context.Context, pool *pgxpool.Pool) error {
			return runAnalyze(ctx, pool, cmd)
		})
	},
}

func runAnalyze(ctx context.Context, pool *pgxpool.Pool, cmd *cobra.Command) error {
	results := analytics.NewRunner(pool).RunAll(ctx)

	var failed int
	cmd.Println()
	cmd.Printf("%-30s %10s %12s\n", "QUERY", "ROWS", "ELAPSED")
	for _, r := range results {
		if r.Error != nil {
			failed++
			cmd.Printf("%-30s %10s %12s  %v\n", r.QueryName, "-", "-", r.Error)
			continue
		}
		cmd.Printf("%-30s %10d %12s\n", r.QueryName, r.Rows, r.Duration.Round(time.Millisecond))
	}
	cmd.Println()

	if failed > 0 {
		return fmt.Errorf("%d of %d queries failed", failed, len(results))
	}
	return nil
}

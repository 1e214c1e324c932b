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
)

var initDropExisting bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the staging, reconciled and dwh schemas",
	Long: `Create the three warehouse layers (staging, reconciled, dwh) and the
metadata table. Schema creation is idempotent; re-running init against an
initialized database is a no-op unless --drop-existing is given.

Example:
  athletics-dwh init --connection "postgres://..."
  athletics-dwh init --drop-existing`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop all three schemas before creating them")
}

func runInit(cmd *cobra.Command, args []string) error {
	if initDropExisting {
		cfg.Init.DropExisting = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Init.DropExisting {
		logging.Info().Msg("Dropping existing schemas")
		if err := schema.DropAll(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop schemas: %w", err)
		}
	}

	logging.Info().Msg("Creating schemas")
	if err := schema.CreateAll(ctx, pool); err != nil {
		return fmt.Errorf("failed to create schemas: %w", err)
	}

	if err := db.SaveInitMetadata(ctx, pool); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	logging.Info().
		Str("schema_version", db.SchemaVersion).
		Msg("Database initialization complete")

	return nil
}

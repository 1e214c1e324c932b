//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tracklab/athletics-dwh/internal/logging"
	"github.com/tracklab/athletics-dwh/pkg/version"
)

const metadataTable = "dwh_metadata"

// SchemaVersion identifies the frozen canonical schema revision. Earlier
// revisions of the warehouse shipped divergent reconciled/fact column sets;
// anything loaded under a different version must be rebuilt with init.
const SchemaVersion = "3"

const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS dwh_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// SaveInitMetadata records the schema version marker after init.
func SaveInitMetadata(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, createMetadataTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	metadata := map[string]string{
		"schema_version": SchemaVersion,
		"tool_version":   version.Short(),
		"initialized_at": time.Now().UTC().Format(time.RFC3339),
	}

	for key, value := range metadata {
		if err := setValue(ctx, pool, key, value); err != nil {
			return err
		}
	}

	logging.Debug().
		Str("schema_version", SchemaVersion).
		Msg("Saved init metadata")

	return nil
}

// CheckSchemaVersion verifies the database was initialized with the current
// canonical schema. Returns an error when the marker is missing or stale.
func CheckSchemaVersion(ctx context.Context, pool *pgxpool.Pool) error {
	v, err := GetMetadataValue(ctx, pool, "schema_version")
	if err != nil {
		return fmt.Errorf("database has not been initialized; run 'athletics-dwh init' first")
	}
	if v != SchemaVersion {
		return fmt.Errorf(
			"database schema version %s does not match tool schema version %s; "+
				"re-run 'athletics-dwh init --drop-existing'", v, SchemaVersion)
	}
	return nil
}

// NextBatchID increments and returns the load batch identifier. Every fact
// row written by one build run carries the same batch id.
func NextBatchID(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	current, err := GetMetadataValue(ctx, pool, "load_batch_id")
	if err != nil {
		current = "0"
	}
	n, err := strconv.ParseInt(current, 10, 64)
	if err != nil {
		n = 0
	}
	n++
	if err := setValue(ctx, pool, "load_batch_id", strconv.FormatInt(n, 10)); err != nil {
		return 0, err
	}
	return n, nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, pool *pgxpool.Pool, key string) (string, error) {
	var value string
	err := pool.QueryRow(ctx, `
        SELECT value FROM dwh_metadata WHERE key = $1
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	rows, err := pool.Query(ctx, `SELECT key, value FROM dwh_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}

func setValue(ctx context.Context, pool *pgxpool.Pool, key, value string) error {
	_, err := pool.Exec(ctx, `
        INSERT INTO dwh_metadata (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
    `, key, value)
	if err != nil {
		return fmt.Errorf("failed to save metadata %s: %w", key, err)
	}
	return nil
}

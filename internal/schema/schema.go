// Package schema owns the DDL for the three warehouse layers.
package schema

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Staging layer: raw source rows exactly as extracted, no constraints beyond
// types. Loads are append-only via COPY.
const createStagingSQL = `
CREATE SCHEMA IF NOT EXISTS staging;

-- Raw competition results (semicolon-delimited world athletics export)
CREATE TABLE IF NOT EXISTS staging.raw_results (
    athlete_name     TEXT,
    event_name       TEXT,
    mark             TEXT,
    venue_name       TEXT,
    competition_date TEXT,
    nationality      TEXT,
    gender           TEXT,
    date_of_birth    TEXT,
    rank_position    TEXT,
    wind             TEXT,
    results_score    TEXT,
    data_source      TEXT NOT NULL DEFAULT 'world_athletics'
);

-- World cities with coordinates and elevation
CREATE TABLE IF NOT EXISTS staging.raw_cities (
    city       TEXT,
    country    TEXT,
    latitude   DOUBLE PRECISION,
    longitude  DOUBLE PRECISION,
    altitude   DOUBLE PRECISION,
    population BIGINT
);

-- Monthly average temperatures per city, Fahrenheit source
CREATE TABLE IF NOT EXISTS staging.raw_temperatures (
    city       TEXT,
    country    TEXT,
    month      INTEGER,
    avg_temp_f DOUBLE PRECISION
);
`

// Reconciled layer: deduplicated entities with surrogate keys and quality
// scores. Referential integrity is enforced here so the dimension builder
// can trust its inputs.
const createReconciledSQL = `
CREATE SCHEMA IF NOT EXISTS reconciled;

CREATE TABLE IF NOT EXISTS reconciled.athletes (
    athlete_key        INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    athlete_name       VARCHAR(200) NOT NULL,
    nationality        VARCHAR(100),
    nationality_code   CHAR(3),
    gender             CHAR(1) NOT NULL DEFAULT 'U',
    birth_decade       VARCHAR(10),
    specialization     VARCHAR(50),
    data_quality_score INTEGER NOT NULL DEFAULT 10,
    source_system      VARCHAR(50) NOT NULL,
    UNIQUE (athlete_name, gender)
);

CREATE TABLE IF NOT EXISTS reconciled.events (
    event_key        INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    event_name       VARCHAR(100) NOT NULL,
    event_group      VARCHAR(30) NOT NULL,
    event_category   VARCHAR(20) NOT NULL,
    distance_meters  DOUBLE PRECISION,
    measurement_unit VARCHAR(10) NOT NULL,
    gender           CHAR(1) NOT NULL DEFAULT 'U',
    is_outdoor       BOOLEAN NOT NULL DEFAULT TRUE,
    world_record     DOUBLE PRECISION,
    UNIQUE (event_name, gender)
);

CREATE TABLE IF NOT EXISTS reconciled.venues (
    venue_key          INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    venue_name         VARCHAR(200) NOT NULL UNIQUE,
    city_name          VARCHAR(100),
    country_name       VARCHAR(100),
    country_code       CHAR(2),
    latitude           DOUBLE PRECISION,
    longitude          DOUBLE PRECISION,
    altitude           DOUBLE PRECISION,
    altitude_category  VARCHAR(20) NOT NULL DEFAULT 'Unknown',
    climate_zone       VARCHAR(20),
    data_quality_score INTEGER NOT NULL DEFAULT 10
);

CREATE TABLE IF NOT EXISTS reconciled.weather (
    weather_key          INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    city_name            VARCHAR(100) NOT NULL,
    month                INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
    temperature_c        DOUBLE PRECISION,
    temperature_category VARCHAR(20) NOT NULL,
    season_category      VARCHAR(20) NOT NULL,
    has_actual_data      BOOLEAN NOT NULL DEFAULT TRUE,
    source               VARCHAR(50) NOT NULL,
    UNIQUE (city_name, month)
);

CREATE TABLE IF NOT EXISTS reconciled.performances (
    performance_key    BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    athlete_key        INTEGER NOT NULL REFERENCES reconciled.athletes(athlete_key),
    event_key          INTEGER NOT NULL REFERENCES reconciled.events(event_key),
    venue_key          INTEGER REFERENCES reconciled.venues(venue_key),
    weather_key        INTEGER REFERENCES reconciled.weather(weather_key),
    competition_date   DATE,
    result_value       DOUBLE PRECISION NOT NULL,
    wind_reading       DOUBLE PRECISION,
    finish_position    INTEGER,
    data_source        VARCHAR(50) NOT NULL,
    data_quality_score INTEGER NOT NULL DEFAULT 10
);

CREATE INDEX IF NOT EXISTS idx_rec_perf_athlete ON reconciled.performances(athlete_key);
CREATE INDEX IF NOT EXISTS idx_rec_perf_event ON reconciled.performances(event_key);
CREATE INDEX IF NOT EXISTS idx_rec_perf_date ON reconciled.performances(competition_date);
`

// Star schema. Dimensions are denormalized; the fact table carries the
// derived measures. Surrogate keys here are assigned by the loader, not
// by identity columns, so the fact builder can resolve them in memory.
const createWarehouseSQL = `
CREATE SCHEMA IF NOT EXISTS dwh;

CREATE TABLE IF NOT EXISTS dwh.dim_date (
    date_key             INTEGER PRIMARY KEY,
    full_date            DATE NOT NULL,
    year                 INTEGER NOT NULL,
    month                INTEGER NOT NULL,
    month_name           VARCHAR(10) NOT NULL,
    quarter              INTEGER NOT NULL,
    season               VARCHAR(10) NOT NULL,
    decade               VARCHAR(10) NOT NULL,
    is_championship_year BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS dwh.dim_athlete (
    athlete_key        INTEGER PRIMARY KEY,
    athlete_name       VARCHAR(200) NOT NULL,
    nationality        VARCHAR(100),
    nationality_code   CHAR(3),
    gender             CHAR(1) NOT NULL,
    birth_decade       VARCHAR(10),
    specialization     VARCHAR(50),
    data_quality_score INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS dwh.dim_event (
    event_key        INTEGER PRIMARY KEY,
    event_name       VARCHAR(100) NOT NULL,
    event_group      VARCHAR(30) NOT NULL,
    event_category   VARCHAR(20) NOT NULL,
    distance_meters  DOUBLE PRECISION,
    measurement_unit VARCHAR(10) NOT NULL,
    gender           CHAR(1) NOT NULL,
    is_outdoor       BOOLEAN NOT NULL,
    world_record     DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS dwh.dim_venue (
    venue_key         INTEGER PRIMARY KEY,
    venue_name        VARCHAR(200) NOT NULL,
    city_name         VARCHAR(100),
    country_name      VARCHAR(100),
    country_code      CHAR(2),
    latitude          DOUBLE PRECISION,
    longitude         DOUBLE PRECISION,
    altitude          DOUBLE PRECISION,
    altitude_category VARCHAR(20) NOT NULL,
    climate_zone      VARCHAR(20)
);

CREATE TABLE IF NOT EXISTS dwh.dim_weather (
    weather_key          INTEGER PRIMARY KEY,
    city_name            VARCHAR(100) NOT NULL,
    month                INTEGER NOT NULL,
    temperature_c        DOUBLE PRECISION,
    temperature_category VARCHAR(20) NOT NULL,
    season_category      VARCHAR(20) NOT NULL,
    has_actual_data      BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS dwh.fact_performance (
    fact_key                  BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    athlete_key               INTEGER NOT NULL REFERENCES dwh.dim_athlete(athlete_key),
    event_key                 INTEGER NOT NULL REFERENCES dwh.dim_event(event_key),
    venue_key                 INTEGER NOT NULL REFERENCES dwh.dim_venue(venue_key),
    date_key                  INTEGER NOT NULL REFERENCES dwh.dim_date(date_key),
    weather_key               INTEGER NOT NULL REFERENCES dwh.dim_weather(weather_key),
    result_value              DOUBLE PRECISION NOT NULL,
    finish_position           INTEGER,
    wind_reading              DOUBLE PRECISION,
    performance_score         DOUBLE PRECISION NOT NULL,
    altitude_adjusted_result  DOUBLE PRECISION NOT NULL,
    temperature_impact_factor DOUBLE PRECISION NOT NULL,
    performance_advantage     DOUBLE PRECISION NOT NULL,
    environmental_bonus       DOUBLE PRECISION NOT NULL,
    has_wind_data             BOOLEAN NOT NULL,
    data_quality_score        INTEGER NOT NULL,
    data_source               VARCHAR(50) NOT NULL,
    load_batch_id             BIGINT NOT NULL
);

-- Indexes for the OLAP query library
CREATE INDEX IF NOT EXISTS idx_fact_athlete ON dwh.fact_performance(athlete_key);
CREATE INDEX IF NOT EXISTS idx_fact_event ON dwh.fact_performance(event_key);
CREATE INDEX IF NOT EXISTS idx_fact_venue ON dwh.fact_performance(venue_key);
CREATE INDEX IF NOT EXISTS idx_fact_date ON dwh.fact_performance(date_key);
CREATE INDEX IF NOT EXISTS idx_fact_weather ON dwh.fact_performance(weather_key);
CREATE INDEX IF NOT EXISTS idx_fact_score ON dwh.fact_performance(performance_score);
`

const dropSchemaSQL = `
DROP SCHEMA IF EXISTS dwh CASCADE;
DROP SCHEMA IF EXISTS reconciled CASCADE;
DROP SCHEMA IF EXISTS staging CASCADE;
DROP TABLE IF EXISTS dwh_metadata;
`

const truncateReconciledSQL = `
TRUNCATE reconciled.performances,
         reconciled.athletes,
         reconciled.events,
         reconciled.venues,
         reconciled.weather
RESTART IDENTITY CASCADE;
`

const truncateWarehouseSQL = `
TRUNCATE dwh.fact_performance,
         dwh.dim_date,
         dwh.dim_athlete,
         dwh.dim_event,
         dwh.dim_venue,
         dwh.dim_weather
RESTART IDENTITY CASCADE;
`

const truncateStagingSQL = `
TRUNCATE staging.raw_results, staging.raw_cities, staging.raw_temperatures;
`

// CreateAll creates the staging, reconciled and dwh schemas. Idempotent.
func CreateAll(ctx context.Context, pool *pgxpool.Pool) error {
	for _, ddl := range []string{createStagingSQL, createReconciledSQL, createWarehouseSQL} {
		if _, err := pool.Exec(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}

// DropAll drops all three schemas and the metadata table.
func DropAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, dropSchemaSQL)
	return err
}

// TruncateStaging empties the staging tables before a fresh extract.
func TruncateStaging(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, truncateStagingSQL)
	return err
}

// TruncateReconciled empties the reconciled layer before a rebuild.
func TruncateReconciled(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, truncateReconciledSQL)
	return err
}

// TruncateWarehouse empties the star schema before a rebuild.
func TruncateWarehouse(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, truncateWarehouseSQL)
	return err
}

//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tracklab/athletics-dwh/internal/logging"
	"github.com/tracklab/athletics-dwh/internal/reconcile"
)

// UnknownKey is the fallback dimension member for venue, weather and date.
// Athlete and event have no fallback: facts without them are dropped.
const UnknownKey = 1

// Venue and weather dimension keys are the reconciled surrogate keys
// shifted up by one so key 1 stays free for the Unknown member.
const dimKeyOffset = 1

// DateKey encodes a date as YYYYMMDD.
func DateKey(t time.Time) int32 {
	return int32(t.Year()*10000 + int(t.Month())*100 + t.Day())
}

// championship years follow the odd-year World Championships cadence.
func isChampionshipYear(year int) bool {
	return year%2 == 1
}

// LoadDimensions populates all five dimensions from the reconciled layer.
// The warehouse must have been truncated first.
func LoadDimensions(ctx context.Context, pool *pgxpool.Pool) error {
	if err := loadDateDimension(ctx, pool); err != nil {
		return err
	}

	steps := []struct {
		name string
		sql  string
	}{
		{"dim_athlete", `
            INSERT INTO dwh.dim_athlete
                (athlete_key, athlete_name, nationality, nationality_code,
                 gender, birth_decade, specialization, data_quality_score)
            SELECT athlete_key, athlete_name, nationality, nationality_code,
                   gender, birth_decade, specialization, data_quality_score
            FROM reconciled.athletes`},
		{"dim_event", `
            INSERT INTO dwh.dim_event
                (event_key, event_name, event_group, event_category,
                 distance_meters, measurement_unit, gender, is_outdoor, world_record)
            SELECT event_key, event_name, event_group, event_category,
                   distance_meters, measurement_unit, gender, is_outdoor, world_record
            FROM reconciled.events`},
		{"dim_venue unknown member", `
            INSERT INTO dwh.dim_venue
                (venue_key, venue_name, city_name, country_name, country_code,
                 latitude, longitude, altitude, altitude_category, climate_zone)
            VALUES (1, 'Unknown', NULL, NULL, NULL, NULL, NULL, NULL, 'Unknown', NULL)`},
		{"dim_venue", `
            INSERT INTO dwh.dim_venue
                (venue_key, venue_name, city_name, country_name, country_code,
                 latitude, longitude, altitude, altitude_category, climate_zone)
            SELECT venue_key + 1, venue_name, city_name, country_name, country_code,
                   latitude, longitude, altitude, altitude_category, climate_zone
            FROM reconciled.venues`},
		{"dim_weather unknown member", `
            INSERT INTO dwh.dim_weather
                (weather_key, city_name, month, temperature_c,
                 temperature_category, season_category, has_actual_data)
            VALUES (1, 'Unknown', 0, NULL, 'Unknown', 'Unknown', FALSE)`},
		{"dim_weather", `
            INSERT INTO dwh.dim_weather
                (weather_key, city_name, month, temperature_c,
                 temperature_category, season_category, has_actual_data)
            SELECT weather_key + 1, city_name, month, temperature_c,
                   temperature_category, season_category, has_actual_data
            FROM reconciled.weather`},
	}

	for _, step := range steps {
		if _, err := pool.Exec(ctx, step.sql); err != nil {
			return fmt.Errorf("failed to load %s: %w", step.name, err)
		}
	}

	var athletes, events, venues, weather int64
	row := pool.QueryRow(ctx, `
        SELECT (SELECT COUNT(*) FROM dwh.dim_athlete),
               (SELECT COUNT(*) FROM dwh.dim_event),
               (SELECT COUNT(*) FROM dwh.dim_venue),
               (SELECT COUNT(*) FROM dwh.dim_weather)`)
	if err := row.Scan(&athletes, &events, &venues, &weather); err != nil {
		return fmt.Errorf("failed to count dimensions: %w", err)
	}

	logging.Info().
		Int64("athletes", athletes).
		Int64("events", events).
		Int64("venues", venues).
		Int64("weather", weather).
		Msg("Dimensions loaded")

	return nil
}

// loadDateDimension generates one row per calendar day spanning the
// reconciled performance dates, plus the Unknown member at key 1.
func loadDateDimension(ctx context.Context, pool *pgxpool.Pool) error {
	var minDate, maxDate *time.Time
	err := pool.QueryRow(ctx, `
        SELECT MIN(competition_date), MAX(competition_date)
        FROM reconciled.performances
    `).Scan(&minDate, &maxDate)
	if err != nil {
		return fmt.Errorf("failed to find date range: %w", err)
	}

	// Default range when no dated performances exist yet
	if minDate == nil || maxDate == nil {
		from := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
		minDate, maxDate = &from, &to
	}

	rows := [][]any{
		{int32(UnknownKey), time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
			1900, 1, "Unknown", 1, "Unknown", "Unknown", false},
	}
	for d := *minDate; !d.After(*maxDate); d = d.AddDate(0, 0, 1) {
		month := int(d.Month())
		rows = append(rows, []any{
			DateKey(d),
			d,
			d.Year(),
			month,
			reconcile.MonthName(month),
			(month-1)/3 + 1,
			reconcile.Season(month),
			fmt.Sprintf("%ds", d.Year()/10*10),
			isChampionshipYear(d.Year()),
		})
	}

	n, err := pool.CopyFrom(ctx,
		pgx.Identifier{"dwh", "dim_date"},
		[]string{"date_key", "full_date", "year", "month", "month_name",
			"quarter", "season", "decade", "is_championship_year"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to load dim_date: %w", err)
	}

	logging.Debug().Int64("rows", n).Msg("Date dimension loaded")
	return nil
}

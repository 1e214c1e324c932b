//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package analytics is the OLAP query library run against the dwh star
// schema: roll-ups, drill-downs, pivots and window-function rankings.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tracklab/athletics-dwh/internal/logging"
)

// QueryResult holds the outcome of one analytical query.
type QueryResult struct {
	QueryName string
	Rows      int64
	Duration  time.Duration
	Error     error
}

// Runner executes the query library.
type Runner struct {
	pool *pgxpool.Pool
}

// NewRunner creates a Runner.
func NewRunner(pool *pgxpool.Pool) *Runner {
	return &Runner{pool: pool}
}

// queries is the library, in presentation order.
var queries = []struct {
	name string
	fn   func(*Runner, context.Context) (int64, error)
}{
	{"score_rollup_by_group_year", (*Runner).executeScoreRollup},
	{"venue_drilldown", (*Runner).executeVenueDrilldown},
	{"season_pivot", (*Runner).executeSeasonPivot},
	{"athlete_event_ranking", (*Runner).executeAthleteRanking},
	{"altitude_impact", (*Runner).executeAltitudeImpact},
	{"yearly_progression", (*Runner).executeYearlyProgression},
	{"weather_sensitivity", (*Runner).executeWeatherSensitivity},
}

// RunAll executes every query in the library once and logs row counts and
// timings. Individual query failures are recorded, not fatal.
func (r *Runner) RunAll(ctx context.Context) []QueryResult {
	results := make([]QueryResult, 0, len(queries))

	for _, q := range queries {
		start := time.Now()
		rows, err := q.fn(r, ctx)
		result := QueryResult{
			QueryName: q.name,
			Rows:      rows,
			Duration:  time.Since(start),
			Error:     err,
		}
		results = append(results, result)

		if err != nil {
			logging.Error().
				Err(err).
				Str("query", q.name).
				Msg("Query failed")
			continue
		}
		logging.Info().
			Str("query", q.name).
			Int64("rows", result.Rows).
			Dur("elapsed", result.Duration).
			Msg("Query complete")
	}
	return results
}

// Roll-up: average score and volume by event group and year, with ROLLUP
// subtotals up to the grand total.
func (r *Runner) executeScoreRollup(ctx context.Context) (int64, error) {
	return r.countRows(ctx, `
        SELECT e.event_group, d.year,
               COUNT(*) AS performances,
               ROUND(AVG(f.performance_score)::numeric, 1) AS avg_score,
               ROUND(MAX(f.performance_score)::numeric, 1) AS best_score
        FROM dwh.fact_performance f
        JOIN dwh.dim_event e ON f.event_key = e.event_key
        JOIN dwh.dim_date d ON f.date_key = d.date_key
        WHERE d.year > 1900
        GROUP BY ROLLUP (e.event_group, d.year)
        ORDER BY e.event_group NULLS LAST, d.year NULLS LAST
    `)
}

// Drill-down: country -> city -> venue, average advantage over the venue
// baseline.
func (r *Runner) executeVenueDrilldown(ctx context.Context) (int64, error) {
	return r.countRows(ctx, `
        SELECT v.country_name, v.city_name, v.venue_name,
               COUNT(*) AS performances,
               ROUND(AVG(f.performance_advantage)::numeric, 2) AS avg_advantage,
               ROUND(AVG(f.environmental_bonus)::numeric, 2) AS avg_env_bonus
        FROM dwh.fact_performance f
        JOIN dwh.dim_venue v ON f.venue_key = v.venue_key
        WHERE v.venue_name <> 'Unknown'
        GROUP BY GROUPING SETS (
            (v.country_name),
            (v.country_name, v.city_name),
            (v.country_name, v.city_name, v.venue_name)
        )
        ORDER BY v.country_name, v.city_name NULLS FIRST, v.venue_name NULLS FIRST
    `)
}

// pivotSeasons are the dim_date season labels, one pivot column each.
// They must match what the date dimension loader writes.
var pivotSeasons = []string{"Winter", "Spring", "Summer", "Fall"}

// Pivot: average score per event group, one column per season.
func (r *Runner) executeSeasonPivot(ctx context.Context) (int64, error) {
	var cols strings.Builder
	for _, season := range pivotSeasons {
		fmt.Fprintf(&cols,
			",\n               ROUND((AVG(f.performance_score) FILTER (WHERE d.season = '%s'))::numeric, 1) AS %s",
			season, strings.ToLower(season))
	}

	return r.countRows(ctx, fmt.Sprintf(`
        SELECT e.event_group%s
        FROM dwh.fact_performance f
        JOIN dwh.dim_event e ON f.event_key = e.event_key
        JOIN dwh.dim_date d ON f.date_key = d.date_key
        WHERE d.year > 1900
        GROUP BY e.event_group
        ORDER BY e.event_group
    `, cols.String()))
}

// Window ranking: top 10 athletes per event by best score.
func (r *Runner) executeAthleteRanking(ctx context.Context) (int64, error) {
	return r.countRows(ctx, `
        SELECT event_name, rank, athlete_name, nationality, best_score
        FROM (
            SELECT e.event_name, a.athlete_name, a.nationality,
                   MAX(f.performance_score) AS best_score,
                   RANK() OVER (
                       PARTITION BY e.event_name
                       ORDER BY MAX(f.performance_score) DESC
                   ) AS rank
            FROM dwh.fact_performance f
            JOIN dwh.dim_athlete a ON f.athlete_key = a.athlete_key
            JOIN dwh.dim_event e ON f.event_key = e.event_key
            GROUP BY e.event_name, a.athlete_name, a.nationality
        ) ranked
        WHERE rank <= 10
        ORDER BY event_name, rank
    `)
}

// Slice: environmental effect by altitude category and event group.
func (r *Runner) executeAltitudeImpact(ctx context.Context) (int64, error) {
	return r.countRows(ctx, `
        SELECT v.altitude_category, e.event_group,
               COUNT(*) AS performances,
               ROUND(AVG(f.environmental_bonus)::numeric, 2) AS avg_env_bonus,
               ROUND(AVG(f.altitude_adjusted_result - f.result_value)::numeric, 3) AS avg_adjustment
        FROM dwh.fact_performance f
        JOIN dwh.dim_venue v ON f.venue_key = v.venue_key
        JOIN dwh.dim_event e ON f.event_key = e.event_key
        WHERE v.venue_name <> 'Unknown'
        GROUP BY v.altitude_category, e.event_group
        ORDER BY v.altitude_category, e.event_group
    `)
}

// Year-over-year: average score per event group with the previous year's
// value alongside via LAG.
func (r *Runner) executeYearlyProgression(ctx context.Context) (int64, error) {
	return r.countRows(ctx, `
        SELECT event_group, year, avg_score,
               avg_score - LAG(avg_score) OVER (
                   PARTITION BY event_group ORDER BY year
               ) AS delta_vs_prior_year
        FROM (
            SELECT e.event_group, d.year,
                   ROUND(AVG(f.performance_score)::numeric, 1) AS avg_score
            FROM dwh.fact_performance f
            JOIN dwh.dim_event e ON f.event_key = e.event_key
            JOIN dwh.dim_date d ON f.date_key = d.date_key
            WHERE d.year > 1900
            GROUP BY e.event_group, d.year
        ) yearly
        ORDER BY event_group, year
    `)
}

// Dice: score by temperature category, split by actual vs estimated
// weather readings.
func (r *Runner) executeWeatherSensitivity(ctx context.Context) (int64, error) {
	return r.countRows(ctx, `
        SELECT w.temperature_category, w.has_actual_data, e.event_group,
               COUNT(*) AS performances,
               ROUND(AVG(f.temperature_impact_factor)::numeric, 4) AS avg_temp_factor,
               ROUND(AVG(f.performance_score)::numeric, 1) AS avg_score
        FROM dwh.fact_performance f
        JOIN dwh.dim_weather w ON f.weather_key = w.weather_key
        JOIN dwh.dim_event e ON f.event_key = e.event_key
        WHERE w.city_name <> 'Unknown'
        GROUP BY w.temperature_category, w.has_actual_data, e.event_group
        ORDER BY w.temperature_category, w.has_actual_data, e.event_group
    `)
}

func (r *Runner) countRows(ctx context.Context, query string, args ...any) (int64, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		count++
	}
	return count, rows.Err()
}

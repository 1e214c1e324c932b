//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package validate runs post-load referential-integrity and value-range
// checks against the star schema and reports PASS/FAIL counts.
package validate

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tracklab/athletics-dwh/internal/logging"
)

// Check is the outcome of one validation rule.
type Check struct {
	Name       string
	Detail     string
	Violations int64
}

// Passed reports whether the check found no violations.
func (c Check) Passed() bool { return c.Violations == 0 }

// Report collects all check outcomes for one run.
type Report struct {
	Checks []Check
}

// Failures returns the number of failed checks.
func (r *Report) Failures() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Passed() {
			n++
		}
	}
	return n
}

// Passed reports whether every check passed.
func (r *Report) Passed() bool { return r.Failures() == 0 }

// Validator runs the check suite against a warehouse.
type Validator struct {
	pool *pgxpool.Pool
}

// NewValidator creates a Validator.
func NewValidator(pool *pgxpool.Pool) *Validator {
	return &Validator{pool: pool}
}

// orphanChecks verify every fact foreign key resolves to a dimension row.
var orphanChecks = []struct {
	name   string
	column string
	dim    string
	dimKey string
}{
	{"fact_athlete_fk", "athlete_key", "dwh.dim_athlete", "athlete_key"},
	{"fact_event_fk", "event_key", "dwh.dim_event", "event_key"},
	{"fact_venue_fk", "venue_key", "dwh.dim_venue", "venue_key"},
	{"fact_date_fk", "date_key", "dwh.dim_date", "date_key"},
	{"fact_weather_fk", "weather_key", "dwh.dim_weather", "weather_key"},
}

// resultCeilings are per-group sanity ceilings for result_value. A seeded
// Unknown group or an unlisted group is not checked.
var resultCeilings = []struct {
	group   string
	ceiling float64
}{
	{"Sprint", 60},
	{"Hurdles", 120},
	{"Distance", 5400},
	{"Road", 25000},
	{"Jumps", 20},
	{"Throws", 110},
}

const scoreBandLow, scoreBandHigh = 0.0, 1400.0

// Run executes the full check suite. Checks are reported, never enforced:
// a failure means rows to investigate, not an aborted load.
func (v *Validator) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	for _, oc := range orphanChecks {
		query := fmt.Sprintf(`
            SELECT COUNT(*)
            FROM dwh.fact_performance f
            LEFT JOIN %s d ON f.%s = d.%s
            WHERE d.%s IS NULL
        `, oc.dim, oc.column, oc.dimKey, oc.dimKey)

		count, err := v.countQuery(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", oc.name, err)
		}
		v.record(report, Check{
			Name:       oc.name,
			Detail:     fmt.Sprintf("fact rows with no matching %s", oc.dim),
			Violations: count,
		})
	}

	count, err := v.countQuery(ctx,
		`SELECT COUNT(*) FROM dwh.fact_performance WHERE result_value <= 0`)
	if err != nil {
		return nil, fmt.Errorf("check result_positive: %w", err)
	}
	v.record(report, Check{
		Name:       "result_positive",
		Detail:     "fact rows with non-positive result_value",
		Violations: count,
	})

	for _, rc := range resultCeilings {
		count, err := v.countQuery(ctx, `
            SELECT COUNT(*)
            FROM dwh.fact_performance f
            JOIN dwh.dim_event e ON f.event_key = e.event_key
            WHERE e.event_group = $1 AND f.result_value > $2
        `, rc.group, rc.ceiling)
		if err != nil {
			return nil, fmt.Errorf("check result_ceiling_%s: %w", rc.group, err)
		}
		v.record(report, Check{
			Name:       "result_ceiling_" + rc.group,
			Detail:     fmt.Sprintf("%s results above %.0f", rc.group, rc.ceiling),
			Violations: count,
		})
	}

	count, err = v.countQuery(ctx,
		`SELECT COUNT(*) FROM dwh.fact_performance WHERE performance_score < $1 OR performance_score > $2`,
		scoreBandLow, scoreBandHigh)
	if err != nil {
		return nil, fmt.Errorf("check score_band: %w", err)
	}
	v.record(report, Check{
		Name:       "score_band",
		Detail:     fmt.Sprintf("performance_score outside [%.0f, %.0f]", scoreBandLow, scoreBandHigh),
		Violations: count,
	})

	count, err = v.countQuery(ctx, `
        SELECT COUNT(*) FROM (
            SELECT f.venue_key, d.month
            FROM dwh.fact_performance f
            JOIN dwh.dim_date d ON f.date_key = d.date_key
            WHERE f.weather_key <> 1
            GROUP BY f.venue_key, d.month
            HAVING COUNT(DISTINCT f.weather_key) > 1
        ) multi
    `)
	if err != nil {
		return nil, fmt.Errorf("check weather_grain: %w", err)
	}
	v.record(report, Check{
		Name:       "weather_grain",
		Detail:     "venue/month pairs mapped to more than one weather row",
		Violations: count,
	})

	count, err = v.countQuery(ctx,
		`SELECT COUNT(*) FROM dwh.fact_performance WHERE data_quality_score < 1 OR data_quality_score > 10`)
	if err != nil {
		return nil, fmt.Errorf("check quality_range: %w", err)
	}
	v.record(report, Check{
		Name:       "quality_range",
		Detail:     "data_quality_score outside 1-10",
		Violations: count,
	})

	logging.Info().
		Int("checks", len(report.Checks)).
		Int("failures", report.Failures()).
		Msg("Validation complete")

	return report, nil
}

func (v *Validator) record(report *Report, check Check) {
	event := logging.Info()
	status := "PASS"
	if !check.Passed() {
		event = logging.Warn()
		status = "FAIL"
	}
	event.
		Str("check", check.Name).
		Str("status", status).
		Int64("violations", check.Violations).
		Msg(check.Detail)
	report.Checks = append(report.Checks, check)
}

func (v *Validator) countQuery(ctx context.Context, query string, args ...any) (int64, error) {
	var count int64
	if err := v.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

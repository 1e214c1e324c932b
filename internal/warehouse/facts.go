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
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tracklab/athletics-dwh/internal/datagen"
	"github.com/tracklab/athletics-dwh/internal/logging"
	"github.com/tracklab/athletics-dwh/internal/schema"
)

// FactBuilderConfig holds configuration for the fact builder.
type FactBuilderConfig struct {
	Workers   int
	BatchSize int
}

// FactBuilder computes and loads dwh.fact_performance.
type FactBuilder struct {
	pool      *pgxpool.Pool
	workers   int
	batchSize int

	// Metrics
	computed atomic.Int64
	dropped  atomic.Int64
}

// NewFactBuilder creates a FactBuilder.
func NewFactBuilder(pool *pgxpool.Pool, cfg FactBuilderConfig) *FactBuilder {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &FactBuilder{pool: pool, workers: workers, batchSize: batchSize}
}

// eventMeta is the per-event dimension context the measures need.
type eventMeta struct {
	name string
	unit string
}

// factRow is one fact in flight: reconciled inputs plus computed measures.
type factRow struct {
	athleteKey int32
	eventKey   int32
	venueKey   *int32
	weatherKey *int32
	date       *time.Time
	result     float64
	wind       *float64
	position   *int32
	source     string
	quality    int32

	eventName string
	unit      string
	altitude  *float64
	tempC     *float64

	score      float64
	adjusted   float64
	tempFactor float64
	envBonus   float64
	advantage  float64
}

// Stats summarizes one fact build.
type Stats struct {
	Facts     int64
	Dropped   int64
	Baselines int
	BatchID   int64
	Elapsed   time.Duration
}

// Run rebuilds the whole star schema: truncate, dimensions, then facts.
// Fact measures are computed by a bounded worker pool; all workers finish
// before the rows are written, so validation never sees a partial batch.
func (b *FactBuilder) Run(ctx context.Context, batchID int64) (*Stats, error) {
	start := time.Now()

	if err := schema.TruncateWarehouse(ctx, b.pool); err != nil {
		return nil, fmt.Errorf("failed to truncate warehouse: %w", err)
	}
	if err := LoadDimensions(ctx, b.pool); err != nil {
		return nil, err
	}

	events, venues, weather, err := b.loadLookups(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := b.loadPerformances(ctx, events, venues, weather)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Int("rows", len(rows)).
		Int("workers", b.workers).
		Msg("Computing fact measures")

	// Phase 1: per-row measures, parallel over contiguous chunks
	var wg sync.WaitGroup
	chunk := (len(rows) + b.workers - 1) / b.workers
	for w := 0; w < b.workers; w++ {
		lo := w * chunk
		if lo >= len(rows) {
			break
		}
		hi := lo + chunk
		if hi > len(rows) {
			hi = len(rows)
		}
		wg.Add(1)
		go func(part []factRow) {
			defer wg.Done()
			for i := range part {
				r := &part[i]
				r.score = PerformanceScore(r.result, r.eventName, r.unit)
				r.adjusted = AltitudeAdjustedResult(r.result, r.altitude, r.eventName)
				r.tempFactor = TemperatureImpactFactor(r.tempC, r.eventName)
				r.envBonus = EnvironmentalBonus(r.altitude, r.tempC, r.eventName)
				b.computed.Add(1)
			}
		}(rows[lo:hi])
	}
	wg.Wait()

	logging.Debug().
		Int64("computed", b.computed.Load()).
		Msg("Per-row measures complete")

	// Phase 2: baselines need every score, so they run after the barrier
	scores := make(map[BaselineKey][]float64)
	for i := range rows {
		if rows[i].venueKey == nil {
			continue
		}
		key := BaselineKey{VenueKey: *rows[i].venueKey, EventKey: rows[i].eventKey}
		scores[key] = append(scores[key], rows[i].score)
	}
	baselines := ComputeBaselines(scores)
	for i := range rows {
		r := &rows[i]
		if r.venueKey == nil {
			r.advantage = 0
			continue
		}
		baseline, ok := baselines[BaselineKey{VenueKey: *r.venueKey, EventKey: r.eventKey}]
		r.advantage = PerformanceAdvantage(r.score, baseline, ok)
	}

	facts, err := b.writeFacts(ctx, rows, batchID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Facts:     facts,
		Dropped:   b.dropped.Load(),
		Baselines: len(baselines),
		BatchID:   batchID,
		Elapsed:   time.Since(start),
	}

	logging.Info().
		Int64("facts", stats.Facts).
		Int64("dropped", stats.Dropped).
		Int("baselines", stats.Baselines).
		Int64("batch_id", batchID).
		Dur("elapsed", stats.Elapsed).
		Msg("Fact build complete")

	return stats, nil
}

func (b *FactBuilder) loadLookups(ctx context.Context) (map[int32]eventMeta, map[int32]*float64, map[int32]*float64, error) {
	events := make(map[int32]eventMeta)
	rows, err := b.pool.Query(ctx, `SELECT event_key, event_name, measurement_unit FROM dwh.dim_event`)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load event lookup: %w", err)
	}
	for rows.Next() {
		var key int32
		var name, unit string
		if err := rows.Scan(&key, &name, &unit); err != nil {
			rows.Close()
			return nil, nil, nil, err
		}
		events[key] = eventMeta{name: name, unit: unit}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, nil, err
	}

	// Venue altitudes, keyed by the dwh venue key
	venues := make(map[int32]*float64)
	rows, err = b.pool.Query(ctx, `SELECT venue_key, altitude FROM dwh.dim_venue`)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load venue lookup: %w", err)
	}
	for rows.Next() {
		var key int32
		var altitude *float64
		if err := rows.Scan(&key, &altitude); err != nil {
			rows.Close()
			return nil, nil, nil, err
		}
		venues[key] = altitude
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, nil, err
	}

	weather := make(map[int32]*float64)
	rows, err = b.pool.Query(ctx, `SELECT weather_key, temperature_c FROM dwh.dim_weather`)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load weather lookup: %w", err)
	}
	for rows.Next() {
		var key int32
		var tempC *float64
		if err := rows.Scan(&key, &tempC); err != nil {
			rows.Close()
			return nil, nil, nil, err
		}
		weather[key] = tempC
	}
	rows.Close()
	return events, venues, weather, rows.Err()
}

func (b *FactBuilder) loadPerformances(ctx context.Context, events map[int32]eventMeta,
	venues, weather map[int32]*float64) ([]factRow, error) {

	dbRows, err := b.pool.Query(ctx, `
        SELECT athlete_key, event_key, venue_key, weather_key, competition_date,
               result_value, wind_reading, finish_position, data_source, data_quality_score
        FROM reconciled.performances
        WHERE result_value IS NOT NULL
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to read reconciled performances: %w", err)
	}
	defer dbRows.Close()

	var rows []factRow
	for dbRows.Next() {
		var r factRow
		var recVenue, recWeather *int32
		if err := dbRows.Scan(&r.athleteKey, &r.eventKey, &recVenue, &recWeather,
			&r.date, &r.result, &r.wind, &r.position, &r.source, &r.quality); err != nil {
			return nil, fmt.Errorf("failed to scan performance: %w", err)
		}

		meta, ok := events[r.eventKey]
		if !ok {
			// No event context, no measures: drop and count
			b.dropped.Add(1)
			continue
		}
		r.eventName = meta.name
		r.unit = meta.unit

		if recVenue != nil {
			dwhKey := *recVenue + dimKeyOffset
			r.venueKey = &dwhKey
			r.altitude = venues[dwhKey]
		}
		if recWeather != nil {
			dwhKey := *recWeather + dimKeyOffset
			r.weatherKey = &dwhKey
			r.tempC = weather[dwhKey]
		}
		rows = append(rows, r)
	}
	return rows, dbRows.Err()
}

func (b *FactBuilder) writeFacts(ctx context.Context, rows []factRow, batchID int64) (int64, error) {
	columns := []string{
		"athlete_key", "event_key", "venue_key", "date_key", "weather_key",
		"result_value", "finish_position", "wind_reading",
		"performance_score", "altitude_adjusted_result", "temperature_impact_factor",
		"performance_advantage", "environmental_bonus",
		"has_wind_data", "data_quality_score", "data_source", "load_batch_id",
	}

	reporter := datagen.NewProgressReporter("dwh.fact_performance", int64(len(rows)), 50000)
	var total int64
	batch := make([][]any, 0, b.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := b.pool.CopyFrom(ctx,
			pgx.Identifier{"dwh", "fact_performance"},
			columns, pgx.CopyFromRows(batch))
		if err != nil {
			return fmt.Errorf("failed to load fact_performance: %w", err)
		}
		total += n
		reporter.Update(n)
		batch = batch[:0]
		return nil
	}

	for i := range rows {
		r := &rows[i]

		venueKey := int32(UnknownKey)
		if r.venueKey != nil {
			venueKey = *r.venueKey
		}
		weatherKey := int32(UnknownKey)
		if r.weatherKey != nil {
			weatherKey = *r.weatherKey
		}
		dateKey := int32(UnknownKey)
		if r.date != nil {
			dateKey = DateKey(*r.date)
		}

		var wind any
		if r.wind != nil {
			wind = *r.wind
		}
		var position any
		if r.position != nil {
			position = *r.position
		}

		batch = append(batch, []any{
			r.athleteKey, r.eventKey, venueKey, dateKey, weatherKey,
			r.result, position, wind,
			r.score, r.adjusted, r.tempFactor,
			r.advantage, r.envBonus,
			r.wind != nil, r.quality, r.source, batchID,
		})
		if len(batch) >= b.batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	reporter.Done()
	return total, nil
}

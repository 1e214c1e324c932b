//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tracklab/athletics-dwh/internal/datagen"
	"github.com/tracklab/athletics-dwh/internal/logging"
	"github.com/tracklab/athletics-dwh/internal/schema"
)

// Reconciler builds the reconciled layer from staging.
type Reconciler struct {
	pool *pgxpool.Pool
}

// NewReconciler creates a Reconciler bound to a connection pool.
func NewReconciler(pool *pgxpool.Pool) *Reconciler {
	return &Reconciler{pool: pool}
}

// Stats summarizes one reconciliation run.
type Stats struct {
	Athletes     int64
	Events       int64
	Venues       int64
	Weather      int64
	Performances int64

	DroppedInvalidMark int64
	DroppedMultiEvent  int64
	DroppedUnresolved  int64
	DroppedDuplicates  int64
}

// cleanRow is one staging result row after parsing and normalization.
type cleanRow struct {
	normName    string
	displayName string
	nationality string
	gender      string
	dob         string
	eventName   string
	eventGroup  string
	venueUpper  string
	result      float64
	wind        *float64
	position    *int
	date        *time.Time
	source      string
}

// Run rebuilds the whole reconciled layer. The layer is truncated first;
// surrogate keys are not stable across runs.
func (r *Reconciler) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	if err := schema.TruncateReconciled(ctx, r.pool); err != nil {
		return nil, fmt.Errorf("failed to truncate reconciled layer: %w", err)
	}

	rows, err := r.loadCleanRows(ctx, stats)
	if err != nil {
		return nil, err
	}
	logging.Info().
		Int("rows", len(rows)).
		Int64("invalid_marks", stats.DroppedInvalidMark).
		Int64("multi_events", stats.DroppedMultiEvent).
		Msg("Cleaned staging rows")

	athleteKeys, err := r.loadAthletes(ctx, rows, stats)
	if err != nil {
		return nil, err
	}
	eventKeys, err := r.loadEvents(ctx, rows, stats)
	if err != nil {
		return nil, err
	}
	venues, err := r.loadVenues(ctx, rows, stats)
	if err != nil {
		return nil, err
	}
	weather, err := r.loadWeather(ctx, venues, stats)
	if err != nil {
		return nil, err
	}
	if err := r.loadPerformances(ctx, rows, athleteKeys, eventKeys, venues, weather, stats); err != nil {
		return nil, err
	}

	logging.Info().
		Int64("athletes", stats.Athletes).
		Int64("events", stats.Events).
		Int64("venues", stats.Venues).
		Int64("weather", stats.Weather).
		Int64("performances", stats.Performances).
		Dur("elapsed", time.Since(start)).
		Msg("Reconciliation complete")

	return stats, nil
}

func (r *Reconciler) loadCleanRows(ctx context.Context, stats *Stats) ([]cleanRow, error) {
	dbRows, err := r.pool.Query(ctx, `
        SELECT athlete_name, event_name, mark, venue_name, competition_date,
               nationality, gender, date_of_birth, rank_position, wind, data_source
        FROM staging.raw_results
        WHERE athlete_name IS NOT NULL AND event_name IS NOT NULL AND mark IS NOT NULL
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to read staging results: %w", err)
	}
	defer dbRows.Close()

	var rows []cleanRow
	for dbRows.Next() {
		var name, event, mark string
		var venue, date, nat, gender, dob, rank, wind, source *string
		if err := dbRows.Scan(&name, &event, &mark, &venue, &date, &nat, &gender, &dob, &rank, &wind, &source); err != nil {
			return nil, fmt.Errorf("failed to scan staging row: %w", err)
		}

		event = StandardizeEventName(event)
		if IsMultiEvent(event) {
			stats.DroppedMultiEvent++
			continue
		}
		result, ok := ParseMark(mark)
		if !ok {
			stats.DroppedInvalidMark++
			continue
		}

		row := cleanRow{
			normName:    NormalizeAthleteName(name),
			displayName: DisplayName(name),
			nationality: deref(nat),
			gender:      NormalizeGender(deref(gender)),
			dob:         deref(dob),
			eventName:   event,
			eventGroup:  EventGroup(event),
			venueUpper:  strings.ToUpper(strings.TrimSpace(deref(venue))),
			result:      result,
			source:      deref(source),
		}
		if row.source == "" {
			row.source = "world_athletics"
		}
		if w, ok := ParseWind(deref(wind)); ok {
			row.wind = &w
		}
		if p, ok := parsePosition(deref(rank)); ok {
			row.position = &p
		}
		if d, ok := ParseDate(deref(date)); ok {
			row.date = &d
		}
		rows = append(rows, row)
	}
	return rows, dbRows.Err()
}

func (r *Reconciler) loadAthletes(ctx context.Context, rows []cleanRow, stats *Stats) (map[string]int32, error) {
	type athlete struct {
		display     string
		nationality string
		gender      string
		dob         string
		groups      map[string]int
	}

	byNorm := make(map[string]*athlete)
	order := make([]string, 0)
	for _, row := range rows {
		a, seen := byNorm[row.normName]
		if !seen {
			a = &athlete{
				display: row.displayName,
				gender:  row.gender,
				groups:  map[string]int{},
			}
			byNorm[row.normName] = a
			order = append(order, row.normName)
		}
		// Keep the most complete record across duplicates
		if a.nationality == "" && row.nationality != "" {
			a.nationality = row.nationality
		}
		if a.dob == "" && row.dob != "" {
			a.dob = row.dob
		}
		if a.gender == "U" && row.gender != "U" {
			a.gender = row.gender
		}
		a.groups[row.eventGroup]++
	}
	sort.Strings(order)

	insert := make([][]any, 0, len(order))
	for _, norm := range order {
		a := byNorm[norm]
		var natName, natCode any
		if a.nationality != "" {
			natName = titleCase(a.nationality)
			code := strings.ToUpper(a.nationality)
			if len(code) > 3 {
				code = code[:3]
			}
			natCode = code
		}
		insert = append(insert, []any{
			datagen.Truncate(a.display, 200),
			natName,
			natCode,
			a.gender,
			BirthDecade(a.dob),
			dominantGroup(a.groups),
			8,
			"world_athletics",
		})
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"reconciled", "athletes"},
		[]string{"athlete_name", "nationality", "nationality_code", "gender",
			"birth_decade", "specialization", "data_quality_score", "source_system"},
		pgx.CopyFromRows(insert))
	if err != nil {
		return nil, fmt.Errorf("failed to load reconciled athletes: %w", err)
	}
	stats.Athletes = n

	keys := make(map[string]int32, len(order))
	dbRows, err := r.pool.Query(ctx, `SELECT athlete_key, athlete_name FROM reconciled.athletes`)
	if err != nil {
		return nil, fmt.Errorf("failed to read athlete keys: %w", err)
	}
	defer dbRows.Close()

	byDisplay := make(map[string]int32)
	for dbRows.Next() {
		var key int32
		var name string
		if err := dbRows.Scan(&key, &name); err != nil {
			return nil, err
		}
		byDisplay[name] = key
	}
	if err := dbRows.Err(); err != nil {
		return nil, err
	}
	for norm, a := range byNorm {
		if key, ok := byDisplay[datagen.Truncate(a.display, 200)]; ok {
			keys[norm] = key
		}
	}
	return keys, nil
}

// dominantGroup picks the most frequent event group, ties broken
// alphabetically so runs are deterministic.
func dominantGroup(groups map[string]int) string {
	best, bestCount := "All-around", 0
	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	sort.Strings(names)
	for _, g := range names {
		if groups[g] > bestCount {
			best, bestCount = g, groups[g]
		}
	}
	return best
}

func (r *Reconciler) loadEvents(ctx context.Context, rows []cleanRow, stats *Stats) (map[string]int32, error) {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, row := range rows {
		if !seen[row.eventName] {
			seen[row.eventName] = true
			names = append(names, row.eventName)
		}
	}
	sort.Strings(names)

	insert := make([][]any, 0, len(names))
	for _, name := range names {
		group := EventGroup(name)
		category := EventCategory(group)
		var distance any
		if d := ExtractDistance(name); d != nil {
			distance = *d
		}
		insert = append(insert, []any{
			datagen.Truncate(name, 100),
			group,
			category,
			distance,
			MeasurementUnit(category),
			EventGender(name),
			true,
			nil,
		})
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"reconciled", "events"},
		[]string{"event_name", "event_group", "event_category", "distance_meters",
			"measurement_unit", "gender", "is_outdoor", "world_record"},
		pgx.CopyFromRows(insert))
	if err != nil {
		return nil, fmt.Errorf("failed to load reconciled events: %w", err)
	}
	stats.Events = n

	return r.selectKeys(ctx, `SELECT event_key, event_name FROM reconciled.events`)
}

// venueInfo carries the assigned key plus the standardized city used for
// weather matching.
type venueInfo struct {
	key     int32
	cityStd string
	matched bool
}

func (r *Reconciler) loadVenues(ctx context.Context, rows []cleanRow, stats *Stats) (map[string]*venueInfo, error) {
	type cityGeo struct {
		lat, lon, alt *float64
	}

	// City reference from staging, first spelling wins
	geo := make(map[string]cityGeo)
	dbRows, err := r.pool.Query(ctx, `
        SELECT city, latitude, longitude, altitude
        FROM staging.raw_cities WHERE city IS NOT NULL
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to read staging cities: %w", err)
	}
	for dbRows.Next() {
		var city string
		var lat, lon, alt *float64
		if err := dbRows.Scan(&city, &lat, &lon, &alt); err != nil {
			dbRows.Close()
			return nil, err
		}
		key := StandardizeCity(city)
		if _, ok := geo[key]; !ok {
			geo[key] = cityGeo{lat: lat, lon: lon, alt: alt}
		}
	}
	if err := dbRows.Err(); err != nil {
		dbRows.Close()
		return nil, err
	}
	dbRows.Close()

	venues := make(map[string]*venueInfo)
	order := make([]string, 0)
	for _, row := range rows {
		if row.venueUpper == "" {
			continue
		}
		if _, ok := venues[row.venueUpper]; !ok {
			venues[row.venueUpper] = &venueInfo{}
			order = append(order, row.venueUpper)
		}
	}
	sort.Strings(order)

	insert := make([][]any, 0, len(order))
	for _, venue := range order {
		loc := ExtractLocation(venue)
		cityStd := StandardizeCity(loc.City)
		venues[venue].cityStd = cityStd

		g, matched := geo[cityStd]
		venues[venue].matched = matched

		quality := 5
		if matched && g.lat != nil {
			quality = 7
			if g.alt != nil {
				quality = 9
			}
		}

		var lat, lon, alt any
		if matched {
			lat, lon, alt = nilable(g.lat), nilable(g.lon), nilable(g.alt)
		}
		var altCat, climate string
		if matched {
			altCat = AltitudeCategory(g.alt)
			climate = ClimateZone(g.lat)
		} else {
			altCat = "Unknown"
			climate = "Unknown"
		}

		var cityName any
		if cityStd != "UNKNOWN" {
			cityName = titleCase(strings.ToLower(cityStd))
		}

		insert = append(insert, []any{
			datagen.Truncate(titleCase(strings.ToLower(venue)), 200),
			cityName,
			nil,
			loc.CountryCode,
			lat, lon, alt,
			altCat,
			climate,
			quality,
		})
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"reconciled", "venues"},
		[]string{"venue_name", "city_name", "country_name", "country_code",
			"latitude", "longitude", "altitude", "altitude_category",
			"climate_zone", "data_quality_score"},
		pgx.CopyFromRows(insert))
	if err != nil {
		return nil, fmt.Errorf("failed to load reconciled venues: %w", err)
	}
	stats.Venues = n

	keyRows, err := r.selectKeys(ctx, `SELECT venue_key, venue_name FROM reconciled.venues`)
	if err != nil {
		return nil, err
	}
	for _, venue := range order {
		name := datagen.Truncate(titleCase(strings.ToLower(venue)), 200)
		if key, ok := keyRows[name]; ok {
			venues[venue].key = key
		}
	}
	return venues, nil
}

// weatherRef resolves a standardized city and month to a weather row.
type weatherRef struct {
	key       int32
	hasActual bool
}

func (r *Reconciler) loadWeather(ctx context.Context, venues map[string]*venueInfo, stats *Stats) (map[string]weatherRef, error) {
	type agg struct {
		sum   float64
		count int
	}

	// Average the raw daily readings per city and month
	byCityMonth := make(map[string]map[int]*agg)
	dbRows, err := r.pool.Query(ctx, `
        SELECT city, month, avg_temp_f
        FROM staging.raw_temperatures
        WHERE city IS NOT NULL AND month BETWEEN 1 AND 12
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to read staging temperatures: %w", err)
	}
	for dbRows.Next() {
		var city string
		var month int
		var tempF float64
		if err := dbRows.Scan(&city, &month, &tempF); err != nil {
			dbRows.Close()
			return nil, err
		}
		cityStd := StandardizeCity(city)
		if byCityMonth[cityStd] == nil {
			byCityMonth[cityStd] = make(map[int]*agg)
		}
		if byCityMonth[cityStd][month] == nil {
			byCityMonth[cityStd][month] = &agg{}
		}
		byCityMonth[cityStd][month].sum += tempF
		byCityMonth[cityStd][month].count++
	}
	if err := dbRows.Err(); err != nil {
		dbRows.Close()
		return nil, err
	}
	dbRows.Close()

	type weatherRow struct {
		city      string
		month     int
		tempC     float64
		hasActual bool
		source    string
	}

	insert := make([]weatherRow, 0)
	cities := make([]string, 0, len(byCityMonth))
	for city := range byCityMonth {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	for _, city := range cities {
		for month := 1; month <= 12; month++ {
			a := byCityMonth[city][month]
			if a == nil || a.count == 0 {
				continue
			}
			insert = append(insert, weatherRow{
				city:      city,
				month:     month,
				tempC:     FahrenheitToCelsius(a.sum / float64(a.count)),
				hasActual: true,
				source:    "city_temperature",
			})
		}
	}

	// Backfill estimates for athletics cities the source misses, but only
	// ones that actually host venues
	venueCities := make(map[string]bool)
	for _, v := range venues {
		venueCities[v.cityStd] = true
	}
	estCities := EstimatedCities()
	sort.Strings(estCities)
	for _, city := range estCities {
		if !venueCities[city] || byCityMonth[city] != nil {
			continue
		}
		for month := 1; month <= 12; month++ {
			tempC, climate, _ := EstimateCityTemperature(city, month)
			insert = append(insert, weatherRow{
				city:      city,
				month:     month,
				tempC:     tempC,
				hasActual: false,
				source:    "athletics_estimate_" + strings.ToLower(climate),
			})
		}
	}

	copyRows := make([][]any, 0, len(insert))
	for _, w := range insert {
		copyRows = append(copyRows, []any{
			datagen.Truncate(w.city, 100),
			w.month,
			w.tempC,
			TemperatureCategory(w.tempC),
			Season(w.month),
			w.hasActual,
			w.source,
		})
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"reconciled", "weather"},
		[]string{"city_name", "month", "temperature_c", "temperature_category",
			"season_category", "has_actual_data", "source"},
		pgx.CopyFromRows(copyRows))
	if err != nil {
		return nil, fmt.Errorf("failed to load reconciled weather: %w", err)
	}
	stats.Weather = n

	lookup := make(map[string]weatherRef, len(insert))
	keyRows, err := r.pool.Query(ctx, `SELECT weather_key, city_name, month, has_actual_data FROM reconciled.weather`)
	if err != nil {
		return nil, fmt.Errorf("failed to read weather keys: %w", err)
	}
	defer keyRows.Close()
	for keyRows.Next() {
		var key int32
		var city string
		var month int
		var hasActual bool
		if err := keyRows.Scan(&key, &city, &month, &hasActual); err != nil {
			return nil, err
		}
		lookup[weatherLookupKey(city, month)] = weatherRef{key: key, hasActual: hasActual}
	}
	return lookup, keyRows.Err()
}

func weatherLookupKey(city string, month int) string {
	return fmt.Sprintf("%s|%d", CityMatchKey(city), month)
}

func (r *Reconciler) loadPerformances(ctx context.Context, rows []cleanRow,
	athletes, events map[string]int32, venues map[string]*venueInfo,
	weather map[string]weatherRef, stats *Stats) error {

	reporter := datagen.NewProgressReporter("reconciled.performances", int64(len(rows)), 50000)
	seen := make(map[string]bool, len(rows))
	batch := make([][]any, 0, 5000)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := r.pool.CopyFrom(ctx,
			pgx.Identifier{"reconciled", "performances"},
			[]string{"athlete_key", "event_key", "venue_key", "weather_key",
				"competition_date", "result_value", "wind_reading",
				"finish_position", "data_source", "data_quality_score"},
			pgx.CopyFromRows(batch))
		if err != nil {
			return fmt.Errorf("failed to load reconciled performances: %w", err)
		}
		stats.Performances += n
		reporter.Update(n)
		batch = batch[:0]
		return nil
	}

	for _, row := range rows {
		athleteKey, okA := athletes[row.normName]
		eventKey, okE := events[row.eventName]
		if !okA || !okE {
			stats.DroppedUnresolved++
			continue
		}

		var venueKey any
		var weatherKey any
		venueMatched := false
		weatherActual := false

		if v, ok := venues[row.venueUpper]; ok && v.key != 0 {
			venueKey = v.key
			venueMatched = v.matched
			if row.date != nil {
				if w, ok := weather[weatherLookupKey(v.cityStd, int(row.date.Month()))]; ok {
					weatherKey = w.key
					weatherActual = w.hasActual
				}
			}
		}

		dedup := fmt.Sprintf("%d|%d|%v|%v|%v", athleteKey, eventKey, venueKey, weatherKey, row.date)
		if seen[dedup] {
			stats.DroppedDuplicates++
			continue
		}
		seen[dedup] = true

		quality := QualityScore(row.nationality != "",
			weatherKey != nil && weatherActual, row.wind != nil, venueMatched)

		var date any
		if row.date != nil {
			date = *row.date
		}
		batch = append(batch, []any{
			athleteKey, eventKey, venueKey, weatherKey,
			date, row.result, nilable(row.wind), nilableInt(row.position),
			row.source, quality,
		})
		if len(batch) >= 5000 {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	reporter.Done()
	return nil
}

func (r *Reconciler) selectKeys(ctx context.Context, query string) (map[string]int32, error) {
	dbRows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read surrogate keys: %w", err)
	}
	defer dbRows.Close()

	keys := make(map[string]int32)
	for dbRows.Next() {
		var key int32
		var name string
		if err := dbRows.Scan(&key, &name); err != nil {
			return nil, err
		}
		keys[name] = key
	}
	return keys, dbRows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func parsePosition(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	var v int
	_, err := fmt.Sscanf(s, "%d", &v)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func nilable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nilableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

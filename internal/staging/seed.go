//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package staging

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tracklab/athletics-dwh/internal/datagen"
	"github.com/tracklab/athletics-dwh/internal/logging"
)

// seedEvent describes one event the seeder can generate marks for.
type seedEvent struct {
	name    string
	minMark float64
	maxMark float64
	isTime  bool
	windy   bool
	weight  int
}

var seedEvents = []seedEvent{
	{"100m", 9.75, 11.20, true, true, 20},
	{"200m", 19.50, 22.80, true, true, 15},
	{"400m", 43.50, 48.50, true, false, 10},
	{"800m", 101.0, 115.0, true, false, 10},
	{"1500m", 208.0, 245.0, true, false, 10},
	{"5000m", 765.0, 900.0, true, false, 8},
	{"10000m", 1590.0, 1900.0, true, false, 5},
	{"Marathon", 7400.0, 10800.0, true, false, 5},
	{"110m Hurdles", 12.90, 14.50, true, true, 6},
	{"400m Hurdles", 46.80, 53.00, true, false, 4},
	{"Long Jump", 7.20, 8.95, false, true, 8},
	{"High Jump", 2.10, 2.45, false, false, 5},
	{"Triple Jump", 15.50, 18.30, false, true, 4},
	{"Pole Vault", 5.30, 6.25, false, false, 4},
	{"Shot Put", 18.50, 23.40, false, false, 5},
	{"Discus Throw", 58.00, 74.00, false, false, 4},
	{"Javelin Throw", 75.00, 98.50, false, false, 4},
	{"Hammer Throw", 68.00, 86.00, false, false, 3},
}

// seedVenue pairs a venue string in source format with its host city.
type seedVenue struct {
	venue   string
	city    string
	country string
	lat     float64
	lon     float64
	alt     float64
}

var seedVenues = []seedVenue{
	{"Olympiastadion, Berlin (GER)", "Berlin", "Germany", 52.52, 13.40, 34},
	{"Hayward Field, Eugene, OR (USA)", "Eugene", "United States", 44.05, -123.09, 130},
	{"Stade Louis II, Monaco (MON)", "Monaco", "Monaco", 43.73, 7.42, 5},
	{"Letzigrund, Zurich (SUI)", "Zurich", "Switzerland", 47.38, 8.54, 408},
	{"Stadio Olimpico, Roma (ITA)", "Rome", "Italy", 41.90, 12.45, 21},
	{"National Stadium, Kingston (JAM)", "Kingston", "Jamaica", 17.98, -76.79, 9},
	{"Estadio Olimpico, Ciudad de Mexico (MEX)", "Mexico City", "Mexico", 19.43, -99.13, 2240},
	{"Khalifa Stadium, Doha (QAT)", "Doha", "Qatar", 25.29, 51.53, 10},
	{"Olympic Stadium, London (GBR)", "London", "United Kingdom", 51.51, -0.13, 11},
	{"Bislett Stadion, Oslo (NOR)", "Oslo", "Norway", 59.91, 10.75, 23},
	{"Stade de France, Paris (FRA)", "Paris", "France", 48.86, 2.35, 35},
	{"Olympic Stadium, Addis Ababa (ETH)", "Addis Ababa", "Ethiopia", 9.03, 38.74, 2355},
	{"Nyayo Stadium, Nairobi (KEN)", "Nairobi", "Kenya", -1.29, 36.82, 1795},
	{"Drake Stadium, Des Moines, IA (USA)", "Des Moines", "United States", 41.59, -93.62, 292},
	{"ANZ Stadium, Sydney (AUS)", "Sydney", "Australia", -33.87, 151.21, 19},
}

var seedNationalities = []string{
	"USA", "JAM", "KEN", "ETH", "GBR", "GER", "FRA", "ITA", "ESP", "POL",
	"NED", "NOR", "SWE", "CAN", "AUS", "RSA", "NGR", "CUB", "BRA", "CHN",
	"JPN", "QAT", "BRN", "UGA", "MAR",
}

// Seeder generates synthetic raw source rows into the staging schema for
// demo and test runs without the real exports.
type Seeder struct {
	pool  *pgxpool.Pool
	faker *datagen.Faker
}

// NewSeeder creates a Seeder. A zero seed means time-based randomness.
func NewSeeder(pool *pgxpool.Pool, seed uint64) *Seeder {
	f := datagen.NewFaker()
	if seed != 0 {
		f = datagen.NewFakerWithSeed(seed)
	}
	return &Seeder{pool: pool, faker: f}
}

// Seed populates all three staging tables.
func (s *Seeder) Seed(ctx context.Context, athletes, performances int) error {
	if err := s.seedCities(ctx); err != nil {
		return err
	}
	if err := s.seedTemperatures(ctx); err != nil {
		return err
	}
	return s.seedResults(ctx, athletes, performances)
}

func (s *Seeder) seedCities(ctx context.Context) error {
	rows := make([][]any, 0, len(seedVenues))
	for _, v := range seedVenues {
		rows = append(rows, []any{
			strings.ToUpper(v.city), v.country, v.lat, v.lon, v.alt,
			int64(s.faker.Int(100000, 10000000)),
		})
	}
	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"staging", "raw_cities"},
		[]string{"city", "country", "latitude", "longitude", "altitude", "population"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to seed cities: %w", err)
	}
	return nil
}

func (s *Seeder) seedTemperatures(ctx context.Context) error {
	rows := make([][]any, 0, len(seedVenues)*12)
	for _, v := range seedVenues {
		// Shift the annual curve by hemisphere
		southern := v.lat < 0
		for month := 1; month <= 12; month++ {
			m := month
			if southern {
				m = (month + 5) % 12
			}
			// Rough sinusoid peaking in July, in Fahrenheit
			base := 52.0 + 25.0*seasonCurve(m)
			temp := base + s.faker.Float64(-4, 4)
			rows = append(rows, []any{v.city, v.country, month, temp})
		}
	}
	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"staging", "raw_temperatures"},
		[]string{"city", "country", "month", "avg_temp_f"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to seed temperatures: %w", err)
	}
	return nil
}

// seasonCurve returns -1..1, peaking at month 7.
func seasonCurve(month int) float64 {
	d := float64(month - 7)
	if d < -6 {
		d += 12
	}
	if d > 6 {
		d -= 12
	}
	return 1 - (d*d)/18.0
}

func (s *Seeder) seedResults(ctx context.Context, athletes, performances int) error {
	type roster struct {
		name string
		nat  string
		sex  string
		dob  string
	}

	pool := make([]roster, athletes)
	for i := range pool {
		sex := datagen.ChooseWeighted(s.faker, []string{"M", "F"}, []int{52, 48})
		dob := s.faker.DateRange(
			time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2004, 12, 31, 0, 0, 0, 0, time.UTC))
		pool[i] = roster{
			name: s.faker.FirstName() + " " + strings.ToUpper(s.faker.LastName()),
			nat:  datagen.Choose(s.faker, seedNationalities),
			sex:  sex,
			dob:  dob.Format("02 Jan 2006"),
		}
	}

	names := make([]string, len(seedEvents))
	weights := make([]int, len(seedEvents))
	for i, ev := range seedEvents {
		names[i] = ev.name
		weights[i] = ev.weight
	}
	byName := make(map[string]seedEvent, len(seedEvents))
	for _, ev := range seedEvents {
		byName[ev.name] = ev
	}

	columns := []string{
		"athlete_name", "event_name", "mark", "venue_name", "competition_date",
		"nationality", "gender", "date_of_birth", "rank_position", "wind",
		"results_score", "data_source",
	}

	reporter := datagen.NewProgressReporter("staging.raw_results", int64(performances), 10000)
	batchCfg := datagen.DefaultBatchConfig()
	batch := make([][]any, 0, batchCfg.BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.pool.CopyFrom(ctx,
			pgx.Identifier{"staging", "raw_results"},
			columns, pgx.CopyFromRows(batch))
		if err != nil {
			return fmt.Errorf("failed to seed results: %w", err)
		}
		reporter.Update(n)
		batch = batch[:0]
		return nil
	}

	for i := 0; i < performances; i++ {
		a := pool[s.faker.Int(0, len(pool)-1)]
		evName := datagen.ChooseWeighted(s.faker, names, weights)
		ev := byName[evName]
		venue := datagen.Choose(s.faker, seedVenues)
		date := s.faker.DateRange(
			time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))

		mark := s.faker.Float64(ev.minMark, ev.maxMark)
		wind := ""
		if ev.windy && s.faker.Float64(0, 1) < 0.8 {
			wind = fmt.Sprintf("%+.1f", s.faker.Float64(-2.5, 2.5))
		}

		batch = append(batch, []any{
			a.name,
			ev.name,
			formatMark(mark, ev.isTime),
			venue.venue,
			date.Format("02 Jan 2006"),
			a.nat,
			a.sex,
			s.faker.NullableString(a.dob, 0.1),
			fmt.Sprintf("%d", s.faker.Int(1, 12)),
			wind,
			fmt.Sprintf("%d", s.faker.Int(900, 1300)),
			"synthetic",
		})

		if len(batch) >= batchCfg.BatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	reporter.Done()

	logging.Info().
		Int("athletes", athletes).
		Int("performances", performances).
		Msg("Seed complete")

	return nil
}

// formatMark renders a numeric mark the way the source export does: plain
// seconds or meters below a minute, M:SS.ss and H:MM:SS above.
func formatMark(v float64, isTime bool) string {
	if !isTime || v < 60 {
		return fmt.Sprintf("%.2f", v)
	}
	if v < 3600 {
		m := int(v) / 60
		return fmt.Sprintf("%d:%05.2f", m, v-float64(m*60))
	}
	h := int(v) / 3600
	rem := v - float64(h*3600)
	m := int(rem) / 60
	return fmt.Sprintf("%d:%02d:%02.0f", h, m, rem-float64(m*60))
}

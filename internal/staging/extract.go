//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package staging loads raw source files into the staging schema.
package staging

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tracklab/athletics-dwh/internal/logging"
)

const copyBatchSize = 10000

// Extractor loads the three raw CSV sources into staging tables.
type Extractor struct {
	pool *pgxpool.Pool
}

// NewExtractor creates an Extractor bound to a connection pool.
func NewExtractor(pool *pgxpool.Pool) *Extractor {
	return &Extractor{pool: pool}
}

// header maps normalized column names to their index in the CSV header row.
type header map[string]int

func readHeader(record []string) header {
	h := make(header, len(record))
	for i, name := range record {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return h
}

// col returns the value for the first matching column name, or "".
func (h header) col(record []string, names ...string) string {
	for _, name := range names {
		if i, ok := h[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
	}
	return ""
}

// ExtractResults loads the world athletics results export. The export is
// semicolon-delimited with quoted fields and occasional short rows.
func (e *Extractor) ExtractResults(ctx context.Context, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	headerRow, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read results header: %w", err)
	}
	h := readHeader(headerRow)

	columns := []string{
		"athlete_name", "event_name", "mark", "venue_name", "competition_date",
		"nationality", "gender", "date_of_birth", "rank_position", "wind",
		"results_score", "data_source",
	}

	return e.copyStream(ctx, "raw_results", columns, func() ([]any, error) {
		record, err := r.Read()
		if err != nil {
			return nil, err
		}
		athlete := h.col(record, "competitor", "athlete_name")
		event := h.col(record, "event", "event_name")
		mark := h.col(record, "mark", "result")
		if athlete == "" || event == "" || mark == "" {
			return nil, errSkipRow
		}
		return []any{
			athlete,
			event,
			mark,
			h.col(record, "venue", "venue_name"),
			h.col(record, "date", "competition_date"),
			h.col(record, "nat", "nationality"),
			h.col(record, "sex", "gender"),
			h.col(record, "dob", "date_of_birth"),
			h.col(record, "rank", "rank_position"),
			h.col(record, "wind"),
			h.col(record, "results score", "results_score"),
			"world_athletics",
		}, nil
	})
}

// ExtractCities loads the world cities reference file.
func (e *Extractor) ExtractCities(ctx context.Context, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open cities file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	headerRow, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read cities header: %w", err)
	}
	h := readHeader(headerRow)

	columns := []string{"city", "country", "latitude", "longitude", "altitude", "population"}

	return e.copyStream(ctx, "raw_cities", columns, func() ([]any, error) {
		record, err := r.Read()
		if err != nil {
			return nil, err
		}
		city := h.col(record, "city", "city_ascii")
		if city == "" {
			return nil, errSkipRow
		}
		return []any{
			city,
			h.col(record, "country"),
			parseFloatOrNil(h.col(record, "latitude", "lat")),
			parseFloatOrNil(h.col(record, "longitude", "lng", "lon")),
			parseFloatOrNil(h.col(record, "altitude", "elevation")),
			parseIntOrNil(h.col(record, "population")),
		}, nil
	})
}

// ExtractTemperatures loads the city temperature file. The source carries one
// row per city and day; staging keeps them raw and the reconciler averages
// per city and month.
func (e *Extractor) ExtractTemperatures(ctx context.Context, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open temperatures file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	headerRow, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read temperatures header: %w", err)
	}
	h := readHeader(headerRow)

	columns := []string{"city", "country", "month", "avg_temp_f"}

	return e.copyStream(ctx, "raw_temperatures", columns, func() ([]any, error) {
		record, err := r.Read()
		if err != nil {
			return nil, err
		}
		city := h.col(record, "city")
		month := parseIntOrNil(h.col(record, "month"))
		temp := parseFloatOrNil(h.col(record, "avgtemperature", "avg_temp_f", "avg_temp"))
		if city == "" || month == nil || temp == nil {
			return nil, errSkipRow
		}
		// -99 is the source's missing-value sentinel
		if *temp < -90 {
			return nil, errSkipRow
		}
		return []any{city, h.col(record, "country"), month, temp}, nil
	})
}

// errSkipRow signals a source row that should be dropped, not failed on.
var errSkipRow = fmt.Errorf("skip row")

func parseFloatOrNil(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntOrNil(s string) *int64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Some sources format counts as floats ("1340000.0")
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return nil
		}
		v = int64(f)
	}
	return &v
}

// copyStream feeds rows from next into the staging table via COPY, batching
// so a malformed tail does not lose the whole file.
func (e *Extractor) copyStream(ctx context.Context, table string, columns []string, next func() ([]any, error)) (int64, error) {
	var total, skipped int64
	batch := make([][]any, 0, copyBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := e.pool.CopyFrom(ctx,
			pgx.Identifier{"staging", table},
			columns,
			pgx.CopyFromRows(batch))
		if err != nil {
			return fmt.Errorf("failed to copy into staging.%s: %w", table, err)
		}
		total += n
		batch = batch[:0]
		return nil
	}

	for {
		row, err := next()
		if err == io.EOF {
			break
		}
		if err == errSkipRow {
			skipped++
			continue
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				skipped++
				continue
			}
			return total, err
		}
		batch = append(batch, row)
		if len(batch) >= copyBatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}

	logging.Info().
		Str("table", "staging."+table).
		Int64("rows", total).
		Int64("skipped", skipped).
		Msg("Extract complete")

	return total, nil
}

// RowCounts returns the row count of each staging table.
func RowCounts(ctx context.Context, pool *pgxpool.Pool) (map[string]int64, error) {
	counts := make(map[string]int64, 3)
	for _, table := range []string{"raw_results", "raw_cities", "raw_temperatures"} {
		var n int64
		err := pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM staging.%s", table)).Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("failed to count staging.%s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Package dataset loads the world cities table from CSV and summarizes it.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"world-travel-router/internal/models"
)

const (
	// DefaultMinPopulation keeps only cities strictly larger than this
	DefaultMinPopulation = 7000000

	// DefaultExcludeCity is dropped from every load
	DefaultExcludeCity = "delhi"
)

// Column names of the world cities export
const (
	ColumnCountry    = "Country"
	ColumnCity       = "City"
	ColumnAccentCity = "AccentCity"
	ColumnRegion     = "Region"
	ColumnPopulation = "Population"
	ColumnLatitude   = "Latitude"
	ColumnLongitude  = "Longitude"
)

var requiredColumns = []string{ColumnCountry, ColumnCity, ColumnPopulation, ColumnLatitude, ColumnLongitude}

// ErrMissingColumn is returned when the header lacks a required column
var ErrMissingColumn = errors.New("missing required column")

// Options controls which rows survive a load
type Options struct {
	// MinPopulation keeps rows whose population is strictly greater. Zero keeps
	// every populated row.
	MinPopulation int64

	// ExcludeCity drops rows whose City column matches, ignoring case
	ExcludeCity string
}

// DefaultOptions returns the filters used for route searches
func DefaultOptions() Options {
	return Options{
		MinPopulation: DefaultMinPopulation,
		ExcludeCity:   DefaultExcludeCity,
	}
}

// Report counts what happened to the rows of one load
type Report struct {
	Rows       int // data rows read
	Incomplete int // rows with an empty field
	Malformed  int // rows with an unparsable number
	Excluded   int // rows matching the excluded city
	Small      int // rows at or below the population threshold
	Kept       int
}

// LoadFile reads a cities CSV from disk
func LoadFile(path string, opts Options) ([]models.City, *Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	start := time.Now()
	cities, report, err := Load(f, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}

	log.Printf("[DATASET] Loaded %s: rows=%d kept=%d incomplete=%d malformed=%d excluded=%d small=%d duration=%v",
		path, report.Rows, report.Kept, report.Incomplete, report.Malformed, report.Excluded, report.Small, time.Since(start))
	return cities, report, nil
}

// Load parses a cities CSV. Columns are located by header name. Country codes
// are translated to display names and AccentCity, when present, becomes the
// display name of the city.
func Load(r io.Reader, opts Options) ([]models.City, *Report, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	exclude := strings.ToLower(strings.TrimSpace(opts.ExcludeCity))
	report := &Report{}
	cities := []models.City{}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row %d: %w", report.Rows+1, err)
		}
		report.Rows++

		fields, ok := extract(record, columns)
		if !ok {
			report.Incomplete++
			continue
		}

		city, err := parseCity(fields)
		if err != nil {
			report.Malformed++
			continue
		}

		if exclude != "" && strings.ToLower(fields[ColumnCity]) == exclude {
			report.Excluded++
			continue
		}
		if city.Population <= opts.MinPopulation {
			report.Small++
			continue
		}

		cities = append(cities, city)
	}

	report.Kept = len(cities)
	return cities, report, nil
}

var numericColumns = map[string]bool{ColumnPopulation: true, ColumnLatitude: true, ColumnLongitude: true}

// missingTokens are the cell values pandas reads as NA by default. They only
// apply to numeric columns since "nan" and "None" are real place names.
var missingTokens = map[string]bool{
	"NA": true, "N/A": true, "n/a": true, "#N/A": true, "#N/A N/A": true, "#NA": true,
	"NaN": true, "nan": true, "-NaN": true, "-nan": true,
	"NULL": true, "null": true, "None": true, "<NA>": true,
	"1.#IND": true, "-1.#IND": true, "1.#QNAN": true, "-1.#QNAN": true,
}

// extract returns the trimmed value of every header column, or false when any
// of them is empty or a numeric column holds a missing-value marker.
func extract(record []string, columns map[string]int) (map[string]string, bool) {
	fields := make(map[string]string, len(columns))
	for name, i := range columns {
		if i >= len(record) {
			return nil, false
		}
		v := strings.TrimSpace(record[i])
		if v == "" || (numericColumns[name] && missingTokens[v]) {
			return nil, false
		}
		fields[name] = v
	}
	return fields, true
}

func parseCity(fields map[string]string) (models.City, error) {
	population, err := parsePopulation(fields[ColumnPopulation])
	if err != nil {
		return models.City{}, err
	}
	lat, err := strconv.ParseFloat(fields[ColumnLatitude], 64)
	if err != nil {
		return models.City{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(fields[ColumnLongitude], 64)
	if err != nil {
		return models.City{}, fmt.Errorf("invalid longitude: %w", err)
	}
	if !finite(lat) || !finite(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return models.City{}, fmt.Errorf("coordinates out of range: %v,%v", lat, lng)
	}

	name, key := fields[ColumnCity], ""
	if accent, ok := fields[ColumnAccentCity]; ok && accent != name {
		if !strings.EqualFold(accent, name) {
			key = strings.ToLower(name)
		}
		name = accent
	}

	return models.City{
		Name:       name,
		Key:        key,
		Country:    CountryName(strings.ToLower(fields[ColumnCountry])),
		Population: population,
		Latitude:   lat,
		Longitude:  lng,
	}, nil
}

// parsePopulation accepts integers and the float form pandas writes ("8107916.0")
func parsePopulation(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid population: %w", err)
	}
	if !finite(f) || math.Abs(f) >= math.MaxInt64 {
		return 0, fmt.Errorf("invalid population: %s", s)
	}
	return int64(f), nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

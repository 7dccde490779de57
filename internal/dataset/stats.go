package dataset

import (
	"math"
	"sort"
	"strings"

	"world-travel-router/internal/models"
)

const (
	DefaultTopCities     = 10
	DefaultHistogramBins = 50
)

// StatsFilter selects the cities a summary covers. Zero values do not filter.
type StatsFilter struct {
	Countries     []string
	MinPopulation int64
	MaxPopulation int64
	Top           int
	Bins          int
}

func (f *StatsFilter) matches(c *models.City) bool {
	if f.MinPopulation > 0 && c.Population < f.MinPopulation {
		return false
	}
	if f.MaxPopulation > 0 && c.Population > f.MaxPopulation {
		return false
	}
	if len(f.Countries) == 0 {
		return true
	}
	for _, country := range f.Countries {
		if strings.EqualFold(strings.TrimSpace(country), c.Country) {
			return true
		}
	}
	return false
}

// Summarize computes population statistics over the cities matching filter.
// The standard deviation is the population deviation, not the sample one.
func Summarize(cities []models.City, filter StatsFilter) *models.PopulationStats {
	if filter.Top <= 0 {
		filter.Top = DefaultTopCities
	}
	if filter.Bins <= 0 {
		filter.Bins = DefaultHistogramBins
	}

	selected := make([]models.City, 0, len(cities))
	countries := make(map[string]struct{})
	for i := range cities {
		if filter.matches(&cities[i]) {
			selected = append(selected, cities[i])
			countries[cities[i].Country] = struct{}{}
		}
	}

	stats := &models.PopulationStats{
		Countries: make([]string, 0, len(countries)),
		Cities:    len(selected),
		Top:       []models.CityCount{},
		Histogram: []models.HistogramBucket{},
	}
	for c := range countries {
		stats.Countries = append(stats.Countries, c)
	}
	sort.Strings(stats.Countries)

	if len(selected) == 0 {
		return stats
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Population > selected[j].Population
	})

	stats.Max = selected[0].Population
	stats.Min = selected[len(selected)-1].Population

	var sum float64
	for _, c := range selected {
		stats.Sum += c.Population
		sum += float64(c.Population)
	}
	mean := sum / float64(len(selected))

	var squares float64
	for _, c := range selected {
		d := float64(c.Population) - mean
		squares += d * d
	}
	stats.StdDev = math.Sqrt(squares / float64(len(selected)))

	mid := len(selected) / 2
	if len(selected)%2 == 1 {
		stats.Median = float64(selected[mid].Population)
	} else {
		stats.Median = (float64(selected[mid-1].Population) + float64(selected[mid].Population)) / 2
	}

	for i := 0; i < len(selected) && i < filter.Top; i++ {
		stats.Top = append(stats.Top, models.CityCount{
			Name:       selected[i].Name,
			Country:    selected[i].Country,
			Population: selected[i].Population,
		})
	}

	stats.Histogram = histogram(selected, stats.Min, stats.Max, filter.Bins)
	return stats
}

// histogram splits [lo, hi] into at most bins equal integer-width buckets
func histogram(cities []models.City, lo, hi int64, bins int) []models.HistogramBucket {
	width := (hi-lo)/int64(bins) + 1
	count := int((hi-lo)/width) + 1

	buckets := make([]models.HistogramBucket, count)
	for i := range buckets {
		from := lo + int64(i)*width
		buckets[i] = models.HistogramBucket{From: from, To: from + width - 1}
	}
	for _, c := range cities {
		buckets[(c.Population-lo)/width].Count++
	}
	return buckets
}

package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"world-travel-router/internal/models"
)

func statsCities() []models.City {
	return []models.City{
		{Name: "A", Country: "Italy", Population: 3},
		{Name: "B", Country: "France", Population: 1},
		{Name: "C", Country: "Italy", Population: 4},
		{Name: "D", Country: "Spain", Population: 2},
	}
}

func TestSummarize(t *testing.T) {
	stats := Summarize(statsCities(), StatsFilter{Top: 3, Bins: 2})

	assert.Equal(t, []string{"France", "Italy", "Spain"}, stats.Countries)
	assert.Equal(t, 4, stats.Cities)
	assert.Equal(t, int64(10), stats.Sum)
	assert.Equal(t, int64(4), stats.Max)
	assert.Equal(t, int64(1), stats.Min)
	assert.InDelta(t, 2.5, stats.Median, 1e-9)
	assert.InDelta(t, math.Sqrt(1.25), stats.StdDev, 1e-9)

	require.Len(t, stats.Top, 3)
	assert.Equal(t, "C", stats.Top[0].Name)
	assert.Equal(t, "A", stats.Top[1].Name)
	assert.Equal(t, "D", stats.Top[2].Name)

	assert.Equal(t, []models.HistogramBucket{
		{From: 1, To: 2, Count: 2},
		{From: 3, To: 4, Count: 2},
	}, stats.Histogram)
}

func TestSummarizeDefaults(t *testing.T) {
	stats := Summarize(statsCities(), StatsFilter{})

	assert.Len(t, stats.Top, 4)
	require.Len(t, stats.Histogram, 4)
	for _, b := range stats.Histogram {
		assert.Equal(t, 1, b.Count)
		assert.Equal(t, b.From, b.To)
	}
}

func TestSummarizeFilters(t *testing.T) {
	stats := Summarize(statsCities(), StatsFilter{Countries: []string{"italy"}})
	assert.Equal(t, []string{"Italy"}, stats.Countries)
	assert.Equal(t, 2, stats.Cities)
	assert.InDelta(t, 3.5, stats.Median, 1e-9)

	stats = Summarize(statsCities(), StatsFilter{MinPopulation: 2, MaxPopulation: 3})
	assert.Equal(t, 2, stats.Cities)
	assert.Equal(t, int64(5), stats.Sum)

	stats = Summarize(statsCities(), StatsFilter{Countries: []string{"Italy"}, MinPopulation: 4})
	assert.Equal(t, 1, stats.Cities)
	assert.InDelta(t, 4.0, stats.Median, 1e-9)
	assert.Zero(t, stats.StdDev)
	assert.Len(t, stats.Histogram, 1)
}

func TestSummarizeEmptySelection(t *testing.T) {
	stats := Summarize(statsCities(), StatsFilter{Countries: []string{"Atlantis"}})

	assert.Zero(t, stats.Cities)
	assert.Zero(t, stats.Sum)
	assert.NotNil(t, stats.Top)
	assert.Empty(t, stats.Top)
	assert.NotNil(t, stats.Histogram)
	assert.Empty(t, stats.Countries)
}

package routing

import (
	"context"

	"world-travel-router/internal/distance"
	"world-travel-router/internal/models"
	"world-travel-router/internal/neighbors"
)

// TravelAroundTheWorld builds the neighbor index of cities and runs one search
// with the given strategy. Callers running several searches over the same table
// should build the index once with neighbors.Build and call Search directly.
func TravelAroundTheWorld(ctx context.Context, cities []models.City, startCity, startCountry string, maxDays float64, strategy Strategy) ([]string, float64, error) {
	search, err := New(strategy)
	if err != nil {
		return nil, 0, err
	}

	idx := neighbors.Build(cities, distance.NewGreatCircleCalculator())
	journey, err := search.Search(ctx, idx, &SearchRequest{
		StartCity:    startCity,
		StartCountry: startCountry,
		MaxDays:      maxDays,
	})
	if err != nil {
		return nil, 0, err
	}

	return journey.Route, journey.TotalDays, nil
}

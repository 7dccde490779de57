package database

import (
	"context"

	"world-travel-router/internal/models"
)

// DataStore is the interface for data persistence
type DataStore interface {
	Close() error
	HealthCheck(ctx context.Context) error
	Cities() CityRepository
	NeighborCache() NeighborCacheRepository
	Journeys() JourneyRepository
}

// CityFilter narrows a city listing. Zero values do not filter.
type CityFilter struct {
	Search  string // substring of the city name, ignoring case
	Country string // exact country name, ignoring case
	Limit   int
	Offset  int
}

// CityRepository holds the active city table in load order
type CityRepository interface {
	All(ctx context.Context) ([]models.City, error)
	List(ctx context.Context, filter CityFilter) ([]models.City, error)
	Count(ctx context.Context) (int, error)
	ReplaceAll(ctx context.Context, cities []models.City) error
}

// NeighborCacheRepository persists precomputed neighbor lists keyed by the
// fingerprint of the city table they were built from.
type NeighborCacheRepository interface {
	// Get returns nil lists when nothing is cached for fingerprint
	Get(ctx context.Context, fingerprint string) ([][]models.Neighbor, error)
	Set(ctx context.Context, fingerprint string, lists [][]models.Neighbor) error
	Clear(ctx context.Context) error
}

// JourneyRepository handles journey history persistence
type JourneyRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.JourneySummary, int, error)
	GetByID(ctx context.Context, id string) (*models.Journey, error)
	Create(ctx context.Context, journey *models.Journey) (*models.Journey, error)
	Delete(ctx context.Context, id string) error
}

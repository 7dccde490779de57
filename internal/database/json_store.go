package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"world-travel-router/internal/models"
)

// JSONData represents the structure of the JSON file
type JSONData struct {
	Cities          []models.City       `json:"cities"`
	NeighborIndexes []JSONNeighborIndex `json:"neighbor_indexes"`
	Journeys        []models.Journey    `json:"journeys"`
}

// JSONNeighborIndex stores the neighbor lists built for one city table
type JSONNeighborIndex struct {
	Fingerprint string              `json:"fingerprint"`
	Lists       [][]models.Neighbor `json:"lists"`
	CreatedAt   time.Time           `json:"created_at"`
}

// JSONStore is a JSON file-based data store
type JSONStore struct {
	filePath string
	data     *JSONData
	mu       sync.RWMutex

	cityRepository          CityRepository
	neighborCacheRepository NeighborCacheRepository
	journeyRepository       JourneyRepository
}

func (s *JSONStore) Cities() CityRepository                 { return s.cityRepository }
func (s *JSONStore) NeighborCache() NeighborCacheRepository { return s.neighborCacheRepository }
func (s *JSONStore) Journeys() JourneyRepository            { return s.journeyRepository }

// NewJSONStore opens the JSON data store at filePath, creating the file if needed
func NewJSONStore(filePath string) (*JSONStore, error) {
	log.Printf("Using JSON data file: %s", filePath)

	store := &JSONStore{
		filePath: filePath,
		data:     &JSONData{},
	}

	// Load existing data or create new
	if err := store.load(); err != nil {
		return nil, err
	}

	store.cityRepository = &jsonCityRepository{store: store}
	store.neighborCacheRepository = &jsonNeighborCacheRepository{store: store}
	store.journeyRepository = &jsonJourneyRepository{store: store}

	return store, nil
}

func (s *JSONStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		s.data = &JSONData{
			Cities:          []models.City{},
			NeighborIndexes: []JSONNeighborIndex{},
			Journeys:        []models.Journey{},
		}
		return s.saveUnlocked()
	}
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}

	if err := json.Unmarshal(data, s.data); err != nil {
		return fmt.Errorf("failed to parse data file: %w", err)
	}

	// Ensure slices are not nil
	if s.data.Cities == nil {
		s.data.Cities = []models.City{}
	}
	if s.data.NeighborIndexes == nil {
		s.data.NeighborIndexes = []JSONNeighborIndex{}
	}
	if s.data.Journeys == nil {
		s.data.Journeys = []models.Journey{}
	}

	log.Printf("Loaded data: %d cities, %d neighbor indexes, %d journeys",
		len(s.data.Cities), len(s.data.NeighborIndexes), len(s.data.Journeys))

	return nil
}

func (s *JSONStore) saveUnlocked() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	// Write to temp file first, then rename (atomic)
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Close is a no-op for JSON store (data is saved after each operation)
func (s *JSONStore) Close() error {
	return nil
}

// HealthCheck always returns nil for JSON store
func (s *JSONStore) HealthCheck(ctx context.Context) error {
	return nil
}

type jsonCityRepository struct {
	store *JSONStore
}

func (r *jsonCityRepository) All(ctx context.Context) ([]models.City, error) {
	return r.List(ctx, CityFilter{})
}

func (r *jsonCityRepository) List(ctx context.Context, filter CityFilter) ([]models.City, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	country := strings.TrimSpace(filter.Country)

	result := []models.City{}
	skipped := 0
	for _, c := range r.store.data.Cities {
		if search != "" && !c.NameContains(search) {
			continue
		}
		if country != "" && !strings.EqualFold(c.Country, country) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
		result = append(result, c)
	}
	return result, nil
}

func (r *jsonCityRepository) Count(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.data.Cities), nil
}

func (r *jsonCityRepository) ReplaceAll(ctx context.Context, cities []models.City) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.data.Cities = append([]models.City{}, cities...)
	return r.store.saveUnlocked()
}

type jsonNeighborCacheRepository struct {
	store *JSONStore
}

func (r *jsonNeighborCacheRepository) Get(ctx context.Context, fingerprint string) ([][]models.Neighbor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, idx := range r.store.data.NeighborIndexes {
		if idx.Fingerprint == fingerprint {
			lists := make([][]models.Neighbor, len(idx.Lists))
			for i, l := range idx.Lists {
				lists[i] = append([]models.Neighbor{}, l...)
			}
			return lists, nil
		}
	}
	return nil, nil
}

func (r *jsonNeighborCacheRepository) Set(ctx context.Context, fingerprint string, lists [][]models.Neighbor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entry := JSONNeighborIndex{
		Fingerprint: fingerprint,
		Lists:       lists,
		CreatedAt:   time.Now(),
	}

	for i, idx := range r.store.data.NeighborIndexes {
		if idx.Fingerprint == fingerprint {
			r.store.data.NeighborIndexes[i] = entry
			return r.store.saveUnlocked()
		}
	}

	r.store.data.NeighborIndexes = append(r.store.data.NeighborIndexes, entry)
	return r.store.saveUnlocked()
}

func (r *jsonNeighborCacheRepository) Clear(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.data.NeighborIndexes = []JSONNeighborIndex{}
	return r.store.saveUnlocked()
}

type jsonJourneyRepository struct {
	store *JSONStore
}

func (r *jsonJourneyRepository) List(ctx context.Context, limit, offset int) ([]models.JourneySummary, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	journeys := make([]models.Journey, len(r.store.data.Journeys))
	copy(journeys, r.store.data.Journeys)

	// Sort by created_at descending (newest first)
	sort.SliceStable(journeys, func(i, j int) bool {
		return journeys[i].CreatedAt.After(journeys[j].CreatedAt)
	})

	total := len(journeys)

	if offset >= len(journeys) {
		return []models.JourneySummary{}, total, nil
	}
	end := len(journeys)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	summaries := make([]models.JourneySummary, 0, end-offset)
	for i := offset; i < end; i++ {
		summaries = append(summaries, journeys[i].Summary())
	}
	return summaries, total, nil
}

func (r *jsonJourneyRepository) GetByID(ctx context.Context, id string) (*models.Journey, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, j := range r.store.data.Journeys {
		if j.ID == id {
			journey := j
			return &journey, nil
		}
	}
	return nil, fmt.Errorf("journey %s: %w", id, ErrNotFound)
}

func (r *jsonJourneyRepository) Create(ctx context.Context, journey *models.Journey) (*models.Journey, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if journey.ID == "" {
		journey.ID = uuid.NewString()
	}
	if journey.CreatedAt.IsZero() {
		journey.CreatedAt = time.Now()
	}

	r.store.data.Journeys = append(r.store.data.Journeys, *journey)
	if err := r.store.saveUnlocked(); err != nil {
		return nil, err
	}
	return journey, nil
}

func (r *jsonJourneyRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, j := range r.store.data.Journeys {
		if j.ID == id {
			r.store.data.Journeys = append(r.store.data.Journeys[:i], r.store.data.Journeys[i+1:]...)
			return r.store.saveUnlocked()
		}
	}
	return ErrNotFound
}

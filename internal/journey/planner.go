// Package journey runs route searches for the service: it owns the active city
// table and its neighbor index, applies request defaults and deadlines, records
// metrics and keeps the journey history.
package journey

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"world-travel-router/internal/config"
	"world-travel-router/internal/database"
	"world-travel-router/internal/dataset"
	"world-travel-router/internal/distance"
	"world-travel-router/internal/metrics"
	"world-travel-router/internal/models"
	"world-travel-router/internal/neighbors"
	"world-travel-router/internal/routing"
)

// ErrNotLoaded is returned when a search runs before any city table is loaded
var ErrNotLoaded = errors.New("city table not loaded")

// Options configures a Planner
type Options struct {
	DataPath string
	Dataset  dataset.Options

	// Defaults for empty request fields
	StartCity    string
	StartCountry string
	MaxDays      float64
	Strategy     string

	// Timeout bounds a single search
	Timeout time.Duration
}

// OptionsFromConfig maps the service configuration onto planner options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DataPath:     cfg.Dataset.Path,
		Dataset:      cfg.Dataset.Options(),
		StartCity:    cfg.Journey.StartCity,
		StartCountry: cfg.Journey.StartCountry,
		MaxDays:      cfg.Journey.MaxDays,
		Strategy:     cfg.Journey.Strategy,
		Timeout:      cfg.Journey.Timeout,
	}
}

// Request asks for one journey. Empty fields take the planner defaults.
type Request struct {
	StartCity    string  `json:"start_city"`
	StartCountry string  `json:"start_country"`
	MaxDays      float64 `json:"max_days"`
	Strategy     string  `json:"strategy"`
}

// NeighborInfo is one ranked eastward neighbor with the cost to reach it
type NeighborInfo struct {
	Rank       int         `json:"rank"`
	City       models.City `json:"city"`
	DistanceKm float64     `json:"distance_km"`
	Hours      int         `json:"hours"`
}

// Planner serves route searches over the active city table
type Planner struct {
	store database.DataStore
	calc  distance.Calculator
	opts  Options

	mu  sync.RWMutex
	idx *neighbors.Index

	statsMu     sync.Mutex
	statsCities []models.City
}

// NewPlanner creates a planner. store may be nil, in which case nothing is
// cached or recorded.
func NewPlanner(store database.DataStore, calc distance.Calculator, opts Options) *Planner {
	if opts.Timeout <= 0 {
		opts.Timeout = config.DefaultTimeout
	}
	return &Planner{
		store: store,
		calc:  calc,
		opts:  opts,
	}
}

// Load reads the dataset file and activates it. When the file cannot be read
// the city table persisted by an earlier run is used instead.
func (p *Planner) Load(ctx context.Context) error {
	cities, _, err := dataset.LoadFile(p.opts.DataPath, p.opts.Dataset)
	if err == nil {
		return p.SetCities(ctx, cities)
	}

	if p.store == nil {
		return err
	}

	stored, serr := p.store.Cities().All(ctx)
	if serr != nil || len(stored) == 0 {
		return err
	}

	log.Printf("[JOURNEY] Dataset unavailable (%v), using %d stored cities", err, len(stored))
	return p.activate(ctx, stored, false)
}

// SetCities replaces the active city table and persists it
func (p *Planner) SetCities(ctx context.Context, cities []models.City) error {
	return p.activate(ctx, cities, true)
}

func (p *Planner) activate(ctx context.Context, cities []models.City, persist bool) error {
	idx, err := p.loadIndex(ctx, cities)
	if err != nil {
		return err
	}

	if persist && p.store != nil {
		if err := p.store.Cities().ReplaceAll(ctx, cities); err != nil {
			return fmt.Errorf("failed to store cities: %w", err)
		}
	}

	p.mu.Lock()
	p.idx = idx
	p.mu.Unlock()

	metrics.Cities.Set(float64(idx.Len()))
	log.Printf("[JOURNEY] Activated city table: cities=%d fingerprint=%.12s", idx.Len(), idx.Fingerprint())
	return nil
}

// loadIndex returns the cached index of cities, building and caching it on a miss
func (p *Planner) loadIndex(ctx context.Context, cities []models.City) (*neighbors.Index, error) {
	fingerprint := neighbors.Fingerprint(cities)

	if p.store != nil {
		lists, err := p.store.NeighborCache().Get(ctx, fingerprint)
		if err != nil {
			log.Printf("[JOURNEY] Neighbor cache read failed: %v", err)
		} else if lists != nil {
			idx, err := neighbors.FromLists(cities, lists)
			if err == nil {
				metrics.IndexLoads.WithLabelValues("cache").Inc()
				return idx, nil
			}
			log.Printf("[JOURNEY] Discarding cached neighbor index: %v", err)
		}
	}

	idx := neighbors.Build(cities, p.calc)
	metrics.IndexLoads.WithLabelValues("built").Inc()

	if p.store != nil {
		if err := p.store.NeighborCache().Set(ctx, fingerprint, idx.Lists()); err != nil {
			return nil, fmt.Errorf("failed to cache neighbor index: %w", err)
		}
	}
	return idx, nil
}

// Index returns the active neighbor index
func (p *Planner) Index() (*neighbors.Index, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.idx == nil {
		return nil, ErrNotLoaded
	}
	return p.idx, nil
}

// Cities returns the active city table
func (p *Planner) Cities() ([]models.City, error) {
	idx, err := p.Index()
	if err != nil {
		return nil, err
	}
	return idx.Cities(), nil
}

// StatsCities returns the table statistics are computed over: the dataset file
// without the population threshold, read once. It falls back to the active
// table when the file cannot be read.
func (p *Planner) StatsCities() ([]models.City, error) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()

	if p.statsCities != nil {
		return p.statsCities, nil
	}

	cities, _, err := dataset.LoadFile(p.opts.DataPath, dataset.Options{ExcludeCity: p.opts.Dataset.ExcludeCity})
	if err != nil {
		log.Printf("[JOURNEY] Statistics use the active table: %v", err)
		return p.Cities()
	}

	p.statsCities = cities
	return cities, nil
}

// Defaults returns the request used for empty fields
func (p *Planner) Defaults() Request {
	return Request{
		StartCity:    p.opts.StartCity,
		StartCountry: p.opts.StartCountry,
		MaxDays:      p.opts.MaxDays,
		Strategy:     p.opts.Strategy,
	}
}

// Resolve fills the empty fields of req with the planner defaults
func (p *Planner) Resolve(req Request) Request {
	if req.StartCity == "" && req.StartCountry == "" {
		req.StartCity = p.opts.StartCity
		req.StartCountry = p.opts.StartCountry
	}
	if req.MaxDays == 0 {
		req.MaxDays = p.opts.MaxDays
	}
	if req.Strategy == "" {
		req.Strategy = p.opts.Strategy
	}
	return req
}

// Plan runs one search and records the journey in the history. A journey that
// does not complete is still returned and recorded.
func (p *Planner) Plan(ctx context.Context, req Request) (*models.Journey, error) {
	journey, err := p.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	if p.store != nil {
		if _, err := p.store.Journeys().Create(ctx, journey); err != nil {
			return nil, fmt.Errorf("failed to save journey: %w", err)
		}
	}
	return journey, nil
}

// Search runs one search without recording it
func (p *Planner) Search(ctx context.Context, req Request) (*models.Journey, error) {
	req = p.Resolve(req)

	strategy, err := routing.ParseStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}
	search, err := routing.New(strategy)
	if err != nil {
		return nil, err
	}

	idx, err := p.Index()
	if err != nil {
		return nil, err
	}

	return p.run(ctx, idx, search, req)
}

// Compare runs every strategy on the same request, in Strategies order
func (p *Planner) Compare(ctx context.Context, req Request) ([]*models.Journey, error) {
	req = p.Resolve(req)

	idx, err := p.Index()
	if err != nil {
		return nil, err
	}

	journeys := make([]*models.Journey, 0, len(routing.Strategies()))
	for _, strategy := range routing.Strategies() {
		search, err := routing.New(strategy)
		if err != nil {
			return nil, err
		}
		journey, err := p.run(ctx, idx, search, req)
		if err != nil {
			return nil, fmt.Errorf("%s search failed: %w", strategy, err)
		}
		journeys = append(journeys, journey)
	}
	return journeys, nil
}

func (p *Planner) run(ctx context.Context, idx *neighbors.Index, search routing.RouteSearch, req Request) (*models.Journey, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	strategy := string(search.Strategy())
	start := time.Now()

	journey, err := search.Search(ctx, idx, &routing.SearchRequest{
		StartCity:    req.StartCity,
		StartCountry: req.StartCountry,
		MaxDays:      req.MaxDays,
	})
	elapsed := time.Since(start)

	if err != nil {
		metrics.ObserveSearch(strategy, metrics.OutcomeError, elapsed, 0)
		log.Printf("[JOURNEY] Search failed: strategy=%s start=%s/%s err=%v", strategy, req.StartCity, req.StartCountry, err)
		return nil, err
	}

	outcome := metrics.OutcomeComplete
	if !journey.Complete {
		outcome = string(journey.Reason)
	}
	metrics.ObserveSearch(strategy, outcome, elapsed, journey.TotalDays)

	journey.CreatedAt = time.Now()
	log.Printf("[JOURNEY] Search finished: strategy=%s start=%s/%s outcome=%s days=%.2f duration=%v",
		strategy, journey.StartCity, journey.StartCountry, outcome, journey.TotalDays, elapsed)
	return journey, nil
}

// Neighbors returns the ranked eastward neighbors of one city with the travel
// time to each.
func (p *Planner) Neighbors(name, country string) (models.City, []NeighborInfo, error) {
	idx, err := p.Index()
	if err != nil {
		return models.City{}, nil, err
	}

	i, err := routing.FindCity(idx.Cities(), name, country)
	if err != nil {
		return models.City{}, nil, err
	}

	from := idx.City(i)
	infos := make([]NeighborInfo, 0, neighbors.MaxNeighbors)
	for rank, n := range idx.Nearest(i) {
		to := idx.City(n.Index)
		hours, err := routing.TravelTime(&from, &to, rank)
		if err != nil {
			return models.City{}, nil, err
		}
		infos = append(infos, NeighborInfo{Rank: rank, City: to, DistanceKm: n.DistanceKm, Hours: hours})
	}
	return from, infos, nil
}

// Suggest returns cities with names close to name
func (p *Planner) Suggest(name, country string, limit int) []models.City {
	idx, err := p.Index()
	if err != nil {
		return []models.City{}
	}
	return routing.Suggest(idx.Cities(), name, country, limit)
}

// History returns stored journeys, newest first
func (p *Planner) History(ctx context.Context, limit, offset int) ([]models.JourneySummary, int, error) {
	if p.store == nil {
		return []models.JourneySummary{}, 0, nil
	}
	return p.store.Journeys().List(ctx, limit, offset)
}

// Get returns a stored journey
func (p *Planner) Get(ctx context.Context, id string) (*models.Journey, error) {
	if p.store == nil {
		return nil, database.ErrNotFound
	}
	return p.store.Journeys().GetByID(ctx, id)
}

// Delete removes a stored journey
func (p *Planner) Delete(ctx context.Context, id string) error {
	if p.store == nil {
		return database.ErrNotFound
	}
	return p.store.Journeys().Delete(ctx, id)
}

package routing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"world-travel-router/internal/models"
	"world-travel-router/internal/neighbors"
)

// Strategy names a route search algorithm
type Strategy string

const (
	StrategyGreedy       Strategy = "greedy"       // nearest eligible neighbor, never backtracks
	StrategyBacktracking Strategy = "backtracking" // depth-first, rank-ascending, first success wins
)

var (
	// ErrCityNotFound is returned when the start city does not match exactly one row
	ErrCityNotFound = errors.New("city not found")

	// ErrInvalidRank is returned when the cost model gets a rank outside 0..2
	ErrInvalidRank = errors.New("invalid neighbor rank")

	// ErrInvalidBudget is returned when MaxDays is not a positive finite number
	ErrInvalidBudget = errors.New("max days must be positive")

	// ErrUnknownStrategy is returned for strategy names that are not registered
	ErrUnknownStrategy = errors.New("unknown search strategy")
)

// SearchRequest contains the input for a route search
type SearchRequest struct {
	StartCity    string
	StartCountry string
	MaxDays      float64
}

// ValidBudget reports whether days is usable as a search budget: positive and
// finite. NaN fails every budget comparison and must be rejected up front.
func ValidBudget(days float64) bool {
	return days > 0 && !math.IsInf(days, 1)
}

// BudgetHours returns the hour budget of the request
func (r *SearchRequest) BudgetHours() float64 {
	return r.MaxDays * 24
}

// RouteSearch finds a circumnavigation over a precomputed neighbor index.
// A search that does not return to the start is not an error: the journey comes
// back with an empty route and a failure reason.
type RouteSearch interface {
	Strategy() Strategy
	Search(ctx context.Context, idx *neighbors.Index, req *SearchRequest) (*models.Journey, error)
}

// ParseStrategy maps a strategy name to its Strategy, ignoring case
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case StrategyGreedy, "":
		return StrategyGreedy, nil
	case StrategyBacktracking, "dfs":
		return StrategyBacktracking, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// New returns the RouteSearch implementing the given strategy
func New(strategy Strategy) (RouteSearch, error) {
	switch strategy {
	case StrategyGreedy:
		return NewGreedySearch(), nil
	case StrategyBacktracking:
		return NewBacktrackingSearch(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// Strategies lists every registered strategy in a stable order
func Strategies() []Strategy {
	return []Strategy{StrategyGreedy, StrategyBacktracking}
}

// prepare validates the request, resolves the start city and returns an
// initialized journey plus the start position.
func prepare(idx *neighbors.Index, req *SearchRequest, strategy Strategy) (*models.Journey, int, error) {
	if !ValidBudget(req.MaxDays) {
		return nil, 0, fmt.Errorf("%w: got %v", ErrInvalidBudget, req.MaxDays)
	}

	start, err := FindCity(idx.Cities(), req.StartCity, req.StartCountry)
	if err != nil {
		return nil, 0, err
	}

	startCity := idx.City(start)
	return &models.Journey{
		Strategy:     string(strategy),
		StartCity:    startCity.Name,
		StartCountry: startCity.Country,
		MaxDays:      req.MaxDays,
		Route:        []string{},
		Hops:         []models.Hop{},
	}, start, nil
}

package routing

import (
	"context"
	"log"

	"world-travel-router/internal/distance"
	"world-travel-router/internal/models"
	"world-travel-router/internal/neighbors"
)

type greedySearch struct{}

// NewGreedySearch creates a greedy nearest-neighbor search.
// It commits to the best eligible neighbor at every step and never backtracks, so
// it can miss a return path that exists.
func NewGreedySearch() RouteSearch {
	return &greedySearch{}
}

func (s *greedySearch) Strategy() Strategy {
	return StrategyGreedy
}

func (s *greedySearch) Search(ctx context.Context, idx *neighbors.Index, req *SearchRequest) (*models.Journey, error) {
	journey, start, err := prepare(idx, req, StrategyGreedy)
	if err != nil {
		return nil, err
	}

	budget := req.BudgetHours()
	log.Printf("[ROUTING] Starting greedy search: start=%s country=%s quadrant=%s max_days=%v cities=%d",
		journey.StartCity, journey.StartCountry, distance.QuadrantOf(idx.City(start).Longitude), req.MaxDays, idx.Len())

	visited := make([]bool, idx.Len())
	visited[start] = true
	route := []string{journey.StartCity}
	hops := []models.Hop{}
	current := start
	hours := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates := idx.Nearest(current)
		if len(candidates) == 0 {
			log.Printf("[ROUTING] Greedy search stuck: city=%s has no eastward neighbor", idx.City(current).Name)
			return journey.Failed(models.ReasonNoEastwardNeighbor), nil
		}

		from := idx.City(current)
		next := -1
		overBudget := false
		for rank, n := range candidates {
			// The start city stays eligible so the trip can close.
			if n.Index != start && visited[n.Index] {
				continue
			}

			to := idx.City(n.Index)
			cost, err := TravelTime(&from, &to, rank)
			if err != nil {
				return nil, err
			}
			if float64(hours+cost) > budget {
				overBudget = true
				continue
			}

			hours += cost
			hops = append(hops, newHop(&from, &to, n, rank, cost))
			route = append(route, to.Name)
			log.Printf("[ROUTING] from %s to %s took %d hours", from.Name, to.Name, cost)
			next = n.Index
			break
		}

		if next < 0 {
			reason := models.ReasonDeadEnd
			if overBudget {
				reason = models.ReasonBudgetExceeded
			}
			log.Printf("[ROUTING] Greedy search failed: city=%s hops=%d hours=%d reason=%s",
				from.Name, len(hops), hours, reason)
			return journey.Failed(reason), nil
		}

		if next == start {
			break
		}

		visited[next] = true
		current = next
	}

	journey.Route = route
	journey.Hops = hops
	journey.TotalHours = hours
	journey.TotalDays = float64(hours) / 24
	journey.Complete = true

	log.Printf("[ROUTING] Greedy search complete: cities=%d hours=%d days=%.2f", len(route), hours, journey.TotalDays)
	return journey, nil
}

func newHop(from, to *models.City, n models.Neighbor, rank, hours int) models.Hop {
	return models.Hop{
		From:       from.Name,
		To:         to.Name,
		FromCoords: from.GetCoords(),
		ToCoords:   to.GetCoords(),
		Rank:       rank,
		Hours:      hours,
		DistanceKm: n.DistanceKm,
	}
}

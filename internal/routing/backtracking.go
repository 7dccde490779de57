package routing

import (
	"context"
	"log"

	"world-travel-router/internal/distance"
	"world-travel-router/internal/models"
	"world-travel-router/internal/neighbors"
)

// frame is one level of the explicit depth-first stack
type frame struct {
	city     int // position in the city table
	nextRank int // next neighbor rank to try
	hours    int // elapsed hours on arrival
}

type backtrackingSearch struct{}

// NewBacktrackingSearch creates an exhaustive depth-first search.
// Branches are tried in ascending neighbor rank and the first path that returns to
// the start within budget is returned. The result satisfies the budget but is not
// necessarily the fastest circumnavigation.
func NewBacktrackingSearch() RouteSearch {
	return &backtrackingSearch{}
}

func (s *backtrackingSearch) Strategy() Strategy {
	return StrategyBacktracking
}

func (s *backtrackingSearch) Search(ctx context.Context, idx *neighbors.Index, req *SearchRequest) (*models.Journey, error) {
	journey, start, err := prepare(idx, req, StrategyBacktracking)
	if err != nil {
		return nil, err
	}

	budget := req.BudgetHours()
	log.Printf("[ROUTING] Starting backtracking search: start=%s country=%s quadrant=%s max_days=%v cities=%d",
		journey.StartCity, journey.StartCountry, distance.QuadrantOf(idx.City(start).Longitude), req.MaxDays, idx.Len())

	if len(idx.Nearest(start)) == 0 {
		log.Printf("[ROUTING] Backtracking search failed: start city has no eastward neighbor")
		return journey.Failed(models.ReasonNoEastwardNeighbor), nil
	}

	// path[k] is the city of stack[k]; hops[k-1] leads into stack[k].
	visited := make([]bool, idx.Len())
	visited[start] = true
	stack := []frame{{city: start}}
	path := []int{start}
	hops := []models.Hop{}
	budgetPruned := false
	expanded := 0

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		candidates := idx.Nearest(top.city)

		if top.nextRank == 0 {
			expanded++
			if err := ctx.Err(); err != nil {
				log.Printf("[ROUTING] Backtracking search cancelled: expanded=%d err=%v", expanded, err)
				return nil, err
			}
		}

		if top.nextRank >= len(candidates) {
			visited[top.city] = false
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
			if len(hops) > 0 {
				hops = hops[:len(hops)-1]
			}
			continue
		}

		rank := top.nextRank
		top.nextRank++
		n := candidates[rank]

		if n.Index != start && visited[n.Index] {
			continue
		}

		from := idx.City(top.city)
		to := idx.City(n.Index)
		cost, err := TravelTime(&from, &to, rank)
		if err != nil {
			return nil, err
		}
		arrival := top.hours + cost
		if float64(arrival) > budget {
			budgetPruned = true
			continue
		}

		hop := newHop(&from, &to, n, rank, cost)

		if n.Index == start {
			if len(path) > 1 {
				return s.complete(idx, journey, path, append(hops, hop), arrival, expanded), nil
			}
			continue
		}

		visited[n.Index] = true
		path = append(path, n.Index)
		hops = append(hops, hop)
		stack = append(stack, frame{city: n.Index, hours: arrival})
	}

	reason := models.ReasonDeadEnd
	if budgetPruned {
		reason = models.ReasonBudgetExceeded
	}
	log.Printf("[ROUTING] Backtracking search failed: expanded=%d reason=%s", expanded, reason)
	return journey.Failed(reason), nil
}

func (s *backtrackingSearch) complete(idx *neighbors.Index, journey *models.Journey, path []int, hops []models.Hop, hours, expanded int) *models.Journey {
	route := make([]string, 0, len(path)+1)
	for _, i := range path {
		route = append(route, idx.City(i).Name)
	}
	route = append(route, journey.StartCity)

	journey.Route = route
	journey.Hops = append([]models.Hop(nil), hops...)
	journey.TotalHours = hours
	journey.TotalDays = float64(hours) / 24
	journey.Complete = true

	for _, h := range journey.Hops {
		log.Printf("[ROUTING] from %s to %s took %d hours", h.From, h.To, h.Hours)
	}
	log.Printf("[ROUTING] Backtracking search complete: cities=%d hours=%d days=%.2f expanded=%d",
		len(route), hours, journey.TotalDays, expanded)
	return journey
}

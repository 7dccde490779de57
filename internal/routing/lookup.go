package routing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"world-travel-router/internal/models"
)

// maxSuggestionDistance is the largest edit distance a suggestion may have
const maxSuggestionDistance = 3

// FindCity returns the position of the only city matching name and country,
// ignoring case. Zero matches and ambiguous matches both fail with ErrCityNotFound.
func FindCity(cities []models.City, name, country string) (int, error) {
	found := -1
	matches := 0
	for i := range cities {
		if cities[i].Matches(name, country) {
			if found < 0 {
				found = i
			}
			matches++
		}
	}

	switch matches {
	case 0:
		return -1, fmt.Errorf("%w: %q, %q", ErrCityNotFound, name, country)
	case 1:
		return found, nil
	default:
		return -1, fmt.Errorf("%w: %q, %q is ambiguous (%d matches)", ErrCityNotFound, name, country, matches)
	}
}

// Suggest returns up to limit cities whose name is close to name, closest first.
// When country is set, only cities of that country are considered.
func Suggest(cities []models.City, name, country string, limit int) []models.City {
	query := strings.ToLower(strings.TrimSpace(name))
	country = strings.TrimSpace(country)
	if query == "" || limit <= 0 {
		return []models.City{}
	}

	type candidate struct {
		city models.City
		dist int
	}
	var candidates []candidate
	for _, c := range cities {
		if country != "" && !strings.EqualFold(c.Country, country) {
			continue
		}
		d := levenshtein.ComputeDistance(query, strings.ToLower(c.Name))
		if c.Key != "" {
			d = min(d, levenshtein.ComputeDistance(query, strings.ToLower(c.Key)))
		}
		if d <= maxSuggestionDistance {
			candidates = append(candidates, candidate{city: c, dist: d})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].city.Population > candidates[j].city.Population
	})

	suggestions := make([]models.City, 0, limit)
	for i := 0; i < len(candidates) && i < limit; i++ {
		suggestions = append(suggestions, candidates[i].city)
	}
	return suggestions
}

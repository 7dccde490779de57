package routing

import (
	"fmt"
	"strings"

	"world-travel-router/internal/models"
)

const (
	crossCountryHours  = 2
	largeCityHours     = 2
	largeCityThreshold = 200000
)

// baseHours is the travel time to the neighbor of a given rank
var baseHours = [...]int{2, 4, 8}

// TravelTime returns the hours needed to travel from one city to its neighbor of
// the given rank. Crossing a border and arriving in a city of more than 200000
// people each add two hours.
func TravelTime(from, to *models.City, rank int) (int, error) {
	if rank < 0 || rank >= len(baseHours) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRank, rank)
	}

	hours := baseHours[rank]
	if !strings.EqualFold(strings.TrimSpace(from.Country), strings.TrimSpace(to.Country)) {
		hours += crossCountryHours
	}
	if to.Population > largeCityThreshold {
		hours += largeCityHours
	}

	return hours, nil
}

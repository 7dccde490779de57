package testutil

import (
	"fmt"

	"world-travel-router/internal/models"
	"world-travel-router/internal/neighbors"
)

// City creates a small-population city on the equator at the given longitude
func City(name, country string, lng float64) models.City {
	return models.City{
		Name:       name,
		Country:    country,
		Population: 50000,
		Latitude:   0,
		Longitude:  lng,
	}
}

// EquatorRing returns n cities evenly spaced along the equator, starting at
// longitude 0 and named "c0".."c<n-1>", each in its own country.
func EquatorRing(n int) []models.City {
	cities := make([]models.City, n)
	step := 360.0 / float64(n)
	for i := range cities {
		lng := float64(i) * step
		if lng > 180 {
			lng -= 360
		}
		cities[i] = City(fmt.Sprintf("c%d", i), fmt.Sprintf("country%d", i), lng)
	}
	return cities
}

// WorldCities returns a handful of real cities with their coordinates
func WorldCities() []models.City {
	return []models.City{
		{Name: "London", Country: "England", Population: 7422000, Latitude: 51.5142, Longitude: -0.0931},
		{Name: "Moscow", Country: "Russia", Population: 10381288, Latitude: 55.7522, Longitude: 37.6156},
		{Name: "Tehran", Country: "Iran", Population: 7153309, Latitude: 35.6719, Longitude: 51.4244},
		{Name: "Karachi", Country: "Pakistan", Population: 11627378, Latitude: 24.9056, Longitude: 67.0822},
		{Name: "Bombay", Country: "India", Population: 12692717, Latitude: 18.975, Longitude: 72.8258},
		{Name: "Dhaka", Country: "Bangladesh", Population: 10356500, Latitude: 23.7231, Longitude: 90.4086},
		{Name: "Bangkok", Country: "Thailand", Population: 4000000, Latitude: 13.75, Longitude: 100.5167},
		{Name: "Jakarta", Country: "Indonesia", Population: 8540306, Latitude: -6.1744, Longitude: 106.8294},
		{Name: "Shanghai", Country: "China", Population: 14608512, Latitude: 31.2222, Longitude: 121.4581},
		{Name: "Seoul", Country: "Korea", Population: 10323448, Latitude: 37.5664, Longitude: 127.0},
		{Name: "Tokyo", Country: "Japan", Population: 31480498, Latitude: 35.685, Longitude: 139.7514},
		{Name: "Mexico", Country: "Mexico", Population: 8720916, Latitude: 19.4342, Longitude: -99.1386},
		{Name: "New York", Country: "United States of America", Population: 8107916, Latitude: 40.7142, Longitude: -74.0064},
		{Name: "Bogota", Country: "Colombia", Population: 7102602, Latitude: 4.6, Longitude: -74.0833},
		{Name: "Lima", Country: "Peru", Population: 7646786, Latitude: -12.05, Longitude: -77.05},
		{Name: "Sao Paulo", Country: "Brazil", Population: 10021437, Latitude: -23.5333, Longitude: -46.6167},
		{Name: "Lagos", Country: "Nigeria", Population: 8789133, Latitude: 6.4531, Longitude: 3.3958},
		{Name: "Cairo", Country: "Egypt", Population: 7734602, Latitude: 30.05, Longitude: 31.25},
	}
}

// IndexFromGraph builds an index whose neighbor lists follow graph instead of
// geography. Keys and values are city names; list order is the rank order and the
// distances are synthesized to increase with rank.
func IndexFromGraph(cities []models.City, graph map[string][]string) (*neighbors.Index, error) {
	positions := make(map[string]int, len(cities))
	for i, c := range cities {
		positions[c.Name] = i
	}

	lists := make([][]models.Neighbor, len(cities))
	for i, c := range cities {
		lists[i] = []models.Neighbor{}
		for rank, name := range graph[c.Name] {
			j, ok := positions[name]
			if !ok {
				return nil, fmt.Errorf("unknown city %q in graph", name)
			}
			lists[i] = append(lists[i], models.Neighbor{Index: j, DistanceKm: float64(100 * (rank + 1))})
		}
	}

	return neighbors.FromLists(cities, lists)
}

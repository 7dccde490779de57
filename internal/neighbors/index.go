// Package neighbors precomputes, for every city of a table, its nearest eastward
// cities ranked by great-circle distance.
package neighbors

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"world-travel-router/internal/distance"
	"world-travel-router/internal/models"
)

// MaxNeighbors is the number of ranked eastward neighbors kept per city
const MaxNeighbors = 3

// ErrInvalidLists is returned when persisted neighbor lists do not fit the table
var ErrInvalidLists = errors.New("neighbors: lists do not match city table")

// Index is the precomputed neighbor mapping of one city table.
// It is read-only once built and safe to share between searches.
type Index struct {
	cities      []models.City
	lists       [][]models.Neighbor
	fingerprint string
}

// NearestEastward returns up to MaxNeighbors cities east of cities[i], ordered by
// ascending distance. Equal distances keep table order.
func NearestEastward(cities []models.City, i int, calc distance.Calculator) []models.Neighbor {
	origin := cities[i].GetCoords()

	candidates := make([]models.Neighbor, 0, 16)
	for j := range cities {
		if j == i {
			continue
		}
		dest := cities[j].GetCoords()
		if !distance.IsEastward(origin, dest) {
			continue
		}
		d := calc.DistanceKm(origin, dest)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		candidates = append(candidates, models.Neighbor{
			Index:      j,
			DistanceKm: d,
		})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].DistanceKm < candidates[b].DistanceKm
	})

	if len(candidates) > MaxNeighbors {
		candidates = candidates[:MaxNeighbors]
	}
	// Trim capacity so callers can't append into the scratch slice.
	return candidates[:len(candidates):len(candidates)]
}

// Build computes the neighbor lists of every city once. Cost is O(n²) distance
// evaluations.
func Build(cities []models.City, calc distance.Calculator) *Index {
	start := time.Now()

	lists := make([][]models.Neighbor, len(cities))
	isolated := 0
	for i := range cities {
		lists[i] = NearestEastward(cities, i, calc)
		if len(lists[i]) == 0 {
			isolated++
		}
	}

	log.Printf("[NEIGHBORS] Built index: cities=%d isolated=%d duration=%v", len(cities), isolated, time.Since(start))

	return &Index{
		cities:      cities,
		lists:       lists,
		fingerprint: Fingerprint(cities),
	}
}

// FromLists rebuilds an index from previously computed lists, e.g. a persisted cache.
func FromLists(cities []models.City, lists [][]models.Neighbor) (*Index, error) {
	if len(lists) != len(cities) {
		return nil, fmt.Errorf("%w: %d lists for %d cities", ErrInvalidLists, len(lists), len(cities))
	}

	for i, list := range lists {
		if len(list) > MaxNeighbors {
			return nil, fmt.Errorf("%w: city %d has %d neighbors", ErrInvalidLists, i, len(list))
		}
		for rank, n := range list {
			if n.Index < 0 || n.Index >= len(cities) || n.Index == i {
				return nil, fmt.Errorf("%w: city %d rank %d points to %d", ErrInvalidLists, i, rank, n.Index)
			}
			if rank > 0 && n.DistanceKm < list[rank-1].DistanceKm {
				return nil, fmt.Errorf("%w: city %d is not sorted by distance", ErrInvalidLists, i)
			}
		}
	}

	return &Index{
		cities:      cities,
		lists:       lists,
		fingerprint: Fingerprint(cities),
	}, nil
}

// Len returns the number of cities in the index
func (x *Index) Len() int {
	return len(x.cities)
}

// City returns the city at position i
func (x *Index) City(i int) models.City {
	return x.cities[i]
}

// Cities returns the underlying city table. Callers must not modify it.
func (x *Index) Cities() []models.City {
	return x.cities
}

// Nearest returns the ranked eastward neighbors of the city at position i
func (x *Index) Nearest(i int) []models.Neighbor {
	return x.lists[i]
}

// Lists returns all neighbor lists in table order
func (x *Index) Lists() [][]models.Neighbor {
	return x.lists
}

// Fingerprint returns the hash of the table the index was built from
func (x *Index) Fingerprint() string {
	return x.fingerprint
}

// Fingerprint hashes the city table so persisted indexes can be matched to it.
// Row order matters because neighbor indexes are positional.
func Fingerprint(cities []models.City) string {
	h := sha256.New()
	var buf [8]byte
	for _, c := range cities {
		h.Write([]byte(strings.ToLower(c.Name)))
		h.Write([]byte{0})
		h.Write([]byte(strings.ToLower(c.Country)))
		h.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], uint64(c.Population))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(c.Latitude))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(c.Longitude))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

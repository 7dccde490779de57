package models

import (
	"strings"
	"time"
)

// Coordinates represents a geographic point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// City is one row of the city table
//
// Key holds the plain City column when the display name differs from it only by
// accents or spelling ("Bogotá" vs "bogota"). Lookups accept either.
type City struct {
	Name       string  `json:"city"`
	Key        string  `json:"key,omitempty"`
	Country    string  `json:"country"`
	Population int64   `json:"population"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// GetCoords returns the coordinates of the city
func (c *City) GetCoords() Coordinates {
	return Coordinates{Lat: c.Latitude, Lng: c.Longitude}
}

// Matches reports whether the city has the given name and country, ignoring case
// and surrounding whitespace.
func (c *City) Matches(name, country string) bool {
	return c.MatchesName(name) &&
		strings.EqualFold(strings.TrimSpace(c.Country), strings.TrimSpace(country))
}

// MatchesName compares name against the display name and the lookup key
func (c *City) MatchesName(name string) bool {
	name = strings.TrimSpace(name)
	if strings.EqualFold(strings.TrimSpace(c.Name), name) {
		return true
	}
	return c.Key != "" && strings.EqualFold(c.Key, name)
}

// NameContains reports whether the lowercase fragment occurs in the display
// name or the lookup key.
func (c *City) NameContains(fragment string) bool {
	return strings.Contains(strings.ToLower(c.Name), fragment) ||
		(c.Key != "" && strings.Contains(strings.ToLower(c.Key), fragment))
}

// Neighbor is one ranked entry of a city's eastward neighbor list.
// Index points into the city table the list was built from.
type Neighbor struct {
	Index      int     `json:"index"`
	DistanceKm float64 `json:"distance_km"`
}

// FailureReason explains why a search did not return to its start city
type FailureReason string

const (
	ReasonNone               FailureReason = ""
	ReasonBudgetExceeded     FailureReason = "BudgetExceeded"
	ReasonNoEastwardNeighbor FailureReason = "NoEastwardNeighbor"
	ReasonDeadEnd            FailureReason = "DeadEnd"
)

// Hop is a single committed move of a journey
type Hop struct {
	From       string      `json:"from"`
	To         string      `json:"to"`
	FromCoords Coordinates `json:"from_coords"`
	ToCoords   Coordinates `json:"to_coords"`
	Rank       int         `json:"rank"`
	Hours      int         `json:"hours"`
	DistanceKm float64     `json:"distance_km"`
}

// Journey is the outcome of one route search.
// On failure Route and Hops are empty and TotalDays is zero.
type Journey struct {
	ID           string        `json:"id,omitempty"`
	Strategy     string        `json:"strategy"`
	StartCity    string        `json:"start_city"`
	StartCountry string        `json:"start_country"`
	MaxDays      float64       `json:"max_days"`
	Route        []string      `json:"route"`
	Hops         []Hop         `json:"hops"`
	TotalHours   int           `json:"total_hours"`
	TotalDays    float64       `json:"total_days"`
	Complete     bool          `json:"complete"`
	Reason       FailureReason `json:"reason,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Failed resets the journey to the failure shape with the given reason
func (j *Journey) Failed(reason FailureReason) *Journey {
	j.Route = []string{}
	j.Hops = []Hop{}
	j.TotalHours = 0
	j.TotalDays = 0
	j.Complete = false
	j.Reason = reason
	return j
}

// JourneySummary is the list view of a stored journey
type JourneySummary struct {
	ID           string        `json:"id"`
	Strategy     string        `json:"strategy"`
	StartCity    string        `json:"start_city"`
	StartCountry string        `json:"start_country"`
	MaxDays      float64       `json:"max_days"`
	CitiesCount  int           `json:"cities_count"`
	TotalDays    float64       `json:"total_days"`
	Complete     bool          `json:"complete"`
	Reason       FailureReason `json:"reason,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Summary returns the list view of the journey
func (j *Journey) Summary() JourneySummary {
	return JourneySummary{
		ID:           j.ID,
		Strategy:     j.Strategy,
		StartCity:    j.StartCity,
		StartCountry: j.StartCountry,
		MaxDays:      j.MaxDays,
		CitiesCount:  len(j.Route),
		TotalDays:    j.TotalDays,
		Complete:     j.Complete,
		Reason:       j.Reason,
		CreatedAt:    j.CreatedAt,
	}
}

// CityCount is a city with its population, used by statistics views
type CityCount struct {
	Name       string `json:"city"`
	Country    string `json:"country"`
	Population int64  `json:"population"`
}

// HistogramBucket is one bin of a population histogram
type HistogramBucket struct {
	From  int64 `json:"from"`
	To    int64 `json:"to"`
	Count int   `json:"count"`
}

// PopulationStats contains aggregate population figures for a set of cities
type PopulationStats struct {
	Countries []string          `json:"countries"`
	Cities    int               `json:"cities"`
	Sum       int64             `json:"sum"`
	Max       int64             `json:"max"`
	Min       int64             `json:"min"`
	Median    float64           `json:"median"`
	StdDev    float64           `json:"std_dev"`
	Top       []CityCount       `json:"top"`
	Histogram []HistogramBucket `json:"histogram"`
}

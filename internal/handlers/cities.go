package handlers

import (
	"log"
	"net/http"
	"strings"

	"world-travel-router/internal/database"
	"world-travel-router/internal/journey"
	"world-travel-router/internal/models"
)

// CityListResponse represents the city list response
type CityListResponse struct {
	Cities []models.City `json:"cities"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// NeighborsResponse represents the ranked eastward neighbors of one city
type NeighborsResponse struct {
	City      models.City            `json:"city"`
	Neighbors []journey.NeighborInfo `json:"neighbors"`
}

// HandleListCities handles GET /api/v1/cities
func (h *Handler) HandleListCities(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	filter := database.CityFilter{
		Search:  r.URL.Query().Get("search"),
		Country: r.URL.Query().Get("country"),
		Limit:   limit,
		Offset:  offset,
	}

	log.Printf("[HTTP] GET /api/v1/cities: search=%q country=%q limit=%d offset=%d",
		filter.Search, filter.Country, limit, offset)

	var cities []models.City
	var err error
	if h.DB != nil {
		cities, err = h.DB.Cities().List(r.Context(), filter)
	} else {
		cities, err = h.filterActive(filter)
	}
	if err != nil {
		log.Printf("[ERROR] Failed to list cities: err=%v", err)
		h.handleInternalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, CityListResponse{
		Cities: cities,
		Limit:  limit,
		Offset: offset,
	})
}

// filterActive applies a city filter to the planner's table
func (h *Handler) filterActive(filter database.CityFilter) ([]models.City, error) {
	all, err := h.Planner.Cities()
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	country := strings.TrimSpace(filter.Country)
	matched := []models.City{}
	skipped := 0
	for _, c := range all {
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
		if filter.Limit > 0 && len(matched) >= filter.Limit {
			break
		}
		matched = append(matched, c)
	}
	return matched, nil
}

// HandleCityNeighbors handles GET /api/v1/cities/neighbors
func (h *Handler) HandleCityNeighbors(w http.ResponseWriter, r *http.Request) {
	req := journey.Request{
		StartCity:    r.URL.Query().Get("city"),
		StartCountry: r.URL.Query().Get("country"),
	}
	if req.StartCity == "" || req.StartCountry == "" {
		h.handleValidationError(w, "city and country are required")
		return
	}

	log.Printf("[HTTP] GET /api/v1/cities/neighbors: city=%s country=%s", req.StartCity, req.StartCountry)
	city, neighbors, err := h.Planner.Neighbors(req.StartCity, req.StartCountry)
	if err != nil {
		h.handleSearchError(w, err, req)
		return
	}

	h.writeJSON(w, http.StatusOK, NeighborsResponse{
		City:      city,
		Neighbors: neighbors,
	})
}

package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"world-travel-router/internal/dataset"
)

// HandleStats handles GET /api/v1/stats
//
// Query parameters: countries (comma separated codes), min_population,
// max_population, top and bins.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := dataset.StatsFilter{}

	if countries := q.Get("countries"); countries != "" {
		for _, c := range strings.Split(countries, ",") {
			if c = strings.TrimSpace(c); c != "" {
				filter.Countries = append(filter.Countries, c)
			}
		}
	}

	ints := []struct {
		name string
		set  func(int64)
	}{
		{"min_population", func(v int64) { filter.MinPopulation = v }},
		{"max_population", func(v int64) { filter.MaxPopulation = v }},
		{"top", func(v int64) { filter.Top = int(v) }},
		{"bins", func(v int64) { filter.Bins = int(v) }},
	}
	for _, p := range ints {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			h.handleValidationError(w, p.name+" must be a non-negative integer")
			return
		}
		p.set(v)
	}

	cities, err := h.Planner.StatsCities()
	if err != nil {
		h.handleSearchError(w, err, h.Planner.Defaults())
		return
	}

	stats := dataset.Summarize(cities, filter)
	log.Printf("[HTTP] GET /api/v1/stats: countries=%v cities=%d", filter.Countries, stats.Cities)
	h.writeJSON(w, http.StatusOK, stats)
}

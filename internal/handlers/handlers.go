package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"world-travel-router/internal/database"
	"world-travel-router/internal/journey"
	"world-travel-router/internal/models"
	"world-travel-router/internal/routing"
)

const (
	defaultListLimit = 20
	maxListLimit     = 1000
	maxSuggestions   = 5
)

// Handler provides common handler utilities and dependencies
type Handler struct {
	DB      database.DataStore
	Planner *journey.Planner

	// HopInterval paces hop messages on the journey stream
	HopInterval time.Duration
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	h.writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// handleNotFound handles 404 errors
func (h *Handler) handleNotFound(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// handleValidationError handles 400 errors
func (h *Handler) handleValidationError(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", message, nil)
}

// handleInternalError handles 500 errors
func (h *Handler) handleInternalError(w http.ResponseWriter, err error) {
	log.Printf("[ERROR] Internal error: %v", err)
	h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An error occurred. Please try again.", nil)
}

// checkNotFound checks if an error is a not found error
func (h *Handler) checkNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

// searchError maps a search error to its status, code and details
func (h *Handler) searchError(err error, req journey.Request) (int, ErrorDetail) {
	switch {
	case errors.Is(err, routing.ErrCityNotFound):
		return http.StatusNotFound, ErrorDetail{
			Code:    "CITY_NOT_FOUND",
			Message: err.Error(),
			Details: map[string]interface{}{
				"suggestions": suggestionsOf(h.Planner.Suggest(req.StartCity, req.StartCountry, maxSuggestions)),
			},
		}
	case errors.Is(err, routing.ErrInvalidBudget), errors.Is(err, routing.ErrUnknownStrategy):
		return http.StatusBadRequest, ErrorDetail{Code: "VALIDATION_ERROR", Message: err.Error()}
	case errors.Is(err, journey.ErrNotLoaded):
		return http.StatusServiceUnavailable, ErrorDetail{Code: "NOT_READY", Message: "City table is not loaded yet"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorDetail{Code: "SEARCH_TIMEOUT", Message: "The search did not finish in time"}
	default:
		log.Printf("[ERROR] Internal error: %v", err)
		return http.StatusInternalServerError, ErrorDetail{Code: "INTERNAL_ERROR", Message: "An error occurred. Please try again."}
	}
}

// handleSearchError writes the response for a failed search request
func (h *Handler) handleSearchError(w http.ResponseWriter, err error, req journey.Request) {
	status, detail := h.searchError(err, req)
	h.writeJSON(w, status, ErrorResponse{Error: detail})
}

// CitySuggestion is a close match offered when a start city is unknown
type CitySuggestion struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

func suggestionsOf(cities []models.City) []CitySuggestion {
	suggestions := make([]CitySuggestion, len(cities))
	for i, c := range cities {
		suggestions[i] = CitySuggestion{City: c.Name, Country: c.Country}
	}
	return suggestions
}

// pagination reads limit and offset query parameters, ignoring invalid values
func pagination(r *http.Request) (int, int) {
	limit := defaultListLimit
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	return limit, offset
}

// HandleHealthCheck handles GET /api/v1/health
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "connected"
	cities := 0

	if h.DB == nil {
		dbStatus = "disabled"
	} else if err := h.DB.HealthCheck(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "error"
	}

	if idx, err := h.Planner.Index(); err == nil {
		cities = idx.Len()
	} else {
		status = "degraded"
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   status,
		"version":  "1.0.0",
		"database": dbStatus,
		"cities":   cities,
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"world-travel-router/internal/journey"
	"world-travel-router/internal/models"
)

// JourneyListResponse represents the journey history response
type JourneyListResponse struct {
	Journeys []models.JourneySummary `json:"journeys"`
	Total    int                     `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
}

// CompareResponse contains one journey per strategy for the same request
type CompareResponse struct {
	Request  journey.Request   `json:"request"`
	Journeys []*models.Journey `json:"journeys"`
}

// decodeRequest reads a journey request body. An empty body means all defaults.
func (h *Handler) decodeRequest(r *http.Request) (journey.Request, error) {
	var req journey.Request
	if r.Body == nil || r.ContentLength == 0 {
		return req, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	req.StartCity = strings.TrimSpace(req.StartCity)
	req.StartCountry = strings.TrimSpace(req.StartCountry)
	return req, nil
}

// HandleCreateJourney handles POST /api/v1/journeys
func (h *Handler) HandleCreateJourney(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRequest(r)
	if err != nil {
		log.Printf("[HTTP] POST /api/v1/journeys: invalid request body: err=%v", err)
		h.handleValidationError(w, "Invalid request body")
		return
	}
	if req.MaxDays < 0 {
		h.handleValidationError(w, "max_days must not be negative")
		return
	}

	log.Printf("[HTTP] POST /api/v1/journeys: start=%s country=%s max_days=%v strategy=%s",
		req.StartCity, req.StartCountry, req.MaxDays, req.Strategy)

	j, err := h.Planner.Plan(r.Context(), req)
	if err != nil {
		h.handleSearchError(w, err, req)
		return
	}

	log.Printf("[HTTP] Journey planned: id=%s complete=%v days=%.2f", j.ID, j.Complete, j.TotalDays)
	h.writeJSON(w, http.StatusCreated, j)
}

// HandleListJourneys handles GET /api/v1/journeys
func (h *Handler) HandleListJourneys(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	journeys, total, err := h.Planner.History(r.Context(), limit, offset)
	if err != nil {
		log.Printf("[ERROR] Failed to list journeys: err=%v", err)
		h.handleInternalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, JourneyListResponse{
		Journeys: journeys,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	})
}

// HandleGetJourney handles GET /api/v1/journeys/{id}
func (h *Handler) HandleGetJourney(w http.ResponseWriter, r *http.Request, id string) {
	j, err := h.Planner.Get(r.Context(), id)
	if err != nil {
		if h.checkNotFound(err) {
			h.handleNotFound(w, "Journey not found")
			return
		}
		log.Printf("[ERROR] Failed to get journey: id=%s err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, j)
}

// HandleDeleteJourney handles DELETE /api/v1/journeys/{id}
func (h *Handler) HandleDeleteJourney(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.Planner.Delete(r.Context(), id); err != nil {
		if h.checkNotFound(err) {
			h.handleNotFound(w, "Journey not found")
			return
		}
		log.Printf("[ERROR] Failed to delete journey: id=%s err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}

	log.Printf("[HTTP] Journey deleted: id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleCompare handles POST /api/v1/journeys/compare
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRequest(r)
	if err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}
	if req.MaxDays < 0 {
		h.handleValidationError(w, "max_days must not be negative")
		return
	}

	journeys, err := h.Planner.Compare(r.Context(), req)
	if err != nil {
		h.handleSearchError(w, err, req)
		return
	}

	resolved := h.Planner.Resolve(req)
	resolved.Strategy = ""

	h.writeJSON(w, http.StatusOK, CompareResponse{
		Request:  resolved,
		Journeys: journeys,
	})
}

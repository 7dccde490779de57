package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"world-travel-router/internal/dataset"
	"world-travel-router/internal/distance"
	"world-travel-router/internal/journey"
	"world-travel-router/internal/models"
	"world-travel-router/internal/sqlite"
	"world-travel-router/internal/testutil"
)

func testPlannerOptions(t *testing.T) journey.Options {
	return journey.Options{
		DataPath:     filepath.Join(t.TempDir(), "missing.csv"),
		Dataset:      dataset.DefaultOptions(),
		StartCity:    "c0",
		StartCountry: "country0",
		MaxDays:      80,
		Strategy:     "greedy",
		Timeout:      5 * time.Second,
	}
}

// setupTestHandler creates a handler over a 4-city equator ring backed by a
// temporary SQLite store
func setupTestHandler(t *testing.T) *Handler {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	planner := journey.NewPlanner(store, distance.NewGreatCircleCalculator(), testPlannerOptions(t))
	require.NoError(t, planner.SetCities(context.Background(), testutil.EquatorRing(4)))

	return &Handler{
		DB:      store,
		Planner: planner,
	}
}

func setupUnloadedHandler(t *testing.T) *Handler {
	t.Helper()
	planner := journey.NewPlanner(nil, distance.NewGreatCircleCalculator(), testPlannerOptions(t))
	return &Handler{Planner: planner}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Error
}

func postJourney(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest("POST", "/api/v1/journeys", nil)
	} else {
		req = httptest.NewRequest("POST", "/api/v1/journeys", bytes.NewReader([]byte(body)))
	}
	w := httptest.NewRecorder()
	h.HandleCreateJourney(w, req)
	return w
}

func TestHandleHealthCheck(t *testing.T) {
	h := setupTestHandler(t)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealthCheck(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "connected", resp["database"])
	assert.Equal(t, float64(4), resp["cities"])
}

func TestHandleHealthCheckNotLoaded(t *testing.T) {
	h := setupUnloadedHandler(t)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealthCheck(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "degraded", resp["status"])
	assert.Equal(t, "disabled", resp["database"])
}

func TestHandleListCities(t *testing.T) {
	h := setupTestHandler(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"c0", "c1", "c2", "c3"}},
		{"search", "?search=c1", []string{"c1"}},
		{"country ignores case", "?country=COUNTRY2", []string{"c2"}},
		{"limit", "?limit=2", []string{"c0", "c1"}},
		{"offset", "?limit=2&offset=3", []string{"c3"}},
		{"no match", "?search=zz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/cities"+tt.query, nil)
			w := httptest.NewRecorder()
			h.HandleListCities(w, req)

			require.Equal(t, http.StatusOK, w.Code)

			var resp CityListResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			names := make([]string, 0, len(resp.Cities))
			for _, c := range resp.Cities {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestHandleListCitiesWithoutStore(t *testing.T) {
	h := setupUnloadedHandler(t)
	require.NoError(t, h.Planner.SetCities(context.Background(), testutil.EquatorRing(4)))

	req := httptest.NewRequest("GET", "/api/v1/cities?search=C3", nil)
	w := httptest.NewRecorder()
	h.HandleListCities(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp CityListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Cities, 1)
	assert.Equal(t, "c3", resp.Cities[0].Name)
	assert.Equal(t, defaultListLimit, resp.Limit)
}

func TestHandleListCitiesLimitCapped(t *testing.T) {
	h := setupTestHandler(t)

	req := httptest.NewRequest("GET", "/api/v1/cities?limit=5000", nil)
	w := httptest.NewRecorder()
	h.HandleListCities(w, req)

	var resp CityListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, maxListLimit, resp.Limit)
}

func TestHandleCityNeighbors(t *testing.T) {
	h := setupTestHandler(t)

	req := httptest.NewRequest("GET", "/api/v1/cities/neighbors?city=c0&country=country0", nil)
	w := httptest.NewRecorder()
	h.HandleCityNeighbors(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp NeighborsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "c0", resp.City.Name)
	require.Len(t, resp.Neighbors, 1)
	assert.Equal(t, "c1", resp.Neighbors[0].City.Name)
	assert.Equal(t, 0, resp.Neighbors[0].Rank)
	assert.Equal(t, 4, resp.Neighbors[0].Hours)
}

func TestHandleCityNeighborsErrors(t *testing.T) {
	h := setupTestHandler(t)

	tests := []struct {
		name   string
		query  string
		status int
		code   string
	}{
		{"missing country", "?city=c0", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown city", "?city=Atlantis&country=country0", http.StatusNotFound, "CITY_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/cities/neighbors"+tt.query, nil)
			w := httptest.NewRecorder()
			h.HandleCityNeighbors(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestHandleCreateJourney(t *testing.T) {
	h := setupTestHandler(t)

	w := postJourney(t, h, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var j models.Journey
	require.NoError(t, json.NewDecoder(w.Body).Decode(&j))
	assert.NotEmpty(t, j.ID)
	assert.True(t, j.Complete)
	assert.Equal(t, "greedy", j.Strategy)
	assert.Equal(t, []string{"c0", "c1", "c2", "c3", "c0"}, j.Route)
	assert.Equal(t, 16, j.TotalHours)
	assert.Len(t, j.Hops, 4)
}

func TestHandleCreateJourneyByLookupKey(t *testing.T) {
	cities := testutil.EquatorRing(4)
	cities[0].Name, cities[0].Key, cities[0].Country = "Bogotá", "bogota", "Colombia"

	for name, h := range map[string]*Handler{"store": setupTestHandler(t), "memory": setupUnloadedHandler(t)} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, h.Planner.SetCities(context.Background(), cities))

			w := postJourney(t, h, `{"start_city":"bogota","start_country":"colombia","max_days":80}`)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			var j models.Journey
			require.NoError(t, json.NewDecoder(w.Body).Decode(&j))
			assert.True(t, j.Complete)
			assert.Equal(t, "Bogotá", j.StartCity)
			assert.Equal(t, []string{"Bogotá", "c1", "c2", "c3", "Bogotá"}, j.Route)

			req := httptest.NewRequest("GET", "/api/v1/cities?search=gota", nil)
			w = httptest.NewRecorder()
			h.HandleListCities(w, req)
			require.Equal(t, http.StatusOK, w.Code)

			var resp CityListResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			require.Len(t, resp.Cities, 1)
			assert.Equal(t, "bogota", resp.Cities[0].Key)
		})
	}
}

func TestHandleCreateJourneyIncomplete(t *testing.T) {
	h := setupTestHandler(t)

	w := postJourney(t, h, `{"start_city":"c2","start_country":"country2","max_days":0.5,"strategy":"backtracking"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var j models.Journey
	require.NoError(t, json.NewDecoder(w.Body).Decode(&j))
	assert.False(t, j.Complete)
	assert.Equal(t, models.ReasonBudgetExceeded, j.Reason)
	assert.Empty(t, j.Route)
	assert.Equal(t, "backtracking", j.Strategy)
}

func TestHandleCreateJourneyErrors(t *testing.T) {
	h := setupTestHandler(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"invalid json", `{"start_city":`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"negative budget", `{"max_days":-1}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown strategy", `{"strategy":"random"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown city", `{"start_city":"Atlantis","start_country":"country0"}`, http.StatusNotFound, "CITY_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJourney(t, h, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestHandleCreateJourneySuggestions(t *testing.T) {
	h := setupTestHandler(t)

	w := postJourney(t, h, `{"start_city":"c9","start_country":"country0"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Suggestions []CitySuggestion `json:"suggestions"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "CITY_NOT_FOUND", resp.Error.Code)
	assert.Equal(t, []CitySuggestion{{City: "c0", Country: "country0"}}, resp.Error.Details.Suggestions)
}

func TestHandleCreateJourneyNotLoaded(t *testing.T) {
	h := setupUnloadedHandler(t)

	w := postJourney(t, h, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "NOT_READY", decodeError(t, w).Code)
}

func TestJourneyHistory(t *testing.T) {
	h := setupTestHandler(t)

	w := postJourney(t, h, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Journey
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

	req := httptest.NewRequest("GET", "/api/v1/journeys", nil)
	w = httptest.NewRecorder()
	h.HandleListJourneys(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var list JourneyListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Journeys, 1)
	assert.Equal(t, created.ID, list.Journeys[0].ID)
	assert.Equal(t, 5, list.Journeys[0].CitiesCount)

	path := fmt.Sprintf("/api/v1/journeys/%s", created.ID)
	req = httptest.NewRequest("GET", path, nil)
	w = httptest.NewRecorder()
	h.HandleGetJourney(w, req, created.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Journey
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, created.Route, got.Route)
	assert.Equal(t, created.TotalHours, got.TotalHours)

	req = httptest.NewRequest("DELETE", path, nil)
	w = httptest.NewRecorder()
	h.HandleDeleteJourney(w, req, created.ID)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest("GET", path, nil)
	w = httptest.NewRecorder()
	h.HandleGetJourney(w, req, created.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest("DELETE", path, nil)
	w = httptest.NewRecorder()
	h.HandleDeleteJourney(w, req, created.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCompare(t *testing.T) {
	h := setupTestHandler(t)

	req := httptest.NewRequest("POST", "/api/v1/journeys/compare",
		bytes.NewReader([]byte(`{"start_city":"c1","start_country":"country1"}`)))
	w := httptest.NewRecorder()
	h.HandleCompare(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp CompareResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "c1", resp.Request.StartCity)
	assert.Equal(t, float64(80), resp.Request.MaxDays)
	require.Len(t, resp.Journeys, 2)
	assert.Equal(t, "greedy", resp.Journeys[0].Strategy)
	assert.Equal(t, "backtracking", resp.Journeys[1].Strategy)
	for _, j := range resp.Journeys {
		assert.True(t, j.Complete)
		assert.Equal(t, []string{"c1", "c2", "c3", "c0", "c1"}, j.Route)
	}

	// Comparisons are not recorded.
	list, total, err := h.Planner.History(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}

func TestHandleStats(t *testing.T) {
	h := setupTestHandler(t)

	req := httptest.NewRequest("GET", "/api/v1/stats?countries=country1,COUNTRY2&top=1&bins=2", nil)
	w := httptest.NewRecorder()
	h.HandleStats(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats models.PopulationStats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, 2, stats.Cities)
	assert.Equal(t, int64(100000), stats.Sum)
	assert.Len(t, stats.Top, 1)
}

func TestHandleStatsInvalidParameter(t *testing.T) {
	h := setupTestHandler(t)

	for _, query := range []string{"?top=abc", "?bins=-2", "?min_population=1.5"} {
		req := httptest.NewRequest("GET", "/api/v1/stats"+query, nil)
		w := httptest.NewRecorder()
		h.HandleStats(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestHandleStatsNotLoaded(t *testing.T) {
	h := setupUnloadedHandler(t)

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	h.HandleStats(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

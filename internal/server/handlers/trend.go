// internal/server/handlers/trend.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"trendminer/internal/domain/analysis"
	"trendminer/internal/domain/trend"
)

// TrendHandler handles trend-related HTTP requests
type TrendHandler struct {
	service analysis.Service
}

// NewTrendHandler creates a new trend handler
func NewTrendHandler(service analysis.Service) *TrendHandler {
	return &TrendHandler{
		service: service,
	}
}

// GetTrends returns the ranked trends from the current snapshot, optionally
// filtered by a minimum composite score and truncated to a limit
func (h *TrendHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := currentSnapshot(w, r, h.service)
	if !ok {
		return
	}

	minScore, _ := strconv.ParseFloat(r.URL.Query().Get("min_score"), 64)
	limit := queryInt(r, "limit", 0)

	trends := make([]trend.RankedTrend, 0, len(snapshot.Trends))
	for _, t := range snapshot.Trends {
		if t.CompositeScore < minScore {
			continue
		}
		trends = append(trends, t)
	}
	if limit > 0 && len(trends) > limit {
		trends = trends[:limit]
	}

	respondWithJSON(w, http.StatusOK, trends)
}

// GetTemporalPatterns returns the temporal growth patterns from the current
// snapshot
func (h *TrendHandler) GetTemporalPatterns(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := currentSnapshot(w, r, h.service)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, snapshot.TemporalPatterns)
}

// currentSnapshot fetches the latest snapshot, writing the error response
// itself when none is available yet
func currentSnapshot(w http.ResponseWriter, r *http.Request, service analysis.Service) (*analysis.Snapshot, bool) {
	snapshot, err := service.CurrentSnapshot(r.Context())
	if err != nil {
		if errors.Is(err, analysis.ErrNotReady) {
			respondWithError(w, http.StatusServiceUnavailable, "Analysis not ready yet", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get snapshot", err)
		}
		return nil, false
	}
	return snapshot, true
}

// queryInt parses an integer query parameter, falling back to a default
func queryInt(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses. Underlying errors stay out of the body.
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}

// internal/server/handlers/analytics.go

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"trendminer/internal/service/analytics"
)

// AnalyticsHandler handles corpus analytics HTTP requests
type AnalyticsHandler struct {
	analytics *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analyticsService,
	}
}

// GetDashboard returns the corpus summary counters
func (h *AnalyticsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.analytics.Dashboard())
}

// GetTopicTrends returns emerging, declining, peaking and active topics plus
// the configured topic timelines
func (h *AnalyticsHandler) GetTopicTrends(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.analytics.TopicTrends())
}

// GetPlatformComparison returns per-platform daily activity for a topic.
// Optional start and end parameters take YYYY-MM-DD dates; the end day is
// inclusive.
func (h *AnalyticsHandler) GetPlatformComparison(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		respondWithError(w, http.StatusBadRequest, "Missing topic parameter", nil)
		return
	}

	var start, end time.Time
	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid start date", err)
			return
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid end date", err)
			return
		}
		end = parsed
	}

	respondWithJSON(w, http.StatusOK, h.analytics.PlatformComparison(topic, start, end))
}

// GetTopicTimeSeries returns daily mention counts for one topic
func (h *AnalyticsHandler) GetTopicTimeSeries(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	if topic == "" {
		respondWithError(w, http.StatusBadRequest, "Missing topic", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, h.analytics.TopicTimeSeries(topic))
}

// GetFeed returns posts ranked by relevance to the given interests
func (h *AnalyticsHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	interests := r.URL.Query().Get("interests")
	region := r.URL.Query().Get("region")
	limit := queryInt(r, "limit", 0)

	respondWithJSON(w, http.StatusOK, h.analytics.Feed(interests, region, limit))
}

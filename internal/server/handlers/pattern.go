// internal/server/handlers/pattern.go

package handlers

import (
	"net/http"

	"trendminer/internal/domain/analysis"
	"trendminer/internal/service/analytics"
)

// PatternHandler handles mined-pattern HTTP requests. Rule, itemset and
// sequence endpoints read the current snapshot; the graph and cross-platform
// endpoints are computed from the live corpus.
type PatternHandler struct {
	service   analysis.Service
	analytics *analytics.Service
}

// NewPatternHandler creates a new pattern handler
func NewPatternHandler(service analysis.Service, analyticsService *analytics.Service) *PatternHandler {
	return &PatternHandler{
		service:   service,
		analytics: analyticsService,
	}
}

// GetAssociationRules returns the mined association rules
func (h *PatternHandler) GetAssociationRules(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := currentSnapshot(w, r, h.service)
	if !ok {
		return
	}

	rules := snapshot.AssociationRules
	if limit := queryInt(r, "limit", 0); limit > 0 && len(rules) > limit {
		rules = rules[:limit]
	}

	respondWithJSON(w, http.StatusOK, rules)
}

// GetItemsets returns the mined frequent itemsets
func (h *PatternHandler) GetItemsets(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := currentSnapshot(w, r, h.service)
	if !ok {
		return
	}

	itemsets := snapshot.Itemsets
	if limit := queryInt(r, "limit", 0); limit > 0 && len(itemsets) > limit {
		itemsets = itemsets[:limit]
	}

	respondWithJSON(w, http.StatusOK, itemsets)
}

// GetSequentialPatterns returns the mined author topic transitions
func (h *PatternHandler) GetSequentialPatterns(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := currentSnapshot(w, r, h.service)
	if !ok {
		return
	}

	sequences := snapshot.SequentialPatterns
	if limit := queryInt(r, "limit", 0); limit > 0 && len(sequences) > limit {
		sequences = sequences[:limit]
	}

	respondWithJSON(w, http.StatusOK, sequences)
}

// GetTopicGraph returns the topic co-occurrence network
func (h *PatternHandler) GetTopicGraph(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.analytics.TopicNetwork())
}

// GetCrossPlatformPatterns returns topic spread across platforms
func (h *PatternHandler) GetCrossPlatformPatterns(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.analytics.CrossPlatformPatterns())
}

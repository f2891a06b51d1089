// internal/server/handlers/snapshot.go

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trendminer/internal/domain/analysis"
)

// SnapshotHandler handles snapshot persistence and refresh HTTP requests
type SnapshotHandler struct {
	service analysis.Service
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(service analysis.Service) *SnapshotHandler {
	return &SnapshotHandler{
		service: service,
	}
}

// ListSnapshots returns metadata for stored snapshots, newest first
func (h *SnapshotHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	metas, err := h.service.ListSnapshots(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list snapshots", err)
		return
	}

	respondWithJSON(w, http.StatusOK, metas)
}

// GetSnapshot returns one stored snapshot by ID
func (h *SnapshotHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing snapshot ID", nil)
		return
	}

	snapshot, err := h.service.GetSnapshot(r.Context(), id)
	if err != nil {
		if errors.Is(err, analysis.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Snapshot not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get snapshot", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, snapshot)
}

// Refresh runs a full analysis immediately and returns the fresh snapshot
func (h *SnapshotHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Refresh(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to refresh analysis", err)
		return
	}

	respondWithJSON(w, http.StatusOK, snapshot)
}

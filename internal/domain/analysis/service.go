// internal/domain/analysis/service.go

package analysis

import (
	"context"
	"errors"
)

// Common errors returned by analysis services and stores
var (
	// ErrNotReady is returned while no snapshot is available to serve yet
	ErrNotReady = errors.New("analysis not ready")

	// ErrNotFound is returned when a requested snapshot does not exist
	ErrNotFound = errors.New("snapshot not found")
)

// Service defines the interface for running and serving corpus analyses
type Service interface {
	// Start begins the periodic analysis process
	Start(ctx context.Context) error

	// Stop gracefully stops the analysis process
	Stop(ctx context.Context) error

	// CurrentSnapshot returns the most recent in-memory snapshot
	CurrentSnapshot(ctx context.Context) (*Snapshot, error)

	// Refresh fetches the corpus and runs a full analysis immediately
	Refresh(ctx context.Context) (*Snapshot, error)

	// GetSnapshot returns a stored snapshot by ID
	GetSnapshot(ctx context.Context, id string) (*Snapshot, error)

	// ListSnapshots returns metadata for stored snapshots, newest first
	ListSnapshots(ctx context.Context, limit int) ([]SnapshotMeta, error)

	// RegisterSnapshotHandler registers a callback for completed snapshots
	RegisterSnapshotHandler(handler func(Snapshot) error) error
}

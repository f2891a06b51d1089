// internal/adapter/storage/snapshot_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trendminer/internal/domain/analysis"
)

// SnapshotStore implements storage for analysis snapshots
type SnapshotStore struct {
	db *pgxpool.Pool
}

// NewSnapshotStore creates a new snapshot store
func NewSnapshotStore(db *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{
		db: db,
	}
}

// EnsureSchema creates the snapshot table if it does not exist yet
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS analysis_snapshots (
			id TEXT PRIMARY KEY,
			generated_at TIMESTAMPTZ NOT NULL,
			post_count INTEGER NOT NULL,
			trends JSONB NOT NULL,
			temporal_patterns JSONB NOT NULL,
			association_rules JSONB NOT NULL,
			itemsets JSONB NOT NULL,
			sequential_patterns JSONB NOT NULL
		)
	`

	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("error creating snapshot table: %w", err)
	}

	return nil
}

// SaveSnapshot saves a snapshot to storage. Snapshots are immutable, so a
// duplicate ID is left untouched.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snapshot analysis.Snapshot) error {
	query := `
		INSERT INTO analysis_snapshots (
			id, generated_at, post_count,
			trends, temporal_patterns, association_rules,
			itemsets, sequential_patterns
		) VALUES (
			$1, $2, $3,
			$4, $5, $6,
			$7, $8
		)
		ON CONFLICT (id) DO NOTHING
	`

	trendsJSON, err := json.Marshal(snapshot.Trends)
	if err != nil {
		return fmt.Errorf("error marshaling trends: %w", err)
	}

	temporalJSON, err := json.Marshal(snapshot.TemporalPatterns)
	if err != nil {
		return fmt.Errorf("error marshaling temporal patterns: %w", err)
	}

	rulesJSON, err := json.Marshal(snapshot.AssociationRules)
	if err != nil {
		return fmt.Errorf("error marshaling association rules: %w", err)
	}

	itemsetsJSON, err := json.Marshal(snapshot.Itemsets)
	if err != nil {
		return fmt.Errorf("error marshaling itemsets: %w", err)
	}

	sequencesJSON, err := json.Marshal(snapshot.SequentialPatterns)
	if err != nil {
		return fmt.Errorf("error marshaling sequential patterns: %w", err)
	}

	_, err = s.db.Exec(
		ctx,
		query,
		snapshot.ID,
		snapshot.GeneratedAt,
		snapshot.PostCount,
		trendsJSON,
		temporalJSON,
		rulesJSON,
		itemsetsJSON,
		sequencesJSON,
	)

	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetSnapshot retrieves a snapshot by ID
func (s *SnapshotStore) GetSnapshot(ctx context.Context, id string) (*analysis.Snapshot, error) {
	query := `
		SELECT
			id, generated_at, post_count,
			trends, temporal_patterns, association_rules,
			itemsets, sequential_patterns
		FROM analysis_snapshots
		WHERE id = $1
	`

	return s.scanSnapshot(s.db.QueryRow(ctx, query, id))
}

// LatestSnapshot retrieves the most recently generated snapshot
func (s *SnapshotStore) LatestSnapshot(ctx context.Context) (*analysis.Snapshot, error) {
	query := `
		SELECT
			id, generated_at, post_count,
			trends, temporal_patterns, association_rules,
			itemsets, sequential_patterns
		FROM analysis_snapshots
		ORDER BY generated_at DESC
		LIMIT 1
	`

	return s.scanSnapshot(s.db.QueryRow(ctx, query))
}

// scanSnapshot hydrates one snapshot row
func (s *SnapshotStore) scanSnapshot(row pgx.Row) (*analysis.Snapshot, error) {
	var snapshot analysis.Snapshot
	var trendsJSON, temporalJSON, rulesJSON, itemsetsJSON, sequencesJSON []byte

	err := row.Scan(
		&snapshot.ID,
		&snapshot.GeneratedAt,
		&snapshot.PostCount,
		&trendsJSON,
		&temporalJSON,
		&rulesJSON,
		&itemsetsJSON,
		&sequencesJSON,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, analysis.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying snapshot: %w", err)
	}

	if err := json.Unmarshal(trendsJSON, &snapshot.Trends); err != nil {
		return nil, fmt.Errorf("error unmarshaling trends: %w", err)
	}

	if err := json.Unmarshal(temporalJSON, &snapshot.TemporalPatterns); err != nil {
		return nil, fmt.Errorf("error unmarshaling temporal patterns: %w", err)
	}

	if err := json.Unmarshal(rulesJSON, &snapshot.AssociationRules); err != nil {
		return nil, fmt.Errorf("error unmarshaling association rules: %w", err)
	}

	if err := json.Unmarshal(itemsetsJSON, &snapshot.Itemsets); err != nil {
		return nil, fmt.Errorf("error unmarshaling itemsets: %w", err)
	}

	if err := json.Unmarshal(sequencesJSON, &snapshot.SequentialPatterns); err != nil {
		return nil, fmt.Errorf("error unmarshaling sequential patterns: %w", err)
	}

	return &snapshot, nil
}

// ListSnapshots returns metadata for stored snapshots, newest first
func (s *SnapshotStore) ListSnapshots(ctx context.Context, limit int) ([]analysis.SnapshotMeta, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, generated_at, post_count
		FROM analysis_snapshots
		ORDER BY generated_at DESC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var metas []analysis.SnapshotMeta
	for rows.Next() {
		var meta analysis.SnapshotMeta

		if err := rows.Scan(&meta.ID, &meta.GeneratedAt, &meta.PostCount); err != nil {
			return nil, fmt.Errorf("error scanning snapshot metadata: %w", err)
		}

		metas = append(metas, meta)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return metas, nil
}

package analysis

import (
	"time"

	"trendminer/internal/domain/pattern"
	"trendminer/internal/domain/trend"
)

// Snapshot is one complete analysis of the corpus. It is immutable once
// built; a refresh always produces a new snapshot rather than mutating the
// previous one.
type Snapshot struct {
	ID                 string                      `json:"id"`
	GeneratedAt        time.Time                   `json:"generated_at"`
	PostCount          int                         `json:"post_count"`
	Trends             []trend.RankedTrend         `json:"trends"`
	TemporalPatterns   []trend.TemporalPattern     `json:"temporal_patterns"`
	AssociationRules   []pattern.AssociationRule   `json:"association_rules"`
	Itemsets           []pattern.FrequentItemset   `json:"itemsets"`
	SequentialPatterns []pattern.SequentialPattern `json:"sequential_patterns"`
}

// SnapshotMeta is the lightweight listing view of a stored snapshot
type SnapshotMeta struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	PostCount   int       `json:"post_count"`
}

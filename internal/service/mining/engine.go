// internal/service/mining/engine.go

package mining

import (
	"context"
	"log/slog"
	"time"

	"trendminer/internal/domain/analysis"
	"trendminer/internal/domain/pattern"
	"trendminer/internal/domain/post"
	"trendminer/internal/domain/trend"
)

// EngineConfig contains configuration for the analysis engine
type EngineConfig struct {
	// KeywordVocabulary is matched as substrings of post content when
	// extracting trend keys
	KeywordVocabulary []string

	// PeriodLength is the bucket width for trend and growth accumulation
	PeriodLength time.Duration

	// TemporalMinEngagement is the raw engagement floor for temporal analysis
	TemporalMinEngagement int

	// RankedMinEngagement is the raw engagement floor for ranked trends
	RankedMinEngagement int

	// MinTrendMembers discards trends with fewer member posts
	MinTrendMembers int

	MinPairCount     int
	MinItemsetCount  int
	MinSequenceCount int

	MaxTemporalPatterns int
	MaxTrends           int
	MaxRules            int
	MaxItemsets         int
	MaxSequences        int

	// Workers is the partition count for the concurrent counting phases
	Workers int
}

// Engine runs the full analysis over a post corpus. It is a pure transform:
// the same posts and reference time always produce the same results.
type Engine struct {
	config    EngineConfig
	extractor *ItemExtractor
	logger    *slog.Logger
}

// NewEngine creates an analysis engine
func NewEngine(config EngineConfig, logger *slog.Logger) *Engine {
	return &Engine{
		config:    config,
		extractor: NewItemExtractor(config.KeywordVocabulary),
		logger:    logger,
	}
}

// Analyze runs every miner over the corpus and assembles a snapshot. Records
// missing an id, topic or timestamp are skipped; an empty corpus produces a
// structurally complete snapshot with empty collections.
func (e *Engine) Analyze(ctx context.Context, posts []post.Post, now time.Time) (*analysis.Snapshot, error) {
	eligible := make([]post.Post, 0, len(posts))
	for _, p := range posts {
		if p.Eligible() {
			eligible = append(eligible, p)
		}
	}
	if skipped := len(posts) - len(eligible); skipped > 0 {
		e.logger.Debug("skipped ineligible records", "count", skipped)
	}

	// Collections start empty rather than nil so even an empty corpus
	// serializes as a structurally complete snapshot
	snapshot := &analysis.Snapshot{
		GeneratedAt:        now,
		PostCount:          len(eligible),
		Trends:             []trend.RankedTrend{},
		TemporalPatterns:   []trend.TemporalPattern{},
		AssociationRules:   []pattern.AssociationRule{},
		Itemsets:           []pattern.FrequentItemset{},
		SequentialPatterns: []pattern.SequentialPattern{},
	}

	if len(eligible) == 0 {
		return snapshot, nil
	}

	platforms := make(map[string]struct{})
	topics := make(map[string]struct{})
	for _, p := range eligible {
		platforms[p.Platform] = struct{}{}
		topics[p.Topic] = struct{}{}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rankedTrends := BuildTrends(eligible, e.extractor, AggregatorConfig{
		MinEngagement: e.config.RankedMinEngagement,
		PeriodLength:  e.config.PeriodLength,
		MinMembers:    e.config.MinTrendMembers,
		Workers:       e.config.Workers,
	})
	snapshot.Trends = ScoreTrends(rankedTrends, len(eligible), len(platforms), len(topics), now, e.config.MaxTrends)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	temporalTrends := BuildTrends(eligible, e.extractor, AggregatorConfig{
		MinEngagement: e.config.TemporalMinEngagement,
		PeriodLength:  e.config.PeriodLength,
		MinMembers:    e.config.MinTrendMembers,
		Workers:       e.config.Workers,
	})
	snapshot.TemporalPatterns = ClassifyTrends(temporalTrends, e.config.MaxTemporalPatterns)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot.AssociationRules = MineAssociations(eligible, e.extractor, AssociationConfig{
		MinCount:     e.config.MinPairCount,
		PeriodLength: e.config.PeriodLength,
		MaxRules:     e.config.MaxRules,
		Workers:      e.config.Workers,
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot.Itemsets = MineItemsets(eligible, e.extractor, ItemsetConfig{
		MinCount:    e.config.MinItemsetCount,
		MaxItemsets: e.config.MaxItemsets,
		MaxPerTopic: 2,
		Workers:     e.config.Workers,
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot.SequentialPatterns = MineSequences(eligible, SequenceConfig{
		MinCount:     e.config.MinSequenceCount,
		MaxSequences: e.config.MaxSequences,
	})

	e.logger.Debug("analysis complete",
		"posts", len(eligible),
		"trends", len(snapshot.Trends),
		"temporal_patterns", len(snapshot.TemporalPatterns),
		"rules", len(snapshot.AssociationRules),
		"itemsets", len(snapshot.Itemsets),
		"sequences", len(snapshot.SequentialPatterns),
	)

	return snapshot, nil
}

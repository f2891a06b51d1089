package trend

import (
	"trendminer/internal/domain/post"
)

// GrowthPattern classifies how a trend's engagement moves across periods
type GrowthPattern string

const (
	PatternEmerging  GrowthPattern = "emerging"
	PatternDeclining GrowthPattern = "declining"
	PatternSustained GrowthPattern = "sustained"
	PatternCyclical  GrowthPattern = "cyclical"
)

// Trend accumulates every post that mentioned a key. Members are deduplicated
// by post id and kept in chronological order; derived metrics are computed on
// demand rather than stored.
type Trend struct {
	Key        string          `json:"key"`
	Posts      []post.Post     `json:"-"`
	Engagement int64           `json:"total_engagement"`
	Periods    map[int64]int64 `json:"-"`
	Topics     []string        `json:"topics"`
	Platforms  []string        `json:"platforms"`
}

// RankedTrend is a trend with its composite score and sub-scores, ready for output
type RankedTrend struct {
	Key             string   `json:"key"`
	PostCount       int      `json:"post_count"`
	TotalEngagement int64    `json:"total_engagement"`
	Topics          []string `json:"topics"`
	Platforms       []string `json:"platforms"`
	Support         float64  `json:"support"`
	Velocity        float64  `json:"velocity"`
	Momentum        float64  `json:"momentum"`
	EngagementScore float64  `json:"engagement_score"`
	DiversityScore  float64  `json:"diversity_score"`
	RecencyScore    float64  `json:"recency_score"`
	CompositeScore  float64  `json:"composite_score"`
}

// TemporalPattern describes how a trend's per-period engagement evolved
type TemporalPattern struct {
	Key             string        `json:"key"`
	Pattern         GrowthPattern `json:"pattern"`
	GrowthRates     []float64     `json:"growth_rates"`
	Velocity        float64       `json:"velocity"`
	Peak            string        `json:"peak"`
	TotalEngagement int64         `json:"total_engagement"`
}

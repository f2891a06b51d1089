package pattern

import (
	"trendminer/internal/domain/post"
)

// Direction labels which way an association rule is moving
type Direction string

const (
	DirectionRisingFast Direction = "Rising Fast"
	DirectionGrowing    Direction = "Growing"
	DirectionStable     Direction = "Stable"
	DirectionDeclining  Direction = "Declining"
	DirectionFading     Direction = "Fading"
)

// AssociationRule is a co-occurring item pair mined from the corpus. Items are
// kept in lexicographic order so every pair has exactly one identity.
type AssociationRule struct {
	Items        []string    `json:"items"`
	Description  string      `json:"description"`
	Count        int         `json:"occurrence_count"`
	Popularity   int         `json:"popularity_score"`
	GrowthRate   float64     `json:"growth_rate"`
	Direction    Direction   `json:"trend_direction"`
	Platforms    []string    `json:"platforms"`
	PrimaryTopic string      `json:"primary_topic"`
	Examples     []post.Post `json:"examples"`
}

// FrequentItemset is a full item combination that recurs across posts
type FrequentItemset struct {
	Items        []string `json:"items"`
	Count        int      `json:"occurrence_count"`
	Popularity   int      `json:"popularity_score"`
	PrimaryTopic string   `json:"primary_topic"`
}

// SequentialPattern is a directed topic transition observed across authors
type SequentialPattern struct {
	Sequence    []string `json:"sequence"`
	FromTopic   string   `json:"from_topic"`
	ToTopic     string   `json:"to_topic"`
	Count       int      `json:"occurrence_count"`
	Strength    int      `json:"pattern_strength"`
	AvgDuration string   `json:"avg_duration"`
}

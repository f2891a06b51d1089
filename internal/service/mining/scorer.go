// internal/service/mining/scorer.go

package mining

import (
	"math"
	"sort"
	"time"

	"trendminer/internal/domain/post"
	"trendminer/internal/domain/trend"
)

// ScoreTrends ranks trends by a composite of six sub-scores computed against
// the corpus size, the corpus-wide platform and topic counts, and a reference
// time. Passing the reference time in keeps runs reproducible.
func ScoreTrends(trends []trend.Trend, corpusSize, maxPlatforms, maxTopics int, now time.Time, limit int) []trend.RankedTrend {
	if corpusSize == 0 {
		return nil
	}

	ranked := make([]trend.RankedTrend, 0, len(trends))
	for _, t := range trends {
		support := float64(len(t.Posts)) / float64(corpusSize)
		velocity := velocityScore(t, now)
		momentum := momentumScore(t)
		engagement := engagementScore(t)
		diversity := diversityScore(t, maxPlatforms, maxTopics)
		recency := recencyScore(t, now)

		ranked = append(ranked, trend.RankedTrend{
			Key:             t.Key,
			PostCount:       len(t.Posts),
			TotalEngagement: t.Engagement,
			Topics:          t.Topics,
			Platforms:       t.Platforms,
			Support:         round2(support),
			Velocity:        round2(velocity),
			Momentum:        round2(momentum),
			EngagementScore: round2(engagement),
			DiversityScore:  round2(diversity),
			RecencyScore:    round2(recency),
			CompositeScore:  round2(compositeScore(support, velocity, momentum, engagement, diversity, recency)),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CompositeScore == ranked[j].CompositeScore {
			return ranked[i].Key < ranked[j].Key
		}
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}

// compositeScore combines the six sub-scores with fixed weights
func compositeScore(support, velocity, momentum, engagement, diversity, recency float64) float64 {
	return 100*support + 50*velocity + 30*momentum + 40*engagement + 20*diversity + 30*recency
}

// velocityScore compares the member arrival rate of the last 7 days against
// the 23 days before that. With no older activity the recent daily rate
// itself is the velocity.
func velocityScore(t trend.Trend, now time.Time) float64 {
	var recentCount, olderCount int
	for _, p := range t.Posts {
		days := int(math.Floor(now.Sub(p.Timestamp).Hours() / 24))
		switch {
		case days < 7:
			recentCount++
		case days < 30:
			olderCount++
		}
	}

	recentRate := float64(recentCount) / 7
	olderRate := float64(olderCount) / 23

	if olderRate == 0 {
		return recentRate
	}

	return (recentRate - olderRate) / olderRate
}

// momentumScore compares average engagement of the chronologically newer half
// of members against the older half
func momentumScore(t trend.Trend) float64 {
	mid := len(t.Posts) / 2
	olderAvg := meanWeighted(t.Posts[:mid])
	recentAvg := meanWeighted(t.Posts[mid:])

	if olderAvg == 0 {
		return 1
	}

	return (recentAvg - olderAvg) / olderAvg
}

// engagementScore compresses mean weighted engagement onto a log scale
func engagementScore(t trend.Trend) float64 {
	return math.Log10(meanWeighted(t.Posts)+1) / 5
}

// diversityScore measures how broadly a trend spreads across the corpus's
// platforms and topics
func diversityScore(t trend.Trend, maxPlatforms, maxTopics int) float64 {
	var platformShare, topicShare float64
	if maxPlatforms > 0 {
		platformShare = float64(len(t.Platforms)) / float64(maxPlatforms)
	}
	if maxTopics > 0 {
		topicShare = float64(len(t.Topics)) / float64(maxTopics)
	}

	return (platformShare + topicShare) / 2
}

// recencyScore averages an exponential decay with a one week half-scale over
// all member posts
func recencyScore(t trend.Trend, now time.Time) float64 {
	if len(t.Posts) == 0 {
		return 0
	}

	var sum float64
	for _, p := range t.Posts {
		sum += math.Exp(-now.Sub(p.Timestamp).Hours() / 168)
	}

	return sum / float64(len(t.Posts))
}

func meanWeighted(posts []post.Post) float64 {
	if len(posts) == 0 {
		return 0
	}

	var sum int64
	for _, p := range posts {
		sum += int64(p.WeightedEngagement())
	}

	return float64(sum) / float64(len(posts))
}

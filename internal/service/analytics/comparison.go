// internal/service/analytics/comparison.go

package analytics

import (
	"sort"
	"strings"
	"time"
)

// PlatformDaily is one platform's activity on one day
type PlatformDaily struct {
	Date          string  `json:"date"`
	Mentions      int     `json:"mentions"`
	EngagementSum int     `json:"engagement_sum"`
	AvgSentiment  float64 `json:"avg_sentiment"`
}

// PlatformComparison breaks a topic's activity down per platform and day,
// with raw engagement totals and mean sentiment. An empty topic compares the
// whole corpus; zero start or end times leave that side unbounded, and the
// end day is included in full.
func (s *Service) PlatformComparison(topic string, start, end time.Time) map[string][]PlatformDaily {
	type bucket struct {
		mentions   int
		engagement int
		sentiment  float64
	}

	buckets := make(map[string]map[string]*bucket)
	for _, p := range s.corpus.CurrentPosts() {
		if p.Platform == "" || p.Timestamp.IsZero() {
			continue
		}
		if topic != "" && !strings.EqualFold(p.Topic, topic) {
			continue
		}
		if !start.IsZero() && p.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && !p.Timestamp.Before(end.Add(24*time.Hour)) {
			continue
		}

		days, ok := buckets[p.Platform]
		if !ok {
			days = make(map[string]*bucket)
			buckets[p.Platform] = days
		}
		day := dayKey(p.Timestamp)
		b, ok := days[day]
		if !ok {
			b = &bucket{}
			days[day] = b
		}

		b.mentions++
		b.engagement += p.RawEngagement()
		b.sentiment += sentimentScore(p.Sentiment)
	}

	result := make(map[string][]PlatformDaily, len(buckets))
	for platform, days := range buckets {
		series := make([]PlatformDaily, 0, len(days))
		for day, b := range days {
			series = append(series, PlatformDaily{
				Date:          day,
				Mentions:      b.mentions,
				EngagementSum: b.engagement,
				AvgSentiment:  round2(b.sentiment / float64(b.mentions)),
			})
		}
		sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
		result[platform] = series
	}

	return result
}

// TopicTimeSeries returns daily mention counts for one topic across the whole
// corpus
func (s *Service) TopicTimeSeries(topic string) []DailyCount {
	days := make(map[string]int)
	for _, p := range s.corpus.CurrentPosts() {
		if p.Timestamp.IsZero() || !strings.EqualFold(p.Topic, topic) {
			continue
		}
		days[dayKey(p.Timestamp)]++
	}

	return dailySeries(days)
}

// sentimentScore maps a sentiment label onto a numeric value, with unknown
// labels counting as neutral
func sentimentScore(label string) float64 {
	switch label {
	case "Positive":
		return 1
	case "Negative":
		return -1
	default:
		return 0
	}
}

// internal/service/analytics/trends.go

package analytics

import (
	"sort"
	"time"
)

// EmergingTopic is a topic whose recent mention volume clearly outgrew its
// starting volume
type EmergingTopic struct {
	Topic       string  `json:"topic"`
	GrowthRate  float64 `json:"growth_rate"`
	AvgMentions float64 `json:"avg_mentions"`
}

// DecliningTopic is a topic whose mention volume fell away from a real base
type DecliningTopic struct {
	Topic       string  `json:"topic"`
	DeclineRate float64 `json:"decline_rate"`
	AvgMentions float64 `json:"avg_mentions"`
}

// PeakTopic is a topic holding steady above the corpus's 75th percentile
type PeakTopic struct {
	Topic       string  `json:"topic"`
	AvgMentions float64 `json:"avg_mentions"`
}

// ActiveTopic is a topic seen inside the active window without a stronger
// classification
type ActiveTopic struct {
	Topic            string `json:"topic"`
	LastMentionCount int    `json:"last_mention_count"`
}

// TrendTimeline charts daily mention counts for a fixed set of topics
type TrendTimeline struct {
	Categories []string                `json:"categories"`
	Series     map[string][]DailyCount `json:"series"`
}

// TopicTrendSummary buckets every topic in the trend window into one of four
// categories
type TopicTrendSummary struct {
	EmergingTopics  []EmergingTopic  `json:"emerging_topics"`
	DecliningTopics []DecliningTopic `json:"declining_topics"`
	PeakTopics      []PeakTopic      `json:"peak_topics"`
	ActiveTopics    []ActiveTopic    `json:"active_topics"`
	Timeline        TrendTimeline    `json:"trend_timeline"`
}

// TopicTrends classifies topics by comparing average daily mentions in the
// last third of the trend window against the first third. Topics with under
// five distinct days of data only qualify as active.
func (s *Service) TopicTrends() TopicTrendSummary {
	summary := TopicTrendSummary{
		EmergingTopics:  []EmergingTopic{},
		DecliningTopics: []DecliningTopic{},
		PeakTopics:      []PeakTopic{},
		ActiveTopics:    []ActiveTopic{},
		Timeline: TrendTimeline{
			Categories: s.config.TimelineTopics,
			Series:     make(map[string][]DailyCount),
		},
	}
	for _, topic := range s.config.TimelineTopics {
		summary.Timeline.Series[topic] = []DailyCount{}
	}

	now := time.Now().UTC()
	cutoff := now.Add(-s.config.TrendWindow)

	daily := make(map[string]map[string]int)
	for _, p := range s.corpus.CurrentPosts() {
		if p.Topic == "" || p.Timestamp.IsZero() || p.Timestamp.Before(cutoff) {
			continue
		}
		days, ok := daily[p.Topic]
		if !ok {
			days = make(map[string]int)
			daily[p.Topic] = days
		}
		days[dayKey(p.Timestamp)]++
	}
	if len(daily) == 0 {
		return summary
	}

	// The peak threshold compares against every topic-day volume in the window
	var allMentions []float64
	for _, days := range daily {
		for _, count := range days {
			allMentions = append(allMentions, float64(count))
		}
	}
	p75 := percentile(allMentions, 75)

	activeDays := int(s.config.ActiveWindow.Hours() / 24)

	topics := make([]string, 0, len(daily))
	for topic := range daily {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	for _, topic := range topics {
		series := dailySeries(daily[topic])
		mentions := make([]float64, len(series))
		for i, dc := range series {
			mentions[i] = float64(dc.Count)
		}

		lastDay, err := time.Parse("2006-01-02", series[len(series)-1].Date)
		if err != nil {
			s.logger.Warn("skipping topic with malformed day bucket", "topic", topic, "error", err)
			continue
		}
		activeRecently := int(now.Sub(lastDay).Hours()/24) <= activeDays

		if len(mentions) < 5 {
			if activeRecently {
				summary.ActiveTopics = append(summary.ActiveTopics, ActiveTopic{
					Topic:            topic,
					LastMentionCount: series[len(series)-1].Count,
				})
			}
			continue
		}

		third := len(mentions) / 3
		if third < 1 {
			third = 1
		}
		avgFirst := mean(mentions[:third])
		avgLast := mean(mentions[len(mentions)-third:])

		growth := avgLast + 1
		if avgFirst > 0 {
			growth = avgLast / avgFirst
		}
		avgMentions := mean(mentions)

		switch {
		case growth > 1.8 && avgLast > 5 && activeRecently:
			summary.EmergingTopics = append(summary.EmergingTopics, EmergingTopic{
				Topic:       topic,
				GrowthRate:  round2(growth),
				AvgMentions: round1(avgMentions),
			})
		case growth < 0.6 && avgFirst > 5:
			summary.DecliningTopics = append(summary.DecliningTopics, DecliningTopic{
				Topic:       topic,
				DeclineRate: round2(growth),
				AvgMentions: round1(avgMentions),
			})
		case growth >= 0.8 && growth <= 1.2 && avgMentions > p75 && activeRecently:
			summary.PeakTopics = append(summary.PeakTopics, PeakTopic{
				Topic:       topic,
				AvgMentions: round1(avgMentions),
			})
		case activeRecently:
			summary.ActiveTopics = append(summary.ActiveTopics, ActiveTopic{
				Topic:            topic,
				LastMentionCount: series[len(series)-1].Count,
			})
		}
	}

	for _, topic := range s.config.TimelineTopics {
		if days, ok := daily[topic]; ok {
			summary.Timeline.Series[topic] = dailySeries(days)
		}
	}

	sort.Slice(summary.EmergingTopics, func(i, j int) bool {
		if summary.EmergingTopics[i].GrowthRate == summary.EmergingTopics[j].GrowthRate {
			return summary.EmergingTopics[i].Topic < summary.EmergingTopics[j].Topic
		}
		return summary.EmergingTopics[i].GrowthRate > summary.EmergingTopics[j].GrowthRate
	})
	sort.Slice(summary.DecliningTopics, func(i, j int) bool {
		if summary.DecliningTopics[i].DeclineRate == summary.DecliningTopics[j].DeclineRate {
			return summary.DecliningTopics[i].Topic < summary.DecliningTopics[j].Topic
		}
		return summary.DecliningTopics[i].DeclineRate < summary.DecliningTopics[j].DeclineRate
	})
	sort.Slice(summary.PeakTopics, func(i, j int) bool {
		if summary.PeakTopics[i].AvgMentions == summary.PeakTopics[j].AvgMentions {
			return summary.PeakTopics[i].Topic < summary.PeakTopics[j].Topic
		}
		return summary.PeakTopics[i].AvgMentions > summary.PeakTopics[j].AvgMentions
	})
	sort.Slice(summary.ActiveTopics, func(i, j int) bool {
		if summary.ActiveTopics[i].LastMentionCount == summary.ActiveTopics[j].LastMentionCount {
			return summary.ActiveTopics[i].Topic < summary.ActiveTopics[j].Topic
		}
		return summary.ActiveTopics[i].LastMentionCount > summary.ActiveTopics[j].LastMentionCount
	})

	return summary
}

// internal/service/analytics/crossplatform.go

package analytics

import "sort"

// CrossPlatformPattern describes how one topic's volume spreads across
// platforms
type CrossPlatformPattern struct {
	Topic             string         `json:"topic"`
	LeadingPlatform   string         `json:"leading_platform"`
	PlatformCount     int            `json:"platform_count"`
	Dominance         float64        `json:"dominance_percentage"`
	PatternType       string         `json:"pattern_type"`
	TotalPosts        int            `json:"total_posts"`
	PlatformBreakdown map[string]int `json:"platform_breakdown"`
}

// CrossPlatformPatterns classifies every topic seen on at least two platforms
// by how much its leading platform dominates, keeping the fifteen largest by
// post volume
func (s *Service) CrossPlatformPatterns() []CrossPlatformPattern {
	counts := make(map[string]map[string]int)
	for _, p := range s.corpus.CurrentPosts() {
		if p.Topic == "" || p.Platform == "" {
			continue
		}
		platforms, ok := counts[p.Topic]
		if !ok {
			platforms = make(map[string]int)
			counts[p.Topic] = platforms
		}
		platforms[p.Platform]++
	}

	patterns := make([]CrossPlatformPattern, 0, len(counts))
	for topic, platforms := range counts {
		if len(platforms) < 2 {
			continue
		}

		total := 0
		leading := ""
		leadingCount := -1
		for platform, count := range platforms {
			total += count
			if count > leadingCount || (count == leadingCount && platform < leading) {
				leading = platform
				leadingCount = count
			}
		}

		dominance := round1(float64(leadingCount) / float64(total) * 100)

		patternType := "Balanced"
		switch {
		case dominance > 70:
			patternType = "Platform-Specific"
		case dominance > 50:
			patternType = "Platform-Dominant"
		case len(platforms) >= 3:
			patternType = "Multi-Platform"
		}

		patterns = append(patterns, CrossPlatformPattern{
			Topic:             topic,
			LeadingPlatform:   leading,
			PlatformCount:     len(platforms),
			Dominance:         dominance,
			PatternType:       patternType,
			TotalPosts:        total,
			PlatformBreakdown: platforms,
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].TotalPosts == patterns[j].TotalPosts {
			return patterns[i].Topic < patterns[j].Topic
		}
		return patterns[i].TotalPosts > patterns[j].TotalPosts
	})
	if len(patterns) > 15 {
		patterns = patterns[:15]
	}

	return patterns
}

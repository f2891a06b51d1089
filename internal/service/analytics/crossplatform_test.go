package analytics

import (
	"fmt"
	"testing"
	"time"

	"trendminer/internal/domain/post"
)

func TestCrossPlatformPatterns(t *testing.T) {
	t.Parallel()

	var posts []post.Post
	add := func(topic, platform string, n int) {
		for i := 0; i < n; i++ {
			posts = append(posts, post.Post{
				ID:        fmt.Sprintf("%s-%s-%d", topic, platform, i),
				Platform:  platform,
				Topic:     topic,
				Timestamp: time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC),
			})
		}
	}

	add("Alpha", "Twitter", 8)
	add("Alpha", "Reddit", 2)
	add("Beta", "Twitter", 6)
	add("Beta", "Reddit", 4)
	add("Gamma", "Twitter", 4)
	add("Gamma", "Reddit", 3)
	add("Gamma", "Facebook", 3)
	add("Delta", "Twitter", 4)
	add("Delta", "Reddit", 4)
	add("Solo", "Twitter", 9)

	patterns := testService(posts).CrossPlatformPatterns()

	if len(patterns) != 4 {
		t.Fatalf("expected 4 patterns, got %+v", patterns)
	}

	byTopic := make(map[string]CrossPlatformPattern)
	for _, p := range patterns {
		byTopic[p.Topic] = p
	}

	if _, ok := byTopic["Solo"]; ok {
		t.Fatal("single-platform topic must not appear")
	}

	alpha := byTopic["Alpha"]
	if alpha.PatternType != "Platform-Specific" || alpha.Dominance != 80 || alpha.LeadingPlatform != "Twitter" {
		t.Fatalf("unexpected Alpha pattern %+v", alpha)
	}

	beta := byTopic["Beta"]
	if beta.PatternType != "Platform-Dominant" || beta.Dominance != 60 {
		t.Fatalf("unexpected Beta pattern %+v", beta)
	}

	gamma := byTopic["Gamma"]
	if gamma.PatternType != "Multi-Platform" || gamma.PlatformCount != 3 {
		t.Fatalf("unexpected Gamma pattern %+v", gamma)
	}

	delta := byTopic["Delta"]
	if delta.PatternType != "Balanced" || delta.Dominance != 50 {
		t.Fatalf("unexpected Delta pattern %+v", delta)
	}

	// Ten post topics outrank the eight post one, ties on the topic name
	if patterns[len(patterns)-1].Topic != "Delta" {
		t.Fatalf("expected Delta last by volume, got %+v", patterns)
	}
	if patterns[0].Topic != "Alpha" {
		t.Fatalf("expected Alpha first on the tie, got %+v", patterns)
	}
}

func TestCrossPlatformPatternsEmptyCorpus(t *testing.T) {
	t.Parallel()

	patterns := testService(nil).CrossPlatformPatterns()
	if patterns == nil || len(patterns) != 0 {
		t.Fatalf("expected empty list, got %+v", patterns)
	}
}

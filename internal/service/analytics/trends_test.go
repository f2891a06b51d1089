package analytics

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"trendminer/internal/domain/post"
)

// dailyPosts spreads counts over consecutive days ending yesterday, so
// counts[len-1] lands one day ago
func dailyPosts(topic string, counts []int) []post.Post {
	now := time.Now().UTC()
	var posts []post.Post
	for i, count := range counts {
		day := now.AddDate(0, 0, -(len(counts) - i))
		for n := 0; n < count; n++ {
			posts = append(posts, post.Post{
				ID:        fmt.Sprintf("%s-%d-%d", topic, i, n),
				Platform:  "Twitter",
				Topic:     topic,
				Timestamp: day,
			})
		}
	}
	return posts
}

func TestTopicTrends(t *testing.T) {
	t.Parallel()

	var posts []post.Post
	posts = append(posts, dailyPosts("Hot", []int{2, 2, 8, 8, 8, 8})...)
	posts = append(posts, dailyPosts("Cold", []int{8, 8, 1, 1, 1, 1})...)
	posts = append(posts, dailyPosts("Peak", []int{9, 9, 10, 10, 9, 9})...)
	posts = append(posts, dailyPosts("Sparse", []int{1, 1})...)
	posts = append(posts, post.Post{
		ID: "gone", Platform: "Twitter", Topic: "Gone",
		Timestamp: time.Now().UTC().AddDate(0, 0, -200),
	})

	svc := NewService(
		&staticCorpus{posts: posts, at: time.Now().UTC()},
		Config{TimelineTopics: []string{"Hot", "Missing"}},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	summary := svc.TopicTrends()

	if len(summary.EmergingTopics) != 1 {
		t.Fatalf("expected 1 emerging topic, got %+v", summary.EmergingTopics)
	}
	emerging := summary.EmergingTopics[0]
	if emerging.Topic != "Hot" || emerging.GrowthRate != 4.0 || emerging.AvgMentions != 6.0 {
		t.Fatalf("unexpected emerging entry %+v", emerging)
	}

	if len(summary.DecliningTopics) != 1 {
		t.Fatalf("expected 1 declining topic, got %+v", summary.DecliningTopics)
	}
	declining := summary.DecliningTopics[0]
	if declining.Topic != "Cold" || declining.DeclineRate != 0.13 || declining.AvgMentions != 3.3 {
		t.Fatalf("unexpected declining entry %+v", declining)
	}

	if len(summary.PeakTopics) != 1 {
		t.Fatalf("expected 1 peak topic, got %+v", summary.PeakTopics)
	}
	peak := summary.PeakTopics[0]
	if peak.Topic != "Peak" || peak.AvgMentions != 9.3 {
		t.Fatalf("unexpected peak entry %+v", peak)
	}

	if len(summary.ActiveTopics) != 1 {
		t.Fatalf("expected 1 active topic, got %+v", summary.ActiveTopics)
	}
	active := summary.ActiveTopics[0]
	if active.Topic != "Sparse" || active.LastMentionCount != 1 {
		t.Fatalf("unexpected active entry %+v", active)
	}

	// The 200 day old topic sits outside the trend window entirely
	for _, a := range summary.ActiveTopics {
		if a.Topic == "Gone" {
			t.Fatal("expected Gone excluded from the window")
		}
	}

	if len(summary.Timeline.Categories) != 2 {
		t.Fatalf("unexpected timeline categories %v", summary.Timeline.Categories)
	}
	hotSeries := summary.Timeline.Series["Hot"]
	if len(hotSeries) != 6 {
		t.Fatalf("expected 6 timeline days for Hot, got %d", len(hotSeries))
	}
	for i := 1; i < len(hotSeries); i++ {
		if hotSeries[i-1].Date >= hotSeries[i].Date {
			t.Fatalf("timeline not date ordered: %+v", hotSeries)
		}
	}
	if missing, ok := summary.Timeline.Series["Missing"]; !ok || missing == nil || len(missing) != 0 {
		t.Fatalf("expected empty series for Missing, got %+v", missing)
	}
}

func TestTopicTrendsEmptyCorpus(t *testing.T) {
	t.Parallel()

	summary := testService(nil).TopicTrends()
	if len(summary.EmergingTopics) != 0 || len(summary.ActiveTopics) != 0 {
		t.Fatalf("unexpected summary for empty corpus: %+v", summary)
	}
	if summary.EmergingTopics == nil || summary.Timeline.Series == nil {
		t.Fatal("expected structurally complete summary")
	}
}

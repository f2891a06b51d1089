package analytics

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"trendminer/internal/domain/post"
)

type staticCorpus struct {
	posts []post.Post
	at    time.Time
}

func (c *staticCorpus) CurrentPosts() []post.Post { return c.posts }

func (c *staticCorpus) RefreshedAt() time.Time { return c.at }

func testService(posts []post.Post) *Service {
	return NewService(
		&staticCorpus{posts: posts, at: time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)},
		Config{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	posts := []post.Post{
		{ID: "1", Platform: "Twitter", Topic: "Technology", Timestamp: now.Add(-time.Hour)},
		{ID: "2", Platform: "Twitter", Topic: "Sports", Timestamp: now.Add(-10 * 24 * time.Hour)},
		{ID: "3", Platform: "Reddit", Topic: "Politics", Timestamp: now.Add(-60 * 24 * time.Hour)},
	}

	summary := testService(posts).Dashboard()

	if summary.TrackedTopics != 3 {
		t.Fatalf("expected 3 tracked topics, got %d", summary.TrackedTopics)
	}
	if summary.ActiveTopics != 2 {
		t.Fatalf("expected 2 active topics, got %d", summary.ActiveTopics)
	}
	if summary.UpdatedRecently != 1 {
		t.Fatalf("expected 1 recently updated topic, got %d", summary.UpdatedRecently)
	}
	if summary.TotalPosts != 3 {
		t.Fatalf("expected 3 posts, got %d", summary.TotalPosts)
	}
	if summary.PlatformBreakdown["Twitter"] != 2 || summary.PlatformBreakdown["Reddit"] != 1 {
		t.Fatalf("unexpected platform breakdown %v", summary.PlatformBreakdown)
	}
	if summary.RefreshedAt.IsZero() {
		t.Fatal("expected refresh time carried through")
	}
}

func TestDashboardEmptyCorpus(t *testing.T) {
	t.Parallel()

	summary := testService(nil).Dashboard()
	if summary.TrackedTopics != 0 || summary.TotalPosts != 0 {
		t.Fatalf("unexpected summary for empty corpus: %+v", summary)
	}
	if summary.PlatformBreakdown == nil {
		t.Fatal("expected platform breakdown map present")
	}
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 75, 0},
		{"single", []float64{4}, 75, 4},
		{"median", []float64{1, 2, 3, 4, 5}, 50, 3},
		{"interpolated", []float64{1, 2, 3, 4}, 75, 3.25},
		{"top", []float64{1, 2, 3, 4}, 100, 4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := percentile(tt.values, tt.p); got != tt.want {
				t.Fatalf("percentile(%v, %v) = %v, want %v", tt.values, tt.p, got, tt.want)
			}
		})
	}
}

func TestDailySeriesSorted(t *testing.T) {
	t.Parallel()

	series := dailySeries(map[string]int{
		"2024-06-03": 2,
		"2024-06-01": 5,
		"2024-06-02": 1,
	})

	if len(series) != 3 {
		t.Fatalf("expected 3 days, got %d", len(series))
	}
	if series[0].Date != "2024-06-01" || series[2].Date != "2024-06-03" {
		t.Fatalf("series not date ordered: %+v", series)
	}
}

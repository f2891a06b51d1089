package analytics

import (
	"fmt"
	"testing"
	"time"

	"trendminer/internal/domain/post"
)

func TestFeedEmptyInterests(t *testing.T) {
	t.Parallel()

	posts := []post.Post{{ID: "1", Topic: "AI", Timestamp: time.Now().UTC()}}
	result := testService(posts).Feed("", "", 10)

	if result.OverallRelevance != 0 || len(result.Items) != 0 {
		t.Fatalf("expected empty feed without interests, got %+v", result)
	}
}

func TestFeedWholeWordMatching(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	posts := []post.Post{
		{ID: "topical", Topic: "AI", Likes: 10, Timestamp: now.Add(-time.Hour)},
		{ID: "wordy", Topic: "Technology", Content: "discussing ai ethics", Timestamp: now.Add(-time.Hour)},
		{ID: "partial", Topic: "Weather", Content: "the rain in spain", Timestamp: now.Add(-time.Hour)},
	}

	result := testService(posts).Feed("ai", "", 10)
	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result.Items))
	}

	// The engaged topical post leads, the whole-word content match follows,
	// and "rain" must not count as an "ai" hit
	if result.Items[0].Post.ID != "topical" || result.Items[1].Post.ID != "wordy" || result.Items[2].Post.ID != "partial" {
		t.Fatalf("unexpected order: %s, %s, %s", result.Items[0].Post.ID, result.Items[1].Post.ID, result.Items[2].Post.ID)
	}
	if result.Items[0].Relevance != 100 {
		t.Fatalf("expected top item scaled to 100, got %v", result.Items[0].Relevance)
	}
	if result.Items[2].Relevance >= result.Items[1].Relevance {
		t.Fatalf("unmatched post outranked a matched one: %+v", result.Items)
	}
}

func TestFeedRegionFilter(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	posts := []post.Post{
		{ID: "eu", Topic: "AI", Region: "EU", Timestamp: now.Add(-time.Hour)},
		{ID: "us", Topic: "AI", Region: "US", Timestamp: now.Add(-time.Hour)},
	}

	result := testService(posts).Feed("ai", "eu", 10)
	if len(result.Items) != 1 || result.Items[0].Post.ID != "eu" {
		t.Fatalf("expected only the EU post, got %+v", result.Items)
	}
}

func TestFeedFuturePostsGetNoRecency(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	posts := []post.Post{
		{ID: "past", Topic: "AI", Timestamp: now.Add(-time.Hour)},
		{ID: "future", Topic: "AI", Timestamp: now.Add(48 * time.Hour)},
	}

	result := testService(posts).Feed("ai", "", 10)
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].Post.ID != "past" {
		t.Fatalf("expected the past post first, got %q", result.Items[0].Post.ID)
	}
	if result.Items[1].Relevance >= 100 {
		t.Fatalf("expected future post below 100, got %v", result.Items[1].Relevance)
	}
}

func TestFeedSingleMatch(t *testing.T) {
	t.Parallel()

	posts := []post.Post{{ID: "only", Topic: "AI", Likes: 5, Timestamp: time.Now().UTC().Add(-time.Hour)}}

	result := testService(posts).Feed("ai", "", 10)
	if result.OverallRelevance != 100 {
		t.Fatalf("expected overall relevance 100, got %v", result.OverallRelevance)
	}
	if len(result.Items) != 1 || result.Items[0].Relevance != 100 {
		t.Fatalf("unexpected items %+v", result.Items)
	}
}

func TestFeedDefaultLimit(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	var posts []post.Post
	for i := 0; i < 25; i++ {
		posts = append(posts, post.Post{
			ID:        fmt.Sprintf("p-%02d", i),
			Topic:     "AI",
			Likes:     i,
			Timestamp: now.Add(-time.Duration(i) * time.Hour),
		})
	}

	result := testService(posts).Feed("ai", "", 0)
	if len(result.Items) != 20 {
		t.Fatalf("expected default limit of 20, got %d", len(result.Items))
	}
}

func TestSplitInterests(t *testing.T) {
	t.Parallel()

	got := splitInterests(" AI , , Machine Learning ,crypto")
	want := []string{"ai", "machine learning", "crypto"}
	if len(got) != len(want) {
		t.Fatalf("splitInterests = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("splitInterests = %v, want %v", got, want)
		}
	}
}

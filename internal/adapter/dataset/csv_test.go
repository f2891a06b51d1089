// internal/adapter/dataset/csv_test.go

package dataset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testSource(t *testing.T, contents string) *CSVSource {
	t.Helper()

	path := filepath.Join(t.TempDir(), "posts.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	return NewCSVSource(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchPostsParsesRecords(t *testing.T) {
	src := testSource(t, `Post ID,platform,user,content,hashtags,Topic Category,likes_count,shares,comments,sentiment,timestamp,location
p1,Twitter,alice,Launch day,#golang,Technology,10,2,1,Positive,2024-06-03T12:00:00Z,US
p2,Reddit,bob,Match recap,#cricket,Sports,5,0,3,Neutral,2024-06-03 15:30:00,IN
p3,Instagram,carol,,,Music,1,0,0,Positive,2024-06-04,BR
`)

	if src.Name() != "dataset" {
		t.Fatalf("Name() = %q, want dataset", src.Name())
	}

	posts, err := src.FetchPosts(context.Background())
	if err != nil {
		t.Fatalf("FetchPosts: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("got %d posts, want 3", len(posts))
	}

	first := posts[0]
	if first.ID != "p1" || first.Platform != "Twitter" || first.Author != "alice" {
		t.Errorf("unexpected first post identity: %+v", first)
	}
	if first.Topic != "Technology" || first.Region != "US" {
		t.Errorf("aliased columns not resolved: topic %q region %q", first.Topic, first.Region)
	}
	if first.Likes != 10 || first.Shares != 2 || first.Comments != 1 {
		t.Errorf("unexpected engagement counts: %+v", first)
	}
	if first.Content != "Launch day" || first.Hashtags != "#golang" || first.Sentiment != "Positive" {
		t.Errorf("unexpected text fields: %+v", first)
	}

	want := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	if !first.Timestamp.Equal(want) {
		t.Errorf("first timestamp = %v, want %v", first.Timestamp, want)
	}

	second := time.Date(2024, 6, 3, 15, 30, 0, 0, time.UTC)
	if !posts[1].Timestamp.Equal(second) {
		t.Errorf("second timestamp = %v, want %v", posts[1].Timestamp, second)
	}
	third := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)
	if !posts[2].Timestamp.Equal(third) {
		t.Errorf("third timestamp = %v, want %v", posts[2].Timestamp, third)
	}
	for i, p := range posts {
		if p.Timestamp.Location() != time.UTC {
			t.Errorf("post %d timestamp not UTC: %v", i, p.Timestamp)
		}
	}
}

func TestFetchPostsSkipsUnusableRecords(t *testing.T) {
	src := testSource(t, `post_id,topic,timestamp,likes
,Technology,2024-06-03T12:00:00Z,5
p2,  ,2024-06-03T12:00:00Z,5
p3,Technology,yesterday,5
p4,Technology
p5,Technology,2024-06-03T12:00:00Z,5
`)

	posts, err := src.FetchPosts(context.Background())
	if err != nil {
		t.Fatalf("FetchPosts: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
	if posts[0].ID != "p5" {
		t.Errorf("kept post %q, want p5", posts[0].ID)
	}
}

func TestFetchPostsZeroesBadNumbers(t *testing.T) {
	src := testSource(t, `post_id,topic,timestamp,likes,shares,comments
p1,Technology,2024-06-03T12:00:00Z,not-a-number,12.7,
`)

	posts, err := src.FetchPosts(context.Background())
	if err != nil {
		t.Fatalf("FetchPosts: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
	if posts[0].Likes != 0 {
		t.Errorf("Likes = %d, want 0", posts[0].Likes)
	}
	if posts[0].Shares != 12 {
		t.Errorf("Shares = %d, want 12", posts[0].Shares)
	}
	if posts[0].Comments != 0 {
		t.Errorf("Comments = %d, want 0", posts[0].Comments)
	}
}

func TestFetchPostsMissingRequiredColumn(t *testing.T) {
	src := testSource(t, `post_id,topic,likes
p1,Technology,5
`)

	_, err := src.FetchPosts(context.Background())
	if !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("err = %v, want ErrInvalidSchema", err)
	}
}

func TestFetchPostsMalformedFile(t *testing.T) {
	src := testSource(t, `post_id,topic,timestamp
p1,"unterminated,2024-06-03T12:00:00Z
`)

	_, err := src.FetchPosts(context.Background())
	if !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("err = %v, want ErrInvalidSchema", err)
	}
}

func TestFetchPostsMissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := src.FetchPosts(context.Background())
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("missing file reported as schema error: %v", err)
	}
}

func TestFetchPostsCancelledContext(t *testing.T) {
	src := testSource(t, `post_id,topic,timestamp
p1,Technology,2024-06-03T12:00:00Z
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.FetchPosts(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

package mining

import (
	"testing"
	"time"

	"trendminer/internal/domain/post"
)

func seqPost(author, topic string, ts time.Time) post.Post {
	return post.Post{
		ID:        author + "-" + topic + "-" + ts.Format("150405"),
		Platform:  "Twitter",
		Topic:     topic,
		Author:    author,
		Timestamp: ts,
	}
}

func TestTransitionCounts(t *testing.T) {
	t.Parallel()

	posts := []post.Post{
		seqPost("alice", "Technology", testBase),
		seqPost("alice", "Sports", testBase.Add(2*time.Hour)),
		seqPost("alice", "Sports", testBase.Add(3*time.Hour)),
		seqPost("alice", "Politics", testBase.Add(4*time.Hour)),
		seqPost("bob", "Technology", testBase),
		seqPost("bob", "Sports", testBase.Add(6*time.Hour)),
	}

	transitions, authors := transitionCounts(posts)
	if authors != 2 {
		t.Fatalf("expected 2 authors, got %d", authors)
	}

	techSports := transitions[transitionKey{from: "Technology", to: "Sports"}]
	if techSports == nil || techSports.count != 2 {
		t.Fatalf("expected Technology->Sports twice, got %+v", techSports)
	}
	if techSports.totalHours != 8 {
		t.Fatalf("expected 8 total hours, got %v", techSports.totalHours)
	}

	sportsPolitics := transitions[transitionKey{from: "Sports", to: "Politics"}]
	if sportsPolitics == nil || sportsPolitics.count != 1 {
		t.Fatalf("expected Sports->Politics once, got %+v", sportsPolitics)
	}

	if len(transitions) != 2 {
		t.Fatalf("expected 2 transition kinds, got %d", len(transitions))
	}
}

func TestTransitionCountsSameTopic(t *testing.T) {
	t.Parallel()

	posts := []post.Post{
		seqPost("alice", "Technology", testBase),
		seqPost("alice", "Technology", testBase.Add(time.Hour)),
		seqPost("alice", "Technology", testBase.Add(2*time.Hour)),
	}

	transitions, _ := transitionCounts(posts)
	if len(transitions) != 0 {
		t.Fatalf("expected no transitions for a single-topic history, got %d", len(transitions))
	}
}

func TestTransitionCountsSkipsAuthorless(t *testing.T) {
	t.Parallel()

	posts := []post.Post{
		{ID: "1", Topic: "Technology", Timestamp: testBase},
		{ID: "2", Topic: "Sports", Timestamp: testBase.Add(time.Hour)},
	}

	transitions, authors := transitionCounts(posts)
	if authors != 0 || len(transitions) != 0 {
		t.Fatalf("expected authorless posts ignored, got %d authors, %d transitions", authors, len(transitions))
	}
}

func TestMineSequences(t *testing.T) {
	t.Parallel()

	var posts []post.Post
	for _, author := range []string{"alice", "bob", "carol"} {
		posts = append(posts,
			seqPost(author, "Technology", testBase),
			seqPost(author, "Sports", testBase.Add(2*time.Hour)),
		)
	}
	posts = append(posts,
		seqPost("dave", "Sports", testBase),
		seqPost("dave", "Politics", testBase.Add(time.Hour)),
	)

	sequences := MineSequences(posts, SequenceConfig{MinCount: 3, MaxSequences: 15})
	if len(sequences) != 1 {
		t.Fatalf("expected 1 sequence, got %d", len(sequences))
	}

	seq := sequences[0]
	if seq.FromTopic != "Technology" || seq.ToTopic != "Sports" {
		t.Fatalf("unexpected transition %s->%s", seq.FromTopic, seq.ToTopic)
	}
	if seq.Count != 3 {
		t.Fatalf("expected count 3, got %d", seq.Count)
	}
	if seq.AvgDuration != "under 1 day" {
		t.Fatalf("expected duration under 1 day, got %q", seq.AvgDuration)
	}

	// Four authors sit on the floor population of 20
	if seq.Strength != 85 {
		t.Fatalf("expected strength 85, got %d", seq.Strength)
	}
}

func TestMineSequencesOrderingAndCap(t *testing.T) {
	t.Parallel()

	var posts []post.Post
	addPair := func(author, from, to string) {
		posts = append(posts,
			seqPost(author, from, testBase),
			seqPost(author, to, testBase.Add(time.Hour)),
		)
	}

	addPair("a1", "Technology", "Sports")
	addPair("a2", "Technology", "Sports")
	addPair("b1", "Politics", "Business")
	addPair("b2", "Politics", "Business")
	addPair("c1", "Fashion", "Health")

	sequences := MineSequences(posts, SequenceConfig{MinCount: 2, MaxSequences: 1})
	if len(sequences) != 1 {
		t.Fatalf("expected cap of 1, got %d", len(sequences))
	}

	// Equal counts break ties on the from topic
	if sequences[0].FromTopic != "Politics" {
		t.Fatalf("expected Politics->Business first, got %s->%s", sequences[0].FromTopic, sequences[0].ToTopic)
	}
}

func TestPatternStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		count, authors, want int
	}{
		{3, 100, 65},
		{3, 5, 85},
		{1, 500, 23},
	}

	for _, tt := range tests {
		if got := patternStrength(tt.count, tt.authors); got != tt.want {
			t.Fatalf("patternStrength(%d, %d) = %d, want %d", tt.count, tt.authors, got, tt.want)
		}
	}
}

func TestDurationBand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hours float64
		want  string
	}{
		{5, "under 1 day"},
		{23.9, "under 1 day"},
		{24, "1-3 days"},
		{71, "1-3 days"},
		{72, "3-7 days"},
		{167, "3-7 days"},
		{168, "1-2 weeks"},
		{335, "1-2 weeks"},
		{336, "2+ weeks"},
		{1000, "2+ weeks"},
	}

	for _, tt := range tests {
		if got := durationBand(tt.hours); got != tt.want {
			t.Fatalf("durationBand(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

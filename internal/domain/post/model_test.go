package post

import (
	"reflect"
	"testing"
	"time"
)

func TestEligible(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		post Post
		want bool
	}{
		{"complete", Post{ID: "p1", Topic: "Technology", Timestamp: ts}, true},
		{"missing id", Post{Topic: "Technology", Timestamp: ts}, false},
		{"blank topic", Post{ID: "p1", Topic: "   ", Timestamp: ts}, false},
		{"zero timestamp", Post{ID: "p1", Topic: "Technology"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.Eligible(); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngagementFormulas(t *testing.T) {
	p := Post{Likes: 10, Shares: 5, Comments: 3}

	if got := p.RawEngagement(); got != 18 {
		t.Errorf("RawEngagement() = %d, want 18", got)
	}
	if got := p.WeightedEngagement(); got != 29 {
		t.Errorf("WeightedEngagement() = %d, want 29", got)
	}
}

func TestHashtagList(t *testing.T) {
	tests := []struct {
		name     string
		hashtags string
		want     []string
	}{
		{"empty", "", nil},
		{"mixed", "#AI, golang ,#Web3", []string{"AI", "golang", "Web3"}},
		{"blank entries", " , #, ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Post{Hashtags: tt.hashtags}.HashtagList()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("HashtagList() = %v, want %v", got, tt.want)
			}
		})
	}
}

package post

import (
	"strings"
	"time"
)

// Post is a single social media post record, regardless of which source produced it
type Post struct {
	ID        string    `json:"post_id"`
	Platform  string    `json:"platform"`
	Topic     string    `json:"topic"`
	Content   string    `json:"content"`
	Hashtags  string    `json:"hashtags"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Region    string    `json:"region"`
	Likes     int       `json:"likes"`
	Shares    int       `json:"shares"`
	Comments  int       `json:"comments"`
	Sentiment string    `json:"sentiment"`
}

// Eligible reports whether the record carries the fields every analysis needs.
// Records without an id, topic or timestamp are skipped rather than rejected.
func (p Post) Eligible() bool {
	return p.ID != "" && strings.TrimSpace(p.Topic) != "" && !p.Timestamp.IsZero()
}

// RawEngagement is the plain interaction count used for threshold filtering
func (p Post) RawEngagement() int {
	return p.Likes + p.Shares + p.Comments
}

// WeightedEngagement weights shares and comments above likes and is used
// wherever trends are accumulated or ranked
func (p Post) WeightedEngagement() int {
	return p.Likes + 2*p.Shares + 3*p.Comments
}

// HashtagList splits the raw comma separated hashtag field into cleaned tokens,
// keeping the original casing
func (p Post) HashtagList() []string {
	if p.Hashtags == "" {
		return nil
	}

	var tags []string
	for _, raw := range strings.Split(p.Hashtags, ",") {
		tag := strings.ReplaceAll(strings.TrimSpace(raw), "#", "")
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}

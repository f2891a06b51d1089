// internal/adapter/social/twitter.go

package social

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"trendminer/internal/domain/post"
)

const twitterHost = "https://api.twitter.com"

// authorize attaches the bearer token to outgoing API requests
type authorize struct {
	token string
}

func (a authorize) Add(req *http.Request) {
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", a.token))
}

// TwitterConfig holds the search parameters for the live source
type TwitterConfig struct {
	BearerToken string
	Query       string
	MaxResults  int
}

// TwitterSource pulls recent tweets matching a query and presents them as
// posts under that query's topic
type TwitterSource struct {
	client     *twitter.Client
	query      string
	maxResults int
	logger     *slog.Logger
}

// NewTwitterSource creates a live source against the public API. MaxResults
// is clamped to the 10..100 range the recent search endpoint accepts.
func NewTwitterSource(cfg TwitterConfig, logger *slog.Logger) *TwitterSource {
	maxResults := cfg.MaxResults
	if maxResults < 10 {
		maxResults = 10
	}
	if maxResults > 100 {
		maxResults = 100
	}

	client := &twitter.Client{
		Authorizer: authorize{token: cfg.BearerToken},
		Client: &http.Client{
			Timeout: time.Second * 10,
		},
		Host: twitterHost,
	}

	return &TwitterSource{
		client:     client,
		query:      cfg.Query,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Name returns the source name
func (s *TwitterSource) Name() string { return "twitter" }

// FetchPosts runs one recent search and maps the tweets onto the post shape.
// Tweets without a parseable creation time are skipped.
func (s *TwitterSource) FetchPosts(ctx context.Context) ([]post.Post, error) {
	opts := twitter.TweetRecentSearchOpts{
		MaxResults: s.maxResults,
		TweetFields: []twitter.TweetField{
			twitter.TweetFieldCreatedAt,
			twitter.TweetFieldAuthorID,
			twitter.TweetFieldPublicMetrics,
			twitter.TweetFieldEntities,
		},
	}

	resp, err := s.client.TweetRecentSearch(ctx, s.query, opts)
	if err != nil {
		return nil, fmt.Errorf("error searching recent tweets: %w", err)
	}
	if resp.Raw == nil {
		return []post.Post{}, nil
	}

	posts := make([]post.Post, 0, len(resp.Raw.Tweets))
	skipped := 0
	for _, tweet := range resp.Raw.Tweets {
		if tweet == nil {
			continue
		}

		ts, err := time.Parse(time.RFC3339, tweet.CreatedAt)
		if err != nil {
			skipped++
			continue
		}

		p := post.Post{
			ID:        tweet.ID,
			Platform:  "Twitter",
			Topic:     s.query,
			Content:   tweet.Text,
			Author:    tweet.AuthorID,
			Timestamp: ts.UTC(),
		}
		if tweet.PublicMetrics != nil {
			p.Likes = tweet.PublicMetrics.Likes
			p.Shares = tweet.PublicMetrics.Retweets
			p.Comments = tweet.PublicMetrics.Replies
		}
		if tweet.Entities != nil && len(tweet.Entities.HashTags) > 0 {
			tags := make([]string, 0, len(tweet.Entities.HashTags))
			for _, tag := range tweet.Entities.HashTags {
				tags = append(tags, tag.Tag)
			}
			p.Hashtags = strings.Join(tags, ",")
		}

		posts = append(posts, p)
	}

	s.logger.Info("twitter search completed", "query", s.query, "posts", len(posts), "skipped", skipped)

	return posts, nil
}

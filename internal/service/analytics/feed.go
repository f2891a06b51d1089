// internal/service/analytics/feed.go

package analytics

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"trendminer/internal/domain/post"
)

// FeedItem is a post scored against a user's interests
type FeedItem struct {
	Post      post.Post `json:"post"`
	Relevance float64   `json:"relevance"`
}

// FeedResult is a personalized feed with its overall relevance estimate
type FeedResult struct {
	OverallRelevance float64    `json:"overall_relevance"`
	Items            []FeedItem `json:"items"`
}

// Feed ranks the corpus against a comma separated interest list. Interest hits
// are whole-word matches over topic, content and hashtags, blended with
// normalized engagement and an exponential recency decay, then scaled so the
// best post scores 100. Overall relevance averages the top ten posts. An
// optional region restricts the corpus first.
func (s *Service) Feed(interests, region string, limit int) FeedResult {
	result := FeedResult{Items: []FeedItem{}}

	terms := splitInterests(interests)
	if len(terms) == 0 {
		return result
	}

	matchers := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		matchers[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
	}

	posts := s.corpus.CurrentPosts()
	now := time.Now().UTC()

	type scored struct {
		post      post.Post
		relevance float64
	}

	candidates := make([]scored, 0, len(posts))
	var maxEngagement float64
	for _, p := range posts {
		if region != "" && !strings.EqualFold(p.Region, region) {
			continue
		}
		candidates = append(candidates, scored{post: p})
		if e := feedEngagement(p); e > maxEngagement {
			maxEngagement = e
		}
	}
	if len(candidates) == 0 {
		return result
	}

	var maxRelevance float64
	for i := range candidates {
		p := candidates[i].post

		matched := 0.0
		text := strings.ToLower(p.Topic + " " + p.Content + " " + p.Hashtags)
		for _, m := range matchers {
			if m.MatchString(text) {
				matched++
			}
		}

		engagementWeight := 0.0
		if maxEngagement > 0 {
			engagementWeight = feedEngagement(p) / maxEngagement
		}

		recencyWeight := 0.0
		if !p.Timestamp.IsZero() {
			if days := now.Sub(p.Timestamp).Hours() / 24; days >= 0 {
				recencyWeight = math.Exp(-days / 7)
			}
		}

		candidates[i].relevance = matched*0.5 + engagementWeight*0.3 + recencyWeight*0.2
		if candidates[i].relevance > maxRelevance {
			maxRelevance = candidates[i].relevance
		}
	}

	if maxRelevance > 0 {
		for i := range candidates {
			candidates[i].relevance = candidates[i].relevance / maxRelevance * 100
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].relevance == candidates[j].relevance {
			return candidates[i].post.ID < candidates[j].post.ID
		}
		return candidates[i].relevance > candidates[j].relevance
	})

	top := candidates
	if len(top) > 10 {
		top = top[:10]
	}
	var sum float64
	for _, c := range top {
		sum += c.relevance
	}
	result.OverallRelevance = round2(sum / float64(len(top)))

	if limit <= 0 {
		limit = s.config.FeedLimit
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	for _, c := range candidates {
		result.Items = append(result.Items, FeedItem{Post: c.post, Relevance: round2(c.relevance)})
	}

	return result
}

// feedEngagement weighs shares above likes and discounts comments, the blend
// used only for feed ranking
func feedEngagement(p post.Post) float64 {
	return float64(p.Likes) + 2*float64(p.Shares) + 0.5*float64(p.Comments)
}

// splitInterests parses a comma separated interest list into lowered terms
func splitInterests(raw string) []string {
	var terms []string
	for _, part := range strings.Split(raw, ",") {
		term := strings.ToLower(strings.TrimSpace(part))
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

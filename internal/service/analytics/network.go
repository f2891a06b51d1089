// internal/service/analytics/network.go

package analytics

import (
	"fmt"
	"sort"
	"strings"
)

// NetworkNode is one topic in the co-engagement graph
type NetworkNode struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	Size          int    `json:"size"`
	Engagement    int64  `json:"engagement"`
	TotalLikes    int    `json:"total_likes"`
	TotalShares   int    `json:"total_shares"`
	TotalComments int    `json:"total_comments"`
	Category      string `json:"category"`
}

// NetworkEdge connects two topics that share authors
type NetworkEdge struct {
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	Weight       int     `json:"weight"`
	Strength     float64 `json:"strength"`
	Relationship string  `json:"relationship_type"`
}

// TopicNetwork is the author-overlap graph over all topics
type TopicNetwork struct {
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
}

// TopicNetwork builds one node per topic and connects topics whose author
// populations overlap by at least two, keeping the twenty strongest edges
func (s *Service) TopicNetwork() TopicNetwork {
	network := TopicNetwork{Nodes: []NetworkNode{}, Edges: []NetworkEdge{}}

	type stats struct {
		posts    int
		likes    int
		shares   int
		comments int
		authors  map[string]struct{}
	}

	topicStats := make(map[string]*stats)
	for _, p := range s.corpus.CurrentPosts() {
		if p.Topic == "" {
			continue
		}
		st, ok := topicStats[p.Topic]
		if !ok {
			st = &stats{authors: make(map[string]struct{})}
			topicStats[p.Topic] = st
		}
		st.posts++
		st.likes += p.Likes
		st.shares += p.Shares
		st.comments += p.Comments
		if p.Author != "" {
			st.authors[p.Author] = struct{}{}
		}
	}

	topics := make([]string, 0, len(topicStats))
	for topic := range topicStats {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	for _, topic := range topics {
		st := topicStats[topic]
		network.Nodes = append(network.Nodes, NetworkNode{
			ID:            topic,
			Label:         topic,
			Size:          st.posts,
			Engagement:    int64(st.likes) + 2*int64(st.shares) + 3*int64(st.comments),
			TotalLikes:    st.likes,
			TotalShares:   st.shares,
			TotalComments: st.comments,
			Category:      topicCategory(topic),
		})
	}

	for i := 0; i < len(topics); i++ {
		for j := i + 1; j < len(topics); j++ {
			a, b := topicStats[topics[i]], topicStats[topics[j]]
			overlap := 0
			for author := range a.authors {
				if _, ok := b.authors[author]; ok {
					overlap++
				}
			}
			if overlap < 2 {
				continue
			}

			smaller := len(a.authors)
			if len(b.authors) < smaller {
				smaller = len(b.authors)
			}

			network.Edges = append(network.Edges, NetworkEdge{
				Source:       topics[i],
				Target:       topics[j],
				Weight:       overlap,
				Strength:     round2(float64(overlap) / float64(smaller) * 100),
				Relationship: fmt.Sprintf("Author Overlap (%d authors)", overlap),
			})
		}
	}

	sort.Slice(network.Edges, func(i, j int) bool {
		if network.Edges[i].Weight == network.Edges[j].Weight {
			if network.Edges[i].Source == network.Edges[j].Source {
				return network.Edges[i].Target < network.Edges[j].Target
			}
			return network.Edges[i].Source < network.Edges[j].Source
		}
		return network.Edges[i].Weight > network.Edges[j].Weight
	})
	if len(network.Edges) > 20 {
		network.Edges = network.Edges[:20]
	}

	return network
}

// topicCategory maps a topic name onto a coarse category by keyword
func topicCategory(topic string) string {
	switch {
	case strings.Contains(topic, "AI") || strings.Contains(topic, "Tech"):
		return "technology"
	case strings.Contains(topic, "Entertainment") || strings.Contains(topic, "Music"):
		return "entertainment"
	case strings.Contains(topic, "Climate"):
		return "environment"
	case strings.Contains(topic, "Cricket") || strings.Contains(topic, "Sport"):
		return "sports"
	case strings.Contains(topic, "Politic"):
		return "politics"
	case strings.Contains(topic, "Business") || strings.Contains(topic, "Finance"):
		return "business"
	default:
		return "general"
	}
}

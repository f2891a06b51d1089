// internal/service/mining/itemsets.go

package mining

import (
	"math"
	"sort"
	"strings"
	"sync"

	"trendminer/internal/domain/pattern"
	"trendminer/internal/domain/post"
)

// ItemsetConfig contains configuration for itemset mining
type ItemsetConfig struct {
	// MinCount is the occurrence floor below which an itemset is noise
	MinCount int

	// MaxItemsets caps the published itemset list
	MaxItemsets int

	// MaxPerTopic caps how many itemsets one primary topic may claim
	MaxPerTopic int

	// Workers is the number of partitions counted concurrently
	Workers int
}

// itemsetStats holds the running state for one item combination
type itemsetStats struct {
	items  []string
	count  int
	topics map[string]int
}

// MineItemsets counts full item combinations per post and keeps the frequent
// ones, spreading the output across primary topics
func MineItemsets(posts []post.Post, extractor *ItemExtractor, cfg ItemsetConfig) []pattern.FrequentItemset {
	minCount := cfg.MinCount
	if minCount < 1 {
		minCount = 1
	}
	maxPerTopic := cfg.MaxPerTopic
	if maxPerTopic < 1 {
		maxPerTopic = 2
	}

	fold := func(chunk []post.Post) map[string]*itemsetStats {
		stats := make(map[string]*itemsetStats)
		for _, p := range chunk {
			items := extractor.AssociationItems(p)
			if len(items) < 2 {
				continue
			}

			sorted := make([]string, len(items))
			copy(sorted, items)
			sort.Strings(sorted)
			key := strings.Join(sorted, "|")

			is, ok := stats[key]
			if !ok {
				is = &itemsetStats{items: sorted, topics: make(map[string]int)}
				stats[key] = is
			}
			is.count++
			is.topics[p.Topic]++
		}
		return stats
	}

	merged := make(map[string]*itemsetStats)
	chunks := partition(len(posts), cfg.Workers)
	if len(chunks) <= 1 {
		merged = fold(posts)
	} else {
		partials := make([]map[string]*itemsetStats, len(chunks))
		var wg sync.WaitGroup
		for i, bounds := range chunks {
			wg.Add(1)
			go func(i int, chunk []post.Post) {
				defer wg.Done()
				partials[i] = fold(chunk)
			}(i, posts[bounds[0]:bounds[1]])
		}
		wg.Wait()

		for _, partial := range partials {
			for key, s := range partial {
				d, ok := merged[key]
				if !ok {
					merged[key] = s
					continue
				}
				d.count += s.count
				for topic, n := range s.topics {
					d.topics[topic] += n
				}
			}
		}
	}

	total := len(posts)
	var itemsets []pattern.FrequentItemset
	for _, is := range merged {
		if is.count < minCount {
			continue
		}

		popularity := 0
		if total > 0 {
			popularity = int(math.Min(80, math.Round(float64(is.count)/float64(total)*1200)))
		}

		itemsets = append(itemsets, pattern.FrequentItemset{
			Items:        is.items,
			Count:        is.count,
			Popularity:   popularity,
			PrimaryTopic: primaryTopic(is.topics),
		})
	}

	sort.Slice(itemsets, func(i, j int) bool {
		if itemsets[i].Count == itemsets[j].Count {
			return strings.Join(itemsets[i].Items, "|") < strings.Join(itemsets[j].Items, "|")
		}
		return itemsets[i].Count > itemsets[j].Count
	})

	// Walk the ranking, letting each primary topic claim at most a few slots
	picked := make([]pattern.FrequentItemset, 0, cfg.MaxItemsets)
	perTopic := make(map[string]int)
	for _, is := range itemsets {
		if cfg.MaxItemsets > 0 && len(picked) >= cfg.MaxItemsets {
			break
		}
		if perTopic[is.PrimaryTopic] >= maxPerTopic {
			continue
		}
		perTopic[is.PrimaryTopic]++
		picked = append(picked, is)
	}

	return picked
}

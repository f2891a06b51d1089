// internal/service/mining/associations.go

package mining

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"trendminer/internal/domain/pattern"
	"trendminer/internal/domain/post"
)

const maxRuleExamples = 5

// AssociationConfig contains configuration for pair mining
type AssociationConfig struct {
	// MinCount is the occurrence floor below which a pair is noise
	MinCount int

	// PeriodLength is the bucket width used for growth estimation
	PeriodLength time.Duration

	// MaxRules caps the published rule list
	MaxRules int

	// Workers is the number of partitions counted concurrently
	Workers int
}

// pairStats holds the running state for one item pair
type pairStats struct {
	itemA     string
	itemB     string
	count     int
	topics    map[string]int
	platforms map[string]int
	examples  []post.Post
}

// MineAssociations finds item pairs that co-occur across posts and turns the
// frequent ones into rules with popularity, growth and direction estimates
func MineAssociations(posts []post.Post, extractor *ItemExtractor, cfg AssociationConfig) []pattern.AssociationRule {
	minCount := cfg.MinCount
	if minCount < 1 {
		minCount = 1
	}

	fold := func(chunk []post.Post) map[string]*pairStats {
		stats := make(map[string]*pairStats)
		for _, p := range chunk {
			items := extractor.AssociationItems(p)
			if len(items) < 2 {
				continue
			}
			for i := 0; i < len(items); i++ {
				for j := i + 1; j < len(items); j++ {
					a, b := items[i], items[j]
					if a > b {
						a, b = b, a
					}
					key := a + "|" + b

					ps, ok := stats[key]
					if !ok {
						ps = &pairStats{
							itemA:     a,
							itemB:     b,
							topics:    make(map[string]int),
							platforms: make(map[string]int),
						}
						stats[key] = ps
					}

					ps.count++
					ps.topics[p.Topic]++
					ps.platforms[p.Platform]++
					if len(ps.examples) < maxRuleExamples {
						ps.examples = append(ps.examples, p)
					}
				}
			}
		}
		return stats
	}

	merged := make(map[string]*pairStats)
	chunks := partition(len(posts), cfg.Workers)
	if len(chunks) <= 1 {
		merged = fold(posts)
	} else {
		partials := make([]map[string]*pairStats, len(chunks))
		var wg sync.WaitGroup
		for i, bounds := range chunks {
			wg.Add(1)
			go func(i int, chunk []post.Post) {
				defer wg.Done()
				partials[i] = fold(chunk)
			}(i, posts[bounds[0]:bounds[1]])
		}
		wg.Wait()

		// Merge in partition order so example lists keep corpus order
		for _, partial := range partials {
			mergePairStats(merged, partial)
		}
	}

	corpus := newCorpusIndex(posts)
	periodSeconds := int64(cfg.PeriodLength / time.Second)
	if periodSeconds <= 0 {
		periodSeconds = int64((7 * 24 * time.Hour) / time.Second)
	}

	var rules []pattern.AssociationRule
	for key, ps := range merged {
		if ps.count < minCount {
			continue
		}

		growth := round2(growthEstimate(key, ps.examples, periodSeconds))

		rules = append(rules, pattern.AssociationRule{
			Items:        []string{ps.itemA, ps.itemB},
			Description:  fmt.Sprintf("%s and %s are mentioned together", ps.itemA, ps.itemB),
			Count:        ps.count,
			Popularity:   popularityScore(ps, corpus),
			GrowthRate:   growth,
			Direction:    directionLabel(growth),
			Platforms:    topCounted(ps.platforms, 3),
			PrimaryTopic: primaryTopic(ps.topics),
			Examples:     ps.examples,
		})
	}

	return diversifyRules(rules, cfg.MaxRules)
}

// mergePairStats folds src into dst, keying by pair identity
func mergePairStats(dst, src map[string]*pairStats) {
	for key, s := range src {
		d, ok := dst[key]
		if !ok {
			dst[key] = s
			continue
		}

		d.count += s.count
		for topic, n := range s.topics {
			d.topics[topic] += n
		}
		for platform, n := range s.platforms {
			d.platforms[platform] += n
		}
		d.examples = append(d.examples, s.examples...)
		if len(d.examples) > maxRuleExamples {
			d.examples = d.examples[:maxRuleExamples]
		}
	}
}

// popularityScore relates pair frequency to the number of posts that mention
// either item at all. Pairs nothing refers to fall back to a corpus-wide
// frequency estimate. Capped at 85 so no rule claims near-certainty.
func popularityScore(ps *pairStats, corpus *corpusIndex) int {
	contextual := corpus.referencingEither(ps.itemA, ps.itemB)
	if contextual == 0 {
		if corpus.size == 0 {
			return 0
		}
		return int(math.Min(85, math.Round(float64(ps.count)/float64(corpus.size)*2500)))
	}

	return int(math.Min(85, math.Round(float64(ps.count)/float64(contextual)*100)))
}

// growthEstimate buckets a pair's example posts by period and compares first,
// middle and last bucket counts. Pairs confined to a single period get a
// small jitter seeded from the pair key, so reruns stay reproducible.
func growthEstimate(key string, examples []post.Post, periodSeconds int64) float64 {
	buckets := make(map[int64]int)
	for _, p := range examples {
		period := int64(math.Floor(float64(p.Timestamp.Unix()) / float64(periodSeconds)))
		buckets[period]++
	}

	if len(buckets) < 2 {
		return seededJitter(key)
	}

	periods := make([]int64, 0, len(buckets))
	for period := range buckets {
		periods = append(periods, period)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })

	first := buckets[periods[0]]
	middle := buckets[periods[len(periods)/2]]
	last := buckets[periods[len(periods)-1]]

	rawGrowth := (float64(last) - float64(first)) / math.Max(float64(first), 1) * 100

	if rawGrowth >= 0 {
		growth := 50 + rawGrowth/4
		if first <= middle && middle <= last && last > first {
			growth += 15
		}
		return math.Min(100, growth)
	}

	return math.Max(-50, rawGrowth/2)
}

// seededJitter maps a pair key onto a bounded pseudo growth value in [-10, 10]
func seededJitter(key string) float64 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return float64(int(h.Sum32()%21)) - 10
}

// directionLabel maps a growth rate onto its trend direction
func directionLabel(growth float64) pattern.Direction {
	switch {
	case growth > 50:
		return pattern.DirectionRisingFast
	case growth > 15:
		return pattern.DirectionGrowing
	case growth < -50:
		return pattern.DirectionFading
	case growth < -15:
		return pattern.DirectionDeclining
	default:
		return pattern.DirectionStable
	}
}

// diversifyRules picks one best rule per primary topic before backfilling by
// count, skipping duplicate descriptions throughout
func diversifyRules(rules []pattern.AssociationRule, limit int) []pattern.AssociationRule {
	if limit <= 0 {
		limit = len(rules)
	}

	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Count == rules[j].Count {
			return ruleKey(rules[i]) < ruleKey(rules[j])
		}
		return rules[i].Count > rules[j].Count
	})

	picked := make([]pattern.AssociationRule, 0, limit)
	seenDescription := make(map[string]struct{})
	seenTopic := make(map[string]struct{})

	for _, r := range rules {
		if len(picked) >= limit {
			break
		}
		if _, ok := seenTopic[r.PrimaryTopic]; ok {
			continue
		}
		if _, ok := seenDescription[r.Description]; ok {
			continue
		}
		seenTopic[r.PrimaryTopic] = struct{}{}
		seenDescription[r.Description] = struct{}{}
		picked = append(picked, r)
	}

	for _, r := range rules {
		if len(picked) >= limit {
			break
		}
		if _, ok := seenDescription[r.Description]; ok {
			continue
		}
		seenDescription[r.Description] = struct{}{}
		picked = append(picked, r)
	}

	return picked
}

func ruleKey(r pattern.AssociationRule) string {
	return r.Items[0] + "|" + r.Items[1]
}

// primaryTopic is the most frequent contributing topic, ties broken
// alphabetically
func primaryTopic(topics map[string]int) string {
	var best string
	bestCount := -1
	for topic, count := range topics {
		if count > bestCount || (count == bestCount && topic < best) {
			best = topic
			bestCount = count
		}
	}
	return best
}

// topCounted returns the n most frequent keys, ties broken alphabetically
func topCounted(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] == counts[keys[j]] {
			return keys[i] < keys[j]
		}
		return counts[keys[i]] > counts[keys[j]]
	})

	if len(keys) > n {
		keys = keys[:n]
	}

	return keys
}

// corpusIndex precomputes lower-cased post fields for reference counting
type corpusIndex struct {
	size    int
	content []string
	topics  []string
	tags    [][]string
}

func newCorpusIndex(posts []post.Post) *corpusIndex {
	idx := &corpusIndex{
		size:    len(posts),
		content: make([]string, len(posts)),
		topics:  make([]string, len(posts)),
		tags:    make([][]string, len(posts)),
	}

	for i, p := range posts {
		idx.content[i] = strings.ToLower(p.Content)
		idx.topics[i] = strings.ToLower(strings.TrimSpace(p.Topic))
		tags := p.HashtagList()
		lowered := make([]string, len(tags))
		for j, tag := range tags {
			lowered[j] = strings.ToLower(tag)
		}
		idx.tags[i] = lowered
	}

	return idx
}

// referencingEither counts posts mentioning either item in their content,
// topic or hashtags
func (idx *corpusIndex) referencingEither(itemA, itemB string) int {
	a := strings.ToLower(itemA)
	b := strings.ToLower(itemB)

	count := 0
	for i := 0; i < idx.size; i++ {
		if idx.references(i, a) || idx.references(i, b) {
			count++
		}
	}

	return count
}

func (idx *corpusIndex) references(i int, item string) bool {
	if item == "" {
		return false
	}
	if strings.Contains(idx.content[i], item) {
		return true
	}
	if idx.topics[i] == item {
		return true
	}
	for _, tag := range idx.tags[i] {
		if tag == item {
			return true
		}
	}
	return false
}

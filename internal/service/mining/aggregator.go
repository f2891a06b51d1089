// internal/service/mining/aggregator.go

package mining

import (
	"math"
	"sort"
	"sync"
	"time"

	"trendminer/internal/domain/post"
	"trendminer/internal/domain/trend"
)

// AggregatorConfig contains configuration for trend accumulation
type AggregatorConfig struct {
	// MinEngagement is the raw engagement floor a post must clear to count
	MinEngagement int

	// PeriodLength is the width of one engagement bucket
	PeriodLength time.Duration

	// MinMembers is the smallest member count a trend survives with
	MinMembers int

	// Workers is the number of partitions counted concurrently
	Workers int
}

// accumulator holds the running state for one trend key
type accumulator struct {
	key        string
	seen       map[string]struct{}
	posts      []post.Post
	engagement int64
	periods    map[int64]int64
	topics     map[string]struct{}
	platforms  map[string]struct{}
}

// arena stores accumulators in a dense slice. Each key gets a stable integer
// handle on first sighting; the side table maps keys back to handles.
type arena struct {
	handles map[string]int
	accs    []accumulator
}

func newArena() *arena {
	return &arena{handles: make(map[string]int)}
}

// handle returns the accumulator index for a key, creating it if needed
func (a *arena) handle(key string) int {
	if h, ok := a.handles[key]; ok {
		return h
	}

	h := len(a.accs)
	a.accs = append(a.accs, accumulator{
		key:       key,
		seen:      make(map[string]struct{}),
		periods:   make(map[int64]int64),
		topics:    make(map[string]struct{}),
		platforms: make(map[string]struct{}),
	})
	a.handles[key] = h

	return h
}

// add folds one post into the accumulator for key. Posts already counted for
// this key are ignored, so membership stays a set.
func (a *arena) add(key string, p post.Post, periodSeconds int64) {
	acc := &a.accs[a.handle(key)]

	if _, ok := acc.seen[p.ID]; ok {
		return
	}
	acc.seen[p.ID] = struct{}{}

	weighted := int64(p.WeightedEngagement())
	period := int64(math.Floor(float64(p.Timestamp.Unix()) / float64(periodSeconds)))

	acc.posts = append(acc.posts, p)
	acc.engagement += weighted
	acc.periods[period] += weighted
	acc.topics[p.Topic] = struct{}{}
	acc.platforms[p.Platform] = struct{}{}
}

// merge folds another arena into this one by re-adding its member posts, so
// a post seen in two partitions still counts once. Addition and set union are
// associative and commutative, so partition order cannot change totals.
func (a *arena) merge(other *arena, periodSeconds int64) {
	for _, src := range other.accs {
		for _, p := range src.posts {
			a.add(src.key, p, periodSeconds)
		}
	}
}

// BuildTrends accumulates trends from the corpus. Counting is partitioned
// across workers and merged by key; the result is identical for any worker
// count.
func BuildTrends(posts []post.Post, extractor *ItemExtractor, cfg AggregatorConfig) []trend.Trend {
	periodSeconds := int64(cfg.PeriodLength / time.Second)
	if periodSeconds <= 0 {
		periodSeconds = int64((7 * 24 * time.Hour) / time.Second)
	}

	minMembers := cfg.MinMembers
	if minMembers < 2 {
		minMembers = 2
	}

	fold := func(chunk []post.Post) *arena {
		a := newArena()
		for _, p := range chunk {
			if p.RawEngagement() < cfg.MinEngagement {
				continue
			}
			for _, key := range extractor.TrendKeys(p) {
				a.add(key, p, periodSeconds)
			}
		}
		return a
	}

	merged := newArena()
	chunks := partition(len(posts), cfg.Workers)
	if len(chunks) <= 1 {
		merged = fold(posts)
	} else {
		partials := make([]*arena, len(chunks))
		var wg sync.WaitGroup
		for i, bounds := range chunks {
			wg.Add(1)
			go func(i int, chunk []post.Post) {
				defer wg.Done()
				partials[i] = fold(chunk)
			}(i, posts[bounds[0]:bounds[1]])
		}
		wg.Wait()

		// Merge in partition order so handle assignment stays deterministic
		for _, partial := range partials {
			merged.merge(partial, periodSeconds)
		}
	}

	var trends []trend.Trend
	for _, acc := range merged.accs {
		if len(acc.seen) < minMembers {
			continue
		}
		trends = append(trends, exportTrend(acc))
	}

	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Key < trends[j].Key
	})

	return trends
}

// exportTrend converts accumulator state into the domain representation with
// members in chronological order
func exportTrend(acc accumulator) trend.Trend {
	members := make([]post.Post, len(acc.posts))
	copy(members, acc.posts)
	sort.Slice(members, func(i, j int) bool {
		if members[i].Timestamp.Equal(members[j].Timestamp) {
			return members[i].ID < members[j].ID
		}
		return members[i].Timestamp.Before(members[j].Timestamp)
	})

	periods := make(map[int64]int64, len(acc.periods))
	for period, engagement := range acc.periods {
		periods[period] = engagement
	}

	return trend.Trend{
		Key:        acc.key,
		Posts:      members,
		Engagement: acc.engagement,
		Periods:    periods,
		Topics:     sortedKeys(acc.topics),
		Platforms:  sortedKeys(acc.platforms),
	}
}

// partition splits n elements into contiguous index ranges, one per worker
func partition(n, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if n == 0 {
		return nil
	}
	if workers > n {
		workers = n
	}

	size := n / workers
	rest := n % workers

	chunks := make([][2]int, 0, workers)
	start := 0
	for i := 0; i < workers; i++ {
		end := start + size
		if i < rest {
			end++
		}
		chunks = append(chunks, [2]int{start, end})
		start = end
	}

	return chunks
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// internal/service/mining/sequences.go

package mining

import (
	"math"
	"sort"

	"trendminer/internal/domain/pattern"
	"trendminer/internal/domain/post"
)

// SequenceConfig contains configuration for sequential pattern mining
type SequenceConfig struct {
	// MinCount is the occurrence floor below which a transition is noise
	MinCount int

	// MaxSequences caps the published transition list
	MaxSequences int
}

type transitionKey struct {
	from string
	to   string
}

type transitionStats struct {
	count      int
	totalHours float64
}

// MineSequences finds directed topic transitions in per-author posting
// histories and keeps the recurring ones
func MineSequences(posts []post.Post, cfg SequenceConfig) []pattern.SequentialPattern {
	minCount := cfg.MinCount
	if minCount < 1 {
		minCount = 1
	}

	transitions, authorCount := transitionCounts(posts)

	sequences := make([]pattern.SequentialPattern, 0, len(transitions))
	for key, stats := range transitions {
		if stats.count < minCount {
			continue
		}

		meanHours := stats.totalHours / float64(stats.count)

		sequences = append(sequences, pattern.SequentialPattern{
			Sequence:    []string{key.from, key.to},
			FromTopic:   key.from,
			ToTopic:     key.to,
			Count:       stats.count,
			Strength:    patternStrength(stats.count, authorCount),
			AvgDuration: durationBand(meanHours),
		})
	}

	sort.Slice(sequences, func(i, j int) bool {
		if sequences[i].Count == sequences[j].Count {
			if sequences[i].FromTopic == sequences[j].FromTopic {
				return sequences[i].ToTopic < sequences[j].ToTopic
			}
			return sequences[i].FromTopic < sequences[j].FromTopic
		}
		return sequences[i].Count > sequences[j].Count
	})

	if cfg.MaxSequences > 0 && len(sequences) > cfg.MaxSequences {
		sequences = sequences[:cfg.MaxSequences]
	}

	return sequences
}

// transitionCounts groups posts by author, orders each history in time, and
// counts every consecutive pair with differing topics. Two authors making the
// same move contribute two occurrences.
func transitionCounts(posts []post.Post) (map[transitionKey]*transitionStats, int) {
	histories := make(map[string][]post.Post)
	for _, p := range posts {
		if p.Author == "" {
			continue
		}
		histories[p.Author] = append(histories[p.Author], p)
	}

	transitions := make(map[transitionKey]*transitionStats)
	for _, history := range histories {
		sort.Slice(history, func(i, j int) bool {
			if history[i].Timestamp.Equal(history[j].Timestamp) {
				return history[i].ID < history[j].ID
			}
			return history[i].Timestamp.Before(history[j].Timestamp)
		})

		for i := 1; i < len(history); i++ {
			prev, cur := history[i-1], history[i]
			if prev.Topic == cur.Topic {
				continue
			}

			key := transitionKey{from: prev.Topic, to: cur.Topic}
			stats, ok := transitions[key]
			if !ok {
				stats = &transitionStats{}
				transitions[key] = stats
			}
			stats.count++
			stats.totalHours += cur.Timestamp.Sub(prev.Timestamp).Hours()
		}
	}

	return transitions, len(histories)
}

// patternStrength scales occurrence count against the author population,
// holding small populations to a floor of 20 and capping at 85
func patternStrength(count, authorCount int) int {
	base := 20 + float64(count)/math.Max(float64(authorCount), 20)*100*15
	return int(math.Min(85, math.Round(base)))
}

// durationBand buckets a mean elapsed time into a coarse label
func durationBand(hours float64) string {
	switch {
	case hours < 24:
		return "under 1 day"
	case hours < 72:
		return "1-3 days"
	case hours < 168:
		return "3-7 days"
	case hours < 336:
		return "1-2 weeks"
	default:
		return "2+ weeks"
	}
}
